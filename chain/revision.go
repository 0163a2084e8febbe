package chain

import (
	"fmt"
	"regexp"
	"time"

	"docchain-backend/models"
)

// NextRevisionNumber scans the pool for numbers matching <base>-R<N> and
// returns max(N)+1, or 1 when no revision exists yet.
func NextRevisionNumber(pool []models.Document, baseDocumentNumber string) int {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(baseDocumentNumber) + `-R(\d+)$`)
	max := 0
	for _, d := range pool {
		m := pattern.FindStringSubmatch(d.DocumentNumber)
		if m == nil {
			continue
		}
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		if n > max {
			max = n
		}
	}
	return max + 1
}

// RevisionNumberFor formats the document number of revision n of base.
func RevisionNumberFor(base string, n int) string {
	return fmt.Sprintf("%s-R%d", base, n)
}

// CreateRevision produces a draft that supersedes doc and marks doc revised.
// Revising a revision chains off the same original, so QT-001-R1 revised
// again yields QT-001-R2, not QT-001-R1-R1. The draft is returned for the
// caller to persist along with the mutated source.
func CreateRevision(doc *models.Document, pool []models.Document, now time.Time) (*models.Document, error) {
	if doc.Status == models.StatusCancelled {
		return nil, ruleErr(ErrPreconditionNotMet, "cannot revise cancelled document %s", doc.DocumentNumber)
	}

	base := doc.DocumentNumber
	originalID := doc.Id
	if doc.Revision() && doc.OriginalDocumentNumber != "" {
		base = doc.OriginalDocumentNumber
		if doc.OriginalDocumentID != "" {
			originalID = doc.OriginalDocumentID
		}
	}
	n := NextRevisionNumber(pool, base)

	draft := &models.Document{
		Type:                   doc.Type,
		DocumentNumber:         RevisionNumberFor(base, n),
		Status:                 models.StatusPending,
		CustomerID:             doc.CustomerID,
		Customer:               doc.Customer,
		Items:                  copyItems(doc.Items),
		TaxConfig:              doc.TaxConfig,
		ChainID:                doc.ChainID,
		PaymentTerms:           doc.PaymentTerms,
		Notes:                  doc.Notes,
		PartialPayment:         doc.PartialPayment,
		Installment:            doc.Installment,
		IsRevision:             true,
		RevisionNumber:         n,
		OriginalDocumentID:     originalID,
		OriginalDocumentNumber: base,
		Subtotal:               doc.Subtotal,
		VATAmount:              doc.VATAmount,
		WHTAmount:              doc.WHTAmount,
		GrossUpAmount:          doc.GrossUpAmount,
		Total:                  doc.Total,
	}
	if doc.ValidUntil != nil {
		v := *doc.ValidUntil
		draft.ValidUntil = &v
	}
	if doc.DueDate != nil {
		v := *doc.DueDate
		draft.DueDate = &v
	}
	// Explicit creation time keeps revisions in issue order when the chain
	// view sorts within a type.
	draft.CreatedAt = now

	doc.Status = models.StatusRevised
	return draft, nil
}

// RetractRevision restores the original document's status when its last
// active revision is deleted: approved for a quotation, pending for any
// other type. With another revision of the same original still in the pool,
// the original stays revised. Returns true when the original was changed.
func RetractRevision(revision models.Document, original *models.Document, pool []models.Document) bool {
	if original == nil || original.Status != models.StatusRevised {
		return false
	}
	for _, d := range pool {
		if d.Id == revision.Id || d.Id == original.Id {
			continue
		}
		if d.Revision() && d.OriginalDocumentID == original.Id {
			return false // another revision is still active
		}
	}
	if original.Type == models.TypeQuotation {
		original.Status = models.StatusApproved
	} else {
		original.Status = models.StatusPending
	}
	return true
}
