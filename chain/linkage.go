package chain

import (
	"time"

	"docchain-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultPaymentMethod is applied to receipt drafts.
const DefaultPaymentMethod = "bank_transfer"

// CreateLinkedDocument produces a draft child document from a source
// (quotation→invoice or invoice→receipt) after checking the workflow gates,
// in order, first failure wins:
//
//  1. targetType must be invoice or receipt
//  2. invoice: source must be a quotation, and not cancelled/revised
//  3. receipt: source must be an invoice with status paid
//  4. no real (non-pending) child of that type may already be linked
//
// On success the source is mutated in place: a stale pending placeholder or
// deleted-child record for the target type is cleared, and the forward link
// is set to the pending sentinel until the caller persists the draft and
// replaces it with the real id. The draft itself is returned for the caller
// to complete and store; nothing is written here.
func CreateLinkedDocument(source *models.Document, targetType string, now time.Time) (*models.Document, error) {
	if targetType != models.TypeInvoice && targetType != models.TypeReceipt {
		return nil, ruleErr(ErrInvalidWorkflowTransition, "unsupported target type %q", targetType)
	}

	switch targetType {
	case models.TypeInvoice:
		if source.Type != models.TypeQuotation {
			return nil, ruleErr(ErrInvalidWorkflowTransition, "an invoice can only be generated from a quotation, not a %s", source.Type)
		}
		if source.Status == models.StatusCancelled || source.Status == models.StatusRevised {
			return nil, ruleErr(ErrPreconditionNotMet, "quotation %s is %s", source.DocumentNumber, source.Status)
		}
	case models.TypeReceipt:
		if source.Type != models.TypeInvoice {
			return nil, ruleErr(ErrInvalidWorkflowTransition, "a receipt can only be generated from an invoice, not a %s", source.Type)
		}
		if source.Status != models.StatusPaid {
			return nil, ruleErr(ErrPreconditionNotMet, "invoice %s must be paid before a receipt can be issued", source.DocumentNumber)
		}
	}

	if existing := source.LinkedID(targetType); existing != "" && existing != models.LinkPending {
		return nil, ruleErr(ErrDuplicateLink, "source %s already has a linked %s (%s)", source.DocumentNumber, targetType, existing)
	}

	// Compute totals before touching the source: a bad tax config must not
	// leave partial state behind.
	breakdown, err := CalculateTaxBreakdown(ItemsSubtotal(source.Items), source.TaxConfig)
	if err != nil {
		return nil, err
	}

	// Recreate semantics: a stale pending placeholder or a deleted-child
	// record makes room for a fresh link.
	source.ClearDeletedLink(targetType)
	source.SetLinkedID(targetType, models.LinkPending)

	chainID := source.ChainID
	if chainID == "" {
		chainID = uuid.NewString()
		source.ChainID = chainID
	}

	draft := &models.Document{
		Type:                 targetType,
		DocumentNumber:       models.NumberAuto,
		Status:               models.StatusPending,
		CustomerID:           source.CustomerID,
		Customer:             source.Customer,
		Items:                copyItems(source.Items),
		TaxConfig:            source.TaxConfig,
		ChainID:              chainID,
		SourceDocumentID:     source.Id,
		SourceDocumentNumber: source.DocumentNumber,
		PaymentTerms:         source.PaymentTerms,
		Notes:                source.Notes,
		PartialPayment:       source.PartialPayment,
		Installment:          source.Installment,
	}

	draft.Subtotal = breakdown.Subtotal
	draft.VATAmount = breakdown.VATAmount
	draft.WHTAmount = breakdown.WithholdingAmount
	draft.GrossUpAmount = breakdown.GrossUpAmount
	draft.Total = breakdown.Total

	switch targetType {
	case models.TypeInvoice:
		// The quotation's validity window becomes the payment deadline.
		if source.ValidUntil != nil {
			due := *source.ValidUntil
			draft.DueDate = &due
		}
	case models.TypeReceipt:
		paymentDate := now
		draft.PaymentDate = &paymentDate
		draft.PaymentMethod = DefaultPaymentMethod
		draft.PaidAmount = receiptAmount(source, breakdown)
	}

	return draft, nil
}

// receiptAmount is the amount a receipt collects: the chain total, or the
// installment remainder mid-installment, reduced by any active partial
// payment.
func receiptAmount(source *models.Document, breakdown Breakdown) float64 {
	base := breakdown.Total
	if source.Installment.Enabled && source.Installment.RemainingAmount > 0 {
		base = source.Installment.RemainingAmount
	}
	if source.PartialPayment.Enabled {
		switch source.PartialPayment.Mode {
		case "percentage":
			base = base * (1 - source.PartialPayment.Value/100)
		case "fixed":
			base = base - source.PartialPayment.Value
		}
		if base < 0 {
			base = 0
		}
	}
	return round2(decimal.NewFromFloat(base))
}

func copyItems(items []models.LineItem) []models.LineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]models.LineItem, len(items))
	for i, it := range items {
		out[i] = models.LineItem{
			ServiceID:   it.ServiceID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		}
	}
	return out
}
