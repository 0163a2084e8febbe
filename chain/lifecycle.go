package chain

import (
	"time"

	"docchain-backend/models"
)

// DeleteDocument computes the cascade updates required before doc is removed
// from the pool:
//
//   - the source document's forward link moves into its deleted-child
//     records, so recreation can be told apart from first creation;
//   - when doc is a revision, the original's status is restored if no other
//     revision remains (see RetractRevision).
//
// The returned documents are updated copies the caller must persist in the
// same transaction as the deletion. Deleting a document with no linkage
// produces no updates; the operation is idempotent at the caller level (an
// already-absent doc simply yields nothing to cascade).
func DeleteDocument(doc models.Document, pool []models.Document, now time.Time) []models.Document {
	var updates []models.Document

	if doc.ChainID != "" && doc.SourceDocumentID != "" {
		if source, ok := findByID(pool, doc.SourceDocumentID); ok {
			linked := source.LinkedID(doc.Type)
			if linked == doc.Id || linked == models.LinkPending {
				source.SetLinkedID(doc.Type, "")
				source.SetDeletedLink(doc.Type, models.DeletedLinkRecord{
					ID:             doc.Id,
					DocumentNumber: doc.DocumentNumber,
					DeletedAt:      now,
				})
				updates = append(updates, source)
			}
		}
	}

	if doc.Revision() && doc.OriginalDocumentID != "" {
		// Reuse the already-updated copy when the original is also the
		// source, so neither mutation is lost.
		original, ok := models.Document{}, false
		for i := range updates {
			if updates[i].Id == doc.OriginalDocumentID {
				original, ok = updates[i], true
			}
		}
		if !ok {
			original, ok = findByID(pool, doc.OriginalDocumentID)
		}
		if ok && RetractRevision(doc, &original, pool) {
			updates = appendOrReplace(updates, original)
		}
	}

	return updates
}

// ArchiveChain stamps archivedAt on every member of the chain and returns
// the updated copies. Archived documents drop out of active views but stay
// deletable through DeleteChain.
func ArchiveChain(chainID string, pool []models.Document, now time.Time) []models.Document {
	members := ChainMembers(pool, chainID)
	archived := make([]models.Document, 0, len(members))
	for _, d := range members {
		if d.Archived() {
			continue
		}
		at := now
		d.ArchivedAt = &at
		archived = append(archived, d)
	}
	return archived
}

// DeleteChain plans the deletion of every member document of a chain. It
// returns the members to delete (in canonical chain order, children first so
// no forward reference ever dangles) plus cascade updates for documents
// outside the chain, computed via the single-document delete path.
func DeleteChain(chainID string, pool []models.Document, now time.Time) (toDelete, updates []models.Document) {
	members := ChainMembers(pool, chainID)
	inChain := make(map[string]bool, len(members))
	for _, m := range members {
		inChain[m.Id] = true
	}

	// Children before parents: receipts, invoices, then quotations.
	for rank := 3; rank >= 1; rank-- {
		for _, m := range members {
			if rankOf(m.Type) == rank {
				toDelete = append(toDelete, m)
			}
		}
	}
	for _, m := range members {
		if rankOf(m.Type) == 4 {
			toDelete = append(toDelete, m)
		}
	}

	// Cascades run against the pool minus the chain itself: a member about
	// to be deleted must not count as a still-active revision, or an
	// out-of-chain original revised twice inside this chain would stay
	// revised forever.
	survivors := make([]models.Document, 0, len(pool))
	for _, d := range pool {
		if !inChain[d.Id] {
			survivors = append(survivors, d)
		}
	}

	for _, m := range toDelete {
		for _, u := range DeleteDocument(m, survivors, now) {
			updates = appendOrReplace(updates, u)
		}
	}
	return toDelete, updates
}

func findByID(pool []models.Document, id string) (models.Document, bool) {
	for _, d := range pool {
		if d.Id == id {
			return d, true
		}
	}
	return models.Document{}, false
}

func appendOrReplace(docs []models.Document, doc models.Document) []models.Document {
	for i := range docs {
		if docs[i].Id == doc.Id {
			docs[i] = doc
			return docs
		}
	}
	return append(docs, doc)
}
