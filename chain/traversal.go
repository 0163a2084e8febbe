package chain

import (
	"sort"

	"docchain-backend/models"

	mapset "github.com/deckarep/golang-set/v2"
)

// Chain is the fully reconstructed document chain around one document,
// ordered quotation → invoice → receipt.
type Chain struct {
	ChainID   string            `json:"chain_id"`
	Documents []models.Document `json:"documents"`
}

var typeRank = map[string]int{
	models.TypeQuotation: 1,
	models.TypeInvoice:   2,
	models.TypeReceipt:   3,
}

func rankOf(docType string) int {
	if r, ok := typeRank[docType]; ok {
		return r
	}
	return 4 // unknown types sort last
}

// BuildChain walks every linkage relation reachable from start — parent
// back-reference, recorded forward links, reverse source lookups, and shared
// chain ids — and returns the collected documents in canonical order.
// Revisits are made idempotent by a visited set, and the relation graph is a
// DAG by construction, so the walk terminates.
//
// Documents that carry conflicting chain ids while being causally connected
// indicate corrupted data and surface as ErrChainIntegrity.
func BuildChain(pool []models.Document, start models.Document) (Chain, error) {
	byID := make(map[string]models.Document, len(pool))
	for _, d := range pool {
		byID[d.Id] = d
	}
	if d, ok := byID[start.Id]; ok {
		start = d // prefer the pool's copy of the start document
	}

	visited := mapset.NewSet[string]()
	queue := []models.Document{start}
	var members []models.Document

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited.Contains(cur.Id) {
			continue
		}
		visited.Add(cur.Id)
		members = append(members, cur)

		enqueue := func(id string) {
			if id == "" || id == models.LinkPending || visited.Contains(id) {
				return
			}
			if d, ok := byID[id]; ok {
				queue = append(queue, d)
			}
		}

		// (a) parent
		enqueue(cur.SourceDocumentID)
		// (b) recorded forward links
		enqueue(cur.LinkedInvoiceID)
		enqueue(cur.LinkedReceiptID)
		// (c) children by reverse lookup, (d) shared chain id
		for _, d := range pool {
			if visited.Contains(d.Id) {
				continue
			}
			if d.SourceDocumentID == cur.Id {
				queue = append(queue, d)
				continue
			}
			if cur.ChainID != "" && d.ChainID == cur.ChainID {
				queue = append(queue, d)
			}
		}
	}

	chainID := ""
	for _, d := range members {
		if d.ChainID == "" {
			continue
		}
		if chainID == "" {
			chainID = d.ChainID
			continue
		}
		if d.ChainID != chainID {
			return Chain{}, ruleErr(ErrChainIntegrity,
				"documents %s and chain root disagree on chain id (%s vs %s)", d.DocumentNumber, d.ChainID, chainID)
		}
	}

	sort.SliceStable(members, func(i, j int) bool {
		ri, rj := rankOf(members[i].Type), rankOf(members[j].Type)
		if ri != rj {
			return ri < rj
		}
		if !members[i].CreatedAt.Equal(members[j].CreatedAt) {
			return members[i].CreatedAt.Before(members[j].CreatedAt)
		}
		return members[i].DocumentNumber < members[j].DocumentNumber
	})

	return Chain{ChainID: chainID, Documents: members}, nil
}

// ChainMembers returns every pool document stamped with the given chain id.
func ChainMembers(pool []models.Document, chainID string) []models.Document {
	if chainID == "" {
		return nil
	}
	var members []models.Document
	for _, d := range pool {
		if d.ChainID == chainID {
			members = append(members, d)
		}
	}
	return members
}
