package chain

import (
	"testing"
	"time"

	"docchain-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(id, docType, number, chainID string) models.Document {
	return models.Document{
		Id:             id,
		Type:           docType,
		DocumentNumber: number,
		Status:         models.StatusPending,
		ChainID:        chainID,
	}
}

func TestBuildChain_FullChainFromAnyMember(t *testing.T) {
	qt := doc("q1", models.TypeQuotation, "QT-001", "c1")
	inv := doc("i1", models.TypeInvoice, "INV-001", "c1")
	rec := doc("r1", models.TypeReceipt, "REC-001", "c1")
	qt.LinkedInvoiceID = "i1"
	inv.SourceDocumentID = "q1"
	inv.LinkedReceiptID = "r1"
	rec.SourceDocumentID = "i1"

	unrelated := doc("x1", models.TypeQuotation, "QT-999", "other")
	pool := []models.Document{rec, unrelated, qt, inv}

	for _, start := range []models.Document{qt, inv, rec} {
		got, err := BuildChain(pool, start)
		require.NoError(t, err)
		assert.Equal(t, "c1", got.ChainID)
		require.Len(t, got.Documents, 3)
		// Canonical order: quotation, invoice, receipt.
		assert.Equal(t, "QT-001", got.Documents[0].DocumentNumber)
		assert.Equal(t, "INV-001", got.Documents[1].DocumentNumber)
		assert.Equal(t, "REC-001", got.Documents[2].DocumentNumber)
	}
}

// Children reachable only through a reverse source scan (forward link never
// recorded) must still be found.
func TestBuildChain_ReverseLookupOnly(t *testing.T) {
	qt := doc("q1", models.TypeQuotation, "QT-001", "")
	inv := doc("i1", models.TypeInvoice, "INV-001", "")
	inv.SourceDocumentID = "q1"

	got, err := BuildChain([]models.Document{qt, inv}, qt)
	require.NoError(t, err)
	require.Len(t, got.Documents, 2)
	assert.Equal(t, "", got.ChainID) // no member carries a chain id
}

func TestBuildChain_SharedChainIDOnly(t *testing.T) {
	// Revisions share the chain id without source links between them.
	qt := doc("q1", models.TypeQuotation, "QT-001", "c1")
	rev := doc("q2", models.TypeQuotation, "QT-001-R1", "c1")

	got, err := BuildChain([]models.Document{qt, rev}, rev)
	require.NoError(t, err)
	assert.Len(t, got.Documents, 2)
	assert.Equal(t, "c1", got.ChainID)
}

func TestBuildChain_PendingLinksAreNotFollowed(t *testing.T) {
	qt := doc("q1", models.TypeQuotation, "QT-001", "")
	qt.LinkedInvoiceID = models.LinkPending

	got, err := BuildChain([]models.Document{qt}, qt)
	require.NoError(t, err)
	assert.Len(t, got.Documents, 1)
}

func TestBuildChain_UnknownTypeSortsLast(t *testing.T) {
	rec := doc("r1", models.TypeReceipt, "REC-001", "c1")
	odd := doc("m1", "memo", "MEMO-001", "c1")
	qt := doc("q1", models.TypeQuotation, "QT-001", "c1")

	got, err := BuildChain([]models.Document{odd, rec, qt}, qt)
	require.NoError(t, err)
	require.Len(t, got.Documents, 3)
	assert.Equal(t, "MEMO-001", got.Documents[2].DocumentNumber)
}

func TestBuildChain_StableOrderWithinType(t *testing.T) {
	early := doc("r1", models.TypeReceipt, "REC-001", "c1")
	early.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := doc("r2", models.TypeReceipt, "REC-002", "c1")
	late.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	got, err := BuildChain([]models.Document{late, early}, late)
	require.NoError(t, err)
	assert.Equal(t, "REC-001", got.Documents[0].DocumentNumber)
	assert.Equal(t, "REC-002", got.Documents[1].DocumentNumber)
}

func TestBuildChain_ConflictingChainIDs(t *testing.T) {
	qt := doc("q1", models.TypeQuotation, "QT-001", "c1")
	inv := doc("i1", models.TypeInvoice, "INV-001", "c2") // corrupted
	qt.LinkedInvoiceID = "i1"
	inv.SourceDocumentID = "q1"

	_, err := BuildChain([]models.Document{qt, inv}, qt)
	assert.ErrorIs(t, err, ErrChainIntegrity)
}

func TestBuildChain_StartAbsentFromPool(t *testing.T) {
	loner := doc("q1", models.TypeQuotation, "QT-001", "")
	got, err := BuildChain(nil, loner)
	require.NoError(t, err)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, "q1", got.Documents[0].Id)
}

func TestChainMembers(t *testing.T) {
	pool := []models.Document{
		doc("a", models.TypeQuotation, "QT-1", "c1"),
		doc("b", models.TypeInvoice, "INV-1", "c1"),
		doc("c", models.TypeQuotation, "QT-2", "c2"),
		doc("d", models.TypeQuotation, "QT-3", ""),
	}
	assert.Len(t, ChainMembers(pool, "c1"), 2)
	assert.Len(t, ChainMembers(pool, "c2"), 1)
	assert.Nil(t, ChainMembers(pool, ""))
}
