package chain

import (
	"testing"
	"time"

	"docchain-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func quotation(number string) *models.Document {
	return &models.Document{
		Id:             "qt-" + number,
		Type:           models.TypeQuotation,
		DocumentNumber: number,
		Status:         models.StatusApproved,
		CustomerID:     7,
		Customer:       models.CustomerSnapshot{Name: "Acme Co", TaxID: "0105556012345"},
		Items: []models.LineItem{
			{Description: "logo design", Quantity: 1, Unit: "project", UnitPrice: 1000},
		},
		TaxConfig:    thaiTax(false),
		PaymentTerms: "50% upfront",
		Notes:        "rush job",
	}
}

func paidInvoice(number string) *models.Document {
	inv := quotation("QT-SRC")
	inv.Id = "inv-" + number
	inv.Type = models.TypeInvoice
	inv.DocumentNumber = number
	inv.Status = models.StatusPaid
	return inv
}

func TestCreateLinkedDocument_QuotationToInvoice(t *testing.T) {
	src := quotation("QT-2026-0001")
	draft, err := CreateLinkedDocument(src, models.TypeInvoice, testNow)
	require.NoError(t, err)

	assert.Equal(t, models.TypeInvoice, draft.Type)
	assert.Equal(t, models.NumberAuto, draft.DocumentNumber)
	assert.Equal(t, models.StatusPending, draft.Status)
	assert.Equal(t, src.Id, draft.SourceDocumentID)
	assert.Equal(t, "QT-2026-0001", draft.SourceDocumentNumber)

	// Chain id is minted once and shared.
	require.NotEmpty(t, src.ChainID)
	assert.Equal(t, src.ChainID, draft.ChainID)

	// Structural fields copied forward.
	assert.Equal(t, src.Items[0].Description, draft.Items[0].Description)
	assert.Equal(t, src.TaxConfig, draft.TaxConfig)
	assert.Equal(t, src.Customer, draft.Customer)
	assert.Equal(t, "50% upfront", draft.PaymentTerms)

	// Totals computed from the copied items and tax config.
	assert.Equal(t, 1000.0, draft.Subtotal)
	assert.Equal(t, 1040.0, draft.Total)

	// Source carries the pending placeholder until the caller persists.
	assert.Equal(t, models.LinkPending, src.LinkedInvoiceID)
}

func TestCreateLinkedDocument_ReusesExistingChainID(t *testing.T) {
	src := quotation("QT-2026-0002")
	src.ChainID = "chain-abc"
	draft, err := CreateLinkedDocument(src, models.TypeInvoice, testNow)
	require.NoError(t, err)
	assert.Equal(t, "chain-abc", draft.ChainID)
	assert.Equal(t, "chain-abc", src.ChainID)
}

func TestCreateLinkedDocument_InvoiceDueDateFromValidUntil(t *testing.T) {
	src := quotation("QT-2026-0003")
	validUntil := testNow.AddDate(0, 1, 0)
	src.ValidUntil = &validUntil

	draft, err := CreateLinkedDocument(src, models.TypeInvoice, testNow)
	require.NoError(t, err)
	require.NotNil(t, draft.DueDate)
	assert.True(t, draft.DueDate.Equal(validUntil))
}

func TestCreateLinkedDocument_InvoiceToReceipt(t *testing.T) {
	src := paidInvoice("INV-2026-0001")
	draft, err := CreateLinkedDocument(src, models.TypeReceipt, testNow)
	require.NoError(t, err)

	assert.Equal(t, models.TypeReceipt, draft.Type)
	require.NotNil(t, draft.PaymentDate)
	assert.True(t, draft.PaymentDate.Equal(testNow))
	assert.Equal(t, DefaultPaymentMethod, draft.PaymentMethod)
	assert.Equal(t, 1040.0, draft.PaidAmount) // full breakdown total
}

func TestCreateLinkedDocument_ReceiptAmountAdjustments(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*models.Document)
		want  float64
	}{
		{
			name: "installment remainder wins over chain total",
			setup: func(d *models.Document) {
				d.Installment = models.Installment{Enabled: true, Count: 3, Current: 2, RemainingAmount: 400}
			},
			want: 400,
		},
		{
			name: "percentage partial payment",
			setup: func(d *models.Document) {
				d.PartialPayment = models.PartialPayment{Enabled: true, Mode: "percentage", Value: 30}
			},
			want: 728, // 1040 reduced by 30%
		},
		{
			name: "fixed partial payment",
			setup: func(d *models.Document) {
				d.PartialPayment = models.PartialPayment{Enabled: true, Mode: "fixed", Value: 540}
			},
			want: 500,
		},
		{
			name: "fixed reduction never goes negative",
			setup: func(d *models.Document) {
				d.PartialPayment = models.PartialPayment{Enabled: true, Mode: "fixed", Value: 5000}
			},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := paidInvoice("INV-2026-0002")
			tt.setup(src)
			draft, err := CreateLinkedDocument(src, models.TypeReceipt, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, draft.PaidAmount)
		})
	}
}

func TestCreateLinkedDocument_WorkflowGates(t *testing.T) {
	cancelled := quotation("QT-X")
	cancelled.Status = models.StatusCancelled

	revised := quotation("QT-Y")
	revised.Status = models.StatusRevised

	unpaid := paidInvoice("INV-X")
	unpaid.Status = models.StatusPending

	receipt := paidInvoice("REC-X")
	receipt.Type = models.TypeReceipt

	tests := []struct {
		name       string
		source     *models.Document
		targetType string
		wantErr    error
	}{
		{"unknown target type", quotation("QT-0"), "memo", ErrInvalidWorkflowTransition},
		{"quotation target type", quotation("QT-0"), models.TypeQuotation, ErrInvalidWorkflowTransition},
		{"invoice from invoice", paidInvoice("INV-0"), models.TypeInvoice, ErrInvalidWorkflowTransition},
		{"receipt from quotation", quotation("QT-0"), models.TypeReceipt, ErrInvalidWorkflowTransition},
		{"receipt from receipt", receipt, models.TypeReceipt, ErrInvalidWorkflowTransition},
		{"invoice from cancelled quotation", cancelled, models.TypeInvoice, ErrPreconditionNotMet},
		{"invoice from revised quotation", revised, models.TypeInvoice, ErrPreconditionNotMet},
		{"receipt from unpaid invoice", unpaid, models.TypeReceipt, ErrPreconditionNotMet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := CreateLinkedDocument(tt.source, tt.targetType, testNow)
			assert.Nil(t, draft)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateLinkedDocument_DuplicateAndRecreate(t *testing.T) {
	src := quotation("QT-2026-0004")
	src.ChainID = "chain-1"
	src.LinkedInvoiceID = "inv-existing"

	_, err := CreateLinkedDocument(src, models.TypeInvoice, testNow)
	assert.ErrorIs(t, err, ErrDuplicateLink)

	// A stale pending placeholder does not block a fresh link.
	src.LinkedInvoiceID = models.LinkPending
	draft, err := CreateLinkedDocument(src, models.TypeInvoice, testNow)
	require.NoError(t, err)
	assert.NotNil(t, draft)

	// A deleted-child record is cleared on recreate.
	src.LinkedInvoiceID = ""
	src.SetDeletedLink(models.TypeInvoice, models.DeletedLinkRecord{
		ID: "inv-old", DocumentNumber: "INV-OLD", DeletedAt: testNow,
	})
	draft, err = CreateLinkedDocument(src, models.TypeInvoice, testNow)
	require.NoError(t, err)
	assert.NotNil(t, draft)
	_, ok := src.DeletedLink(models.TypeInvoice)
	assert.False(t, ok)
}

// Failures must not leave partial state on the source.
func TestCreateLinkedDocument_NoPartialStateOnFailure(t *testing.T) {
	src := paidInvoice("INV-2026-0003")
	src.Status = models.StatusPending
	before := *src

	_, err := CreateLinkedDocument(src, models.TypeReceipt, testNow)
	require.ErrorIs(t, err, ErrPreconditionNotMet)
	assert.Equal(t, before.ChainID, src.ChainID)
	assert.Equal(t, before.LinkedReceiptID, src.LinkedReceiptID)
}
