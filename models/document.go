package models

import (
	"encoding/json"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document types, in chain order.
const (
	TypeQuotation = "quotation"
	TypeInvoice   = "invoice"
	TypeReceipt   = "receipt"
)

// Document statuses.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusPaid      = "paid"
	StatusHold      = "hold"
	StatusCancelled = "cancelled"
	StatusRevised   = "revised"
)

// NumberAuto is the document_number sentinel meaning "assign the next
// sequence number when the document is generated".
const NumberAuto = "auto"

// LinkPending is the linked-document sentinel meaning a child-creation flow
// was started but not completed.
const LinkPending = "pending"

var revisionSuffix = regexp.MustCompile(`-R(\d+)$`)

// TaxConfig is the current tax representation. Legacy rows carry a bare
// tax_rate/tax_type pair instead; see Document.NormalizeTaxConfig.
type TaxConfig struct {
	VATEnabled bool    `json:"vat_enabled"`
	VATRate    float64 `json:"vat_rate"`
	WHTEnabled bool    `json:"wht_enabled"`
	WHTRate    float64 `json:"wht_rate"`
	GrossUp    bool    `json:"gross_up"`
}

// PartialPayment reduces the amount collected on a receipt by a percentage
// or a fixed amount of the chain total.
type PartialPayment struct {
	Enabled bool    `json:"enabled"`
	Mode    string  `json:"mode"` // "percentage" | "fixed"
	Value   float64 `json:"value"`
}

// Installment tracks split payment of one chain total across several receipts.
type Installment struct {
	Enabled         bool    `json:"enabled"`
	Count           int     `json:"count"`
	Current         int     `json:"current"`
	RemainingAmount float64 `json:"remaining_amount" gorm:"type:numeric(12,2)"`
}

// CustomerSnapshot is the customer data denormalized onto a document at
// generation time, so later customer edits don't rewrite issued paperwork.
type CustomerSnapshot struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	TaxID   string `json:"tax_id"`
	Email   string `json:"email"`
}

// DeletedLinkRecord remembers a child document that existed and was later
// deleted, distinguishing "never created" from "created then removed".
type DeletedLinkRecord struct {
	ID             string    `json:"id"`
	DocumentNumber string    `json:"document_number"`
	DeletedAt      time.Time `json:"deleted_at"`
}

// Document is one quotation, invoice, or receipt.
type Document struct {
	Id             string `json:"id" gorm:"primaryKey"`
	Type           string `json:"type" gorm:"size:20;not null;index"`
	DocumentNumber string `json:"document_number" gorm:"uniqueIndex"`
	Status         string `json:"status" gorm:"size:20;not null"`

	CustomerID uint             `json:"customer_id" gorm:"index"`
	Customer   CustomerSnapshot `json:"customer" gorm:"embedded;embeddedPrefix:customer_"`

	Items []LineItem `json:"items" gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`

	TaxConfig TaxConfig `json:"tax_config" gorm:"embedded;embeddedPrefix:tax_"`
	// Legacy tax columns; migrated into TaxConfig at the storage boundary.
	LegacyTaxRate *float64 `json:"tax_rate,omitempty" gorm:"column:legacy_tax_rate"`
	LegacyTaxType *string  `json:"tax_type,omitempty" gorm:"column:legacy_tax_type;size:20"`

	// Computed totals (latest state).
	Subtotal      float64 `json:"subtotal" gorm:"type:numeric(12,2)"`
	VATAmount     float64 `json:"vat_amount" gorm:"type:numeric(12,2)"`
	WHTAmount     float64 `json:"wht_amount" gorm:"type:numeric(12,2)"`
	GrossUpAmount float64 `json:"gross_up_amount" gorm:"type:numeric(12,2)"`
	Total         float64 `json:"total" gorm:"type:numeric(12,2)"`

	// Chain linkage.
	ChainID              string         `json:"chain_id" gorm:"index"`
	SourceDocumentID     string         `json:"source_document_id" gorm:"index"`
	SourceDocumentNumber string         `json:"source_document_number"`
	LinkedInvoiceID      string         `json:"linked_invoice_id"`
	LinkedReceiptID      string         `json:"linked_receipt_id"`
	DeletedLinks         datatypes.JSON `json:"deleted_linked_documents"`

	// Revision bookkeeping. IsRevision is authoritative; the -R suffix
	// match only covers rows migrated from the legacy format.
	IsRevision             bool   `json:"is_revision"`
	RevisionNumber         int    `json:"revision_number"`
	OriginalDocumentID     string `json:"original_document_id" gorm:"index"`
	OriginalDocumentNumber string `json:"original_document_number"`

	// Payment fields (per-type; unused ones stay zero).
	PaymentTerms  string     `json:"payment_terms"`
	Notes         string     `json:"notes"`
	ValidUntil    *time.Time `json:"valid_until"`  // quotation
	DueDate       *time.Time `json:"due_date"`     // invoice
	PaymentDate   *time.Time `json:"payment_date"` // receipt
	PaymentMethod string     `json:"payment_method"`
	PaidAmount    float64    `json:"paid_amount" gorm:"type:numeric(12,2)"`

	PartialPayment PartialPayment `json:"partial_payment" gorm:"embedded;embeddedPrefix:partial_"`
	Installment    Installment    `json:"installment" gorm:"embedded;embeddedPrefix:installment_"`

	ArchivedAt *time.Time `json:"archived_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type LineItem struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	DocumentID  string  `json:"-" gorm:"index"`
	ServiceID   string  `json:"service_id" gorm:"index"` // optional catalog reference
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity" gorm:"check:quantity >= 0"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price" gorm:"type:numeric(12,2);check:unit_price >= 0"`
	LineTotal   float64 `json:"line_total" gorm:"type:numeric(12,2)"`
}

func (doc *Document) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if doc.Id == "" {
		doc.Id = uuid.NewString()
	}
	return
}

// Revision reports whether this document supersedes another one.
func (doc *Document) Revision() bool {
	return doc.IsRevision || doc.RevisionNumber > 0 || revisionSuffix.MatchString(doc.DocumentNumber)
}

// LinkedID returns the forward link for the given child type
// ("" when no link, LinkPending while a creation flow is in flight).
func (doc *Document) LinkedID(targetType string) string {
	switch targetType {
	case TypeInvoice:
		return doc.LinkedInvoiceID
	case TypeReceipt:
		return doc.LinkedReceiptID
	}
	return ""
}

// SetLinkedID records the forward link for the given child type.
func (doc *Document) SetLinkedID(targetType, id string) {
	switch targetType {
	case TypeInvoice:
		doc.LinkedInvoiceID = id
	case TypeReceipt:
		doc.LinkedReceiptID = id
	}
}

func (doc *Document) deletedLinkMap() map[string]DeletedLinkRecord {
	out := map[string]DeletedLinkRecord{}
	if len(doc.DeletedLinks) > 0 {
		_ = json.Unmarshal(doc.DeletedLinks, &out)
	}
	return out
}

// DeletedLink returns the deleted-child record for the given type, if any.
func (doc *Document) DeletedLink(targetType string) (DeletedLinkRecord, bool) {
	rec, ok := doc.deletedLinkMap()[targetType]
	return rec, ok
}

// SetDeletedLink stores a deleted-child record for the given type.
func (doc *Document) SetDeletedLink(targetType string, rec DeletedLinkRecord) {
	m := doc.deletedLinkMap()
	m[targetType] = rec
	raw, _ := json.Marshal(m)
	doc.DeletedLinks = raw
}

// ClearDeletedLink removes the deleted-child record for the given type.
func (doc *Document) ClearDeletedLink(targetType string) {
	m := doc.deletedLinkMap()
	if _, ok := m[targetType]; !ok {
		return
	}
	delete(m, targetType)
	if len(m) == 0 {
		doc.DeletedLinks = nil
		return
	}
	raw, _ := json.Marshal(m)
	doc.DeletedLinks = raw
}

// NormalizeTaxConfig migrates the legacy tax_rate/tax_type pair into
// TaxConfig. It runs once at the storage boundary; rows already carrying a
// TaxConfig are left alone.
func (doc *Document) NormalizeTaxConfig() {
	if doc.TaxConfig.VATEnabled || doc.TaxConfig.WHTEnabled {
		return
	}
	if doc.LegacyTaxRate == nil {
		return
	}
	rate := *doc.LegacyTaxRate
	kind := ""
	if doc.LegacyTaxType != nil {
		kind = *doc.LegacyTaxType
	}
	switch kind {
	case "withholding", "wht":
		doc.TaxConfig = TaxConfig{WHTEnabled: rate > 0, WHTRate: rate}
	case "none":
		doc.TaxConfig = TaxConfig{}
	default: // legacy default was VAT
		doc.TaxConfig = TaxConfig{VATEnabled: rate > 0, VATRate: rate}
	}
	doc.LegacyTaxRate = nil
	doc.LegacyTaxType = nil
}

// Archived reports whether the document is excluded from active views.
func (doc *Document) Archived() bool {
	return doc.ArchivedAt != nil
}
