package controllers

import (
	"time"

	"docchain-backend/chain"
	"docchain-backend/database"
	"docchain-backend/middlewares"
	"docchain-backend/models"
	"docchain-backend/pdf"
	"docchain-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PDFRenderer is the output collaborator wired in main.
var PDFRenderer pdf.Renderer

type lineItemInput struct {
	ServiceID   string  `json:"service_id"`
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

type documentInput struct {
	Type           string            `json:"type" validate:"required,oneof=quotation invoice receipt"`
	DocumentNumber string            `json:"document_number"`
	Status         string            `json:"status" validate:"omitempty,oneof=pending approved paid hold cancelled revised"`
	CustomerID     uint              `json:"customer_id" validate:"required"`
	Items          []lineItemInput   `json:"items" validate:"required,min=1,dive"`
	TaxConfig      *models.TaxConfig `json:"tax_config"`
	TaxRate        *float64          `json:"tax_rate"` // legacy pair
	TaxType        *string           `json:"tax_type"`
	PaymentTerms   string            `json:"payment_terms"`
	Notes          string            `json:"notes"`
	ValidUntil     *time.Time        `json:"valid_until"`
	DueDate        *time.Time        `json:"due_date"`
}

func buildItems(inputs []lineItemInput) []models.LineItem {
	items := make([]models.LineItem, len(inputs))
	for i, in := range inputs {
		items[i] = models.LineItem{
			ServiceID:   in.ServiceID,
			Description: in.Description,
			Quantity:    in.Quantity,
			Unit:        in.Unit,
			UnitPrice:   in.UnitPrice,
			LineTotal:   utils.Round2(in.Quantity * in.UnitPrice),
		}
	}
	return items
}

// resolveTaxConfig prefers the current representation and migrates the
// legacy tax_rate/tax_type pair once, here at the boundary.
func resolveTaxConfig(cfg *models.TaxConfig, rate *float64, kind *string) models.TaxConfig {
	if cfg != nil {
		return *cfg
	}
	if rate == nil {
		return models.TaxConfig{}
	}
	legacy := models.Document{LegacyTaxRate: rate, LegacyTaxType: kind}
	legacy.NormalizeTaxConfig()
	return legacy.TaxConfig
}

func applyBreakdown(doc *models.Document, b chain.Breakdown) {
	doc.Subtotal = b.Subtotal
	doc.VATAmount = b.VATAmount
	doc.WHTAmount = b.WithholdingAmount
	doc.GrossUpAmount = b.GrossUpAmount
	doc.Total = b.Total
}

// resolveNumber substitutes the "auto" sentinel with the next sequence
// number, or bumps the counter past an explicitly assigned one.
func resolveNumber(tx *gorm.DB, doc *models.Document, now time.Time) error {
	if doc.DocumentNumber == "" || doc.DocumentNumber == models.NumberAuto {
		number, err := database.NextDocumentNumber(tx, doc.Type, now)
		if err != nil {
			return err
		}
		doc.DocumentNumber = number
		return nil
	}
	return database.BumpCounterTo(tx, doc.Type, doc.DocumentNumber, now)
}

func CreateDocument(c *fiber.Ctx) error {
	var input documentInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	tx := middlewares.RequestDB(c)

	var customer models.Customer
	if err := tx.First(&customer, "id = ?", input.CustomerID).Error; err != nil {
		return err
	}

	cfg := resolveTaxConfig(input.TaxConfig, input.TaxRate, input.TaxType)
	items := buildItems(input.Items)

	breakdown, err := chain.CalculateTaxBreakdown(chain.ItemsSubtotal(items), cfg)
	if err != nil {
		return err
	}

	status := input.Status
	if status == "" {
		status = models.StatusPending
	}

	doc := models.Document{
		Type:           input.Type,
		DocumentNumber: input.DocumentNumber,
		Status:         status,
		CustomerID:     customer.Id,
		Customer:       customer.Snapshot(),
		Items:          items,
		TaxConfig:      cfg,
		PaymentTerms:   input.PaymentTerms,
		Notes:          input.Notes,
		ValidUntil:     input.ValidUntil,
		DueDate:        input.DueDate,
	}
	applyBreakdown(&doc, breakdown)

	now := time.Now().UTC()
	if err := resolveNumber(tx, &doc, now); err != nil {
		return err
	}

	if err := tx.Create(&doc).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create document",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func GetDocuments(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	q := middlewares.RequestDB(c).Preload("Items")
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	if s := c.Query("status"); s != "" {
		q = q.Where("status = ?", s)
	}
	if c.Query("include_archived") != "true" {
		q = q.Where("archived_at IS NULL")
	}

	var docs []models.Document
	q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&docs)
	for i := range docs {
		docs[i].NormalizeTaxConfig()
	}
	return c.JSON(fiber.Map{
		"documents": docs,
		"message":   "success",
	})
}

func GetDocument(c *fiber.Ctx) error {
	doc, err := database.DocumentByID(middlewares.RequestDB(c), c.Params("id"))
	if err != nil {
		return err
	}
	if doc == nil {
		return fiber.ErrNotFound
	}
	return c.JSON(doc)
}

type documentUpdateInput struct {
	Items        []lineItemInput   `json:"items" validate:"omitempty,min=1,dive"`
	TaxConfig    *models.TaxConfig `json:"tax_config"`
	PaymentTerms *string           `json:"payment_terms"`
	Notes        *string           `json:"notes"`
	ValidUntil   *time.Time        `json:"valid_until"`
	DueDate      *time.Time        `json:"due_date"`
}

// UpdateDocument edits the mutable content of a document and recomputes its
// totals. Type, number, and chain linkage never change here.
func UpdateDocument(c *fiber.Ctx) error {
	var input documentUpdateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	tx := middlewares.RequestDB(c)
	doc, err := database.DocumentByID(tx, c.Params("id"))
	if err != nil {
		return err
	}
	if doc == nil {
		return fiber.ErrNotFound
	}

	if input.Items != nil {
		if err := tx.Where("document_id = ?", doc.Id).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		doc.Items = buildItems(input.Items)
		for i := range doc.Items {
			doc.Items[i].DocumentID = doc.Id
		}
		if err := tx.Create(&doc.Items).Error; err != nil {
			return err
		}
	}
	if input.TaxConfig != nil {
		doc.TaxConfig = *input.TaxConfig
	}
	if input.PaymentTerms != nil {
		doc.PaymentTerms = *input.PaymentTerms
	}
	if input.Notes != nil {
		doc.Notes = *input.Notes
	}
	if input.ValidUntil != nil {
		doc.ValidUntil = input.ValidUntil
	}
	if input.DueDate != nil {
		doc.DueDate = input.DueDate
	}

	breakdown, err := chain.CalculateTaxBreakdown(chain.ItemsSubtotal(doc.Items), doc.TaxConfig)
	if err != nil {
		return err
	}
	applyBreakdown(doc, breakdown)

	updates := map[string]any{
		"tax_vat_enabled": doc.TaxConfig.VATEnabled,
		"tax_vat_rate":    doc.TaxConfig.VATRate,
		"tax_wht_enabled": doc.TaxConfig.WHTEnabled,
		"tax_wht_rate":    doc.TaxConfig.WHTRate,
		"tax_gross_up":    doc.TaxConfig.GrossUp,
		"payment_terms":   doc.PaymentTerms,
		"notes":           doc.Notes,
		"valid_until":     doc.ValidUntil,
		"due_date":        doc.DueDate,
		"subtotal":        doc.Subtotal,
		"vat_amount":      doc.VATAmount,
		"wht_amount":      doc.WHTAmount,
		"gross_up_amount": doc.GrossUpAmount,
		"total":           doc.Total,
	}
	if err := tx.Model(&models.Document{}).Where("id = ?", doc.Id).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(doc)
}

type statusInput struct {
	Status string `json:"status" validate:"required,oneof=pending approved paid hold cancelled revised"`
}

func UpdateDocumentStatus(c *fiber.Ctx) error {
	var input statusInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	tx := middlewares.RequestDB(c)
	res := tx.Model(&models.Document{}).Where("id = ?", c.Params("id")).Update("status", input.Status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.ErrNotFound
	}
	return c.JSON(fiber.Map{"message": "success", "status": input.Status})
}

// DeleteDocument removes one document and applies the chain cascades: the
// source's forward link moves into its deleted-children records, and a
// retracted revision restores the original's status. Deleting an
// already-absent id is a no-op.
func DeleteDocument(c *fiber.Ctx) error {
	tx := middlewares.RequestDB(c)
	doc, err := database.DocumentByID(tx, c.Params("id"))
	if err != nil {
		return err
	}
	if doc == nil {
		return c.JSON(fiber.Map{"message": "already deleted"})
	}

	pool, err := database.DocumentPool(tx)
	if err != nil {
		return err
	}

	for _, u := range chain.DeleteDocument(*doc, pool, time.Now().UTC()) {
		if err := persistChainUpdate(tx, u); err != nil {
			return err
		}
	}

	if err := tx.Where("document_id = ?", doc.Id).Delete(&models.LineItem{}).Error; err != nil {
		return err
	}
	if err := tx.Delete(&models.Document{}, "id = ?", doc.Id).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "success"})
}

// persistChainUpdate writes back the fields the chain engine mutates.
func persistChainUpdate(tx *gorm.DB, u models.Document) error {
	return tx.Model(&models.Document{}).Where("id = ?", u.Id).Updates(map[string]any{
		"status":            u.Status,
		"chain_id":          u.ChainID,
		"linked_invoice_id": u.LinkedInvoiceID,
		"linked_receipt_id": u.LinkedReceiptID,
		"deleted_links":     u.DeletedLinks,
		"archived_at":       u.ArchivedAt,
	}).Error
}

// RenderDocument hands a computed document to the PDF collaborator.
func RenderDocument(c *fiber.Ctx) error {
	if PDFRenderer == nil {
		return fiber.NewError(fiber.StatusNotImplemented, "no renderer configured")
	}

	tx := middlewares.RequestDB(c)
	doc, err := database.DocumentByID(tx, c.Params("id"))
	if err != nil {
		return err
	}
	if doc == nil {
		return fiber.ErrNotFound
	}

	userID, _ := c.Locals("userID").(string)
	var profile models.Freelancer
	if err := tx.First(&profile, "id = ?", userID).Error; err != nil {
		return err
	}

	path, err := PDFRenderer.Render(*doc, profile)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "success", "file": path})
}
