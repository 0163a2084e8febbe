package controllers

import (
	"time"

	"docchain-backend/chain"
	"docchain-backend/database"
	"docchain-backend/middlewares"
	"docchain-backend/models"

	"github.com/gofiber/fiber/v2"
)

type linkInput struct {
	TargetType string `json:"target_type" validate:"required"`
}

// LinkDocument creates the next chain member (quotation→invoice or
// invoice→receipt). The source row is read locked-for-update inside the
// request transaction, so of two concurrent link attempts on one source the
// second blocks and then sees the committed link.
func LinkDocument(c *fiber.Ctx) error {
	var input linkInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	tx := middlewares.RequestDB(c)
	source, err := database.DocumentByIDForUpdate(tx, c.Params("id"))
	if err != nil {
		return err
	}
	if source == nil {
		return chain.ErrDocumentNotFound
	}

	now := time.Now().UTC()
	draft, err := chain.CreateLinkedDocument(source, input.TargetType, now)
	if err != nil {
		return err
	}

	if err := resolveNumber(tx, draft, now); err != nil {
		return err
	}
	if err := tx.Create(draft).Error; err != nil {
		return err
	}

	// Replace the pending placeholder with the persisted id.
	source.SetLinkedID(draft.Type, draft.Id)
	if err := persistChainUpdate(tx, *source); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(draft)
}

// GetChain reconstructs the full chain around one document.
func GetChain(c *fiber.Ctx) error {
	tx := middlewares.RequestDB(c)
	doc, err := database.DocumentByID(tx, c.Params("id"))
	if err != nil {
		return err
	}
	if doc == nil {
		return chain.ErrDocumentNotFound
	}

	pool, err := database.DocumentPool(tx)
	if err != nil {
		return err
	}

	result, err := chain.BuildChain(pool, *doc)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// ReviseDocument issues the next -R revision of a document and marks the
// superseded one revised.
func ReviseDocument(c *fiber.Ctx) error {
	tx := middlewares.RequestDB(c)
	doc, err := database.DocumentByID(tx, c.Params("id"))
	if err != nil {
		return err
	}
	if doc == nil {
		return chain.ErrDocumentNotFound
	}

	pool, err := database.DocumentPool(tx)
	if err != nil {
		return err
	}

	draft, err := chain.CreateRevision(doc, pool, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := tx.Create(draft).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Document{}).Where("id = ?", doc.Id).
		Update("status", doc.Status).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(draft)
}

// ArchiveChain stamps archived_at on every member of a chain.
func ArchiveChain(c *fiber.Ctx) error {
	tx := middlewares.RequestDB(c)
	pool, err := database.DocumentPool(tx)
	if err != nil {
		return err
	}

	archived := chain.ArchiveChain(c.Params("chainId"), pool, time.Now().UTC())
	ids := make([]string, 0, len(archived))
	for _, d := range archived {
		if err := tx.Model(&models.Document{}).Where("id = ?", d.Id).
			Update("archived_at", d.ArchivedAt).Error; err != nil {
			return err
		}
		ids = append(ids, d.Id)
	}
	return c.JSON(fiber.Map{"message": "success", "archived_ids": ids})
}

// DeleteChain removes every member of a chain through the single-document
// delete path, children first.
func DeleteChain(c *fiber.Ctx) error {
	tx := middlewares.RequestDB(c)
	pool, err := database.DocumentPool(tx)
	if err != nil {
		return err
	}

	toDelete, updates := chain.DeleteChain(c.Params("chainId"), pool, time.Now().UTC())
	for _, u := range updates {
		if err := persistChainUpdate(tx, u); err != nil {
			return err
		}
	}
	deleted := make([]string, 0, len(toDelete))
	for _, d := range toDelete {
		if err := tx.Where("document_id = ?", d.Id).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Document{}, "id = ?", d.Id).Error; err != nil {
			return err
		}
		deleted = append(deleted, d.Id)
	}
	return c.JSON(fiber.Map{"message": "success", "deleted_ids": deleted})
}
