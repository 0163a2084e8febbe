package database

import (
	"errors"

	"docchain-backend/models"

	"gorm.io/gorm"
)

// DocumentPool loads every document (items preloaded) for the chain engine.
// Legacy tax columns are migrated into TaxConfig here, at the boundary, so
// the engine only ever sees the current representation.
func DocumentPool(tx *gorm.DB) ([]models.Document, error) {
	var docs []models.Document
	if err := tx.Preload("Items").Find(&docs).Error; err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i].NormalizeTaxConfig()
	}
	return docs, nil
}

// DocumentByID loads one document with items, or nil when absent.
func DocumentByID(tx *gorm.DB, id string) (*models.Document, error) {
	return loadDocument(tx, id)
}

// DocumentByIDForUpdate loads one document with its row locked until the
// transaction ends. The link path reads the source this way: at read
// committed, two concurrent link attempts would otherwise both see an empty
// forward link and both pass the duplicate gate. SQLite has no FOR UPDATE
// and serializes writers on its own.
func DocumentByIDForUpdate(tx *gorm.DB, id string) (*models.Document, error) {
	return loadDocument(lockForUpdate(tx), id)
}

func loadDocument(tx *gorm.DB, id string) (*models.Document, error) {
	var doc models.Document
	err := tx.Preload("Items").First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	doc.NormalizeTaxConfig()
	return &doc, nil
}
