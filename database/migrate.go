package database

import (
	"fmt"

	"docchain-backend/models"

	"gorm.io/gorm"
)

// AutoMigrate applies idempotent schema migrations:
// - AutoMigrate for tables/columns/tag-declared indexes and checks
// - extra composite indexes that work on both sqlite and postgres
func AutoMigrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.Freelancer{},
			&models.Customer{},
			&models.Service{},
			&models.Document{},
			&models.LineItem{},
			&models.DocumentCounter{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// CREATE INDEX IF NOT EXISTS is portable across both drivers.
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_documents_chain_type ON documents (chain_id, type)`,
			`CREATE INDEX IF NOT EXISTS idx_documents_source ON documents (source_document_id)`,
			`CREATE INDEX IF NOT EXISTS idx_documents_original ON documents (original_document_id)`,
			`CREATE INDEX IF NOT EXISTS idx_line_items_document ON line_items (document_id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}
		return nil
	})
}
