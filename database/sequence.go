package database

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"docchain-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var numberPrefixes = map[string]string{
	models.TypeQuotation: "QT",
	models.TypeInvoice:   "INV",
	models.TypeReceipt:   "REC",
}

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// lockForUpdate row-locks the counter on engines that support it. SQLite is
// single-writer and rejects FOR UPDATE, so it passes through unlocked.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// NextDocumentNumber issues the next sequential number for a document type,
// e.g. "INV-2026-0007". The counter row is locked for update so two
// concurrent generations cannot share a number; call it inside the request
// transaction.
func NextDocumentNumber(tx *gorm.DB, docType string, now time.Time) (string, error) {
	prefix, ok := numberPrefixes[docType]
	if !ok {
		return "", fmt.Errorf("no number sequence for document type %q", docType)
	}
	year := now.Year()

	var counter models.DocumentCounter
	err := lockForUpdate(tx).
		Where(models.DocumentCounter{Type: docType, Year: year}).
		FirstOrCreate(&counter).Error
	if err != nil {
		return "", fmt.Errorf("sequence lookup failed: %w", err)
	}

	counter.LastValue++
	if err := tx.Save(&counter).Error; err != nil {
		return "", fmt.Errorf("sequence increment failed: %w", err)
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, counter.LastValue), nil
}

// BumpCounterTo raises the counter at least to the trailing number of an
// explicitly assigned document number, so later "auto" numbers don't collide
// with it. Numbers without a trailing integer are ignored.
func BumpCounterTo(tx *gorm.DB, docType, assignedNumber string, now time.Time) error {
	m := trailingDigits.FindStringSubmatch(assignedNumber)
	if m == nil {
		return nil
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil
	}
	year := now.Year()

	var counter models.DocumentCounter
	err = lockForUpdate(tx).
		Where(models.DocumentCounter{Type: docType, Year: year}).
		FirstOrCreate(&counter).Error
	if err != nil {
		return fmt.Errorf("sequence lookup failed: %w", err)
	}
	if n <= counter.LastValue {
		return nil
	}
	counter.LastValue = n
	return tx.Save(&counter).Error
}
