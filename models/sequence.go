package models

import "time"

// DocumentCounter is the per-type, per-year number sequence backing the
// "auto" document_number sentinel.
type DocumentCounter struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Type      string    `json:"type" gorm:"size:20;not null;uniqueIndex:idx_document_counters_type_year,priority:1"`
	Year      int       `json:"year" gorm:"not null;uniqueIndex:idx_document_counters_type_year,priority:2"`
	LastValue int64     `json:"last_value" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}
