package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is a catalog entry the freelancer bills by.
type Service struct {
	Id          string  `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"` // e.g. "hour", "page", "project"
	UnitPrice   float64 `json:"unit_price" gorm:"type:numeric(12,2);check:unit_price >= 0"`
	Active      bool    `json:"-"`
}

func (service *Service) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	service.Id = uuid.NewString()
	return
}
