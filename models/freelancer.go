package models

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Freelancer is the account holder: login credentials plus the business and
// bank details that get printed on generated documents.
type Freelancer struct {
	Id        string `json:"id" gorm:"primaryKey"`
	FirstName string `json:"first_name" gorm:"not null"`
	LastName  string `json:"last_name" gorm:"not null"`
	Password  []byte `json:"-" gorm:"not null"`
	Email     string `json:"email" gorm:"unique;not null"`

	BusinessName string `json:"business_name"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Zip          string `json:"zip"`
	TaxID        string `json:"tax_id"`
	PhoneNumber  string `json:"phone_number"`

	BankName          string `json:"bank_name"`
	BankAccountName   string `json:"bank_account_name"`
	BankAccountNumber string `json:"bank_account_number"`

	LogoPath      string `json:"logo_path"`
	SignaturePath string `json:"signature_path"`
}

func (f *Freelancer) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	f.Id = uuid.NewString()
	return
}

func (f *Freelancer) SetPassword(password string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	f.Password = hashedPassword
}

func (f *Freelancer) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(f.Password, []byte(password))
}
