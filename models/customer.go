package models

type Customer struct {
	Id           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"not null;index"`
	CompanyName  string `json:"company_name"`
	Address      string `json:"address" gorm:"not null"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Zip          string `json:"zip"`
	TaxID        string `json:"tax_id"`
	Email        string `json:"email" gorm:"unique;not null"`
	PhoneNumber  string `json:"phone_number"`
	MobileNumber string `json:"mobile_number"`
	Notes        string `json:"notes"`
	Active       bool   `json:"-"`
}

// Snapshot denormalizes the customer onto a document at generation time.
func (c *Customer) Snapshot() CustomerSnapshot {
	name := c.Name
	if c.CompanyName != "" {
		name = c.CompanyName
	}
	return CustomerSnapshot{
		Name:    name,
		Address: c.Address,
		TaxID:   c.TaxID,
		Email:   c.Email,
	}
}
