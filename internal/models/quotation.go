package models

import "time"

// Quotation quality labels, derived from the weighted field score.
const (
	QualityIncomplete    = "incomplete"
	QualityBasic         = "basic"
	QualityGood          = "good"
	QualityComprehensive = "comprehensive"
)

// Quotation is the exported, denormalized view of everything learned from
// one completed session.
type Quotation struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	SessionID       string `gorm:"size:64;not null;uniqueIndex"`
	VendorAddress   string `gorm:"size:64;index"`
	CompanyID       string `gorm:"size:64;index"`
	TotalItems      int
	Quality         string `gorm:"size:16;index"`
	PricingProvided bool
	DeliveryTerms   string `gorm:"type:text"`
	PaymentTerms    string `gorm:"type:text"`
	Discounts       string `gorm:"type:text"`
	MinimumOrder    string `gorm:"type:text"`
	ContactPerson   string `gorm:"size:128"`
	ContactPhone    string `gorm:"size:32"`
	CreatedAt       time.Time

	Items []QuotationItem `gorm:"foreignKey:QuotationID"`
}

// QuotationItem is one quoted item with its most specific price entry.
type QuotationItem struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	QuotationID uint   `gorm:"not null;index"`
	Name        string `gorm:"size:128;not null"`
	Price       float64
	Unit        string `gorm:"size:32"`
	Currency    string `gorm:"size:8;default:INR"`
	Detail      string `gorm:"type:text"`

	Quotation Quotation `gorm:"foreignKey:QuotationID"`
}
