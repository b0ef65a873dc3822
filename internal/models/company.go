package models

// Company is the requesting-company profile on whose behalf conversations
// run. Seeded from config at db init; read-only at runtime.
type Company struct {
	ID       string `gorm:"primaryKey;size:64"`
	Name     string `gorm:"size:128;not null"`
	Industry string `gorm:"size:64;not null"`
	Priority string `gorm:"size:32;default:normal"`
}
