package models

import "time"

// FailedChannel records a primary-channel failure for a session and whether
// the secondary-channel outreach has been attempted. AttemptedAt flips via a
// guarded check-then-set exactly once per session, which is what enforces
// the at-most-once fallback guarantee under duplicate status delivery.
type FailedChannel struct {
	SessionID     string `gorm:"primaryKey;size:64"`
	VendorAddress string `gorm:"size:64;not null"`
	FailureReason string `gorm:"size:16;not null"`
	Attempted     bool   `gorm:"default:false"`
	SendOK        bool   `gorm:"default:false"`
	CreatedAt     time.Time
	AttemptedAt   *time.Time
}
