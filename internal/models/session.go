package models

import "time"

// Channel values for Session.Channel.
const (
	ChannelVoice = "voice"
	ChannelChat  = "chat"
)

// Session status values.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionArchived  = "archived"
)

// Session tracks one ongoing negotiation with one vendor on one channel.
// ID is the call identifier for voice sessions or the normalized phone
// address for chat sessions.
type Session struct {
	ID            string `gorm:"primaryKey;size:64"`
	Channel       string `gorm:"size:8;not null;index"`
	VendorAddress string `gorm:"size:64;not null;index"`
	CompanyID     string `gorm:"size:64;index"`
	Status        string `gorm:"size:16;default:active;index"`
	EndReason     string `gorm:"size:32"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time

	Turns []Turn `gorm:"foreignKey:SessionID"`
}

// Turn is one audit-trail row per processed inbound utterance.
type Turn struct {
	ID         string `gorm:"primaryKey;size:36"`
	SessionID  string `gorm:"size:64;not null;index"`
	Number     int    `gorm:"not null"`
	Channel    string `gorm:"size:8"`
	Utterance  string `gorm:"type:text"`
	Response   string `gorm:"type:text"`
	Method     string `gorm:"size:8"`
	Confidence int
	Language   string `gorm:"size:16"`
	CreatedAt  time.Time

	Session Session `gorm:"foreignKey:SessionID"`
}
