// Package fallback coordinates secondary-channel outreach after a
// primary-channel failure, guaranteeing at most one outreach per session
// even under duplicate failure-event delivery.
package fallback

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/zulandar/quotewire/internal/models"
)

// Failure reasons accepted from channel status callbacks.
var validReasons = map[string]bool{
	"no-answer": true,
	"busy":      true,
	"failed":    true,
	"canceled":  true,
}

// ValidReason reports whether a status callback names a failure the
// coordinator reacts to.
func ValidReason(reason string) bool { return validReasons[reason] }

// OutreachRequest is the secondary-channel message the caller dispatches
// via the chat transport. The coordinator never sends anything itself.
type OutreachRequest struct {
	SessionID     string
	VendorAddress string
	Message       string
}

// MessageSource produces the outreach text for a company.
type MessageSource interface {
	Outreach(ctx context.Context, company models.Company) string
}

// Coordinator owns the failed-channel bookkeeping.
type Coordinator struct {
	db       *gorm.DB
	messages MessageSource
}

// NewCoordinator builds a coordinator over the given database.
func NewCoordinator(db *gorm.DB, messages MessageSource) (*Coordinator, error) {
	if db == nil {
		return nil, fmt.Errorf("fallback: coordinator requires a database")
	}
	if messages == nil {
		return nil, fmt.Errorf("fallback: coordinator requires a message source")
	}
	return &Coordinator{db: db, messages: messages}, nil
}

// OnChannelFailure records a primary-channel failure and, the first time
// it is seen for a session, returns the outreach to dispatch. Duplicate
// events for a session already marked attempted return (nil, nil). The
// attempted flag flips inside one transaction regardless of how the
// downstream send later fares; retries are an explicit separate call
// (MarkSendResult records the outcome but never resets the flag).
func (c *Coordinator) OnChannelFailure(ctx context.Context, sessionID, vendorAddress, reason string, company models.Company) (*OutreachRequest, error) {
	if !ValidReason(reason) {
		return nil, fmt.Errorf("fallback: unknown failure reason %q for session %s", reason, sessionID)
	}

	attempt := false
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec models.FailedChannel
		result := tx.First(&rec, "session_id = ?", sessionID)
		switch {
		case result.Error == gorm.ErrRecordNotFound:
			rec = models.FailedChannel{
				SessionID:     sessionID,
				VendorAddress: vendorAddress,
				FailureReason: reason,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("record failure: %w", err)
			}
		case result.Error != nil:
			return fmt.Errorf("load record: %w", result.Error)
		case rec.Attempted:
			return nil
		}

		now := time.Now()
		update := tx.Model(&models.FailedChannel{}).
			Where("session_id = ? AND attempted = ?", sessionID, false).
			Updates(map[string]interface{}{
				"attempted":    true,
				"attempted_at": now,
			})
		if update.Error != nil {
			return fmt.Errorf("mark attempted: %w", update.Error)
		}
		// Zero rows means a concurrent event won the race.
		attempt = update.RowsAffected == 1
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fallback: session %s: %w", sessionID, err)
	}
	if !attempt {
		log.Printf("fallback: session %s already attempted, ignoring %s event", sessionID, reason)
		return nil, nil
	}

	log.Printf("fallback: session %s %s, preparing chat outreach to %s", sessionID, reason, vendorAddress)
	return &OutreachRequest{
		SessionID:     sessionID,
		VendorAddress: vendorAddress,
		Message:       c.messages.Outreach(ctx, company),
	}, nil
}

// MarkSendResult records whether the dispatched outreach went through.
// It never resets the attempted flag.
func (c *Coordinator) MarkSendResult(ctx context.Context, sessionID string, ok bool) error {
	result := c.db.WithContext(ctx).Model(&models.FailedChannel{}).
		Where("session_id = ?", sessionID).
		Update("send_ok", ok)
	if result.Error != nil {
		return fmt.Errorf("fallback: mark send result for %s: %w", sessionID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("fallback: mark send result: session %s has no failure record", sessionID)
	}
	return nil
}
