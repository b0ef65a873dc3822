// Package notify posts procurement events to ops chat channels. Delivery
// is best-effort: a down Slack workspace must never block a live call.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zulandar/quotewire/internal/models"
)

// formatCompletion renders a session-completed event as plain chat text.
func formatCompletion(session models.Session, q models.Quotation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Quotation collected from %s (%s)\n", session.VendorAddress, session.Channel)
	fmt.Fprintf(&b, "Session %s ended: %s\n", session.ID, session.EndReason)
	fmt.Fprintf(&b, "Quality: %s, items: %d", q.Quality, q.TotalItems)
	if q.PricingProvided {
		b.WriteString(", pricing provided")
	}
	if len(q.Items) > 0 {
		b.WriteString("\nItems:")
		for _, it := range q.Items {
			if it.Price > 0 {
				fmt.Fprintf(&b, "\n  - %s: %s %.2f %s", it.Name, it.Currency, it.Price, it.Unit)
			} else {
				fmt.Fprintf(&b, "\n  - %s", it.Name)
			}
		}
	}
	if q.DeliveryTerms != "" {
		fmt.Fprintf(&b, "\nDelivery: %s", q.DeliveryTerms)
	}
	return b.String()
}

// formatFallback renders a fallback-outreach event.
func formatFallback(sessionID, vendorAddress, reason string, sendOK bool) string {
	outcome := "sent"
	if !sendOK {
		outcome = "send failed"
	}
	return fmt.Sprintf("Call to %s %s; chat fallback %s (session %s)",
		vendorAddress, reason, outcome, sessionID)
}

// Notifier is the full event surface ops integrations implement.
type Notifier interface {
	SessionCompleted(ctx context.Context, session models.Session, q models.Quotation) error
	FallbackAttempted(ctx context.Context, sessionID, vendorAddress, reason string, sendOK bool) error
}

// Multi fans an event out to several notifiers.
type Multi []Notifier

// SessionCompleted forwards to every notifier; the first error wins but
// all notifiers still run.
func (m Multi) SessionCompleted(ctx context.Context, session models.Session, q models.Quotation) error {
	var first error
	for _, n := range m {
		if err := n.SessionCompleted(ctx, session, q); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// FallbackAttempted forwards to every notifier.
func (m Multi) FallbackAttempted(ctx context.Context, sessionID, vendorAddress, reason string, sendOK bool) error {
	var first error
	for _, n := range m {
		if err := n.FallbackAttempted(ctx, sessionID, vendorAddress, reason, sendOK); err != nil && first == nil {
			first = err
		}
	}
	return first
}
