// Package channel defines the transport boundary between the conversation
// engine and the outside voice/chat providers.
package channel

import (
	"context"
	"time"
)

// VoiceTransport is the interface a telephony provider integration must
// satisfy. PlaceCall starts an outbound call and returns the provider's
// call identifier, which becomes the session ID for all later events.
type VoiceTransport interface {
	PlaceCall(ctx context.Context, vendorAddress, webhookBase, companyID string) (string, error)
	Hangup(ctx context.Context, callID string) error
}

// ChatTransport sends text messages to a vendor's chat address. It is
// used both for chat-first conversations and for voice-failure fallback
// outreach.
type ChatTransport interface {
	SendMessage(ctx context.Context, vendorAddress, text string) error
}

// UtteranceEvent is one recognized speech segment or inbound chat message.
type UtteranceEvent struct {
	SessionID     string
	Channel       string // models.ChannelVoice or models.ChannelChat
	VendorAddress string
	Text          string
	Timestamp     time.Time
}

// StatusEvent is a provider callback about call/message delivery state.
type StatusEvent struct {
	SessionID     string
	VendorAddress string
	Status        string // provider status, e.g. "completed", "no-answer"
	Timestamp     time.Time
}
