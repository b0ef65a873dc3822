package channel

import (
	"context"
	"fmt"
	"sync"
)

// MockVoiceTransport implements VoiceTransport for testing. It records
// placed calls and hands out sequential call IDs.
type MockVoiceTransport struct {
	mu      sync.Mutex
	calls   []string // vendor addresses in call order
	hangups []string
	counter int
	FailErr error // when set, PlaceCall returns this error
}

// NewMockVoiceTransport creates an empty mock.
func NewMockVoiceTransport() *MockVoiceTransport { return &MockVoiceTransport{} }

// PlaceCall records the call and returns a synthetic call ID.
func (m *MockVoiceTransport) PlaceCall(_ context.Context, vendorAddress, _, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailErr != nil {
		return "", m.FailErr
	}
	m.counter++
	m.calls = append(m.calls, vendorAddress)
	return fmt.Sprintf("CALL-%d", m.counter), nil
}

// Hangup records the hangup.
func (m *MockVoiceTransport) Hangup(_ context.Context, callID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hangups = append(m.hangups, callID)
	return nil
}

// CallCount returns the number of calls placed.
func (m *MockVoiceTransport) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastCall returns the most recently dialed vendor address.
func (m *MockVoiceTransport) LastCall() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return "", false
	}
	return m.calls[len(m.calls)-1], true
}

// SentMessage is one message recorded by MockChatTransport.
type SentMessage struct {
	VendorAddress string
	Text          string
}

// MockChatTransport implements ChatTransport for testing.
type MockChatTransport struct {
	mu      sync.Mutex
	sent    []SentMessage
	FailErr error // when set, SendMessage returns this error
}

// NewMockChatTransport creates an empty mock.
func NewMockChatTransport() *MockChatTransport { return &MockChatTransport{} }

// SendMessage records the message.
func (m *MockChatTransport) SendMessage(_ context.Context, vendorAddress, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailErr != nil {
		return m.FailErr
	}
	m.sent = append(m.sent, SentMessage{VendorAddress: vendorAddress, Text: text})
	return nil
}

// SentCount returns the number of messages sent.
func (m *MockChatTransport) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// AllSent returns a copy of all recorded messages.
func (m *MockChatTransport) AllSent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}
