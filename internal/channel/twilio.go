package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zulandar/quotewire/internal/config"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// httpDoer abstracts the HTTP client for test mocks.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Twilio implements VoiceTransport and ChatTransport against the Twilio
// REST API. Chat messages go out over the WhatsApp channel, matching the
// voice-to-WhatsApp fallback pairing.
type Twilio struct {
	accountSID string
	authToken  string
	fromNumber string
	chatFrom   string
	client     httpDoer
	apiBase    string
}

// TwilioOpts holds parameters for creating a Twilio transport.
type TwilioOpts struct {
	Config config.TransportConfig
	// For testing: inject an HTTP client and API base URL.
	Client  httpDoer
	APIBase string
}

// NewTwilio creates a Twilio transport.
func NewTwilio(opts TwilioOpts) (*Twilio, error) {
	cfg := opts.Config
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("channel: twilio account sid and auth token are required")
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	base := opts.APIBase
	if base == "" {
		base = twilioAPIBase
	}
	return &Twilio{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		chatFrom:   cfg.ChatFrom,
		client:     client,
		apiBase:    base,
	}, nil
}

// PlaceCall starts an outbound call whose webhooks point at webhookBase.
// The returned call SID is the session ID for all subsequent events.
func (t *Twilio) PlaceCall(ctx context.Context, vendorAddress, webhookBase, companyID string) (string, error) {
	voiceURL := webhookBase + "/webhook/voice"
	if companyID != "" {
		voiceURL += "?company=" + url.QueryEscape(companyID)
	}
	form := url.Values{
		"To":                  {vendorAddress},
		"From":                {t.fromNumber},
		"Url":                 {voiceURL},
		"Method":              {"POST"},
		"StatusCallback":      {webhookBase + "/webhook/status"},
		"StatusCallbackEvent": {"completed"},
	}
	body, err := t.post(ctx, "Calls.json", form)
	if err != nil {
		return "", fmt.Errorf("channel: place call to %s: %w", vendorAddress, err)
	}
	var created struct {
		Sid string `json:"sid"`
	}
	if err := json.Unmarshal([]byte(body), &created); err != nil || created.Sid == "" {
		return "", fmt.Errorf("channel: place call to %s: no sid in response", vendorAddress)
	}
	return created.Sid, nil
}

// Hangup ends an in-progress call.
func (t *Twilio) Hangup(ctx context.Context, callID string) error {
	form := url.Values{"Status": {"completed"}}
	if _, err := t.post(ctx, "Calls/"+callID+".json", form); err != nil {
		return fmt.Errorf("channel: hangup %s: %w", callID, err)
	}
	return nil
}

// SendMessage delivers a WhatsApp message to the vendor.
func (t *Twilio) SendMessage(ctx context.Context, vendorAddress, text string) error {
	form := url.Values{
		"To":   {whatsappAddress(vendorAddress)},
		"From": {whatsappAddress(t.chatFrom)},
		"Body": {text},
	}
	if _, err := t.post(ctx, "Messages.json", form); err != nil {
		return fmt.Errorf("channel: send message to %s: %w", vendorAddress, err)
	}
	return nil
}

func (t *Twilio) post(ctx context.Context, resource string, form url.Values) (string, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/%s", t.apiBase, t.accountSID, resource)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return string(body), nil
}

// whatsappAddress prefixes a phone number for the WhatsApp channel.
func whatsappAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
