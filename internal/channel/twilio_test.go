package channel

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/zulandar/quotewire/internal/config"
)

// recordingClient captures requests and plays back canned responses.
type recordingClient struct {
	requests []*http.Request
	bodies   []string
	status   int
	response string
}

func (c *recordingClient) Do(req *http.Request) (*http.Response, error) {
	body, _ := io.ReadAll(req.Body)
	c.requests = append(c.requests, req)
	c.bodies = append(c.bodies, string(body))
	status := c.status
	if status == 0 {
		status = http.StatusCreated
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(c.response)),
	}, nil
}

func testTransport(t *testing.T, client *recordingClient) *Twilio {
	t.Helper()
	tw, err := NewTwilio(TwilioOpts{
		Config: config.TransportConfig{
			AccountSID: "AC001",
			AuthToken:  "secret",
			FromNumber: "+1555000",
			ChatFrom:   "+1555001",
		},
		Client:  client,
		APIBase: "https://api.test",
	})
	if err != nil {
		t.Fatalf("NewTwilio: %v", err)
	}
	return tw
}

func TestNewTwilio_RequiresCredentials(t *testing.T) {
	_, err := NewTwilio(TwilioOpts{Config: config.TransportConfig{AccountSID: "AC001"}})
	if err == nil {
		t.Error("NewTwilio without auth token succeeded")
	}
}

func TestPlaceCall(t *testing.T) {
	client := &recordingClient{response: `{"sid": "CA123", "status": "queued"}`}
	tw := testTransport(t, client)

	sid, err := tw.PlaceCall(context.Background(), "+919876543210", "https://qw.example.com", "medicorp")
	if err != nil {
		t.Fatalf("PlaceCall: %v", err)
	}
	if sid != "CA123" {
		t.Errorf("sid = %q, want CA123", sid)
	}

	req := client.requests[0]
	if !strings.Contains(req.URL.String(), "/Accounts/AC001/Calls.json") {
		t.Errorf("url = %s", req.URL)
	}
	if user, pass, _ := req.BasicAuth(); user != "AC001" || pass != "secret" {
		t.Error("basic auth not set")
	}
	form := client.bodies[0]
	for _, want := range []string{"To=%2B919876543210", "webhook%2Fvoice%3Fcompany%3Dmedicorp", "webhook%2Fstatus"} {
		if !strings.Contains(form, want) {
			t.Errorf("form %q missing %q", form, want)
		}
	}
}

func TestPlaceCall_APIError(t *testing.T) {
	client := &recordingClient{status: http.StatusUnauthorized, response: `{"message": "bad creds"}`}
	tw := testTransport(t, client)

	if _, err := tw.PlaceCall(context.Background(), "+91987", "https://qw.example.com", ""); err == nil {
		t.Error("PlaceCall succeeded against 401")
	}
}

func TestSendMessage_UsesWhatsAppAddresses(t *testing.T) {
	client := &recordingClient{response: `{"sid": "SM1"}`}
	tw := testTransport(t, client)

	if err := tw.SendMessage(context.Background(), "+919876543210", "Need supplies"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	form := client.bodies[0]
	if !strings.Contains(form, "whatsapp%3A%2B919876543210") {
		t.Errorf("form %q: recipient not on whatsapp channel", form)
	}
	if !strings.Contains(form, "whatsapp%3A%2B1555001") {
		t.Errorf("form %q: sender not on whatsapp channel", form)
	}
	if !strings.Contains(client.requests[0].URL.String(), "Messages.json") {
		t.Errorf("url = %s", client.requests[0].URL)
	}
}

func TestHangup(t *testing.T) {
	client := &recordingClient{response: `{"sid": "CA123", "status": "completed"}`}
	tw := testTransport(t, client)

	if err := tw.Hangup(context.Background(), "CA123"); err != nil {
		t.Fatalf("Hangup: %v", err)
	}
	if !strings.Contains(client.requests[0].URL.String(), "Calls/CA123.json") {
		t.Errorf("url = %s", client.requests[0].URL)
	}
}
