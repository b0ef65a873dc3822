package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	slackapi "github.com/slack-go/slack"

	"github.com/zulandar/quotewire/internal/models"
)

func sampleSession() models.Session {
	return models.Session{
		ID:            "CA123",
		Channel:       models.ChannelVoice,
		VendorAddress: "+919876543210",
		Status:        models.SessionCompleted,
		EndReason:     "comprehensive_info_collected",
	}
}

func sampleQuotation() models.Quotation {
	return models.Quotation{
		SessionID:       "CA123",
		TotalItems:      2,
		Quality:         models.QualityGood,
		PricingProvided: true,
		DeliveryTerms:   "2 days",
		Items: []models.QuotationItem{
			{Name: "petri", Price: 45, Unit: "per piece", Currency: "INR"},
			{Name: "gloves"},
		},
	}
}

func TestFormatCompletion(t *testing.T) {
	text := formatCompletion(sampleSession(), sampleQuotation())

	for _, want := range []string{
		"+919876543210", "CA123", "comprehensive_info_collected",
		"Quality: good", "items: 2", "pricing provided",
		"petri: INR 45.00 per piece", "gloves", "Delivery: 2 days",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("formatted text missing %q:\n%s", want, text)
		}
	}
}

func TestFormatFallback(t *testing.T) {
	text := formatFallback("CA123", "+91987", "no-answer", true)
	if !strings.Contains(text, "no-answer") || !strings.Contains(text, "fallback sent") {
		t.Errorf("formatted text = %q", text)
	}
	text = formatFallback("CA123", "+91987", "busy", false)
	if !strings.Contains(text, "send failed") {
		t.Errorf("formatted text = %q", text)
	}
}

type mockSlackClient struct {
	channels []string
	texts    []string
	err      error
}

func (m *mockSlackClient) PostMessageContext(_ context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.err != nil {
		return "", "", m.err
	}
	m.channels = append(m.channels, channelID)
	m.texts = append(m.texts, "posted")
	return channelID, "ts", nil
}

func TestSlack_SessionCompleted(t *testing.T) {
	client := &mockSlackClient{}
	s, err := NewSlack(SlackOpts{ChannelID: "C01", Client: client})
	if err != nil {
		t.Fatalf("NewSlack: %v", err)
	}

	if err := s.SessionCompleted(context.Background(), sampleSession(), sampleQuotation()); err != nil {
		t.Fatalf("SessionCompleted: %v", err)
	}
	if len(client.channels) != 1 || client.channels[0] != "C01" {
		t.Errorf("posted channels = %v", client.channels)
	}
}

func TestSlack_PostError(t *testing.T) {
	client := &mockSlackClient{err: errors.New("rate limited")}
	s, err := NewSlack(SlackOpts{ChannelID: "C01", Client: client})
	if err != nil {
		t.Fatalf("NewSlack: %v", err)
	}
	if err := s.FallbackAttempted(context.Background(), "CA123", "+91987", "busy", true); err == nil {
		t.Error("expected error from failing client")
	}
}

func TestNewSlack_Validation(t *testing.T) {
	if _, err := NewSlack(SlackOpts{}); err == nil {
		t.Error("NewSlack without channel succeeded")
	}
	if _, err := NewSlack(SlackOpts{ChannelID: "C01"}); err == nil {
		t.Error("NewSlack without token or client succeeded")
	}
}

type mockDiscordSession struct {
	channels []string
	err      error
}

func (m *mockDiscordSession) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.channels = append(m.channels, channelID)
	return &discordgo.Message{Content: content}, nil
}

func TestDiscord_FallbackAttempted(t *testing.T) {
	sess := &mockDiscordSession{}
	d, err := NewDiscord(DiscordOpts{ChannelID: "D01", Session: sess})
	if err != nil {
		t.Fatalf("NewDiscord: %v", err)
	}

	if err := d.FallbackAttempted(context.Background(), "CA123", "+91987", "no-answer", true); err != nil {
		t.Fatalf("FallbackAttempted: %v", err)
	}
	if len(sess.channels) != 1 || sess.channels[0] != "D01" {
		t.Errorf("posted channels = %v", sess.channels)
	}
}

func TestMulti_FansOutAndKeepsFirstError(t *testing.T) {
	good := &mockSlackClient{}
	bad := &mockSlackClient{err: errors.New("down")}

	s1, _ := NewSlack(SlackOpts{ChannelID: "C01", Client: bad})
	s2, _ := NewSlack(SlackOpts{ChannelID: "C02", Client: good})
	m := Multi{s1, s2}

	err := m.SessionCompleted(context.Background(), sampleSession(), sampleQuotation())
	if err == nil {
		t.Error("Multi swallowed the error")
	}
	if len(good.channels) != 1 {
		t.Error("Multi stopped at the failing notifier")
	}
}
