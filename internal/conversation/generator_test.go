package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zulandar/quotewire/internal/extract"
	"github.com/zulandar/quotewire/internal/models"
)

var generatorTestCompany = models.Company{
	ID:       "medicorp",
	Name:     "MediCorp Labs",
	Industry: "medical supplies",
}

func TestTemplateGenerator_Greeting(t *testing.T) {
	g := NewTemplateGenerator()

	got := g.Greeting(context.Background(), generatorTestCompany)
	if !strings.Contains(got, "MediCorp Labs") {
		t.Errorf("greeting %q does not name the company", got)
	}
	if !strings.Contains(got, "medical supplies") {
		t.Errorf("greeting %q does not name the industry", got)
	}
}

func TestTemplateGenerator_FollowUpTargetsMissingInfo(t *testing.T) {
	g := NewTemplateGenerator()
	ctx := context.Background()

	noItems := &Context{SessionID: "s1", TurnCount: 1}
	got := g.FollowUp(ctx, noItems, generatorTestCompany)
	if !strings.Contains(strings.ToLower(got), "catalog") && !strings.Contains(strings.ToLower(got), "items") {
		t.Errorf("no-items follow-up %q should ask what they stock", got)
	}

	noPrices := &Context{SessionID: "s1", TurnCount: 2, ItemsDiscussed: []string{"gloves", "slides"}}
	got = g.FollowUp(ctx, noPrices, generatorTestCompany)
	want := "What is your price for gloves and slides?"
	if got != want {
		t.Errorf("no-prices follow-up = %q, want %q", got, want)
	}

	priced := &Context{
		SessionID:      "s1",
		TurnCount:      3,
		ItemsDiscussed: []string{"gloves"},
		PricesReceived: []extract.PriceEntry{{Item: "gloves", Price: 50}},
	}
	got = g.FollowUp(ctx, priced, generatorTestCompany)
	if strings.Contains(got, "price for") {
		t.Errorf("priced follow-up %q should move past pricing", got)
	}
}

func TestTemplateGenerator_Deterministic(t *testing.T) {
	g := NewTemplateGenerator()
	ctx := context.Background()
	c := &Context{SessionID: "s1", TurnCount: 4, ItemsDiscussed: []string{"gloves"}}

	first := g.FollowUp(ctx, c, generatorTestCompany)
	for i := 0; i < 5; i++ {
		if again := g.FollowUp(ctx, c, generatorTestCompany); again != first {
			t.Fatalf("follow-up changed between identical calls: %q vs %q", first, again)
		}
	}
}

func TestTemplateGenerator_Closing(t *testing.T) {
	g := NewTemplateGenerator()

	cases := map[string]string{
		ReasonVendorDisengaged: "thank you for your time",
		ReasonUnresponsive:     "bad connection",
		"something-unknown":    "procurement team will review",
	}
	for reason, fragment := range cases {
		got := g.Closing(reason)
		if !strings.Contains(strings.ToLower(got), fragment) {
			t.Errorf("Closing(%q) = %q, want fragment %q", reason, got, fragment)
		}
	}
}

type scriptedClient struct {
	text string
	err  error
}

func (c *scriptedClient) Generate(_ context.Context, _ string) (string, error) {
	return c.text, c.err
}

func TestAIGenerator_UsesModelText(t *testing.T) {
	g := NewAIGenerator(&scriptedClient{text: "  Namaste! MediCorp Labs calling.  "})

	got := g.Greeting(context.Background(), generatorTestCompany)
	if got != "Namaste! MediCorp Labs calling." {
		t.Errorf("greeting = %q, want trimmed model text", got)
	}
}

func TestAIGenerator_FallsBackOnError(t *testing.T) {
	g := NewAIGenerator(&scriptedClient{err: errors.New("quota exceeded")})

	got := g.Greeting(context.Background(), generatorTestCompany)
	if !strings.Contains(got, "MediCorp Labs") {
		t.Errorf("fallback greeting %q does not name the company", got)
	}

	c := &Context{SessionID: "s1", TurnCount: 1, ItemsDiscussed: []string{"gloves"}}
	if follow := g.FollowUp(context.Background(), c, generatorTestCompany); follow == "" {
		t.Error("fallback follow-up is empty")
	}
}

func TestAIGenerator_NilClientDegradesToTemplates(t *testing.T) {
	g := NewAIGenerator(nil)
	tpl := NewTemplateGenerator()
	ctx := context.Background()

	if got, want := g.Outreach(ctx, generatorTestCompany), tpl.Outreach(ctx, generatorTestCompany); got != want {
		t.Errorf("outreach = %q, want template %q", got, want)
	}
	if got, want := g.Closing(ReasonTooLong), tpl.Closing(ReasonTooLong); got != want {
		t.Errorf("closing = %q, want template %q", got, want)
	}
}
