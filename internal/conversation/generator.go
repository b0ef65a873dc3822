package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/zulandar/quotewire/internal/extract"
	"github.com/zulandar/quotewire/internal/models"
)

// Generator produces the agent's side of the conversation. Implementations
// must always return usable text; degraded backends fall back to canned
// responses rather than erroring out mid-call.
type Generator interface {
	Greeting(ctx context.Context, company models.Company) string
	FollowUp(ctx context.Context, c *Context, company models.Company) string
	Outreach(ctx context.Context, company models.Company) string
	Closing(reason string) string
}

var (
	greetingTemplates = []string{
		"Namaste! Main %s se bol raha hun. Humein %s supplies chahiye.",
		"Hello! This is %s. We need supplies for our %s operations.",
		"Good day! %s here. We require procurement for %s items.",
	}

	followUpTemplates = []string{
		"What items do you have available and at what price?",
		"Can you share your catalog and pricing?",
		"What are your current stock levels and delivery terms?",
		"Please provide quotation for your supplies.",
	}

	outreachTemplates = []string{
		"Hi! %s here. We tried calling but couldn't connect. We need %s supplies. Can you share your catalog and pricing?",
		"Hello from %s. Call didn't go through. Need supplies for %s. Please send quotation.",
		"Greetings! %s procurement team. Phone call failed. Seeking %s supplies quotes.",
	}

	closingTemplates = map[string]string{
		ReasonComprehensiveInfo: "Thank you for the detailed information. Our procurement team will review and contact you.",
		ReasonSufficientInfo:    "Thanks for the details. Our team will review and get back to you.",
		ReasonVendorDisengaged:  "No problem, thank you for your time. Have a good day.",
		ReasonUnresponsive:      "We seem to have a bad connection. We'll reach out again later. Thank you.",
		ReasonTooLong:           "Appreciate your response. We'll be in touch with our requirements.",
	}

	defaultClosing = "Thank you for the information. Our procurement team will review and contact you."
)

// TemplateGenerator serves canned responses. Selection is deterministic:
// the same context always produces the same text, so replays are stable.
type TemplateGenerator struct{}

// NewTemplateGenerator returns the canned-response generator.
func NewTemplateGenerator() *TemplateGenerator { return &TemplateGenerator{} }

func (g *TemplateGenerator) Greeting(_ context.Context, company models.Company) string {
	return fmt.Sprintf(greetingTemplates[0], company.Name, company.Industry)
}

// FollowUp picks the question targeting the most important missing piece:
// no items yet means ask what they stock, items without prices means ask
// for pricing, otherwise ask about delivery terms. The template pool
// rotates by turn count so repeated asks don't parrot the same sentence.
func (g *TemplateGenerator) FollowUp(_ context.Context, c *Context, _ models.Company) string {
	switch {
	case len(c.ItemsDiscussed) == 0:
		return followUpTemplates[c.TurnCount%2]
	case len(c.PricesReceived) == 0:
		return fmt.Sprintf("What is your price for %s?", strings.Join(c.ItemsDiscussed, " and "))
	default:
		return followUpTemplates[2+c.TurnCount%2]
	}
}

func (g *TemplateGenerator) Outreach(_ context.Context, company models.Company) string {
	return fmt.Sprintf(outreachTemplates[0], company.Name, company.Industry)
}

func (g *TemplateGenerator) Closing(reason string) string {
	if text, ok := closingTemplates[reason]; ok {
		return text
	}
	return defaultClosing
}

// AIGenerator asks a language model for responses and falls back to the
// template generator when the model is unavailable or errors.
type AIGenerator struct {
	client   extract.Client
	fallback *TemplateGenerator
}

// NewAIGenerator wraps a model client. A nil client degrades every call
// to the template generator.
func NewAIGenerator(client extract.Client) *AIGenerator {
	return &AIGenerator{client: client, fallback: NewTemplateGenerator()}
}

func (g *AIGenerator) Greeting(ctx context.Context, company models.Company) string {
	prompt := fmt.Sprintf(`Generate a professional greeting for a procurement call from %s, a %s company.

Requirements:
1. Professional and friendly tone
2. Use Hindi-English mix for Indian business context
3. Introduce company briefly
4. Mention need for %s supplies
5. Keep concise (2 sentences max)
6. Sound natural for phone conversation
7. No emojis

Generate only the spoken text.`, company.Name, company.Industry, company.Industry)

	if text := g.ask(ctx, prompt); text != "" {
		return text
	}
	return g.fallback.Greeting(ctx, company)
}

func (g *AIGenerator) FollowUp(ctx context.Context, c *Context, company models.Company) string {
	prompt := fmt.Sprintf(`Generate a focused follow-up question for %s procurement call.

Context:
- Company: %s (%s)
- Conversation stage: %s
- Turn: %d
- Items discussed: %s
- Prices received: %d

Rules:
1. Ask only ONE specific question
2. Focus on most important missing information
3. If no items mentioned: ask about %s supplies
4. If items mentioned but no prices: ask for pricing
5. If basic info gathered: ask about delivery or minimum order
6. After 3+ turns: start closing conversation
7. Use business language (Hindi-English mix)
8. Keep brief and direct
9. No emojis

Generate only the question.`,
		company.Name, company.Name, company.Industry, c.Stage, c.TurnCount,
		strings.Join(c.ItemsDiscussed, ", "), len(c.PricesReceived), company.Industry)

	if text := g.ask(ctx, prompt); text != "" {
		return text
	}
	return g.fallback.FollowUp(ctx, c, company)
}

func (g *AIGenerator) Outreach(ctx context.Context, company models.Company) string {
	prompt := fmt.Sprintf(`Generate a professional chat message for %s procurement inquiry.

Company: %s (%s)

Requirements:
1. Professional but friendly tone
2. Mention the failed call attempt
3. Introduce %s briefly
4. Ask about %s supplies
5. Request catalog/pricing
6. Keep under 120 characters
7. Business-appropriate language

Generate only the message text.`,
		company.Name, company.Name, company.Industry, company.Name, company.Industry)

	if text := g.ask(ctx, prompt); text != "" {
		return text
	}
	return g.fallback.Outreach(ctx, company)
}

func (g *AIGenerator) Closing(reason string) string {
	return g.fallback.Closing(reason)
}

func (g *AIGenerator) ask(ctx context.Context, prompt string) string {
	if g.client == nil {
		return ""
	}
	text, err := g.client.Generate(ctx, prompt)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
