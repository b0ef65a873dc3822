package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/zulandar/quotewire/internal/models"
)

// requestTimeout bounds a single language-model call. Extraction is on the
// hot path of a live phone conversation; a slow model must not stall it.
const requestTimeout = 10 * time.Second

// Client abstracts the external language-model service for testability.
type Client interface {
	// Generate sends a prompt and returns the raw model text.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Adapter wraps the language-model call with a fixed JSON contract and
// falls back to the Heuristic extractor on any failure. Extract always
// returns a well-formed Fragment and never an error.
type Adapter struct {
	client     Client
	heuristic  *Heuristic
	maxRetries int
	retryDelay time.Duration
}

// AdapterOpts holds parameters for creating an Adapter.
type AdapterOpts struct {
	Client     Client
	Heuristic  *Heuristic
	MaxRetries int           // defaults to 3
	RetryDelay time.Duration // defaults to 1s, grows linearly per attempt
}

// NewAdapter creates an Adapter. Heuristic is required; Client may be nil,
// in which case every extraction uses the fallback path.
func NewAdapter(opts AdapterOpts) (*Adapter, error) {
	if opts.Heuristic == nil {
		return nil, fmt.Errorf("extract: adapter: heuristic is required")
	}
	retries := opts.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = time.Second
	}
	return &Adapter{
		client:     opts.Client,
		heuristic:  opts.Heuristic,
		maxRetries: retries,
		retryDelay: delay,
	}, nil
}

// Extract pulls structured quotation data out of one utterance. On any
// transport, quota, or parse failure it degrades to the heuristic
// extractor, so the caller always receives a usable fragment.
func (a *Adapter) Extract(ctx context.Context, text string, company models.Company) Fragment {
	if a.client == nil {
		return a.heuristic.Extract(text)
	}

	frag, err := a.request(ctx, extractionPrompt(text, company))
	if err != nil {
		log.Printf("extract: ai extraction failed, using fallback: %v", err)
		return a.heuristic.Extract(text)
	}

	frag.Method = MethodAI
	frag.Confidence = Score(&frag)
	return frag
}

// request calls the model with bounded retries and linearly increasing
// backoff between attempts. A malformed response counts as a failed
// attempt, same as a transport or quota error.
func (a *Adapter) request(ctx context.Context, prompt string) (Fragment, error) {
	var lastErr error
	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		raw, err := a.client.Generate(callCtx, prompt)
		cancel()

		if err == nil && strings.TrimSpace(raw) == "" {
			err = fmt.Errorf("empty response")
		}
		if err == nil {
			var frag Fragment
			frag, err = parseFragment(raw)
			if err == nil {
				return frag, nil
			}
		}
		lastErr = err

		if attempt < a.maxRetries {
			select {
			case <-time.After(a.retryDelay * time.Duration(attempt)):
			case <-ctx.Done():
				return Fragment{}, ctx.Err()
			}
		}
	}
	return Fragment{}, fmt.Errorf("extract: %d attempts failed: %w", a.maxRetries, lastErr)
}

// parseFragment strips any code-fence wrapping and decodes the fragment
// schema. Unknown sentiment values are normalized to neutral.
func parseFragment(raw string) (Fragment, error) {
	cleaned := stripCodeFence(raw)

	var frag Fragment
	if err := json.Unmarshal([]byte(cleaned), &frag); err != nil {
		return Fragment{}, fmt.Errorf("decode fragment: %w", err)
	}

	switch frag.Sentiment {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
	default:
		frag.Sentiment = SentimentNeutral
	}
	return frag, nil
}

// stripCodeFence removes a ```json ... ``` or ``` ... ``` wrapper.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// extractionPrompt builds the fixed-shape extraction request. The field set
// mirrors the Fragment schema exactly; the model is told to use null/empty
// when information is absent rather than inventing values.
func extractionPrompt(text string, company models.Company) string {
	return fmt.Sprintf(`Extract procurement information from this vendor response for %s:

Vendor said: %q

Return JSON with exactly these fields:
{
  "items_mentioned": ["item1", "item2"],
  "prices": [{"item": "item_name", "price": 45, "unit": "per piece", "currency": "INR", "details": "details"}],
  "availability": [{"item": "item_name", "status": "in_stock", "quantity": "available quantity"}],
  "delivery_info": {"time": "delivery time", "charges": "delivery charges", "conditions": "conditions"},
  "contact_info": {"person": "contact person", "phone": "phone number", "company": "company name"},
  "payment_terms": "payment conditions",
  "discounts": "discount information",
  "minimum_order": "minimum order requirements",
  "sentiment": "positive/neutral/negative",
  "quality_info": "quality standards mentioned"
}

Instructions:
1. Handle Hindi and English content.
2. Normalize prices to plain numbers.
3. Use null/empty when information is absent.
4. Return ONLY valid JSON.`, company.Name, text)
}
