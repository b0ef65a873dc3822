package conversation

import (
	"strings"
	"unicode/utf8"

	"github.com/zulandar/quotewire/internal/extract"
)

// minMeaningfulLen is the minimal-content threshold in runes. Utterances
// shorter than this are treated as non-meaningful acknowledgements.
const minMeaningfulLen = 10

// bareNegatives are tokens that, alone, signal the vendor is declining.
var bareNegatives = map[string]bool{
	"no":    true,
	"nope":  true,
	"nah":   true,
	"nahi":  true,
	"nahin": true,
}

// Update folds one utterance and its extraction result into the context.
// It is deterministic, has no hidden state, and panics if the context
// invariant is already violated. Callers invoke it under the store's
// per-session lock.
func Update(c *Context, utterance string, frag extract.Fragment) {
	c.checkInvariant()

	c.TurnCount++
	c.VendorResponses = append(c.VendorResponses, utterance)
	c.Fragments = append(c.Fragments, frag)

	c.Engagement = nextEngagement(c.Engagement, utterance, frag)

	for _, item := range frag.Items {
		if item != "" && !c.HasItem(item) {
			c.ItemsDiscussed = append(c.ItemsDiscussed, item)
		}
	}
	c.PricesReceived = append(c.PricesReceived, frag.Prices...)

	c.HasComprehensiveInfo = len(c.ItemsDiscussed) >= 2 && len(c.PricesReceived) >= 1

	next := computeStage(c.TurnCount, len(c.ItemsDiscussed), len(c.PricesReceived))
	if stageRank[next] > stageRank[c.Stage] {
		c.Stage = next
	}

	c.checkInvariant()
}

// nextEngagement derives the engagement level from the latest utterance.
// A bare negative token forces declining; a meaningful utterance relaxes
// declining back to neutral, never straight to positive.
func nextEngagement(current, utterance string, frag extract.Fragment) string {
	trimmed := strings.ToLower(strings.TrimSpace(utterance))
	trimmed = strings.TrimRight(trimmed, ".!,")

	if bareNegatives[trimmed] {
		return EngagementDeclining
	}
	if !isMeaningful(utterance) {
		return current
	}

	if current == EngagementDeclining {
		return EngagementNeutral
	}
	switch frag.Sentiment {
	case extract.SentimentPositive:
		return EngagementPositive
	case extract.SentimentNegative:
		return EngagementDeclining
	default:
		return EngagementNeutral
	}
}

// isMeaningful reports whether an utterance carries enough content to
// count as real engagement.
func isMeaningful(utterance string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(utterance)) >= minMeaningfulLen
}
