package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zulandar/quotewire/internal/config"
)

// pricePatterns is an ordered set of bilingual currency/price patterns.
// Symbol-prefixed forms are tried before unit-suffixed forms so that
// "₹45 per piece" is captured once, by the most specific pattern.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`₹\s*(\d+(?:,\d+)*(?:\.\d+)?)`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:रुपये|रुपया|rupees?|rs\.?)`),
	regexp.MustCompile(`(?:price|cost|rate)\s*(?:is|will be)?\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:each|per\s*piece|per\s*unit|per\s*box)`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:ka|ke|ki)\s*(?:hai|hoga|milega)`),
}

// numberWords maps spelled-out English and Hindi numbers to digits, so
// "forty five rupees" and "पचास रुपये" both yield numeric prices.
var numberWords = []struct{ word, digit string }{
	{"hundred", "100"}, {"thousand", "1000"},
	{"twenty", "20"}, {"thirty", "30"}, {"forty", "40"}, {"fifty", "50"},
	{"sixty", "60"}, {"seventy", "70"}, {"eighty", "80"}, {"ninety", "90"},
	{"ten", "10"}, {"one", "1"}, {"two", "2"}, {"three", "3"}, {"four", "4"},
	{"five", "5"}, {"six", "6"}, {"seven", "7"}, {"eight", "8"}, {"nine", "9"},
	{"सौ", "100"}, {"हजार", "1000"},
	{"बीस", "20"}, {"तीस", "30"}, {"चालीस", "40"}, {"पचास", "50"},
	{"साठ", "60"}, {"सत्तर", "70"}, {"अस्सी", "80"}, {"नब्बे", "90"},
	{"दस", "10"}, {"एक", "1"}, {"दो", "2"}, {"तीन", "3"}, {"चार", "4"},
	{"पांच", "5"}, {"पाँच", "5"}, {"छह", "6"}, {"सात", "7"}, {"आठ", "8"}, {"नौ", "9"},
}

// Heuristic is the deterministic, dependency-free fallback extractor. It
// never fails and never calls external services.
type Heuristic struct {
	items    []string
	positive []string
	negative []string
}

// NewHeuristic creates a Heuristic from the configured vocabularies.
func NewHeuristic(cfg config.ExtractConfig) *Heuristic {
	return &Heuristic{
		items:    lowerAll(cfg.ItemKeywords),
		positive: lowerAll(cfg.PositiveWords),
		negative: lowerAll(cfg.NegativeWords),
	}
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}

// Extract scans text against the item vocabulary and price patterns and
// votes on sentiment. The returned fragment always has Method set to
// fallback and a capped confidence.
func (h *Heuristic) Extract(text string) Fragment {
	lower := strings.ToLower(text)

	frag := Fragment{
		Items:     h.matchItems(lower),
		Prices:    extractPrices(lower),
		Sentiment: h.vote(lower),
		Method:    MethodFallback,
	}
	frag.Confidence = Score(&frag)
	return frag
}

// matchItems collects vocabulary keywords present in the text.
func (h *Heuristic) matchItems(lower string) []string {
	var found []string
	for _, kw := range h.items {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// extractPrices applies the ordered price patterns. Every distinct numeric
// match becomes an entry with item "unknown"; the caller may associate it
// positionally with the most recently discussed item.
func extractPrices(lower string) []PriceEntry {
	normalized := normalizeNumberWords(lower)

	var entries []PriceEntry
	var taken [][2]int // numeric-group ranges already claimed by an earlier pattern
	overlaps := func(start, end int) bool {
		for _, r := range taken {
			if start < r[1] && end > r[0] {
				return true
			}
		}
		return false
	}
	for _, pat := range pricePatterns {
		for _, m := range pat.FindAllStringSubmatchIndex(normalized, -1) {
			if overlaps(m[2], m[3]) {
				continue
			}
			raw := strings.ReplaceAll(normalized[m[2]:m[3]], ",", "")
			val, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			taken = append(taken, [2]int{m[2], m[3]})
			entries = append(entries, PriceEntry{
				Item:     "unknown",
				Price:    val,
				Unit:     "unknown",
				Currency: "INR",
			})
		}
	}
	return entries
}

// normalizeNumberWords replaces spelled-out numbers with digits. Larger
// words are substituted first so "fifty" is not mangled by "five".
func normalizeNumberWords(text string) string {
	for _, nw := range numberWords {
		text = strings.ReplaceAll(text, nw.word, nw.digit)
	}
	return text
}

// vote counts positive versus negative vocabulary occurrences and picks
// the majority, defaulting to neutral on a tie or no matches.
func (h *Heuristic) vote(lower string) string {
	pos, neg := 0, 0
	for _, w := range h.positive {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range h.negative {
		if strings.Contains(lower, w) {
			neg++
		}
	}
	switch {
	case pos > neg:
		return SentimentPositive
	case neg > pos:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
