package extract

import "strings"

// Language labels attached to audit turns.
const (
	LangHindi    = "hindi"
	LangEnglish  = "english"
	LangHinglish = "hinglish"
	LangUnknown  = "unknown"
)

var (
	hindiMarkers = []string{
		"रुपये", "रुपया", "पैसे", "हजार", "सौ", "है", "का", "के", "मे", "से",
		"ठीक", "अच्छा", "बताओ", "कितना",
	}
	englishMarkers = []string{
		"rupees", "rs", "price", "cost", "each", "per", "piece", "unit",
		"yes", "no", "okay", "repeat",
	}
)

// DetectLanguage classifies an utterance as Hindi, English, or a Hinglish
// mix by counting marker words. Used only for audit-trail labelling, never
// for control flow.
func DetectLanguage(text string) string {
	if text == "" {
		return LangUnknown
	}
	lower := strings.ToLower(text)

	hindi, english := 0, 0
	for _, w := range hindiMarkers {
		if strings.Contains(lower, w) {
			hindi++
		}
	}
	for _, w := range englishMarkers {
		if strings.Contains(lower, w) {
			english++
		}
	}

	switch {
	case hindi > english:
		return LangHindi
	case english > hindi:
		return LangEnglish
	case hindi > 0:
		return LangHinglish
	default:
		return LangUnknown
	}
}
