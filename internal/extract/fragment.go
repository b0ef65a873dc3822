// Package extract turns free-form bilingual vendor utterances into
// structured quotation fragments, using the external language-model service
// when available and a deterministic keyword extractor otherwise.
package extract

// Extraction methods for Fragment.Method.
const (
	MethodAI       = "ai"
	MethodFallback = "fallback"
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// fallbackConfidenceCap bounds the confidence of keyword-derived fragments.
const fallbackConfidenceCap = 60

// PriceEntry is one extracted price quote.
type PriceEntry struct {
	Item     string  `json:"item"`
	Price    float64 `json:"price"`
	Unit     string  `json:"unit"`
	Currency string  `json:"currency"`
	Detail   string  `json:"details,omitempty"`
}

// AvailabilityEntry reports stock status for one item.
type AvailabilityEntry struct {
	Item     string `json:"item"`
	Status   string `json:"status"`
	Quantity string `json:"quantity"`
}

// Delivery holds delivery terms mentioned by the vendor.
type Delivery struct {
	Time       string `json:"time"`
	Charges    string `json:"charges"`
	Conditions string `json:"conditions"`
}

// Contact holds vendor contact details.
type Contact struct {
	Person  string `json:"person"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

// Fragment is the normalized output of one extraction call. All optional
// fields are nullable; absent information stays nil/empty rather than
// being guessed.
type Fragment struct {
	Items        []string            `json:"items_mentioned"`
	Prices       []PriceEntry        `json:"prices"`
	Availability []AvailabilityEntry `json:"availability"`
	Delivery     *Delivery           `json:"delivery_info"`
	Contact      *Contact            `json:"contact_info"`
	PaymentTerms string              `json:"payment_terms"`
	Discounts    string              `json:"discounts"`
	MinimumOrder string              `json:"minimum_order"`
	Sentiment    string              `json:"sentiment"`
	QualityInfo  string              `json:"quality_info"`

	Method     string `json:"-"`
	Confidence int    `json:"-"`
}

// HasDelivery reports whether any delivery field is populated.
func (f *Fragment) HasDelivery() bool {
	return f.Delivery != nil && (f.Delivery.Time != "" || f.Delivery.Charges != "" || f.Delivery.Conditions != "")
}

// HasContact reports whether any contact field is populated.
func (f *Fragment) HasContact() bool {
	return f.Contact != nil && (f.Contact.Person != "" || f.Contact.Phone != "" || f.Contact.Company != "")
}

// Score computes extraction confidence additively from field population:
// items +30, prices +40, delivery +15, contact +15. Fallback-derived
// fragments are capped lower to reflect their reduced reliability.
func Score(f *Fragment) int {
	score := 0
	if len(f.Items) > 0 {
		score += 30
	}
	if len(f.Prices) > 0 {
		score += 40
	}
	if f.HasDelivery() {
		score += 15
	}
	if f.HasContact() {
		score += 15
	}
	if f.Method == MethodFallback && score > fallbackConfidenceCap {
		score = fallbackConfidenceCap
	}
	return score
}
