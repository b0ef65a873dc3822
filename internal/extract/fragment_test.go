package extract

import "testing"

func TestScore_ItemsPricesDelivery(t *testing.T) {
	frag := Fragment{
		Items:    []string{"A", "B"},
		Prices:   []PriceEntry{{Item: "A", Price: 45, Unit: "per piece", Currency: "INR"}},
		Delivery: &Delivery{Time: "3 days"},
		Method:   MethodAI,
	}
	if got := Score(&frag); got != 85 {
		t.Errorf("Score = %d, want 85 (30+40+15)", got)
	}
}

func TestScore_Empty(t *testing.T) {
	frag := Fragment{Method: MethodAI}
	if got := Score(&frag); got != 0 {
		t.Errorf("Score = %d, want 0", got)
	}
}

func TestScore_AllFields(t *testing.T) {
	frag := Fragment{
		Items:    []string{"A"},
		Prices:   []PriceEntry{{Item: "A", Price: 10}},
		Delivery: &Delivery{Charges: "free"},
		Contact:  &Contact{Person: "Ramesh"},
		Method:   MethodAI,
	}
	if got := Score(&frag); got != 100 {
		t.Errorf("Score = %d, want 100", got)
	}
}

func TestScore_EmptyDeliveryObjectDoesNotCount(t *testing.T) {
	frag := Fragment{
		Items:    []string{"A"},
		Delivery: &Delivery{},
		Method:   MethodAI,
	}
	if got := Score(&frag); got != 30 {
		t.Errorf("Score = %d, want 30 (empty delivery object ignored)", got)
	}
}

func TestScore_FallbackCap(t *testing.T) {
	frag := Fragment{
		Items:    []string{"A"},
		Prices:   []PriceEntry{{Item: "A", Price: 10}},
		Delivery: &Delivery{Time: "2 days"},
		Contact:  &Contact{Phone: "+91"},
		Method:   MethodFallback,
	}
	if got := Score(&frag); got != 60 {
		t.Errorf("Score = %d, want 60 (fallback cap)", got)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"", LangUnknown},
		{"price is 45 rupees per piece", LangEnglish},
		{"पचास रुपये का है", LangHindi},
		{"रुपये का price per", LangHinglish},
		{"hmm achha", LangUnknown},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.text); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
