// Package quote projects a completed conversation's extraction fragments
// into a single vendor quotation record and exports records as CSV or JSON.
package quote

import (
	"strings"

	"github.com/zulandar/quotewire/internal/extract"
	"github.com/zulandar/quotewire/internal/models"
)

// textSeparator joins free-text fields collected across fragments.
const textSeparator = "; "

// Quality score weights and thresholds.
const (
	itemsWeight    = 2
	priceWeight    = 3
	deliveryWeight = 1
	contactWeight  = 1
	discountWeight = 1

	comprehensiveScore = 6
	goodScore          = 4
	basicScore         = 2
)

// Input is the data the aggregator needs from a finished conversation.
// It is a plain value so callers can build it from a context snapshot
// without this package depending on the conversation state types.
type Input struct {
	SessionID     string
	VendorAddress string
	CompanyID     string
	Items         []string
	Fragments     []extract.Fragment
}

// Aggregate folds the ordered fragments of one session into a quotation
// record. Items are deduplicated by name, each item carries the last
// price entry seen for it, and free-text terms from all fragments are
// joined in arrival order.
func Aggregate(in Input) models.Quotation {
	q := models.Quotation{
		SessionID:     in.SessionID,
		VendorAddress: in.VendorAddress,
		CompanyID:     in.CompanyID,
	}

	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}
	for _, name := range in.Items {
		add(name)
	}

	// Last-write-wins per item: a later, more specific quote replaces an
	// earlier one for the same item.
	latest := make(map[string]extract.PriceEntry)
	var unmatched []extract.PriceEntry

	var delivery, payment, discounts, minOrder []string
	var contactPerson, contactPhone string
	priceCount := 0

	for _, frag := range in.Fragments {
		for _, name := range frag.Items {
			add(name)
		}
		for _, p := range frag.Prices {
			priceCount++
			if p.Item == "" || p.Item == "unknown" {
				unmatched = append(unmatched, p)
				continue
			}
			add(p.Item)
			latest[p.Item] = p
		}
		if frag.HasDelivery() {
			delivery = appendText(delivery, formatDelivery(frag.Delivery))
		}
		if frag.PaymentTerms != "" {
			payment = appendText(payment, frag.PaymentTerms)
		}
		if frag.Discounts != "" {
			discounts = appendText(discounts, frag.Discounts)
		}
		if frag.MinimumOrder != "" {
			minOrder = appendText(minOrder, frag.MinimumOrder)
		}
		if frag.HasContact() {
			if frag.Contact.Person != "" {
				contactPerson = frag.Contact.Person
			}
			if frag.Contact.Phone != "" {
				contactPhone = frag.Contact.Phone
			}
		}
	}

	for _, name := range names {
		item := models.QuotationItem{Name: name}
		if p, ok := latest[name]; ok {
			item.Price = p.Price
			item.Unit = p.Unit
			item.Currency = p.Currency
			item.Detail = p.Detail
		}
		q.Items = append(q.Items, item)
	}
	for _, p := range unmatched {
		q.Items = append(q.Items, models.QuotationItem{
			Name: "unknown", Price: p.Price, Unit: p.Unit, Currency: p.Currency, Detail: p.Detail,
		})
	}

	q.TotalItems = len(names)
	q.PricingProvided = priceCount > 0
	q.DeliveryTerms = strings.Join(delivery, textSeparator)
	q.PaymentTerms = strings.Join(payment, textSeparator)
	q.Discounts = strings.Join(discounts, textSeparator)
	q.MinimumOrder = strings.Join(minOrder, textSeparator)
	q.ContactPerson = contactPerson
	q.ContactPhone = contactPhone
	q.Quality = grade(q)
	return q
}

// grade computes the weighted quality score and maps it to a label.
func grade(q models.Quotation) string {
	score := 0
	if q.TotalItems > 0 {
		score += itemsWeight
	}
	if q.PricingProvided {
		score += priceWeight
	}
	if q.DeliveryTerms != "" {
		score += deliveryWeight
	}
	if q.ContactPerson != "" || q.ContactPhone != "" {
		score += contactWeight
	}
	if q.Discounts != "" {
		score += discountWeight
	}
	switch {
	case score >= comprehensiveScore:
		return models.QualityComprehensive
	case score >= goodScore:
		return models.QualityGood
	case score >= basicScore:
		return models.QualityBasic
	default:
		return models.QualityIncomplete
	}
}

func formatDelivery(d *extract.Delivery) string {
	var parts []string
	if d.Time != "" {
		parts = append(parts, d.Time)
	}
	if d.Charges != "" {
		parts = append(parts, d.Charges)
	}
	if d.Conditions != "" {
		parts = append(parts, d.Conditions)
	}
	return strings.Join(parts, ", ")
}

func appendText(list []string, text string) []string {
	for _, t := range list {
		if t == text {
			return list
		}
	}
	return append(list, text)
}
