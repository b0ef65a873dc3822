package quote

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zulandar/quotewire/internal/models"
)

var csvHeader = []string{
	"session_id", "vendor_address", "company_id", "total_items", "items",
	"pricing_provided", "quality", "delivery_terms", "payment_terms",
	"discounts", "minimum_order", "contact_person", "contact_phone", "created_at",
}

// ExportCSV writes one row per quotation record, items flattened into a
// single "name @ price unit" list column.
func ExportCSV(w io.Writer, records []models.Quotation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("quote: write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.SessionID,
			r.VendorAddress,
			r.CompanyID,
			strconv.Itoa(r.TotalItems),
			flattenItems(r.Items),
			strconv.FormatBool(r.PricingProvided),
			r.Quality,
			r.DeliveryTerms,
			r.PaymentTerms,
			r.Discounts,
			r.MinimumOrder,
			r.ContactPerson,
			r.ContactPhone,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("quote: write csv row for %s: %w", r.SessionID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("quote: flush csv: %w", err)
	}
	return nil
}

// ExportJSON writes the records as an indented JSON array.
func ExportJSON(w io.Writer, records []models.Quotation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("quote: encode json: %w", err)
	}
	return nil
}

func flattenItems(items []models.QuotationItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if it.Price > 0 {
			p := strconv.FormatFloat(it.Price, 'f', -1, 64)
			if it.Unit != "" {
				parts = append(parts, fmt.Sprintf("%s @ %s %s %s", it.Name, it.Currency, p, it.Unit))
			} else {
				parts = append(parts, fmt.Sprintf("%s @ %s %s", it.Name, it.Currency, p))
			}
			continue
		}
		parts = append(parts, it.Name)
	}
	return strings.Join(parts, " | ")
}
