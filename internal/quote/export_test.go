package quote

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/zulandar/quotewire/internal/models"
)

func sampleRecords() []models.Quotation {
	created := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	return []models.Quotation{
		{
			SessionID:       "CA123",
			VendorAddress:   "+919876543210",
			CompanyID:       "medicorp",
			TotalItems:      2,
			Quality:         models.QualityGood,
			PricingProvided: true,
			DeliveryTerms:   "2 days",
			ContactPerson:   "Ramesh",
			CreatedAt:       created,
			Items: []models.QuotationItem{
				{Name: "petri", Price: 45, Unit: "per piece", Currency: "INR"},
				{Name: "gloves"},
			},
		},
		{
			SessionID: "CA456",
			Quality:   models.QualityIncomplete,
			CreatedAt: created,
		},
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 records", len(rows))
	}
	if rows[0][0] != "session_id" || rows[0][6] != "quality" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	first := rows[1]
	if first[0] != "CA123" || first[3] != "2" || first[5] != "true" || first[6] != "good" {
		t.Errorf("first row = %v", first)
	}
	if !strings.Contains(first[4], "petri @ INR 45 per piece") {
		t.Errorf("items column = %q, want priced item flattened", first[4])
	}
	if !strings.Contains(first[4], "gloves") {
		t.Errorf("items column = %q, want unpriced item by name", first[4])
	}
	if first[13] != "2026-03-14 10:30:00" {
		t.Errorf("created_at = %q", first[13])
	}
}

func TestExportCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, nil); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, sampleRecords()); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var decoded []models.Quotation
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("records = %d, want 2", len(decoded))
	}
	if decoded[0].SessionID != "CA123" || len(decoded[0].Items) != 2 {
		t.Errorf("first record = %+v", decoded[0])
	}
}
