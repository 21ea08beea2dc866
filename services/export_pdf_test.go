package services

import (
	"testing"
)

func TestGenerateTrackingPDF_Basic(t *testing.T) {
	data := trackingExportFixture()

	result, err := GenerateTrackingPDF(data)
	if err != nil {
		t.Fatalf("GenerateTrackingPDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateTrackingPDF() returned empty bytes")
	}
	// PDF files start with %PDF
	if len(result) > 4 && string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(result[:5]))
	}
}

func TestGenerateTrackingPDF_Empty(t *testing.T) {
	data := TrackingExportData{
		BOQName:       "Empty BOQ",
		GeneratedDate: "2026-08-15",
	}

	result, err := GenerateTrackingPDF(data)
	if err != nil {
		t.Fatalf("GenerateTrackingPDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateTrackingPDF() returned empty bytes")
	}
}

func TestGenerateTrackingPDF_LossReport(t *testing.T) {
	item := BuildItemReport(PlannedItem{
		Name: "Steelwork",
		Materials: []PlannedLine{
			{Key: "Rebar", Quantity: 100, Rate: 10},
		},
		OverheadPercentage: 10,
		SellingPrice:       1200,
	}, []ActualEntry{
		{Key: "Rebar", Quantity: 100, Rate: 14},
	}, nil)
	report := BuildBOQReport("Loss BOQ", []ItemReport{item})
	data := BuildTrackingExportData(report, "", "2026-08-15")

	result, err := GenerateTrackingPDF(data)
	if err != nil {
		t.Fatalf("GenerateTrackingPDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateTrackingPDF() returned empty bytes")
	}
}
