package services

import (
	"math"
	"testing"
)

func TestBuildTrackingExportData_Rows(t *testing.T) {
	itemA := BuildItemReport(PlannedItem{
		Name: "Flooring",
		Materials: []PlannedLine{
			{Key: "Tiles", Quantity: 20, Rate: 20},
			{Key: "Grout", Quantity: 10, Rate: 20},
		},
		Labour: []PlannedLine{
			{Key: "Tiler", Quantity: 40, Rate: 10},
		},
		OverheadPercentage: 10,
		SellingPrice:       1250,
	}, []ActualEntry{
		{Key: "Tiles", Quantity: 20, Rate: 25},
	}, nil)
	itemB := BuildItemReport(PlannedItem{
		Name:         "Painting",
		SellingPrice: 100,
	}, nil, nil)

	report := BuildBOQReport("Villa 12", []ItemReport{itemA, itemB})
	data := BuildTrackingExportData(report, "BOQ-001", "2026-08-15")

	if data.BOQName != "Villa 12" {
		t.Errorf("BOQName = %q", data.BOQName)
	}
	if data.ReferenceNumber != "BOQ-001" {
		t.Errorf("ReferenceNumber = %q", data.ReferenceNumber)
	}

	// Item A has 1 item row + 2 material lines + 1 labour line; item B has 1.
	if len(data.Rows) != 5 {
		t.Fatalf("len(Rows) = %d, want 5", len(data.Rows))
	}

	head := data.Rows[0]
	if head.Level != 0 || head.Index != "1" || head.Description != "Flooring" {
		t.Errorf("item row = %+v", head)
	}
	if head.LineType != "" {
		t.Errorf("item row line type = %q, want empty", head.LineType)
	}

	tiles := data.Rows[1]
	if tiles.Index != "1.1" || tiles.LineType != "Material" || tiles.Status != "overrun" {
		t.Errorf("tiles row = %+v", tiles)
	}
	if math.Abs(tiles.Variance-100) > 0.001 {
		t.Errorf("tiles variance = %v, want 100", tiles.Variance)
	}

	labour := data.Rows[3]
	if labour.Index != "1.3" || labour.LineType != "Labour" || labour.Status != "pending" {
		t.Errorf("labour row = %+v", labour)
	}

	itemBRow := data.Rows[4]
	if itemBRow.Index != "2" || itemBRow.Level != 0 {
		t.Errorf("second item row = %+v", itemBRow)
	}
}

func TestBuildTrackingExportData_LossStatus(t *testing.T) {
	item := BuildItemReport(PlannedItem{
		Name: "Steelwork",
		Materials: []PlannedLine{
			{Key: "Rebar", Quantity: 100, Rate: 10},
		},
		SellingPrice: 1050,
	}, []ActualEntry{
		{Key: "Rebar", Quantity: 100, Rate: 12},
	}, nil)
	report := BuildBOQReport("Loss BOQ", []ItemReport{item})
	data := BuildTrackingExportData(report, "", "2026-08-15")

	if data.Rows[0].Status != "loss" {
		t.Errorf("item status = %q, want loss", data.Rows[0].Status)
	}
}

func TestBuildTrackingExportData_Empty(t *testing.T) {
	report := BuildBOQReport("Empty", nil)
	data := BuildTrackingExportData(report, "", "2026-08-15")
	if len(data.Rows) != 0 {
		t.Errorf("len(Rows) = %d, want 0", len(data.Rows))
	}
}
