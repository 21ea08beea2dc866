package collections_test

import (
	"testing"

	"boqtracking/collections"
	"boqtracking/testhelpers"
)

func TestSeed_CreatesData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	boqsCol, _ := app.FindCollectionByNameOrId("boqs")
	boqs, err := app.FindAllRecords(boqsCol)
	if err != nil {
		t.Fatalf("query boqs error: %v", err)
	}
	if len(boqs) != 1 {
		t.Fatalf("expected 1 BOQ, got %d", len(boqs))
	}
	if boqs[0].GetString("name") != "Villa 12 Interior Fit-Out" {
		t.Errorf("BOQ name = %q, want %q", boqs[0].GetString("name"), "Villa 12 Interior Fit-Out")
	}
	if boqs[0].GetString("status") != "approved" {
		t.Errorf("BOQ status = %q, want approved", boqs[0].GetString("status"))
	}

	items, _ := app.FindRecordsByFilter("boq_items", "boq = {:boqId}", "sort_order", 0, 0, map[string]any{"boqId": boqs[0].Id})
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].GetString("item_name") != "Flooring — Living Areas" {
		t.Errorf("first item = %q", items[0].GetString("item_name"))
	}

	materials, _ := app.FindRecordsByFilter("sub_items", "item = {:itemId}", "", 0, 0, map[string]any{"itemId": items[0].Id})
	if len(materials) != 3 {
		t.Errorf("expected 3 materials on first item, got %d", len(materials))
	}

	labour, _ := app.FindRecordsByFilter("labour_items", "item = {:itemId}", "", 0, 0, map[string]any{"itemId": items[0].Id})
	if len(labour) != 2 {
		t.Errorf("expected 2 labour lines on first item, got %d", len(labour))
	}

	actualsCol, _ := app.FindCollectionByNameOrId("actual_entries")
	actuals, _ := app.FindAllRecords(actualsCol)
	if len(actuals) != 4 {
		t.Errorf("expected 4 actual entries, got %d", len(actuals))
	}

	vendorsCol, _ := app.FindCollectionByNameOrId("vendors")
	vendors, _ := app.FindAllRecords(vendorsCol)
	if len(vendors) != 3 {
		t.Errorf("expected 3 vendors, got %d", len(vendors))
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	boqsCol, _ := app.FindCollectionByNameOrId("boqs")
	boqs, _ := app.FindAllRecords(boqsCol)
	if len(boqs) != 1 {
		t.Errorf("expected seeding to be idempotent, got %d BOQs", len(boqs))
	}
}
