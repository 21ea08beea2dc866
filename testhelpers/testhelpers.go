// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqtracking/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestBOQ creates a BOQ record with the given name and returns it.
func CreateTestBOQ(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("boqs")
	if err != nil {
		t.Fatalf("failed to find boqs collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("reference_number", "REF-"+name)
	record.Set("client", "Test Client")
	record.Set("status", "draft")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test BOQ: %v", err)
	}

	return record
}

// CreateTestItem creates a BOQ item with the given pricing parameters.
func CreateTestItem(t *testing.T, app *pocketbase.PocketBase, boqID, name string, overheadPct, profitPct, sellingPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("boq_items")
	if err != nil {
		t.Fatalf("failed to find boq_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("boq", boqID)
	record.Set("item_name", name)
	record.Set("sort_order", 1)
	record.Set("overhead_percentage", overheadPct)
	record.Set("profit_margin_percentage", profitPct)
	record.Set("selling_price", sellingPrice)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test item: %v", err)
	}

	return record
}

// CreateTestMaterial creates a material line under a BOQ item.
func CreateTestMaterial(t *testing.T, app *pocketbase.PocketBase, itemID, name string, quantity, rate float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("sub_items")
	if err != nil {
		t.Fatalf("failed to find sub_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("item", itemID)
	record.Set("sort_order", 1)
	record.Set("name", name)
	record.Set("quantity", quantity)
	record.Set("unit", "nos")
	record.Set("rate", rate)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test material: %v", err)
	}

	return record
}

// CreateTestLabour creates a labour line under a BOQ item.
func CreateTestLabour(t *testing.T, app *pocketbase.PocketBase, itemID, role string, hours, rate float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("labour_items")
	if err != nil {
		t.Fatalf("failed to find labour_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("item", itemID)
	record.Set("sort_order", 1)
	record.Set("role", role)
	record.Set("hours", hours)
	record.Set("rate", rate)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test labour: %v", err)
	}

	return record
}

// CreateTestActual creates an actual cost entry for a BOQ item line.
func CreateTestActual(t *testing.T, app *pocketbase.PocketBase, itemID, lineType, lineKey string, quantity, rate float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("actual_entries")
	if err != nil {
		t.Fatalf("failed to find actual_entries collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("item", itemID)
	record.Set("line_type", lineType)
	record.Set("line_key", lineKey)
	record.Set("quantity", quantity)
	record.Set("rate", rate)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test actual entry: %v", err)
	}

	return record
}

// CreateTestAssignment proposes a vendor for a BOQ item and returns the record.
func CreateTestAssignment(t *testing.T, app *pocketbase.PocketBase, itemID, vendorID string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("vendor_assignments")
	if err != nil {
		t.Fatalf("failed to find vendor_assignments collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("item", itemID)
	record.Set("vendor", vendorID)
	record.Set("status", "proposed")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test assignment: %v", err)
	}

	return record
}

// CreateTestVendor creates a vendor record with the given name and returns it.
func CreateTestVendor(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("vendors")
	if err != nil {
		t.Fatalf("failed to find vendors collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("trade", "Civil Works")
	record.Set("contact_person", "Test Contact")
	record.Set("phone", "0501234567")
	record.Set("status", "active")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test vendor: %v", err)
	}

	return record
}
