package collections_test

import (
	"testing"

	"boqtracking/collections"
	"boqtracking/testhelpers"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"boqs",
	"boq_items",
	"sub_items",
	"labour_items",
	"actual_entries",
	"change_requests",
	"vendors",
	"vendor_assignments",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q was recreated: id %q changed to %q", name, ids[name], col.Id)
		}
	}
}

func TestSetup_StatusFieldValues(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	boq := testhelpers.CreateTestBOQ(t, app, "Status BOQ")
	boq.Set("status", "bogus")
	if err := app.Save(boq); err == nil {
		t.Error("expected an unknown BOQ status to be rejected")
	}
}
