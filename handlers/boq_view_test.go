package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"boqtracking/testhelpers"
)

func TestHandleBOQView_PlannedStructure(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	boq := testhelpers.CreateTestBOQ(t, app, "View BOQ")
	item := testhelpers.CreateTestItem(t, app, boq.Id, "Flooring", 10, 15, 1250)
	testhelpers.CreateTestMaterial(t, app, item.Id, "Tiles", 40, 10)
	testhelpers.CreateTestLabour(t, app, item.Id, "Tiler", 50, 12)
	handler := HandleBOQView(app)

	req := httptest.NewRequest(http.MethodGet, "/api/boqs/"+boq.Id, nil)
	req.SetPathValue("id", boq.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got := decodeBody(t, rec)
	if got["name"] != "View BOQ" {
		t.Errorf("expected name View BOQ, got %v", got["name"])
	}

	items, _ := got["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	first, _ := items[0].(map[string]any)

	materials, _ := first["materials"].([]any)
	if len(materials) != 1 {
		t.Fatalf("expected 1 material, got %d", len(materials))
	}
	mat, _ := materials[0].(map[string]any)
	if total, _ := mat["total"].(float64); total != 400 {
		t.Errorf("expected material total 400, got %v", mat["total"])
	}

	// Planned breakdown: base 1000, overhead 100, profit 150 out of 1250.
	planned, _ := first["planned"].(map[string]any)
	if base, _ := planned["base_cost"].(float64); base != 1000 {
		t.Errorf("expected base cost 1000, got %v", planned["base_cost"])
	}
	if overhead, _ := planned["overhead_amount"].(float64); overhead != 100 {
		t.Errorf("expected overhead 100, got %v", planned["overhead_amount"])
	}
	if profit, _ := planned["profit_amount"].(float64); profit != 150 {
		t.Errorf("expected profit 150, got %v", planned["profit_amount"])
	}
}

func TestHandleBOQView_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleBOQView(app)

	req := httptest.NewRequest(http.MethodGet, "/api/boqs/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
