package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"boqtracking/testhelpers"
)

func TestHandleBOQDelete_Valid(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	boq := testhelpers.CreateTestBOQ(t, app, "Doomed BOQ")
	item := testhelpers.CreateTestItem(t, app, boq.Id, "Flooring", 10, 15, 1250)
	testhelpers.CreateTestMaterial(t, app, item.Id, "Tiles", 40, 10)
	handler := HandleBOQDelete(app)

	req := httptest.NewRequest(http.MethodDelete, "/api/boqs/"+boq.Id, nil)
	req.SetPathValue("id", boq.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if _, err := app.FindRecordById("boqs", boq.Id); err == nil {
		t.Error("expected BOQ to be deleted")
	}
	items, _ := app.FindRecordsByFilter("boq_items", "boq = {:boqId}", "", 0, 0, map[string]any{"boqId": boq.Id})
	if len(items) != 0 {
		t.Errorf("expected items to cascade, %d remain", len(items))
	}
}

func TestHandleBOQDelete_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleBOQDelete(app)

	req := httptest.NewRequest(http.MethodDelete, "/api/boqs/missing", nil)
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
