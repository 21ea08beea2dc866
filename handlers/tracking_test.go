package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase"

	"boqtracking/services"
	"boqtracking/testhelpers"
)

// getTracking invokes the tracking handler and decodes the full report.
func getTracking(t *testing.T, app *pocketbase.PocketBase, boqID string) services.BOQReport {
	t.Helper()
	handler := HandleTracking(app)

	req := httptest.NewRequest(http.MethodGet, "/api/boqs/"+boqID+"/tracking", nil)
	req.SetPathValue("id", boqID)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report services.BOQReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("could not decode tracking report: %v", err)
	}
	return report
}

func TestHandleTracking_OverheadAbsorbsOverrun(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	boq := testhelpers.CreateTestBOQ(t, app, "Villa 12 Fit-Out")
	item := testhelpers.CreateTestItem(t, app, boq.Id, "Flooring", 10, 15, 1250)
	testhelpers.CreateTestMaterial(t, app, item.Id, "Tiles", 40, 10)
	testhelpers.CreateTestMaterial(t, app, item.Id, "Grout", 20, 10)
	testhelpers.CreateTestLabour(t, app, item.Id, "Tiler", 40, 10)
	// Tiles overruns by 80: 40 x 12 = 480 vs planned 400.
	testhelpers.CreateTestActual(t, app, item.Id, "material", "Tiles", 40, 12)
	testhelpers.CreateTestActual(t, app, item.Id, "material", "Grout", 20, 10)
	testhelpers.CreateTestActual(t, app, item.Id, "labour", "Tiler", 40, 10)

	report := getTracking(t, app, boq.Id)
	if len(report.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(report.Items))
	}
	ir := report.Items[0]

	if math.Abs(ir.Flow.ExtraCosts-80) > 0.001 {
		t.Errorf("expected extra costs 80, got %.2f", ir.Flow.ExtraCosts)
	}
	if math.Abs(ir.Flow.OverheadConsumed-80) > 0.001 {
		t.Errorf("expected overhead consumed 80, got %.2f", ir.Flow.OverheadConsumed)
	}
	if math.Abs(ir.Flow.ProfitConsumed) > 0.001 {
		t.Errorf("expected no profit consumed, got %.2f", ir.Flow.ProfitConsumed)
	}
	if math.Abs(ir.Actual.ProfitAmount-150) > 0.001 {
		t.Errorf("expected profit preserved at 150, got %.2f", ir.Actual.ProfitAmount)
	}
	if ir.Loss {
		t.Error("item must not be a loss")
	}

	// Selling price identity.
	if math.Abs(ir.Actual.Total+ir.Actual.ProfitAmount-ir.SellingPrice) > 0.001 {
		t.Errorf("actual total %.2f + profit %.2f != selling price %.2f",
			ir.Actual.Total, ir.Actual.ProfitAmount, ir.SellingPrice)
	}
}

func TestHandleTracking_PendingLinesUsePlannedTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	boq := testhelpers.CreateTestBOQ(t, app, "Pending BOQ")
	item := testhelpers.CreateTestItem(t, app, boq.Id, "Flooring", 10, 15, 1250)
	testhelpers.CreateTestMaterial(t, app, item.Id, "Tiles", 40, 10)
	testhelpers.CreateTestLabour(t, app, item.Id, "Tiler", 60, 10)

	report := getTracking(t, app, boq.Id)
	ir := report.Items[0]

	// No actuals yet: the actual side mirrors the plan, nothing reads as zero.
	if math.Abs(ir.Actual.BaseCost-ir.Planned.BaseCost) > 0.001 {
		t.Errorf("expected actual base %.2f to equal planned base %.2f",
			ir.Actual.BaseCost, ir.Planned.BaseCost)
	}
	if math.Abs(ir.Variance) > 0.001 {
		t.Errorf("expected zero variance, got %.2f", ir.Variance)
	}
	for _, line := range append(ir.Materials, ir.Labour...) {
		if line.Status != services.StatusPending {
			t.Errorf("line %s: expected pending, got %s", line.Key, line.Status)
		}
		if math.Abs(line.Actual-line.Planned) > 0.001 {
			t.Errorf("line %s: expected actual %.2f to carry planned total, got %.2f",
				line.Key, line.Planned, line.Actual)
		}
	}
	if ir.Completion.Pending != 2 || ir.Completion.Completed != 0 {
		t.Errorf("expected 2 pending / 0 completed, got %+v", ir.Completion)
	}
}

func TestHandleTracking_UnplannedEntryReported(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	boq := testhelpers.CreateTestBOQ(t, app, "Unplanned Report BOQ")
	item := testhelpers.CreateTestItem(t, app, boq.Id, "Flooring", 10, 15, 1250)
	testhelpers.CreateTestMaterial(t, app, item.Id, "Tiles", 40, 10)
	entry := testhelpers.CreateTestActual(t, app, item.Id, "material", "Sealant", 5, 15)
	entry.Set("variance_reason", "Site engineer requested extra sealing")
	if err := app.Save(entry); err != nil {
		t.Fatalf("could not set variance reason: %v", err)
	}

	report := getTracking(t, app, boq.Id)
	ir := report.Items[0]

	var sealant *services.LineResult
	for i := range ir.Materials {
		if ir.Materials[i].Key == "Sealant" {
			sealant = &ir.Materials[i]
		}
	}
	if sealant == nil {
		t.Fatal("expected Sealant line in report")
	}
	if sealant.Status != services.StatusUnplanned {
		t.Errorf("expected unplanned status, got %s", sealant.Status)
	}
	if math.Abs(sealant.Planned) > 0.001 {
		t.Errorf("expected planned 0 for unplanned line, got %.2f", sealant.Planned)
	}
	if sealant.VarianceReason != "Site engineer requested extra sealing" {
		t.Errorf("expected variance reason to surface, got %q", sealant.VarianceReason)
	}
	// The full unplanned total flows into extra costs.
	if math.Abs(ir.Flow.ExtraCosts-75) > 0.001 {
		t.Errorf("expected extra costs 75, got %.2f", ir.Flow.ExtraCosts)
	}
	if ir.Completion.Unplanned != 1 {
		t.Errorf("expected 1 unplanned line, got %d", ir.Completion.Unplanned)
	}
}

func TestHandleTracking_LossWhenProfitExhausted(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	boq := testhelpers.CreateTestBOQ(t, app, "Loss BOQ")
	item := testhelpers.CreateTestItem(t, app, boq.Id, "Structure", 10, 15, 1250)
	testhelpers.CreateTestMaterial(t, app, item.Id, "Rebar", 100, 10)
	// 100 x 13 = 1300: overrun 300 eats the 100 overhead then 200 of the
	// 150 profit, leaving a 50 loss.
	testhelpers.CreateTestActual(t, app, item.Id, "material", "Rebar", 100, 13)

	report := getTracking(t, app, boq.Id)
	ir := report.Items[0]

	if !ir.Loss {
		t.Error("expected item to be flagged as a loss")
	}
	if math.Abs(ir.Actual.ProfitAmount-(-50)) > 0.001 {
		t.Errorf("expected profit -50, got %.2f", ir.Actual.ProfitAmount)
	}
	if math.Abs(ir.Flow.OverheadConsumed-100) > 0.001 {
		t.Errorf("expected overhead fully consumed, got %.2f", ir.Flow.OverheadConsumed)
	}
	if math.Abs(ir.Flow.ProfitConsumed-200) > 0.001 {
		t.Errorf("expected profit consumed 200, got %.2f", ir.Flow.ProfitConsumed)
	}
}

func TestHandleTracking_SummaryAcrossItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	boq := testhelpers.CreateTestBOQ(t, app, "Summary BOQ")
	over := testhelpers.CreateTestItem(t, app, boq.Id, "Flooring", 10, 15, 1250)
	testhelpers.CreateTestMaterial(t, app, over.Id, "Tiles", 40, 10)
	testhelpers.CreateTestActual(t, app, over.Id, "material", "Tiles", 40, 15)
	under := testhelpers.CreateTestItem(t, app, boq.Id, "Painting", 10, 15, 800)
	testhelpers.CreateTestMaterial(t, app, under.Id, "Paint", 30, 10)
	testhelpers.CreateTestActual(t, app, under.Id, "material", "Paint", 30, 8)

	report := getTracking(t, app, boq.Id)
	if len(report.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(report.Items))
	}

	wantPlanned := report.Items[0].Planned.Total + report.Items[1].Planned.Total
	if math.Abs(report.Summary.Planned.Total-wantPlanned) > 0.001 {
		t.Errorf("expected summary planned total %.2f, got %.2f",
			wantPlanned, report.Summary.Planned.Total)
	}
	wantVariance := report.Items[0].Variance + report.Items[1].Variance
	if math.Abs(report.Summary.Variance-wantVariance) > 0.001 {
		t.Errorf("expected summary variance %.2f, got %.2f",
			wantVariance, report.Summary.Variance)
	}
}

func TestHandleTracking_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleTracking(app)

	req := httptest.NewRequest(http.MethodGet, "/api/boqs/missing/tracking", nil)
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
