package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqtracking/services"
)

// buildTrackingReport loads a BOQ's planned structure and full actual entry
// history, runs the variance engine over the snapshot, and returns the
// report. Any load failure aborts the whole report: a partial comparison is
// worse than none.
func buildTrackingReport(app *pocketbase.PocketBase, boqID string) (services.BOQReport, error) {
	boqRecord, err := app.FindRecordById("boqs", boqID)
	if err != nil {
		return services.BOQReport{}, fmt.Errorf("BOQ not found: %w", err)
	}

	itemRecords, err := app.FindRecordsByFilter("boq_items", "boq = {:boqId}", "sort_order", 0, 0, map[string]any{"boqId": boqID})
	if err != nil {
		return services.BOQReport{}, fmt.Errorf("query items for BOQ %s: %w", boqID, err)
	}

	var items []services.ItemReport
	for _, item := range itemRecords {
		planned, _, _, err := loadPlannedItem(app, item)
		if err != nil {
			return services.BOQReport{}, err
		}

		materials, labour, err := loadActualEntries(app, item.Id)
		if err != nil {
			return services.BOQReport{}, err
		}

		items = append(items, services.BuildItemReport(planned, materials, labour))
	}

	return services.BuildBOQReport(boqRecord.GetString("name"), items), nil
}

// HandleTracking returns a handler that serves the planned-vs-actual
// tracking report for a BOQ.
func HandleTracking(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		boqID := e.Request.PathValue("id")
		if boqID == "" {
			return apiError(e, http.StatusBadRequest, "Missing BOQ ID")
		}

		if _, err := app.FindRecordById("boqs", boqID); err != nil {
			log.Printf("tracking: could not find BOQ %s: %v", boqID, err)
			return apiError(e, http.StatusNotFound, "BOQ not found")
		}

		report, err := buildTrackingReport(app, boqID)
		if err != nil {
			log.Printf("tracking: %v", err)
			return apiError(e, http.StatusInternalServerError, "Tracking data unavailable")
		}

		return e.JSON(http.StatusOK, report)
	}
}
