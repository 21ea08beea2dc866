package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqtracking/services"
)

// buildTrackingExport assembles the export payload for a BOQ's tracking report.
func buildTrackingExport(app *pocketbase.PocketBase, boqID string) (services.TrackingExportData, error) {
	boqRecord, err := app.FindRecordById("boqs", boqID)
	if err != nil {
		return services.TrackingExportData{}, fmt.Errorf("BOQ not found: %w", err)
	}

	report, err := buildTrackingReport(app, boqID)
	if err != nil {
		return services.TrackingExportData{}, err
	}

	generated := time.Now().Format("02 Jan 2006")
	return services.BuildTrackingExportData(report, boqRecord.GetString("reference_number"), generated), nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// HandleTrackingExportExcel returns a handler that generates and downloads
// an Excel tracking report for a BOQ.
func HandleTrackingExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		boqID := e.Request.PathValue("id")
		if boqID == "" {
			return apiError(e, http.StatusBadRequest, "Missing BOQ ID")
		}

		data, err := buildTrackingExport(app, boqID)
		if err != nil {
			log.Printf("tracking_export_excel: %v", err)
			return apiError(e, http.StatusNotFound, "BOQ not found")
		}

		xlsxBytes, err := services.GenerateTrackingExcel(data)
		if err != nil {
			log.Printf("tracking_export_excel: failed to generate: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Tracking_%s_%d.xlsx", sanitizeFilename(data.BOQName), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleTrackingExportPDF returns a handler that generates and downloads a
// PDF tracking report for a BOQ.
func HandleTrackingExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		boqID := e.Request.PathValue("id")
		if boqID == "" {
			return apiError(e, http.StatusBadRequest, "Missing BOQ ID")
		}

		data, err := buildTrackingExport(app, boqID)
		if err != nil {
			log.Printf("tracking_export_pdf: %v", err)
			return apiError(e, http.StatusNotFound, "BOQ not found")
		}

		pdfBytes, err := services.GenerateTrackingPDF(data)
		if err != nil {
			log.Printf("tracking_export_pdf: failed to generate: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Tracking_%s_%d.pdf", sanitizeFilename(data.BOQName), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
