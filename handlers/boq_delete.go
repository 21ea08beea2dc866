package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleBOQDelete returns a handler that deletes a BOQ and all its items,
// lines and actual entries (via cascade).
func HandleBOQDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		boqID := e.Request.PathValue("id")
		if boqID == "" {
			return apiError(e, http.StatusBadRequest, "Missing BOQ ID")
		}

		boqRecord, err := app.FindRecordById("boqs", boqID)
		if err != nil {
			log.Printf("boq_delete: could not find BOQ %s: %v", boqID, err)
			return apiError(e, http.StatusNotFound, "BOQ not found")
		}

		if err := app.Delete(boqRecord); err != nil {
			log.Printf("boq_delete: failed to delete BOQ %s: %v", boqID, err)
			return apiError(e, http.StatusInternalServerError, "Failed to delete BOQ")
		}

		return e.JSON(http.StatusOK, map[string]string{"status": "deleted"})
	}
}
