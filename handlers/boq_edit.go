package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleBOQUpdate returns a handler that updates a BOQ's name, reference
// number and client. Status changes go through the approve endpoint.
func HandleBOQUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		boqID := e.Request.PathValue("id")
		if boqID == "" {
			return apiError(e, http.StatusBadRequest, "Missing BOQ ID")
		}

		boqRecord, err := app.FindRecordById("boqs", boqID)
		if err != nil {
			log.Printf("boq_edit: could not find BOQ %s: %v", boqID, err)
			return apiError(e, http.StatusNotFound, "BOQ not found")
		}

		var payload boqPayload
		if err := e.BindBody(&payload); err != nil {
			log.Printf("boq_edit: could not bind body: %v", err)
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		if err := payload.Validate(); err != nil {
			return validationError(e, http.StatusBadRequest, fieldErrors(err))
		}

		// Check for duplicate name on other BOQs
		existing, _ := app.FindRecordsByFilter("boqs", "name = {:name} && id != {:id}", "", 1, 0, map[string]any{"name": payload.Name, "id": boqID})
		if len(existing) > 0 {
			return validationError(e, http.StatusConflict, map[string]string{
				"name": "A BOQ with this name already exists",
			})
		}

		boqRecord.Set("name", payload.Name)
		boqRecord.Set("reference_number", payload.ReferenceNumber)
		boqRecord.Set("client", payload.Client)

		if err := app.Save(boqRecord); err != nil {
			log.Printf("boq_edit: failed to save BOQ %s: %v", boqID, err)
			return apiError(e, http.StatusInternalServerError, "Failed to update BOQ")
		}

		return e.JSON(http.StatusOK, boqResponse(boqRecord))
	}
}

// HandleBOQApprove returns a handler that moves a draft BOQ to approved.
// Once approved, planned items only change through change requests.
func HandleBOQApprove(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		boqID := e.Request.PathValue("id")
		if boqID == "" {
			return apiError(e, http.StatusBadRequest, "Missing BOQ ID")
		}

		boqRecord, err := app.FindRecordById("boqs", boqID)
		if err != nil {
			log.Printf("boq_approve: could not find BOQ %s: %v", boqID, err)
			return apiError(e, http.StatusNotFound, "BOQ not found")
		}

		if boqRecord.GetString("status") != "draft" {
			return apiError(e, http.StatusConflict, "Only draft BOQs can be approved")
		}

		boqRecord.Set("status", "approved")
		if err := app.Save(boqRecord); err != nil {
			log.Printf("boq_approve: failed to save BOQ %s: %v", boqID, err)
			return apiError(e, http.StatusInternalServerError, "Failed to approve BOQ")
		}

		return e.JSON(http.StatusOK, boqResponse(boqRecord))
	}
}
