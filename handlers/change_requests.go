package handlers

import (
	"log"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqtracking/services"
)

// changeRequestPayload is the JSON body for raising a change request.
type changeRequestPayload struct {
	Item        string `json:"item"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

func (p changeRequestPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Description, validation.Required, validation.Length(1, 2000)),
		validation.Field(&p.Reason, validation.Length(0, 2000)),
	)
}

// HandleChangeRequestCreate returns a handler that raises a change request
// against a BOQ, optionally scoped to one of its items.
func HandleChangeRequestCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		boqID := e.Request.PathValue("id")
		if boqID == "" {
			return apiError(e, http.StatusBadRequest, "Missing BOQ ID")
		}

		boqRecord, err := app.FindRecordById("boqs", boqID)
		if err != nil {
			log.Printf("change_requests: could not find BOQ %s: %v", boqID, err)
			return apiError(e, http.StatusNotFound, "BOQ not found")
		}

		var payload changeRequestPayload
		if err := e.BindBody(&payload); err != nil {
			log.Printf("change_requests: could not bind body: %v", err)
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := payload.Validate(); err != nil {
			return validationError(e, http.StatusBadRequest, fieldErrors(err))
		}

		// Item, if supplied, must belong to this BOQ.
		if payload.Item != "" {
			item, err := app.FindRecordById("boq_items", payload.Item)
			if err != nil || item.GetString("boq") != boqRecord.Id {
				return apiError(e, http.StatusBadRequest, "Item does not belong to this BOQ")
			}
		}

		col, err := app.FindCollectionByNameOrId("change_requests")
		if err != nil {
			log.Printf("change_requests: could not find collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Internal error")
		}

		record := core.NewRecord(col)
		record.Set("boq", boqRecord.Id)
		record.Set("item", payload.Item)
		record.Set("reference_number", services.GenerateCRNumber(time.Now()))
		record.Set("description", payload.Description)
		record.Set("reason", payload.Reason)
		record.Set("status", "pending")

		if err := app.Save(record); err != nil {
			log.Printf("change_requests: failed to save: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to create change request")
		}

		return e.JSON(http.StatusCreated, changeRequestResponse(record))
	}
}

// HandleChangeRequestList returns a handler that lists a BOQ's change
// requests, newest first.
func HandleChangeRequestList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		boqID := e.Request.PathValue("id")
		if boqID == "" {
			return apiError(e, http.StatusBadRequest, "Missing BOQ ID")
		}

		if _, err := app.FindRecordById("boqs", boqID); err != nil {
			log.Printf("change_requests: could not find BOQ %s: %v", boqID, err)
			return apiError(e, http.StatusNotFound, "BOQ not found")
		}

		records, err := app.FindRecordsByFilter("change_requests", "boq = {:boqId}", "-created", 0, 0, map[string]any{"boqId": boqID})
		if err != nil {
			log.Printf("change_requests: could not query for BOQ %s: %v", boqID, err)
			records = nil
		}

		requests := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			requests = append(requests, changeRequestResponse(rec))
		}

		return e.JSON(http.StatusOK, map[string]any{"change_requests": requests})
	}
}

// HandleChangeRequestReview returns a handler that approves or rejects a
// pending change request with an optional reviewer response.
func HandleChangeRequestReview(app *pocketbase.PocketBase, decision string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		crID := e.Request.PathValue("id")
		if crID == "" {
			return apiError(e, http.StatusBadRequest, "Missing change request ID")
		}

		record, err := app.FindRecordById("change_requests", crID)
		if err != nil {
			log.Printf("change_requests: could not find %s: %v", crID, err)
			return apiError(e, http.StatusNotFound, "Change request not found")
		}

		if record.GetString("status") != "pending" {
			return apiError(e, http.StatusConflict, "Change request already reviewed")
		}

		var payload responsePayload
		if err := e.BindBody(&payload); err != nil {
			log.Printf("change_requests: could not bind review body: %v", err)
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		record.Set("status", decision)
		record.Set("response", payload.Response)

		if err := app.Save(record); err != nil {
			log.Printf("change_requests: failed to save review of %s: %v", crID, err)
			return apiError(e, http.StatusInternalServerError, "Failed to review change request")
		}

		return e.JSON(http.StatusOK, changeRequestResponse(record))
	}
}

// changeRequestResponse maps a change request record to its JSON representation.
func changeRequestResponse(record *core.Record) map[string]any {
	return map[string]any{
		"id":               record.Id,
		"boq":              record.GetString("boq"),
		"item":             record.GetString("item"),
		"reference_number": record.GetString("reference_number"),
		"description":      record.GetString("description"),
		"reason":           record.GetString("reason"),
		"status":           record.GetString("status"),
		"response":         record.GetString("response"),
		"created":          record.GetString("created"),
		"updated":          record.GetString("updated"),
	}
}
