package handlers

import (
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// boqPayload is the JSON body for creating or updating a BOQ.
type boqPayload struct {
	Name            string `json:"name"`
	ReferenceNumber string `json:"reference_number"`
	Client          string `json:"client"`
}

func (p boqPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.ReferenceNumber, validation.Length(0, 50)),
		validation.Field(&p.Client, validation.Length(0, 200)),
	)
}

// fieldErrors converts ozzo validation errors into a field → message map.
func fieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	if verrs, ok := err.(validation.Errors); ok {
		for name, ferr := range verrs {
			fields[name] = ferr.Error()
		}
	}
	return fields
}

// HandleBOQCreate returns a handler that creates a new BOQ in draft status.
func HandleBOQCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var payload boqPayload
		if err := e.BindBody(&payload); err != nil {
			log.Printf("boq_create: could not bind body: %v", err)
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		if err := payload.Validate(); err != nil {
			return validationError(e, http.StatusBadRequest, fieldErrors(err))
		}

		// Check for duplicate name
		existing, _ := app.FindRecordsByFilter("boqs", "name = {:name}", "", 1, 0, map[string]any{"name": payload.Name})
		if len(existing) > 0 {
			return validationError(e, http.StatusConflict, map[string]string{
				"name": "A BOQ with this name already exists",
			})
		}

		// Check for duplicate reference number
		if payload.ReferenceNumber != "" {
			existing, _ := app.FindRecordsByFilter("boqs", "reference_number = {:ref}", "", 1, 0, map[string]any{"ref": payload.ReferenceNumber})
			if len(existing) > 0 {
				return validationError(e, http.StatusConflict, map[string]string{
					"reference_number": "A BOQ with this reference number already exists",
				})
			}
		}

		boqsCol, err := app.FindCollectionByNameOrId("boqs")
		if err != nil {
			log.Printf("boq_create: could not find boqs collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Internal error")
		}

		record := core.NewRecord(boqsCol)
		record.Set("name", payload.Name)
		record.Set("reference_number", payload.ReferenceNumber)
		record.Set("client", payload.Client)
		record.Set("status", "draft")

		if err := app.Save(record); err != nil {
			log.Printf("boq_create: failed to save BOQ: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to create BOQ")
		}

		return e.JSON(http.StatusCreated, boqResponse(record))
	}
}

// boqResponse maps a BOQ record to its JSON representation.
func boqResponse(record *core.Record) map[string]any {
	return map[string]any{
		"id":               record.Id,
		"name":             record.GetString("name"),
		"reference_number": record.GetString("reference_number"),
		"client":           record.GetString("client"),
		"status":           record.GetString("status"),
		"created":          record.GetString("created"),
		"updated":          record.GetString("updated"),
	}
}
