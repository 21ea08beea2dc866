package handlers

import (
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// actualPayload is the JSON body for recording a material purchase or
// labour hours against a BOQ item.
type actualPayload struct {
	LineType       string  `json:"line_type"`
	LineKey        string  `json:"line_key"`
	Quantity       float64 `json:"quantity"`
	Rate           float64 `json:"rate"`
	VarianceReason string  `json:"variance_reason"`
}

func (p actualPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.LineType, validation.Required, validation.In("material", "labour")),
		validation.Field(&p.LineKey, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Quantity, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&p.Rate, validation.Min(0.0)),
	)
}

// HandleActualRecord returns a handler that appends an actual entry to an
// item. Entries are never updated or deleted; corrections are recorded as
// further entries so the audit history stays complete.
func HandleActualRecord(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("itemId")
		if itemID == "" {
			return apiError(e, http.StatusBadRequest, "Missing item ID")
		}

		item, err := app.FindRecordById("boq_items", itemID)
		if err != nil {
			log.Printf("actuals: could not find item %s: %v", itemID, err)
			return apiError(e, http.StatusNotFound, "Item not found")
		}

		var payload actualPayload
		if err := e.BindBody(&payload); err != nil {
			log.Printf("actuals: could not bind body: %v", err)
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := payload.Validate(); err != nil {
			return validationError(e, http.StatusBadRequest, fieldErrors(err))
		}

		// An entry against a key with no planned counterpart is accepted
		// and classified as unplanned, never dropped.
		unplanned := !plannedKeyExists(app, itemID, payload.LineType, payload.LineKey)

		col, err := app.FindCollectionByNameOrId("actual_entries")
		if err != nil {
			log.Printf("actuals: could not find actual_entries collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Internal error")
		}

		record := core.NewRecord(col)
		record.Set("item", item.Id)
		record.Set("line_type", payload.LineType)
		record.Set("line_key", payload.LineKey)
		record.Set("quantity", payload.Quantity)
		record.Set("rate", payload.Rate)
		record.Set("variance_reason", payload.VarianceReason)

		if err := app.Save(record); err != nil {
			log.Printf("actuals: failed to save entry: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to record entry")
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"id":              record.Id,
			"item":            item.Id,
			"line_type":       payload.LineType,
			"line_key":        payload.LineKey,
			"quantity":        payload.Quantity,
			"rate":            payload.Rate,
			"total":           payload.Quantity * payload.Rate,
			"variance_reason": payload.VarianceReason,
			"unplanned":       unplanned,
		})
	}
}

// HandleActualList returns a handler that lists an item's actual entries in
// recorded order.
func HandleActualList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("itemId")
		if itemID == "" {
			return apiError(e, http.StatusBadRequest, "Missing item ID")
		}

		if _, err := app.FindRecordById("boq_items", itemID); err != nil {
			log.Printf("actuals: could not find item %s: %v", itemID, err)
			return apiError(e, http.StatusNotFound, "Item not found")
		}

		records, err := app.FindRecordsByFilter("actual_entries", "item = {:itemId}", "recorded", 0, 0, map[string]any{"itemId": itemID})
		if err != nil {
			log.Printf("actuals: could not query entries for item %s: %v", itemID, err)
			records = nil
		}

		entries := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			entries = append(entries, map[string]any{
				"id":                rec.Id,
				"line_type":         rec.GetString("line_type"),
				"line_key":          rec.GetString("line_key"),
				"quantity":          rec.GetFloat("quantity"),
				"rate":              rec.GetFloat("rate"),
				"total":             rec.GetFloat("quantity") * rec.GetFloat("rate"),
				"variance_reason":   rec.GetString("variance_reason"),
				"variance_response": rec.GetString("variance_response"),
				"recorded":          rec.GetString("recorded"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"entries": entries})
	}
}

// responsePayload is the JSON body for a reviewer's reply to a variance reason.
type responsePayload struct {
	Response string `json:"response"`
}

func (p responsePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Response, validation.Required, validation.Length(1, 2000)),
	)
}

// HandleActualResponse returns a handler that attaches a reviewer's response
// to an actual entry's variance reason. The response is an annotation only;
// it never changes the recorded numbers.
func HandleActualResponse(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		entryID := e.Request.PathValue("id")
		if entryID == "" {
			return apiError(e, http.StatusBadRequest, "Missing entry ID")
		}

		record, err := app.FindRecordById("actual_entries", entryID)
		if err != nil {
			log.Printf("actuals: could not find entry %s: %v", entryID, err)
			return apiError(e, http.StatusNotFound, "Entry not found")
		}

		var payload responsePayload
		if err := e.BindBody(&payload); err != nil {
			log.Printf("actuals: could not bind response body: %v", err)
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := payload.Validate(); err != nil {
			return validationError(e, http.StatusBadRequest, fieldErrors(err))
		}

		record.Set("variance_response", payload.Response)
		if err := app.Save(record); err != nil {
			log.Printf("actuals: failed to save response on entry %s: %v", entryID, err)
			return apiError(e, http.StatusInternalServerError, "Failed to save response")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id":                record.Id,
			"variance_response": payload.Response,
		})
	}
}

// plannedKeyExists reports whether a planned line with the given key exists
// on the item for the given line type.
func plannedKeyExists(app *pocketbase.PocketBase, itemID, lineType, lineKey string) bool {
	collection := "sub_items"
	keyField := "name"
	if lineType == "labour" {
		collection = "labour_items"
		keyField = "role"
	}

	matches, err := app.FindRecordsByFilter(collection, "item = {:itemId} && "+keyField+" = {:key}", "", 1, 0, map[string]any{"itemId": itemID, "key": lineKey})
	if err != nil {
		return false
	}
	return len(matches) > 0
}
