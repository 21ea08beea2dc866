package handlers

import (
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// itemPayload is the JSON body for creating or updating a BOQ item.
type itemPayload struct {
	ItemName               string  `json:"item_name"`
	OverheadPercentage     float64 `json:"overhead_percentage"`
	ProfitMarginPercentage float64 `json:"profit_margin_percentage"`
	SellingPrice           float64 `json:"selling_price"`
}

func (p itemPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ItemName, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.OverheadPercentage, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&p.ProfitMarginPercentage, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&p.SellingPrice, validation.Min(0.0)),
	)
}

// materialPayload is the JSON body for adding a planned material line.
type materialPayload struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Rate     float64 `json:"rate"`
}

func (p materialPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Quantity, validation.Min(0.0)),
		validation.Field(&p.Rate, validation.Min(0.0)),
	)
}

// labourPayload is the JSON body for adding a planned labour line.
type labourPayload struct {
	Role  string  `json:"role"`
	Hours float64 `json:"hours"`
	Rate  float64 `json:"rate"`
}

func (p labourPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Role, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Hours, validation.Min(0.0)),
		validation.Field(&p.Rate, validation.Min(0.0)),
	)
}

// checkBOQEditable rejects plan edits on approved or closed BOQs: those only
// change through the change request workflow. Returns a non-nil response
// error when editing is not allowed.
func checkBOQEditable(app *pocketbase.PocketBase, e *core.RequestEvent, boqID string) error {
	boqRecord, err := app.FindRecordById("boqs", boqID)
	if err != nil {
		log.Printf("items: could not find BOQ %s: %v", boqID, err)
		return apiError(e, http.StatusNotFound, "BOQ not found")
	}
	if status := boqRecord.GetString("status"); status != "draft" {
		return apiError(e, http.StatusConflict, "BOQ is "+status+"; planned items only change through change requests")
	}
	return nil
}

// HandleItemAdd returns a handler that adds a new item to a draft BOQ.
func HandleItemAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		boqID := e.Request.PathValue("id")
		if boqID == "" {
			return apiError(e, http.StatusBadRequest, "Missing BOQ ID")
		}

		if respErr := checkBOQEditable(app, e, boqID); respErr != nil {
			return respErr
		}

		var payload itemPayload
		if err := e.BindBody(&payload); err != nil {
			log.Printf("items: could not bind item body: %v", err)
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := payload.Validate(); err != nil {
			return validationError(e, http.StatusBadRequest, fieldErrors(err))
		}

		itemsCol, err := app.FindCollectionByNameOrId("boq_items")
		if err != nil {
			log.Printf("items: could not find boq_items collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Internal error")
		}

		// Next sort_order after existing items.
		existing, err := app.FindRecordsByFilter(itemsCol, "boq = {:boqId}", "-sort_order", 1, 0, map[string]any{"boqId": boqID})
		if err != nil {
			existing = nil
		}
		sortOrder := 1
		if len(existing) > 0 {
			sortOrder = int(existing[0].GetFloat("sort_order")) + 1
		}

		record := core.NewRecord(itemsCol)
		record.Set("boq", boqID)
		record.Set("sort_order", sortOrder)
		record.Set("item_name", payload.ItemName)
		record.Set("overhead_percentage", payload.OverheadPercentage)
		record.Set("profit_margin_percentage", payload.ProfitMarginPercentage)
		record.Set("selling_price", payload.SellingPrice)

		if err := app.Save(record); err != nil {
			log.Printf("items: failed to save item: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to add item")
		}

		return e.JSON(http.StatusCreated, itemResponse(record))
	}
}

// HandleItemUpdate returns a handler that updates a BOQ item's fields.
func HandleItemUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("itemId")
		if itemID == "" {
			return apiError(e, http.StatusBadRequest, "Missing item ID")
		}

		record, err := app.FindRecordById("boq_items", itemID)
		if err != nil {
			log.Printf("items: could not find item %s: %v", itemID, err)
			return apiError(e, http.StatusNotFound, "Item not found")
		}

		if respErr := checkBOQEditable(app, e, record.GetString("boq")); respErr != nil {
			return respErr
		}

		var payload itemPayload
		if err := e.BindBody(&payload); err != nil {
			log.Printf("items: could not bind item body: %v", err)
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := payload.Validate(); err != nil {
			return validationError(e, http.StatusBadRequest, fieldErrors(err))
		}

		record.Set("item_name", payload.ItemName)
		record.Set("overhead_percentage", payload.OverheadPercentage)
		record.Set("profit_margin_percentage", payload.ProfitMarginPercentage)
		record.Set("selling_price", payload.SellingPrice)

		if err := app.Save(record); err != nil {
			log.Printf("items: failed to save item %s: %v", itemID, err)
			return apiError(e, http.StatusInternalServerError, "Failed to update item")
		}

		return e.JSON(http.StatusOK, itemResponse(record))
	}
}

// HandleItemDelete returns a handler that deletes a BOQ item and its lines.
func HandleItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("itemId")
		if itemID == "" {
			return apiError(e, http.StatusBadRequest, "Missing item ID")
		}

		record, err := app.FindRecordById("boq_items", itemID)
		if err != nil {
			log.Printf("items: could not find item %s: %v", itemID, err)
			return apiError(e, http.StatusNotFound, "Item not found")
		}

		if respErr := checkBOQEditable(app, e, record.GetString("boq")); respErr != nil {
			return respErr
		}

		if err := app.Delete(record); err != nil {
			log.Printf("items: failed to delete item %s: %v", itemID, err)
			return apiError(e, http.StatusInternalServerError, "Failed to delete item")
		}

		return e.JSON(http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// HandleMaterialAdd returns a handler that adds a planned material line to an item.
func HandleMaterialAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("itemId")
		if itemID == "" {
			return apiError(e, http.StatusBadRequest, "Missing item ID")
		}

		item, err := app.FindRecordById("boq_items", itemID)
		if err != nil {
			log.Printf("items: could not find item %s: %v", itemID, err)
			return apiError(e, http.StatusNotFound, "Item not found")
		}

		if respErr := checkBOQEditable(app, e, item.GetString("boq")); respErr != nil {
			return respErr
		}

		var payload materialPayload
		if err := e.BindBody(&payload); err != nil {
			log.Printf("items: could not bind material body: %v", err)
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := payload.Validate(); err != nil {
			return validationError(e, http.StatusBadRequest, fieldErrors(err))
		}

		// Sub-item names are the join key against actual entries, so they
		// must be unique within their item.
		dup, _ := app.FindRecordsByFilter("sub_items", "item = {:itemId} && name = {:name}", "", 1, 0, map[string]any{"itemId": itemID, "name": payload.Name})
		if len(dup) > 0 {
			return validationError(e, http.StatusConflict, map[string]string{
				"name": "A material with this name already exists on this item",
			})
		}

		col, err := app.FindCollectionByNameOrId("sub_items")
		if err != nil {
			log.Printf("items: could not find sub_items collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Internal error")
		}

		record := core.NewRecord(col)
		record.Set("item", itemID)
		record.Set("sort_order", nextSortOrder(app, "sub_items", itemID))
		record.Set("name", payload.Name)
		record.Set("quantity", payload.Quantity)
		record.Set("unit", payload.Unit)
		record.Set("rate", payload.Rate)

		if err := app.Save(record); err != nil {
			log.Printf("items: failed to save material: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to add material")
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"id":       record.Id,
			"name":     payload.Name,
			"quantity": payload.Quantity,
			"unit":     payload.Unit,
			"rate":     payload.Rate,
			"total":    payload.Quantity * payload.Rate,
		})
	}
}

// HandleLabourAdd returns a handler that adds a planned labour line to an item.
func HandleLabourAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("itemId")
		if itemID == "" {
			return apiError(e, http.StatusBadRequest, "Missing item ID")
		}

		item, err := app.FindRecordById("boq_items", itemID)
		if err != nil {
			log.Printf("items: could not find item %s: %v", itemID, err)
			return apiError(e, http.StatusNotFound, "Item not found")
		}

		if respErr := checkBOQEditable(app, e, item.GetString("boq")); respErr != nil {
			return respErr
		}

		var payload labourPayload
		if err := e.BindBody(&payload); err != nil {
			log.Printf("items: could not bind labour body: %v", err)
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := payload.Validate(); err != nil {
			return validationError(e, http.StatusBadRequest, fieldErrors(err))
		}

		dup, _ := app.FindRecordsByFilter("labour_items", "item = {:itemId} && role = {:role}", "", 1, 0, map[string]any{"itemId": itemID, "role": payload.Role})
		if len(dup) > 0 {
			return validationError(e, http.StatusConflict, map[string]string{
				"role": "A labour line with this role already exists on this item",
			})
		}

		col, err := app.FindCollectionByNameOrId("labour_items")
		if err != nil {
			log.Printf("items: could not find labour_items collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Internal error")
		}

		record := core.NewRecord(col)
		record.Set("item", itemID)
		record.Set("sort_order", nextSortOrder(app, "labour_items", itemID))
		record.Set("role", payload.Role)
		record.Set("hours", payload.Hours)
		record.Set("rate", payload.Rate)

		if err := app.Save(record); err != nil {
			log.Printf("items: failed to save labour line: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to add labour line")
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"id":    record.Id,
			"role":  payload.Role,
			"hours": payload.Hours,
			"rate":  payload.Rate,
			"total": payload.Hours * payload.Rate,
		})
	}
}

// HandleLineDelete returns a handler that deletes a planned material or
// labour line, identified by the collection name.
func HandleLineDelete(app *pocketbase.PocketBase, collection string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		lineID := e.Request.PathValue("id")
		if lineID == "" {
			return apiError(e, http.StatusBadRequest, "Missing line ID")
		}

		record, err := app.FindRecordById(collection, lineID)
		if err != nil {
			log.Printf("items: could not find %s line %s: %v", collection, lineID, err)
			return apiError(e, http.StatusNotFound, "Line not found")
		}

		item, err := app.FindRecordById("boq_items", record.GetString("item"))
		if err != nil {
			log.Printf("items: could not find parent item for line %s: %v", lineID, err)
			return apiError(e, http.StatusInternalServerError, "Internal error")
		}

		if respErr := checkBOQEditable(app, e, item.GetString("boq")); respErr != nil {
			return respErr
		}

		if err := app.Delete(record); err != nil {
			log.Printf("items: failed to delete %s line %s: %v", collection, lineID, err)
			return apiError(e, http.StatusInternalServerError, "Failed to delete line")
		}

		return e.JSON(http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// nextSortOrder returns one past the highest sort_order within an item.
func nextSortOrder(app *pocketbase.PocketBase, collection, itemID string) int {
	existing, err := app.FindRecordsByFilter(collection, "item = {:itemId}", "-sort_order", 1, 0, map[string]any{"itemId": itemID})
	if err != nil || len(existing) == 0 {
		return 1
	}
	return int(existing[0].GetFloat("sort_order")) + 1
}

// itemResponse maps a BOQ item record to its JSON representation.
func itemResponse(record *core.Record) map[string]any {
	return map[string]any{
		"id":                       record.Id,
		"boq":                      record.GetString("boq"),
		"item_name":                record.GetString("item_name"),
		"overhead_percentage":      record.GetFloat("overhead_percentage"),
		"profit_margin_percentage": record.GetFloat("profit_margin_percentage"),
		"selling_price":            record.GetFloat("selling_price"),
	}
}
