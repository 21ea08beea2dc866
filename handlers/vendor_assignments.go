package handlers

import (
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// assignmentPayload is the JSON body for proposing a vendor for a BOQ item.
type assignmentPayload struct {
	Vendor string `json:"vendor"`
	Notes  string `json:"notes"`
}

func (p assignmentPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Vendor, validation.Required),
		validation.Field(&p.Notes, validation.Length(0, 500)),
	)
}

// HandleVendorAssignmentList returns a handler that lists the vendor
// assignments for a BOQ item.
func HandleVendorAssignmentList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("itemId")
		if itemID == "" {
			return apiError(e, http.StatusBadRequest, "Missing item ID")
		}

		if _, err := app.FindRecordById("boq_items", itemID); err != nil {
			log.Printf("vendor_assignments: could not find item %s: %v", itemID, err)
			return apiError(e, http.StatusNotFound, "Item not found")
		}

		records, err := app.FindRecordsByFilter("vendor_assignments", "item = {:itemId}", "-created", 0, 0, map[string]any{"itemId": itemID})
		if err != nil {
			log.Printf("vendor_assignments: could not query assignments for item %s: %v", itemID, err)
			records = nil
		}

		assignments := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			assignments = append(assignments, assignmentResponse(app, rec))
		}

		return e.JSON(http.StatusOK, map[string]any{"assignments": assignments})
	}
}

// HandleVendorAssignmentCreate returns a handler that proposes a vendor for a
// BOQ item. A vendor can only be proposed once per item.
func HandleVendorAssignmentCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		itemID := e.Request.PathValue("itemId")
		if itemID == "" {
			return apiError(e, http.StatusBadRequest, "Missing item ID")
		}

		if _, err := app.FindRecordById("boq_items", itemID); err != nil {
			log.Printf("vendor_assignments: could not find item %s: %v", itemID, err)
			return apiError(e, http.StatusNotFound, "Item not found")
		}

		var payload assignmentPayload
		if err := e.BindBody(&payload); err != nil {
			log.Printf("vendor_assignments: could not bind body: %v", err)
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := payload.Validate(); err != nil {
			return validationError(e, http.StatusBadRequest, fieldErrors(err))
		}

		vendor, err := app.FindRecordById("vendors", payload.Vendor)
		if err != nil {
			log.Printf("vendor_assignments: could not find vendor %s: %v", payload.Vendor, err)
			return apiError(e, http.StatusNotFound, "Vendor not found")
		}

		dup, _ := app.FindRecordsByFilter("vendor_assignments", "item = {:itemId} && vendor = {:vendorId}", "", 1, 0, map[string]any{
			"itemId":   itemID,
			"vendorId": vendor.Id,
		})
		if len(dup) > 0 {
			return validationError(e, http.StatusConflict, map[string]string{
				"vendor": "This vendor is already assigned to the item",
			})
		}

		col, err := app.FindCollectionByNameOrId("vendor_assignments")
		if err != nil {
			log.Printf("vendor_assignments: could not find collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Internal error")
		}

		record := core.NewRecord(col)
		record.Set("item", itemID)
		record.Set("vendor", vendor.Id)
		record.Set("status", "proposed")
		record.Set("notes", payload.Notes)

		if err := app.Save(record); err != nil {
			log.Printf("vendor_assignments: failed to save assignment: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to create assignment")
		}

		return e.JSON(http.StatusCreated, assignmentResponse(app, record))
	}
}

// HandleVendorAssignmentSelect returns a handler that marks an assignment as
// selected. Any previously selected assignment on the same item is demoted
// back to proposed so an item has at most one selected vendor.
func HandleVendorAssignmentSelect(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		assignmentID := e.Request.PathValue("id")
		if assignmentID == "" {
			return apiError(e, http.StatusBadRequest, "Missing assignment ID")
		}

		record, err := app.FindRecordById("vendor_assignments", assignmentID)
		if err != nil {
			log.Printf("vendor_assignments: could not find assignment %s: %v", assignmentID, err)
			return apiError(e, http.StatusNotFound, "Assignment not found")
		}

		if record.GetString("status") == "rejected" {
			return apiError(e, http.StatusConflict, "A rejected assignment cannot be selected")
		}

		selected, err := app.FindRecordsByFilter("vendor_assignments", "item = {:itemId} && status = 'selected'", "", 0, 0, map[string]any{
			"itemId": record.GetString("item"),
		})
		if err != nil {
			log.Printf("vendor_assignments: could not query selected assignments: %v", err)
			return apiError(e, http.StatusInternalServerError, "Internal error")
		}

		for _, prev := range selected {
			if prev.Id == record.Id {
				continue
			}
			prev.Set("status", "proposed")
			if err := app.Save(prev); err != nil {
				log.Printf("vendor_assignments: failed to demote assignment %s: %v", prev.Id, err)
				return apiError(e, http.StatusInternalServerError, "Failed to update assignment")
			}
		}

		record.Set("status", "selected")
		if err := app.Save(record); err != nil {
			log.Printf("vendor_assignments: failed to save assignment %s: %v", assignmentID, err)
			return apiError(e, http.StatusInternalServerError, "Failed to update assignment")
		}

		return e.JSON(http.StatusOK, assignmentResponse(app, record))
	}
}

// HandleVendorAssignmentReject returns a handler that marks an assignment as
// rejected.
func HandleVendorAssignmentReject(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		assignmentID := e.Request.PathValue("id")
		if assignmentID == "" {
			return apiError(e, http.StatusBadRequest, "Missing assignment ID")
		}

		record, err := app.FindRecordById("vendor_assignments", assignmentID)
		if err != nil {
			log.Printf("vendor_assignments: could not find assignment %s: %v", assignmentID, err)
			return apiError(e, http.StatusNotFound, "Assignment not found")
		}

		record.Set("status", "rejected")
		if err := app.Save(record); err != nil {
			log.Printf("vendor_assignments: failed to save assignment %s: %v", assignmentID, err)
			return apiError(e, http.StatusInternalServerError, "Failed to update assignment")
		}

		return e.JSON(http.StatusOK, assignmentResponse(app, record))
	}
}

// assignmentResponse maps a vendor assignment to its JSON representation,
// embedding the vendor's name when it can be resolved.
func assignmentResponse(app *pocketbase.PocketBase, record *core.Record) map[string]any {
	vendorName := ""
	if vendor, err := app.FindRecordById("vendors", record.GetString("vendor")); err == nil {
		vendorName = vendor.GetString("name")
	}

	return map[string]any{
		"id":          record.Id,
		"item":        record.GetString("item"),
		"vendor":      record.GetString("vendor"),
		"vendor_name": vendorName,
		"status":      record.GetString("status"),
		"notes":       record.GetString("notes"),
	}
}
