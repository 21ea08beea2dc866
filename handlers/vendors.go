package handlers

import (
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// vendorPayload is the JSON body for creating or updating a vendor.
type vendorPayload struct {
	Name          string `json:"name"`
	Trade         string `json:"trade"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Status        string `json:"status"`
}

func (p vendorPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Trade, validation.Length(0, 100)),
		validation.Field(&p.Email, is.EmailFormat),
		validation.Field(&p.Status, validation.In("", "active", "inactive")),
	)
}

// HandleVendorList returns a handler that lists all vendors.
func HandleVendorList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("vendors", "", "name", 0, 0, nil)
		if err != nil {
			log.Printf("vendors: could not query vendors: %v", err)
			records = nil
		}

		vendors := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			vendors = append(vendors, vendorResponse(rec))
		}

		return e.JSON(http.StatusOK, map[string]any{"vendors": vendors})
	}
}

// HandleVendorCreate returns a handler that creates a vendor.
func HandleVendorCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var payload vendorPayload
		if err := e.BindBody(&payload); err != nil {
			log.Printf("vendors: could not bind body: %v", err)
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := payload.Validate(); err != nil {
			return validationError(e, http.StatusBadRequest, fieldErrors(err))
		}

		dup, _ := app.FindRecordsByFilter("vendors", "name = {:name}", "", 1, 0, map[string]any{"name": payload.Name})
		if len(dup) > 0 {
			return validationError(e, http.StatusConflict, map[string]string{
				"name": "A vendor with this name already exists",
			})
		}

		col, err := app.FindCollectionByNameOrId("vendors")
		if err != nil {
			log.Printf("vendors: could not find collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Internal error")
		}

		status := payload.Status
		if status == "" {
			status = "active"
		}

		record := core.NewRecord(col)
		record.Set("name", payload.Name)
		record.Set("trade", payload.Trade)
		record.Set("contact_person", payload.ContactPerson)
		record.Set("phone", payload.Phone)
		record.Set("email", payload.Email)
		record.Set("status", status)

		if err := app.Save(record); err != nil {
			log.Printf("vendors: failed to save vendor: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to create vendor")
		}

		return e.JSON(http.StatusCreated, vendorResponse(record))
	}
}

// HandleVendorUpdate returns a handler that updates a vendor's details.
func HandleVendorUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		vendorID := e.Request.PathValue("id")
		if vendorID == "" {
			return apiError(e, http.StatusBadRequest, "Missing vendor ID")
		}

		record, err := app.FindRecordById("vendors", vendorID)
		if err != nil {
			log.Printf("vendors: could not find vendor %s: %v", vendorID, err)
			return apiError(e, http.StatusNotFound, "Vendor not found")
		}

		var payload vendorPayload
		if err := e.BindBody(&payload); err != nil {
			log.Printf("vendors: could not bind body: %v", err)
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := payload.Validate(); err != nil {
			return validationError(e, http.StatusBadRequest, fieldErrors(err))
		}

		record.Set("name", payload.Name)
		record.Set("trade", payload.Trade)
		record.Set("contact_person", payload.ContactPerson)
		record.Set("phone", payload.Phone)
		record.Set("email", payload.Email)
		if payload.Status != "" {
			record.Set("status", payload.Status)
		}

		if err := app.Save(record); err != nil {
			log.Printf("vendors: failed to save vendor %s: %v", vendorID, err)
			return apiError(e, http.StatusInternalServerError, "Failed to update vendor")
		}

		return e.JSON(http.StatusOK, vendorResponse(record))
	}
}

// HandleVendorDelete returns a handler that deletes a vendor. Deleting a
// vendor with existing assignments is rejected so history stays intact.
func HandleVendorDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		vendorID := e.Request.PathValue("id")
		if vendorID == "" {
			return apiError(e, http.StatusBadRequest, "Missing vendor ID")
		}

		record, err := app.FindRecordById("vendors", vendorID)
		if err != nil {
			log.Printf("vendors: could not find vendor %s: %v", vendorID, err)
			return apiError(e, http.StatusNotFound, "Vendor not found")
		}

		assignments, _ := app.FindRecordsByFilter("vendor_assignments", "vendor = {:vendorId}", "", 1, 0, map[string]any{"vendorId": vendorID})
		if len(assignments) > 0 {
			return apiError(e, http.StatusConflict, "Vendor has assignments; mark it inactive instead")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("vendors: failed to delete vendor %s: %v", vendorID, err)
			return apiError(e, http.StatusInternalServerError, "Failed to delete vendor")
		}

		return e.JSON(http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// vendorResponse maps a vendor record to its JSON representation.
func vendorResponse(record *core.Record) map[string]any {
	return map[string]any{
		"id":             record.Id,
		"name":           record.GetString("name"),
		"trade":          record.GetString("trade"),
		"contact_person": record.GetString("contact_person"),
		"phone":          record.GetString("phone"),
		"email":          record.GetString("email"),
		"status":         record.GetString("status"),
	}
}
