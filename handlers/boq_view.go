package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqtracking/services"
)

// HandleBOQView returns a handler that serves a BOQ's planned structure:
// items with their material and labour lines and the planned cost breakdown.
func HandleBOQView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		boqID := e.Request.PathValue("id")
		if boqID == "" {
			return apiError(e, http.StatusBadRequest, "Missing BOQ ID")
		}

		boqRecord, err := app.FindRecordById("boqs", boqID)
		if err != nil {
			log.Printf("boq_view: could not find BOQ %s: %v", boqID, err)
			return apiError(e, http.StatusNotFound, "BOQ not found")
		}

		itemRecords, err := app.FindRecordsByFilter("boq_items", "boq = {:boqId}", "sort_order", 0, 0, map[string]any{"boqId": boqID})
		if err != nil {
			log.Printf("boq_view: could not query items for BOQ %s: %v", boqID, err)
			itemRecords = nil
		}

		items := make([]map[string]any, 0, len(itemRecords))
		for _, item := range itemRecords {
			planned, materialRecords, labourRecords, err := loadPlannedItem(app, item)
			if err != nil {
				log.Printf("boq_view: %v", err)
				return apiError(e, http.StatusInternalServerError, "Internal error")
			}

			materials := make([]map[string]any, 0, len(materialRecords))
			for _, m := range materialRecords {
				materials = append(materials, map[string]any{
					"id":       m.Id,
					"name":     m.GetString("name"),
					"quantity": m.GetFloat("quantity"),
					"unit":     m.GetString("unit"),
					"rate":     m.GetFloat("rate"),
					"total":    m.GetFloat("quantity") * m.GetFloat("rate"),
				})
			}

			labour := make([]map[string]any, 0, len(labourRecords))
			for _, l := range labourRecords {
				labour = append(labour, map[string]any{
					"id":    l.Id,
					"role":  l.GetString("role"),
					"hours": l.GetFloat("hours"),
					"rate":  l.GetFloat("rate"),
					"total": l.GetFloat("hours") * l.GetFloat("rate"),
				})
			}

			// The planned side of an actual-free report is the planned
			// cost breakdown.
			breakdown := services.BuildItemReport(planned, nil, nil).Planned

			items = append(items, map[string]any{
				"id":                       item.Id,
				"item_name":                item.GetString("item_name"),
				"overhead_percentage":      item.GetFloat("overhead_percentage"),
				"profit_margin_percentage": item.GetFloat("profit_margin_percentage"),
				"selling_price":            item.GetFloat("selling_price"),
				"materials":                materials,
				"labour":                   labour,
				"planned":                  breakdown,
			})
		}

		response := boqResponse(boqRecord)
		response["items"] = items
		return e.JSON(http.StatusOK, response)
	}
}
