package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleBOQList returns a handler that lists all BOQs with item counts.
func HandleBOQList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		boqsCol, err := app.FindCollectionByNameOrId("boqs")
		if err != nil {
			log.Printf("boq_list: could not find boqs collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Internal error")
		}

		records, err := app.FindRecordsByFilter(boqsCol, "", "-created", 0, 0, nil)
		if err != nil {
			log.Printf("boq_list: could not query BOQs: %v", err)
			records = nil
		}

		boqs := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			entry := boqResponse(rec)

			items, err := app.FindRecordsByFilter("boq_items", "boq = {:boqId}", "", 0, 0, map[string]any{"boqId": rec.Id})
			if err != nil {
				log.Printf("boq_list: could not count items for BOQ %s: %v", rec.Id, err)
				items = nil
			}
			entry["item_count"] = len(items)

			boqs = append(boqs, entry)
		}

		return e.JSON(http.StatusOK, map[string]any{"boqs": boqs})
	}
}
