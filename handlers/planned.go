package handlers

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqtracking/services"
)

// loadPlannedItem fetches the planned material and labour lines for a BOQ
// item record and maps them onto the engine's planned structure. The raw
// line records are returned alongside for handlers that need ids and units.
func loadPlannedItem(app *pocketbase.PocketBase, item *core.Record) (services.PlannedItem, []*core.Record, []*core.Record, error) {
	materials, err := app.FindRecordsByFilter("sub_items", "item = {:itemId}", "sort_order", 0, 0, map[string]any{"itemId": item.Id})
	if err != nil {
		return services.PlannedItem{}, nil, nil, fmt.Errorf("query sub items for item %s: %w", item.Id, err)
	}

	labour, err := app.FindRecordsByFilter("labour_items", "item = {:itemId}", "sort_order", 0, 0, map[string]any{"itemId": item.Id})
	if err != nil {
		return services.PlannedItem{}, nil, nil, fmt.Errorf("query labour items for item %s: %w", item.Id, err)
	}

	planned := services.PlannedItem{
		Name:                   item.GetString("item_name"),
		OverheadPercentage:     item.GetFloat("overhead_percentage"),
		ProfitMarginPercentage: item.GetFloat("profit_margin_percentage"),
		SellingPrice:           item.GetFloat("selling_price"),
	}
	for _, m := range materials {
		planned.Materials = append(planned.Materials, services.PlannedLine{
			Key:      m.GetString("name"),
			Quantity: m.GetFloat("quantity"),
			Rate:     m.GetFloat("rate"),
		})
	}
	for _, l := range labour {
		planned.Labour = append(planned.Labour, services.PlannedLine{
			Key:      l.GetString("role"),
			Quantity: l.GetFloat("hours"),
			Rate:     l.GetFloat("rate"),
		})
	}

	return planned, materials, labour, nil
}

// loadActualEntries fetches the recorded actual entries for a BOQ item,
// split into material and labour entries in recorded order.
func loadActualEntries(app *pocketbase.PocketBase, itemID string) ([]services.ActualEntry, []services.ActualEntry, error) {
	records, err := app.FindRecordsByFilter("actual_entries", "item = {:itemId}", "recorded", 0, 0, map[string]any{"itemId": itemID})
	if err != nil {
		return nil, nil, fmt.Errorf("query actual entries for item %s: %w", itemID, err)
	}

	var materials, labour []services.ActualEntry
	for _, rec := range records {
		entry := services.ActualEntry{
			Key:              rec.GetString("line_key"),
			Quantity:         rec.GetFloat("quantity"),
			Rate:             rec.GetFloat("rate"),
			VarianceReason:   rec.GetString("variance_reason"),
			VarianceResponse: rec.GetString("variance_response"),
		}
		if rec.GetString("line_type") == "labour" {
			labour = append(labour, entry)
		} else {
			materials = append(materials, entry)
		}
	}

	return materials, labour, nil
}
