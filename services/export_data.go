package services

import "fmt"

// TrackingRow represents a single row in the tracking export: an item
// aggregate (level 0) or one of its cost lines (level 1).
type TrackingRow struct {
	Level       int // 0 = BOQ item, 1 = material/labour line
	Index       string
	Description string
	LineType    string // "Material" or "Labour", empty for item rows
	Planned     float64
	Actual      float64
	Variance    float64
	Status      string
	Reason      string
}

// TrackingExportData holds all data needed to export a planned-vs-actual
// tracking report.
type TrackingExportData struct {
	BOQName         string
	ReferenceNumber string
	GeneratedDate   string
	Rows            []TrackingRow
	Summary         BOQSummary
}

// BuildTrackingExportData flattens a BOQReport into export rows.
func BuildTrackingExportData(report BOQReport, referenceNumber, generatedDate string) TrackingExportData {
	var rows []TrackingRow

	for i, item := range report.Items {
		itemStatus := string(budgetStatusFor(item.Variance))
		if item.Loss {
			itemStatus = "loss"
		}
		rows = append(rows, TrackingRow{
			Level:       0,
			Index:       fmt.Sprintf("%d", i+1),
			Description: item.ItemName,
			Planned:     item.Planned.Total,
			Actual:      item.Actual.Total,
			Variance:    item.Variance,
			Status:      itemStatus,
		})

		line := 1
		for _, lr := range item.Materials {
			rows = append(rows, lineRow(i+1, line, "Material", lr))
			line++
		}
		for _, lr := range item.Labour {
			rows = append(rows, lineRow(i+1, line, "Labour", lr))
			line++
		}
	}

	return TrackingExportData{
		BOQName:         report.BOQName,
		ReferenceNumber: referenceNumber,
		GeneratedDate:   generatedDate,
		Rows:            rows,
		Summary:         report.Summary,
	}
}

func lineRow(itemIdx, lineIdx int, lineType string, lr LineResult) TrackingRow {
	return TrackingRow{
		Level:       1,
		Index:       fmt.Sprintf("%d.%d", itemIdx, lineIdx),
		Description: lr.Key,
		LineType:    lineType,
		Planned:     lr.Planned,
		Actual:      lr.Actual,
		Variance:    lr.Variance,
		Status:      string(lr.Status),
		Reason:      lr.VarianceReason,
	}
}
