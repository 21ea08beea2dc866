package services

import (
	"fmt"
	"math"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateTrackingPDF creates a PDF document for a planned-vs-actual
// tracking report using maroto/v2. It returns the raw PDF bytes or an error.
func GenerateTrackingPDF(data TrackingExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addTrackingHeader(m, data)
	addTrackingTableHeader(m)
	for _, r := range data.Rows {
		addTrackingTableRow(m, r)
	}
	addTrackingSummary(m, data)
	addTrackingFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addTrackingHeader adds the title, reference number, and date to the PDF.
func addTrackingHeader(m core.Maroto, data TrackingExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.BOQName+" — Planned vs Actual", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Reference: %s", data.ReferenceNumber), props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", data.GeneratedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)

	// Spacer
	m.AddRows(row.New(4))
}

// addTrackingTableHeader adds the column header row for the tracking table.
func addTrackingTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(
				text.New("#", headerText),
			).WithStyle(&headerCell),
			col.New(3).Add(
				text.New("Description", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Type", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Planned", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Actual", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Variance", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Status", headerText),
			).WithStyle(&headerCell),
		),
	)
}

// addTrackingTableRow adds a single data row to the tracking table, styled
// by indent level.
func addTrackingTableRow(m core.Maroto, r TrackingRow) {
	var cellStyle *props.Cell
	var textSize float64 = 7
	var textStyle fontstyle.Type = fontstyle.Normal
	descPrefix := ""

	switch r.Level {
	case 0:
		// BOQ item: bold, white background.
		textStyle = fontstyle.Bold
		textSize = 8
	case 1:
		// Cost line: indented, light gray background.
		descPrefix = "  "
		bg := &props.Color{Red: 245, Green: 245, Blue: 245}
		cellStyle = &props.Cell{BackgroundColor: bg}
	}

	baseText := props.Text{
		Size:  textSize,
		Style: textStyle,
		Align: align.Center,
	}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	colIndex := col.New(1).Add(text.New(r.Index, baseText))
	colDesc := col.New(3).Add(text.New(descPrefix+r.Description, leftText))
	colType := col.New(1).Add(text.New(r.LineType, baseText))
	colPlanned := col.New(2).Add(text.New(FormatAED(r.Planned), rightText))
	colActual := col.New(2).Add(text.New(FormatAED(r.Actual), rightText))
	colVariance := col.New(2).Add(text.New(FormatAED(r.Variance), rightText))
	colStatus := col.New(1).Add(text.New(statusLabel(r.Status), baseText))

	if cellStyle != nil {
		colIndex = colIndex.WithStyle(cellStyle)
		colDesc = colDesc.WithStyle(cellStyle)
		colType = colType.WithStyle(cellStyle)
		colPlanned = colPlanned.WithStyle(cellStyle)
		colActual = colActual.WithStyle(cellStyle)
		colVariance = colVariance.WithStyle(cellStyle)
		colStatus = colStatus.WithStyle(cellStyle)
	}

	m.AddRows(
		row.New(7).Add(
			colIndex,
			colDesc,
			colType,
			colPlanned,
			colActual,
			colVariance,
			colStatus,
		),
	)
}

// addTrackingSummary adds the totals section at the bottom of the PDF.
func addTrackingSummary(m core.Maroto, data TrackingExportData) {
	// Spacer before summary
	m.AddRows(row.New(6))

	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}

	addSummaryRow := func(label, value string) {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(
					text.New(label, labelStyle),
				).WithStyle(summaryCell),
				col.New(4).Add(
					text.New(value, valueStyle),
				).WithStyle(summaryCell),
			),
		)
	}

	addSummaryRow("Planned Total", FormatAED(data.Summary.Planned.Total))
	addSummaryRow("Actual Total", FormatAED(data.Summary.Actual.Total))
	addSummaryRow(
		fmt.Sprintf("Variance (%s)", statusLabel(string(data.Summary.Status))),
		FormatAED(data.Summary.Variance),
	)

	// Losses are shown as a positive magnitude under a "Loss" label.
	profitLabel := "Profit"
	profitValue := data.Summary.Actual.ProfitAmount
	if profitValue < 0 {
		profitLabel = "Loss"
		profitValue = math.Abs(profitValue)
	}
	addSummaryRow(profitLabel, FormatAED(profitValue))
}

// addTrackingFooter adds the generated-date line at the bottom.
func addTrackingFooter(m core.Maroto, data TrackingExportData) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", data.GeneratedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}
