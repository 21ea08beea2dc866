// Package services provides the cost calculation and reporting logic for
// BOQ planned-vs-actual tracking.
package services

import "math"

// epsilon is the tolerance used when comparing currency amounts.
const epsilon = 1e-9

// VarianceStatus classifies a cost line's actual spend against its plan.
type VarianceStatus string

const (
	StatusSaved     VarianceStatus = "saved"
	StatusOverrun   VarianceStatus = "overrun"
	StatusOnBudget  VarianceStatus = "on_budget"
	StatusUnplanned VarianceStatus = "unplanned"
	StatusPending   VarianceStatus = "pending"
)

// BudgetStatus classifies a whole BOQ's actual total against its plan.
type BudgetStatus string

const (
	BudgetOnBudget    BudgetStatus = "on_budget"
	BudgetOverBudget  BudgetStatus = "over_budget"
	BudgetUnderBudget BudgetStatus = "under_budget"
)

// PlannedLine is a single planned cost line: a material sub-item or a labour
// role. Key must be unique within its parent item.
type PlannedLine struct {
	Key      string
	Quantity float64
	Rate     float64
}

// Total recomputes the line total from quantity and rate. Stored totals are
// never trusted over this recomputation.
func (l PlannedLine) Total() float64 {
	return l.Quantity * l.Rate
}

// ActualEntry is one recorded purchase or labour-hours entry. Entries are
// append-only; multiple entries may exist per key and must be summed.
type ActualEntry struct {
	Key              string
	Quantity         float64
	Rate             float64
	VarianceReason   string
	VarianceResponse string
}

// Total recomputes the entry total from quantity and rate.
func (e ActualEntry) Total() float64 {
	return e.Quantity * e.Rate
}

// PlannedItem is the planned cost structure of one BOQ item.
// Missing overhead/profit percentages or selling price are treated as 0.
type PlannedItem struct {
	Name                   string
	Materials              []PlannedLine
	Labour                 []PlannedLine
	OverheadPercentage     float64
	ProfitMarginPercentage float64
	SellingPrice           float64
}

// LineResult is the per-line comparison of planned and actual spend.
type LineResult struct {
	Key              string         `json:"key"`
	Planned          float64        `json:"planned"`
	Actual           float64        `json:"actual"`
	Variance         float64        `json:"variance"`
	Status           VarianceStatus `json:"status"`
	VarianceReason   string         `json:"variance_reason,omitempty"`
	VarianceResponse string         `json:"variance_response,omitempty"`
}

// CostBreakdown is the cost structure of one item, computed once for the
// planned side and once for the actual side. Total excludes profit: selling
// price = cost + overhead, profit is the residual against selling price.
type CostBreakdown struct {
	MaterialsTotal   float64 `json:"materials_total"`
	LabourTotal      float64 `json:"labour_total"`
	BaseCost         float64 `json:"base_cost"`
	OverheadAmount   float64 `json:"overhead_amount"`
	ProfitAmount     float64 `json:"profit_amount"`
	ProfitPercentage float64 `json:"profit_percentage"`
	Total            float64 `json:"total"`
}

// ConsumptionFlow records how a cost overrun was absorbed: overhead first,
// then profit.
type ConsumptionFlow struct {
	ExtraCosts       float64 `json:"extra_costs"`
	OverheadConsumed float64 `json:"overhead_consumed"`
	ProfitConsumed   float64 `json:"profit_consumed"`
}

// CompletionStatus counts how many planned lines have at least one actual
// entry recorded against them.
type CompletionStatus struct {
	TotalPlanned int     `json:"total_planned"`
	Completed    int     `json:"completed"`
	Pending      int     `json:"pending"`
	Unplanned    int     `json:"unplanned"`
	Percent      float64 `json:"percent"`
}

// ItemReport is the full planned-vs-actual comparison for one BOQ item.
type ItemReport struct {
	ItemName     string           `json:"item_name"`
	SellingPrice float64          `json:"selling_price"`
	Materials    []LineResult     `json:"materials"`
	Labour       []LineResult     `json:"labour"`
	Planned      CostBreakdown    `json:"planned"`
	Actual       CostBreakdown    `json:"actual"`
	Flow         ConsumptionFlow  `json:"consumption_flow"`
	Completion   CompletionStatus `json:"completion_status"`
	Variance     float64          `json:"variance"`
	Loss         bool             `json:"loss"`
}

// BOQSummary aggregates item reports across a BOQ. Aggregation sums the
// already-waterfalled per-item results; the waterfall is not re-run at BOQ
// level.
type BOQSummary struct {
	Planned  CostBreakdown `json:"planned"`
	Actual   CostBreakdown `json:"actual"`
	Variance float64       `json:"variance"`
	Status   BudgetStatus  `json:"status"`
}

// BOQReport is the engine's output for a whole BOQ.
type BOQReport struct {
	BOQName string       `json:"boq_name"`
	Items   []ItemReport `json:"items"`
	Summary BOQSummary   `json:"summary"`
}

// BuildItemReport compares one item's planned structure against its recorded
// actual entries (materials and labour keyed by sub-item name / labour role)
// and applies the overhead-then-profit consumption waterfall to any overrun.
func BuildItemReport(item PlannedItem, materialEntries, labourEntries []ActualEntry) ItemReport {
	materials := buildLineResults(item.Materials, materialEntries)
	labour := buildLineResults(item.Labour, labourEntries)

	plannedMaterials := sumPlanned(materials)
	plannedLabour := sumPlanned(labour)
	plannedBase := plannedMaterials + plannedLabour
	plannedOverhead := plannedBase * item.OverheadPercentage / 100
	plannedProfit := item.SellingPrice - (plannedBase + plannedOverhead)

	actualMaterials := sumActual(materials)
	actualLabour := sumActual(labour)
	actualBase := actualMaterials + actualLabour

	// Consumption waterfall: overruns eat planned overhead first, then
	// profit. Savings flow straight into profit. Selling price is fixed
	// throughout, so actual profit is always the residual against it.
	extra := math.Max(0, actualBase-plannedBase)
	overheadConsumed := math.Min(extra, plannedOverhead)
	actualOverhead := plannedOverhead - overheadConsumed
	profitConsumed := extra - overheadConsumed
	actualTotal := actualBase + actualOverhead
	actualProfit := item.SellingPrice - actualTotal

	planned := CostBreakdown{
		MaterialsTotal:   plannedMaterials,
		LabourTotal:      plannedLabour,
		BaseCost:         plannedBase,
		OverheadAmount:   plannedOverhead,
		ProfitAmount:     plannedProfit,
		ProfitPercentage: profitPercent(plannedProfit, item.SellingPrice),
		Total:            plannedBase + plannedOverhead,
	}
	actual := CostBreakdown{
		MaterialsTotal:   actualMaterials,
		LabourTotal:      actualLabour,
		BaseCost:         actualBase,
		OverheadAmount:   actualOverhead,
		ProfitAmount:     actualProfit,
		ProfitPercentage: profitPercent(actualProfit, item.SellingPrice),
		Total:            actualTotal,
	}

	return ItemReport{
		ItemName:     item.Name,
		SellingPrice: item.SellingPrice,
		Materials:    materials,
		Labour:       labour,
		Planned:      planned,
		Actual:       actual,
		Flow: ConsumptionFlow{
			ExtraCosts:       extra,
			OverheadConsumed: overheadConsumed,
			ProfitConsumed:   profitConsumed,
		},
		Completion: buildCompletion(materials, labour),
		Variance:   actual.Total - planned.Total,
		Loss:       actualProfit < -epsilon,
	}
}

// BuildBOQReport aggregates per-item reports into a BOQ-level summary.
func BuildBOQReport(boqName string, items []ItemReport) BOQReport {
	var summary BOQSummary
	var sellingTotal float64

	for _, it := range items {
		addBreakdown(&summary.Planned, it.Planned)
		addBreakdown(&summary.Actual, it.Actual)
		sellingTotal += it.SellingPrice
	}
	summary.Planned.ProfitPercentage = profitPercent(summary.Planned.ProfitAmount, sellingTotal)
	summary.Actual.ProfitPercentage = profitPercent(summary.Actual.ProfitAmount, sellingTotal)
	summary.Variance = summary.Actual.Total - summary.Planned.Total
	summary.Status = budgetStatusFor(summary.Variance)

	return BOQReport{
		BOQName: boqName,
		Items:   items,
		Summary: summary,
	}
}

// buildLineResults merges planned lines with their actual entries. Planned
// lines keep their given order; entries with no planned counterpart are
// appended afterwards in first-appearance order, tagged unplanned.
func buildLineResults(planned []PlannedLine, entries []ActualEntry) []LineResult {
	type tally struct {
		total    float64
		count    int
		reason   string
		response string
	}

	tallies := make(map[string]*tally)
	var unplannedOrder []string

	plannedKeys := make(map[string]bool, len(planned))
	for _, pl := range planned {
		plannedKeys[pl.Key] = true
	}

	for _, en := range entries {
		tl := tallies[en.Key]
		if tl == nil {
			tl = &tally{}
			tallies[en.Key] = tl
			if !plannedKeys[en.Key] {
				unplannedOrder = append(unplannedOrder, en.Key)
			}
		}
		tl.total += en.Total()
		tl.count++
		// Entries arrive in recorded order; keep the latest annotation.
		if en.VarianceReason != "" {
			tl.reason = en.VarianceReason
		}
		if en.VarianceResponse != "" {
			tl.response = en.VarianceResponse
		}
	}

	var results []LineResult
	for _, pl := range planned {
		plannedTotal := pl.Total()
		res := LineResult{
			Key:     pl.Key,
			Planned: plannedTotal,
		}
		tl := tallies[pl.Key]
		if tl == nil {
			// Pending: planned total stands in for actual so unrecorded
			// work never appears as a saving.
			res.Actual = plannedTotal
			res.Status = StatusPending
		} else {
			res.Actual = tl.total
			res.Variance = tl.total - plannedTotal
			res.VarianceReason = tl.reason
			res.VarianceResponse = tl.response
			switch {
			case math.Abs(res.Variance) <= epsilon:
				res.Status = StatusOnBudget
			case res.Variance > 0:
				res.Status = StatusOverrun
			default:
				res.Status = StatusSaved
			}
		}
		results = append(results, res)
	}

	for _, key := range unplannedOrder {
		tl := tallies[key]
		results = append(results, LineResult{
			Key:              key,
			Actual:           tl.total,
			Variance:         tl.total,
			Status:           StatusUnplanned,
			VarianceReason:   tl.reason,
			VarianceResponse: tl.response,
		})
	}

	return results
}

func buildCompletion(materials, labour []LineResult) CompletionStatus {
	var cs CompletionStatus
	for _, res := range [][]LineResult{materials, labour} {
		for _, lr := range res {
			switch lr.Status {
			case StatusUnplanned:
				cs.Unplanned++
			case StatusPending:
				cs.TotalPlanned++
				cs.Pending++
			default:
				cs.TotalPlanned++
				cs.Completed++
			}
		}
	}
	if cs.TotalPlanned > 0 {
		cs.Percent = float64(cs.Completed) / float64(cs.TotalPlanned) * 100
	}
	return cs
}

func sumPlanned(results []LineResult) float64 {
	var sum float64
	for _, lr := range results {
		sum += lr.Planned
	}
	return sum
}

func sumActual(results []LineResult) float64 {
	var sum float64
	for _, lr := range results {
		sum += lr.Actual
	}
	return sum
}

func addBreakdown(dst *CostBreakdown, src CostBreakdown) {
	dst.MaterialsTotal += src.MaterialsTotal
	dst.LabourTotal += src.LabourTotal
	dst.BaseCost += src.BaseCost
	dst.OverheadAmount += src.OverheadAmount
	dst.ProfitAmount += src.ProfitAmount
	dst.Total += src.Total
}

func budgetStatusFor(variance float64) BudgetStatus {
	switch {
	case variance > epsilon:
		return BudgetOverBudget
	case variance < -epsilon:
		return BudgetUnderBudget
	default:
		return BudgetOnBudget
	}
}

func profitPercent(profit, sellingPrice float64) float64 {
	if sellingPrice == 0 {
		return 0
	}
	return profit / sellingPrice * 100
}
