package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type materialDef struct {
	sortOrder int
	name      string
	quantity  float64
	unit      string
	rate      float64
}

type labourDef struct {
	sortOrder int
	role      string
	hours     float64
	rate      float64
}

type itemDef struct {
	sortOrder    int
	name         string
	overheadPct  float64
	profitPct    float64
	sellingPrice float64
	materials    []materialDef
	labour       []labourDef
}

type actualDef struct {
	itemName       string
	lineType       string
	lineKey        string
	quantity       float64
	rate           float64
	varianceReason string
}

type vendorSeedDef struct {
	name          string
	trade         string
	contactPerson string
	phone         string
	email         string
}

// Seed populates the collections with a realistic interior fit-out BOQ so
// a fresh install has data to explore. It is safe to call on every startup
// because it returns early if any BOQ records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if BOQs already exist ──────────────────────
	boqsCol, err := app.FindCollectionByNameOrId("boqs")
	if err != nil {
		return fmt.Errorf("seed: could not find boqs collection: %w", err)
	}
	existing, err := app.FindAllRecords(boqsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query boqs: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: boqs collection is empty – inserting seed data …")

	itemsCol, err := app.FindCollectionByNameOrId("boq_items")
	if err != nil {
		return fmt.Errorf("seed: could not find boq_items collection: %w", err)
	}
	materialsCol, err := app.FindCollectionByNameOrId("sub_items")
	if err != nil {
		return fmt.Errorf("seed: could not find sub_items collection: %w", err)
	}
	labourCol, err := app.FindCollectionByNameOrId("labour_items")
	if err != nil {
		return fmt.Errorf("seed: could not find labour_items collection: %w", err)
	}
	actualsCol, err := app.FindCollectionByNameOrId("actual_entries")
	if err != nil {
		return fmt.Errorf("seed: could not find actual_entries collection: %w", err)
	}
	vendorsCol, err := app.FindCollectionByNameOrId("vendors")
	if err != nil {
		return fmt.Errorf("seed: could not find vendors collection: %w", err)
	}

	// ── helper: create item with its planned lines ───────────────────
	createItem := func(boqID string, d itemDef) (*core.Record, error) {
		r := core.NewRecord(itemsCol)
		r.Set("boq", boqID)
		r.Set("sort_order", d.sortOrder)
		r.Set("item_name", d.name)
		r.Set("overhead_percentage", d.overheadPct)
		r.Set("profit_margin_percentage", d.profitPct)
		r.Set("selling_price", d.sellingPrice)
		if err := app.Save(r); err != nil {
			return nil, fmt.Errorf("seed: save item %q: %w", d.name, err)
		}

		for _, m := range d.materials {
			mr := core.NewRecord(materialsCol)
			mr.Set("item", r.Id)
			mr.Set("sort_order", m.sortOrder)
			mr.Set("name", m.name)
			mr.Set("quantity", m.quantity)
			mr.Set("unit", m.unit)
			mr.Set("rate", m.rate)
			if err := app.Save(mr); err != nil {
				return nil, fmt.Errorf("seed: save material %q: %w", m.name, err)
			}
		}
		for _, l := range d.labour {
			lr := core.NewRecord(labourCol)
			lr.Set("item", r.Id)
			lr.Set("sort_order", l.sortOrder)
			lr.Set("role", l.role)
			lr.Set("hours", l.hours)
			lr.Set("rate", l.rate)
			if err := app.Save(lr); err != nil {
				return nil, fmt.Errorf("seed: save labour %q: %w", l.role, err)
			}
		}
		return r, nil
	}

	// ── the BOQ ──────────────────────────────────────────────────────
	boq := core.NewRecord(boqsCol)
	boq.Set("name", "Villa 12 Interior Fit-Out")
	boq.Set("reference_number", "BOQ-2026-001")
	boq.Set("client", "Al Noor Properties")
	boq.Set("status", "approved")
	if err := app.Save(boq); err != nil {
		return fmt.Errorf("seed: save boq: %w", err)
	}

	items := []itemDef{
		{
			sortOrder: 1, name: "Flooring — Living Areas",
			overheadPct: 10, profitPct: 15, sellingPrice: 31250,
			materials: []materialDef{
				{1, "Porcelain Tiles 60x60", 180, "sqm", 85},
				{2, "Tile Adhesive", 45, "bag", 28},
				{3, "Grout", 20, "bag", 22},
			},
			labour: []labourDef{
				{1, "Tiler", 220, "", 35},
				{2, "Helper", 160, "", 18},
			},
		},
		{
			sortOrder: 2, name: "Painting — Walls and Ceilings",
			overheadPct: 8, profitPct: 12, sellingPrice: 14800,
			materials: []materialDef{
				{1, "Emulsion Paint 18L", 22, "drum", 240},
				{2, "Primer 18L", 12, "drum", 180},
				{3, "Masking and Sundries", 1, "lot", 450},
			},
			labour: []labourDef{
				{1, "Painter", 180, "", 28},
			},
		},
		{
			sortOrder: 3, name: "Gypsum Ceiling Works",
			overheadPct: 10, profitPct: 18, sellingPrice: 22500,
			materials: []materialDef{
				{1, "Gypsum Board 12mm", 140, "sheet", 32},
				{2, "Metal Framing", 1, "lot", 3800},
				{3, "Screws and Fixings", 1, "lot", 600},
			},
			labour: []labourDef{
				{1, "Gypsum Carpenter", 260, "", 32},
				{2, "Helper", 120, "", 18},
			},
		},
	}

	itemIDs := make(map[string]string, len(items))
	for _, d := range items {
		r, err := createItem(boq.Id, d)
		if err != nil {
			return err
		}
		itemIDs[d.name] = r.Id
	}

	// ── a few recorded actuals so the tracking report has a story ────
	actuals := []actualDef{
		{"Flooring — Living Areas", "material", "Porcelain Tiles 60x60", 180, 92,
			"Supplier raised tile prices after the quote"},
		{"Flooring — Living Areas", "material", "Tile Adhesive", 45, 28, ""},
		{"Flooring — Living Areas", "labour", "Tiler", 235, 35,
			"Extra hours levelling the substrate"},
		{"Painting — Walls and Ceilings", "material", "Emulsion Paint 18L", 20, 235, ""},
	}
	for _, a := range actuals {
		itemID, ok := itemIDs[a.itemName]
		if !ok {
			return fmt.Errorf("seed: unknown item %q for actual entry", a.itemName)
		}
		r := core.NewRecord(actualsCol)
		r.Set("item", itemID)
		r.Set("line_type", a.lineType)
		r.Set("line_key", a.lineKey)
		r.Set("quantity", a.quantity)
		r.Set("rate", a.rate)
		r.Set("variance_reason", a.varianceReason)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save actual entry %q: %w", a.lineKey, err)
		}
	}

	// ── vendors ──────────────────────────────────────────────────────
	vendors := []vendorSeedDef{
		{"Gulf Tiling LLC", "Tiling", "R. Nair", "0501234567", "info@gulftiling.ae"},
		{"Emirates Paint Works", "Painting", "S. Khan", "0507654321", "office@epw.ae"},
		{"Deserts Edge Interiors", "Gypsum and Ceilings", "M. Haddad", "0509876543", "contact@deinteriors.ae"},
	}
	for _, v := range vendors {
		r := core.NewRecord(vendorsCol)
		r.Set("name", v.name)
		r.Set("trade", v.trade)
		r.Set("contact_person", v.contactPerson)
		r.Set("phone", v.phone)
		r.Set("email", v.email)
		r.Set("status", "active")
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save vendor %q: %w", v.name, err)
		}
	}

	log.Println("seed: done")
	return nil
}
