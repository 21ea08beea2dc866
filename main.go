package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqtracking/collections"
	"boqtracking/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── BOQ CRUD and lifecycle ───────────────────────────────
		se.Router.GET("/api/boqs", handlers.HandleBOQList(app))
		se.Router.POST("/api/boqs", handlers.HandleBOQCreate(app))
		se.Router.GET("/api/boqs/{id}", handlers.HandleBOQView(app))
		se.Router.PATCH("/api/boqs/{id}", handlers.HandleBOQUpdate(app))
		se.Router.DELETE("/api/boqs/{id}", handlers.HandleBOQDelete(app))
		se.Router.POST("/api/boqs/{id}/approve", handlers.HandleBOQApprove(app))

		// ── Planned items and lines ──────────────────────────────
		se.Router.POST("/api/boqs/{id}/items", handlers.HandleItemAdd(app))
		se.Router.PATCH("/api/items/{itemId}", handlers.HandleItemUpdate(app))
		se.Router.DELETE("/api/items/{itemId}", handlers.HandleItemDelete(app))
		se.Router.POST("/api/items/{itemId}/materials", handlers.HandleMaterialAdd(app))
		se.Router.POST("/api/items/{itemId}/labour", handlers.HandleLabourAdd(app))
		se.Router.DELETE("/api/materials/{id}", handlers.HandleLineDelete(app, "sub_items"))
		se.Router.DELETE("/api/labour/{id}", handlers.HandleLineDelete(app, "labour_items"))

		// ── Actual cost entries ──────────────────────────────────
		se.Router.GET("/api/items/{itemId}/actuals", handlers.HandleActualList(app))
		se.Router.POST("/api/items/{itemId}/actuals", handlers.HandleActualRecord(app))
		se.Router.POST("/api/actuals/{id}/response", handlers.HandleActualResponse(app))

		// ── Tracking report and exports ──────────────────────────
		se.Router.GET("/api/boqs/{id}/tracking", handlers.HandleTracking(app))
		se.Router.GET("/api/boqs/{id}/tracking/export/excel", handlers.HandleTrackingExportExcel(app))
		se.Router.GET("/api/boqs/{id}/tracking/export/pdf", handlers.HandleTrackingExportPDF(app))

		// ── Change requests ──────────────────────────────────────
		se.Router.GET("/api/boqs/{id}/change-requests", handlers.HandleChangeRequestList(app))
		se.Router.POST("/api/boqs/{id}/change-requests", handlers.HandleChangeRequestCreate(app))
		se.Router.POST("/api/change-requests/{id}/approve", handlers.HandleChangeRequestReview(app, "approved"))
		se.Router.POST("/api/change-requests/{id}/reject", handlers.HandleChangeRequestReview(app, "rejected"))

		// ── Vendors and assignments ──────────────────────────────
		se.Router.GET("/api/vendors", handlers.HandleVendorList(app))
		se.Router.POST("/api/vendors", handlers.HandleVendorCreate(app))
		se.Router.PATCH("/api/vendors/{id}", handlers.HandleVendorUpdate(app))
		se.Router.DELETE("/api/vendors/{id}", handlers.HandleVendorDelete(app))
		se.Router.GET("/api/items/{itemId}/vendor-assignments", handlers.HandleVendorAssignmentList(app))
		se.Router.POST("/api/items/{itemId}/vendor-assignments", handlers.HandleVendorAssignmentCreate(app))
		se.Router.POST("/api/vendor-assignments/{id}/select", handlers.HandleVendorAssignmentSelect(app))
		se.Router.POST("/api/vendor-assignments/{id}/reject", handlers.HandleVendorAssignmentReject(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
