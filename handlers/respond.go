package handlers

import (
	"github.com/pocketbase/pocketbase/core"
)

// apiError writes a uniform JSON error body. All handlers use it so the
// frontend can rely on a single error shape.
func apiError(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, map[string]string{"error": message})
}

// validationError writes field-level validation errors alongside the
// top-level message.
func validationError(e *core.RequestEvent, status int, fields map[string]string) error {
	return e.JSON(status, map[string]any{
		"error":  "Validation failed",
		"fields": fields,
	})
}
