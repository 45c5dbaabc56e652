package handlers

import (
	"net/http"

	"savora-backend/internal/tables"
)

// EntryHandler gates the QR entry URL. The wizard is only reachable behind a
// valid table token; everything else gets a denial payload.
type EntryHandler struct {
	validator *tables.Validator
}

func NewEntryHandler(validator *tables.Validator) *EntryHandler {
	return &EntryHandler{validator: validator}
}

type entryTable struct {
	Number   string `json:"number"`
	Location string `json:"location,omitempty"`
}

// --- GET /t?table=<token> ---

func (h *EntryHandler) Enter(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("table")

	status, table := h.validator.Validate(r.Context(), token)
	if status != tables.StatusValid {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"status": status.String(),
			"error":  "this QR code is not active, please ask your server",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": status.String(),
		"table":  entryTable{Number: table.Number, Location: table.Location},
	})
}
