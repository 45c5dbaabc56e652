package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"savora-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// TableStore is the provisioning surface the handler needs. Deactivation is
// how a printed QR code is retired without deleting the table's history.
type TableStore interface {
	Create(ctx context.Context, table *models.Table) error
	List(ctx context.Context) ([]models.Table, error)
	SetActive(ctx context.Context, id bson.ObjectID, active bool) error
}

type TableHandler struct {
	tables TableStore
}

func NewTableHandler(tables TableStore) *TableHandler {
	return &TableHandler{tables: tables}
}

type CreateTableRequest struct {
	Number   string `json:"number"`
	Location string `json:"location"`
}

type UpdateTableRequest struct {
	Active *bool `json:"active"`
}

// --- POST /tables ---

// CreateTable provisions a table and mints its QR token. The token is what
// ends up inside the printed code; printing itself happens elsewhere.
func (h *TableHandler) CreateTable(w http.ResponseWriter, r *http.Request) {
	var req CreateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Number) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "table number is required"})
		return
	}

	table := &models.Table{
		Token:    uuid.New().String(),
		Number:   strings.TrimSpace(req.Number),
		Location: strings.TrimSpace(req.Location),
		Active:   true,
	}
	if err := h.tables.Create(r.Context(), table); err != nil {
		log.Printf("Error creating table: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create table"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "table created",
		"table":   table,
	})
}

// --- GET /tables ---

func (h *TableHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.tables.List(r.Context())
	if err != nil {
		log.Printf("Error listing tables: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tables": tables})
}

// --- PATCH /tables/{id} ---

// UpdateTable activates or deactivates a table. A deactivated table's token
// keeps failing validation, so its printed QR code dead-ends at the denial
// screen.
func (h *TableHandler) UpdateTable(w http.ResponseWriter, r *http.Request) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return
	}

	var req UpdateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Active == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "nothing to update"})
		return
	}

	if err := h.tables.SetActive(r.Context(), id, *req.Active); err != nil {
		log.Printf("Error updating table: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update table"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "table updated"})
}
