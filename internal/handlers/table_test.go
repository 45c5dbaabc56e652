package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"savora-backend/internal/models"
	"savora-backend/internal/tables"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type memTableStore struct {
	byID map[bson.ObjectID]*models.Table
}

func newMemTableStore() *memTableStore {
	return &memTableStore{byID: make(map[bson.ObjectID]*models.Table)}
}

func (m *memTableStore) Create(_ context.Context, table *models.Table) error {
	table.ID = bson.NewObjectID()
	m.byID[table.ID] = table
	return nil
}

func (m *memTableStore) List(context.Context) ([]models.Table, error) {
	out := make([]models.Table, 0, len(m.byID))
	for _, t := range m.byID {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memTableStore) SetActive(_ context.Context, id bson.ObjectID, active bool) error {
	if t, ok := m.byID[id]; ok {
		t.Active = active
	}
	return nil
}

func (m *memTableStore) FindByToken(_ context.Context, token string) (*models.Table, error) {
	for _, t := range m.byID {
		if t.Token == token {
			return t, nil
		}
	}
	return nil, nil
}

func tableRouter(h *TableHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/tables", h.CreateTable)
	r.Get("/tables", h.ListTables)
	r.Patch("/tables/{id}", h.UpdateTable)
	return r
}

func TestProvisionAndDeactivateTable(t *testing.T) {
	store := newMemTableStore()
	router := tableRouter(NewTableHandler(store))

	// Provision.
	body, _ := json.Marshal(CreateTableRequest{Number: "12", Location: "terrace"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tables", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Table models.Table `json:"table"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Table.Token)
	assert.True(t, created.Table.Active, "new tables start active")

	// The minted token passes validation.
	validator := tables.NewValidator(store)
	status, _ := validator.Validate(context.Background(), created.Table.Token)
	assert.Equal(t, tables.StatusValid, status)

	// Deactivate.
	active := false
	body, _ = json.Marshal(UpdateTableRequest{Active: &active})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/tables/"+created.Table.ID.Hex(), bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The same printed QR token now dead-ends at the denial screen.
	status, table := validator.Validate(context.Background(), created.Table.Token)
	assert.Equal(t, tables.StatusInvalid, status)
	assert.Nil(t, table)
}

func TestUpdateTableValidation(t *testing.T) {
	router := tableRouter(NewTableHandler(newMemTableStore()))

	// Malformed id.
	active := false
	body, _ := json.Marshal(UpdateTableRequest{Active: &active})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/tables/not-an-id", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No fields.
	body, _ = json.Marshal(UpdateTableRequest{})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/tables/"+bson.NewObjectID().Hex(), bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "nothing to update")
}

func TestCreateTableRequiresNumber(t *testing.T) {
	router := tableRouter(NewTableHandler(newMemTableStore()))

	body, _ := json.Marshal(CreateTableRequest{Location: "terrace"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tables", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "table number is required")
}
