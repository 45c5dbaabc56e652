package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"savora-backend/internal/models"
	"savora-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type OfferTierHandler struct {
	tierRepo *repository.OfferTierRepo
}

func NewOfferTierHandler(tierRepo *repository.OfferTierRepo) *OfferTierHandler {
	return &OfferTierHandler{tierRepo: tierRepo}
}

type CreateTierRequest struct {
	Label     string `json:"label"`
	MinRating int    `json:"min_rating"`
	Percent   int    `json:"percent"`
	Active    bool   `json:"active"`
	Priority  int    `json:"priority"`
}

type UpdateTierRequest struct {
	Percent  *int  `json:"percent"`
	Active   *bool `json:"active"`
	Priority *int  `json:"priority"`
}

// --- GET /offer-tiers ---

func (h *OfferTierHandler) ListTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.tierRepo.ListOrdered(r.Context())
	if err != nil {
		log.Printf("Error listing offer tiers: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tiers": tiers})
}

// --- POST /offer-tiers ---

func (h *OfferTierHandler) CreateTier(w http.ResponseWriter, r *http.Request) {
	var req CreateTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Percent < 0 || req.Percent > 100 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "percent must be between 0 and 100"})
		return
	}

	tier := &models.OfferTier{
		Label:     req.Label,
		MinRating: models.Rating(req.MinRating),
		Percent:   req.Percent,
		Active:    req.Active,
		Priority:  req.Priority,
	}
	if err := h.tierRepo.Create(r.Context(), tier); err != nil {
		log.Printf("Error creating offer tier: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create offer tier"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "offer tier created",
		"tier":    tier,
	})
}

// --- PATCH /offer-tiers/{id} ---

func (h *OfferTierHandler) UpdateTier(w http.ResponseWriter, r *http.Request) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tier ID"})
		return
	}

	var req UpdateTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	fields := bson.M{}
	if req.Percent != nil {
		if *req.Percent < 0 || *req.Percent > 100 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "percent must be between 0 and 100"})
			return
		}
		fields["percent"] = *req.Percent
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	if req.Priority != nil {
		fields["priority"] = *req.Priority
	}
	if len(fields) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "nothing to update"})
		return
	}

	if err := h.tierRepo.Update(r.Context(), id, fields); err != nil {
		log.Printf("Error updating offer tier: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update offer tier"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "offer tier updated"})
}
