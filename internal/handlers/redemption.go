package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"savora-backend/internal/errs"
	"savora-backend/internal/middleware"
	"savora-backend/internal/models"
	"savora-backend/internal/offers"
	"savora-backend/internal/redemption"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type RedemptionHandler struct {
	guard     *redemption.Guard
	feedbacks redemption.FeedbackFinder
	tiers     redemption.TierSource
	ledger    ClaimLookup
}

// ClaimLookup is the read side of the redemption ledger the verify screen
// needs on top of the guard.
type ClaimLookup interface {
	FindByFeedbackID(ctx context.Context, feedbackID bson.ObjectID) (*models.RedemptionClaim, error)
}

func NewRedemptionHandler(guard *redemption.Guard, feedbacks redemption.FeedbackFinder, tiers redemption.TierSource, ledger ClaimLookup) *RedemptionHandler {
	return &RedemptionHandler{guard: guard, feedbacks: feedbacks, tiers: tiers, ledger: ledger}
}

type CreateClaimRequest struct {
	FeedbackID string `json:"feedback_id"`
	BillID     string `json:"bill_id"`
}

// --- GET /redemptions/check?bill=<id> ---

func (h *RedemptionHandler) CheckClaim(w http.ResponseWriter, r *http.Request) {
	res, err := h.guard.CheckClaim(r.Context(), r.URL.Query().Get("bill"))
	if err != nil {
		writeClaimError(w, err)
		return
	}

	body := map[string]interface{}{"claimed": res.Claimed}
	if res.Claimed {
		body["status"] = "already_redeemed"
		body["claim"] = res.Claim
	}
	writeJSON(w, http.StatusOK, body)
}

// --- POST /redemptions ---

func (h *RedemptionHandler) CreateClaim(w http.ResponseWriter, r *http.Request) {
	staffIDHex := middleware.GetStaffID(r.Context())
	if staffIDHex == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	staffID, err := bson.ObjectIDFromHex(staffIDHex)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid staff ID"})
		return
	}

	var req CreateClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	feedbackID, err := bson.ObjectIDFromHex(req.FeedbackID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid feedback reference"})
		return
	}

	claim, err := h.guard.CreateClaim(r.Context(), feedbackID, req.BillID, staffID)
	if err != nil {
		log.Printf("Error creating claim: %v", err)
		writeClaimError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "offer redeemed",
		"claim":   claim,
	})
}

// --- GET /verify?fid=<id> ---

// Verify backs the staff-side voucher scan: the deep link embeds a feedback
// reference, and the console shows the rating, the derived offer, and
// whether the offer was already consumed.
func (h *RedemptionHandler) Verify(w http.ResponseWriter, r *http.Request) {
	fid := r.URL.Query().Get("fid")
	feedbackID, err := bson.ObjectIDFromHex(fid)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid feedback reference"})
		return
	}

	feedback, err := h.feedbacks.FindByID(r.Context(), feedbackID)
	if err != nil {
		log.Printf("Error finding feedback: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if feedback == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no feedback found"})
		return
	}

	percent, granted := 0, false
	if tiers, err := h.tiers.ListOrdered(r.Context()); err == nil {
		percent, granted = offers.Resolve(feedback.Rating, tiers)
	}

	claim, err := h.ledger.FindByFeedbackID(r.Context(), feedbackID)
	if err != nil {
		log.Printf("Error finding claim: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	body := map[string]interface{}{
		"feedback":      feedback,
		"offer_percent": percent,
		"offer_granted": granted,
		"redeemed":      claim != nil,
	}
	if claim != nil {
		body["status"] = "already_redeemed"
		body["claim"] = claim
	}
	writeJSON(w, http.StatusOK, body)
}

// writeClaimError renders conflicts as the Already Redeemed badge rather
// than a bare error.
func writeClaimError(w http.ResponseWriter, err error) {
	body := map[string]interface{}{"error": err.Error()}
	if errs.Is(err, errs.KindConflict) {
		body["status"] = "already_redeemed"
	}
	writeJSON(w, errs.HTTPStatus(err), body)
}
