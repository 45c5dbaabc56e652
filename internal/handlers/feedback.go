package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"savora-backend/internal/errs"
	"savora-backend/internal/models"
	"savora-backend/internal/notify"
	"savora-backend/internal/tables"
	"savora-backend/internal/wizard"
)

type FeedbackHandler struct {
	validator *tables.Validator
	submitter *wizard.Submitter
	notifier  notify.Notifier
}

func NewFeedbackHandler(validator *tables.Validator, submitter *wizard.Submitter, notifier notify.Notifier) *FeedbackHandler {
	return &FeedbackHandler{
		validator: validator,
		submitter: submitter,
		notifier:  notifier,
	}
}

type SubmitFeedbackRequest struct {
	TableToken    string   `json:"table_token"`
	DeviceKey     string   `json:"device_key"`
	Rating        int      `json:"rating"`
	Email         string   `json:"email"`
	Notes         string   `json:"notes"`
	Categories    []string `json:"categories"`
	BillImage     string   `json:"bill_image"` // base64
	BillImageType string   `json:"bill_image_type"`
}

type SubmitFeedbackResponse struct {
	State         string           `json:"state"`
	Feedback      *models.Feedback `json:"feedback,omitempty"`
	OfferPercent  int              `json:"offer_percent,omitempty"`
	OfferGranted  bool             `json:"offer_granted"`
	CallsToAction []string         `json:"calls_to_action,omitempty"`
}

// --- POST /feedback ---

// SubmitFeedback replays the whole wizard server-side: table gate, rating
// routing, detail validation, then the submission pipeline. A client that
// skipped a required step trips the same transition errors the UI enforces.
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	status, table := h.validator.Validate(r.Context(), req.TableToken)
	if status != tables.StatusValid {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"status": status.String(),
			"error":  "this QR code is not active, please ask your server",
		})
		return
	}

	if strings.TrimSpace(req.DeviceKey) == "" {
		writeWizardError(w, wizard.State{}, errs.Validation("device_key", "device key is required"))
		return
	}

	st, err := wizard.Transition(wizard.NewState(), wizard.SelectRating{Rating: models.Rating(req.Rating)})
	if err != nil {
		writeWizardError(w, st, err)
		return
	}

	// The top tier goes straight to submission; every other tier passes
	// through its detail step.
	if st.Kind == wizard.DetailPositive || st.Kind == wizard.DetailNegative {
		fields := wizard.Fields{
			Email:      req.Email,
			Notes:      req.Notes,
			Categories: req.Categories,
		}
		if req.BillImage != "" {
			fields.BillImage = "attached"
		}
		st, err = wizard.Transition(st, wizard.EditFields{Fields: fields})
		if err != nil {
			writeWizardError(w, st, err)
			return
		}
		st, err = wizard.Transition(st, wizard.Submit{})
		if err != nil {
			writeWizardError(w, st, err)
			return
		}
	}

	var image []byte
	if req.BillImage != "" {
		image, err = base64.StdEncoding.DecodeString(req.BillImage)
		if err != nil {
			writeWizardError(w, st, errs.Validation("bill_image", "bill image is not valid base64"))
			return
		}
	}

	next, outcome, err := h.submitter.Submit(r.Context(), req.DeviceKey, st, table.ID, image, req.BillImageType)
	if err != nil {
		writeWizardError(w, next, err)
		return
	}

	// Alert the staff channel about negative experiences in a background
	// goroutine (non-blocking, best-effort).
	if outcome.Feedback.Rating.Negative() {
		go func(fb *models.Feedback, tableNumber string) {
			if err := h.notifier.Publish(context.Background(), formatAlert(fb, tableNumber)); err != nil {
				log.Printf("Error publishing staff alert: %v", err)
			}
		}(outcome.Feedback, table.Number)
	}

	writeJSON(w, http.StatusCreated, SubmitFeedbackResponse{
		State:         next.Kind.String(),
		Feedback:      outcome.Feedback,
		OfferPercent:  outcome.OfferPercent,
		OfferGranted:  outcome.OfferGranted,
		CallsToAction: next.CallsToAction(),
	})
}

func formatAlert(fb *models.Feedback, tableNumber string) string {
	return fmt.Sprintf("🚨 *Negative feedback at table %s*\nRating: %d/5\nCategories: %s\nNotes: %s",
		tableNumber, fb.Rating, strings.Join(fb.Categories, ", "), fb.Notes)
}

// writeWizardError maps a tagged error to a status code and tells the client
// which state the wizard is in afterwards, so it can re-render the right
// screen with the message inline.
func writeWizardError(w http.ResponseWriter, st wizard.State, err error) {
	body := map[string]interface{}{
		"state": st.Kind.String(),
		"error": err.Error(),
	}
	var e *errs.Error
	if errors.As(err, &e) && e.Field != "" {
		body["field"] = e.Field
	}
	writeJSON(w, errs.HTTPStatus(err), body)
}
