package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"savora-backend/internal/blobs"
	"savora-backend/internal/cooldown"
	"savora-backend/internal/models"
	"savora-backend/internal/notify"
	"savora-backend/internal/tables"
	"savora-backend/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type memTables struct{ byToken map[string]*models.Table }

func (m *memTables) FindByToken(_ context.Context, token string) (*models.Table, error) {
	return m.byToken[token], nil
}

type memFeedbacks struct{ created []*models.Feedback }

func (m *memFeedbacks) Create(_ context.Context, fb *models.Feedback) error {
	fb.ID = bson.NewObjectID()
	m.created = append(m.created, fb)
	return nil
}

type memTiers struct{ tiers []models.OfferTier }

func (m *memTiers) ListOrdered(context.Context) ([]models.OfferTier, error) {
	return m.tiers, nil
}

func newFeedbackHandler(t *testing.T) (*FeedbackHandler, *memFeedbacks) {
	t.Helper()
	activeTable := &models.Table{ID: bson.NewObjectID(), Token: "tok-5", Number: "5", Active: true}
	inactiveTable := &models.Table{ID: bson.NewObjectID(), Token: "7", Number: "7", Active: false}
	validator := tables.NewValidator(&memTables{byToken: map[string]*models.Table{
		"tok-5": activeTable,
		"7":     inactiveTable,
	}})

	feedbacks := &memFeedbacks{}
	submitter := &wizard.Submitter{
		Cooldown:   cooldown.New(cooldown.NewMemoryStore(), cooldown.DefaultWindow),
		Compressor: blobs.PassthroughCompressor{},
		Blobs:      blobs.NewMockStore("https://blobs.test"),
		Feedbacks:  feedbacks,
		Tiers: &memTiers{tiers: []models.OfferTier{
			{MinRating: 5, Percent: 15, Active: true},
			{MinRating: 4, Percent: 10, Active: true},
		}},
		MaxImageBytes: 1 << 20,
	}
	return NewFeedbackHandler(validator, submitter, notify.NewMockNotifier()), feedbacks
}

func postFeedback(t *testing.T, h *FeedbackHandler, req SubmitFeedbackRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPost, "/feedback", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.SubmitFeedback(w, r)
	return w
}

func TestSubmitSecondWorstWithBill(t *testing.T) {
	h, feedbacks := newFeedbackHandler(t)

	w := postFeedback(t, h, SubmitFeedbackRequest{
		TableToken:    "tok-5",
		DeviceKey:     "device-1",
		Rating:        2,
		Email:         "guest@example.com",
		Notes:         "waited forty minutes",
		Categories:    []string{"wait_time"},
		BillImage:     base64.StdEncoding.EncodeToString([]byte("jpeg-bytes")),
		BillImageType: "image/jpeg",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp SubmitFeedbackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "thanks_negative", resp.State)
	assert.False(t, resp.OfferGranted)

	require.Len(t, feedbacks.created, 1)
	fb := feedbacks.created[0]
	assert.Equal(t, models.RatingUnhappy, fb.Rating)
	assert.NotEmpty(t, fb.BillImageURL)
}

func TestSubmitNegativeWithoutBillRejected(t *testing.T) {
	h, feedbacks := newFeedbackHandler(t)

	w := postFeedback(t, h, SubmitFeedbackRequest{
		TableToken: "tok-5",
		DeviceKey:  "device-1",
		Rating:     1,
		Email:      "guest@example.com",
		Notes:      "cold food",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "detail_negative", resp["state"])
	assert.Equal(t, "bill_image", resp["field"])
	assert.Empty(t, feedbacks.created, "nothing persisted")
}

func TestSubmitTopTierSkipsDetail(t *testing.T) {
	h, feedbacks := newFeedbackHandler(t)

	w := postFeedback(t, h, SubmitFeedbackRequest{
		TableToken: "tok-5",
		DeviceKey:  "device-1",
		Rating:     5,
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp SubmitFeedbackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "thanks_positive", resp.State)
	assert.True(t, resp.OfferGranted)
	assert.Equal(t, 15, resp.OfferPercent)
	assert.Equal(t, []string{"leave_review", "follow_social"}, resp.CallsToAction)
	require.Len(t, feedbacks.created, 1)
	assert.Empty(t, feedbacks.created[0].Notes, "no detail step on the shortcut path")
}

func TestSubmitInactiveTableDenied(t *testing.T) {
	h, feedbacks := newFeedbackHandler(t)

	w := postFeedback(t, h, SubmitFeedbackRequest{
		TableToken: "7",
		DeviceKey:  "device-1",
		Rating:     5,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid", resp["status"])
	assert.Empty(t, feedbacks.created)
}

func TestSubmitCooldownBlocksSecondSubmission(t *testing.T) {
	h, feedbacks := newFeedbackHandler(t)

	first := postFeedback(t, h, SubmitFeedbackRequest{
		TableToken: "tok-5", DeviceKey: "device-1", Rating: 5,
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := postFeedback(t, h, SubmitFeedbackRequest{
		TableToken: "tok-5", DeviceKey: "device-1", Rating: 5,
	})
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Len(t, feedbacks.created, 1)

	// A different device is unaffected.
	third := postFeedback(t, h, SubmitFeedbackRequest{
		TableToken: "tok-5", DeviceKey: "device-2", Rating: 5,
	})
	assert.Equal(t, http.StatusCreated, third.Code)
}

func TestEntryEndpoint(t *testing.T) {
	h, _ := newFeedbackHandler(t)
	entry := NewEntryHandler(h.validator)

	w := httptest.NewRecorder()
	entry.Enter(w, httptest.NewRequest(http.MethodGet, "/t?table=tok-5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "valid", resp["status"])

	w = httptest.NewRecorder()
	entry.Enter(w, httptest.NewRequest(http.MethodGet, "/t?table=7", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	entry.Enter(w, httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
