package wizard

import (
	"context"
	"errors"
	"testing"

	"savora-backend/internal/cooldown"
	"savora-backend/internal/errs"
	"savora-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type fakeCooldown struct {
	blocked  bool
	recorded []string
	calls    *[]string
}

func (f *fakeCooldown) IsBlocked(string) bool { return f.blocked }
func (f *fakeCooldown) Record(key string) {
	f.recorded = append(f.recorded, key)
	*f.calls = append(*f.calls, "record")
}

type fakeCompressor struct {
	err   error
	calls *[]string
}

func (f *fakeCompressor) Compress(data []byte, _ int) ([]byte, error) {
	*f.calls = append(*f.calls, "compress")
	return data, f.err
}

type fakeBlobs struct {
	err   error
	calls *[]string
}

func (f *fakeBlobs) Put(_ context.Context, _, _ string, _ []byte) (string, error) {
	*f.calls = append(*f.calls, "put")
	if f.err != nil {
		return "", f.err
	}
	return "https://blobs.local/bill.jpg", nil
}

type fakeFeedbacks struct {
	err     error
	created []*models.Feedback
	calls   *[]string
}

func (f *fakeFeedbacks) Create(_ context.Context, fb *models.Feedback) error {
	*f.calls = append(*f.calls, "persist")
	if f.err != nil {
		return f.err
	}
	fb.ID = bson.NewObjectID()
	f.created = append(f.created, fb)
	return nil
}

type fakeTiers struct {
	tiers []models.OfferTier
	err   error
	calls *[]string
}

func (f *fakeTiers) ListOrdered(context.Context) ([]models.OfferTier, error) {
	*f.calls = append(*f.calls, "tiers")
	return f.tiers, f.err
}

type harness struct {
	calls     []string
	cooldown  *fakeCooldown
	feedbacks *fakeFeedbacks
	sub       *Submitter
}

func newHarness() *harness {
	h := &harness{}
	h.cooldown = &fakeCooldown{calls: &h.calls}
	h.feedbacks = &fakeFeedbacks{calls: &h.calls}
	h.sub = &Submitter{
		Cooldown:   h.cooldown,
		Compressor: &fakeCompressor{calls: &h.calls},
		Blobs:      &fakeBlobs{calls: &h.calls},
		Feedbacks:  h.feedbacks,
		Tiers: &fakeTiers{calls: &h.calls, tiers: []models.OfferTier{
			{MinRating: 5, Percent: 15, Active: true},
			{MinRating: 4, Percent: 10, Active: true},
			{MinRating: 3, Percent: 5, Active: true},
		}},
		MaxImageBytes: 1 << 20,
	}
	return h
}

func negativeSubmitting(t *testing.T) State {
	t.Helper()
	st, err := Transition(NewState(), SelectRating{models.RatingUnhappy})
	require.NoError(t, err)
	st, err = Transition(st, EditFields{Fields{Email: "a@b.com", Notes: "cold food", Categories: []string{"food"}}})
	require.NoError(t, err)
	st, err = Transition(st, Submit{})
	require.NoError(t, err)
	return st
}

func TestSubmitNegativeHappyPath(t *testing.T) {
	h := newHarness()
	tableID := bson.NewObjectID()
	image := []byte{0xff, 0xd8, 0xff}

	next, outcome, err := h.sub.Submit(context.Background(), "device-1", negativeSubmitting(t), tableID, image, "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, ThanksNegative, next.Kind)
	require.NotNil(t, outcome)
	require.Len(t, h.feedbacks.created, 1)
	fb := h.feedbacks.created[0]
	assert.Equal(t, models.RatingUnhappy, fb.Rating)
	assert.Equal(t, tableID, fb.TableID)
	assert.Equal(t, "https://blobs.local/bill.jpg", fb.BillImageURL)
	assert.False(t, outcome.OfferGranted, "rating 2 earns no offer under this config")

	// Strict sequencing: compress -> upload -> persist -> resolve -> record.
	assert.Equal(t, []string{"compress", "put", "persist", "tiers", "record"}, h.calls)
	assert.Equal(t, []string{"device-1"}, h.cooldown.recorded)
}

func TestSubmitTopTierGrantsOffer(t *testing.T) {
	h := newHarness()
	st, err := Transition(NewState(), SelectRating{models.RatingDelighted})
	require.NoError(t, err)

	next, outcome, err := h.sub.Submit(context.Background(), "device-1", st, bson.NewObjectID(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, ThanksPositive, next.Kind)
	assert.True(t, outcome.OfferGranted)
	assert.Equal(t, 15, outcome.OfferPercent)
	// No image on this path: no compression, no upload.
	assert.Equal(t, []string{"persist", "tiers", "record"}, h.calls)
}

func TestSubmitBlockedByCooldown(t *testing.T) {
	h := newHarness()
	h.cooldown.blocked = true

	next, outcome, err := h.sub.Submit(context.Background(), "device-1", negativeSubmitting(t), bson.NewObjectID(), []byte{1}, "image/jpeg")
	assert.True(t, errs.Is(err, errs.KindCooldown))
	assert.Nil(t, outcome)
	assert.Equal(t, DetailNegative, next.Kind, "returns to originating detail state")
	assert.Empty(t, h.calls, "no collaborator contacted while blocked")
}

func TestSubmitNegativeWithoutBillRejected(t *testing.T) {
	h := newHarness()

	next, outcome, err := h.sub.Submit(context.Background(), "device-1", negativeSubmitting(t), bson.NewObjectID(), nil, "")
	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.KindValidation, e.Kind)
	assert.Equal(t, "bill_image", e.Field)
	assert.Nil(t, outcome)
	assert.Equal(t, DetailNegative, next.Kind)
	assert.Empty(t, h.calls, "no persistence call was made")
}

func TestSubmitCompressionFailure(t *testing.T) {
	h := newHarness()
	h.sub.Compressor = &fakeCompressor{calls: &h.calls, err: errors.New("corrupt jpeg")}

	next, _, err := h.sub.Submit(context.Background(), "device-1", negativeSubmitting(t), bson.NewObjectID(), []byte{1}, "image/jpeg")
	assert.True(t, errs.Is(err, errs.KindTransient))
	assert.Contains(t, err.Error(), "corrupt jpeg", "cause surfaced verbatim")
	assert.Equal(t, DetailNegative, next.Kind)
	assert.Equal(t, []string{"compress"}, h.calls, "pipeline stops at the failed step")
	assert.Empty(t, h.cooldown.recorded, "cooldown not recorded on failure")
}

func TestSubmitPersistFailure(t *testing.T) {
	h := newHarness()
	h.feedbacks.err = errors.New("write timeout")

	next, _, err := h.sub.Submit(context.Background(), "device-1", negativeSubmitting(t), bson.NewObjectID(), []byte{1}, "image/jpeg")
	assert.True(t, errs.Is(err, errs.KindTransient))
	assert.Equal(t, DetailNegative, next.Kind)
	assert.Equal(t, []string{"compress", "put", "persist"}, h.calls)
	assert.Empty(t, h.cooldown.recorded)
}

func TestSubmitTierLookupFailureStillSucceeds(t *testing.T) {
	h := newHarness()
	h.sub.Tiers = &fakeTiers{calls: &h.calls, err: errors.New("down")}
	st, err := Transition(NewState(), SelectRating{models.RatingDelighted})
	require.NoError(t, err)

	next, outcome, err := h.sub.Submit(context.Background(), "device-1", st, bson.NewObjectID(), nil, "")
	require.NoError(t, err, "submission is durable once persisted")
	assert.Equal(t, ThanksPositive, next.Kind)
	assert.False(t, outcome.OfferGranted)
	assert.Equal(t, []string{"persist", "tiers", "record"}, h.calls)
}

func TestSubmitRequiresSubmittingState(t *testing.T) {
	h := newHarness()
	_, _, err := h.sub.Submit(context.Background(), "device-1", NewState(), bson.NewObjectID(), nil, "")
	assert.Error(t, err)
}

// The production guard satisfies the pipeline's interface.
var _ CooldownGuard = (*cooldown.Guard)(nil)
