package wizard

import (
	"context"
	"fmt"
	"log"

	"savora-backend/internal/errs"
	"savora-backend/internal/models"
	"savora-backend/internal/offers"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Collaborator interfaces, defined here so the pipeline owns its own
// contracts and tests can fake every step.

type FeedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
}

type TierSource interface {
	ListOrdered(ctx context.Context) ([]models.OfferTier, error)
}

type CooldownGuard interface {
	IsBlocked(key string) bool
	Record(key string)
}

type Compressor interface {
	Compress(data []byte, maxBytes int) ([]byte, error)
}

type BlobStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Outcome is what the terminal thanks screen shows: the persisted record and
// the offer derived from its rating.
type Outcome struct {
	Feedback     *models.Feedback
	OfferPercent int
	OfferGranted bool
}

// Submitter runs the submission pipeline for a wizard in the Submitting
// state. Steps are strictly sequential; no step starts before the previous
// one resolved. Nothing is retried: every failure transitions back to the
// originating state with the error surfaced, and the customer re-triggers.
type Submitter struct {
	Cooldown      CooldownGuard
	Compressor    Compressor
	Blobs         BlobStore
	Feedbacks     FeedbackStore
	Tiers         TierSource
	MaxImageBytes int
}

// Submit executes, in order: cooldown check, bill-image requirement check,
// image compression, blob upload, persistence, offer resolution, cooldown
// recording. The returned state is the next wizard state (a thanks screen on
// success, the originating detail state on failure).
func (s *Submitter) Submit(ctx context.Context, deviceKey string, st State, tableID bson.ObjectID, image []byte, imageType string) (State, *Outcome, error) {
	if st.Kind != Submitting {
		return st, nil, fmt.Errorf("wizard: submit called in state %s", st.Kind)
	}

	// Cooldown first: when blocked, no collaborator is contacted at all.
	if s.Cooldown.IsBlocked(deviceKey) {
		return s.fail(st, errs.Cooldown("you have already submitted feedback just now, please wait a moment"))
	}

	// Bill image is mandatory only on the negative branch.
	if st.Rating.Negative() && len(image) == 0 {
		return s.fail(st, errs.Validation("bill_image", "a photo of your bill is required"))
	}

	billURL := ""
	if len(image) > 0 {
		compressed, err := s.Compressor.Compress(image, s.MaxImageBytes)
		if err != nil {
			return s.fail(st, errs.Transient("failed to process bill image", err))
		}
		billURL, err = s.Blobs.Put(ctx, "bills/"+bson.NewObjectID().Hex(), imageType, compressed)
		if err != nil {
			return s.fail(st, errs.Transient("failed to upload bill image", err))
		}
	}

	feedback := &models.Feedback{
		TableID:      tableID,
		Rating:       st.Rating,
		Email:        st.Fields.Email,
		Notes:        st.Fields.Notes,
		Categories:   st.Fields.Categories,
		BillImageURL: billURL,
	}
	if err := s.Feedbacks.Create(ctx, feedback); err != nil {
		return s.fail(st, errs.Transient("failed to save feedback", err))
	}

	// From here the submission is durable. Offer resolution is derived data;
	// if the tier lookup fails the thanks screen simply shows no offer, and
	// the staff verify flow recomputes it later from the same rating.
	outcome := &Outcome{Feedback: feedback}
	tiers, err := s.Tiers.ListOrdered(ctx)
	if err != nil {
		log.Printf("Error loading offer tiers after submit: %v", err)
	} else {
		outcome.OfferPercent, outcome.OfferGranted = offers.Resolve(feedback.Rating, tiers)
	}

	s.Cooldown.Record(deviceKey)

	next, terr := Transition(st, SubmitSucceeded{})
	if terr != nil {
		return st, outcome, terr
	}
	return next, outcome, nil
}

func (s *Submitter) fail(st State, cause error) (State, *Outcome, error) {
	next, terr := Transition(st, SubmitFailed{Err: cause})
	if terr != nil {
		return st, nil, terr
	}
	return next, nil, cause
}
