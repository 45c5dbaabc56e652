// Package redemption enforces the one-bill-one-redemption invariant when
// staff redeem an offer against a physical bill.
//
// The advisory CheckClaim lookup is a UX fast path only. Two terminals can
// both see an unclaimed bill within the same window; correctness comes from
// the storage-level unique constraint on the bill identifier, which
// CreateClaim surfaces as a conflict no matter what the pre-check said.
package redemption

import (
	"context"
	"strings"

	"savora-backend/internal/errs"
	"savora-backend/internal/models"
	"savora-backend/internal/offers"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Ledger is the shared claim store. Insert must be atomic claim-if-absent:
// a duplicate bill identifier comes back as a conflict-tagged error.
type Ledger interface {
	Insert(ctx context.Context, claim *models.RedemptionClaim) error
	FindByBillID(ctx context.Context, billID string) (*models.RedemptionClaim, error)
}

type FeedbackFinder interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Feedback, error)
}

type TierSource interface {
	ListOrdered(ctx context.Context) ([]models.OfferTier, error)
}

type Guard struct {
	ledger    Ledger
	feedbacks FeedbackFinder
	tiers     TierSource
}

func NewGuard(ledger Ledger, feedbacks FeedbackFinder, tiers TierSource) *Guard {
	return &Guard{ledger: ledger, feedbacks: feedbacks, tiers: tiers}
}

// NormalizeBillID canonicalizes a staff-entered bill identifier before any
// comparison or write: surrounding whitespace dropped, upper-cased. Leading
// zeros are kept; "0042" and "42" are different receipts.
func NormalizeBillID(billID string) string {
	return strings.ToUpper(strings.TrimSpace(billID))
}

type CheckResult struct {
	Claimed bool
	Claim   *models.RedemptionClaim
}

// CheckClaim reports whether a bill identifier was already redeemed.
// Advisory only; CreateClaim does not trust it.
func (g *Guard) CheckClaim(ctx context.Context, billID string) (CheckResult, error) {
	billID = NormalizeBillID(billID)
	if billID == "" {
		return CheckResult{}, errs.Validation("bill_id", "bill identifier is required")
	}

	claim, err := g.ledger.FindByBillID(ctx, billID)
	if err != nil {
		return CheckResult{}, errs.Transient("failed to look up bill", err)
	}
	if claim == nil {
		return CheckResult{}, nil
	}
	return CheckResult{Claimed: true, Claim: claim}, nil
}

// CreateClaim redeems the offer attached to a feedback record against a
// bill. The claim records the acting staff identity, the redeemed percentage
// recomputed from the persisted rating, and the redemption time. Claims are
// immutable once written.
func (g *Guard) CreateClaim(ctx context.Context, feedbackID bson.ObjectID, billID string, staffID bson.ObjectID) (*models.RedemptionClaim, error) {
	billID = NormalizeBillID(billID)
	if billID == "" {
		return nil, errs.Validation("bill_id", "bill identifier is required")
	}

	feedback, err := g.feedbacks.FindByID(ctx, feedbackID)
	if err != nil {
		return nil, errs.Transient("failed to look up feedback", err)
	}
	if feedback == nil {
		return nil, errs.NotFound("no feedback found for this reference")
	}

	// The percentage written here is permanent: claims are immutable, so a
	// failed tier lookup must abort the redemption rather than durably
	// record a zeroed discount.
	tiers, err := g.tiers.ListOrdered(ctx)
	if err != nil {
		return nil, errs.Transient("failed to load offer tiers", err)
	}
	percent, _ := offers.Resolve(feedback.Rating, tiers)

	claim := &models.RedemptionClaim{
		BillID:     billID,
		FeedbackID: feedback.ID,
		StaffID:    staffID,
		Percent:    percent,
	}
	if err := g.ledger.Insert(ctx, claim); err != nil {
		if errs.Is(err, errs.KindConflict) {
			return nil, err
		}
		return nil, errs.Transient("failed to record redemption", err)
	}
	return claim, nil
}
