// Package wizard drives the customer feedback flow: rating selection, a
// detail step branched on sentiment, submission, and a terminal thanks
// screen. The state machine is a pure transition function over an explicit
// state value, so the flow is testable without any UI harness. The
// submission pipeline itself lives in submitter.go.
package wizard

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"savora-backend/internal/errs"
	"savora-backend/internal/models"
)

type Kind int

const (
	RatingSelect Kind = iota
	DetailPositive
	DetailNegative
	Submitting
	ThanksPositive
	ThanksNegative
)

func (k Kind) String() string {
	switch k {
	case RatingSelect:
		return "rating_select"
	case DetailPositive:
		return "detail_positive"
	case DetailNegative:
		return "detail_negative"
	case Submitting:
		return "submitting"
	case ThanksPositive:
		return "thanks_positive"
	case ThanksNegative:
		return "thanks_negative"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Categories is the fixed tag set offered on the negative detail branch.
var Categories = []string{"food", "service", "cleanliness", "wait_time", "billing", "other"}

// Fields holds everything the customer typed. Navigating Back never clears
// them; they ride along on the state value.
type Fields struct {
	Email      string
	Notes      string
	Categories []string
	BillImage  string // upload reference, resolved to a URL at submit time
}

type State struct {
	Kind   Kind
	Rating models.Rating
	Fields Fields
	// Origin is the state that initiated the submit, used to return there on
	// failure. RatingSelect for the top-tier shortcut.
	Origin Kind
	// Notice is a transient user-facing message (cooldown, surfaced errors).
	Notice string
}

func NewState() State {
	return State{Kind: RatingSelect}
}

// Event is the tagged union of things that can happen to the wizard.
type Event interface{ isEvent() }

type SelectRating struct{ Rating models.Rating }
type EditFields struct{ Fields Fields }
type Back struct{}
type Submit struct{}
type SubmitSucceeded struct{}
type SubmitFailed struct{ Err error }

func (SelectRating) isEvent()    {}
func (EditFields) isEvent()      {}
func (Back) isEvent()            {}
func (Submit) isEvent()          {}
func (SubmitSucceeded) isEvent() {}
func (SubmitFailed) isEvent()    {}

// Transition applies an event to a state. It is pure: no I/O, no clock, no
// storage. Validation failures keep the current state and return a tagged
// error; an event that has no edge from the current state is an error too.
func Transition(st State, ev Event) (State, error) {
	switch e := ev.(type) {
	case SelectRating:
		return selectRating(st, e.Rating)
	case EditFields:
		return editFields(st, e.Fields)
	case Back:
		return back(st)
	case Submit:
		return submit(st)
	case SubmitSucceeded:
		if st.Kind != Submitting {
			return st, transitionErr(st, ev)
		}
		st.Notice = ""
		if st.Rating.Negative() {
			st.Kind = ThanksNegative
		} else {
			st.Kind = ThanksPositive
		}
		return st, nil
	case SubmitFailed:
		if st.Kind != Submitting {
			return st, transitionErr(st, ev)
		}
		st.Kind = st.Origin
		if e.Err != nil {
			st.Notice = e.Err.Error()
		}
		return st, nil
	default:
		return st, transitionErr(st, ev)
	}
}

func selectRating(st State, rating models.Rating) (State, error) {
	if st.Kind != RatingSelect {
		return st, transitionErr(st, SelectRating{rating})
	}
	if !rating.Valid() {
		return st, errs.Validation("rating", "rating must be between 1 and 5")
	}

	st.Rating = rating
	st.Notice = ""
	switch {
	case rating.Top():
		// Delighted skips detail collection entirely.
		st.Kind = Submitting
		st.Origin = RatingSelect
	case rating.Negative():
		st.Kind = DetailNegative
	default:
		st.Kind = DetailPositive
	}
	return st, nil
}

func editFields(st State, f Fields) (State, error) {
	if st.Kind != DetailPositive && st.Kind != DetailNegative {
		return st, transitionErr(st, EditFields{f})
	}
	for _, tag := range f.Categories {
		if !slices.Contains(Categories, tag) {
			return st, errs.Validation("categories", fmt.Sprintf("unknown category %q", tag))
		}
	}
	st.Fields = f
	return st, nil
}

func back(st State) (State, error) {
	switch st.Kind {
	case DetailPositive, DetailNegative:
		st.Kind = RatingSelect
		return st, nil
	case ThanksNegative:
		st.Kind = DetailNegative
		return st, nil
	case ThanksPositive:
		if st.Rating.Top() {
			// No detail state was visited on the shortcut path.
			st.Kind = RatingSelect
		} else {
			st.Kind = DetailPositive
		}
		return st, nil
	default:
		// Never from Submitting, never from the initial screen.
		return st, transitionErr(st, Back{})
	}
}

func submit(st State) (State, error) {
	switch st.Kind {
	case DetailPositive:
		// Everything optional on the positive branch, but an email that was
		// entered still has to parse.
		if st.Fields.Email != "" {
			if _, err := mail.ParseAddress(st.Fields.Email); err != nil {
				return st, errs.Validation("email", "email address is not valid")
			}
		}
	case DetailNegative:
		if _, err := mail.ParseAddress(st.Fields.Email); err != nil {
			return st, errs.Validation("email", "a valid email address is required")
		}
		if strings.TrimSpace(st.Fields.Notes) == "" {
			return st, errs.Validation("notes", "please describe what went wrong")
		}
	default:
		return st, transitionErr(st, Submit{})
	}

	st.Origin = st.Kind
	st.Kind = Submitting
	st.Notice = ""
	return st, nil
}

// CallsToAction returns the presentation variant for a positive thanks
// screen. Display-only: the neutral tier gets a single follow-up prompt, the
// two top tiers get the review/social pair. Empty for any other state.
func (st State) CallsToAction() []string {
	if st.Kind != ThanksPositive {
		return nil
	}
	if st.Rating == models.RatingNeutral {
		return []string{"join_loyalty"}
	}
	return []string{"leave_review", "follow_social"}
}

func transitionErr(st State, ev Event) error {
	return fmt.Errorf("wizard: no transition for %T in state %s", ev, st.Kind)
}
