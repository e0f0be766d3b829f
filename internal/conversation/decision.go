package conversation

import (
	"context"
	"errors"

	"github.com/laylabot/leasing-agent/internal/search"
)

// ErrCollaboratorUnavailable indicates the decision collaborator could not
// be reached or errored. The turn is discarded: the caller gets its prior
// state back unchanged.
var ErrCollaboratorUnavailable = errors.New("conversation: decision collaborator unavailable")

// Decision is one step's output from the decision collaborator: either a
// final user-facing message, or one or more action requests.
type Decision struct {
	FinalText string
	Actions   []ActionCall
}

// RequestsActions reports whether the turn should continue through the
// tool dispatcher instead of halting.
func (d Decision) RequestsActions() bool {
	return len(d.Actions) > 0
}

// Decider chooses the next step of a turn. The system prompt is re-rendered
// with the currently known facts before every call. Implementations are the
// only blocking I/O point of a turn besides tool collaborators; they carry
// no internal timeout, callers impose their own through ctx.
type Decider interface {
	Decide(ctx context.Context, messages []Message, systemPrompt string) (Decision, error)
}

// Dispatcher executes requested actions against collaborators, producing
// observations. Implementations must not mutate state: agent-level updates
// (selection capture, search-result retention) happen in the engine after
// dispatch.
type Dispatcher interface {
	Dispatch(ctx context.Context, state *State, call ActionCall) Observation
}

// Action names understood by the tool dispatcher. The decision
// collaborator is prompted with exactly these.
const (
	ActionSearchProperties   = "search_properties"
	ActionGetPropertyDetails = "get_property_details"
	ActionCheckAvailability  = "check_availability"
	ActionGetTourSlots       = "get_tour_slots"
	ActionBookTourSmart      = "book_tour_smart"
	ActionSyncToCRM          = "sync_to_crm"
)

// Observation is the outcome of one dispatched action.
type Observation struct {
	CallID string
	Name   string
	Text   string

	// Status is the dispatch outcome: "ok", "rejected" (validation
	// refused), "error" (collaborator failure) or "unknown_action".
	Status string

	// SearchResults carries the typed hits of a search action so the
	// engine can retain them for later "the first one" references.
	SearchResults []search.Summary

	// BookingConfirmed is set when the smart booking action committed a
	// reservation this call.
	BookingConfirmed bool
}
