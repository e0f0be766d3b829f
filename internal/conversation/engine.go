package conversation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/laylabot/leasing-agent/internal/extract"
	"github.com/laylabot/leasing-agent/internal/observability/metrics"
	"github.com/laylabot/leasing-agent/pkg/logging"
)

var engineTracer = otel.Tracer("layla.internal.conversation")

const apologyMessage = "I'm sorry, I'm having trouble responding right now. Please try again in a moment."

// hops guard: a turn that keeps requesting actions is cut off here
const defaultMaxHops = 8

// Engine runs conversation turns: extract facts, ask the decider for the
// next step, dispatch requested actions, and loop until the decider
// produces a final message. A turn either lands all of its updates or none
// of them.
type Engine struct {
	extractor  *extract.Extractor
	decider    Decider
	dispatcher Dispatcher
	logger     *logging.Logger
	metrics    *metrics.ConversationMetrics
	maxHops    int
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithMetrics attaches conversation metrics.
func WithMetrics(m *metrics.ConversationMetrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithMaxHops overrides the per-turn action loop guard.
func WithMaxHops(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxHops = n
		}
	}
}

// WithExtractor overrides the fact extractor, for deterministic test clocks.
func WithExtractor(x *extract.Extractor) EngineOption {
	return func(e *Engine) {
		if x != nil {
			e.extractor = x
		}
	}
}

// NewEngine wires a dialogue engine.
func NewEngine(decider Decider, dispatcher Dispatcher, logger *logging.Logger, opts ...EngineOption) *Engine {
	if decider == nil {
		panic("conversation: decider required")
	}
	if dispatcher == nil {
		panic("conversation: dispatcher required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{
		extractor:  extract.New(),
		decider:    decider,
		dispatcher: dispatcher,
		logger:     logger,
		maxHops:    defaultMaxHops,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessTurn runs one request/response cycle. The prior state is never
// mutated: the returned state is a fresh copy with this turn's updates, or
// the prior state untouched when the decision collaborator fails.
func (e *Engine) ProcessTurn(ctx context.Context, prior *State, utterance string) (*State, string, error) {
	ctx, span := engineTracer.Start(ctx, "conversation.turn")
	defer span.End()
	start := time.Now()

	work := prior.Clone()
	work.Messages = append(work.Messages, UserMessage(utterance))
	work.ApplyFacts(e.extractor.Extract(utterance, work.Facts()))

	for hop := 0; hop < e.maxHops; hop++ {
		decision, err := e.decider.Decide(ctx, work.Messages, SystemPrompt(work))
		if err != nil {
			e.logger.Error("decision collaborator failed", "error", err, "hop", hop)
			e.metrics.ObserveTurn("collaborator_error", time.Since(start))
			span.RecordError(err)
			// Discard everything from this turn; the caller keeps its state.
			return prior, apologyMessage, fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)
		}

		if !decision.RequestsActions() {
			work.Messages = append(work.Messages, AgentMessage(decision.FinalText, nil))
			e.metrics.ObserveTurn("ok", time.Since(start))
			span.SetAttributes(attribute.Int("layla.hops", hop))
			return work, decision.FinalText, nil
		}

		work.Messages = append(work.Messages, AgentMessage(decision.FinalText, decision.Actions))
		e.applyStageUpdates(work, decision.Actions)

		for _, call := range decision.Actions {
			obs := e.dispatcher.Dispatch(ctx, work, call)
			work.Messages = append(work.Messages, ActionResult(obs.CallID, obs.Text))
			e.applyObservation(work, obs)

			// Dispatch loops back through Extract so tool-derived facts
			// are captured before the next Decide.
			work.ApplyFacts(e.extractor.Extract(obs.Text, work.Facts()))
		}
	}

	e.logger.Warn("turn exceeded action hop limit", "max_hops", e.maxHops)
	e.metrics.ObserveTurn("hop_limit", time.Since(start))
	final := "I wasn't able to finish that request. Could you rephrase or try again?"
	work.Messages = append(work.Messages, AgentMessage(final, nil))
	return work, final, nil
}

// applyStageUpdates moves the workflow stage and captures the selected
// property from the decider's action arguments. These are agent-level
// updates, deliberately outside the dispatcher.
func (e *Engine) applyStageUpdates(work *State, calls []ActionCall) {
	for _, call := range calls {
		switch call.Name {
		case ActionSearchProperties:
			work.WorkflowStage = StageSearching
		case ActionGetPropertyDetails:
			work.WorkflowStage = StageViewing
			if id := stringArg(call.Args, "property_id"); id != "" {
				work.SelectedProperty = &SelectedProperty{PropertyID: id}
				if work.TourDetails.PropertyID == "" {
					work.TourDetails.PropertyID = id
				}
			}
		case ActionGetTourSlots, ActionBookTourSmart:
			work.WorkflowStage = StageBooking
		}
	}
}

func (e *Engine) applyObservation(work *State, obs Observation) {
	status := obs.Status
	if status == "" {
		status = "ok"
	}
	e.metrics.ObserveToolCall(obs.Name, status)
	if obs.SearchResults != nil {
		work.SearchResults = obs.SearchResults
	}
	if obs.BookingConfirmed {
		work.WorkflowStage = StageCompleted
		e.metrics.ObserveBooking("confirmed")
	} else if obs.Name == ActionBookTourSmart {
		e.metrics.ObserveBooking(status)
	}
}

func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
