// Package tools executes the actions the decision collaborator can request:
// property search, detail lookup, tour slot queries, smart tour booking and
// CRM sync. The dispatcher reads conversation state but never writes it.
package tools

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/laylabot/leasing-agent/internal/booking"
	"github.com/laylabot/leasing-agent/internal/conversation"
	"github.com/laylabot/leasing-agent/internal/crm"
	"github.com/laylabot/leasing-agent/internal/search"
	"github.com/laylabot/leasing-agent/pkg/logging"
)

var toolsTracer = otel.Tracer("layla.internal.tools")

const (
	defaultSearchLimit    = 5
	defaultScoreThreshold = 0.3
	leadSource            = "layla_agent"
)

// Index is the property catalog surface the dispatcher needs.
type Index interface {
	search.Searcher
	search.DetailFetcher
}

// Dispatcher routes action calls to their collaborators.
type Dispatcher struct {
	index       Index
	slots       *booking.Store
	validator   *booking.SmartValidator
	leads       crm.Repository
	logger      *logging.Logger
	searchLimit int
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithSearchLimit overrides how many hits a search action returns.
func WithSearchLimit(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.searchLimit = n
		}
	}
}

// NewDispatcher wires the action dispatcher.
func NewDispatcher(index Index, slots *booking.Store, validator *booking.SmartValidator, leads crm.Repository, logger *logging.Logger, opts ...Option) *Dispatcher {
	if index == nil {
		panic("tools: property index required")
	}
	if slots == nil {
		panic("tools: slot store required")
	}
	if validator == nil {
		panic("tools: booking validator required")
	}
	if leads == nil {
		panic("tools: lead repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	d := &Dispatcher{
		index:       index,
		slots:       slots,
		validator:   validator,
		leads:       leads,
		logger:      logger,
		searchLimit: defaultSearchLimit,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var _ conversation.Dispatcher = (*Dispatcher)(nil)

// Dispatch runs one action call and returns its observation. Failures are
// reported inside the observation so the decision collaborator can recover
// in-conversation instead of aborting the turn.
func (d *Dispatcher) Dispatch(ctx context.Context, state *conversation.State, call conversation.ActionCall) conversation.Observation {
	ctx, span := toolsTracer.Start(ctx, "tools.dispatch")
	span.SetAttributes(attribute.String("layla.action", call.Name))
	defer span.End()

	obs := conversation.Observation{CallID: call.ID, Name: call.Name}

	switch call.Name {
	case conversation.ActionSearchProperties:
		d.searchProperties(ctx, call, &obs)
	case conversation.ActionGetPropertyDetails:
		d.propertyDetails(ctx, state, call, &obs)
	case conversation.ActionCheckAvailability:
		d.checkAvailability(state, call, &obs)
	case conversation.ActionGetTourSlots:
		d.tourSlots(state, call, &obs)
	case conversation.ActionBookTourSmart:
		d.bookTour(ctx, state, &obs)
	case conversation.ActionSyncToCRM:
		d.syncToCRM(ctx, state, &obs)
	default:
		d.logger.Warn("unknown action requested", "action", call.Name)
		obs.Status = "unknown_action"
		obs.Text = fmt.Sprintf("Unknown action: %s", call.Name)
	}

	if obs.Status == "" {
		obs.Status = "ok"
	}
	return obs
}
