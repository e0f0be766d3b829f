package conversation

import (
	"github.com/laylabot/leasing-agent/internal/extract"
	"github.com/laylabot/leasing-agent/internal/search"
)

// WorkflowStage tracks where the customer is in the leasing funnel.
type WorkflowStage string

const (
	StageSearching WorkflowStage = "searching"
	StageViewing   WorkflowStage = "viewing"
	StageBooking   WorkflowStage = "booking"
	StageCompleted WorkflowStage = "completed"
)

// Message roles. The message log is append-only and its order is the
// source of truth for reference resolution ("the first one").
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleAction    = "action"
)

// ActionCall is a request from the decision collaborator to run a tool.
type ActionCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// Message is one entry in the conversation log: a user utterance, an
// assistant reply (possibly requesting actions), or an action result.
type Message struct {
	Role             string       `json:"role"`
	Content          string       `json:"content"`
	RequestedActions []ActionCall `json:"requested_actions,omitempty"`
	ActionCallID     string       `json:"action_call_id,omitempty"`
}

// UserMessage builds a user log entry.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// AgentMessage builds an assistant log entry.
func AgentMessage(text string, actions []ActionCall) Message {
	return Message{Role: RoleAssistant, Content: text, RequestedActions: actions}
}

// ActionResult builds a tool observation log entry.
func ActionResult(callID, text string) Message {
	return Message{Role: RoleAction, Content: text, ActionCallID: callID}
}

// LeadInfo is the customer contact facts gathered so far.
type LeadInfo struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// TourDetails is the booking facts gathered so far.
type TourDetails struct {
	PropertyID string `json:"property_id,omitempty"`
	Date       string `json:"date,omitempty"`
	Time       string `json:"time,omitempty"`
}

// SelectedProperty is the listing the customer is currently viewing.
type SelectedProperty struct {
	PropertyID string `json:"property_id"`
}

// State is the full conversation context. It is owned by the caller
// between turns and round-trips unchanged through JSON serialization.
// Fields merge per turn: a previously known non-empty fact is never
// discarded unless a turn supplies a validated replacement for that
// exact field.
type State struct {
	Messages         []Message         `json:"messages"`
	LeadInfo         LeadInfo          `json:"lead_info"`
	SelectedProperty *SelectedProperty `json:"selected_property,omitempty"`
	SearchResults    []search.Summary  `json:"search_results,omitempty"`
	TourDetails      TourDetails       `json:"tour_details"`
	WorkflowStage    WorkflowStage     `json:"workflow_stage"`
}

// NewState creates the empty state for a first turn.
func NewState() *State {
	return &State{WorkflowStage: StageSearching}
}

// Clone deep-copies the state so a failed turn never leaks partial
// updates into the caller's copy.
func (s *State) Clone() *State {
	if s == nil {
		return NewState()
	}
	out := &State{
		LeadInfo:      s.LeadInfo,
		TourDetails:   s.TourDetails,
		WorkflowStage: s.WorkflowStage,
	}
	if out.WorkflowStage == "" {
		out.WorkflowStage = StageSearching
	}
	if s.SelectedProperty != nil {
		sel := *s.SelectedProperty
		out.SelectedProperty = &sel
	}
	if s.SearchResults != nil {
		out.SearchResults = append([]search.Summary(nil), s.SearchResults...)
	}
	for _, msg := range s.Messages {
		m := msg
		if msg.RequestedActions != nil {
			m.RequestedActions = make([]ActionCall, len(msg.RequestedActions))
			for i, call := range msg.RequestedActions {
				c := call
				if call.Args != nil {
					c.Args = make(map[string]any, len(call.Args))
					for k, v := range call.Args {
						c.Args[k] = v
					}
				}
				m.RequestedActions[i] = c
			}
		}
		out.Messages = append(out.Messages, m)
	}
	return out
}

// TourPropertyID resolves the property the tour facts refer to: the tour
// details when set, otherwise the current selection.
func (s *State) TourPropertyID() string {
	if s.TourDetails.PropertyID != "" {
		return s.TourDetails.PropertyID
	}
	if s.SelectedProperty != nil {
		return s.SelectedProperty.PropertyID
	}
	return ""
}

// Facts projects the state into the extractor's fact set.
func (s *State) Facts() extract.Facts {
	return extract.Facts{
		Name:  s.LeadInfo.Name,
		Phone: s.LeadInfo.Phone,
		Email: s.LeadInfo.Email,
		Date:  s.TourDetails.Date,
		Time:  s.TourDetails.Time,
	}
}

// ApplyFacts writes an updated fact set back into the state, then copies
// the selected property into the tour details if that is still open.
func (s *State) ApplyFacts(f extract.Facts) {
	s.LeadInfo.Name = f.Name
	s.LeadInfo.Phone = f.Phone
	s.LeadInfo.Email = f.Email
	s.TourDetails.Date = f.Date
	s.TourDetails.Time = f.Time
	if s.TourDetails.PropertyID == "" && s.SelectedProperty != nil {
		s.TourDetails.PropertyID = s.SelectedProperty.PropertyID
	}
}

// LastMessage returns the newest log entry, or nil for an empty log.
func (s *State) LastMessage() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return &s.Messages[len(s.Messages)-1]
}
