package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

const actionProtocol = `
Available actions:
- search_properties: {"query": string, "bedrooms"?: number, "max_price"?: number, "score_threshold"?: number}
- get_property_details: {"property_id": string}
- check_availability: {"property_id": string, "date": string, "time": string}
- get_tour_slots: {"property_id": string}
- book_tour_smart: {}
- sync_to_crm: {}

To invoke an action, reply with ONLY a JSON object:
{"action": "<name>", "args": {...}}

To reply to the customer directly, answer in plain text with no JSON.`

// GeminiDecider asks a Gemini model for the next step of the conversation:
// either a tool action to run or the final reply to send.
type GeminiDecider struct {
	client  *genai.Client
	modelID string
}

// NewGeminiDecider creates a Gemini-backed decider.
func NewGeminiDecider(ctx context.Context, apiKey, modelID string) (*GeminiDecider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("conversation: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to create gemini client: %w", err)
	}

	return &GeminiDecider{
		client:  client,
		modelID: modelID,
	}, nil
}

// Decide sends the transcript to Gemini and interprets the reply as either
// an action request or final customer-facing text.
func (d *GeminiDecider) Decide(ctx context.Context, messages []Message, systemPrompt string) (Decision, error) {
	model := d.client.GenerativeModel(d.modelID)
	model.SetTemperature(0.2)
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt + "\n" + actionProtocol))

	cs := model.StartChat()

	if len(messages) == 0 {
		return Decision{}, errors.New("conversation: decide requires at least one message")
	}

	// All but the last message become chat history. Tool results are fed
	// back as user-role observations since the text API has no tool role.
	for _, msg := range messages[:len(messages)-1] {
		content := renderForModel(msg)
		if content == "" {
			continue
		}
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(content)},
		})
	}

	last := renderForModel(messages[len(messages)-1])
	resp, err := cs.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return Decision{}, fmt.Errorf("conversation: gemini decision failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return Decision{}, errors.New("conversation: gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return Decision{}, errors.New("conversation: gemini returned empty content")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	return parseDecision(text.String()), nil
}

// Close releases resources held by the Gemini client.
func (d *GeminiDecider) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}

func renderForModel(msg Message) string {
	switch msg.Role {
	case RoleAction:
		return fmt.Sprintf("Observation from %s:\n%s", actionNameOrResult(msg), msg.Content)
	case RoleAssistant:
		if len(msg.RequestedActions) > 0 {
			env := actionEnvelope{
				Action: msg.RequestedActions[0].Name,
				Args:   msg.RequestedActions[0].Args,
			}
			if b, err := json.Marshal(env); err == nil {
				return string(b)
			}
		}
		return strings.TrimSpace(msg.Content)
	default:
		return strings.TrimSpace(msg.Content)
	}
}

func actionNameOrResult(msg Message) string {
	if msg.ActionCallID != "" {
		return "action " + msg.ActionCallID
	}
	return "action"
}

type actionEnvelope struct {
	Action string         `json:"action"`
	Args   map[string]any `json:"args,omitempty"`
}

// parseDecision treats a JSON action envelope as a tool request and
// anything else as final reply text. Fenced code blocks are unwrapped
// since models wrap JSON in markdown despite instructions.
func parseDecision(text string) Decision {
	trimmed := strings.TrimSpace(text)

	candidateJSON := trimmed
	if strings.HasPrefix(candidateJSON, "```") {
		candidateJSON = strings.TrimPrefix(candidateJSON, "```json")
		candidateJSON = strings.TrimPrefix(candidateJSON, "```")
		candidateJSON = strings.TrimSuffix(strings.TrimSpace(candidateJSON), "```")
		candidateJSON = strings.TrimSpace(candidateJSON)
	}

	if strings.HasPrefix(candidateJSON, "{") {
		var env actionEnvelope
		if err := json.Unmarshal([]byte(candidateJSON), &env); err == nil && env.Action != "" {
			return Decision{
				Actions: []ActionCall{{
					ID:   uuid.NewString(),
					Name: env.Action,
					Args: env.Args,
				}},
			}
		}
	}

	return Decision{FinalText: trimmed}
}
