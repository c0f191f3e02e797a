package models

import "time"

// ComposeRequest carries one step's context into the reply composer.
// DevMessage says what the reply should communicate; the composer has no
// authority over state transitions.
type ComposeRequest struct {
	Step        Step           `json:"step"`
	Session     *Session       `json:"session,omitempty"`
	UserMessage string         `json:"userMessage"`
	DevMessage  string         `json:"devMessage"`
	Data        map[string]any `json:"data,omitempty"`
}

// AIReply is the JSON contract the language model must honor.
type AIReply struct {
	AssistantText string         `json:"assistant_text"`
	Extracted     map[string]any `json:"extracted,omitempty"`
}

// InteractionRecord is one logged compose attempt.
type InteractionRecord struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	Step        Step        `json:"step"`
	WaID        string      `json:"waId,omitempty"`
	UserMessage string      `json:"userMessage"`
	DevMessage  string      `json:"devMessage"`
	Reply       AIReply     `json:"reply"`
	Session     SessionData `json:"session"`
	Error       string      `json:"error,omitempty"`
}
