package domain

import "encoding/json"

// ChatMessage is the provider-agnostic chat message shape used by the use cases
// and LLM integrations.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OutputSchema names the JSON schema a generative backend must answer with.
type OutputSchema struct {
	Name   string
	Schema json.RawMessage
}
