package domain

// ChatMessage is one turn of a chat exchange sent to a generation provider.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RAGAnswer is the envelope returned for every answer request. Answer is nil
// and Error is set for the non-fatal outcomes (no relevant documents,
// template loading failure, generation failure).
type RAGAnswer struct {
	Question    string        `json:"question"`
	Answer      *string       `json:"answer"`
	Context     string        `json:"context"`
	FullPrompt  string        `json:"full_prompt"`
	ChatHistory []ChatMessage `json:"chat_history"`
	Error       string        `json:"error,omitempty"`
}
