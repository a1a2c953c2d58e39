package chat

import "time"

// Sender values recognised by the analysis pipeline. Any other sender is kept
// in transcripts but never scored.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Message is a single turn of a conversation.
type Message struct {
	ID        string    `json:"id,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// FromUser reports whether the message was authored by the human participant.
func (m Message) FromUser() bool {
	return m.Sender == SenderUser
}
