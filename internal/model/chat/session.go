package chat

import "time"

// Session groups the messages of one conversation until it is analyzed.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
