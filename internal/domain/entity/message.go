package entity

import "time"

// Message is the simple direct-message schema: sender, receiver, content, read
// flag. Conversations as a first-class entity live in the upstream service.
type Message struct {
	ID         int64      `json:"id"`
	SenderID   int64      `json:"sender_id"`
	Sender     *AuthorRef `json:"sender,omitempty"`
	ReceiverID int64      `json:"receiver_id"`
	Content    string     `json:"content"`
	Read       bool       `json:"read"`
	CreatedAt  time.Time  `json:"created_at"`
}
