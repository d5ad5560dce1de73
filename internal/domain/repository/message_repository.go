package repository

import (
	"context"

	"github.com/gracegather/community-api/internal/domain/entity"
)

type MessageRepository interface {
	// Conversation returns messages between two users, oldest first.
	Conversation(ctx context.Context, userID, otherID int64, page, limit int) ([]*entity.Message, error)
	// ListForUser returns the latest messages the user sent or received.
	ListForUser(ctx context.Context, userID int64, page, limit int) ([]*entity.Message, error)
	Create(ctx context.Context, m *entity.Message) error
	// MarkRead flips the read flag; only the receiver may do so.
	MarkRead(ctx context.Context, id, receiverID int64) error
	// Delete removes a message; only the sender may do so.
	Delete(ctx context.Context, id, senderID int64) error
}
