package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gracegather/community-api/internal/domain/entity"
	"github.com/gracegather/community-api/internal/domain/repository"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

const messageSelect = `
	SELECT m.id, m.sender_id, m.receiver_id, m.content, m.read, m.created_at,
	       u.id, u.email, u.name, u.image
	FROM messages m
	JOIN users u ON u.id = m.sender_id`

func scanMessage(row pgx.Row) (*entity.Message, error) {
	m := &entity.Message{Sender: &entity.AuthorRef{}}
	err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.CreatedAt,
		&m.Sender.ID, &m.Sender.Email, &m.Sender.Name, &m.Sender.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *MessageRepository) Conversation(ctx context.Context, userID, otherID int64, page, limit int) ([]*entity.Message, error) {
	rows, err := r.pool.Query(ctx, messageSelect+`
		WHERE (m.sender_id = $1 AND m.receiver_id = $2)
		   OR (m.sender_id = $2 AND m.receiver_id = $1)
		ORDER BY m.created_at ASC
		LIMIT $3 OFFSET $4
	`, userID, otherID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (r *MessageRepository) ListForUser(ctx context.Context, userID int64, page, limit int) ([]*entity.Message, error) {
	rows, err := r.pool.Query(ctx, messageSelect+`
		WHERE m.sender_id = $1 OR m.receiver_id = $1
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func collectMessages(rows pgx.Rows) ([]*entity.Message, error) {
	out := []*entity.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MessageRepository) Create(ctx context.Context, m *entity.Message) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO messages (sender_id, receiver_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, read, created_at
	`, m.SenderID, m.ReceiverID, m.Content)
	return row.Scan(&m.ID, &m.Read, &m.CreatedAt)
}

func (r *MessageRepository) MarkRead(ctx context.Context, id, receiverID int64) error {
	res, err := r.pool.Exec(ctx, `UPDATE messages SET read = TRUE WHERE id = $1 AND receiver_id = $2`, id, receiverID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return r.ownershipError(ctx, id)
	}
	return nil
}

func (r *MessageRepository) Delete(ctx context.Context, id, senderID int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1 AND sender_id = $2`, id, senderID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return r.ownershipError(ctx, id)
	}
	return nil
}

func (r *MessageRepository) ownershipError(ctx context.Context, id int64) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM messages WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return repository.ErrNotOwner
	}
	return repository.ErrNotFound
}

var _ repository.MessageRepository = (*MessageRepository)(nil)
