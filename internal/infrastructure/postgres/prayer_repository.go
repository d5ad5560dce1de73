package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gracegather/community-api/internal/domain/entity"
	"github.com/gracegather/community-api/internal/domain/repository"
)

type PrayerRepository struct {
	pool *pgxpool.Pool
}

func NewPrayerRepository(pool *pgxpool.Pool) *PrayerRepository {
	return &PrayerRepository{pool: pool}
}

const prayerSelect = `
	SELECT p.id, p.title, p.content, p.prayer_type, p.is_anonymous, p.is_public,
	       p.author_id, p.created_at, p.updated_at,
	       u.id, u.email, u.name, u.image
	FROM prayers p
	JOIN users u ON u.id = p.author_id`

func scanPrayer(row pgx.Row) (*entity.Prayer, error) {
	p := &entity.Prayer{Author: &entity.AuthorRef{}}
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.PrayerType, &p.IsAnonymous, &p.IsPublic,
		&p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Email, &p.Author.Name, &p.Author.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if p.IsAnonymous {
		p.Author = nil
	}
	return p, nil
}

func (r *PrayerRepository) List(ctx context.Context, f repository.PrayerFilter) ([]*entity.Prayer, int64, error) {
	where := []string{"p.is_public"}
	args := []any{}
	if f.PrayerType != "" {
		args = append(args, f.PrayerType)
		where = append(where, fmt.Sprintf("p.prayer_type = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(p.title ILIKE $%d OR p.content ILIKE $%d)", len(args), len(args)))
	}
	cond := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM prayers p`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	q := prayerSelect + cond + fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*entity.Prayer{}
	for rows.Next() {
		p, err := scanPrayer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PrayerRepository) Create(ctx context.Context, p *entity.Prayer) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO prayers (title, content, prayer_type, is_anonymous, is_public, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Content, p.PrayerType, p.IsAnonymous, p.IsPublic, p.AuthorID)
	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PrayerRepository) GetByID(ctx context.Context, id int64) (*entity.Prayer, error) {
	p, err := scanPrayer(r.pool.QueryRow(ctx, prayerSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM prayer_supports WHERE prayer_id = $1`, id).Scan(&p.SupportersCount); err != nil {
		return nil, err
	}
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM prayer_responses WHERE prayer_id = $1`, id).Scan(&p.ResponsesCount); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PrayerRepository) Update(ctx context.Context, id, ownerID int64, upd repository.PrayerUpdate) (*entity.Prayer, error) {
	set := []string{"updated_at = now()"}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Content != nil {
		add("content", *upd.Content)
	}
	if upd.PrayerType != nil {
		add("prayer_type", *upd.PrayerType)
	}
	if upd.IsAnonymous != nil {
		add("is_anonymous", *upd.IsAnonymous)
	}
	if upd.IsPublic != nil {
		add("is_public", *upd.IsPublic)
	}

	args = append(args, id, ownerID)
	q := fmt.Sprintf(`UPDATE prayers SET %s WHERE id = $%d AND author_id = $%d`,
		strings.Join(set, ", "), len(args)-1, len(args))
	res, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, r.ownershipError(ctx, id)
	}
	return r.GetByID(ctx, id)
}

// Delete removes the prayer with its responses, supports and response likes
// in one transaction.
func (r *PrayerRepository) Delete(ctx context.Context, id, ownerID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Children first; the FKs carry no CASCADE. The parent delete stays
	// conditional on ownership, and the rollback on a zero-row result undoes
	// the child deletes for prayers the caller does not own.
	if _, err := tx.Exec(ctx, `
		DELETE FROM prayer_response_likes
		WHERE response_id IN (SELECT id FROM prayer_responses WHERE prayer_id = $1)
	`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM prayer_responses WHERE prayer_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM prayer_supports WHERE prayer_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.Exec(ctx, `DELETE FROM prayers WHERE id = $1 AND author_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return r.ownershipError(ctx, id)
	}
	return tx.Commit(ctx)
}

func (r *PrayerRepository) ToggleSupport(ctx context.Context, prayerID, userID int64) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM prayers WHERE id = $1)`, prayerID).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, repository.ErrNotFound
	}

	res, err := r.pool.Exec(ctx, `DELETE FROM prayer_supports WHERE prayer_id = $1 AND user_id = $2`, prayerID, userID)
	if err != nil {
		return false, err
	}
	if res.RowsAffected() > 0 {
		return false, nil
	}
	// ON CONFLICT keeps the (prayer, user) pair unique under concurrent toggles.
	_, err = r.pool.Exec(ctx, `
		INSERT INTO prayer_supports (prayer_id, user_id) VALUES ($1, $2)
		ON CONFLICT (prayer_id, user_id) DO NOTHING
	`, prayerID, userID)
	return err == nil, err
}

const responseSelect = `
	SELECT r.id, r.prayer_id, r.author_id, r.content, r.created_at, r.updated_at,
	       u.id, u.email, u.name, u.image
	FROM prayer_responses r
	JOIN users u ON u.id = r.author_id`

func scanResponse(row pgx.Row) (*entity.PrayerResponse, error) {
	pr := &entity.PrayerResponse{Author: &entity.AuthorRef{}}
	err := row.Scan(&pr.ID, &pr.PrayerID, &pr.AuthorID, &pr.Content, &pr.CreatedAt, &pr.UpdatedAt,
		&pr.Author.ID, &pr.Author.Email, &pr.Author.Name, &pr.Author.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return pr, nil
}

func (r *PrayerRepository) ListResponses(ctx context.Context, prayerID int64, page, limit int) ([]*entity.PrayerResponse, error) {
	rows, err := r.pool.Query(ctx, responseSelect+`
		WHERE r.prayer_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`, prayerID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.PrayerResponse{}
	for rows.Next() {
		pr, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

func (r *PrayerRepository) CreateResponse(ctx context.Context, pr *entity.PrayerResponse) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM prayers WHERE id = $1)`, pr.PrayerID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO prayer_responses (prayer_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, pr.PrayerID, pr.AuthorID, pr.Content)
	return row.Scan(&pr.ID, &pr.CreatedAt, &pr.UpdatedAt)
}

func (r *PrayerRepository) DeleteResponse(ctx context.Context, responseID, ownerID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		DELETE FROM prayer_response_likes WHERE response_id = $1
		AND EXISTS (SELECT 1 FROM prayer_responses WHERE id = $1 AND author_id = $2)
	`, responseID, ownerID); err != nil {
		return err
	}
	res, err := tx.Exec(ctx, `DELETE FROM prayer_responses WHERE id = $1 AND author_id = $2`, responseID, ownerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM prayer_responses WHERE id = $1)`, responseID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return repository.ErrNotOwner
		}
		return repository.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *PrayerRepository) ToggleResponseLike(ctx context.Context, responseID, userID int64) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM prayer_responses WHERE id = $1)`, responseID).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, repository.ErrNotFound
	}

	res, err := r.pool.Exec(ctx, `DELETE FROM prayer_response_likes WHERE response_id = $1 AND user_id = $2`, responseID, userID)
	if err != nil {
		return false, err
	}
	if res.RowsAffected() > 0 {
		return false, nil
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO prayer_response_likes (response_id, user_id) VALUES ($1, $2)
		ON CONFLICT (response_id, user_id) DO NOTHING
	`, responseID, userID)
	return err == nil, err
}

func (r *PrayerRepository) ownershipError(ctx context.Context, id int64) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM prayers WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return repository.ErrNotOwner
	}
	return repository.ErrNotFound
}

var _ repository.PrayerRepository = (*PrayerRepository)(nil)
