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

type ArticleRepository struct {
	pool *pgxpool.Pool
}

func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{pool: pool}
}

const articleSelect = `
	SELECT a.id, a.title, a.slug, a.excerpt, a.content, a.featured_image,
	       a.category, a.status, a.author_id, a.view_count, a.created_at, a.updated_at,
	       u.id, u.email, u.name, u.image
	FROM articles a
	JOIN users u ON u.id = a.author_id`

func scanArticle(row pgx.Row) (*entity.Article, error) {
	a := &entity.Article{Author: &entity.AuthorRef{}}
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Content, &a.FeaturedImage,
		&a.Category, &a.Status, &a.AuthorID, &a.ViewCount, &a.CreatedAt, &a.UpdatedAt,
		&a.Author.ID, &a.Author.Email, &a.Author.Name, &a.Author.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *ArticleRepository) List(ctx context.Context, f repository.ArticleFilter) ([]*entity.Article, int64, error) {
	where := []string{}
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("a.category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(a.title ILIKE $%d OR a.content ILIKE $%d)", len(args), len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM articles a`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	q := articleSelect + cond + fmt.Sprintf(" ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*entity.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *ArticleRepository) Create(ctx context.Context, a *entity.Article) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO articles (title, slug, excerpt, content, featured_image, category, status, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, view_count, created_at, updated_at
	`, a.Title, a.Slug, a.Excerpt, a.Content, a.FeaturedImage, a.Category, a.Status, a.AuthorID)

	err := row.Scan(&a.ID, &a.ViewCount, &a.CreatedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*entity.Article, error) {
	return scanArticle(r.pool.QueryRow(ctx, articleSelect+` WHERE a.id = $1`, id))
}

func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	return scanArticle(r.pool.QueryRow(ctx, articleSelect+` WHERE a.slug = $1`, slug))
}

func (r *ArticleRepository) IncrementViews(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE articles SET view_count = view_count + 1 WHERE id = $1`, id)
	return err
}

// Update is conditional on ownership: the WHERE clause carries both id and
// author_id so the check and the write are one statement.
func (r *ArticleRepository) Update(ctx context.Context, id, ownerID int64, upd repository.ArticleUpdate) (*entity.Article, error) {
	set := []string{"updated_at = now()"}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Excerpt != nil {
		add("excerpt", *upd.Excerpt)
	}
	if upd.Content != nil {
		add("content", *upd.Content)
	}
	if upd.FeaturedImage != nil {
		add("featured_image", *upd.FeaturedImage)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}

	args = append(args, id, ownerID)
	q := fmt.Sprintf(`UPDATE articles SET %s WHERE id = $%d AND author_id = $%d`,
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

func (r *ArticleRepository) Delete(ctx context.Context, id, ownerID int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1 AND author_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return r.ownershipError(ctx, id)
	}
	return nil
}

// ownershipError distinguishes 404 from 403 after a zero-row conditional
// write.
func (r *ArticleRepository) ownershipError(ctx context.Context, id int64) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM articles WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return repository.ErrNotOwner
	}
	return repository.ErrNotFound
}

var _ repository.ArticleRepository = (*ArticleRepository)(nil)
