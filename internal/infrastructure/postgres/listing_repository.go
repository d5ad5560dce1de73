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

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

const listingSelect = `
	SELECT l.id, l.owner_id, l.title, l.description, l.price, l.currency, l.type,
	       l.contact, l.country_code, l.image, l.date, l.created_at, l.updated_at,
	       u.id, u.email, u.name, u.image
	FROM listings l
	JOIN users u ON u.id = l.owner_id`

func scanListing(row pgx.Row) (*entity.Listing, error) {
	l := &entity.Listing{Owner: &entity.AuthorRef{}}
	err := row.Scan(&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.Price, &l.Currency, &l.Type,
		&l.Contact, &l.CountryCode, &l.Image, &l.Date, &l.CreatedAt, &l.UpdatedAt,
		&l.Owner.ID, &l.Owner.Email, &l.Owner.Name, &l.Owner.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *ListingRepository) List(ctx context.Context, f repository.ListingFilter) ([]*entity.Listing, int64, error) {
	where := []string{}
	args := []any{}
	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("l.type = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(l.title ILIKE $%d OR l.description ILIKE $%d)", len(args), len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM listings l`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	q := listingSelect + cond + fmt.Sprintf(" ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*entity.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

func (r *ListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO listings (owner_id, title, description, price, currency, type, contact, country_code, image, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, l.OwnerID, l.Title, l.Description, l.Price, l.Currency, l.Type, l.Contact, l.CountryCode, l.Image, l.Date)
	return row.Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*entity.Listing, error) {
	return scanListing(r.pool.QueryRow(ctx, listingSelect+` WHERE l.id = $1`, id))
}

func (r *ListingRepository) Update(ctx context.Context, id, ownerID int64, upd repository.ListingUpdate) (*entity.Listing, error) {
	set := []string{"updated_at = now()"}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Price != nil {
		add("price", *upd.Price)
	}
	if upd.Currency != nil {
		add("currency", *upd.Currency)
	}
	if upd.Type != nil {
		add("type", *upd.Type)
	}
	if upd.Contact != nil {
		add("contact", *upd.Contact)
	}
	if upd.CountryCode != nil {
		add("country_code", *upd.CountryCode)
	}
	if upd.Image != nil {
		add("image", *upd.Image)
	}
	if upd.Date != nil {
		add("date", *upd.Date)
	}

	args = append(args, id, ownerID)
	q := fmt.Sprintf(`UPDATE listings SET %s WHERE id = $%d AND owner_id = $%d`,
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

func (r *ListingRepository) Delete(ctx context.Context, id, ownerID int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return r.ownershipError(ctx, id)
	}
	return nil
}

func (r *ListingRepository) ownershipError(ctx context.Context, id int64) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM listings WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return repository.ErrNotOwner
	}
	return repository.ErrNotFound
}

var _ repository.ListingRepository = (*ListingRepository)(nil)
