package repository

import (
	"context"

	"github.com/gracegather/community-api/internal/domain/entity"
)

// ArticleFilter narrows List results. Zero values mean "no filter"; Search
// matches title or content case-insensitively.
type ArticleFilter struct {
	Status   string
	Category string
	Search   string
	Page     int
	Limit    int
}

// ArticleUpdate carries a partial update; nil fields are left untouched.
type ArticleUpdate struct {
	Title         *string
	Excerpt       *string
	Content       *string
	FeaturedImage *string
	Category      *string
	Status        *string
}

type ArticleRepository interface {
	List(ctx context.Context, f ArticleFilter) ([]*entity.Article, int64, error)
	Create(ctx context.Context, a *entity.Article) error
	GetByID(ctx context.Context, id int64) (*entity.Article, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Article, error)
	IncrementViews(ctx context.Context, id int64) error
	// Update applies the partial update only when ownerID matches; returns
	// ErrNotOwner or ErrNotFound otherwise.
	Update(ctx context.Context, id, ownerID int64, upd ArticleUpdate) (*entity.Article, error)
	Delete(ctx context.Context, id, ownerID int64) error
}
