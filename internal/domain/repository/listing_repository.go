package repository

import (
	"context"
	"time"

	"github.com/gracegather/community-api/internal/domain/entity"
)

type ListingFilter struct {
	Type   string
	Search string
	Page   int
	Limit  int
}

type ListingUpdate struct {
	Title       *string
	Description *string
	Price       *string
	Currency    *string
	Type        *string
	Contact     *string
	CountryCode *string
	Image       *string
	Date        *time.Time
}

type ListingRepository interface {
	List(ctx context.Context, f ListingFilter) ([]*entity.Listing, int64, error)
	Create(ctx context.Context, l *entity.Listing) error
	GetByID(ctx context.Context, id int64) (*entity.Listing, error)
	Update(ctx context.Context, id, ownerID int64, upd ListingUpdate) (*entity.Listing, error)
	Delete(ctx context.Context, id, ownerID int64) error
}
