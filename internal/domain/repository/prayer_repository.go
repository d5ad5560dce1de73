package repository

import (
	"context"

	"github.com/gracegather/community-api/internal/domain/entity"
)

type PrayerFilter struct {
	PrayerType string
	Search     string
	Page       int
	Limit      int
}

type PrayerUpdate struct {
	Title       *string
	Content     *string
	PrayerType  *string
	IsAnonymous *bool
	IsPublic    *bool
}

type PrayerRepository interface {
	// List returns public prayers only, newest first.
	List(ctx context.Context, f PrayerFilter) ([]*entity.Prayer, int64, error)
	Create(ctx context.Context, p *entity.Prayer) error
	// GetByID fills SupportersCount and ResponsesCount.
	GetByID(ctx context.Context, id int64) (*entity.Prayer, error)
	Update(ctx context.Context, id, ownerID int64, upd PrayerUpdate) (*entity.Prayer, error)
	// Delete removes the prayer and its responses, supports and likes.
	Delete(ctx context.Context, id, ownerID int64) error

	// ToggleSupport flips the (prayer, user) support row and reports the
	// resulting state. At most one support per pair exists.
	ToggleSupport(ctx context.Context, prayerID, userID int64) (supported bool, err error)

	ListResponses(ctx context.Context, prayerID int64, page, limit int) ([]*entity.PrayerResponse, error)
	CreateResponse(ctx context.Context, r *entity.PrayerResponse) error
	DeleteResponse(ctx context.Context, responseID, ownerID int64) error
	// ToggleResponseLike flips the (response, user) like row.
	ToggleResponseLike(ctx context.Context, responseID, userID int64) (liked bool, err error)
}
