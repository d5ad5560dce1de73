package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracegather/community-api/internal/domain/entity"
	"github.com/gracegather/community-api/internal/domain/repository"
	"github.com/gracegather/community-api/internal/interface/middleware"
)

type fakeListingRepo struct {
	nextID   int64
	listings map[int64]*entity.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{nextID: 1, listings: map[int64]*entity.Listing{}}
}

func (r *fakeListingRepo) List(_ context.Context, f repository.ListingFilter) ([]*entity.Listing, int64, error) {
	out := []*entity.Listing{}
	for _, l := range r.listings {
		if f.Type != "" && l.Type != f.Type {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *fakeListingRepo) Create(_ context.Context, l *entity.Listing) error {
	l.ID = r.nextID
	r.nextID++
	l.CreatedAt = time.Now()
	r.listings[l.ID] = l
	return nil
}

func (r *fakeListingRepo) GetByID(_ context.Context, id int64) (*entity.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeListingRepo) Update(_ context.Context, id, ownerID int64, upd repository.ListingUpdate) (*entity.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if l.OwnerID != ownerID {
		return nil, repository.ErrNotOwner
	}
	if upd.Title != nil {
		l.Title = *upd.Title
	}
	if upd.Price != nil {
		l.Price = *upd.Price
	}
	cp := *l
	return &cp, nil
}

func (r *fakeListingRepo) Delete(_ context.Context, id, ownerID int64) error {
	l, ok := r.listings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if l.OwnerID != ownerID {
		return repository.ErrNotOwner
	}
	delete(r.listings, id)
	return nil
}

func newMarketplaceRouter(repo *fakeListingRepo) *gin.Engine {
	h := &MarketplaceHandler{Repo: repo, Logger: testLogger()}
	r := gin.New()
	r.GET("/api/marketplace", h.List)
	r.GET("/api/marketplace/:id", h.Get)
	auth := r.Group("/", middleware.Auth(testJWT))
	auth.POST("/api/marketplace", h.Create)
	auth.PUT("/api/marketplace/:id", h.Update)
	auth.DELETE("/api/marketplace/:id", h.Delete)
	return r
}

func TestCreateListingDefaults(t *testing.T) {
	r := newMarketplaceRouter(newFakeListingRepo())

	w := doJSON(r, http.MethodPost, "/api/marketplace", bearerFor("8"),
		`{"title":"Handmade basket","description":"Woven sisal basket"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var l entity.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	assert.Equal(t, "KSH", l.Currency)
	assert.Equal(t, entity.ListingTypeProduct, l.Type)
	assert.Equal(t, int64(8), l.OwnerID)
}

func TestListingTypeValidated(t *testing.T) {
	r := newMarketplaceRouter(newFakeListingRepo())

	w := doJSON(r, http.MethodPost, "/api/marketplace", bearerFor("8"),
		`{"title":"Thing","description":"x","type":"Vehicle"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListListingsRejectsUnknownTypeFilter(t *testing.T) {
	r := newMarketplaceRouter(newFakeListingRepo())

	w := doJSON(r, http.MethodGet, "/api/marketplace?type=Vehicle", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid type filter", body["error"])
}

func TestListingNotFoundMessage(t *testing.T) {
	r := newMarketplaceRouter(newFakeListingRepo())

	w := doJSON(r, http.MethodGet, "/api/marketplace/404", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Listing not found", body["error"])
}

func TestUpdateListingOwnership(t *testing.T) {
	repo := newFakeListingRepo()
	r := newMarketplaceRouter(repo)

	w := doJSON(r, http.MethodPost, "/api/marketplace", bearerFor("8"),
		`{"title":"My stall","description":"x"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPut, "/api/marketplace/1", bearerFor("9"), `{"price":"100"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPut, "/api/marketplace/1", bearerFor("8"), `{"price":"100"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var l entity.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	assert.Equal(t, "100", l.Price)
}
