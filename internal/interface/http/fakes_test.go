package http

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gracegather/community-api/internal/domain/entity"
	"github.com/gracegather/community-api/internal/domain/repository"
	"github.com/gracegather/community-api/pkg/helpers"
)

// In-memory repositories backing handler tests. Ownership and visibility
// rules mirror the SQL implementations.

var testJWT = helpers.NewJWTManager("test-access", "test-refresh", time.Hour, time.Hour)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func bearerFor(userID string) string {
	token, _, _ := testJWT.GenerateAccessToken(userID, userID+"@example.com")
	return "Bearer " + token
}

type fakeArticleRepo struct {
	nextID   int64
	articles map[int64]*entity.Article
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{nextID: 1, articles: map[int64]*entity.Article{}}
}

func (r *fakeArticleRepo) List(_ context.Context, f repository.ArticleFilter) ([]*entity.Article, int64, error) {
	out := []*entity.Article{}
	for _, a := range r.articles {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeArticleRepo) Create(_ context.Context, a *entity.Article) error {
	a.ID = r.nextID
	r.nextID++
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.articles[a.ID] = a
	return nil
}

func (r *fakeArticleRepo) GetByID(_ context.Context, id int64) (*entity.Article, error) {
	a, ok := r.articles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeArticleRepo) GetBySlug(_ context.Context, slug string) (*entity.Article, error) {
	for _, a := range r.articles {
		if a.Slug == slug {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeArticleRepo) IncrementViews(_ context.Context, id int64) error {
	a, ok := r.articles[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.ViewCount++
	return nil
}

func (r *fakeArticleRepo) Update(_ context.Context, id, ownerID int64, upd repository.ArticleUpdate) (*entity.Article, error) {
	a, ok := r.articles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if a.AuthorID != ownerID {
		return nil, repository.ErrNotOwner
	}
	if upd.Title != nil {
		a.Title = *upd.Title
	}
	if upd.Content != nil {
		a.Content = *upd.Content
	}
	if upd.Status != nil {
		a.Status = *upd.Status
	}
	if upd.Category != nil {
		a.Category = *upd.Category
	}
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (r *fakeArticleRepo) Delete(_ context.Context, id, ownerID int64) error {
	a, ok := r.articles[id]
	if !ok {
		return repository.ErrNotFound
	}
	if a.AuthorID != ownerID {
		return repository.ErrNotOwner
	}
	delete(r.articles, id)
	return nil
}

type supportKey struct {
	prayerID int64
	userID   int64
}

type likeKey struct {
	responseID int64
	userID     int64
}

type fakePrayerRepo struct {
	nextID    int64
	prayers   map[int64]*entity.Prayer
	supports  map[supportKey]bool
	responses map[int64]*entity.PrayerResponse
	likes     map[likeKey]bool
}

func newFakePrayerRepo() *fakePrayerRepo {
	return &fakePrayerRepo{
		nextID:    1,
		prayers:   map[int64]*entity.Prayer{},
		supports:  map[supportKey]bool{},
		responses: map[int64]*entity.PrayerResponse{},
		likes:     map[likeKey]bool{},
	}
}

func (r *fakePrayerRepo) List(_ context.Context, f repository.PrayerFilter) ([]*entity.Prayer, int64, error) {
	out := []*entity.Prayer{}
	for _, p := range r.prayers {
		if !p.IsPublic {
			continue
		}
		if f.PrayerType != "" && p.PrayerType != f.PrayerType {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePrayerRepo) Create(_ context.Context, p *entity.Prayer) error {
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.prayers[p.ID] = p
	return nil
}

func (r *fakePrayerRepo) GetByID(_ context.Context, id int64) (*entity.Prayer, error) {
	p, ok := r.prayers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePrayerRepo) Update(_ context.Context, id, ownerID int64, upd repository.PrayerUpdate) (*entity.Prayer, error) {
	p, ok := r.prayers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.AuthorID != ownerID {
		return nil, repository.ErrNotOwner
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Content != nil {
		p.Content = *upd.Content
	}
	if upd.IsPublic != nil {
		p.IsPublic = *upd.IsPublic
	}
	cp := *p
	return &cp, nil
}

func (r *fakePrayerRepo) Delete(_ context.Context, id, ownerID int64) error {
	p, ok := r.prayers[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.AuthorID != ownerID {
		return repository.ErrNotOwner
	}
	delete(r.prayers, id)
	return nil
}

func (r *fakePrayerRepo) ToggleSupport(_ context.Context, prayerID, userID int64) (bool, error) {
	if _, ok := r.prayers[prayerID]; !ok {
		return false, repository.ErrNotFound
	}
	k := supportKey{prayerID, userID}
	if r.supports[k] {
		delete(r.supports, k)
		return false, nil
	}
	r.supports[k] = true
	return true, nil
}

func (r *fakePrayerRepo) ListResponses(_ context.Context, prayerID int64, page, limit int) ([]*entity.PrayerResponse, error) {
	out := []*entity.PrayerResponse{}
	for _, resp := range r.responses {
		if resp.PrayerID == prayerID {
			cp := *resp
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePrayerRepo) CreateResponse(_ context.Context, resp *entity.PrayerResponse) error {
	if _, ok := r.prayers[resp.PrayerID]; !ok {
		return repository.ErrNotFound
	}
	resp.ID = r.nextID
	r.nextID++
	resp.CreatedAt = time.Now()
	cp := *resp
	r.responses[resp.ID] = &cp
	return nil
}

func (r *fakePrayerRepo) DeleteResponse(_ context.Context, responseID, ownerID int64) error {
	resp, ok := r.responses[responseID]
	if !ok {
		return repository.ErrNotFound
	}
	if resp.AuthorID != ownerID {
		return repository.ErrNotOwner
	}
	delete(r.responses, responseID)
	for k := range r.likes {
		if k.responseID == responseID {
			delete(r.likes, k)
		}
	}
	return nil
}

func (r *fakePrayerRepo) ToggleResponseLike(_ context.Context, responseID, userID int64) (bool, error) {
	if _, ok := r.responses[responseID]; !ok {
		return false, repository.ErrNotFound
	}
	k := likeKey{responseID, userID}
	if r.likes[k] {
		delete(r.likes, k)
		return false, nil
	}
	r.likes[k] = true
	return true, nil
}

type fakeMessageRepo struct {
	nextID   int64
	messages map[int64]*entity.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{nextID: 1, messages: map[int64]*entity.Message{}}
}

func (r *fakeMessageRepo) Conversation(_ context.Context, userID, otherID int64, page, limit int) ([]*entity.Message, error) {
	out := []*entity.Message{}
	for _, m := range r.messages {
		if (m.SenderID == userID && m.ReceiverID == otherID) || (m.SenderID == otherID && m.ReceiverID == userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) ListForUser(_ context.Context, userID int64, page, limit int) ([]*entity.Message, error) {
	out := []*entity.Message{}
	for _, m := range r.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) Create(_ context.Context, m *entity.Message) error {
	m.ID = r.nextID
	r.nextID++
	m.CreatedAt = time.Now()
	r.messages[m.ID] = m
	return nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, id, receiverID int64) error {
	m, ok := r.messages[id]
	if !ok {
		return repository.ErrNotFound
	}
	if m.ReceiverID != receiverID {
		return repository.ErrNotOwner
	}
	m.Read = true
	return nil
}

func (r *fakeMessageRepo) Delete(_ context.Context, id, senderID int64) error {
	m, ok := r.messages[id]
	if !ok {
		return repository.ErrNotFound
	}
	if m.SenderID != senderID {
		return repository.ErrNotOwner
	}
	delete(r.messages, id)
	return nil
}

func init() {
	gin.SetMode(gin.TestMode)
}
