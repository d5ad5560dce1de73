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

	"github.com/gracegather/community-api/internal/application"
	"github.com/gracegather/community-api/internal/domain/entity"
	"github.com/gracegather/community-api/internal/domain/repository"
	"github.com/gracegather/community-api/internal/interface/middleware"
)

type fakeUserRepo struct {
	nextID int64
	users  map[int64]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int64]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, u *entity.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = hash
	return nil
}

func newAuthRouter(repo *fakeUserRepo) *gin.Engine {
	svc := &application.AuthService{Users: repo, JWT: testJWT, Logger: testLogger()}
	h := &AuthHandler{Svc: svc, Logger: testLogger()}
	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/refresh", h.Refresh)
	r.GET("/api/users/:id", h.PublicProfile)
	auth := r.Group("/", middleware.Auth(testJWT))
	auth.GET("/api/auth/me", h.Me)
	auth.PUT("/api/auth/me", h.UpdateMe)
	auth.POST("/api/auth/logout", h.Logout)
	return r
}

func TestRegisterReturnsTokensAndUser(t *testing.T) {
	r := newAuthRouter(newFakeUserRepo())

	w := doJSON(r, http.MethodPost, "/api/auth/register", "",
		`{"email":"jane@example.com","password":"supersecret","name":"Jane"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Message string `json:"message"`
		User    struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Registration successful", body.Message)
	assert.Equal(t, "jane@example.com", body.User.Email)
	assert.NotEmpty(t, body.Access)
	assert.NotEmpty(t, body.Refresh)

	// tokens belong to the new user
	claims, err := testJWT.ParseAccessToken(body.Access)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := newAuthRouter(newFakeUserRepo())

	payload := `{"email":"jane@example.com","password":"supersecret","name":"Jane"}`
	w := doJSON(r, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/register", "", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Email already registered", body["error"])
}

func TestLoginWrongPassword(t *testing.T) {
	r := newAuthRouter(newFakeUserRepo())

	w := doJSON(r, http.MethodPost, "/api/auth/register", "",
		`{"email":"jane@example.com","password":"supersecret","name":"Jane"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/login", "",
		`{"email":"jane@example.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid credentials", body["error"])
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	r := newAuthRouter(newFakeUserRepo())

	w := doJSON(r, http.MethodPost, "/api/auth/login", "",
		`{"email":"nobody@example.com","password":"whatever1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid credentials", body["error"])
}

func TestRefreshRotatesTokens(t *testing.T) {
	r := newAuthRouter(newFakeUserRepo())

	w := doJSON(r, http.MethodPost, "/api/auth/register", "",
		`{"email":"jane@example.com","password":"supersecret","name":"Jane"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var reg struct {
		Refresh string `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))

	w = doJSON(r, http.MethodPost, "/api/auth/refresh", "", `{"refresh":"`+reg.Refresh+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var pair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	_, err := testJWT.ParseAccessToken(pair.Access)
	assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	r := newAuthRouter(newFakeUserRepo())

	w := doJSON(r, http.MethodPost, "/api/auth/register", "",
		`{"email":"jane@example.com","password":"supersecret","name":"Jane"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var reg struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))

	w = doJSON(r, http.MethodPost, "/api/auth/refresh", "", `{"refresh":"`+reg.Access+`"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRequiresAuth(t *testing.T) {
	r := newAuthRouter(newFakeUserRepo())

	w := doJSON(r, http.MethodPost, "/api/auth/logout", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/register", "",
		`{"email":"jane@example.com","password":"supersecret","name":"Jane"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var reg struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))

	w = doJSON(r, http.MethodPost, "/api/auth/logout", "Bearer "+reg.Access, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Logged out", body["message"])
}

func TestMeAndPublicProfile(t *testing.T) {
	r := newAuthRouter(newFakeUserRepo())

	w := doJSON(r, http.MethodPost, "/api/auth/register", "",
		`{"email":"jane@example.com","password":"supersecret","name":"Jane"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var reg struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))

	w = doJSON(r, http.MethodGet, "/api/auth/me", "Bearer "+reg.Access, "")
	require.Equal(t, http.StatusOK, w.Code)
	var me entity.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "jane@example.com", me.Email)

	// public profile never exposes the email
	w = doJSON(r, http.MethodGet, "/api/users/1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var pub map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pub))
	assert.Equal(t, "Jane", pub["name"])
	assert.NotContains(t, pub, "email")
}
