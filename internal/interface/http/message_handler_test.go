package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracegather/community-api/internal/domain/entity"
	"github.com/gracegather/community-api/internal/interface/middleware"
)

func newMessageRouter(repo *fakeMessageRepo) *gin.Engine {
	h := &MessageHandler{Repo: repo, Logger: testLogger()}
	r := gin.New()
	auth := r.Group("/", middleware.Auth(testJWT))
	auth.GET("/api/messages", h.List)
	auth.POST("/api/messages", h.Send)
	auth.PUT("/api/messages/:id/read", h.MarkRead)
	auth.DELETE("/api/messages/:id", h.Delete)
	return r
}

func TestSendMessage(t *testing.T) {
	r := newMessageRouter(newFakeMessageRepo())

	w := doJSON(r, http.MethodPost, "/api/messages", bearerFor("1"),
		`{"receiver_id":2,"content":"hello"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var m entity.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, int64(1), m.SenderID)
	assert.Equal(t, int64(2), m.ReceiverID)
	assert.False(t, m.Read)
}

func TestSendMessageToSelfRejected(t *testing.T) {
	r := newMessageRouter(newFakeMessageRepo())

	w := doJSON(r, http.MethodPost, "/api/messages", bearerFor("1"),
		`{"receiver_id":1,"content":"hi me"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkReadReceiverOnly(t *testing.T) {
	repo := newFakeMessageRepo()
	r := newMessageRouter(repo)

	w := doJSON(r, http.MethodPost, "/api/messages", bearerFor("1"),
		`{"receiver_id":2,"content":"hello"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// sender cannot mark read
	w = doJSON(r, http.MethodPut, "/api/messages/1/read", bearerFor("1"), "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// receiver can
	w = doJSON(r, http.MethodPut, "/api/messages/1/read", bearerFor("2"), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, repo.messages[1].Read)
}

func TestListWithUserIDReturnsThread(t *testing.T) {
	repo := newFakeMessageRepo()
	r := newMessageRouter(repo)

	w := doJSON(r, http.MethodPost, "/api/messages", bearerFor("1"),
		`{"receiver_id":2,"content":"hello"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(r, http.MethodPost, "/api/messages", bearerFor("1"),
		`{"receiver_id":3,"content":"other thread"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/api/messages?user_id=2", bearerFor("1"), "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Results []entity.Message `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "hello", body.Results[0].Content)
}

func TestDeleteMessageSenderOnly(t *testing.T) {
	repo := newFakeMessageRepo()
	r := newMessageRouter(repo)

	w := doJSON(r, http.MethodPost, "/api/messages", bearerFor("1"),
		`{"receiver_id":2,"content":"hello"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/messages/1", bearerFor("2"), "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/messages/1", bearerFor("1"), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteMissingMessage(t *testing.T) {
	r := newMessageRouter(newFakeMessageRepo())

	w := doJSON(r, http.MethodDelete, "/api/messages/42", bearerFor("1"), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Message not found", body["error"])
}
