package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gracegather/community-api/internal/domain/repository"
	"github.com/gracegather/community-api/internal/interface/middleware"
	"github.com/gracegather/community-api/pkg/response"
	"github.com/gracegather/community-api/pkg/validation"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// currentUserID reads the authenticated user set by the auth middleware.
// Routes behind the middleware always have it; the bool guards misuse.
func currentUserID(c *gin.Context) (int64, bool) {
	raw := c.GetString(middleware.CtxUserIDKey)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func mustUserID(c *gin.Context) (int64, bool) {
	id, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "No token provided", nil)
	}
	return id, ok
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// bindJSON binds and reports validation failures as a 400 with field details.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return false
	}
	return true
}

// writeRepoError maps storage errors onto the API's taxonomy. notFoundMsg is
// the resource-specific 404 message clients match on.
func writeRepoError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, notFoundMsg, nil)
	case errors.Is(err, repository.ErrNotOwner):
		response.Error(c, http.StatusForbidden, "Not authorized", nil)
	case errors.Is(err, repository.ErrDuplicate):
		response.Error(c, http.StatusConflict, "already exists", nil)
	default:
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
	}
}
