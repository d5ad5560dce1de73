package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gracegather/community-api/internal/domain/entity"
	"github.com/gracegather/community-api/internal/domain/repository"
	"github.com/gracegather/community-api/pkg/response"
)

const listingNotFound = "Listing not found"

type MarketplaceHandler struct {
	Repo   repository.ListingRepository
	Logger *logrus.Logger
}

func (h *MarketplaceHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	listingType := c.Query("type")
	if listingType != "" && !entity.ValidListingType(listingType) {
		response.Error(c, http.StatusBadRequest, "invalid type filter", nil)
		return
	}
	items, count, err := h.Repo.List(c.Request.Context(), repository.ListingFilter{
		Type:   listingType,
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		h.Logger.WithError(err).Error("list listings failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.JSON(c, http.StatusOK, response.List{Results: items, Count: count, Page: page, Limit: limit})
}

type createListingRequest struct {
	Title       string     `json:"title" binding:"required,min=3"`
	Description string     `json:"description" binding:"required"`
	Price       string     `json:"price"`
	Currency    string     `json:"currency"`
	Type        string     `json:"type" binding:"omitempty,oneof=Product Service Event"`
	Contact     string     `json:"contact"`
	CountryCode string     `json:"country_code"`
	Image       string     `json:"image" binding:"omitempty,url"`
	Date        *time.Time `json:"date"`
}

func (h *MarketplaceHandler) Create(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req createListingRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Currency == "" {
		req.Currency = "KSH"
	}
	if req.Type == "" {
		req.Type = entity.ListingTypeProduct
	}
	l := &entity.Listing{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Type:        req.Type,
		Contact:     req.Contact,
		CountryCode: req.CountryCode,
		Image:       req.Image,
		Date:        req.Date,
	}
	if err := h.Repo.Create(c.Request.Context(), l); err != nil {
		h.Logger.WithError(err).Error("create listing failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.JSON(c, http.StatusCreated, l)
}

func (h *MarketplaceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	l, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		writeRepoError(c, err, listingNotFound)
		return
	}
	response.JSON(c, http.StatusOK, l)
}

type updateListingRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=3"`
	Description *string    `json:"description"`
	Price       *string    `json:"price"`
	Currency    *string    `json:"currency"`
	Type        *string    `json:"type" binding:"omitempty,oneof=Product Service Event"`
	Contact     *string    `json:"contact"`
	CountryCode *string    `json:"country_code"`
	Image       *string    `json:"image" binding:"omitempty,url"`
	Date        *time.Time `json:"date"`
}

func (h *MarketplaceHandler) Update(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateListingRequest
	if !bindJSON(c, &req) {
		return
	}
	l, err := h.Repo.Update(c.Request.Context(), id, userID, repository.ListingUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Type:        req.Type,
		Contact:     req.Contact,
		CountryCode: req.CountryCode,
		Image:       req.Image,
		Date:        req.Date,
	})
	if err != nil {
		writeRepoError(c, err, listingNotFound)
		return
	}
	response.JSON(c, http.StatusOK, l)
}

func (h *MarketplaceHandler) Delete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Repo.Delete(c.Request.Context(), id, userID); err != nil {
		writeRepoError(c, err, listingNotFound)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Listing deleted"})
}
