package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gracegather/community-api/internal/application"
	"github.com/gracegather/community-api/internal/domain/entity"
	"github.com/gracegather/community-api/pkg/response"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"omitempty,min=2"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type userSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type authResponse struct {
	Message string      `json:"message"`
	User    userSummary `json:"user"`
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
}

func authBody(message string, u *entity.User, pair application.TokenPair) authResponse {
	return authResponse{
		Message: message,
		User:    userSummary{ID: u.ID, Email: u.Email, Name: u.Name},
		Access:  pair.AccessToken,
		Refresh: pair.RefreshToken,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	u, pair, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error(c, http.StatusBadRequest, "Email already registered", nil)
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.JSON(c, http.StatusCreated, authBody("Registration successful", u, pair))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.JSON(c, http.StatusOK, authBody("Login successful", u, pair))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}
	_, pair, err := h.Svc.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"access":  pair.AccessToken,
		"refresh": pair.RefreshToken,
	})
}

// Logout is a stateless ack. Tokens stay valid until expiry; clients drop
// their stored pair.
func (h *AuthHandler) Logout(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"message": "Logged out"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.Logger.WithError(err).Error("forgot password failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	// Same reply for known and unknown emails.
	response.JSON(c, http.StatusOK, gin.H{"message": "If that email is registered, a reset link has been sent"})
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, application.ErrResetTokenInvalid) {
			response.Error(c, http.StatusBadRequest, "Reset token invalid or expired", nil)
			return
		}
		h.Logger.WithError(err).Error("reset password failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := mustUserID(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetProfile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.JSON(c, http.StatusOK, u)
}

type updateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=2"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image" binding:"omitempty,url"`
	Location  *string `json:"location"`
	Website   *string `json:"website" binding:"omitempty,url"`
	Facebook  *string `json:"facebook"`
	Twitter   *string `json:"twitter"`
	Instagram *string `json:"instagram"`
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	id, ok := mustUserID(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), id, application.UpdateProfileInput{
		Name:      req.Name,
		Bio:       req.Bio,
		Image:     req.Image,
		Location:  req.Location,
		Website:   req.Website,
		Facebook:  req.Facebook,
		Twitter:   req.Twitter,
		Instagram: req.Instagram,
	})
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User not found", nil)
			return
		}
		h.Logger.WithError(err).Error("update profile failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.JSON(c, http.StatusOK, u)
}

// PublicProfile exposes the non-sensitive subset of another user's profile.
func (h *AuthHandler) PublicProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.Svc.GetProfile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	response.JSON(c, http.StatusOK, u.PublicProfile())
}

// UploadImage accepts a multipart file and stores it in the media bucket.
// folder defaults to "uploads"; clients pass article/prayer/listing to group
// media per feature.
func (h *AuthHandler) UploadImage(c *gin.Context) {
	if _, ok := mustUserID(c); !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "file is required", nil)
		return
	}
	folder := c.DefaultPostForm("folder", "uploads")
	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "cannot read file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadImage(c.Request.Context(), folder, fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		h.Logger.WithError(err).Error("upload failed")
		response.Error(c, http.StatusInternalServerError, "upload failed", nil)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{"url": url})
}
