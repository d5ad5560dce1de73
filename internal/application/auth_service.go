package application

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/gracegather/community-api/internal/domain/entity"
	repo "github.com/gracegather/community-api/internal/domain/repository"
	"github.com/gracegather/community-api/pkg/helpers"
	"github.com/gracegather/community-api/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrResetTokenInvalid  = errors.New("reset token invalid or expired")
)

const resetTokenTTL = 30 * time.Minute

func resetKey(token string) string {
	return "pwreset:" + token
}

// EmailQueue publishes mail jobs for the worker to deliver.
type EmailQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService owns the account lifecycle: registration, login, token refresh
// and the password-reset flow.
type AuthService struct {
	Users     repo.UserRepository
	JWT       *helpers.JWTManager
	Redis     *redis.Client
	Logger    *logrus.Logger
	Mail      EmailQueue
	Mailer    *mailer.Mailgun
	ResetURL  string
	GCS       *storage.Client
	GCSBucket string
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func (s *AuthService) issueTokens(u *entity.User) (TokenPair, error) {
	uid := strconv.FormatInt(u.ID, 10)
	access, aexp, err := s.JWT.GenerateAccessToken(uid, u.Email)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(uid, u.Email)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Register creates the account and signs the user in immediately.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*entity.User, TokenPair, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	u := &entity.User{Email: email, Password: hash, Name: name, IsActive: true}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, TokenPair{}, ErrEmailTaken
		}
		return nil, TokenPair{}, err
	}
	pair, err := s.issueTokens(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Login validates credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	pair, err := s.issueTokens(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The user is
// reloaded so tokens for deleted accounts stop working.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*entity.User, TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	pair, err := s.issueTokens(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *AuthService) GetProfile(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name      *string
	Bio       *string
	Image     *string
	Location  *string
	Website   *string
	Facebook  *string
	Twitter   *string
	Instagram *string
}

func (s *AuthService) UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&u.Name, in.Name)
	apply(&u.Bio, in.Bio)
	apply(&u.Image, in.Image)
	apply(&u.Location, in.Location)
	apply(&u.Website, in.Website)
	apply(&u.Facebook, in.Facebook)
	apply(&u.Twitter, in.Twitter)
	apply(&u.Instagram, in.Instagram)
	if err := s.Users.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ForgotPassword always reports success so the endpoint does not reveal which
// emails are registered. The reset token lives in Redis for 30 minutes.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return err
	}
	token := uuid.NewString()
	if err := s.Redis.Set(ctx, resetKey(token), u.ID, resetTokenTTL).Err(); err != nil {
		return err
	}

	job := mailer.EmailJob{To: u.Email, Name: u.Name, ResetURL: s.ResetURL + "?token=" + token}
	if s.Mail != nil {
		if err := s.Mail.PublishJSON(ctx, job); err == nil {
			return nil
		} else if s.Logger != nil {
			s.Logger.WithError(err).Warn("email queue publish failed, falling back to direct send")
		}
	}
	if s.Mailer != nil {
		return s.Mailer.Send(ctx, job.To, job.Subject(), job.Body(), "")
	}
	return nil
}

// ResetPassword consumes a reset token. The token is single use; the Redis
// key is deleted before the password write so replays lose the race.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	val, err := s.Redis.GetDel(ctx, resetKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrResetTokenInvalid
		}
		return err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return ErrResetTokenInvalid
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}
	return nil
}

// UploadImage streams a file to Cloud Storage and returns its public URL.
func (s *AuthService) UploadImage(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("uploads not configured")
	}
	return helpers.UploadMedia(ctx, s.GCS, s.GCSBucket, folder, filename, contentType, r)
}
