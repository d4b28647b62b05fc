package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/entity"
	"github.com/oksasatya/go-library-records/pkg/helpers"
)

// AuthService issues token pairs for borrowers. When Redis is configured the
// current session id is kept there, so a refresh token stops working once it
// has been rotated or the user logged out.
type AuthService struct {
	Users  *UserService
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewAuthService(users *UserService, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Redis: rdb, Logger: logger}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type session struct {
	SID       string `json:"sid"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issue(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates both tokens. Returns the user id the pair belongs to.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, int64, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, 0, domain.ErrInvalidCredentials
	}
	u, err := s.Users.GetUser(ctx, claims.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return TokenPair{}, 0, domain.ErrInvalidCredentials
		}
		return TokenPair{}, 0, err
	}
	if s.Redis != nil {
		var cur session
		found, rErr := helpers.RedisGetJSON(ctx, s.Redis, helpers.SessionKey(u.ID), &cur)
		if rErr != nil || !found || cur.SID != claims.SessionID {
			return TokenPair{}, 0, domain.ErrInvalidCredentials
		}
	}
	pair, err := s.issue(ctx, u)
	if err != nil {
		return TokenPair{}, 0, err
	}
	return pair, u.ID, nil
}

func (s *AuthService) Logout(ctx context.Context, userID int64) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, helpers.SessionKey(userID)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("redis session delete failed")
	}
}

func (s *AuthService) issue(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		rec := session{SID: sid, Email: u.Email, CreatedAt: time.Now().UTC().Format(time.RFC3339Nano)}
		key := helpers.SessionKey(u.ID)
		if rErr := helpers.RedisSetJSON(ctx, s.Redis, key, rec, s.JWT.RefreshTTL); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis session write failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}
