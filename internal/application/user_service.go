package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/RaiderT63/foodgram/internal/apperr"
	"github.com/RaiderT63/foodgram/internal/domain/entity"
	repo "github.com/RaiderT63/foodgram/internal/domain/repository"
	"github.com/RaiderT63/foodgram/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserService covers registration, credential auth with Redis-backed
// sessions, profile reads, and avatar management.
type UserService struct {
	Users  repo.UserRepository
	Subs   repo.SubscriptionRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Images ImageStore
	Logger *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// RegisterInput is the signup payload; the handler has already run the
// struct-tag validation.
type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// Register creates the user with a bcrypt-hashed password. Duplicate email
// or username surfaces as a field-level validation conflict.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*UserView, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:     in.Email,
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  hash,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.NewValidation("email", "a user with this email or username already exists")
		}
		return nil, err
	}
	v := userView(u)
	return &v, nil
}

// Authenticate validates email/password without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates an access/refresh pair and records the session in
// Redis under user:session:<uid>.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"username":   u.Username,
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis session write failed")
		}
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates the session id and both tokens. The refresh token's sid
// must match the live session, so a stolen older token dies on first use.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}

	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{"sid": sid, "updated_at": nowRFC3339()})
		pipe.Expire(ctx, key, 24*time.Hour)
		_, _ = pipe.Exec(ctx)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, u.ID, nil
}

// Logout drops the Redis session so outstanding tokens stop validating.
func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, sessionKey(userID)).Err()
	}
}

// GetProfile returns the authenticated user's own view.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*UserView, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	v := userView(u)
	return &v, nil
}

// GetUser returns another user's view relative to the viewer.
func (s *UserService) GetUser(ctx context.Context, userID string, viewerID *string) (*UserView, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	v := userView(u)
	if viewerID != nil && *viewerID != u.ID {
		if sub, sErr := s.Subs.Exists(ctx, *viewerID, u.ID); sErr == nil {
			v.IsSubscribed = sub
		}
	}
	return &v, nil
}

// ListUsers pages over all users, with is_subscribed relative to the viewer.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int, viewerID *string) ([]UserView, int, error) {
	users, total, err := s.Users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	views := make([]UserView, 0, len(users))
	for i := range users {
		v := userView(&users[i])
		if viewerID != nil && *viewerID != v.ID {
			if sub, sErr := s.Subs.Exists(ctx, *viewerID, v.ID); sErr == nil {
				v.IsSubscribed = sub
			}
		}
		views = append(views, v)
	}
	return views, total, nil
}

// UpdateAvatar stores the submitted image and saves its URL on the user.
func (s *UserService) UpdateAvatar(ctx context.Context, userID, payload string) (string, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	url, err := storeImagePayload(ctx, s.Images, "avatars/"+userID, payload)
	if err != nil {
		if errors.Is(err, helpers.ErrBadImagePayload) {
			return "", apperr.NewValidation("avatar", "avatar must be a base64 encoded image")
		}
		return "", err
	}
	u.AvatarURL = url
	if err := s.Users.Update(ctx, u); err != nil {
		return "", err
	}
	return url, nil
}

// DeleteAvatar clears the stored avatar URL.
func (s *UserService) DeleteAvatar(ctx context.Context, userID string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.AvatarURL = ""
	return s.Users.Update(ctx, u)
}

func userView(u *entity.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Avatar:    u.AvatarURL,
	}
}
