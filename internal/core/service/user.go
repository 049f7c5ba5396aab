package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"todohub/internal/core/domain"
	"todohub/internal/core/model/request"
	"todohub/internal/core/model/response"
	"todohub/internal/core/port"
	"todohub/internal/core/util"
)

// TokenIssuer signs an access token for a user id. Satisfied by pkg/auth.JWT.
type TokenIssuer interface {
	CreateToken(userID int) (string, error)
}

// refreshTokenTTL is how long a refresh token stays exchangeable.
const refreshTokenTTL = 7 * 24 * time.Hour

type UserService struct {
	users   port.UserRepository
	refresh port.RefreshTokenRepository
	tokens  TokenIssuer
	logger  zerolog.Logger
	now     func() time.Time
}

func NewUserService(users port.UserRepository, refresh port.RefreshTokenRepository, tokens TokenIssuer, logger zerolog.Logger) *UserService {
	return &UserService{
		users:   users,
		refresh: refresh,
		tokens:  tokens,
		logger:  logger.With().Str("service", "user").Logger(),
		now:     time.Now,
	}
}

// SignUp creates the account and signs the first token in one step. Email is
// stored lowercased; duplicates conflict.
func (s *UserService) SignUp(ctx context.Context, req request.SignUpRequest) (response.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return response.AuthResponse{}, domain.Conflictf("email %s is already registered", email)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return response.AuthResponse{}, err
	}

	encrypted, err := util.GenerateEncrypt(req.Password)

	if err != nil {
		return response.AuthResponse{}, err
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:             email,
		EncryptedPassword: encrypted,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Theme:             domain.ThemeLight,
		CreatedAt:         s.now().UTC(),
	})

	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("signup failed")
		return response.AuthResponse{}, err
	}

	return s.authResponse(ctx, user)
}

// Login verifies credentials. Unknown email and wrong password read the same
// to the caller.
func (s *UserService) Login(ctx context.Context, req request.LoginRequest) (response.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.AuthResponse{}, domain.Invalidf("invalid email or password")
		}
		return response.AuthResponse{}, err
	}

	if err := util.ComparePassword(req.Password, user.EncryptedPassword); err != nil {
		return response.AuthResponse{}, domain.Invalidf("invalid email or password")
	}

	return s.authResponse(ctx, user)
}

func (s *UserService) Get(ctx context.Context, userID int) (response.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)

	if err != nil {
		return response.UserResponse{}, err
	}

	return mapUser(user), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int, req request.UpdateProfileRequest) (response.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)

	if err != nil {
		return response.UserResponse{}, err
	}

	if firstName, ok := req.FirstName.Get(); ok {
		user.FirstName = firstName
	}

	if lastName, ok := req.LastName.Get(); ok {
		user.LastName = lastName
	}

	now := s.now().UTC()
	user.UpdatedAt = &now

	updated, err := s.users.Update(ctx, user)

	if err != nil {
		return response.UserResponse{}, err
	}

	return mapUser(updated), nil
}

func (s *UserService) UpdateTheme(ctx context.Context, userID int, theme string) (response.UserResponse, error) {
	if err := domain.ValidateTheme(theme); err != nil {
		return response.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)

	if err != nil {
		return response.UserResponse{}, err
	}

	now := s.now().UTC()
	user.Theme = theme
	user.UpdatedAt = &now

	updated, err := s.users.Update(ctx, user)

	if err != nil {
		return response.UserResponse{}, err
	}

	return mapUser(updated), nil
}

// Refresh exchanges a refresh token for a new access/refresh pair. Tokens are
// single-use: the presented token is revoked before the new pair is issued, so
// a replayed token is rejected.
func (s *UserService) Refresh(ctx context.Context, token string) (response.AuthResponse, error) {
	stored, err := s.refresh.GetByToken(ctx, token)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.AuthResponse{}, domain.Invalidf("invalid or expired refresh token")
		}
		return response.AuthResponse{}, err
	}

	now := s.now().UTC()

	if !stored.Usable(now) {
		return response.AuthResponse{}, domain.Invalidf("invalid or expired refresh token")
	}

	if err := s.refresh.Revoke(ctx, stored.ID, now); err != nil {
		return response.AuthResponse{}, err
	}

	user, err := s.users.GetByID(ctx, stored.UserID)

	if err != nil {
		return response.AuthResponse{}, err
	}

	return s.authResponse(ctx, user)
}

func (s *UserService) authResponse(ctx context.Context, user domain.User) (response.AuthResponse, error) {
	token, err := s.tokens.CreateToken(user.ID)

	if err != nil {
		s.logger.Error().Err(err).Int("user_id", user.ID).Msg("token signing failed")
		return response.AuthResponse{}, err
	}

	now := s.now().UTC()

	refresh, err := s.refresh.Create(ctx, domain.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(refreshTokenTTL),
		CreatedAt: now,
	})

	if err != nil {
		s.logger.Error().Err(err).Int("user_id", user.ID).Msg("refresh token issue failed")
		return response.AuthResponse{}, err
	}

	return response.AuthResponse{Token: token, RefreshToken: refresh.Token, User: mapUser(user)}, nil
}

func mapUser(user domain.User) response.UserResponse {
	return response.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Theme:     user.Theme,
		CreatedAt: user.CreatedAt,
	}
}
