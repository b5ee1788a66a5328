package usecase

import (
	"context"
	"strings"
	"time"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/pkg/errors"
	"tradepost/pkg/logger"
)

type AuthUseCase struct {
	userRepo     repository.UserRepository
	authProvider AuthProvider
}

func NewAuthUseCase(userRepo repository.UserRepository, authProvider AuthProvider) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		authProvider: authProvider,
	}
}

type AuthResult struct {
	User         *entity.User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
}

// Register creates the account with the provider and its profile row.
// The display name is derived from the email local part; the admin
// flag is never taken from input.
func (uc *AuthUseCase) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.BadRequest("Email already in use", nil)
	}
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	username := emailLocalPart(email)

	uid, err := uc.authProvider.CreateUser(ctx, email, password, username)
	if err != nil {
		return nil, errors.BadRequest(err.Error(), err)
	}

	now := time.Now()
	user := &entity.User{
		ID:        uid,
		Email:     email,
		Username:  username,
		IsAdmin:   false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Internal("Failed to create profile record", err)
	}

	token, refreshToken, err := uc.authProvider.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, errors.Internal("Failed to sign in after registration", err)
	}

	return &AuthResult{
		User:         user,
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

// Login exchanges credentials for tokens and merges the profile row
// into the returned identity.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	token, refreshToken, err := uc.authProvider.SignInWithEmailPassword(email, password)
	if err != nil {
		logger.Warn("Login failed for %s: %v", email, err)
		return nil, errors.Unauthorized(err.Error(), err)
	}

	uid, err := uc.authProvider.VerifyToken(ctx, token)
	if err != nil {
		return nil, errors.Internal("Failed to verify token", err)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, errors.NotFound("Profile", err)
	}

	return &AuthResult{
		User:         user,
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}

// GetSession returns the merged identity for an authenticated user.
func (uc *AuthUseCase) GetSession(ctx context.Context, uid string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, errors.NotFound("Profile", err)
	}
	return user, nil
}

func (uc *AuthUseCase) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	token, newRefreshToken, err := uc.authProvider.RefreshIDToken(refreshToken)
	if err != nil {
		return nil, errors.Unauthorized(err.Error(), err)
	}

	uid, err := uc.authProvider.VerifyToken(ctx, token)
	if err != nil {
		return nil, errors.Internal("Failed to verify refreshed token", err)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, errors.NotFound("Profile", err)
	}

	return &AuthResult{
		User:         user,
		Token:        token,
		RefreshToken: newRefreshToken,
	}, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, uid string) error {
	if err := uc.authProvider.RevokeRefreshTokens(ctx, uid); err != nil {
		return errors.Internal("Failed to revoke session", err)
	}
	return nil
}

func (uc *AuthUseCase) ResetPassword(ctx context.Context, email, continueURL string) error {
	if err := uc.authProvider.SendPasswordResetEmail(email, continueURL); err != nil {
		return errors.BadRequest(err.Error(), err)
	}
	return nil
}

func (uc *AuthUseCase) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	if err := uc.authProvider.UpdateUserPassword(ctx, uid, newPassword); err != nil {
		return errors.BadRequest(err.Error(), err)
	}
	return nil
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
