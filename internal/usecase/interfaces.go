package usecase

import (
	"context"
	"io"
)

// AuthProvider is the external authentication service.
type AuthProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, idToken string) (string, error)
	SignInWithEmailPassword(email, password string) (idToken, refreshToken string, err error)
	RefreshIDToken(refreshToken string) (idToken, newRefreshToken string, err error)
	SendPasswordResetEmail(email, continueURL string) error
	UpdateUserPassword(ctx context.Context, uid, newPassword string) error
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// FileUploader is the external object storage service.
type FileUploader interface {
	UploadFile(ctx context.Context, file io.Reader, contentType, objectPath string) (string, error)
}
