package firebase

import (
	"context"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
)

// AuthClient wraps the Firebase Admin SDK plus the Identity Toolkit
// REST endpoints the SDK does not cover (password sign-in, password
// reset email, token refresh).
type AuthClient struct {
	client     *auth.Client
	apiKey     string
	httpClient *http.Client
}

func NewAuthClient(client *auth.Client, apiKey string) *AuthClient {
	return &AuthClient{
		client: client,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (a *AuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := a.client.CreateUser(ctx, params)
	if err != nil {
		return "", err
	}

	return user.UID, nil
}

func (a *AuthClient) VerifyToken(ctx context.Context, idToken string) (string, error) {
	token, err := a.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}

	return token.UID, nil
}

func (a *AuthClient) UpdateUserPassword(ctx context.Context, uid, newPassword string) error {
	params := (&auth.UserToUpdate{}).
		Password(newPassword)

	_, err := a.client.UpdateUser(ctx, uid, params)
	return err
}

func (a *AuthClient) RevokeRefreshTokens(ctx context.Context, uid string) error {
	return a.client.RevokeRefreshTokens(ctx, uid)
}
