package firebase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"
	secureTokenURL     = "https://securetoken.googleapis.com/v1/token"
)

type identityToolkitError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithEmailPassword exchanges credentials for an ID token and a
// refresh token through the Identity Toolkit REST API.
func (a *AuthClient) SignInWithEmailPassword(email, password string) (string, string, error) {
	body, err := json.Marshal(map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return "", "", err
	}

	endpoint := fmt.Sprintf("%s/accounts:signInWithPassword?key=%s", identityToolkitURL, a.apiKey)
	resp, err := a.httpClient.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", decodeIdentityToolkitError(resp)
	}

	var result struct {
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", err
	}

	return result.IDToken, result.RefreshToken, nil
}

// SendPasswordResetEmail asks the provider to send a reset email whose
// in-email link continues to the given URL.
func (a *AuthClient) SendPasswordResetEmail(email, continueURL string) error {
	body, err := json.Marshal(map[string]interface{}{
		"requestType": "PASSWORD_RESET",
		"email":       email,
		"continueUrl": continueURL,
	})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/accounts:sendOobCode?key=%s", identityToolkitURL, a.apiKey)
	resp, err := a.httpClient.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeIdentityToolkitError(resp)
	}

	return nil
}

// RefreshIDToken exchanges a refresh token for a fresh ID token.
func (a *AuthClient) RefreshIDToken(refreshToken string) (string, string, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	endpoint := fmt.Sprintf("%s?key=%s", secureTokenURL, a.apiKey)
	resp, err := a.httpClient.Post(endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", decodeIdentityToolkitError(resp)
	}

	var result struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", err
	}

	return result.IDToken, result.RefreshToken, nil
}

// decodeIdentityToolkitError surfaces the provider's own error message
// (e.g. EMAIL_NOT_FOUND, INVALID_PASSWORD) verbatim.
func decodeIdentityToolkitError(resp *http.Response) error {
	var payload identityToolkitError
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error.Message == "" {
		return fmt.Errorf("identity toolkit request failed with status %d", resp.StatusCode)
	}
	return fmt.Errorf("%s", payload.Error.Message)
}
