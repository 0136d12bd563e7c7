// Package auth provides Google OAuth2 authentication for the owner
// notification mailer.
//
// It reads a Google client credentials.json and a token.json stored next to
// it. token.json is written by `folio notify login` and refreshed in place.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// DefaultScopes only allows sending mail.
var DefaultScopes = []string{
	gmail.GmailSendScope,
}

// ErrNoToken is returned when token.json has not been created yet.
var ErrNoToken = errors.New("no token: run `folio notify login` first")

// TokenPath returns the token.json path for a credentials file.
func TokenPath(credentialsPath string) string {
	return filepath.Join(filepath.Dir(credentialsPath), "token.json")
}

// LoadGmailService returns an authenticated Gmail API service.
// credentialsPath should point to the credentials.json file.
func LoadGmailService(ctx context.Context, credentialsPath string, log *zap.Logger) (*gmail.Service, error) {
	client, err := getClient(ctx, credentialsPath, log)
	if err != nil {
		return nil, fmt.Errorf("get oauth client: %w", err)
	}
	return gmail.NewService(ctx, option.WithHTTPClient(client))
}

// getClient returns an authenticated HTTP client by loading the OAuth config
// from credentials.json and the token from token.json.
func getClient(ctx context.Context, credentialsPath string, log *zap.Logger) (*http.Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	config, err := LoadOAuthConfig(credentialsPath)
	if err != nil {
		return nil, err
	}

	tokenPath := TokenPath(credentialsPath)
	token, err := LoadToken(tokenPath)
	if err != nil {
		return nil, err
	}

	ts := config.TokenSource(ctx, token)
	newToken, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	if newToken.AccessToken != token.AccessToken {
		if saveErr := SaveToken(tokenPath, newToken); saveErr != nil {
			log.Warn("could not save refreshed token", zap.String("path", tokenPath), zap.Error(saveErr))
		}
	}

	return oauth2.NewClient(ctx, ts), nil
}

// LoadOAuthConfig reads credentials.json and returns an OAuth2 config.
func LoadOAuthConfig(credentialsPath string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read credentials from %s: %w", credentialsPath, err)
	}

	config, err := google.ConfigFromJSON(data, DefaultScopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	return config, nil
}

// AuthURL returns the consent page URL for an offline token.
func AuthURL(config *oauth2.Config, state string) string {
	return config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token and stores it next to
// the credentials file.
func Exchange(ctx context.Context, config *oauth2.Config, credentialsPath, code string) error {
	token, err := config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	return SaveToken(TokenPath(credentialsPath), token)
}

// LoadToken reads a token.json file.
func LoadToken(tokenPath string) (*oauth2.Token, error) {
	data, err := os.ReadFile(tokenPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, fmt.Errorf("parse token: %s holds no credentials", tokenPath)
	}
	return &token, nil
}

// SaveToken writes a token with owner-only permissions.
func SaveToken(tokenPath string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(tokenPath, data, 0o600)
}
