package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const credentialsJSON = `{
  "installed": {
    "client_id": "123.apps.googleusercontent.com",
    "client_secret": "shh",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "redirect_uris": ["http://localhost"]
  }
}`

func writeCredentials(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(credentialsJSON), 0o600))
	return path
}

func TestLoadOAuthConfig(t *testing.T) {
	config, err := LoadOAuthConfig(writeCredentials(t))
	require.NoError(t, err)

	assert.Equal(t, "123.apps.googleusercontent.com", config.ClientID)
	assert.Equal(t, DefaultScopes, config.Scopes)

	url := AuthURL(config, "state-1")
	assert.True(t, strings.HasPrefix(url, "https://accounts.google.com/o/oauth2/auth?"))
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "state=state-1")
}

func TestLoadOAuthConfigMissing(t *testing.T) {
	_, err := LoadOAuthConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "read credentials")
}

func TestTokenRoundTrip(t *testing.T) {
	creds := writeCredentials(t)
	path := TokenPath(creds)
	assert.Equal(t, filepath.Join(filepath.Dir(creds), "token.json"), path)

	want := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, SaveToken(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
	assert.True(t, want.Expiry.Equal(got.Expiry))
}

func TestLoadTokenMissing(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "token.json"))
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestLoadTokenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))
	_, err := LoadToken(path)
	assert.ErrorContains(t, err, "holds no credentials")
}
