package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTokenServer(t *testing.T, body map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthURL_CarriesStateAndScopes(t *testing.T) {
	g := NewGoogleOAuth("client-1", "secret", "http://localhost:4000/auth/google/callback")

	u, err := url.Parse(g.AuthURL("state-123"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Contains(t, q.Get("scope"), "openid")
	assert.Equal(t, "http://localhost:4000/auth/google/callback", q.Get("redirect_uri"))
}

func TestExchangeIDToken(t *testing.T) {
	srv := newTokenServer(t, map[string]any{
		"access_token": "at",
		"token_type":   "Bearer",
		"id_token":     "google:ana@example.com",
	})
	g := NewGoogleOAuthWithEndpoint("c", "s", "http://localhost/cb", oauth2.Endpoint{
		AuthURL:  srv.URL + "/auth",
		TokenURL: srv.URL + "/token",
	})

	idToken, err := g.ExchangeIDToken(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "google:ana@example.com", idToken)
}

func TestExchangeIDToken_Missing(t *testing.T) {
	srv := newTokenServer(t, map[string]any{"access_token": "at", "token_type": "Bearer"})
	g := NewGoogleOAuthWithEndpoint("c", "s", "http://localhost/cb", oauth2.Endpoint{
		AuthURL:  srv.URL + "/auth",
		TokenURL: srv.URL + "/token",
	})

	_, err := g.ExchangeIDToken(context.Background(), "the-code")
	assert.ErrorIs(t, err, ErrNoIDToken)
}

func TestNewState_Unique(t *testing.T) {
	assert.NotEqual(t, NewState(), NewState())
}
