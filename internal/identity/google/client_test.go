package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, tokenHandler, userinfoHandler http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", tokenHandler)
	mux.HandleFunc("/userinfo", userinfoHandler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "https://app.example/callback",
		AuthURL:      srv.URL + "/auth",
		TokenURL:     srv.URL + "/token",
		UserInfoURL:  srv.URL + "/userinfo",
	})
}

func TestAuthCodeURL(t *testing.T) {
	client := NewClient(Config{
		ClientID:    "client-id",
		RedirectURL: "https://app.example/callback",
	})

	raw := client.AuthCodeURL("xyz")

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "client-id", parsed.Query().Get("client_id"))
	assert.Equal(t, "https://app.example/callback", parsed.Query().Get("redirect_uri"))
	assert.Equal(t, "code", parsed.Query().Get("response_type"))
	assert.Equal(t, "openid email profile", parsed.Query().Get("scope"))
	assert.Equal(t, "xyz", parsed.Query().Get("state"))
}

func TestExchange_ReturnsProfile(t *testing.T) {
	client := newTestClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
			assert.Equal(t, "auth-code", r.PostForm.Get("code"))
			assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
			w.Write([]byte(`{"access_token": "provider-token", "token_type": "Bearer", "expires_in": 3599}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer provider-token", r.Header.Get("Authorization"))
			w.Write([]byte(`{
				"sub": "google-sub-1",
				"email": "ada@example.com",
				"given_name": "Ada",
				"family_name": "Lovelace",
				"picture": "https://example.com/ada.png"
			}`))
		})

	profile, err := client.Exchange(context.Background(), "auth-code")

	require.NoError(t, err)
	assert.Equal(t, "google-sub-1", profile.Sub)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, "Ada", profile.GivenName)
	assert.Equal(t, "Lovelace", profile.FamilyName)
}

func TestExchange_RejectedCode(t *testing.T) {
	client := newTestClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "invalid_grant"}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("userinfo should not be called after a failed exchange")
		})

	_, err := client.Exchange(context.Background(), "bad-code")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "token exchange failed")
}

func TestExchange_EmptySubjectRejected(t *testing.T) {
	client := newTestClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"access_token": "provider-token"}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"sub": "", "email": "ada@example.com"}`))
		})

	_, err := client.Exchange(context.Background(), "auth-code")

	assert.Error(t, err)
}
