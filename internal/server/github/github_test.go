package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeGithub starts a server that answers both the OAuth token exchange
// and the user profile request.
func newFakeGithub(t *testing.T, tokenHandler, userHandler http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", tokenHandler)
	mux.HandleFunc("/user", userHandler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewClient("cid", "csecret", srv.URL+"/login/oauth", srv.URL)
}

func TestResolve_Success(t *testing.T) {
	client := newFakeGithub(t,
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "good-code", r.URL.Query().Get("code"))
			assert.Equal(t, "cid", r.URL.Query().Get("client_id"))
			assert.Equal(t, "csecret", r.URL.Query().Get("client_secret"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"gh-token"}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":123,"login":"alice","name":"Alice","avatar_url":"https://avatars.example/alice"}`))
		},
	)

	id, err := client.Resolve(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, int64(123), id.GithubID)
	assert.Equal(t, "alice", id.Login)
	assert.Equal(t, "Alice", id.Name)
	assert.Equal(t, "https://avatars.example/alice", id.AvatarURL)
}

func TestResolve_BadCode(t *testing.T) {
	client := newFakeGithub(t,
		func(w http.ResponseWriter, r *http.Request) {
			// GitHub answers 200 with an error field for bad codes.
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"error":"bad_verification_code"}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("user endpoint must not be called for a bad code")
		},
	)

	_, err := client.Resolve(context.Background(), "bad-code")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestResolve_TokenEndpointFailure(t *testing.T) {
	client := newFakeGithub(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		func(w http.ResponseWriter, r *http.Request) {},
	)

	_, err := client.Resolve(context.Background(), "any")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)
}

func TestResolve_RevokedToken(t *testing.T) {
	client := newFakeGithub(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"stale"}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	)

	_, err := client.Resolve(context.Background(), "any")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestResolve_IncompleteProfile(t *testing.T) {
	client := newFakeGithub(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"gh-token"}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"No ID"}`))
		},
	)

	_, err := client.Resolve(context.Background(), "any")
	assert.Error(t, err)
}
