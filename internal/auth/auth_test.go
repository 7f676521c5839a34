package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"runlog/internal/store"
)

func TestExtractAthleteID(t *testing.T) {
	token := (&oauth2.Token{AccessToken: "a"}).WithExtra(map[string]any{
		"athlete": map[string]any{"id": float64(12345)},
	})

	assert.Equal(t, int64(12345), ExtractAthleteID(token))
	assert.Zero(t, ExtractAthleteID(&oauth2.Token{}))
}

func TestStoreAuthRoundTrip(t *testing.T) {
	expiry := time.Unix(1700000000, 0)
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: expiry}

	a := ToStoreAuth(token)
	back := FromStoreAuth(a)

	assert.Equal(t, "access", back.AccessToken)
	assert.Equal(t, "refresh", back.RefreshToken)
	assert.True(t, expiry.Equal(back.Expiry))
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		expectCode string
		expectErr  error
	}{
		{name: "success", query: "state=s1&code=abc", expectCode: "abc"},
		{name: "state mismatch", query: "state=other&code=abc", expectErr: ErrStateMismatch},
		{name: "missing code", query: "state=s1", expectErr: ErrNoCode},
		{name: "denied", query: "state=s1&error=access_denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codeCh := make(chan string, 1)
			errCh := make(chan error, 1)
			rec := httptest.NewRecorder()

			callbackHandler("s1", codeCh, errCh).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?"+tt.query, nil))

			if tt.expectCode != "" {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, tt.expectCode, <-codeCh)
				return
			}
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			err := <-errCh
			require.Error(t, err)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
			}
		})
	}
}

func TestGenerateState(t *testing.T) {
	a, err := generateState()
	require.NoError(t, err)
	b, err := generateState()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestTokenSourceReturnsValidToken(t *testing.T) {
	token := &oauth2.Token{AccessToken: "valid", Expiry: time.Now().Add(time.Hour)}
	ts := NewTokenSource(context.Background(), NewOAuthConfig(Config{}), token, nil)

	got, err := ts.Token()

	require.NoError(t, err)
	assert.Equal(t, "valid", got.AccessToken)
	assert.False(t, ts.IsExpired())
}

func TestTokenSourceRefreshesAndPersists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.Form.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "new-access", "refresh_token": "new-refresh", "token_type": "Bearer", "expires_in": 21600}`)
	}))
	defer srv.Close()

	db := store.NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.SaveAuth(ctx, &store.Auth{
		AthleteID:    1,
		AccessToken:  "old-access",
		RefreshToken: "old-refresh",
		ExpiresAt:    time.Now().Add(-time.Hour),
	}))

	cfg := NewOAuthConfig(Config{ClientID: "id", ClientSecret: "secret"})
	cfg.Endpoint.TokenURL = srv.URL

	ts, err := LoadTokenSource(ctx, cfg, db)
	require.NoError(t, err)
	assert.True(t, ts.IsExpired())

	got, err := ts.Token()

	require.NoError(t, err)
	assert.Equal(t, "new-access", got.AccessToken)
	assert.False(t, ts.IsExpired())

	saved, err := db.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new-access", saved.AccessToken)
	assert.Equal(t, "new-refresh", saved.RefreshToken)
}

func TestLoadTokenSourceWithoutAuth(t *testing.T) {
	db := store.NewTestDB(t)

	_, err := LoadTokenSource(context.Background(), NewOAuthConfig(Config{}), db)

	assert.ErrorIs(t, err, store.ErrNoAuth)
}
