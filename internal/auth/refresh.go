package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"runlog/internal/store"
)

// expiryBuffer refreshes tokens this long before they expire
const expiryBuffer = 60 * time.Second

// TokenStore persists refreshed tokens
type TokenStore interface {
	GetAuth(ctx context.Context) (*store.Auth, error)
	UpdateTokens(ctx context.Context, accessToken, refreshToken string, expiresAt time.Time) error
}

// TokenSource refreshes the Strava token when it nears expiry and writes
// every new token back to the store
type TokenSource struct {
	ctx    context.Context
	config *oauth2.Config
	store  TokenStore

	mu    sync.Mutex
	token *oauth2.Token
}

// NewTokenSource creates a TokenSource starting from token
func NewTokenSource(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token, s TokenStore) *TokenSource {
	return &TokenSource{ctx: ctx, config: cfg, token: token, store: s}
}

// LoadTokenSource creates a TokenSource from the stored tokens.
// Returns store.ErrNoAuth when the user has not connected Strava yet.
func LoadTokenSource(ctx context.Context, cfg *oauth2.Config, s TokenStore) (*TokenSource, error) {
	a, err := s.GetAuth(ctx)
	if err != nil {
		return nil, err
	}
	return NewTokenSource(ctx, cfg, FromStoreAuth(a), s), nil
}

// Token returns a valid token, refreshing it if necessary
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if !needsRefresh(ts.token) {
		return ts.token, nil
	}

	fresh, err := ts.config.TokenSource(ts.ctx, &oauth2.Token{RefreshToken: ts.token.RefreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}

	if ts.store != nil {
		if err := ts.store.UpdateTokens(ts.ctx, fresh.AccessToken, fresh.RefreshToken, fresh.Expiry); err != nil {
			return nil, fmt.Errorf("saving refreshed token: %w", err)
		}
	}

	ts.token = fresh
	return fresh, nil
}

// IsExpired reports whether the current token needs a refresh
func (ts *TokenSource) IsExpired() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return needsRefresh(ts.token)
}

func needsRefresh(t *oauth2.Token) bool {
	return t == nil || t.AccessToken == "" || time.Until(t.Expiry) <= expiryBuffer
}
