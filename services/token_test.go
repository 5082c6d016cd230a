package services

import (
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/pokedex-tracker/models"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
}

func TestTokenPairRoundTrip(t *testing.T) {
	tm := newTestTokenManager()
	user := &models.User{ID: 7, Username: "ash"}

	pair, err := tm.IssuePair(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatalf("expected both tokens to be issued")
	}

	identity, err := tm.ParseAccess(pair.Access)
	if err != nil {
		t.Fatalf("unexpected error parsing access token: %v", err)
	}
	if identity.UserID != 7 || identity.Username != "ash" {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	claims, err := tm.ParseRefresh(pair.Refresh)
	if err != nil {
		t.Fatalf("unexpected error parsing refresh token: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "ash" {
		t.Fatalf("unexpected refresh claims: %+v", claims)
	}
	if claims.JTI == "" {
		t.Fatalf("expected refresh token to carry a jti")
	}
	if time.Until(claims.ExpiresAt) <= 0 {
		t.Fatalf("expected refresh expiry in future")
	}
}

func TestTokenTypeIsEnforced(t *testing.T) {
	tm := newTestTokenManager()
	pair, err := tm.IssuePair(&models.User{ID: 1, Username: "misty"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := tm.ParseAccess(pair.Refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for refresh-as-access, got %v", err)
	}
	if _, err := tm.ParseRefresh(pair.Access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for access-as-refresh, got %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute, -time.Minute)
	pair, err := tm.IssuePair(&models.User{ID: 1, Username: "brock"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := tm.ParseAccess(pair.Access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired access token, got %v", err)
	}
	if _, err := tm.ParseRefresh(pair.Refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired refresh token, got %v", err)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	tm := newTestTokenManager()

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := tm.ParseAccess(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}

func TestWrongSecretRejected(t *testing.T) {
	pair, err := newTestTokenManager().IssuePair(&models.User{ID: 1, Username: "gary"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := NewTokenManager("another-secret", 15*time.Minute, 24*time.Hour)
	if _, err := other.ParseAccess(pair.Access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}
