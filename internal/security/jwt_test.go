package security

import (
	"errors"
	"testing"
	"time"
)

func newTestManager(accessTTL, refreshTTL time.Duration) *JWTManager {
	return NewJWTManager("asset-maintenance-api", "access-secret", "refresh-secret", accessTTL, refreshTTL)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager(time.Hour, 2*time.Hour)

	raw, err := m.SignAccessToken(42, "admin")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := m.ParseAccessToken(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	id, err := claims.AccountID()
	if err != nil {
		t.Fatalf("account id: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected account id 42, got %d", id)
	}
	if claims.Role != "admin" {
		t.Fatalf("expected role admin, got %q", claims.Role)
	}
}

func TestRefreshTokenCarriesSessionID(t *testing.T) {
	m := newTestManager(time.Hour, 2*time.Hour)
	sid := NewSessionID()

	raw, err := m.SignRefreshToken(7, sid)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := m.ParseRefreshToken(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ID != sid {
		t.Fatalf("expected jti %q, got %q", sid, claims.ID)
	}
	id, _ := claims.AccountID()
	if id != 7 {
		t.Fatalf("expected account id 7, got %d", id)
	}
}

func TestParseRejectsWrongTokenType(t *testing.T) {
	m := newTestManager(time.Hour, 2*time.Hour)

	access, err := m.SignAccessToken(1, "basic")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.ParseRefreshToken(access); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for access token on refresh parse, got %v", err)
	}
}

func TestParseDistinguishesExpiryFromTampering(t *testing.T) {
	m := newTestManager(-time.Minute, -time.Minute)

	expired, err := m.SignAccessToken(1, "basic")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.ParseAccessToken(expired); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	if _, err := m.ParseAccessToken(expired + "tampered"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered token, got %v", err)
	}
}

func TestSecretsAreNotInterchangeable(t *testing.T) {
	m := newTestManager(time.Hour, 2*time.Hour)
	other := NewJWTManager("asset-maintenance-api", "other-access", "other-refresh", time.Hour, 2*time.Hour)

	raw, err := m.SignRefreshToken(9, NewSessionID())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := other.ParseRefreshToken(raw); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid across secrets, got %v", err)
	}
}

func TestHashRefreshTokenIsPeppered(t *testing.T) {
	a := HashRefreshToken("tok", "pepper-a")
	b := HashRefreshToken("tok", "pepper-b")
	if a == b {
		t.Fatal("expected different peppers to produce different hashes")
	}
	if !HashesEqual(a, HashRefreshToken("tok", "pepper-a")) {
		t.Fatal("expected identical input to produce equal hashes")
	}
}
