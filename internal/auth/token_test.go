package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("not-the-backend-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return raw
}

func TestInspectToken(t *testing.T) {
	issued := time.Now().Add(-time.Hour).Truncate(time.Second)
	expires := issued.Add(24 * time.Hour)
	raw := signTestToken(t, jwt.RegisteredClaims{
		Subject:   "yoga@studio.com",
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	})

	claims, err := InspectToken(raw)
	if err != nil {
		t.Fatalf("InspectToken: %v", err)
	}
	if claims.Subject != "yoga@studio.com" {
		t.Errorf("Subject = %q", claims.Subject)
	}
	if !claims.IssuedAt.Equal(issued) || !claims.ExpiresAt.Equal(expires) {
		t.Errorf("unexpected times: %+v", claims)
	}
	if claims.Expired(time.Now()) {
		t.Error("token should not be expired yet")
	}
	if !claims.Expired(expires.Add(time.Second)) {
		t.Error("token should be expired after its expiry")
	}
}

func TestInspectToken_NoExpiryNeverExpires(t *testing.T) {
	claims, err := InspectToken(signTestToken(t, jwt.RegisteredClaims{Subject: "x"}))
	if err != nil {
		t.Fatalf("InspectToken: %v", err)
	}
	if claims.Expired(time.Now().Add(100 * 365 * 24 * time.Hour)) {
		t.Error("token without exp should never be reported expired")
	}
}

func TestInspectToken_Malformed(t *testing.T) {
	for _, raw := range []string{"", "token", "a.b.c"} {
		if _, err := InspectToken(raw); !errors.Is(err, ErrMalformedToken) {
			t.Errorf("InspectToken(%q) error = %v, want ErrMalformedToken", raw, err)
		}
	}
}
