package util

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseToken(t *testing.T) {
	tok, err := GenerateToken("s3cret", "fleet-dashboard", "dispatcher", "Dispatcher One", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error = %v", err)
	}

	claims, err := ParseToken("s3cret", "fleet-dashboard", tok)
	if err != nil {
		t.Fatalf("ParseToken error = %v", err)
	}
	if claims.Operator() != "dispatcher" {
		t.Errorf("Operator() = %q, want %q", claims.Operator(), "dispatcher")
	}
	if claims.Name != "Dispatcher One" {
		t.Errorf("Name = %q, want %q", claims.Name, "Dispatcher One")
	}
}

func TestParseToken_Rejects(t *testing.T) {
	valid, _ := GenerateToken("s3cret", "fleet-dashboard", "dispatcher", "", time.Hour)

	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "dispatcher",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("s3cret"))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "dispatcher"},
	}).SignedString([]byte("s3cret"))

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("s3cret"))

	testCases := []struct {
		name, secret, issuer, token string
	}{
		{"wrong secret", "other", "fleet-dashboard", valid},
		{"wrong issuer", "s3cret", "someone-else", valid},
		{"expired", "s3cret", "", expired},
		{"no expiry", "s3cret", "", noExpiry},
		{"no subject", "s3cret", "", noSubject},
		{"garbage", "s3cret", "", "not.a.token"},
	}

	for _, tc := range testCases {
		if _, err := ParseToken(tc.secret, tc.issuer, tc.token); err == nil {
			t.Errorf("%s: ParseToken error = nil, want error", tc.name)
		}
	}
}

func TestParseToken_ExpiredIsDetectable(t *testing.T) {
	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "dispatcher",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("s3cret"))

	_, err := ParseToken("s3cret", "", expired)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("ParseToken error = %v, want ErrTokenExpired", err)
	}
}

func TestGenerateToken_Invalid(t *testing.T) {
	if _, err := GenerateToken("", "", "dispatcher", "", time.Hour); err == nil {
		t.Error("empty secret error = nil, want error")
	}
	if _, err := GenerateToken("s3cret", "", "", "", time.Hour); err == nil {
		t.Error("empty operator error = nil, want error")
	}
}
