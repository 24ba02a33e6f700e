package auth

import (
	"testing"
	"time"
)

func TestIssueParseRoundTrip(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "storefront", TTL: time.Hour}

	token, err := j.Issue("admin", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := j.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Actor != "admin" || claims.Role != "admin" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.Issuer != "storefront" {
		t.Fatalf("issuer = %q", claims.Issuer)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := &JWTer{Secret: []byte("right"), Issuer: "storefront", TTL: time.Hour}
	verifier := &JWTer{Secret: []byte("wrong"), Issuer: "storefront", TTL: time.Hour}

	token, err := issuer.Issue("admin", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Parse(token); err == nil {
		t.Fatal("token signed with another secret must not verify")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	issuer := &JWTer{Secret: []byte("s"), Issuer: "someone-else", TTL: time.Hour}
	verifier := &JWTer{Secret: []byte("s"), Issuer: "storefront", TTL: time.Hour}

	token, err := issuer.Issue("admin", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Parse(token); err == nil {
		t.Fatal("token from another issuer must not verify")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	j := &JWTer{Secret: []byte("s"), Issuer: "storefront", TTL: -2 * time.Minute}

	token, err := j.Issue("admin", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := j.Parse(token); err == nil {
		t.Fatal("expired token must not verify")
	}
}
