package auth_test

import (
	"testing"
	"time"

	"campus-complaints-api/internal/auth"
	"campus-complaints-api/internal/model"
)

const secret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	tok, err := auth.MakeToken("2021000001", model.RoleLecturer, secret, time.Minute)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}

	c, err := auth.ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if c.ComputerNumber != "2021000001" {
		t.Fatalf("computer number: %q", c.ComputerNumber)
	}
	if c.Role != model.RoleLecturer {
		t.Fatalf("role: %q", c.Role)
	}
}

func TestTokenExpiry(t *testing.T) {
	tok, err := auth.MakeToken("2021000001", model.RoleStudent, secret, -time.Minute)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}
	if _, err := auth.ParseToken(tok, secret); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	tok, err := auth.MakeToken("2021000001", model.RoleStudent, secret, time.Minute)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}
	if _, err := auth.ParseToken(tok, "other-secret"); err == nil {
		t.Fatal("token accepted with wrong secret")
	}
}

func TestTokenGarbage(t *testing.T) {
	for _, raw := range []string{"", "not.a.jwt", "a.b.c"} {
		if _, err := auth.ParseToken(raw, secret); err == nil {
			t.Fatalf("garbage token accepted: %q", raw)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !auth.CheckPassword(hash, "correct horse") {
		t.Fatal("correct password rejected")
	}
	if auth.CheckPassword(hash, "wrong horse") {
		t.Fatal("wrong password accepted")
	}
}

func TestRefreshToken(t *testing.T) {
	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(raw) != 64 {
		t.Fatalf("raw length: %d", len(raw))
	}
	if auth.HashRefreshToken(raw) != hash {
		t.Fatal("hash mismatch")
	}

	raw2, _, err := auth.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if raw == raw2 {
		t.Fatal("tokens not unique")
	}
}
