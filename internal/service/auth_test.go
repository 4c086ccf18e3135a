package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/raian-antunes/group-management-platform/internal/config"
	"github.com/raian-antunes/group-management-platform/internal/domain"
)

func testSessionConfig(lifetime time.Duration) config.Session {
	return config.Session{
		Secret:   "0123456789abcdef0123456789abcdef",
		Lifetime: lifetime,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	auth := NewAuthService(testSessionConfig(time.Hour))

	token, err := auth.IssueSession(context.Background(), domain.User{
		ID:   "user-1",
		Role: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	result, err := auth.VerifySession(context.Background(), token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if result.UserID != "user-1" || result.Role != domain.RoleAdmin {
		t.Fatalf("unexpected session identity: %+v", result)
	}
}

func TestSessionRejectsTampering(t *testing.T) {
	auth := NewAuthService(testSessionConfig(time.Hour))

	token, err := auth.IssueSession(context.Background(), domain.User{
		ID:   "user-1",
		Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	if _, err := auth.VerifySession(context.Background(), tampered); err == nil {
		t.Fatal("tampered token must not verify")
	}
}

func TestSessionRejectsGarbage(t *testing.T) {
	auth := NewAuthService(testSessionConfig(time.Hour))

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := auth.VerifySession(context.Background(), token); err == nil {
			t.Fatalf("token %q must not verify", token)
		}
	}
}

func TestSessionRejectsExpired(t *testing.T) {
	auth := NewAuthService(testSessionConfig(-time.Minute))

	token, err := auth.IssueSession(context.Background(), domain.User{
		ID:   "user-1",
		Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := auth.VerifySession(context.Background(), token); err == nil {
		t.Fatal("expired token must not verify")
	}
}

func TestSessionRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(testSessionConfig(time.Hour))
	verifier := NewAuthService(config.Session{
		Secret:   "ffffffffffffffffffffffffffffffff",
		Lifetime: time.Hour,
	})

	token, err := issuer.IssueSession(context.Background(), domain.User{
		ID:   "user-1",
		Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := verifier.VerifySession(context.Background(), token); err == nil {
		t.Fatal("token signed with another secret must not verify")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hashed, err := HashPassword("secret-pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hashed == "secret-pass" {
		t.Fatal("hash must not equal the plain password")
	}
	if !VerifyPassword("secret-pass", hashed) {
		t.Fatal("password must verify against its own hash")
	}
	if VerifyPassword("wrong", hashed) {
		t.Fatal("wrong password must not verify")
	}
}
