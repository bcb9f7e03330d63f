package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret-at-least-32-characters!!"

func testUser() *User {
	return &User{
		ID:    "usr-12345678",
		Email: "worker@example.com",
		Role:  RoleWarehouseWorker,
	}
}

func TestIssuer_AccessTokenRoundTrip(t *testing.T) {
	issuer := NewIssuer(testSecret, 15*time.Minute, 7*24*time.Hour)
	user := testUser()

	token, err := issuer.IssueAccess(user)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if claims.Subject != user.ID {
		t.Errorf("Subject = %q, want %q", claims.Subject, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("Email = %q, want %q", claims.Email, user.Email)
	}
	if claims.Role != RoleWarehouseWorker {
		t.Errorf("Role = %q, want %q", claims.Role, RoleWarehouseWorker)
	}
	if claims.ID == "" {
		t.Error("token should carry a unique JTI")
	}
}

func TestIssuer_RefreshTokenLongerLived(t *testing.T) {
	issuer := NewIssuer(testSecret, 15*time.Minute, 7*24*time.Hour)
	user := testUser()

	access, err := issuer.IssueAccess(user)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}
	refresh, err := issuer.IssueRefresh(user)
	if err != nil {
		t.Fatalf("IssueRefresh() error = %v", err)
	}

	accessClaims, err := issuer.Verify(access)
	if err != nil {
		t.Fatalf("Verify(access) error = %v", err)
	}
	refreshClaims, err := issuer.Verify(refresh)
	if err != nil {
		t.Fatalf("Verify(refresh) error = %v", err)
	}

	if !refreshClaims.ExpiresAt.After(accessClaims.ExpiresAt.Time) {
		t.Error("refresh token should expire after the access token")
	}
}

func TestIssuer_ExpiredToken(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Nanosecond, time.Nanosecond)

	token, err := issuer.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := issuer.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify() error = %v, want ErrTokenInvalid", err)
	}
}

func TestIssuer_WrongSecret(t *testing.T) {
	issuer := NewIssuer(testSecret, 15*time.Minute, 7*24*time.Hour)
	other := NewIssuer("a-completely-different-32-char-secret!", 15*time.Minute, 7*24*time.Hour)

	token, err := issuer.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify() error = %v, want ErrTokenInvalid", err)
	}
}

func TestIssuer_GarbageToken(t *testing.T) {
	issuer := NewIssuer(testSecret, 15*time.Minute, 7*24*time.Hour)

	for _, token := range []string{"", "not.a.jwt", "eyJhbGciOiJub25lIn0.e30."} {
		if _, err := issuer.Verify(token); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Verify(%q) error = %v, want ErrTokenInvalid", token, err)
		}
	}
}

func TestIssuer_DefaultTTLs(t *testing.T) {
	issuer := NewIssuer(testSecret, 0, 0)

	token, err := issuer.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != 15*time.Minute {
		t.Errorf("default access lifetime = %v, want 15m", lifetime)
	}
}
