package auth

import (
	"errors"
	"regexp"
	"time"
)

// emailPattern is a pragmatic format check for login emails.
// Full RFC 5322 validation is not attempted; the unique index on the
// users table is the real gatekeeper.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// maxEmailLength is the maximum allowed email length.
const maxEmailLength = 254

// IsValidEmail checks if an email meets format requirements.
func IsValidEmail(email string) bool {
	return len(email) <= maxEmailLength && emailPattern.MatchString(email)
}

// Role represents an authorisation tier in the system.
type Role string

const (
	// RoleAdmin has full system control: materials, stocks, users,
	// reports, audit history.
	RoleAdmin Role = "ADMIN"

	// RoleWarehouseWorker can create and update stock entries on the
	// floor but cannot manage materials or users.
	RoleWarehouseWorker Role = "WAREHOUSE_WORKER"

	// RoleViewer has read-only access. New self-registered accounts
	// start here until an admin promotes them.
	RoleViewer Role = "VIEWER"
)

// ValidRoles is the closed set of user roles, ordered by privilege.
var ValidRoles = []Role{RoleAdmin, RoleWarehouseWorker, RoleViewer}

// IsValidRole returns true if the role is a member of the closed role set.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// User represents an account record as stored in the credential store.
//
// PasswordHash and RefreshTokenHash never leave this package boundary;
// API responses use the Profile projection instead.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // never serialised
	Role         Role      `json:"role"`
	Permissions  []string  `json:"permissions"`
	// RefreshTokenHash holds the hash of the currently valid refresh
	// token. Empty means no active session (logged out). At most one
	// refresh token is valid per user; each login/refresh overwrites it.
	RefreshTokenHash string    `json:"-"` // never serialised
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasPermission returns true if the user's permission set contains perm.
func (u *User) HasPermission(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Profile is the public projection of a User, safe to return from the
// API. It is constructed explicitly rather than by stripping fields off
// the full record.
type Profile struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"`
}

// Profile returns the public projection of the user.
func (u *User) Profile() Profile {
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return Profile{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Permissions: perms,
	}
}

// Session is the result of a successful register, login, or refresh.
type Session struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         Profile `json:"user"`
}

// Sentinel errors for auth operations.
var (
	// ErrInvalidCredentials covers both unknown email and wrong
	// password; callers must not be able to tell which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailExists is returned when registering with a taken email.
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidRefreshToken covers malformed, expired, or
	// signature-invalid refresh tokens, and any unexpected failure
	// during refresh processing.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrAccessDenied is returned when a well-formed refresh token does
	// not match the stored hash for its subject (stale or revoked).
	ErrAccessDenied = errors.New("access denied")

	ErrUserNotFound = errors.New("user not found")
	ErrTokenInvalid = errors.New("invalid token")
)
