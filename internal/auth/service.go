package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oakmere/warehouse-core/internal/infrastructure/logging"
)

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 8

// Service orchestrates register/login/refresh/logout over the
// credential store, password hasher, and token issuer. It owns the
// refresh-token rotation protocol: at most one refresh token is valid
// per user, and every successful login or refresh overwrites the
// stored hash, invalidating whatever token it covered before.
type Service struct {
	users  UserRepository
	hasher *Hasher
	issuer *Issuer
	logger *logging.Logger
}

// NewService creates a session manager from its three collaborators.
func NewService(users UserRepository, hasher *Hasher, issuer *Issuer, logger *logging.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		issuer: issuer,
		logger: logger,
	}
}

// RegistrationDraft is the validated input for Register.
// Role is optional; self-registration leaves it empty and gets VIEWER.
// The admin user-creation path may set Role and Permissions explicitly.
type RegistrationDraft struct {
	Name        string
	Email       string
	Password    string
	Role        Role
	Permissions []string
}

// Validate checks the draft for shape errors before it reaches the store.
func (d *RegistrationDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("name is required")
	}
	if !IsValidEmail(d.Email) {
		return errors.New("invalid email address")
	}
	if len(d.Password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if d.Role != "" && !IsValidRole(d.Role) {
		return fmt.Errorf("invalid role: %s", d.Role)
	}
	return nil
}

// Register creates a new user account and immediately logs it in.
//
// The email must be unused (ErrEmailExists otherwise). The password is
// hashed before the record is created. The returned Session carries a
// fresh token pair, exactly as if the new user had called Login.
func (s *Service) Register(ctx context.Context, draft RegistrationDraft) (*Session, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	role := draft.Role
	if role == "" {
		role = RoleViewer
	}

	perms := draft.Permissions
	if perms == nil {
		perms = DefaultPermissions(role)
	}

	hash, err := s.hasher.Hash(draft.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		Email:        draft.Email,
		Name:         draft.Name,
		PasswordHash: hash,
		Role:         role,
		Permissions:  perms,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email, "role", user.Role)

	return s.issueSession(ctx, user)
}

// dummyHash is a valid Argon2id digest of an unguessable value. Login
// verifies against it when the email is unknown so that unknown-email
// and wrong-password failures take comparable time.
const dummyHash = "$argon2id$v=19$m=65536,t=3,p=1$AAAAAAAAAAAAAAAAAAAAAA$m2lFJW1XDhMSxO3DiBm2dWAQB4civCAVNBFtCRbs0c8"

// Login verifies credentials and starts a session.
//
// Unknown email and wrong password both return ErrInvalidCredentials;
// nothing distinguishes which field was wrong.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_, _ = s.hasher.Verify(password, dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

// Refresh exchanges a valid refresh token for a fresh token pair.
//
// The presented token must verify (signature and expiry), its subject
// must still have an active stored hash, and the token must match that
// hash. A mismatch means the token was rotated out or revoked and
// returns ErrAccessDenied; any other failure is normalised to
// ErrInvalidRefreshToken. A successful refresh reuses the session
// issuance path, so the stored hash is overwritten and the presented
// token cannot be used again.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.issuer.Verify(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if user.RefreshTokenHash == "" {
		// Logged out: no active session for this user.
		return nil, ErrAccessDenied
	}

	match, err := s.hasher.Verify(refreshToken, user.RefreshTokenHash)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if !match {
		// Stale token: a later login/refresh rotated it out.
		s.logger.Warn("stale refresh token presented", "user_id", user.ID)
		return nil, ErrAccessDenied
	}

	return s.issueSession(ctx, user)
}

// Logout clears the stored refresh-token hash for a user, ending the
// active session. It is idempotent: logging out twice is not an error.
func (s *Service) Logout(ctx context.Context, userID string) error {
	err := s.users.SetRefreshTokenHash(ctx, userID, "")
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return fmt.Errorf("clearing refresh token: %w", err)
	}
	return nil
}

// issueSession mints a fresh access/refresh token pair for a user and
// stores the refresh token's hash, rotating out any previous session.
// Register, Login, and Refresh all converge here.
func (s *Service) issueSession(ctx context.Context, user *User) (*Session, error) {
	accessToken, err := s.issuer.IssueAccess(user)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}

	refreshToken, err := s.issuer.IssueRefresh(user)
	if err != nil {
		return nil, fmt.Errorf("issuing refresh token: %w", err)
	}

	refreshHash, err := s.hasher.Hash(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("hashing refresh token: %w", err)
	}

	if err := s.users.SetRefreshTokenHash(ctx, user.ID, refreshHash); err != nil {
		return nil, fmt.Errorf("storing refresh token hash: %w", err)
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.Profile(),
	}, nil
}
