package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SeedAdminEmail is the email of the first-boot administrator account.
const SeedAdminEmail = "admin@localhost"

// SeedAdmin creates the initial administrator account when the user
// table is empty. The generated password is returned so the caller can
// surface it once at startup; it is never persisted in plain text.
//
// On an already-populated database it does nothing and returns an
// empty password.
func SeedAdmin(ctx context.Context, users UserRepository, hasher *Hasher) (password string, err error) {
	count, err := users.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return "", nil
	}

	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating seed password: %w", err)
	}
	password = hex.EncodeToString(raw)

	hash, err := hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hashing seed password: %w", err)
	}

	admin := &User{
		Email:        SeedAdminEmail,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         RoleAdmin,
		Permissions:  DefaultPermissions(RoleAdmin),
	}

	if err := users.Create(ctx, admin); err != nil {
		return "", fmt.Errorf("creating seed admin: %w", err)
	}

	return password, nil
}
