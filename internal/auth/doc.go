// Package auth implements accounts and sessions for the warehouse API.
//
// Passwords and refresh tokens at rest are hashed with Argon2id. Access
// and refresh tokens are HS256 JWTs carrying the subject, email, and
// role. Each user holds at most one active refresh token: its hash is
// stored on the user record, every login or refresh overwrites it, and
// logout clears it.
package auth
