package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/oakmere/warehouse-core/internal/audit"
	"github.com/oakmere/warehouse-core/internal/auth"
)

// ticketTTL is how long a WebSocket ticket is valid.
const ticketTTL = 60 * time.Second

// registerRequest is the request body for POST /auth/register.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the request body for POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// refreshRequest is the request body for POST /auth/refresh.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// handleRegister creates a new account and logs it in.
// Self-registration always lands on the VIEWER role; only the admin
// user-management endpoints can assign another role.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	session, err := s.authService.Register(r.Context(), auth.RegistrationDraft{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			writeConflict(w, "email already registered")
			return
		}
		writeBadRequest(w, err.Error())
		return
	}

	s.auditLog(audit.ActionRegister, audit.EntityAuth, session.User.ID, session.User.ID, nil)

	writeJSON(w, http.StatusCreated, session)
}

// handleLogin verifies credentials and starts a session. Unknown email
// and wrong password are indistinguishable in the response.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	session, err := s.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeUnauthorized(w, "invalid credentials")
			return
		}
		s.logger.Error("login failed", "error", err)
		writeInternalError(w, "login failed")
		return
	}

	s.auditLog(audit.ActionLogin, audit.EntityAuth, session.User.ID, session.User.ID, nil)

	writeJSON(w, http.StatusOK, session)
}

// handleRefresh exchanges a refresh token for a fresh token pair,
// rotating the stored token in the process.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	session, err := s.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRefreshToken):
			writeUnauthorized(w, "invalid refresh token")
		case errors.Is(err, auth.ErrAccessDenied):
			writeUnauthorized(w, "access denied")
		default:
			s.logger.Error("refresh failed", "error", err)
			writeInternalError(w, "refresh failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// handleLogout ends the caller's session. Idempotent.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	if err := s.authService.Logout(r.Context(), claims.Subject); err != nil {
		s.logger.Error("logout failed", "user_id", claims.Subject, "error", err)
		writeInternalError(w, "logout failed")
		return
	}

	s.auditLog(audit.ActionLogout, audit.EntityAuth, claims.Subject, claims.Subject, nil)

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// handleMe returns the caller's current profile, loaded fresh from the
// store so role or permission changes show up immediately.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	user, err := s.userRepo.GetByID(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeUnauthorized(w, "account no longer exists")
			return
		}
		s.logger.Error("load profile failed", "user_id", claims.Subject, "error", err)
		writeInternalError(w, "failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, user.Profile())
}

// ticketStore holds pending WebSocket authentication tickets.
// Tickets are single-use, expire after ticketTTL, and carry the
// identity of the caller that minted them.
type ticketStore struct {
	tickets map[string]ticketEntry
	mu      sync.Mutex
}

type ticketEntry struct {
	expiresAt time.Time
	userID    string
	role      auth.Role
}

func newTicketStore() *ticketStore {
	return &ticketStore{tickets: make(map[string]ticketEntry)}
}

// handleWSTicket generates a single-use WebSocket authentication ticket.
// The client uses this ticket to authenticate the WebSocket connection
// without exposing the JWT in the URL.
func (s *Server) handleWSTicket(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	ticket := generateTicket()

	s.wsTickets.mu.Lock()
	s.wsTickets.tickets[ticket] = ticketEntry{
		expiresAt: time.Now().Add(ticketTTL),
		userID:    claims.Subject,
		role:      claims.Role,
	}
	s.wsTickets.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"ticket":     ticket,
		"expires_in": int(ticketTTL.Seconds()),
	})
}

// validateTicket checks if a ticket is valid and consumes it (single-use).
func (s *Server) validateTicket(ticket string) (ticketEntry, bool) {
	s.wsTickets.mu.Lock()
	defer s.wsTickets.mu.Unlock()

	entry, ok := s.wsTickets.tickets[ticket]
	if !ok {
		return ticketEntry{}, false
	}

	// Remove ticket (single-use)
	delete(s.wsTickets.tickets, ticket)

	if time.Now().After(entry.expiresAt) {
		return ticketEntry{}, false
	}
	return entry, true
}

// ticketBytes is the number of random bytes used for WebSocket tickets.
const ticketBytes = 32

// generateTicket creates a cryptographically random ticket string.
func generateTicket() string {
	b := make([]byte, ticketBytes)
	//nolint:errcheck // crypto/rand.Read always returns len(b) on supported platforms
	rand.Read(b)
	return hex.EncodeToString(b)
}

// cleanExpiredTickets removes expired tickets from the store.
func (s *Server) cleanExpiredTickets() {
	s.wsTickets.mu.Lock()
	defer s.wsTickets.mu.Unlock()

	now := time.Now()
	for ticket, entry := range s.wsTickets.tickets {
		if now.After(entry.expiresAt) {
			delete(s.wsTickets.tickets, ticket)
		}
	}
}

// cleanTicketsLoop runs cleanExpiredTickets periodically until the context is cancelled.
func (s *Server) cleanTicketsLoop(ctx context.Context) {
	ticker := time.NewTicker(ticketTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanExpiredTickets()
		}
	}
}
