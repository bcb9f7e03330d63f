package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakmere/warehouse-core/internal/audit"
	"github.com/oakmere/warehouse-core/internal/auth"
)

type createUserRequest struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	Role        auth.Role `json:"role"`
	Permissions []string  `json:"permissions,omitempty"`
}

type updateUserRequest struct {
	Name        *string    `json:"name,omitempty"`
	Role        *auth.Role `json:"role,omitempty"`
	Permissions *[]string  `json:"permissions,omitempty"`
}

// handleListUsers returns all user accounts as public profiles.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userRepo.List(r.Context())
	if err != nil {
		s.logger.Error("list users failed", "error", err)
		writeInternalError(w, "failed to list users")
		return
	}

	profiles := make([]auth.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": profiles,
		"count": len(profiles),
	})
}

// handleCreateUser creates a new user account with an explicit role.
// Unlike self-registration this path may assign any role and a custom
// permission set, and it does not log the new account in.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	claims := claimsFromContext(r.Context())

	for _, perm := range req.Permissions {
		if !auth.IsKnownPermission(perm) {
			writeBadRequest(w, "unknown permission: "+perm)
			return
		}
	}

	draft := auth.RegistrationDraft{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		Permissions: req.Permissions,
	}
	if err := draft.Validate(); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("hash password failed", "error", err)
		writeInternalError(w, "failed to create user")
		return
	}

	role := req.Role
	if role == "" {
		role = auth.RoleViewer
	}
	perms := req.Permissions
	if perms == nil {
		perms = auth.DefaultPermissions(role)
	}

	user := &auth.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         role,
		Permissions:  perms,
	}

	if err := s.userRepo.Create(r.Context(), user); err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			writeConflict(w, "email already registered")
			return
		}
		s.logger.Error("create user failed", "error", err)
		writeInternalError(w, "failed to create user")
		return
	}

	s.logger.Info("user created", "user_id", user.ID, "email", user.Email, "role", user.Role, "created_by", claims.Subject)
	s.auditLog(audit.ActionCreate, audit.EntityUser, user.ID, claims.Subject, map[string]any{
		"email": user.Email,
		"role":  user.Role,
	})

	writeJSON(w, http.StatusCreated, user.Profile())
}

// handleGetUser returns a single user by ID.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := s.userRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeNotFound(w, "user not found")
			return
		}
		s.logger.Error("get user failed", "error", err)
		writeInternalError(w, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, user.Profile())
}

// handleUpdateUser modifies a user's name, role, or permission set.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	claims := claimsFromContext(r.Context())

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Role != nil && !auth.IsValidRole(*req.Role) {
		writeBadRequest(w, "invalid role")
		return
	}
	if req.Permissions != nil {
		for _, perm := range *req.Permissions {
			if !auth.IsKnownPermission(perm) {
				writeBadRequest(w, "unknown permission: "+perm)
				return
			}
		}
	}

	// Self-protection: cannot demote yourself
	if req.Role != nil && id == claims.Subject && *req.Role != claims.Role {
		writeForbidden(w, "cannot change your own role")
		return
	}

	user, err := s.userRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeNotFound(w, "user not found")
			return
		}
		s.logger.Error("get user for update failed", "error", err)
		writeInternalError(w, "failed to update user")
		return
	}

	// Apply patches
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Permissions != nil {
		user.Permissions = *req.Permissions
	}

	if err := s.userRepo.Update(r.Context(), user); err != nil {
		s.logger.Error("update user failed", "error", err)
		writeInternalError(w, "failed to update user")
		return
	}

	s.logger.Info("user updated", "user_id", id, "updated_by", claims.Subject)
	s.auditLog(audit.ActionUpdate, audit.EntityUser, id, claims.Subject, nil)

	writeJSON(w, http.StatusOK, user.Profile())
}

// handleDeleteUser removes a user account and ends its session.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	claims := claimsFromContext(r.Context())

	// Cannot delete yourself
	if id == claims.Subject {
		writeForbidden(w, "cannot delete your own account")
		return
	}

	user, err := s.userRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeNotFound(w, "user not found")
			return
		}
		s.logger.Error("get user for delete failed", "error", err)
		writeInternalError(w, "failed to delete user")
		return
	}

	if err := s.userRepo.Delete(r.Context(), id); err != nil {
		s.logger.Error("delete user failed", "error", err)
		writeInternalError(w, "failed to delete user")
		return
	}

	s.logger.Info("user deleted", "user_id", id, "deleted_by", claims.Subject)
	s.auditLog(audit.ActionDelete, audit.EntityUser, id, claims.Subject, map[string]any{
		"email": user.Email,
	})

	w.WriteHeader(http.StatusNoContent)
}
