package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakmere/warehouse-core/internal/audit"
	"github.com/oakmere/warehouse-core/internal/inventory"
)

type createMaterialRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Type        string               `json:"type"`
	Dimensions  inventory.Dimensions `json:"dimensions"`
	WeightKG    *float64             `json:"weight_kg"`
}

type updateMaterialRequest struct {
	Name        *string               `json:"name,omitempty"`
	Description *string               `json:"description,omitempty"`
	Type        *string               `json:"type,omitempty"`
	Dimensions  *inventory.Dimensions `json:"dimensions,omitempty"`
	WeightKG    *float64              `json:"weight_kg,omitempty"`
}

// handleListMaterials returns the material catalogue.
func (s *Server) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := s.materialRepo.List(r.Context())
	if err != nil {
		s.logger.Error("list materials failed", "error", err)
		writeInternalError(w, "failed to list materials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"materials": materials,
		"count":     len(materials),
	})
}

// handleCreateMaterial adds a material to the catalogue.
func (s *Server) handleCreateMaterial(w http.ResponseWriter, r *http.Request) {
	var req createMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	m := &inventory.Material{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Dimensions:  req.Dimensions,
		WeightKG:    req.WeightKG,
	}

	if err := s.materialRepo.Create(r.Context(), m); err != nil {
		if errors.Is(err, inventory.ErrMaterialExists) {
			writeConflict(w, "material name already exists")
			return
		}
		writeBadRequest(w, err.Error())
		return
	}

	claims := claimsFromContext(r.Context())
	s.logger.Info("material created", "material_id", m.ID, "name", m.Name, "created_by", claims.Subject)
	s.auditLog(audit.ActionCreate, audit.EntityMaterial, m.ID, claims.Subject, map[string]any{
		"name": m.Name,
		"type": m.Type,
	})
	s.broadcastInventoryEvent("material.created", m)

	writeJSON(w, http.StatusCreated, m)
}

// handleGetMaterial returns a single material.
func (s *Server) handleGetMaterial(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, err := s.materialRepo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, inventory.ErrMaterialNotFound) {
			writeNotFound(w, "material not found")
			return
		}
		s.logger.Error("get material failed", "error", err)
		writeInternalError(w, "failed to get material")
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// handleUpdateMaterial patches a material definition.
func (s *Server) handleUpdateMaterial(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	m, err := s.materialRepo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, inventory.ErrMaterialNotFound) {
			writeNotFound(w, "material not found")
			return
		}
		s.logger.Error("get material for update failed", "error", err)
		writeInternalError(w, "failed to update material")
		return
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Type != nil {
		m.Type = *req.Type
	}
	if req.Dimensions != nil {
		m.Dimensions = *req.Dimensions
	}
	if req.WeightKG != nil {
		m.WeightKG = req.WeightKG
	}

	if err := s.materialRepo.Update(r.Context(), m); err != nil {
		if errors.Is(err, inventory.ErrMaterialExists) {
			writeConflict(w, "material name already exists")
			return
		}
		writeBadRequest(w, err.Error())
		return
	}

	claims := claimsFromContext(r.Context())
	s.auditLog(audit.ActionUpdate, audit.EntityMaterial, id, claims.Subject, nil)
	s.broadcastInventoryEvent("material.updated", m)

	writeJSON(w, http.StatusOK, m)
}

// handleDeleteMaterial removes a material and, by cascade, its stock entries.
func (s *Server) handleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.materialRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, inventory.ErrMaterialNotFound) {
			writeNotFound(w, "material not found")
			return
		}
		s.logger.Error("delete material failed", "error", err)
		writeInternalError(w, "failed to delete material")
		return
	}

	claims := claimsFromContext(r.Context())
	s.logger.Info("material deleted", "material_id", id, "deleted_by", claims.Subject)
	s.auditLog(audit.ActionDelete, audit.EntityMaterial, id, claims.Subject, nil)
	s.broadcastInventoryEvent("material.deleted", map[string]string{"id": id})

	w.WriteHeader(http.StatusNoContent)
}
