package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oakmere/warehouse-core/internal/audit"
	"github.com/oakmere/warehouse-core/internal/inventory"
)

type createStockRequest struct {
	MaterialID   string     `json:"material_id"`
	Quantity     float64    `json:"quantity"`
	Location     string     `json:"location"`
	BatchNumber  string     `json:"batch_number"`
	SerialNumber string     `json:"serial_number"`
	ExpiryDate   *time.Time `json:"expiry_date"`
}

type updateStockRequest struct {
	Quantity     *float64   `json:"quantity,omitempty"`
	Location     *string    `json:"location,omitempty"`
	BatchNumber  *string    `json:"batch_number,omitempty"`
	SerialNumber *string    `json:"serial_number,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
}

// handleListStocks returns all stock entries with material summaries.
func (s *Server) handleListStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := s.stockRepo.List(r.Context())
	if err != nil {
		s.logger.Error("list stocks failed", "error", err)
		writeInternalError(w, "failed to list stock entries")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stocks": stocks,
		"count":  len(stocks),
	})
}

// handleListStocksByMaterial returns the stock entries for one material.
func (s *Server) handleListStocksByMaterial(w http.ResponseWriter, r *http.Request) {
	materialID := chi.URLParam(r, "materialId")

	// 404 on unknown material rather than an empty list
	if _, err := s.materialRepo.Get(r.Context(), materialID); err != nil {
		if errors.Is(err, inventory.ErrMaterialNotFound) {
			writeNotFound(w, "material not found")
			return
		}
		s.logger.Error("get material for stock list failed", "error", err)
		writeInternalError(w, "failed to list stock entries")
		return
	}

	stocks, err := s.stockRepo.ListByMaterial(r.Context(), materialID)
	if err != nil {
		s.logger.Error("list stocks by material failed", "error", err)
		writeInternalError(w, "failed to list stock entries")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stocks": stocks,
		"count":  len(stocks),
	})
}

// handleCreateStock records a new stock entry.
func (s *Server) handleCreateStock(w http.ResponseWriter, r *http.Request) {
	var req createStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	entry := &inventory.Stock{
		MaterialID:   req.MaterialID,
		Quantity:     req.Quantity,
		Location:     req.Location,
		BatchNumber:  req.BatchNumber,
		SerialNumber: req.SerialNumber,
		ExpiryDate:   req.ExpiryDate,
	}

	if err := s.stockRepo.Create(r.Context(), entry); err != nil {
		if errors.Is(err, inventory.ErrMaterialNotFound) {
			writeNotFound(w, "material not found")
			return
		}
		writeBadRequest(w, err.Error())
		return
	}

	claims := claimsFromContext(r.Context())
	s.logger.Info("stock entry created", "stock_id", entry.ID, "material_id", entry.MaterialID, "created_by", claims.Subject)
	s.auditLog(audit.ActionCreate, audit.EntityStock, entry.ID, claims.Subject, map[string]any{
		"material_id": entry.MaterialID,
		"quantity":    entry.Quantity,
		"location":    entry.Location,
	})
	s.broadcastInventoryEvent("stock.created", entry)

	writeJSON(w, http.StatusCreated, entry)
}

// handleGetStock returns a single stock entry.
func (s *Server) handleGetStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, err := s.stockRepo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, inventory.ErrStockNotFound) {
			writeNotFound(w, "stock entry not found")
			return
		}
		s.logger.Error("get stock failed", "error", err)
		writeInternalError(w, "failed to get stock entry")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// handleUpdateStock patches a stock entry.
func (s *Server) handleUpdateStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	entry, err := s.stockRepo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, inventory.ErrStockNotFound) {
			writeNotFound(w, "stock entry not found")
			return
		}
		s.logger.Error("get stock for update failed", "error", err)
		writeInternalError(w, "failed to update stock entry")
		return
	}

	if req.Quantity != nil {
		entry.Quantity = *req.Quantity
	}
	if req.Location != nil {
		entry.Location = *req.Location
	}
	if req.BatchNumber != nil {
		entry.BatchNumber = *req.BatchNumber
	}
	if req.SerialNumber != nil {
		entry.SerialNumber = *req.SerialNumber
	}
	if req.ExpiryDate != nil {
		entry.ExpiryDate = req.ExpiryDate
	}

	if err := s.stockRepo.Update(r.Context(), entry); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	claims := claimsFromContext(r.Context())
	s.auditLog(audit.ActionUpdate, audit.EntityStock, id, claims.Subject, map[string]any{
		"quantity": entry.Quantity,
		"location": entry.Location,
	})
	s.broadcastInventoryEvent("stock.updated", entry)

	writeJSON(w, http.StatusOK, entry)
}

// handleDeleteStock removes a stock entry.
func (s *Server) handleDeleteStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.stockRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, inventory.ErrStockNotFound) {
			writeNotFound(w, "stock entry not found")
			return
		}
		s.logger.Error("delete stock failed", "error", err)
		writeInternalError(w, "failed to delete stock entry")
		return
	}

	claims := claimsFromContext(r.Context())
	s.logger.Info("stock entry deleted", "stock_id", id, "deleted_by", claims.Subject)
	s.auditLog(audit.ActionDelete, audit.EntityStock, id, claims.Subject, nil)
	s.broadcastInventoryEvent("stock.deleted", map[string]string{"id": id})

	w.WriteHeader(http.StatusNoContent)
}
