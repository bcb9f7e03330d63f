package api

import (
	"net/http"
	"time"

	"github.com/oakmere/warehouse-core/internal/reports"
)

// handleMaterialsCSV streams the material catalogue as a CSV download.
func (s *Server) handleMaterialsCSV(w http.ResponseWriter, r *http.Request) {
	materials, err := s.materialRepo.List(r.Context())
	if err != nil {
		s.logger.Error("list materials for report failed", "error", err)
		writeInternalError(w, "failed to generate report")
		return
	}

	setAttachmentHeaders(w, "text/csv", "materials", "csv")
	if err := reports.WriteMaterialsCSV(w, materials); err != nil {
		// Headers already sent; log and give up on this response
		s.logger.Error("write materials csv failed", "error", err)
	}
}

// handleMaterialsPDF streams the material catalogue as a PDF download.
func (s *Server) handleMaterialsPDF(w http.ResponseWriter, r *http.Request) {
	materials, err := s.materialRepo.List(r.Context())
	if err != nil {
		s.logger.Error("list materials for report failed", "error", err)
		writeInternalError(w, "failed to generate report")
		return
	}

	setAttachmentHeaders(w, "application/pdf", "materials", "pdf")
	if err := reports.WriteMaterialsPDF(w, materials); err != nil {
		s.logger.Error("write materials pdf failed", "error", err)
	}
}

// handleStocksCSV streams the stock entries as a CSV download.
func (s *Server) handleStocksCSV(w http.ResponseWriter, r *http.Request) {
	stocks, err := s.stockRepo.List(r.Context())
	if err != nil {
		s.logger.Error("list stocks for report failed", "error", err)
		writeInternalError(w, "failed to generate report")
		return
	}

	setAttachmentHeaders(w, "text/csv", "stocks", "csv")
	if err := reports.WriteStocksCSV(w, stocks); err != nil {
		s.logger.Error("write stocks csv failed", "error", err)
	}
}

// handleStocksPDF streams the stock entries as a PDF download.
func (s *Server) handleStocksPDF(w http.ResponseWriter, r *http.Request) {
	stocks, err := s.stockRepo.List(r.Context())
	if err != nil {
		s.logger.Error("list stocks for report failed", "error", err)
		writeInternalError(w, "failed to generate report")
		return
	}

	setAttachmentHeaders(w, "application/pdf", "stocks", "pdf")
	if err := reports.WriteStocksPDF(w, stocks); err != nil {
		s.logger.Error("write stocks pdf failed", "error", err)
	}
}

// setAttachmentHeaders marks the response as a dated file download.
func setAttachmentHeaders(w http.ResponseWriter, contentType, name, ext string) {
	filename := name + "-" + time.Now().UTC().Format("2006-01-02") + "." + ext
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}
