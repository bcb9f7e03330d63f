package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Dimensions describes the physical size of a material.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"` // e.g. "cm", "mm", "m"
}

// Material is a product definition: what a thing is, independent of
// how much of it sits in the warehouse.
type Material struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"type"`
	Dimensions  Dimensions `json:"dimensions"`
	// WeightKG is nil when the weight is unknown.
	WeightKG  *float64  `json:"weight_kg,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks a material for shape errors before persistence.
func (m *Material) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(m.Type) == "" {
		return errors.New("type is required")
	}
	if m.Dimensions.Length < 0 || m.Dimensions.Width < 0 || m.Dimensions.Height < 0 {
		return errors.New("dimensions must not be negative")
	}
	if m.WeightKG != nil && *m.WeightKG < 0 {
		return errors.New("weight must not be negative")
	}
	return nil
}

// MaterialSummary is the slice of a material carried on stock entries,
// enough for a picker to know what the entry holds without a second
// lookup.
type MaterialSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Stock is a physical quantity of one material at one location.
// Batch, serial, and expiry are optional tracking metadata.
type Stock struct {
	ID           string  `json:"id"`
	MaterialID   string  `json:"material_id"`
	Quantity     float64 `json:"quantity"`
	Location     string  `json:"location"`
	BatchNumber  string  `json:"batch_number,omitempty"`
	SerialNumber string  `json:"serial_number,omitempty"`
	// ExpiryDate is nil for non-perishable stock.
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Material is populated on reads that join the material summary.
	Material *MaterialSummary `json:"material,omitempty"`
}

// Validate checks a stock entry for shape errors before persistence.
func (s *Stock) Validate() error {
	if strings.TrimSpace(s.MaterialID) == "" {
		return errors.New("material_id is required")
	}
	if s.Quantity < 0 {
		return fmt.Errorf("quantity must not be negative, got %g", s.Quantity)
	}
	if strings.TrimSpace(s.Location) == "" {
		return errors.New("location is required")
	}
	return nil
}

// Sentinel errors for inventory operations.
var (
	ErrMaterialNotFound = errors.New("material not found")
	ErrMaterialExists   = errors.New("material name already exists")
	ErrStockNotFound    = errors.New("stock entry not found")
)
