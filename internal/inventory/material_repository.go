package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaterialRepository defines the interface for material persistence.
type MaterialRepository interface {
	Create(ctx context.Context, m *Material) error
	Get(ctx context.Context, id string) (*Material, error)
	List(ctx context.Context) ([]Material, error)
	Update(ctx context.Context, m *Material) error
	// Delete removes a material. Stock entries referencing it are
	// removed by the schema's cascade.
	Delete(ctx context.Context, id string) error
}

// SQLiteMaterialRepository implements MaterialRepository using SQLite.
type SQLiteMaterialRepository struct {
	db *sql.DB
}

// NewMaterialRepository creates a new SQLite-backed material repository.
func NewMaterialRepository(db *sql.DB) *SQLiteMaterialRepository {
	return &SQLiteMaterialRepository{db: db}
}

const materialColumns = "id, name, description, type, dim_length, dim_width, dim_height, dim_unit, weight_kg, created_at, updated_at"

// Create inserts a new material. The ID is generated if empty.
func (r *SQLiteMaterialRepository) Create(ctx context.Context, m *Material) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = "mat-" + uuid.NewString()[:8]
	}
	if m.Dimensions.Unit == "" {
		m.Dimensions.Unit = "cm"
	}

	now := time.Now().UTC().Truncate(time.Second)
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO materials (id, name, description, type, dim_length, dim_width, dim_height, dim_unit, weight_kg, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, nullString(m.Description), m.Type,
		m.Dimensions.Length, m.Dimensions.Width, m.Dimensions.Height, m.Dimensions.Unit,
		nullFloat(m.WeightKG),
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrMaterialExists
		}
		return fmt.Errorf("creating material: %w", err)
	}
	return nil
}

// Get retrieves a material by ID.
func (r *SQLiteMaterialRepository) Get(ctx context.Context, id string) (*Material, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+materialColumns+" FROM materials WHERE id = ?", id)
	return scanMaterial(row)
}

// List returns all materials ordered by name.
func (r *SQLiteMaterialRepository) List(ctx context.Context) ([]Material, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+materialColumns+" FROM materials ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("listing materials: %w", err)
	}
	defer rows.Close()

	materials := []Material{}
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating materials: %w", err)
	}
	return materials, nil
}

// Update modifies a material's mutable fields.
func (r *SQLiteMaterialRepository) Update(ctx context.Context, m *Material) error {
	if err := m.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Second)
	m.UpdatedAt = now

	result, err := r.db.ExecContext(ctx,
		`UPDATE materials SET name = ?, description = ?, type = ?,
		 dim_length = ?, dim_width = ?, dim_height = ?, dim_unit = ?,
		 weight_kg = ?, updated_at = ? WHERE id = ?`,
		m.Name, nullString(m.Description), m.Type,
		m.Dimensions.Length, m.Dimensions.Width, m.Dimensions.Height, m.Dimensions.Unit,
		nullFloat(m.WeightKG), now.Format(time.RFC3339), m.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrMaterialExists
		}
		return fmt.Errorf("updating material: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrMaterialNotFound
	}
	return nil
}

// Delete removes a material by ID. Its stock entries cascade away.
func (r *SQLiteMaterialRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM materials WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting material: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrMaterialNotFound
	}
	return nil
}

// scanMaterial scans a material from a Row or Rows.
func scanMaterial(s scanner) (*Material, error) {
	var m Material
	var description sql.NullString
	var weight sql.NullFloat64
	var createdAt, updatedAt string

	err := s.Scan(&m.ID, &m.Name, &description, &m.Type,
		&m.Dimensions.Length, &m.Dimensions.Width, &m.Dimensions.Height, &m.Dimensions.Unit,
		&weight, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMaterialNotFound
		}
		return nil, fmt.Errorf("scanning material: %w", err)
	}

	m.Description = description.String
	if weight.Valid {
		m.WeightKG = &weight.Float64
	}
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // written by this package
	m.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // written by this package

	return &m, nil
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// nullString converts an empty string to NULL for nullable columns.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullFloat converts a nil float pointer to NULL.
func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// isUniqueViolation reports whether err is a SQLite unique constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
