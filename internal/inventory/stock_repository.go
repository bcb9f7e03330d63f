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

// StockRepository defines the interface for stock entry persistence.
// Reads join the owning material's summary onto each entry.
type StockRepository interface {
	Create(ctx context.Context, s *Stock) error
	Get(ctx context.Context, id string) (*Stock, error)
	List(ctx context.Context) ([]Stock, error)
	ListByMaterial(ctx context.Context, materialID string) ([]Stock, error)
	Update(ctx context.Context, s *Stock) error
	Delete(ctx context.Context, id string) error
}

// SQLiteStockRepository implements StockRepository using SQLite.
type SQLiteStockRepository struct {
	db *sql.DB
}

// NewStockRepository creates a new SQLite-backed stock repository.
func NewStockRepository(db *sql.DB) *SQLiteStockRepository {
	return &SQLiteStockRepository{db: db}
}

const stockSelect = `SELECT s.id, s.material_id, s.quantity, s.location,
	s.batch_number, s.serial_number, s.expiry_date, s.created_at, s.updated_at,
	m.id, m.name, m.type
	FROM stocks s JOIN materials m ON m.id = s.material_id`

// Create inserts a new stock entry. The referenced material must exist.
func (r *SQLiteStockRepository) Create(ctx context.Context, s *Stock) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = "stk-" + uuid.NewString()[:8]
	}

	now := time.Now().UTC().Truncate(time.Second)
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stocks (id, material_id, quantity, location, batch_number, serial_number, expiry_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.MaterialID, s.Quantity, s.Location,
		nullString(s.BatchNumber), nullString(s.SerialNumber), nullTime(s.ExpiryDate),
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrMaterialNotFound
		}
		return fmt.Errorf("creating stock entry: %w", err)
	}
	return nil
}

// Get retrieves a stock entry by ID with its material summary.
func (r *SQLiteStockRepository) Get(ctx context.Context, id string) (*Stock, error) {
	row := r.db.QueryRowContext(ctx, stockSelect+" WHERE s.id = ?", id)
	return scanStock(row)
}

// List returns all stock entries ordered by creation date, newest first.
func (r *SQLiteStockRepository) List(ctx context.Context) ([]Stock, error) {
	return r.queryStocks(ctx, stockSelect+" ORDER BY s.created_at DESC, s.id")
}

// ListByMaterial returns the stock entries for one material.
func (r *SQLiteStockRepository) ListByMaterial(ctx context.Context, materialID string) ([]Stock, error) {
	return r.queryStocks(ctx,
		stockSelect+" WHERE s.material_id = ? ORDER BY s.created_at DESC, s.id", materialID)
}

// Update modifies a stock entry's mutable fields. The owning material
// cannot be changed; move stock by deleting and recreating the entry.
func (r *SQLiteStockRepository) Update(ctx context.Context, s *Stock) error {
	if err := s.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Second)
	s.UpdatedAt = now

	result, err := r.db.ExecContext(ctx,
		`UPDATE stocks SET quantity = ?, location = ?, batch_number = ?,
		 serial_number = ?, expiry_date = ?, updated_at = ? WHERE id = ?`,
		s.Quantity, s.Location,
		nullString(s.BatchNumber), nullString(s.SerialNumber), nullTime(s.ExpiryDate),
		now.Format(time.RFC3339), s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating stock entry: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrStockNotFound
	}
	return nil
}

// Delete removes a stock entry by ID.
func (r *SQLiteStockRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM stocks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting stock entry: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrStockNotFound
	}
	return nil
}

// queryStocks runs a stock select and scans all rows.
func (r *SQLiteStockRepository) queryStocks(ctx context.Context, query string, args ...any) ([]Stock, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying stock entries: %w", err)
	}
	defer rows.Close()

	stocks := []Stock{}
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stock entries: %w", err)
	}
	return stocks, nil
}

// scanStock scans a stock entry plus its joined material summary.
func scanStock(sc scanner) (*Stock, error) {
	var s Stock
	var batch, serial, expiry sql.NullString
	var createdAt, updatedAt string
	var mat MaterialSummary

	err := sc.Scan(&s.ID, &s.MaterialID, &s.Quantity, &s.Location,
		&batch, &serial, &expiry, &createdAt, &updatedAt,
		&mat.ID, &mat.Name, &mat.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStockNotFound
		}
		return nil, fmt.Errorf("scanning stock entry: %w", err)
	}

	s.BatchNumber = batch.String
	s.SerialNumber = serial.String
	if expiry.Valid {
		t, err := time.Parse(time.RFC3339, expiry.String)
		if err != nil {
			return nil, fmt.Errorf("parsing expiry date: %w", err)
		}
		s.ExpiryDate = &t
	}
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // written by this package
	s.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // written by this package
	s.Material = &mat

	return &s, nil
}

// nullTime converts a nil time pointer to NULL, storing RFC 3339 text.
func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

// isForeignKeyViolation reports whether err is a SQLite FK constraint error.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
