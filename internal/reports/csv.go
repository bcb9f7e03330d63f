package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/oakmere/warehouse-core/internal/inventory"
)

// WriteMaterialsCSV writes the material catalogue as CSV.
func WriteMaterialsCSV(w io.Writer, materials []inventory.Material) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "name", "description", "type", "length", "width", "height", "unit", "weight_kg", "created_at"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing materials header: %w", err)
	}

	for i := range materials {
		m := &materials[i]
		record := []string{
			m.ID,
			m.Name,
			m.Description,
			m.Type,
			formatFloat(m.Dimensions.Length),
			formatFloat(m.Dimensions.Width),
			formatFloat(m.Dimensions.Height),
			m.Dimensions.Unit,
			formatWeight(m.WeightKG),
			m.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing material %s: %w", m.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteStocksCSV writes the stock entries as CSV, one row per entry
// with the owning material's name and type inlined.
func WriteStocksCSV(w io.Writer, stocks []inventory.Stock) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "material_id", "material_name", "material_type", "quantity", "location", "batch_number", "serial_number", "expiry_date", "created_at"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing stocks header: %w", err)
	}

	for i := range stocks {
		s := &stocks[i]
		var matName, matType string
		if s.Material != nil {
			matName = s.Material.Name
			matType = s.Material.Type
		}
		record := []string{
			s.ID,
			s.MaterialID,
			matName,
			matType,
			formatFloat(s.Quantity),
			s.Location,
			s.BatchNumber,
			s.SerialNumber,
			formatExpiry(s.ExpiryDate),
			s.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing stock %s: %w", s.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatWeight(w *float64) string {
	if w == nil {
		return ""
	}
	return formatFloat(*w)
}

func formatExpiry(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
