package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/oakmere/warehouse-core/internal/inventory"
)

// Layout constants for the tabular PDF reports.
const (
	pdfMarginMM     = 10
	pdfRowHeightMM  = 7
	pdfTitleSizePt  = 16
	pdfHeaderSizePt = 9
	pdfBodySizePt   = 8
)

// WriteMaterialsPDF renders the material catalogue as a landscape A4 table.
func WriteMaterialsPDF(w io.Writer, materials []inventory.Material) error {
	doc := newReportDoc("Materials Report")

	cols := []pdfColumn{
		{"Name", 70},
		{"Type", 35},
		{"Dimensions", 60},
		{"Weight (kg)", 30},
		{"Description", 82},
	}
	writeTableHeader(doc, cols)

	doc.SetFont("Helvetica", "", pdfBodySizePt)
	for i := range materials {
		m := &materials[i]
		dims := fmt.Sprintf("%g x %g x %g %s",
			m.Dimensions.Length, m.Dimensions.Width, m.Dimensions.Height, m.Dimensions.Unit)
		weight := ""
		if m.WeightKG != nil {
			weight = fmt.Sprintf("%g", *m.WeightKG)
		}
		writeTableRow(doc, cols, []string{m.Name, m.Type, dims, weight, m.Description})
	}

	return doc.Output(w)
}

// WriteStocksPDF renders the stock entries as a landscape A4 table.
func WriteStocksPDF(w io.Writer, stocks []inventory.Stock) error {
	doc := newReportDoc("Stock Report")

	cols := []pdfColumn{
		{"Material", 65},
		{"Quantity", 25},
		{"Location", 45},
		{"Batch", 40},
		{"Serial", 40},
		{"Expiry", 32},
	}
	writeTableHeader(doc, cols)

	doc.SetFont("Helvetica", "", pdfBodySizePt)
	for i := range stocks {
		s := &stocks[i]
		material := s.MaterialID
		if s.Material != nil {
			material = s.Material.Name
		}
		expiry := ""
		if s.ExpiryDate != nil {
			expiry = s.ExpiryDate.Format("2006-01-02")
		}
		writeTableRow(doc, cols, []string{
			material,
			fmt.Sprintf("%g", s.Quantity),
			s.Location,
			s.BatchNumber,
			s.SerialNumber,
			expiry,
		})
	}

	return doc.Output(w)
}

type pdfColumn struct {
	title string
	width float64
}

// newReportDoc creates a landscape A4 document with a title line and
// generation timestamp.
func newReportDoc(title string) *fpdf.Fpdf {
	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetMargins(pdfMarginMM, pdfMarginMM, pdfMarginMM)
	doc.SetAutoPageBreak(true, pdfMarginMM)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", pdfTitleSizePt)
	doc.CellFormat(0, 10, title, "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", pdfBodySizePt)
	doc.SetTextColor(120, 120, 120)
	generated := "Generated " + time.Now().UTC().Format("2006-01-02 15:04 UTC")
	doc.CellFormat(0, 6, generated, "", 1, "L", false, 0, "")
	doc.SetTextColor(0, 0, 0)
	doc.Ln(2)

	return doc
}

func writeTableHeader(doc *fpdf.Fpdf, cols []pdfColumn) {
	doc.SetFont("Helvetica", "B", pdfHeaderSizePt)
	doc.SetFillColor(230, 230, 230)
	for _, c := range cols {
		doc.CellFormat(c.width, pdfRowHeightMM, c.title, "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)
}

func writeTableRow(doc *fpdf.Fpdf, cols []pdfColumn, cells []string) {
	for i, c := range cols {
		doc.CellFormat(c.width, pdfRowHeightMM, cells[i], "1", 0, "L", false, 0, "")
	}
	doc.Ln(-1)
}
