package export

import (
	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/sirenextract/internal/siren"
)

// WritePDF renders rows as a one-table A4 document. Codes are printed in the
// grouped "XXX XXX XXX" form used in legal notices.
func WritePDF(path string, rows []Row) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("SIREN extraits", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr("Numéros SIREN extraits"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	widths := []float64{40, 30, 70}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(217, 225, 242)
	for i, h := range Headers {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	for _, r := range rows {
		rec := r.record()
		rec[0] = siren.Format(rec[0])
		for i, v := range rec {
			pdf.CellFormat(widths[i], 7, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 8, tr("Aucun numéro SIREN valide trouvé."), "", 1, "L", false, 0, "")
	}
	return pdf.OutputFileAndClose(path)
}
