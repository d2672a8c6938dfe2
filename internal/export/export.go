// Package export renders extraction reports as downloadable tables.
package export

import (
	"fmt"
	"time"

	"github.com/hyperifyio/sirenextract/internal/pipeline"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Column headers. SIREN is the only column consumers may rely on.
var Headers = []string{"SIREN", "Statut", "Date d'extraction"}

const (
	StatusValid   = "valide"
	StatusInvalid = "invalide"
)

// Row is one exported code.
type Row struct {
	SIREN       string
	Status      string
	ExtractedAt time.Time
}

func (r Row) record() []string {
	return []string{r.SIREN, r.Status, r.ExtractedAt.Format(time.RFC3339)}
}

// Rows lists the valid codes of report, followed by the invalid ones when
// includeInvalid is set, all stamped with at.
func Rows(report pipeline.Report, at time.Time, includeInvalid bool) []Row {
	rows := make([]Row, 0, len(report.Valid)+len(report.Invalid))
	for _, res := range report.Results() {
		if !res.Valid && !includeInvalid {
			continue
		}
		status := StatusValid
		if !res.Valid {
			status = StatusInvalid
		}
		rows = append(rows, Row{SIREN: res.Code, Status: status, ExtractedAt: at})
	}
	return rows
}

// DefaultFileName returns the timestamped download name for format.
func DefaultFileName(at time.Time, format Format) string {
	return fmt.Sprintf("siren_extraits_%s.%s", at.Format("20060102_150405"), format)
}
