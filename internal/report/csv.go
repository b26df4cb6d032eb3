// Package report synthesizes the downloadable compliance report from the
// in-memory record set. The format is fixed: a known header, one row per
// record, every field wrapped in double quotes.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"compdash/internal/model"
)

// Header is the fixed column order of the exported report.
const Header = `Framework,Obligation ID,Description,Status,Confidence,Category,Severity,Action,Reason`

// ErrNoRecords reports an export attempt over an empty record set.
var ErrNoRecords = fmt.Errorf("no compliance data to export")

// Filename returns the dated report name, compliance-report-YYYY-MM-DD.csv.
func Filename(now time.Time) string {
	return "compliance-report-" + now.Format("2006-01-02") + ".csv"
}

// Write renders the report to w: header plus one line per record, every
// field double-quoted with embedded quotes doubled.
func Write(w io.Writer, records []model.ComplianceRecord) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	// Exactly len(records)+1 lines: no trailing newline.
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, Header)

	for _, r := range records {
		fields := []string{
			r.Framework,
			r.ObligationID,
			r.Description,
			string(r.Status),
			strconv.FormatFloat(r.Confidence, 'g', -1, 64),
			r.Category,
			string(r.Severity),
			r.Action,
			r.Reason,
		}
		quoted := make([]string, len(fields))
		for i, f := range fields {
			quoted[i] = quote(f)
		}
		lines = append(lines, strings.Join(quoted, ","))
	}

	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Export writes the report to a dated file in dir and returns its path.
func Export(dir string, records []model.ComplianceRecord, now time.Time) (string, error) {
	path := dir
	if path == "" {
		path = "."
	}
	path = path + string(os.PathSeparator) + Filename(now)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	if err := Write(f, records); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
