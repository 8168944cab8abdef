// Package statusimport applies CSV-driven status changes to the applications of one drive.
//
// The same importer runs in the CLI (against the REST API) and in the server
// (against the application service); both provide a Ledger.
package statusimport

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
)

var (
	// ErrEmptyFile is returned for files without any data row after the header.
	ErrEmptyFile = errors.New("csv file has no data rows")
	// ErrNotCSV is returned when the file name does not carry a .csv extension.
	ErrNotCSV = errors.New("file must be a .csv file")
)

// FallbackStatus is used for rows whose requested status is not importable.
const FallbackStatus = models.StatusShortlisted

// importable is the set of statuses a CSV row may request.
var importable = map[models.ApplicationStatus]struct{}{
	models.StatusShortlisted: {},
	models.StatusSelected:    {},
	models.StatusRejected:    {},
	models.StatusWaitlisted:  {},
	models.StatusInterview:   {},
}

// Row is one parsed (email, status) pair. Status is the raw lower-cased value.
type Row struct {
	Line   int
	Email  string
	Status string
}

// Entry is the slice of an application the importer needs.
type Entry struct {
	ApplicationID int64
	DriveID       int64
	StudentEmail  string
}

// Ledger is the application store the importer reads from and writes to.
type Ledger interface {
	ListApplications(ctx context.Context) ([]Entry, error)
	UpdateStatus(ctx context.Context, applicationID int64, status models.ApplicationStatus) error
}

// Report is the outcome of one import run.
type Report struct {
	SuccessCount int
	FailCount    int
	// Coerced counts rows whose status fell back to FallbackStatus.
	Coerced   int
	PerStatus map[models.ApplicationStatus]int
}

// ValidateFileName rejects anything that is not named *.csv.
func ValidateFileName(name string) error {
	if !strings.EqualFold(filepath.Ext(strings.TrimSpace(name)), ".csv") {
		return fmt.Errorf("%w: %q", ErrNotCSV, name)
	}
	return nil
}

// Parse reads CSV contents. Blank lines are ignored and the first remaining
// line is treated as the header. Rows missing an email or a status are dropped.
func Parse(contents string) ([]Row, error) {
	type numbered struct {
		n    int
		text string
	}

	var lines []numbered
	for i, line := range strings.Split(contents, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, numbered{n: i + 1, text: line})
	}
	if len(lines) <= 1 {
		return nil, ErrEmptyFile
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := strings.Split(line.text, ",")
		if len(fields) < 2 {
			continue
		}
		email := strings.TrimSpace(fields[0])
		status := strings.ToLower(strings.TrimSpace(fields[1]))
		if email == "" || status == "" {
			continue
		}
		rows = append(rows, Row{Line: line.n, Email: email, Status: status})
	}
	return rows, nil
}

// ClampStatus maps a requested status onto the importable set.
// Unknown or non-importable values become FallbackStatus with coerced set.
func ClampStatus(raw string) (status models.ApplicationStatus, coerced bool) {
	s := models.ApplicationStatus(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := importable[s]; ok {
		return s, false
	}
	return FallbackStatus, true
}

// Importer runs parsed rows against a Ledger.
type Importer struct {
	ledger Ledger
	logger zerolog.Logger
}

// NewImporter creates an Importer
func NewImporter(ledger Ledger, logger zerolog.Logger) *Importer {
	return &Importer{ledger: ledger, logger: logger}
}

// Run applies rows to the applications of driveID, one update at a time in row order.
// A failed update is counted and the next row is still attempted. If ctx is
// cancelled the partial report is returned together with the context error.
func (im *Importer) Run(ctx context.Context, driveID int64, rows []Row) (Report, error) {
	report := Report{PerStatus: make(map[models.ApplicationStatus]int)}

	entries, err := im.ledger.ListApplications(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load applications: %w", err)
	}

	byEmail := make(map[string]int64)
	for _, e := range entries {
		if e.DriveID != driveID {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(e.StudentEmail))
		if _, dup := byEmail[key]; !dup {
			byEmail[key] = e.ApplicationID
		}
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		appID, ok := byEmail[strings.ToLower(row.Email)]
		if !ok {
			im.logger.Debug().Int("line", row.Line).Str("email", row.Email).Msg("No application for email under drive")
			report.FailCount++
			continue
		}

		status, coerced := ClampStatus(row.Status)
		if coerced {
			report.Coerced++
			im.logger.Warn().Int("line", row.Line).Str("requested", row.Status).Str("applied", string(status)).Msg("Unknown status coerced")
		}

		if err := im.ledger.UpdateStatus(ctx, appID, status); err != nil {
			im.logger.Warn().Err(err).Int("line", row.Line).Int64("applicationID", appID).Msg("Status update failed")
			report.FailCount++
			continue
		}

		report.SuccessCount++
		report.PerStatus[status]++
	}

	im.logger.Info().
		Int64("driveID", driveID).
		Int("success", report.SuccessCount).
		Int("failed", report.FailCount).
		Int("coerced", report.Coerced).
		Msg("Status import finished")

	return report, nil
}

// Summary renders the report for people.
func (r Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Updated %d application%s, %d failed", r.SuccessCount, plural(r.SuccessCount), r.FailCount)

	if len(r.PerStatus) > 0 {
		statuses := make([]string, 0, len(r.PerStatus))
		for s := range r.PerStatus {
			statuses = append(statuses, string(s))
		}
		sort.Strings(statuses)

		parts := make([]string, 0, len(statuses))
		for _, s := range statuses {
			parts = append(parts, fmt.Sprintf("%s: %d", s, r.PerStatus[models.ApplicationStatus(s)]))
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}

	if r.Coerced > 0 {
		fmt.Fprintf(&b, "; %d unknown status value%s set to %s", r.Coerced, plural(r.Coerced), FallbackStatus)
	}
	return b.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
