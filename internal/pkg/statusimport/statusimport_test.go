package statusimport

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/placement/internal/app/models"
)

type update struct {
	id     int64
	status models.ApplicationStatus
}

// fakeLedger keeps statuses in memory and records every update call.
type fakeLedger struct {
	entries  []Entry
	statuses map[int64]models.ApplicationStatus
	failIDs  map[int64]bool
	listErr  error
	calls    []update
	lists    int
}

func newFakeLedger(entries ...Entry) *fakeLedger {
	l := &fakeLedger{
		entries:  entries,
		statuses: make(map[int64]models.ApplicationStatus),
		failIDs:  make(map[int64]bool),
	}
	for _, e := range entries {
		l.statuses[e.ApplicationID] = models.StatusApplied
	}
	return l
}

func (l *fakeLedger) ListApplications(ctx context.Context) ([]Entry, error) {
	l.lists++
	return l.entries, l.listErr
}

func (l *fakeLedger) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	l.calls = append(l.calls, update{id: id, status: status})
	if l.failIDs[id] {
		return errors.New("backend rejected update")
	}
	l.statuses[id] = status
	return nil
}

func run(t *testing.T, ledger Ledger, driveID int64, csv string) Report {
	t.Helper()
	rows, err := Parse(csv)
	require.NoError(t, err)
	report, err := NewImporter(ledger, zerolog.Nop()).Run(context.Background(), driveID, rows)
	require.NoError(t, err)
	return report
}

func TestParse(t *testing.T) {
	rows, err := Parse("email,status\r\n\n a@x.edu , Selected \nmissing-status\n,rejected\nb@x.edu,\nc@x.edu,interview,extra\n")
	require.NoError(t, err)

	assert.Equal(t, []Row{
		{Line: 3, Email: "a@x.edu", Status: "selected"},
		{Line: 7, Email: "c@x.edu", Status: "interview"},
	}, rows)
}

func TestParseRejectsEmptyAndHeaderOnly(t *testing.T) {
	for _, contents := range []string{"", "\n\n", "email,status", "email,status\n\n  \n"} {
		_, err := Parse(contents)
		assert.ErrorIs(t, err, ErrEmptyFile, "contents %q", contents)
	}
}

func TestValidateFileName(t *testing.T) {
	assert.NoError(t, ValidateFileName("statuses.csv"))
	assert.NoError(t, ValidateFileName("STATUSES.CSV"))
	assert.ErrorIs(t, ValidateFileName("statuses.xlsx"), ErrNotCSV)
	assert.ErrorIs(t, ValidateFileName("csv"), ErrNotCSV)
}

func TestClampStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    models.ApplicationStatus
		coerced bool
	}{
		{"selected", models.StatusSelected, false},
		{"Waitlisted", models.StatusWaitlisted, false},
		{"interview", models.StatusInterview, false},
		{"bogus", models.StatusShortlisted, true},
		{"applied", models.StatusShortlisted, true},
	}
	for _, tt := range tests {
		got, coerced := ClampStatus(tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
		assert.Equal(t, tt.coerced, coerced, tt.raw)
	}
}

func TestRunMixedRows(t *testing.T) {
	ledger := newFakeLedger(
		Entry{ApplicationID: 1, DriveID: 10, StudentEmail: "a@x.edu"},
		Entry{ApplicationID: 2, DriveID: 10, StudentEmail: "b@x.edu"},
	)

	report := run(t, ledger, 10, "email,status\na@x.edu,selected\nb@x.edu,bogus\nc@x.edu,rejected")

	assert.Equal(t, 2, report.SuccessCount)
	assert.Equal(t, 1, report.FailCount)
	assert.Equal(t, 1, report.Coerced)
	assert.Equal(t, map[models.ApplicationStatus]int{
		models.StatusSelected:    1,
		models.StatusShortlisted: 1,
	}, report.PerStatus)
	assert.Equal(t, models.StatusSelected, ledger.statuses[1])
	assert.Equal(t, models.StatusShortlisted, ledger.statuses[2])
	assert.Len(t, ledger.calls, 2)
	assert.Equal(t, 1, ledger.lists)
}

func TestRunUnmatchedRowsMakeNoCalls(t *testing.T) {
	ledger := newFakeLedger(
		Entry{ApplicationID: 1, DriveID: 10, StudentEmail: "a@x.edu"},
		Entry{ApplicationID: 2, DriveID: 11, StudentEmail: "b@x.edu"},
	)

	report := run(t, ledger, 10, "email,status\nb@x.edu,selected\nnobody@x.edu,rejected")

	assert.Equal(t, 0, report.SuccessCount)
	assert.Equal(t, 2, report.FailCount)
	assert.Empty(t, ledger.calls)
	assert.Equal(t, models.StatusApplied, ledger.statuses[2])
}

func TestRunMatchesEmailCaseInsensitively(t *testing.T) {
	ledger := newFakeLedger(Entry{ApplicationID: 5, DriveID: 1, StudentEmail: "Alice@College.edu"})

	report := run(t, ledger, 1, "email,status\nalice@COLLEGE.EDU,interview")

	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, models.StatusInterview, ledger.statuses[5])
}

func TestRunContinuesAfterFailedCall(t *testing.T) {
	ledger := newFakeLedger(
		Entry{ApplicationID: 1, DriveID: 3, StudentEmail: "a@x.edu"},
		Entry{ApplicationID: 2, DriveID: 3, StudentEmail: "b@x.edu"},
	)
	ledger.failIDs[1] = true

	report := run(t, ledger, 3, "email,status\na@x.edu,selected\nb@x.edu,rejected")

	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, 1, report.FailCount)
	assert.Equal(t, []update{{1, models.StatusSelected}, {2, models.StatusRejected}}, ledger.calls)
}

func TestRunIsIdempotentOnFinalState(t *testing.T) {
	ledger := newFakeLedger(
		Entry{ApplicationID: 1, DriveID: 3, StudentEmail: "a@x.edu"},
		Entry{ApplicationID: 2, DriveID: 3, StudentEmail: "b@x.edu"},
	)
	csv := "email,status\na@x.edu,selected\nb@x.edu,waitlisted"

	first := run(t, ledger, 3, csv)
	snapshot := map[int64]models.ApplicationStatus{1: ledger.statuses[1], 2: ledger.statuses[2]}
	second := run(t, ledger, 3, csv)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, map[int64]models.ApplicationStatus{1: ledger.statuses[1], 2: ledger.statuses[2]})
}

func TestRunLedgerListFailure(t *testing.T) {
	ledger := newFakeLedger()
	ledger.listErr = errors.New("connection refused")

	_, err := NewImporter(ledger, zerolog.Nop()).Run(context.Background(), 1, []Row{{Email: "a@x.edu", Status: "selected"}})
	assert.ErrorContains(t, err, "connection refused")
	assert.Empty(t, ledger.calls)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ledger := newFakeLedger(Entry{ApplicationID: 1, DriveID: 1, StudentEmail: "a@x.edu"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewImporter(ledger, zerolog.Nop()).Run(ctx, 1, []Row{{Email: "a@x.edu", Status: "selected"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, report.SuccessCount)
	assert.Empty(t, ledger.calls)
}

func TestReportSummary(t *testing.T) {
	report := Report{
		SuccessCount: 2,
		FailCount:    1,
		Coerced:      1,
		PerStatus: map[models.ApplicationStatus]int{
			models.StatusShortlisted: 1,
			models.StatusSelected:    1,
		},
	}

	assert.Equal(t, "Updated 2 applications, 1 failed (selected: 1, shortlisted: 1); 1 unknown status value set to shortlisted", report.Summary())
	assert.Equal(t, "Updated 1 application, 0 failed", Report{SuccessCount: 1}.Summary())
}
