package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/pkg/apperrors"
)

type appFixture struct {
	svc           *ApplicationService
	drives        *fakeDrives
	apps          *fakeApps
	profiles      *fakeProfiles
	notifications *fakeNotifications
}

func newAppFixture(policy models.TransitionPolicy, profiles ...*models.StudentProfile) *appFixture {
	f := &appFixture{
		drives:        newFakeDrives(),
		profiles:      newFakeProfiles(profiles...),
		notifications: &fakeNotifications{},
	}
	f.apps = newFakeApps(f.drives)
	f.svc = NewApplicationService(f.apps, f.drives, f.profiles, f.notifications, policy, zerolog.Nop())
	return f
}

func (f *appFixture) addDrive(t *testing.T, company string, status models.DriveStatus) *models.Drive {
	t.Helper()
	d := &models.Drive{CompanyName: company, JobRole: "SDE", Status: status, Deadline: time.Now().AddDate(0, 1, 0)}
	require.NoError(t, f.drives.Create(context.Background(), d))
	return d
}

func studentProfile(id int64, email string) *models.StudentProfile {
	return &models.StudentProfile{
		UserID: id, Name: "Student " + email, Email: email,
		Department: "Computer Science", Batch: 2025, CGPA: 8.2, Skills: []string{"Go", "SQL"},
	}
}

func TestApplySnapshotsProfile(t *testing.T) {
	f := newAppFixture(models.TransitionPermissive, studentProfile(10, "alice@college.edu"))
	d := f.addDrive(t, "Acme", models.DriveStatusActive)

	app, err := f.svc.Apply(context.Background(), student, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, app.Status)
	assert.Equal(t, "alice@college.edu", app.StudentEmail)
	assert.Equal(t, "Computer Science", app.StudentDepartment)
	assert.Equal(t, 8.2, app.StudentCGPA)
	assert.Equal(t, []string{"Go", "SQL"}, app.StudentSkills)
	assert.Equal(t, "Acme", app.CompanyName)

	// later profile edits do not change the snapshot
	p, _ := f.profiles.GetByUserID(context.Background(), 10)
	p.CGPA = 5
	require.NoError(t, f.profiles.Replace(context.Background(), p))
	stored, err := f.apps.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.2, stored.StudentCGPA)
}

func TestApplyTwiceConflicts(t *testing.T) {
	f := newAppFixture(models.TransitionPermissive, studentProfile(10, "alice@college.edu"))
	d := f.addDrive(t, "Acme", models.DriveStatusActive)

	_, err := f.svc.Apply(context.Background(), student, d.ID)
	require.NoError(t, err)
	_, err = f.svc.Apply(context.Background(), student, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyApplied)
}

func TestApplyRejectsMissingOrClosedDrive(t *testing.T) {
	f := newAppFixture(models.TransitionPermissive, studentProfile(10, "alice@college.edu"))
	closed := f.addDrive(t, "Acme", models.DriveStatusClosed)

	_, err := f.svc.Apply(context.Background(), student, 404)
	assert.ErrorIs(t, err, apperrors.ErrDriveNotFound)

	_, err = f.svc.Apply(context.Background(), student, closed.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestListScopesStudents(t *testing.T) {
	f := newAppFixture(models.TransitionPermissive, studentProfile(10, "a@college.edu"), studentProfile(11, "b@college.edu"))
	d := f.addDrive(t, "Acme", models.DriveStatusActive)
	ctx := context.Background()
	_, err := f.svc.Apply(ctx, student, d.ID)
	require.NoError(t, err)
	_, err = f.svc.Apply(ctx, Caller{UserID: 11, Role: models.RoleStudent}, d.ID)
	require.NoError(t, err)

	mine, err := f.svc.List(ctx, student)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, student.UserID, mine[0].StudentID)

	all, err := f.svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byDrive, err := f.svc.ListByDrive(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, byDrive, 2)

	_, err = f.svc.ListByDrive(ctx, 404)
	assert.ErrorIs(t, err, apperrors.ErrDriveNotFound)
}

func TestUpdateStatusNotifiesStudent(t *testing.T) {
	f := newAppFixture(models.TransitionPermissive, studentProfile(10, "alice@college.edu"))
	d := f.addDrive(t, "Acme", models.DriveStatusActive)
	app, err := f.svc.Apply(context.Background(), student, d.ID)
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(context.Background(), app.ID, models.StatusInterview)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInterview, updated.Status)
	assert.Equal(t, []string{"Application status updated: Acme - interview"}, f.notifications.messagesFor(10))
}

func TestUpdateStatusSurvivesNotificationFailure(t *testing.T) {
	f := newAppFixture(models.TransitionPermissive, studentProfile(10, "alice@college.edu"))
	d := f.addDrive(t, "Acme", models.DriveStatusActive)
	app, err := f.svc.Apply(context.Background(), student, d.ID)
	require.NoError(t, err)
	f.notifications.createErr = errors.New("db down")

	updated, err := f.svc.UpdateStatus(context.Background(), app.ID, models.StatusSelected)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSelected, updated.Status)
}

func TestUpdateStatusPolicies(t *testing.T) {
	for _, tc := range []struct {
		policy  models.TransitionPolicy
		allowed bool
	}{
		{models.TransitionPermissive, true},
		{models.TransitionWorkflow, false},
	} {
		t.Run(string(tc.policy), func(t *testing.T) {
			f := newAppFixture(tc.policy, studentProfile(10, "alice@college.edu"))
			d := f.addDrive(t, "Acme", models.DriveStatusActive)
			app, err := f.svc.Apply(context.Background(), student, d.ID)
			require.NoError(t, err)
			_, err = f.svc.UpdateStatus(context.Background(), app.ID, models.StatusRejected)
			require.NoError(t, err)

			_, err = f.svc.UpdateStatus(context.Background(), app.ID, models.StatusSelected)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
			}
		})
	}
}

func TestUpdateStatusUnknown(t *testing.T) {
	f := newAppFixture(models.TransitionPermissive)
	_, err := f.svc.UpdateStatus(context.Background(), 1, "hired")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.UpdateStatus(context.Background(), 1, models.StatusSelected)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

func TestWithdraw(t *testing.T) {
	f := newAppFixture(models.TransitionPermissive, studentProfile(10, "a@college.edu"), studentProfile(11, "b@college.edu"))
	ctx := context.Background()
	d := f.addDrive(t, "Acme", models.DriveStatusActive)
	mine, err := f.svc.Apply(ctx, student, d.ID)
	require.NoError(t, err)

	other := Caller{UserID: 11, Role: models.RoleStudent}
	assert.ErrorIs(t, f.svc.Withdraw(ctx, other, mine.ID), apperrors.ErrApplicationNotFound)

	_, err = f.svc.UpdateStatus(ctx, mine.ID, models.StatusShortlisted)
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.Withdraw(ctx, student, mine.ID), apperrors.ErrWithdrawNotAllowed)

	_, err = f.svc.UpdateStatus(ctx, mine.ID, models.StatusApplied)
	require.NoError(t, err)
	require.NoError(t, f.svc.Withdraw(ctx, student, mine.ID))
	assert.ErrorIs(t, f.svc.Withdraw(ctx, student, mine.ID), apperrors.ErrApplicationNotFound)
}
