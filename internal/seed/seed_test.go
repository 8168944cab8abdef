package seed

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/pkg/auth"
)

func TestMain(m *testing.M) {
	auth.BcryptCost = 4
	os.Exit(m.Run())
}

type memory struct {
	users         map[string]*models.User
	profiles      map[int64]*models.StudentProfile
	drives        []*models.Drive
	applications  []*models.Application
	notifications map[int64][]string
	nextID        int64
}

func newMemory() *memory {
	return &memory{
		users:         map[string]*models.User{},
		profiles:      map[int64]*models.StudentProfile{},
		notifications: map[int64][]string{},
	}
}

func (m *memory) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memory) Create(_ context.Context, u *models.User) error {
	u.ID = m.id()
	m.users[u.Email] = u
	return nil
}

func (m *memory) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := m.users[email]
	return ok, nil
}

type profiles struct{ m *memory }

func (p profiles) Replace(_ context.Context, profile *models.StudentProfile) error {
	p.m.profiles[profile.UserID] = profile
	return nil
}

type drives struct{ m *memory }

func (d drives) Create(_ context.Context, drive *models.Drive) error {
	drive.ID = d.m.id()
	d.m.drives = append(d.m.drives, drive)
	return nil
}

type applications struct{ m *memory }

func (a applications) Create(_ context.Context, app *models.Application) error {
	app.ID = a.m.id()
	a.m.applications = append(a.m.applications, app)
	return nil
}

type notifications struct{ m *memory }

func (n notifications) Create(_ context.Context, userID int64, message string) error {
	n.m.notifications[userID] = append(n.m.notifications[userID], message)
	return nil
}

func storesFor(m *memory) Stores {
	return Stores{
		Users:         m,
		Profiles:      profiles{m},
		Drives:        drives{m},
		Applications:  applications{m},
		Notifications: notifications{m},
	}
}

func TestCreateDemoData(t *testing.T) {
	m := newMemory()
	now := time.Date(2026, 3, 1, 15, 4, 5, 0, time.UTC)

	require.NoError(t, CreateDemoData(context.Background(), storesFor(m), now, zerolog.Nop()))

	admin := m.users[AdminEmail]
	require.NotNil(t, admin)
	assert.Equal(t, models.RoleAdmin, admin.RoleType)
	assert.True(t, auth.CheckPassword(admin.Password, DemoPassword))

	assert.Len(t, m.users, 6)
	assert.Len(t, m.profiles, 5)
	alice := m.profiles[m.users["alice@college.edu"].ID]
	assert.Equal(t, "Information Technology", alice.Department)
	assert.Equal(t, 9.0, alice.CGPA)

	require.Len(t, m.drives, 5)
	google := m.drives[0]
	assert.Equal(t, "Google", google.CompanyName)
	assert.Equal(t, "2026-03-16", google.Deadline.Format(models.DeadlineLayout))
	assert.Equal(t, admin.ID, google.CreatedBy)
	require.NotNil(t, google.PackageLPA)
	assert.Equal(t, 25.0, *google.PackageLPA)

	assert.Len(t, m.applications, 6)
	john := m.users["student@college.edu"]
	assert.Equal(t, []string{"Application status updated: Google - shortlisted"}, m.notifications[john.ID])
}

func TestCreateDemoDataSkipsWhenSeeded(t *testing.T) {
	m := newMemory()
	m.users[AdminEmail] = &models.User{ID: 1, Email: AdminEmail, RoleType: models.RoleAdmin}

	require.NoError(t, CreateDemoData(context.Background(), storesFor(m), time.Now(), zerolog.Nop()))
	assert.Len(t, m.users, 1)
	assert.Empty(t, m.drives)
}
