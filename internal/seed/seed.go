package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/services"
	"github.com/yigit/placement/internal/pkg/auth"
)

// DemoPassword is shared by every seeded account
const DemoPassword = "demo123"

// AdminEmail identifies the seeded admin; its presence marks the database as seeded
const AdminEmail = "admin@college.edu"

// UserStore creates accounts (and the empty profile of students)
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	EmailExists(ctx context.Context, email string) (bool, error)
}

// ProfileStore fills in student profiles
type ProfileStore interface {
	Replace(ctx context.Context, profile *models.StudentProfile) error
}

// DriveStore stores drives
type DriveStore interface {
	Create(ctx context.Context, d *models.Drive) error
}

// ApplicationStore stores applications
type ApplicationStore interface {
	Create(ctx context.Context, a *models.Application) error
}

// NotificationStore stores notifications
type NotificationStore interface {
	Create(ctx context.Context, userID int64, message string) error
}

// Stores groups the persistence the seeder writes to
type Stores struct {
	Users         UserStore
	Profiles      ProfileStore
	Drives        DriveStore
	Applications  ApplicationStore
	Notifications NotificationStore
}

type demoStudent struct {
	email      string
	name       string
	department string
	batch      int
	cgpa       float64
	skills     []string
}

var demoStudents = []demoStudent{
	{"student@college.edu", "John Doe", "Computer Science", 2025, 8.5, []string{"Python", "JavaScript", "React", "FastAPI"}},
	{"alice@college.edu", "Alice Smith", "Information Technology", 2025, 9.0, []string{"Java", "Spring Boot", "MongoDB", "AWS"}},
	{"bob@college.edu", "Bob Johnson", "Computer Science", 2024, 7.8, []string{"C++", "Python", "Machine Learning", "TensorFlow"}},
	{"carol@college.edu", "Carol Williams", "Electronics", 2025, 8.2, []string{"C", "Embedded Systems", "IoT", "Python"}},
	{"david@college.edu", "David Brown", "Information Technology", 2024, 8.7, []string{"React", "Node.js", "TypeScript", "Docker"}},
}

type demoDrive struct {
	company     string
	domain      string
	role        string
	pkg         string
	lpa         float64
	location    string
	description string
	daysOpen    int
	eligibility models.Eligibility
}

var (
	csIT   = []string{"Computer Science", "Information Technology"}
	csITEC = []string{"Computer Science", "Information Technology", "Electronics"}
)

var demoDrives = []demoDrive{
	{"Google", "google.com", "Software Engineer", "25-30 LPA", 25, "Bangalore",
		"Seeking talented software engineers to join our team. Work on cutting-edge technology and solve complex problems at scale.",
		15, models.Eligibility{MinCGPA: 8.0, RequiredSkills: []string{"Python", "JavaScript", "Java"}, Departments: csIT, Batches: []int{2024, 2025}}},
	{"Microsoft", "microsoft.com", "Full Stack Developer", "22-28 LPA", 22, "Hyderabad",
		"Looking for full-stack developers with strong problem-solving skills. Experience with cloud technologies is a plus.",
		20, models.Eligibility{MinCGPA: 7.5, RequiredSkills: []string{"React", "Node.js", "TypeScript"}, Departments: csIT, Batches: []int{2024, 2025}}},
	{"Amazon", "amazon.com", "SDE-1", "20-25 LPA", 20, "Mumbai",
		"Join Amazon Web Services team. Build scalable cloud solutions and work with cutting-edge AWS technologies.",
		10, models.Eligibility{MinCGPA: 7.0, RequiredSkills: []string{"Java", "AWS", "Python"}, Departments: csITEC, Batches: []int{2024, 2025}}},
	{"Goldman Sachs", "goldmansachs.com", "Technology Analyst", "18-22 LPA", 18, "Bangalore",
		"Work on financial technology solutions. Strong programming and analytical skills required.",
		25, models.Eligibility{MinCGPA: 8.5, RequiredSkills: []string{"Java", "C++", "Python"}, Departments: csIT, Batches: []int{2025}}},
	{"Flipkart", "flipkart.com", "Software Development Engineer", "15-18 LPA", 15, "Bangalore",
		"Build e-commerce solutions at scale. Work on high-traffic systems and solve real-world challenges.",
		30, models.Eligibility{MinCGPA: 7.0, RequiredSkills: []string{"Python", "JavaScript", "React"}, Departments: csIT, Batches: []int{2024, 2025}}},
}

// student index, drive index, status
var demoApplications = []struct {
	student, drive int
	status         models.ApplicationStatus
}{
	{0, 0, models.StatusShortlisted},
	{0, 1, models.StatusApplied},
	{1, 0, models.StatusInterview},
	{1, 3, models.StatusApplied},
	{2, 2, models.StatusApplied},
	{4, 1, models.StatusSelected},
}

// CreateDemoData seeds the admin, demo students, drives, applications and
// notifications. It does nothing when the admin account already exists.
func CreateDemoData(ctx context.Context, stores Stores, now time.Time, lgr zerolog.Logger) error {
	exists, err := stores.Users.EmailExists(ctx, AdminEmail)
	if err != nil {
		return fmt.Errorf("failed to check for seeded admin: %w", err)
	}
	if exists {
		lgr.Info().Msg("Demo data already present, skipping seed")
		return nil
	}

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	lgr.Info().Msg("Creating demo data...")

	admin := &models.User{Name: "Admin User", Email: AdminEmail, Password: hash, RoleType: models.RoleAdmin}
	if err := stores.Users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	var finalErr error // collects failures without stopping the seed

	students := make([]*models.StudentProfile, len(demoStudents))
	for i, s := range demoStudents {
		user := &models.User{Name: s.name, Email: s.email, Password: hash, RoleType: models.RoleStudent}
		if err := stores.Users.Create(ctx, user); err != nil {
			lgr.Error().Err(err).Str("email", s.email).Msg("Error creating demo student")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		profile := models.NewEmptyProfile(user)
		profile.Department = s.department
		profile.Batch = s.batch
		profile.CGPA = s.cgpa
		profile.Skills = s.skills
		if err := stores.Profiles.Replace(ctx, profile); err != nil {
			lgr.Error().Err(err).Str("email", s.email).Msg("Error filling demo profile")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		students[i] = profile
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	drives := make([]*models.Drive, len(demoDrives))
	for i, d := range demoDrives {
		lpa := d.lpa
		drive := &models.Drive{
			CompanyName:    d.company,
			CompanyDomain:  d.domain,
			JobRole:        d.role,
			Package:        d.pkg,
			PackageLPA:     &lpa,
			Location:       d.location,
			JobDescription: d.description,
			Deadline:       today.AddDate(0, 0, d.daysOpen),
			Status:         models.DriveStatusActive,
			Eligibility:    d.eligibility,
			CreatedBy:      admin.ID,
		}
		if err := stores.Drives.Create(ctx, drive); err != nil {
			lgr.Error().Err(err).Str("company", d.company).Msg("Error creating demo drive")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		drives[i] = drive
	}

	for _, a := range demoApplications {
		student, drive := students[a.student], drives[a.drive]
		if student == nil || drive == nil {
			continue
		}
		app := &models.Application{
			DriveID:           drive.ID,
			StudentID:         student.UserID,
			Status:            a.status,
			StudentName:       student.Name,
			StudentEmail:      student.Email,
			StudentDepartment: student.Department,
			StudentCGPA:       student.CGPA,
			StudentSkills:     student.Skills,
		}
		if err := stores.Applications.Create(ctx, app); err != nil {
			lgr.Error().Err(err).Str("email", student.Email).Str("company", drive.CompanyName).Msg("Error creating demo application")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if a.status == models.StatusApplied {
			continue
		}
		app.CompanyName = drive.CompanyName
		if err := stores.Notifications.Create(ctx, student.UserID, services.StatusMessage(app)); err != nil {
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().
		Int("students", len(demoStudents)).
		Int("drives", len(demoDrives)).
		Int("applications", len(demoApplications)).
		Msg("Demo data created (password: " + DemoPassword + ")")
	return finalErr
}
