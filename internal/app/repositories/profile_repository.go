package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/pkg/apperrors"
)

// ProfileRepository handles database operations for student profiles
type ProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ProfileRepository) selectQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"p.user_id", "u.name", "u.email", "p.department", "p.batch", "p.cgpa", "p.skills", "p.resume_url",
		"p.phone", "p.date_of_birth", "p.gender", "p.address", "p.bio",
		"p.linkedin_url", "p.github_url", "p.portfolio_url",
		"p.tenth_percentage", "p.twelfth_percentage", "p.backlogs",
		"p.languages", "p.certifications", "p.projects", "p.updated_at",
	).From("student_profiles p").
		Join("users u ON u.id = p.user_id")
}

func scanProfile(row pgx.Row) (*models.StudentProfile, error) {
	var p models.StudentProfile
	err := row.Scan(
		&p.UserID, &p.Name, &p.Email, &p.Department, &p.Batch, &p.CGPA, &p.Skills, &p.ResumeURL,
		&p.Phone, &p.DateOfBirth, &p.Gender, &p.Address, &p.Bio,
		&p.LinkedInURL, &p.GitHubURL, &p.PortfolioURL,
		&p.TenthPercentage, &p.TwelfthPercentage, &p.Backlogs,
		&p.Languages, &p.Certifications, &p.Projects, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error scanning profile: %w", err)
	}
	return &p, nil
}

// GetByUserID retrieves the profile of a student
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	sql, args, err := r.selectQuery().Where(squirrel.Eq{"p.user_id": userID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get profile SQL: %w", err)
	}
	return scanProfile(r.db.QueryRow(ctx, sql, args...))
}

// ListAll returns every student profile
func (r *ProfileRepository) ListAll(ctx context.Context) ([]*models.StudentProfile, error) {
	sql, args, err := r.selectQuery().OrderBy("p.user_id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list profiles SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.StudentProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Replace overwrites every editable field of the profile, creating it if missing.
// The student's display name lives on users and is written in the same transaction.
func (r *ProfileRepository) Replace(ctx context.Context, profile *models.StudentProfile) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		sql, args, err := r.sb.Update("users").
			Set("name", profile.Name).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": profile.UserID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building update name SQL: %w", err)
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error updating name: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrUserNotFound
		}
		return upsertProfile(ctx, tx, r.sb, profile)
	})
}

func upsertProfile(ctx context.Context, tx pgx.Tx, sb squirrel.StatementBuilderType, p *models.StudentProfile) error {
	sql, args, err := sb.Insert("student_profiles").
		Columns(
			"user_id", "department", "batch", "cgpa", "skills",
			"phone", "date_of_birth", "gender", "address", "bio",
			"linkedin_url", "github_url", "portfolio_url",
			"tenth_percentage", "twelfth_percentage", "backlogs",
			"languages", "certifications", "projects",
		).
		Values(
			p.UserID, p.Department, p.Batch, p.CGPA, nonNil(p.Skills),
			p.Phone, p.DateOfBirth, p.Gender, p.Address, p.Bio,
			p.LinkedInURL, p.GitHubURL, p.PortfolioURL,
			p.TenthPercentage, p.TwelfthPercentage, p.Backlogs,
			nonNil(p.Languages), nonNil(p.Certifications), nonNil(p.Projects),
		).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			department = EXCLUDED.department, batch = EXCLUDED.batch, cgpa = EXCLUDED.cgpa,
			skills = EXCLUDED.skills, phone = EXCLUDED.phone, date_of_birth = EXCLUDED.date_of_birth,
			gender = EXCLUDED.gender, address = EXCLUDED.address, bio = EXCLUDED.bio,
			linkedin_url = EXCLUDED.linkedin_url, github_url = EXCLUDED.github_url,
			portfolio_url = EXCLUDED.portfolio_url, tenth_percentage = EXCLUDED.tenth_percentage,
			twelfth_percentage = EXCLUDED.twelfth_percentage, backlogs = EXCLUDED.backlogs,
			languages = EXCLUDED.languages, certifications = EXCLUDED.certifications,
			projects = EXCLUDED.projects, updated_at = NOW()
			RETURNING updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building upsert profile SQL: %w", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&p.UpdatedAt); err != nil {
		return fmt.Errorf("error saving profile: %w", err)
	}
	return nil
}

// UpdateResumeURL stores the link to the student's uploaded resume
func (r *ProfileRepository) UpdateResumeURL(ctx context.Context, userID int64, url string) error {
	sql, args, err := r.sb.Update("student_profiles").
		Set("resume_url", url).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update resume SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// nonNil keeps NOT NULL array columns from receiving NULL
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
