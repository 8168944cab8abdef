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
	"github.com/yigit/placement/internal/pkg/dberrors"
)

const applicationsDriveStudentKey = "applications_drive_id_student_id_key"

// ApplicationFilter narrows an application listing. Nil fields mean no constraint.
type ApplicationFilter struct {
	StudentID *int64
	DriveID   *int64
}

// ApplicationRepository handles database operations for applications
type ApplicationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// selectQuery joins the drive so responses carry company name and role
func (r *ApplicationRepository) selectQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"a.id", "a.drive_id", "a.student_id", "a.status",
		"a.student_name", "a.student_email", "a.student_department", "a.student_cgpa", "a.student_skills",
		"d.company_name", "d.job_role", "a.applied_at", "a.updated_at",
	).From("applications a").
		Join("drives d ON d.id = a.drive_id")
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	err := row.Scan(
		&a.ID, &a.DriveID, &a.StudentID, &a.Status,
		&a.StudentName, &a.StudentEmail, &a.StudentDepartment, &a.StudentCGPA, &a.StudentSkills,
		&a.CompanyName, &a.JobRole, &a.AppliedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error scanning application: %w", err)
	}
	return &a, nil
}

// Create inserts an application with its student snapshot
func (r *ApplicationRepository) Create(ctx context.Context, a *models.Application) error {
	sql, args, err := r.sb.Insert("applications").
		Columns("drive_id", "student_id", "status",
			"student_name", "student_email", "student_department", "student_cgpa", "student_skills").
		Values(a.DriveID, a.StudentID, a.Status,
			a.StudentName, a.StudentEmail, a.StudentDepartment, a.StudentCGPA, nonNil(a.StudentSkills)).
		Suffix("RETURNING id, applied_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create application SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.AppliedAt, &a.UpdatedAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, applicationsDriveStudentKey):
			return apperrors.ErrAlreadyApplied
		case dberrors.IsForeignKeyError(err):
			return apperrors.ErrDriveNotFound
		}
		return fmt.Errorf("error creating application: %w", err)
	}
	return nil
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	sql, args, err := r.selectQuery().Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get application SQL: %w", err)
	}
	return scanApplication(r.db.QueryRow(ctx, sql, args...))
}

func (r *ApplicationRepository) listQuery(filter ApplicationFilter) squirrel.SelectBuilder {
	q := r.selectQuery().OrderBy("a.applied_at DESC", "a.id DESC")
	if filter.StudentID != nil {
		q = q.Where(squirrel.Eq{"a.student_id": *filter.StudentID})
	}
	if filter.DriveID != nil {
		q = q.Where(squirrel.Eq{"a.drive_id": *filter.DriveID})
	}
	return q
}

// List returns applications matching the filter, newest first
func (r *ApplicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]*models.Application, error) {
	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list applications SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	apps := []*models.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// updateStatusSQL changes the status and returns the enriched row in one statement.
// The RETURNING list must stay in selectQuery's column order for scanApplication.
const updateStatusSQL = `
	UPDATE applications a
	SET status = $1, updated_at = NOW()
	FROM drives d
	WHERE a.id = $2 AND d.id = a.drive_id
	RETURNING a.id, a.drive_id, a.student_id, a.status,
		a.student_name, a.student_email, a.student_department, a.student_cgpa, a.student_skills,
		d.company_name, d.job_role, a.applied_at, a.updated_at`

// UpdateStatus sets the status of an application and returns the fresh row
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, updateStatusSQL, status, id))
}

// Delete removes an application
func (r *ApplicationRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("applications").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building delete application SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}
