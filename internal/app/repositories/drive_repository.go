package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/db"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/logger"
)

// DriveFilter narrows a drive listing. Zero values mean no constraint.
type DriveFilter struct {
	Status models.DriveStatus
	IDs    []int64
}

// DriveRepository handles database operations for placement drives
type DriveRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewDriveRepository creates a new DriveRepository
func NewDriveRepository(database *db.PostgresDB) *DriveRepository {
	return &DriveRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *DriveRepository) selectQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"id", "company_name", "company_domain", "job_role", "package", "package_lpa",
		"location", "job_description", "deadline", "status",
		"min_cgpa", "required_skills", "departments", "batches",
		"COALESCE(created_by, 0)", "created_at", "updated_at",
	).From("drives")
}

func scanDrive(row pgx.Row) (*models.Drive, error) {
	var d models.Drive
	err := row.Scan(
		&d.ID, &d.CompanyName, &d.CompanyDomain, &d.JobRole, &d.Package, &d.PackageLPA,
		&d.Location, &d.JobDescription, &d.Deadline, &d.Status,
		&d.Eligibility.MinCGPA, &d.Eligibility.RequiredSkills, &d.Eligibility.Departments, &d.Eligibility.Batches,
		&d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDriveNotFound
		}
		return nil, fmt.Errorf("error scanning drive: %w", err)
	}
	return &d, nil
}

// Create inserts a drive and fills its generated fields
func (r *DriveRepository) Create(ctx context.Context, d *models.Drive) error {
	var createdBy interface{}
	if d.CreatedBy > 0 {
		createdBy = d.CreatedBy
	}

	sql, args, err := r.sb.Insert("drives").
		Columns(
			"company_name", "company_domain", "job_role", "package", "package_lpa",
			"location", "job_description", "deadline", "status",
			"min_cgpa", "required_skills", "departments", "batches", "created_by",
		).
		Values(
			d.CompanyName, d.CompanyDomain, d.JobRole, d.Package, d.PackageLPA,
			d.Location, d.JobDescription, d.Deadline, d.Status,
			d.Eligibility.MinCGPA, nonNil(d.Eligibility.RequiredSkills), nonNil(d.Eligibility.Departments),
			nonNilInts(d.Eligibility.Batches), createdBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create drive SQL: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create drive query")
		return fmt.Errorf("error creating drive: %w", err)
	}
	return nil
}

// GetByID retrieves a drive by ID
func (r *DriveRepository) GetByID(ctx context.Context, id int64) (*models.Drive, error) {
	sql, args, err := r.selectQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get drive SQL: %w", err)
	}
	return scanDrive(r.db.Pool.QueryRow(ctx, sql, args...))
}

// listQuery builds the listing query; ok is false when the filter can match nothing
func (r *DriveRepository) listQuery(filter DriveFilter) (q squirrel.SelectBuilder, ok bool) {
	q = r.selectQuery().OrderBy("created_at DESC", "id DESC")
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			return q, false
		}
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}
	return q, true
}

// List returns drives matching the filter, newest first
func (r *DriveRepository) List(ctx context.Context, filter DriveFilter) ([]*models.Drive, error) {
	q, ok := r.listQuery(filter)
	if !ok {
		return []*models.Drive{}, nil
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list drives SQL: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing drives: %w", err)
	}
	defer rows.Close()

	drives := []*models.Drive{}
	for rows.Next() {
		d, err := scanDrive(rows)
		if err != nil {
			return nil, err
		}
		drives = append(drives, d)
	}
	return drives, rows.Err()
}

// Update writes every mutable column of the drive
func (r *DriveRepository) Update(ctx context.Context, d *models.Drive) error {
	sql, args, err := r.sb.Update("drives").
		Set("company_name", d.CompanyName).
		Set("company_domain", d.CompanyDomain).
		Set("job_role", d.JobRole).
		Set("package", d.Package).
		Set("package_lpa", d.PackageLPA).
		Set("location", d.Location).
		Set("job_description", d.JobDescription).
		Set("deadline", d.Deadline).
		Set("status", d.Status).
		Set("min_cgpa", d.Eligibility.MinCGPA).
		Set("required_skills", nonNil(d.Eligibility.RequiredSkills)).
		Set("departments", nonNil(d.Eligibility.Departments)).
		Set("batches", nonNilInts(d.Eligibility.Batches)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": d.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update drive SQL: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrDriveNotFound
		}
		return fmt.Errorf("error updating drive: %w", err)
	}
	return nil
}

// deleteStatements returns the cascade for a drive: its applications first, then the drive
func (r *DriveRepository) deleteStatements(id int64) []squirrel.Sqlizer {
	return []squirrel.Sqlizer{
		r.sb.Delete("applications").Where(squirrel.Eq{"drive_id": id}),
		r.sb.Delete("drives").Where(squirrel.Eq{"id": id}),
	}
}

// Delete removes a drive and its applications in one transaction.
// It returns the number of applications removed.
func (r *DriveRepository) Delete(ctx context.Context, id int64) (int64, error) {
	stmts := r.deleteStatements(id)
	var removed int64
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := stmts[0].ToSql()
		if err != nil {
			return fmt.Errorf("error building delete applications SQL: %w", err)
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error deleting drive applications: %w", err)
		}
		removed = tag.RowsAffected()

		sql, args, err = stmts[1].ToSql()
		if err != nil {
			return fmt.Errorf("error building delete drive SQL: %w", err)
		}
		tag, err = tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error deleting drive: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrDriveNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func nonNilInts(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}
