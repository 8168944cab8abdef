package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/placement/internal/app/models"
)

// AnalyticsRepository runs the aggregate queries behind the admin dashboard
type AnalyticsRepository struct {
	db *pgxpool.Pool
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(db *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

const totalsSQL = `
	SELECT
		(SELECT COUNT(*) FROM drives),
		(SELECT COUNT(*) FROM drives WHERE status = 'active'),
		(SELECT COUNT(*) FROM student_profiles),
		(SELECT COUNT(*) FROM applications)`

const departmentStatsSQL = `
	SELECT COALESCE(NULLIF(TRIM(department), ''), $1), COUNT(*)
	FROM student_profiles
	GROUP BY 1`

const statusStatsSQL = `SELECT status, COUNT(*) FROM applications GROUP BY status`

// Snapshot computes all dashboard aggregates in one round trip
func (r *AnalyticsRepository) Snapshot(ctx context.Context) (*models.Analytics, error) {
	batch := &pgx.Batch{}
	batch.Queue(totalsSQL)
	batch.Queue(departmentStatsSQL, models.UnspecifiedDepartment)
	batch.Queue(statusStatsSQL)

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	a := &models.Analytics{
		DepartmentStats: map[string]int64{},
		StatusStats:     map[string]int64{},
	}
	if err := results.QueryRow().Scan(&a.TotalDrives, &a.ActiveDrives, &a.TotalStudents, &a.TotalApplications); err != nil {
		return nil, fmt.Errorf("error counting totals: %w", err)
	}
	if err := scanCounts(results, a.DepartmentStats); err != nil {
		return nil, fmt.Errorf("error counting departments: %w", err)
	}
	if err := scanCounts(results, a.StatusStats); err != nil {
		return nil, fmt.Errorf("error counting statuses: %w", err)
	}
	return a, nil
}

func scanCounts(results pgx.BatchResults, into map[string]int64) error {
	rows, err := results.Query()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		into[key] = n
	}
	return rows.Err()
}
