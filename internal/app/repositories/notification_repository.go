package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/pkg/apperrors"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *NotificationRepository) listQuery(userID int64, limit int) squirrel.SelectBuilder {
	return r.sb.Select("id", "user_id", "message", "read", "created_at").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))
}

// ListByUser returns the newest notifications of a user
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Notification, error) {
	sql, args, err := r.listQuery(userID, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list notifications SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	list := []*models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

// Create stores a single notification
func (r *NotificationRepository) Create(ctx context.Context, userID int64, message string) error {
	sql, args, err := r.sb.Insert("notifications").
		Columns("user_id", "message").
		Values(userID, message).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create notification SQL: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// CreateMany sends the same message to many users with a single COPY
func (r *NotificationRepository) CreateMany(ctx context.Context, userIDs []int64, message string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	n, err := r.db.CopyFrom(ctx, pgx.Identifier{"notifications"}, notificationCopyColumns, pgx.CopyFromRows(copyRows(userIDs, message)))
	if err != nil {
		return 0, fmt.Errorf("error creating notifications: %w", err)
	}
	return n, nil
}

var notificationCopyColumns = []string{"user_id", "message"}

func copyRows(userIDs []int64, message string) [][]interface{} {
	rows := make([][]interface{}, len(userIDs))
	for i, id := range userIDs {
		rows[i] = []interface{}{id, message}
	}
	return rows
}

func (r *NotificationRepository) markReadQuery(id, userID int64) squirrel.UpdateBuilder {
	return r.sb.Update("notifications").
		Set("read", true).
		Where(squirrel.Eq{"id": id, "user_id": userID})
}

func (r *NotificationRepository) markAllReadQuery(userID int64) squirrel.UpdateBuilder {
	return r.sb.Update("notifications").
		Set("read", true).
		Where(squirrel.Eq{"user_id": userID, "read": false})
}

// MarkRead marks one of the user's notifications as read
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	sql, args, err := r.markReadQuery(id, userID).ToSql()
	if err != nil {
		return fmt.Errorf("error building mark read SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotificationMissing
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	sql, args, err := r.markAllReadQuery(userID).ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building mark all read SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error marking notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
