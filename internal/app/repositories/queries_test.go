package repositories

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/placement/internal/app/models"
)

func splitColumns(list string) []string {
	parts := strings.Split(list, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		cols = append(cols, strings.Join(strings.Fields(p), " "))
	}
	return cols
}

func TestApplicationListQuery(t *testing.T) {
	r := NewApplicationRepository(nil)
	studentID, driveID := int64(10), int64(3)

	sql, args, err := r.listQuery(ApplicationFilter{StudentID: &studentID, DriveID: &driveID}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM applications a JOIN drives d ON d.id = a.drive_id")
	assert.Contains(t, sql, "a.student_id = $1")
	assert.Contains(t, sql, "a.drive_id = $2")
	assert.True(t, strings.HasSuffix(sql, "ORDER BY a.applied_at DESC, a.id DESC"), sql)
	assert.Equal(t, []interface{}{studentID, driveID}, args)

	sql, args, err = r.listQuery(ApplicationFilter{}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)
}

func TestUpdateStatusReturnsSelectColumns(t *testing.T) {
	r := NewApplicationRepository(nil)
	sql, _, err := r.selectQuery().ToSql()
	require.NoError(t, err)

	selected := strings.TrimPrefix(sql[:strings.Index(sql, " FROM ")], "SELECT ")
	returning := updateStatusSQL[strings.Index(updateStatusSQL, "RETURNING")+len("RETURNING"):]

	assert.Equal(t, splitColumns(selected), splitColumns(returning))
	assert.Contains(t, updateStatusSQL, "SET status = $1")
	assert.Contains(t, updateStatusSQL, "WHERE a.id = $2")
}

func TestDriveListQuery(t *testing.T) {
	r := NewDriveRepository(nil)

	q, ok := r.listQuery(DriveFilter{Status: models.DriveStatusActive, IDs: []int64{4, 9}})
	require.True(t, ok)
	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "status = $1")
	assert.Contains(t, sql, "id IN ($2,$3)")
	assert.Equal(t, []interface{}{models.DriveStatusActive, int64(4), int64(9)}, args)

	_, ok = r.listQuery(DriveFilter{IDs: []int64{}})
	assert.False(t, ok, "an empty id set matches nothing")

	_, ok = r.listQuery(DriveFilter{})
	assert.True(t, ok)
}

func TestDriveDeleteCascadesApplicationsFirst(t *testing.T) {
	r := NewDriveRepository(nil)
	stmts := r.deleteStatements(7)
	require.Len(t, stmts, 2)

	sql, args, err := stmts[0].ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM applications WHERE drive_id = $1", sql)
	assert.Equal(t, []interface{}{int64(7)}, args)

	sql, args, err = stmts[1].ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM drives WHERE id = $1", sql)
	assert.Equal(t, []interface{}{int64(7)}, args)
}

func TestNotificationQueries(t *testing.T) {
	r := NewNotificationRepository(nil)

	sql, args, err := r.listQuery(5, 50).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE user_id = $1")
	assert.Contains(t, sql, "ORDER BY created_at DESC, id DESC")
	assert.True(t, strings.HasSuffix(sql, "LIMIT 50"), sql)
	assert.Equal(t, []interface{}{int64(5)}, args)

	sql, args, err = r.markReadQuery(12, 5).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE notifications SET read = $1 WHERE id = $2 AND user_id = $3", sql)
	assert.Equal(t, []interface{}{true, int64(12), int64(5)}, args)

	sql, args, err = r.markAllReadQuery(5).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE notifications SET read = $1 WHERE read = $2 AND user_id = $3", sql)
	assert.Equal(t, []interface{}{true, false, int64(5)}, args)
}

func TestNotificationCopyRows(t *testing.T) {
	rows := copyRows([]int64{3, 8}, "New placement drive: Acme - SDE")
	require.Len(t, rows, 2)
	for i, id := range []int64{3, 8} {
		require.Len(t, rows[i], len(notificationCopyColumns))
		assert.Equal(t, []interface{}{id, "New placement drive: Acme - SDE"}, rows[i])
	}
}
