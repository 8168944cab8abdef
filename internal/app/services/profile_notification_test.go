package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/pkg/apperrors"
)

func uploadHeader(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte("resume"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestProfileUpdateIsFullReplace(t *testing.T) {
	resume := "/uploads/resumes/10/old.pdf"
	p := studentProfile(10, "alice@college.edu")
	p.ResumeURL = &resume
	p.Bio = "old bio"
	profiles := newFakeProfiles(p)
	svc := NewProfileService(profiles, &fakeStorage{}, zerolog.Nop())

	got, err := svc.Update(context.Background(), 10, &dto.UpdateProfileRequest{
		Name: "Alice", Department: "Electronics", Batch: 2026, CGPA: 9.1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Electronics", got.Department)
	assert.Equal(t, "", got.Bio, "omitted fields are cleared")
	assert.Equal(t, []string{}, got.Skills)
	require.NotNil(t, got.ResumeURL)
	assert.Equal(t, resume, *got.ResumeURL)
	assert.Equal(t, "alice@college.edu", got.Email)
}

func TestUploadResumeReplacesPrevious(t *testing.T) {
	old := "/uploads/resumes/10/old.pdf"
	p := studentProfile(10, "alice@college.edu")
	p.ResumeURL = &old
	storage := &fakeStorage{}
	svc := NewProfileService(newFakeProfiles(p), storage, zerolog.Nop())

	got, err := svc.UploadResume(context.Background(), 10, uploadHeader(t, "cv.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/resumes/10/cv.pdf", *got.ResumeURL)
	assert.Equal(t, []string{old}, storage.deleted)

	_, err = svc.UploadResume(context.Background(), 10, uploadHeader(t, "cv.exe"))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.UploadResume(context.Background(), 99, uploadHeader(t, "cv.pdf"))
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestNotificationFeed(t *testing.T) {
	repo := &fakeNotifications{}
	svc := NewNotificationService(repo, 2, zerolog.Nop())
	ctx := context.Background()
	for _, msg := range []string{"one", "two", "three"} {
		require.NoError(t, repo.Create(ctx, 10, msg))
	}
	require.NoError(t, repo.Create(ctx, 11, "someone else"))

	list, err := svc.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "three", list[0].Message)
	assert.Equal(t, 2, repo.lastLimit)

	assert.ErrorIs(t, svc.MarkRead(ctx, 10, 4), apperrors.ErrNotificationMissing, "not the caller's")
	require.NoError(t, svc.MarkRead(ctx, 10, 1))

	n, err := svc.MarkAllRead(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = svc.MarkAllRead(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, 50, NewNotificationService(repo, 0, zerolog.Nop()).limit)
}

func TestAnalyticsFillsEveryStatus(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalytics{snapshot: &models.Analytics{
		TotalDrives: 2, StatusStats: map[string]int64{"applied": 3},
	}})

	a, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, a.StatusStats, len(models.AllStatuses))
	assert.Equal(t, int64(3), a.StatusStats["applied"])
	assert.Equal(t, int64(0), a.StatusStats["selected"])
}
