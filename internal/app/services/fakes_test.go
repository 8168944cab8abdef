package services

import (
	"context"
	"mime/multipart"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/repositories"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/search"
)

type fakeUsers struct {
	mu       sync.Mutex
	byID     map[int64]*models.User
	profiles *fakeProfiles
	nextID   int64
}

func newFakeUsers(profiles *fakeProfiles) *fakeUsers {
	return &fakeUsers{byID: map[int64]*models.User{}, profiles: profiles}
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	if u.RoleType == models.RoleStudent && f.profiles != nil {
		f.profiles.put(models.NewEmptyProfile(u))
	}
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeProfiles struct {
	mu      sync.Mutex
	byUser  map[int64]*models.StudentProfile
	listErr error
}

func newFakeProfiles(profiles ...*models.StudentProfile) *fakeProfiles {
	f := &fakeProfiles{byUser: map[int64]*models.StudentProfile{}}
	for _, p := range profiles {
		f.put(p)
	}
	return f
}

func (f *fakeProfiles) put(p *models.StudentProfile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.byUser[p.UserID] = &cp
}

func (f *fakeProfiles) GetByUserID(_ context.Context, userID int64) (*models.StudentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.byUser[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, apperrors.ErrProfileNotFound
}

func (f *fakeProfiles) ListAll(context.Context) ([]*models.StudentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.StudentProfile, 0, len(f.byUser))
	for _, p := range f.byUser {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *fakeProfiles) Replace(_ context.Context, p *models.StudentProfile) error {
	p.UpdatedAt = time.Now()
	f.put(p)
	return nil
}

func (f *fakeProfiles) UpdateResumeURL(_ context.Context, userID int64, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byUser[userID]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	p.ResumeURL = &url
	return nil
}

type fakeDrives struct {
	mu     sync.Mutex
	byID   map[int64]*models.Drive
	apps   *fakeApps
	nextID int64
}

func newFakeDrives() *fakeDrives {
	return &fakeDrives{byID: map[int64]*models.Drive{}}
}

func (f *fakeDrives) Create(_ context.Context, d *models.Drive) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	d.ID = f.nextID
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	f.byID[d.ID] = &cp
	return nil
}

func (f *fakeDrives) GetByID(_ context.Context, id int64) (*models.Drive, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.byID[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, apperrors.ErrDriveNotFound
}

func (f *fakeDrives) List(_ context.Context, filter repositories.DriveFilter) ([]*models.Drive, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var want map[int64]bool
	if filter.IDs != nil {
		want = map[int64]bool{}
		for _, id := range filter.IDs {
			want[id] = true
		}
	}
	out := []*models.Drive{}
	for _, d := range f.byID {
		if want != nil && !want[d.ID] {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeDrives) Update(_ context.Context, d *models.Drive) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[d.ID]; !ok {
		return apperrors.ErrDriveNotFound
	}
	cp := *d
	f.byID[d.ID] = &cp
	return nil
}

func (f *fakeDrives) Delete(ctx context.Context, id int64) (int64, error) {
	f.mu.Lock()
	if _, ok := f.byID[id]; !ok {
		f.mu.Unlock()
		return 0, apperrors.ErrDriveNotFound
	}
	delete(f.byID, id)
	f.mu.Unlock()

	var removed int64
	if f.apps != nil {
		removed = f.apps.deleteByDrive(id)
	}
	return removed, nil
}

type fakeApps struct {
	mu        sync.Mutex
	byID      map[int64]*models.Application
	drives    *fakeDrives
	nextID    int64
	failIDs   map[int64]error
	updateLog []int64
}

func newFakeApps(drives *fakeDrives) *fakeApps {
	f := &fakeApps{byID: map[int64]*models.Application{}, drives: drives, failIDs: map[int64]error{}}
	drives.apps = f
	return f
}

func (f *fakeApps) enrich(a *models.Application) *models.Application {
	cp := *a
	if d, ok := f.drives.byID[a.DriveID]; ok {
		cp.CompanyName = d.CompanyName
		cp.JobRole = d.JobRole
	}
	return &cp
}

func (f *fakeApps) Create(_ context.Context, a *models.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.DriveID == a.DriveID && existing.StudentID == a.StudentID {
			return apperrors.ErrAlreadyApplied
		}
	}
	f.nextID++
	a.ID = f.nextID
	a.AppliedAt = time.Now().Add(time.Duration(f.nextID) * time.Millisecond)
	a.UpdatedAt = a.AppliedAt
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeApps) GetByID(_ context.Context, id int64) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		return f.enrich(a), nil
	}
	return nil, apperrors.ErrApplicationNotFound
}

func (f *fakeApps) List(_ context.Context, filter repositories.ApplicationFilter) ([]*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Application{}
	for _, a := range f.byID {
		if filter.StudentID != nil && a.StudentID != *filter.StudentID {
			continue
		}
		if filter.DriveID != nil && a.DriveID != *filter.DriveID {
			continue
		}
		out = append(out, f.enrich(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeApps) UpdateStatus(_ context.Context, id int64, status models.ApplicationStatus) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateLog = append(f.updateLog, id)
	if err := f.failIDs[id]; err != nil {
		return nil, err
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	return f.enrich(a), nil
}

func (f *fakeApps) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrApplicationNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeApps) deleteByDrive(driveID int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, a := range f.byID {
		if a.DriveID == driveID {
			delete(f.byID, id)
			n++
		}
	}
	return n
}

type fakeNotifications struct {
	mu        sync.Mutex
	items     []*models.Notification
	lastLimit int
	createErr error
}

func (f *fakeNotifications) ListByUser(_ context.Context, userID int64, limit int) ([]*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	out := []*models.Notification{}
	for i := len(f.items) - 1; i >= 0 && len(out) < limit; i-- {
		if f.items[i].UserID == userID {
			cp := *f.items[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeNotifications) Create(_ context.Context, userID int64, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.items = append(f.items, &models.Notification{ID: int64(len(f.items) + 1), UserID: userID, Message: message, CreatedAt: time.Now()})
	return nil
}

func (f *fakeNotifications) CreateMany(ctx context.Context, userIDs []int64, message string) (int64, error) {
	for _, id := range userIDs {
		if err := f.Create(ctx, id, message); err != nil {
			return 0, err
		}
	}
	return int64(len(userIDs)), nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, id, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.items {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return apperrors.ErrNotificationMissing
}

func (f *fakeNotifications) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, item := range f.items {
		if item.UserID == userID && !item.Read {
			item.Read = true
			n++
		}
	}
	return n, nil
}

func (f *fakeNotifications) messagesFor(userID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, n := range f.items {
		if n.UserID == userID {
			out = append(out, n.Message)
		}
	}
	return out
}

type fakeIndex struct {
	docs    map[int64]*models.Drive
	deleted []int64
	err     error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[int64]*models.Drive{}}
}

func (f *fakeIndex) EnsureIndex(context.Context) error { return nil }

func (f *fakeIndex) IndexDrive(_ context.Context, d *models.Drive) error {
	cp := *d
	f.docs[d.ID] = &cp
	return nil
}

func (f *fakeIndex) DeleteDrive(_ context.Context, id int64) error {
	delete(f.docs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// Search ranks by ascending id among documents whose company contains q
func (f *fakeIndex) Search(_ context.Context, q string, _ int) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	var ids []int64
	for id, d := range f.docs {
		if strings.Contains(strings.ToLower(d.CompanyName), strings.ToLower(q)) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

var _ search.DriveIndex = (*fakeIndex)(nil)

type fakeStorage struct {
	saved   []string
	deleted []string
}

func (f *fakeStorage) SaveFileWithPath(fh *multipart.FileHeader, subPath string) (string, error) {
	url := "/uploads/" + subPath + "/" + fh.Filename
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeStorage) DeleteFile(url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

type fakeAnalytics struct {
	snapshot *models.Analytics
}

func (f *fakeAnalytics) Snapshot(context.Context) (*models.Analytics, error) {
	return f.snapshot, nil
}
