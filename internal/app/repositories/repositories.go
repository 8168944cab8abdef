package repositories

import (
	"github.com/yigit/placement/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	ProfileRepository      *ProfileRepository
	DriveRepository        *DriveRepository
	ApplicationRepository  *ApplicationRepository
	NotificationRepository *NotificationRepository
	AnalyticsRepository    *AnalyticsRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(database),
		ProfileRepository:      NewProfileRepository(database.Pool),
		DriveRepository:        NewDriveRepository(database),
		ApplicationRepository:  NewApplicationRepository(database.Pool),
		NotificationRepository: NewNotificationRepository(database.Pool),
		AnalyticsRepository:    NewAnalyticsRepository(database.Pool),
	}
}
