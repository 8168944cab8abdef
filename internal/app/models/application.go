package models

import (
	"strings"
	"time"
)

// ApplicationStatus is the workflow stage of an application
type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "applied"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusInterview   ApplicationStatus = "interview"
	StatusWaitlisted  ApplicationStatus = "waitlisted"
	StatusSelected    ApplicationStatus = "selected"
	StatusRejected    ApplicationStatus = "rejected"
)

// AllStatuses lists every status in workflow order
var AllStatuses = []ApplicationStatus{
	StatusApplied,
	StatusShortlisted,
	StatusInterview,
	StatusWaitlisted,
	StatusSelected,
	StatusRejected,
}

// ParseApplicationStatus parses a status name case-insensitively
func ParseApplicationStatus(raw string) (ApplicationStatus, bool) {
	s := ApplicationStatus(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.IsValid()
}

// IsValid reports whether s is a known status
func (s ApplicationStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further workflow step follows s
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusSelected || s == StatusRejected
}

// TransitionPolicy selects which status changes an admin may make
type TransitionPolicy string

const (
	// TransitionPermissive lets any status move to any other status.
	TransitionPermissive TransitionPolicy = "permissive"
	// TransitionWorkflow enforces the workflow table below.
	TransitionWorkflow TransitionPolicy = "workflow"
)

var workflowTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusApplied:     {StatusShortlisted, StatusInterview, StatusWaitlisted, StatusRejected},
	StatusShortlisted: {StatusInterview, StatusWaitlisted, StatusSelected, StatusRejected},
	StatusInterview:   {StatusShortlisted, StatusWaitlisted, StatusSelected, StatusRejected},
	StatusWaitlisted:  {StatusShortlisted, StatusInterview, StatusSelected, StatusRejected},
	StatusSelected:    {},
	StatusRejected:    {},
}

// CanTransition reports whether an application may move from one status to another.
func CanTransition(from, to ApplicationStatus, policy TransitionPolicy) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	if from == to {
		return true
	}
	if policy != TransitionWorkflow {
		return true
	}
	for _, next := range workflowTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Application represents a student's application to a drive ('applications' table).
// Student fields are a snapshot taken when the application is created.
type Application struct {
	ID                int64             `json:"id" db:"id"`
	DriveID           int64             `json:"drive_id" db:"drive_id"`
	StudentID         int64             `json:"student_id" db:"student_id"`
	Status            ApplicationStatus `json:"status" db:"status" example:"applied"`
	StudentName       string            `json:"student_name" db:"student_name"`
	StudentEmail      string            `json:"student_email" db:"student_email"`
	StudentDepartment string            `json:"student_department" db:"student_department"`
	StudentCGPA       float64           `json:"student_cgpa" db:"student_cgpa"`
	StudentSkills     []string          `json:"student_skills" db:"student_skills"`
	CompanyName       string            `json:"company_name,omitempty"`
	JobRole           string            `json:"job_role,omitempty"`
	AppliedAt         time.Time         `json:"applied_at" db:"applied_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`
}

// CanWithdraw reports whether the owning student may still delete the application
func (a *Application) CanWithdraw() bool {
	return a.Status == StatusApplied
}
