package dto

import (
	"time"

	"github.com/yigit/placement/internal/app/models"
)

// EligibilityRequest is the eligibility block of drive requests
type EligibilityRequest struct {
	MinCGPA        float64  `json:"min_cgpa" binding:"min=0,max=10" example:"7.5"`
	RequiredSkills []string `json:"required_skills"`
	Departments    []string `json:"departments"`
	Batches        []int    `json:"batches"`
}

// CreateDriveRequest represents a new placement drive
type CreateDriveRequest struct {
	CompanyName    string             `json:"company_name" binding:"required,max=200" example:"Google"`
	CompanyDomain  string             `json:"company_domain" binding:"max=200" example:"google.com"`
	JobRole        string             `json:"job_role" binding:"required,max=200" example:"Software Engineer"`
	Package        string             `json:"package" binding:"required,max=100" example:"25-30 LPA"`
	PackageLPA     *float64           `json:"package_lpa" binding:"omitempty,min=0"`
	Location       string             `json:"location" binding:"required,max=200" example:"Bangalore"`
	JobDescription string             `json:"job_description" binding:"required"`
	Deadline       string             `json:"deadline" binding:"required,datetime=2006-01-02" example:"2025-12-31"`
	Status         models.DriveStatus `json:"status" binding:"omitempty,oneof=active closed"`
	Eligibility    EligibilityRequest `json:"eligibility"`
}

// UpdateDriveRequest is a partial update; nil fields are left untouched
type UpdateDriveRequest struct {
	CompanyName    *string             `json:"company_name" binding:"omitempty,max=200"`
	CompanyDomain  *string             `json:"company_domain" binding:"omitempty,max=200"`
	JobRole        *string             `json:"job_role" binding:"omitempty,max=200"`
	Package        *string             `json:"package" binding:"omitempty,max=100"`
	PackageLPA     *float64            `json:"package_lpa" binding:"omitempty,min=0"`
	Location       *string             `json:"location" binding:"omitempty,max=200"`
	JobDescription *string             `json:"job_description"`
	Deadline       *string             `json:"deadline" binding:"omitempty,datetime=2006-01-02"`
	Status         *models.DriveStatus `json:"status" binding:"omitempty,oneof=active closed"`
	Eligibility    *EligibilityRequest `json:"eligibility"`
}

// IsEmpty reports whether the request carries no field at all
func (r *UpdateDriveRequest) IsEmpty() bool {
	return r.CompanyName == nil && r.CompanyDomain == nil && r.JobRole == nil &&
		r.Package == nil && r.PackageLPA == nil && r.Location == nil &&
		r.JobDescription == nil && r.Deadline == nil && r.Status == nil && r.Eligibility == nil
}

// ToModel converts the eligibility request to the model type
func (r EligibilityRequest) ToModel() models.Eligibility {
	return models.Eligibility{
		MinCGPA:        r.MinCGPA,
		RequiredSkills: r.RequiredSkills,
		Departments:    r.Departments,
		Batches:        r.Batches,
	}
}

// DriveResponse is the wire form of a drive
type DriveResponse struct {
	ID             int64              `json:"id"`
	CompanyName    string             `json:"company_name"`
	CompanyDomain  string             `json:"company_domain"`
	JobRole        string             `json:"job_role"`
	Package        string             `json:"package"`
	PackageLPA     *float64           `json:"package_lpa,omitempty"`
	Location       string             `json:"location"`
	JobDescription string             `json:"job_description"`
	Deadline       string             `json:"deadline" example:"2025-12-31"`
	Status         models.DriveStatus `json:"status"`
	Eligibility    models.Eligibility `json:"eligibility"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// FromDrive converts a models.Drive to a DriveResponse
func FromDrive(d *models.Drive) DriveResponse {
	return DriveResponse{
		ID:             d.ID,
		CompanyName:    d.CompanyName,
		CompanyDomain:  d.CompanyDomain,
		JobRole:        d.JobRole,
		Package:        d.Package,
		PackageLPA:     d.PackageLPA,
		Location:       d.Location,
		JobDescription: d.JobDescription,
		Deadline:       d.Deadline.Format(models.DeadlineLayout),
		Status:         d.Status,
		Eligibility:    d.Eligibility,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// FromDrives converts a slice of drives
func FromDrives(drives []*models.Drive) []DriveResponse {
	out := make([]DriveResponse, 0, len(drives))
	for _, d := range drives {
		out = append(out, FromDrive(d))
	}
	return out
}
