package dto

import "github.com/yigit/placement/internal/app/models"

// UpdateProfileRequest replaces every editable field of a student profile
type UpdateProfileRequest struct {
	Name       string   `json:"name" binding:"required,max=100"`
	Department string   `json:"department" binding:"required,max=100" example:"Computer Science"`
	Batch      int      `json:"batch" binding:"required,min=1990,max=2100" example:"2025"`
	CGPA       float64  `json:"cgpa" binding:"min=0,max=10" example:"8.5"`
	Skills     []string `json:"skills"`

	Phone             string   `json:"phone" binding:"max=20"`
	DateOfBirth       string   `json:"date_of_birth"`
	Gender            string   `json:"gender" binding:"max=20"`
	Address           string   `json:"address" binding:"max=500"`
	Bio               string   `json:"bio" binding:"max=2000"`
	LinkedInURL       string   `json:"linkedin_url" binding:"omitempty,url"`
	GitHubURL         string   `json:"github_url" binding:"omitempty,url"`
	PortfolioURL      string   `json:"portfolio_url" binding:"omitempty,url"`
	TenthPercentage   float64  `json:"tenth_percentage" binding:"min=0,max=100"`
	TwelfthPercentage float64  `json:"twelfth_percentage" binding:"min=0,max=100"`
	Backlogs          int      `json:"backlogs" binding:"min=0"`
	Languages         []string `json:"languages"`
	Certifications    []string `json:"certifications"`
	Projects          []string `json:"projects"`
}

// ApplyTo copies the request onto an existing profile, keeping identity and resume
func (r *UpdateProfileRequest) ApplyTo(p *models.StudentProfile) {
	p.Name = r.Name
	p.Department = r.Department
	p.Batch = r.Batch
	p.CGPA = r.CGPA
	p.Skills = nonNil(r.Skills)
	p.Phone = r.Phone
	p.DateOfBirth = r.DateOfBirth
	p.Gender = r.Gender
	p.Address = r.Address
	p.Bio = r.Bio
	p.LinkedInURL = r.LinkedInURL
	p.GitHubURL = r.GitHubURL
	p.PortfolioURL = r.PortfolioURL
	p.TenthPercentage = r.TenthPercentage
	p.TwelfthPercentage = r.TwelfthPercentage
	p.Backlogs = r.Backlogs
	p.Languages = nonNil(r.Languages)
	p.Certifications = nonNil(r.Certifications)
	p.Projects = nonNil(r.Projects)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
