package models

import "time"

// StudentProfile is the one-to-one extension of a student user ('student_profiles' table).
type StudentProfile struct {
	UserID     int64    `json:"user_id" db:"user_id"`
	Name       string   `json:"name" db:"name"`
	Email      string   `json:"email" db:"email"`
	Department string   `json:"department" db:"department" example:"Computer Science"`
	Batch      int      `json:"batch" db:"batch" example:"2025"`
	CGPA       float64  `json:"cgpa" db:"cgpa" example:"8.5"`
	Skills     []string `json:"skills" db:"skills"`
	ResumeURL  *string  `json:"resume_url,omitempty" db:"resume_url"`

	Phone             string   `json:"phone" db:"phone"`
	DateOfBirth       string   `json:"date_of_birth" db:"date_of_birth"`
	Gender            string   `json:"gender" db:"gender"`
	Address           string   `json:"address" db:"address"`
	Bio               string   `json:"bio" db:"bio"`
	LinkedInURL       string   `json:"linkedin_url" db:"linkedin_url"`
	GitHubURL         string   `json:"github_url" db:"github_url"`
	PortfolioURL      string   `json:"portfolio_url" db:"portfolio_url"`
	TenthPercentage   float64  `json:"tenth_percentage" db:"tenth_percentage"`
	TwelfthPercentage float64  `json:"twelfth_percentage" db:"twelfth_percentage"`
	Backlogs          int      `json:"backlogs" db:"backlogs"`
	Languages         []string `json:"languages" db:"languages"`
	Certifications    []string `json:"certifications" db:"certifications"`
	Projects          []string `json:"projects" db:"projects"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewEmptyProfile returns the blank profile created alongside a student account
func NewEmptyProfile(user *User) *StudentProfile {
	return &StudentProfile{
		UserID:         user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Skills:         []string{},
		Languages:      []string{},
		Certifications: []string{},
		Projects:       []string{},
	}
}
