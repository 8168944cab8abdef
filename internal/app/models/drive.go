package models

import (
	"sort"
	"strings"
	"time"
)

// DriveStatus is the lifecycle state of a placement drive
type DriveStatus string

const (
	DriveStatusActive DriveStatus = "active"
	DriveStatusClosed DriveStatus = "closed"
)

// IsValid reports whether s is a known drive status
func (s DriveStatus) IsValid() bool {
	return s == DriveStatusActive || s == DriveStatusClosed
}

// DeadlineLayout is the wire and storage format of drive deadlines
const DeadlineLayout = "2006-01-02"

// Eligibility holds the constraints a drive declares for applicants.
type Eligibility struct {
	MinCGPA        float64  `json:"min_cgpa" db:"min_cgpa" example:"7.5"`
	RequiredSkills []string `json:"required_skills" db:"required_skills"`
	Departments    []string `json:"departments" db:"departments"`
	Batches        []int    `json:"batches" db:"batches"`
}

// Drive represents a placement drive ('drives' table)
type Drive struct {
	ID             int64       `json:"id" db:"id"`
	CompanyName    string      `json:"company_name" db:"company_name" example:"Google"`
	CompanyDomain  string      `json:"company_domain" db:"company_domain" example:"google.com"`
	JobRole        string      `json:"job_role" db:"job_role" example:"Software Engineer"`
	Package        string      `json:"package" db:"package" example:"25-30 LPA"`
	PackageLPA     *float64    `json:"package_lpa,omitempty" db:"package_lpa" example:"25"`
	Location       string      `json:"location" db:"location" example:"Bangalore"`
	JobDescription string      `json:"job_description" db:"job_description"`
	Deadline       time.Time   `json:"deadline" db:"deadline"`
	Status         DriveStatus `json:"status" db:"status" example:"active"`
	Eligibility    Eligibility `json:"eligibility"`
	CreatedBy      int64       `json:"created_by" db:"created_by"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// Normalize turns the eligibility lists into trimmed, de-duplicated sets.
// Skills and departments are de-duplicated case-insensitively, keeping the first spelling.
func (e *Eligibility) Normalize() {
	e.RequiredSkills = normalizeStrings(e.RequiredSkills)
	e.Departments = normalizeStrings(e.Departments)

	seen := make(map[int]struct{}, len(e.Batches))
	batches := make([]int, 0, len(e.Batches))
	for _, b := range e.Batches {
		if b <= 0 {
			continue
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		batches = append(batches, b)
	}
	sort.Ints(batches)
	e.Batches = batches
}

func normalizeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// SplitList splits free-text comma separated input into trimmed non-empty values
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsEligible checks a student profile against the eligibility constraints.
// A drive with required skills needs at least one case-insensitive skill match.
func (e Eligibility) IsEligible(p *StudentProfile) bool {
	if p == nil {
		return false
	}
	if p.CGPA < e.MinCGPA {
		return false
	}
	if !containsFold(e.Departments, p.Department) {
		return false
	}
	if !containsInt(e.Batches, p.Batch) {
		return false
	}
	if len(e.RequiredSkills) == 0 {
		return true
	}
	for _, skill := range p.Skills {
		if containsFold(e.RequiredSkills, skill) {
			return true
		}
	}
	return false
}

func containsFold(values []string, target string) bool {
	target = strings.TrimSpace(target)
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
