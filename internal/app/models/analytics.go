package models

// UnspecifiedDepartment labels students who have not filled in a department
const UnspecifiedDepartment = "Unspecified"

// Analytics is the aggregate view shown on the admin dashboard
type Analytics struct {
	TotalDrives       int64
	ActiveDrives      int64
	TotalStudents     int64
	TotalApplications int64
	DepartmentStats   map[string]int64
	StatusStats       map[string]int64
}
