package models

// Subject defines the subject model based on the 'subjects' table.
// Subjects are static reference data scoped by branch and semester; they are
// seeded at startup and never mutated through the API.
type Subject struct {
	ID       int64  `json:"subjectId" db:"id"`
	Name     string `json:"subjectName" db:"name"`
	Branch   string `json:"branch" db:"branch"`
	Semester int    `json:"semester" db:"semester"`
}
