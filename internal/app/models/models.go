package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "student"
	RoleAdmin   RoleType = "admin"
)

// Scope is the visibility predicate derived from the authenticated user.
// Repositories build their WHERE clauses from this single value instead of
// keeping per-role query variants.
type Scope struct {
	Role     RoleType
	Branch   string
	Year     int
	Semester int
}

// IsAdmin reports whether the scope bypasses branch/semester filtering.
func (s Scope) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// SemesterForYear derives the current semester from the academic year.
// Year 1 maps to semester 1, year 2 to 3, year 3 to 5, year 4 to 7.
func SemesterForYear(year int) int {
	return 2*year - 1
}

// ValidYear reports whether year is an accepted academic year.
func ValidYear(year int) bool {
	return year >= 1 && year <= 4
}
