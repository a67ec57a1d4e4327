package models

import "time"

// Student represents a learner registered in the school. The LRN (Learner
// Reference Number) is the globally unique 12-digit identifier printed on the
// barcode and is immutable once assigned.
type Student struct {
	ID            string    `db:"id" json:"id"`
	LRN           string    `db:"lrn" json:"lrn"`
	Name          string    `db:"name" json:"name"`
	Grade         string    `db:"grade" json:"grade"`
	Section       string    `db:"section" json:"section"`
	GuardianPhone *string   `db:"guardian_phone" json:"guardian_phone,omitempty"`
	StudentPhone  *string   `db:"student_phone" json:"student_phone,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Grade     string
	Section   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// StudentIdentity is the subset of student fields echoed back by the scan
// endpoint, including on duplicate-scan rejections.
type StudentIdentity struct {
	LRN     string `json:"lrn"`
	Name    string `json:"name"`
	Grade   string `json:"grade"`
	Section string `json:"section"`
}

// Identity projects the student into its scan-response form.
func (s *Student) Identity() StudentIdentity {
	return StudentIdentity{LRN: s.LRN, Name: s.Name, Grade: s.Grade, Section: s.Section}
}
