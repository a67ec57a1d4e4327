package models

import "time"

// Default values applied when a scan request omits them.
const (
	DefaultScanLocation = "School Gate"
	StatusPresent       = "Present"
)

// AttendanceRecord is one attendance-marking event for a student. The LRN is
// denormalised onto the row so day-window queries can filter without a join.
type AttendanceRecord struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	LRN           string    `db:"lrn" json:"lrn"`
	ScanTimestamp time.Time `db:"scan_timestamp" json:"scan_timestamp"`
	ScanLocation  string    `db:"scan_location" json:"scan_location"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// AttendanceWithStudent joins a record with the owning student's metadata for
// listings and exports.
type AttendanceWithStudent struct {
	AttendanceRecord
	StudentName   string  `db:"student_name" json:"student_name"`
	Grade         string  `db:"grade" json:"grade"`
	Section       string  `db:"section" json:"section"`
	GuardianPhone *string `db:"guardian_phone" json:"guardian_phone,omitempty"`
}

// AttendanceFilter scopes attendance listing and export queries.
type AttendanceFilter struct {
	Date        *time.Time
	DateFrom    *time.Time
	DateTo      *time.Time
	Grade       string
	Section     string
	StudentName string
	Limit       int
}
