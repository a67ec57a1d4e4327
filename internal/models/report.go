package models

import "time"

// AttendanceStats summarises one calendar day.
type AttendanceStats struct {
	TotalStudents   int     `json:"total_students"`
	PresentToday    int     `json:"present_today"`
	AbsentToday     int     `json:"absent_today"`
	AttendanceRate  float64 `json:"attendance_rate"`
	TotalScansToday int     `json:"total_scans_today"`
}

// GradeAttendance breaks a day's attendance down per grade level.
type GradeAttendance struct {
	Grade           string  `db:"grade" json:"grade"`
	TotalStudents   int     `db:"total_students" json:"total_students"`
	PresentStudents int     `db:"present_students" json:"present_students"`
	AttendanceRate  float64 `json:"attendance_rate"`
}

// DailyAttendance is one point in the recent-days trend.
type DailyAttendance struct {
	Date           time.Time `json:"date"`
	TotalScans     int       `json:"total_scans"`
	UniqueStudents int       `json:"unique_students"`
	AttendanceRate float64   `json:"attendance_rate"`
}
