package models

import "time"

// AttendanceMark is one row of the lesson_attendance ledger. A row means the user was present.
type AttendanceMark struct {
	LessonID string    `db:"lesson_id" json:"lesson_id"`
	UserID   string    `db:"user_id" json:"user_id"`
	MarkedBy *string   `db:"marked_by" json:"marked_by,omitempty"`
	MarkedAt time.Time `db:"marked_at" json:"marked_at"`
}

// ReportColumn describes one lesson column of an attendance report.
type ReportColumn struct {
	LessonID string    `json:"lesson_id"`
	Date     time.Time `json:"date"`
	Label    string    `json:"label"`
	Attended int       `json:"attended"`
}

// ReportRow is one user's line in an attendance report. Cells align with the report columns.
type ReportRow struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Cells  []bool `json:"cells"`
}

// AttendanceReport is the rectangular lesson by user attendance matrix for a date range. It is a
// pure function of the stored data, so repeated reads serialize identically.
type AttendanceReport struct {
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	Columns   []ReportColumn `json:"columns"`
	Rows      []ReportRow    `json:"rows"`
}
