package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	// CalendarKeyLayout projects a timestamp onto its calendar day.
	CalendarKeyLayout = "2006-01-02"
	// DateLabelLayout is the human readable day label used in messages and report headers.
	DateLabelLayout = "Mon Jan 02 2006"
)

// Lesson is a scheduled session. At most one lesson exists per calendar day.
type Lesson struct {
	ID         string         `db:"id" json:"id"`
	Location   string         `db:"location" json:"location"`
	Date       time.Time      `db:"date" json:"date"`
	DateKey    string         `db:"date_key" json:"date_key"`
	TopicID    string         `db:"topic_id" json:"topic_id"`
	Attendance pq.StringArray `db:"attendance" json:"attendance,omitempty" swaggertype:"array,string"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// LessonDetail pairs a lesson with its topic.
type LessonDetail struct {
	Lesson Lesson `json:"lesson"`
	Topic  Topic  `json:"topic"`
}

// SortOrder orders lesson listings by date.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// CalendarKey returns the year-month-day key of ts in loc.
func CalendarKey(ts time.Time, loc *time.Location) string {
	return ts.In(loc).Format(CalendarKeyLayout)
}

// DateLabel returns the display label of ts in loc, e.g. "Sun Mar 10 2024".
func DateLabel(ts time.Time, loc *time.Location) string {
	return ts.In(loc).Format(DateLabelLayout)
}
