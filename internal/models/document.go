package models

import "time"

// Document is an externally hosted reference attached to a delegation.
type Document struct {
	ID        string    `db:"id" json:"id"`
	CountryID string    `db:"country_id" json:"country_id"`
	TopicID   string    `db:"topic_id" json:"topic_id"`
	URI       string    `db:"uri" json:"uri"`
	Name      string    `db:"name" json:"name"`
	CreatedBy *string   `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
