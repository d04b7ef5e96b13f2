package models

import (
	"time"

	"github.com/lib/pq"
)

// Position is a delegation's stance on its topic.
type Position string

const (
	PositionFor     Position = "FOR"
	PositionAgainst Position = "AGAINST"
	PositionNeutral Position = "NEUTRAL"
)

// Valid reports whether p is a known stance.
func (p Position) Valid() bool {
	switch p {
	case PositionFor, PositionAgainst, PositionNeutral:
		return true
	}
	return false
}

// Country is a delegation within a topic. StudentIDs is derived from country_members.
type Country struct {
	ID         string         `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	Position   Position       `db:"position" json:"position"`
	TopicID    string         `db:"topic_id" json:"topic_id"`
	StudentIDs pq.StringArray `db:"student_ids" json:"student_ids" swaggertype:"array,string"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// HasMember reports whether userID is on the roster.
func (c *Country) HasMember(userID string) bool {
	for _, id := range c.StudentIDs {
		if id == userID {
			return true
		}
	}
	return false
}
