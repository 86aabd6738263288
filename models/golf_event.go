package models

import "time"

// GolfEvent is a scheduled outing with a date, a time window and a location.
// StartTime and EndTime are clock times in "15:04" format, mapping to TIME
// columns in the DB.
type GolfEvent struct {
	ID               int       `json:"id" db:"id"`
	Title            string    `json:"title" db:"title"`
	EventDate        time.Time `json:"event_date" db:"event_date"`
	StartTime        string    `json:"start_time" db:"start_time"`
	EndTime          string    `json:"end_time" db:"end_time"`
	Location         string    `json:"location" db:"location"`
	CreatedByCoachID int       `json:"created_by_coach_id" db:"created_by_coach_id"`
	Version          int       `json:"-" db:"version"`

	CreatedByCoach *Coach       `json:"created_by_coach,omitempty" db:"-"`
	Scores         []EventScore `json:"scores,omitempty" db:"-"`
}
