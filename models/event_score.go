package models

import "time"

// EventScore is a recorded score for one Athlete at one GolfEvent, entered by
// one Partner. Timestamp is set once at creation and never changes afterwards.
type EventScore struct {
	ID                 int       `json:"id" db:"id"`
	AthleteID          int       `json:"athlete_id" db:"athlete_id"`
	EventID            int       `json:"event_id" db:"event_id"`
	EnteredByPartnerID int       `json:"entered_by_partner_id" db:"entered_by_partner_id"`
	GolfScore          int       `json:"golf_score" db:"golf_score"`
	HolesCompleted     int       `json:"holes_completed" db:"holes_completed"`
	Timestamp          time.Time `json:"timestamp" db:"recorded_at"`
	Version            int       `json:"-" db:"version"`

	Athlete          *Athlete   `json:"athlete,omitempty" db:"-"`
	Event            *GolfEvent `json:"event,omitempty" db:"-"`
	EnteredByPartner *Partner   `json:"entered_by_partner,omitempty" db:"-"`
}
