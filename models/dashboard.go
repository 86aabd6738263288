package models

import "time"

type AdminDashboard struct {
	AthletesTotal        int         `json:"athletes_total"`
	EventsTotal          int         `json:"events_total"`
	ScoresTotal          int         `json:"scores_total"`
	PartnersTotal        int         `json:"partners_total"`
	CoachesTotal         int         `json:"coaches_total"`
	RegisteredUsers      int         `json:"registered_users"`
	UsersWithoutProfiles int         `json:"users_without_profiles"`
	RecentEvents         []GolfEvent `json:"recent_events"`
}

type CoachDashboard struct {
	CoachName           string      `json:"coach_name"`
	AthletesTotal       int         `json:"athletes_total"`
	EventsTotal         int         `json:"events_total"`
	ScoresTotal         int         `json:"scores_total"`
	PartnersTotal       int         `json:"partners_total"`
	AthletesWithPartner int         `json:"athletes_with_partner"`
	LatestScoreAt       *time.Time  `json:"latest_score_at,omitempty"`
	NextEvent           *GolfEvent  `json:"next_event,omitempty"`
	RecentEvents        []GolfEvent `json:"recent_events"`
}

type PartnerDashboard struct {
	PartnerName string   `json:"partner_name"`
	Athlete     *Athlete `json:"athlete,omitempty"`
}

type AthleteDashboard struct {
	Athlete *Athlete `json:"athlete"`
}

// AdminExport is the full data view available on the admin data screen.
type AdminExport struct {
	Athletes  []Athlete   `json:"athletes"`
	AllEvents []GolfEvent `json:"all_events"`
}
