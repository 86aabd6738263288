package models

// Athlete is a team member with performance ratings, assigned to exactly one Partner.
type Athlete struct {
	ID                  int     `json:"id" db:"id"`
	Name                string  `json:"name" db:"name"`
	PictureKey          *string `json:"-" db:"picture_key"`
	PictureURL          *string `json:"picture_url,omitempty" db:"-"`
	SwingRating         int     `json:"swing_rating" db:"swing_rating"`
	PowerRating         int     `json:"power_rating" db:"power_rating"`
	UnderstandingRating int     `json:"understanding_rating" db:"understanding_rating"`
	PartnerID           int     `json:"partner_id" db:"partner_id"`
	UserID              *int    `json:"user_id,omitempty" db:"user_id"`
	Version             int     `json:"-" db:"version"`

	Partner *Partner     `json:"partner,omitempty" db:"-"`
	Scores  []EventScore `json:"scores,omitempty" db:"-"`
}
