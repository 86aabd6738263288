package models

// Coach creates and manages golf events.
type Coach struct {
	ID      int     `json:"id" db:"id"`
	Name    string  `json:"name" db:"name"`
	Email   string  `json:"email" db:"email"`
	Phone   *string `json:"phone,omitempty" db:"phone"`
	UserID  *int    `json:"user_id,omitempty" db:"user_id"`
	Version int     `json:"-" db:"version"`
}
