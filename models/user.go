package models

import "time"

// UserRole represents application roles, stored in the users.roles array.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleCoach   UserRole = "coach"
	RolePartner UserRole = "partner"
	RoleAthlete UserRole = "athlete"
)

// rolePrecedence orders roles by privilege, highest first.
var rolePrecedence = []UserRole{RoleAdmin, RoleCoach, RolePartner, RoleAthlete}

// HighestRole returns the highest-privilege role in the set, or "" for an empty set.
func HighestRole(roles []UserRole) UserRole {
	for _, candidate := range rolePrecedence {
		for _, r := range roles {
			if r == candidate {
				return candidate
			}
		}
	}
	return ""
}

// User is an authentication identity. Coach/Partner/Athlete profiles link to it
// through their user_id column; a user may exist without any profile.
type User struct {
	ID           int        `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Roles        []UserRole `json:"roles"`
	CreatedAt    time.Time  `json:"created_at"`
}

// HasRole reports whether the user has been granted the given role.
func (u *User) HasRole(role UserRole) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
