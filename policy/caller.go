package policy

import "github.com/golfteamapp/golfteam-system/models"

// Caller carries everything the policy needs to decide a request: the
// authenticated identity, its role set, and the Coach/Partner/Athlete rows
// whose user_id matches that identity (nil when no such profile exists).
// It is built once per request and passed explicitly; the policy never reads
// ambient state.
type Caller struct {
	UserID int
	Roles  []models.UserRole

	Coach   *models.Coach
	Partner *models.Partner
	Athlete *models.Athlete
}

func (c Caller) HasRole(role models.UserRole) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// PrimaryRole is the caller's highest-privilege role (admin > coach > partner > athlete).
func (c Caller) PrimaryRole() models.UserRole {
	return models.HighestRole(c.Roles)
}

func (c Caller) isStaff() bool {
	return c.HasRole(models.RoleAdmin) || c.HasRole(models.RoleCoach)
}
