package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golfteamapp/golfteam-system/models"
)

func TestCallerResolver(t *testing.T) {
	coaches := newFakeCoachRepo()
	partners := newFakePartnerRepo()
	athletes := newFakeAthleteRepo()
	resolver := NewCallerResolver(coaches, partners, athletes)

	require.NoError(t, coaches.Create(context.Background(), &models.Coach{Name: "Casey", Email: "c@x.test", UserID: intPtr(7)}))
	require.NoError(t, partners.Create(context.Background(), &models.Partner{Name: "Pat", Email: "p@x.test", UserID: intPtr(7)}))

	t.Run("profiles load per role", func(t *testing.T) {
		caller, err := resolver.Resolve(context.Background(), 7, []models.UserRole{models.RoleCoach, models.RolePartner})
		require.NoError(t, err)

		require.NotNil(t, caller.Coach)
		assert.Equal(t, "Casey", caller.Coach.Name)
		require.NotNil(t, caller.Partner)
		assert.Equal(t, "Pat", caller.Partner.Name)
		assert.Nil(t, caller.Athlete)
	})

	t.Run("roles not held skip the lookup", func(t *testing.T) {
		caller, err := resolver.Resolve(context.Background(), 7, []models.UserRole{models.RoleCoach})
		require.NoError(t, err)
		assert.NotNil(t, caller.Coach)
		assert.Nil(t, caller.Partner)
	})

	t.Run("missing profile is not an error", func(t *testing.T) {
		caller, err := resolver.Resolve(context.Background(), 99, []models.UserRole{models.RoleAthlete})
		require.NoError(t, err)
		assert.Nil(t, caller.Athlete)
		assert.Equal(t, 99, caller.UserID)
	})
}
