package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golfteamapp/golfteam-system/models"
)

func intPtr(v int) *int { return &v }

func adminCaller() Caller {
	return Caller{UserID: 1, Roles: []models.UserRole{models.RoleAdmin}}
}

func coachCaller(coachID int) Caller {
	return Caller{
		UserID: 2,
		Roles:  []models.UserRole{models.RoleCoach},
		Coach:  &models.Coach{ID: coachID, Name: "Coach", UserID: intPtr(2)},
	}
}

func partnerCaller(partnerID int) Caller {
	return Caller{
		UserID:  3,
		Roles:   []models.UserRole{models.RolePartner},
		Partner: &models.Partner{ID: partnerID, Name: "Partner", UserID: intPtr(3)},
	}
}

func athleteCaller() Caller {
	return Caller{
		UserID:  4,
		Roles:   []models.UserRole{models.RoleAthlete},
		Athlete: &models.Athlete{ID: 10, UserID: intPtr(4)},
	}
}

func noRoleCaller() Caller {
	return Caller{UserID: 5, Roles: []models.UserRole{}}
}

func TestAllows(t *testing.T) {
	tests := []struct {
		name   string
		caller Caller
		entity Entity
		op     Operation
		want   bool
	}{
		{"admin creates athletes", adminCaller(), EntityAthlete, OpCreate, true},
		{"coach creates athletes", coachCaller(1), EntityAthlete, OpCreate, true},
		{"partner cannot create athletes", partnerCaller(1), EntityAthlete, OpCreate, false},
		{"partner updates athletes", partnerCaller(1), EntityAthlete, OpUpdate, true},
		{"partner cannot delete athletes", partnerCaller(1), EntityAthlete, OpDelete, false},
		{"athlete cannot list athletes", athleteCaller(), EntityAthlete, OpList, false},

		{"role-less caller self-registers as partner", noRoleCaller(), EntityPartner, OpCreate, true},
		{"role-less caller self-registers as coach", noRoleCaller(), EntityCoach, OpCreate, true},
		{"coach cannot update partners", coachCaller(1), EntityPartner, OpUpdate, false},
		{"only admin deletes partners", coachCaller(1), EntityPartner, OpDelete, false},
		{"admin deletes partners", adminCaller(), EntityPartner, OpDelete, true},
		{"partner cannot update coaches", partnerCaller(1), EntityCoach, OpUpdate, false},
		{"only admin deletes coaches", coachCaller(1), EntityCoach, OpDelete, false},

		{"athlete views events", athleteCaller(), EntityEvent, OpView, true},
		{"athlete cannot create events", athleteCaller(), EntityEvent, OpCreate, false},
		{"partner cannot create events", partnerCaller(1), EntityEvent, OpCreate, false},

		{"partner creates scores", partnerCaller(1), EntityScore, OpCreate, true},
		{"partner cannot delete scores", partnerCaller(1), EntityScore, OpDelete, false},
		{"coach deletes scores", coachCaller(1), EntityScore, OpDelete, true},
		{"athlete cannot list scores", athleteCaller(), EntityScore, OpList, false},
		{"role-less caller sees nothing", noRoleCaller(), EntityScore, OpList, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Allows(tc.caller, tc.entity, tc.op))
		})
	}
}

func TestRequire(t *testing.T) {
	require.NoError(t, Require(adminCaller(), EntityAthlete, OpDelete))
	assert.ErrorIs(t, Require(partnerCaller(1), EntityAthlete, OpDelete), ErrForbidden)
}

func TestAthleteUpdate_StaffEditsEverythingButUserLink(t *testing.T) {
	existing := &models.Athlete{
		ID:        7,
		Name:      "Old Name",
		PartnerID: 1,
		UserID:    intPtr(42),
		Version:   3,
	}
	submitted := &models.Athlete{
		Name:        "New Name",
		SwingRating: 5,
		PartnerID:   2,
		UserID:      intPtr(99),
	}

	out, err := AthleteUpdate(coachCaller(1), existing, submitted)
	require.NoError(t, err)

	assert.Equal(t, 7, out.ID)
	assert.Equal(t, 3, out.Version)
	assert.Equal(t, "New Name", out.Name)
	assert.Equal(t, 2, out.PartnerID)
	assert.Equal(t, 5, out.SwingRating)
	require.NotNil(t, out.UserID)
	assert.Equal(t, 42, *out.UserID, "user link must survive any edit")
}

func TestAthleteUpdate_PartnerOnlyRatingsApply(t *testing.T) {
	existing := &models.Athlete{
		ID:          7,
		Name:        "Old Name",
		PartnerID:   1,
		SwingRating: 2,
		UserID:      intPtr(42),
	}
	submitted := &models.Athlete{
		Name:                "Hijacked Name",
		PartnerID:           2,
		SwingRating:         5,
		PowerRating:         4,
		UnderstandingRating: 3,
		UserID:              intPtr(99),
	}

	out, err := AthleteUpdate(partnerCaller(1), existing, submitted)
	require.NoError(t, err)

	assert.Equal(t, "Old Name", out.Name, "partner cannot rename the athlete")
	assert.Equal(t, 1, out.PartnerID, "partner cannot reassign the athlete")
	assert.Equal(t, 42, *out.UserID)
	assert.Equal(t, 5, out.SwingRating)
	assert.Equal(t, 4, out.PowerRating)
	assert.Equal(t, 3, out.UnderstandingRating)
}

func TestAthleteUpdate_PartnerOwnershipEnforced(t *testing.T) {
	existing := &models.Athlete{ID: 7, PartnerID: 2}

	_, err := AthleteUpdate(partnerCaller(1), existing, existing)
	assert.ErrorIs(t, err, ErrForbidden)

	noProfile := Caller{UserID: 3, Roles: []models.UserRole{models.RolePartner}}
	_, err = AthleteUpdate(noProfile, existing, existing)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = AthleteUpdate(athleteCaller(), existing, existing)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCoachUpdate(t *testing.T) {
	existing := &models.Coach{ID: 5, Name: "Old", UserID: intPtr(2), Version: 1}

	t.Run("admin may relink the user", func(t *testing.T) {
		out, err := CoachUpdate(adminCaller(), existing, &models.Coach{Name: "New", UserID: intPtr(9)})
		require.NoError(t, err)
		assert.Equal(t, 9, *out.UserID)
		assert.Equal(t, 5, out.ID)
		assert.Equal(t, 1, out.Version)
	})

	t.Run("admin nil user id keeps the stored link", func(t *testing.T) {
		out, err := CoachUpdate(adminCaller(), existing, &models.Coach{Name: "New"})
		require.NoError(t, err)
		assert.Equal(t, 2, *out.UserID)
	})

	t.Run("coach edits own profile, link preserved", func(t *testing.T) {
		out, err := CoachUpdate(coachCaller(5), existing, &models.Coach{Name: "New", UserID: intPtr(9)})
		require.NoError(t, err)
		assert.Equal(t, "New", out.Name)
		assert.Equal(t, 2, *out.UserID)
	})

	t.Run("coach cannot edit another coach", func(t *testing.T) {
		other := &models.Coach{ID: 6, UserID: intPtr(77)}
		_, err := CoachUpdate(coachCaller(5), other, &models.Coach{Name: "New"})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("coach cannot edit an unbound profile", func(t *testing.T) {
		unbound := &models.Coach{ID: 6}
		_, err := CoachUpdate(coachCaller(5), unbound, &models.Coach{Name: "New"})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestPartnerUpdate(t *testing.T) {
	existing := &models.Partner{ID: 5, Name: "Old", UserID: intPtr(3), Version: 2}

	out, err := PartnerUpdate(partnerCaller(5), existing, &models.Partner{Name: "New", UserID: intPtr(9)})
	require.NoError(t, err)
	assert.Equal(t, "New", out.Name)
	assert.Equal(t, 3, *out.UserID)
	assert.Equal(t, 2, out.Version)

	other := &models.Partner{ID: 6, UserID: intPtr(77)}
	_, err = PartnerUpdate(partnerCaller(5), other, &models.Partner{Name: "New"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = PartnerUpdate(coachCaller(1), existing, &models.Partner{Name: "New"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestEventModify(t *testing.T) {
	event := &models.GolfEvent{ID: 1, CreatedByCoachID: 5}

	assert.NoError(t, EventModify(adminCaller(), event))
	assert.NoError(t, EventModify(coachCaller(5), event))
	assert.ErrorIs(t, EventModify(coachCaller(6), event), ErrForbidden)
	assert.ErrorIs(t, EventModify(partnerCaller(1), event), ErrForbidden)

	// A coach role without a coach profile is denied, not redirected.
	noProfile := Caller{UserID: 2, Roles: []models.UserRole{models.RoleCoach}}
	assert.ErrorIs(t, EventModify(noProfile, event), ErrForbidden)
}

func TestEventUpdate(t *testing.T) {
	existing := &models.GolfEvent{ID: 1, Title: "Spring Open", CreatedByCoachID: 5, Version: 3}

	t.Run("coach cannot reassign the creating coach", func(t *testing.T) {
		submitted := &models.GolfEvent{Title: "Spring Open II", CreatedByCoachID: 6}
		out, err := EventUpdate(coachCaller(5), existing, submitted)
		require.NoError(t, err)
		assert.Equal(t, "Spring Open II", out.Title)
		assert.Equal(t, 5, out.CreatedByCoachID)
		assert.Equal(t, 3, out.Version)
	})

	t.Run("admin may reassign the creating coach", func(t *testing.T) {
		submitted := &models.GolfEvent{Title: "Spring Open", CreatedByCoachID: 6}
		out, err := EventUpdate(adminCaller(), existing, submitted)
		require.NoError(t, err)
		assert.Equal(t, 6, out.CreatedByCoachID)
	})

	t.Run("non-owning coach is denied", func(t *testing.T) {
		_, err := EventUpdate(coachCaller(6), existing, &models.GolfEvent{Title: "Spring Open"})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestScoreCreate(t *testing.T) {
	athlete := &models.Athlete{ID: 10, PartnerID: 1}

	t.Run("staff submission passes through", func(t *testing.T) {
		submitted := &models.EventScore{AthleteID: 10, EventID: 3, EnteredByPartnerID: 7, GolfScore: 80}
		out, err := ScoreCreate(coachCaller(1), athlete, submitted)
		require.NoError(t, err)
		assert.Equal(t, 7, out.EnteredByPartnerID)
	})

	t.Run("partner identity overrides the submitted enterer", func(t *testing.T) {
		submitted := &models.EventScore{AthleteID: 10, EventID: 3, EnteredByPartnerID: 999, GolfScore: 80}
		out, err := ScoreCreate(partnerCaller(1), athlete, submitted)
		require.NoError(t, err)
		assert.Equal(t, 1, out.EnteredByPartnerID)
	})

	t.Run("partner without profile is sent to registration", func(t *testing.T) {
		noProfile := Caller{UserID: 3, Roles: []models.UserRole{models.RolePartner}}
		_, err := ScoreCreate(noProfile, athlete, &models.EventScore{AthleteID: 10})
		assert.ErrorIs(t, err, ErrProfileMissing)
	})

	t.Run("partner cannot score another partner's athlete", func(t *testing.T) {
		_, err := ScoreCreate(partnerCaller(2), athlete, &models.EventScore{AthleteID: 10})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("athlete role denied", func(t *testing.T) {
		_, err := ScoreCreate(athleteCaller(), athlete, &models.EventScore{AthleteID: 10})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestScoreUpdate_TimestampAlwaysPreserved(t *testing.T) {
	recorded := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	existing := &models.EventScore{
		ID:                 4,
		AthleteID:          10,
		EventID:            3,
		EnteredByPartnerID: 1,
		GolfScore:          90,
		Timestamp:          recorded,
		Version:            2,
	}
	submitted := &models.EventScore{
		AthleteID:          10,
		EventID:            3,
		EnteredByPartnerID: 1,
		GolfScore:          85,
		Timestamp:          time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	for _, caller := range []Caller{adminCaller(), coachCaller(1), partnerCaller(1)} {
		out, err := ScoreUpdate(caller, existing, submitted)
		require.NoError(t, err)
		assert.Equal(t, recorded, out.Timestamp)
		assert.Equal(t, 85, out.GolfScore)
		assert.Equal(t, 4, out.ID)
		assert.Equal(t, 2, out.Version)
	}
}

func TestScoreUpdate_PartnerOnlyOwnEntries(t *testing.T) {
	existing := &models.EventScore{ID: 4, EnteredByPartnerID: 2}

	_, err := ScoreUpdate(partnerCaller(1), existing, existing)
	assert.ErrorIs(t, err, ErrForbidden)

	noProfile := Caller{UserID: 3, Roles: []models.UserRole{models.RolePartner}}
	_, err = ScoreUpdate(noProfile, existing, existing)
	assert.ErrorIs(t, err, ErrProfileMissing)
}

func TestScoreView(t *testing.T) {
	athlete := &models.Athlete{ID: 10, PartnerID: 1}

	assert.NoError(t, ScoreView(adminCaller(), athlete))
	assert.NoError(t, ScoreView(partnerCaller(1), athlete))
	assert.ErrorIs(t, ScoreView(partnerCaller(2), athlete), ErrForbidden)
	assert.ErrorIs(t, ScoreView(athleteCaller(), athlete), ErrForbidden)
}

func TestScoreListScope(t *testing.T) {
	scope, err := ScoreListScope(adminCaller())
	require.NoError(t, err)
	assert.True(t, scope.All)

	scope, err = ScoreListScope(partnerCaller(7))
	require.NoError(t, err)
	assert.False(t, scope.All)
	assert.Equal(t, 7, scope.PartnerID)

	noProfile := Caller{UserID: 3, Roles: []models.UserRole{models.RolePartner}}
	_, err = ScoreListScope(noProfile)
	assert.ErrorIs(t, err, ErrProfileMissing)

	_, err = ScoreListScope(athleteCaller())
	assert.ErrorIs(t, err, ErrForbidden)
}

// Every partner may open any athlete's details, yet score listings are
// narrowed to the partner's own athletes. Both halves are intentional.
func TestPartnerAthleteVisibilityAsymmetry(t *testing.T) {
	outsider := partnerCaller(2)

	assert.True(t, Allows(outsider, EntityAthlete, OpView))
	assert.True(t, Allows(outsider, EntityAthlete, OpList))

	scope, err := ScoreListScope(outsider)
	require.NoError(t, err)
	assert.False(t, scope.All)
	assert.Equal(t, 2, scope.PartnerID)
}
