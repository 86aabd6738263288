package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golfteamapp/golfteam-system/models"
	"github.com/golfteamapp/golfteam-system/policy"
)

type dashboardFixture struct {
	users    *fakeUserRepo
	athletes *fakeAthleteRepo
	partners *fakePartnerRepo
	coaches  *fakeCoachRepo
	events   *fakeEventRepo
	scores   *fakeScoreRepo
	svc      *dashboardService
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	f := &dashboardFixture{
		users:    newFakeUserRepo(),
		athletes: newFakeAthleteRepo(),
		partners: newFakePartnerRepo(),
		coaches:  newFakeCoachRepo(),
		events:   newFakeEventRepo(),
		scores:   newFakeScoreRepo(),
	}
	f.svc = NewDashboardService(f.users, f.athletes, f.partners, f.coaches, f.events, f.scores).(*dashboardService)
	return f
}

func TestDashboardAdmin(t *testing.T) {
	f := newDashboardFixture(t)

	require.NoError(t, f.athletes.Create(context.Background(), &models.Athlete{Name: "A", PartnerID: 1}))
	require.NoError(t, f.partners.Create(context.Background(), &models.Partner{Name: "P", Email: "p@x.test"}))
	require.NoError(t, f.events.Create(context.Background(), &models.GolfEvent{Title: "E", EventDate: time.Now()}))

	dash, err := f.svc.Admin(context.Background(), adminOnly())
	require.NoError(t, err)

	assert.Equal(t, 1, dash.AthletesTotal)
	assert.Equal(t, 1, dash.PartnersTotal)
	assert.Equal(t, 1, dash.EventsTotal)
	assert.Len(t, dash.RecentEvents, 1)

	_, err = f.svc.Admin(context.Background(), coachWithProfile(1))
	assert.ErrorIs(t, err, policy.ErrForbidden)
}

func TestDashboardCoach(t *testing.T) {
	f := newDashboardFixture(t)
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	require.NoError(t, f.events.Create(context.Background(), &models.GolfEvent{Title: "Past", EventDate: now.AddDate(0, 0, -7)}))
	require.NoError(t, f.events.Create(context.Background(), &models.GolfEvent{Title: "Next", EventDate: now.AddDate(0, 0, 3)}))

	recorded := now.Add(-time.Hour)
	require.NoError(t, f.scores.Create(context.Background(), &models.EventScore{AthleteID: 1, EventID: 1, EnteredByPartnerID: 1, GolfScore: 80, HolesCompleted: 18, Timestamp: recorded}))

	dash, err := f.svc.Coach(context.Background(), coachWithProfile(1))
	require.NoError(t, err)

	require.NotNil(t, dash.NextEvent)
	assert.Equal(t, "Next", dash.NextEvent.Title)
	require.NotNil(t, dash.LatestScoreAt)
	assert.Equal(t, recorded, *dash.LatestScoreAt)

	t.Run("empty system leaves optional fields nil", func(t *testing.T) {
		empty := newDashboardFixture(t)
		dash, err := empty.svc.Coach(context.Background(), coachWithProfile(1))
		require.NoError(t, err)
		assert.Nil(t, dash.NextEvent)
		assert.Nil(t, dash.LatestScoreAt)
	})

	t.Run("coach role without profile", func(t *testing.T) {
		bare := policy.Caller{UserID: 50, Roles: []models.UserRole{models.RoleCoach}}
		_, err := f.svc.Coach(context.Background(), bare)
		assert.ErrorIs(t, err, policy.ErrProfileMissing)
	})
}

func TestDashboardPartner(t *testing.T) {
	f := newDashboardFixture(t)

	caller := partnerWithProfile(1)

	t.Run("no athlete assigned", func(t *testing.T) {
		dash, err := f.svc.Partner(context.Background(), caller)
		require.NoError(t, err)
		assert.Nil(t, dash.Athlete)
	})

	require.NoError(t, f.athletes.Create(context.Background(), &models.Athlete{Name: "Alex", PartnerID: 1}))
	require.NoError(t, f.scores.Create(context.Background(), &models.EventScore{AthleteID: 1, EventID: 1, EnteredByPartnerID: 1, GolfScore: 80, HolesCompleted: 18}))

	dash, err := f.svc.Partner(context.Background(), caller)
	require.NoError(t, err)
	require.NotNil(t, dash.Athlete)
	assert.Equal(t, "Alex", dash.Athlete.Name)
	assert.Len(t, dash.Athlete.Scores, 1)

	t.Run("partner role without profile", func(t *testing.T) {
		bare := policy.Caller{UserID: 50, Roles: []models.UserRole{models.RolePartner}}
		_, err := f.svc.Partner(context.Background(), bare)
		assert.ErrorIs(t, err, policy.ErrProfileMissing)
	})
}

func TestDashboardAthlete(t *testing.T) {
	f := newDashboardFixture(t)

	caller := policy.Caller{UserID: 4, Roles: []models.UserRole{models.RoleAthlete}}

	t.Run("athlete role without a linked row", func(t *testing.T) {
		_, err := f.svc.Athlete(context.Background(), caller)
		assert.ErrorIs(t, err, policy.ErrProfileMissing)
	})

	require.NoError(t, f.athletes.Create(context.Background(), &models.Athlete{Name: "Alex", PartnerID: 1, UserID: intPtr(4)}))
	require.NoError(t, f.scores.Create(context.Background(), &models.EventScore{AthleteID: 1, EventID: 1, EnteredByPartnerID: 1, GolfScore: 80, HolesCompleted: 18}))

	dash, err := f.svc.Athlete(context.Background(), caller)
	require.NoError(t, err)
	require.NotNil(t, dash.Athlete)
	assert.Len(t, dash.Athlete.Scores, 1)
}
