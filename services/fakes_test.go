package services

import (
	"context"
	"sort"
	"time"

	"github.com/golfteamapp/golfteam-system/models"
	"github.com/golfteamapp/golfteam-system/repositories"
)

// In-memory repository fakes mirroring the optimistic-update semantics of the
// Postgres implementations: Update matches on the loaded version and bumps it,
// and a vanished or stale row yields the version-conflict sentinel.

type fakeAthleteRepo struct {
	nextID   int
	athletes map[int]*models.Athlete
}

func newFakeAthleteRepo() *fakeAthleteRepo {
	return &fakeAthleteRepo{nextID: 1, athletes: make(map[int]*models.Athlete)}
}

func (r *fakeAthleteRepo) Create(_ context.Context, athlete *models.Athlete) error {
	athlete.ID = r.nextID
	athlete.Version = 1
	r.nextID++
	cp := *athlete
	r.athletes[athlete.ID] = &cp
	return nil
}

func (r *fakeAthleteRepo) GetByID(_ context.Context, id int) (*models.Athlete, error) {
	a, ok := r.athletes[id]
	if !ok {
		return nil, repositories.ErrAthleteNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAthleteRepo) GetByUserID(_ context.Context, userID int) (*models.Athlete, error) {
	for _, a := range r.athletes {
		if a.UserID != nil && *a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repositories.ErrAthleteNotFound
}

func (r *fakeAthleteRepo) List(_ context.Context) ([]models.Athlete, error) {
	ids := make([]int, 0, len(r.athletes))
	for id := range r.athletes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]models.Athlete, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.athletes[id])
	}
	return out, nil
}

func (r *fakeAthleteRepo) FirstByPartnerID(_ context.Context, partnerID int) (*models.Athlete, error) {
	list, _ := r.List(context.Background())
	for i := range list {
		if list[i].PartnerID == partnerID {
			return &list[i], nil
		}
	}
	return nil, repositories.ErrAthleteNotFound
}

func (r *fakeAthleteRepo) Update(_ context.Context, athlete *models.Athlete) error {
	stored, ok := r.athletes[athlete.ID]
	if !ok || stored.Version != athlete.Version {
		return repositories.ErrAthleteVersionConflict
	}
	athlete.Version++
	cp := *athlete
	r.athletes[athlete.ID] = &cp
	return nil
}

func (r *fakeAthleteRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.athletes[id]; !ok {
		return repositories.ErrAthleteNotFound
	}
	delete(r.athletes, id)
	return nil
}

func (r *fakeAthleteRepo) Count(_ context.Context) (int, error) {
	return len(r.athletes), nil
}

func (r *fakeAthleteRepo) CountByPartnerID(_ context.Context, partnerID int) (int, error) {
	n := 0
	for _, a := range r.athletes {
		if a.PartnerID == partnerID {
			n++
		}
	}
	return n, nil
}

type fakePartnerRepo struct {
	nextID   int
	partners map[int]*models.Partner
}

func newFakePartnerRepo() *fakePartnerRepo {
	return &fakePartnerRepo{nextID: 1, partners: make(map[int]*models.Partner)}
}

func (r *fakePartnerRepo) Create(_ context.Context, partner *models.Partner) error {
	partner.ID = r.nextID
	partner.Version = 1
	r.nextID++
	cp := *partner
	r.partners[partner.ID] = &cp
	return nil
}

func (r *fakePartnerRepo) GetByID(_ context.Context, id int) (*models.Partner, error) {
	p, ok := r.partners[id]
	if !ok {
		return nil, repositories.ErrPartnerNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePartnerRepo) GetByUserID(_ context.Context, userID int) (*models.Partner, error) {
	for _, p := range r.partners {
		if p.UserID != nil && *p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPartnerNotFound
}

func (r *fakePartnerRepo) List(_ context.Context) ([]models.Partner, error) {
	out := make([]models.Partner, 0, len(r.partners))
	for _, p := range r.partners {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePartnerRepo) Update(_ context.Context, partner *models.Partner) error {
	stored, ok := r.partners[partner.ID]
	if !ok || stored.Version != partner.Version {
		return repositories.ErrPartnerVersionConflict
	}
	partner.Version++
	cp := *partner
	r.partners[partner.ID] = &cp
	return nil
}

func (r *fakePartnerRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.partners[id]; !ok {
		return repositories.ErrPartnerNotFound
	}
	delete(r.partners, id)
	return nil
}

func (r *fakePartnerRepo) Count(_ context.Context) (int, error) {
	return len(r.partners), nil
}

type fakeCoachRepo struct {
	nextID  int
	coaches map[int]*models.Coach
}

func newFakeCoachRepo() *fakeCoachRepo {
	return &fakeCoachRepo{nextID: 1, coaches: make(map[int]*models.Coach)}
}

func (r *fakeCoachRepo) Create(_ context.Context, coach *models.Coach) error {
	coach.ID = r.nextID
	coach.Version = 1
	r.nextID++
	cp := *coach
	r.coaches[coach.ID] = &cp
	return nil
}

func (r *fakeCoachRepo) GetByID(_ context.Context, id int) (*models.Coach, error) {
	c, ok := r.coaches[id]
	if !ok {
		return nil, repositories.ErrCoachNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCoachRepo) GetByUserID(_ context.Context, userID int) (*models.Coach, error) {
	for _, c := range r.coaches {
		if c.UserID != nil && *c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrCoachNotFound
}

func (r *fakeCoachRepo) List(_ context.Context) ([]models.Coach, error) {
	out := make([]models.Coach, 0, len(r.coaches))
	for _, c := range r.coaches {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCoachRepo) Update(_ context.Context, coach *models.Coach) error {
	stored, ok := r.coaches[coach.ID]
	if !ok || stored.Version != coach.Version {
		return repositories.ErrCoachVersionConflict
	}
	coach.Version++
	cp := *coach
	r.coaches[coach.ID] = &cp
	return nil
}

func (r *fakeCoachRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.coaches[id]; !ok {
		return repositories.ErrCoachNotFound
	}
	delete(r.coaches, id)
	return nil
}

func (r *fakeCoachRepo) Count(_ context.Context) (int, error) {
	return len(r.coaches), nil
}

type fakeEventRepo struct {
	nextID int
	events map[int]*models.GolfEvent
	// conflictOnce makes the next Update fail with the version-conflict
	// sentinel, simulating a concurrent writer between load and save.
	conflictOnce bool
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{nextID: 1, events: make(map[int]*models.GolfEvent)}
}

func (r *fakeEventRepo) Create(_ context.Context, event *models.GolfEvent) error {
	event.ID = r.nextID
	event.Version = 1
	r.nextID++
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int) (*models.GolfEvent, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEventRepo) List(_ context.Context) ([]models.GolfEvent, error) {
	out := make([]models.GolfEvent, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.Before(out[j].EventDate) })
	return out, nil
}

func (r *fakeEventRepo) ListRecent(ctx context.Context, limit int) ([]models.GolfEvent, error) {
	out, _ := r.List(ctx)
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.After(out[j].EventDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeEventRepo) NextUpcoming(ctx context.Context, after time.Time) (*models.GolfEvent, error) {
	list, _ := r.List(ctx)
	for i := range list {
		if list[i].EventDate.After(after) {
			return &list[i], nil
		}
	}
	return nil, repositories.ErrEventNotFound
}

func (r *fakeEventRepo) Update(_ context.Context, event *models.GolfEvent) error {
	if r.conflictOnce {
		r.conflictOnce = false
		return repositories.ErrEventVersionConflict
	}
	stored, ok := r.events[event.ID]
	if !ok || stored.Version != event.Version {
		return repositories.ErrEventVersionConflict
	}
	event.Version++
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) Count(_ context.Context) (int, error) {
	return len(r.events), nil
}

func (r *fakeEventRepo) CountByCoachID(_ context.Context, coachID int) (int, error) {
	n := 0
	for _, e := range r.events {
		if e.CreatedByCoachID == coachID {
			n++
		}
	}
	return n, nil
}

type fakeScoreRepo struct {
	nextID int
	scores map[int]*models.EventScore
	// athletePartner maps athlete id to partner id for the visibility filter.
	athletePartner map[int]int
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{
		nextID:         1,
		scores:         make(map[int]*models.EventScore),
		athletePartner: make(map[int]int),
	}
}

func (r *fakeScoreRepo) Create(_ context.Context, score *models.EventScore) error {
	score.ID = r.nextID
	score.Version = 1
	r.nextID++
	cp := *score
	r.scores[score.ID] = &cp
	return nil
}

func (r *fakeScoreRepo) GetByID(_ context.Context, id int) (*models.EventScore, error) {
	s, ok := r.scores[id]
	if !ok {
		return nil, repositories.ErrScoreNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeScoreRepo) List(_ context.Context) ([]models.EventScore, error) {
	ids := make([]int, 0, len(r.scores))
	for id := range r.scores {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]models.EventScore, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.scores[id])
	}
	return out, nil
}

func (r *fakeScoreRepo) ListByPartnerID(ctx context.Context, partnerID int) ([]models.EventScore, error) {
	all, _ := r.List(ctx)
	out := make([]models.EventScore, 0)
	for _, s := range all {
		if r.athletePartner[s.AthleteID] == partnerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeScoreRepo) ListByAthleteID(ctx context.Context, athleteID int) ([]models.EventScore, error) {
	all, _ := r.List(ctx)
	out := make([]models.EventScore, 0)
	for _, s := range all {
		if s.AthleteID == athleteID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeScoreRepo) Latest(ctx context.Context) (*models.EventScore, error) {
	all, _ := r.List(ctx)
	if len(all) == 0 {
		return nil, repositories.ErrScoreNotFound
	}
	latest := all[0]
	for _, s := range all[1:] {
		if s.Timestamp.After(latest.Timestamp) {
			latest = s
		}
	}
	return &latest, nil
}

func (r *fakeScoreRepo) Update(_ context.Context, score *models.EventScore) error {
	stored, ok := r.scores[score.ID]
	if !ok || stored.Version != score.Version {
		return repositories.ErrScoreVersionConflict
	}
	score.Version++
	cp := *score
	r.scores[score.ID] = &cp
	return nil
}

func (r *fakeScoreRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.scores[id]; !ok {
		return repositories.ErrScoreNotFound
	}
	delete(r.scores, id)
	return nil
}

func (r *fakeScoreRepo) DeleteByAthleteID(_ context.Context, athleteID int) error {
	for id, s := range r.scores {
		if s.AthleteID == athleteID {
			delete(r.scores, id)
		}
	}
	return nil
}

func (r *fakeScoreRepo) DeleteByEventID(_ context.Context, eventID int) error {
	for id, s := range r.scores {
		if s.EventID == eventID {
			delete(r.scores, id)
		}
	}
	return nil
}

func (r *fakeScoreRepo) Count(_ context.Context) (int, error) {
	return len(r.scores), nil
}

func (r *fakeScoreRepo) CountByEnteredPartnerID(_ context.Context, partnerID int) (int, error) {
	n := 0
	for _, s := range r.scores {
		if s.EnteredByPartnerID == partnerID {
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	cp := *user
	cp.Roles = append([]models.UserRole(nil), user.Roles...)
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	cp.Roles = append([]models.UserRole(nil), u.Roles...)
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			cp.Roles = append([]models.UserRole(nil), u.Roles...)
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) AssignRole(_ context.Context, userID int, role models.UserRole) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	for _, held := range u.Roles {
		if held == role {
			return nil
		}
	}
	u.Roles = append(u.Roles, role)
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int, error) {
	return len(r.users), nil
}

func (r *fakeUserRepo) CountWithoutProfiles(_ context.Context) (int, error) {
	n := 0
	for _, u := range r.users {
		if len(u.Roles) == 0 {
			n++
		}
	}
	return n, nil
}

// recordingNotifier captures live feed notifications for assertions.
type recordingNotifier struct {
	created []models.EventScore
	updated []models.EventScore
	deleted [][2]int
}

func (n *recordingNotifier) ScoreCreated(score *models.EventScore) {
	n.created = append(n.created, *score)
}

func (n *recordingNotifier) ScoreUpdated(score *models.EventScore) {
	n.updated = append(n.updated, *score)
}

func (n *recordingNotifier) ScoreDeleted(eventID, scoreID int) {
	n.deleted = append(n.deleted, [2]int{eventID, scoreID})
}
