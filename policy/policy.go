// Package policy is the authorization core: pure decision functions over an
// explicit Caller value. For each entity and operation it answers ALLOW/DENY
// and, for edits, computes the effective mutation: the record that actually
// gets stored, with fields the caller may not change carried forward from the
// previously stored row.
package policy

import (
	"errors"

	"github.com/golfteamapp/golfteam-system/models"
)

var (
	// ErrForbidden means the caller's role/ownership fails the check; terminal.
	ErrForbidden = errors.New("operation not allowed for the current user")
	// ErrProfileMissing means the caller's role requires a linked profile that
	// does not exist; the caller should be sent to profile creation.
	ErrProfileMissing = errors.New("no linked profile for the caller's role")
)

type Entity string

const (
	EntityAthlete Entity = "athlete"
	EntityPartner Entity = "partner"
	EntityCoach   Entity = "coach"
	EntityEvent   Entity = "event"
	EntityScore   Entity = "score"
)

type Operation string

const (
	OpList   Operation = "list"
	OpView   Operation = "view"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// roleAny marks an operation open to every authenticated caller, role or not
// (profile self-registration).
const roleAny models.UserRole = "*"

// grants is the role gate per entity and operation. It answers only "may this
// role attempt the operation at all"; row ownership and field restrictions are
// decided by the functions below.
//
// Note the deliberate asymmetry: any partner may view any athlete's details,
// while score listings ARE narrowed to the partner's own athletes.
var grants = map[Entity]map[Operation][]models.UserRole{
	EntityAthlete: {
		OpList:   {models.RoleAdmin, models.RoleCoach, models.RolePartner},
		OpView:   {models.RoleAdmin, models.RoleCoach, models.RolePartner},
		OpCreate: {models.RoleAdmin, models.RoleCoach},
		OpUpdate: {models.RoleAdmin, models.RoleCoach, models.RolePartner},
		OpDelete: {models.RoleAdmin, models.RoleCoach},
	},
	EntityPartner: {
		OpList:   {models.RoleAdmin, models.RoleCoach, models.RolePartner},
		OpView:   {models.RoleAdmin, models.RoleCoach, models.RolePartner},
		OpCreate: {roleAny},
		OpUpdate: {models.RoleAdmin, models.RolePartner},
		OpDelete: {models.RoleAdmin},
	},
	EntityCoach: {
		OpList:   {models.RoleAdmin, models.RoleCoach, models.RolePartner},
		OpView:   {models.RoleAdmin, models.RoleCoach, models.RolePartner},
		OpCreate: {roleAny},
		OpUpdate: {models.RoleAdmin, models.RoleCoach},
		OpDelete: {models.RoleAdmin},
	},
	EntityEvent: {
		OpList:   {models.RoleAdmin, models.RoleCoach, models.RolePartner, models.RoleAthlete},
		OpView:   {models.RoleAdmin, models.RoleCoach, models.RolePartner, models.RoleAthlete},
		OpCreate: {models.RoleAdmin, models.RoleCoach},
		OpUpdate: {models.RoleAdmin, models.RoleCoach},
		OpDelete: {models.RoleAdmin, models.RoleCoach},
	},
	EntityScore: {
		OpList:   {models.RoleAdmin, models.RoleCoach, models.RolePartner},
		OpView:   {models.RoleAdmin, models.RoleCoach, models.RolePartner},
		OpCreate: {models.RoleAdmin, models.RoleCoach, models.RolePartner},
		OpUpdate: {models.RoleAdmin, models.RoleCoach, models.RolePartner},
		OpDelete: {models.RoleAdmin, models.RoleCoach},
	},
}

// Allows is the coarse role gate for an entity/operation pair.
func Allows(c Caller, entity Entity, op Operation) bool {
	roles, ok := grants[entity][op]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == roleAny || c.HasRole(r) {
			return true
		}
	}
	return false
}

// Require returns ErrForbidden when the role gate denies the operation.
func Require(c Caller, entity Entity, op Operation) error {
	if !Allows(c, entity, op) {
		return ErrForbidden
	}
	return nil
}

// AthleteUpdate decides whether the caller may edit the stored athlete and
// returns the effective record. Admin/Coach edit the full field set except
// UserID, which is always carried forward. A Partner may edit only the athlete
// assigned to them, and only the ratings and picture take effect: submitted
// Name, PartnerID and UserID are discarded in favor of the stored values.
func AthleteUpdate(c Caller, existing, submitted *models.Athlete) (*models.Athlete, error) {
	out := *submitted
	out.ID = existing.ID
	out.Version = existing.Version
	out.UserID = existing.UserID

	switch {
	case c.isStaff():
		return &out, nil
	case c.HasRole(models.RolePartner):
		if c.Partner == nil {
			return nil, ErrForbidden
		}
		if existing.PartnerID != c.Partner.ID {
			return nil, ErrForbidden
		}
		out.Name = existing.Name
		out.PartnerID = existing.PartnerID
		return &out, nil
	default:
		return nil, ErrForbidden
	}
}

// CoachUpdate decides an edit on a coach profile. Admin edits any coach and may
// set UserID (a nil submitted UserID keeps the stored link). A coach may edit
// only the row linked to their own identity, and the stored UserID always wins
// over whatever was submitted.
func CoachUpdate(c Caller, existing, submitted *models.Coach) (*models.Coach, error) {
	out := *submitted
	out.ID = existing.ID
	out.Version = existing.Version

	switch {
	case c.HasRole(models.RoleAdmin):
		if out.UserID == nil {
			out.UserID = existing.UserID
		}
		return &out, nil
	case c.HasRole(models.RoleCoach):
		if existing.UserID == nil || *existing.UserID != c.UserID {
			return nil, ErrForbidden
		}
		out.UserID = existing.UserID
		return &out, nil
	default:
		return nil, ErrForbidden
	}
}

// PartnerUpdate mirrors CoachUpdate for partner profiles.
func PartnerUpdate(c Caller, existing, submitted *models.Partner) (*models.Partner, error) {
	out := *submitted
	out.ID = existing.ID
	out.Version = existing.Version

	switch {
	case c.HasRole(models.RoleAdmin):
		if out.UserID == nil {
			out.UserID = existing.UserID
		}
		return &out, nil
	case c.HasRole(models.RolePartner):
		if existing.UserID == nil || *existing.UserID != c.UserID {
			return nil, ErrForbidden
		}
		out.UserID = existing.UserID
		return &out, nil
	default:
		return nil, ErrForbidden
	}
}

// EventModify guards edit and delete of a golf event. Admin acts on any event;
// a coach only on events they created. A caller in the Coach role without a
// linked coach profile is denied outright (not a profile-missing redirect).
func EventModify(c Caller, event *models.GolfEvent) error {
	if c.HasRole(models.RoleAdmin) {
		return nil
	}
	if c.HasRole(models.RoleCoach) {
		if c.Coach == nil || event.CreatedByCoachID != c.Coach.ID {
			return ErrForbidden
		}
		return nil
	}
	return ErrForbidden
}

// EventUpdate decides an edit on a stored event and returns the effective
// record. Ownership follows EventModify. Only an admin may reassign the
// creating coach; for any other caller the stored CreatedByCoachID is carried
// forward regardless of what was submitted.
func EventUpdate(c Caller, existing, submitted *models.GolfEvent) (*models.GolfEvent, error) {
	if err := EventModify(c, existing); err != nil {
		return nil, err
	}
	out := *submitted
	out.ID = existing.ID
	out.Version = existing.Version
	if !c.HasRole(models.RoleAdmin) {
		out.CreatedByCoachID = existing.CreatedByCoachID
	}
	return &out, nil
}

// ScoreCreate decides a score creation targeting the given athlete and returns
// the effective record. A partner may only enter scores for their own athlete,
// and EnteredByPartnerID is forcibly overwritten with the partner's id
// regardless of what was submitted. The caller is expected to stamp Timestamp
// with the server clock afterwards.
func ScoreCreate(c Caller, athlete *models.Athlete, submitted *models.EventScore) (*models.EventScore, error) {
	out := *submitted

	switch {
	case c.isStaff():
		return &out, nil
	case c.HasRole(models.RolePartner):
		if c.Partner == nil {
			return nil, ErrProfileMissing
		}
		if athlete.PartnerID != c.Partner.ID {
			return nil, ErrForbidden
		}
		out.EnteredByPartnerID = c.Partner.ID
		return &out, nil
	default:
		return nil, ErrForbidden
	}
}

// ScoreUpdate decides an edit on a stored score and returns the effective
// record. A partner may only edit scores they entered. For every role the
// stored Timestamp is preserved verbatim; it is never recomputed and never
// taken from input.
func ScoreUpdate(c Caller, existing, submitted *models.EventScore) (*models.EventScore, error) {
	out := *submitted
	out.ID = existing.ID
	out.Version = existing.Version
	out.Timestamp = existing.Timestamp

	switch {
	case c.isStaff():
		return &out, nil
	case c.HasRole(models.RolePartner):
		if c.Partner == nil {
			return nil, ErrProfileMissing
		}
		if existing.EnteredByPartnerID != c.Partner.ID {
			return nil, ErrForbidden
		}
		return &out, nil
	default:
		return nil, ErrForbidden
	}
}

// ScoreView guards score details. The athlete the score belongs to is needed
// to resolve partner ownership.
func ScoreView(c Caller, athlete *models.Athlete) error {
	if c.isStaff() {
		return nil
	}
	if c.HasRole(models.RolePartner) {
		if c.Partner == nil || athlete.PartnerID != c.Partner.ID {
			return ErrForbidden
		}
		return nil
	}
	return ErrForbidden
}

// ScoreScope describes which score rows a listing may return.
type ScoreScope struct {
	All       bool
	PartnerID int // set when All is false: only scores of athletes assigned to this partner
}

// ScoreListScope resolves the visibility scope for score listings: Admin/Coach
// see everything, a Partner sees only scores for athletes assigned to them,
// every other role is denied.
func ScoreListScope(c Caller) (ScoreScope, error) {
	if c.isStaff() {
		return ScoreScope{All: true}, nil
	}
	if c.HasRole(models.RolePartner) {
		if c.Partner == nil {
			return ScoreScope{}, ErrProfileMissing
		}
		return ScoreScope{PartnerID: c.Partner.ID}, nil
	}
	return ScoreScope{}, ErrForbidden
}
