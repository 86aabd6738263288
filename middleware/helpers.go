package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"github.com/golfteamapp/golfteam-system/models"
)

const (
	jwtClaimUserID = "user_id"
	jwtClaimRoles  = "roles"
)

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return 0, errors.New("user claims not found in context or invalid type")
	}

	userIDClaim, ok := claims[jwtClaimUserID]
	if !ok {
		return 0, fmt.Errorf("missing '%s' claim in token", jwtClaimUserID)
	}

	// JSON numbers decode as float64.
	userIDFloat, ok := userIDClaim.(float64)
	if !ok {
		return 0, fmt.Errorf("invalid type for '%s' claim: expected number, got %T", jwtClaimUserID, userIDClaim)
	}

	userID := int(userIDFloat)
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user ID value in '%s' claim: %d", jwtClaimUserID, userID)
	}
	return userID, nil
}

func GetUserRolesFromContext(ctx context.Context) ([]models.UserRole, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return nil, errors.New("user claims not found in context or invalid type")
	}

	// A freshly registered identity legitimately has no roles yet.
	rolesClaim, ok := claims[jwtClaimRoles]
	if !ok {
		return []models.UserRole{}, nil
	}

	rawRoles, ok := rolesClaim.([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid type for '%s' claim: expected array, got %T", jwtClaimRoles, rolesClaim)
	}

	roles := make([]models.UserRole, 0, len(rawRoles))
	for _, raw := range rawRoles {
		roleStr, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("invalid role entry in '%s' claim: %T", jwtClaimRoles, raw)
		}
		role := models.UserRole(roleStr)
		switch role {
		case models.RoleAdmin, models.RoleCoach, models.RolePartner, models.RoleAthlete:
			roles = append(roles, role)
		default:
			return nil, fmt.Errorf("invalid role value in claim: %q", roleStr)
		}
	}
	return roles, nil
}
