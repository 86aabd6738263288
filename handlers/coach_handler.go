package handlers

import (
	"fmt"
	"net/http"

	"github.com/golfteamapp/golfteam-system/models"
	"github.com/golfteamapp/golfteam-system/services"
)

type CoachHandler struct {
	coachService services.CoachService
	authService  services.AuthService
	resolver     *services.CallerResolver
	jwtSecret    []byte
}

func NewCoachHandler(
	coachService services.CoachService,
	authService services.AuthService,
	resolver *services.CallerResolver,
	jwtSecret string,
) *CoachHandler {
	return &CoachHandler{
		coachService: coachService,
		authService:  authService,
		resolver:     resolver,
		jwtSecret:    []byte(jwtSecret),
	}
}

func (h *CoachHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	coaches, err := h.coachService.List(r.Context(), caller)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"coaches": coaches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CoachHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "coachID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	coach, err := h.coachService.GetByID(r.Context(), caller, id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"coach": coach}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create handles both admin creation of an unbound profile and coach
// self-registration. Self-registration grants the coach role, so the response
// carries a re-issued token with the new role set.
func (h *CoachHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CoachInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	coach, alreadyExisted, err := h.coachService.Create(r.Context(), caller, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"coach": coach}
	status := http.StatusCreated
	if alreadyExisted {
		status = http.StatusOK
	}

	if !alreadyExisted && !caller.HasRole(models.RoleAdmin) {
		user, err := h.authService.GetUser(r.Context(), caller.UserID)
		if err != nil {
			serverErrorResponse(w, r, fmt.Errorf("failed to reload user after registration: %w", err))
			return
		}
		token, err := generateToken(h.jwtSecret, user)
		if err != nil {
			serverErrorResponse(w, r, fmt.Errorf("failed to sign token: %w", err))
			return
		}
		response["token"] = token
	}

	if err := writeJSON(w, status, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CoachHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "coachID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateCoachInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	coach, err := h.coachService.Update(r.Context(), caller, id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"coach": coach}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CoachHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "coachID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := h.coachService.Delete(r.Context(), caller, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
