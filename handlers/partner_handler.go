package handlers

import (
	"fmt"
	"net/http"

	"github.com/golfteamapp/golfteam-system/models"
	"github.com/golfteamapp/golfteam-system/services"
)

type PartnerHandler struct {
	partnerService services.PartnerService
	authService    services.AuthService
	resolver       *services.CallerResolver
	jwtSecret      []byte
}

func NewPartnerHandler(
	partnerService services.PartnerService,
	authService services.AuthService,
	resolver *services.CallerResolver,
	jwtSecret string,
) *PartnerHandler {
	return &PartnerHandler{
		partnerService: partnerService,
		authService:    authService,
		resolver:       resolver,
		jwtSecret:      []byte(jwtSecret),
	}
}

func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	partners, err := h.partnerService.List(r.Context(), caller)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"partners": partners}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PartnerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "partnerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	partner, err := h.partnerService.GetByID(r.Context(), caller, id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"partner": partner}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create handles both staff creation of an unbound profile and partner
// self-registration, which grants the partner role and re-issues the token.
func (h *PartnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.PartnerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	partner, alreadyExisted, err := h.partnerService.Create(r.Context(), caller, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"partner": partner}
	status := http.StatusCreated
	if alreadyExisted {
		status = http.StatusOK
	}

	isStaff := caller.HasRole(models.RoleAdmin) || caller.HasRole(models.RoleCoach)
	if !alreadyExisted && !isStaff {
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

func (h *PartnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "partnerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdatePartnerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	partner, err := h.partnerService.Update(r.Context(), caller, id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"partner": partner}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PartnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "partnerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := h.partnerService.Delete(r.Context(), caller, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
