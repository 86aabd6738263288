package handlers

import (
	"net/http"

	"github.com/golfteamapp/golfteam-system/models"
	"github.com/golfteamapp/golfteam-system/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
	resolver         *services.CallerResolver
}

func NewDashboardHandler(dashboardService services.DashboardService, resolver *services.CallerResolver) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		resolver:         resolver,
	}
}

// Index routes the caller to the dashboard of their highest-privilege role.
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	var target string
	switch caller.PrimaryRole() {
	case models.RoleAdmin:
		target = "/dashboard/admin"
	case models.RoleCoach:
		target = "/dashboard/coach"
	case models.RolePartner:
		target = "/dashboard/partner"
	case models.RoleAthlete:
		target = "/dashboard/athlete"
	default:
		forbiddenResponse(w, r, "no role assigned; register a profile first")
		return
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	dash, err := h.dashboardService.Admin(r.Context(), caller)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"dashboard": dash}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DashboardHandler) Coach(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	dash, err := h.dashboardService.Coach(r.Context(), caller)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"dashboard": dash}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DashboardHandler) Partner(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	dash, err := h.dashboardService.Partner(r.Context(), caller)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"dashboard": dash}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DashboardHandler) Athlete(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	dash, err := h.dashboardService.Athlete(r.Context(), caller)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"dashboard": dash}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
