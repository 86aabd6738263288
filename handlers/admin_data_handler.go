package handlers

import (
	"net/http"

	"github.com/golfteamapp/golfteam-system/services"
)

type AdminDataHandler struct {
	adminDataService services.AdminDataService
	resolver         *services.CallerResolver
}

func NewAdminDataHandler(adminDataService services.AdminDataService, resolver *services.CallerResolver) *AdminDataHandler {
	return &AdminDataHandler{
		adminDataService: adminDataService,
		resolver:         resolver,
	}
}

func (h *AdminDataHandler) Export(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	export, err := h.adminDataService.Export(r.Context(), caller)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"data": export}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
