package handlers

import (
	"errors"
	"net/http"

	"github.com/golfteamapp/golfteam-system/services"
)

const maxPictureBytes = 10 << 20 // 10MB

type AthleteHandler struct {
	athleteService services.AthleteService
	resolver       *services.CallerResolver
}

func NewAthleteHandler(athleteService services.AthleteService, resolver *services.CallerResolver) *AthleteHandler {
	return &AthleteHandler{
		athleteService: athleteService,
		resolver:       resolver,
	}
}

func (h *AthleteHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	athletes, err := h.athleteService.List(r.Context(), caller)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"athletes": athletes}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AthleteHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "athleteID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	athlete, err := h.athleteService.GetByID(r.Context(), caller, id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"athlete": athlete}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AthleteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateAthleteInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	athlete, err := h.athleteService.Create(r.Context(), caller, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"athlete": athlete}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AthleteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "athleteID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateAthleteInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	athlete, err := h.athleteService.Update(r.Context(), caller, id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"athlete": athlete}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AthleteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "athleteID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := h.athleteService.Delete(r.Context(), caller, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AthleteHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "athleteID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxPictureBytes); err != nil {
		badRequestResponse(w, r, errors.New("request must be multipart form data"))
		return
	}

	file, header, err := r.FormFile("picture")
	if err != nil {
		badRequestResponse(w, r, errors.New("picture file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	athlete, err := h.athleteService.UploadPicture(r.Context(), caller, id, file, contentType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"athlete": athlete}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
