package handlers

import (
	"net/http"

	"github.com/golfteamapp/golfteam-system/services"
)

type EventHandler struct {
	eventService services.EventService
	resolver     *services.CallerResolver
}

func NewEventHandler(eventService services.EventService, resolver *services.CallerResolver) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		resolver:     resolver,
	}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	events, err := h.eventService.List(r.Context(), caller)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	event, err := h.eventService.GetByID(r.Context(), caller, id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.EventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	event, err := h.eventService.Create(r.Context(), caller, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.EventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	event, err := h.eventService.Update(r.Context(), caller, id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	caller, err := resolveCaller(r, h.resolver)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := h.eventService.Delete(r.Context(), caller, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
