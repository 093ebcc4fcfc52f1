package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/parking/internal/server/services"
	"github.com/gorilla/mux"
)

func (h *handlers) createSpace(w http.ResponseWriter, r *http.Request) {
	var in services.SpaceInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	sp, err := h.spaces.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sp)
}

func (h *handlers) listSpaces(w http.ResponseWriter, r *http.Request) {
	list, err := h.spaces.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) listAvailableSpaces(w http.ResponseWriter, r *http.Request) {
	list, err := h.spaces.ListAvailable(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) getSpace(w http.ResponseWriter, r *http.Request) {
	sp, err := h.spaces.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sp)
}

func (h *handlers) updateSpace(w http.ResponseWriter, r *http.Request) {
	var in services.SpaceInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	sp, err := h.spaces.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sp)
}

func (h *handlers) setSpaceState(w http.ResponseWriter, r *http.Request) {
	var in services.SpaceStateInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	sp, err := h.spaces.SetActive(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sp)
}
