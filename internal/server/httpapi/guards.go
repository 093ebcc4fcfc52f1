package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/parking/internal/server/services"
	"github.com/gorilla/mux"
)

func (h *handlers) loginGuard(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.guards.Login(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) guardProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, caller(r).Profile)
}

func (h *handlers) guardActiveSpaces(w http.ResponseWriter, r *http.Request) {
	list, err := h.guards.ActiveSpaces(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) notifyAvailableSpaces(w http.ResponseWriter, r *http.Request) {
	var in services.NotifySpacesInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.guards.NotifyAvailableSpaces(r.Context(), in); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "available spaces sent to "+in.Email+".")
}

func (h *handlers) updateGuardProfile(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateGuardProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.guards.UpdateProfile(r.Context(), caller(r).ID, mux.Vars(r)["id"], in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
