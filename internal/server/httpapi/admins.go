package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/parking/internal/server/services"
	"github.com/gorilla/mux"
)

func (h *handlers) loginAdmin(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.admins.Login(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) registerAdmin(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterAdminInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.admins.Register(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.admins.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.admins.DeleteUser(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "user deleted.")
}

func (h *handlers) listGuards(w http.ResponseWriter, r *http.Request) {
	list, err := h.admins.ListGuards(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) deactivateGuard(w http.ResponseWriter, r *http.Request) {
	p, err := h.admins.DeactivateGuard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handlers) adminAvailableSpaces(w http.ResponseWriter, r *http.Request) {
	list, err := h.admins.AvailableSpaces(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) registerGuard(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterGuardInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.admins.RegisterGuard(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
