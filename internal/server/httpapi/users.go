package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/parking/internal/server/services"
	"github.com/gorilla/mux"
)

func (h *handlers) registerUser(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterUserInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.users.Register(r.Context(), in); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMsg(w, http.StatusCreated, "check your e-mail to confirm your account.")
}

func (h *handlers) confirmEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.users.ConfirmEmail(r.Context(), mux.Vars(r)["token"]); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "account confirmed, you can now log in.")
}

func (h *handlers) loginUser(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.users.Login(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var in services.PasswordResetRequestInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.users.RequestPasswordReset(r.Context(), in); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "check your e-mail to reset your password.")
}

func (h *handlers) checkResetToken(w http.ResponseWriter, r *http.Request) {
	if err := h.users.CheckResetToken(r.Context(), mux.Vars(r)["token"]); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "token confirmed, you can now set a new password.")
}

func (h *handlers) resetPassword(w http.ResponseWriter, r *http.Request) {
	var in services.NewPasswordInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.users.ResetPassword(r.Context(), mux.Vars(r)["token"], in); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "password updated, you can now log in.")
}

func (h *handlers) userProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, caller(r).Profile)
}

func (h *handlers) changeUserPassword(w http.ResponseWriter, r *http.Request) {
	var in services.ChangePasswordInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.users.ChangePassword(r.Context(), caller(r).ID, in); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMsg(w, http.StatusOK, "password updated.")
}

func (h *handlers) updateUserProfile(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateUserProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.users.UpdateProfile(r.Context(), caller(r).ID, mux.Vars(r)["id"], in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
