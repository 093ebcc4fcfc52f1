package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/logging"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

type msgResponse struct {
	Msg string `json:"msg"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, msgResponse{Msg: msg})
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{common.ErrValidation, http.StatusBadRequest},
	{common.ErrPasswordMismatch, http.StatusBadRequest},
	{common.ErrInvalidOrExpiredToken, http.StatusBadRequest},
	{common.ErrInvalidCredentials, http.StatusUnauthorized},
	{common.ErrUnauthenticated, http.StatusUnauthorized},
	{common.ErrEmailNotConfirmed, http.StatusForbidden},
	{common.ErrInactiveAccount, http.StatusForbidden},
	{common.ErrNotOwner, http.StatusForbidden},
	{common.ErrForbidden, http.StatusForbidden},
	{common.ErrNotFound, http.StatusNotFound},
	{common.ErrAlreadyExists, http.StatusConflict},
}

// statusFor maps a service error to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"msg": ...}. Internal failures are logged with
// their full chain and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.LogError(r.Context(), logger.With("method", r.Method, "path", r.URL.Path), "request failed", err)
		writeMsg(w, status, "internal server error.")
		return
	}
	writeMsg(w, status, publicMessage(err))
}

// publicMessage drops the sentinel prefix of validation errors so only the
// field detail reaches the caller.
func publicMessage(err error) string {
	msg := err.Error()
	if errors.Is(err, common.ErrValidation) {
		msg = strings.TrimPrefix(msg, common.ErrValidation.Error()+": ")
	}
	return msg + "."
}

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", common.ErrValidation)
		}
		return fmt.Errorf("%w: request body is not valid JSON", common.ErrValidation)
	}
	return nil
}
