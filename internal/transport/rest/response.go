package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/briancappello/starter/internal/domain"
)

// Error codes reported in the detail field, as the auth API contract names them.
const (
	codeLoginBadCredentials   = "LOGIN_BAD_CREDENTIALS"
	codeLoginUserNotVerified  = "LOGIN_USER_NOT_VERIFIED"
	codeRegisterUserExists    = "REGISTER_USER_ALREADY_EXISTS"
	codeResetPasswordBadToken = "RESET_PASSWORD_BAD_TOKEN"
	codeVerifyBadToken        = "VERIFY_USER_BAD_TOKEN"
	codeVerifyAlreadyVerified = "VERIFY_USER_ALREADY_VERIFIED"
	codeUpdateEmailExists     = "UPDATE_USER_EMAIL_ALREADY_EXISTS"
)

// errorCodes overrides the detail reported for a sentinel on one endpoint.
type errorCodes map[error]string

type errorResponse struct {
	Detail string       `json:"detail"`
	Errors []fieldError `json:"errors,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var statusBySentinel = []struct {
	err    error
	status int
	detail string
}{
	{domain.ErrValidation, http.StatusBadRequest, "validation error"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrNotFound, http.StatusNotFound, "not found"},
	{domain.ErrAlreadyExists, http.StatusConflict, "already exists"},
	{domain.ErrConflict, http.StatusConflict, "conflict"},
}

// handleError maps a service error onto a JSON error response. Unmapped
// errors are logged and reported as 500.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error, codes errorCodes) {
	for _, m := range statusBySentinel {
		if !errors.Is(err, m.err) {
			continue
		}
		resp := errorResponse{Detail: m.detail}
		if code, ok := codes[m.err]; ok {
			resp.Detail = code
		}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			for _, fe := range ve.Errors {
				resp.Errors = append(resp.Errors, fieldError{Field: fe.Field, Message: fe.Message})
			}
		}
		writeJSON(w, m.status, resp)
		return
	}

	log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
