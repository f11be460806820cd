package rest

import (
	"context"
	"log/slog"
	"mime"
	"net/http"

	"github.com/briancappello/starter/internal/domain"
	"github.com/briancappello/starter/internal/service/auth"
	"github.com/briancappello/starter/pkg/ctxutil"
)

// authService defines the minimal interface needed by AuthHandler.
type authService interface {
	Register(ctx context.Context, input auth.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input auth.LoginInput) (*auth.LoginResult, error)
	Logout(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) (*domain.User, error)
	RequestVerify(ctx context.Context, email string) error
	Verify(ctx context.Context, token string) (*domain.User, error)
	UpdateMe(ctx context.Context, user *domain.User, input auth.UpdateMeInput) (*domain.User, error)
}

// AuthHandler serves the /auth endpoints.
type AuthHandler struct {
	svc authService
	log *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: logger.With("handler", "auth")}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type updateMeRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type userResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsActive    bool   `json:"is_active"`
	IsVerified  bool   `json:"is_verified"`
	IsSuperuser bool   `json:"is_superuser"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsActive:    u.IsActive,
		IsVerified:  u.IsVerified,
		IsSuperuser: u.IsSuperuser,
	}
}

// Login handles POST /auth/v1/login. It accepts either a JSON body or an
// OAuth2 password form with username and password fields.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Email = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	} else if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(h.log, w, r, err, errorCodes{
			domain.ErrUnauthorized: codeLoginBadCredentials,
			domain.ErrForbidden:    codeLoginUserNotVerified,
		})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
	})
}

// Logout handles POST /auth/v1/logout for an active user.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, _ *domain.User) {
	if err := h.svc.Logout(r.Context(), ctxutil.AccessTokenFromCtx(r.Context())); err != nil {
		handleError(h.log, w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Register handles POST /auth/v1/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.Register(r.Context(), auth.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		handleError(h.log, w, r, err, errorCodes{domain.ErrAlreadyExists: codeRegisterUserExists})
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// ForgotPassword handles POST /auth/v1/forgot-password. It answers 202 whether
// or not the email belongs to a user.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		handleError(h.log, w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ResetPassword handles POST /auth/v1/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.svc.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		if isBadToken(err) {
			writeError(w, http.StatusBadRequest, codeResetPasswordBadToken)
			return
		}
		handleError(h.log, w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// RequestVerify handles POST /auth/v1/request-verify-token.
func (h *AuthHandler) RequestVerify(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.RequestVerify(r.Context(), req.Email); err != nil {
		handleError(h.log, w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Verify handles POST /auth/v1/verify.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.Verify(r.Context(), req.Token)
	if err != nil {
		if isBadToken(err) {
			writeError(w, http.StatusBadRequest, codeVerifyBadToken)
			return
		}
		handleError(h.log, w, r, err, errorCodes{domain.ErrConflict: codeVerifyAlreadyVerified})
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Me handles GET /auth/v1/users/me.
func (h *AuthHandler) Me(w http.ResponseWriter, _ *http.Request, user *domain.User) {
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateMe handles PATCH /auth/v1/users/me.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request, user *domain.User) {
	var req updateMeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.svc.UpdateMe(r.Context(), user, auth.UpdateMeInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		handleError(h.log, w, r, err, errorCodes{domain.ErrAlreadyExists: codeUpdateEmailExists})
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}

func isForm(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/x-www-form-urlencoded"
}

// isBadToken reports whether err rejects the submitted token itself.
func isBadToken(err error) bool {
	return domain.IsFieldError(err, "token")
}
