package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/briancappello/starter/internal/domain"
	"github.com/briancappello/starter/internal/transport/rest/dataloader"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	tokenPrefixLen  = 8
)

type userAdminService interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, limit, offset uint64) ([]*domain.User, int64, error)
}

type tokenLister interface {
	ListRecent(ctx context.Context, limit uint64) ([]*domain.AccessToken, error)
}

// AdminHandler serves the superuser JSON API.
type AdminHandler struct {
	users  userAdminService
	tokens tokenLister
	log    *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(users userAdminService, tokens tokenLister, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		users:  users,
		tokens: tokens,
		log:    logger.With("handler", "admin"),
	}
}

type userListResponse struct {
	Items  []userResponse `json:"items"`
	Total  int64          `json:"total"`
	Limit  uint64         `json:"limit"`
	Offset uint64         `json:"offset"`
}

type accessTokenResponse struct {
	TokenPrefix string    `json:"token_prefix"`
	UserID      int64     `json:"user_id"`
	UserEmail   string    `json:"user_email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListUsers handles GET /admin/users?limit=50&offset=0.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request, _ *domain.User) {
	limit, offset, ok := pagination(w, r)
	if !ok {
		return
	}

	users, total, err := h.users.List(r.Context(), limit, offset)
	if err != nil {
		handleError(h.log, w, r, err, nil)
		return
	}

	items := make([]userResponse, len(users))
	for i, u := range users {
		items[i] = toUserResponse(u)
	}
	writeJSON(w, http.StatusOK, userListResponse{Items: items, Total: total, Limit: limit, Offset: offset})
}

// GetUser handles GET /admin/users/{id}.
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request, _ *domain.User) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ListAccessTokens handles GET /admin/access-tokens?limit=50. Owner emails are
// resolved through the per-request user loader in one batched query.
func (h *AdminHandler) ListAccessTokens(w http.ResponseWriter, r *http.Request, _ *domain.User) {
	limit, _, ok := pagination(w, r)
	if !ok {
		return
	}

	tokens, err := h.tokens.ListRecent(r.Context(), limit)
	if err != nil {
		handleError(h.log, w, r, err, nil)
		return
	}

	ids := make([]int64, len(tokens))
	for i, t := range tokens {
		ids[i] = t.UserID
	}
	owners, err := dataloader.FromContext(r.Context()).Users(r.Context(), ids)
	if err != nil {
		handleError(h.log, w, r, err, nil)
		return
	}

	items := make([]accessTokenResponse, len(tokens))
	for i, t := range tokens {
		items[i] = accessTokenResponse{
			TokenPrefix: tokenPrefix(t.Token),
			UserID:      t.UserID,
			CreatedAt:   t.CreatedAt,
		}
		if owners[i] != nil {
			items[i].UserEmail = owners[i].Email
		}
	}
	writeJSON(w, http.StatusOK, items)
}

func pagination(w http.ResponseWriter, r *http.Request) (limit, offset uint64, ok bool) {
	limit = defaultPageSize
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil || n == 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return 0, 0, false
		}
		limit = min(n, maxPageSize)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}

func tokenPrefix(token string) string {
	if len(token) <= tokenPrefixLen {
		return token
	}
	return token[:tokenPrefixLen]
}
