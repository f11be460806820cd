// Package dataloader batches the owner lookups of admin listings. A fresh
// set of loaders is attached to every request, so results are cached for
// that request only.
package dataloader

import (
	"context"
	"net/http"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/briancappello/starter/internal/domain"
)

const (
	batchCapacity = 100
	batchWait     = 2 * time.Millisecond
)

// UserSource fetches users by id in one query. Unknown ids are left out.
type UserSource interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.User, error)
}

// Loaders holds the per-request loaders.
type Loaders struct {
	users *dataloader.Loader[int64, *domain.User]
}

// New builds loaders over users.
func New(users UserSource) *Loaders {
	return &Loaders{
		users: dataloader.NewBatchedLoader(
			batchUsers(users),
			dataloader.WithWait[int64, *domain.User](batchWait),
			dataloader.WithBatchCapacity[int64, *domain.User](batchCapacity),
		),
	}
}

// Users resolves ids to users in input order. Every id is queued before the
// first result is awaited, so one batch covers the whole slice. Missing
// users are nil.
func (l *Loaders) Users(ctx context.Context, ids []int64) ([]*domain.User, error) {
	thunks := make([]dataloader.Thunk[*domain.User], len(ids))
	for i, id := range ids {
		thunks[i] = l.users.Load(ctx, id)
	}
	out := make([]*domain.User, len(ids))
	for i, thunk := range thunks {
		u, err := thunk()
		if err != nil {
			return nil, err
		}
		out[i] = u
	}
	return out, nil
}

func batchUsers(src UserSource) dataloader.BatchFunc[int64, *domain.User] {
	return func(ctx context.Context, ids []int64) []*dataloader.Result[*domain.User] {
		results := make([]*dataloader.Result[*domain.User], len(ids))

		users, err := src.GetByIDs(ctx, ids)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[*domain.User]{Error: err}
			}
			return results
		}

		byID := make(map[int64]*domain.User, len(users))
		for _, u := range users {
			byID[u.ID] = u
		}
		for i, id := range ids {
			results[i] = &dataloader.Result[*domain.User]{Data: byID[id]}
		}
		return results
	}
}

type ctxKey struct{}

// WithLoaders returns ctx carrying l.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request's loaders. It panics when Middleware is
// not mounted on the route.
func FromContext(ctx context.Context) *Loaders {
	l, _ := ctx.Value(ctxKey{}).(*Loaders)
	if l == nil {
		panic("dataloader: no loaders in context")
	}
	return l
}

// Middleware attaches fresh loaders over users to each request.
func Middleware(users UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithLoaders(r.Context(), New(users))))
		})
	}
}
