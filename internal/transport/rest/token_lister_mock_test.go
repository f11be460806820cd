package rest

import (
	"context"
	"sync"

	"github.com/briancappello/starter/internal/domain"
)

var _ tokenLister = &tokenListerMock{}

type tokenListerMock struct {
	ListRecentFunc func(ctx context.Context, limit uint64) ([]*domain.AccessToken, error)

	calls struct {
		ListRecent []struct {
			Ctx   context.Context
			Limit uint64
		}
	}
	lockListRecent sync.RWMutex
}

func (mock *tokenListerMock) ListRecent(ctx context.Context, limit uint64) ([]*domain.AccessToken, error) {
	if mock.ListRecentFunc == nil {
		panic("tokenListerMock.ListRecentFunc: method is nil but tokenLister.ListRecent was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Limit uint64
	}{
		Ctx:   ctx,
		Limit: limit,
	}
	mock.lockListRecent.Lock()
	mock.calls.ListRecent = append(mock.calls.ListRecent, callInfo)
	mock.lockListRecent.Unlock()
	return mock.ListRecentFunc(ctx, limit)
}

func (mock *tokenListerMock) ListRecentCalls() []struct {
	Ctx   context.Context
	Limit uint64
} {
	mock.lockListRecent.RLock()
	calls := mock.calls.ListRecent
	mock.lockListRecent.RUnlock()
	return calls
}
