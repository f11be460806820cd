package rest

import (
	"context"
	"sync"

	"github.com/briancappello/starter/internal/domain"
)

var _ userAdminService = &userAdminServiceMock{}

type userAdminServiceMock struct {
	GetFunc  func(ctx context.Context, id int64) (*domain.User, error)
	ListFunc func(ctx context.Context, limit uint64, offset uint64) ([]*domain.User, int64, error)

	calls struct {
		Get []struct {
			Ctx context.Context
			ID  int64
		}
		List []struct {
			Ctx    context.Context
			Limit  uint64
			Offset uint64
		}
	}
	lockGet  sync.RWMutex
	lockList sync.RWMutex
}

func (mock *userAdminServiceMock) Get(ctx context.Context, id int64) (*domain.User, error) {
	if mock.GetFunc == nil {
		panic("userAdminServiceMock.GetFunc: method is nil but userAdminService.Get was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  int64
	}{
		Ctx: ctx,
		ID:  id,
	}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, id)
}

func (mock *userAdminServiceMock) GetCalls() []struct {
	Ctx context.Context
	ID  int64
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *userAdminServiceMock) List(ctx context.Context, limit uint64, offset uint64) ([]*domain.User, int64, error) {
	if mock.ListFunc == nil {
		panic("userAdminServiceMock.ListFunc: method is nil but userAdminService.List was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Limit  uint64
		Offset uint64
	}{
		Ctx:    ctx,
		Limit:  limit,
		Offset: offset,
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, limit, offset)
}

func (mock *userAdminServiceMock) ListCalls() []struct {
	Ctx    context.Context
	Limit  uint64
	Offset uint64
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}
