package auth

import (
	"context"
	"sync"

	"github.com/briancappello/starter/internal/domain"
)

var _ tokenRepo = &tokenRepoMock{}

type tokenRepoMock struct {
	CreateFunc     func(ctx context.Context, token string, userID int64) (*domain.AccessToken, error)
	DeleteFunc     func(ctx context.Context, token string) error
	GetByTokenFunc func(ctx context.Context, token string) (*domain.AccessToken, error)

	calls struct {
		Create []struct {
			Ctx    context.Context
			Token  string
			UserID int64
		}
		Delete []struct {
			Ctx   context.Context
			Token string
		}
		GetByToken []struct {
			Ctx   context.Context
			Token string
		}
	}
	lockCreate     sync.RWMutex
	lockDelete     sync.RWMutex
	lockGetByToken sync.RWMutex
}

func (mock *tokenRepoMock) Create(ctx context.Context, token string, userID int64) (*domain.AccessToken, error) {
	if mock.CreateFunc == nil {
		panic("tokenRepoMock.CreateFunc: method is nil but tokenRepo.Create was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Token  string
		UserID int64
	}{
		Ctx:    ctx,
		Token:  token,
		UserID: userID,
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, token, userID)
}

func (mock *tokenRepoMock) CreateCalls() []struct {
	Ctx    context.Context
	Token  string
	UserID int64
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *tokenRepoMock) Delete(ctx context.Context, token string) error {
	if mock.DeleteFunc == nil {
		panic("tokenRepoMock.DeleteFunc: method is nil but tokenRepo.Delete was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Token string
	}{
		Ctx:   ctx,
		Token: token,
	}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, token)
}

func (mock *tokenRepoMock) DeleteCalls() []struct {
	Ctx   context.Context
	Token string
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *tokenRepoMock) GetByToken(ctx context.Context, token string) (*domain.AccessToken, error) {
	if mock.GetByTokenFunc == nil {
		panic("tokenRepoMock.GetByTokenFunc: method is nil but tokenRepo.GetByToken was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Token string
	}{
		Ctx:   ctx,
		Token: token,
	}
	mock.lockGetByToken.Lock()
	mock.calls.GetByToken = append(mock.calls.GetByToken, callInfo)
	mock.lockGetByToken.Unlock()
	return mock.GetByTokenFunc(ctx, token)
}

func (mock *tokenRepoMock) GetByTokenCalls() []struct {
	Ctx   context.Context
	Token string
} {
	mock.lockGetByToken.RLock()
	calls := mock.calls.GetByToken
	mock.lockGetByToken.RUnlock()
	return calls
}
