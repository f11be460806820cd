package middleware

import (
	"context"
	"sync"

	"github.com/briancappello/starter/internal/domain"
)

var _ authenticator = &authenticatorMock{}

type authenticatorMock struct {
	AuthenticateFunc func(ctx context.Context, token string) (*domain.User, error)

	calls struct {
		Authenticate []struct {
			Ctx   context.Context
			Token string
		}
	}
	lockAuthenticate sync.RWMutex
}

func (mock *authenticatorMock) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if mock.AuthenticateFunc == nil {
		panic("authenticatorMock.AuthenticateFunc: method is nil but authenticator.Authenticate was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Token string
	}{
		Ctx:   ctx,
		Token: token,
	}
	mock.lockAuthenticate.Lock()
	mock.calls.Authenticate = append(mock.calls.Authenticate, callInfo)
	mock.lockAuthenticate.Unlock()
	return mock.AuthenticateFunc(ctx, token)
}

func (mock *authenticatorMock) AuthenticateCalls() []struct {
	Ctx   context.Context
	Token string
} {
	mock.lockAuthenticate.RLock()
	calls := mock.calls.Authenticate
	mock.lockAuthenticate.RUnlock()
	return calls
}
