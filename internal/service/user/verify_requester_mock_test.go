package user

import (
	"context"
	"sync"
)

var _ verifyRequester = &verifyRequesterMock{}

type verifyRequesterMock struct {
	RequestVerifyFunc func(ctx context.Context, email string) error

	calls struct {
		RequestVerify []struct {
			Ctx   context.Context
			Email string
		}
	}
	lockRequestVerify sync.RWMutex
}

func (mock *verifyRequesterMock) RequestVerify(ctx context.Context, email string) error {
	if mock.RequestVerifyFunc == nil {
		panic("verifyRequesterMock.RequestVerifyFunc: method is nil but verifyRequester.RequestVerify was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Email string
	}{
		Ctx:   ctx,
		Email: email,
	}
	mock.lockRequestVerify.Lock()
	mock.calls.RequestVerify = append(mock.calls.RequestVerify, callInfo)
	mock.lockRequestVerify.Unlock()
	return mock.RequestVerifyFunc(ctx, email)
}

func (mock *verifyRequesterMock) RequestVerifyCalls() []struct {
	Ctx   context.Context
	Email string
} {
	mock.lockRequestVerify.RLock()
	calls := mock.calls.RequestVerify
	mock.lockRequestVerify.RUnlock()
	return calls
}
