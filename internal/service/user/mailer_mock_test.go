package user

import (
	"context"
	"sync"

	"github.com/briancappello/starter/internal/mail"
)

var _ mailer = &mailerMock{}

type mailerMock struct {
	SendFunc func(ctx context.Context, msg mail.Message) error

	calls struct {
		Send []struct {
			Ctx context.Context
			Msg mail.Message
		}
	}
	lockSend sync.RWMutex
}

func (mock *mailerMock) Send(ctx context.Context, msg mail.Message) error {
	if mock.SendFunc == nil {
		panic("mailerMock.SendFunc: method is nil but mailer.Send was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Msg mail.Message
	}{
		Ctx: ctx,
		Msg: msg,
	}
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, callInfo)
	mock.lockSend.Unlock()
	return mock.SendFunc(ctx, msg)
}

func (mock *mailerMock) SendCalls() []struct {
	Ctx context.Context
	Msg mail.Message
} {
	mock.lockSend.RLock()
	calls := mock.calls.Send
	mock.lockSend.RUnlock()
	return calls
}
