package cli

import (
	"context"
	"sync"

	"github.com/briancappello/starter/internal/domain"
	usersvc "github.com/briancappello/starter/internal/service/user"
)

var _ userAdmin = &userAdminMock{}

type userAdminMock struct {
	CreateFunc      func(ctx context.Context, input usersvc.CreateInput, sendEmail bool) (*domain.User, error)
	ActivateFunc    func(ctx context.Context, email string) (*domain.User, error)
	DeactivateFunc  func(ctx context.Context, email string) (*domain.User, error)
	PromoteFunc     func(ctx context.Context, email string) (*domain.User, error)
	VerifyFunc      func(ctx context.Context, email string, sendEmail bool) (*domain.User, error)
	SetPasswordFunc func(ctx context.Context, email string, password string, sendEmail bool) (*domain.User, error)
	DeleteFunc      func(ctx context.Context, email string, sendEmail bool) error
	ListFunc        func(ctx context.Context, limit uint64, offset uint64) ([]*domain.User, int64, error)

	calls struct {
		Create []struct {
			Ctx       context.Context
			Input     usersvc.CreateInput
			SendEmail bool
		}
		Activate []struct {
			Ctx   context.Context
			Email string
		}
		Deactivate []struct {
			Ctx   context.Context
			Email string
		}
		Promote []struct {
			Ctx   context.Context
			Email string
		}
		Verify []struct {
			Ctx       context.Context
			Email     string
			SendEmail bool
		}
		SetPassword []struct {
			Ctx       context.Context
			Email     string
			Password  string
			SendEmail bool
		}
		Delete []struct {
			Ctx       context.Context
			Email     string
			SendEmail bool
		}
		List []struct {
			Ctx    context.Context
			Limit  uint64
			Offset uint64
		}
	}
	lockCreate      sync.RWMutex
	lockActivate    sync.RWMutex
	lockDeactivate  sync.RWMutex
	lockPromote     sync.RWMutex
	lockVerify      sync.RWMutex
	lockSetPassword sync.RWMutex
	lockDelete      sync.RWMutex
	lockList        sync.RWMutex
}

func (mock *userAdminMock) Create(ctx context.Context, input usersvc.CreateInput, sendEmail bool) (*domain.User, error) {
	if mock.CreateFunc == nil {
		panic("userAdminMock.CreateFunc: method is nil but userAdmin.Create was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		Input     usersvc.CreateInput
		SendEmail bool
	}{
		Ctx:       ctx,
		Input:     input,
		SendEmail: sendEmail,
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, input, sendEmail)
}

func (mock *userAdminMock) CreateCalls() []struct {
	Ctx       context.Context
	Input     usersvc.CreateInput
	SendEmail bool
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *userAdminMock) Activate(ctx context.Context, email string) (*domain.User, error) {
	if mock.ActivateFunc == nil {
		panic("userAdminMock.ActivateFunc: method is nil but userAdmin.Activate was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Email string
	}{
		Ctx:   ctx,
		Email: email,
	}
	mock.lockActivate.Lock()
	mock.calls.Activate = append(mock.calls.Activate, callInfo)
	mock.lockActivate.Unlock()
	return mock.ActivateFunc(ctx, email)
}

func (mock *userAdminMock) ActivateCalls() []struct {
	Ctx   context.Context
	Email string
} {
	mock.lockActivate.RLock()
	calls := mock.calls.Activate
	mock.lockActivate.RUnlock()
	return calls
}

func (mock *userAdminMock) Deactivate(ctx context.Context, email string) (*domain.User, error) {
	if mock.DeactivateFunc == nil {
		panic("userAdminMock.DeactivateFunc: method is nil but userAdmin.Deactivate was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Email string
	}{
		Ctx:   ctx,
		Email: email,
	}
	mock.lockDeactivate.Lock()
	mock.calls.Deactivate = append(mock.calls.Deactivate, callInfo)
	mock.lockDeactivate.Unlock()
	return mock.DeactivateFunc(ctx, email)
}

func (mock *userAdminMock) DeactivateCalls() []struct {
	Ctx   context.Context
	Email string
} {
	mock.lockDeactivate.RLock()
	calls := mock.calls.Deactivate
	mock.lockDeactivate.RUnlock()
	return calls
}

func (mock *userAdminMock) Promote(ctx context.Context, email string) (*domain.User, error) {
	if mock.PromoteFunc == nil {
		panic("userAdminMock.PromoteFunc: method is nil but userAdmin.Promote was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Email string
	}{
		Ctx:   ctx,
		Email: email,
	}
	mock.lockPromote.Lock()
	mock.calls.Promote = append(mock.calls.Promote, callInfo)
	mock.lockPromote.Unlock()
	return mock.PromoteFunc(ctx, email)
}

func (mock *userAdminMock) PromoteCalls() []struct {
	Ctx   context.Context
	Email string
} {
	mock.lockPromote.RLock()
	calls := mock.calls.Promote
	mock.lockPromote.RUnlock()
	return calls
}

func (mock *userAdminMock) Verify(ctx context.Context, email string, sendEmail bool) (*domain.User, error) {
	if mock.VerifyFunc == nil {
		panic("userAdminMock.VerifyFunc: method is nil but userAdmin.Verify was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		Email     string
		SendEmail bool
	}{
		Ctx:       ctx,
		Email:     email,
		SendEmail: sendEmail,
	}
	mock.lockVerify.Lock()
	mock.calls.Verify = append(mock.calls.Verify, callInfo)
	mock.lockVerify.Unlock()
	return mock.VerifyFunc(ctx, email, sendEmail)
}

func (mock *userAdminMock) VerifyCalls() []struct {
	Ctx       context.Context
	Email     string
	SendEmail bool
} {
	mock.lockVerify.RLock()
	calls := mock.calls.Verify
	mock.lockVerify.RUnlock()
	return calls
}

func (mock *userAdminMock) SetPassword(ctx context.Context, email string, password string, sendEmail bool) (*domain.User, error) {
	if mock.SetPasswordFunc == nil {
		panic("userAdminMock.SetPasswordFunc: method is nil but userAdmin.SetPassword was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		Email     string
		Password  string
		SendEmail bool
	}{
		Ctx:       ctx,
		Email:     email,
		Password:  password,
		SendEmail: sendEmail,
	}
	mock.lockSetPassword.Lock()
	mock.calls.SetPassword = append(mock.calls.SetPassword, callInfo)
	mock.lockSetPassword.Unlock()
	return mock.SetPasswordFunc(ctx, email, password, sendEmail)
}

func (mock *userAdminMock) SetPasswordCalls() []struct {
	Ctx       context.Context
	Email     string
	Password  string
	SendEmail bool
} {
	mock.lockSetPassword.RLock()
	calls := mock.calls.SetPassword
	mock.lockSetPassword.RUnlock()
	return calls
}

func (mock *userAdminMock) Delete(ctx context.Context, email string, sendEmail bool) error {
	if mock.DeleteFunc == nil {
		panic("userAdminMock.DeleteFunc: method is nil but userAdmin.Delete was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		Email     string
		SendEmail bool
	}{
		Ctx:       ctx,
		Email:     email,
		SendEmail: sendEmail,
	}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, email, sendEmail)
}

func (mock *userAdminMock) DeleteCalls() []struct {
	Ctx       context.Context
	Email     string
	SendEmail bool
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *userAdminMock) List(ctx context.Context, limit uint64, offset uint64) ([]*domain.User, int64, error) {
	if mock.ListFunc == nil {
		panic("userAdminMock.ListFunc: method is nil but userAdmin.List was just called")
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

func (mock *userAdminMock) ListCalls() []struct {
	Ctx    context.Context
	Limit  uint64
	Offset uint64
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}
