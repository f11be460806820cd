package rest

import (
	"context"
	"sync"

	"github.com/briancappello/starter/internal/domain"
	"github.com/briancappello/starter/internal/service/auth"
)

var _ authService = &authServiceMock{}

type authServiceMock struct {
	RegisterFunc       func(ctx context.Context, input auth.RegisterInput) (*domain.User, error)
	LoginFunc          func(ctx context.Context, input auth.LoginInput) (*auth.LoginResult, error)
	LogoutFunc         func(ctx context.Context, token string) error
	ForgotPasswordFunc func(ctx context.Context, email string) error
	ResetPasswordFunc  func(ctx context.Context, token string, password string) (*domain.User, error)
	RequestVerifyFunc  func(ctx context.Context, email string) error
	VerifyFunc         func(ctx context.Context, token string) (*domain.User, error)
	UpdateMeFunc       func(ctx context.Context, user *domain.User, input auth.UpdateMeInput) (*domain.User, error)

	calls struct {
		Register []struct {
			Ctx   context.Context
			Input auth.RegisterInput
		}
		Login []struct {
			Ctx   context.Context
			Input auth.LoginInput
		}
		Logout []struct {
			Ctx   context.Context
			Token string
		}
		ForgotPassword []struct {
			Ctx   context.Context
			Email string
		}
		ResetPassword []struct {
			Ctx      context.Context
			Token    string
			Password string
		}
		RequestVerify []struct {
			Ctx   context.Context
			Email string
		}
		Verify []struct {
			Ctx   context.Context
			Token string
		}
		UpdateMe []struct {
			Ctx   context.Context
			User  *domain.User
			Input auth.UpdateMeInput
		}
	}
	lockRegister       sync.RWMutex
	lockLogin          sync.RWMutex
	lockLogout         sync.RWMutex
	lockForgotPassword sync.RWMutex
	lockResetPassword  sync.RWMutex
	lockRequestVerify  sync.RWMutex
	lockVerify         sync.RWMutex
	lockUpdateMe       sync.RWMutex
}

func (mock *authServiceMock) Register(ctx context.Context, input auth.RegisterInput) (*domain.User, error) {
	if mock.RegisterFunc == nil {
		panic("authServiceMock.RegisterFunc: method is nil but authService.Register was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input auth.RegisterInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockRegister.Lock()
	mock.calls.Register = append(mock.calls.Register, callInfo)
	mock.lockRegister.Unlock()
	return mock.RegisterFunc(ctx, input)
}

func (mock *authServiceMock) RegisterCalls() []struct {
	Ctx   context.Context
	Input auth.RegisterInput
} {
	mock.lockRegister.RLock()
	calls := mock.calls.Register
	mock.lockRegister.RUnlock()
	return calls
}

func (mock *authServiceMock) Login(ctx context.Context, input auth.LoginInput) (*auth.LoginResult, error) {
	if mock.LoginFunc == nil {
		panic("authServiceMock.LoginFunc: method is nil but authService.Login was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input auth.LoginInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockLogin.Lock()
	mock.calls.Login = append(mock.calls.Login, callInfo)
	mock.lockLogin.Unlock()
	return mock.LoginFunc(ctx, input)
}

func (mock *authServiceMock) LoginCalls() []struct {
	Ctx   context.Context
	Input auth.LoginInput
} {
	mock.lockLogin.RLock()
	calls := mock.calls.Login
	mock.lockLogin.RUnlock()
	return calls
}

func (mock *authServiceMock) Logout(ctx context.Context, token string) error {
	if mock.LogoutFunc == nil {
		panic("authServiceMock.LogoutFunc: method is nil but authService.Logout was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Token string
	}{
		Ctx:   ctx,
		Token: token,
	}
	mock.lockLogout.Lock()
	mock.calls.Logout = append(mock.calls.Logout, callInfo)
	mock.lockLogout.Unlock()
	return mock.LogoutFunc(ctx, token)
}

func (mock *authServiceMock) LogoutCalls() []struct {
	Ctx   context.Context
	Token string
} {
	mock.lockLogout.RLock()
	calls := mock.calls.Logout
	mock.lockLogout.RUnlock()
	return calls
}

func (mock *authServiceMock) ForgotPassword(ctx context.Context, email string) error {
	if mock.ForgotPasswordFunc == nil {
		panic("authServiceMock.ForgotPasswordFunc: method is nil but authService.ForgotPassword was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Email string
	}{
		Ctx:   ctx,
		Email: email,
	}
	mock.lockForgotPassword.Lock()
	mock.calls.ForgotPassword = append(mock.calls.ForgotPassword, callInfo)
	mock.lockForgotPassword.Unlock()
	return mock.ForgotPasswordFunc(ctx, email)
}

func (mock *authServiceMock) ForgotPasswordCalls() []struct {
	Ctx   context.Context
	Email string
} {
	mock.lockForgotPassword.RLock()
	calls := mock.calls.ForgotPassword
	mock.lockForgotPassword.RUnlock()
	return calls
}

func (mock *authServiceMock) ResetPassword(ctx context.Context, token string, password string) (*domain.User, error) {
	if mock.ResetPasswordFunc == nil {
		panic("authServiceMock.ResetPasswordFunc: method is nil but authService.ResetPassword was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Token    string
		Password string
	}{
		Ctx:      ctx,
		Token:    token,
		Password: password,
	}
	mock.lockResetPassword.Lock()
	mock.calls.ResetPassword = append(mock.calls.ResetPassword, callInfo)
	mock.lockResetPassword.Unlock()
	return mock.ResetPasswordFunc(ctx, token, password)
}

func (mock *authServiceMock) ResetPasswordCalls() []struct {
	Ctx      context.Context
	Token    string
	Password string
} {
	mock.lockResetPassword.RLock()
	calls := mock.calls.ResetPassword
	mock.lockResetPassword.RUnlock()
	return calls
}

func (mock *authServiceMock) RequestVerify(ctx context.Context, email string) error {
	if mock.RequestVerifyFunc == nil {
		panic("authServiceMock.RequestVerifyFunc: method is nil but authService.RequestVerify was just called")
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

func (mock *authServiceMock) RequestVerifyCalls() []struct {
	Ctx   context.Context
	Email string
} {
	mock.lockRequestVerify.RLock()
	calls := mock.calls.RequestVerify
	mock.lockRequestVerify.RUnlock()
	return calls
}

func (mock *authServiceMock) Verify(ctx context.Context, token string) (*domain.User, error) {
	if mock.VerifyFunc == nil {
		panic("authServiceMock.VerifyFunc: method is nil but authService.Verify was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Token string
	}{
		Ctx:   ctx,
		Token: token,
	}
	mock.lockVerify.Lock()
	mock.calls.Verify = append(mock.calls.Verify, callInfo)
	mock.lockVerify.Unlock()
	return mock.VerifyFunc(ctx, token)
}

func (mock *authServiceMock) VerifyCalls() []struct {
	Ctx   context.Context
	Token string
} {
	mock.lockVerify.RLock()
	calls := mock.calls.Verify
	mock.lockVerify.RUnlock()
	return calls
}

func (mock *authServiceMock) UpdateMe(ctx context.Context, user *domain.User, input auth.UpdateMeInput) (*domain.User, error) {
	if mock.UpdateMeFunc == nil {
		panic("authServiceMock.UpdateMeFunc: method is nil but authService.UpdateMe was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		User  *domain.User
		Input auth.UpdateMeInput
	}{
		Ctx:   ctx,
		User:  user,
		Input: input,
	}
	mock.lockUpdateMe.Lock()
	mock.calls.UpdateMe = append(mock.calls.UpdateMe, callInfo)
	mock.lockUpdateMe.Unlock()
	return mock.UpdateMeFunc(ctx, user, input)
}

func (mock *authServiceMock) UpdateMeCalls() []struct {
	Ctx   context.Context
	User  *domain.User
	Input auth.UpdateMeInput
} {
	mock.lockUpdateMe.RLock()
	calls := mock.calls.UpdateMe
	mock.lockUpdateMe.RUnlock()
	return calls
}
