package middleware

import (
	"github.com/heartmarshall/swapmatch-backend/internal/auth"
	"sync"
)

var _ identityValidator = &identityValidatorMock{}

type identityValidatorMock struct {
	ValidateFunc func(token string) (auth.Identity, error)

	calls struct {
		Validate []struct {
			Token string
		}
	}
	lockValidate sync.RWMutex
}

func (mock *identityValidatorMock) Validate(token string) (auth.Identity, error) {
	if mock.ValidateFunc == nil {
		panic("identityValidatorMock.ValidateFunc: method is nil but identityValidator.Validate was just called")
	}
	callInfo := struct {
		Token string
	}{Token: token}
	mock.lockValidate.Lock()
	mock.calls.Validate = append(mock.calls.Validate, callInfo)
	mock.lockValidate.Unlock()
	return mock.ValidateFunc(token)
}

func (mock *identityValidatorMock) ValidateCalls() []struct {
	Token string
} {
	mock.lockValidate.RLock()
	calls := mock.calls.Validate
	mock.lockValidate.RUnlock()
	return calls
}
