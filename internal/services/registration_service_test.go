package services_test

import (
	"context"
	"errors"
	"testing"

	"jobportal_web/internal/services"
	"jobportal_web/internal/session"
	"jobportal_web/internal/validator"
	"jobportal_web/pkg/apperrors"
	"jobportal_web/test/fakeapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistration(t *testing.T) (*fakeapi.FakeBackend, *session.Store, services.RegistrationService) {
	t.Helper()
	fb := fakeapi.NewFakeBackend(t)
	store := session.NewStore(context.Background(), newClient(fb), session.NewMemoryStorage(), session.NewUserCache(0))
	return fb, store, services.NewRegistrationService(validator.New())
}

func TestRegistration_TwoSteps(t *testing.T) {
	fb, store, svc := newRegistration(t)
	ctx := context.Background()
	assert.Equal(t, services.StepDetails, svc.Current(store).Step)

	reg, err := svc.SendCode(ctx, store, services.RegistrationDetails{
		Name: " Ana ", Email: "ana@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, services.StepAwaitingCode, reg.Step)
	assert.Equal(t, "Ana", reg.Name)
	assert.Equal(t, services.StepAwaitingCode, svc.Current(store).Step)
	assert.Empty(t, store.Storage().Get("password"))

	// неверный код: остаёмся на шаге 2 с тем же email
	reg, err = svc.VerifyCode(ctx, store, "000000")
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired OTP", apperrors.MessageOf(err, ""))
	assert.Equal(t, services.StepAwaitingCode, reg.Step)
	assert.Equal(t, "ana@example.com", reg.Email)
	assert.False(t, store.IsAuthenticated())

	reg, err = svc.VerifyCode(ctx, store, fakeapi.FakeOTP)
	require.NoError(t, err)
	assert.Equal(t, services.StepAuthenticated, reg.Step)
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "Ana", store.User().Name)
	assert.Empty(t, store.Storage().Get(session.KeyRegisterEmail))
	assert.NotNil(t, fb.User("ana@example.com"))
}

func TestRegistration_InvalidDetailsStayOnStepOne(t *testing.T) {
	fb, store, svc := newRegistration(t)

	reg, err := svc.SendCode(context.Background(), store, services.RegistrationDetails{
		Name: "Ana", Email: "not-an-email", Password: "x",
	})

	require.Error(t, err)
	assert.Equal(t, services.StepDetails, reg.Step)
	assert.Equal(t, "not-an-email", reg.Email)
	assert.Contains(t, apperrors.MessageOf(err, ""), "Email")
	assert.Empty(t, fb.CallsTo("POST", "/auth/send-otp"))
}

func TestRegistration_BackendRejectsExistingUser(t *testing.T) {
	fb, store, svc := newRegistration(t)
	fb.AddUser("Ana", "ana@example.com", fakeapi.FakePassword)

	reg, err := svc.SendCode(context.Background(), store, services.RegistrationDetails{
		Name: "Ana", Email: "ana@example.com", Password: "secret123",
	})

	require.Error(t, err)
	assert.Equal(t, "User already exists", apperrors.MessageOf(err, ""))
	assert.Equal(t, services.StepDetails, reg.Step)
}

func TestRegistration_VerifyWithoutPending(t *testing.T) {
	_, store, svc := newRegistration(t)

	_, err := svc.VerifyCode(context.Background(), store, fakeapi.FakeOTP)

	assert.True(t, errors.Is(err, apperrors.ErrNoPendingRegistration))
}

func TestRegistration_StartOver(t *testing.T) {
	_, store, svc := newRegistration(t)
	ctx := context.Background()
	_, err := svc.SendCode(ctx, store, services.RegistrationDetails{
		Name: "Ana", Email: "ana@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	svc.StartOver(store)

	assert.Equal(t, services.StepDetails, svc.Current(store).Step)
}
