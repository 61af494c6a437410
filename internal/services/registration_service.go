package services

import (
	"context"
	"strings"

	"jobportal_web/internal/apiclient"
	"jobportal_web/internal/session"
	"jobportal_web/internal/validator"
	"jobportal_web/pkg/apperrors"
)

type RegistrationStep int

const (
	StepDetails RegistrationStep = iota
	StepAwaitingCode
	StepAuthenticated
)

func (s RegistrationStep) String() string {
	switch s {
	case StepAwaitingCode:
		return "awaiting_code"
	case StepAuthenticated:
		return "authenticated"
	default:
		return "details"
	}
}

// Registration - состояние двухшагового мастера. Между запросами оно живёт
// в клиентском хранилище (email и имя, но не пароль).
type Registration struct {
	Step  RegistrationStep
	Name  string
	Email string
}

type RegistrationDetails struct {
	Name     string `form:"name" validate:"required,max=100"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type RegistrationService interface {
	Current(store *session.Store) Registration
	SendCode(ctx context.Context, store *session.Store, details RegistrationDetails) (Registration, error)
	VerifyCode(ctx context.Context, store *session.Store, code string) (Registration, error)
	StartOver(store *session.Store)
}

type registrationService struct {
	validator *validator.Validator
}

func NewRegistrationService(v *validator.Validator) RegistrationService {
	return &registrationService{validator: v}
}

func (s *registrationService) Current(store *session.Store) Registration {
	if store.IsAuthenticated() {
		return Registration{Step: StepAuthenticated}
	}
	storage := store.Storage()
	email := storage.Get(session.KeyRegisterEmail)
	if email == "" {
		return Registration{Step: StepDetails}
	}
	return Registration{
		Step:  StepAwaitingCode,
		Email: email,
		Name:  storage.Get(session.KeyRegisterName),
	}
}

// SendCode - шаг 1. При ошибке остаёмся на шаге 1 со всеми введёнными полями.
func (s *registrationService) SendCode(ctx context.Context, store *session.Store, d RegistrationDetails) (Registration, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	current := Registration{Step: StepDetails, Name: d.Name, Email: d.Email}

	if err := s.validator.Validate(d); err != nil {
		return current, validationFailure(err)
	}

	err := store.SendOTP(ctx, apiclient.RegistrationFields{
		Name:     d.Name,
		Email:    d.Email,
		Password: d.Password,
	})
	if err != nil {
		return current, err
	}

	storage := store.Storage()
	if err := storage.Set(session.KeyRegisterEmail, d.Email); err != nil {
		return current, apperrors.InternalError(err)
	}
	_ = storage.Set(session.KeyRegisterName, d.Name)
	return Registration{Step: StepAwaitingCode, Name: d.Name, Email: d.Email}, nil
}

// VerifyCode - шаг 2. Неверный код оставляет мастер на шаге 2, email сохраняется.
func (s *registrationService) VerifyCode(ctx context.Context, store *session.Store, code string) (Registration, error) {
	current := s.Current(store)
	if current.Step != StepAwaitingCode {
		return current, apperrors.ErrNoPendingRegistration
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return current, apperrors.NewBadRequestError("Enter the code we sent to your email")
	}

	if err := store.VerifyOTP(ctx, current.Email, code); err != nil {
		return current, err
	}

	s.StartOver(store)
	return Registration{Step: StepAuthenticated, Name: current.Name, Email: current.Email}, nil
}

func (s *registrationService) StartOver(store *session.Store) {
	storage := store.Storage()
	_ = storage.Remove(session.KeyRegisterEmail)
	_ = storage.Remove(session.KeyRegisterName)
}

// validationFailure - первое сообщение валидатора в баннер
func validationFailure(err error) error {
	verr, ok := err.(*validator.ValidationError)
	if !ok {
		return apperrors.InternalError(err)
	}
	for _, field := range []string{"name", "email", "password"} {
		if msg, ok := verr.Errors[field]; ok {
			e := apperrors.ValidationError(verr.Errors)
			e.Message = strings.ToUpper(field[:1]) + field[1:] + ": " + msg
			return e
		}
	}
	return apperrors.ValidationError(verr.Errors)
}
