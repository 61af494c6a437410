package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"jobportal_web/internal/models"
	"jobportal_web/pkg/apperrors"
)

// AuthResult - ответ всех auth-эндпоинтов: токен + пользователь
type AuthResult struct {
	Token string
	User  *models.User
}

type RegistrationFields struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "Login failed")
}

func (c *Client) GoogleLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/google", map[string]string{
		"idToken": idToken,
	}, "Google authentication failed")
}

// SendOTP - шаг 1 регистрации; сессию не трогает
func (c *Client) SendOTP(ctx context.Context, fields RegistrationFields) error {
	_, err := c.do(ctx, request{
		method:         http.MethodPost,
		path:           "/auth/send-otp",
		body:           fields,
		defaultMessage: "Failed to send OTP",
	})
	return err
}

// VerifyOTP - шаг 2 регистрации, отвечает как login
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/verify-otp", map[string]string{
		"email": email,
		"otp":   otp,
	}, "OTP verification failed")
}

func (c *Client) authenticate(ctx context.Context, path string, body any, defaultMessage string) (*AuthResult, error) {
	data, err := c.do(ctx, request{
		method:         http.MethodPost,
		path:           path,
		body:           body,
		defaultMessage: defaultMessage,
	})
	if err != nil {
		return nil, err
	}
	return decodeAuth(data, defaultMessage)
}

// decodeAuth принимает плоский ответ {token, _id, name, ...} и вложенный {token, user: {...}}
func decodeAuth(data []byte, defaultMessage string) (*AuthResult, error) {
	var envelope struct {
		Token string          `json:"token"`
		User  json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, apperrors.ErrTransport(err, defaultMessage)
	}
	if envelope.Token == "" {
		return nil, apperrors.ErrBackend(http.StatusBadGateway, defaultMessage)
	}

	user, err := decodeUser(data, envelope.User)
	if err != nil {
		return nil, apperrors.ErrTransport(err, defaultMessage)
	}
	return &AuthResult{Token: envelope.Token, User: user}, nil
}

func decodeUser(flat []byte, nested json.RawMessage) (*models.User, error) {
	src := flat
	if len(nested) > 0 && !bytes.Equal(bytes.TrimSpace(nested), []byte("null")) {
		src = nested
	}
	var user models.User
	if err := json.Unmarshal(src, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
