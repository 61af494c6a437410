package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var ErrNoIDToken = errors.New("google response has no id_token")

// GoogleOAuth - redirect-вариант входа через Google: код авторизации
// обменивается на ID token, который затем уходит в POST /auth/google backend
type GoogleOAuth struct {
	config *oauth2.Config
}

func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	return NewGoogleOAuthWithEndpoint(clientID, clientSecret, redirectURL, google.Endpoint)
}

// NewGoogleOAuthWithEndpoint - для тестов с поддельным сервером авторизации
func NewGoogleOAuthWithEndpoint(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint) *GoogleOAuth {
	return &GoogleOAuth{config: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}}
}

func (g *GoogleOAuth) ClientID() string {
	return g.config.ClientID
}

// NewState - одноразовое значение параметра state
func NewState() string {
	return uuid.NewString()
}

func (g *GoogleOAuth) AuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (g *GoogleOAuth) ExchangeIDToken(ctx context.Context, code string) (string, error) {
	tok, err := g.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange google code: %w", err)
	}
	idToken, ok := tok.Extra("id_token").(string)
	if !ok || idToken == "" {
		return "", ErrNoIDToken
	}
	return idToken, nil
}
