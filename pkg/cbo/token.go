package cbo

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/cbo-qa/cbo-smoke/internal/config"
	srvErrors "github.com/cbo-qa/cbo-smoke/pkg/errors"
)

const bearer = "Bearer"

// Token is a validated access token for the CBO web API.
type Token struct {
	AccessToken string
	TokenType   string
	Expiry      time.Time
	Scope       string
}

// TokenSource exchanges client credentials for access tokens.
type TokenSource struct {
	auth       config.Auth
	cfg        clientcredentials.Config
	httpClient *http.Client
	maxElapsed time.Duration
}

type TokenOption func(*TokenSource)

func WithHTTPClient(c *http.Client) TokenOption {
	return func(t *TokenSource) { t.httpClient = c }
}

func WithMaxElapsed(d time.Duration) TokenOption {
	return func(t *TokenSource) { t.maxElapsed = d }
}

func NewTokenSource(auth config.Auth, opts ...TokenOption) *TokenSource {
	t := &TokenSource{
		auth: auth,
		cfg: clientcredentials.Config{
			ClientID:     auth.ClientID,
			ClientSecret: auth.ClientSecret,
			TokenURL:     auth.TokenURL,
			Scopes:       []string{auth.Scope},
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: http.DefaultClient,
		maxElapsed: auth.MaxElapsed,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fetch requests a new token. Network errors and 5xx responses are retried
// with exponential backoff; any other failure is returned at once.
func (t *TokenSource) Fetch(ctx context.Context) (*Token, error) {
	if err := t.auth.Validate(); err != nil {
		return nil, err
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, t.httpClient)
	log := zap.S().Named("token")

	op := func() (*oauth2.Token, error) {
		tok, err := t.cfg.Token(ctx)
		if err == nil {
			return tok, nil
		}
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil && re.Response.StatusCode < http.StatusInternalServerError {
			return nil, backoff.Permanent(srvErrors.NewTokenError("token request rejected with status %d: %s", re.Response.StatusCode, string(re.Body)))
		}
		log.Debugw("token request failed, retrying", "error", err)
		return nil, err
	}

	tok, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(t.maxElapsed),
	)
	if err != nil {
		if srvErrors.IsTokenError(err) {
			return nil, err
		}
		return nil, srvErrors.NewTokenError("token request failed: %v", err)
	}

	if tok.AccessToken == "" {
		return nil, srvErrors.NewTokenError("token response has no access_token")
	}
	if tok.TokenType != bearer {
		return nil, srvErrors.NewTokenError("unexpected token type %q", tok.TokenType)
	}
	if tok.Expiry.IsZero() || !tok.Expiry.After(time.Now()) {
		return nil, srvErrors.NewTokenError("token response has no positive expires_in")
	}

	token := &Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		Expiry:      tok.Expiry,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		token.Scope = scope
	}

	log.Infow("access token acquired", "expiry", token.Expiry, "scope", token.Scope)
	logClaims(token.AccessToken)

	return token, nil
}

// logClaims prints the claims of a JWT access token without verifying it.
// Opaque tokens are ignored.
func logClaims(raw string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return
	}
	zap.S().Named("token").Debugw("access token claims", "claims", map[string]any(claims))
}
