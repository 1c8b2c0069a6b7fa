package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/DanielPopoola/skybook-gateway/internal/application"
	"github.com/DanielPopoola/skybook-gateway/internal/config"
)

const (
	tokenPath = "/v1/security/oauth2/token"

	// DefaultTokenLifetime applies when the grant response carries no expires_in.
	DefaultTokenLifetime = 1800 * time.Second

	defaultGrantTimeout = 20 * time.Second
)

// Credential is a bearer token and the instant it stops being usable.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// TokenProvider caches one credential for the inventory API and refreshes it
// through a client-credentials grant once it expires. Concurrent refreshes
// collapse into a single grant request.
type TokenProvider struct {
	grant        clientcredentials.Config
	httpClient   *http.Client
	logger       *slog.Logger
	now          func() time.Time
	grantTimeout time.Duration

	mu    sync.RWMutex
	cred  Credential
	group singleflight.Group
}

type TokenOption func(*TokenProvider)

// WithClock replaces time.Now, used to compute and check expiry.
func WithClock(now func() time.Time) TokenOption {
	return func(p *TokenProvider) {
		p.now = now
	}
}

func NewTokenProvider(cfg config.AmadeusConfig, httpClient *http.Client, logger *slog.Logger, opts ...TokenOption) *TokenProvider {
	p := &TokenProvider{
		grant: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     strings.TrimRight(cfg.BaseURL, "/") + tokenPath,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient:   httpClient,
		logger:       logger,
		now:          time.Now,
		grantTimeout: cfg.RequestTimeout,
	}
	if p.grantTimeout <= 0 {
		p.grantTimeout = defaultGrantTimeout
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Token returns the cached token while it is still valid, refreshing it otherwise.
// A caller that gives up only abandons its own wait; the shared grant keeps
// running for everyone else joined to it.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	if cred, ok := p.cached(); ok {
		return cred.Token, nil
	}

	ch := p.group.DoChan("token", func() (any, error) {
		// Another caller may have refreshed while we waited.
		if cred, ok := p.cached(); ok {
			return cred, nil
		}
		grantCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.grantTimeout)
		defer cancel()
		return p.refresh(grantCtx)
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", application.ErrTokenUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			p.logger.Debug("joined in-flight token refresh")
		}
		return res.Val.(Credential).Token, nil
	}
}

// Invalidate drops the cached credential so the next call refreshes it.
func (p *TokenProvider) Invalidate() {
	p.mu.Lock()
	p.cred = Credential{}
	p.mu.Unlock()
}

func (p *TokenProvider) cached() (Credential, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.cred.Token == "" || !p.now().Before(p.cred.ExpiresAt) {
		return Credential{}, false
	}
	return p.cred, true
}

func (p *TokenProvider) refresh(ctx context.Context) (Credential, error) {
	issuedAt := p.now()

	tok, err := p.grant.Token(context.WithValue(ctx, oauth2.HTTPClient, p.httpClient))
	if err != nil {
		p.logger.Error("inventory token grant failed", "error", err)
		return Credential{}, fmt.Errorf("%w: %w", application.ErrTokenUnavailable, err)
	}
	if tok.AccessToken == "" {
		return Credential{}, fmt.Errorf("%w: empty access token", application.ErrTokenUnavailable)
	}

	cred := Credential{
		Token:     tok.AccessToken,
		ExpiresAt: issuedAt.Add(tokenLifetime(tok)),
	}

	p.mu.Lock()
	p.cred = cred
	p.mu.Unlock()

	p.logger.Info("inventory token refreshed", "expires_at", cred.ExpiresAt)
	return cred, nil
}

func tokenLifetime(tok *oauth2.Token) time.Duration {
	var seconds int64
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		seconds = int64(v)
	case int64:
		seconds = v
	case json.Number:
		seconds, _ = v.Int64()
	case string:
		seconds, _ = strconv.ParseInt(v, 10, 64)
	}
	if seconds <= 0 {
		return DefaultTokenLifetime
	}
	return time.Duration(seconds) * time.Second
}
