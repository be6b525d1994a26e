package ipaustralia

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nameready/nameready/internal/domain"
	"github.com/nameready/nameready/internal/metrics"
)

// tokenExpiryBuffer is subtracted from the advertised lifetime at cache-write
// time so a token is never used right at its expiry edge.
const tokenExpiryBuffer = 60 * time.Second

// defaultExpiresIn is assumed when the token response omits expires_in.
const defaultExpiresIn = 3600

// TokenConfig holds the OAuth client-credentials settings for the registry.
type TokenConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// TokenSource produces bearer tokens for the registry, caching each token
// until shortly before it expires. It is the only process-wide mutable state
// in the service. Concurrent refreshes are collapsed into one network
// request; all waiters receive the freshly cached token.
type TokenSource struct {
	cfg    TokenConfig
	client *http.Client
	logger *slog.Logger

	group singleflight.Group

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenSource creates a token source sharing the checker's HTTP client.
func NewTokenSource(cfg TokenConfig, client *http.Client, logger *slog.Logger) *TokenSource {
	return &TokenSource{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// Token returns a valid bearer token, refreshing it if the cached one has
// expired. Configuration errors (ECONFIG) are distinct from registry
// failures (EUPSTREAM).
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	const op = "ipaustralia.token"

	if s.cfg.TokenURL == "" {
		return "", domain.ConfigError(op, "Missing IPAU_TOKEN_URL_TEST/PROD in environment")
	}
	if s.cfg.ClientID == "" {
		return "", domain.ConfigError(op, "Missing IPAU_CLIENT_ID in environment")
	}
	if s.cfg.ClientSecret == "" {
		return "", domain.ConfigError(op, "Missing IPAU_CLIENT_SECRET in environment")
	}

	if token, ok := s.cached(); ok {
		return token, nil
	}

	// Collapse concurrent refreshes into a single token request. Late
	// arrivers share the in-flight result instead of issuing their own.
	v, err, _ := s.group.Do("token", func() (interface{}, error) {
		if token, ok := s.cached(); ok {
			return token, nil
		}
		return s.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// cached returns the stored token when its (already buffered) expiry has not
// passed.
func (s *TokenSource) cached() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" && time.Now().Before(s.expiresAt) {
		return s.token, true
	}
	return "", false
}

func (s *TokenSource) refresh(ctx context.Context) (string, error) {
	const op = "ipaustralia.token"

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {s.cfg.ClientID},
		"client_secret": {s.cfg.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", domain.Wrap(err, domain.EUPSTREAM, op, "build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		return "", domain.Wrap(err, domain.EUPSTREAM, op, "token request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		return "", domain.Wrap(err, domain.EUPSTREAM, op, "read token response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		return "", domain.Upstream(op, "Token request failed %d: %s", resp.StatusCode, excerpt(body, 250))
	}

	var payload struct {
		AccessToken string      `json:"access_token"`
		ExpiresIn   json.Number `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		return "", domain.Upstream(op, "Token response was not valid JSON: %s", excerpt(body, 250))
	}
	if payload.AccessToken == "" {
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		return "", domain.Upstream(op, "Token response missing access_token: %s", excerpt(body, 250))
	}

	expiresIn := defaultExpiresIn
	if n, err := payload.ExpiresIn.Int64(); err == nil && n > 0 {
		expiresIn = int(n)
	}

	s.mu.Lock()
	s.token = payload.AccessToken
	s.expiresAt = time.Now().Add(time.Duration(expiresIn)*time.Second - tokenExpiryBuffer)
	s.mu.Unlock()

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	s.logger.Debug("registry token refreshed", "expires_in", expiresIn)

	return payload.AccessToken, nil
}

// excerpt bounds a raw response body for inclusion in error messages.
func excerpt(body []byte, max int) string {
	s := string(body)
	if len(s) > max {
		return s[:max]
	}
	return s
}
