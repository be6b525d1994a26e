package ipaustralia

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nameready/nameready/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testTokenConfig(url string) TokenConfig {
	return TokenConfig{
		TokenURL:     url,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}
}

func TestTokenSource_RequestShape(t *testing.T) {
	var gotContentType, gotGrant, gotID, gotSecret string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		gotContentType = r.Header.Get("Content-Type")
		gotGrant = r.PostFormValue("grant_type")
		gotID = r.PostFormValue("client_id")
		gotSecret = r.PostFormValue("client_secret")
		fmt.Fprint(w, `{"access_token": "tok-1", "expires_in": 3600}`)
	}))
	defer server.Close()

	src := NewTokenSource(testTokenConfig(server.URL), server.Client(), testLogger())

	token, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "client_credentials", gotGrant)
	assert.Equal(t, "client-id", gotID)
	assert.Equal(t, "client-secret", gotSecret)
}

func TestTokenSource_CachesToken(t *testing.T) {
	var requests atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `{"access_token": "tok-1", "expires_in": 3600}`)
	}))
	defer server.Close()

	src := NewTokenSource(testTokenConfig(server.URL), server.Client(), testLogger())

	first, err := src.Token(context.Background())
	require.NoError(t, err)

	// Well before expiry: must be served from cache with no network call.
	second, err := src.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), requests.Load())
}

func TestTokenSource_RefreshesExpiredToken(t *testing.T) {
	var requests atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := requests.Add(1)
		// expires_in 60 leaves zero lifetime after the 60s safety buffer,
		// so the first token is expired the moment it is cached.
		fmt.Fprintf(w, `{"access_token": "tok-%d", "expires_in": 60}`, n)
	}))
	defer server.Close()

	src := NewTokenSource(testTokenConfig(server.URL), server.Client(), testLogger())

	first, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", first)

	second, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", second)

	assert.Equal(t, int64(2), requests.Load())
}

func TestTokenSource_SingleFlight(t *testing.T) {
	var requests atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		time.Sleep(50 * time.Millisecond)
		fmt.Fprint(w, `{"access_token": "tok-1", "expires_in": 3600}`)
	}))
	defer server.Close()

	src := NewTokenSource(testTokenConfig(server.URL), server.Client(), testLogger())

	const callers = 10
	tokens := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = src.Token(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "tok-1", tokens[i])
	}

	// All concurrent callers share a single refresh.
	assert.Equal(t, int64(1), requests.Load())
}

func TestTokenSource_MissingConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TokenConfig
		details string
	}{
		{
			name:    "missing token URL",
			cfg:     TokenConfig{ClientID: "id", ClientSecret: "secret"},
			details: "IPAU_TOKEN_URL_TEST/PROD",
		},
		{
			name:    "missing client id",
			cfg:     TokenConfig{TokenURL: "http://localhost:1", ClientSecret: "secret"},
			details: "IPAU_CLIENT_ID",
		},
		{
			name:    "missing client secret",
			cfg:     TokenConfig{TokenURL: "http://localhost:1", ClientID: "id"},
			details: "IPAU_CLIENT_SECRET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewTokenSource(tt.cfg, http.DefaultClient, testLogger())

			_, err := src.Token(context.Background())
			require.Error(t, err)
			assert.Equal(t, domain.ECONFIG, domain.ErrorCode(err))
			assert.Contains(t, err.Error(), tt.details)
		})
	}
}

func TestTokenSource_UpstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "registry is down")
	}))
	defer server.Close()

	src := NewTokenSource(testTokenConfig(server.URL), server.Client(), testLogger())

	_, err := src.Token(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.EUPSTREAM, domain.ErrorCode(err))
	assert.Contains(t, err.Error(), "Token request failed 502")
	assert.Contains(t, err.Error(), "registry is down")
}

func TestTokenSource_MissingAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"expires_in": 3600}`)
	}))
	defer server.Close()

	src := NewTokenSource(testTokenConfig(server.URL), server.Client(), testLogger())

	_, err := src.Token(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.EUPSTREAM, domain.ErrorCode(err))
	assert.Contains(t, err.Error(), "missing access_token")
}

func TestTokenSource_BoundedErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		for i := 0; i < 100; i++ {
			fmt.Fprint(w, "0123456789")
		}
	}))
	defer server.Close()

	src := NewTokenSource(testTokenConfig(server.URL), server.Client(), testLogger())

	_, err := src.Token(context.Background())
	require.Error(t, err)
	// 250-char excerpt plus the fixed prefix; the kilobyte body must not
	// appear wholesale.
	assert.Less(t, len(err.Error()), 350)
}

func TestTokenSource_DefaultExpiry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token": "tok-1"}`)
	}))
	defer server.Close()

	src := NewTokenSource(testTokenConfig(server.URL), server.Client(), testLogger())

	_, err := src.Token(context.Background())
	require.NoError(t, err)

	// Default 3600s minus the 60s buffer.
	src.mu.Lock()
	remaining := time.Until(src.expiresAt)
	src.mu.Unlock()

	assert.Greater(t, remaining, 58*time.Minute)
	assert.LessOrEqual(t, remaining, 59*time.Minute)
}
