package intara

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
)

// TokenCache holds the short-lived bearer credential for the Intara API and
// refreshes it through the OAuth token endpoint when it expires. Safe for
// concurrent use.
type TokenCache struct {
	tokenURL     string
	apiKey       string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       *slog.Logger
	now          func() time.Time

	mu          sync.Mutex
	bearerToken string
	expiresAt   time.Time
}

// NewTokenCache creates a token cache for the given OAuth endpoint and
// client credentials. The credential starts out expired; the first Token
// call triggers an exchange.
func NewTokenCache(tokenURL, apiKey, clientID, clientSecret string, timeout time.Duration) *TokenCache {
	return &TokenCache{
		tokenURL:     tokenURL,
		apiKey:       apiKey,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       slog.Default(),
		now:          time.Now,
	}
}

// WithLogger sets a custom logger for the token cache.
func (tc *TokenCache) WithLogger(logger *slog.Logger) *TokenCache {
	tc.logger = logger
	return tc
}

// Token returns the current bearer credential in "Bearer <token>" form,
// refreshing it first when it is absent or expired. A failed refresh is
// logged and whatever value is cached (possibly empty) is returned, so the
// upstream's rejection of the stale credential surfaces to the caller with
// the upstream's own status and body.
func (tc *TokenCache) Token(ctx context.Context) string {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if !tc.expiresAt.After(tc.now()) {
		tc.refresh(ctx)
	}
	return tc.bearerToken
}

// refresh performs the credential exchange. Callers must hold mu.
func (tc *TokenCache) refresh(ctx context.Context) {
	form := url.Values{}
	form.Set("clientId", tc.clientID)
	form.Set("clientSecret", tc.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tc.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		tc.logger.ErrorContext(ctx, "failed to create token request",
			slog.String("error", err.Error()),
		)
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("x-api-key", tc.apiKey)

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		tc.logger.ErrorContext(ctx, "token exchange request failed",
			slog.String("error", err.Error()),
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		tc.logger.ErrorContext(ctx, "token exchange returned non-2xx status",
			slog.Int("status_code", resp.StatusCode),
			slog.String("response_body", string(body)),
		)
		return
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		tc.logger.ErrorContext(ctx, "failed to decode token response",
			slog.String("error", err.Error()),
		)
		return
	}

	tc.bearerToken = "Bearer " + token.AccessToken
	tc.expiresAt = tc.now().Add(time.Duration(token.ExpiresIn) * time.Second)

	tc.logger.DebugContext(ctx, "bearer token refreshed",
		slog.Time("expires_at", tc.expiresAt),
	)
}
