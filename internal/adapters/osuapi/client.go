// Package osuapi implements the upstream collaborators: the osu! v2
// recent-activity feed and the osu!stats lifetime-count aggregator.
//
// Authentication uses the OAuth2 client-credentials grant with token
// caching and refresh handled by the oauth2 token source. Every request
// is rate limited and retried with exponential backoff; 4xx responses
// other than 429 are not retried.
package osuapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/hikaya/spotwatch/pkg/logger"
	"github.com/hikaya/spotwatch/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultAPIBaseURL    = "https://osu.ppy.sh/api/v2"
	defaultStatsBaseURL  = "https://osustats.ppy.sh"
	defaultTokenURL      = "https://osu.ppy.sh/oauth/token"
	defaultActivityLimit = 51
	defaultTimeout       = 15 * time.Second
	defaultMaxRetries    = 4
	defaultRateLimitRPS  = 2.0
	rateLimitBurst       = 1
)

// Client talks to the osu! API and the osu!stats aggregator.
type Client struct {
	apiClient   *http.Client // oauth2-wrapped, for the v2 API
	statsClient *http.Client // plain, the aggregator needs no auth

	apiBaseURL    string
	statsBaseURL  string
	tokenURL      string
	userID        int
	username      string
	activityLimit int
	timeout       time.Duration
	maxRetries    uint64
	limiter       *rate.Limiter

	logger logger.Logger
}

// New constructs a Client authenticating with the client-credentials grant.
func New(ctx context.Context, clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		apiBaseURL:    defaultAPIBaseURL,
		statsBaseURL:  defaultStatsBaseURL,
		tokenURL:      defaultTokenURL,
		activityLimit: defaultActivityLimit,
		timeout:       defaultTimeout,
		maxRetries:    defaultMaxRetries,
		limiter:       rate.NewLimiter(rate.Limit(defaultRateLimitRPS), rateLimitBurst),
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	base := &http.Client{Timeout: c.timeout}

	cc := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     c.tokenURL,
		Scopes:       []string{"public"},
	}
	// Route token requests through the timeout-bounded base client.
	c.apiClient = cc.Client(context.WithValue(ctx, oauth2.HTTPClient, base))
	c.apiClient.Timeout = c.timeout
	c.statsClient = base

	return c
}

// doJSON performs one logical request with rate limiting and retry, and
// decodes a 200 response body into dest.
func (c *Client) doJSON(ctx context.Context, client *http.Client, endpoint string, build func() (*http.Request, error), dest any) error {
	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := build()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %w", ErrRequestFailed, err))
		}

		start := time.Now()
		resp, err := client.Do(req)
		metrics.RecordAPIRequestDuration(endpoint, float64(time.Since(start).Milliseconds()))
		if err != nil {
			metrics.RecordAPIRequest(endpoint, "error")
			return fmt.Errorf("%w: %w", ErrRequestFailed, err)
		}
		defer func() { _ = resp.Body.Close() }()

		metrics.RecordAPIRequest(endpoint, strconv.Itoa(resp.StatusCode))

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
				return backoff.Permanent(fmt.Errorf("%w: %w", ErrDecodeResponse, err))
			}
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
			// Worth retrying after backoff.
			return fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, endpoint, resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, endpoint, resp.StatusCode))
		}
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		c.log().Warn(ctx, "upstream request failed",
			logger.String("endpoint", endpoint), logger.Error(err))
		return err
	}
	return nil
}

// log resolves the logger lazily so construction does not require a
// globally initialized logger.
func (c *Client) log() logger.Logger {
	if c.logger == nil {
		c.logger = logger.Get().Named("osuapi")
	}
	return c.logger
}
