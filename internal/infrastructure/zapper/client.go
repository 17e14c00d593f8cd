// Package zapper queries the Zapper GraphQL API for wallet balances and identity.
package zapper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/bimakw/ratemybags/internal/config"
	"github.com/bimakw/ratemybags/internal/domain/entities"
	"github.com/bimakw/ratemybags/internal/infrastructure/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const source = "zapper"

// Client fetches portfolios from Zapper
type Client struct {
	client  *fasthttp.Client
	url     string
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a Zapper client
func NewClient(cfg config.ZapperConfig, logger *zap.Logger) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.BurstLimit
	if burst < 1 {
		burst = 1
	}

	return &Client{
		client:  &fasthttp.Client{Name: "ratemybags"},
		url:     cfg.GraphQLURL,
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.Named("ZapperClient"),
	}
}

// GetWalletBalances returns the holdings and identity of a wallet. Failures
// are logged and counted, and yield empty holdings with a bare identity.
func (c *Client) GetWalletBalances(ctx context.Context, address string) *entities.WalletBalances {
	start := time.Now()
	data, err := c.fetch(ctx, address)
	metrics.UpstreamLatency.WithLabelValues(source).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(source).Inc()
		c.logger.Error("Failed to fetch wallet balances",
			zap.String("address", address),
			zap.Error(err),
		)
		return entities.EmptyWalletBalances(address)
	}

	return mapResponse(address, data)
}

func (c *Client) fetch(ctx context.Context, address string) (*portfolioData, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(graphQLRequest{
		Query:     portfolioQuery,
		Variables: map[string]interface{}{"addresses": []string{address}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if c.apiKey != "" {
		req.Header.Set("x-zapper-api-key", c.apiKey)
	}
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline, ok := ctx.Deadline()
	if !ok || time.Until(deadline) > c.timeout {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("failed to execute request to %s: %w", c.url, err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Debug("Zapper returned non-200",
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody),
		)
		return nil, fmt.Errorf("zapper request failed with status %d", resp.StatusCode())
	}

	var out graphQLResponse
	if err := json.Unmarshal(rawBody, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(out.Errors) > 0 {
		msgs := make([]string, len(out.Errors))
		for i, e := range out.Errors {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("graphql errors: %s", strings.Join(msgs, "; "))
	}
	if out.Data == nil {
		return nil, errors.New("graphql response has no data")
	}

	return out.Data, nil
}
