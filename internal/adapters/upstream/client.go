package upstream

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_pricing/internal/adapters/observability"
	"hotel_pricing/internal/domain"
)

const maxAttempts = 4

// Client reads hotel pricing records from the legacy admin API.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("upstream base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var (
	ErrUnauthorized = errors.New("upstream: unauthorized")
	ErrForbidden    = errors.New("upstream: forbidden")
)

// GetPricing fetches one hotel's availability window and flat price list.
// Older deployments wrap the record as {"data": {...}}; both shapes are accepted.
func (c *Client) GetPricing(ctx context.Context, hotelID int64) (domain.HotelPricingPayload, error) {
	var env struct {
		Data *domain.HotelPricingPayload `json:"data"`
		domain.HotelPricingPayload
	}
	if err := c.get(ctx, "hotel", fmt.Sprintf("%s/hotels/%d", c.base, hotelID), &env); err != nil {
		return domain.HotelPricingPayload{}, fmt.Errorf("get pricing for hotel %d: %w", hotelID, err)
	}
	if env.Data != nil {
		return *env.Data, nil
	}
	return env.HotelPricingPayload, nil
}

// get performs a rate-limited GET and decodes the JSON body into out.
// 429 and transient 5xx responses are retried, honoring Retry-After when present.
func (c *Client) get(ctx context.Context, endpoint, url string, out any) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := c.rl.Wait(ctx); err != nil {
			return err
		}
		wait, err := c.try(ctx, endpoint, url, attempt, out)
		if err == nil || wait < 0 {
			return err
		}
		lastErr = err
		if attempt == maxAttempts-1 || !sleepCtx(ctx, wait) {
			break
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return lastErr
}

// try makes one attempt. A negative wait marks the error as final.
func (c *Client) try(ctx context.Context, endpoint, url string, attempt int, out any) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return -1, err
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotel-pricing/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("upstream", endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return -1, ctx.Err()
		}
		return backoff(attempt), err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("upstream", endpoint, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return -1, fmt.Errorf("decode %s: %w", endpoint, err)
		}
		return 0, nil
	case http.StatusNotFound:
		return -1, domain.ErrNotFound
	case http.StatusUnauthorized:
		return -1, ErrUnauthorized
	case http.StatusForbidden:
		return -1, ErrForbidden
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		_, _ = io.Copy(io.Discard, resp.Body)
		wait := retryAfter(resp)
		if wait == 0 {
			wait = backoff(attempt)
		}
		return wait, fmt.Errorf("remote %d", resp.StatusCode)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return -1, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

// sleepCtx waits for d; false means ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// maxRetryAfter caps how long a server may ask us to wait between attempts.
const maxRetryAfter = 30 * time.Second

// retryAfter reads Retry-After as seconds or an HTTP date; 0 when absent or unusable.
func retryAfter(resp *http.Response) time.Duration {
	h := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if h == "" {
		return 0
	}
	var d time.Duration
	if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
		d = time.Duration(secs) * time.Second
	} else if t, err := http.ParseTime(h); err == nil {
		d = time.Until(t)
	}
	if d <= 0 {
		return 0
	}
	return min(d, maxRetryAfter)
}

// backoff is 200ms doubled per attempt plus up to 50% jitter.
func backoff(attempt int) time.Duration {
	base := time.Duration(1<<attempt) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	return base + time.Duration(float64(base)*0.5*float64(b[0])/255.0)
}
