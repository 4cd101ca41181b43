// Package wb calls the Wildberries supplier statistics API.
package wb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"marketflow/config"
	"marketflow/logger"
	"marketflow/metrics"
)

const DefaultBaseURL = "https://statistics-api.wildberries.ru"

// DefaultStocksDateFrom is the historical lower bound the statistics API
// accepts for a full stock snapshot.
const DefaultStocksDateFrom = "2019-06-20"

const ordersDateLayout = "2006-01-02T00:00:00"

// Client issues authenticated requests for one Wildberries account.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Entry
}

func NewClient(account config.WildberriesAccount, httpClient *http.Client, limiter *rate.Limiter) *Client {
	return &Client{
		baseURL: DefaultBaseURL,
		apiKey:  account.APIKey,
		http:    httpClient,
		limiter: limiter,
		log:     logger.GetLogger().WithComponent("wb_client").WithFields(logger.Fields{"pa": account.PA}),
	}
}

// WithBaseURL overrides the API host, used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

// Orders fetches order records starting at dateFrom. An empty dateFrom
// defaults to the Monday of the previous calendar week. flag switches
// between incremental (0) and full-day (1) mode, as the upstream API
// defines it.
func (c *Client) Orders(ctx context.Context, dateFrom string, flag int) ([]Order, error) {
	if flag != 0 && flag != 1 {
		return nil, fmt.Errorf("flag must be 0 or 1, got %d", flag)
	}
	if dateFrom == "" {
		dateFrom = previousWeekStart(time.Now()).Format(ordersDateLayout)
	}

	query := url.Values{}
	query.Set("dateFrom", dateFrom)
	query.Set("flag", strconv.Itoa(flag))

	var orders []Order
	if err := c.getJSON(ctx, "orders", "/api/v1/supplier/orders", query, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Stocks fetches the warehouse stock snapshot changed since dateFrom.
// An empty dateFrom defaults to DefaultStocksDateFrom, which yields the
// full snapshot.
func (c *Client) Stocks(ctx context.Context, dateFrom string) ([]Stock, error) {
	if dateFrom == "" {
		dateFrom = DefaultStocksDateFrom
	}

	query := url.Values{}
	query.Set("dateFrom", dateFrom)

	var stocks []Stock
	if err := c.getJSON(ctx, "stocks", "/api/v1/supplier/stocks", query, &stocks); err != nil {
		return nil, err
	}
	return stocks, nil
}

func (c *Client) getJSON(ctx context.Context, resource, path string, query url.Values, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		metrics.APIRequest("wildberries", resource, 0)
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()
	metrics.APIRequest("wildberries", resource, res.StatusCode)

	if res.StatusCode == http.StatusTooManyRequests {
		c.log.WithFields(logger.Fields{"resource": resource}).Warn("request limit exceeded, retry in a minute")
		return fmt.Errorf("status 429: rate limit exceeded")
	}
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// previousWeekStart returns the Monday of the previous calendar week at
// midnight UTC.
func previousWeekStart(now time.Time) time.Time {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	day := now.UTC().AddDate(0, 0, -(daysSinceMonday + 7))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
