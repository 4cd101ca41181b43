// Package ozon calls the Ozon seller API.
package ozon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"marketflow/config"
	"marketflow/logger"
	"marketflow/metrics"
)

const DefaultBaseURL = "https://api-seller.ozon.ru"

const (
	// requestLimit is the page size the seller API accepts for listing
	// endpoints.
	requestLimit = 1000
	// stocksChunkSize is the per-request SKU cap of /v1/analytics/stocks.
	stocksChunkSize = 100

	postingTimeLayout = "2006-01-02T15:04:05.000Z"
)

// Client issues authenticated requests for one Ozon seller account.
type Client struct {
	baseURL  string
	clientID string
	apiKey   string
	http     *http.Client
	limiter  *rate.Limiter
	log      *logger.Entry
}

func NewClient(account config.OzonAccount, httpClient *http.Client, limiter *rate.Limiter) *Client {
	return &Client{
		baseURL:  DefaultBaseURL,
		clientID: account.ClientID,
		apiKey:   account.APIKey,
		http:     httpClient,
		limiter:  limiter,
		log:      logger.GetLogger().WithComponent("ozon_client").WithFields(logger.Fields{"pa": account.PA}),
	}
}

// WithBaseURL overrides the API host, used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

// AttributesFilter narrows ProductInfoAttributes to specific products.
// The zero value selects everything.
type AttributesFilter struct {
	OfferID   []string `json:"offer_id"`
	ProductID []string `json:"product_id"`
	SKU       []string `json:"sku"`
}

// ProductInfoAttributes fetches product attributes, including the
// barcode-to-SKU mapping the report joins on.
func (c *Client) ProductInfoAttributes(ctx context.Context, filter AttributesFilter) ([]ProductAttributes, error) {
	if filter.OfferID == nil {
		filter.OfferID = []string{}
	}
	if filter.ProductID == nil {
		filter.ProductID = []string{}
	}
	if filter.SKU == nil {
		filter.SKU = []string{}
	}

	payload := map[string]interface{}{
		"filter": filter,
		"limit":  requestLimit,
	}
	var resp struct {
		Result []ProductAttributes `json:"result"`
	}
	if err := c.postJSON(ctx, "product_info_attributes", "/v4/product/info/attributes", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// AnalyticsStocks fetches stock analytics for the given SKUs. The
// endpoint caps the SKU list per request, so the input is split into
// chunks of stocksChunkSize issued sequentially in input order. A failed
// chunk is logged and skipped; the accumulated result of the remaining
// chunks is still returned.
func (c *Client) AnalyticsStocks(ctx context.Context, skus []string) ([]StockItem, error) {
	if len(skus) == 0 {
		return nil, nil
	}

	var items []StockItem
	for start := 0; start < len(skus); start += stocksChunkSize {
		end := start + stocksChunkSize
		if end > len(skus) {
			end = len(skus)
		}

		payload := map[string]interface{}{"skus": skus[start:end]}
		var resp struct {
			Items []StockItem `json:"items"`
		}
		if err := c.postJSON(ctx, "analytics_stocks", "/v1/analytics/stocks", payload, &resp); err != nil {
			if ctx.Err() != nil {
				return items, ctx.Err()
			}
			c.log.WithError(err).WithFields(logger.Fields{
				"chunk_start": start,
				"chunk_end":   end,
			}).Error("analytics stocks chunk failed")
			continue
		}
		items = append(items, resp.Items...)
	}
	return items, nil
}

// PostingFBOList fetches FBO postings for [since, to). The range is
// split into one-day windows issued sequentially in chronological
// order; a failed window is logged and skipped. Zero bounds default to
// the previous calendar week.
func (c *Client) PostingFBOList(ctx context.Context, since, to time.Time) ([]Posting, error) {
	now := time.Now()
	if since.IsZero() {
		since = previousWeekStart(now)
	}
	if to.IsZero() {
		to = currentWeekStart(now)
	}

	var postings []Posting
	for cur := since; cur.Before(to); cur = cur.Add(24 * time.Hour) {
		windowTo := cur.Add(24 * time.Hour)
		if windowTo.After(to) {
			windowTo = to
		}

		payload := map[string]interface{}{
			"filter": map[string]string{
				"since": cur.UTC().Format(postingTimeLayout),
				"to":    windowTo.UTC().Format(postingTimeLayout),
			},
			"limit": requestLimit,
		}
		var resp struct {
			Result []Posting `json:"result"`
		}
		if err := c.postJSON(ctx, "posting_fbo_list", "/v2/posting/fbo/list", payload, &resp); err != nil {
			if ctx.Err() != nil {
				return postings, ctx.Err()
			}
			c.log.WithError(err).WithFields(logger.Fields{
				"since": cur.UTC().Format(postingTimeLayout),
				"to":    windowTo.UTC().Format(postingTimeLayout),
			}).Error("fbo postings window failed")
			continue
		}
		postings = append(postings, resp.Result...)
	}
	return postings, nil
}

// PostingFBSList fetches FBS postings for [since, to) in a single call.
// Zero bounds default to the previous calendar week stamped with the
// fixed 04:00 UTC time the upstream service expects.
func (c *Client) PostingFBSList(ctx context.Context, since, to time.Time, offset int) ([]Posting, error) {
	sinceStr, toStr := fbsDefaultRange(time.Now())
	if !since.IsZero() {
		sinceStr = since.UTC().Format(postingTimeLayout)
	}
	if !to.IsZero() {
		toStr = to.UTC().Format(postingTimeLayout)
	}

	payload := map[string]interface{}{
		"filter": map[string]string{"since": sinceStr, "to": toStr},
		"limit":  requestLimit,
		"offset": offset,
	}
	var resp struct {
		Result struct {
			Postings []Posting `json:"postings"`
		} `json:"result"`
	}
	if err := c.postJSON(ctx, "posting_fbs_list", "/v3/posting/fbs/list", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Result.Postings, nil
}

func (c *Client) postJSON(ctx context.Context, resource, path string, payload, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		metrics.APIRequest("ozon", resource, 0)
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()
	metrics.APIRequest("ozon", resource, res.StatusCode)

	if res.StatusCode == http.StatusTooManyRequests {
		c.log.WithFields(logger.Fields{"resource": resource}).Warn("request limit exceeded, retry in a minute")
		return fmt.Errorf("status 429: rate limit exceeded")
	}
	if res.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(errBody)))
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

// currentWeekStart returns the Monday of the current calendar week at
// midnight UTC.
func currentWeekStart(now time.Time) time.Time {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	day := now.UTC().AddDate(0, 0, -daysSinceMonday)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}

// fbsDefaultRange reproduces the upstream default range for FBS
// postings: week boundaries stamped with a literal 04:00 UTC time.
func fbsDefaultRange(now time.Time) (string, string) {
	return previousWeekStart(now).Format("2006-01-02") + "T04:00:00.000Z",
		currentWeekStart(now).Format("2006-01-02") + "T04:00:00.000Z"
}
