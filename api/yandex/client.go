// Package yandex calls the Yandex Market partner API. Listing endpoints
// paginate with a nextPageToken cursor; the fetch loops follow the
// cursor until the upstream response omits it, accumulating pages in
// order. On a mid-pagination failure the pages fetched so far are
// returned together with the error.
package yandex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"marketflow/config"
	"marketflow/logger"
	"marketflow/metrics"
)

const DefaultBaseURL = "https://api.partner.market.yandex.ru"

const ordersDateLayout = "2006-01-02"

// Client issues authenticated requests for one Yandex Market account.
type Client struct {
	baseURL    string
	campaignID string
	businessID string
	apiKey     string
	http       *http.Client
	limiter    *rate.Limiter
	log        *logger.Entry
}

func NewClient(account config.YandexAccount, httpClient *http.Client, limiter *rate.Limiter) *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		campaignID: account.CampaignID,
		businessID: account.BusinessID,
		apiKey:     account.APIKey,
		http:       httpClient,
		limiter:    limiter,
		log:        logger.GetLogger().WithComponent("yandex_client").WithFields(logger.Fields{"pa": account.PA}),
	}
}

// WithBaseURL overrides the API host, used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

// OffersStocks fetches the stock counters of every offer of the
// campaign, grouped by warehouse.
func (c *Client) OffersStocks(ctx context.Context) ([]WarehouseStocks, error) {
	path := fmt.Sprintf("/campaigns/%s/offers/stocks", c.campaignID)

	var warehouses []WarehouseStocks
	pageToken := ""
	for {
		query := url.Values{}
		if pageToken != "" {
			query.Set("page_token", pageToken)
		}
		var resp struct {
			Result struct {
				Warehouses []WarehouseStocks `json:"warehouses"`
				Paging     paging            `json:"paging"`
			} `json:"result"`
		}
		if err := c.do(ctx, http.MethodPost, "offers_stocks", path, query, &resp); err != nil {
			return warehouses, err
		}
		warehouses = append(warehouses, resp.Result.Warehouses...)
		if resp.Result.Paging.NextPageToken == "" {
			return warehouses, nil
		}
		pageToken = resp.Result.Paging.NextPageToken
	}
}

// Orders fetches campaign orders for [fromDate, toDate]. Empty bounds
// default to the previous calendar week.
func (c *Client) Orders(ctx context.Context, fromDate, toDate string) ([]Order, error) {
	now := time.Now()
	if fromDate == "" {
		fromDate = previousWeekStart(now).Format(ordersDateLayout)
	}
	if toDate == "" {
		toDate = currentWeekStart(now).Format(ordersDateLayout)
	}
	path := fmt.Sprintf("/campaigns/%s/orders", c.campaignID)

	var orders []Order
	pageToken := ""
	for {
		query := url.Values{}
		query.Set("fromDate", fromDate)
		query.Set("toDate", toDate)
		if pageToken != "" {
			query.Set("page_token", pageToken)
		}
		var resp struct {
			Orders []Order `json:"orders"`
			Paging paging  `json:"paging"`
		}
		if err := c.do(ctx, http.MethodGet, "orders", path, query, &resp); err != nil {
			return orders, err
		}
		orders = append(orders, resp.Orders...)
		if resp.Paging.NextPageToken == "" {
			return orders, nil
		}
		pageToken = resp.Paging.NextPageToken
	}
}

// OfferMappings fetches the business's offer-to-product identity
// mappings.
func (c *Client) OfferMappings(ctx context.Context) ([]OfferMapping, error) {
	path := fmt.Sprintf("/businesses/%s/offer-mappings", c.businessID)

	var mappings []OfferMapping
	pageToken := ""
	for {
		query := url.Values{}
		if pageToken != "" {
			query.Set("page_token", pageToken)
		}
		var resp struct {
			Result struct {
				OfferMappings []OfferMapping `json:"offerMappings"`
				Paging        paging         `json:"paging"`
			} `json:"result"`
		}
		if err := c.do(ctx, http.MethodPost, "offer_mappings", path, query, &resp); err != nil {
			return mappings, err
		}
		mappings = append(mappings, resp.Result.OfferMappings...)
		if resp.Result.Paging.NextPageToken == "" {
			return mappings, nil
		}
		pageToken = resp.Result.Paging.NextPageToken
	}
}

// Warehouses fetches the full FBY warehouse list.
func (c *Client) Warehouses(ctx context.Context) ([]Warehouse, error) {
	var resp struct {
		Result struct {
			Warehouses []Warehouse `json:"warehouses"`
		} `json:"result"`
	}
	if err := c.do(ctx, http.MethodGet, "warehouses", "/warehouses", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Result.Warehouses, nil
}

func (c *Client) do(ctx context.Context, method, resource, path string, query url.Values, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Api-Key", c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		metrics.APIRequest("yandex", resource, 0)
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()
	metrics.APIRequest("yandex", resource, res.StatusCode)

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

// previousWeekStart returns the Monday of the previous calendar week.
func previousWeekStart(now time.Time) time.Time {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	return now.AddDate(0, 0, -(daysSinceMonday + 7))
}

// currentWeekStart returns the Monday of the current calendar week.
func currentWeekStart(now time.Time) time.Time {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	return now.AddDate(0, 0, -daysSinceMonday)
}
