package aggregator

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"marketflow/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Client: config.ClientConfig{
			Timeout: 5 * time.Second,
			RateLimit: config.RateLimitConfig{
				RequestsPerSecond: 100,
				BurstSize:         100,
			},
		},
		Accounts: config.AccountsConfig{
			Wildberries: []config.WildberriesAccount{{PA: "WB1", APIKey: "k"}},
			Ozon:        []config.OzonAccount{{PA: "OZ1", ClientID: "1", APIKey: "k"}},
			Yandex:      []config.YandexAccount{{PA: "YM1", CampaignID: "111", BusinessID: "222", APIKey: "k"}},
		},
	}
}

func wbServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/supplier/orders":
			fmt.Fprint(w, `[{"date":"2024-03-05T11:00:00","nmId":12345,"barcode":"460","totalPrice":100.5}]`)
		case "/api/v1/supplier/stocks":
			fmt.Fprint(w, `[{"nmId":12345,"barcode":"460","quantity":3}]`)
		default:
			t.Errorf("unexpected wb path: %s", r.URL.Path)
		}
	}))
}

func ozonServer(t *testing.T) *httptest.Server {
	t.Helper()
	var fboCalls atomic.Int32
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v4/product/info/attributes":
			fmt.Fprint(w, `{"result":[{"id":1,"barcode":"4600000000017","offer_id":"A","sku":11}]}`)
		case "/v2/posting/fbo/list":
			// Day windows hit this path repeatedly; only the first
			// carries data.
			if fboCalls.Add(1) == 1 {
				fmt.Fprint(w, `{"result":[{"order_id":7,"posting_number":"FBO-1","created_at":"2024-03-05T10:00:00Z","products":[{"offer_id":"A","sku":11,"quantity":2}]}]}`)
				return
			}
			fmt.Fprint(w, `{"result":[]}`)
		case "/v3/posting/fbs/list":
			fmt.Fprint(w, `{"result":{"postings":[{"order_id":8,"posting_number":"FBS-1","in_process_at":"2024-03-06T09:00:00Z","products":[{"offer_id":"A","sku":11,"quantity":1}]}]}}`)
		case "/v1/analytics/stocks":
			fmt.Fprint(w, `{"items":[{"offer_id":"A","sku":11,"available_stock_count":4,"warehouse_id":301}]}`)
		default:
			t.Errorf("unexpected ozon path: %s", r.URL.Path)
		}
	}))
}

func yandexServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/businesses/222/offer-mappings":
			fmt.Fprint(w, `{"result":{"offerMappings":[{"offer":{"offerId":"A","barcodes":["111"]}}]}}`)
		case "/campaigns/111/orders":
			fmt.Fprint(w, `{"orders":[{"id":1,"creationDate":"05-03-2024","items":[{"id":10,"offerId":"A","count":1},{"id":11,"offerId":"Z","count":1}]}]}`)
		case "/campaigns/111/offers/stocks":
			fmt.Fprint(w, `{"result":{"warehouses":[{"warehouseId":301,"offers":[{"offerId":"A","stocks":[{"type":"AVAILABLE","count":7}]}]},{"warehouseId":999,"offers":[{"offerId":"A","stocks":[{"type":"AVAILABLE","count":1}]}]}]}}`)
		case "/warehouses":
			fmt.Fprint(w, `{"result":{"warehouses":[{"id":301,"name":"Main"}]}}`)
		default:
			t.Errorf("unexpected yandex path: %s", r.URL.Path)
		}
	}))
}

func TestRunFullPipeline(t *testing.T) {
	wb := wbServer(t)
	defer wb.Close()
	oz := ozonServer(t)
	defer oz.Close()
	ym := yandexServer(t)
	defer ym.Close()

	agg := New(testConfig(),
		WithWBBaseURL(wb.URL),
		WithOzonBaseURL(oz.URL),
		WithYandexBaseURL(ym.URL),
	)
	result, err := agg.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.RunID == "" {
		t.Error("run id missing")
	}
	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}

	tables := result.Tables
	if len(tables.WBOrders) != 1 || tables.WBOrders[0].PA != "WB1" {
		t.Errorf("unexpected wb orders: %+v", tables.WBOrders)
	}
	if len(tables.WBStocks) != 1 || tables.WBStocks[0].Quantity != 3 {
		t.Errorf("unexpected wb stocks: %+v", tables.WBStocks)
	}

	// One FBO product line plus one FBS line, both enriched by the SKU
	// mapping.
	if len(tables.OzonOrders) != 2 {
		t.Fatalf("expected 2 ozon order rows, got %d: %+v", len(tables.OzonOrders), tables.OzonOrders)
	}
	for _, row := range tables.OzonOrders {
		if row.Barcode == nil || *row.Barcode != "4600000000017" {
			t.Errorf("ozon order not enriched: %+v", row)
		}
	}
	if len(tables.OzonStocks) != 1 || tables.OzonStocks[0].Barcode == nil {
		t.Errorf("unexpected ozon stocks: %+v", tables.OzonStocks)
	}

	// Two item rows; the unmapped offer keeps a nil barcode.
	if len(tables.YandexOrders) != 2 {
		t.Fatalf("expected 2 yandex order rows, got %d", len(tables.YandexOrders))
	}
	if tables.YandexOrders[0].Barcode == nil || *tables.YandexOrders[0].Barcode != "111" {
		t.Errorf("mapped yandex order not enriched: %+v", tables.YandexOrders[0])
	}
	if tables.YandexOrders[1].Barcode != nil {
		t.Errorf("unmapped yandex order should stay nil: %+v", tables.YandexOrders[1])
	}

	// The warehouse 999 row is dropped because only 301 is listed.
	if len(tables.YandexStocks) != 1 || tables.YandexStocks[0].WarehouseID != 301 {
		t.Errorf("unexpected yandex stocks: %+v", tables.YandexStocks)
	}
}

func TestRunSurvivesBrokenMarketplace(t *testing.T) {
	wb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer wb.Close()
	oz := ozonServer(t)
	defer oz.Close()
	ym := yandexServer(t)
	defer ym.Close()

	agg := New(testConfig(),
		WithWBBaseURL(wb.URL),
		WithOzonBaseURL(oz.URL),
		WithYandexBaseURL(ym.URL),
	)
	result, err := agg.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Tables.WBOrders) != 0 || len(result.Tables.WBStocks) != 0 {
		t.Errorf("broken marketplace should yield empty tables: %+v", result.Tables.WBOrders)
	}
	if len(result.Tables.OzonOrders) == 0 || len(result.Tables.YandexOrders) == 0 {
		t.Error("healthy marketplaces should still produce rows")
	}

	sources := map[string]bool{}
	for _, f := range result.Failures {
		sources[f.Source()] = true
	}
	if !sources["wildberries/WB1:orders"] || !sources["wildberries/WB1:stocks"] {
		t.Errorf("wb failures not recorded: %v", sources)
	}
}

func TestRunNoAccounts(t *testing.T) {
	cfg := testConfig()
	cfg.Accounts = config.AccountsConfig{}

	result, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Failures) != 0 {
		t.Errorf("unexpected failures: %+v", result.Failures)
	}
	if result.Tables.WBOrders != nil || result.Tables.OzonOrders != nil || result.Tables.YandexOrders != nil {
		t.Errorf("expected empty tables: %+v", result.Tables)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(testConfig()).Run(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
