package wb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"marketflow/config"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func testClient(serverURL string) *Client {
	account := config.WildberriesAccount{PA: "PA1", APIKey: "test-key"}
	return NewClient(account, &http.Client{Timeout: time.Second}, nil).WithBaseURL(serverURL)
}

func TestOrders(t *testing.T) {
	var gotPath, gotAuth, gotDateFrom, gotFlag string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotDateFrom = r.URL.Query().Get("dateFrom")
		gotFlag = r.URL.Query().Get("flag")
		fmt.Fprint(w, `[{"date":"2024-01-01T10:00:00","nmId":100,"barcode":"123","totalPrice":1500.5,"isCancel":false}]`)
	}))
	defer server.Close()

	orders, err := testClient(server.URL).Orders(context.Background(), "2024-01-01T00:00:00", 0)
	if err != nil {
		t.Fatalf("Orders failed: %v", err)
	}
	if gotPath != "/api/v1/supplier/orders" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotAuth != "test-key" {
		t.Errorf("unexpected auth header: %s", gotAuth)
	}
	if gotDateFrom != "2024-01-01T00:00:00" || gotFlag != "0" {
		t.Errorf("unexpected query: dateFrom=%s flag=%s", gotDateFrom, gotFlag)
	}
	if len(orders) != 1 || orders[0].NmID != 100 || orders[0].Barcode != "123" {
		t.Errorf("unexpected orders: %+v", orders)
	}
	if !orders[0].TotalPrice.Equal(mustDecimal(t, "1500.5")) {
		t.Errorf("unexpected total price: %s", orders[0].TotalPrice)
	}
}

func TestOrdersRejectsInvalidFlag(t *testing.T) {
	if _, err := testClient("http://example.invalid").Orders(context.Background(), "", 2); err == nil {
		t.Fatal("expected error for flag 2")
	}
}

func TestStocksDefaultsDateFrom(t *testing.T) {
	var gotDateFrom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDateFrom = r.URL.Query().Get("dateFrom")
		fmt.Fprint(w, `[{"nmId":7,"quantity":3,"warehouseName":"Koledino"}]`)
	}))
	defer server.Close()

	stocks, err := testClient(server.URL).Stocks(context.Background(), "")
	if err != nil {
		t.Fatalf("Stocks failed: %v", err)
	}
	if gotDateFrom != DefaultStocksDateFrom {
		t.Errorf("unexpected dateFrom: %s", gotDateFrom)
	}
	if len(stocks) != 1 || stocks[0].Quantity != 3 {
		t.Errorf("unexpected stocks: %+v", stocks)
	}
}

func TestNonOKStatusIsError(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusUnauthorized, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		if _, err := testClient(server.URL).Orders(context.Background(), "2024-01-01T00:00:00", 0); err == nil {
			t.Errorf("expected error for status %d", status)
		}
		server.Close()
	}
}

func TestPreviousWeekStart(t *testing.T) {
	// Wednesday 2024-03-13 -> Monday of the previous week.
	now := time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC)
	got := previousWeekStart(now)
	want := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("previousWeekStart = %v, want %v", got, want)
	}

	// A Monday maps to the Monday seven days earlier.
	monday := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	if got := previousWeekStart(monday); !got.Equal(want) {
		t.Errorf("previousWeekStart(monday) = %v, want %v", got, want)
	}
}
