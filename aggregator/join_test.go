package aggregator

import (
	"testing"

	"marketflow/models"
)

func TestOzonBarcodeIndexFirstWins(t *testing.T) {
	idx := ozonBarcodeIndex([]models.OzonInfoRow{
		{SKU: 11, Barcode: "first"},
		{SKU: 11, Barcode: "second"},
		{SKU: 12, Barcode: "other"},
	})
	if idx[11] != "first" {
		t.Errorf("expected first mapping to win, got %q", idx[11])
	}
	if idx[12] != "other" {
		t.Errorf("idx[12] = %q", idx[12])
	}
}

func TestEnrichOzonOrdersPreservesRowCount(t *testing.T) {
	rows := []models.OzonOrderRow{
		{SKU: 11},
		{SKU: 11},
		{SKU: 99},
	}
	enrichOzonOrders(rows, map[int64]string{11: "460"})
	if len(rows) != 3 {
		t.Fatalf("row count changed: %d", len(rows))
	}
	if rows[0].Barcode == nil || *rows[0].Barcode != "460" {
		t.Errorf("matched row not enriched: %+v", rows[0])
	}
	if rows[1].Barcode == nil {
		t.Errorf("second matched row not enriched: %+v", rows[1])
	}
	if rows[2].Barcode != nil {
		t.Errorf("unmatched row should stay nil: %+v", rows[2])
	}
}

func TestEnrichYandexOrders(t *testing.T) {
	rows := []models.YandexOrderRow{{OfferID: "A"}, {OfferID: "B"}}
	enrichYandexOrders(rows, map[string]string{"A": "111"})
	if rows[0].Barcode == nil || *rows[0].Barcode != "111" {
		t.Errorf("matched row not enriched: %+v", rows[0])
	}
	if rows[1].Barcode != nil {
		t.Errorf("unmatched row should stay nil: %+v", rows[1])
	}
}

func TestFilterYandexStocks(t *testing.T) {
	rows := []models.YandexStockRow{
		{WarehouseID: 301, OfferID: "A"},
		{WarehouseID: 999, OfferID: "B"},
		{WarehouseID: 302, OfferID: "C"},
	}
	got := filterYandexStocks(rows, []models.YandexWarehouseRow{
		{WarehouseID: 301}, {WarehouseID: 302},
	})
	if len(got) != 2 || got[0].OfferID != "A" || got[1].OfferID != "C" {
		t.Errorf("unexpected filter result: %+v", got)
	}
}

func TestFilterYandexStocksNoWarehouses(t *testing.T) {
	rows := []models.YandexStockRow{{WarehouseID: 301}}
	if got := filterYandexStocks(rows, nil); len(got) != 0 {
		t.Errorf("expected empty result without warehouses, got %+v", got)
	}
}

func TestOzonSKUList(t *testing.T) {
	skus := ozonSKUList([]models.OzonInfoRow{{SKU: 11}, {SKU: 12}})
	if len(skus) != 2 || skus[0] != "11" || skus[1] != "12" {
		t.Errorf("unexpected SKU list: %v", skus)
	}
}
