package aggregator

import (
	"strconv"

	"marketflow/models"
)

// ozonBarcodeIndex maps SKU to barcode. The first mapping row for a SKU
// wins, so enrichment never multiplies left rows.
func ozonBarcodeIndex(info []models.OzonInfoRow) map[int64]string {
	idx := make(map[int64]string, len(info))
	for _, r := range info {
		if _, ok := idx[r.SKU]; !ok {
			idx[r.SKU] = r.Barcode
		}
	}
	return idx
}

// yandexBarcodeIndex maps offer id to barcode, first mapping row wins.
func yandexBarcodeIndex(info []models.YandexInfoRow) map[string]string {
	idx := make(map[string]string, len(info))
	for _, r := range info {
		if _, ok := idx[r.OfferID]; !ok {
			idx[r.OfferID] = r.Barcode
		}
	}
	return idx
}

func enrichOzonOrders(rows []models.OzonOrderRow, idx map[int64]string) {
	for i := range rows {
		if barcode, ok := idx[rows[i].SKU]; ok {
			b := barcode
			rows[i].Barcode = &b
		}
	}
}

func enrichOzonStocks(rows []models.OzonStockRow, idx map[int64]string) {
	for i := range rows {
		if barcode, ok := idx[rows[i].SKU]; ok {
			b := barcode
			rows[i].Barcode = &b
		}
	}
}

func enrichYandexOrders(rows []models.YandexOrderRow, idx map[string]string) {
	for i := range rows {
		if barcode, ok := idx[rows[i].OfferID]; ok {
			b := barcode
			rows[i].Barcode = &b
		}
	}
}

func enrichYandexStocks(rows []models.YandexStockRow, idx map[string]string) {
	for i := range rows {
		if barcode, ok := idx[rows[i].OfferID]; ok {
			b := barcode
			rows[i].Barcode = &b
		}
	}
}

// filterYandexStocks keeps only rows whose warehouse was listed in the
// same run, scoping the sheet to warehouses the accounts actually own.
func filterYandexStocks(rows []models.YandexStockRow, warehouses []models.YandexWarehouseRow) []models.YandexStockRow {
	ids := make(map[int64]struct{}, len(warehouses))
	for _, w := range warehouses {
		ids[w.WarehouseID] = struct{}{}
	}
	out := rows[:0:0]
	for _, r := range rows {
		if _, ok := ids[r.WarehouseID]; ok {
			out = append(out, r)
		}
	}
	return out
}

// ozonSKUList turns the deduplicated mapping table into the SKU filter
// for the analytics stocks fetch, preserving row order.
func ozonSKUList(info []models.OzonInfoRow) []string {
	skus := make([]string, 0, len(info))
	for _, r := range info {
		skus = append(skus, strconv.FormatInt(r.SKU, 10))
	}
	return skus
}
