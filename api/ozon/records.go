package ozon

import "github.com/shopspring/decimal"

// ProductAttributes is one raw product from /v4/product/info/attributes.
type ProductAttributes struct {
	ID      int64  `json:"id"`
	Barcode string `json:"barcode"`
	OfferID string `json:"offer_id"`
	SKU     int64  `json:"sku"`
}

// PostingProduct is one product line inside a posting. The seller API
// serialises price as a string; decimal accepts both forms.
type PostingProduct struct {
	Name     string          `json:"name"`
	OfferID  string          `json:"offer_id"`
	SKU      int64           `json:"sku"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Posting is one raw FBO or FBS fulfillment record. FBO postings carry
// created_at, FBS postings carry in_process_at.
type Posting struct {
	OrderID       int64            `json:"order_id"`
	OrderNumber   string           `json:"order_number"`
	PostingNumber string           `json:"posting_number"`
	CreatedAt     string           `json:"created_at"`
	InProcessAt   string           `json:"in_process_at"`
	Products      []PostingProduct `json:"products"`
}

// StockItem is one raw item from /v1/analytics/stocks.
type StockItem struct {
	Name                string `json:"name"`
	OfferID             string `json:"offer_id"`
	SKU                 int64  `json:"sku"`
	AvailableStockCount int    `json:"available_stock_count"`
	WarehouseID         int64  `json:"warehouse_id"`
	WarehouseName       string `json:"warehouse_name"`
	ClusterID           int64  `json:"cluster_id"`
}
