package yandex

import "github.com/shopspring/decimal"

type paging struct {
	NextPageToken string `json:"nextPageToken"`
}

// Stock is one counter (type AVAILABLE, FREEZE, ...) for an offer on a
// warehouse.
type Stock struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// OfferStocks lists the stock counters of one offer.
type OfferStocks struct {
	OfferID   string  `json:"offerId"`
	UpdatedAt string  `json:"updatedAt"`
	Stocks    []Stock `json:"stocks"`
}

// WarehouseStocks groups offer stocks per warehouse, as the campaign
// offers/stocks endpoint returns them.
type WarehouseStocks struct {
	WarehouseID int64         `json:"warehouseId"`
	Offers      []OfferStocks `json:"offers"`
}

// OrderItem is one item line of an order.
type OrderItem struct {
	ID                       int64           `json:"id"`
	OfferID                  string          `json:"offerId"`
	OfferName                string          `json:"offerName"`
	Price                    decimal.Decimal `json:"price"`
	BuyerPrice               decimal.Decimal `json:"buyerPrice"`
	BuyerPriceBeforeDiscount decimal.Decimal `json:"buyerPriceBeforeDiscount"`
	VAT                      string          `json:"vat"`
	Count                    int             `json:"count"`
}

// Order is one raw campaign order.
type Order struct {
	ID           int64       `json:"id"`
	CreationDate string      `json:"creationDate"`
	Items        []OrderItem `json:"items"`
}

// Offer carries the canonical product identity of an offer mapping.
type Offer struct {
	OfferID    string   `json:"offerId"`
	Name       string   `json:"name"`
	Vendor     string   `json:"vendor"`
	VendorCode string   `json:"vendorCode"`
	Barcodes   []string `json:"barcodes"`
}

// OfferMapping is one raw entry of the business offer-mappings listing.
type OfferMapping struct {
	Offer Offer `json:"offer"`
}

// Warehouse is one raw FBY warehouse.
type Warehouse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
