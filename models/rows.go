// Package models defines the normalized row types produced by the
// per-marketplace processors. Each row is one line of the final report;
// every row carries the PA label of the account it came from.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WBOrderRow is one Wildberries order line from the supplier statistics
// feed. Dates are coerced from the feed's string representation; values
// that fail to parse stay at the zero time.
type WBOrderRow struct {
	Date            time.Time
	LastChangeDate  time.Time
	WarehouseName   string
	CountryName     string
	OblastOkrugName string
	RegionName      string
	SupplierArticle string
	NmID            int64
	Barcode         string
	Category        string
	Subject         string
	Brand           string
	TechSize        string
	IncomeID        int64
	IsSupply        bool
	IsRealization   bool
	TotalPrice      decimal.Decimal
	DiscountPercent decimal.Decimal
	Spp             decimal.Decimal
	FinishedPrice   decimal.Decimal
	PriceWithDisc   decimal.Decimal
	IsCancel        bool
	CancelDate      time.Time
	OrderType       string
	Sticker         string
	GNumber         string
	Srid            string
	PA              string
}

// WBStockRow is one Wildberries warehouse stock line.
type WBStockRow struct {
	LastChangeDate  time.Time
	WarehouseName   string
	SupplierArticle string
	NmID            int64
	Barcode         string
	Quantity        int
	InWayToClient   int
	InWayFromClient int
	QuantityFull    int
	Category        string
	Subject         string
	Brand           string
	TechSize        string
	Price           decimal.Decimal
	Discount        decimal.Decimal
	IsSupply        bool
	IsRealization   bool
	SCCode          string
	PA              string
}

// OzonInfoRow links an Ozon product to its canonical barcode. These rows
// form the right side of the Ozon barcode joins and the SKU filter for
// the analytics stocks fetch.
type OzonInfoRow struct {
	Barcode   string
	OfferID   string
	SKU       int64
	ProductID int64
	PA        string
}

// OzonOrderRow is one product line of an FBO or FBS posting. Barcode is
// filled by the join against OzonInfoRow; nil when the SKU has no
// mapping.
type OzonOrderRow struct {
	CreatedAt     string
	OrderID       int64
	OrderNumber   string
	PostingNumber string
	Name          string
	OfferID       string
	SKU           int64
	Price         decimal.Decimal
	Quantity      int
	PA            string
	Barcode       *string
}

// OzonStockRow is one analytics stock line per product and warehouse.
type OzonStockRow struct {
	Name                string
	OfferID             string
	SKU                 int64
	AvailableStockCount int
	WarehouseID         int64
	WarehouseName       string
	ClusterID           int64
	PA                  string
	Barcode             *string
}

// YandexInfoRow links a Yandex Market offer to its canonical identity.
type YandexInfoRow struct {
	OfferID    string
	Barcode    string
	Name       string
	Vendor     string
	VendorCode string
	PA         string
}

// YandexOrderRow is one item line of a Yandex Market order.
type YandexOrderRow struct {
	CreationDate             string
	OrderID                  int64
	ItemID                   int64
	OfferID                  string
	OfferName                string
	Price                    decimal.Decimal
	BuyerPrice               decimal.Decimal
	BuyerPriceBeforeDiscount decimal.Decimal
	VAT                      string
	Count                    int
	PA                       string
	Barcode                  *string
}

// YandexStockRow is one stock counter for an offer on a warehouse.
type YandexStockRow struct {
	WarehouseID int64
	OfferID     string
	UpdatedAt   string
	Type        string
	Count       int
	PA          string
	Barcode     *string
}

// YandexWarehouseRow is one FBY warehouse. The set of warehouse ids
// fetched in a run scopes that run's Yandex stock rows.
type YandexWarehouseRow struct {
	WarehouseID int64
	Name        string
	PA          string
}
