package wb

import "github.com/shopspring/decimal"

// Order is one raw order record from the supplier statistics feed.
// Date fields stay strings here; coercion to time.Time happens in the
// processor.
type Order struct {
	Date            string          `json:"date"`
	LastChangeDate  string          `json:"lastChangeDate"`
	WarehouseName   string          `json:"warehouseName"`
	CountryName     string          `json:"countryName"`
	OblastOkrugName string          `json:"oblastOkrugName"`
	RegionName      string          `json:"regionName"`
	SupplierArticle string          `json:"supplierArticle"`
	NmID            int64           `json:"nmId"`
	Barcode         string          `json:"barcode"`
	Category        string          `json:"category"`
	Subject         string          `json:"subject"`
	Brand           string          `json:"brand"`
	TechSize        string          `json:"techSize"`
	IncomeID        int64           `json:"incomeID"`
	IsSupply        bool            `json:"isSupply"`
	IsRealization   bool            `json:"isRealization"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	Spp             decimal.Decimal `json:"spp"`
	FinishedPrice   decimal.Decimal `json:"finishedPrice"`
	PriceWithDisc   decimal.Decimal `json:"priceWithDisc"`
	IsCancel        bool            `json:"isCancel"`
	CancelDate      string          `json:"cancelDate"`
	OrderType       string          `json:"orderType"`
	Sticker         string          `json:"sticker"`
	GNumber         string          `json:"gNumber"`
	Srid            string          `json:"srid"`
}

// Stock is one raw warehouse stock record.
type Stock struct {
	LastChangeDate  string          `json:"lastChangeDate"`
	WarehouseName   string          `json:"warehouseName"`
	SupplierArticle string          `json:"supplierArticle"`
	NmID            int64           `json:"nmId"`
	Barcode         string          `json:"barcode"`
	Quantity        int             `json:"quantity"`
	InWayToClient   int             `json:"inWayToClient"`
	InWayFromClient int             `json:"inWayFromClient"`
	QuantityFull    int             `json:"quantityFull"`
	Category        string          `json:"category"`
	Subject         string          `json:"subject"`
	Brand           string          `json:"brand"`
	TechSize        string          `json:"techSize"`
	Price           decimal.Decimal `json:"Price"`
	Discount        decimal.Decimal `json:"Discount"`
	IsSupply        bool            `json:"isSupply"`
	IsRealization   bool            `json:"isRealization"`
	SCCode          string          `json:"SCCode"`
}
