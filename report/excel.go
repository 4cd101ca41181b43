// Package report renders the aggregated marketplace tables into a
// six-sheet XLSX workbook.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"marketflow/models"
)

// Filename is the attachment name of the rendered workbook.
const Filename = "orders_and_stocks.xlsx"

// ContentType is the MIME type of an XLSX workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	SheetWBOrders     = "WB_orders"
	SheetOzonOrders   = "OZON_orders"
	SheetYandexOrders = "YANDEX_orders"
	SheetWBStocks     = "WB_stocks"
	SheetOzonStocks   = "OZON_stocks"
	SheetYandexStocks = "YANDEX_stocks"
)

const cellTimeLayout = "2006-01-02T15:04:05"

// Build renders the tables into a workbook. The sheet order and the
// column order inside every sheet are fixed; empty tables still produce
// their sheet with the header row.
func Build(t Tables) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeWBOrders(f, t.WBOrders); err != nil {
		return nil, err
	}
	if err := writeOzonOrders(f, t.OzonOrders); err != nil {
		return nil, err
	}
	if err := writeYandexOrders(f, t.YandexOrders); err != nil {
		return nil, err
	}
	if err := writeWBStocks(f, t.WBStocks); err != nil {
		return nil, err
	}
	if err := writeOzonStocks(f, t.OzonStocks); err != nil {
		return nil, err
	}
	if err := writeYandexStocks(f, t.YandexStocks); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(SheetWBOrders)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf, nil
}

func writeSheet(f *excelize.File, name string, header []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	hdr := make([]interface{}, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &hdr); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

// dec converts money to a numeric cell value.
func dec(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// ts renders a coerced timestamp; the zero time becomes an empty cell.
func ts(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(cellTimeLayout)
}

// strp renders an optional join result; nil becomes an empty cell.
func strp(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func writeWBOrders(f *excelize.File, rows []models.WBOrderRow) error {
	header := []string{
		"date", "lastChangeDate", "warehouseName", "countryName",
		"oblastOkrugName", "regionName", "supplierArticle", "nmId",
		"barcode", "category", "subject", "brand", "techSize", "incomeID",
		"isSupply", "isRealization", "totalPrice", "discountPercent",
		"spp", "finishedPrice", "priceWithDisc", "isCancel", "cancelDate",
		"orderType", "sticker", "gNumber", "srid", "PA",
	}
	cells := make([][]interface{}, len(rows))
	for i, r := range rows {
		cells[i] = []interface{}{
			ts(r.Date), ts(r.LastChangeDate), r.WarehouseName, r.CountryName,
			r.OblastOkrugName, r.RegionName, r.SupplierArticle, r.NmID,
			r.Barcode, r.Category, r.Subject, r.Brand, r.TechSize, r.IncomeID,
			r.IsSupply, r.IsRealization, dec(r.TotalPrice), dec(r.DiscountPercent),
			dec(r.Spp), dec(r.FinishedPrice), dec(r.PriceWithDisc), r.IsCancel,
			ts(r.CancelDate), r.OrderType, r.Sticker, r.GNumber, r.Srid, r.PA,
		}
	}
	return writeSheet(f, SheetWBOrders, header, cells)
}

func writeWBStocks(f *excelize.File, rows []models.WBStockRow) error {
	header := []string{
		"lastChangeDate", "warehouseName", "supplierArticle", "nmId",
		"barcode", "quantity", "inWayToClient", "inWayFromClient",
		"quantityFull", "category", "subject", "brand", "techSize",
		"Price", "Discount", "isSupply", "isRealization", "SCCode", "PA",
	}
	cells := make([][]interface{}, len(rows))
	for i, r := range rows {
		cells[i] = []interface{}{
			ts(r.LastChangeDate), r.WarehouseName, r.SupplierArticle, r.NmID,
			r.Barcode, r.Quantity, r.InWayToClient, r.InWayFromClient,
			r.QuantityFull, r.Category, r.Subject, r.Brand, r.TechSize,
			dec(r.Price), dec(r.Discount), r.IsSupply, r.IsRealization,
			r.SCCode, r.PA,
		}
	}
	return writeSheet(f, SheetWBStocks, header, cells)
}

func writeOzonOrders(f *excelize.File, rows []models.OzonOrderRow) error {
	header := []string{
		"created_at", "order_id", "order_number", "posting_number", "name",
		"offer_id", "sku", "price", "quantity", "PA", "barcode",
	}
	cells := make([][]interface{}, len(rows))
	for i, r := range rows {
		cells[i] = []interface{}{
			r.CreatedAt, r.OrderID, r.OrderNumber, r.PostingNumber, r.Name,
			r.OfferID, r.SKU, dec(r.Price), r.Quantity, r.PA, strp(r.Barcode),
		}
	}
	return writeSheet(f, SheetOzonOrders, header, cells)
}

func writeOzonStocks(f *excelize.File, rows []models.OzonStockRow) error {
	header := []string{
		"name", "offer_id", "sku", "available_stock_count", "warehouse_id",
		"warehouse_name", "cluster_id", "PA", "barcode",
	}
	cells := make([][]interface{}, len(rows))
	for i, r := range rows {
		cells[i] = []interface{}{
			r.Name, r.OfferID, r.SKU, r.AvailableStockCount, r.WarehouseID,
			r.WarehouseName, r.ClusterID, r.PA, strp(r.Barcode),
		}
	}
	return writeSheet(f, SheetOzonStocks, header, cells)
}

func writeYandexOrders(f *excelize.File, rows []models.YandexOrderRow) error {
	header := []string{
		"creationDate", "order_id", "item_id", "offerId", "offerName",
		"price", "buyerPrice", "buyerPriceBeforeDiscount", "vat", "count",
		"PA", "barcode",
	}
	cells := make([][]interface{}, len(rows))
	for i, r := range rows {
		cells[i] = []interface{}{
			r.CreationDate, r.OrderID, r.ItemID, r.OfferID, r.OfferName,
			dec(r.Price), dec(r.BuyerPrice), dec(r.BuyerPriceBeforeDiscount),
			r.VAT, r.Count, r.PA, strp(r.Barcode),
		}
	}
	return writeSheet(f, SheetYandexOrders, header, cells)
}

func writeYandexStocks(f *excelize.File, rows []models.YandexStockRow) error {
	header := []string{
		"warehouseId", "offerId", "updatedAt", "type", "count", "PA", "barcode",
	}
	cells := make([][]interface{}, len(rows))
	for i, r := range rows {
		cells[i] = []interface{}{
			r.WarehouseID, r.OfferID, r.UpdatedAt, r.Type, r.Count, r.PA,
			strp(r.Barcode),
		}
	}
	return writeSheet(f, SheetYandexStocks, header, cells)
}
