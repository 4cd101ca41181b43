package report

import "marketflow/models"

// Tables holds the six normalized row tables of one report run, one per
// sheet of the workbook.
type Tables struct {
	WBOrders     []models.WBOrderRow
	OzonOrders   []models.OzonOrderRow
	YandexOrders []models.YandexOrderRow
	WBStocks     []models.WBStockRow
	OzonStocks   []models.OzonStockRow
	YandexStocks []models.YandexStockRow
}
