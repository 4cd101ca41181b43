package report

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"marketflow/models"
)

func sampleTables() Tables {
	barcode := "4600000000017"
	return Tables{
		WBOrders: []models.WBOrderRow{{
			Date:            time.Date(2024, 3, 5, 11, 0, 0, 0, time.UTC),
			WarehouseName:   "Koledino",
			NmID:            12345,
			Barcode:         "4600000000017",
			TotalPrice:      decimal.NewFromFloat(100.5),
			IsCancel:        false,
			PA:              "WB1",
		}},
		OzonOrders: []models.OzonOrderRow{{
			CreatedAt:     "2024-03-05T10:00:00Z",
			OrderID:       7,
			PostingNumber: "FBO-1",
			OfferID:       "A",
			SKU:           11,
			Price:         decimal.NewFromFloat(99.9),
			Quantity:      2,
			PA:            "OZ1",
			Barcode:       &barcode,
		}},
		YandexOrders: []models.YandexOrderRow{{
			CreationDate: "05-03-2024",
			OrderID:      1,
			ItemID:       10,
			OfferID:      "A",
			Count:        1,
			PA:           "YM1",
		}},
		WBStocks: []models.WBStockRow{{
			WarehouseName: "Koledino",
			NmID:          12345,
			Quantity:      3,
			PA:            "WB1",
		}},
		OzonStocks: []models.OzonStockRow{{
			OfferID:             "A",
			SKU:                 11,
			AvailableStockCount: 4,
			WarehouseID:         301,
			PA:                  "OZ1",
		}},
		YandexStocks: []models.YandexStockRow{{
			WarehouseID: 301,
			OfferID:     "A",
			Type:        "AVAILABLE",
			Count:       7,
			PA:          "YM1",
		}},
	}
}

func openWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestBuildSheetOrder(t *testing.T) {
	buf, err := Build(sampleTables())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	f := openWorkbook(t, buf)

	want := []string{
		SheetWBOrders, SheetOzonOrders, SheetYandexOrders,
		SheetWBStocks, SheetOzonStocks, SheetYandexStocks,
	}
	got := f.GetSheetList()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sheet list = %v, want %v", got, want)
	}
}

func TestBuildCellValues(t *testing.T) {
	buf, err := Build(sampleTables())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	f := openWorkbook(t, buf)

	checks := []struct {
		sheet, cell, want string
	}{
		{SheetWBOrders, "A1", "date"},
		{SheetWBOrders, "A2", "2024-03-05T11:00:00"},
		{SheetWBOrders, "H2", "12345"},
		{SheetWBOrders, "Q2", "100.5"},
		{SheetWBOrders, "AB2", "WB1"},
		{SheetOzonOrders, "A1", "created_at"},
		{SheetOzonOrders, "D2", "FBO-1"},
		{SheetOzonOrders, "K2", "4600000000017"},
		{SheetYandexOrders, "A2", "05-03-2024"},
		{SheetYandexOrders, "L2", ""},
		{SheetWBStocks, "F2", "3"},
		{SheetOzonStocks, "E2", "301"},
		{SheetYandexStocks, "D2", "AVAILABLE"},
	}
	for _, c := range checks {
		got, err := f.GetCellValue(c.sheet, c.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s!%s) failed: %v", c.sheet, c.cell, err)
		}
		if got != c.want {
			t.Errorf("%s!%s = %q, want %q", c.sheet, c.cell, got, c.want)
		}
	}
}

func TestBuildEmptyTablesKeepHeaders(t *testing.T) {
	buf, err := Build(Tables{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	f := openWorkbook(t, buf)

	if n := len(f.GetSheetList()); n != 6 {
		t.Fatalf("expected 6 sheets, got %d", n)
	}
	rows, err := f.GetRows(SheetOzonStocks)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header row only, got %d rows", len(rows))
	}
	if rows[0][0] != "name" || rows[0][len(rows[0])-1] != "barcode" {
		t.Errorf("unexpected header: %v", rows[0])
	}
}

// Two builds of the same tables must agree cell for cell. The raw bytes
// differ because the container embeds creation timestamps, so the
// comparison reads the sheets back.
func TestBuildIdempotentContents(t *testing.T) {
	tables := sampleTables()
	first, err := Build(tables)
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	second, err := Build(tables)
	if err != nil {
		t.Fatalf("second Build failed: %v", err)
	}

	f1 := openWorkbook(t, first)
	f2 := openWorkbook(t, second)
	for _, sheet := range f1.GetSheetList() {
		rows1, err := f1.GetRows(sheet)
		if err != nil {
			t.Fatalf("GetRows(%s) failed: %v", sheet, err)
		}
		rows2, err := f2.GetRows(sheet)
		if err != nil {
			t.Fatalf("GetRows(%s) failed: %v", sheet, err)
		}
		if !reflect.DeepEqual(rows1, rows2) {
			t.Errorf("sheet %s differs between builds", sheet)
		}
	}
}
