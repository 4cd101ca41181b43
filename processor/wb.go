// Package processor turns raw marketplace records into the normalized
// row tables of the report. Every function degrades to an empty table
// when its fetch fails, recording the failure instead of raising it, so
// one broken account never takes down the run.
package processor

import (
	"context"
	"time"

	"marketflow/api/wb"
	"marketflow/config"
	"marketflow/logger"
	"marketflow/metrics"
	"marketflow/models"
)

// wbTimeLayouts are the datetime shapes the statistics feed is known to
// emit. Values matching none of them coerce to the zero time.
var wbTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func coerceTime(s string) time.Time {
	for _, layout := range wbTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func failure(marketplace, account, resource string, err error) []models.FetchFailure {
	metrics.FetchFailure(marketplace, resource)
	return []models.FetchFailure{{Marketplace: marketplace, Account: account, Resource: resource, Err: err}}
}

// WBOrders fetches and normalizes Wildberries orders for one account.
func WBOrders(ctx context.Context, client *wb.Client, account config.WildberriesAccount) ([]models.WBOrderRow, []models.FetchFailure) {
	log := logger.GetLogger().WithComponent("wb_processor").WithFields(logger.Fields{"pa": account.PA})

	orders, err := client.Orders(ctx, "", 0)
	if err != nil {
		log.WithError(err).Error("failed to fetch orders")
		return nil, failure("wildberries", account.PA, "orders", err)
	}
	if len(orders) == 0 {
		log.Warn("no orders returned")
		return nil, nil
	}

	rows := make([]models.WBOrderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, models.WBOrderRow{
			Date:            coerceTime(o.Date),
			LastChangeDate:  coerceTime(o.LastChangeDate),
			WarehouseName:   o.WarehouseName,
			CountryName:     o.CountryName,
			OblastOkrugName: o.OblastOkrugName,
			RegionName:      o.RegionName,
			SupplierArticle: o.SupplierArticle,
			NmID:            o.NmID,
			Barcode:         o.Barcode,
			Category:        o.Category,
			Subject:         o.Subject,
			Brand:           o.Brand,
			TechSize:        o.TechSize,
			IncomeID:        o.IncomeID,
			IsSupply:        o.IsSupply,
			IsRealization:   o.IsRealization,
			TotalPrice:      o.TotalPrice,
			DiscountPercent: o.DiscountPercent,
			Spp:             o.Spp,
			FinishedPrice:   o.FinishedPrice,
			PriceWithDisc:   o.PriceWithDisc,
			IsCancel:        o.IsCancel,
			CancelDate:      coerceTime(o.CancelDate),
			OrderType:       o.OrderType,
			Sticker:         o.Sticker,
			GNumber:         o.GNumber,
			Srid:            o.Srid,
			PA:              account.PA,
		})
	}

	log.WithFields(logger.Fields{"rows": len(rows)}).Info("orders loaded")
	return rows, nil
}

// WBStocks fetches and normalizes Wildberries stocks for one account.
func WBStocks(ctx context.Context, client *wb.Client, account config.WildberriesAccount) ([]models.WBStockRow, []models.FetchFailure) {
	log := logger.GetLogger().WithComponent("wb_processor").WithFields(logger.Fields{"pa": account.PA})

	stocks, err := client.Stocks(ctx, "")
	if err != nil {
		log.WithError(err).Error("failed to fetch stocks")
		return nil, failure("wildberries", account.PA, "stocks", err)
	}
	if len(stocks) == 0 {
		log.Warn("no stocks returned")
		return nil, nil
	}

	rows := make([]models.WBStockRow, 0, len(stocks))
	for _, s := range stocks {
		rows = append(rows, models.WBStockRow{
			LastChangeDate:  coerceTime(s.LastChangeDate),
			WarehouseName:   s.WarehouseName,
			SupplierArticle: s.SupplierArticle,
			NmID:            s.NmID,
			Barcode:         s.Barcode,
			Quantity:        s.Quantity,
			InWayToClient:   s.InWayToClient,
			InWayFromClient: s.InWayFromClient,
			QuantityFull:    s.QuantityFull,
			Category:        s.Category,
			Subject:         s.Subject,
			Brand:           s.Brand,
			TechSize:        s.TechSize,
			Price:           s.Price,
			Discount:        s.Discount,
			IsSupply:        s.IsSupply,
			IsRealization:   s.IsRealization,
			SCCode:          s.SCCode,
			PA:              account.PA,
		})
	}

	log.WithFields(logger.Fields{"rows": len(rows)}).Info("stocks loaded")
	return rows, nil
}
