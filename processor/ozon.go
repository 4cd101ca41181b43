package processor

import (
	"context"
	"sync"
	"time"

	"marketflow/api/ozon"
	"marketflow/config"
	"marketflow/logger"
	"marketflow/models"
)

// OzonInfo fetches product attributes for one account and normalizes
// them into the barcode mapping table.
func OzonInfo(ctx context.Context, client *ozon.Client, account config.OzonAccount) ([]models.OzonInfoRow, []models.FetchFailure) {
	log := logger.GetLogger().WithComponent("ozon_processor").WithFields(logger.Fields{"pa": account.PA})

	attrs, err := client.ProductInfoAttributes(ctx, ozon.AttributesFilter{})
	if err != nil {
		log.WithError(err).Error("failed to fetch product attributes")
		return nil, failure("ozon", account.PA, "info", err)
	}
	if len(attrs) == 0 {
		log.Warn("no product attributes returned")
		return nil, nil
	}

	rows := make([]models.OzonInfoRow, 0, len(attrs))
	for _, p := range attrs {
		rows = append(rows, models.OzonInfoRow{
			Barcode:   p.Barcode,
			OfferID:   p.OfferID,
			SKU:       p.SKU,
			ProductID: p.ID,
			PA:        account.PA,
		})
	}

	log.WithFields(logger.Fields{"rows": len(rows)}).Info("product attributes loaded")
	return rows, nil
}

// OzonOrders fetches FBO and FBS postings for one account concurrently
// and explodes each posting into one row per product line.
func OzonOrders(ctx context.Context, client *ozon.Client, account config.OzonAccount) ([]models.OzonOrderRow, []models.FetchFailure) {
	log := logger.GetLogger().WithComponent("ozon_processor").WithFields(logger.Fields{"pa": account.PA})

	var (
		fbo, fbs       []ozon.Posting
		fboErr, fbsErr error
		wg             sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		fbo, fboErr = client.PostingFBOList(ctx, time.Time{}, time.Time{})
	}()
	go func() {
		defer wg.Done()
		fbs, fbsErr = client.PostingFBSList(ctx, time.Time{}, time.Time{}, 0)
	}()
	wg.Wait()

	var failures []models.FetchFailure
	if fboErr != nil {
		log.WithError(fboErr).Error("failed to fetch fbo postings")
		failures = append(failures, failure("ozon", account.PA, "orders_fbo", fboErr)...)
	}
	if fbsErr != nil {
		log.WithError(fbsErr).Error("failed to fetch fbs postings")
		failures = append(failures, failure("ozon", account.PA, "orders_fbs", fbsErr)...)
	}
	if len(fbo) == 0 && fboErr == nil {
		log.Warn("no fbo postings returned")
	}
	if len(fbs) == 0 && fbsErr == nil {
		log.Warn("no fbs postings returned")
	}

	rows := explodePostings(fbo, false, account.PA)
	rows = append(rows, explodePostings(fbs, true, account.PA)...)
	log.WithFields(logger.Fields{"rows": len(rows)}).Info("orders loaded")
	return rows, failures
}

// explodePostings yields one row per product line of each posting. FBS
// postings carry their timestamp in in_process_at instead of
// created_at.
func explodePostings(postings []ozon.Posting, fbs bool, pa string) []models.OzonOrderRow {
	var rows []models.OzonOrderRow
	for _, p := range postings {
		createdAt := p.CreatedAt
		if fbs {
			createdAt = p.InProcessAt
		}
		for _, product := range p.Products {
			rows = append(rows, models.OzonOrderRow{
				CreatedAt:     createdAt,
				OrderID:       p.OrderID,
				OrderNumber:   p.OrderNumber,
				PostingNumber: p.PostingNumber,
				Name:          product.Name,
				OfferID:       product.OfferID,
				SKU:           product.SKU,
				Price:         product.Price,
				Quantity:      product.Quantity,
				PA:            pa,
			})
		}
	}
	return rows
}

// OzonStocks fetches analytics stocks for one account, filtered to the
// provided SKU list.
func OzonStocks(ctx context.Context, client *ozon.Client, account config.OzonAccount, skus []string) ([]models.OzonStockRow, []models.FetchFailure) {
	log := logger.GetLogger().WithComponent("ozon_processor").WithFields(logger.Fields{"pa": account.PA, "skus": len(skus)})

	stocks, err := client.AnalyticsStocks(ctx, skus)
	if err != nil {
		log.WithError(err).Error("failed to fetch analytics stocks")
		return nil, failure("ozon", account.PA, "stocks", err)
	}
	if len(stocks) == 0 {
		log.Warn("no analytics stocks returned")
		return nil, nil
	}

	rows := make([]models.OzonStockRow, 0, len(stocks))
	for _, item := range stocks {
		rows = append(rows, models.OzonStockRow{
			Name:                item.Name,
			OfferID:             item.OfferID,
			SKU:                 item.SKU,
			AvailableStockCount: item.AvailableStockCount,
			WarehouseID:         item.WarehouseID,
			WarehouseName:       item.WarehouseName,
			ClusterID:           item.ClusterID,
			PA:                  account.PA,
		})
	}

	log.WithFields(logger.Fields{"rows": len(rows)}).Info("analytics stocks loaded")
	return rows, nil
}
