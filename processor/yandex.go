package processor

import (
	"context"

	"marketflow/api/yandex"
	"marketflow/config"
	"marketflow/logger"
	"marketflow/models"
)

// YandexInfo fetches offer mappings for one account and normalizes them
// into the identity table. The first barcode of a mapping is the
// canonical one.
func YandexInfo(ctx context.Context, client *yandex.Client, account config.YandexAccount) ([]models.YandexInfoRow, []models.FetchFailure) {
	log := logger.GetLogger().WithComponent("yandex_processor").WithFields(logger.Fields{"pa": account.PA})

	mappings, err := client.OfferMappings(ctx)
	var failures []models.FetchFailure
	if err != nil {
		log.WithError(err).Error("failed to fetch offer mappings")
		failures = failure("yandex", account.PA, "info", err)
	}
	if len(mappings) == 0 {
		if err == nil {
			log.Warn("no offer mappings returned")
		}
		return nil, failures
	}

	rows := make([]models.YandexInfoRow, 0, len(mappings))
	for _, m := range mappings {
		barcode := ""
		if len(m.Offer.Barcodes) > 0 {
			barcode = m.Offer.Barcodes[0]
		}
		rows = append(rows, models.YandexInfoRow{
			OfferID:    m.Offer.OfferID,
			Barcode:    barcode,
			Name:       m.Offer.Name,
			Vendor:     m.Offer.Vendor,
			VendorCode: m.Offer.VendorCode,
			PA:         account.PA,
		})
	}

	log.WithFields(logger.Fields{"rows": len(rows)}).Info("offer mappings loaded")
	return rows, failures
}

// YandexOrders fetches campaign orders for one account and explodes
// each order into one row per item.
func YandexOrders(ctx context.Context, client *yandex.Client, account config.YandexAccount) ([]models.YandexOrderRow, []models.FetchFailure) {
	log := logger.GetLogger().WithComponent("yandex_processor").WithFields(logger.Fields{"pa": account.PA})

	orders, err := client.Orders(ctx, "", "")
	var failures []models.FetchFailure
	if err != nil {
		log.WithError(err).Error("failed to fetch orders")
		failures = failure("yandex", account.PA, "orders", err)
	}
	if len(orders) == 0 {
		if err == nil {
			log.Warn("no orders returned")
		}
		return nil, failures
	}

	var rows []models.YandexOrderRow
	for _, o := range orders {
		for _, item := range o.Items {
			rows = append(rows, models.YandexOrderRow{
				CreationDate:             o.CreationDate,
				OrderID:                  o.ID,
				ItemID:                   item.ID,
				OfferID:                  item.OfferID,
				OfferName:                item.OfferName,
				Price:                    item.Price,
				BuyerPrice:               item.BuyerPrice,
				BuyerPriceBeforeDiscount: item.BuyerPriceBeforeDiscount,
				VAT:                      item.VAT,
				Count:                    item.Count,
				PA:                       account.PA,
			})
		}
	}

	log.WithFields(logger.Fields{"rows": len(rows)}).Info("orders loaded")
	return rows, failures
}

// YandexStocks fetches offer stocks for one account and explodes the
// warehouse/offer/counter nesting into one row per counter.
func YandexStocks(ctx context.Context, client *yandex.Client, account config.YandexAccount) ([]models.YandexStockRow, []models.FetchFailure) {
	log := logger.GetLogger().WithComponent("yandex_processor").WithFields(logger.Fields{"pa": account.PA})

	warehouses, err := client.OffersStocks(ctx)
	var failures []models.FetchFailure
	if err != nil {
		log.WithError(err).Error("failed to fetch offer stocks")
		failures = failure("yandex", account.PA, "stocks", err)
	}
	if len(warehouses) == 0 {
		if err == nil {
			log.Warn("no offer stocks returned")
		}
		return nil, failures
	}

	var rows []models.YandexStockRow
	for _, w := range warehouses {
		for _, offer := range w.Offers {
			for _, stock := range offer.Stocks {
				rows = append(rows, models.YandexStockRow{
					WarehouseID: w.WarehouseID,
					OfferID:     offer.OfferID,
					UpdatedAt:   offer.UpdatedAt,
					Type:        stock.Type,
					Count:       stock.Count,
					PA:          account.PA,
				})
			}
		}
	}

	log.WithFields(logger.Fields{"rows": len(rows)}).Info("offer stocks loaded")
	return rows, failures
}

// YandexWarehouses fetches the FBY warehouse list for one account.
func YandexWarehouses(ctx context.Context, client *yandex.Client, account config.YandexAccount) ([]models.YandexWarehouseRow, []models.FetchFailure) {
	log := logger.GetLogger().WithComponent("yandex_processor").WithFields(logger.Fields{"pa": account.PA})

	warehouses, err := client.Warehouses(ctx)
	if err != nil {
		log.WithError(err).Error("failed to fetch warehouses")
		return nil, failure("yandex", account.PA, "warehouses", err)
	}
	if len(warehouses) == 0 {
		log.Warn("no warehouses returned")
		return nil, nil
	}

	rows := make([]models.YandexWarehouseRow, 0, len(warehouses))
	for _, w := range warehouses {
		rows = append(rows, models.YandexWarehouseRow{
			WarehouseID: w.ID,
			Name:        w.Name,
			PA:          account.PA,
		})
	}

	log.WithFields(logger.Fields{"rows": len(rows)}).Info("warehouses loaded")
	return rows, nil
}
