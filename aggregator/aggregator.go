// Package aggregator runs the report pipeline: it fans out to every
// configured marketplace account, normalizes the responses, joins the
// barcode mappings, and hands the finished tables to the exporter.
package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"marketflow/api/ozon"
	"marketflow/api/wb"
	"marketflow/api/yandex"
	"marketflow/config"
	"marketflow/logger"
	"marketflow/metrics"
	"marketflow/models"
	"marketflow/processor"
	"marketflow/report"
)

// Result is the outcome of one pipeline run. Failures lists every
// per-account fetch that degraded to an empty table; the run itself is
// still considered complete.
type Result struct {
	RunID    string
	Tables   report.Tables
	Failures []models.FetchFailure
}

// Option adjusts an Aggregator, used by tests to point clients at local
// servers.
type Option func(*Aggregator)

func WithWBBaseURL(u string) Option {
	return func(a *Aggregator) { a.wbBaseURL = u }
}

func WithOzonBaseURL(u string) Option {
	return func(a *Aggregator) { a.ozonBaseURL = u }
}

func WithYandexBaseURL(u string) Option {
	return func(a *Aggregator) { a.yandexBaseURL = u }
}

// Aggregator builds report tables from the configured accounts. It is
// safe for concurrent use; every Run builds its own HTTP client and
// API clients.
type Aggregator struct {
	cfg *config.Config

	wbBaseURL     string
	ozonBaseURL   string
	yandexBaseURL string
}

func New(cfg *config.Config, opts ...Option) *Aggregator {
	a := &Aggregator{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// clientSet holds the per-account API clients of one run, in
// configuration order. One rate limiter per marketplace is shared by
// that marketplace's accounts.
type clientSet struct {
	wb     []*wb.Client
	ozon   []*ozon.Client
	yandex []*yandex.Client
}

func (a *Aggregator) newClientSet() *clientSet {
	httpClient := config.NewHTTPClient(a.cfg.Client)
	newLimiter := func() *rate.Limiter {
		return rate.NewLimiter(
			rate.Limit(a.cfg.Client.RateLimit.RequestsPerSecond),
			a.cfg.Client.RateLimit.BurstSize,
		)
	}

	set := &clientSet{}
	wbLimiter := newLimiter()
	for _, account := range a.cfg.Accounts.Wildberries {
		c := wb.NewClient(account, httpClient, wbLimiter)
		if a.wbBaseURL != "" {
			c = c.WithBaseURL(a.wbBaseURL)
		}
		set.wb = append(set.wb, c)
	}
	ozonLimiter := newLimiter()
	for _, account := range a.cfg.Accounts.Ozon {
		c := ozon.NewClient(account, httpClient, ozonLimiter)
		if a.ozonBaseURL != "" {
			c = c.WithBaseURL(a.ozonBaseURL)
		}
		set.ozon = append(set.ozon, c)
	}
	yandexLimiter := newLimiter()
	for _, account := range a.cfg.Accounts.Yandex {
		c := yandex.NewClient(account, httpClient, yandexLimiter)
		if a.yandexBaseURL != "" {
			c = c.WithBaseURL(a.yandexBaseURL)
		}
		set.yandex = append(set.yandex, c)
	}
	return set
}

// Run executes one full pipeline: mappings first, then orders, then
// stocks, each stage fanning out across accounts. Fetch failures never
// abort the run; they degrade to empty tables and are reported in the
// result. The only returned error is context cancellation.
func (a *Aggregator) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	log := logger.GetLogger().WithComponent("aggregator").WithFields(logger.Fields{"run_id": runID})
	start := time.Now()
	log.WithFields(logger.Fields{
		"wb_accounts":     len(a.cfg.Accounts.Wildberries),
		"ozon_accounts":   len(a.cfg.Accounts.Ozon),
		"yandex_accounts": len(a.cfg.Accounts.Yandex),
	}).Info("pipeline run started")

	clients := a.newClientSet()
	accounts := a.cfg.Accounts

	var (
		failMu   sync.Mutex
		failures []models.FetchFailure
	)
	collect := func(fs []models.FetchFailure) {
		if len(fs) == 0 {
			return
		}
		failMu.Lock()
		failures = append(failures, fs...)
		failMu.Unlock()
	}

	// Stage 1: identity mappings and warehouse lists. The Ozon mapping
	// also feeds the SKU filter of the stocks stage, so this stage runs
	// to completion first.
	ozonInfo := make([][]models.OzonInfoRow, len(accounts.Ozon))
	yandexInfo := make([][]models.YandexInfoRow, len(accounts.Yandex))
	yandexWarehouses := make([][]models.YandexWarehouseRow, len(accounts.Yandex))
	var wg sync.WaitGroup
	for i := range accounts.Ozon {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rows, fs := processor.OzonInfo(ctx, clients.ozon[i], accounts.Ozon[i])
			ozonInfo[i] = rows
			collect(fs)
		}(i)
	}
	for i := range accounts.Yandex {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			rows, fs := processor.YandexInfo(ctx, clients.yandex[i], accounts.Yandex[i])
			yandexInfo[i] = rows
			collect(fs)
		}(i)
		go func(i int) {
			defer wg.Done()
			rows, fs := processor.YandexWarehouses(ctx, clients.yandex[i], accounts.Yandex[i])
			yandexWarehouses[i] = rows
			collect(fs)
		}(i)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ozonMappings := models.Dedup(models.Concat(ozonInfo))
	yandexMappings := models.Dedup(models.Concat(yandexInfo))
	warehouses := models.Dedup(models.Concat(yandexWarehouses))
	skus := ozonSKUList(ozonMappings)

	// Stage 2: orders.
	wbOrders := make([][]models.WBOrderRow, len(accounts.Wildberries))
	ozonOrders := make([][]models.OzonOrderRow, len(accounts.Ozon))
	yandexOrders := make([][]models.YandexOrderRow, len(accounts.Yandex))
	for i := range accounts.Wildberries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rows, fs := processor.WBOrders(ctx, clients.wb[i], accounts.Wildberries[i])
			wbOrders[i] = rows
			collect(fs)
		}(i)
	}
	for i := range accounts.Ozon {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rows, fs := processor.OzonOrders(ctx, clients.ozon[i], accounts.Ozon[i])
			ozonOrders[i] = rows
			collect(fs)
		}(i)
	}
	for i := range accounts.Yandex {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rows, fs := processor.YandexOrders(ctx, clients.yandex[i], accounts.Yandex[i])
			yandexOrders[i] = rows
			collect(fs)
		}(i)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: stocks.
	wbStocks := make([][]models.WBStockRow, len(accounts.Wildberries))
	ozonStocks := make([][]models.OzonStockRow, len(accounts.Ozon))
	yandexStocks := make([][]models.YandexStockRow, len(accounts.Yandex))
	for i := range accounts.Wildberries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rows, fs := processor.WBStocks(ctx, clients.wb[i], accounts.Wildberries[i])
			wbStocks[i] = rows
			collect(fs)
		}(i)
	}
	for i := range accounts.Ozon {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rows, fs := processor.OzonStocks(ctx, clients.ozon[i], accounts.Ozon[i], skus)
			ozonStocks[i] = rows
			collect(fs)
		}(i)
	}
	for i := range accounts.Yandex {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rows, fs := processor.YandexStocks(ctx, clients.yandex[i], accounts.Yandex[i])
			yandexStocks[i] = rows
			collect(fs)
		}(i)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tables := report.Tables{
		WBOrders:     models.Concat(wbOrders),
		OzonOrders:   models.Concat(ozonOrders),
		YandexOrders: models.Concat(yandexOrders),
		WBStocks:     models.Concat(wbStocks),
		OzonStocks:   models.Concat(ozonStocks),
		YandexStocks: filterYandexStocks(models.Concat(yandexStocks), warehouses),
	}

	ozonIdx := ozonBarcodeIndex(ozonMappings)
	yandexIdx := yandexBarcodeIndex(yandexMappings)
	enrichOzonOrders(tables.OzonOrders, ozonIdx)
	enrichOzonStocks(tables.OzonStocks, ozonIdx)
	enrichYandexOrders(tables.YandexOrders, yandexIdx)
	enrichYandexStocks(tables.YandexStocks, yandexIdx)

	elapsed := time.Since(start)
	metrics.PipelineRun(elapsed)
	log.WithFields(logger.Fields{
		"duration_ms": elapsed.Milliseconds(),
		"failures":    len(failures),
		"wb_orders":   len(tables.WBOrders),
		"ozon_orders": len(tables.OzonOrders),
		"ym_orders":   len(tables.YandexOrders),
	}).Info("pipeline run finished")

	return &Result{RunID: runID, Tables: tables, Failures: failures}, nil
}
