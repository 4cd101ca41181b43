package config

import "net/http"

// NewHTTPClient builds the pooled outbound client shared by one report
// run. Every run creates its own client; nothing is reused across
// requests to the service.
func NewHTTPClient(cfg ClientConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:    cfg.ConnectionPool.MaxIdleConns,
			MaxConnsPerHost: cfg.ConnectionPool.MaxConnsPerHost,
			IdleConnTimeout: cfg.ConnectionPool.IdleConnTimeout,
		},
	}
}
