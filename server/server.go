// Package server exposes the report over HTTP.
package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marketflow/aggregator"
	"marketflow/config"
	"marketflow/logger"
	"marketflow/report"
)

// New builds the HTTP engine with all routes registered.
func New(agg *aggregator.Aggregator) *gin.Engine {
	if config.IsProductionLike(config.AppEnvironment()) {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/v1/download/excel-MP-report", downloadReport(agg))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return engine
}

// downloadReport runs one full pipeline synchronously and streams the
// workbook back. Per-source fetch failures do not fail the request;
// their sources are listed in the X-Failed-Sources header instead.
func downloadReport(agg *aggregator.Aggregator) gin.HandlerFunc {
	log := logger.GetLogger().WithComponent("server")

	return func(c *gin.Context) {
		result, err := agg.Run(c.Request.Context())
		if err != nil {
			log.WithError(err).Error("report pipeline failed")
			c.String(http.StatusInternalServerError, "report generation failed")
			return
		}

		buf, err := report.Build(result.Tables)
		if err != nil {
			log.WithError(err).WithFields(logger.Fields{"run_id": result.RunID}).Error("workbook build failed")
			c.String(http.StatusInternalServerError, "report generation failed")
			return
		}

		if len(result.Failures) > 0 {
			sources := make([]string, 0, len(result.Failures))
			for _, f := range result.Failures {
				sources = append(sources, f.Source())
			}
			c.Header("X-Failed-Sources", strings.Join(sources, ","))
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", report.Filename))
		c.Data(http.StatusOK, report.ContentType, buf.Bytes())
	}
}
