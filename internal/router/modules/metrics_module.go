package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsModule exposes Prometheus metrics, rate-limited per IP.
type MetricsModule struct {
	Gatherer prometheus.Gatherer
	Limits   Limits
}

func NewMetricsModule(g prometheus.Gatherer, limits Limits) *MetricsModule {
	return &MetricsModule{Gatherer: g, Limits: limits}
}

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	h := promhttp.HandlerFor(m.Gatherer, promhttp.HandlerOpts{})
	rg.GET("/metrics", m.Limits.PerIP(120), gin.WrapH(h))
}
