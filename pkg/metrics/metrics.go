// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/labstack/echo/v4"
)

var (
	EmailsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amanos_emails_sent_total",
		Help: "Notification emails delivered to the mail provider.",
	})

	EmailsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amanos_emails_failed_total",
		Help: "Notification emails that failed to send.",
	})

	FeedConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "amanos_feed_connections",
		Help: "Open alert feed websocket connections.",
	})

	ItemClaims = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amanos_item_claims_total",
		Help: "Successful crisis item claims.",
	})
)

// Handler returns the /metrics endpoint.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
