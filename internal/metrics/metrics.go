// Package metrics holds the prometheus collectors shared by both front-ends.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	BotUpdates   *prometheus.CounterVec
	HTTPRequests *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BotUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postbot",
			Name:      "bot_updates_total",
			Help:      "Chat updates handled, by action and outcome.",
		}, []string{"action", "outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postbot",
			Name:      "http_requests_total",
			Help:      "Web requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.BotUpdates, m.HTTPRequests)
	return m
}
