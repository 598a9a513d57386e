package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const prometheusNamespace = "statuspond"

var (
	connectedSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: prometheusNamespace,
		Name:      "stream_subscribers",
		Help:      "Currently connected stream subscribers",
	})

	statusEntriesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: prometheusNamespace,
		Name:      "status_entries_saved_total",
		Help:      "Status log entries accepted and stored",
	})
)
