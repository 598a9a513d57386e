package keepie

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const prometheusNamespace = "statuspond"

var (
	pushesDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: prometheusNamespace,
		Name:      "keepie_pushes_delivered_total",
		Help:      "Credential pushes delivered to authorized destinations",
	}, []string{"tier"})

	pushesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: prometheusNamespace,
		Name:      "keepie_pushes_skipped_total",
		Help:      "Push requests discarded because the destination is not allow-listed",
	}, []string{"tier"})

	pushesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: prometheusNamespace,
		Name:      "keepie_pushes_failed_total",
		Help:      "Credential pushes that failed delivery",
	}, []string{"tier"})
)
