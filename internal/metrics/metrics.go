package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OrderMetrics counts order placement outcomes.
type OrderMetrics struct {
	Placed   prometheus.Counter
	Rejected prometheus.Counter
	Failed   prometheus.Counter
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	m := &OrderMetrics{
		Placed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookstore",
			Name:      "orders_placed_total",
			Help:      "Orders successfully committed.",
		}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookstore",
			Name:      "orders_rejected_total",
			Help:      "Orders rejected by validation or stock checks.",
		}),
		Failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookstore",
			Name:      "orders_failed_total",
			Help:      "Orders aborted by persistence failures.",
		}),
	}
	reg.MustRegister(m.Placed, m.Rejected, m.Failed)
	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}
