package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersCreated — сколько заказов успешно отправлено в API.
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cargo_bot_orders_created_total",
		Help: "Number of successfully created orders.",
	})

	// PriceRequests — запросы расчёта стоимости, по результату.
	PriceRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cargo_bot_price_requests_total",
		Help: "Number of price calculation requests by outcome.",
	}, []string{"status"})
)
