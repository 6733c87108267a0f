package metrics

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SalesOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brouette_sales_opened_total",
		Help: "Number of distributions flipped to open.",
	})
	SalesClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brouette_sales_closed_total",
		Help: "Number of distributions flipped to finished.",
	})
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brouette_orders_placed_total",
		Help: "Number of validated orders.",
	})
	OfferSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brouette_offer_saves_total",
		Help: "Number of offer configuration saves.",
	})
	OfferWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brouette_offer_writes_total",
		Help: "Number of offer item documents written or deleted.",
	})
	CartMutations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brouette_cart_mutations_total",
		Help: "Number of cart add/update/remove operations.",
	})
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brouette_http_requests_total",
		Help: "HTTP requests by method and status class.",
	}, []string{"method", "class"})
)

// Handler serves the prometheus scrape endpoint.
func Handler() httprouter.Handle {
	h := promhttp.Handler()
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		h.ServeHTTP(w, r)
	}
}
