package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registrations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portal_registrations_total",
		Help: "Number of registrations accepted.",
	})
	Deletions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portal_deletions_total",
		Help: "Number of registrations deleted, bulk deletes included.",
	})
	Exports = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portal_csv_exports_total",
		Help: "Number of CSV exports performed.",
	})
)

func init() {
	prometheus.MustRegister(Registrations, Deletions, Exports)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
