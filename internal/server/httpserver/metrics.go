package httpserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookshelf_logins_total",
			Help: "Total number of login attempts by status.",
		},
		[]string{"status"},
	)

	refreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookshelf_refreshes_total",
			Help: "Total number of refresh token exchanges by status.",
		},
		[]string{"status"},
	)

	tokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookshelf_token_verifications_total",
			Help: "Total number of access token verification attempts by status.",
		},
		[]string{"status"},
	)

	booksImportedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookshelf_books_imported_total",
		Help: "Total number of books created through CSV import.",
	})

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookshelf_http_request_duration_seconds",
			Help:    "HTTP request latency by route, method and status class.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)
)

func statusLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
