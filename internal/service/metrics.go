package service

import "github.com/prometheus/client_golang/prometheus"

var (
	signupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_rating_signups_total",
		Help: "Accounts created through signup",
	})
	loginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_rating_logins_total",
		Help: "Login attempts by result",
	}, []string{"result"})
	storesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_rating_stores_created_total",
		Help: "Stores registered by admins",
	})
	ratingsSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_rating_ratings_submitted_total",
		Help: "Rating upserts accepted",
	})
)

func init() {
	prometheus.MustRegister(signupsTotal, loginsTotal, storesCreatedTotal, ratingsSubmittedTotal)
}
