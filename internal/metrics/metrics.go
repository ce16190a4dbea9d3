// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GroupsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deckmatch",
		Name:      "groups_created_total",
		Help:      "Groups created, by group type.",
	}, []string{"type"})

	LeagueWins = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "deckmatch",
		Name:      "league_wins_total",
		Help:      "Wins recorded in league groups.",
	})

	BracketResults = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "deckmatch",
		Name:      "bracket_results_total",
		Help:      "Match winners recorded in eliminatory brackets.",
	})

	GroupsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deckmatch",
		Name:      "groups_finished_total",
		Help:      "Groups that reached the finished state, by group type.",
	}, []string{"type"})

	CatalogDecks = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "deckmatch",
		Name:      "catalog_decks",
		Help:      "Decks currently loaded in the catalog.",
	})
)
