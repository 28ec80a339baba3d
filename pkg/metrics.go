package treelog

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry *prometheus.Registry

	// Counters
	nextConnectionID prometheus.CounterFunc
	answers          *prometheus.CounterVec

	// Gauges
	openConnections prometheus.GaugeFunc
	storedFacts     prometheus.GaugeFunc
	symbols         prometheus.GaugeFunc

	// Latency histograms
	assertLatency prometheus.Summary
	queryLatency  prometheus.Summary
}

func newMetrics(db *Database) *metrics {
	m := &metrics{
		nextConnectionID: prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "next_connection_id",
				Help: "number of connections to this server over its lifetime",
			},
			func() float64 {
				return float64(db.connectionsOpened())
			},
		),
		answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "query_answers",
				Help: "number of queries answered, by answer",
			},
			[]string{"answer"},
		),
		openConnections: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "open_connections",
				Help: "number of connections currently open",
			},
			func() float64 {
				return float64(db.numConnections())
			},
		),
		storedFacts: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "stored_facts",
				Help: "number of functor/arity keys with a stored fact",
			},
			func() float64 {
				return float64(db.facts.Len())
			},
		),
		symbols: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "interned_symbols",
				Help: "number of atom and functor names interned",
			},
			func() float64 {
				return float64(db.facts.Symbols().Len())
			},
		),
		assertLatency: prometheus.NewSummary(
			prometheus.SummaryOpts{
				Name: "assert_latency_ns",
				Help: "latency to freeze and store a fact",
			},
		),
		queryLatency: prometheus.NewSummary(
			prometheus.SummaryOpts{
				Name: "query_latency_ns",
				Help: "latency to look up, unify and unwind a query",
			},
		),
	}
	m.registry = prometheus.NewPedanticRegistry()
	reg := m.registry

	reg.MustRegister(prometheus.NewProcessCollector(os.Getpid(), ""))
	reg.MustRegister(prometheus.NewGoCollector())

	reg.MustRegister(m.nextConnectionID)
	reg.MustRegister(m.answers)
	reg.MustRegister(m.openConnections)
	reg.MustRegister(m.storedFacts)
	reg.MustRegister(m.symbols)
	reg.MustRegister(m.assertLatency)
	reg.MustRegister(m.queryLatency)
	return m
}
