package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "bench_ticks_consumed_total", Help: "Ticks driven through a strategy"},
		[]string{"strategy"},
	)
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "bench_runs_total", Help: "Benchmark runs started"},
		[]string{"strategy"},
	)
	TimeoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "bench_timeouts_total", Help: "Benchmark runs aborted at the deadline"},
		[]string{"strategy"},
	)
)

func init() {
	prometheus.MustRegister(TicksConsumed, RunsTotal, TimeoutsTotal)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
