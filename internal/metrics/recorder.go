// Package metrics exposes dashboard activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/muurk/homedash/internal/homeapi"
	"github.com/muurk/homedash/internal/logging"
	"github.com/muurk/homedash/internal/status"
)

const namespace = "homedash"

// Recorder implements dashboard.Observer on top of Prometheus collectors.
type Recorder struct {
	parser status.Parser

	fetches      *prometheus.CounterVec
	fetchLatency prometheus.Histogram
	connected    prometheus.Gauge
	commands     *prometheus.CounterVec
	stale        *prometheus.CounterVec
	totalEnergy  prometheus.Gauge
	roomEnergy   *prometheus.GaugeVec
	deviceEnergy *prometheus.GaugeVec
	deviceOn     *prometheus.GaugeVec
	ruleActive   *prometheus.GaugeVec
}

// NewRecorder registers the dashboard metrics with reg. parser decides the
// on/off gauge the same way the dashboard does.
func NewRecorder(reg prometheus.Registerer, parser status.Parser) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if parser == nil {
		parser = status.New()
	}
	f := promauto.With(reg)

	return &Recorder{
		parser: parser,
		fetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_fetch_total",
			Help:      "State fetches by result",
		}, []string{"result"}),
		fetchLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "state_fetch_duration_seconds",
			Help:      "Latency of GET /api/stats",
			Buckets:   prometheus.DefBuckets,
		}),
		connected: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "server_connected",
			Help:      "1 while the last applied state fetch succeeded",
		}),
		commands: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_total",
			Help:      "Mutating commands by operation and result",
		}, []string{"op", "result"}),
		stale: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_response_total",
			Help:      "Responses dropped because a newer one was already applied",
		}, []string{"kind"}),
		totalEnergy: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_energy_watts",
			Help:      "Total consumption reported by the server",
		}),
		roomEnergy: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "room_energy_watts",
			Help:      "Summed device consumption per room",
		}, []string{"room"}),
		deviceEnergy: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "device_energy_watts",
			Help:      "Per-device consumption",
		}, []string{"device_id", "name", "room", "type"}),
		deviceOn: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "device_on",
			Help:      "1 when the device status reads as on",
		}, []string{"device_id", "name", "room"}),
		ruleActive: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rule_active",
			Help:      "1 when the automation rule is active",
		}, []string{"rule"}),
	}
}

// ObserveFetch records one state fetch.
func (r *Recorder) ObserveFetch(elapsed time.Duration, err error) {
	r.fetches.WithLabelValues(result(err)).Inc()
	r.fetchLatency.Observe(elapsed.Seconds())
}

// ObserveSnapshot replaces the home gauges with the snapshot's values.
// Devices and rooms that disappeared are dropped.
func (r *Recorder) ObserveSnapshot(snap *homeapi.Snapshot) {
	if snap == nil {
		return
	}
	r.totalEnergy.Set(snap.TotalEnergy)

	r.roomEnergy.Reset()
	r.deviceEnergy.Reset()
	r.deviceOn.Reset()
	r.ruleActive.Reset()

	for _, room := range snap.Rooms {
		r.roomEnergy.WithLabelValues(room.Name).Set(room.Energy())
		for _, d := range room.Devices {
			r.deviceEnergy.WithLabelValues(d.ID, d.Name, room.Name, string(d.Type)).Set(d.Energy)
			r.deviceOn.WithLabelValues(d.ID, d.Name, room.Name).Set(boolValue(r.parser.IsOn(d.Status)))
		}
	}
	for _, rule := range snap.Rules {
		r.ruleActive.WithLabelValues(rule.Name).Set(boolValue(rule.Active))
	}
}

// ObserveConnectivity records the connection indicator.
func (r *Recorder) ObserveConnectivity(connected bool) {
	r.connected.Set(boolValue(connected))
}

// ObserveCommand records one mutating command.
func (r *Recorder) ObserveCommand(op string, err error) {
	r.commands.WithLabelValues(op, result(err)).Inc()
}

// ObserveStale records a dropped out-of-order response.
func (r *Recorder) ObserveStale(kind string) {
	r.stale.WithLabelValues(kind).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// NewRegistry returns a registry with the Go and process collectors
// alongside whatever the caller registers.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves reg in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(reg))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Metrics listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}
