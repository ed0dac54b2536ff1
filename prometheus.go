package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cwsl/nr_uplink/nr/defs"
	"github.com/cwsl/nr_uplink/nr/frame"
	"github.com/cwsl/nr_uplink/nr/prach"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PrometheusMetrics holds the collectors for one generation run
type PrometheusMetrics struct {
	registry *prometheus.Registry

	// Generation metrics
	preamblesTotal    *prometheus.CounterVec // Generated preambles by format
	errorsTotal       *prometheus.CounterVec // Failed generations by error kind
	generationSeconds prometheus.Histogram   // Wall time per preamble
	rootSequences     *prometheus.CounterVec // Generated preambles by physical root
	lastRunTimestamp  prometheus.Gauge       // Unix time the run finished

	// Frame configuration
	referenceSCSHz   prometheus.Gauge // µ0 subcarrier spacing in Hz
	referenceGrid    prometheus.Gauge // N_size_grid at µ0
	fftSize          prometheus.Gauge
	bwpSize          prometheus.Gauge
	sequenceLength   prometheus.Gauge // L_RA
	cyclicShiftWidth prometheus.Gauge // N_CS

	// Host
	cpuCores prometheus.Gauge

	// Pushgateway
	pushgatewayPushesTotal   prometheus.Counter
	pushgatewayFailuresTotal prometheus.Counter
}

// NewPrometheusMetrics registers all collectors with a fresh registry
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &PrometheusMetrics{
		registry: registry,

		preamblesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nr_prach_preambles_generated_total",
				Help: "Total number of PRACH preambles generated",
			},
			[]string{"format"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nr_prach_generation_errors_total",
				Help: "Total number of failed preamble generations by error kind",
			},
			[]string{"kind"},
		),
		generationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nr_prach_generation_duration_seconds",
				Help:    "Time taken to generate one preamble",
				Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
			},
		),
		rootSequences: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nr_prach_root_sequence_uses_total",
				Help: "Generated preambles by physical root sequence",
			},
			[]string{"root"},
		),
		lastRunTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "nr_run_last_completed_timestamp_seconds",
				Help: "Unix timestamp of the last completed generation run",
			},
		),

		referenceSCSHz: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "nr_reference_subcarrier_spacing_hz",
				Help: "Subcarrier spacing of the reference numerology",
			},
		),
		referenceGrid: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "nr_reference_grid_size_rbs",
				Help: "Carrier bandwidth in resource blocks at the reference numerology",
			},
		),
		fftSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "nr_fft_size",
				Help: "FFT size of the reference grid",
			},
		),
		bwpSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "nr_initial_bwp_size_rbs",
				Help: "Size of the initial uplink BWP in resource blocks",
			},
		),
		sequenceLength: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "nr_prach_sequence_length",
				Help: "PRACH sequence length L_RA",
			},
		),
		cyclicShiftWidth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "nr_prach_cyclic_shift_ncs",
				Help: "PRACH cyclic shift N_CS",
			},
		),

		cpuCores: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "nr_host_cpu_cores",
				Help: "Physical CPU cores on the generating host",
			},
		),

		pushgatewayPushesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nr_pushgateway_pushes_total",
				Help: "Total number of Pushgateway push attempts",
			},
		),
		pushgatewayFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nr_pushgateway_failures_total",
				Help: "Total number of failed Pushgateway pushes",
			},
		),
	}
}

// Gatherer exposes the run's registry
func (pm *PrometheusMetrics) Gatherer() prometheus.Gatherer {
	return pm.registry
}

// RecordPreamble records one successful generation
func (pm *PrometheusMetrics) RecordPreamble(p *prach.Preamble, elapsed time.Duration) {
	if pm == nil {
		return
	}
	pm.preamblesTotal.WithLabelValues(p.Format.String()).Inc()
	pm.rootSequences.WithLabelValues(fmt.Sprintf("%d", p.PhysicalRootSequence)).Inc()
	pm.generationSeconds.Observe(elapsed.Seconds())
	pm.sequenceLength.Set(float64(p.LRA))
	pm.cyclicShiftWidth.Set(float64(p.NCS))
}

// RecordError counts a failed generation under its error kind
func (pm *PrometheusMetrics) RecordError(err error) {
	if pm == nil || err == nil {
		return
	}
	pm.errorsTotal.WithLabelValues(errorKind(err)).Inc()
}

// errorKind maps an error to its metric label
func errorKind(err error) string {
	switch {
	case errors.Is(err, defs.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, defs.ErrInconsistentConfig):
		return "inconsistent_config"
	case errors.Is(err, defs.ErrUnsupported):
		return "unsupported"
	case errors.Is(err, defs.ErrNoSuchConfigIndex):
		return "no_such_config_index"
	}
	return "other"
}

// SetFrameConfig exports the resolved reference numerology
func (pm *PrometheusMetrics) SetFrameConfig(cfg *frame.Config) {
	if pm == nil {
		return
	}
	pm.referenceSCSHz.Set(float64(cfg.Reference.Numerology.Hz()))
	pm.referenceGrid.Set(float64(cfg.Reference.GridSize))
	pm.fftSize.Set(float64(cfg.Reference.FFTSize))
	pm.bwpSize.Set(float64(cfg.UplinkConfigCommon.InitialUplinkCommon.GenericParameters.Size))
}

// SetCPUCores exports the host core count
func (pm *PrometheusMetrics) SetCPUCores(cores int) {
	if pm == nil {
		return
	}
	pm.cpuCores.Set(float64(cores))
}

// MarkRunComplete stamps the end of a run
func (pm *PrometheusMetrics) MarkRunComplete() {
	if pm == nil {
		return
	}
	pm.lastRunTimestamp.Set(float64(time.Now().Unix()))
}

// WriteTextfile writes the registry for the node_exporter textfile collector
func (pm *PrometheusMetrics) WriteTextfile(path string) error {
	if pm == nil {
		return fmt.Errorf("prometheus metrics not initialized")
	}
	if err := prometheus.WriteToTextfile(path, pm.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	if DebugMode {
		log.Printf("DEBUG: Wrote metrics to %s", path)
	}
	return nil
}

// PushToGateway pushes all metrics to the Pushgateway with run info as labels
func (pm *PrometheusMetrics) PushToGateway(config *Config, runID string) error {
	if pm == nil {
		return fmt.Errorf("prometheus metrics not initialized")
	}

	pgConfig := config.Prometheus.Pushgateway
	const jobName = "nr_uplink"

	pm.pushgatewayPushesTotal.Inc()

	pusher := push.New(pgConfig.URL, jobName).
		Gatherer(pm.registry)
	if pgConfig.Instance != "" || pgConfig.Token != "" {
		pusher = pusher.BasicAuth(pgConfig.Instance, pgConfig.Token)
	}
	if pgConfig.Instance != "" {
		pusher = pusher.Grouping("instance", pgConfig.Instance)
	}
	pusher = pusher.
		Grouping("run_id", runID).
		Grouping("duplex", config.DuplexMode().String()).
		Grouping("version", Version)

	if err := pusher.Push(); err != nil {
		pm.pushgatewayFailuresTotal.Inc()
		return fmt.Errorf("failed to push to gateway: %w", err)
	}

	if DebugMode {
		log.Printf("DEBUG: Successfully pushed metrics to Pushgateway")
	}
	return nil
}
