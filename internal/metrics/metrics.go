package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"availscan/internal/scanner"
)

const namespace = "availscan"

// Metrics holds the prometheus registry and the scan collectors.
type Metrics struct {
	registry *prometheus.Registry

	serviceUp       *prometheus.GaugeVec
	scanCycles      prometheus.Counter
	scanDuration    prometheus.Gauge
	servicesOnline  prometheus.Gauge
	servicesOffline prometheus.Gauge
}

// New creates the registry and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		serviceUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "service_up",
			Help:      "Whether the service was available in the last scan (1 up, 0 down).",
		}, []string{"service"}),
		scanCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_cycles_total",
			Help:      "Number of completed scan cycles.",
		}),
		scanDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Wall-clock duration of the last scan cycle.",
		}),
		servicesOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "services_online",
			Help:      "Number of services online in the last scan.",
		}),
		servicesOffline: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "services_offline",
			Help:      "Number of services offline in the last scan.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.serviceUp,
		m.scanCycles,
		m.scanDuration,
		m.servicesOnline,
		m.servicesOffline,
	)
	return m
}

// Registry returns the prometheus registry for exposition.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe updates all collectors from one completed scan report.
func (m *Metrics) Observe(report scanner.Report) {
	for _, res := range report.Results {
		v := 0.0
		if res.Available {
			v = 1.0
		}
		m.serviceUp.WithLabelValues(res.Service).Set(v)
	}
	m.scanCycles.Inc()
	m.scanDuration.Set(report.Duration.Seconds())
	m.servicesOnline.Set(float64(report.Online()))
	m.servicesOffline.Set(float64(report.Offline()))
}
