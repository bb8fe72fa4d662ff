package minimap

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts the work a session performs. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Redraws        prometheus.Counter
	OverlayUpdates prometheus.Counter
	Navigations    *prometheus.CounterVec
	Aborted        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Redraws: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "canvasmap_redraws_total",
			Help: "Full minimap redraws",
		}),
		OverlayUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "canvasmap_overlay_updates_total",
			Help: "Viewport overlay updates",
		}),
		Navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canvasmap_navigations_total",
				Help: "Navigations dispatched from minimap clicks",
			},
			[]string{"strategy"},
		),
		Aborted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canvasmap_aborted_handlers_total",
				Help: "Event handlers aborted because the host could not be read",
			},
			[]string{"handler"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Redraws, m.OverlayUpdates, m.Navigations, m.Aborted)
	}
	return m
}

func (m *Metrics) redraw() {
	if m != nil {
		m.Redraws.Inc()
	}
}

func (m *Metrics) overlay() {
	if m != nil {
		m.OverlayUpdates.Inc()
	}
}

func (m *Metrics) navigation(s Strategy) {
	if m != nil {
		m.Navigations.WithLabelValues(string(s)).Inc()
	}
}

func (m *Metrics) aborted(handler string) {
	if m != nil {
		m.Aborted.WithLabelValues(handler).Inc()
	}
}
