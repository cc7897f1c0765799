package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/lectern/pkg/domain"
)

const namespace = "lectern"

// Metrics groups the Lectern collectors on one registry.
type Metrics struct {
	Navigations        *prometheus.CounterVec
	FragmentChanges    *prometheus.CounterVec
	LocationsPublished prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg gets a fresh registry, keeping tests and multiple servers isolated.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		Navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "navigations_total",
				Help:      "Navigation commands handled, by intent and outcome.",
			},
			[]string{"intent", "outcome"},
		),
		FragmentChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fragment_changes_total",
				Help:      "Fragments revealed or hidden.",
			},
			[]string{"direction"},
		),
		LocationsPublished: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "locations_published_total",
				Help:      "Location strings published to hosts.",
			},
		),
		registry: reg,
	}
	reg.MustRegister(m.Navigations, m.FragmentChanges, m.LocationsPublished)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// TrackActiveSessions exposes lectern_active_sessions, sampled from count on every scrape.
func (m *Metrics) TrackActiveSessions(count func() int) error {
	gauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently live in memory.",
		},
		func() float64 { return float64(count()) },
	)
	if err := m.registry.Register(gauge); err != nil {
		return fmt.Errorf("failed to register active sessions gauge: %w", err)
	}
	return nil
}

// Hooks returns lifecycle hooks that feed the fragment and location collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFragmentShown: func(context.Context, *domain.FragmentEvent) {
			m.FragmentChanges.WithLabelValues("shown").Inc()
		},
		OnFragmentHidden: func(context.Context, *domain.FragmentEvent) {
			m.FragmentChanges.WithLabelValues("hidden").Inc()
		},
		OnLocationPublished: func(context.Context, *domain.LocationEvent) {
			m.LocationsPublished.Inc()
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
