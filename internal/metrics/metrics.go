package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	IntentsClassified *prometheus.CounterVec
	VideoSearches     *prometheus.CounterVec
	Assessments       *prometheus.CounterVec
	ChatJobs          *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		IntentsClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_classified_total",
			Help:      "Chat messages classified, by intent and response source",
		}, []string{"intent", "source"}),
		VideoSearches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "video_searches_total",
			Help:      "Video searches, by outcome (live, cached, fallback)",
		}, []string{"outcome"}),
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Stored assessments, by risk level",
		}, []string{"risk_level"}),
		ChatJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_jobs_total",
			Help:      "Async chat jobs, by final status",
		}, []string{"status"}),
	}
	reg.MustRegister(m.IntentsClassified, m.VideoSearches, m.Assessments, m.ChatJobs)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveIntent(intent, source string) {
	if m == nil {
		return
	}
	m.IntentsClassified.WithLabelValues(intent, source).Inc()
}

func (m *Metrics) ObserveVideoSearch(outcome string) {
	if m == nil {
		return
	}
	m.VideoSearches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveAssessment(riskLevel string) {
	if m == nil {
		return
	}
	m.Assessments.WithLabelValues(riskLevel).Inc()
}

func (m *Metrics) ObserveChatJob(status string) {
	if m == nil {
		return
	}
	m.ChatJobs.WithLabelValues(status).Inc()
}
