// Package metrics collects Prometheus metrics for HTTP traffic and auth
// events and serves them for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sign-in outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeBadPassword = "bad_password"
	OutcomeUnknownUser = "unknown_user"
	OutcomeUnconfirmed = "unconfirmed"
)

// Recorder is what the domain services report to.
type Recorder interface {
	RecordSignUp()
	RecordSignIn(outcome string)
	RecordEmailSent(kind string, err error)
	RecordSecretRotated()
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordSignUp()                 {}
func (Nop) RecordSignIn(string)           {}
func (Nop) RecordEmailSent(string, error) {}
func (Nop) RecordSecretRotated()          {}

// Collector implements Recorder on top of Prometheus collectors.
type Collector struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	signUps        prometheus.Counter
	signIns        *prometheus.CounterVec
	emails         *prometheus.CounterVec
	secretRotation prometheus.Counter
}

var _ Recorder = (*Collector)(nil)

// NewCollector registers all metrics on reg under namespace.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		signUps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_sign_ups_total",
			Help:      "Accounts created.",
		}),
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_sign_ins_total",
			Help:      "Sign-in attempts by outcome.",
		}, []string{"outcome"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "Transactional emails by kind and result.",
		}, []string{"kind", "result"}),
		secretRotation: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "app_secret_rotations_total",
			Help:      "App secrets regenerated.",
		}),
	}

	reg.MustRegister(c.requests, c.latency, c.signUps, c.signIns, c.emails, c.secretRotation)
	return c
}

func (c *Collector) RecordSignUp() { c.signUps.Inc() }

func (c *Collector) RecordSignIn(outcome string) { c.signIns.WithLabelValues(outcome).Inc() }

func (c *Collector) RecordEmailSent(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.emails.WithLabelValues(kind, result).Inc()
}

func (c *Collector) RecordSecretRotated() { c.secretRotation.Inc() }

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Middleware records request count and latency. Routes are labelled by
// their chi pattern so path parameters do not explode cardinality.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}
		c.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the exposition format for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
