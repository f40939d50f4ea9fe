// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the Prometheus collectors for the service. Each App owns
// its own registry so isolated instances can coexist in tests.
type metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     *prometheus.CounterVec
	faultsTotal     prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "speakwise_server_requests_total",
				Help: "Total number of requests processed by the server",
			},
			[]string{"status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "speakwise_server_request_duration_milliseconds",
				Help:    "Request duration in milliseconds",
				Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000},
			},
			[]string{"route"},
		),
		rateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "speakwise_server_rate_limited_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
			[]string{"tier"},
		),
		faultsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "speakwise_server_faults_total",
				Help: "Total number of faults captured at the HTTP boundary",
			},
		),
	}

	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.rateLimited, m.faultsTotal)
	return m
}
