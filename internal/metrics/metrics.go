// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package metrics holds the Prometheus collectors of the search pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "weathersearch"

var (
	// PipelineRunsTotal counts finished pipeline runs by outcome
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Total number of search pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	// PipelineStageDuration tracks how long the network stages of a run take
	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of the search pipeline stages in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// SourceRequestsTotal counts requests against weather sources
	SourceRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_requests_total",
			Help:      "Total number of weather source requests",
		},
		[]string{"provider", "operation", "status"},
	)
)

// RecordRun counts a finished run with the given outcome.
func RecordRun(outcome string) {
	PipelineRunsTotal.WithLabelValues(outcome).Inc()
}

// RecordStage observes the duration of a pipeline stage that started at start.
func RecordStage(stage string, start time.Time) {
	PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// RecordSourceRequest counts a weather source request. status is "success" or "error".
func RecordSourceRequest(provider, operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	SourceRequestsTotal.WithLabelValues(provider, operation, status).Inc()
}
