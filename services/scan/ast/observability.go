// Copyright (C) 2026 Kelpworks Labs (oss@kelpworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ast

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "plscan.scan"

var (
	// parsesTotal counts parse attempts by language and status.
	// Labels: language, status (ok, error)
	parsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plscan",
		Subsystem: "scan",
		Name:      "parses_total",
		Help:      "Total parse attempts by language and status",
	}, []string{"language", "status"})

	// parseDurationSeconds measures time spent parsing one file.
	// Labels: language
	parseDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "plscan",
		Subsystem: "scan",
		Name:      "parse_duration_seconds",
		Help:      "Time spent parsing one file",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"language"})

	// parseDeclarationsTotal counts declarations recorded across all parses.
	// Labels: language
	parseDeclarationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plscan",
		Subsystem: "scan",
		Name:      "parse_declarations_total",
		Help:      "Total declarations recorded by language",
	}, []string{"language"})
)

// startParseSpan starts an OTel span for one parse call.
func startParseSpan(ctx context.Context, language, filePath string, size int) (context.Context, oteltrace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "scan.parse",
		oteltrace.WithAttributes(
			attribute.String("language", language),
			attribute.String("file", filePath),
			attribute.Int("size_bytes", size),
		),
	)
}

// setParseSpanResult attaches result counts to a parse span.
func setParseSpanResult(span oteltrace.Span, declarations, errs int) {
	span.SetAttributes(
		attribute.Int("declarations", declarations),
		attribute.Int("errors", errs),
	)
}

// recordParseMetrics records Prometheus metrics for one parse call.
func recordParseMetrics(language string, duration time.Duration, declarations int, success bool) {
	status := "ok"
	if !success {
		status = "error"
	}
	parsesTotal.WithLabelValues(language, status).Inc()
	parseDurationSeconds.WithLabelValues(language).Observe(duration.Seconds())
	if declarations > 0 {
		parseDeclarationsTotal.WithLabelValues(language).Add(float64(declarations))
	}
}
