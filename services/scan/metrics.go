// Copyright (C) 2026 Kelpworks Labs (oss@kelpworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package scan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plscan",
			Subsystem: "scan",
			Name:      "files_total",
			Help:      "Module files considered by gather sessions, by outcome (gathered, skipped, duplicate).",
		},
		[]string{"outcome"},
	)

	identifiersAdmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "plscan",
			Subsystem: "scan",
			Name:      "identifiers_admitted_total",
			Help:      "Identifiers admitted into session sets after threshold filtering and dedup.",
		},
	)
)

func recordFileOutcome(outcome string) {
	filesTotal.WithLabelValues(outcome).Inc()
}

func recordIdentifiersAdmitted(count int) {
	identifiersAdmittedTotal.Add(float64(count))
}
