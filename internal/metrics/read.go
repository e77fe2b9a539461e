// SPDX-License-Identifier: MIT

package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// OpKey identifies one series of mlkit_io_operations_total.
type OpKey struct {
	Op      string
	Outcome string
}

// OperationTotals reads every mlkit_io_operations_total series from g.
func OperationTotals(g prometheus.Gatherer) (map[OpKey]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	out := make(map[OpKey]float64)
	for _, mf := range families {
		if mf.GetName() != operationsMetric {
			continue
		}
		for _, m := range mf.GetMetric() {
			key := OpKey{Op: labelValue(m, "op"), Outcome: labelValue(m, "outcome")}
			out[key] = m.GetCounter().GetValue()
		}
	}
	return out, nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

// WriteTextfile writes everything registered with the default registry to
// path in the Prometheus text format, for the node_exporter textfile
// collector. The file is replaced atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
