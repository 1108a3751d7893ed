// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gosbas

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics of a batch run, written in the node_exporter textfile format
type Metrics struct {
	Registry *prometheus.Registry
	Epochs   *prometheus.CounterVec // Processed epochs by receiver and solution mode
	Rejects  *prometheus.CounterVec // Epochs without solution by receiver and reason
	Avail    *prometheus.GaugeVec   // Availability [%] by receiver and service
	ContRisk *prometheus.GaugeVec   // Continuity risk by receiver and service
	Vpe95    *prometheus.GaugeVec   // 95% VPE [m] by receiver and service
	Nhmi     *prometheus.GaugeVec   // HMI count by receiver and service
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Epochs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gosbas", Name: "epochs_total", Help: "Processed epochs.",
		}, []string{"rcvr", "sol"}),
		Rejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gosbas", Name: "rejected_epochs_total", Help: "Epochs without solution.",
		}, []string{"rcvr", "reason"}),
		Avail: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gosbas", Name: "availability_percent", Help: "Service availability.",
		}, []string{"rcvr", "service"}),
		ContRisk: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gosbas", Name: "continuity_risk", Help: "Service continuity risk.",
		}, []string{"rcvr", "service"}),
		Vpe95: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gosbas", Name: "vpe95_meters", Help: "95th percentile of the vertical position error.",
		}, []string{"rcvr", "service"}),
		Nhmi: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gosbas", Name: "hmi_epochs", Help: "Hazardous misleading information epochs.",
		}, []string{"rcvr", "service"}),
	}
	m.Registry.MustRegister(m.Epochs, m.Rejects, m.Avail, m.ContRisk, m.Vpe95, m.Nhmi)
	return m
}

// Count one epoch solution. reason is empty for solved epochs.
func (m *Metrics) ObserveEpoch(rcvr string, sol *PosSol, reason string) {
	m.Epochs.WithLabelValues(rcvr, sol.Sol.String()).Inc()
	if sol.Sol == SOL_NONE && reason != "" {
		m.Rejects.WithLabelValues(rcvr, reason).Inc()
	}
}

// Publish finalized performance records
func (m *Metrics) ObservePerf(p *PerfInfo) {
	m.Avail.WithLabelValues(p.Rcvr, p.Service.Name).Set(p.Avail)
	m.ContRisk.WithLabelValues(p.Rcvr, p.Service.Name).Set(p.ContRisk)
	m.Vpe95.WithLabelValues(p.Rcvr, p.Service.Name).Set(p.Vpe95)
	m.Nhmi.WithLabelValues(p.Rcvr, p.Service.Name).Set(float64(p.Nhmi))
}

// Write all metrics to a textfile
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

// Short reason label of a per-epoch error
func RejectReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientSatellites):
		return "insufficient_satellites"
	case errors.Is(err, ErrPdopExceeded):
		return "pdop_exceeded"
	case errors.Is(err, ErrSingularGeometry):
		return "singular_geometry"
	case errors.Is(err, ErrDivisionByZero):
		return "division_by_zero"
	default:
		return "other"
	}
}
