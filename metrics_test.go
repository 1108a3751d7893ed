// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gosbas

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRejectReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("select: %w", ErrInsufficientSatellites), "insufficient_satellites"},
		{fmt.Errorf("solve: %w", ErrPdopExceeded), "pdop_exceeded"},
		{fmt.Errorf("solve: %w", ErrSingularGeometry), "singular_geometry"},
		{fmt.Errorf("hsi: %w", ErrDivisionByZero), "division_by_zero"},
		{fmt.Errorf("unexpected"), "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RejectReason(tt.err))
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	ok := testSol(0, SOL_PA, 10, 10, 1, 1)
	none := testSol(1, SOL_NONE, 0, 0, 0, 0)
	m.ObserveEpoch("TLSA", &ok, "")
	m.ObserveEpoch("TLSA", &ok, "")
	m.ObserveEpoch("TLSA", &none, "pdop_exceeded")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Epochs.WithLabelValues("TLSA", "PA")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Epochs.WithLabelValues("TLSA", "NONE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejects.WithLabelValues("TLSA", "pdop_exceeded")))

	p := finalizedPerf(t)
	m.ObservePerf(p)
	assert.Equal(t, 100.0, testutil.ToFloat64(m.Avail.WithLabelValues("TLSA", "LPV200")))
	assert.Equal(t, p.Vpe95, testutil.ToFloat64(m.Vpe95.WithLabelValues("TLSA", "LPV200")))

	path := filepath.Join(t.TempDir(), "gosbas.prom")
	require.NoError(t, m.WriteTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `gosbas_epochs_total{rcvr="TLSA",sol="PA"} 2`)
	assert.Contains(t, string(b), `gosbas_availability_percent{rcvr="TLSA",service="LPV200"} 100`)
}
