// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gosbas

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func finalizedPerf(t *testing.T) *PerfInfo {
	t.Helper()
	conf := NewConf()
	conf.ScheduledSamples = 10
	p := lpv200(t, conf)
	for k := 0; k < 10; k++ {
		require.NoError(t, p.Update(testSol(float64(k), SOL_PA, 10, 10, 0.5, 0.25)))
	}
	require.NoError(t, p.Finalize())
	return p
}

func TestWritePos(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePosHeader(&buf))
	sol := testSol(30, SOL_PA, 10, 12, 1.5, 2)
	sol.Lon, sol.Lat, sol.Alt = testRcvr.Lon, testRcvr.Lat, testRcvr.Alt
	require.NoError(t, WritePos(&buf, "TLSA", &sol))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	header := strings.Fields(strings.TrimPrefix(lines[0], "#"))
	fields := strings.Fields(lines[1])
	assert.Len(t, fields, len(header))
	assert.Equal(t, "TLSA", fields[0])
	assert.Equal(t, "100", fields[1])
	assert.Equal(t, "30.0", fields[2])
	assert.Equal(t, "1", fields[7])
	assert.Equal(t, "1.5000", fields[10])
}

func TestWritePerf(t *testing.T) {
	p := finalizedPerf(t)
	var buf bytes.Buffer
	require.NoError(t, WritePerfHeader(&buf))
	require.NoError(t, WritePerf(&buf, p))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, perfColumns, strings.Fields(strings.TrimPrefix(lines[0], "#")))
	fields := strings.Fields(lines[1])
	require.Len(t, fields, len(perfColumns))
	assert.Equal(t, "TLSA", fields[0])
	assert.Equal(t, "LPV200", fields[1])
	assert.Equal(t, "100", fields[7])
	assert.Equal(t, "true", fields[len(fields)-1])
}

func TestWriteHist(t *testing.T) {
	h := NewHistogram(0.01)
	for _, v := range []float64{0.005, 0.005, 0.025, 0.5} {
		h.Add(v)
	}
	var buf bytes.Buffer
	require.NoError(t, WriteHist(&buf, h))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Equal(t, []string{"1", "0.0000", "0.0100", "2", "0.50000000"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"3", "0.5000", "0.5100", "1", "0.25000000"}, strings.Fields(lines[3]))
}

func TestToExcelFile(t *testing.T) {
	p := finalizedPerf(t)
	path := filepath.Join(t.TempDir(), "perf.xlsx")
	require.NoError(t, ToExcelFile(path, []*PerfInfo{p, p}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Perf")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, perfColumns, rows[0])
	assert.Equal(t, "TLSA", rows[1][0])
	assert.Equal(t, "LPV200", rows[2][1])
}
