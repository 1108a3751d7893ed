// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gosbas

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConf(t *testing.T) {
	conf := NewConf()
	require.NoError(t, conf.Validate())
	assert.Equal(t, 86400, conf.DaySamples())
	require.Len(t, conf.EnabledServices(), 3)

	svc, ok := conf.MostStringent()
	require.True(t, ok)
	assert.Equal(t, "LPV200", svc.Name)

	lpv := conf.Services[2]
	assert.Equal(t, ServiceConf{
		Name: "LPV200", Enabled: true, Hal: 40, Val: 35, Hpe95: 16, Vpe95: 4, Vpe1e7: 10,
		Avail: 99, Cont: 8e-6, ContInterval: 15,
	}, lpv)
	assert.True(t, lpv.Vertical())
	assert.False(t, conf.Services[0].Vertical())
}

func TestConfDaySamples(t *testing.T) {
	conf := NewConf()
	conf.SamplingRate = 15
	assert.Equal(t, 5760, conf.DaySamples())
	conf.ScheduledSamples = 100
	assert.Equal(t, 100, conf.DaySamples())
}

func TestConfMostStringent(t *testing.T) {
	conf := NewConf()
	conf.Services[1].Enabled = false
	conf.Services[2].Enabled = false
	svc, ok := conf.MostStringent()
	require.True(t, ok)
	assert.Equal(t, "NPA", svc.Name)

	conf.Services[0].Enabled = false
	_, ok = conf.MostStringent()
	assert.False(t, ok)
}

func TestConfValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Conf)
	}{
		{"sampling rate", func(c *Conf) { c.SamplingRate = 0 }},
		{"pdop max", func(c *Conf) { c.PdopMax = -1 }},
		{"min satellites", func(c *Conf) { c.MinNumSatsPvt = 3 }},
		{"wlsq iterations", func(c *Conf) { c.WlsqMaxIter = 0 }},
		{"histogram resolution", func(c *Conf) { c.HistRes = 0 }},
		{"duplicated service", func(c *Conf) { c.Services[1].Name = "NPA" }},
		{"zero HAL", func(c *Conf) { c.Services[2].Hal = 0 }},
		{"zero window", func(c *Conf) { c.Services[2].ContInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := NewConf()
			tt.modify(conf)
			assert.Error(t, conf.Validate())
		})
	}

	// Disabled services are not checked
	conf := NewConf()
	conf.Services[2].Hal = 0
	conf.Services[2].Enabled = false
	assert.NoError(t, conf.Validate())
}

const testConfYaml = `sampling_rate: 15
npa_solution: true
hist_res: 0.01
services:
  - name: CAT-I
    enabled: true
    hal: 40
    val: 10
    hpe95: 16
    vpe95: 4
    vpe1e7: 10
    avail: 99
    cont: 8.0e-6
    cont_interval: 1
`

func TestLoadConf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gosbas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfYaml), 0o644))

	conf, err := LoadConf(path)
	require.NoError(t, err)
	assert.Equal(t, 15.0, conf.SamplingRate)
	assert.True(t, conf.NpaSolution)
	assert.Equal(t, 0.01, conf.HistRes)
	assert.Equal(t, 10000.0, conf.PdopMax)
	assert.Equal(t, MIN_NUM_SATS_PVT, conf.MinNumSatsPvt)
	require.Len(t, conf.Services, 1)
	assert.Equal(t, NewServiceConf("CAT-I", [9]float64{1, 40, 10, 16, 4, 10, 99, 8e-6, 1}), conf.Services[0])
}

func TestLoadConfEnv(t *testing.T) {
	t.Setenv("GOSBAS_PDOP_MAX", "50")
	conf, err := LoadConf("")
	require.NoError(t, err)
	assert.Equal(t, 50.0, conf.PdopMax)
	assert.Len(t, conf.Services, 3)
}

func TestLoadConfErrors(t *testing.T) {
	_, err := LoadConf(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sampling_rate: -1\n"), 0o644))
	_, err = LoadConf(path)
	assert.Error(t, err)
}

func TestConfDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConf().Dump(&buf))
	out := buf.String()
	assert.Contains(t, out, "sampling_rate: 1\n")
	assert.Contains(t, out, "  - name: LPV200\n")
	assert.Contains(t, out, "cont_interval: 3600\n")
}
