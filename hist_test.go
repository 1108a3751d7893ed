// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gosbas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestHistogramKey(t *testing.T) {
	h := NewHistogram(0.01)
	tests := []struct {
		v    float64
		want int
	}{
		{0, 0},
		{0.0099, 0},
		{0.01, 1},
		{0.0234, 2},
		{-0.0234, 2},
		{0.03, 3},
		{1.4, 140},
		{0.29, 29},
		{0.01 * (1 - 5e-10), 0},
		{0.03 * (1 - 1e-9), 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, h.Key(tt.v), "v=%v", tt.v)
	}
}

func TestHistogramAdd(t *testing.T) {
	h := NewHistogram(0.01)
	for _, v := range []float64{0.005, 0.025, 0.005, math.NaN(), -0.004} {
		h.Add(v)
	}
	assert.Equal(t, 4, h.N)
	assert.Equal(t, []int{0, 2}, h.Keys())
	assert.Equal(t, map[int]int{0: 3, 2: 1}, h.Bins)

	cdf := h.Cdf()
	require.Len(t, cdf, 2)
	assert.Equal(t, CdfPoint{Key: 0, Upper: 0.01, Count: 3, Cdf: 0.75}, cdf[0])
	assert.Equal(t, 4, cdf[1].Count)
	assert.Equal(t, 1.0, cdf[1].Cdf)
}

func TestHistogramPercentileUniform(t *testing.T) {
	h := NewHistogram(0.01)
	for i := 0; i < 100; i++ {
		h.Add((float64(i) + 0.5) / 100)
	}
	for i, k := range h.Keys() {
		assert.Equal(t, i, k)
	}

	p95, err := h.Percentile(PERCENTILE_95)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p95, 0.94)
	assert.LessOrEqual(t, p95, 0.96)

	p100, err := h.Percentile(1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p100, 1e-12)

	_, err = h.Percentile(0)
	assert.Error(t, err)
	_, err = h.Percentile(1.5)
	assert.Error(t, err)
}

func TestHistogramEmpty(t *testing.T) {
	h := NewHistogram(0.001)
	_, err := h.Percentile(0.95)
	assert.ErrorIs(t, err, ErrInsufficientData)
	_, err = h.Overbound(EXT_VPE_THRESHOLD)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Empty(t, h.HistBins())
}

func TestHistogramOverboundHalfNormal(t *testing.T) {
	// Quantiles of |N(0, 1)| at evenly spaced probabilities
	const n = 10000
	h := NewHistogram(0.01)
	for i := 0; i < n; i++ {
		p := (float64(i) + 0.5) / n
		h.Add(distuv.UnitNormal.Quantile((1 + p) / 2))
	}
	sigma, err := h.Overbound(EXT_VPE_THRESHOLD)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sigma, 0.95)
	assert.LessOrEqual(t, sigma, 1.15)
}

func TestHistogramOverboundSingleBin(t *testing.T) {
	h := NewHistogram(0.01)
	for i := 0; i < 10; i++ {
		h.Add(0.5)
	}
	sigma, err := h.Overbound(EXT_VPE_THRESHOLD)
	require.NoError(t, err)
	assert.Zero(t, sigma)
}

func TestHistBins(t *testing.T) {
	h := NewHistogram(0.01)
	for _, v := range []float64{0.005, 0.005, 0.025, 0.5} {
		h.Add(v)
	}
	want := []HistBin{
		{Id: 1, Min: 0, Max: 0.01, Count: 2, Freq: 0.5},
		{Id: 2, Min: 0.02, Max: 0.03, Count: 1, Freq: 0.25},
		{Id: 3, Min: 0.5, Max: 0.51, Count: 1, Freq: 0.25},
	}
	got := h.HistBins()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Id, got[i].Id)
		assert.InDelta(t, want[i].Min, got[i].Min, 1e-12)
		assert.InDelta(t, want[i].Max, got[i].Max, 1e-12)
		assert.Equal(t, want[i].Count, got[i].Count)
		assert.InDelta(t, want[i].Freq, got[i].Freq, 1e-12)
	}
}
