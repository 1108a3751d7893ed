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
)

func TestBuildGeomRow(t *testing.T) {
	tests := []struct {
		name   string
		el, az float64
		want   [4]float64
	}{
		{"zenith", 90, 0, [4]float64{0, 0, -1, 1}},
		{"east horizon", 0, 90, [4]float64{-1, 0, 0, 1}},
		{"north horizon", 0, 0, [4]float64{0, -1, 0, 1}},
		{"south-west 45", 45, 225, [4]float64{0.5, 0.5, -math.Sqrt2 / 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildGeomRow(tt.el, tt.az)
			assert.InDeltaSlice(t, tt.want[:], got[:], 1e-12)
		})
	}
}

func TestBuildGeomRowUnitNorm(t *testing.T) {
	for el := 0.0; el <= 90; el += 7.5 {
		for az := 0.0; az < 360; az += 30 {
			r := BuildGeomRow(el, az)
			assert.InDelta(t, 1.0, math.Sqrt(r[0]*r[0]+r[1]*r[1]+r[2]*r[2]), 1e-12)
		}
	}
}

func TestBuildGeomRowNaN(t *testing.T) {
	r := BuildGeomRow(math.NaN(), 10)
	assert.True(t, math.IsNaN(r[0]))
	assert.True(t, math.IsNaN(r[1]))
	assert.True(t, math.IsNaN(r[2]))
	assert.Equal(t, 1.0, r[3])
}

func TestBuildWeight(t *testing.T) {
	w, err := BuildWeight(2.0)
	require.NoError(t, err)
	assert.Equal(t, 0.25, w)

	_, err = BuildWeight(0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}
