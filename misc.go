// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.14
//

package gosbas

import (
	"math"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

// ------------------------------------
// Mini functions
// ------------------------------------

func SQ(x float64) float64 {
	return x * x
}

func EucDist(a, b *PosXYZ) float64 {
	return math.Sqrt(SQ(a.X-b.X) + SQ(a.Y-b.Y) + SQ(a.Z-b.Z))
}

func ToDeg(rad float64) float64 {
	return rad / PI * 180.0
}

func ToRad(deg float64) float64 {
	return deg / 180.0 * PI
}

// Ratio that reports a zero denominator instead of producing Inf/NaN
func safeDiv(num, den float64) (float64, error) {
	if den == 0 {
		return 0, ErrDivisionByZero
	}
	return num / den, nil
}

// ------------------------------------
// Logging
// ------------------------------------

// Debug display level (0: warnings only, 1: info, 2: debug, 3: trace)
func SetDebugLevel(v int) {
	switch {
	case v <= 0:
		log.SetLevel(log.WarnLevel)
	case v == 1:
		log.SetLevel(log.InfoLevel)
	case v == 2:
		log.SetLevel(log.DebugLevel)
	default:
		log.SetLevel(log.TraceLevel)
	}
}

// Dump a matrix at trace level
func traceMat(name string, X mat.Matrix) {
	if !log.IsLevelEnabled(log.TraceLevel) {
		return
	}
	r, c := X.Dims()
	log.Tracef("%s (%d x %d)\n%v", name, r, c, mat.Formatted(X, mat.Prefix(""), mat.Squeeze()))
}

// ------------------------------------
// Others
// ------------------------------------

// Sort the list of satellite names (G, E, S then by number)
func Sorted(s []SatType) []SatType {
	s2 := slices.Clone(s)
	m := map[SysType]int{'G': 0, 'J': 1, 'E': 2, 'R': 3, 'C': 4, 'S': 5}
	slices.SortFunc(s2, func(a, b SatType) int {
		if m[a.Sys()] != m[b.Sys()] {
			return m[a.Sys()] - m[b.Sys()]
		}
		if a.Num() != b.Num() {
			return a.Num() - b.Num()
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	})
	return s2
}
