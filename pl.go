// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.13
//

package gosbas

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Solution mode
type SolMode int

const (
	SOL_NONE SolMode = iota // No solution
	SOL_PA                  // Precision approach
	SOL_NPA                 // Non-precision approach
)

func (m SolMode) String() string {
	switch m {
	case SOL_NONE:
		return "NONE"
	case SOL_PA:
		return "PA"
	case SOL_NPA:
		return "NPA"
	default:
		return "UNKNOWN!"
	}
}

// Protection level multipliers of a solution mode
func (m SolMode) K() (kh, kv float64) {
	if m == SOL_NPA {
		return MOPS_KH_NPA, MOPS_KV_NPA
	}
	return MOPS_KH_PA, MOPS_KV_PA
}

// Compute horizontal and vertical protection levels
// - D = (G^t W G)^-1
// - HPL = K_H * sqrt((d_EE + d_NN)/2 + sqrt(((d_EE - d_NN)/2)^2 + d_EN^2))
// - VPL = K_V * sqrt(d_UU)
func CalcPL(G mat.Matrix, W mat.Matrix, mode SolMode) (hpl, vpl float64, err error) {
	D, err := invNormal(G, W)
	if err != nil {
		return 0, 0, err
	}
	traceMat("D", D)
	dee, dnn, den, duu := D.At(0, 0), D.At(1, 1), D.At(0, 1), D.At(2, 2)
	dmajor := math.Sqrt((dee+dnn)/2 + math.Sqrt(SQ((dee-dnn)/2)+SQ(den)))
	kh, kv := mode.K()
	return kh * dmajor, kv * math.Sqrt(duu), nil
}
