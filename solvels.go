// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.17
//

package gosbas

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Build the geometry matrix G (n x 4, ENU + clock) and the diagonal weight
// matrix W (n x n) for the given satellites, row i corresponding to sats[i]
func BuildGW(sats []*SatCorr) (G *mat.Dense, W *mat.DiagDense, err error) {
	n := len(sats)
	if n == 0 {
		return nil, nil, fmt.Errorf("%w: no satellites", ErrInsufficientSatellites)
	}
	G = mat.NewDense(n, 4, nil)
	w := make([]float64, n)
	for i, sc := range sats {
		row := BuildGeomRow(sc.Elev, sc.Azim)
		G.SetRow(i, row[:])
		w[i], err = BuildWeight(sc.SigmaUere)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: sigma_uere=%f: %w", sc.Sat, sc.SigmaUere, err)
		}
	}
	return G, mat.NewDiagDense(n, w), nil
}

// Inverse of the normal matrix
// - (G^t W G)^-1, or (G^t G)^-1 if W is nil
func invNormal(G mat.Matrix, W mat.Matrix) (*mat.Dense, error) {
	var A mat.Dense
	if W == nil {
		A.Mul(G.T(), G)
	} else {
		var WG mat.Dense
		WG.Mul(W, G)
		A.Mul(G.T(), &WG)
	}
	var inv mat.Dense
	if err := inv.Inverse(&A); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularGeometry, err)
	}
	return &inv, nil
}

// Projection matrix of the weighted least squares
// - S = (G^t W G)^-1 G^t W
func BuildSMatrix(G mat.Matrix, W mat.Matrix) (*mat.Dense, error) {
	n1, _ := G.Dims()
	n2, m2 := W.Dims()
	if n1 != n2 {
		return nil, fmt.Errorf("invalid matrix size. G(%d x 4), W(%d x %d)", n1, n2, m2)
	}
	D, err := invNormal(G, W)
	if err != nil {
		return nil, err
	}
	var GtW mat.Dense
	GtW.Mul(G.T(), W)
	var S mat.Dense
	S.Mul(D, &GtW)
	traceMat("S", &S)
	return &S, nil
}

// Result of the weighted least squares
type WlsqSol struct {
	Pos  PosXYZ        // Estimated receiver position
	Clk  float64       // Estimated receiver clock bias [m]
	Iter int           // Number of iterations performed
	Res  *mat.VecDense // Residuals after the last update
}

// SolveWlsq estimates the receiver position and clock bias
//
// The projection matrix S is kept fixed (satellite geometry and corrections are
// assumed constant during the iteration). Each iteration forms the residuals
//
//	r_i = CorrPsr_i - clk - |SatPos_i - pos|
//
// and applies [dE dN dU dclk] = S r. The loop stops after maxIter iterations or
// when the position update is smaller than thres [m]. maxIter = 1 is a single
// linearized step, exact when pos0 is the true receiver position.
func SolveWlsq(S mat.Matrix, sats []*SatCorr, pos0 PosXYZ, clk0 float64, maxIter int, thres float64) (*WlsqSol, error) {
	m, n := S.Dims()
	if m != 4 || n != len(sats) {
		return nil, fmt.Errorf("invalid matrix size. S(%d x %d), sats=%d", m, n, len(sats))
	}
	sol := &WlsqSol{Pos: pos0, Clk: clk0}
	dr := mat.NewVecDense(n, nil)
	var dx mat.VecDense
	for sol.Iter < maxIter {
		residuals(sats, sol.Pos, sol.Clk, dr)
		dx.MulVec(S, dr)
		d := dx.RawVector().Data
		sol.Pos = sol.Pos.AddENU(PosENU{E: d[0], N: d[1], U: d[2]})
		sol.Clk += d[3]
		sol.Iter++
		step := floats.Norm(d[:3], 2)
		log.Tracef("\tWLSQ %d: dE=%.4f dN=%.4f dU=%.4f dclk=%.4f", sol.Iter, d[0], d[1], d[2], d[3])
		if step < thres {
			break
		}
	}
	residuals(sats, sol.Pos, sol.Clk, dr)
	sol.Res = dr
	return sol, nil
}

// Pseudorange residuals for the current estimate
func residuals(sats []*SatCorr, pos PosXYZ, clk float64, dr *mat.VecDense) {
	for i, sc := range sats {
		dr.SetVec(i, sc.CorrPsr-clk-EucDist(&sc.SatPos, &pos))
	}
}
