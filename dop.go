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

// Dilution of precision values
type Dop struct {
	Gdop float64
	Pdop float64
	Hdop float64
	Vdop float64
	Tdop float64
}

// Compute DOP values from the unweighted normal matrix
// - Q = (G^t G)^-1
func CalcDop(G mat.Matrix) (Dop, error) {
	Q, err := invNormal(G, nil)
	if err != nil {
		return Dop{}, err
	}
	traceMat("Q", Q)
	q := [4]float64{Q.At(0, 0), Q.At(1, 1), Q.At(2, 2), Q.At(3, 3)}
	return Dop{
		Gdop: math.Sqrt(q[0] + q[1] + q[2] + q[3]),
		Pdop: math.Sqrt(q[0] + q[1] + q[2]),
		Hdop: math.Sqrt(q[0] + q[1]),
		Vdop: math.Sqrt(q[2]),
		Tdop: math.Sqrt(q[3]),
	}, nil
}
