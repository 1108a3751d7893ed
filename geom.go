// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.12
//

package gosbas

import "math"

// Row of the geometry matrix in the local ENU frame for a satellite seen at
// elevation/azimuth [deg]: the partial derivatives of the range w.r.t. the
// receiver east, north, up and clock. NaN angles give NaN components.
func BuildGeomRow(elevDeg, azimDeg float64) [4]float64 {
	el := ToRad(elevDeg)
	az := ToRad(azimDeg)
	return [4]float64{
		-math.Cos(el) * math.Sin(az),
		-math.Cos(el) * math.Cos(az),
		-math.Sin(el),
		1,
	}
}

// Diagonal element of the weight matrix for a satellite with the given UERE sigma [m]
func BuildWeight(sigmaUere float64) (float64, error) {
	if sigmaUere == 0 {
		return 0, ErrDivisionByZero
	}
	return 1 / SQ(sigmaUere), nil
}
