// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.12
//

package gosbas

import "errors"

// Error conditions of the solver and the performance accumulator.
// Per-epoch conditions degrade the epoch to "no solution"; ErrInsufficientData is
// returned to the caller at finalization.
var (
	ErrSingularGeometry       = errors.New("singular geometry")
	ErrInsufficientSatellites = errors.New("insufficient satellites")
	ErrPdopExceeded           = errors.New("pdop exceeded")
	ErrDivisionByZero         = errors.New("division by zero")
	ErrInsufficientData       = errors.New("insufficient data")
	ErrOutOfOrder             = errors.New("epoch out of order")
)
