// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gosbas

const (
	PI  = 3.1415926535897932  // Pi
	C   = 2.99792458e8        // Speed of light [m/s]
	Re  = 6378137.0           // Earth's radius [m]
	Fe  = 1.0 / 298.257223563 // Earth's flattening
	DAY = 86400.0             // Seconds of day
)

// Protection level multipliers (RTCA DO-229, appendix J)
const (
	MOPS_KH_PA  = 6.0  // Horizontal, precision approach
	MOPS_KV_PA  = 5.33 // Vertical, precision approach
	MOPS_KH_NPA = 6.18 // Horizontal, non-precision approach
	MOPS_KV_NPA = 5.33 // Vertical, non-precision approach
)

// Solution / statistics constants
const (
	MIN_NUM_SATS_PVT  = 4     // Minimum number of satellites for a fix
	EXT_VPE_K         = 5.33  // Multiplier for the extrapolated VPE (1e-7 two-sided)
	EXT_VPE_THRESHOLD = 0.60  // CDF threshold above which the VPE tail is overbounded
	PERCENTILE_95     = 0.95  // Percentile reported as Hpe95 / Vpe95
	GAP_TOLERANCE     = 1e-6  // Tolerance for epoch gap detection [s]
	KEY_REL_TOL       = 1e-12 // Relative tolerance of histogram bin keys
)
