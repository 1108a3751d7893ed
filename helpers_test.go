// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gosbas

import (
	"fmt"
)

// Receiver used by the tests (Toulouse)
var testRcvr = RcvrInfo{Id: "TLSA", Lon: 1.4800, Lat: 43.5600, Alt: 200.0, Mask: 5}

// Satellite seen from the test receiver
type testSat struct {
	el, az float64
	flag   SatFlag
	sigma  float64
}

// Satellite range used to place the test satellites [m]
const testSatRange = 22e6

// Five PA satellites with elevations 10..89 deg and evenly spaced azimuths
func scenarioSats() []testSat {
	els := []float64{10, 30, 50, 70, 89}
	sats := make([]testSat, len(els))
	for i, el := range els {
		sats[i] = testSat{el: el, az: 72 * float64(i), flag: FLAG_PA, sigma: 1.0}
	}
	return sats
}

// Build the corrections of one epoch with noise-free pseudoranges: geometric
// range from the receiver reference position plus clk [m] plus bias[i] [m]
func makeCorrE(t ETime, rcvr *RcvrInfo, clk float64, sats []testSat, bias ...float64) *CorrE {
	ref := rcvr.RefXYZ()
	ce := NewCorrE(t)
	for i, s := range sats {
		los := LineOfSight(s.el, s.az)
		enu := PosENU{E: los.E * testSatRange, N: los.N * testSatRange, U: los.U * testSatRange}
		spos := enu.ToXYZ(ref)
		psr := EucDist(&spos, &ref) + clk
		if i < len(bias) {
			psr += bias[i]
		}
		sat := SatType(fmt.Sprintf("G%02d", i+1))
		ce.DatS[sat] = &SatCorr{
			Sat:       sat,
			Elev:      s.el,
			Azim:      s.az,
			CorrPsr:   psr,
			SatPos:    spos,
			SigmaUere: s.sigma,
			Flag:      s.flag,
		}
	}
	return ce
}

// Satellites of an epoch in canonical order
func sortedSatCorr(ce *CorrE) []*SatCorr {
	out := []*SatCorr{}
	for _, sat := range ce.Sats() {
		out = append(out, ce.DatS[sat])
	}
	return out
}
