// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

// Computes the SBAS position/integrity solution of one epoch.

package gosbas

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
)

// PosSol is the position/integrity solution of one receiver for one epoch.
// Errors are "estimated - reference" in the local frame of the reference position.
type PosSol struct {
	Time      ETime   // Epoch time
	Lon       float64 // Estimated longitude [deg]
	Lat       float64 // Estimated latitude [deg]
	Alt       float64 // Estimated altitude [m]
	Clk       float64 // Estimated receiver clock bias [m]
	Sol       SolMode // Solution mode
	NumSatVis int     // Number of visible satellites
	NumSatSol int     // Number of satellites selected for the solution
	Hpe       float64 // Horizontal position error [m]
	Vpe       float64 // Vertical position error, absolute [m]
	Epe       float64 // East position error [m]
	Npe       float64 // North position error [m]
	Upe       float64 // Up position error, signed [m]
	Hpl       float64 // Horizontal protection level [m]
	Vpl       float64 // Vertical protection level [m]
	Hsi       float64 // Horizontal safety index Hpe/Hpl
	Vsi       float64 // Vertical safety index Vpe/Vpl
	Dop               // DOP values
}

// CalcSpvt computes the solution of one epoch
//
// The epoch goes through the gates
//
//	satellite count -> geometry (DOP) -> PDOP ceiling -> WLSQ -> protection levels
//
// and any failure returns a solution with Sol = SOL_NONE together with an error
// wrapping one of ErrInsufficientSatellites, ErrSingularGeometry,
// ErrPdopExceeded or ErrDivisionByZero. Such errors concern only this epoch.
//
// The initial receiver estimate is the receiver reference position with a zero
// clock bias.
func CalcSpvt(conf *Conf, rcvr *RcvrInfo, corre *CorrE) (PosSol, error) {

	// Initialize result with the reference position as first guess
	sol := PosSol{
		Time:      corre.Time,
		Lon:       rcvr.Lon,
		Lat:       rcvr.Lat,
		Alt:       rcvr.Alt,
		NumSatVis: len(corre.DatS),
	}

	// Select satellites and solution mode
	sats, mode, err := selectSatellites(conf, rcvr, corre)
	sol.NumSatSol = len(sats)
	if err != nil {
		return noSolution(sol), fmt.Errorf("selectSatellites() failed, err=%w", err)
	}

	// Solve
	err = solveSpvt(conf, rcvr, sats, mode, &sol)
	if err != nil {
		return noSolution(sol), fmt.Errorf("solveSpvt() failed, err=%w", err)
	}

	log.WithFields(log.Fields{"rcvr": rcvr.Id, "sod": sol.Time.Sod}).Tracef(
		"\tsol=%s ns=%d hpe=%.3f vpe=%.3f hpl=%.3f vpl=%.3f pdop=%.3f", sol.Sol, sol.NumSatSol, sol.Hpe, sol.Vpe, sol.Hpl, sol.Vpl, sol.Pdop)
	return sol, nil
}

// selectSatellites partitions satellites by flag and decides the solution mode.
// Satellites below the receiver masking angle are not used.
func selectSatellites(conf *Conf, rcvr *RcvrInfo, corre *CorrE) ([]*SatCorr, SolMode, error) {
	pa := []*SatCorr{}
	all := []*SatCorr{}
	for _, sat := range corre.Sats() {
		sc := corre.DatS[sat]
		if sc.Elev < rcvr.Mask {
			continue
		}
		switch sc.Flag {
		case FLAG_PA:
			pa = append(pa, sc)
			all = append(all, sc)
		case FLAG_NPA:
			all = append(all, sc)
		}
	}
	if len(pa) >= conf.MinNumSatsPvt {
		return pa, SOL_PA, nil
	}
	if conf.NpaSolution {
		if len(all) >= conf.MinNumSatsPvt {
			return all, SOL_NPA, nil
		}
		return all, SOL_NONE, fmt.Errorf("%w: %d < %d (NPA)", ErrInsufficientSatellites, len(all), conf.MinNumSatsPvt)
	}
	return pa, SOL_NONE, fmt.Errorf("%w: %d < %d (PA)", ErrInsufficientSatellites, len(pa), conf.MinNumSatsPvt)
}

// solveSpvt runs DOP, WLSQ and protection levels for the selected satellites
func solveSpvt(conf *Conf, rcvr *RcvrInfo, sats []*SatCorr, mode SolMode, sol *PosSol) error {

	// Geometry and weight matrices
	G, W, err := BuildGW(sats)
	if err != nil {
		return err
	}
	traceMat("G", G)

	// PDOP gate
	dop, err := CalcDop(G)
	if err != nil {
		return err
	}
	if math.IsNaN(dop.Pdop) {
		return fmt.Errorf("%w: pdop is NaN", ErrSingularGeometry)
	}
	if dop.Pdop >= conf.PdopMax {
		return fmt.Errorf("%w: pdop=%.3f >= %.3f", ErrPdopExceeded, dop.Pdop, conf.PdopMax)
	}

	// Weighted least squares
	S, err := BuildSMatrix(G, W)
	if err != nil {
		return err
	}
	ref := rcvr.RefXYZ()
	wl, err := SolveWlsq(S, sats, ref, 0, conf.WlsqMaxIter, conf.WlsqConvThres)
	if err != nil {
		return err
	}

	// Protection levels
	hpl, vpl, err := CalcPL(G, W, mode)
	if err != nil {
		return err
	}

	// Position errors w.r.t. the reference
	llh := wl.Pos.ToLLH()
	enu := wl.Pos.ToENU(ref)
	hpe := enu.Horizontal()
	vpe := math.Abs(enu.U)

	// Safety indices
	hsi, err := safeDiv(hpe, hpl)
	if err != nil {
		return fmt.Errorf("hsi: %w", err)
	}
	vsi, err := safeDiv(vpe, vpl)
	if err != nil {
		return fmt.Errorf("vsi: %w", err)
	}
	if math.IsNaN(hsi) || math.IsNaN(vsi) {
		return fmt.Errorf("%w: safety index is NaN", ErrSingularGeometry)
	}

	sol.Lon = llh.LonDeg()
	sol.Lat = llh.LatDeg()
	sol.Alt = llh.Hei
	sol.Clk = wl.Clk
	sol.Sol = mode
	sol.Epe = enu.E
	sol.Npe = enu.N
	sol.Upe = enu.U
	sol.Hpe = hpe
	sol.Vpe = vpe
	sol.Hpl = hpl
	sol.Vpl = vpl
	sol.Hsi = hsi
	sol.Vsi = vsi
	sol.Dop = dop
	return nil
}

// Reset all derived fields, keeping time and satellite counts
func noSolution(sol PosSol) PosSol {
	return PosSol{
		Time:      sol.Time,
		Lon:       sol.Lon,
		Lat:       sol.Lat,
		Alt:       sol.Alt,
		Sol:       SOL_NONE,
		NumSatVis: sol.NumSatVis,
		NumSatSol: sol.NumSatSol,
	}
}
