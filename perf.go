// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

// Accumulates per-epoch solutions into availability, continuity, accuracy and
// integrity statistics of one receiver for one service level.

package gosbas

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
)

// Compliance of the finalized statistics with the service targets.
// A target of 0 is not applicable and always passes.
type Compliance struct {
	Hpe95  bool
	Vpe95  bool
	Vpe1e7 bool
	Avail  bool
	Cont   bool
}

// PerfInfo is the performance record of one receiver and one service level
type PerfInfo struct {
	Rcvr    string      // Receiver identifier
	Lon     float64     // Receiver reference longitude [deg]
	Lat     float64     // Receiver reference latitude [deg]
	Doy     int         // Day of year
	Service ServiceConf // Service level and its requirements

	// Counters
	SamSol      int // Samples processed
	SamNoSol    int // Samples without solution
	SamAvail    int // Samples with the service available
	SamNotAvail int // Samples with a solution but the service not available
	Nmi         int // Misleading information
	Nhmi        int // Hazardous misleading information
	ContEvents  int // Samples affected by a discontinuity

	// Extrema over samples with a solution
	NsvMin  int
	NsvMax  int
	HplMin  float64
	HplMax  float64
	VplMin  float64
	VplMax  float64
	HsiMax  float64
	VsiMax  float64
	HdopMax float64
	VdopMax float64
	PdopMax float64
	TdopMax float64

	// Accuracy over available samples
	HpeMax  float64
	VpeMax  float64
	HpeSum2 float64    // Sum of squared HPE
	VpeSum2 float64    // Sum of squared VPE
	HpeHist *Histogram // HPE distribution
	VpeHist *Histogram // VPE distribution

	// Derived fields (written by Finalize)
	NotAvail   int     // SamNotAvail + SamNoSol
	Avail      float64 // Availability [%]
	ContRisk   float64 // Continuity risk
	HpeRms     float64 // [m]
	VpeRms     float64 // [m]
	Hpe95      float64 // [m]
	Vpe95      float64 // [m]
	ExtVpe     float64 // Extrapolated VPE at 1e-7 [m]
	Compliance Compliance

	// Continuity state
	cont      *contBuf
	prevFlag  int
	prevTime  ETime
	started   bool
	rate      float64
	scheduled int
}

// NewPerfInfo initializes the record of a receiver/service level for one day
func NewPerfInfo(conf *Conf, svc ServiceConf, rcvr *RcvrInfo, doy int) *PerfInfo {
	n := svc.ContInterval
	if n < 1 {
		n = 1
	}
	return &PerfInfo{
		Rcvr:      rcvr.Id,
		Lon:       rcvr.Lon,
		Lat:       rcvr.Lat,
		Doy:       doy,
		Service:   svc,
		HpeHist:   NewHistogram(conf.HistRes),
		VpeHist:   NewHistogram(conf.HistRes),
		cont:      newContBuf(n),
		rate:      conf.SamplingRate,
		scheduled: conf.DaySamples(),
	}
}

// Length of the continuity window [samples]
func (p *PerfInfo) ContWindow() int {
	return p.cont.Len()
}

// Update the record with the solution of the next epoch.
// Epochs must arrive in strictly increasing time order; an out-of-order epoch
// is rejected with ErrOutOfOrder and leaves the record unchanged.
func (p *PerfInfo) Update(sol PosSol) error {
	if p.started && !p.prevTime.Less(sol.Time) {
		return fmt.Errorf("%w: %s after %s", ErrOutOfOrder, sol.Time, p.prevTime)
	}

	p.SamSol++
	flag := 0
	if sol.Sol == SOL_NONE {
		p.SamNoSol++
	} else {
		p.updateExtrema(&sol)
		flag = p.updateAvailability(&sol)
	}
	p.updateContinuity(sol.Time, flag)

	p.prevFlag = flag
	p.prevTime = sol.Time
	p.started = true
	return nil
}

// updateExtrema updates minimum/maximum reducers with a valid solution
func (p *PerfInfo) updateExtrema(sol *PosSol) {
	first := p.SamSol-p.SamNoSol == 1
	if first || sol.NumSatSol < p.NsvMin {
		p.NsvMin = sol.NumSatSol
	}
	if first || sol.Hpl < p.HplMin {
		p.HplMin = sol.Hpl
	}
	if first || sol.Vpl < p.VplMin {
		p.VplMin = sol.Vpl
	}
	p.NsvMax = max(p.NsvMax, sol.NumSatSol)
	p.HplMax = math.Max(p.HplMax, sol.Hpl)
	p.VplMax = math.Max(p.VplMax, sol.Vpl)
	p.HsiMax = math.Max(p.HsiMax, math.Abs(sol.Hsi))
	p.VsiMax = math.Max(p.VsiMax, math.Abs(sol.Vsi))
	p.HdopMax = math.Max(p.HdopMax, sol.Hdop)
	p.VdopMax = math.Max(p.VdopMax, sol.Vdop)
	p.PdopMax = math.Max(p.PdopMax, sol.Pdop)
	p.TdopMax = math.Max(p.TdopMax, sol.Tdop)
}

// updateAvailability classifies the epoch and returns the availability flag.
// The service is available only when both HPL < HAL and VPL < VAL; a ratio
// equal to 1 counts as not available.
func (p *PerfInfo) updateAvailability(sol *PosSol) int {
	svc := &p.Service
	vert := svc.Vertical()
	hr := sol.Hpl / svc.Hal
	vr := 0.0
	if vert {
		vr = sol.Vpl / svc.Val
	}
	if !(hr < 1 && vr < 1) {
		p.SamNotAvail++
		return 0
	}

	p.SamAvail++
	p.HpeSum2 += SQ(sol.Hpe)
	p.VpeSum2 += SQ(sol.Vpe)
	p.HpeHist.Add(sol.Hpe)
	p.VpeHist.Add(sol.Vpe)
	p.HpeMax = math.Max(p.HpeMax, math.Abs(sol.Hpe))
	p.VpeMax = math.Max(p.VpeMax, math.Abs(sol.Vpe))

	// Integrity: the error is not bounded by the protection level.
	// It is hazardous when it also exceeds the alert limit.
	unsafe := math.Abs(sol.Hsi) >= 1 || (vert && math.Abs(sol.Vsi) >= 1)
	if unsafe {
		hazardous := math.Abs(sol.Hpe) > svc.Hal || (vert && math.Abs(sol.Vpe) > svc.Val)
		if hazardous {
			p.Nhmi++
		} else {
			p.Nmi++
		}
		log.WithFields(log.Fields{"rcvr": p.Rcvr, "service": svc.Name, "sod": sol.Time.Sod}).Warnf(
			"integrity event (hazardous=%v): hpe=%.3f hpl=%.3f vpe=%.3f vpl=%.3f", hazardous, sol.Hpe, sol.Hpl, sol.Vpe, sol.Vpl)
	}
	return 1
}

// updateContinuity runs the continuity state machine
//   - gap longer than the sampling interval: the whole window is a discontinuity,
//     and a new window starts with the current flag
//   - available -> not available: the whole window is a discontinuity
func (p *PerfInfo) updateContinuity(t ETime, flag int) {
	if p.started && t.Sub(p.prevTime) > p.rate+GAP_TOLERANCE {
		p.ContEvents += p.cont.Sum()
		p.cont.Reset(flag)
		return
	}
	p.cont.Push(flag)
	if p.prevFlag == 1 && flag == 0 {
		p.ContEvents += p.cont.Sum()
	}
}

// Finalize computes the derived fields from the accumulated state.
// It does not modify the accumulators, so calling it again yields the same
// result. Without any available sample it returns ErrInsufficientData; the
// sample counts and the availability are still written.
func (p *PerfInfo) Finalize() error {
	p.NotAvail = p.SamNotAvail + p.SamNoSol

	sched := max(p.scheduled, p.SamSol)
	p.Avail = 0
	if sched > 0 {
		p.Avail = math.Min(100, math.Max(0, 100*float64(p.SamAvail)/float64(sched)))
	}

	p.HpeRms, p.VpeRms, p.Hpe95, p.Vpe95, p.ExtVpe, p.ContRisk = 0, 0, 0, 0, 0, 0
	if p.SamAvail == 0 {
		p.Compliance = p.checkCompliance(false)
		return fmt.Errorf("%s/%s: %w: no available samples in %d", p.Rcvr, p.Service.Name, ErrInsufficientData, p.SamSol)
	}

	n := float64(p.SamAvail)
	p.HpeRms = math.Sqrt(p.HpeSum2 / n)
	p.VpeRms = math.Sqrt(p.VpeSum2 / n)
	var err error
	if p.Hpe95, err = p.HpeHist.Percentile(PERCENTILE_95); err != nil {
		return fmt.Errorf("HpeHist.Percentile() failed, err=%w", err)
	}
	if p.Vpe95, err = p.VpeHist.Percentile(PERCENTILE_95); err != nil {
		return fmt.Errorf("VpeHist.Percentile() failed, err=%w", err)
	}
	sigma, err := p.VpeHist.Overbound(EXT_VPE_THRESHOLD)
	if err != nil {
		return fmt.Errorf("VpeHist.Overbound() failed, err=%w", err)
	}
	p.ExtVpe = EXT_VPE_K * sigma
	p.ContRisk = float64(p.ContEvents) / n
	p.Compliance = p.checkCompliance(true)
	return nil
}

func (p *PerfInfo) checkCompliance(valid bool) Compliance {
	svc := &p.Service
	ok := func(value, target float64) bool {
		return target <= 0 || (valid && value <= target)
	}
	return Compliance{
		Hpe95:  ok(p.Hpe95, svc.Hpe95),
		Vpe95:  ok(p.Vpe95, svc.Vpe95),
		Vpe1e7: ok(p.ExtVpe, svc.Vpe1e7),
		Avail:  svc.Avail <= 0 || p.Avail >= svc.Avail,
		Cont:   ok(p.ContRisk, svc.Cont),
	}
}

// Performance records of one receiver for all enabled service levels
type PerfSet []*PerfInfo

func NewPerfSet(conf *Conf, rcvr *RcvrInfo, doy int) PerfSet {
	ps := PerfSet{}
	for _, svc := range conf.EnabledServices() {
		ps = append(ps, NewPerfInfo(conf, svc, rcvr, doy))
	}
	return ps
}

// Update all records with the same epoch solution
func (ps PerfSet) Update(sol PosSol) error {
	for _, p := range ps {
		if err := p.Update(sol); err != nil {
			return fmt.Errorf("%s/%s: %w", p.Rcvr, p.Service.Name, err)
		}
	}
	return nil
}

// Finalize all records. Errors of individual records are joined.
func (ps PerfSet) Finalize() error {
	var errs []error
	for _, p := range ps {
		errs = append(errs, p.Finalize())
	}
	return errors.Join(errs...)
}

// Record of the given service level, nil if not evaluated
func (ps PerfSet) Get(name string) *PerfInfo {
	for _, p := range ps {
		if p.Service.Name == name {
			return p
		}
	}
	return nil
}
