// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gosbas

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// ProcessRcvr computes the epoch solutions of one receiver for one day and
// accumulates them into the performance records of all enabled service levels.
//
// Epochs are processed in file order. Epoch-level failures only turn the epoch
// into "no solution". pos and m are optional (nil). The returned error is the
// joined finalization error (typically ErrInsufficientData for a service level
// that was never available); the records are returned in any case.
func ProcessRcvr(conf *Conf, rcvr *RcvrInfo, corr *Corr, pos io.Writer, m *Metrics) (PerfSet, error) {
	if len(corr.DatE) == 0 {
		return nil, fmt.Errorf("%s: %w: no epochs", rcvr.Id, ErrInsufficientData)
	}
	lg := log.WithField("rcvr", rcvr.Id)
	perfs := NewPerfSet(conf, rcvr, corr.DatE[0].Time.Doy)

	nsol := 0
	for _, corre := range corr.DatE {
		sol, err := CalcSpvt(conf, rcvr, corre)
		if err != nil {
			lg.WithField("sod", corre.Time.Sod).Debugf("no solution: %v", err)
		} else {
			nsol++
		}
		if m != nil {
			m.ObserveEpoch(rcvr.Id, &sol, RejectReason(err))
		}
		if pos != nil {
			if err := WritePos(pos, rcvr.Id, &sol); err != nil {
				return nil, fmt.Errorf("WritePos() failed, err=%w", err)
			}
		}
		if err := perfs.Update(sol); err != nil {
			lg.Warnf("epoch skipped: %v", err)
		}
	}
	lg.Infof("epochs: %d, solutions: %d", len(corr.DatE), nsol)

	err := perfs.Finalize()
	if m != nil {
		for _, p := range perfs {
			m.ObservePerf(p)
		}
	}
	return perfs, err
}
