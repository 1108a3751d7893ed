// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gosbas

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
)

// Type representing satellite name like "G10"
type SatType string

// Type representing satellite system like 'G'
type SysType byte

// Extract satellite system from satellite name
func (p SatType) Sys() SysType {
	if len(p) == 0 {
		return 0
	}
	return SysType(p[0])
}

// Extract satellite number from satellite name
func (p SatType) Num() int {
	if len(p) < 2 {
		return 0
	}
	i, err := strconv.Atoi(string(p[1:]))
	if err != nil {
		return 0
	}
	return i
}

// Satellite usability flag set by the corrections stage
type SatFlag int

const (
	FLAG_UNUSABLE SatFlag = iota // Not usable
	FLAG_PA                      // Usable for precision approach
	FLAG_NPA                     // Usable for non-precision approach only
)

// Corrected measurement of one satellite for one epoch
type SatCorr struct {
	Sat       SatType // Satellite name
	Elev      float64 // Elevation [deg]
	Azim      float64 // Azimuth [deg]
	CorrPsr   float64 // Corrected pseudorange [m]
	SatPos    PosXYZ  // Satellite ECEF position at transmission [m]
	SigmaUere float64 // UERE sigma [m]
	Flag      SatFlag // Usability flag
}

// Corrections of all satellites for one epoch
type CorrE struct {
	Time ETime                // Epoch time
	DatS map[SatType]*SatCorr // Corrections for each satellite
}

func NewCorrE(t ETime) *CorrE {
	return &CorrE{Time: t, DatS: map[SatType]*SatCorr{}}
}

// Satellite names in the canonical order
func (p *CorrE) Sats() []SatType {
	return Sorted(maps.Keys(p.DatS))
}

// Corrections for all epochs (sorted by time in ascending order)
type Corr struct {
	DatE []*CorrE
}

// Number of columns of a corrections line:
// SOD DOY PRN ELEV AZIM FLAG SAT-X SAT-Y SAT-Z CORR-PSR SIGMA-UERE
const CORR_NCOLS = 11

// Read a corrections file.
// Empty lines and lines starting with '#' are skipped. Lines of one epoch must be
// contiguous, and epochs must be in increasing time order.
func ReadCorr(r io.Reader) (*Corr, error) {
	corr := &Corr{DatE: []*CorrE{}}
	var cur *CorrE
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		t, sc_, err := parseCorrLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", ln, err)
		}
		if cur == nil || cur.Time != t {
			if cur != nil && !cur.Time.Less(t) {
				return nil, fmt.Errorf("line %d: %w: %s after %s", ln, ErrOutOfOrder, t, cur.Time)
			}
			cur = NewCorrE(t)
			corr.DatE = append(corr.DatE, cur)
		}
		cur.DatS[sc_.Sat] = sc_
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return corr, nil
}

func parseCorrLine(line string) (ETime, *SatCorr, error) {
	f := strings.Fields(line)
	if len(f) < CORR_NCOLS {
		return ETime{}, nil, fmt.Errorf("too few columns: %d < %d", len(f), CORR_NCOLS)
	}
	v := make([]float64, CORR_NCOLS)
	for i, s := range f[:CORR_NCOLS] {
		if i == 2 {
			continue // PRN
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return ETime{}, nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		v[i] = x
	}
	flag := SatFlag(v[5])
	if flag < FLAG_UNUSABLE || flag > FLAG_NPA {
		return ETime{}, nil, fmt.Errorf("invalid flag: %s", f[5])
	}
	return ETime{Doy: int(v[1]), Sod: v[0]}, &SatCorr{
		Sat:       SatType(f[2]),
		Elev:      v[3],
		Azim:      v[4],
		Flag:      flag,
		SatPos:    PosXYZ{X: v[6], Y: v[7], Z: v[8]},
		CorrPsr:   v[9],
		SigmaUere: v[10],
	}, nil
}
