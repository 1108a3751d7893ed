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
)

// Receiver reference information
type RcvrInfo struct {
	Id   string  // Receiver identifier
	Lon  float64 // Reference longitude [deg]
	Lat  float64 // Reference latitude [deg]
	Alt  float64 // Reference altitude [m]
	Mask float64 // Masking angle [deg]
}

// Reference position in ECEF
func (r *RcvrInfo) RefXYZ() PosXYZ {
	return NewPosLLHDeg(r.Lon, r.Lat, r.Alt).ToXYZ()
}

// Read receiver list: ID LON LAT ALT MASK per line
func ReadRcvr(rd io.Reader) ([]RcvrInfo, error) {
	rcvrs := []RcvrInfo{}
	sc := bufio.NewScanner(rd)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 5 {
			return nil, fmt.Errorf("line %d: too few columns: %d < 5", ln, len(f))
		}
		var v [4]float64
		for i := range v {
			x, err := strconv.ParseFloat(f[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %d: %w", ln, i+2, err)
			}
			v[i] = x
		}
		rcvrs = append(rcvrs, RcvrInfo{Id: f[0], Lon: v[0], Lat: v[1], Alt: v[2], Mask: v[3]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rcvrs, nil
}
