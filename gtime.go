// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.13
//

package gosbas

import (
	"fmt"
	"math"
	"time"
)

// Epoch time as used by the corrections stage: day of year and second of day
type ETime struct {
	Doy int
	Sod float64
}

func NewETime(dt time.Time) *ETime {
	dt = dt.UTC()
	midnight := time.Date(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, time.UTC)
	return &ETime{
		Doy: dt.YearDay(),
		Sod: dt.Sub(midnight).Seconds(),
	}
}

// Convert to time.Time in the given year
func (p *ETime) ToTime(year int) time.Time {
	t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, p.Doy-1)
	i := math.Trunc(p.Sod)
	return t.Add(time.Duration(i)*time.Second + time.Duration((p.Sod-i)*1e9))
}

// Seconds elapsed from b to p (within the same year)
func (p *ETime) Sub(b ETime) float64 {
	return float64(p.Doy-b.Doy)*DAY + p.Sod - b.Sod
}

func (p *ETime) Less(b ETime) bool {
	if p.Doy == b.Doy {
		return p.Sod < b.Sod
	}
	return p.Doy < b.Doy
}

func (p ETime) String() string {
	return fmt.Sprintf("D%03d %8.1f", p.Doy, p.Sod)
}
