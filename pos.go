// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.14
//

// Coordinate frames used by the solver: geodetic (WGS84), ECEF and local ENU.

package gosbas

import (
	"fmt"
	"math"
)

//-------------------------------------------------------------------
// PosLLH
//-------------------------------------------------------------------

// Geodetic position. Lat/Lon in radians, Hei in meters above the ellipsoid.
type PosLLH struct {
	Lat float64
	Lon float64
	Hei float64
}

// Build a geodetic position from degrees (longitude first, as in receiver files)
func NewPosLLHDeg(lonDeg, latDeg, hei float64) *PosLLH {
	return &PosLLH{
		Lat: ToRad(latDeg),
		Lon: ToRad(lonDeg),
		Hei: hei,
	}
}

func (llh *PosLLH) LatDeg() float64 { return ToDeg(llh.Lat) }
func (llh *PosLLH) LonDeg() float64 { return ToDeg(llh.Lon) }

func (llh *PosLLH) ToXYZ() PosXYZ {
	e2 := Fe * (2 - Fe)
	sinl := math.Sin(llh.Lat)
	n := Re / math.Sqrt(1-e2*sinl*sinl) // Radius of curvature in the prime vertical
	return PosXYZ{
		X: (n + llh.Hei) * math.Cos(llh.Lat) * math.Cos(llh.Lon),
		Y: (n + llh.Hei) * math.Cos(llh.Lat) * math.Sin(llh.Lon),
		Z: (n*(1-e2) + llh.Hei) * sinl,
	}
}

func (llh *PosLLH) String() string {
	return fmt.Sprintf("%.8f %.8f %.4f", llh.LonDeg(), llh.LatDeg(), llh.Hei)
}

//-------------------------------------------------------------------
// PosXYZ
//-------------------------------------------------------------------

// ECEF position [m]
type PosXYZ struct {
	X float64
	Y float64
	Z float64
}

// Iterative conversion; converges below 0.1 mm within a few loops for
// positions near the Earth's surface.
func (pos *PosXYZ) ToLLH() PosLLH {
	if pos.X == 0 && pos.Y == 0 && pos.Z == 0 {
		return PosLLH{Lat: 0, Lon: 0, Hei: -Re}
	}
	e2 := Fe * (2 - Fe)
	p := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y)
	z := pos.Z
	zk := 0.0
	v := Re
	for math.Abs(z-zk) >= 1e-4 {
		zk = z
		sinp := z / math.Sqrt(p*p+z*z)
		v = Re / math.Sqrt(1-e2*sinp*sinp)
		z = pos.Z + v*e2*sinp
	}
	lat := math.Pi / 2
	switch {
	case p > 1e-12:
		lat = math.Atan(z / p)
	case pos.Z < 0:
		lat = -math.Pi / 2
	}
	return PosLLH{
		Lat: lat,
		Lon: math.Atan2(pos.Y, pos.X),
		Hei: math.Sqrt(p*p+z*z) - v,
	}
}

// Position of pos relative to base, in base's local ENU frame
func (pos *PosXYZ) ToENU(base PosXYZ) PosENU {
	llh := base.ToLLH()
	return rotXYZToENU(llh, pos.X-base.X, pos.Y-base.Y, pos.Z-base.Z)
}

// Add an ENU displacement expressed in the local frame of pos
func (pos *PosXYZ) AddENU(d PosENU) PosXYZ {
	llh := pos.ToLLH()
	dx, dy, dz := rotENUToXYZ(llh, d)
	return PosXYZ{X: pos.X + dx, Y: pos.Y + dy, Z: pos.Z + dz}
}

//-------------------------------------------------------------------
// PosENU
//-------------------------------------------------------------------

// Local East/North/Up coordinates [m]
type PosENU struct {
	E float64
	N float64
	U float64
}

// Absolute position of an ENU point given in base's local frame
func (enu *PosENU) ToXYZ(base PosXYZ) PosXYZ {
	return base.AddENU(*enu)
}

func (enu *PosENU) Horizontal() float64 {
	return math.Hypot(enu.E, enu.N)
}

// Elevation and azimuth [deg] of the direction pointed to by enu
func (enu *PosENU) ElevAzim() (elev, azim float64) {
	elev = ToDeg(math.Atan2(enu.U, enu.Horizontal()))
	azim = ToDeg(math.Atan2(enu.E, enu.N))
	if azim < 0 {
		azim += 360
	}
	return
}

// Unit line-of-sight vector (receiver to satellite) for the given angles [deg]
func LineOfSight(elevDeg, azimDeg float64) PosENU {
	el, az := ToRad(elevDeg), ToRad(azimDeg)
	return PosENU{
		E: math.Cos(el) * math.Sin(az),
		N: math.Cos(el) * math.Cos(az),
		U: math.Sin(el),
	}
}

func rotXYZToENU(llh PosLLH, x, y, z float64) PosENU {
	sl, cl := math.Sin(llh.Lon), math.Cos(llh.Lon)
	sp, cp := math.Sin(llh.Lat), math.Cos(llh.Lat)
	return PosENU{
		E: -x*sl + y*cl,
		N: -x*cl*sp - y*sl*sp + z*cp,
		U: x*cl*cp + y*sl*cp + z*sp,
	}
}

func rotENUToXYZ(llh PosLLH, d PosENU) (x, y, z float64) {
	sl, cl := math.Sin(llh.Lon), math.Cos(llh.Lon)
	sp, cp := math.Sin(llh.Lat), math.Cos(llh.Lat)
	x = -d.E*sl - d.N*cl*sp + d.U*cl*cp
	y = d.E*cl - d.N*sl*sp + d.U*sl*cp
	z = d.N*cp + d.U*sp
	return
}
