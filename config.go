// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.16
//

package gosbas

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// ServiceConf holds the requirements of one SBAS service level
type ServiceConf struct {
	Name         string  `mapstructure:"name" yaml:"name"`                   // Service level name (e.g. LPV200)
	Enabled      bool    `mapstructure:"enabled" yaml:"enabled"`             // Evaluate this service level
	Hal          float64 `mapstructure:"hal" yaml:"hal"`                     // Horizontal alert limit [m]
	Val          float64 `mapstructure:"val" yaml:"val"`                     // Vertical alert limit [m]. 0 for horizontal-only services
	Hpe95        float64 `mapstructure:"hpe95" yaml:"hpe95"`                 // Target 95% HPE [m]
	Vpe95        float64 `mapstructure:"vpe95" yaml:"vpe95"`                 // Target 95% VPE [m]
	Vpe1e7       float64 `mapstructure:"vpe1e7" yaml:"vpe1e7"`               // Target 1e-7 VPE [m]
	Avail        float64 `mapstructure:"avail" yaml:"avail"`                 // Target availability [%]
	Cont         float64 `mapstructure:"cont" yaml:"cont"`                   // Target continuity risk
	ContInterval int     `mapstructure:"cont_interval" yaml:"cont_interval"` // Continuity window [samples]
}

// Build a service level from the classic array layout
// [enabled, HAL, VAL, HPE95, VPE95, VPE1E7, availability, continuity, continuity interval]
func NewServiceConf(name string, v [9]float64) ServiceConf {
	return ServiceConf{
		Name:         name,
		Enabled:      v[0] != 0,
		Hal:          v[1],
		Val:          v[2],
		Hpe95:        v[3],
		Vpe95:        v[4],
		Vpe1e7:       v[5],
		Avail:        v[6],
		Cont:         v[7],
		ContInterval: int(v[8]),
	}
}

// Whether the service level has vertical guidance
func (s *ServiceConf) Vertical() bool {
	return s.Val > 0
}

// Conf is the immutable run configuration threaded through the solver and the accumulator
type Conf struct {
	SamplingRate     float64       `mapstructure:"sampling_rate" yaml:"sampling_rate"`         // Nominal sampling interval [s]
	PdopMax          float64       `mapstructure:"pdop_max" yaml:"pdop_max"`                   // PDOP ceiling
	NpaSolution      bool          `mapstructure:"npa_solution" yaml:"npa_solution"`           // Fall back to NPA solutions
	MinNumSatsPvt    int           `mapstructure:"min_num_sats_pvt" yaml:"min_num_sats_pvt"`   // Minimum satellites for a fix
	WlsqMaxIter      int           `mapstructure:"wlsq_max_iter" yaml:"wlsq_max_iter"`         // WLSQ iteration cap (1: single step)
	WlsqConvThres    float64       `mapstructure:"wlsq_conv_thres" yaml:"wlsq_conv_thres"`     // WLSQ convergence threshold [m]
	HistRes          float64       `mapstructure:"hist_res" yaml:"hist_res"`                   // Error histogram resolution [m]
	ScheduledSamples int           `mapstructure:"scheduled_samples" yaml:"scheduled_samples"` // Samples per day. 0: DAY / SamplingRate
	Services         []ServiceConf `mapstructure:"services" yaml:"services"`                   // Service levels
}

// NewConf creates a Conf with default values
func NewConf() *Conf {
	return &Conf{
		SamplingRate:     1,     // 1 Hz
		PdopMax:          10000, // Practically no PDOP gate
		NpaSolution:      false, // PA only
		MinNumSatsPvt:    MIN_NUM_SATS_PVT,
		WlsqMaxIter:      10,
		WlsqConvThres:    1e-4,
		HistRes:          0.001, // 1 mm
		ScheduledSamples: 0,
		Services: []ServiceConf{
			NewServiceConf("NPA", [9]float64{1, 556, 0, 220, 0, 0, 99.9, 1e-4, 3600}),
			NewServiceConf("APV-I", [9]float64{1, 40, 50, 16, 20, 0, 99, 8e-6, 15}),
			NewServiceConf("LPV200", [9]float64{1, 40, 35, 16, 4, 10, 99, 8e-6, 15}),
		},
	}
}

// Validate checks the configuration values
func (c *Conf) Validate() error {
	if c.SamplingRate <= 0 {
		return fmt.Errorf("invalid sampling_rate: %f", c.SamplingRate)
	}
	if c.PdopMax <= 0 {
		return fmt.Errorf("invalid pdop_max: %f", c.PdopMax)
	}
	if c.MinNumSatsPvt < MIN_NUM_SATS_PVT {
		return fmt.Errorf("min_num_sats_pvt must be >= %d: %d", MIN_NUM_SATS_PVT, c.MinNumSatsPvt)
	}
	if c.WlsqMaxIter < 1 {
		return fmt.Errorf("invalid wlsq_max_iter: %d", c.WlsqMaxIter)
	}
	if c.HistRes <= 0 {
		return fmt.Errorf("invalid hist_res: %f", c.HistRes)
	}
	names := []string{}
	for _, s := range c.Services {
		if slices.Contains(names, s.Name) {
			return fmt.Errorf("duplicated service: %s", s.Name)
		}
		names = append(names, s.Name)
		if !s.Enabled {
			continue
		}
		if s.Hal <= 0 {
			return fmt.Errorf("service %s: invalid hal: %f", s.Name, s.Hal)
		}
		if s.ContInterval < 1 {
			return fmt.Errorf("service %s: invalid cont_interval: %d", s.Name, s.ContInterval)
		}
	}
	return nil
}

// Number of samples the receiver is expected to deliver in a day
func (c *Conf) DaySamples() int {
	if c.ScheduledSamples > 0 {
		return c.ScheduledSamples
	}
	return int(DAY / c.SamplingRate)
}

// Enabled service levels in configuration order
func (c *Conf) EnabledServices() []ServiceConf {
	ss := []ServiceConf{}
	for _, s := range c.Services {
		if s.Enabled {
			ss = append(ss, s)
		}
	}
	return ss
}

// The enabled vertical service with the smallest VAL (or the smallest HAL when
// no vertical service is enabled). ok is false when nothing is enabled.
func (c *Conf) MostStringent() (svc ServiceConf, ok bool) {
	for _, s := range c.EnabledServices() {
		switch {
		case !ok:
			svc, ok = s, true
		case s.Vertical() && (!svc.Vertical() || s.Val < svc.Val):
			svc = s
		case !s.Vertical() && !svc.Vertical() && s.Hal < svc.Hal:
			svc = s
		}
	}
	return
}

// LoadConf reads a YAML configuration file on top of the defaults.
// Scalar keys may be overridden by GOSBAS_* environment variables.
func LoadConf(path string) (*Conf, error) {
	conf := NewConf()
	v := viper.New()
	v.SetEnvPrefix("GOSBAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("sampling_rate", conf.SamplingRate)
	v.SetDefault("pdop_max", conf.PdopMax)
	v.SetDefault("npa_solution", conf.NpaSolution)
	v.SetDefault("min_num_sats_pvt", conf.MinNumSatsPvt)
	v.SetDefault("wlsq_max_iter", conf.WlsqMaxIter)
	v.SetDefault("wlsq_conv_thres", conf.WlsqConvThres)
	v.SetDefault("hist_res", conf.HistRes)
	v.SetDefault("scheduled_samples", conf.ScheduledSamples)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("ReadInConfig() failed, err=%w", err)
		}
		// A configured service list replaces the default one instead of merging into it
		if v.IsSet("services") {
			conf.Services = nil
		}
	}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("Unmarshal() failed, err=%w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Dump writes the effective configuration as YAML
func (c *Conf) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(c)
}
