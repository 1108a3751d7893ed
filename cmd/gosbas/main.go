// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	m "github.com/mkhts/gosbas"
)

// Structure to hold command line argument information
type cmdOpt struct {
	confFn    string
	rcvrFn    string
	outDir    string
	xlsxFn    string
	metricsFn string
	dumpConf  bool
	dbg       int
	corrFns   []string
}

var args cmdOpt

var rootCmd = &cobra.Command{
	Use:   "gosbas [flags] CORR_<RCVR>_<DATE>.dat ...",
	Short: "SBAS receiver navigation performance evaluation",
	Long: `gosbas computes the SBAS position/integrity solution of every epoch of the
given corrections files and summarizes availability, continuity, accuracy and
integrity per receiver and service level.

The receiver of a corrections file is the receiver list entry whose ID is one
of the '_'-separated tokens of the file name.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, a []string) error {
		args.corrFns = a
		return runApplication(args)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&args.confFn, "config", "c", "", "Configuration file (YAML). Defaults are used if omitted.")
	rootCmd.Flags().StringVarP(&args.rcvrFn, "rcvr", "r", "", "Receiver list file: ID LON LAT ALT MASK per line.")
	rootCmd.Flags().StringVarP(&args.outDir, "out", "o", ".", "Output directory for position, performance and histogram files.")
	rootCmd.Flags().StringVar(&args.xlsxFn, "xlsx", "", "Also save the performance summary to this workbook.")
	rootCmd.Flags().StringVar(&args.metricsFn, "metrics", "", "Write run metrics to this Prometheus textfile.")
	rootCmd.Flags().BoolVar(&args.dumpConf, "dump-config", false, "Print the effective configuration and exit.")
	rootCmd.Flags().IntVarP(&args.dbg, "debug", "x", 0, "Debug information display level. 0(OFF), 1(info), 2(debug), 3(trace)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Main application processing
func runApplication(args cmdOpt) error {

	m.SetDebugLevel(args.dbg)

	conf, err := m.LoadConf(args.confFn)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if args.dumpConf {
		return conf.Dump(os.Stdout)
	}
	if len(args.corrFns) == 0 {
		return fmt.Errorf("no corrections file")
	}

	rcvrs, err := readRcvr(args.rcvrFn)
	if err != nil {
		return fmt.Errorf("failed to read receiver file: %w", err)
	}

	jobs, err := matchJobs(rcvrs, args.corrFns)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(args.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Receiver-days are independent; each runs on its own goroutine
	metrics := m.NewMetrics()
	results := make([]m.PerfSet, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()
			perfs, err := processJob(conf, j, args.outDir, metrics)
			if err != nil {
				log.WithField("rcvr", j.rcvr.Id).Warn(err)
			}
			results[i] = perfs
		}(i, j)
	}
	wg.Wait()

	// Performance summary
	all := []*m.PerfInfo{}
	for _, ps := range results {
		all = append(all, ps...)
	}
	if err := writePerf(filepath.Join(args.outDir, "PERF.dat"), all); err != nil {
		return fmt.Errorf("failed to write performance file: %w", err)
	}
	if args.xlsxFn != "" {
		if err := m.ToExcelFile(args.xlsxFn, all); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
	}
	if args.metricsFn != "" {
		if err := metrics.WriteTextfile(args.metricsFn); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// One receiver-day to process
type job struct {
	rcvr   m.RcvrInfo
	corrFn string
	tag    string // Output file tag, unique per job
}

// Associate every corrections file with its receiver.
// The output tag is the file name without extension and without the "CORR_" prefix,
// so the days of one receiver get their own output files.
func matchJobs(rcvrs []m.RcvrInfo, corrFns []string) ([]job, error) {
	jobs := []job{}
	tags := map[string]string{}
	for _, fn := range corrFns {
		base := strings.TrimSuffix(filepath.Base(fn), filepath.Ext(fn))
		tag := strings.TrimPrefix(base, "CORR_")
		if prev, ok := tags[tag]; ok {
			return nil, fmt.Errorf("%s and %s would write the same output files", prev, fn)
		}
		tags[tag] = fn
		found := false
		for _, tok := range strings.Split(base, "_") {
			for _, r := range rcvrs {
				if r.Id == tok {
					jobs = append(jobs, job{rcvr: r, corrFn: fn, tag: tag})
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("no receiver found for %s", fn)
		}
	}
	return jobs, nil
}

// Process one receiver-day and write its position and histogram files
func processJob(conf *m.Conf, j job, outDir string, metrics *m.Metrics) (perfs m.PerfSet, err error) {

	corr, err := readCorr(j.corrFn)
	if err != nil {
		return nil, fmt.Errorf("failed to read corrections file: %w", err)
	}

	posFn := filepath.Join(outDir, fmt.Sprintf("POS_%s.dat", j.tag))
	pos, err := os.Create(posFn)
	if err != nil {
		return nil, fmt.Errorf("failed to create position file: %w", err)
	}
	defer closeFile(pos, &err)
	if err := m.WritePosHeader(pos); err != nil {
		return nil, err
	}

	perfs, perr := m.ProcessRcvr(conf, &j.rcvr, corr, pos, metrics)

	// VPE histogram of the most stringent service level
	if svc, ok := conf.MostStringent(); ok && perfs != nil {
		if p := perfs.Get(svc.Name); p != nil && p.VpeHist.N > 0 {
			histFn := filepath.Join(outDir, fmt.Sprintf("HIST_%s_%s.dat", j.tag, svc.Name))
			if err := writeHist(histFn, p.VpeHist); err != nil {
				return perfs, fmt.Errorf("failed to write histogram file: %w", err)
			}
		}
	}
	return perfs, perr
}

// Read receiver file
func readRcvr(fn string) ([]m.RcvrInfo, error) {
	if fn == "" {
		return nil, fmt.Errorf("the receiver file must be specified! (-r option)")
	}
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return m.ReadRcvr(f)
}

// Read corrections file
func readCorr(fn string) (*m.Corr, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return m.ReadCorr(f)
}

// Write performance summary file
func writePerf(fn string, perfs []*m.PerfInfo) (err error) {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer closeFile(f, &err)
	if err := m.WritePerfHeader(f); err != nil {
		return err
	}
	for _, p := range perfs {
		if err := m.WritePerf(f, p); err != nil {
			return err
		}
	}
	return nil
}

// Write histogram file
func writeHist(fn string, h *m.Histogram) (err error) {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer closeFile(f, &err)
	return m.WriteHist(f, h)
}

// Close a written file, keeping the first error
func closeFile(f *os.File, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
