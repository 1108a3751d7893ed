// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

// Writers for the position, performance and histogram output files.

package gosbas

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Print position file header
func WritePosHeader(w io.Writer) error {
	_, err := fmt.Fprintf(w, "#%-7s %3s %8s %14s %13s %10s %12s %3s %4s %4s %8s %8s %8s %8s %8s %8s %8s %8s %7s %7s %7s %7s\n",
		"RCVR", "DOY", "SOD", "LON", "LAT", "ALT", "CLK", "SOL", "NVIS", "NSOL",
		"HPE", "VPE", "EPE", "NPE", "HPL", "VPL", "HSI", "VSI", "HDOP", "VDOP", "PDOP", "TDOP")
	return err
}

// Print one epoch of the position file
func WritePos(w io.Writer, rcvr string, sol *PosSol) error {
	_, err := fmt.Fprintf(w, "%-8s %3d %8.1f %14.9f %13.9f %10.4f %12.4f %3d %4d %4d %8.4f %8.4f %8.4f %8.4f %8.4f %8.4f %8.4f %8.4f %7.3f %7.3f %7.3f %7.3f\n",
		rcvr, sol.Time.Doy, sol.Time.Sod, sol.Lon, sol.Lat, sol.Alt, sol.Clk, sol.Sol, sol.NumSatVis, sol.NumSatSol,
		sol.Hpe, sol.Vpe, sol.Epe, sol.Npe, sol.Hpl, sol.Vpl, sol.Hsi, sol.Vsi, sol.Hdop, sol.Vdop, sol.Pdop, sol.Tdop)
	return err
}

// Columns of the performance summary (shared by the text and XLSX writers)
var perfColumns = []string{
	"RCVR", "SERVICE", "LON", "LAT", "DOY", "SAMSOL", "SAMNOSOL", "AVAIL%", "NOTAVAIL", "CONTRISK",
	"NMI", "NHMI", "NSVMIN", "NSVMAX", "HPERMS", "VPERMS", "HPE95", "VPE95", "HPEMAX", "VPEMAX", "EXTVPE",
	"HPLMIN", "HPLMAX", "VPLMIN", "VPLMAX", "HSIMAX", "VSIMAX", "PDOPMAX", "HDOPMAX", "VDOPMAX", "COMPLIANT",
}

func perfValues(p *PerfInfo) []any {
	c := p.Compliance
	compliant := c.Hpe95 && c.Vpe95 && c.Vpe1e7 && c.Avail && c.Cont
	return []any{
		p.Rcvr, p.Service.Name, p.Lon, p.Lat, p.Doy, p.SamSol, p.SamNoSol, p.Avail, p.NotAvail, p.ContRisk,
		p.Nmi, p.Nhmi, p.NsvMin, p.NsvMax, p.HpeRms, p.VpeRms, p.Hpe95, p.Vpe95, p.HpeMax, p.VpeMax, p.ExtVpe,
		p.HplMin, p.HplMax, p.VplMin, p.VplMax, p.HsiMax, p.VsiMax, p.PdopMax, p.HdopMax, p.VdopMax, compliant,
	}
}

// Print performance summary header
func WritePerfHeader(w io.Writer) error {
	for i, c := range perfColumns {
		sep := " "
		if i == 0 {
			sep = "#"
		}
		if _, err := fmt.Fprintf(w, "%s%s", sep, c); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// Print one finalized performance record
func WritePerf(w io.Writer, p *PerfInfo) error {
	for i, v := range perfValues(p) {
		sep := " "
		if i == 0 {
			sep = ""
		}
		var err error
		switch x := v.(type) {
		case float64:
			_, err = fmt.Fprintf(w, "%s%.6g", sep, x)
		default:
			_, err = fmt.Fprintf(w, "%s%v", sep, x)
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// Print the histogram file: BINID BINMIN BINMAX BINNUMSAMPLES BINFREQ
func WriteHist(w io.Writer, h *Histogram) error {
	if _, err := fmt.Fprintf(w, "#%5s %10s %10s %10s %12s\n", "BINID", "BINMIN", "BINMAX", "BINNUMSAM", "BINFREQ"); err != nil {
		return err
	}
	for _, b := range h.HistBins() {
		if _, err := fmt.Fprintf(w, "%6d %10.4f %10.4f %10d %12.8f\n", b.Id, b.Min, b.Max, b.Count, b.Freq); err != nil {
			return err
		}
	}
	return nil
}

// Save performance records as a workbook, one row per receiver/service level
func ToExcelFile(xlsxPath string, perfs []*PerfInfo) error {
	const sheet = "Perf"
	xlsx := excelize.NewFile()
	defer func() {
		if err := xlsx.Close(); err != nil {
			log.Warning(err)
		}
	}()
	if err := xlsx.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("SetSheetName() failed, err=%w", err)
	}
	for j, c := range perfColumns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err = xlsx.SetCellValue(sheet, cell, c); err != nil {
			return err
		}
	}
	for i, p := range perfs {
		for j, v := range perfValues(p) {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err = xlsx.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	if err := xlsx.SaveAs(xlsxPath); err != nil {
		return fmt.Errorf("SaveAs() failed, err=%w", err)
	}
	return nil
}
