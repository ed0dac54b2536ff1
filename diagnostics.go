package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cwsl/nr_uplink/nr/prach"
)

// RunReport is the JSON sidecar written next to the sample file
type RunReport struct {
	RunID     string           `json:"run_id"`
	Version   string           `json:"version"`
	Timestamp time.Time        `json:"timestamp"`
	Preambles []PreambleReport `json:"preambles"`
}

// PreambleReport describes how one preamble was derived
type PreambleReport struct {
	Index                     int    `json:"index"`
	DuplexMode                string `json:"duplex_mode"`
	ConfigurationIndex        int    `json:"configuration_index"`
	Format                    string `json:"format"`
	SubframeNumber            int    `json:"subframe_number"`
	StartingSymbol            int    `json:"starting_symbol"`
	ZeroCorrelationZoneConfig int    `json:"zero_correlation_zone_config"`
	RestrictedSet             string `json:"restricted_set"`
	PreambleID                int    `json:"preamble_id"`
	LRA                       int    `json:"l_ra"`
	NCS                       int    `json:"n_cs"`
	PreamblesPerCyclicShift   int    `json:"preambles_per_cyclic_shift"`
	LogicalRootSequence       int    `json:"logical_root_sequence"`
	PhysicalRootSequence      int    `json:"physical_root_sequence"`
	CyclicShift               int    `json:"cyclic_shift"`
}

func newRunReport(runID string, preambles []*prach.Preamble) RunReport {
	report := RunReport{
		RunID:     runID,
		Version:   Version,
		Timestamp: time.Now().UTC(),
		Preambles: make([]PreambleReport, len(preambles)),
	}
	for i, p := range preambles {
		report.Preambles[i] = PreambleReport{
			Index:                     i,
			DuplexMode:                p.DuplexMode.String(),
			ConfigurationIndex:        int(p.ConfigurationIndex),
			Format:                    p.Format.String(),
			SubframeNumber:            p.Occasion.SubframeNumber,
			StartingSymbol:            p.Occasion.StartingSymbol,
			ZeroCorrelationZoneConfig: p.ZeroCorrelationZoneConfig,
			RestrictedSet:             p.RestrictedSet.String(),
			PreambleID:                p.PreambleID,
			LRA:                       p.LRA,
			NCS:                       p.NCS,
			PreamblesPerCyclicShift:   p.PreamblesPerCyclicShift,
			LogicalRootSequence:       p.LogicalRootSequence,
			PhysicalRootSequence:      p.PhysicalRootSequence,
			CyclicShift:               p.CyclicShift,
		}
	}
	return report
}

// writeRunReport writes the diagnostics of a batch as indented JSON
func writeRunReport(path, runID string, preambles []*prach.Preamble) error {
	data, err := json.MarshalIndent(newRunReport(runID, preambles), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
