package tables

import (
	"fmt"

	"github.com/cwsl/nr_uplink/nr/defs"
)

// ConfigurationIndex is prach-ConfigurationIndex, 0..255
type ConfigurationIndex int

// MaxConfigurationIndex is the largest value RRC can signal
const MaxConfigurationIndex ConfigurationIndex = 255

// Occasion is the time-domain part of a configuration row
type Occasion struct {
	SubframeNumber int
	StartingSymbol int
}

type configRow struct {
	index    ConfigurationIndex
	format   PreambleFormat
	occasion Occasion
}

// FR1 paired spectrum, 3GPP TS 38.211 Table 6.3.3.2-2 (long formats, first four rows each)
var fddConfigurations = [...]configRow{
	{0, Format0, Occasion{1, 0}},
	{1, Format0, Occasion{4, 0}},
	{2, Format0, Occasion{7, 0}},
	{3, Format0, Occasion{9, 0}},
	{28, Format1, Occasion{1, 0}},
	{29, Format1, Occasion{4, 0}},
	{30, Format1, Occasion{7, 0}},
	{31, Format1, Occasion{9, 0}},
	{53, Format2, Occasion{1, 0}},
	{54, Format2, Occasion{1, 0}},
	{55, Format2, Occasion{1, 0}},
	{56, Format2, Occasion{1, 0}},
	{60, Format3, Occasion{1, 0}},
	{61, Format3, Occasion{4, 0}},
	{62, Format3, Occasion{7, 0}},
	{63, Format3, Occasion{9, 0}},
}

// FR1 unpaired spectrum, 3GPP TS 38.211 Table 6.3.3.2-3
var tddConfigurations = [...]configRow{
	{0, Format0, Occasion{9, 0}},
	{1, Format0, Occasion{9, 0}},
	{2, Format0, Occasion{9, 0}},
	{3, Format0, Occasion{9, 0}},
	{28, Format1, Occasion{7, 0}},
	{29, Format1, Occasion{7, 0}},
	{30, Format1, Occasion{7, 0}},
	{31, Format1, Occasion{7, 0}},
	{34, Format2, Occasion{6, 0}},
	{35, Format2, Occasion{6, 0}},
	{36, Format2, Occasion{6, 0}},
	{37, Format2, Occasion{6, 7}},
	{40, Format2, Occasion{9, 0}},
	{41, Format2, Occasion{9, 0}},
	{42, Format2, Occasion{9, 0}},
	{43, Format2, Occasion{9, 0}},
}

func configurations(duplex defs.DuplexMode) ([]configRow, error) {
	switch duplex {
	case defs.FDD:
		return fddConfigurations[:], nil
	case defs.TDD:
		return tddConfigurations[:], nil
	}
	return nil, fmt.Errorf("unknown duplex mode %s: %w", duplex, defs.ErrOutOfRange)
}

func lookup(duplex defs.DuplexMode, index ConfigurationIndex) (configRow, error) {
	if index < 0 || index > MaxConfigurationIndex {
		return configRow{}, fmt.Errorf("PRACH configuration index %d outside [0, %d]: %w",
			index, MaxConfigurationIndex, defs.ErrOutOfRange)
	}
	rows, err := configurations(duplex)
	if err != nil {
		return configRow{}, err
	}
	for _, row := range rows {
		if row.index == index {
			return row, nil
		}
	}
	return configRow{}, fmt.Errorf("%s index %d: %w", duplex, index, defs.ErrNoSuchConfigIndex)
}

// PreambleFormatFor returns the preamble format of a configuration index
func PreambleFormatFor(duplex defs.DuplexMode, index ConfigurationIndex) (PreambleFormat, error) {
	row, err := lookup(duplex, index)
	if err != nil {
		return 0, err
	}
	return row.format, nil
}

// OccasionFor returns the subframe and starting symbol of a configuration index
func OccasionFor(duplex defs.DuplexMode, index ConfigurationIndex) (Occasion, error) {
	row, err := lookup(duplex, index)
	if err != nil {
		return Occasion{}, err
	}
	return row.occasion, nil
}

// ConfigurationIndices lists the indices known for a duplex mode, ascending
func ConfigurationIndices(duplex defs.DuplexMode) []ConfigurationIndex {
	rows, err := configurations(duplex)
	if err != nil {
		return nil
	}
	out := make([]ConfigurationIndex, len(rows))
	for i, row := range rows {
		out[i] = row.index
	}
	return out
}
