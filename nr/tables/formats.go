package tables

/*
 * PRACH specification tables
 * 3GPP TS 38.211 section 6.3.3. Long preamble formats only.
 *
 * Everything here is read-only. Lookups return values, never references
 * into the tables.
 */

import (
	"fmt"

	"github.com/cwsl/nr_uplink/nr/defs"
)

// PreambleFormat is a long PRACH preamble format
type PreambleFormat int

const (
	Format0 PreambleFormat = iota
	Format1
	Format2
	Format3
)

func (f PreambleFormat) String() string {
	switch f {
	case Format0, Format1, Format2, Format3:
		return fmt.Sprintf("format%d", int(f))
	}
	return fmt.Sprintf("PreambleFormat(%d)", int(f))
}

// SCSClass is the PRACH subcarrier spacing Δf_RA
type SCSClass int

const (
	KHz1_25 SCSClass = iota
	KHz5
)

// Hz returns Δf_RA in Hz
func (c SCSClass) Hz() float64 {
	switch c {
	case KHz1_25:
		return 1.25e3
	case KHz5:
		return 5e3
	}
	return 0
}

func (c SCSClass) String() string {
	switch c {
	case KHz1_25:
		return "1.25kHz"
	case KHz5:
		return "5kHz"
	}
	return fmt.Sprintf("SCSClass(%d)", int(c))
}

// FormatParams is one row of Table 6.3.3.1-1
type FormatParams struct {
	LRA   int      // Sequence length L_RA
	FRA   SCSClass // Subcarrier spacing Δf_RA
	Nu    int      // Useful symbol length N_u in units of κ
	NRACP int      // Cyclic prefix length N_CP^RA in units of κ
}

// Format returns the parameters of a preamble format
// 3GPP TS 38.211 Table 6.3.3.1-1
func Format(f PreambleFormat) (FormatParams, error) {
	switch f {
	case Format0:
		return FormatParams{LRA: 839, FRA: KHz1_25, Nu: 24576, NRACP: 3168}, nil
	case Format1:
		return FormatParams{LRA: 839, FRA: KHz1_25, Nu: 2 * 24576, NRACP: 21024}, nil
	case Format2:
		return FormatParams{LRA: 839, FRA: KHz1_25, Nu: 4 * 24576, NRACP: 4688}, nil
	case Format3:
		return FormatParams{LRA: 839, FRA: KHz5, Nu: 4 * 6144, NRACP: 3168}, nil
	}
	return FormatParams{}, fmt.Errorf("unknown preamble format %d: %w", int(f), defs.ErrOutOfRange)
}

// PhysicalRootSequence maps a logical root sequence index to the physical index u
// 3GPP TS 38.211 Table 6.3.3.1-3
func PhysicalRootSequence(lra, logical int) (int, error) {
	switch lra {
	case 839:
		if logical < 0 || logical >= len(rootSequenceL839) {
			return 0, fmt.Errorf("logical root sequence index %d outside [0, %d]: %w",
				logical, len(rootSequenceL839)-1, defs.ErrInconsistentConfig)
		}
		return rootSequenceL839[logical], nil
	}
	return 0, fmt.Errorf("no root sequence table for L_RA=%d: %w", lra, defs.ErrUnsupported)
}
