package numerology

/*
 * Reference numerology resolution
 * Picks µ0, the largest subcarrier spacing in scs-SpecificCarrierList, and the
 * grid/FFT size that goes with it (3GPP TS 38.211 section 5.3).
 */

import (
	"fmt"

	"github.com/cwsl/nr_uplink/nr/defs"
)

// Limits of SCS-SpecificCarrier, 3GPP TS 38.331
const (
	MaxOffsetToCarrier = 2199
)

// CarrierGrid is one SCS-SpecificCarrier entry
type CarrierGrid struct {
	OffsetToCarrier   int
	SubcarrierSpacing defs.SubcarrierSpacing
	CarrierBandwidth  int // resource blocks
}

// Validate checks the individual field ranges of a carrier grid
func (c CarrierGrid) Validate() error {
	if !c.SubcarrierSpacing.Valid() {
		return fmt.Errorf("carrier subcarrier spacing %s: %w", c.SubcarrierSpacing, defs.ErrOutOfRange)
	}
	if c.CarrierBandwidth < 1 || c.CarrierBandwidth > defs.MaxGridSize {
		return fmt.Errorf("carrier bandwidth %d outside [1, %d]: %w",
			c.CarrierBandwidth, defs.MaxGridSize, defs.ErrOutOfRange)
	}
	if c.OffsetToCarrier < 0 || c.OffsetToCarrier > MaxOffsetToCarrier {
		return fmt.Errorf("offset to carrier %d outside [0, %d]: %w",
			c.OffsetToCarrier, MaxOffsetToCarrier, defs.ErrOutOfRange)
	}
	return nil
}

// Reference is the resolved reference numerology
type Reference struct {
	Numerology defs.SubcarrierSpacing // µ0
	GridSize   int                    // N_size_grid at µ0
	FFTSize    int
}

// Resolve validates grids against the initial BWP and picks the reference numerology.
// Duplicate spacings, a BWP spacing missing from grids, or a BWP larger than the
// carrier at its spacing are configuration errors.
func Resolve(grids []CarrierGrid, bwpSCS defs.SubcarrierSpacing, bwpSize int) (Reference, error) {
	seen := make(map[defs.SubcarrierSpacing]bool, len(grids))
	for _, grid := range grids {
		if grid.SubcarrierSpacing == bwpSCS && bwpSize > grid.CarrierBandwidth {
			return Reference{}, fmt.Errorf("BWP size (%d) larger than carrier bandwidth (%d): %w",
				bwpSize, grid.CarrierBandwidth, defs.ErrInconsistentConfig)
		}
		if seen[grid.SubcarrierSpacing] {
			return Reference{}, fmt.Errorf("subcarrier spacing %s already configured: %w",
				grid.SubcarrierSpacing, defs.ErrInconsistentConfig)
		}
		seen[grid.SubcarrierSpacing] = true
	}
	if !seen[bwpSCS] {
		return Reference{}, fmt.Errorf("subcarrier spacing for initial UL BWP (%s) not in carrier list: %w",
			bwpSCS, defs.ErrInconsistentConfig)
	}

	ref := Reference{Numerology: bwpSCS}
	for _, grid := range grids {
		if grid.SubcarrierSpacing > ref.Numerology {
			ref.Numerology = grid.SubcarrierSpacing
		}
	}
	for _, grid := range grids {
		if grid.SubcarrierSpacing == ref.Numerology {
			ref.GridSize = grid.CarrierBandwidth
			break
		}
	}
	ref.FFTSize = defs.FFTSize(ref.GridSize)
	return ref, nil
}
