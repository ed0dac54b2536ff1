package frame

import (
	"fmt"
	"log"

	"github.com/cwsl/nr_uplink/nr/defs"
	"github.com/cwsl/nr_uplink/nr/numerology"
)

// DebugMode enables grid logging
var DebugMode bool

// Config is a validated uplink frame configuration
type Config struct {
	DuplexMode         defs.DuplexMode
	UplinkConfigCommon UplinkConfigCommon
	Reference          numerology.Reference
}

// NewConfig resolves the reference numerology of ul
func NewConfig(ul UplinkConfigCommon, duplex defs.DuplexMode) (*Config, error) {
	switch duplex {
	case defs.FDD, defs.TDD:
	default:
		return nil, fmt.Errorf("duplex mode %s: %w", duplex, defs.ErrOutOfRange)
	}
	if err := ul.Validate(); err != nil {
		return nil, err
	}

	bwp := ul.InitialUplinkCommon.GenericParameters
	ref, err := numerology.Resolve(ul.FrequencyInfoUL.SCSSpecificCarriers, bwp.SubcarrierSpacing, bwp.Size)
	if err != nil {
		return nil, err
	}

	return &Config{
		DuplexMode:         duplex,
		UplinkConfigCommon: ul,
		Reference:          ref,
	}, nil
}

// Grid describes the SFN resource grid at the reference numerology
type Grid struct {
	FFTSize          int
	SymbolsPerSlot   int
	SlotsPerSubframe int
}

// TotalSymbols is the number of OFDM symbols in one SFN
func (g Grid) TotalSymbols() int {
	return g.SymbolsPerSlot * g.SlotsPerSubframe * defs.SubframesPerSFN
}

// TotalSlots is the number of slots in one SFN
func (g Grid) TotalSlots() int {
	return g.SlotsPerSubframe * defs.SubframesPerSFN
}

// NewSlot allocates one zeroed slot, indexed [symbol][subcarrier]
func (g Grid) NewSlot() [][]complex64 {
	backing := make([]complex64, g.SymbolsPerSlot*g.FFTSize)
	slot := make([][]complex64, g.SymbolsPerSlot)
	for i := range slot {
		slot[i] = backing[i*g.FFTSize : (i+1)*g.FFTSize : (i+1)*g.FFTSize]
	}
	return slot
}

// Grid returns the empty SFN grid description for c. Slots are allocated one at
// a time with NewSlot.
func (c *Config) Grid() Grid {
	g := Grid{
		FFTSize:          c.Reference.FFTSize,
		SymbolsPerSlot:   c.UplinkConfigCommon.InitialUplinkCommon.GenericParameters.CyclicPrefix.SymbolsPerSlot(),
		SlotsPerSubframe: c.Reference.Numerology.SlotsPerSubframe(),
	}
	if DebugMode {
		log.Printf("[Frame] Empty SFN: frame type %s, %d RBs at %s, FFT size %d, %d symbols",
			c.DuplexMode, c.Reference.GridSize, c.Reference.Numerology, g.FFTSize, g.TotalSymbols())
	}
	return g
}
