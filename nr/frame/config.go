package frame

/*
 * Uplink configuration records
 * The RRC structures (3GPP TS 38.331) a frame is built from: carrier list,
 * initial uplink BWP and its RACH configuration.
 */

import (
	"fmt"

	"github.com/cwsl/nr_uplink/nr/defs"
	"github.com/cwsl/nr_uplink/nr/numerology"
	"github.com/cwsl/nr_uplink/nr/prach"
	"github.com/cwsl/nr_uplink/nr/riv"
)

// locationAndBandwidth limits for a BWP
const (
	MinLocationAndBandwidth = 1
	MaxLocationAndBandwidth = 37949
)

// BWP is the generic part of a bandwidth part, with start and size decoded
type BWP struct {
	LocationAndBandwidth int
	SubcarrierSpacing    defs.SubcarrierSpacing
	CyclicPrefix         defs.CyclicPrefix
	Start                int // N_start_BWP
	Size                 int // N_size_BWP
}

// NewBWP decodes locationAndBandwidth against the 275 resource block grid
func NewBWP(locationAndBandwidth int, scs defs.SubcarrierSpacing, cp defs.CyclicPrefix) (BWP, error) {
	if locationAndBandwidth < MinLocationAndBandwidth || locationAndBandwidth > MaxLocationAndBandwidth {
		return BWP{}, fmt.Errorf("locationAndBandwidth (%d) outside the allowed range [%d, %d]: %w",
			locationAndBandwidth, MinLocationAndBandwidth, MaxLocationAndBandwidth, defs.ErrOutOfRange)
	}
	if !scs.Valid() {
		return BWP{}, fmt.Errorf("BWP subcarrier spacing %s: %w", scs, defs.ErrOutOfRange)
	}
	alloc := riv.Decode(locationAndBandwidth, defs.MaxGridSize)
	return BWP{
		LocationAndBandwidth: locationAndBandwidth,
		SubcarrierSpacing:    scs,
		CyclicPrefix:         cp,
		Start:                alloc.Start,
		Size:                 alloc.Length,
	}, nil
}

// FrequencyInfoUL carries scs-SpecificCarrierList
type FrequencyInfoUL struct {
	SCSSpecificCarriers []numerology.CarrierGrid
}

// BWPUplinkCommon is the initial uplink BWP with its RACH configuration
type BWPUplinkCommon struct {
	GenericParameters BWP
	RACHConfigCommon  prach.ConfigCommon
}

// UplinkConfigCommon groups the carrier list and the initial uplink BWP
type UplinkConfigCommon struct {
	FrequencyInfoUL     FrequencyInfoUL
	InitialUplinkCommon BWPUplinkCommon
}

// DefaultUplinkConfigCommon builds a single carrier at the maximum transmission
// bandwidth for bw/scs, with an initial BWP spanning the whole carrier and the
// default RACH configuration.
func DefaultUplinkConfigCommon(bw defs.Bandwidth, scs defs.SubcarrierSpacing, cp defs.CyclicPrefix) (UplinkConfigCommon, error) {
	nrb, err := defs.MaxTransmissionBandwidth(bw, scs)
	if err != nil {
		return UplinkConfigCommon{}, err
	}

	bwp, err := NewBWP(riv.Encode(0, nrb, defs.MaxGridSize), scs, cp)
	if err != nil {
		return UplinkConfigCommon{}, err
	}

	return UplinkConfigCommon{
		FrequencyInfoUL: FrequencyInfoUL{
			SCSSpecificCarriers: []numerology.CarrierGrid{
				{OffsetToCarrier: 0, SubcarrierSpacing: scs, CarrierBandwidth: nrb},
			},
		},
		InitialUplinkCommon: BWPUplinkCommon{
			GenericParameters: bwp,
			RACHConfigCommon:  prach.DefaultConfigCommon(),
		},
	}, nil
}

// Validate checks every carrier and the RACH configuration
func (u UplinkConfigCommon) Validate() error {
	for i, grid := range u.FrequencyInfoUL.SCSSpecificCarriers {
		if err := grid.Validate(); err != nil {
			return fmt.Errorf("carrier %d: %w", i, err)
		}
	}
	if err := u.InitialUplinkCommon.RACHConfigCommon.Validate(); err != nil {
		return fmt.Errorf("RACH configuration: %w", err)
	}
	return nil
}
