package numerology_test

import (
	"errors"
	"testing"

	"github.com/cwsl/nr_uplink/nr/defs"
	"github.com/cwsl/nr_uplink/nr/numerology"
	"github.com/stretchr/testify/require"
)

func grid(scs defs.SubcarrierSpacing, rbs int) numerology.CarrierGrid {
	return numerology.CarrierGrid{SubcarrierSpacing: scs, CarrierBandwidth: rbs}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		grids   []numerology.CarrierGrid
		bwpSCS  defs.SubcarrierSpacing
		bwpSize int
		want    numerology.Reference
	}{
		{
			name:    "single 30 kHz carrier",
			grids:   []numerology.CarrierGrid{grid(defs.KHz30, 273)},
			bwpSCS:  defs.KHz30,
			bwpSize: 273,
			want:    numerology.Reference{Numerology: defs.KHz30, GridSize: 273, FFTSize: 4096},
		},
		{
			name:    "two grids, reference is the wider spacing",
			grids:   []numerology.CarrierGrid{grid(defs.KHz15, 106), grid(defs.KHz30, 51)},
			bwpSCS:  defs.KHz15,
			bwpSize: 106,
			want:    numerology.Reference{Numerology: defs.KHz30, GridSize: 51, FFTSize: 1024},
		},
		{
			name:    "order does not matter",
			grids:   []numerology.CarrierGrid{grid(defs.KHz120, 66), grid(defs.KHz15, 106)},
			bwpSCS:  defs.KHz15,
			bwpSize: 50,
			want:    numerology.Reference{Numerology: defs.KHz120, GridSize: 66, FFTSize: 1024},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := numerology.Resolve(tc.grids, tc.bwpSCS, tc.bwpSize)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestResolveInconsistent(t *testing.T) {
	tests := []struct {
		name    string
		grids   []numerology.CarrierGrid
		bwpSCS  defs.SubcarrierSpacing
		bwpSize int
	}{
		{"BWP larger than its carrier", []numerology.CarrierGrid{grid(defs.KHz15, 105)}, defs.KHz15, 106},
		{"duplicate spacing", []numerology.CarrierGrid{grid(defs.KHz15, 106), grid(defs.KHz15, 106)}, defs.KHz15, 106},
		{"BWP spacing absent", []numerology.CarrierGrid{grid(defs.KHz30, 51)}, defs.KHz15, 106},
		{"empty carrier list", nil, defs.KHz30, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := numerology.Resolve(tc.grids, tc.bwpSCS, tc.bwpSize)
			require.Error(t, err)
			require.True(t, errors.Is(err, defs.ErrInconsistentConfig), "got %v", err)
		})
	}
}

func TestCarrierGridValidate(t *testing.T) {
	require.NoError(t, grid(defs.KHz30, 273).Validate())

	bad := []numerology.CarrierGrid{
		grid(defs.KHz30, 0),
		grid(defs.KHz30, 276),
		grid(defs.SubcarrierSpacing(9), 10),
		{OffsetToCarrier: 2200, SubcarrierSpacing: defs.KHz15, CarrierBandwidth: 10},
	}
	for _, g := range bad {
		require.True(t, errors.Is(g.Validate(), defs.ErrOutOfRange), "%+v", g)
	}
}
