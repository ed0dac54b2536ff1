package prach_test

import (
	"errors"
	"testing"

	"github.com/cwsl/nr_uplink/nr/defs"
	"github.com/cwsl/nr_uplink/nr/prach"
	"github.com/cwsl/nr_uplink/nr/tables"
	"github.com/stretchr/testify/require"
)

func TestNewConfigCommon(t *testing.T) {
	generic := prach.DefaultConfigGeneric()

	cfg, err := prach.NewConfigCommon(generic, 63, 0, tables.Unrestricted)
	require.NoError(t, err)
	require.Equal(t, prach.DefaultConfigCommon(), cfg)

	_, err = prach.NewConfigCommon(generic, 1, 837, tables.Unrestricted)
	require.NoError(t, err)

	// restricted sets are valid configuration, refused only at generation
	_, err = prach.NewConfigCommon(generic, 63, 0, tables.RestrictedTypeA)
	require.NoError(t, err)

	tests := []struct {
		name    string
		generic prach.ConfigGeneric
		total   int
		root    int
		set     tables.RestrictedSet
	}{
		{"no preambles", generic, 0, 0, tables.Unrestricted},
		{"too many preambles", generic, 64, 0, tables.Unrestricted},
		{"negative root", generic, 63, -1, tables.Unrestricted},
		{"root past table", generic, 63, 838, tables.Unrestricted},
		{"zero correlation zone", prach.ConfigGeneric{ZeroCorrelationZoneConfig: 16}, 63, 0, tables.Unrestricted},
		{"configuration index", prach.ConfigGeneric{ConfigurationIndex: 256}, 63, 0, tables.Unrestricted},
		{"unknown set", generic, 63, 0, tables.RestrictedSet(3)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := prach.NewConfigCommon(tc.generic, tc.total, tc.root, tc.set)
			require.True(t, errors.Is(err, defs.ErrOutOfRange), "got %v", err)
		})
	}
}

func TestFixedPreamble(t *testing.T) {
	require.Equal(t, 5, prach.FixedPreamble(5).Intn(63))
}

func TestRandSourceRange(t *testing.T) {
	s := prach.NewRandSource(1)
	for i := 0; i < 1000; i++ {
		v := s.Intn(63)
		require.True(t, v >= 0 && v < 63)
	}
}
