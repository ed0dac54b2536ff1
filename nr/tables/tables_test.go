package tables_test

import (
	"errors"
	"testing"

	"github.com/cwsl/nr_uplink/nr/defs"
	"github.com/cwsl/nr_uplink/nr/tables"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		format tables.PreambleFormat
		want   tables.FormatParams
	}{
		{tables.Format0, tables.FormatParams{LRA: 839, FRA: tables.KHz1_25, Nu: 24576, NRACP: 3168}},
		{tables.Format1, tables.FormatParams{LRA: 839, FRA: tables.KHz1_25, Nu: 49152, NRACP: 21024}},
		{tables.Format2, tables.FormatParams{LRA: 839, FRA: tables.KHz1_25, Nu: 98304, NRACP: 4688}},
		{tables.Format3, tables.FormatParams{LRA: 839, FRA: tables.KHz5, Nu: 24576, NRACP: 3168}},
	}
	for _, tc := range tests {
		t.Run(tc.format.String(), func(t *testing.T) {
			got, err := tables.Format(tc.format)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	_, err := tables.Format(tables.PreambleFormat(4))
	require.True(t, errors.Is(err, defs.ErrOutOfRange))
}

func TestCyclicShift(t *testing.T) {
	tests := []struct {
		name  string
		class tables.SCSClass
		set   tables.RestrictedSet
		zcz   int
		want  int
	}{
		{"1.25k unrestricted first", tables.KHz1_25, tables.Unrestricted, 0, 0},
		{"1.25k unrestricted", tables.KHz1_25, tables.Unrestricted, 1, 13},
		{"1.25k unrestricted last", tables.KHz1_25, tables.Unrestricted, 15, 419},
		{"1.25k type A last", tables.KHz1_25, tables.RestrictedTypeA, 14, 237},
		{"1.25k type B last", tables.KHz1_25, tables.RestrictedTypeB, 12, 137},
		{"5k unrestricted", tables.KHz5, tables.Unrestricted, 2, 26},
		{"5k type A", tables.KHz5, tables.RestrictedTypeA, 15, 237},
		{"5k type B", tables.KHz5, tables.RestrictedTypeB, 13, 137},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tables.CyclicShift(tc.class, tc.set, tc.zcz)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	bad := []struct {
		name  string
		class tables.SCSClass
		set   tables.RestrictedSet
		zcz   int
	}{
		{"negative zcz", tables.KHz1_25, tables.Unrestricted, -1},
		{"zcz past row", tables.KHz1_25, tables.Unrestricted, 16},
		{"type B shorter row", tables.KHz1_25, tables.RestrictedTypeB, 13},
		{"unknown set", tables.KHz5, tables.RestrictedSet(9), 0},
		{"unknown class", tables.SCSClass(9), tables.Unrestricted, 0},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tables.CyclicShift(tc.class, tc.set, tc.zcz)
			require.True(t, errors.Is(err, defs.ErrOutOfRange), "got %v", err)
		})
	}
}

func TestPhysicalRootSequence(t *testing.T) {
	tests := []struct{ logical, physical int }{
		{0, 129}, {1, 710}, {5, 719}, {20, 2}, {23, 838}, {836, 229}, {837, 610},
	}
	for _, tc := range tests {
		u, err := tables.PhysicalRootSequence(839, tc.logical)
		require.NoError(t, err)
		require.Equal(t, tc.physical, u, "logical=%d", tc.logical)
	}

	_, err := tables.PhysicalRootSequence(839, 838)
	require.True(t, errors.Is(err, defs.ErrInconsistentConfig))
	_, err = tables.PhysicalRootSequence(839, -1)
	require.True(t, errors.Is(err, defs.ErrInconsistentConfig))
	_, err = tables.PhysicalRootSequence(139, 0)
	require.True(t, errors.Is(err, defs.ErrUnsupported))
}

// Every physical index 1..838 appears exactly once
func TestRootSequenceIsPermutation(t *testing.T) {
	seen := make(map[int]bool)
	for logical := 0; logical <= 837; logical++ {
		u, err := tables.PhysicalRootSequence(839, logical)
		require.NoError(t, err)
		require.True(t, u >= 1 && u <= 838, "u=%d", u)
		require.False(t, seen[u], "u=%d repeated", u)
		seen[u] = true
	}
	require.Len(t, seen, 838)
}

func TestPreambleFormatFor(t *testing.T) {
	tests := []struct {
		duplex defs.DuplexMode
		index  tables.ConfigurationIndex
		want   tables.PreambleFormat
	}{
		{defs.FDD, 0, tables.Format0},
		{defs.FDD, 31, tables.Format1},
		{defs.FDD, 53, tables.Format2},
		{defs.FDD, 63, tables.Format3},
		{defs.TDD, 3, tables.Format0},
		{defs.TDD, 28, tables.Format1},
		{defs.TDD, 37, tables.Format2},
		{defs.TDD, 43, tables.Format2},
	}
	for _, tc := range tests {
		got, err := tables.PreambleFormatFor(tc.duplex, tc.index)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "%s %d", tc.duplex, tc.index)
	}

	_, err := tables.PreambleFormatFor(defs.TDD, 60)
	require.True(t, errors.Is(err, defs.ErrNoSuchConfigIndex))
	_, err = tables.PreambleFormatFor(defs.FDD, 4)
	require.True(t, errors.Is(err, defs.ErrNoSuchConfigIndex))
	_, err = tables.PreambleFormatFor(defs.FDD, 256)
	require.True(t, errors.Is(err, defs.ErrOutOfRange))
	_, err = tables.PreambleFormatFor(defs.DuplexMode(5), 0)
	require.True(t, errors.Is(err, defs.ErrOutOfRange))
}

func TestOccasionFor(t *testing.T) {
	occ, err := tables.OccasionFor(defs.FDD, 2)
	require.NoError(t, err)
	require.Equal(t, tables.Occasion{SubframeNumber: 7, StartingSymbol: 0}, occ)

	occ, err = tables.OccasionFor(defs.TDD, 37)
	require.NoError(t, err)
	require.Equal(t, tables.Occasion{SubframeNumber: 6, StartingSymbol: 7}, occ)
}

func TestConfigurationIndices(t *testing.T) {
	fdd := tables.ConfigurationIndices(defs.FDD)
	require.Len(t, fdd, 16)
	require.Equal(t, tables.ConfigurationIndex(0), fdd[0])
	require.Equal(t, tables.ConfigurationIndex(63), fdd[15])

	// callers get a copy
	fdd[0] = 99
	again := tables.ConfigurationIndices(defs.FDD)
	require.Equal(t, tables.ConfigurationIndex(0), again[0])

	for _, duplex := range []defs.DuplexMode{defs.FDD, defs.TDD} {
		for _, idx := range tables.ConfigurationIndices(duplex) {
			f, err := tables.PreambleFormatFor(duplex, idx)
			require.NoError(t, err)
			_, err = tables.Format(f)
			require.NoError(t, err)
		}
	}
}

func TestParseRestrictedSet(t *testing.T) {
	for in, want := range map[string]tables.RestrictedSet{
		"":                tables.Unrestricted,
		"unrestricted":    tables.Unrestricted,
		"restrictedTypeA": tables.RestrictedTypeA,
		"TypeB":           tables.RestrictedTypeB,
	} {
		got, err := tables.ParseRestrictedSet(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := tables.ParseRestrictedSet("typeC")
	require.True(t, errors.Is(err, defs.ErrOutOfRange))
}
