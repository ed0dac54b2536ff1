package riv_test

import (
	"errors"
	"testing"

	"github.com/cwsl/nr_uplink/nr/defs"
	"github.com/cwsl/nr_uplink/nr/riv"
	"github.com/stretchr/testify/require"
)

const gridSize = 275

var knownValues = []struct {
	riv    int
	start  int
	length int
}{
	{2750, 0, 11},
	{6325, 0, 24},
	{10175, 0, 38},
	{17600, 0, 65},
	{21175, 0, 78},
	{28875, 0, 106},
	{36300, 0, 133},
	{31624, 0, 162},
	{24199, 0, 189},
	{16499, 0, 217},
	{8799, 0, 245},
	{1099, 0, 273},
	{12928, 3, 48},
}

func TestDecode(t *testing.T) {
	for _, tc := range knownValues {
		got := riv.Decode(tc.riv, gridSize)
		require.Equal(t, riv.Allocation{Start: tc.start, Length: tc.length}, got, "riv=%d", tc.riv)
	}
}

func TestEncode(t *testing.T) {
	for _, tc := range knownValues {
		require.Equal(t, tc.riv, riv.Encode(tc.start, tc.length, gridSize),
			"start=%d length=%d", tc.start, tc.length)
	}
}

// 106 and 162 sit on opposite sides of length-1 == ceil(275/2)
func TestMidpointBoundary(t *testing.T) {
	require.Equal(t, 28875, riv.Encode(0, 106, gridSize))
	require.Equal(t, riv.Allocation{Start: 0, Length: 106}, riv.Decode(28875, gridSize))

	require.Equal(t, 31624, riv.Encode(0, 162, gridSize))
	require.Equal(t, riv.Allocation{Start: 0, Length: 162}, riv.Decode(31624, gridSize))

	// lengths 138 and 139 are the last/first on each branch
	for start := 0; start+139 <= gridSize; start++ {
		a := riv.Allocation{Start: start, Length: 138}
		require.Equal(t, a, riv.Decode(riv.Encode(a.Start, a.Length, gridSize), gridSize))
		b := riv.Allocation{Start: start, Length: 139}
		require.Equal(t, b, riv.Decode(riv.Encode(b.Start, b.Length, gridSize), gridSize))
	}
}

func TestRoundTripAllAllocations(t *testing.T) {
	for _, n := range []int{1, 2, 24, 51, 106, 273, gridSize} {
		seen := make(map[int]bool)
		for length := 1; length <= n; length++ {
			for start := 0; start+length <= n; start++ {
				v := riv.Encode(start, length, n)
				require.NoError(t, riv.Validate(v, n), "n=%d start=%d length=%d", n, start, length)
				require.False(t, seen[v], "duplicate riv %d for n=%d", v, n)
				seen[v] = true
				require.Equal(t, riv.Allocation{Start: start, Length: length}, riv.Decode(v, n),
					"n=%d riv=%d", n, v)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, riv.Validate(0, gridSize))
	require.NoError(t, riv.Validate(gridSize*gridSize-1, gridSize))

	for _, v := range []int{-1, gridSize * gridSize} {
		err := riv.Validate(v, gridSize)
		require.True(t, errors.Is(err, defs.ErrOutOfRange), "riv=%d", v)
	}
	require.True(t, errors.Is(riv.Validate(0, 0), defs.ErrOutOfRange))
	require.True(t, errors.Is(riv.Validate(0, 276), defs.ErrOutOfRange))
}

func TestAllocationValidate(t *testing.T) {
	require.NoError(t, riv.Allocation{Start: 0, Length: 275}.Validate(gridSize))
	require.NoError(t, riv.Allocation{Start: 274, Length: 1}.Validate(gridSize))

	bad := []riv.Allocation{
		{Start: -1, Length: 10},
		{Start: 0, Length: 0},
		{Start: 200, Length: 76},
	}
	for _, a := range bad {
		require.True(t, errors.Is(a.Validate(gridSize), defs.ErrOutOfRange), "%+v", a)
	}
}
