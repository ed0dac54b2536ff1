package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteRunReport(t *testing.T) {
	preambles := testPreambles(t, 0, 62)
	path := filepath.Join(t.TempDir(), "preambles.bin.json")
	require.NoError(t, writeRunReport(path, "run-1", preambles))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report RunReport
	require.NoError(t, json.Unmarshal(data, &report))
	require.Equal(t, "run-1", report.RunID)
	require.Equal(t, Version, report.Version)
	require.Len(t, report.Preambles, 2)

	last := report.Preambles[1]
	require.Equal(t, 1, last.Index)
	require.Equal(t, "FDD", last.DuplexMode)
	require.Equal(t, "format0", last.Format)
	require.Equal(t, "unrestricted", last.RestrictedSet)
	require.Equal(t, 62, last.PreambleID)
	require.Equal(t, 62, last.CyclicShift)
	require.Equal(t, 129, last.PhysicalRootSequence)
	require.Equal(t, 839, last.LRA)
	require.Equal(t, 13, last.NCS)
	require.Equal(t, 1, last.SubframeNumber)
}
