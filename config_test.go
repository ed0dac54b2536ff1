package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwsl/nr_uplink/nr/defs"
	"github.com/cwsl/nr_uplink/nr/frame"
	"github.com/cwsl/nr_uplink/nr/prach"
	"github.com/cwsl/nr_uplink/nr/tables"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	config, err := ParseConfig(nil)
	require.NoError(t, err)

	require.Equal(t, "1.0", config.SchemaVersion)
	require.Equal(t, defs.FDD, config.DuplexMode())
	require.Equal(t, 1, config.Generation.Count)
	require.GreaterOrEqual(t, config.Generation.Workers, 1)
	require.Equal(t, "nr_uplink", config.MQTT.TopicPrefix)

	ul, err := config.UplinkConfig()
	require.NoError(t, err)
	require.Equal(t, prach.DefaultConfigCommon(), ul.InitialUplinkCommon.RACHConfigCommon)

	want, err := frame.DefaultUplinkConfigCommon(defs.MHz100, defs.KHz30, defs.NormalCP)
	require.NoError(t, err)
	require.Equal(t, want, ul)
}

func TestParseConfigExplicitCarriers(t *testing.T) {
	config, err := ParseConfig([]byte(`
schema_version: "1.2"
cell:
  duplex: tdd
  subcarrier_spacing: 15kHz
carriers:
  - subcarrier_spacing: 15kHz
    carrier_bandwidth: 106
  - subcarrier_spacing: 30kHz
    carrier_bandwidth: 51
bwp:
  location_and_bandwidth: 28875
rach:
  configuration_index: 37
  zero_correlation_zone_config: 0
  total_number_of_preambles: 10
  root_sequence_index: 20
generation:
  count: 4
  workers: 2
  seed: 99
  preamble_id: 3
`))
	require.NoError(t, err)
	require.Equal(t, defs.TDD, config.DuplexMode())
	require.Equal(t, 3, *config.Generation.PreambleID)

	ul, err := config.UplinkConfig()
	require.NoError(t, err)
	require.Len(t, ul.FrequencyInfoUL.SCSSpecificCarriers, 2)
	require.Equal(t, 106, ul.InitialUplinkCommon.GenericParameters.Size)
	require.Equal(t, defs.KHz15, ul.InitialUplinkCommon.GenericParameters.SubcarrierSpacing)

	rach := ul.InitialUplinkCommon.RACHConfigCommon
	require.Equal(t, tables.ConfigurationIndex(37), rach.Generic.ConfigurationIndex)
	require.Equal(t, 0, rach.Generic.ZeroCorrelationZoneConfig)
	require.Equal(t, 10, rach.TotalNumberOfPreambles)
	require.Equal(t, 20, rach.RootSequenceIndex)

	fc, err := frame.NewConfig(ul, config.DuplexMode())
	require.NoError(t, err)
	require.Equal(t, defs.KHz30, fc.Reference.Numerology)
	require.Equal(t, 51, fc.Reference.GridSize)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"schema too new", `schema_version: "2.0"`},
		{"schema garbage", `schema_version: "one"`},
		{"duplex", "cell:\n  duplex: half"},
		{"bandwidth", "cell:\n  bandwidth: 7MHz"},
		{"spacing", "cell:\n  subcarrier_spacing: 60kHz"},
		{"cyclic prefix", "cell:\n  cyclic_prefix: long"},
		{"restricted set", "rach:\n  restricted_set: typeC"},
		{"carriers without bwp", "carriers:\n  - subcarrier_spacing: 30kHz\n    carrier_bandwidth: 51"},
		{"carrier spacing", "carriers:\n  - subcarrier_spacing: 45\nbwp:\n  location_and_bandwidth: 1099"},
		{"negative count", "generation:\n  count: -1"},
		{"pushgateway without url", "prometheus:\n  pushgateway:\n    enabled: true"},
		{"qos", "mqtt:\n  qos: 3"},
		{"not yaml", "cell: [unclosed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tc.yaml))
			require.Error(t, err)
		})
	}
}

func TestUplinkConfigErrors(t *testing.T) {
	config, err := ParseConfig([]byte("rach:\n  root_sequence_index: 900"))
	require.NoError(t, err)
	_, err = config.UplinkConfig()
	require.True(t, errors.Is(err, defs.ErrOutOfRange), "got %v", err)

	config, err = ParseConfig([]byte("bwp:\n  location_and_bandwidth: 40000"))
	require.NoError(t, err)
	_, err = config.UplinkConfig()
	require.True(t, errors.Is(err, defs.ErrOutOfRange), "got %v", err)

	config, err = ParseConfig([]byte("cell:\n  bandwidth: 400MHz\n  subcarrier_spacing: 15kHz"))
	require.NoError(t, err)
	_, err = config.UplinkConfig()
	require.True(t, errors.Is(err, defs.ErrOutOfRange), "got %v", err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generation:\n  count: 8\n"), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 8, config.Generation.Count)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.True(t, errors.Is(err, os.ErrNotExist))
}
