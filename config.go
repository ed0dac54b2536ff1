package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/cwsl/nr_uplink/nr/defs"
	"github.com/cwsl/nr_uplink/nr/frame"
	"github.com/cwsl/nr_uplink/nr/numerology"
	"github.com/cwsl/nr_uplink/nr/prach"
	"github.com/cwsl/nr_uplink/nr/tables"
	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

// SupportedSchema is the range of schema_version values this build reads
const SupportedSchema = ">= 1.0, < 2.0"

// Config represents the application configuration
type Config struct {
	SchemaVersion string           `yaml:"schema_version"`
	Cell          CellConfig       `yaml:"cell"`
	Carriers      []CarrierConfig  `yaml:"carriers"` // Empty = one carrier at the maximum transmission bandwidth
	BWP           BWPConfig        `yaml:"bwp"`
	RACH          RACHConfig       `yaml:"rach"`
	Generation    GenerationConfig `yaml:"generation"`
	Output        OutputConfig     `yaml:"output"`
	Prometheus    PrometheusConfig `yaml:"prometheus"`
	MQTT          MQTTConfig       `yaml:"mqtt"`

	// Parsed values (internal use)
	duplex        defs.DuplexMode
	bandwidth     defs.Bandwidth
	scs           defs.SubcarrierSpacing
	cyclicPrefix  defs.CyclicPrefix
	restrictedSet tables.RestrictedSet
}

// CellConfig describes the uplink carrier
type CellConfig struct {
	Duplex            string `yaml:"duplex"`             // fdd or tdd (default: fdd)
	Bandwidth         string `yaml:"bandwidth"`          // Channel bandwidth, e.g. 100MHz (default: 100MHz)
	SubcarrierSpacing string `yaml:"subcarrier_spacing"` // BWP subcarrier spacing, e.g. 30kHz (default: 30kHz)
	CyclicPrefix      string `yaml:"cyclic_prefix"`      // normal or extended (default: normal)
}

// CarrierConfig is one scs-SpecificCarrier entry
type CarrierConfig struct {
	OffsetToCarrier   int    `yaml:"offset_to_carrier"`
	SubcarrierSpacing string `yaml:"subcarrier_spacing"`
	CarrierBandwidth  int    `yaml:"carrier_bandwidth"` // Resource blocks
}

// BWPConfig contains the initial uplink BWP
type BWPConfig struct {
	LocationAndBandwidth int `yaml:"location_and_bandwidth"` // RIV on the 275 RB grid (0 = whole carrier)
}

// RACHConfig contains RACH-ConfigCommon settings
type RACHConfig struct {
	ConfigurationIndex        int    `yaml:"configuration_index"`
	ZeroCorrelationZoneConfig *int   `yaml:"zero_correlation_zone_config"` // Default: 1
	TotalNumberOfPreambles    int    `yaml:"total_number_of_preambles"`    // Default: 63
	RootSequenceIndex         int    `yaml:"root_sequence_index"`          // Logical root, 0..837
	RestrictedSet             string `yaml:"restricted_set"`               // Only unrestricted is generated
}

// GenerationConfig controls the preamble batch
type GenerationConfig struct {
	Count      int   `yaml:"count"`       // Number of preambles (default: 1)
	Workers    int   `yaml:"workers"`     // Parallel generators (default: CPU cores)
	Seed       int64 `yaml:"seed"`        // Preamble i draws from seed+i
	PreambleID *int  `yaml:"preamble_id"` // Fixed preamble identity instead of a random draw
}

// OutputConfig contains the sample file settings
type OutputConfig struct {
	Path     string `yaml:"path"`     // Empty = do not write samples
	Compress bool   `yaml:"compress"` // zstd-compress the records
}

// PrometheusConfig contains metrics export settings
type PrometheusConfig struct {
	Textfile    string            `yaml:"textfile"`    // node_exporter textfile collector path (empty = disabled)
	Pushgateway PushgatewayConfig `yaml:"pushgateway"` // Pushgateway configuration
}

// PushgatewayConfig contains Prometheus Pushgateway settings
type PushgatewayConfig struct {
	Enabled  bool   `yaml:"enabled"`  // Enable/disable pushing to Pushgateway
	URL      string `yaml:"url"`      // Pushgateway URL (e.g., http://pushgateway:9091)
	Instance string `yaml:"instance"` // Instance UUID for basic auth username
	Token    string `yaml:"token"`    // Token UUID for basic auth password
}

// MQTTConfig contains MQTT broker settings
type MQTTConfig struct {
	Enabled     bool          `yaml:"enabled"`      // Enable/disable the run summary publish
	Broker      string        `yaml:"broker"`       // MQTT broker URL (e.g., tcp://mqtt.example.com:1883)
	Username    string        `yaml:"username"`     // MQTT authentication username
	Password    string        `yaml:"password"`     // MQTT authentication password
	TopicPrefix string        `yaml:"topic_prefix"` // Topic prefix for all metrics
	QoS         byte          `yaml:"qos"`          // MQTT Quality of Service level (0, 1, or 2)
	Retain      bool          `yaml:"retain"`       // Retain flag for MQTT messages
	TLS         MQTTTLSConfig `yaml:"tls"`          // TLS/SSL settings
}

// MQTTTLSConfig contains MQTT TLS/SSL settings
type MQTTTLSConfig struct {
	Enabled    bool   `yaml:"enabled"`     // Enable/disable TLS
	CACert     string `yaml:"ca_cert"`     // Path to CA certificate file
	ClientCert string `yaml:"client_cert"` // Path to client certificate file (optional)
	ClientKey  string `yaml:"client_key"`  // Path to client key file (optional)
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration, applies defaults and validates it
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.SchemaVersion == "" {
		c.SchemaVersion = "1.0"
	}
	if c.Cell.Duplex == "" {
		c.Cell.Duplex = "fdd"
	}
	if c.Cell.Bandwidth == "" {
		c.Cell.Bandwidth = "100MHz"
	}
	if c.Cell.SubcarrierSpacing == "" {
		c.Cell.SubcarrierSpacing = "30kHz"
	}
	if c.Cell.CyclicPrefix == "" {
		c.Cell.CyclicPrefix = "normal"
	}
	if c.RACH.ZeroCorrelationZoneConfig == nil {
		zcz := prach.DefaultConfigGeneric().ZeroCorrelationZoneConfig
		c.RACH.ZeroCorrelationZoneConfig = &zcz
	}
	if c.RACH.TotalNumberOfPreambles == 0 {
		c.RACH.TotalNumberOfPreambles = prach.MaxPreambles
	}
	if c.Generation.Count == 0 {
		c.Generation.Count = 1
	}
	if c.Generation.Workers == 0 {
		c.Generation.Workers = defaultWorkers()
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = "nr_uplink"
	}
}

// defaultWorkers is the physical core count, or GOMAXPROCS when it is unknown
func defaultWorkers() int {
	if cores := cpuCores(); cores > 0 {
		return cores
	}
	return runtime.GOMAXPROCS(0)
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if err := checkSchemaVersion(c.SchemaVersion); err != nil {
		return err
	}

	var err error
	if c.duplex, err = defs.ParseDuplexMode(c.Cell.Duplex); err != nil {
		return fmt.Errorf("cell.duplex: %w", err)
	}
	if c.bandwidth, err = defs.ParseBandwidth(c.Cell.Bandwidth); err != nil {
		return fmt.Errorf("cell.bandwidth: %w", err)
	}
	if c.scs, err = defs.ParseSubcarrierSpacing(c.Cell.SubcarrierSpacing); err != nil {
		return fmt.Errorf("cell.subcarrier_spacing: %w", err)
	}
	if c.cyclicPrefix, err = defs.ParseCyclicPrefix(c.Cell.CyclicPrefix); err != nil {
		return fmt.Errorf("cell.cyclic_prefix: %w", err)
	}
	if c.restrictedSet, err = tables.ParseRestrictedSet(c.RACH.RestrictedSet); err != nil {
		return fmt.Errorf("rach.restricted_set: %w", err)
	}
	for i, carrier := range c.Carriers {
		if _, err := defs.ParseSubcarrierSpacing(carrier.SubcarrierSpacing); err != nil {
			return fmt.Errorf("carriers[%d].subcarrier_spacing: %w", i, err)
		}
	}
	if len(c.Carriers) > 0 && c.BWP.LocationAndBandwidth == 0 {
		return fmt.Errorf("bwp.location_and_bandwidth is required when carriers are listed")
	}
	if c.Generation.Count < 1 {
		return fmt.Errorf("generation.count must be at least 1")
	}
	if c.Generation.Workers < 1 {
		return fmt.Errorf("generation.workers must be at least 1")
	}
	if c.Prometheus.Pushgateway.Enabled && c.Prometheus.Pushgateway.URL == "" {
		return fmt.Errorf("prometheus.pushgateway.url is required when the pushgateway is enabled")
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2")
	}
	return nil
}

func checkSchemaVersion(v string) error {
	schema, err := version.NewVersion(v)
	if err != nil {
		return fmt.Errorf("invalid schema_version %q: %w", v, err)
	}
	constraints, err := version.NewConstraint(SupportedSchema)
	if err != nil {
		return fmt.Errorf("invalid schema constraint: %w", err)
	}
	if !constraints.Check(schema) {
		return fmt.Errorf("schema_version %s not supported (want %s)", schema, SupportedSchema)
	}
	return nil
}

// UplinkConfig builds the RRC uplink configuration described by the file.
// Without an explicit carrier list the default single-carrier layout is used.
func (c *Config) UplinkConfig() (frame.UplinkConfigCommon, error) {
	rach, err := prach.NewConfigCommon(prach.ConfigGeneric{
		ConfigurationIndex:        tables.ConfigurationIndex(c.RACH.ConfigurationIndex),
		ZeroCorrelationZoneConfig: *c.RACH.ZeroCorrelationZoneConfig,
	}, c.RACH.TotalNumberOfPreambles, c.RACH.RootSequenceIndex, c.restrictedSet)
	if err != nil {
		return frame.UplinkConfigCommon{}, fmt.Errorf("rach: %w", err)
	}

	var ul frame.UplinkConfigCommon
	if len(c.Carriers) == 0 {
		ul, err = frame.DefaultUplinkConfigCommon(c.bandwidth, c.scs, c.cyclicPrefix)
		if err != nil {
			return frame.UplinkConfigCommon{}, fmt.Errorf("cell: %w", err)
		}
		if c.BWP.LocationAndBandwidth != 0 {
			if ul.InitialUplinkCommon.GenericParameters, err = frame.NewBWP(c.BWP.LocationAndBandwidth, c.scs, c.cyclicPrefix); err != nil {
				return frame.UplinkConfigCommon{}, fmt.Errorf("bwp: %w", err)
			}
		}
	} else {
		grids := make([]numerology.CarrierGrid, len(c.Carriers))
		for i, carrier := range c.Carriers {
			scs, err := defs.ParseSubcarrierSpacing(carrier.SubcarrierSpacing)
			if err != nil {
				return frame.UplinkConfigCommon{}, fmt.Errorf("carriers[%d]: %w", i, err)
			}
			grids[i] = numerology.CarrierGrid{
				OffsetToCarrier:   carrier.OffsetToCarrier,
				SubcarrierSpacing: scs,
				CarrierBandwidth:  carrier.CarrierBandwidth,
			}
		}
		bwp, err := frame.NewBWP(c.BWP.LocationAndBandwidth, c.scs, c.cyclicPrefix)
		if err != nil {
			return frame.UplinkConfigCommon{}, fmt.Errorf("bwp: %w", err)
		}
		ul.FrequencyInfoUL.SCSSpecificCarriers = grids
		ul.InitialUplinkCommon.GenericParameters = bwp
	}
	ul.InitialUplinkCommon.RACHConfigCommon = rach
	return ul, nil
}

// DuplexMode returns the parsed cell duplex mode
func (c *Config) DuplexMode() defs.DuplexMode {
	return c.duplex
}
