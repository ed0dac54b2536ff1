package prach

import (
	"fmt"

	"github.com/cwsl/nr_uplink/nr/defs"
	"github.com/cwsl/nr_uplink/nr/tables"
)

// RACH-ConfigCommon limits, 3GPP TS 38.331
const (
	MinPreambles           = 1
	MaxPreambles           = 63
	MaxRootSequenceIndex   = 837
	MaxZeroCorrelationZone = 15
)

// ConfigGeneric is the subset of RACH-ConfigGeneric the generator needs
type ConfigGeneric struct {
	ConfigurationIndex        tables.ConfigurationIndex
	ZeroCorrelationZoneConfig int
}

// ConfigCommon is the subset of RACH-ConfigCommon the generator needs
type ConfigCommon struct {
	Generic                ConfigGeneric
	TotalNumberOfPreambles int
	RootSequenceIndex      int // prach-RootSequenceIndex, logical
	RestrictedSet          tables.RestrictedSet
}

// DefaultConfigGeneric is configuration index 0 with zeroCorrelationZoneConfig 1
func DefaultConfigGeneric() ConfigGeneric {
	return ConfigGeneric{
		ConfigurationIndex:        0,
		ZeroCorrelationZoneConfig: 1,
	}
}

// DefaultConfigCommon returns 63 preambles on logical root 0, unrestricted
func DefaultConfigCommon() ConfigCommon {
	return ConfigCommon{
		Generic:                DefaultConfigGeneric(),
		TotalNumberOfPreambles: MaxPreambles,
		RootSequenceIndex:      0,
		RestrictedSet:          tables.Unrestricted,
	}
}

// NewConfigCommon builds a validated ConfigCommon
func NewConfigCommon(generic ConfigGeneric, totalPreambles, rootSequenceIndex int, set tables.RestrictedSet) (ConfigCommon, error) {
	cfg := ConfigCommon{
		Generic:                generic,
		TotalNumberOfPreambles: totalPreambles,
		RootSequenceIndex:      rootSequenceIndex,
		RestrictedSet:          set,
	}
	if err := cfg.Validate(); err != nil {
		return ConfigCommon{}, err
	}
	return cfg, nil
}

// Validate checks the scalar ranges. Restricted sets pass here and are
// refused by the generator.
func (c ConfigCommon) Validate() error {
	if c.TotalNumberOfPreambles < MinPreambles || c.TotalNumberOfPreambles > MaxPreambles {
		return fmt.Errorf("total number of RA preambles (%d) out of bound [%d, %d]: %w",
			c.TotalNumberOfPreambles, MinPreambles, MaxPreambles, defs.ErrOutOfRange)
	}
	if c.RootSequenceIndex < 0 || c.RootSequenceIndex > MaxRootSequenceIndex {
		return fmt.Errorf("PRACH root sequence index (%d) out of bound [0, %d]: %w",
			c.RootSequenceIndex, MaxRootSequenceIndex, defs.ErrOutOfRange)
	}
	if c.Generic.ZeroCorrelationZoneConfig < 0 || c.Generic.ZeroCorrelationZoneConfig > MaxZeroCorrelationZone {
		return fmt.Errorf("zero correlation zone config (%d) out of bound [0, %d]: %w",
			c.Generic.ZeroCorrelationZoneConfig, MaxZeroCorrelationZone, defs.ErrOutOfRange)
	}
	if c.Generic.ConfigurationIndex < 0 || c.Generic.ConfigurationIndex > tables.MaxConfigurationIndex {
		return fmt.Errorf("PRACH configuration index (%d) out of bound [0, %d]: %w",
			c.Generic.ConfigurationIndex, tables.MaxConfigurationIndex, defs.ErrOutOfRange)
	}
	switch c.RestrictedSet {
	case tables.Unrestricted, tables.RestrictedTypeA, tables.RestrictedTypeB:
	default:
		return fmt.Errorf("restricted set config %s: %w", c.RestrictedSet, defs.ErrOutOfRange)
	}
	return nil
}
