package prach

/*
 * PRACH preamble generation
 * Long preamble formats, 3GPP TS 38.211 sections 6.3.3.1 and 6.3.3.2.
 * Only the unrestricted cyclic shift set is implemented.
 */

import (
	"fmt"
	"log"

	"github.com/cwsl/nr_uplink/nr/defs"
	"github.com/cwsl/nr_uplink/nr/tables"
)

// Diagnostic records how a preamble was derived
type Diagnostic struct {
	DuplexMode                defs.DuplexMode
	ConfigurationIndex        tables.ConfigurationIndex
	Format                    tables.PreambleFormat
	Occasion                  tables.Occasion
	ZeroCorrelationZoneConfig int
	RestrictedSet             tables.RestrictedSet
	PreambleID                int
	LRA                       int
	NCS                       int
	PreamblesPerCyclicShift   int
	LogicalRootSequence       int
	PhysicalRootSequence      int // u
	CyclicShift               int // C_v
}

// Preamble is one generated PRACH preamble in the frequency domain
type Preamble struct {
	Samples []complex64 // len == Diagnostic.LRA
	Diagnostic
}

// GeneratorConfig configures a Generator
type GeneratorConfig struct {
	Source PreambleSource // Preamble identity draw, required
	Debug  bool           // Log each Diagnostic
}

// Generator produces PRACH preambles. It holds no state besides its source;
// Generate is safe for concurrent use if the source is.
type Generator struct {
	source PreambleSource
	debug  bool
}

// NewGenerator creates a generator drawing preamble identities from config.Source
func NewGenerator(config GeneratorConfig) (*Generator, error) {
	if config.Source == nil {
		return nil, fmt.Errorf("preamble source is required: %w", defs.ErrInconsistentConfig)
	}
	return &Generator{source: config.Source, debug: config.Debug}, nil
}

// Generate draws a preamble identity and synthesizes its preamble.
// Restricted sets are refused before the draw and before any table lookup.
func (g *Generator) Generate(duplex defs.DuplexMode, cfg ConfigCommon) (*Preamble, error) {
	if err := precheck(cfg); err != nil {
		return nil, err
	}
	return g.generate(duplex, cfg, g.source.Intn(cfg.TotalNumberOfPreambles))
}

// GenerateID synthesizes the preamble for a caller-chosen identity
func (g *Generator) GenerateID(duplex defs.DuplexMode, cfg ConfigCommon, preambleID int) (*Preamble, error) {
	if err := precheck(cfg); err != nil {
		return nil, err
	}
	return g.generate(duplex, cfg, preambleID)
}

func precheck(cfg ConfigCommon) error {
	if cfg.RestrictedSet != tables.Unrestricted {
		return fmt.Errorf("restricted set %s, only unrestricted set is supported: %w",
			cfg.RestrictedSet, defs.ErrUnsupported)
	}
	return cfg.Validate()
}

func (g *Generator) generate(duplex defs.DuplexMode, cfg ConfigCommon, preambleID int) (*Preamble, error) {
	if preambleID < 0 || preambleID >= cfg.TotalNumberOfPreambles {
		return nil, fmt.Errorf("preamble ID %d outside [0, %d): %w",
			preambleID, cfg.TotalNumberOfPreambles, defs.ErrOutOfRange)
	}

	generic := cfg.Generic
	format, err := tables.PreambleFormatFor(duplex, generic.ConfigurationIndex)
	if err != nil {
		return nil, err
	}
	occasion, err := tables.OccasionFor(duplex, generic.ConfigurationIndex)
	if err != nil {
		return nil, err
	}
	params, err := tables.Format(format)
	if err != nil {
		return nil, err
	}
	ncs, err := tables.CyclicShift(params.FRA, cfg.RestrictedSet, generic.ZeroCorrelationZoneConfig)
	if err != nil {
		return nil, err
	}

	var perCyclicShift int
	if ncs == 0 {
		perCyclicShift = 1
	} else {
		perCyclicShift = params.LRA / ncs
	}
	if perCyclicShift <= 0 {
		return nil, fmt.Errorf("number of preambles per cyclic shift is %d (L_RA=%d, N_CS=%d): %w",
			perCyclicShift, params.LRA, ncs, defs.ErrInconsistentConfig)
	}

	rootOffset, cyclicShift := preambleID/perCyclicShift, preambleID%perCyclicShift
	logicalRoot := cfg.RootSequenceIndex + rootOffset
	physicalRoot, err := tables.PhysicalRootSequence(params.LRA, logicalRoot)
	if err != nil {
		return nil, fmt.Errorf("root sequence index %d + offset %d: %w", cfg.RootSequenceIndex, rootOffset, err)
	}

	diag := Diagnostic{
		DuplexMode:                duplex,
		ConfigurationIndex:        generic.ConfigurationIndex,
		Format:                    format,
		Occasion:                  occasion,
		ZeroCorrelationZoneConfig: generic.ZeroCorrelationZoneConfig,
		RestrictedSet:             cfg.RestrictedSet,
		PreambleID:                preambleID,
		LRA:                       params.LRA,
		NCS:                       ncs,
		PreamblesPerCyclicShift:   perCyclicShift,
		LogicalRootSequence:       logicalRoot,
		PhysicalRootSequence:      physicalRoot,
		CyclicShift:               cyclicShift,
	}
	if g.debug {
		log.Printf("[PRACH] configuration index: %d, format: %s, logical root sequence index: %d, zero correlation zone config: %d, set: %s, preamble ID: %d",
			diag.ConfigurationIndex, diag.Format, cfg.RootSequenceIndex, diag.ZeroCorrelationZoneConfig, diag.RestrictedSet, diag.PreambleID)
		log.Printf("[PRACH] L_RA: %d, N_CS: %d, preambles per cyclic shift: %d, logical root: %d, physical root: %d, cyclic shift: %d",
			diag.LRA, diag.NCS, diag.PreamblesPerCyclicShift, diag.LogicalRootSequence, diag.PhysicalRootSequence, diag.CyclicShift)
	}

	return &Preamble{
		Samples:    Synthesize(params.LRA, physicalRoot, cyclicShift),
		Diagnostic: diag,
	}, nil
}
