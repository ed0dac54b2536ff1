package defs

/*
 * NR numerology definitions
 * Subcarrier spacings, cyclic prefixes, duplex modes and channel bandwidths
 * shared by the frame, numerology and PRACH packages.
 */

import (
	"fmt"
	"math/bits"
	"strings"
)

// Resource grid constants (3GPP TS 38.211 section 4)
const (
	NRBsc           = 12   // Subcarriers per resource block
	NSlotSymb       = 14   // Symbols per slot, normal cyclic prefix
	NSlotSymbExt    = 12   // Symbols per slot, extended cyclic prefix
	SubframesPerSFN = 1024 // Subframes covered by one SFN grid
	MaxGridSize     = 275  // Largest carrier/BWP size in resource blocks
)

// DuplexMode selects the PRACH configuration table set
type DuplexMode int

const (
	FDD DuplexMode = iota
	TDD
)

func (d DuplexMode) String() string {
	switch d {
	case FDD:
		return "FDD"
	case TDD:
		return "TDD"
	}
	return fmt.Sprintf("DuplexMode(%d)", int(d))
}

// ParseDuplexMode accepts "fdd" or "tdd" in any case
func ParseDuplexMode(s string) (DuplexMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fdd":
		return FDD, nil
	case "tdd":
		return TDD, nil
	}
	return 0, fmt.Errorf("unknown duplex mode %q: %w", s, ErrOutOfRange)
}

// SubcarrierSpacing is ordered by spacing, so the larger value is the larger spacing
type SubcarrierSpacing int

const (
	KHz15 SubcarrierSpacing = iota
	KHz30
	KHz120
)

// Mu returns the numerology index µ (Δf = 15·2^µ kHz)
func (s SubcarrierSpacing) Mu() int {
	switch s {
	case KHz15:
		return 0
	case KHz30:
		return 1
	case KHz120:
		return 3
	}
	return -1
}

// Hz returns the subcarrier spacing in Hz
func (s SubcarrierSpacing) Hz() int {
	mu := s.Mu()
	if mu < 0 {
		return 0
	}
	return 15000 << mu
}

// SlotsPerSubframe returns 2^µ
func (s SubcarrierSpacing) SlotsPerSubframe() int {
	mu := s.Mu()
	if mu < 0 {
		return 0
	}
	return 1 << mu
}

// Valid reports whether s is one of the defined spacings
func (s SubcarrierSpacing) Valid() bool {
	return s.Mu() >= 0
}

func (s SubcarrierSpacing) String() string {
	switch s {
	case KHz15:
		return "kHz15"
	case KHz30:
		return "kHz30"
	case KHz120:
		return "kHz120"
	}
	return fmt.Sprintf("SubcarrierSpacing(%d)", int(s))
}

// ParseSubcarrierSpacing accepts "kHz30", "30kHz" or "30"
func ParseSubcarrierSpacing(s string) (SubcarrierSpacing, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "khz")
	v = strings.TrimSuffix(v, "khz")
	switch v {
	case "15":
		return KHz15, nil
	case "30":
		return KHz30, nil
	case "120":
		return KHz120, nil
	}
	return 0, fmt.Errorf("unknown subcarrier spacing %q: %w", s, ErrOutOfRange)
}

// CyclicPrefix of a bandwidth part
type CyclicPrefix int

const (
	NormalCP CyclicPrefix = iota
	ExtendedCP
)

// SymbolsPerSlot returns 14 for the normal and 12 for the extended cyclic prefix
func (c CyclicPrefix) SymbolsPerSlot() int {
	if c == ExtendedCP {
		return NSlotSymbExt
	}
	return NSlotSymb
}

func (c CyclicPrefix) String() string {
	switch c {
	case NormalCP:
		return "normal"
	case ExtendedCP:
		return "extended"
	}
	return fmt.Sprintf("CyclicPrefix(%d)", int(c))
}

// ParseCyclicPrefix accepts "normal" or "extended"
func ParseCyclicPrefix(s string) (CyclicPrefix, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return NormalCP, nil
	case "extended":
		return ExtendedCP, nil
	}
	return 0, fmt.Errorf("unknown cyclic prefix %q: %w", s, ErrOutOfRange)
}

// FFTSize returns the smallest power of two holding nrb resource blocks, 1 for none
func FFTSize(nrb int) int {
	n := nrb * NRBsc
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
