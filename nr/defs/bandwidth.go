package defs

import (
	"fmt"
	"strings"
)

// Bandwidth is a channel bandwidth from 38.101-1/-2
type Bandwidth int

const (
	MHz3 Bandwidth = iota
	MHz5
	MHz10
	MHz15
	MHz20
	MHz25
	MHz30
	MHz35
	MHz40
	MHz45
	MHz50
	MHz60
	MHz70
	MHz80
	MHz90
	MHz100
	MHz200
	MHz400
)

var bandwidthMHz = [...]int{3, 5, 10, 15, 20, 25, 30, 35, 40, 45, 50, 60, 70, 80, 90, 100, 200, 400}

// MHz returns the nominal channel bandwidth
func (b Bandwidth) MHz() int {
	if b < 0 || int(b) >= len(bandwidthMHz) {
		return 0
	}
	return bandwidthMHz[b]
}

func (b Bandwidth) String() string {
	if mhz := b.MHz(); mhz > 0 {
		return fmt.Sprintf("MHz%d", mhz)
	}
	return fmt.Sprintf("Bandwidth(%d)", int(b))
}

// ParseBandwidth accepts "MHz100", "100MHz" or "100"
func ParseBandwidth(s string) (Bandwidth, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "mhz")
	v = strings.TrimSuffix(v, "mhz")
	for i, mhz := range bandwidthMHz {
		if fmt.Sprint(mhz) == v {
			return Bandwidth(i), nil
		}
	}
	return 0, fmt.Errorf("unknown bandwidth %q: %w", s, ErrOutOfRange)
}

// Maximum transmission bandwidth N_RB
// 3GPP TS 38.101-1 Table 5.3.2-1 (FR1) and TS 38.101-2 Table 5.3.2-1 (FR2)
var maxTransmissionBandwidth = map[SubcarrierSpacing]map[Bandwidth]int{
	KHz15: {
		MHz3: 15, MHz5: 25, MHz10: 52, MHz15: 79, MHz20: 106, MHz25: 133,
		MHz30: 160, MHz35: 188, MHz40: 216, MHz45: 242, MHz50: 270,
	},
	KHz30: {
		MHz5: 11, MHz10: 20, MHz15: 38, MHz20: 51, MHz25: 65, MHz30: 78,
		MHz40: 106, MHz45: 119, MHz50: 133, MHz60: 162, MHz70: 189, MHz80: 217,
		MHz90: 245, MHz100: 273,
	},
	KHz120: {
		MHz50: 32, MHz100: 66, MHz200: 132, MHz400: 264,
	},
}

// MaxTransmissionBandwidth returns N_RB for a bandwidth/spacing pair.
// Combinations absent from the tables are rejected.
func MaxTransmissionBandwidth(bw Bandwidth, scs SubcarrierSpacing) (int, error) {
	rbs, ok := maxTransmissionBandwidth[scs][bw]
	if !ok {
		return 0, fmt.Errorf("no transmission bandwidth for %s at %s: %w", bw, scs, ErrOutOfRange)
	}
	return rbs, nil
}
