package tables

import (
	"fmt"
	"strings"

	"github.com/cwsl/nr_uplink/nr/defs"
)

// RestrictedSet is the restrictedSetConfig of RACH-ConfigCommon
type RestrictedSet int

const (
	Unrestricted RestrictedSet = iota
	RestrictedTypeA
	RestrictedTypeB
)

func (r RestrictedSet) String() string {
	switch r {
	case Unrestricted:
		return "unrestricted"
	case RestrictedTypeA:
		return "restrictedTypeA"
	case RestrictedTypeB:
		return "restrictedTypeB"
	}
	return fmt.Sprintf("RestrictedSet(%d)", int(r))
}

// ParseRestrictedSet accepts the RRC names, case-insensitive, or "" for unrestricted
func ParseRestrictedSet(s string) (RestrictedSet, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unrestricted", "unrestrictedset":
		return Unrestricted, nil
	case "restrictedtypea", "typea":
		return RestrictedTypeA, nil
	case "restrictedtypeb", "typeb":
		return RestrictedTypeB, nil
	}
	return 0, fmt.Errorf("unknown restricted set %q: %w", s, defs.ErrOutOfRange)
}

// N_CS for Δf_RA = 1.25 kHz, 3GPP TS 38.211 Table 6.3.3.1-5
var (
	ncs1250Unrestricted = [...]int{0, 13, 15, 18, 22, 26, 32, 38, 46, 59, 76, 93, 119, 167, 279, 419}
	ncs1250TypeA        = [...]int{15, 18, 22, 26, 32, 38, 46, 55, 68, 82, 100, 128, 158, 202, 237}
	ncs1250TypeB        = [...]int{15, 18, 22, 26, 32, 38, 46, 55, 68, 82, 100, 118, 137}
)

// N_CS for Δf_RA = 5 kHz, 3GPP TS 38.211 Table 6.3.3.1-6
var (
	ncs5000Unrestricted = [...]int{0, 13, 26, 33, 38, 41, 49, 55, 64, 76, 93, 119, 139, 209, 279, 419}
	ncs5000TypeA        = [...]int{36, 57, 72, 81, 89, 94, 103, 112, 121, 132, 137, 152, 173, 195, 216, 237}
	ncs5000TypeB        = [...]int{36, 57, 60, 63, 65, 68, 71, 77, 81, 85, 97, 109, 122, 137}
)

func ncsRow(class SCSClass, set RestrictedSet) ([]int, error) {
	switch class {
	case KHz1_25:
		switch set {
		case Unrestricted:
			return ncs1250Unrestricted[:], nil
		case RestrictedTypeA:
			return ncs1250TypeA[:], nil
		case RestrictedTypeB:
			return ncs1250TypeB[:], nil
		}
	case KHz5:
		switch set {
		case Unrestricted:
			return ncs5000Unrestricted[:], nil
		case RestrictedTypeA:
			return ncs5000TypeA[:], nil
		case RestrictedTypeB:
			return ncs5000TypeB[:], nil
		}
	default:
		return nil, fmt.Errorf("unknown PRACH subcarrier spacing %s: %w", class, defs.ErrOutOfRange)
	}
	return nil, fmt.Errorf("unknown restricted set %s: %w", set, defs.ErrOutOfRange)
}

// CyclicShift returns N_CS for zeroCorrelationZoneConfig zcz
func CyclicShift(class SCSClass, set RestrictedSet, zcz int) (int, error) {
	row, err := ncsRow(class, set)
	if err != nil {
		return 0, err
	}
	if zcz < 0 || zcz >= len(row) {
		return 0, fmt.Errorf("zeroCorrelationZoneConfig %d outside [0, %d] for %s %s: %w",
			zcz, len(row)-1, class, set, defs.ErrOutOfRange)
	}
	return row[zcz], nil
}
