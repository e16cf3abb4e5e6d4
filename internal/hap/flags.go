package hap

import (
	"strconv"
	"strings"
)

// FeatureFlags is the pairing feature bitmask advertised in the "ff" TXT key.
type FeatureFlags int

const (
	// SupportsAppleAuthenticationCoprocessor marks accessories with an MFi chip.
	SupportsAppleAuthenticationCoprocessor FeatureFlags = 0x01
	// SupportsSoftwareAuthentication marks accessories using software token auth.
	SupportsSoftwareAuthentication FeatureFlags = 0x02

	featureFlagsMask = SupportsAppleAuthenticationCoprocessor | SupportsSoftwareAuthentication
)

var featureFlagNames = []struct {
	flag FeatureFlags
	name string
}{
	{SupportsAppleAuthenticationCoprocessor, "SupportsAppleAuthenticationCoprocessor"},
	{SupportsSoftwareAuthentication, "SupportsSoftwareAuthentication"},
}

// ParseFeatureFlags builds the feature flags for an "ff" value. Bits outside
// the defined set are kept; only negative values are rejected.
func ParseFeatureFlags(v int) (FeatureFlags, error) {
	if v < 0 {
		return 0, &UnknownValueError{Enum: "feature flags", Value: v}
	}
	return FeatureFlags(v), nil
}

// Unknown returns the set bits that have no name.
func (f FeatureFlags) Unknown() FeatureFlags {
	return f &^ featureFlagsMask
}

// Has reports whether every bit of flag is set.
func (f FeatureFlags) Has(flag FeatureFlags) bool {
	return f&flag == flag
}

// Names lists the set flags in bit order.
func (f FeatureFlags) Names() []string {
	var names []string
	for _, n := range featureFlagNames {
		if f.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return names
}

// String renders named flags and any unknown bits in hex, e.g.
// "SupportsSoftwareAuthentication|0x4".
func (f FeatureFlags) String() string {
	names := f.Names()
	if u := f.Unknown(); u != 0 {
		names = append(names, "0x"+strconv.FormatInt(int64(u), 16))
	}
	return joinFlagNames(names, int(f))
}

// MarshalText renders the flag names in JSON and YAML output.
func (f FeatureFlags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// StatusFlags is the IP status bitmask advertised in the "sf" TXT key.
type StatusFlags int

const (
	// StatusUnpaired is set while the accessory has no paired controller.
	StatusUnpaired StatusFlags = 0x01
	// StatusWiFiNotConfigured is set while the accessory has no Wi-Fi credentials.
	StatusWiFiNotConfigured StatusFlags = 0x02
	// StatusProblemDetected signals a fault the accessory wants surfaced.
	StatusProblemDetected StatusFlags = 0x04

	statusFlagsMask = StatusUnpaired | StatusWiFiNotConfigured | StatusProblemDetected
)

var statusFlagNames = []struct {
	flag StatusFlags
	name string
}{
	{StatusUnpaired, "Unpaired"},
	{StatusWiFiNotConfigured, "WiFiNotConfigured"},
	{StatusProblemDetected, "ProblemDetected"},
}

// ParseStatusFlags builds the status flags for an "sf" value.
func ParseStatusFlags(v int) (StatusFlags, error) {
	if v < 0 || StatusFlags(v)&^statusFlagsMask != 0 {
		return 0, &UnknownValueError{Enum: "status flags", Value: v}
	}
	return StatusFlags(v), nil
}

// Has reports whether every bit of flag is set.
func (s StatusFlags) Has(flag StatusFlags) bool {
	return s&flag == flag
}

// Names lists the set flags in bit order.
func (s StatusFlags) Names() []string {
	var names []string
	for _, n := range statusFlagNames {
		if s.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return names
}

func (s StatusFlags) String() string {
	return joinFlagNames(s.Names(), int(s))
}

// MarshalText renders the flag names in JSON and YAML output.
func (s StatusFlags) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// joinFlagNames formats set flags as "A|B"; an empty set renders as "None(0)".
func joinFlagNames(names []string, v int) string {
	if len(names) == 0 {
		return "None(" + strconv.Itoa(v) + ")"
	}
	return strings.Join(names, "|")
}
