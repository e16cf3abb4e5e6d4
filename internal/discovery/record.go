package discovery

import (
	"fmt"
	"strings"

	"github.com/muurk/hapscan/internal/hap"
)

// Record is a normalized _hap._tcp advertisement.
//
// Optional string fields are empty when the accessory did not advertise
// them. StatusFlags and Category are nil unless "sf" and "ci" were present.
type Record struct {
	// From the announcement itself
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address" yaml:"address"`
	Port    int    `json:"port" yaml:"port"`

	// From the TXT record
	ConfigNumber      string           `json:"c#,omitempty" yaml:"c#,omitempty"`
	FeatureFlagsValue int              `json:"ff" yaml:"ff"`
	FeatureFlags      hap.FeatureFlags `json:"flags" yaml:"flags"`
	ID                string           `json:"id,omitempty" yaml:"id,omitempty"`
	Model             string           `json:"md,omitempty" yaml:"md,omitempty"`
	ProtocolVersion   string           `json:"pv" yaml:"pv"`
	StateNumber       string           `json:"s#,omitempty" yaml:"s#,omitempty"`
	StatusFlagsValue  string           `json:"sf,omitempty" yaml:"sf,omitempty"`
	StatusFlags       *hap.StatusFlags `json:"statusflags,omitempty" yaml:"statusflags,omitempty"`
	CategoryValue     string           `json:"ci,omitempty" yaml:"ci,omitempty"`
	Category          *hap.Category    `json:"category,omitempty" yaml:"category,omitempty"`
}

// Complete reports whether the record carries both a configuration number
// and a model name. Enumeration only returns complete records.
func (r *Record) Complete() bool {
	return r.ConfigNumber != "" && r.Model != ""
}

// PairingStatus returns "Paired", "Unpaired" or "Unknown" (no "sf" key).
func (r *Record) PairingStatus() string {
	switch {
	case r.StatusFlags == nil:
		return "Unknown"
	case r.StatusFlags.Has(hap.StatusUnpaired):
		return "Unpaired"
	default:
		return "Paired"
	}
}

// CategoryName returns the category name, or "" when none was advertised.
func (r *Record) CategoryName() string {
	if r.Category == nil {
		return ""
	}
	return r.Category.String()
}

// Fields returns the record keyed by TXT schema names, with only the fields
// the advertisement actually produced.
func (r *Record) Fields() map[string]any {
	m := map[string]any{
		"name":             r.Name,
		"address":          r.Address,
		"port":             r.Port,
		KeyFeatureFlags:    r.FeatureFlagsValue,
		"flags":            r.FeatureFlags,
		KeyProtocolVersion: r.ProtocolVersion,
	}
	optional := map[string]string{
		KeyConfigNumber: r.ConfigNumber,
		KeyDeviceID:     r.ID,
		KeyModel:        r.Model,
		KeyStateNumber:  r.StateNumber,
	}
	for k, v := range optional {
		if v != "" {
			m[k] = v
		}
	}
	if r.StatusFlags != nil {
		m[KeyStatusFlags] = r.StatusFlagsValue
		m["statusflags"] = *r.StatusFlags
	}
	if r.Category != nil {
		m[KeyCategory] = r.CategoryValue
		m["category"] = *r.Category
	}
	return m
}

// String returns a human-readable string representation of the record
func (r *Record) String() string {
	return fmt.Sprintf("HomeKit accessory %s (%s) at %s:%d", r.Name, r.ID, r.Address, r.Port)
}

// Summary returns a one-line summary of the accessory
func (r *Record) Summary() string {
	parts := []string{r.Model}
	if name := r.CategoryName(); name != "" {
		parts = append(parts, name)
	}
	parts = append(parts, fmt.Sprintf("%s:%d", r.Address, r.Port), r.PairingStatus())
	return strings.Join(parts, " • ")
}

// FormatCompact returns a compact multi-line format suitable for terminal display
func (r *Record) FormatCompact() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s [%s]\n", r.Name, r.ID))
	b.WriteString(fmt.Sprintf("  %s\n", r.Summary()))

	return b.String()
}

// FormatDetailed returns every normalized field, one per line. A non-empty
// nickname is shown first.
func (r *Record) FormatDetailed(nickname string) string {
	var b strings.Builder

	if nickname != "" {
		b.WriteString(fmt.Sprintf("Nickname:         %s\n", nickname))
	}
	b.WriteString(fmt.Sprintf("Name:             %s\n", r.Name))
	b.WriteString(fmt.Sprintf("Address:          %s:%d\n", r.Address, r.Port))
	b.WriteString(fmt.Sprintf("Device ID:        %s\n", orNone(r.ID)))
	b.WriteString(fmt.Sprintf("Model:            %s\n", orNone(r.Model)))
	b.WriteString(fmt.Sprintf("Category:         %s\n", orNone(r.CategoryName())))
	b.WriteString(fmt.Sprintf("Config Number:    %s\n", orNone(r.ConfigNumber)))
	b.WriteString(fmt.Sprintf("State Number:     %s\n", orNone(r.StateNumber)))
	b.WriteString(fmt.Sprintf("Protocol Version: %s\n", r.ProtocolVersion))
	b.WriteString(fmt.Sprintf("Feature Flags:    %s (ff=%d)\n", r.FeatureFlags, r.FeatureFlagsValue))
	if r.StatusFlags != nil {
		b.WriteString(fmt.Sprintf("Status Flags:     %s (sf=%s)\n", *r.StatusFlags, r.StatusFlagsValue))
	}
	b.WriteString(fmt.Sprintf("Pairing:          %s\n", r.PairingStatus()))

	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
