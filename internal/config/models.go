package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	// CurrentVersion is the config file format version.
	CurrentVersion = 1

	defaultScanTimeout = 10
	defaultFindTimeout = 10
	maxTimeout         = 300
)

// OutputFormats lists the accepted values of Preferences.OutputFormat.
var OutputFormats = []string{"detailed", "compact", "json", "yaml"}

// LogLevels lists the accepted values of Preferences.LogLevel. Empty keeps
// logging silent.
var LogLevels = []string{"", "debug", "info", "warn", "warning", "error"}

// Registry represents the entire user configuration file.
// This stores user-defined metadata for accessories and application preferences.
type Registry struct {
	Version     int                   `yaml:"version"`
	Accessories map[string]*Accessory `yaml:"accessories,omitempty"` // Keyed by HAP device id
	Preferences *Preferences          `yaml:"preferences,omitempty"`
}

// Accessory represents user-defined metadata for a single HomeKit accessory.
// Addresses are never stored: they are resolved fresh on every lookup.
type Accessory struct {
	Nickname string `yaml:"nickname,omitempty"` // User-friendly name
	Room     string `yaml:"room,omitempty"`     // Optional room label
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	ScanTimeout  int    `yaml:"scan_timeout"`            // Enumeration window in seconds
	FindTimeout  int    `yaml:"find_timeout"`            // Device search budget in seconds
	OutputFormat string `yaml:"output_format,omitempty"` // detailed, compact, json or yaml
	LogLevel     string `yaml:"log_level,omitempty"`     // Overrides HAPSCAN_LOG_LEVEL when set
	Interface    string `yaml:"interface,omitempty"`     // Network interface to browse on
}

// DefaultPreferences returns the preferences used when none are configured.
func DefaultPreferences() *Preferences {
	return &Preferences{
		ScanTimeout:  defaultScanTimeout,
		FindTimeout:  defaultFindTimeout,
		OutputFormat: "detailed",
	}
}

// Validate checks that every preference holds an accepted value.
func (p *Preferences) Validate() error {
	if p.ScanTimeout <= 0 || p.ScanTimeout > maxTimeout {
		return fmt.Errorf("scan_timeout must be between 1 and %d seconds, got %d", maxTimeout, p.ScanTimeout)
	}
	if p.FindTimeout <= 0 || p.FindTimeout > maxTimeout {
		return fmt.Errorf("find_timeout must be between 1 and %d seconds, got %d", maxTimeout, p.FindTimeout)
	}
	if p.OutputFormat != "" && !contains(OutputFormats, p.OutputFormat) {
		return fmt.Errorf("output_format must be one of %s, got %q", strings.Join(OutputFormats, ", "), p.OutputFormat)
	}
	if !contains(LogLevels, strings.ToLower(p.LogLevel)) {
		return fmt.Errorf("log_level %q is not a known level", p.LogLevel)
	}
	return nil
}

// ScanTimeoutDuration returns ScanTimeout as a duration.
func (p *Preferences) ScanTimeoutDuration() time.Duration {
	return time.Duration(p.ScanTimeout) * time.Second
}

// FindTimeoutDuration returns FindTimeout as a duration.
func (p *Preferences) FindTimeoutDuration() time.Duration {
	return time.Duration(p.FindTimeout) * time.Second
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		Accessories: make(map[string]*Accessory),
		Preferences: DefaultPreferences(),
	}
}

// GetAccessory retrieves accessory metadata by device id.
// Returns nil if the accessory doesn't exist in the registry.
func (r *Registry) GetAccessory(deviceID string) *Accessory {
	return r.Accessories[deviceID]
}

// EnsureAccessory ensures an accessory entry exists in the registry and
// returns it.
func (r *Registry) EnsureAccessory(deviceID string) *Accessory {
	if r.Accessories == nil {
		r.Accessories = make(map[string]*Accessory)
	}

	if acc, exists := r.Accessories[deviceID]; exists {
		return acc
	}

	acc := &Accessory{}
	r.Accessories[deviceID] = acc
	return acc
}

// SetNickname sets a user-friendly nickname and optional room for an accessory.
// An empty room leaves the stored room unchanged.
func (r *Registry) SetNickname(deviceID, nickname, room string) {
	acc := r.EnsureAccessory(deviceID)
	acc.Nickname = nickname
	if room != "" {
		acc.Room = room
	}
}

// RemoveAccessory forgets an accessory. It reports whether an entry existed.
func (r *Registry) RemoveAccessory(deviceID string) bool {
	if _, ok := r.Accessories[deviceID]; !ok {
		return false
	}
	delete(r.Accessories, deviceID)
	return true
}

// Nickname returns the display label for deviceID: "nickname (room)",
// the nickname alone, or "" when nothing is stored.
func (r *Registry) Nickname(deviceID string) string {
	acc := r.GetAccessory(deviceID)
	if acc == nil || acc.Nickname == "" {
		return ""
	}
	if acc.Room != "" {
		return fmt.Sprintf("%s (%s)", acc.Nickname, acc.Room)
	}
	return acc.Nickname
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
