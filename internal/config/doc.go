// Package config provides user configuration management for hapscan.
//
// This package manages a YAML-based configuration file that stores nicknames
// and rooms for HomeKit accessories, keyed by their HAP device id, together
// with application preferences. Accessory addresses are never cached: they
// are looked up on the network every time.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/hapscan/config.yaml or $HOME/.config/hapscan/config.yaml
//   - macOS: $HOME/.config/hapscan/config.yaml
//   - Windows: %LOCALAPPDATA%\hapscan\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.SetNickname("AA:BB:CC:DD:EE:FF", "Desk lamp", "Office")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
