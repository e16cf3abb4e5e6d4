package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "hapscan") {
		t.Errorf("GetConfigDir() = %v, should contain 'hapscan'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if configDir != filepath.Join("/tmp/xdg-test", "hapscan") {
		t.Errorf("GetConfigDir() = %v, want /tmp/xdg-test/hapscan", configDir)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != CurrentVersion {
		t.Errorf("NewRegistry().Version = %v, want %v", reg.Version, CurrentVersion)
	}
	if reg.Accessories == nil {
		t.Error("NewRegistry().Accessories should not be nil")
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}
	if reg.Preferences.ScanTimeout != 10 {
		t.Errorf("ScanTimeout = %v, want 10", reg.Preferences.ScanTimeout)
	}
	if reg.Preferences.FindTimeoutDuration() != 10*time.Second {
		t.Errorf("FindTimeoutDuration() = %v, want 10s", reg.Preferences.FindTimeoutDuration())
	}
	if err := reg.Preferences.Validate(); err != nil {
		t.Errorf("default preferences should validate, got %v", err)
	}
}

func TestRegistryEnsureAccessory(t *testing.T) {
	reg := &Registry{}

	acc1 := reg.EnsureAccessory("AA:BB")
	if acc1 == nil {
		t.Fatal("EnsureAccessory() returned nil")
	}

	acc2 := reg.EnsureAccessory("AA:BB")
	if acc1 != acc2 {
		t.Error("EnsureAccessory() should return same instance for same id")
	}

	acc3 := reg.EnsureAccessory("CC:DD")
	if acc1 == acc3 {
		t.Error("EnsureAccessory() should create new instance for different id")
	}
}

func TestRegistrySetNickname(t *testing.T) {
	reg := NewRegistry()

	reg.SetNickname("AA:BB", "Desk lamp", "Office")
	if got := reg.Nickname("AA:BB"); got != "Desk lamp (Office)" {
		t.Errorf("Nickname() = %q, want 'Desk lamp (Office)'", got)
	}

	// Empty room keeps the stored one
	reg.SetNickname("AA:BB", "Reading lamp", "")
	acc := reg.GetAccessory("AA:BB")
	if acc.Nickname != "Reading lamp" || acc.Room != "Office" {
		t.Errorf("accessory = %+v, want nickname 'Reading lamp' in 'Office'", acc)
	}

	reg.SetNickname("CC:DD", "Fan", "")
	if got := reg.Nickname("CC:DD"); got != "Fan" {
		t.Errorf("Nickname() = %q, want 'Fan'", got)
	}

	if got := reg.Nickname("unknown"); got != "" {
		t.Errorf("Nickname() for unknown id = %q, want empty", got)
	}
}

func TestRegistryRemoveAccessory(t *testing.T) {
	reg := NewRegistry()
	reg.SetNickname("AA:BB", "Lamp", "")

	if !reg.RemoveAccessory("AA:BB") {
		t.Error("RemoveAccessory() = false for existing entry")
	}
	if reg.RemoveAccessory("AA:BB") {
		t.Error("RemoveAccessory() = true for missing entry")
	}
	if reg.GetAccessory("AA:BB") != nil {
		t.Error("accessory should be gone after RemoveAccessory()")
	}
}

func TestPreferencesValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Preferences)
		wantErr bool
	}{
		{"defaults", func(p *Preferences) {}, false},
		{"zero scan timeout", func(p *Preferences) { p.ScanTimeout = 0 }, true},
		{"huge find timeout", func(p *Preferences) { p.FindTimeout = 3600 }, true},
		{"json output", func(p *Preferences) { p.OutputFormat = "json" }, false},
		{"empty output", func(p *Preferences) { p.OutputFormat = "" }, false},
		{"bad output", func(p *Preferences) { p.OutputFormat = "xml" }, true},
		{"debug level", func(p *Preferences) { p.LogLevel = "DEBUG" }, false},
		{"bad level", func(p *Preferences) { p.LogLevel = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPreferences()
			tt.mutate(p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	reg.SetNickname("AA:BB:CC:DD:EE:FF", "Desk lamp", "Office")
	reg.Preferences.OutputFormat = "compact"
	reg.Preferences.Interface = "en0"

	if err := reg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after SaveTo()")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# hapscan Configuration File") {
		t.Error("saved config should start with the header comment")
	}

	loaded, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}

	acc := loaded.GetAccessory("AA:BB:CC:DD:EE:FF")
	if acc == nil {
		t.Fatal("accessory should exist in loaded registry")
	}
	if acc.Nickname != "Desk lamp" || acc.Room != "Office" {
		t.Errorf("loaded accessory = %+v", acc)
	}
	if loaded.Preferences.OutputFormat != "compact" {
		t.Errorf("OutputFormat = %v, want compact", loaded.Preferences.OutputFormat)
	}
	if loaded.Preferences.Interface != "en0" {
		t.Errorf("Interface = %v, want en0", loaded.Preferences.Interface)
	}
}

func TestLoadRegistryFrom_Missing(t *testing.T) {
	reg, err := LoadRegistryFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.Version != CurrentVersion || reg.Preferences == nil {
		t.Errorf("missing file should yield default registry, got %+v", reg)
	}
}

func TestLoadRegistryFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "version: [1"},
		{"wrong version", "version: 2\n"},
		{"bad preferences", "version: 1\npreferences:\n  scan_timeout: 0\n  find_timeout: 10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			if _, err := LoadRegistryFrom(path); err == nil {
				t.Error("LoadRegistryFrom() expected error")
			}
		})
	}
}

func TestLoadRegistryFrom_DefaultsFilled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 1\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	reg, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.Accessories == nil {
		t.Error("Accessories should be initialized")
	}
	if reg.Preferences == nil || reg.Preferences.ScanTimeout != 10 {
		t.Errorf("Preferences should default, got %+v", reg.Preferences)
	}
}

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}

func BenchmarkEnsureAccessory(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureAccessory("AA:BB:CC:DD:EE:FF")
	}
}
