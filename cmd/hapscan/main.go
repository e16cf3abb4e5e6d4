// Hapscan finds HomeKit IP accessories on the local network.
//
// It browses for _hap._tcp Bonjour advertisements, decodes their TXT
// records and reports each accessory's model, category, device id, address
// and pairing state. Device ids can be resolved to an address and port for
// use by a HomeKit controller.
//
// Usage:
//
//	hapscan [command] [flags]
//
// Running without arguments launches the interactive browser.
// See 'hapscan --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/hapscan/internal/config"
	"github.com/muurk/hapscan/internal/discovery"
	"github.com/muurk/hapscan/internal/logging"
	"github.com/muurk/hapscan/internal/tui"
	"github.com/muurk/hapscan/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	logLevel   string
	ifaceName  string
)

// Loaded by the persistent pre-run hook
var (
	registry     *config.Registry
	registryPath string
)

var rootCmd = &cobra.Command{
	Use:   "hapscan",
	Short: "HomeKit accessory discovery",
	Long: `Find HomeKit IP accessories on the local network.

Browses for _hap._tcp Bonjour advertisements and decodes each accessory's
TXT record: model, category, device id, protocol version and pairing state.

If no command is specified, the interactive browser will launch automatically.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runBrowser,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is the OS config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when unset")
	rootCmd.PersistentFlags().StringVar(&ifaceName, "interface", "", "Network interface to browse on (default all)")

	rootCmd.AddCommand(versionCmd)
}

// setup loads the registry and starts logging. Flags win over the config
// file, which wins over HAPSCAN_LOG_LEVEL.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		registry, err = config.LoadRegistryFrom(configPath)
		registryPath = configPath
	} else {
		registry, err = config.LoadRegistry()
		if err == nil {
			registryPath, err = config.GetConfigPath()
		}
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := logLevel
	if level == "" {
		level = registry.Preferences.LogLevel
	}
	if err := logging.Initialize(level); err != nil {
		return err
	}

	logging.Debug("Configuration loaded",
		zap.String("path", registryPath),
		zap.Int("accessories", len(registry.Accessories)),
	)
	return nil
}

// newScanner builds a scanner bound to the chosen interface, if any.
func newScanner() (*discovery.Scanner, error) {
	scanner := discovery.NewScanner()

	name := activeInterface()
	if name == "" {
		return scanner, nil
	}

	browser, err := discovery.NewZeroconfBrowser().WithInterface(name)
	if err != nil {
		return nil, err
	}
	scanner.Browser = browser
	return scanner, nil
}

// activeInterface is the interface flag, else the configured preference.
func activeInterface() string {
	if ifaceName != "" {
		return ifaceName
	}
	return registry.Preferences.Interface
}

func runBrowser(cmd *cobra.Command, args []string) error {
	scanner, err := newScanner()
	if err != nil {
		return err
	}

	timeout := registry.Preferences.ScanTimeoutDuration()
	scan := func() ([]*discovery.Record, error) {
		return scanner.DiscoverAll(timeout)
	}
	return tui.Run(scan, timeout, registry.Nickname)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		fmt.Fprintf(cmd.OutOrStdout(), "hapscan %s (commit: %s) %s %s\n",
			info.Version, info.Commit, info.GoVersion, info.Platform)
	},
}
