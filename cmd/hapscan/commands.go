package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/muurk/hapscan/internal/discovery"
	"github.com/muurk/hapscan/internal/logging"
	"github.com/muurk/hapscan/internal/ui"
)

// maxConcurrentFinds bounds how many browsing sessions find keeps open.
const maxConcurrentFinds = 4

// Command flags
var (
	scanTimeout  int
	findTimeout  int
	outputFormat string
	labelRoom    string
	labelRemove  bool
)

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(labelCmd)

	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (default from config, 10)")
	scanCmd.Flags().StringVar(&outputFormat, "format", "", "Output format (detailed, compact, json, yaml)")

	findCmd.Flags().IntVar(&findTimeout, "timeout", 0, "Search timeout per device in seconds (default from config, 10)")

	decodeCmd.Flags().StringVar(&outputFormat, "format", "", "Output format (detailed, compact, json, yaml)")

	labelCmd.Flags().StringVar(&labelRoom, "room", "", "Room the accessory is in")
	labelCmd.Flags().BoolVar(&labelRemove, "remove", false, "Forget the stored nickname instead")
}

// scanCmd enumerates accessories on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for HomeKit accessories on the network",
	Long: `Scan for HomeKit IP accessories using mDNS/DNS-SD discovery.

Listens for _hap._tcp advertisements for the whole timeout, then prints every
accessory that advertised both a configuration number and a model.`,
	Example: `  # Scan for 10 seconds (default)
  hapscan scan

  # Quick 3-second scan
  hapscan scan --timeout 3

  # JSON output for scripting
  hapscan scan --format json`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	timeout := registry.Preferences.ScanTimeoutDuration()
	if scanTimeout > 0 {
		timeout = time.Duration(scanTimeout) * time.Second
	}
	format, err := resolveFormat()
	if err != nil {
		return err
	}

	scanner, err := newScanner()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if format == "detailed" || format == "compact" {
		printScanHeader(w, ui.IsTerminal(w), timeout, activeInterface())
	}

	records, err := scanner.DiscoverAll(timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	return printRecords(w, records, format, registry.Nickname)
}

func resolveFormat() (string, error) {
	format := outputFormat
	if format == "" {
		format = registry.Preferences.OutputFormat
	}
	switch format {
	case "":
		return "detailed", nil
	case "detailed", "compact", "json", "yaml":
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want detailed, compact, json or yaml)", format)
	}
}

// printRecords writes records in the requested format. nickname may return
// "" for accessories without a stored label.
func printRecords(w io.Writer, records []*discovery.Record, format string, nickname func(string) string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil

	case "yaml":
		data, err := yaml.Marshal(records)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Fprint(w, string(data))
		return nil
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No accessories found.")
		fmt.Fprintln(w, "\nTroubleshooting:")
		fmt.Fprintln(w, "  - Ensure accessories are powered on and joined to this network")
		fmt.Fprintln(w, "  - Verify multicast (UDP 5353) is not blocked by a firewall")
		fmt.Fprintln(w, "  - Try --interface to pick the right network interface")
		fmt.Fprintln(w, "  - Try increasing --timeout for slower networks")
		return nil
	}

	fmt.Fprintf(w, "Found %d accessor%s:\n\n", len(records), plural(len(records), "y", "ies"))
	for i, r := range records {
		if format == "compact" {
			fmt.Fprint(w, r.FormatCompact())
			continue
		}
		fmt.Fprintf(w, "%d.\n", i+1)
		fmt.Fprintln(w, indent(r.FormatDetailed(nickname(r.ID)), "   "))
	}

	if format == "detailed" {
		fmt.Fprintln(w, "Use 'hapscan find <device-id>' to resolve an accessory's address")
		fmt.Fprintln(w, "Use 'hapscan label <device-id> <nickname>' to name an accessory")
	}
	return nil
}

// findCmd resolves device ids to addresses
var findCmd = &cobra.Command{
	Use:   "find <device-id>...",
	Short: "Resolve HomeKit device ids to their current address",
	Long: `Resolve one or more HomeKit device ids to an address and port.

Each id is searched for concurrently in its own browsing session and reported
as soon as an advertisement carrying it is seen.`,
	Example: `  # Find one accessory
  hapscan find AA:BB:CC:DD:EE:FF

  # Find several with a longer budget
  hapscan find AA:BB:CC:DD:EE:FF 11:22:33:44:55:66 --timeout 30`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFind,
}

func runFind(cmd *cobra.Command, args []string) error {
	timeout := registry.Preferences.FindTimeoutDuration()
	if findTimeout > 0 {
		timeout = time.Duration(findTimeout) * time.Second
	}

	scanner, err := newScanner()
	if err != nil {
		return err
	}

	endpoints, err := findAll(cmd.Context(), scanner, args, timeout)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	missing := printEndpoints(w, ui.IsTerminal(w), endpoints, registry.Nickname)
	if missing > 0 {
		return fmt.Errorf("%d of %d device(s) not found within %s", missing, len(endpoints), timeout)
	}
	return nil
}

// deviceFinder is the part of *discovery.Scanner findAll uses.
type deviceFinder interface {
	FindDeviceAddressContext(ctx context.Context, deviceID string, timeout time.Duration) (string, int, error)
}

// findAll resolves every id concurrently. Ids that are simply not on the
// network come back with a not-found Err; any other failure aborts the batch.
func findAll(ctx context.Context, f deviceFinder, ids []string, timeout time.Duration) ([]discovery.Endpoint, error) {
	endpoints := make([]discovery.Endpoint, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFinds)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			address, port, err := f.FindDeviceAddressContext(ctx, id, timeout)
			if err != nil && !discovery.IsNotFoundError(err) {
				return fmt.Errorf("failed to find %s: %w", id, err)
			}
			if err != nil {
				logging.Debug("Device not found", zap.String("id", id), zap.Error(err))
			}
			endpoints[i] = discovery.Endpoint{DeviceID: id, Address: address, Port: port, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return endpoints, nil
}

// decodeCmd runs the codec over TXT strings given on the command line
var decodeCmd = &cobra.Command{
	Use:   "decode <key=value>...",
	Short: "Decode a HomeKit TXT record",
	Long: `Decode and normalize a _hap._tcp TXT record given as key=value strings.

Useful for checking what an advertisement captured with another tool
(dns-sd, avahi-browse) means.`,
	Example: `  hapscan decode c#=2 ff=1 id=AA:BB:CC:DD:EE:FF md=Bridge pv=1.1 s#=1 sf=1 ci=2`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDecode,
}

func runDecode(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat()
	if err != nil {
		return err
	}

	props, err := discovery.DecodeProperties(discovery.DecodeTXT(args))
	if err != nil {
		return err
	}
	record, err := discovery.NormalizeProperties(props)
	if err != nil {
		return fmt.Errorf("%w\n\n%s", err, discovery.TroubleshootingHint(err))
	}

	return printFields(cmd.OutOrStdout(), txtFields(record), format)
}

// txtFields is Record.Fields without the announcement-level entries.
func txtFields(r *discovery.Record) map[string]any {
	fields := r.Fields()
	delete(fields, "name")
	delete(fields, "address")
	delete(fields, "port")
	return fields
}

func printFields(w io.Writer, fields map[string]any, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "yaml":
		data, err := yaml.Marshal(fields)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Fprint(w, string(data))
	default:
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%-12s %v\n", k+":", fields[k])
		}
	}
	return nil
}

// labelCmd stores a nickname for a device id
var labelCmd = &cobra.Command{
	Use:   "label <device-id> [nickname]",
	Short: "Give an accessory a nickname",
	Long: `Store a nickname (and optionally a room) for an accessory's device id.

Nicknames are shown by scan, find and the interactive browser.`,
	Example: `  hapscan label AA:BB:CC:DD:EE:FF "Desk lamp" --room Office
  hapscan label AA:BB:CC:DD:EE:FF --remove`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLabel,
}

func runLabel(cmd *cobra.Command, args []string) error {
	id := args[0]
	w := cmd.OutOrStdout()

	switch {
	case labelRemove:
		if !registry.RemoveAccessory(id) {
			return fmt.Errorf("no nickname stored for %s", id)
		}
		fmt.Fprintf(w, "Forgot %s\n", id)
	case len(args) < 2:
		return errors.New("nickname is required unless --remove is given")
	default:
		registry.SetNickname(id, args[1], labelRoom)
		fmt.Fprintf(w, "%s is now %q\n", id, registry.Nickname(id))
	}

	if err := registry.SaveTo(registryPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
