package main

import (
	"fmt"
	"io"
	"time"

	"github.com/muurk/hapscan/internal/discovery"
	"github.com/muurk/hapscan/internal/ui"
)

var findTips = []string{
	"Check that the accessory is powered on and joined to this network",
	"Verify multicast (UDP 5353) is not blocked by a firewall",
	"Confirm the device id (run 'hapscan scan' to list ids)",
	"Try increasing --timeout",
}

// printScanHeader announces a scan. Terminals get a banner, pipes a single line.
func printScanHeader(w io.Writer, styled bool, timeout time.Duration, iface string) {
	if !styled {
		fmt.Fprintf(w, "Scanning for HomeKit accessories (timeout: %s)...\n\n", timeout)
		return
	}

	if iface == "" {
		iface = "all"
	}
	fmt.Fprintln(w, ui.RenderCommandHeader(ui.HeaderConfig{
		Title:   "HomeKit Accessory Scan",
		Command: "hapscan scan",
		Params: []ui.Param{
			{Key: "Service", Value: discovery.ServiceType},
			{Key: "Timeout", Value: timeout.String()},
			{Key: "Interface", Value: iface},
		},
		Width: ui.TerminalWidth(w),
	}))
	fmt.Fprintln(w)
}

// printEndpoints reports find results and returns how many ids were not found.
func printEndpoints(w io.Writer, styled bool, endpoints []discovery.Endpoint, nickname func(string) string) int {
	var found []ui.Param
	var missing []discovery.Endpoint

	for _, ep := range endpoints {
		label := ep.DeviceID
		if nick := nickname(ep.DeviceID); nick != "" {
			label = fmt.Sprintf("%s [%s]", ep.DeviceID, nick)
		}
		if ep.Err != nil {
			missing = append(missing, ep)
			if !styled {
				fmt.Fprintf(w, "%s  not found\n", label)
			}
			continue
		}
		addr := fmt.Sprintf("%s:%d", ep.Address, ep.Port)
		found = append(found, ui.Param{Key: label, Value: addr})
		if !styled {
			fmt.Fprintf(w, "%s  %s\n", label, addr)
		}
	}

	if !styled {
		return len(missing)
	}

	width := ui.TerminalWidth(w)
	if len(found) > 0 {
		title := fmt.Sprintf("%d of %d resolved", len(found), len(endpoints))
		res := ui.NewSuccessResult(title, found).SetWidth(width)
		fmt.Fprintln(w, res.Render())
	}
	for _, ep := range missing {
		res := ui.NewFailureResult(ep.DeviceID+" not found", ep.Err, findTips).SetWidth(width)
		fmt.Fprintln(w, res.Render())
	}
	return len(missing)
}
