// Package tui implements the interactive accessory browser.
//
// The browser is a single Bubble Tea screen: it scans the network when it
// starts, shows every HomeKit accessory found as a card (nickname or
// instance name, model, category, address, pairing state) and expands the
// selected accessory into its full TXT record on enter.
//
// The scan itself is injected as a ScanFunc so the model can be driven in
// tests without a network:
//
//	scanner := discovery.NewScanner()
//	scan := func() ([]*discovery.Record, error) {
//	    return scanner.DiscoverAll(10 * time.Second)
//	}
//	if err := tui.Run(scan, 10*time.Second, registry.Nickname); err != nil {
//	    log.Fatal(err)
//	}
//
// Components used:
//   - bubbles/spinner and bubbles/progress while scanning
//   - bubbles/list for the accessory cards, with filtering
//   - bubbles/help and bubbles/key for the footer
//   - lipgloss for styling and layout
package tui
