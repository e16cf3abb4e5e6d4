// Package ui renders the banners and result boxes of the hapscan CLI.
//
// These components follow a "run once and exit" pattern: scan and find print
// a header before browsing and a result box afterwards. They only style
// output when it goes to a terminal; piped output stays plain so scripts can
// parse it.
//
// The UI package provides two component types:
//
//   - Header: Command banner showing the operation and its parameters
//   - Result: Success, failure or warning box with details and tips
//
// Example:
//
//	w := cmd.OutOrStdout()
//	if ui.IsTerminal(w) {
//	    fmt.Fprintln(w, ui.RenderCommandHeader(ui.HeaderConfig{
//	        Title:   "Accessory Scan",
//	        Command: "hapscan scan",
//	        Params:  []ui.Param{{Key: "Timeout", Value: "10s"}},
//	        Width:   ui.TerminalWidth(w),
//	    }))
//	}
//
// # Styling
//
// All styles are defined in styles.go with a consistent color palette:
//
//   - PrimaryColor (purple): Headers, borders
//   - SuccessColor (green): Success states, checkmarks
//   - ErrorColor (red): Errors, failures
//   - WarningColor (orange): Warnings, empty results
//   - MutedColor (gray): Secondary information
//
// Widths are clamped between MinTerminalWidth and MaxContentWidth.
package ui
