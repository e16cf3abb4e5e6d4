// Package hap holds the HomeKit Accessory Protocol value tables that appear in
// _hap._tcp TXT records.
//
// Three values are classified here:
//   - ci: the accessory category, an integer index into a fixed table
//   - ff: the pairing feature flags, a bitmask
//   - sf: the IP status flags, a bitmask
//
// The category and status tables reject values they do not define with an
// error wrapping ErrUnknownValue, so callers can tell a malformed advertisement apart from a
// transport failure:
//
//	cat, err := hap.ParseCategory(5)
//	if errors.Is(err, hap.ErrUnknownValue) {
//	    // accessory advertised a category this build does not know
//	}
//	fmt.Println(cat) // Lightbulb
//
// Feature flags keep bits this build has no name for and print them in hex.
//
// Classifier bundles the three lookups behind the interface the discovery
// package consumes.
package hap
