// Package discovery finds HomeKit IP accessories on the local network and
// normalizes their Bonjour TXT records.
//
// HomeKit accessories advertise themselves as "_hap._tcp.local." services.
// Each advertisement carries a small TXT record (c#, ff, id, md, pv, s#, sf,
// ci) that identifies the accessory and describes its pairing state.
//
// # Discovery Process
//
// Enumeration works as follows:
//  1. Opens a browsing session and attaches a Collector to it
//  2. Waits for the full timeout while announcements accumulate
//  3. Decodes and normalizes every collected TXT record into a Record
//  4. Drops records that fail to parse or lack a config number or model
//  5. Closes the session and returns the records in arrival order
//
// Targeted resolution polls the collector every PollInterval and returns as
// soon as an announcement carries the requested device id.
//
// # Usage Example
//
//	records, err := discovery.DiscoverAccessories(10 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range records {
//	    fmt.Printf("%s %s at %s:%d\n", r.ID, r.Model, r.Address, r.Port)
//	}
//
//	addr, port, err := discovery.FindAccessory("AA:BB:CC:DD:EE:FF", 10*time.Second)
//	if discovery.IsNotFoundError(err) {
//	    // not on the network right now
//	}
//
// Callers that run their own mDNS stack can use the codec directly:
//
//	props, err := discovery.DecodeProperties(discovery.DecodeTXT(txt))
//	record, err := discovery.NormalizeProperties(props)
//
// # Testing
//
// The Browser interface and the Scanner's Clock are the seams for tests: a
// fake Browser delivers announcements synchronously and a clock.Mock lets the
// discovery window and the poll loop run without wall-clock delay.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Accessories must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
