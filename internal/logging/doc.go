// Package logging provides structured logging for hapscan.
//
// This package wraps a zap logger with convenience functions for the logging
// patterns used by discovery. Logging is silent until Initialize is called
// with a level, or HAPSCAN_LOG_LEVEL is set, so library callers and CLI output
// are never interleaved with log lines by accident.
//
// # Log Levels
//
//   - Debug: browsing session events, raw TXT payloads, skipped announcements
//   - Info: discovery results
//   - Warn: non-fatal issues (a session that failed to close)
//   - Error: fatal issues
//
// # Discovery Logging
//
//	logging.LogSession(sessionID, "opened", "_hap._tcp.local.")
//	logging.LogAnnouncement(sessionID, info.Name, info.Properties)
//	logging.LogSkipped(sessionID, skipped) // skipped is a multierr aggregate
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Logs are written to stderr in console format.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Initialize and SetLogger
// are meant to be called once at startup.
package logging
