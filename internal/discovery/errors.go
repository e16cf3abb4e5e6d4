package discovery

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeDecoding indicates TXT record bytes that are not valid UTF-8
	ErrTypeDecoding ErrorType = iota
	// ErrTypeParse indicates a numeric TXT field holding non-numeric text
	ErrTypeParse
	// ErrTypeUnknownEnum indicates a value missing from a classification table
	ErrTypeUnknownEnum
	// ErrTypeNotFound indicates a device id was not seen before the timeout
	ErrTypeNotFound
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeDecoding:
		return "Decoding Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeUnknownEnum:
		return "Unknown Enum Value"
	case ErrTypeNotFound:
		return "Device Not Found"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DiscoveryError represents an error raised while decoding, normalizing or
// resolving advertisements.
type DiscoveryError struct {
	Type     ErrorType // Category of error
	Message  string    // Human-readable error message
	Key      string    // TXT key involved (if any)
	DeviceID string    // Device id searched for (not-found errors)
	Err      error     // Underlying error (if any)
}

// Error implements the error interface
func (e *DiscoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// NewDecodingError creates an error for a TXT key or value that is not UTF-8.
func NewDecodingError(key string, what string) *DiscoveryError {
	return &DiscoveryError{
		Type:    ErrTypeDecoding,
		Message: fmt.Sprintf("%s of TXT key %q is not valid UTF-8", what, key),
		Key:     key,
	}
}

// NewParseError creates an error for a numeric TXT field that failed to parse.
func NewParseError(key string, value string, err error) *DiscoveryError {
	return &DiscoveryError{
		Type:    ErrTypeParse,
		Message: fmt.Sprintf("TXT key %q has non-numeric value %q", key, value),
		Key:     key,
		Err:     err,
	}
}

// NewUnknownEnumError wraps a classification failure for a TXT key.
func NewUnknownEnumError(key string, err error) *DiscoveryError {
	return &DiscoveryError{
		Type:    ErrTypeUnknownEnum,
		Message: fmt.Sprintf("TXT key %q could not be classified", key),
		Key:     key,
		Err:     err,
	}
}

// NewNotFoundError creates the error returned when a device id was not seen
// within the search budget.
func NewNotFoundError(deviceID string, timeout time.Duration) *DiscoveryError {
	return &DiscoveryError{
		Type:     ErrTypeNotFound,
		Message:  fmt.Sprintf("device %s not found via Bonjour within %s", deviceID, timeout),
		DeviceID: deviceID,
	}
}

func isType(err error, t ErrorType) bool {
	var de *DiscoveryError
	return errors.As(err, &de) && de.Type == t
}

// IsDecodingError checks if an error is a decoding error
func IsDecodingError(err error) bool {
	return isType(err, ErrTypeDecoding)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	return isType(err, ErrTypeParse)
}

// IsUnknownEnumError checks if an error is a classification failure
func IsUnknownEnumError(err error) bool {
	return isType(err, ErrTypeUnknownEnum)
}

// IsNotFoundError checks if an error is a device-not-found error
func IsNotFoundError(err error) bool {
	return isType(err, ErrTypeNotFound)
}

// TroubleshootingHint returns user-friendly troubleshooting advice for an error
func TroubleshootingHint(err error) string {
	var de *DiscoveryError
	if !errors.As(err, &de) {
		return "An unexpected error occurred. Please try again."
	}

	switch de.Type {
	case ErrTypeNotFound:
		return strings.Join([]string{
			"The accessory did not answer on the network in time.",
			"Troubleshooting:",
			"  • Check that the accessory is powered on and joined to this network",
			"  • Verify multicast (UDP 5353) is not blocked by a firewall",
			"  • Confirm the device id (run 'hapscan scan' to list ids)",
			"  • Try increasing --timeout",
		}, "\n")

	case ErrTypeDecoding, ErrTypeParse, ErrTypeUnknownEnum:
		return strings.Join([]string{
			"The accessory advertised a malformed TXT record.",
			"Troubleshooting:",
			"  • Run with --log-level debug to see the raw record",
			"  • Check for a firmware update for the accessory",
		}, "\n")

	default:
		return "An error occurred. Please check the error message for details."
	}
}
