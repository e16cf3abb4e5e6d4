package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/muurk/hapscan/internal/logging"
)

const (
	// ServiceType is the mDNS service type HomeKit IP accessories advertise
	ServiceType = "_hap._tcp.local."

	// DefaultTimeout is the default discovery and search budget
	DefaultTimeout = 10 * time.Second

	// PollInterval is how often FindDeviceAddress re-inspects collected
	// announcements. It does not scale with the timeout.
	PollInterval = 500 * time.Millisecond
)

// ErrNoAddress is returned for announcements that resolved without any
// IP address.
var ErrNoAddress = errors.New("announcement has no address")

// Scanner runs discovery sessions against a Browser.
type Scanner struct {
	// Browser opens browsing sessions. NewScanner uses zeroconf.
	Browser Browser

	// Codec normalizes TXT records.
	Codec Codec

	// Clock drives the discovery window and the poll interval.
	Clock clock.Clock

	// ServiceType is browsed for; empty means ServiceType.
	ServiceType string
}

// NewScanner creates a scanner that browses with zeroconf on all interfaces.
func NewScanner() *Scanner {
	return &Scanner{
		Browser:     NewZeroconfBrowser(),
		Clock:       clock.New(),
		ServiceType: ServiceType,
	}
}

func (s *Scanner) clock() clock.Clock {
	if s.Clock == nil {
		return clock.New()
	}
	return s.Clock
}

func (s *Scanner) serviceType() string {
	if s.ServiceType == "" {
		return ServiceType
	}
	return s.ServiceType
}

// browseSession is one open Session together with the collector attached to it.
type browseSession struct {
	id          string
	serviceType string
	session     Session
	collector   *Collector
}

func (s *Scanner) open() (*browseSession, error) {
	bs := &browseSession{
		id:          uuid.NewString(),
		serviceType: s.serviceType(),
		collector:   NewCollector(),
	}

	session, err := s.Browser.Browse(bs.serviceType, bs.collector)
	if err != nil {
		return nil, fmt.Errorf("failed to open browsing session: %w", err)
	}
	bs.session = session

	logging.LogSession(bs.id, "opened", bs.serviceType)
	return bs, nil
}

func (bs *browseSession) close() error {
	err := bs.session.Close()
	if err != nil {
		logging.Warn("Failed to close browsing session",
			zap.String("session", bs.id),
			zap.Error(err),
		)
		return fmt.Errorf("failed to close browsing session: %w", err)
	}
	logging.LogSession(bs.id, "closed", bs.serviceType)
	return nil
}

// DiscoverAll browses for the full timeout and returns every complete
// accessory record seen, in arrival order. Announcements that fail to decode
// or normalize are skipped. The window always runs to its end.
func (s *Scanner) DiscoverAll(timeout time.Duration) (records []*Record, err error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	bs, err := s.open()
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, bs.close())
	}()

	s.clock().Sleep(timeout)

	records = make([]*Record, 0)
	var skipped error
	for _, info := range bs.collector.Snapshot() {
		logging.LogAnnouncement(bs.id, info.Name, info.Properties)

		rec, rerr := s.record(info)
		if rerr != nil {
			skipped = multierr.Append(skipped, fmt.Errorf("%s: %w", info.Name, rerr))
			continue
		}
		if !rec.Complete() {
			continue
		}

		logging.Debug("Found HomeKit IP accessory",
			zap.String("session", bs.id),
			zap.String("name", rec.Name),
			zap.String("id", rec.ID),
			zap.String("address", rec.Address),
		)
		records = append(records, rec)
	}

	logging.LogSkipped(bs.id, skipped)
	logging.Info("Discovery finished",
		zap.String("session", bs.id),
		zap.Int("announcements", bs.collector.Len()),
		zap.Int("accessories", len(records)),
	)
	return records, nil
}

func (s *Scanner) record(info *ServiceInfo) (*Record, error) {
	if info.Address() == "" {
		return nil, ErrNoAddress
	}
	return s.Codec.Record(info)
}

// FindDeviceAddress searches for the accessory advertising deviceID in its
// "id" TXT key and returns its address and port as soon as it is seen.
//
// Collected announcements are inspected once immediately and then again after
// each PollInterval, timeout/PollInterval times in all. No sleep follows the
// last inspection, so a miss costs exactly timeout/PollInterval sleeps (20 for
// 10s) and never a trailing extra interval. If the id never shows up the
// error satisfies IsNotFoundError.
func (s *Scanner) FindDeviceAddress(deviceID string, timeout time.Duration) (address string, port int, err error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	bs, err := s.open()
	if err != nil {
		return "", 0, err
	}
	defer func() {
		err = multierr.Append(err, bs.close())
	}()

	clk := s.clock()
	retries := int(timeout / PollInterval)

	for attempt := 0; ; attempt++ {
		if info := matchDeviceID(bs.collector.Snapshot(), deviceID); info != nil {
			logging.Debug("Found device",
				zap.String("session", bs.id),
				zap.String("id", deviceID),
				zap.Int("attempt", attempt),
			)
			return info.Address(), info.Port, nil
		}

		if attempt >= retries {
			break
		}
		clk.Sleep(PollInterval)
	}

	return "", 0, NewNotFoundError(deviceID, timeout)
}

// matchDeviceID compares the raw "id" property of each announcement to
// deviceID without normalizing the rest of the record.
func matchDeviceID(infos []*ServiceInfo, deviceID string) *ServiceInfo {
	for _, info := range infos {
		id, ok := info.Properties[KeyDeviceID]
		if !ok || string(id) != deviceID {
			continue
		}
		if info.Address() == "" {
			continue
		}
		return info
	}
	return nil
}

// Endpoint is the outcome of an asynchronous device search.
type Endpoint struct {
	DeviceID string
	Address  string
	Port     int
	Err      error
}

// FindDeviceAddressAsync runs FindDeviceAddress on its own goroutine. The
// returned channel yields exactly one Endpoint and is then closed.
func (s *Scanner) FindDeviceAddressAsync(deviceID string, timeout time.Duration) <-chan Endpoint {
	ch := make(chan Endpoint, 1)
	go func() {
		defer close(ch)
		address, port, err := s.FindDeviceAddress(deviceID, timeout)
		ch <- Endpoint{DeviceID: deviceID, Address: address, Port: port, Err: err}
	}()
	return ch
}

// FindDeviceAddressContext is FindDeviceAddress for callers that must not
// block past ctx. If ctx ends first it returns ctx.Err(); the search itself
// still runs to its own deadline and closes its session.
func (s *Scanner) FindDeviceAddressContext(ctx context.Context, deviceID string, timeout time.Duration) (string, int, error) {
	select {
	case ep := <-s.FindDeviceAddressAsync(deviceID, timeout):
		return ep.Address, ep.Port, ep.Err
	case <-ctx.Done():
		return "", 0, ctx.Err()
	}
}

// DiscoverAccessories is a convenience function to enumerate accessories with
// a default scanner
func DiscoverAccessories(timeout time.Duration) ([]*Record, error) {
	return NewScanner().DiscoverAll(timeout)
}

// FindAccessory searches for a device id with a default scanner
func FindAccessory(deviceID string, timeout time.Duration) (string, int, error) {
	return NewScanner().FindDeviceAddress(deviceID, timeout)
}
