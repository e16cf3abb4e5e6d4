package discovery

import (
	"net"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// fakeBrowser delivers its announcements synchronously from Browse and
// resolves them by name. Later announcements can be pushed with announce.
type fakeBrowser struct {
	mu          sync.Mutex
	infos       []*ServiceInfo
	browseErr   error
	closeErr    error
	browses     int
	closes      int
	serviceType string
	listener    Listener
}

func (b *fakeBrowser) Browse(serviceType string, l Listener) (Session, error) {
	b.mu.Lock()
	b.browses++
	b.serviceType = serviceType
	if b.browseErr != nil {
		b.mu.Unlock()
		return nil, b.browseErr
	}
	b.listener = l
	infos := append([]*ServiceInfo(nil), b.infos...)
	b.mu.Unlock()

	for _, info := range infos {
		l.ServiceAdded(b, serviceType, info.Name)
	}
	return &fakeSession{b: b}, nil
}

// announce adds info and notifies the open session's listener.
func (b *fakeBrowser) announce(info *ServiceInfo) {
	b.mu.Lock()
	b.infos = append(b.infos, info)
	l, st := b.listener, b.serviceType
	b.mu.Unlock()

	if l != nil {
		l.ServiceAdded(b, st, info.Name)
	}
}

func (b *fakeBrowser) ServiceInfo(serviceType, name string) *ServiceInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, info := range b.infos {
		if info.Name == name {
			return info
		}
	}
	return nil
}

func (b *fakeBrowser) closeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closes
}

type fakeSession struct {
	b *fakeBrowser
}

func (s *fakeSession) Close() error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	s.b.closes++
	return s.b.closeErr
}

// countingClock is a mock clock whose Sleep returns immediately after
// advancing mock time. onSleep runs before each advance with the 1-based
// sleep count.
type countingClock struct {
	*clock.Mock

	mu      sync.Mutex
	sleeps  int
	slept   time.Duration
	onSleep func(n int)
}

func newCountingClock() *countingClock {
	return &countingClock{Mock: clock.NewMock()}
}

func (c *countingClock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.sleeps++
	c.slept += d
	n, hook := c.sleeps, c.onSleep
	c.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	c.Mock.Add(d)
}

func (c *countingClock) count() (int, time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sleeps, c.slept
}

func newTestScanner(b *fakeBrowser, clk clock.Clock) *Scanner {
	return &Scanner{Browser: b, Clock: clk, ServiceType: ServiceType}
}

func info(name, ip string, port int, txt ...string) *ServiceInfo {
	var addrs []net.IP
	if ip != "" {
		addrs = append(addrs, net.ParseIP(ip))
	}
	return &ServiceInfo{
		Name:       name,
		Addresses:  addrs,
		Port:       port,
		Properties: DecodeTXT(txt),
	}
}
