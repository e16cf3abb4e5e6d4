package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/grandcat/zeroconf"
	"github.com/miekg/dns"
	"go.uber.org/zap"

	"github.com/muurk/hapscan/internal/logging"
)

// resolver is the part of *zeroconf.Resolver the browser uses.
type resolver interface {
	Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error
}

func newZeroconfResolver(opts ...zeroconf.ClientOption) (resolver, error) {
	return zeroconf.NewResolver(opts...)
}

// ZeroconfBrowser implements Browser on top of github.com/grandcat/zeroconf.
// Every Browse call gets its own resolver, so sessions never share state.
type ZeroconfBrowser struct {
	// Interfaces limits browsing to the given interfaces. Empty means all.
	Interfaces []net.Interface

	// IPType selects IPv4, IPv6 or both (the default).
	IPType zeroconf.IPType

	newResolver func(opts ...zeroconf.ClientOption) (resolver, error)
}

// NewZeroconfBrowser creates a browser listening on all interfaces over
// IPv4 and IPv6.
func NewZeroconfBrowser() *ZeroconfBrowser {
	return &ZeroconfBrowser{
		IPType:      zeroconf.IPv4AndIPv6,
		newResolver: newZeroconfResolver,
	}
}

// WithInterface restricts the browser to the named network interface.
func (b *ZeroconfBrowser) WithInterface(name string) (*ZeroconfBrowser, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, fmt.Errorf("failed to find network interface %q: %w", name, err)
	}
	b.Interfaces = []net.Interface{*iface}
	return b, nil
}

// Browse starts browsing for serviceType (e.g. "_hap._tcp.local.") and
// delivers each resolved entry to l until the session is closed.
func (b *ZeroconfBrowser) Browse(serviceType string, l Listener) (Session, error) {
	service, domain, err := splitServiceType(serviceType)
	if err != nil {
		return nil, err
	}

	var opts []zeroconf.ClientOption
	if b.IPType != 0 {
		opts = append(opts, zeroconf.SelectIPTraffic(b.IPType))
	}
	if len(b.Interfaces) > 0 {
		opts = append(opts, zeroconf.SelectIfaces(b.Interfaces))
	}

	newResolver := b.newResolver
	if newResolver == nil {
		newResolver = newZeroconfResolver
	}
	r, err := newResolver(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &zeroconfSession{
		serviceType: serviceType,
		cancel:      cancel,
		done:        make(chan struct{}),
		infos:       make(map[string]*ServiceInfo),
	}

	entries := make(chan *zeroconf.ServiceEntry, 16)
	go s.run(ctx, entries, l)

	if err := r.Browse(ctx, service, domain, entries); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	return s, nil
}

// zeroconfSession caches resolved entries by instance name so listeners can
// look them up from their ServiceAdded callback.
type zeroconfSession struct {
	serviceType string
	cancel      context.CancelFunc
	done        chan struct{}
	closeOnce   sync.Once

	mu    sync.Mutex
	infos map[string]*ServiceInfo
}

func (s *zeroconfSession) run(ctx context.Context, entries <-chan *zeroconf.ServiceEntry, l Listener) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-entries:
			if !ok {
				return
			}
			s.handle(entry, l)
		}
	}
}

func (s *zeroconfSession) handle(entry *zeroconf.ServiceEntry, l Listener) {
	name := entry.ServiceInstanceName()
	if name == "" {
		name = entry.Instance
	}

	if entry.TTL == 0 {
		s.mu.Lock()
		delete(s.infos, name)
		s.mu.Unlock()
		l.ServiceRemoved(s, s.serviceType, name)
		return
	}

	logging.Debug("mDNS entry received",
		zap.String("name", name),
		zap.String("hostname", entry.HostName),
		zap.Int("port", entry.Port),
	)

	s.mu.Lock()
	s.infos[name] = serviceInfoFromEntry(name, entry)
	s.mu.Unlock()

	l.ServiceAdded(s, s.serviceType, name)
}

// ServiceInfo returns the cached entry for name.
func (s *zeroconfSession) ServiceInfo(serviceType, name string) *ServiceInfo {
	if serviceType != s.serviceType {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.infos[name]
}

// Close stops browsing and waits for event delivery to finish. It is safe to
// call more than once.
func (s *zeroconfSession) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
	})
	return nil
}

// serviceInfoFromEntry converts a zeroconf entry. IPv4 addresses come first.
func serviceInfoFromEntry(name string, entry *zeroconf.ServiceEntry) *ServiceInfo {
	addrs := make([]net.IP, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	addrs = append(addrs, entry.AddrIPv4...)
	addrs = append(addrs, entry.AddrIPv6...)

	return &ServiceInfo{
		Name:       name,
		Addresses:  addrs,
		Port:       entry.Port,
		Properties: DecodeTXT(entry.Text),
	}
}

// splitServiceType splits "_hap._tcp.local." into the service ("_hap._tcp")
// and domain ("local.") zeroconf expects.
func splitServiceType(serviceType string) (string, string, error) {
	if _, ok := dns.IsDomainName(serviceType); !ok {
		return "", "", fmt.Errorf("invalid service type %q", serviceType)
	}

	labels := dns.SplitDomainName(serviceType)
	if len(labels) < 3 {
		return "", "", fmt.Errorf("service type %q must have the form _service._proto.domain", serviceType)
	}

	service := labels[0] + "." + labels[1]
	domain := dns.Fqdn(strings.Join(labels[2:], "."))
	return service, domain, nil
}
