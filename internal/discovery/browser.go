package discovery

import (
	"net"
)

// ServiceInfo is one resolved service announcement: where the service lives
// and its raw TXT properties. Property keys and values are the bytes as they
// came off the wire; they are only validated when decoded.
type ServiceInfo struct {
	Name       string
	Addresses  []net.IP
	Port       int
	Properties map[string][]byte
}

// Address returns the first IPv4 address in dotted form, falling back to the
// first IPv6 address. It returns "" when the announcement carried none.
func (s *ServiceInfo) Address() string {
	for _, ip := range s.Addresses {
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
	}
	if len(s.Addresses) > 0 {
		return s.Addresses[0].String()
	}
	return ""
}

// InfoResolver resolves a service instance name to its details.
// It returns nil when the details are not (or no longer) available.
type InfoResolver interface {
	ServiceInfo(serviceType, name string) *ServiceInfo
}

// Listener receives the events of a browsing session. Events may arrive on a
// goroutine owned by the Browser.
type Listener interface {
	ServiceAdded(r InfoResolver, serviceType, name string)
	ServiceRemoved(r InfoResolver, serviceType, name string)
}

// Session is one open browsing operation. Close stops event delivery.
type Session interface {
	Close() error
}

// Browser opens browsing sessions on a multicast DNS implementation.
type Browser interface {
	Browse(serviceType string, l Listener) (Session, error)
}
