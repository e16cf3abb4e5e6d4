package discovery

import "sync"

// Collector accumulates every announcement delivered during one browsing
// session. Disappearing services are ignored: nothing already collected is
// ever revoked.
type Collector struct {
	mu    sync.Mutex
	infos []*ServiceInfo
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// ServiceAdded resolves the announcement and records it. Announcements that
// can no longer be resolved are dropped silently.
func (c *Collector) ServiceAdded(r InfoResolver, serviceType, name string) {
	info := r.ServiceInfo(serviceType, name)
	if info == nil {
		return
	}

	c.mu.Lock()
	c.infos = append(c.infos, info)
	c.mu.Unlock()
}

// ServiceRemoved is a no-op.
func (c *Collector) ServiceRemoved(InfoResolver, string, string) {}

// Snapshot returns the announcements collected so far, in arrival order.
func (c *Collector) Snapshot() []*ServiceInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*ServiceInfo, len(c.infos))
	copy(out, c.infos)
	return out
}

// Len returns the number of announcements collected so far.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.infos)
}
