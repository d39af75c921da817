package connectivity

import (
	"context"
	"net"
	"time"
)

const defaultDialTimeout = 2 * time.Second

// Checker probes whether the remote side is reachable.
type Checker interface {
	Online(ctx context.Context) bool
}

// DialChecker reports online when any of its addresses accepts a TCP
// connection. Addresses are host:port, typically the broker endpoints.
type DialChecker struct {
	addrs   []string
	timeout time.Duration
}

func NewDialChecker(addrs []string, timeout time.Duration) *DialChecker {
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	return &DialChecker{addrs: addrs, timeout: timeout}
}

func (c *DialChecker) Online(ctx context.Context) bool {
	dialer := net.Dialer{Timeout: c.timeout}
	for _, addr := range c.addrs {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			continue
		}
		conn.Close()
		return true
	}
	return false
}
