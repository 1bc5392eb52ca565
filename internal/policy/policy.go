// Package policy implements the post-processing applied to address lookup
// results: IPv4-first ordering and a narrow platform accommodation for
// loopback lookups. Both transforms are stateless and input-order stable.
package policy

import (
	"net"
	"runtime"
	"strings"
)

// Default loopback-filter settings. The filter works around a host platform
// whose system resolver returns unusable IPv6 entries for the loopback name.
const (
	DefaultLoopbackPlatform = "darwin"
	DefaultLoopbackHost     = "localhost"
)

// Policy holds the configurable post-processing knobs.
type Policy struct {
	// SortV4First enables the IPv4-before-IPv6 partition.
	SortV4First bool
	// LoopbackPlatform names the GOOS value on which the loopback filter
	// applies. Empty disables the filter entirely.
	LoopbackPlatform string
	// LoopbackHost is the hostname the loopback filter triggers on.
	LoopbackHost string

	// goos overrides runtime.GOOS in tests.
	goos string
}

// Default returns the policy matching the historical resolver behavior.
func Default() Policy {
	return Policy{
		SortV4First:      true,
		LoopbackPlatform: DefaultLoopbackPlatform,
		LoopbackHost:     DefaultLoopbackHost,
	}
}

// Apply runs the enabled transforms over addrs and returns the result.
// The input slice is never mutated.
func (p Policy) Apply(hostname string, addrs []string) []string {
	out := addrs
	if p.SortV4First {
		out = SortV4First(out)
	}
	if p.loopbackApplies(hostname) {
		out = keepV4(out)
	}
	return out
}

func (p Policy) loopbackApplies(hostname string) bool {
	if p.LoopbackPlatform == "" || p.LoopbackHost == "" {
		return false
	}
	goos := p.goos
	if goos == "" {
		goos = runtime.GOOS
	}
	return goos == p.LoopbackPlatform && strings.EqualFold(hostname, p.LoopbackHost)
}

// SortV4First stably partitions addrs so every IPv4 literal precedes every
// other entry. Relative order within each partition is preserved. This is a
// partition, not a sort: non-IPv4 entries are never reordered among
// themselves.
func SortV4First(addrs []string) []string {
	v4 := make([]string, 0, len(addrs))
	rest := make([]string, 0, len(addrs))

	for _, addr := range addrs {
		if isV4(addr) {
			v4 = append(v4, addr)
		} else {
			rest = append(rest, addr)
		}
	}

	return append(v4, rest...)
}

func keepV4(addrs []string) []string {
	out := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		if isV4(addr) {
			out = append(out, addr)
		}
	}
	return out
}

func isV4(addr string) bool {
	ip := net.ParseIP(addr)
	return ip != nil && ip.To4() != nil
}
