// Package upstream implements the name-resolution primitive the orchestrator
// fans out over: a single asynchronous lookup of one (name, qtype) pair
// against a configured set of DNS servers, with internal retries.
//
// A "no such name / no data" response is distinguished from every other
// failure via ErrNoData so callers can treat an empty answer as a soft
// outcome rather than a hard error.
package upstream

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/miekg/dns"
)

var (
	// ErrNoData is returned when the queried name has no records of the
	// requested type (NXDOMAIN or an empty answer section).
	ErrNoData = fmt.Errorf("no records found")
	// ErrEmptyMsg is returned when the DNS response message is empty.
	ErrEmptyMsg = fmt.Errorf("empty message")
	// ErrEmptyHostname is returned when an empty hostname is provided.
	ErrEmptyHostname = fmt.Errorf("empty hostname")
)

var _defaultServer = "1.1.1.1:53"

var _ Lookuper = (*Client)(nil)

// Lookuper is the single-operation surface the orchestrator depends on.
type Lookuper interface {
	// Lookup resolves one (name, qtype) pair and returns the raw answer
	// records. It fails with ErrNoData when no matching records exist.
	Lookup(ctx context.Context, name string, qtype uint16) ([]dns.RR, error)
}

// Exchanger defines the interface for DNS message exchange.
type Exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, a string) (r *dns.Msg, rtt time.Duration, err error)
}

// Client implements Lookuper against real DNS servers.
type Client struct {
	Client  Exchanger
	Timeout time.Duration
	Servers []string
	Retries uint
}

// Opt is a function option for configuring the Client.
type Opt func(c *Client)

// New creates a new Client with the given timeout and optional configurations.
func New(timeout time.Duration, opts ...Opt) *Client {
	c := &Client{
		Client: &dns.Client{
			Timeout: timeout,
		},
		Timeout: timeout,
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

// WithServers returns an option to set custom DNS servers.
// If not provided, the default server (1.1.1.1:53) will be used.
func WithServers(servers []string) Opt {
	return func(c *Client) {
		c.Servers = servers
	}
}

// WithRetries returns an option to set the number of additional attempts
// made per lookup before giving up.
func WithRetries(retries uint) Opt {
	return func(c *Client) {
		c.Retries = retries
	}
}

// WithTimeout returns an option to set a custom timeout for DNS queries.
// This overrides the timeout provided to New.
func WithTimeout(timeout time.Duration) Opt {
	return func(c *Client) {
		c.Timeout = timeout
	}
}

// Lookup resolves qtype for name and returns the raw answer records.
// It retries c.Retries additional times before giving up. A response
// carrying no matching records fails with ErrNoData, never an empty slice.
func (c *Client) Lookup(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyHostname
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	var lastErr error
	for attempt := uint(0); attempt <= c.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Fresh request each attempt: ExchangeContext mutates *dns.Msg
		req := &dns.Msg{}
		req.SetQuestion(dns.Fqdn(name), qtype)

		resp, _, err := c.Client.ExchangeContext(ctx, req, c.getServer())
		if err != nil {
			lastErr = err
			continue // retry
		}
		if resp == nil {
			return nil, ErrEmptyMsg
		}

		rrs, err := parseAnswer(resp, qtype)
		if err != nil {
			// NXDOMAIN / empty answers are definitive, not transient.
			return nil, err
		}
		return rrs, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("dns lookup failed for %q", name)
	}
	return nil, lastErr
}

// parseAnswer extracts the answer records matching qtype from a response.
func parseAnswer(resp *dns.Msg, qtype uint16) ([]dns.RR, error) {
	if resp == nil {
		return nil, ErrEmptyMsg
	}

	if resp.Rcode == dns.RcodeNameError {
		return nil, fmt.Errorf("%w: %s", ErrNoData, dns.RcodeToString[resp.Rcode])
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("server returned %s", dns.RcodeToString[resp.Rcode])
	}

	var rrs []dns.RR
	for _, rr := range resp.Answer {
		if rr.Header().Rrtype == qtype {
			rrs = append(rrs, rr)
		}
	}

	if len(rrs) == 0 {
		return nil, ErrNoData
	}

	return rrs, nil
}

// getServer returns a random server from the configured list.
func (c *Client) getServer() string {
	if len(c.Servers) == 0 {
		return _defaultServer
	}

	// Use crypto/rand for secure random selection
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(c.Servers))))
	if err != nil {
		// Fall back to first server on error
		return c.Servers[0]
	}

	return c.Servers[n.Int64()]
}
