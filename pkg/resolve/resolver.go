package resolve

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/lc/dnsq/internal/log"
	"github.com/lc/dnsq/internal/policy"
	"github.com/lc/dnsq/internal/requests"
	"github.com/lc/dnsq/internal/upstream"
	"github.com/lc/dnsq/pkg/records"
)

// PostProcess transforms a merged address list before delivery. It runs only
// for address lookups and only when the caller did not request verbatim
// results.
type PostProcess func(hostname string, addrs []string) []string

// Resolver fans out record queries for a hostname, joins on all of them, and
// delivers one aggregated result per request through the caller's callback.
type Resolver struct {
	upstream upstream.Lookuper
	post     PostProcess
	registry *requests.Registry
}

// Opt is a function option for configuring the Resolver.
type Opt func(r *Resolver)

// New creates a Resolver on top of the given lookup primitive.
// The default post-processing is the historical policy: IPv4 literals first,
// plus the loopback platform filter.
func New(up upstream.Lookuper, opts ...Opt) *Resolver {
	r := &Resolver{
		upstream: up,
		post:     policy.Default().Apply,
		registry: requests.NewRegistry(),
	}

	for _, o := range opts {
		o(r)
	}

	return r
}

// WithPostProcess returns an option replacing the address post-processing
// step. Passing nil disables post-processing entirely.
func WithPostProcess(fn PostProcess) Opt {
	return func(r *Resolver) {
		r.post = fn
	}
}

// InFlight returns the number of accepted requests whose completion handler
// has not fired yet.
func (r *Resolver) InFlight() int { return r.registry.InFlight() }

// Served returns the total number of completed requests.
func (r *Resolver) Served() int64 { return r.registry.Served() }

// ResolveAddress resolves hostname to address literals for the requested
// family. It returns CodeOK immediately once the work is accepted; the result
// arrives later through cb, which fires exactly once. Sub-queries for both
// families are dispatched concurrently when the family is unspecified, and
// all of them are awaited: a failed family contributes zero addresses, and
// the aggregate fails with CodeNoData only when the merged list is empty.
func (r *Resolver) ResolveAddress(ctx context.Context, hostname string, opts LookupOptions, cb AddressCallback) Code {
	var types []records.Type
	switch opts.Family {
	case FamilyUnspec:
		types = []records.Type{records.TypeA, records.TypeAAAA}
	case FamilyV4:
		types = []records.Type{records.TypeA}
	case FamilyV6:
		types = []records.Type{records.TypeAAAA}
	default:
		return CodeNotSupported
	}

	req := newRequest(hostname, types)
	req.verbatim = opts.Verbatim
	req.onAddresses = cb
	r.track(req, "lookup")

	go r.runAddress(ctx, req)
	return CodeOK
}

// ResolveRecords resolves hostname to records of type t. TypeANY fans out
// over the fixed supported set; unsupported types fail synchronously with
// CodeNotSupported before any asynchronous work is scheduled. For a single
// supported type the sub-query outcome is forwarded to cb verbatim, error
// code included.
func (r *Resolver) ResolveRecords(ctx context.Context, hostname string, t records.Type, cb RecordCallback) Code {
	var types []records.Type
	switch {
	case t == records.TypeANY:
		types = records.AnyFanout()
	case t.Supported():
		types = []records.Type{t}
	default:
		return CodeNotSupported
	}

	req := newRequest(hostname, types)
	req.onRecords = cb
	r.track(req, "query")

	go r.runRecords(ctx, req)
	return CodeOK
}

// ResolveReverse is not implemented; address-to-name resolution is outside
// this resolver's scope.
func (r *Resolver) ResolveReverse(_ context.Context, _ string, _ RecordCallback) Code {
	return CodeNotSupported
}

// SetServers is not implemented; the server list is fixed at construction.
// The CodeSetServersPending sentinel stays reserved for implementations that
// allow mutation between requests.
func (r *Resolver) SetServers(_ []string) Code {
	return CodeNotSupported
}

// Cancel is not implemented; dispatched sub-queries are always awaited to
// completion.
func (r *Resolver) Cancel() Code {
	return CodeNotSupported
}

func (r *Resolver) track(req *request, kind string) {
	r.registry.Add(requests.Entry{
		ID:       req.id,
		Hostname: req.hostname,
		Kind:     kind,
		Started:  time.Now(),
	})
}

func (r *Resolver) runAddress(ctx context.Context, req *request) {
	defer r.registry.Done(req.id)

	outcomes := r.fanOut(ctx, req)

	// Merge in dispatch order: all A results precede all AAAA results when
	// both families were queried.
	var addrs []string
	for _, out := range outcomes {
		for _, rec := range out.recs {
			addrs = append(addrs, rec.Value)
		}
	}

	code := CodeOK
	if len(addrs) == 0 {
		code = CodeNoData
	}

	if !req.verbatim && r.post != nil {
		addrs = r.post(req.hostname, addrs)
	}

	req.completeAddresses(code, addrs)
}

func (r *Resolver) runRecords(ctx context.Context, req *request) {
	defer r.registry.Done(req.id)

	outcomes := r.fanOut(ctx, req)

	if len(outcomes) == 1 {
		// Single-type mode: the sub-query outcome is the aggregate.
		req.completeRecords(outcomes[0].code, outcomes[0].recs)
		return
	}

	var recs []records.Record
	for _, out := range outcomes {
		recs = append(recs, out.recs...)
	}

	code := CodeOK
	if len(recs) == 0 {
		code = CodeNoData
	}

	req.completeRecords(code, recs)
}

// outcome is the normalized result of one sub-query.
type outcome struct {
	code Code
	recs []records.Record
}

// fanOut dispatches one sub-query per record type concurrently and waits for
// all of them to settle. Each goroutine writes only its own slot, so no
// state is shared across sub-queries; the lock guards only the error list
// collected for logging.
func (r *Resolver) fanOut(ctx context.Context, req *request) []outcome {
	outcomes := make([]outcome, len(req.types))

	grp, ctx := errgroup.WithContext(ctx)

	var (
		mu   sync.Mutex
		errs error
	)

	for i, t := range req.types {
		i, t := i, t

		grp.Go(func() error {
			out, err := r.queryOne(ctx, req.hostname, t)
			outcomes[i] = out

			if err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", t, err)) // collect but don't cancel peer
				mu.Unlock()
			}
			return nil
		})
	}

	// The join point: every sub-query has settled once Wait returns.
	_ = grp.Wait()

	if errs != nil {
		log.Debugf("resolve: sub-queries for %q: %v", req.hostname, errs)
	}

	return outcomes
}

// queryOne invokes the lookup primitive for one (hostname, type) pair and
// normalizes the result. Failures never propagate past this boundary: a
// not-found condition becomes CodeNoData with zero records, anything else
// becomes CodeUnknown. The error is returned alongside only for logging.
func (r *Resolver) queryOne(ctx context.Context, hostname string, t records.Type) (outcome, error) {
	rrs, err := r.upstream.Lookup(ctx, hostname, uint16(t))
	if err != nil {
		return outcome{code: Translate(err)}, err
	}

	recs := make([]records.Record, 0, len(rrs))
	for _, rr := range rrs {
		if rec, ok := records.FromRR(rr); ok {
			recs = append(recs, rec)
		}
	}

	if len(recs) == 0 {
		return outcome{code: CodeNoData}, nil
	}
	return outcome{code: CodeOK, recs: recs}, nil
}
