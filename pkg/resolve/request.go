package resolve

import (
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/lc/dnsq/pkg/records"
)

// Family selects the address family for ResolveAddress.
type Family int

// Address families, following the getaddrinfo numbering convention.
const (
	FamilyUnspec Family = 0
	FamilyV4     Family = 4
	FamilyV6     Family = 6
)

// LookupOptions configures a ResolveAddress call.
type LookupOptions struct {
	// Family selects which address families to query.
	// FamilyUnspec queries both.
	Family Family
	// Hints carries getaddrinfo-style AI_* flags. They are accepted for
	// interface compatibility and passed through to the primitive only;
	// no hint alters orchestration.
	Hints uint32
	// Verbatim disables result ordering and filtering: addresses are
	// delivered exactly as the sub-queries returned them.
	Verbatim bool
}

// AddressCallback receives the outcome of a ResolveAddress call.
type AddressCallback func(code Code, addresses []string)

// RecordCallback receives the outcome of a ResolveRecords call.
type RecordCallback func(code Code, recs []records.Record)

// request holds one accepted call's parameters and its completion handler.
// It is immutable after dispatch; only the done guard changes state.
type request struct {
	id       string
	hostname string
	types    []records.Type
	verbatim bool

	onAddresses AddressCallback
	onRecords   RecordCallback

	// done makes double-completion structurally impossible, not merely
	// unlikely: the first CompareAndSwap wins, every later one is a no-op.
	done atomic.Bool
}

func newRequest(hostname string, types []records.Type) *request {
	return &request{
		id:       uuid.NewString(),
		hostname: hostname,
		types:    types,
	}
}

func (r *request) completeAddresses(code Code, addrs []string) bool {
	if !r.done.CompareAndSwap(false, true) {
		return false
	}
	r.onAddresses(code, addrs)
	return true
}

func (r *request) completeRecords(code Code, recs []records.Record) bool {
	if !r.done.CompareAndSwap(false, true) {
		return false
	}
	r.onRecords(code, recs)
	return true
}
