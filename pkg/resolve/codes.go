package resolve

import (
	"errors"
	"fmt"

	"github.com/miekg/dns"

	"github.com/lc/dnsq/internal/upstream"
)

// Code is a stable numeric error code delivered to completion handlers and
// returned by entry points. Zero means success; negative values form the
// resolver's own taxonomy; positive values pass through the primitive's
// response-code space.
type Code int

const (
	// CodeOK means the operation succeeded or was accepted for async work.
	CodeOK Code = 0
	// CodeNoData means no records of the requested type(s) exist.
	CodeNoData Code = -1
	// CodeUnknown means the resolver primitive failed for an unclassified reason.
	CodeUnknown Code = -2
	// CodeNotSupported means the caller requested a record type or operation
	// this resolver does not implement.
	CodeNotSupported Code = -3
	// CodeSetServersPending is reserved for a server-list mutation requested
	// while queries are in flight.
	CodeSetServersPending Code = -4
)

// Translate maps a resolver-primitive failure onto the stable code space.
// A recognized not-found condition becomes CodeNoData; everything else is
// CodeUnknown.
func Translate(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, upstream.ErrNoData):
		return CodeNoData
	default:
		return CodeUnknown
	}
}

// Describe returns a human-readable message for a code. Positive codes are
// delegated to the primitive's own code-to-string table.
func Describe(code Code) string {
	switch code {
	case CodeOK:
		return "success"
	case CodeNoData:
		return "no records of the requested type exist"
	case CodeUnknown:
		return "name resolution failed"
	case CodeNotSupported:
		return "operation not supported"
	case CodeSetServersPending:
		return "cannot change name servers while queries are in flight"
	}

	if code > 0 {
		if s, ok := dns.RcodeToString[int(code)]; ok {
			return s
		}
	}
	return fmt.Sprintf("unknown error code %d", code)
}
