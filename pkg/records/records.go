// Package records defines the DNS record types the dnsq resolver understands
// and the normalized record shapes it delivers to callers.
//
// Type values are aligned with the DNS wire values used by github.com/miekg/dns
// so conversion between the two never needs a translation table.
package records

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// Type identifies a DNS resource-record category.
type Type uint16

// Record types. Values match the DNS wire protocol.
const (
	TypeA     Type = 1
	TypeNS    Type = 2
	TypeCNAME Type = 5
	TypeSOA   Type = 6
	TypePTR   Type = 12
	TypeMX    Type = 15
	TypeTXT   Type = 16
	TypeAAAA  Type = 28
	TypeSRV   Type = 33
	TypeNAPTR Type = 35
	TypeANY   Type = 255
	TypeCAA   Type = 257
)

var typeNames = map[Type]string{
	TypeA:     "A",
	TypeNS:    "NS",
	TypeCNAME: "CNAME",
	TypeSOA:   "SOA",
	TypePTR:   "PTR",
	TypeMX:    "MX",
	TypeTXT:   "TXT",
	TypeAAAA:  "AAAA",
	TypeSRV:   "SRV",
	TypeNAPTR: "NAPTR",
	TypeANY:   "ANY",
	TypeCAA:   "CAA",
}

// String returns the conventional presentation name of the type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TYPE%d", uint16(t))
}

// Supported reports whether the resolver implements queries for t.
// NS, SOA, NAPTR and CAA are recognized but not queryable; ANY is a
// dispatch wildcard expanded to AnyFanout rather than sent upstream.
func (t Type) Supported() bool {
	switch t {
	case TypeA, TypeAAAA, TypeCNAME, TypeMX, TypePTR, TypeSRV, TypeTXT:
		return true
	default:
		return false
	}
}

// Parse converts a presentation name ("A", "mx", …) to a Type.
func Parse(s string) (Type, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == upper {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown record type %q", s)
}

// AnyFanout is the fixed set of types dispatched for an ANY query,
// in dispatch (and therefore merge) order.
func AnyFanout() []Type {
	return []Type{TypeA, TypeAAAA, TypeCNAME, TypeMX, TypePTR, TypeSRV, TypeTXT}
}

// Record is a normalized resource record, tagged by Type. Only the fields
// meaningful for the tagged type are populated:
//
//	A/AAAA       Value = address literal
//	CNAME/PTR/NS Value = target name
//	MX           Value = exchange, Priority
//	SRV          Value = name, Priority, Weight, Port
//	TXT          Entries
type Record struct {
	Type     Type     `json:"type"`
	Value    string   `json:"value,omitempty"`
	Entries  []string `json:"entries,omitempty"`
	Priority uint16   `json:"priority,omitempty"`
	Weight   uint16   `json:"weight,omitempty"`
	Port     uint16   `json:"port,omitempty"`
	TTL      uint32   `json:"ttl,omitempty"`
}

// MX is the caller-facing shape of a mail-exchange record.
type MX struct {
	Priority uint16 `json:"priority"`
	Exchange string `json:"exchange"`
}

// SRV is the caller-facing shape of a service-locator record.
type SRV struct {
	Priority uint16 `json:"priority"`
	Weight   uint16 `json:"weight"`
	Port     uint16 `json:"port"`
	Name     string `json:"name"`
}

// MX returns the record viewed as a mail-exchange record.
func (r Record) MX() MX {
	return MX{Priority: r.Priority, Exchange: r.Value}
}

// SRV returns the record viewed as a service-locator record.
func (r Record) SRV() SRV {
	return SRV{Priority: r.Priority, Weight: r.Weight, Port: r.Port, Name: r.Value}
}

// FromRR converts a native resource record into a normalized Record.
// Target names are trimmed of the trailing root dot the wire form carries.
// It returns ok=false for record types the resolver does not model,
// which callers skip rather than treat as an error.
func FromRR(rr dns.RR) (Record, bool) {
	hdr := rr.Header()
	rec := Record{TTL: hdr.Ttl}

	switch native := rr.(type) {
	case *dns.A:
		rec.Type = TypeA
		rec.Value = native.A.String()
	case *dns.AAAA:
		rec.Type = TypeAAAA
		rec.Value = native.AAAA.String()
	case *dns.CNAME:
		rec.Type = TypeCNAME
		rec.Value = trimRoot(native.Target)
	case *dns.PTR:
		rec.Type = TypePTR
		rec.Value = trimRoot(native.Ptr)
	case *dns.NS:
		rec.Type = TypeNS
		rec.Value = trimRoot(native.Ns)
	case *dns.MX:
		rec.Type = TypeMX
		rec.Value = trimRoot(native.Mx)
		rec.Priority = native.Preference
	case *dns.SRV:
		rec.Type = TypeSRV
		rec.Value = trimRoot(native.Target)
		rec.Priority = native.Priority
		rec.Weight = native.Weight
		rec.Port = native.Port
	case *dns.TXT:
		rec.Type = TypeTXT
		rec.Entries = native.Txt
	default:
		return Record{}, false
	}

	return rec, true
}

func trimRoot(name string) string {
	if name == "." {
		return name // null target (e.g. RFC 7505 null MX) stays as-is
	}
	return strings.TrimSuffix(name, ".")
}
