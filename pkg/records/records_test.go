package records

import (
	"net"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/suite"
)

type RecordsTestSuite struct {
	suite.Suite
}

func (s *RecordsTestSuite) TestParse() {
	testCases := []struct {
		name      string
		input     string
		expected  Type
		expectErr bool
	}{
		{name: "uppercase", input: "MX", expected: TypeMX},
		{name: "lowercase", input: "aaaa", expected: TypeAAAA},
		{name: "surrounding whitespace", input: " txt ", expected: TypeTXT},
		{name: "wildcard", input: "ANY", expected: TypeANY},
		{name: "unknown", input: "BOGUS", expectErr: true},
		{name: "empty", input: "", expectErr: true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got, err := Parse(tc.input)
			if tc.expectErr {
				s.Error(err)
				return
			}
			s.NoError(err)
			s.Equal(tc.expected, got)
		})
	}
}

func (s *RecordsTestSuite) TestSupported() {
	for _, t := range AnyFanout() {
		s.True(t.Supported(), t.String())
	}
	for _, t := range []Type{TypeNS, TypeSOA, TypeNAPTR, TypeCAA, TypeANY} {
		s.False(t.Supported(), t.String())
	}
}

func (s *RecordsTestSuite) TestString() {
	s.Equal("A", TypeA.String())
	s.Equal("CAA", TypeCAA.String())
	s.Equal("TYPE999", Type(999).String())
}

func (s *RecordsTestSuite) TestFromRR() {
	testCases := []struct {
		name     string
		rr       dns.RR
		expected Record
		ok       bool
	}{
		{
			name: "A",
			rr: &dns.A{
				Hdr: dns.RR_Header{Rrtype: dns.TypeA, Ttl: 300},
				A:   net.ParseIP("93.184.216.34"),
			},
			expected: Record{Type: TypeA, Value: "93.184.216.34", TTL: 300},
			ok:       true,
		},
		{
			name: "MX preference becomes priority, root dot trimmed",
			rr: &dns.MX{
				Hdr:        dns.RR_Header{Rrtype: dns.TypeMX, Ttl: 600},
				Preference: 10,
				Mx:         "mail.example.test.",
			},
			expected: Record{Type: TypeMX, Value: "mail.example.test", Priority: 10, TTL: 600},
			ok:       true,
		},
		{
			name: "null MX target is preserved",
			rr: &dns.MX{
				Hdr: dns.RR_Header{Rrtype: dns.TypeMX},
				Mx:  ".",
			},
			expected: Record{Type: TypeMX, Value: "."},
			ok:       true,
		},
		{
			name: "SRV target becomes name",
			rr: &dns.SRV{
				Hdr:      dns.RR_Header{Rrtype: dns.TypeSRV, Ttl: 60},
				Priority: 5,
				Weight:   20,
				Port:     5060,
				Target:   "sip.example.test.",
			},
			expected: Record{Type: TypeSRV, Value: "sip.example.test", Priority: 5, Weight: 20, Port: 5060, TTL: 60},
			ok:       true,
		},
		{
			name: "TXT entries",
			rr: &dns.TXT{
				Hdr: dns.RR_Header{Rrtype: dns.TypeTXT, Ttl: 120},
				Txt: []string{"v=spf1", "-all"},
			},
			expected: Record{Type: TypeTXT, Entries: []string{"v=spf1", "-all"}, TTL: 120},
			ok:       true,
		},
		{
			name: "unmodeled type is skipped",
			rr: &dns.SOA{
				Hdr: dns.RR_Header{Rrtype: dns.TypeSOA},
				Ns:  "ns1.example.test.",
			},
			ok: false,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got, ok := FromRR(tc.rr)
			s.Equal(tc.ok, ok)
			if tc.ok {
				s.Equal(tc.expected, got)
			}
		})
	}
}

func (s *RecordsTestSuite) TestViews() {
	mx := Record{Type: TypeMX, Value: "mail.example.test", Priority: 10}
	s.Equal(MX{Priority: 10, Exchange: "mail.example.test"}, mx.MX())

	srv := Record{Type: TypeSRV, Value: "sip.example.test", Priority: 5, Weight: 20, Port: 5060}
	s.Equal(SRV{Priority: 5, Weight: 20, Port: 5060, Name: "sip.example.test"}, srv.SRV())
}

func TestRecordsSuite(t *testing.T) {
	suite.Run(t, new(RecordsTestSuite))
}
