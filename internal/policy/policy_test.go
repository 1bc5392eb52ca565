package policy

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type PolicyTestSuite struct {
	suite.Suite
}

func (s *PolicyTestSuite) TestSortV4First() {
	testCases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "empty input",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "already partitioned",
			input:    []string{"93.184.216.34", "2606:2800:220:1::"},
			expected: []string{"93.184.216.34", "2606:2800:220:1::"},
		},
		{
			name:     "v6 before v4 is swapped",
			input:    []string{"2606:2800:220:1::", "93.184.216.34"},
			expected: []string{"93.184.216.34", "2606:2800:220:1::"},
		},
		{
			name: "relative order within each partition is stable",
			input: []string{
				"2001:db8::1",
				"10.0.0.1",
				"2001:db8::2",
				"10.0.0.2",
				"192.168.1.1",
			},
			expected: []string{
				"10.0.0.1",
				"10.0.0.2",
				"192.168.1.1",
				"2001:db8::1",
				"2001:db8::2",
			},
		},
		{
			name:     "non-address entries stay in the non-v4 partition",
			input:    []string{"not-an-ip", "127.0.0.1"},
			expected: []string{"127.0.0.1", "not-an-ip"},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got := SortV4First(tc.input)
			s.Equal(tc.expected, got)
		})
	}
}

func (s *PolicyTestSuite) TestSortV4FirstDoesNotMutateInput() {
	input := []string{"2001:db8::1", "10.0.0.1"}
	_ = SortV4First(input)
	s.Equal([]string{"2001:db8::1", "10.0.0.1"}, input)
}

func (s *PolicyTestSuite) TestLoopbackFilter() {
	testCases := []struct {
		name     string
		policy   Policy
		goos     string
		hostname string
		input    []string
		expected []string
	}{
		{
			name:     "drops v6 for loopback on the designated platform",
			policy:   Default(),
			goos:     "darwin",
			hostname: "localhost",
			input:    []string{"127.0.0.1", "::1"},
			expected: []string{"127.0.0.1"},
		},
		{
			name:     "other platforms are untouched",
			policy:   Default(),
			goos:     "linux",
			hostname: "localhost",
			input:    []string{"127.0.0.1", "::1"},
			expected: []string{"127.0.0.1", "::1"},
		},
		{
			name:     "other hostnames are untouched",
			policy:   Default(),
			goos:     "darwin",
			hostname: "example.com",
			input:    []string{"93.184.216.34", "2606:2800:220:1::"},
			expected: []string{"93.184.216.34", "2606:2800:220:1::"},
		},
		{
			name: "empty platform disables the filter",
			policy: Policy{
				SortV4First:  true,
				LoopbackHost: "localhost",
			},
			goos:     "darwin",
			hostname: "localhost",
			input:    []string{"127.0.0.1", "::1"},
			expected: []string{"127.0.0.1", "::1"},
		},
		{
			name:     "hostname match is case-insensitive",
			policy:   Default(),
			goos:     "darwin",
			hostname: "LocalHost",
			input:    []string{"::1", "127.0.0.1"},
			expected: []string{"127.0.0.1"},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			p := tc.policy
			p.goos = tc.goos
			got := p.Apply(tc.hostname, tc.input)
			s.Equal(tc.expected, got)
		})
	}
}

func TestPolicySuite(t *testing.T) {
	suite.Run(t, new(PolicyTestSuite))
}
