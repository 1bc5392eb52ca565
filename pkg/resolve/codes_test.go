package resolve

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lc/dnsq/internal/upstream"
)

type CodesTestSuite struct {
	suite.Suite
}

func (s *CodesTestSuite) TestTranslate() {
	testCases := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "nil error",
			expected: CodeOK,
		},
		{
			name:     "not-found condition",
			err:      upstream.ErrNoData,
			expected: CodeNoData,
		},
		{
			name:     "wrapped not-found condition",
			err:      fmt.Errorf("lookup example.test: %w", upstream.ErrNoData),
			expected: CodeNoData,
		},
		{
			name:     "any other failure",
			err:      fmt.Errorf("connection refused"),
			expected: CodeUnknown,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, Translate(tc.err))
		})
	}
}

func (s *CodesTestSuite) TestDescribe() {
	s.Equal("success", Describe(CodeOK))
	s.Equal("no records of the requested type exist", Describe(CodeNoData))
	s.Equal("cannot change name servers while queries are in flight", Describe(CodeSetServersPending))

	// Positive codes delegate to the primitive's rcode table.
	s.Equal("SERVFAIL", Describe(Code(2)))
	s.Equal("NXDOMAIN", Describe(Code(3)))

	s.Contains(Describe(Code(-99)), "unknown error code")
}

func TestCodesSuite(t *testing.T) {
	suite.Run(t, new(CodesTestSuite))
}
