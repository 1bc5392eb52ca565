package filesys_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/lc/dnsq/internal/filesys"
	"github.com/lc/dnsq/internal/mocks"
)

type FilesysTestSuite struct {
	suite.Suite
	tmpDir string
}

func (s *FilesysTestSuite) SetupTest() {
	var err error
	s.tmpDir, err = os.MkdirTemp("", "filesys-test-*")
	s.Require().NoError(err)
}

func (s *FilesysTestSuite) TearDownTest() {
	if s.tmpDir != "" {
		os.RemoveAll(s.tmpDir)
	}
}

func (s *FilesysTestSuite) TestAtomicWriteOnDisk() {
	dst := filepath.Join(s.tmpDir, "config.yaml")

	err := filesys.AtomicWrite(filesys.OS(), dst, []byte("socket:\n  path: /tmp/x\n"), 0o644)
	s.Require().NoError(err)

	data, err := os.ReadFile(dst)
	s.Require().NoError(err)
	s.Equal("socket:\n  path: /tmp/x\n", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(s.tmpDir)
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func (s *FilesysTestSuite) TestAtomicWriteCleansUpOnRenameFailure() {
	dst := filepath.Join(s.tmpDir, "config.yaml")

	tmp, err := os.CreateTemp(s.tmpDir, ".dnsq-*")
	s.Require().NoError(err)

	fops := new(mocks.MockOsFS)
	fops.On("CreateTemp", s.tmpDir, ".dnsq-*").Return(tmp, nil)
	fops.On("Chmod", tmp.Name(), os.FileMode(0o644)).Return(nil)
	fops.On("Rename", tmp.Name(), dst).Return(errors.New("disk full"))
	fops.On("Remove", tmp.Name()).Return(nil)

	err = filesys.AtomicWrite(fops, dst, []byte("data"), 0o644)
	s.Require().Error(err)
	s.Contains(err.Error(), "disk full")

	fops.AssertExpectations(s.T())
	fops.AssertNotCalled(s.T(), "Open", mock.Anything)
}

func TestFilesysSuite(t *testing.T) {
	suite.Run(t, new(FilesysTestSuite))
}
