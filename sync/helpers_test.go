package sync

import (
	"context"
	"io"
	"os"
	"path/filepath"
	gosync "sync"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

// mockDest is an in-memory Destination for testing.
type mockDest struct {
	mu        gosync.Mutex
	bucket    string
	objects   map[string]string
	types     map[string]string
	putCalls  []string
	policies  []*Policy
	putErr    map[string]error
	policyErr error
	events    []string
}

func newMockDest() *mockDest {
	return &mockDest{
		bucket:  "my-bucket",
		objects: make(map[string]string),
		types:   make(map[string]string),
		putErr:  make(map[string]error),
	}
}

func (m *mockDest) Bucket() string { return m.bucket }

func (m *mockDest) Put(_ context.Context, key string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls = append(m.putCalls, key)
	m.events = append(m.events, "put:"+key)
	if err := m.putErr[key]; err != nil {
		return err
	}
	m.objects[key] = string(data)
	m.types[key] = contentType
	return nil
}

func (m *mockDest) SetPolicy(_ context.Context, p *Policy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, "policy")
	if m.policyErr != nil {
		return m.policyErr
	}
	m.policies = append(m.policies, p)
	return nil
}

// memTree builds an in-memory filesystem holding files (path -> content)
// and the given empty directories.
func memTree(t *testing.T, files map[string]string, dirs ...string) *LocalFS {
	t.Helper()
	fs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}
	for _, dir := range dirs {
		require.NoError(t, fs.MkdirAll(dir, 0o755))
	}
	return NewLocalFSFrom(fs)
}

// writeFile creates a file under dir with the given content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
