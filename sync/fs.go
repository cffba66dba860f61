package sync

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// DefaultPattern matches every entry below the root.
const DefaultPattern = "**"

// LocalFS is the local side of a sync: it finds, stats and opens source files.
type LocalFS struct {
	fs billy.Filesystem
}

// NewLocalFS returns a LocalFS backed by the operating system.
func NewLocalFS() *LocalFS {
	return &LocalFS{fs: osfs.New(string(filepath.Separator))}
}

// NewLocalFSFrom wraps an existing billy filesystem, e.g. memfs in tests.
func NewLocalFSFrom(fs billy.Filesystem) *LocalFS {
	return &LocalFS{fs: fs}
}

// ListMatches walks root and returns every path whose root-relative,
// slash-separated form matches pattern. Paths are returned in walk order,
// which is lexical within each directory. Symlinks are not followed. A
// relative root is taken from the working directory, and patterns that
// climb out of root are rejected.
func (l *LocalFS) ListMatches(root, pattern string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	pattern = strings.TrimPrefix(pattern, "/")
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	// Only descend into the static prefix of the pattern.
	base, _ := doublestar.SplitPattern(pattern)
	if base = path.Clean(base); base == ".." || strings.HasPrefix(base, "../") {
		return nil, fmt.Errorf("pattern %q leaves the root: %w", pattern, doublestar.ErrBadPattern)
	}
	start := filepath.Join(root, filepath.FromSlash(base))

	var matches []string
	err = util.Walk(l.fs, start, func(entry string, _ os.FileInfo, err error) error {
		if err != nil {
			if entry == start && start != filepath.Clean(root) && errors.Is(err, os.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		rel, err := filepath.Rel(root, entry)
		if err != nil {
			return err
		}
		if doublestar.MatchUnvalidated(pattern, filepath.ToSlash(rel)) {
			matches = append(matches, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// Stat returns metadata for path, following symlinks.
func (l *LocalFS) Stat(path string) (os.FileInfo, error) {
	return l.fs.Stat(path)
}

// Open opens path for reading.
func (l *LocalFS) Open(path string) (billy.File, error) {
	return l.fs.Open(path)
}

// IsDir reports whether path exists and is a directory.
func (l *LocalFS) IsDir(path string) (bool, error) {
	info, err := l.fs.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
