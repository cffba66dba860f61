package sync

import (
	"fmt"
	"path/filepath"
	"strings"
)

// TaskKind tags an UploadTask. Only files are ever turned into tasks.
type TaskKind string

const KindFile TaskKind = "file"

// UploadTask is one local file to be written to the bucket.
type UploadTask struct {
	Kind       TaskKind
	LocalPath  string
	RemotePath string // slash-separated key relative to the sync root; "" for the root itself
}

// Plan is the ordered list of tasks produced from one discovery pass.
type Plan []UploadTask

// RemoteKey returns entry's path relative to root with forward slashes,
// or "" when entry is root. Entries outside root are an error.
func RemoteKey(root, entry string) (string, error) {
	rel, err := filepath.Rel(root, entry)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", nil
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside %s", entry, root)
	}
	return rel, nil
}

// Translate turns entry into an UploadTask if it is a regular file. For
// anything else (directories, symlinks to directories, devices) it returns
// nil, nil.
func Translate(fsys *LocalFS, root, entry string) (*UploadTask, error) {
	info, err := fsys.Stat(entry)
	if err != nil {
		return nil, &Error{Kind: ErrStat, Path: entry, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}
	key, err := RemoteKey(root, entry)
	if err != nil {
		return nil, &Error{Kind: ErrStat, Path: entry, Err: err}
	}
	return &UploadTask{Kind: KindFile, LocalPath: entry, RemotePath: key}, nil
}
