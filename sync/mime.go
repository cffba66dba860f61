package sync

import (
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultContentType is used when nothing better is known about a file.
const DefaultContentType = "application/octet-stream"

// sniffLen is how much of a file is read when sniffing its content type.
const sniffLen = 3072

// ContentType returns the MIME type registered for path's extension,
// or DefaultContentType.
func ContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return DefaultContentType
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		return mt
	}
	return DefaultContentType
}

// sniffContentType inspects the head of r and rewinds it to the start.
func sniffContentType(r io.ReadSeeker) (string, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	if n == 0 {
		return DefaultContentType, nil
	}
	return mimetype.Detect(buf[:n]).String(), nil
}
