package source

import (
	"crypto/sha256"
	"io"
	"os"
	"path/filepath"
)

// Load reads a file from disk and builds its buffer from the normalized text.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromBytes(normalizePath(path), content, 0), nil
}

// Read builds a virtual file from r (stdin, tests).
func Read(name string, r io.Reader) (*File, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return FromBytes(name, content, FileVirtual), nil
}

// FromBytes normalizes content and wraps it into a File.
func FromBytes(path string, content []byte, flags FileFlags) *File {
	n := normalize(content)
	return &File{
		Path:     path,
		Buffer:   NewBuffer(string(n.text)),
		Hash:     sha256.Sum256(n.text),
		Flags:    flags | n.flags,
		Encoding: n.encoding,
	}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
