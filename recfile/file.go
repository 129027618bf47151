// Package recfile abstracts the file operations the recorder needs —
// sequential read/write/seek plus the flush/sync split that the crash
// safety protocol depends on — so the recorder's core logic can run
// against an in-memory fake in tests without losing the distinction
// between "written" and "durable".
package recfile

import (
	"io"
	"os"
)

// File is a single open file. Flush pushes buffered bytes out of the
// process (a no-op for os.File, meaningful once a caller wraps one in
// a buffered writer); Sync additionally forces the kernel to persist
// those bytes to storage. The recorder never assumes Write alone makes
// anything durable.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	Flush() error
	Sync() error
	Close() error
}

// FileSystem opens and manages files by path. Implementations must
// make Exists/Remove safe to call on a path that was never created.
type FileSystem interface {
	// Open opens path with the given os.O_* flags, creating parent
	// directories is the caller's responsibility.
	Open(path string, flag int) (File, error)
	Exists(path string) (bool, error)
	Remove(path string) error
	Size(path string) (int64, error)
}

// OS is the real FileSystem, backed by the host filesystem.
type OS struct{}

func (OS) Open(path string, flag int) (File, error) {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, err
	}
	return &osFile{f: f}, nil
}

func (OS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (OS) Remove(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (OS) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// osFile adapts *os.File to File. Flush is a no-op: os.File has no
// userspace buffer of its own, so "flushed" and "written" coincide —
// the distinction only matters once a caller layers bufio on top,
// which the recorder does not for the fixed-size records it writes.
type osFile struct {
	f *os.File
}

func (o *osFile) Read(p []byte) (int, error)                { return o.f.Read(p) }
func (o *osFile) Write(p []byte) (int, error)                { return o.f.Write(p) }
func (o *osFile) Seek(offset int64, whence int) (int64, error) { return o.f.Seek(offset, whence) }
func (o *osFile) Flush() error                                 { return nil }
func (o *osFile) Sync() error                                  { return o.f.Sync() }
func (o *osFile) Close() error                                 { return o.f.Close() }
