package recfile

import (
	"errors"
	"io"
	"os"
	"sync"
)

// ErrNotExist mirrors os.ErrNotExist for callers that check against
// this package's sentinel instead of the os one.
var ErrNotExist = os.ErrNotExist

// Memory is an in-memory FileSystem used by tests to exercise crash
// and truncation scenarios without touching a real disk: a test can
// open a Memory file, write some records, then call Truncate or
// inspect the flush/sync counts via Counts instead of killing a process.
type Memory struct {
	mu    sync.Mutex
	files map[string]*memBlob
}

// NewMemory returns an empty in-memory filesystem.
func NewMemory() *Memory {
	return &Memory{files: make(map[string]*memBlob)}
}

type memBlob struct {
	data       []byte
	flushCount int
	syncCount  int
}

func (m *Memory) Open(path string, flag int) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.files[path]
	if !ok {
		if flag&os.O_CREATE == 0 {
			return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
		}
		b = &memBlob{}
		m.files[path] = b
	} else if flag&os.O_TRUNC != 0 {
		b.data = nil
	}

	pos := int64(0)
	if flag&os.O_APPEND != 0 {
		pos = int64(len(b.data))
	}
	return &memFile{blob: b, pos: pos}, nil
}

func (m *Memory) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok, nil
}

func (m *Memory) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

func (m *Memory) Size(path string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[path]
	if !ok {
		return 0, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
	}
	return int64(len(b.data)), nil
}

// Truncate cuts path's stored bytes down to n, simulating a write that
// made it partway to the kernel buffer but no further — used by tests
// for a torn index tail (scenario S4).
func (m *Memory) Truncate(path string, n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[path]
	if !ok || n >= int64(len(b.data)) {
		return
	}
	b.data = b.data[:n]
}

// Counts returns how many times Flush and Sync were called on path,
// so a test can assert the mandated ordering actually happened.
func (m *Memory) Counts(path string) (flush, sync int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[path]
	if !ok {
		return 0, 0
	}
	return b.flushCount, b.syncCount
}

type memFile struct {
	blob *memBlob
	pos  int64
}

func (f *memFile) Read(p []byte) (int, error) {
	if f.pos >= int64(len(f.blob.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.blob.data[f.pos:])
	f.pos += int64(n)
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	end := f.pos + int64(len(p))
	if end > int64(len(f.blob.data)) {
		grown := make([]byte, end)
		copy(grown, f.blob.data)
		f.blob.data = grown
	}
	copy(f.blob.data[f.pos:end], p)
	f.pos = end
	return len(p), nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = f.pos + offset
	case io.SeekEnd:
		newPos = int64(len(f.blob.data)) + offset
	default:
		return 0, errors.New("recfile: invalid whence")
	}
	if newPos < 0 {
		return 0, errors.New("recfile: negative seek position")
	}
	f.pos = newPos
	return f.pos, nil
}

func (f *memFile) Flush() error {
	f.blob.flushCount++
	return nil
}

func (f *memFile) Sync() error {
	f.blob.syncCount++
	return nil
}

func (f *memFile) Close() error { return nil }
