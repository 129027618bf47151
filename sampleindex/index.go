package sampleindex

import (
	"errors"
	"fmt"
	"io"
	"os"

	"mp4rec/recfile"
)

// ErrCorruptIndex is returned by ReadConfig when the magic number is
// missing or wrong, or the header is too short to contain a Config.
// Open does not check the header.
var ErrCorruptIndex = errors.New("sampleindex: corrupt index header")

// Index is one open index log, append-only while recording and
// read-only during recovery.
type Index struct {
	fs        recfile.FileSystem
	path      string
	file      recfile.File
	dirty     bool
	frameCount uint64
}

// Create opens path for writing, truncating any existing content, and
// leaves the file position at 0 for the header write.
func Create(fs recfile.FileSystem, path string) (*Index, error) {
	f, err := fs.Open(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return nil, fmt.Errorf("sampleindex: create %s: %w", path, err)
	}
	return &Index{fs: fs, path: path, file: f}, nil
}

// WriteConfig writes the magic number and cfg, then flushes and syncs
// — this header must be durable before any record append is trusted.
func (idx *Index) WriteConfig(cfg Config) error {
	var magicBuf [4]byte
	magicBuf[0] = byte(Magic >> 24 & 0xff)
	magicBuf[1] = byte(Magic >> 16 & 0xff)
	magicBuf[2] = byte(Magic >> 8 & 0xff)
	magicBuf[3] = byte(Magic & 0xff)
	if _, err := idx.file.Write(magicBuf[:]); err != nil {
		return fmt.Errorf("sampleindex: write magic: %w", err)
	}
	packed := MarshalConfig(cfg)
	if _, err := idx.file.Write(packed[:]); err != nil {
		return fmt.Errorf("sampleindex: write config: %w", err)
	}
	if err := idx.file.Flush(); err != nil {
		return fmt.Errorf("sampleindex: flush config: %w", err)
	}
	if err := idx.file.Sync(); err != nil {
		return fmt.Errorf("sampleindex: sync config: %w", err)
	}
	return nil
}

// Open opens an existing index for reading and computes the record
// count from the file size, tolerating a short trailing record.
func Open(fs recfile.FileSystem, path string) (*Index, error) {
	f, err := fs.Open(path, os.O_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("sampleindex: open %s: %w", path, err)
	}
	size, err := fs.Size(path)
	if err != nil {
		return nil, fmt.Errorf("sampleindex: stat %s: %w", path, err)
	}
	var frameCount uint64
	if size > HeaderSize {
		frameCount = uint64(size-HeaderSize) / RecordSize
	}
	return &Index{fs: fs, path: path, file: f, frameCount: frameCount}, nil
}

// FrameCount returns the number of complete records Open computed
// from the file size.
func (idx *Index) FrameCount() uint64 {
	return idx.frameCount
}

// ReadConfig reads and validates the magic number, then reads Config.
// The file position must be at 0 (true immediately after Open).
func (idx *Index) ReadConfig() (Config, error) {
	var magicBuf [4]byte
	if _, err := io.ReadFull(idx.file, magicBuf[:]); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}
	magic := uint32(magicBuf[0])<<24 | uint32(magicBuf[1])<<16 | uint32(magicBuf[2])<<8 | uint32(magicBuf[3])
	if magic != Magic {
		return Config{}, ErrCorruptIndex
	}
	var cfgBuf [ConfigSize]byte
	if _, err := io.ReadFull(idx.file, cfgBuf[:]); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}
	return UnmarshalConfig(cfgBuf[:]), nil
}

// Append writes one record and marks the index dirty.
func (idx *Index) Append(r Record) error {
	packed := MarshalRecord(r)
	if _, err := idx.file.Write(packed[:]); err != nil {
		return fmt.Errorf("sampleindex: append record: %w", err)
	}
	idx.frameCount++
	idx.dirty = true
	return nil
}

// ReadAll seeks past the header and reads every complete record
// sequentially, demultiplexing by TrackID. A short trailing read (a
// partial record, the crash-tolerance case) ends iteration without
// error; records with an unrecognized track id are skipped.
func (idx *Index) ReadAll() (video, audio []Record, err error) {
	if _, err := idx.file.Seek(HeaderSize, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("sampleindex: seek to records: %w", err)
	}
	buf := make([]byte, RecordSize)
	for {
		n, readErr := io.ReadFull(idx.file, buf)
		if n < RecordSize {
			break
		}
		r := UnmarshalRecord(buf)
		switch r.TrackID {
		case TrackVideo:
			video = append(video, r)
		case TrackAudio:
			audio = append(audio, r)
		}
		if readErr != nil {
			break
		}
	}
	return video, audio, nil
}

// Flush forwards to the underlying file if there is unflushed data.
func (idx *Index) Flush() error {
	if !idx.dirty {
		return nil
	}
	if err := idx.file.Flush(); err != nil {
		return fmt.Errorf("sampleindex: flush: %w", err)
	}
	idx.dirty = false
	return nil
}

// Sync forwards to the underlying file.
func (idx *Index) Sync() error {
	if err := idx.file.Sync(); err != nil {
		return fmt.Errorf("sampleindex: sync: %w", err)
	}
	return nil
}

// Close flushes any pending data and closes the underlying file. Safe
// to call more than once.
func (idx *Index) Close() error {
	if idx.file == nil {
		return nil
	}
	if err := idx.Flush(); err != nil {
		return err
	}
	err := idx.file.Close()
	idx.file = nil
	return err
}
