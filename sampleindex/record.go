// Package sampleindex implements the redo-log sample index: the
// sidecar file a recorder appends one fixed-size record to per frame,
// and that a recovery run replays to rebuild a moov tree without ever
// having kept the samples in memory.
package sampleindex

// TrackID identifies which elementary stream a record belongs to.
type TrackID uint8

const (
	TrackVideo TrackID = 0
	TrackAudio TrackID = 1
)

// Record is the atomic unit logged per frame. Field order and widths
// are fixed at exactly 30 bytes (8+4+8+8+1+1) — this is the authoritative
// size; an implementation that pads or reorders fields breaks recovery
// against records written by a different build.
type Record struct {
	Offset     uint64
	Size       uint32
	PTS        int64
	DTS        int64
	IsKeyframe bool
	TrackID    TrackID
}

// RecordSize is the packed, host-endian on-disk size of Record.
const RecordSize = 8 + 4 + 8 + 8 + 1 + 1

// Config is the recording configuration persisted at the head of the
// index. Field order and widths are fixed for the same reason Record's
// are: a recovery binary must read records written by any recorder
// binary built against this same layout.
type Config struct {
	VideoTimescale   uint32
	AudioTimescale   uint32
	AudioSampleRate  uint32
	AudioChannels    uint32
	VideoWidth       uint32
	VideoHeight      uint32
	FlushIntervalMs  uint32
	FlushFrameCount  uint32
}

// ConfigSize is the packed, host-endian on-disk size of Config.
const ConfigSize = 4 * 8

// Magic identifies an index file; "MP4R" read as a big-endian uint32.
const Magic uint32 = 0x4D503452

// HeaderSize is the number of bytes preceding the first record: the
// magic plus the packed Config.
const HeaderSize = 4 + ConfigSize
