package sampleindex

import "encoding/binary"

// MarshalRecord packs r into exactly RecordSize bytes, host-endian.
// Byte-for-byte manual layout rather than encoding/binary.Write over
// the struct: Go struct layout pads IsKeyframe/TrackID to machine
// alignment, which would silently change the on-disk record size
// across architectures and defeat the fixed-layout guarantee §4.3
// requires.
func MarshalRecord(r Record) [RecordSize]byte {
	var buf [RecordSize]byte
	binary.NativeEndian.PutUint64(buf[0:8], r.Offset)
	binary.NativeEndian.PutUint32(buf[8:12], r.Size)
	binary.NativeEndian.PutUint64(buf[12:20], uint64(r.PTS))
	binary.NativeEndian.PutUint64(buf[20:28], uint64(r.DTS))
	if r.IsKeyframe {
		buf[28] = 1
	}
	buf[29] = byte(r.TrackID)
	return buf
}

// UnmarshalRecord reverses MarshalRecord.
func UnmarshalRecord(buf []byte) Record {
	return Record{
		Offset:     binary.NativeEndian.Uint64(buf[0:8]),
		Size:       binary.NativeEndian.Uint32(buf[8:12]),
		PTS:        int64(binary.NativeEndian.Uint64(buf[12:20])),
		DTS:        int64(binary.NativeEndian.Uint64(buf[20:28])),
		IsKeyframe: buf[28] != 0,
		TrackID:    TrackID(buf[29]),
	}
}

// MarshalConfig packs cfg into exactly ConfigSize bytes, host-endian.
func MarshalConfig(cfg Config) [ConfigSize]byte {
	var buf [ConfigSize]byte
	binary.NativeEndian.PutUint32(buf[0:4], cfg.VideoTimescale)
	binary.NativeEndian.PutUint32(buf[4:8], cfg.AudioTimescale)
	binary.NativeEndian.PutUint32(buf[8:12], cfg.AudioSampleRate)
	binary.NativeEndian.PutUint32(buf[12:16], cfg.AudioChannels)
	binary.NativeEndian.PutUint32(buf[16:20], cfg.VideoWidth)
	binary.NativeEndian.PutUint32(buf[20:24], cfg.VideoHeight)
	binary.NativeEndian.PutUint32(buf[24:28], cfg.FlushIntervalMs)
	binary.NativeEndian.PutUint32(buf[28:32], cfg.FlushFrameCount)
	return buf
}

// UnmarshalConfig reverses MarshalConfig.
func UnmarshalConfig(buf []byte) Config {
	return Config{
		VideoTimescale:  binary.NativeEndian.Uint32(buf[0:4]),
		AudioTimescale:  binary.NativeEndian.Uint32(buf[4:8]),
		AudioSampleRate: binary.NativeEndian.Uint32(buf[8:12]),
		AudioChannels:   binary.NativeEndian.Uint32(buf[12:16]),
		VideoWidth:      binary.NativeEndian.Uint32(buf[16:20]),
		VideoHeight:     binary.NativeEndian.Uint32(buf[20:24]),
		FlushIntervalMs: binary.NativeEndian.Uint32(buf[24:28]),
		FlushFrameCount: binary.NativeEndian.Uint32(buf[28:32]),
	}
}
