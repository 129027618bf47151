package mp4box

import "mp4rec/mp4box/bits"

// Matrix is the identity unity matrix shared by mvhd and tkhd.
var Matrix = [9]uint32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000}

// Mvhd is the movie header box, version 0 only (64-bit timestamps and
// durations are a non-goal here, so there is no version-1 branch).
type Mvhd struct {
	FullBox
	Timescale   uint32
	Duration    uint32
	NextTrackID uint32
}

func (b *Mvhd) Type() Type { return TypeMvhd }

func (b *Mvhd) Size() int {
	return b.FullBox.Size() +
		4 + 4 + // creation/modification time
		4 + 4 + // timescale, duration
		4 + // rate
		2 + 2 + // volume, reserved
		8 + // reserved
		36 + // matrix
		24 + // pre_defined
		4 // next_track_id
}

func (b *Mvhd) Marshal(w *bits.Writer) error {
	if err := b.FullBox.Marshal(w); err != nil {
		return err
	}
	w.TryWriteUint32(0) // creation time
	w.TryWriteUint32(0) // modification time
	w.TryWriteUint32(b.Timescale)
	w.TryWriteUint32(b.Duration)
	w.TryWriteUint32(0x00010000) // rate
	w.TryWriteUint16(0x0100)     // volume
	w.TryWriteUint16(0)          // reserved
	w.TryWriteUint32(0)          // reserved[0]
	w.TryWriteUint32(0)          // reserved[1]
	for _, m := range Matrix {
		w.TryWriteUint32(m)
	}
	for i := 0; i < 6; i++ {
		w.TryWriteUint32(0) // pre_defined
	}
	w.TryWriteUint32(b.NextTrackID)
	return w.TryError
}

// Tkhd is the track header box, version 0.
type Tkhd struct {
	FullBox
	TrackID  uint32
	Duration uint32
	Volume   uint16 // 0 for video, 0x0100 for audio
	Width    uint32 // fixed-point 16.16; 0x00010000 for audio
	Height   uint32
}

func (b *Tkhd) Type() Type { return TypeTkhd }

func (b *Tkhd) Size() int {
	return b.FullBox.Size() +
		4 + 4 + // creation/modification time
		4 + // track ID
		4 + // reserved
		4 + // duration
		8 + // reserved
		2 + 2 + // layer, alternate group
		2 + 2 + // volume, reserved
		36 + // matrix
		4 + 4 // width, height
}

func (b *Tkhd) Marshal(w *bits.Writer) error {
	if err := b.FullBox.Marshal(w); err != nil {
		return err
	}
	w.TryWriteUint32(0) // creation time
	w.TryWriteUint32(0) // modification time
	w.TryWriteUint32(b.TrackID)
	w.TryWriteUint32(0) // reserved
	w.TryWriteUint32(b.Duration)
	w.TryWriteUint32(0) // reserved[0]
	w.TryWriteUint32(0) // reserved[1]
	w.TryWriteUint16(0) // layer
	w.TryWriteUint16(0) // alternate group
	w.TryWriteUint16(b.Volume)
	w.TryWriteUint16(0) // reserved
	for _, m := range Matrix {
		w.TryWriteUint32(m)
	}
	w.TryWriteUint32(b.Width)
	w.TryWriteUint32(b.Height)
	return w.TryError
}
