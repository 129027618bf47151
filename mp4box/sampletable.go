package mp4box

import "mp4rec/mp4box/bits"

// Stsd is the sample description box. Its one child in this recorder's
// tree is always either an avc1 or an mp4a entry.
type Stsd struct {
	FullBox
	EntryCount uint32
}

func (b *Stsd) Type() Type { return TypeStsd }

func (b *Stsd) Size() int { return b.FullBox.Size() + 4 }

func (b *Stsd) Marshal(w *bits.Writer) error {
	if err := b.FullBox.Marshal(w); err != nil {
		return err
	}
	w.TryWriteUint32(b.EntryCount)
	return w.TryError
}

// SttsEntry is one run-length-encoded (count, duration) pair.
type SttsEntry struct {
	Count    uint32
	Duration uint32
}

// Stts is the time-to-sample box.
type Stts struct {
	FullBox
	Entries []SttsEntry
}

func (b *Stts) Type() Type { return TypeStts }

func (b *Stts) Size() int { return b.FullBox.Size() + 4 + 8*len(b.Entries) }

func (b *Stts) Marshal(w *bits.Writer) error {
	if err := b.FullBox.Marshal(w); err != nil {
		return err
	}
	w.TryWriteUint32(uint32(len(b.Entries)))
	for _, e := range b.Entries {
		w.TryWriteUint32(e.Count)
		w.TryWriteUint32(e.Duration)
	}
	return w.TryError
}

// BuildStts run-length-encodes consecutive deltas between pts, the
// last sample's duration supplied by the caller (see
// moovbuilder.LastSampleDuration).
func BuildStts(pts []int64, lastDuration uint32) []SttsEntry {
	if len(pts) == 0 {
		return nil
	}
	if len(pts) == 1 {
		return []SttsEntry{{Count: 1, Duration: lastDuration}}
	}
	var entries []SttsEntry
	for i := 0; i < len(pts)-1; i++ {
		d := uint32(pts[i+1] - pts[i])
		if len(entries) > 0 && entries[len(entries)-1].Duration == d {
			entries[len(entries)-1].Count++
			continue
		}
		entries = append(entries, SttsEntry{Count: 1, Duration: d})
	}
	if len(entries) > 0 && entries[len(entries)-1].Duration == lastDuration {
		entries[len(entries)-1].Count++
	} else {
		entries = append(entries, SttsEntry{Count: 1, Duration: lastDuration})
	}
	return entries
}

// SttsDecode expands a run-length-encoded stts entry list back into
// per-sample durations; the inverse of BuildStts.
func SttsDecode(entries []SttsEntry) []uint32 {
	var out []uint32
	for _, e := range entries {
		for i := uint32(0); i < e.Count; i++ {
			out = append(out, e.Duration)
		}
	}
	return out
}

// Stss is the sync sample box: 1-based indices of keyframes.
type Stss struct {
	FullBox
	SampleNumbers []uint32
}

func (b *Stss) Type() Type { return TypeStss }

func (b *Stss) Size() int { return b.FullBox.Size() + 4 + 4*len(b.SampleNumbers) }

func (b *Stss) Marshal(w *bits.Writer) error {
	if err := b.FullBox.Marshal(w); err != nil {
		return err
	}
	w.TryWriteUint32(uint32(len(b.SampleNumbers)))
	for _, n := range b.SampleNumbers {
		w.TryWriteUint32(n)
	}
	return w.TryError
}

// Stsz is the sample size box, always in variable-size mode
// (sample_size field fixed at 0).
type Stsz struct {
	FullBox
	EntrySizes []uint32
}

func (b *Stsz) Type() Type { return TypeStsz }

func (b *Stsz) Size() int { return b.FullBox.Size() + 4 + 4 + 4*len(b.EntrySizes) }

func (b *Stsz) Marshal(w *bits.Writer) error {
	if err := b.FullBox.Marshal(w); err != nil {
		return err
	}
	w.TryWriteUint32(0) // sample_size (variable mode)
	w.TryWriteUint32(uint32(len(b.EntrySizes)))
	for _, s := range b.EntrySizes {
		w.TryWriteUint32(s)
	}
	return w.TryError
}

// StscEntry is one sample-to-chunk entry.
type StscEntry struct {
	FirstChunk             uint32
	SamplesPerChunk        uint32
	SampleDescriptionIndex uint32
}

// Stsc is the sample-to-chunk box. This recorder always makes every
// sample its own chunk, so it carries exactly one entry.
type Stsc struct {
	FullBox
	Entries []StscEntry
}

func (b *Stsc) Type() Type { return TypeStsc }

func (b *Stsc) Size() int { return b.FullBox.Size() + 4 + 12*len(b.Entries) }

func (b *Stsc) Marshal(w *bits.Writer) error {
	if err := b.FullBox.Marshal(w); err != nil {
		return err
	}
	w.TryWriteUint32(uint32(len(b.Entries)))
	for _, e := range b.Entries {
		w.TryWriteUint32(e.FirstChunk)
		w.TryWriteUint32(e.SamplesPerChunk)
		w.TryWriteUint32(e.SampleDescriptionIndex)
	}
	return w.TryError
}

// OneSamplePerChunk returns the single stsc entry this recorder always
// emits: every sample is its own chunk.
func OneSamplePerChunk() []StscEntry {
	return []StscEntry{{FirstChunk: 1, SamplesPerChunk: 1, SampleDescriptionIndex: 1}}
}

// Stco is the 32-bit chunk offset box. co64 is a non-goal.
type Stco struct {
	FullBox
	ChunkOffsets []uint32
}

func (b *Stco) Type() Type { return TypeStco }

func (b *Stco) Size() int { return b.FullBox.Size() + 4 + 4*len(b.ChunkOffsets) }

func (b *Stco) Marshal(w *bits.Writer) error {
	if err := b.FullBox.Marshal(w); err != nil {
		return err
	}
	w.TryWriteUint32(uint32(len(b.ChunkOffsets)))
	for _, o := range b.ChunkOffsets {
		w.TryWriteUint32(o)
	}
	return w.TryError
}
