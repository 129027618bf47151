package mp4box

import "mp4rec/mp4box/bits"

// sampleEntryHeader writes the 8-byte SampleEntry prefix shared by avc1
// and mp4a: 6 reserved bytes plus a data reference index.
func sampleEntryHeader(w *bits.Writer, dataReferenceIndex uint16) {
	for i := 0; i < 6; i++ {
		w.TryWriteByte(0)
	}
	w.TryWriteUint16(dataReferenceIndex)
}

// Avc1 is the avc1 VisualSampleEntry, 78 bytes of fields (86 with its
// own header) followed by an avcC child in the stsd tree.
type Avc1 struct {
	DataReferenceIndex uint16
	Width              uint16
	Height             uint16
}

func (b *Avc1) Type() Type { return TypeAvc1 }

func (b *Avc1) Size() int {
	return 8 + // SampleEntry
		2 + 2 + // pre_defined, reserved
		12 + // pre_defined[3]
		2 + 2 + // width, height
		4 + 4 + // horiz/vert resolution
		4 + // reserved
		2 + // frame_count
		32 + // compressorname
		2 + 2 // depth, pre_defined
}

func (b *Avc1) Marshal(w *bits.Writer) error {
	sampleEntryHeader(w, b.DataReferenceIndex)
	w.TryWriteUint16(0) // pre_defined
	w.TryWriteUint16(0) // reserved
	for i := 0; i < 3; i++ {
		w.TryWriteUint32(0) // pre_defined
	}
	w.TryWriteUint16(b.Width)
	w.TryWriteUint16(b.Height)
	w.TryWriteUint32(0x00480000) // horizresolution, 72 dpi
	w.TryWriteUint32(0x00480000) // vertresolution
	w.TryWriteUint32(0)          // reserved
	w.TryWriteUint16(1)          // frame_count
	var compressorName [32]byte
	w.TryWrite(compressorName[:])
	w.TryWriteUint16(0x0018) // depth, 24-bit color
	w.TryWriteUint16(0xFFFF) // pre_defined (color table id)
	return w.TryError
}

// Mp4a is the mp4a AudioSampleEntry, 28 bytes of fields (36 with its
// own header) followed by an esds child in the stsd tree.
type Mp4a struct {
	DataReferenceIndex uint16
	ChannelCount       uint16
	SampleRate         uint32 // 16.16 fixed point
}

func (b *Mp4a) Type() Type { return TypeMp4a }

func (b *Mp4a) Size() int {
	return 8 + // SampleEntry
		8 + // reserved
		2 + 2 + // channelcount, samplesize
		2 + 2 + // pre_defined, reserved
		4 // samplerate
}

func (b *Mp4a) Marshal(w *bits.Writer) error {
	sampleEntryHeader(w, b.DataReferenceIndex)
	w.TryWriteUint32(0) // reserved
	w.TryWriteUint32(0) // reserved
	w.TryWriteUint16(b.ChannelCount)
	w.TryWriteUint16(16) // samplesize
	w.TryWriteUint16(0)  // pre_defined
	w.TryWriteUint16(0)  // reserved
	w.TryWriteUint32(b.SampleRate)
	return w.TryError
}
