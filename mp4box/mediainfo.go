package mp4box

import "mp4rec/mp4box/bits"

// LanguageUndetermined is the packed ISO-639-2/T "und" language code
// used by every mdhd this recorder emits.
const LanguageUndetermined = 0x55C4

// Mdhd is the media header box, version 0.
type Mdhd struct {
	FullBox
	Timescale uint32
	Duration  uint32
}

func (b *Mdhd) Type() Type { return TypeMdhd }

func (b *Mdhd) Size() int {
	return b.FullBox.Size() + 4 + 4 + 4 + 4 + 2 + 2
}

func (b *Mdhd) Marshal(w *bits.Writer) error {
	if err := b.FullBox.Marshal(w); err != nil {
		return err
	}
	w.TryWriteUint32(0) // creation time
	w.TryWriteUint32(0) // modification time
	w.TryWriteUint32(b.Timescale)
	w.TryWriteUint32(b.Duration)
	w.TryWriteUint16(LanguageUndetermined)
	w.TryWriteUint16(0) // pre_defined
	return w.TryError
}

// Hdlr is the handler reference box: handler type plus 12 reserved
// 32-bit zeros and nothing else — no handler name string.
type Hdlr struct {
	FullBox
	HandlerType Type
}

func (b *Hdlr) Type() Type { return TypeHdlr }

func (b *Hdlr) Size() int {
	return b.FullBox.Size() + 4 + 4 + 12*4
}

func (b *Hdlr) Marshal(w *bits.Writer) error {
	if err := b.FullBox.Marshal(w); err != nil {
		return err
	}
	w.TryWriteUint32(0) // pre_defined
	w.TryWrite(b.HandlerType[:])
	for i := 0; i < 12; i++ {
		w.TryWriteUint32(0)
	}
	return w.TryError
}

// Vmhd is the video media header box.
type Vmhd struct {
	FullBox
}

func (b *Vmhd) Type() Type { return TypeVmhd }

func (b *Vmhd) Size() int {
	return b.FullBox.Size() + 2 + 2*3
}

func (b *Vmhd) Marshal(w *bits.Writer) error {
	if err := b.FullBox.Marshal(w); err != nil {
		return err
	}
	w.TryWriteUint16(0) // graphicsmode
	for i := 0; i < 3; i++ {
		w.TryWriteUint16(0) // opcolor
	}
	return w.TryError
}

// Smhd is the sound media header box. Version and flags are written by
// FullBox.Marshal as a single 1+3 byte sequence — never split into a
// 1-byte version and a 4-byte flags field, which would make this box
// 17 bytes and misalign dinf after it.
type Smhd struct {
	FullBox
}

func (b *Smhd) Type() Type { return TypeSmhd }

func (b *Smhd) Size() int {
	return b.FullBox.Size() + 2 + 2
}

func (b *Smhd) Marshal(w *bits.Writer) error {
	if err := b.FullBox.Marshal(w); err != nil {
		return err
	}
	w.TryWriteUint16(0) // balance
	w.TryWriteUint16(0) // reserved
	return w.TryError
}

// Dref is the data reference box: entry count plus its child url boxes.
type Dref struct {
	FullBox
	EntryCount uint32
}

func (b *Dref) Type() Type { return TypeDref }

func (b *Dref) Size() int {
	return b.FullBox.Size() + 4
}

func (b *Dref) Marshal(w *bits.Writer) error {
	if err := b.FullBox.Marshal(w); err != nil {
		return err
	}
	w.TryWriteUint32(b.EntryCount)
	return w.TryError
}

// urlSelfContained is the flag value meaning "media data is in this
// same file", which leaves the url box with no location string.
const urlSelfContained = 1

// Url is a data entry url box, always self-contained in this recorder.
type Url struct{}

func (b *Url) Type() Type { return TypeUrl }

func (b *Url) Size() int { return 4 }

func (b *Url) Marshal(w *bits.Writer) error {
	w.TryWriteByte(0) // version
	w.TryWriteByte(0)
	w.TryWriteByte(0)
	w.TryWriteByte(urlSelfContained)
	return w.TryError
}
