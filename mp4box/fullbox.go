package mp4box

import "mp4rec/mp4box/bits"

// FullBox is the ISOBMFF FullBox prefix: a 1-byte version and a 3-byte
// flags field, always emitted together as a single 4-byte unit so
// there is never a split version/flags write that could leave a box
// misaligned (this is the exact mistake §4.4 calls out for smhd).
type FullBox struct {
	Version uint8
	Flags   [3]byte
}

// FlagsUint32 returns the flags as a single value for CheckFlag.
func (b *FullBox) FlagsUint32() uint32 {
	return uint32(b.Flags[0])<<16 | uint32(b.Flags[1])<<8 | uint32(b.Flags[2])
}

// CheckFlag reports whether flag is set.
func (b *FullBox) CheckFlag(flag uint32) bool {
	return b.FlagsUint32()&flag != 0
}

// Size returns the marshaled size of the FullBox prefix.
func (b *FullBox) Size() int {
	return 4
}

// Marshal writes the FullBox prefix to w.
func (b *FullBox) Marshal(w *bits.Writer) error {
	w.TryWrite([]byte{b.Version, b.Flags[0], b.Flags[1], b.Flags[2]})
	return w.TryError
}
