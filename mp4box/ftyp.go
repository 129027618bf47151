package mp4box

import "mp4rec/mp4box/bits"

// Ftyp is the file type box. The recorder writes it as a fixed 32-byte
// box (8-byte header + 24 fields) at the start of every media file,
// before mdat_start is established.
type Ftyp struct {
	MajorBrand       Type
	MinorVersion     uint32
	CompatibleBrands []Type
}

func (b *Ftyp) Type() Type {
	return TypeFtyp
}

func (b *Ftyp) Size() int {
	return 8 + 4*len(b.CompatibleBrands)
}

func (b *Ftyp) Marshal(w *bits.Writer) error {
	w.TryWrite(b.MajorBrand[:])
	w.TryWriteUint32(b.MinorVersion)
	for _, brand := range b.CompatibleBrands {
		w.TryWrite(brand[:])
	}
	return w.TryError
}
