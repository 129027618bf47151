package mp4box

import "mp4rec/mp4box/bits"

// Container is a box with no fields of its own, used for every purely
// structural node in the moov tree: moov, trak, mdia, minf, stbl, dinf.
type Container struct {
	Typ Type
}

// Type returns the container's 4-character code.
func (b *Container) Type() Type {
	return b.Typ
}

// Size is always 0: a container's bytes come entirely from its children.
func (b *Container) Size() int {
	return 0
}

// Marshal writes nothing; Tree.Marshal skips the call when Size() is 0,
// but the method exists to satisfy Box.
func (b *Container) Marshal(w *bits.Writer) error {
	return nil
}

func typeOf(s string) Type {
	var t Type
	copy(t[:], s)
	return t
}

var (
	TypeFtyp = typeOf("ftyp")
	TypeMoov = typeOf("moov")
	TypeMvhd = typeOf("mvhd")
	TypeTrak = typeOf("trak")
	TypeTkhd = typeOf("tkhd")
	TypeMdia = typeOf("mdia")
	TypeMdhd = typeOf("mdhd")
	TypeHdlr = typeOf("hdlr")
	TypeMinf = typeOf("minf")
	TypeVmhd = typeOf("vmhd")
	TypeSmhd = typeOf("smhd")
	TypeDinf = typeOf("dinf")
	TypeDref = typeOf("dref")
	TypeUrl  = typeOf("url ")
	TypeStbl = typeOf("stbl")
	TypeStsd = typeOf("stsd")
	TypeAvc1 = typeOf("avc1")
	TypeAvcC = typeOf("avcC")
	TypeMp4a = typeOf("mp4a")
	TypeEsds = typeOf("esds")
	TypeStts = typeOf("stts")
	TypeStss = typeOf("stss")
	TypeStsz = typeOf("stsz")
	TypeStsc = typeOf("stsc")
	TypeStco = typeOf("stco")
	TypeMdat = typeOf("mdat")

	HandlerTypeVideo = typeOf("vide")
	HandlerTypeSound = typeOf("soun")
)
