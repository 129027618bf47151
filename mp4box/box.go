// Package mp4box defines the ISOBMFF box types this recorder emits and
// the composition rule that turns a tree of them into bytes: every
// container's size is 8 + the sum of its children's sizes, computed
// bottom-up before any header is written. No box size is ever a
// placeholder — emission is a pure function of the tree.
package mp4box

import "mp4rec/mp4box/bits"

// Type is a 4-byte ISOBMFF box type code.
type Type [4]byte

// Box is the common interface every leaf box implements.
type Box interface {
	// Type returns the box's 4-character code.
	Type() Type

	// Size returns the marshaled size of the box's own fields, not
	// including the 8-byte header. Must be exact before Marshal runs.
	Size() int

	// Marshal writes the box's own fields (not the header) to w.
	Marshal(w *bits.Writer) error
}

// Tree is a box together with its children, used to compose the moov
// hierarchy: a container box (trak, mdia, minf, stbl, dinf) has no
// fields of its own but carries children; a leaf box has fields and no
// children; a few boxes (stsd, dref, avc1, mp4a) have both fields and
// children.
type Tree struct {
	Box      Box
	Children []Tree
}

// Size returns the full marshaled size, header included, of the tree
// rooted at this node.
func (t *Tree) Size() int {
	total := 8 + t.Box.Size()
	for i := range t.Children {
		total += t.Children[i].Size()
	}
	return total
}

// Marshal writes the full tree, header first, to w.
func (t *Tree) Marshal(w *bits.Writer) error {
	size := t.Size()
	if err := writeHeader(w, uint32(size), t.Box.Type()); err != nil {
		return err
	}
	// A box with no fields of its own marshals to nothing past the header.
	if t.Box.Size() != 0 {
		if err := t.Box.Marshal(w); err != nil {
			return err
		}
	}
	for i := range t.Children {
		if err := t.Children[i].Marshal(w); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(w *bits.Writer, size uint32, typ Type) error {
	w.TryWriteUint32(size)
	w.TryWrite(typ[:])
	return w.TryError
}

// WriteSingleBox writes one leaf box (header plus fields) with no
// children, returning the number of bytes written.
func WriteSingleBox(w *bits.Writer, b Box) (int, error) {
	size := 8 + b.Size()
	if err := writeHeader(w, uint32(size), b.Type()); err != nil {
		return 0, err
	}
	if b.Size() != 0 {
		if err := b.Marshal(w); err != nil {
			return 0, err
		}
	}
	return size, nil
}
