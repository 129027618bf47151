// Package moovbuilder deterministically synthesizes a moov box tree
// from sample records, codec parameters, and a recording configuration
// — no I/O, no mutable state, a pure function of its inputs so the same
// records always produce the same bytes regardless of when they are
// built (on a normal stop or during recovery).
package moovbuilder

import "errors"

// ErrOffsetOverflow is returned when a chunk offset or mdat size would
// not fit in the 32-bit fields this recorder uses (co64 is a non-goal).
var ErrOffsetOverflow = errors.New("moovbuilder: offset exceeds 32 bits")

// mvhdTimescale is the fixed 1000-tick timescale every mvhd/tkhd uses,
// independent of either track's own timescale.
const mvhdTimescale = 1000

const maxUint32 = 1<<32 - 1
