package moovbuilder

import (
	"mp4rec/mp4box"
	"mp4rec/sampleindex"
)

const tkhdEnabledInMovieInPreview = 0x000F

func tkhdFlags() [3]byte {
	return [3]byte{
		byte(tkhdEnabledInMovieInPreview >> 16),
		byte(tkhdEnabledInMovieInPreview >> 8),
		byte(tkhdEnabledInMovieInPreview),
	}
}

// trackInput is the per-track data buildTrak needs, already computed
// by the caller (video or audio specific assembly lives one level up).
type trackInput struct {
	trackID    uint32
	handler    mp4box.Type
	timescale  uint32
	width      uint32 // 16.16 fixed point; 0x00010000 for audio
	height     uint32
	volume     uint16
	mediaHead  mp4box.Tree // vmhd or smhd
	stsd       mp4box.Tree
	records    []sampleindex.Record
	isAudio    bool
}

// tkhdDurationTicks returns the track's duration already scaled to the
// mvhd timescale, used both for this track's tkhd and to derive the
// movie-wide mvhd duration.
func tkhdDurationTicks(lastPTS int64, timescale uint32) uint32 {
	return scaleDuration(lastPTS, timescale, mvhdTimescale)
}

func buildTrak(in trackInput, mdatStart uint64) (mp4box.Tree, uint32, error) {
	var lastPTS int64
	if len(in.records) > 0 {
		lastPTS = in.records[len(in.records)-1].PTS
	}

	tkhd := mp4box.Tree{Box: &mp4box.Tkhd{
		FullBox:  mp4box.FullBox{Version: 0, Flags: tkhdFlags()},
		TrackID:  in.trackID,
		Duration: tkhdDurationTicks(lastPTS, in.timescale),
		Volume:   in.volume,
		Width:    in.width,
		Height:   in.height,
	}}

	mdhd := mp4box.Tree{Box: &mp4box.Mdhd{
		Timescale: in.timescale,
		Duration:  uint32(lastPTS),
	}}

	hdlr := mp4box.Tree{Box: &mp4box.Hdlr{HandlerType: in.handler}}

	stbl, err := buildStbl(in.records, in.timescale, in.isAudio, mdatStart, in.stsd)
	if err != nil {
		return mp4box.Tree{}, 0, err
	}

	dinf := mp4box.Tree{
		Box: &mp4box.Container{Typ: mp4box.TypeDinf},
		Children: []mp4box.Tree{{
			Box:      &mp4box.Dref{EntryCount: 1},
			Children: []mp4box.Tree{{Box: &mp4box.Url{}}},
		}},
	}

	minf := mp4box.Tree{
		Box:      &mp4box.Container{Typ: mp4box.TypeMinf},
		Children: []mp4box.Tree{in.mediaHead, dinf, stbl},
	}

	mdia := mp4box.Tree{
		Box:      &mp4box.Container{Typ: mp4box.TypeMdia},
		Children: []mp4box.Tree{mdhd, hdlr, minf},
	}

	trak := mp4box.Tree{
		Box:      &mp4box.Container{Typ: mp4box.TypeTrak},
		Children: []mp4box.Tree{tkhd, mdia},
	}

	return trak, tkhd.Box.(*mp4box.Tkhd).Duration, nil
}
