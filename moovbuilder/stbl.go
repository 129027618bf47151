package moovbuilder

import (
	"mp4rec/mp4box"
	"mp4rec/sampleindex"
)

// buildStbl assembles stsd, stts, (stss if isVideo), stsz, stsc, and
// stco from one track's records. mdatStart anchors the stco values;
// records are assumed already in write order (their offsets strictly
// increasing).
func buildStbl(records []sampleindex.Record, timescale uint32, isAudio bool, mdatStart uint64, stsd mp4box.Tree) (mp4box.Tree, error) {
	pts := make([]int64, len(records))
	for i, r := range records {
		pts[i] = r.PTS
	}
	lastDuration := LastSampleDuration(pts, timescale, isAudio)
	sttsEntries := mp4box.BuildStts(pts, lastDuration)

	sizes := make([]uint32, len(records))
	offsets := make([]uint32, len(records))
	var syncSamples []uint32
	for i, r := range records {
		sizes[i] = r.Size

		abs := mdatStart + r.Offset
		if abs > maxUint32 {
			return mp4box.Tree{}, ErrOffsetOverflow
		}
		offsets[i] = uint32(abs)

		if !isAudio && r.IsKeyframe {
			syncSamples = append(syncSamples, uint32(i+1)) // 1-based
		}
	}

	children := []mp4box.Tree{
		stsd,
		{Box: &mp4box.Stts{Entries: sttsEntries}},
	}
	if !isAudio {
		children = append(children, mp4box.Tree{Box: &mp4box.Stss{SampleNumbers: syncSamples}})
	}
	children = append(children,
		mp4box.Tree{Box: &mp4box.Stsz{EntrySizes: sizes}},
		mp4box.Tree{Box: &mp4box.Stsc{Entries: mp4box.OneSamplePerChunk()}},
		mp4box.Tree{Box: &mp4box.Stco{ChunkOffsets: offsets}},
	)

	return mp4box.Tree{
		Box:      &mp4box.Container{Typ: mp4box.TypeStbl},
		Children: children,
	}, nil
}
