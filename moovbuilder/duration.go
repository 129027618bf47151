package moovbuilder

// LastSampleDuration infers the duration of the final sample in a
// track, which has no following pts to derive a delta from.
//
// Audio: always one AAC-LC frame, 1024 ticks.
// Video: timescale/30 when the timescale supports it; otherwise the
// previous inter-sample delta is reused, and when there is no previous
// delta to reuse (fewer than two samples) the duration is 0 — a
// degenerate single-sample recording has no meaningful duration to
// infer.
func LastSampleDuration(pts []int64, timescale uint32, isAudio bool) uint32 {
	if isAudio {
		return 1024
	}
	if timescale >= 30 {
		return timescale / 30
	}
	if len(pts) >= 2 {
		return uint32(pts[len(pts)-1] - pts[len(pts)-2])
	}
	return 0
}

// scaleDuration converts a duration expressed in fromTimescale ticks
// into toTimescale ticks: mvhd/tkhd durations are always expressed in
// the fixed 1000-tick movie timescale even though mdhd keeps each
// track's native timescale.
func scaleDuration(ticks int64, fromTimescale, toTimescale uint32) uint32 {
	if fromTimescale == 0 {
		return 0
	}
	return uint32(ticks * int64(toTimescale) / int64(fromTimescale))
}
