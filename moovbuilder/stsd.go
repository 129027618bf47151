package moovbuilder

import "mp4rec/mp4box"

// buildVideoStsd builds stsd → avc1 → avcC for an H.264 track. sps/pps
// are stripped of any Annex-B start code before being embedded; a
// missing SPS falls back to Baseline 3.1 defaults with empty
// parameter sets rather than failing, matching the spec's preference
// for a degraded-but-playable recovery over a hard failure here.
func buildVideoStsd(width, height uint16, sps, pps []byte) mp4box.Tree {
	sps = mp4box.StripAnnexB(sps)
	pps = mp4box.StripAnnexB(pps)
	profile, compat, level := mp4box.SniffProfileLevel(sps)

	avcC := mp4box.Tree{Box: &mp4box.AvcC{
		Profile:              profile,
		ProfileCompatibility: compat,
		Level:                level,
		SPS:                  sps,
		PPS:                  pps,
	}}

	avc1 := mp4box.Tree{
		Box: &mp4box.Avc1{
			DataReferenceIndex: 1,
			Width:              width,
			Height:             height,
		},
		Children: []mp4box.Tree{avcC},
	}

	return mp4box.Tree{
		Box:      &mp4box.Stsd{EntryCount: 1},
		Children: []mp4box.Tree{avc1},
	}
}

// buildAudioStsd builds stsd → mp4a → esds for an AAC-LC track.
func buildAudioStsd(sampleRate, channels uint32) mp4box.Tree {
	sampleRateIndex := mp4box.AACSampleRateIndex(int(sampleRate))
	asc := mp4box.PackAudioSpecificConfig(sampleRateIndex, byte(channels))

	esds := mp4box.Tree{Box: &mp4box.Esds{AudioSpecificConfig: asc}}

	mp4a := mp4box.Tree{
		Box: &mp4box.Mp4a{
			DataReferenceIndex: 1,
			ChannelCount:       uint16(channels),
			SampleRate:         sampleRate << 16,
		},
		Children: []mp4box.Tree{esds},
	}

	return mp4box.Tree{
		Box:      &mp4box.Stsd{EntryCount: 1},
		Children: []mp4box.Tree{mp4a},
	}
}
