package moovbuilder

import (
	"mp4rec/mp4box"
	"mp4rec/sampleindex"
)

// videoTrackID and audioTrackID are fixed: this recorder supports
// exactly one track of each kind.
const (
	videoTrackID = 1
	audioTrackID = 2
	nextTrackID  = 3
)

// ParameterSet holds the H.264 SPS/PPS used to build avcC. Both are
// expected already extracted (by the recorder, at write time or
// during recovery); buildVideoStsd strips any Annex-B prefix that
// survived regardless.
type ParameterSet struct {
	SPS []byte
	PPS []byte
}

// BuildMoov synthesizes the moov tree for a recording. video/audio may
// be empty (a track with no records is omitted entirely, per §4.4).
// mdatStart is the absolute file offset of the first mdat payload
// byte. Returns ErrOffsetOverflow if any resulting chunk offset would
// not fit in 32 bits.
func BuildMoov(video, audio []sampleindex.Record, cfg sampleindex.Config, params ParameterSet, mdatStart uint64) (mp4box.Tree, error) {
	var trakChildren []mp4box.Tree
	var movieDuration uint32

	if len(video) > 0 {
		stsd := buildVideoStsd(uint16(cfg.VideoWidth), uint16(cfg.VideoHeight), params.SPS, params.PPS)
		trak, duration, err := buildTrak(trackInput{
			trackID:   videoTrackID,
			handler:   mp4box.HandlerTypeVideo,
			timescale: cfg.VideoTimescale,
			width:     cfg.VideoWidth << 16,
			height:    cfg.VideoHeight << 16,
			volume:    0,
			mediaHead: mp4box.Tree{Box: &mp4box.Vmhd{}},
			stsd:      stsd,
			records:   video,
			isAudio:   false,
		}, mdatStart)
		if err != nil {
			return mp4box.Tree{}, err
		}
		trakChildren = append(trakChildren, trak)
		if duration > movieDuration {
			movieDuration = duration
		}
	}

	if len(audio) > 0 {
		stsd := buildAudioStsd(cfg.AudioSampleRate, cfg.AudioChannels)
		trak, duration, err := buildTrak(trackInput{
			trackID:   audioTrackID,
			handler:   mp4box.HandlerTypeSound,
			timescale: cfg.AudioTimescale,
			width:     0x00010000,
			height:    0x00010000,
			volume:    0x0100,
			mediaHead: mp4box.Tree{Box: &mp4box.Smhd{}},
			stsd:      stsd,
			records:   audio,
			isAudio:   true,
		}, mdatStart)
		if err != nil {
			return mp4box.Tree{}, err
		}
		trakChildren = append(trakChildren, trak)
		if duration > movieDuration {
			movieDuration = duration
		}
	}

	mvhd := mp4box.Tree{Box: &mp4box.Mvhd{
		Timescale:   mvhdTimescale,
		Duration:    movieDuration,
		NextTrackID: nextTrackID,
	}}

	children := append([]mp4box.Tree{mvhd}, trakChildren...)

	return mp4box.Tree{
		Box:      &mp4box.Container{Typ: mp4box.TypeMoov},
		Children: children,
	}, nil
}
