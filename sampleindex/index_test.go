package sampleindex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"mp4rec/recfile"
)

func testConfig() Config {
	return Config{
		VideoTimescale:  30000,
		AudioTimescale:  48000,
		AudioSampleRate: 48000,
		AudioChannels:   2,
		VideoWidth:      640,
		VideoHeight:     480,
		FlushIntervalMs: 500,
		FlushFrameCount: 1000,
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	fs := recfile.NewMemory()

	w, err := Create(fs, "rec.idx")
	require.NoError(t, err)
	require.NoError(t, w.WriteConfig(testConfig()))

	records := []Record{
		{Offset: 0, Size: 100, PTS: 0, DTS: 0, IsKeyframe: true, TrackID: TrackVideo},
		{Offset: 100, Size: 200, PTS: 1000, DTS: 1000, IsKeyframe: false, TrackID: TrackVideo},
		{Offset: 300, Size: 50, PTS: 0, DTS: 0, IsKeyframe: false, TrackID: TrackAudio},
	}
	for _, r := range records {
		require.NoError(t, w.Append(r))
	}
	require.NoError(t, w.Close())

	r, err := Open(fs, "rec.idx")
	require.NoError(t, err)
	require.EqualValues(t, 3, r.FrameCount())

	cfg, err := r.ReadConfig()
	require.NoError(t, err)
	require.Equal(t, testConfig(), cfg)

	video, audio, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, video, 2)
	require.Len(t, audio, 1)
	require.Equal(t, records[0], video[0])
	require.Equal(t, records[1], video[1])
	require.Equal(t, records[2], audio[0])
}

func TestOpenTornTailStopsCleanly(t *testing.T) {
	fs := recfile.NewMemory()

	w, err := Create(fs, "rec.idx")
	require.NoError(t, err)
	require.NoError(t, w.WriteConfig(testConfig()))
	for i := 0; i < 5; i++ {
		require.NoError(t, w.Append(Record{Offset: uint64(i * 10), Size: 10, TrackID: TrackVideo}))
	}
	require.NoError(t, w.Close())

	size, err := fs.Size("rec.idx")
	require.NoError(t, err)
	fs.Truncate("rec.idx", size-7) // torn last record

	r, err := Open(fs, "rec.idx")
	require.NoError(t, err)
	_, err = r.ReadConfig()
	require.NoError(t, err)

	video, audio, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, video, 4)
	require.Empty(t, audio)
}

func TestReadConfigMissingMagic(t *testing.T) {
	fs := recfile.NewMemory()

	w, err := Create(fs, "rec.idx")
	require.NoError(t, err)
	require.NoError(t, w.WriteConfig(testConfig()))
	require.NoError(t, w.Close())

	fs.Truncate("rec.idx", 0)

	r, err := Open(fs, "rec.idx")
	require.NoError(t, err)
	_, err = r.ReadConfig()
	require.True(t, errors.Is(err, ErrCorruptIndex))
}

func TestRecordMarshalRoundTrip(t *testing.T) {
	r := Record{
		Offset:     123456789,
		Size:       4096,
		PTS:        -5,
		DTS:        -5,
		IsKeyframe: true,
		TrackID:    TrackAudio,
	}
	buf := MarshalRecord(r)
	require.Len(t, buf, RecordSize)
	require.Equal(t, r, UnmarshalRecord(buf[:]))
}
