package moovbuilder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mp4rec/mp4box"
	"mp4rec/sampleindex"
)

func baseConfig() sampleindex.Config {
	return sampleindex.Config{
		VideoTimescale:  30000,
		AudioTimescale:  48000,
		AudioSampleRate: 48000,
		AudioChannels:   2,
		VideoWidth:      640,
		VideoHeight:     480,
	}
}

func TestBuildMoovEmptyAudio(t *testing.T) {
	video := []sampleindex.Record{
		{Offset: 0, Size: 100, PTS: 0, IsKeyframe: true, TrackID: sampleindex.TrackVideo},
		{Offset: 100, Size: 200, PTS: 1000, IsKeyframe: true, TrackID: sampleindex.TrackVideo},
		{Offset: 300, Size: 150, PTS: 2000, IsKeyframe: true, TrackID: sampleindex.TrackVideo},
	}

	tree, err := BuildMoov(video, nil, baseConfig(), ParameterSet{}, 40)
	require.NoError(t, err)

	require.Len(t, tree.Children, 2) // mvhd + one trak, no audio trak

	stco := findStco(t, tree)
	require.Equal(t, []uint32{40, 140, 340}, stco.ChunkOffsets)

	stsz := findStsz(t, tree)
	require.Equal(t, []uint32{100, 200, 150}, stsz.EntrySizes)

	stss := findStss(t, tree)
	require.Equal(t, []uint32{1, 2, 3}, stss.SampleNumbers)

	stts := findStts(t, tree)
	require.Equal(t, []mp4box.SttsEntry{{Count: 3, Duration: 1000}}, stts.Entries)
}

func TestBuildMoovTwoTracks(t *testing.T) {
	var video []sampleindex.Record
	for i := 0; i < 10; i++ {
		video = append(video, sampleindex.Record{
			Offset: uint64(i * 1000), Size: 1000, PTS: int64(i * 3000), IsKeyframe: true,
			TrackID: sampleindex.TrackVideo,
		})
	}
	var audio []sampleindex.Record
	for i := 0; i < 40; i++ {
		audio = append(audio, sampleindex.Record{
			Offset: uint64(10000 + i*256), Size: 256, PTS: int64(i * 1200),
			TrackID: sampleindex.TrackAudio,
		})
	}

	tree, err := BuildMoov(video, audio, baseConfig(), ParameterSet{}, 40)
	require.NoError(t, err)
	require.Len(t, tree.Children, 3) // mvhd + 2 trak

	var traks []mp4box.Tree
	for _, c := range tree.Children {
		if _, ok := c.Box.(*mp4box.Container); ok && c.Box.Type() == mp4box.TypeTrak {
			traks = append(traks, c)
		}
	}
	require.Len(t, traks, 2)

	videoStss := findStss(t, traks[0])
	expected := make([]uint32, 10)
	for i := range expected {
		expected[i] = uint32(i + 1)
	}
	require.Equal(t, expected, videoStss.SampleNumbers)

	audioStts := findStts(t, traks[1])
	// 39 inter-sample deltas of 1200; the last audio sample is one AAC-LC
	// frame (1024 ticks), see LastSampleDuration.
	require.Equal(t, []mp4box.SttsEntry{{Count: 39, Duration: 1200}, {Count: 1, Duration: 1024}}, audioStts.Entries)
}

func TestBuildMoovOffsetOverflow(t *testing.T) {
	video := []sampleindex.Record{
		{Offset: 1 << 32, Size: 10, PTS: 0, TrackID: sampleindex.TrackVideo},
	}
	_, err := BuildMoov(video, nil, baseConfig(), ParameterSet{}, 40)
	require.ErrorIs(t, err, ErrOffsetOverflow)
}

func TestSttsRoundTrip(t *testing.T) {
	pts := []int64{0, 1000, 2000, 2100, 2200}
	entries := mp4box.BuildStts(pts, 100)
	decoded := mp4box.SttsDecode(entries)

	rebuilt := make([]int64, len(pts))
	rebuilt[0] = pts[0]
	for i, d := range decoded[:len(decoded)-1] {
		rebuilt[i+1] = rebuilt[i] + int64(d)
	}
	require.Equal(t, pts, rebuilt)
}

func findStco(t *testing.T, tree mp4box.Tree) *mp4box.Stco {
	b := findBox(tree, mp4box.TypeStco)
	require.NotNil(t, b)
	return b.(*mp4box.Stco)
}

func findStsz(t *testing.T, tree mp4box.Tree) *mp4box.Stsz {
	b := findBox(tree, mp4box.TypeStsz)
	require.NotNil(t, b)
	return b.(*mp4box.Stsz)
}

func findStss(t *testing.T, tree mp4box.Tree) *mp4box.Stss {
	b := findBox(tree, mp4box.TypeStss)
	require.NotNil(t, b)
	return b.(*mp4box.Stss)
}

func findStts(t *testing.T, tree mp4box.Tree) *mp4box.Stts {
	b := findBox(tree, mp4box.TypeStts)
	require.NotNil(t, b)
	return b.(*mp4box.Stts)
}

func findBox(tree mp4box.Tree, typ mp4box.Type) mp4box.Box {
	if tree.Box.Type() == typ {
		return tree.Box
	}
	for _, c := range tree.Children {
		if b := findBox(c, typ); b != nil {
			return b
		}
	}
	return nil
}
