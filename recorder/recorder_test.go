package recorder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mp4rec/recfile"
	"mp4rec/sampleindex"
)

func testConfig() sampleindex.Config {
	return sampleindex.Config{
		VideoTimescale:  30000,
		AudioTimescale:  48000,
		AudioSampleRate: 48000,
		AudioChannels:   2,
		VideoWidth:      320,
		VideoHeight:     240,
		FlushIntervalMs: 500,
		FlushFrameCount: 1000,
	}
}

func TestStartCreatesThreeFiles(t *testing.T) {
	fs := recfile.NewMemory()
	r := New(fs, nil)
	require.NoError(t, r.Start("rec.mp4", testConfig()))

	for _, p := range []string{"rec.mp4", "rec.mp4.idx", "rec.mp4.lock"} {
		ok, err := fs.Exists(p)
		require.NoError(t, err)
		require.True(t, ok, p)
	}

	size, err := fs.Size("rec.mp4")
	require.NoError(t, err)
	require.EqualValues(t, 40, size) // ftyp(32) + mdat header(8)
}

func TestStartTwiceFails(t *testing.T) {
	fs := recfile.NewMemory()
	r := New(fs, nil)
	require.NoError(t, r.Start("rec.mp4", testConfig()))
	require.ErrorIs(t, r.Start("rec.mp4", testConfig()), ErrAlreadyRecording)
}

func TestWriteBeforeStartFails(t *testing.T) {
	fs := recfile.NewMemory()
	r := New(fs, nil)
	require.ErrorIs(t, r.WriteVideo([]byte{1, 2, 3}, 0, true), ErrNotRecording)
}

func TestScenarioS1EmptyAudio(t *testing.T) {
	fs := recfile.NewMemory()
	r := New(fs, nil)
	require.NoError(t, r.Start("rec.mp4", testConfig()))

	sizes := []int{100, 200, 150}
	pts := []int64{0, 1000, 2000}
	for i, sz := range sizes {
		require.NoError(t, r.WriteVideo(make([]byte, sz), pts[i], true))
	}
	require.EqualValues(t, 3, r.FrameCount())

	require.NoError(t, r.Stop())
	require.False(t, r.IsRecording())

	size, err := fs.Size("rec.mp4")
	require.NoError(t, err)
	// ftyp(32) + mdat header(8) + payload(450) + moov(appended) >= mdat total.
	require.Greater(t, int(size), 32+8+450)

	for _, p := range []string{"rec.mp4.idx", "rec.mp4.lock"} {
		ok, err := fs.Exists(p)
		require.NoError(t, err)
		require.False(t, ok, p)
	}
}

func TestScenarioS2TwoTracks(t *testing.T) {
	fs := recfile.NewMemory()
	r := New(fs, nil)
	cfg := testConfig()
	cfg.FlushFrameCount = 5 // force mid-recording flushes
	require.NoError(t, r.Start("rec.mp4", cfg))

	for i := 0; i < 10; i++ {
		require.NoError(t, r.WriteVideo(make([]byte, 1000), int64(i*3000), true))
		for j := 0; j < 4; j++ {
			idx := i*4 + j
			require.NoError(t, r.WriteAudio(make([]byte, 256), int64(idx*1200)))
		}
	}
	require.EqualValues(t, 50, r.FrameCount())
	require.NoError(t, r.Stop())

	flushN, syncN := fs.Counts("rec.mp4")
	require.Greater(t, flushN, 0)
	require.Greater(t, syncN, 0)
}

func TestAlreadyStoppedFails(t *testing.T) {
	fs := recfile.NewMemory()
	r := New(fs, nil)
	require.NoError(t, r.Start("rec.mp4", testConfig()))
	require.NoError(t, r.Stop())
	require.ErrorIs(t, r.Stop(), ErrNotRecording)
}

func TestStopRejectsMdatSizeOverflow(t *testing.T) {
	fs := recfile.NewMemory()
	r := New(fs, nil)
	require.NoError(t, r.Start("rec.mp4", testConfig()))

	// Simulate a payload too large for the 32-bit mdat size field
	// without actually writing 4GiB through the in-memory filesystem.
	r.mdatSize = maxMdatTotalSize - 4

	require.ErrorIs(t, r.Stop(), ErrOffsetOverflow)
}

func TestSetH264ConfigRejectsEmpty(t *testing.T) {
	fs := recfile.NewMemory()
	r := New(fs, nil)
	require.NoError(t, r.Start("rec.mp4", testConfig()))
	require.ErrorIs(t, r.SetH264Config(nil, []byte{1}), ErrInvalidParameterSet)
	require.ErrorIs(t, r.SetH264Config([]byte{1}, nil), ErrInvalidParameterSet)
}

func TestScenarioS3SimulatedCrashAndRecover(t *testing.T) {
	fs := recfile.NewMemory()
	r := New(fs, nil)
	require.NoError(t, r.Start("rec.mp4", testConfig()))

	for i := 0; i < 150; i++ {
		keyframe := i%30 == 0
		require.NoError(t, r.WriteVideo(make([]byte, 500), int64(i*1000), keyframe))
	}
	// Simulate a crash: no Stop call, files stay in place.

	preSize, err := fs.Size("rec.mp4")
	require.NoError(t, err)

	incomplete, err := HasIncompleteRecording(fs, "rec.mp4")
	require.NoError(t, err)
	require.True(t, incomplete)

	require.NoError(t, Recover(fs, "rec.mp4", nil))

	postSize, err := fs.Size("rec.mp4")
	require.NoError(t, err)
	require.Greater(t, postSize, preSize)

	for _, p := range []string{"rec.mp4.idx", "rec.mp4.lock"} {
		ok, err := fs.Exists(p)
		require.NoError(t, err)
		require.False(t, ok, p)
	}

	incomplete, err = HasIncompleteRecording(fs, "rec.mp4")
	require.NoError(t, err)
	require.False(t, incomplete)
}

func TestScenarioS4TornIndexTail(t *testing.T) {
	fs := recfile.NewMemory()
	r := New(fs, nil)
	require.NoError(t, r.Start("rec.mp4", testConfig()))
	for i := 0; i < 10; i++ {
		require.NoError(t, r.WriteVideo(make([]byte, 100), int64(i*1000), true))
	}

	size, err := fs.Size("rec.mp4.idx")
	require.NoError(t, err)
	fs.Truncate("rec.mp4.idx", size-7)

	require.NoError(t, Recover(fs, "rec.mp4", nil))

	ok, _ := fs.Exists("rec.mp4.idx")
	require.False(t, ok)
}

func TestScenarioS5CorruptMagicLeavesMediaUntouched(t *testing.T) {
	fs := recfile.NewMemory()
	r := New(fs, nil)
	require.NoError(t, r.Start("rec.mp4", testConfig()))
	require.NoError(t, r.WriteVideo(make([]byte, 100), 0, true))

	// Corrupt the magic number at the head of the index.
	f, err := fs.Open("rec.mp4.idx", 0)
	require.NoError(t, err)
	_, err = f.Write([]byte{0, 0, 0, 0})
	require.NoError(t, err)

	preSize, err := fs.Size("rec.mp4")
	require.NoError(t, err)

	err = Recover(fs, "rec.mp4", nil)
	require.ErrorIs(t, err, ErrCorruptIndex)

	postSize, err := fs.Size("rec.mp4")
	require.NoError(t, err)
	require.Equal(t, preSize, postSize)
}

func TestScenarioS6ParameterSetRecovery(t *testing.T) {
	fs := recfile.NewMemory()
	r := New(fs, nil)
	require.NoError(t, r.Start("rec.mp4", testConfig()))

	sps := []byte{0x67, 0x42, 0x00, 0x1F, 0xAA, 0xBB}
	pps := []byte{0x68, 0xCE, 0x3C, 0x80}
	firstFrame := lengthPrefixed(sps, pps, []byte{0x65, 1, 2, 3})

	require.NoError(t, r.WriteVideo(firstFrame, 0, true))
	for i := 1; i < 100; i++ {
		require.NoError(t, r.WriteVideo(lengthPrefixed([]byte{0x61, 9, 9}), int64(i*1000), false))
	}

	require.NoError(t, Recover(fs, "rec.mp4", nil))

	ok, _ := fs.Exists("rec.mp4.idx")
	require.False(t, ok)
}

// lengthPrefixed concatenates nal units using AVCC 4-byte length prefixes.
func lengthPrefixed(nals ...[]byte) []byte {
	var out []byte
	for _, n := range nals {
		out = append(out, byte(len(n)>>24), byte(len(n)>>16), byte(len(n)>>8), byte(len(n)))
		out = append(out, n...)
	}
	return out
}
