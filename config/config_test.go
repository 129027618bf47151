package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mp4rec/sampleindex"
)

func TestLoadAppliesDefaultsForZeroFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("videoWidth: 1920\nvideoHeight: 1080\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.EqualValues(t, 1920, cfg.VideoWidth)
	require.EqualValues(t, 1080, cfg.VideoHeight)
	require.EqualValues(t, 30000, cfg.VideoTimescale)
	require.EqualValues(t, 48000, cfg.AudioTimescale)
	require.EqualValues(t, 2000, cfg.FlushIntervalMs)
	require.EqualValues(t, 300, cfg.FlushFrameCount)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/profile.yaml")
	require.Error(t, err)
}

func TestToSampleIndexConfigCarriesAllFields(t *testing.T) {
	cfg := RecorderConfig{
		VideoTimescale:  30000,
		AudioTimescale:  48000,
		AudioSampleRate: 44100,
		AudioChannels:   1,
		VideoWidth:      640,
		VideoHeight:     480,
		FlushIntervalMs: 500,
		FlushFrameCount: 100,
	}
	sic := cfg.ToSampleIndexConfig()
	require.EqualValues(t, cfg.VideoWidth, sic.VideoWidth)
	require.EqualValues(t, cfg.AudioSampleRate, sic.AudioSampleRate)
	require.EqualValues(t, cfg.FlushFrameCount, sic.FlushFrameCount)
	require.Equal(t, sampleindex.Config{
		VideoTimescale:  30000,
		AudioTimescale:  48000,
		AudioSampleRate: 44100,
		AudioChannels:   1,
		VideoWidth:      640,
		VideoHeight:     480,
		FlushIntervalMs: 500,
		FlushFrameCount: 100,
	}, sic)
}
