// Package config loads the recorder's YAML configuration file, the
// same on-disk format the teacher uses throughout pkg/storage and
// pkg/monitor. The core recorder package never touches YAML: this
// package exists only to turn a config file into the plain
// sampleindex.Config value recorder.Start expects.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"mp4rec/sampleindex"
)

// RecorderConfig is the on-disk shape of a recording profile.
type RecorderConfig struct {
	VideoTimescale   uint32 `yaml:"videoTimescale"`
	AudioTimescale   uint32 `yaml:"audioTimescale"`
	AudioSampleRate  uint32 `yaml:"audioSampleRate"`
	AudioChannels    uint32 `yaml:"audioChannels"`
	VideoWidth       uint32 `yaml:"videoWidth"`
	VideoHeight      uint32 `yaml:"videoHeight"`
	FlushIntervalMs  uint32 `yaml:"flushIntervalMs"`
	FlushFrameCount  uint32 `yaml:"flushFrameCount"`
}

// defaults mirror the teacher's NewConfigEnv pattern: a zero value in
// the YAML file falls back to a sane default rather than propagating
// a zero into the recorder.
func (c *RecorderConfig) applyDefaults() {
	if c.VideoTimescale == 0 {
		c.VideoTimescale = 30000
	}
	if c.AudioTimescale == 0 {
		c.AudioTimescale = 48000
	}
	if c.AudioSampleRate == 0 {
		c.AudioSampleRate = 48000
	}
	if c.AudioChannels == 0 {
		c.AudioChannels = 2
	}
	if c.FlushIntervalMs == 0 {
		c.FlushIntervalMs = 2000
	}
	if c.FlushFrameCount == 0 {
		c.FlushFrameCount = 300
	}
}

// ToSampleIndexConfig converts the YAML-loaded profile into the plain
// value recorder.Start and sampleindex.WriteConfig operate on.
func (c RecorderConfig) ToSampleIndexConfig() sampleindex.Config {
	return sampleindex.Config{
		VideoTimescale:  c.VideoTimescale,
		AudioTimescale:  c.AudioTimescale,
		AudioSampleRate: c.AudioSampleRate,
		AudioChannels:   c.AudioChannels,
		VideoWidth:      c.VideoWidth,
		VideoHeight:     c.VideoHeight,
		FlushIntervalMs: c.FlushIntervalMs,
		FlushFrameCount: c.FlushFrameCount,
	}
}

// Load reads and unmarshals a recorder profile from path, applying
// defaults for any field left at its zero value.
func Load(path string) (RecorderConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RecorderConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg RecorderConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return RecorderConfig{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	cfg.applyDefaults()

	return cfg, nil
}
