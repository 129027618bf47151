// Package recorder implements the public lifecycle of the crash-safe
// writer: it owns the media file, the sample index, and the lock file
// as one unit, orchestrates writes and the mandated flush ordering,
// and can finalize or recover a recording started by a prior process.
package recorder

import (
	"errors"

	"mp4rec/moovbuilder"
	"mp4rec/sampleindex"
)

var (
	// ErrAlreadyRecording is returned by Start when the Recorder is
	// already in the Recording state.
	ErrAlreadyRecording = errors.New("recorder: already recording")

	// ErrNotRecording is returned by any write_* call or Stop when the
	// Recorder is Idle.
	ErrNotRecording = errors.New("recorder: not recording")

	// ErrInvalidParameterSet is returned by SetH264Config when sps or
	// pps is empty. Recover does not return it: when no parameter set
	// is found in the payload it logs a warning and builds avcC from
	// Baseline 3.1 defaults.
	ErrInvalidParameterSet = errors.New("recorder: invalid H.264 parameter set")

	// ErrInsufficientDiskSpace is returned by Start's preflight check.
	ErrInsufficientDiskSpace = errors.New("recorder: insufficient free disk space")

	// ErrCorruptIndex re-exports sampleindex.ErrCorruptIndex for
	// callers that only import this package.
	ErrCorruptIndex = sampleindex.ErrCorruptIndex

	// ErrOffsetOverflow re-exports moovbuilder.ErrOffsetOverflow.
	ErrOffsetOverflow = moovbuilder.ErrOffsetOverflow
)
