package recorder

import (
	"fmt"
	"io"
	"os"

	"mp4rec/internal/log"
	"mp4rec/moovbuilder"
	"mp4rec/recfile"
	"mp4rec/sampleindex"
)

// Recover rebuilds a playable file from an incomplete recording at
// path: it validates the index header before touching the media file
// at all (so a corrupt index leaves the media file untouched, as
// §8 scenario S5 requires), patches the mdat size to match what was
// actually durable, attempts to recover H.264 parameter sets from the
// payload if none were ever recorded, appends moov, and removes the
// index and lock files.
func Recover(fs recfile.FileSystem, path string, logger *log.Logger) error {
	return RecoverWithNotifier(fs, path, logger, nil)
}

// RecoverWithNotifier is Recover plus a lifecycle notification on
// success, for supervisors that broadcast recorder status (see
// recstatus) and want recovery events alongside start/flush/stop.
func RecoverWithNotifier(fs recfile.FileSystem, path string, logger *log.Logger, notifier Notifier) error {
	idxPath := path + ".idx"
	lockPath := path + ".lock"

	idx, err := sampleindex.Open(fs, idxPath)
	if err != nil {
		return fmt.Errorf("recorder: open index for recovery: %w", err)
	}

	cfg, err := idx.ReadConfig()
	if err != nil {
		_ = idx.Close()
		return err
	}

	video, audio, err := idx.ReadAll()
	if err != nil {
		_ = idx.Close()
		return err
	}
	if err := idx.Close(); err != nil {
		return err
	}

	fileSize, err := fs.Size(path)
	if err != nil {
		return fmt.Errorf("recorder: stat media file for recovery: %w", err)
	}
	if fileSize < mdatStart {
		return fmt.Errorf("recorder: media file %s too small to contain ftyp+mdat header", path)
	}
	if fileSize-32 > maxMdatTotalSize {
		return ErrOffsetOverflow
	}

	mp4File, err := fs.Open(path, os.O_RDWR)
	if err != nil {
		return fmt.Errorf("recorder: open media file for recovery: %w", err)
	}

	if err := patchMdatSize(mp4File, uint32(fileSize-32)); err != nil {
		_ = mp4File.Close()
		return err
	}
	if err := mp4File.Flush(); err != nil {
		_ = mp4File.Close()
		return err
	}
	if err := mp4File.Sync(); err != nil {
		_ = mp4File.Close()
		return err
	}

	sps, pps, found := recoverParameterSets(mp4File, video)
	if !found {
		logger.Warn().Src("recorder.recover").Msgf("no H.264 parameter set recovered from payload; falling back to Baseline 3.1 avcC for %s", path)
	}

	tree, err := moovbuilder.BuildMoov(video, audio, cfg, moovbuilder.ParameterSet{SPS: sps, PPS: pps}, mdatStart)
	if err != nil {
		_ = mp4File.Close()
		return err
	}
	if err := appendTree(mp4File, tree); err != nil {
		_ = mp4File.Close()
		return err
	}
	if err := mp4File.Flush(); err != nil {
		_ = mp4File.Close()
		return err
	}
	if err := mp4File.Sync(); err != nil {
		_ = mp4File.Close()
		return err
	}
	if err := mp4File.Close(); err != nil {
		return fmt.Errorf("recorder: close media file after recovery: %w", err)
	}

	if err := fs.Remove(idxPath); err != nil {
		logger.Warn().Src("recorder.recover").Msgf("failed to remove %s: %v", idxPath, err)
	}
	if err := fs.Remove(lockPath); err != nil {
		logger.Warn().Src("recorder.recover").Msgf("failed to remove %s: %v", lockPath, err)
	}

	notifyRecover(notifier, path, uint64(len(video)+len(audio)))

	return nil
}

const maxMdatTotalSize = 1<<32 - 1

// recoverParameterSets reads each video sample's bytes from the media
// file in record order and scans them for an SPS/PPS pair, stopping
// at the first sample that yields both.
func recoverParameterSets(f recfile.File, video []sampleindex.Record) (sps, pps []byte, found bool) {
	for _, rec := range video {
		if rec.Size == 0 {
			continue
		}
		if _, err := f.Seek(int64(mdatStart+rec.Offset), io.SeekStart); err != nil {
			continue
		}
		buf := make([]byte, rec.Size)
		if _, err := io.ReadFull(f, buf); err != nil {
			continue
		}
		if s, p, ok := extractParameterSets(buf); ok {
			return s, p, true
		}
	}
	return nil, nil, false
}
