package recorder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shirou/gopsutil/v3/disk"

	"mp4rec/internal/log"
	"mp4rec/mp4box"
	"mp4rec/mp4box/bits"
	"mp4rec/moovbuilder"
	"mp4rec/recfile"
	"mp4rec/sampleindex"
)

type state int

const (
	stateIdle state = iota
	stateRecording
)

// mdatStart is fixed by the file layout this recorder always writes:
// a 32-byte ftyp followed by an 8-byte mdat header.
const mdatStart = 40

// minFreeDiskBytes is the preflight threshold Start checks before
// creating a recording: refusing to start is cheaper than discovering
// the disk is full on the first flush.
const minFreeDiskBytes = 16 << 20

var majorBrand = [4]byte{'i', 's', 'o', 'm'}

func compatibleBrands() []mp4box.Type {
	brand := func(s string) mp4box.Type {
		var t mp4box.Type
		copy(t[:], s)
		return t
	}
	return []mp4box.Type{brand("isom"), brand("iso2"), brand("avc1"), brand("mp41")}
}

// Recorder owns the three files of one logical recording: the media
// file, the sample index, and the lock file. It is not safe for
// concurrent use by more than one goroutine.
type Recorder struct {
	fs  recfile.FileSystem
	log *log.Logger

	notifier Notifier

	state state
	path  string

	mp4File  recfile.File
	idx      *sampleindex.Index
	lockFile recfile.File

	cfg         sampleindex.Config
	frameCount  uint64
	mdatSize    uint64
	videoRecs   []sampleindex.Record
	audioRecs   []sampleindex.Record
	sps, pps    []byte

	lastFlush        time.Time
	framesSinceFlush uint32
}

// New returns an idle Recorder. logger may be nil.
func New(fs recfile.FileSystem, logger *log.Logger) *Recorder {
	return &Recorder{fs: fs, log: logger}
}

func (r *Recorder) idxPath() string  { return r.path + ".idx" }
func (r *Recorder) lockPath() string { return r.path + ".lock" }

// Start creates the media, index, and lock files for path and
// transitions the Recorder into the Recording state.
func (r *Recorder) Start(path string, cfg sampleindex.Config) error {
	if r.state == stateRecording {
		return ErrAlreadyRecording
	}

	if err := checkFreeDiskSpace(path); err != nil {
		return err
	}

	r.path = path
	r.cfg = cfg

	if err := r.createFiles(); err != nil {
		return err
	}

	r.state = stateRecording
	r.frameCount = 0
	r.mdatSize = 0
	r.videoRecs = nil
	r.audioRecs = nil
	r.sps, r.pps = nil, nil
	r.lastFlush = time.Now()
	r.framesSinceFlush = 0

	r.notify("start")

	return nil
}

func checkFreeDiskSpace(path string) error {
	dir := filepath.Dir(path)
	usage, err := disk.Usage(dir)
	if err != nil {
		// A filesystem that gopsutil cannot introspect (e.g. an
		// in-memory test filesystem with no real mount point) should
		// not block recording; only a confirmed shortfall does.
		return nil
	}
	if usage.Free < minFreeDiskBytes {
		return fmt.Errorf("%w: %d bytes free at %s", ErrInsufficientDiskSpace, usage.Free, dir)
	}
	return nil
}

func (r *Recorder) createFiles() error {
	mp4File, err := r.fs.Open(r.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return fmt.Errorf("recorder: create media file: %w", err)
	}
	r.mp4File = mp4File

	bw := bits.NewWriter(bits.NewByteWriter(mp4File))
	ftyp := mp4box.Ftyp{
		MajorBrand:       majorBrand,
		MinorVersion:     0x00000200,
		CompatibleBrands: compatibleBrands(),
	}
	if _, err := mp4box.WriteSingleBox(bw, &ftyp); err != nil {
		return fmt.Errorf("recorder: write ftyp: %w", err)
	}
	bw.TryWriteUint32(0) // mdat size placeholder, patched on Stop/Recover
	bw.TryWrite([]byte("mdat"))
	if bw.TryError != nil {
		return fmt.Errorf("recorder: write mdat header: %w", bw.TryError)
	}

	idx, err := sampleindex.Create(r.fs, r.idxPath())
	if err != nil {
		return fmt.Errorf("recorder: create index: %w", err)
	}
	if err := idx.WriteConfig(r.cfg); err != nil {
		return fmt.Errorf("recorder: write index config: %w", err)
	}
	r.idx = idx

	lockFile, err := r.fs.Open(r.lockPath(), os.O_RDWR|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return fmt.Errorf("recorder: create lock file: %w", err)
	}
	if _, err := lockFile.Write([]byte("RECORDING")); err != nil {
		return fmt.Errorf("recorder: write lock file: %w", err)
	}
	if err := lockFile.Flush(); err != nil {
		return fmt.Errorf("recorder: flush lock file: %w", err)
	}
	if err := lockFile.Sync(); err != nil {
		return fmt.Errorf("recorder: sync lock file: %w", err)
	}
	r.lockFile = lockFile

	return nil
}

// SetH264Config records the SPS/PPS used to build avcC on finalization.
// Both must be non-empty; any Annex-B start code is stripped.
func (r *Recorder) SetH264Config(sps, pps []byte) error {
	if len(sps) == 0 || len(pps) == 0 {
		return ErrInvalidParameterSet
	}
	r.sps = mp4box.StripAnnexB(sps)
	r.pps = mp4box.StripAnnexB(pps)
	return nil
}

// WriteVideo appends a video sample to the media payload and logs its
// record to the index.
func (r *Recorder) WriteVideo(data []byte, pts int64, isKeyframe bool) error {
	return r.writeSample(data, pts, isKeyframe, sampleindex.TrackVideo)
}

// WriteAudio appends an audio sample to the media payload and logs its
// record to the index.
func (r *Recorder) WriteAudio(data []byte, pts int64) error {
	return r.writeSample(data, pts, true, sampleindex.TrackAudio)
}

func (r *Recorder) writeSample(data []byte, pts int64, isKeyframe bool, track sampleindex.TrackID) error {
	if r.state != stateRecording {
		return ErrNotRecording
	}

	rec := sampleindex.Record{
		Offset:     r.mdatSize,
		Size:       uint32(len(data)),
		PTS:        pts,
		DTS:        pts,
		IsKeyframe: isKeyframe,
		TrackID:    track,
	}

	if _, err := r.mp4File.Write(data); err != nil {
		return fmt.Errorf("recorder: write sample: %w", err)
	}
	if err := r.idx.Append(rec); err != nil {
		return err
	}

	r.mdatSize += uint64(len(data))
	r.frameCount++
	r.framesSinceFlush++

	if track == sampleindex.TrackVideo {
		r.videoRecs = append(r.videoRecs, rec)
	} else {
		r.audioRecs = append(r.audioRecs, rec)
	}

	return r.flushIfNeeded()
}

func (r *Recorder) flushIfNeeded() error {
	elapsed := time.Since(r.lastFlush)
	due := elapsed >= time.Duration(r.cfg.FlushIntervalMs)*time.Millisecond ||
		uint32(r.framesSinceFlush) >= r.cfg.FlushFrameCount
	if !due {
		return nil
	}
	if err := r.doFlush(); err != nil {
		return err
	}
	r.lastFlush = time.Now()
	r.framesSinceFlush = 0
	return nil
}

// doFlush enforces the mandated ordering: flush media, sync media,
// flush index, sync index. An index record is only durable once the
// bytes it describes are durable.
func (r *Recorder) doFlush() error {
	if err := r.mp4File.Flush(); err != nil {
		return fmt.Errorf("recorder: flush media: %w", err)
	}
	if err := r.mp4File.Sync(); err != nil {
		return fmt.Errorf("recorder: sync media: %w", err)
	}
	if err := r.idx.Flush(); err != nil {
		return fmt.Errorf("recorder: flush index: %w", err)
	}
	if err := r.idx.Sync(); err != nil {
		return fmt.Errorf("recorder: sync index: %w", err)
	}
	r.notify("flush")
	return nil
}

// Stop finalizes the recording: patches the mdat size, appends moov,
// and removes the index and lock files.
func (r *Recorder) Stop() error {
	if r.state != stateRecording {
		return ErrNotRecording
	}
	r.state = stateIdle

	if err := r.doFlush(); err != nil {
		return err
	}

	if r.mdatSize+8 > maxMdatTotalSize {
		return ErrOffsetOverflow
	}
	if err := patchMdatSize(r.mp4File, uint32(8+r.mdatSize)); err != nil {
		return err
	}

	tree, err := moovbuilder.BuildMoov(r.videoRecs, r.audioRecs, r.cfg,
		moovbuilder.ParameterSet{SPS: r.sps, PPS: r.pps}, mdatStart)
	if err != nil {
		return err
	}
	if err := appendTree(r.mp4File, tree); err != nil {
		return err
	}
	if err := r.mp4File.Flush(); err != nil {
		return fmt.Errorf("recorder: flush moov: %w", err)
	}
	if err := r.mp4File.Sync(); err != nil {
		return fmt.Errorf("recorder: sync moov: %w", err)
	}
	if err := r.mp4File.Close(); err != nil {
		return fmt.Errorf("recorder: close media file: %w", err)
	}

	if err := r.idx.Close(); err != nil {
		return err
	}

	if err := r.lockFile.Close(); err != nil {
		return fmt.Errorf("recorder: close lock file: %w", err)
	}

	r.removeSidecar(r.idxPath())
	r.removeSidecar(r.lockPath())

	r.notify("stop")

	return nil
}

func (r *Recorder) removeSidecar(path string) {
	if err := r.fs.Remove(path); err != nil {
		r.log.Warn().Src("recorder.stop").Msgf("failed to remove %s: %v", path, err)
	}
}

// patchMdatSize seeks to the mdat size field (mdatStart-8) and
// overwrites it, restoring the file position is the caller's concern
// since the next write is always an append at EOF.
func patchMdatSize(f recfile.File, total uint32) error {
	if _, err := f.Seek(mdatStart-8, io.SeekStart); err != nil {
		return fmt.Errorf("recorder: seek to mdat size: %w", err)
	}
	var buf [4]byte
	buf[0] = byte(total >> 24)
	buf[1] = byte(total >> 16)
	buf[2] = byte(total >> 8)
	buf[3] = byte(total)
	if _, err := f.Write(buf[:]); err != nil {
		return fmt.Errorf("recorder: write mdat size: %w", err)
	}
	return nil
}

func appendTree(f recfile.File, tree mp4box.Tree) error {
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("recorder: seek to end for moov: %w", err)
	}
	bw := bits.NewWriter(bits.NewByteWriter(f))
	if err := tree.Marshal(bw); err != nil {
		return fmt.Errorf("recorder: write moov: %w", err)
	}
	return nil
}

// IsRecording reports whether the Recorder is in the Recording state.
func (r *Recorder) IsRecording() bool {
	return r.state == stateRecording
}

// FrameCount returns the number of samples written so far.
func (r *Recorder) FrameCount() uint64 {
	return r.frameCount
}

// HasIncompleteRecording reports whether both the index and lock
// sidecar files exist for path, meaning a prior process crashed
// mid-recording and Recover should run before path is read.
func HasIncompleteRecording(fs recfile.FileSystem, path string) (bool, error) {
	lockExists, err := fs.Exists(path + ".lock")
	if err != nil {
		return false, err
	}
	idxExists, err := fs.Exists(path + ".idx")
	if err != nil {
		return false, err
	}
	return lockExists && idxExists, nil
}
