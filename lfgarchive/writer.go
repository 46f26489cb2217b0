package lfgarchive

import (
	"encoding/binary"
	"io"

	"github.com/SeltmannSoftware/lfgpack/implode"
)

// SegmentSource abstracts one physical disk-segment file per index, so
// the archive layer never touches os.File directly (segments are
// trivially faked with in-memory buffers in tests).
type SegmentSource interface {
	Open(index int) (io.ReadWriteSeeker, error)
}

// Writer packs one or more files into an LFG! archive, calling back
// into SegmentSource whenever the active segment fills up. Grounded on
// PACK_LFG.C's pack_lfg: one archive-wide volume header followed by a
// FileHeader plus imploded payload per member, with segment rollover
// driven by the same byte-count-cap mechanism implode.Implode exposes.
type Writer struct {
	segments  SegmentSource
	diskSize  int64
	cur       io.ReadWriteSeeker
	curIndex  int
	segOffset int64 // Bytes already written to the current segment
}

// NewWriter opens the first segment, writes the archive and volume
// headers, and returns a Writer ready for WriteFile calls. diskSize
// bounds every segment, the first one included; the archive, volume
// and file headers count against it. There is no separate size for the
// first segment.
func NewWriter(segments SegmentSource, vol VolumeHeader, diskSize int64) (*Writer, error) {
	seg, err := segments.Open(0)
	if err != nil {
		return nil, err
	}
	w := &Writer{segments: segments, diskSize: diskSize, cur: seg}

	if _, err := seg.Write(ArchiveHeader{}.marshal()); err != nil {
		return nil, err
	}
	volBuf, err := vol.marshal()
	if err != nil {
		return nil, err
	}
	if _, err := seg.Write(volBuf); err != nil {
		return nil, err
	}
	w.segOffset = archiveHeaderSize + volumeHeaderSize
	return w, nil
}

// WriteFile encodes length bytes read from r as one archive member
// named name (expandedSize is the post-decode size recorded in the
// FileHeader), driving implode.Implode with a rollover hook that opens
// new segments from the Writer's SegmentSource as needed.
func (w *Writer) WriteFile(name string, length, expandedSize int64, r io.Reader, codecOpts *implode.ImplodeOptions) error {
	hdrSeg := w.cur
	hdrOffset := w.segOffset

	fh := FileHeader{Name: name, ExpandedLength: expandedSize}
	fhBuf, err := fh.marshal()
	if err != nil {
		return err
	}
	if _, err := w.cur.Write(fhBuf); err != nil {
		return err
	}
	w.segOffset += fileHeaderSize

	opts := *codecOpts
	opts.Length = length
	opts.ByteCountCap = w.diskSize - w.segOffset
	// prevCap is the member's byte count when the cap was hit; count the
	// bytes that went into the segment being left before finalizing it.
	var rolled int64
	opts.NextSink = func(prevCap int64) (io.Writer, int64, bool) {
		w.segOffset += prevCap - rolled
		rolled = prevCap
		return w.rollover(prevCap)
	}

	n, err := implode.Implode(r, w.cur, &opts)
	if err != nil {
		return err
	}
	w.segOffset += n - rolled

	return patchUint32(hdrSeg, hdrOffset+4, uint32(fileHeaderSize+n))
}

// rollover finalizes the segment being left (patching its
// ArchiveHeader.SegmentLength) and opens the next one, returning the
// byte budget (relative to the fresh segment) implode.Implode should
// use before asking again.
func (w *Writer) rollover(prevCap int64) (io.Writer, int64, bool) {
	if err := patchUint32(w.cur, 4, uint32(w.segOffset)); err != nil {
		return nil, 0, false
	}

	w.curIndex++
	seg, err := w.segments.Open(w.curIndex)
	if err != nil {
		return nil, 0, false
	}
	if _, err := seg.Write(ArchiveHeader{}.marshal()); err != nil {
		return nil, 0, false
	}
	w.cur = seg
	w.segOffset = archiveHeaderSize
	return seg, w.diskSize - w.segOffset, true
}

// Close finalizes the final segment's ArchiveHeader.SegmentLength.
func (w *Writer) Close() error {
	return patchUint32(w.cur, 4, uint32(w.segOffset))
}

// patchUint32 overwrites a little-endian uint32 field at offset in rws
// without disturbing the writer's current position.
func patchUint32(rws io.ReadWriteSeeker, offset int64, val uint32) error {
	cur, err := rws.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := rws.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], val)
	if _, err := rws.Write(buf[:]); err != nil {
		return err
	}
	_, err = rws.Seek(cur, io.SeekStart)
	return err
}
