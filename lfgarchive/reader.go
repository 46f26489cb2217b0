package lfgarchive

import (
	"bytes"
	"io"

	"github.com/SeltmannSoftware/lfgpack/implode"
	"github.com/dsnet/golib/errs"
)

// Reader walks the members of an LFG! archive, vending one
// implode-decoding io.Reader per member via Next. Grounded on
// READ_LFG.C's archive walk.
type Reader struct {
	segments SegmentSource
	curIndex int
	cur      io.Reader

	Volume VolumeHeader
}

// NewReader opens segment 0, validates the archive and volume headers,
// and returns a Reader positioned at the first FileHeader.
func NewReader(segments SegmentSource) (r *Reader, err error) {
	defer errs.Recover(&err)

	seg, ioErr := segments.Open(0)
	errs.Assert(ioErr == nil, ioErr)

	var hdrBuf [archiveHeaderSize]byte
	_, ioErr = io.ReadFull(seg, hdrBuf[:])
	errs.Assert(ioErr == nil, Error("short archive header"))
	_, hdrErr := unmarshalArchiveHeader(hdrBuf[:])
	errs.Assert(hdrErr == nil, hdrErr)

	var volBuf [volumeHeaderSize]byte
	_, ioErr = io.ReadFull(seg, volBuf[:])
	errs.Assert(ioErr == nil, Error("short volume header"))
	vol, volErr := unmarshalVolumeHeader(volBuf[:])
	errs.Assert(volErr == nil, volErr)

	return &Reader{segments: segments, cur: seg, Volume: vol}, nil
}

// Next reads the next member's FileHeader and returns it alongside a
// reader over that member's decoded bytes. Next runs implode.Explode
// over the whole member before returning, so the returned io.Reader is
// independent of the segment cursor. A *implode.LengthMismatchError
// from Explode is discarded: the decoded bytes are returned with a nil
// error.
func (r *Reader) Next() (*FileHeader, io.Reader, error) {
	var hdrBuf [fileHeaderSize]byte
	n, err := io.ReadFull(r.cur, hdrBuf[:])
	if err == io.EOF && n == 0 {
		return nil, nil, io.EOF
	}
	if err != nil {
		return nil, nil, Error("short file header")
	}
	fh, err := unmarshalFileHeader(hdrBuf[:])
	if err != nil {
		return nil, nil, err
	}

	var out bytes.Buffer
	_, err = implode.Explode(r.cur, &out, &implode.ExplodeOptions{
		ExpectedLength: fh.ExpandedLength,
		NextSource:     r.rollover,
	})
	if err != nil {
		if _, ok := err.(*implode.LengthMismatchError); !ok {
			return &fh, nil, err
		}
	}
	return &fh, bytes.NewReader(out.Bytes()), nil
}

// rollover supplies the next segment's reader when the current one
// runs dry mid-member, skipping that segment's 8-byte ArchiveHeader.
func (r *Reader) rollover() (io.Reader, bool) {
	r.curIndex++
	seg, err := r.segments.Open(r.curIndex)
	if err != nil {
		return nil, false
	}
	var hdrBuf [archiveHeaderSize]byte
	if _, err := io.ReadFull(seg, hdrBuf[:]); err != nil {
		return nil, false
	}
	if _, err := unmarshalArchiveHeader(hdrBuf[:]); err != nil {
		return nil, false
	}
	r.cur = seg
	return seg, true
}
