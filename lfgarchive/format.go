// Package lfgarchive implements the "LFG!" multi-segment archive
// container used to wrap PKWARE DCL-imploded members in late-1980s and
// early-1990s LucasFilm Games installers.
package lfgarchive

import (
	"encoding/binary"

	"github.com/dsnet/golib/errs"
)

const (
	archiveMagic = "LFG!"
	fileMagic    = "FILE"

	archiveHeaderSize = 8
	volumeHeaderSize  = 20
	fileHeaderSize    = 32

	nameFieldSize = 13
)

// defaultUnknown is the constant 6-byte field every FileHeader carries.
// The source calls it "unknown"; this package never re-interprets it,
// per the open question it was left under.
var defaultUnknown = [6]byte{2, 0, 1, 0, 0, 0}

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "lfgarchive: " + string(e) }

var (
	ErrBadMagic  error = Error("bad archive magic")
	ErrBadName   error = Error("file name too long or unterminated")
	ErrNoSegment error = Error("no further disk segment available")
)

// ArchiveHeader is the 8-byte header present at the start of every disk
// segment. Grounded on PACK_LFG.H's "HEADER FOR ALL ARCHIVE FILES".
type ArchiveHeader struct {
	SegmentLength uint32
}

func (h ArchiveHeader) marshal() []byte {
	buf := make([]byte, archiveHeaderSize)
	copy(buf[0:4], archiveMagic)
	binary.LittleEndian.PutUint32(buf[4:8], h.SegmentLength)
	return buf
}

func unmarshalArchiveHeader(buf []byte) (ArchiveHeader, error) {
	var h ArchiveHeader
	if len(buf) < archiveHeaderSize || string(buf[0:4]) != archiveMagic {
		return h, ErrBadMagic
	}
	h.SegmentLength = binary.LittleEndian.Uint32(buf[4:8])
	return h, nil
}

// VolumeHeader is the 20-byte block that follows the ArchiveHeader on
// the first segment only. Grounded on PACK_LFG.H's "FIRST ARCHIVE FILE
// ONLY" block.
type VolumeHeader struct {
	Name           string
	DiskCount      uint8
	ExpandedTotal  uint32
}

func (h VolumeHeader) marshal() ([]byte, error) {
	name, err := packName(h.Name)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, volumeHeaderSize)
	copy(buf[0:13], name)
	buf[13] = 0
	buf[14] = h.DiskCount
	buf[15] = 0
	binary.LittleEndian.PutUint32(buf[16:20], h.ExpandedTotal)
	return buf, nil
}

func unmarshalVolumeHeader(buf []byte) (VolumeHeader, error) {
	var h VolumeHeader
	if len(buf) < volumeHeaderSize {
		return h, ErrBadMagic
	}
	name, err := unpackName(buf[0:13])
	if err != nil {
		return h, err
	}
	h.Name = name
	h.DiskCount = buf[14]
	h.ExpandedTotal = binary.LittleEndian.Uint32(buf[16:20])
	return h, nil
}

// FileHeader is the 32-byte per-member record preceding each member's
// imploded payload. Grounded on PACK_LFG.H's "FILE DATA, REPEAT FOR
// EACH FILE" block.
type FileHeader struct {
	// SpanLength is the byte count of compressed data (including this
	// header) up to the next FILE marker or end of archive.
	SpanLength int64
	Name       string
	// ExpandedLength is the size of the member after decoding.
	ExpandedLength int64
	// Unknown is the opaque 6-byte field the source calls "unknown".
	// Preserved verbatim; never interpreted.
	Unknown [6]byte
}

func (h FileHeader) marshal() ([]byte, error) {
	name, err := packName(h.Name)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, fileHeaderSize)
	copy(buf[0:4], fileMagic)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(h.SpanLength))
	copy(buf[8:21], name)
	buf[21] = 0
	binary.LittleEndian.PutUint32(buf[22:26], uint32(h.ExpandedLength))
	unk := h.Unknown
	if unk == ([6]byte{}) {
		unk = defaultUnknown
	}
	copy(buf[26:32], unk[:])
	return buf, nil
}

func unmarshalFileHeader(buf []byte) (FileHeader, error) {
	var h FileHeader
	if len(buf) < fileHeaderSize || string(buf[0:4]) != fileMagic {
		return h, Error("bad file marker")
	}
	h.SpanLength = int64(binary.LittleEndian.Uint32(buf[4:8]))
	name, err := unpackName(buf[8:21])
	if err != nil {
		return h, err
	}
	h.Name = name
	h.ExpandedLength = int64(binary.LittleEndian.Uint32(buf[22:26]))
	copy(h.Unknown[:], buf[26:32])
	return h, nil
}

// packName encodes a NUL-terminated, fixed-width 13-byte archive/file
// name field, erroring if name (plus its terminator) does not fit.
func packName(name string) ([]byte, error) {
	if len(name) >= nameFieldSize {
		return nil, ErrBadName
	}
	buf := make([]byte, nameFieldSize)
	copy(buf, name)
	return buf, nil
}

// unpackName decodes a fixed-width NUL-terminated name field.
func unpackName(buf []byte) (string, error) {
	errs.Assert(len(buf) == nameFieldSize, ErrBadName)
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i]), nil
		}
	}
	return "", ErrBadName
}
