package lfgarchive

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// FileSegments is a SegmentSource backed by ordinary files on disk, one
// per archive segment. Segment 0 is base; segment i (i >= 1) is base
// with a trailing ".LFG" removed, followed by "." and the disk number
// i+1 zero-padded to three digits (GAME.LFG, GAME.002, GAME.003, ...).
// A base without that exact suffix keeps its full name (game.lfg,
// game.lfg.002, ...). This stands in for PACK_LFG.C's "take current
// archive filename, add one to 5th char from end" disk-naming scheme
// without replicating its in-place byte-bump.
type FileSegments struct {
	base string
	// Write, if true, opens segments for reading and writing (pack);
	// otherwise segments are opened read-only (unpack).
	Write bool

	opened []*os.File
}

// NewFileSegments returns a FileSegments rooted at base (the first
// segment's path; later segments are derived from it).
func NewFileSegments(base string, write bool) *FileSegments {
	return &FileSegments{base: base, Write: write}
}

func (fs *FileSegments) path(index int) string {
	if index == 0 {
		return fs.base
	}
	return fmt.Sprintf("%s.%03d", strings.TrimSuffix(fs.base, ".LFG"), index+1)
}

// Open implements SegmentSource.
func (fs *FileSegments) Open(index int) (io.ReadWriteSeeker, error) {
	var f *os.File
	var err error
	if fs.Write {
		f, err = os.Create(fs.path(index))
	} else {
		f, err = os.Open(fs.path(index))
	}
	if err != nil {
		return nil, err
	}
	fs.opened = append(fs.opened, f)
	return f, nil
}

// Close closes every segment file opened so far.
func (fs *FileSegments) Close() error {
	var first error
	for _, f := range fs.opened {
		if err := f.Close(); first == nil && err != nil {
			first = err
		}
	}
	return first
}
