package lfgarchive

import (
	"bytes"
	"io"
	"testing"

	"github.com/SeltmannSoftware/lfgpack/implode"
	"github.com/SeltmannSoftware/lfgpack/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

// memSegment is an io.ReadWriteSeeker backed by an in-memory byte
// slice, standing in for one physical disk-segment file in tests.
type memSegment struct {
	buf []byte
	pos int64
}

func (m *memSegment) Write(p []byte) (int, error) {
	if m.pos < int64(len(m.buf)) {
		n := copy(m.buf[m.pos:], p)
		m.buf = append(m.buf, p[n:]...)
		m.pos += int64(len(p))
		return len(p), nil
	}
	m.buf = append(m.buf, p...)
	m.pos += int64(len(p))
	return len(p), nil
}

func (m *memSegment) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memSegment) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.pos = offset
	case io.SeekCurrent:
		m.pos += offset
	case io.SeekEnd:
		m.pos = int64(len(m.buf)) + offset
	}
	return m.pos, nil
}

// memSegments is a SegmentSource backed by a growable slice of
// memSegment, one per disk.
type memSegments struct {
	segs []*memSegment
}

func (ms *memSegments) Open(index int) (io.ReadWriteSeeker, error) {
	for len(ms.segs) <= index {
		ms.segs = append(ms.segs, &memSegment{})
	}
	ms.segs[index].pos = 0 // Like reopening a file: start at offset 0.
	return ms.segs[index], nil
}

func TestArchiveRoundTrip(t *testing.T) {
	rnd := testutil.NewRand(0)
	files := []struct {
		name string
		data []byte
	}{
		{"README.TXT", []byte("Welcome to the installer.\n")},
		{"DATA.BIN", rnd.Bytes(4096)},
		{"EMPTY.DAT", nil},
	}

	segments := &memSegments{}
	vol := VolumeHeader{Name: "GAME.LFG", DiskCount: 1}
	for _, f := range files {
		vol.ExpandedTotal += uint32(len(f.data))
	}

	wr, err := NewWriter(segments, vol, 1<<20)
	if err != nil {
		t.Fatalf("NewWriter error: %v", err)
	}
	for _, f := range files {
		err := wr.WriteFile(f.name, int64(len(f.data)), int64(len(f.data)), bytes.NewReader(f.data), &implode.ImplodeOptions{
			LiteralMode:       implode.LiteralBinary,
			DictionarySize:    6,
			OptimizationLevel: 1,
		})
		if err != nil {
			t.Fatalf("WriteFile(%s) error: %v", f.name, err)
		}
	}
	if err := wr.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	rd, err := NewReader(segments)
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	if diff := cmp.Diff(vol, rd.Volume); diff != "" {
		t.Errorf("VolumeHeader mismatch (-want +got):\n%s", diff)
	}

	for i, want := range files {
		fh, member, err := rd.Next()
		if err != nil {
			t.Fatalf("file %d: Next error: %v", i, err)
		}
		if fh.Name != want.name {
			t.Errorf("file %d: name got %q, want %q", i, fh.Name, want.name)
		}
		got, err := io.ReadAll(member)
		if err != nil {
			t.Fatalf("file %d: read error: %v", i, err)
		}
		if !bytes.Equal(got, want.data) {
			t.Errorf("file %d (%s): content mismatch", i, want.name)
		}
	}

	if _, _, err := rd.Next(); err != io.EOF {
		t.Errorf("final Next: got err=%v, want io.EOF", err)
	}
}

func TestHeaderMarshalRoundTrip(t *testing.T) {
	fh := FileHeader{
		SpanLength:     1234,
		Name:           "SETUP.EXE",
		ExpandedLength: 5678,
	}
	buf, err := fh.marshal()
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	got, err := unmarshalFileHeader(buf)
	if err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	got.Unknown = [6]byte{} // defaulted on marshal; not asserted here.
	fh.Unknown = [6]byte{}
	if diff := cmp.Diff(fh, got); diff != "" {
		t.Errorf("FileHeader round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestNameTooLong(t *testing.T) {
	fh := FileHeader{Name: "THISNAMEISWAYTOOLONG.EXE"}
	if _, err := fh.marshal(); err != ErrBadName {
		t.Errorf("got err=%v, want ErrBadName", err)
	}
}
