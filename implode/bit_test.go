package implode

import (
	"bytes"
	"io"
	"testing"
)

func TestBitReaderWriterRoundTrip(t *testing.T) {
	var vectors = []struct {
		msb  []uint // widths to write/read MSB-first
		lsb  []uint // widths to write/read LSB-first
		vals []uint
	}{
		{msb: []uint{2, 3, 4}, vals: []uint{0x3, 0x5, 0xA}},
		{lsb: []uint{8, 8, 8}, vals: []uint{0x00, 0xFF, 0x7A}},
		{msb: []uint{1, 7, 8}, vals: []uint{1, 0x55, 0xAA}},
	}

	for i, v := range vectors {
		var buf bytes.Buffer
		var bw bitWriter
		bw.Init(&buf, 0, nil)
		for j, val := range v.vals {
			if v.msb != nil {
				if err := bw.WriteBitsMSB(v.msb[j], val); err != nil {
					t.Fatalf("test %d, WriteBitsMSB error: %v", i, err)
				}
			} else {
				if err := bw.WriteBitsLSB(v.lsb[j], val); err != nil {
					t.Fatalf("test %d, WriteBitsLSB error: %v", i, err)
				}
			}
		}
		if err := bw.Flush(); err != nil {
			t.Fatalf("test %d, Flush error: %v", i, err)
		}

		var br bitReader
		br.Init(bytes.NewReader(buf.Bytes()), nil)
		for j, want := range v.vals {
			var got uint
			var err error
			if v.msb != nil {
				got, err = br.ReadBitsMSB(v.msb[j])
			} else {
				got, err = br.ReadBitsLSB(v.lsb[j])
			}
			if err != nil {
				t.Fatalf("test %d, read %d error: %v", i, j, err)
			}
			if got != want {
				t.Errorf("test %d, read %d: got %#x, want %#x", i, j, got, want)
			}
		}
	}
}

// TestBitReaderRollover exercises the NextSource EOF-rollover hook: the
// reader pulls from a sequence of sources transparently.
func TestBitReaderRollover(t *testing.T) {
	segments := [][]byte{{0xAA}, {0x55}, {0x0F}}
	idx := 0
	next := func() (io.Reader, bool) {
		idx++
		if idx >= len(segments) {
			return nil, false
		}
		return bytes.NewReader(segments[idx]), true
	}

	var br bitReader
	br.Init(bytes.NewReader(segments[0]), next)

	got, err := br.ReadBitsLSB(24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := uint(0xAA) | uint(0x55)<<8 | uint(0x0F)<<16
	if got != want {
		t.Errorf("got %#x, want %#x", got, want)
	}
	if br.BytesRead() != 3 {
		t.Errorf("BytesRead: got %d, want 3", br.BytesRead())
	}

	// No more sources available: the next read must fail.
	if _, err := br.ReadBit(); err == nil {
		t.Errorf("expected error at end of all sources, got nil")
	}
}

// TestBitWriterRollover exercises the byte-count cap and SinkFunc hook.
func TestBitWriterRollover(t *testing.T) {
	var first, second bytes.Buffer
	handedOff := false
	next := func(cap int64) (io.Writer, int64, bool) {
		handedOff = true
		return &second, 10, true
	}

	var bw bitWriter
	bw.Init(&first, 2, next)
	for i := 0; i < 4; i++ {
		if err := bw.WriteBitsLSB(8, uint(0x10+i)); err != nil {
			t.Fatalf("WriteBitsLSB error: %v", err)
		}
	}
	if !handedOff {
		t.Errorf("expected rollover to have been invoked")
	}
	if first.Len() != 2 {
		t.Errorf("first sink: got %d bytes, want 2", first.Len())
	}
	if second.Len() != 2 {
		t.Errorf("second sink: got %d bytes, want 2", second.Len())
	}
	if bw.BytesWritten() != 4 {
		t.Errorf("BytesWritten: got %d, want 4", bw.BytesWritten())
	}
}

func TestBitWriterNoSinkAtCap(t *testing.T) {
	var buf bytes.Buffer
	var bw bitWriter
	bw.Init(&buf, 1, nil)
	if err := bw.WriteBitsLSB(8, 0x42); err != nil {
		t.Fatalf("unexpected error on first byte: %v", err)
	}
	if err := bw.WriteBitsLSB(8, 0x43); err != ErrNoSink {
		t.Errorf("got %v, want ErrNoSink", err)
	}
}
