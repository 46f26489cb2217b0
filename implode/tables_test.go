package implode

import (
	"bytes"
	"testing"
)

// TestLengthTableRoundTrip round-trips every representable copy length
// (2..518) through the encode/decode tables. The 519 end marker is
// covered by TestLengthEndMarkerRoundTrip.
func TestLengthTableRoundTrip(t *testing.T) {
	for length := uint32(2); length <= maxLength; length++ {
		bits, code, lsbBits, lsbVal := findLengthCode(length)

		var buf bytes.Buffer
		var bw bitWriter
		bw.Init(&buf, 0, nil)
		if err := bw.WriteBitsMSB(uint(bits), uint(code)); err != nil {
			t.Fatalf("length %d: WriteBitsMSB error: %v", length, err)
		}
		if err := bw.WriteBitsLSB(uint(lsbBits), uint(lsbVal)); err != nil {
			t.Fatalf("length %d: WriteBitsLSB error: %v", length, err)
		}
		if err := bw.Flush(); err != nil {
			t.Fatalf("length %d: Flush error: %v", length, err)
		}

		var br bitReader
		br.Init(bytes.NewReader(buf.Bytes()), nil)
		got, err := br.readCopyLength()
		if err != nil {
			t.Fatalf("length %d: readCopyLength error: %v", length, err)
		}
		if got != length {
			t.Errorf("length %d: round trip got %d", length, got)
		}
	}
}

// TestLengthEndMarkerRoundTrip checks the reserved 519 symbol, emitted
// the way Implode's end-marker sequence does (7 zero bits then 8
// one-bits LSB-first).
func TestLengthEndMarkerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	var bw bitWriter
	bw.Init(&buf, 0, nil)
	if err := bw.WriteBitsMSB(7, 0); err != nil {
		t.Fatal(err)
	}
	if err := bw.WriteBitsLSB(8, 0xFF); err != nil {
		t.Fatal(err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatal(err)
	}

	var br bitReader
	br.Init(bytes.NewReader(buf.Bytes()), nil)
	got, err := br.readCopyLength()
	if err != nil {
		t.Fatal(err)
	}
	if got != endLength {
		t.Errorf("got %d, want %d", got, endLength)
	}
}

// TestOffsetTableRoundTrip round-trips every high-offset value the
// bucket table can express (0..0x3F, the widest bucket's base value).
func TestOffsetTableRoundTrip(t *testing.T) {
	for high := uint32(0); high <= 0x3F; high++ {
		bits, code := findOffsetCode(high)

		var buf bytes.Buffer
		var bw bitWriter
		bw.Init(&buf, 0, nil)
		if err := bw.WriteBitsMSB(uint(bits), uint(code)); err != nil {
			t.Fatalf("high %#x: WriteBitsMSB error: %v", high, err)
		}
		if err := bw.Flush(); err != nil {
			t.Fatalf("high %#x: Flush error: %v", high, err)
		}

		var br bitReader
		br.Init(bytes.NewReader(buf.Bytes()), nil)
		got, err := br.readCopyOffsetHigh()
		if err != nil {
			t.Fatalf("high %#x: readCopyOffsetHigh error: %v", high, err)
		}
		if got != high {
			t.Errorf("high %#x: round trip got %#x", high, got)
		}
	}
}

// TestLiteralTableRoundTrip round-trips all 256 ASCII-mode literal
// bytes through the permutation and prefix code.
func TestLiteralTableRoundTrip(t *testing.T) {
	for b := 0; b < 256; b++ {
		value := byte(b)
		bits, code := findLiteralCode(value)

		var buf bytes.Buffer
		var bw bitWriter
		bw.Init(&buf, 0, nil)
		if err := bw.WriteBitsMSB(uint(bits), uint(code)); err != nil {
			t.Fatalf("byte %#x: WriteBitsMSB error: %v", value, err)
		}
		if err := bw.Flush(); err != nil {
			t.Fatalf("byte %#x: Flush error: %v", value, err)
		}

		var br bitReader
		br.Init(bytes.NewReader(buf.Bytes()), nil)
		got, err := br.readASCIILiteral()
		if err != nil {
			t.Fatalf("byte %#x: readASCIILiteral error: %v", value, err)
		}
		if got != value {
			t.Errorf("byte %#x: round trip got %#x", value, got)
		}
	}
}

// TestLiteralTableIsPermutation checks literalTable/literalLookup are
// mutual inverses over the full byte range.
func TestLiteralTableIsPermutation(t *testing.T) {
	var seen [256]bool
	for idx, b := range literalTable {
		if seen[b] {
			t.Fatalf("byte %#x appears more than once in literalTable", b)
		}
		seen[b] = true
		if literalLookup[b] != byte(idx) {
			t.Errorf("literalLookup[%#x] = %d, want %d", b, literalLookup[b], idx)
		}
	}
}
