package implode

import "io"

// ExplodeOptions carries the optional parameters to Explode. A zero-value
// ExplodeOptions (or a nil *ExplodeOptions) means: no expected-length
// check, no multi-segment rollover, no statistics collection.
type ExplodeOptions struct {
	// ExpectedLength, if non-zero, is compared against the actual
	// decoded byte count; a mismatch yields a non-fatal
	// *LengthMismatchError alongside the bytes already decoded.
	ExpectedLength int64

	// NextSource is invoked when the current source runs out mid-stream
	// (for archives that span disk segments). A nil NextSource means a
	// short read is always fatal.
	NextSource SourceFunc

	// Stats, if non-nil, receives token-level counters for this call.
	Stats *Stats
}

// Explode decodes one imploded member from r, writing the reconstructed
// bytes to w, and returns the total byte count written.
//
// Grounded on EXPLODE.C's extract_and_explode: header bytes are read as
// two plain bytes ahead of the bitstream proper, then the decode loop
// alternates a one-bit literal/reference selector with either an ASCII
// or binary literal decode or a length/offset pair, until the
// reserved end-of-data length (519) is seen.
func Explode(r io.Reader, w io.Writer, opts *ExplodeOptions) (n int64, err error) {
	defer errRecover(&err)

	var next SourceFunc
	var expected int64
	var st *Stats
	if opts != nil {
		next = opts.NextSource
		expected = opts.ExpectedLength
		st = opts.Stats
	}

	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			panic(ErrBadHeader)
		}
		panic(err)
	}
	mode, ds := hdr[0], hdr[1]
	if mode > LiteralASCII || !validDictionarySize(ds) {
		panic(ErrBadHeader)
	}

	var br bitReader
	br.Init(r, next)

	var ring outputRing
	ring.Init()

	st.initMinimums(windowSize(ds))

	for {
		sel, err := br.ReadBit()
		if err != nil {
			panic(err)
		}
		if sel == 0 {
			var v byte
			if mode == LiteralBinary {
				raw, err := br.ReadBitsLSB(8)
				if err != nil {
					panic(err)
				}
				v = byte(raw)
			} else {
				v, err = br.readASCIILiteral()
				if err != nil {
					panic(err)
				}
			}
			if err := ring.Emit(w, v); err != nil {
				panic(err)
			}
			st.noteLiteral()
			continue
		}

		length, err := br.readCopyLength()
		if err != nil {
			panic(err)
		}
		if length == endLength {
			break
		}

		lowBits := uint(ds)
		if length == 2 {
			lowBits = 2
		}
		high, err := br.readCopyOffsetHigh()
		if err != nil {
			panic(err)
		}
		low, err := br.ReadBitsLSB(lowBits)
		if err != nil {
			panic(err)
		}
		offset := (high << lowBits) | uint32(low)

		for i := uint32(0); i < length; i++ {
			b := ring.PeekBack(int(offset) + 1)
			if err := ring.Emit(w, b); err != nil {
				panic(err)
			}
		}
		st.noteReference(length, offset)
	}

	if err := ring.FlushRemainder(w); err != nil {
		panic(err)
	}
	n = ring.Total()

	if st != nil {
		st.DictionarySize = ds
		st.LiteralMode = mode
	}
	if expected != 0 && n != expected {
		err = &LengthMismatchError{Got: n, Want: expected}
	}
	return n, err
}
