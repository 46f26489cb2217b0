package implode

import (
	"bytes"
	"io"
)

// ImplodeOptions carries the required and optional parameters to Implode.
type ImplodeOptions struct {
	// Length is the exact number of input bytes Implode will read from
	// the source. The encoder needs this up front the way IMPLODE.C's
	// implode() takes an explicit length argument rather than reading
	// to EOF.
	Length int64

	LiteralMode    uint8
	DictionarySize uint8 // 4, 5, or 6

	// OptimizationLevel selects among the four token-selection
	// strategies (0-3), or 5 for the cross-parameter meta-search.
	OptimizationLevel int

	// ByteCountCap and NextSink together model a multi-segment sink: once
	// ByteCountCap bytes have been written to the current sink, NextSink
	// is asked for a replacement sink and a new cap.
	ByteCountCap int64
	NextSink     SinkFunc

	Stats *Stats
}

// Implode encodes exactly opts.Length bytes read from r, writing the
// imploded bitstream to w, and returns the number of bytes written for
// this member, counting the bytes sent to w and to every sink NextSink
// supplied (the way IMPLODE.C's implode() returns the running
// write_bitstream.bytes_written).
//
// Grounded on IMPLODE.C's implode(): two plain header bytes, then a
// token loop that pulls candidate matches from the encode buffer via
// findMatch and resolves the literal-vs-reference choice via
// selectToken, before finishing with the length-519 end marker and a
// zero-padded final byte.
func Implode(r io.Reader, w io.Writer, opts *ImplodeOptions) (n int64, err error) {
	if opts.OptimizationLevel == 5 {
		return implodeMeta(r, w, opts)
	}

	defer errRecover(&err)

	if opts.LiteralMode > LiteralASCII {
		panic(ErrBadHeader)
	}
	if !validDictionarySize(opts.DictionarySize) {
		panic(ErrBadHeader)
	}

	mode, ds := opts.LiteralMode, opts.DictionarySize
	window := windowSize(ds)
	st := opts.Stats
	st.initMinimums(window)

	var eb encodeBuffer
	if err := eb.Init(r); err != nil {
		panic(err)
	}

	var bw bitWriter
	bw.Init(w, opts.ByteCountCap, opts.NextSink)

	if err := bw.emitByte(mode); err != nil {
		panic(err)
	}
	if err := bw.emitByte(ds); err != nil {
		panic(err)
	}

	var cursor uint32
	var bytesEncoded int64
	length := opts.Length

	for bytesEncoded < length {
		if err := eb.RefillIfNeeded(cursor); err != nil {
			panic(err)
		}
		cursor %= bufSize

		dec := selectToken(&eb, cursor, window, bytesEncoded, length, opts.OptimizationLevel, mode, uint32(ds))

		if dec.literal {
			if err := writeLiteral(&bw, mode, eb.At(cursor)); err != nil {
				panic(err)
			}
			cursor++
			bytesEncoded++
			st.noteLiteral()
		} else {
			if err := writeReference(&bw, dec.length, dec.offset, uint32(ds)); err != nil {
				panic(err)
			}
			cursor += dec.length
			bytesEncoded += int64(dec.length)
			st.noteReference(dec.length, dec.offset)
		}
	}

	if err := bw.WriteBit(1); err != nil {
		panic(err)
	}
	if err := bw.WriteBitsMSB(7, 0); err != nil {
		panic(err)
	}
	if err := bw.WriteBitsLSB(8, 0xFF); err != nil {
		panic(err)
	}
	if err := bw.Flush(); err != nil {
		panic(err)
	}

	if st != nil {
		st.DictionarySize = ds
		st.LiteralMode = mode
	}
	return bw.BytesWritten(), nil
}

func writeLiteral(bw *bitWriter, mode uint8, value byte) error {
	if err := bw.WriteBit(0); err != nil {
		return err
	}
	if mode == LiteralBinary {
		return bw.WriteBitsLSB(8, uint(value))
	}
	bits, code := findLiteralCode(value)
	return bw.WriteBitsMSB(uint(bits), uint(code))
}

func writeReference(bw *bitWriter, length, offset, dictSizeBits uint32) error {
	lowBits := dictSizeBits
	if length == 2 {
		lowBits = 2
	}
	lengthBits, lengthCode, lsbBits, lsbVal := findLengthCode(length)

	if err := bw.WriteBit(1); err != nil {
		return err
	}
	if err := bw.WriteBitsMSB(uint(lengthBits), uint(lengthCode)); err != nil {
		return err
	}
	if err := bw.WriteBitsLSB(uint(lsbBits), uint(lsbVal)); err != nil {
		return err
	}

	highBits, highCode := findOffsetCode(offset >> lowBits)
	if err := bw.WriteBitsMSB(uint(highBits), uint(highCode)); err != nil {
		return err
	}
	return bw.WriteBitsLSB(uint(lowBits), uint(offset))
}

// implodeMeta is the opt=5 outer driver: it buffers the input once and
// tries the cross product of literal mode, dictionary size, and
// optimization level 0-3, keeping whichever combination produced the
// fewest output bytes. Grounded on the "implementers may limit
// combinations" note alongside this format's description, and on the
// teacher's internal/tool/bench harness shape of running several
// encodings over the same input and reporting the smallest.
func implodeMeta(r io.Reader, w io.Writer, opts *ImplodeOptions) (int64, error) {
	input := make([]byte, opts.Length)
	if _, err := io.ReadFull(r, input); err != nil {
		return 0, err
	}

	dictSizes := []uint8{4, 5, 6}
	if opts.Length > 20*1024 {
		dictSizes = []uint8{6}
	}

	var best *bytes.Buffer
	var bestStats Stats
	for _, mode := range []uint8{LiteralBinary, LiteralASCII} {
		for _, ds := range dictSizes {
			for _, level := range []int{0, 1, 2, 3} {
				var buf bytes.Buffer
				var st Stats
				trial := &ImplodeOptions{
					Length:            opts.Length,
					LiteralMode:       mode,
					DictionarySize:    ds,
					OptimizationLevel: level,
					Stats:             &st,
				}
				if _, err := Implode(bytes.NewReader(input), &buf, trial); err != nil {
					return 0, err
				}
				if best == nil || buf.Len() < best.Len() {
					best = &buf
					bestStats = st
				}
			}
		}
	}

	var bw bitWriter
	bw.Init(w, opts.ByteCountCap, opts.NextSink)
	for _, b := range best.Bytes() {
		if err := bw.emitByte(b); err != nil {
			return bw.BytesWritten(), err
		}
	}
	if opts.Stats != nil {
		*opts.Stats = bestStats
	}
	return bw.BytesWritten(), nil
}
