package implode

// This file holds the four static tables the format is built around:
// copy-length, copy-offset, ASCII-literal, and the literal byte
// permutation. None of these are canonical Huffman codes, so they are
// kept as direct translations of the original bucket tables rather than
// expressed through a generic prefix-tree builder (spec.md section 9,
// "Irregular prefix codes").

// bucketEntry describes one bit-length bucket of a "raw minus base,
// within count" prefix code, as used for both the copy-offset and the
// ASCII-literal code.
type bucketEntry struct {
	count    uint32 // Number of codes of this bit length
	baseVal  uint32 // Base output value for this bit length
	baseBits uint32 // Base input bit pattern for this bit length
}

// offsetBuckets is indexed by prefix bit length (2..8); lengths with a
// zero count never match. Grounded on EXPLODE.C's
// offset_bits_to_value_table.
var offsetBuckets = [9]bucketEntry{
	2: {count: 1, baseVal: 0x00, baseBits: 0x03},
	4: {count: 2, baseVal: 0x02, baseBits: 0x0A},
	5: {count: 4, baseVal: 0x06, baseBits: 0x10},
	6: {count: 15, baseVal: 0x15, baseBits: 0x11},
	7: {count: 26, baseVal: 0x2F, baseBits: 0x08},
	8: {count: 16, baseVal: 0x3F, baseBits: 0x00},
}

// offsetEncodeBuckets is the encode-side mirror of offsetBuckets,
// grounded on IMPLODE.C's offset_to_bits_table: each entry gives the
// smallest offset value the bucket covers, its bit width, and the bit
// pattern assigned to that smallest value (subsequent values subtract
// from it).
type offsetEncodeEntry struct {
	lookupMin uint32
	bits      uint32
	code      uint32
}

var offsetEncodeTable = []offsetEncodeEntry{
	{lookupMin: 0x30, bits: 8, code: 0x0F},
	{lookupMin: 0x16, bits: 7, code: 0x21},
	{lookupMin: 0x07, bits: 6, code: 0x1F},
	{lookupMin: 0x03, bits: 5, code: 0x13},
	{lookupMin: 0x01, bits: 4, code: 0x0B},
	{lookupMin: 0x00, bits: 2, code: 0x03},
}

// findOffsetCode returns the bit width and bit pattern to encode the
// high bits of a copy offset (offset already shifted right by the low
// bit count). Grounded on IMPLODE.C's find_offset_codes.
func findOffsetCode(highOffset uint32) (bits, code uint32) {
	for _, e := range offsetEncodeTable {
		if highOffset >= e.lookupMin {
			delta := highOffset - e.lookupMin
			return e.bits, e.code - delta
		}
	}
	panic(ErrCorrupt) // Unreachable: lookupMin 0 always matches.
}

// readCopyOffsetHigh decodes the high bits of a copy offset by growing
// the read prefix one bit at a time and checking each bucket in turn.
// Grounded on EXPLODE.C's read_copy_offset.
func (br *bitReader) readCopyOffsetHigh() (uint32, error) {
	bits, err := br.ReadBitsMSB(2)
	if err != nil {
		return 0, err
	}
	offsetBits := uint32(bits)
	for length := 2; length < 9; length++ {
		b := offsetBuckets[length]
		diff := int64(offsetBits) - int64(b.baseBits)
		if diff >= 0 && diff < int64(b.count) {
			return b.baseVal - uint32(diff), nil
		}
		next, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		offsetBits = (offsetBits << 1) | uint32(next)
	}
	return 0, ErrCorrupt
}

// lengthEncodeEntry is the encode-side copy-length table, grounded on
// IMPLODE.C's length_table.
type lengthEncodeEntry struct {
	lookupMin uint32
	bits      uint32
	code      uint32
	lsbCount  uint32
}

var lengthEncodeTable = []lengthEncodeEntry{
	{lookupMin: 264, bits: 7, code: 0, lsbCount: 8},
	{lookupMin: 136, bits: 7, code: 1, lsbCount: 7},
	{lookupMin: 72, bits: 6, code: 1, lsbCount: 6},
	{lookupMin: 40, bits: 6, code: 2, lsbCount: 5},
	{lookupMin: 24, bits: 6, code: 3, lsbCount: 4},
	{lookupMin: 16, bits: 5, code: 2, lsbCount: 3},
	{lookupMin: 12, bits: 5, code: 3, lsbCount: 2},
	{lookupMin: 10, bits: 5, code: 4, lsbCount: 1},
	{lookupMin: 9, bits: 5, code: 5, lsbCount: 0},
	{lookupMin: 8, bits: 4, code: 3, lsbCount: 0},
	{lookupMin: 7, bits: 4, code: 4, lsbCount: 0},
	{lookupMin: 6, bits: 4, code: 5, lsbCount: 0},
	{lookupMin: 5, bits: 3, code: 3, lsbCount: 0},
	{lookupMin: 4, bits: 3, code: 4, lsbCount: 0},
	{lookupMin: 3, bits: 2, code: 3, lsbCount: 0},
	{lookupMin: 2, bits: 3, code: 5, lsbCount: 0},
}

// findLengthCode returns the prefix bit width/value, and the trailing
// LSB-first extra-bit width/value, for encoding a given copy length
// (2..518, or the 519 end marker via length 519 handled by the caller).
// Grounded on IMPLODE.C's find_length_codes.
func findLengthCode(length uint32) (bits, code, lsbBits, lsbVal uint32) {
	for _, e := range lengthEncodeTable {
		if length >= e.lookupMin {
			return e.bits, e.code, e.lsbCount, length - e.lookupMin
		}
	}
	panic(ErrCorrupt) // Unreachable: lookupMin 2 always matches.
}

// readCopyLength decodes a copy-length token. This is a direct
// translation of EXPLODE.C's read_copy_length nested switch: the code is
// not a canonical Huffman tree (values 2 and 3 are swapped relative to
// what a length-ordered construction would produce), so the decoder
// follows the same branching shape as the original rather than a table
// walk.
func (br *bitReader) readCopyLength() (uint32, error) {
	b2, err := br.ReadBitsMSB(2)
	if err != nil {
		return 0, err
	}
	switch b2 {
	case 0:
		b4, err := br.ReadBitsMSB(2)
		if err != nil {
			return 0, err
		}
		switch b4 {
		case 0:
			b6, err := br.ReadBitsMSB(2)
			if err != nil {
				return 0, err
			}
			switch b6 {
			case 0:
				bit, err := br.ReadBit()
				if err != nil {
					return 0, err
				}
				if bit != 0 {
					extra, err := br.ReadBitsLSB(7)
					if err != nil {
						return 0, err
					}
					return 136 + uint32(extra), nil
				}
				extra, err := br.ReadBitsLSB(8)
				if err != nil {
					return 0, err
				}
				return 264 + uint32(extra), nil
			case 1:
				extra, err := br.ReadBitsLSB(6)
				if err != nil {
					return 0, err
				}
				return 72 + uint32(extra), nil
			case 2:
				extra, err := br.ReadBitsLSB(5)
				if err != nil {
					return 0, err
				}
				return 40 + uint32(extra), nil
			default: // 3
				extra, err := br.ReadBitsLSB(4)
				if err != nil {
					return 0, err
				}
				return 24 + uint32(extra), nil
			}
		case 1:
			bit, err := br.ReadBit()
			if err != nil {
				return 0, err
			}
			if bit != 0 {
				extra, err := br.ReadBitsLSB(2)
				if err != nil {
					return 0, err
				}
				return 12 + uint32(extra), nil
			}
			extra, err := br.ReadBitsLSB(3)
			if err != nil {
				return 0, err
			}
			return 16 + uint32(extra), nil
		case 2:
			bit, err := br.ReadBit()
			if err != nil {
				return 0, err
			}
			if bit != 0 {
				return 9, nil
			}
			extra, err := br.ReadBit()
			if err != nil {
				return 0, err
			}
			return 10 + uint32(extra), nil
		default: // 3
			return 8, nil
		}
	case 1:
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit != 0 {
			return 5, nil
		}
		bit, err = br.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit != 0 {
			return 6, nil
		}
		return 7, nil
	case 2:
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit != 0 {
			return 2, nil
		}
		return 4, nil
	default: // 3
		return 3, nil
	}
}

// literalBuckets decodes an ASCII-mode literal index (0..255) from a
// prefix code, grounded on EXPLODE.C's literal_bits_to_index_table.
var literalBuckets = [14]bucketEntry{
	4:  {count: 1, baseVal: 0, baseBits: 0x0F},
	5:  {count: 11, baseVal: 11, baseBits: 0x13},
	6:  {count: 20, baseVal: 31, baseBits: 0x12},
	7:  {count: 21, baseVal: 52, baseBits: 0x0F},
	8:  {count: 16, baseVal: 68, baseBits: 0x0E},
	9:  {count: 7, baseVal: 75, baseBits: 0x15},
	10: {count: 5, baseVal: 80, baseBits: 0x25},
	11: {count: 10, baseVal: 90, baseBits: 0x40},
	12: {count: 91, baseVal: 181, baseBits: 0x25},
	13: {count: 74, baseVal: 255, baseBits: 0x00},
}

// literalEncodeEntry is the encode-side mirror, grounded on IMPLODE.C's
// literal_to_bits_table.
type literalEncodeEntry struct {
	lookupMin uint32
	bits      uint32
	code      uint32
}

var literalEncodeTable = []literalEncodeEntry{
	{lookupMin: 182, bits: 13, code: 0x49},
	{lookupMin: 91, bits: 12, code: 0x7F},
	{lookupMin: 81, bits: 11, code: 0x49},
	{lookupMin: 76, bits: 10, code: 0x29},
	{lookupMin: 69, bits: 9, code: 0x1B},
	{lookupMin: 53, bits: 8, code: 0x1D},
	{lookupMin: 32, bits: 7, code: 0x23},
	{lookupMin: 12, bits: 6, code: 0x25},
	{lookupMin: 1, bits: 5, code: 0x1D},
	{lookupMin: 0, bits: 4, code: 0x0F},
}

// literalTable maps a decoded literal index to the actual output byte,
// ordered by decreasing frequency in the installers this format targets
// (printable ASCII first). Grounded verbatim on EXPLODE.C/IMPLODE.C's
// literal_table.
var literalTable = [256]byte{
	0x20,
	0x45, 0x61, 0x65, 0x69, 0x6c, 0x6e, 0x6f,
	0x72, 0x73, 0x74, 0x75,
	0x2d, 0x31, 0x41, 0x43,
	0x44, 0x49, 0x4c, 0x4e, 0x4f, 0x52, 0x53, 0x54,
	0x62, 0x63, 0x64, 0x66, 0x67, 0x68, 0x6d, 0x70,
	0x0a, 0x0d, 0x28, 0x29, 0x2c, 0x2e, 0x30, 0x32,
	0x33, 0x34, 0x35, 0x37, 0x38, 0x3d, 0x42, 0x46,
	0x4d, 0x50, 0x55, 0x6b, 0x77,
	0x09, 0x22, 0x27,
	0x2a, 0x2f, 0x36, 0x39, 0x3a, 0x47, 0x48, 0x57,
	0x5b, 0x5f, 0x76, 0x78, 0x79,
	0x2b, 0x3e, 0x4b, 0x56, 0x58, 0x59, 0x5d,
	0x21, 0x24, 0x26, 0x71, 0x7a,
	0x00, 0x3c, 0x3f, 0x4a, 0x51, 0x5a, 0x5c,
	0x6a, 0x7b, 0x7c,
	0x01, 0x02, 0x03, 0x04, 0x05,
	0x06, 0x07, 0x08, 0x0b, 0x0c, 0x0e, 0x0f, 0x10,
	0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18,
	0x19, 0x1b, 0x1c, 0x1d, 0x1e, 0x1f, 0x23, 0x25,
	0x3b, 0x40, 0x5e, 0x60, 0x7d, 0x7e, 0x7f, 0xb0,
	0xb1, 0xb2, 0xb3, 0xb4, 0xb5, 0xb6, 0xb7, 0xb8,
	0xb9, 0xba, 0xbb, 0xbc, 0xbd, 0xbe, 0xbf, 0xc0,
	0xc1, 0xc2, 0xc3, 0xc4, 0xc5, 0xc6, 0xc7, 0xc8,
	0xc9, 0xca, 0xcb, 0xcc, 0xcd, 0xce, 0xcf, 0xd0,
	0xd1, 0xd2, 0xd3, 0xd4, 0xd5, 0xd6, 0xd7, 0xd8,
	0xd9, 0xda, 0xdb, 0xdc, 0xdd, 0xde, 0xdf, 0xe1,
	0xe5, 0xe9, 0xee, 0xf2, 0xf3, 0xf4,
	0x1a, 0x80,
	0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88,
	0x89, 0x8a, 0x8b, 0x8c, 0x8d, 0x8e, 0x8f, 0x90,
	0x91, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97, 0x98,
	0x99, 0x9a, 0x9b, 0x9c, 0x9d, 0x9e, 0x9f, 0xa0,
	0xa1, 0xa2, 0xa3, 0xa4, 0xa5, 0xa6, 0xa7, 0xa8,
	0xa9, 0xaa, 0xab, 0xac, 0xad, 0xae, 0xaf, 0xe0,
	0xe2, 0xe3, 0xe4, 0xe6, 0xe7, 0xe8, 0xea, 0xeb,
	0xec, 0xed, 0xef, 0xf0, 0xf1, 0xf5, 0xf6, 0xf7,
	0xf8, 0xf9, 0xfa, 0xfb, 0xfc, 0xfd, 0xfe, 0xff,
}

// literalLookup is the inverse of literalTable: literalLookup[b] gives
// the index that encodes byte b. Computed once at init time, grounded
// on IMPLODE.C's literal_init.
var literalLookup [256]byte

func init() {
	for i, b := range literalTable {
		literalLookup[b] = byte(i)
	}
}

// readASCIILiteral decodes one ASCII-mode literal prefix code into its
// output byte. Grounded on EXPLODE.C's read_literal (literal_mode == 1
// branch).
func (br *bitReader) readASCIILiteral() (byte, error) {
	bits, err := br.ReadBitsMSB(4)
	if err != nil {
		return 0, err
	}
	literalBits := uint32(bits)
	for length := 4; length < 14; length++ {
		b := literalBuckets[length]
		diff := int64(literalBits) - int64(b.baseBits)
		if diff >= 0 && diff < int64(b.count) {
			idx := b.baseVal - uint32(diff)
			return literalTable[idx], nil
		}
		next, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		literalBits = (literalBits << 1) | uint32(next)
	}
	return 0, ErrCorrupt
}

// findLiteralCode returns the prefix bit width/value for the ASCII-mode
// encoding of the given output byte. Grounded on IMPLODE.C's
// find_literal_codes.
func findLiteralCode(value byte) (bits, code uint32) {
	idx := uint32(literalLookup[value])
	for _, e := range literalEncodeTable {
		if idx >= e.lookupMin {
			delta := idx - e.lookupMin
			return e.bits, e.code - delta
		}
	}
	panic(ErrCorrupt) // Unreachable: lookupMin 0 always matches.
}
