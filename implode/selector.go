package implode

// tokenDecision is the result of selectToken: whether to emit the byte
// at the cursor as a literal, or a (length, offset) back-reference.
type tokenDecision struct {
	literal bool
	length  uint32
	offset  uint32
}

// dictEntryBits reports the bit cost of a (offset, length) back-reference,
// not counting any byte actually written. Grounded on IMPLODE.C's
// length_dictionary_entry.
func dictEntryBits(offset, length uint32, dictSizeBits uint32) uint32 {
	lowOffsetBits := dictSizeBits
	if length == 2 {
		lowOffsetBits = 2
	}
	lengthBits, _, lsbBits, _ := findLengthCode(length)
	highBits, _ := findOffsetCode(offset >> lowOffsetBits)
	return 1 + lengthBits + lsbBits + highBits + lowOffsetBits
}

// literalBits reports the bit cost of emitting b as a literal token
// (including the leading selector bit). Grounded on IMPLODE.C's
// length_literal.
func literalBits(mode byte, b byte) uint32 {
	if mode == LiteralBinary {
		return 1 + 8
	}
	bits, _ := findLiteralCode(b)
	return 1 + bits
}

// selectToken decides how to encode the token at cursor c, mirroring the
// four optimization levels in IMPLODE.C's implode() main loop verbatim:
// level 0 always takes the longest match; levels 1-3 weigh a one-byte
// literal followed by a second match against taking the match now, with
// level 2/3 additionally comparing bits-per-byte across both choices.
//
// The optLevel encoding matches IMPLODE.C: 0 is "version" none (always
// match), 1 is version A, 2 is version B, 3 is version D (A+B
// combined). There is no version C in the shipped encoder; it is
// unreachable in the original switch and not exposed here either.
func selectToken(buf *encodeBuffer, c uint32, window int, bytesEncoded, bytesLength int64, optLevel int, mode byte, dictSizeBits uint32) tokenDecision {
	m := findMatch(buf, c, window, bytesEncoded, bytesLength)
	if !m.found {
		return tokenDecision{literal: true}
	}

	useLiteral := false
	length, offset := m.length, m.offset

	if optLevel > 0 {
		lm := findMatch(buf, (c+1)%bufSize, window, bytesEncoded+1, bytesLength)
		literalCheck := lm.found
		literalLength, literalOffset := lm.length, lm.offset

		if optLevel > 1 && literalCheck {
			possibleBitcount := dictEntryBits(offset, length, dictSizeBits)
			bitcountWithLiteral := dictEntryBits(literalOffset, literalLength, dictSizeBits)
			bitsPerByte := float64(possibleBitcount) / float64(length)
			bitsPerByteLit := float64(bitcountWithLiteral+literalBits(mode, buf.At(c))) / float64(literalLength+1)

			if bitsPerByteLit <= bitsPerByte {
				useLiteral = true

				sequenceLength := int64(literalLength) + 1 - int64(length)
				if sequenceLength > 0 {
					var sequenceBits uint32
					switch {
					case sequenceLength == 1:
						sequenceBits = literalBits(mode, buf.At(c+length))
					case sequenceLength == 2 && literalOffset > 255:
						sequenceBits = literalBits(mode, buf.At(c+length)) + literalBits(mode, buf.At(c+length+1))
					default:
						sequenceBits = dictEntryBits(literalOffset, uint32(sequenceLength), dictSizeBits)
					}
					if possibleBitcount+sequenceBits <= bitcountWithLiteral+literalBits(mode, buf.At(c)) {
						useLiteral = false
					}
				}
			}
		}

		if optLevel == 1 || optLevel == 3 {
			ll := literalLength
			if !literalCheck {
				ll = 1
			}
			ll++

			var nextLength uint32
			if length == 2 && offset > 255 {
				nextLength = 0
			} else {
				nm := findMatch(buf, (c+length)%bufSize, window, bytesEncoded+int64(length), bytesLength)
				nl := nm.length
				if !nm.found {
					nl = 1
				}
				nextLength = nl + length
			}

			if nextLength > ll {
				useLiteral = false
			} else if optLevel == 1 {
				useLiteral = true
			}
		}
	}

	if useLiteral {
		return tokenDecision{literal: true}
	}
	return tokenDecision{length: length, offset: offset}
}
