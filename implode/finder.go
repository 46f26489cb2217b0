package implode

// match is a candidate back-reference: length bytes starting offset+1
// bytes before the cursor (spec.md section 3).
type match struct {
	length uint32
	offset uint32
	found  bool
}

// findMatch performs the exhaustive longest-match search over the valid
// dictionary window against the look-ahead, exactly as IMPLODE.C's
// compare_in_circular/check_dictionary do: no hash-chain acceleration,
// smallest offset wins ties (strictly-greater comparison keeps the
// first, smallest distance found).
//
// c is the encode cursor (mod bufSize). window is the dictionary size
// in bytes (1024/2048/4096). bytesEncoded/bytesLength bound how much
// history/look-ahead is valid.
func findMatch(buf *encodeBuffer, c uint32, window int, bytesEncoded, bytesLength int64) match {
	searchSize := int64(window)
	if bytesEncoded < searchSize {
		searchSize = bytesEncoded
	}
	maxLen := bytesLength - bytesEncoded
	if maxLen > maxLength {
		maxLen = maxLength
	}

	m := match{length: 1}
	for d := int64(1); d <= searchSize; d++ {
		n := compareRuns(buf, c, c-uint32(d), maxLen)
		if uint32(n) > m.length {
			m.length = uint32(n)
			m.offset = uint32(d - 1)
			m.found = true
		}
	}

	if m.length == 2 && m.offset > 255 {
		m.found = false
	}
	return m
}

// compareRuns compares buf at positions p1 and p2 (mod bufSize) for up
// to maxLen bytes, stopping at the first mismatch.
func compareRuns(buf *encodeBuffer, p1, p2 uint32, maxLen int64) int64 {
	var n int64
	for n < maxLen && buf.At(p1) == buf.At(p2) {
		p1++
		p2++
		n++
	}
	return n
}
