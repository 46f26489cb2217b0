package implode

// Stats reports token-level counters for one Explode or Implode call,
// grounded on the teacher's Stats-style exported result structs
// (bzip2.WriterStats, flate.ReaderStats) and the original
// implode_stats_type.
type Stats struct {
	LiteralCount  int64
	ReferenceCount int64

	MinLength int
	MaxLength int
	MinOffset int
	MaxOffset int

	// LengthHistogram counts how many reference tokens used each copy
	// length, indexed [0,520).
	LengthHistogram [endLength + 1]int64

	DictionarySize uint8
	LiteralMode    uint8
}

// initMinimums seeds MinLength/MinOffset the way implode_stats_type does
// (min_length=1024, min_offset=dictionary_size_bytes), so the first
// noteReference call always lowers them correctly.
func (st *Stats) initMinimums(dictSizeBytes int) {
	if st == nil {
		return
	}
	st.MinLength = 1024
	st.MinOffset = dictSizeBytes
}

func (st *Stats) noteLiteral() {
	if st == nil {
		return
	}
	st.LiteralCount++
}

func (st *Stats) noteReference(length, offset uint32) {
	if st == nil {
		return
	}
	st.ReferenceCount++
	if int(length) > st.MaxLength {
		st.MaxLength = int(length)
	}
	if int(length) < st.MinLength {
		st.MinLength = int(length)
	}
	if int(offset) > st.MaxOffset {
		st.MaxOffset = int(offset)
	}
	if int(offset) < st.MinOffset {
		st.MinOffset = int(offset)
	}
	if int(length) < len(st.LengthHistogram) {
		st.LengthHistogram[length]++
	}
}
