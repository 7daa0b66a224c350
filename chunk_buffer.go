package tsfile

// ChunkBuffer accumulates sealed, compressed pages belonging to one
// series' chunk and tracks the chunk's running statistics and point
// count. The chunk header's own serialized size is not known until
// writeToFileWriter time, because the single-page-vs-multi-page marker
// (and therefore whether each page header carries inline statistics)
// depends on the final page count.
type ChunkBuffer struct {
	dataType DataType
	pages    []sealedPage
	stats    *Statistics
	points   int
}

func newChunkBuffer(t DataType) *ChunkBuffer {
	return &ChunkBuffer{dataType: t, stats: NewStatistics(t)}
}

// AddPage appends a sealed page and merges its statistics into the chunk's
// running statistics.
func (c *ChunkBuffer) AddPage(p sealedPage) {
	c.pages = append(c.pages, p)
	c.stats.Merge(p.statistics)
	c.points += p.pointCount
}

// NumPages returns the number of sealed pages currently buffered.
func (c *ChunkBuffer) NumPages() int {
	return len(c.pages)
}

// IsEmpty reports whether no page has been sealed into this chunk yet.
func (c *ChunkBuffer) IsEmpty() bool {
	return len(c.pages) == 0
}

// PointCount returns the total point count across all sealed pages.
func (c *ChunkBuffer) PointCount() int {
	return c.points
}

// Statistics returns the chunk's merged statistics (not a copy).
func (c *ChunkBuffer) Statistics() *Statistics {
	return c.stats
}

// EstimatedSerializedSize returns the worst-case serialized size (as if
// every page carried its own inline statistics, i.e. the multi-page
// layout), used for the chunk-size backpressure check before the final
// single/multi-page decision is made at flush time.
func (c *ChunkBuffer) EstimatedSerializedSize(writeCRC bool) int {
	total := 0
	for _, p := range c.pages {
		total += pageHeaderLen(p, true, writeCRC) + p.compressedSize
	}
	return total
}

// Reset clears all sealed pages and statistics, called after a flush.
func (c *ChunkBuffer) Reset() {
	c.pages = nil
	c.stats = NewStatistics(c.dataType)
	c.points = 0
}

func pageHeaderLen(p sealedPage, includeStats bool, includeCRC bool) int {
	n := varintLen(uint64(p.uncompressedSize)) + varintLen(uint64(p.compressedSize))
	if includeStats {
		n += statisticsSerializedLen(p.statistics)
	}
	if includeCRC {
		n += 4
	}
	return n
}
