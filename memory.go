package tsfile

// MemoryFootprint breaks estimateMaxSeriesMemSize's total into the three
// components a caller's eviction policy might want to distinguish: bytes
// still inside an encoder's internal state, bytes in the currently open
// (unsealed) page, and bytes already sealed into the chunk buffer but not
// yet flushed to a file.
type MemoryFootprint struct {
	EncoderInternalBytes int64
	OpenPageBytes        int64
	SealedChunkBytes     int64
}

// Total is the sum of the three components, equal to estimateMaxSeriesMemSize.
func (m MemoryFootprint) Total() int64 {
	return m.EncoderInternalBytes + m.OpenPageBytes + m.SealedChunkBytes
}

// footprint computes the memory breakdown for one ValueChunkWriter.
func (w *ValueChunkWriter) footprint() MemoryFootprint {
	internal := int64(w.page.encoder.TailBytes())
	if w.page.timeEncoder != nil {
		internal += int64(w.page.timeEncoder.TailBytes())
	}
	open := int64(w.page.UncompressedBytes()) - internal
	var sealed int64
	for _, p := range w.chunk.pages {
		sealed += int64(p.compressedSize)
	}
	return MemoryFootprint{EncoderInternalBytes: internal, OpenPageBytes: open, SealedChunkBytes: sealed}
}

// SeriesMemorySnapshot names one series' memory breakdown within a
// ChunkGroupWriter's MemorySnapshot.
type SeriesMemorySnapshot struct {
	MeasurementID string
	Footprint     MemoryFootprint
}

// MemorySnapshot returns the memory footprint of every installed writer in
// the group, aligned-group columns included, so a global eviction policy
// can see which series dominates this group's held bytes without
// re-deriving the breakdown itself.
func (g *ChunkGroupWriter) MemorySnapshot() []SeriesMemorySnapshot {
	var out []SeriesMemorySnapshot
	if g.aligned != nil {
		out = append(out, SeriesMemorySnapshot{MeasurementID: "", Footprint: g.aligned.time.footprint()})
		for _, vw := range g.aligned.values {
			out = append(out, SeriesMemorySnapshot{MeasurementID: vw.schema.MeasurementID, Footprint: vw.footprint()})
		}
	}
	for _, id := range g.order {
		out = append(out, SeriesMemorySnapshot{MeasurementID: id, Footprint: g.singles[id].value.footprint()})
	}
	return out
}
