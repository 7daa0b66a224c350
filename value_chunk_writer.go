package tsfile

import (
	"fmt"
	"log/slog"
)

// ValueChunkWriter is one series' writer: a page buffer, its compressed
// chunk accumulator, and the running per-chunk statistics. It is the
// building block both ChunkWriter (non-aligned) and AlignedChunkWriter use.
type ValueChunkWriter struct {
	schema     MeasurementSchema
	cfg        Config
	page       *PageBuffer
	chunk      *ChunkBuffer
	compressor Compressor
	log        *slog.Logger
	flushed    bool
}

// NewValueChunkWriter builds a writer for one measurement whose time axis
// is owned elsewhere (an aligned group's shared TimeChunkWriter). ts
// arguments passed to Write are ignored.
func NewValueChunkWriter(schema MeasurementSchema, cfg Config, log *slog.Logger) (*ValueChunkWriter, error) {
	page, err := newPageBuffer(schema.Type, schema.Encoding)
	if err != nil {
		return nil, err
	}
	return newValueChunkWriter(schema, cfg, log, page)
}

// NewValueChunkWriterWithOwnTime builds a writer for a non-aligned series
// that carries its own independent timestamps inline in its pages.
func NewValueChunkWriterWithOwnTime(schema MeasurementSchema, cfg Config, log *slog.Logger) (*ValueChunkWriter, error) {
	page, err := newPageBufferWithTime(schema.Type, schema.Encoding, cfg.DefaultTimeEncoding)
	if err != nil {
		return nil, err
	}
	return newValueChunkWriter(schema, cfg, log, page)
}

func newValueChunkWriter(schema MeasurementSchema, cfg Config, log *slog.Logger, page *PageBuffer) (*ValueChunkWriter, error) {
	compressor, err := NewCompressor(schema.Compression)
	if err != nil {
		return nil, err
	}
	return &ValueChunkWriter{
		schema:     schema,
		cfg:        cfg,
		page:       page,
		chunk:      newChunkBuffer(schema.Type),
		compressor: compressor,
		log:        orDiscard(log),
	}, nil
}

// Write records one point, sealing the current page afterward if the
// page-size policy is crossed. ts is only meaningful for a writer built
// with NewValueChunkWriterWithOwnTime.
func (w *ValueChunkWriter) Write(ts int64, v Value) error {
	if err := w.writeNoAutoSeal(ts, v); err != nil {
		return err
	}
	if w.checkIsUnsealedPageOverThreshold(w.page.UncompressedBytes()) || w.page.PointCount() >= int(w.cfg.MaxPointsPerPage) {
		return w.sealCurrentPage()
	}
	return nil
}

// writeNoAutoSeal records one point without consulting the page-size
// policy itself. An aligned group's sub-writers all route through this
// instead of Write: a page boundary there must be decided once from the
// combined state of every column sharing the time axis, never by one
// column sealing on its own the instant it happens to cross its own byte
// threshold first.
func (w *ValueChunkWriter) writeNoAutoSeal(ts int64, v Value) error {
	if w.flushed {
		return fmt.Errorf("%w: writer already flushed", ErrIoFailure)
	}
	if !v.IsNull && v.Type.storageType() != w.schema.Type.storageType() {
		return &TypeMismatchError{MeasurementID: w.schema.MeasurementID, Want: w.schema.Type, Got: v.Type}
	}
	return w.page.Write(ts, v)
}

// WriteBatch writes values[i] at times[i] for each i by calling Write once
// per point, so the page-size check runs after every point; no per-point
// work is shared across the batch. times is ignored for writers whose time
// axis is owned elsewhere.
func (w *ValueChunkWriter) WriteBatch(times []int64, values []Value) error {
	for i, v := range values {
		if err := w.Write(times[i], v); err != nil {
			return err
		}
	}
	return nil
}

// checkIsUnsealedPageOverThreshold is a pure query: does the current,
// unsealed page's estimated size already meet the configured threshold.
func (w *ValueChunkWriter) checkIsUnsealedPageOverThreshold(size int) bool {
	return int64(size) >= w.cfg.PageSizeThresholdBytes
}

// checkIsChunkSizeOverThreshold answers whether the chunk built so far
// should be flushed: if the chunk has no sealed pages it returns
// returnTrueIfEmpty; otherwise it is true iff the accumulated point count
// reaches pointNum or the estimated serialized size reaches the configured
// chunk-size threshold. This is a
// backpressure query for the caller; the writer never self-flushes a
// chunk.
func (w *ValueChunkWriter) checkIsChunkSizeOverThreshold(pointNum int, returnTrueIfEmpty bool) bool {
	if w.chunk.IsEmpty() {
		return returnTrueIfEmpty
	}
	if w.chunk.PointCount() >= pointNum {
		return true
	}
	return int64(w.chunk.EstimatedSerializedSize(w.cfg.WritePageCRC)) >= w.cfg.ChunkSizeThresholdBytes
}

// sealCurrentPage force-seals the in-memory page even if under threshold.
// No-op if the page is empty.
func (w *ValueChunkWriter) sealCurrentPage() error {
	sealed, ok, err := w.page.seal(w.compressor, w.cfg.WritePageCRC)
	if err != nil {
		return err
	}
	if ok {
		w.chunk.AddPage(sealed)
		w.log.Debug("sealed page", "measurement", w.schema.MeasurementID, "points", sealed.pointCount, "compressedBytes", sealed.compressedSize)
	}
	return nil
}

// clearPageWriter discards the open page's contents without sealing them:
// encoder state, bitmap, and statistics all reset. Sealed pages already in
// the chunk buffer are untouched.
func (w *ValueChunkWriter) clearPageWriter() {
	w.page.reset()
}

// IsEmpty reports whether neither the open page nor the sealed chunk holds
// any point.
func (w *ValueChunkWriter) IsEmpty() bool {
	return w.page.IsEmpty() && w.chunk.IsEmpty()
}

// estimateMaxSeriesMemSize upper-bounds the bytes currently held by this
// writer: the encoder's internal state, the open page's estimated size,
// and the sealed-but-unflushed chunk bytes.
func (w *ValueChunkWriter) estimateMaxSeriesMemSize() int64 {
	total := int64(w.page.UncompressedBytes())
	for _, p := range w.chunk.pages {
		total += int64(p.compressedSize)
	}
	return total
}

// writeToFileWriter seals the current page if non-empty, then emits the
// chunk header (with inline statistics iff the chunk ends up with exactly
// one page) followed by every sealed page's header and compressed payload,
// in insertion order. The writer is left empty afterward and marked
// unusable for further writes.
func (w *ValueChunkWriter) writeToFileWriter(fw FileWriter, markerFor func(onlyOnePage bool) byte) (int, error) {
	if err := w.sealCurrentPage(); err != nil {
		return 0, err
	}
	if w.chunk.IsEmpty() {
		w.flushed = true
		return 0, nil
	}
	onlyOnePage := w.chunk.NumPages() == 1
	m := markerFor(onlyOnePage)
	// the sole page of a single-page chunk omits both statistics (inlined
	// in the chunk header instead) and the page CRC
	writeCRC := !onlyOnePage && w.cfg.WritePageCRC
	dataSize := 0
	for _, p := range w.chunk.pages {
		dataSize += pageHeaderLen(p, !onlyOnePage, writeCRC) + p.compressedSize
	}
	if err := fw.StartFlushChunk(w.schema.MeasurementID, w.schema.Compression, w.schema.Type, w.schema.Encoding, w.chunk.Statistics(), dataSize, w.chunk.NumPages(), m); err != nil {
		return 0, err
	}
	written := 0
	for _, p := range w.chunk.pages {
		hdr := PageHeader{
			UncompressedSize: p.uncompressedSize,
			CompressedSize:   p.compressedSize,
			CRC:              p.crc,
			HasCRC:           writeCRC,
		}
		var headerBytes []byte
		if onlyOnePage {
			headerBytes = serializePageHeader(hdr, false, false)
		} else {
			hdr.Statistics = p.statistics
			headerBytes = serializePageHeader(hdr, true, writeCRC)
		}
		n, err := fw.WriteBytesToStream(headerBytes)
		if err != nil {
			return written, err
		}
		written += n
		n, err = fw.WriteBytesToStream(p.compressed)
		if err != nil {
			return written, err
		}
		written += n
	}
	if err := fw.EndCurrentChunk(); err != nil {
		return written, err
	}
	numPages := w.chunk.NumPages()
	w.chunk.Reset()
	w.flushed = true
	w.log.Debug("flushed chunk", "measurement", w.schema.MeasurementID, "pages", numPages, "bytes", written)
	return written, nil
}

// writePageHeaderAndDataIntoBuff splices an already-encoded page (as
// produced elsewhere, e.g. when rewriting an existing file) directly into
// this writer's chunk buffer without re-encoding, advancing chunk
// statistics from the supplied header. The header's statistics count only
// present values, so the page's total point count (nulls included) is read
// back from the payload's leading varint instead.
func (w *ValueChunkWriter) writePageHeaderAndDataIntoBuff(header PageHeader, compressed []byte) error {
	if header.CompressedSize != len(compressed) {
		return fmt.Errorf("%w: header compressed size %d does not match payload length %d", ErrPageFailure, header.CompressedSize, len(compressed))
	}
	payload, err := w.compressor.Decompress(compressed, header.UncompressedSize)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageFailure, err)
	}
	pointCount, _, err := readUvarint(payload, 0)
	if err != nil {
		return err
	}
	sp := sealedPage{
		pointCount:       int(pointCount),
		uncompressedSize: header.UncompressedSize,
		compressedSize:   header.CompressedSize,
		compressed:       compressed,
		statistics:       header.Statistics,
		crc:              header.CRC,
	}
	w.chunk.AddPage(sp)
	return nil
}
