package tsfile

import (
	"fmt"
	"log/slog"
)

// AlignedChunkWriter wraps one TimeChunkWriter and an ordered list of
// value-only ValueChunkWriters that share its time axis. A page boundary
// in the Time chunk is always matched by a simultaneous page seal in every
// Value chunk: sealing decisions are made once, from the combined state of
// every sub-writer, never from a single column alone.
type AlignedChunkWriter struct {
	cfg    Config
	log    *slog.Logger
	time   *TimeChunkWriter
	values []*ValueChunkWriter
	byID   map[string]int
	cursor int
}

// NewAlignedChunkWriter builds an aligned group writer for the given value
// schemas, in declared order.
func NewAlignedChunkWriter(schemas []MeasurementSchema, cfg Config, log *slog.Logger) (*AlignedChunkWriter, error) {
	timeWriter, err := NewTimeChunkWriter(cfg, log)
	if err != nil {
		return nil, err
	}
	values := make([]*ValueChunkWriter, len(schemas))
	byID := make(map[string]int, len(schemas))
	for i, s := range schemas {
		vw, err := NewValueChunkWriter(s, cfg, log)
		if err != nil {
			return nil, err
		}
		values[i] = vw
		byID[s.MeasurementID] = i
	}
	return &AlignedChunkWriter{cfg: cfg, log: orDiscard(log), time: timeWriter, values: values, byID: byID}, nil
}

// WriteColumn writes one value for the column at the current cursor
// position and advances the cursor. Use with CommitRow to stream a row
// column by column.
func (a *AlignedChunkWriter) WriteColumn(v Value) error {
	if a.cursor >= len(a.values) {
		return fmt.Errorf("%w: no more columns in this row", ErrIoFailure)
	}
	if err := a.values[a.cursor].writeNoAutoSeal(0, v); err != nil {
		return err
	}
	a.cursor++
	return nil
}

// CommitRow writes the row's timestamp into the Time chunk once every
// column has been supplied via WriteColumn, then applies the shared
// page-size check across every sub-writer.
func (a *AlignedChunkWriter) CommitRow(ts int64) error {
	if a.cursor != len(a.values) {
		return fmt.Errorf("%w: row committed with %d/%d columns written", ErrIoFailure, a.cursor, len(a.values))
	}
	if err := a.time.WriteTime(ts); err != nil {
		return err
	}
	a.cursor = 0
	return a.checkAndSealShared()
}

// WriteRow writes a whole row: one value per declared column, in order.
func (a *AlignedChunkWriter) WriteRow(ts int64, values []Value) error {
	if len(values) != len(a.values) {
		return fmt.Errorf("%w: row has %d values, writer has %d columns", ErrIoFailure, len(values), len(a.values))
	}
	for i, v := range values {
		if err := a.values[i].writeNoAutoSeal(0, v); err != nil {
			return err
		}
	}
	if err := a.time.WriteTime(ts); err != nil {
		return err
	}
	return a.checkAndSealShared()
}

// WriteColumnBatch ingests batchSize rows of a columnar batch. If fewer
// points remain in the current page than batchSize, the batch is split at
// that boundary first so the pre-existing page fills up and seals cleanly
// before any row of the next page is written.
func (a *AlignedChunkWriter) WriteColumnBatch(times []int64, columns [][]Value, batchSize int) error {
	if len(columns) != len(a.values) {
		return fmt.Errorf("%w: batch has %d columns, writer has %d", ErrIoFailure, len(columns), len(a.values))
	}
	r := a.time.getRemainingPointNumberForCurrentPage()
	if r < batchSize {
		if err := a.batchWrite(times, columns, r, 0); err != nil {
			return err
		}
		return a.batchWrite(times, columns, batchSize-r, r)
	}
	return a.batchWrite(times, columns, batchSize, 0)
}

// batchWrite writes rows [offset, offset+n) one at a time, each value
// column then the time column, and re-evaluates the shared page-size
// policy after every row. Checking per row (rather than once for the
// whole run) is what lets a single call still produce more than one page
// when n itself exceeds the remaining page capacity.
func (a *AlignedChunkWriter) batchWrite(times []int64, columns [][]Value, n int, offset int) error {
	for i := 0; i < n; i++ {
		for ci, col := range columns {
			if err := a.values[ci].writeNoAutoSeal(0, col[offset+i]); err != nil {
				return err
			}
		}
		if err := a.time.WriteTime(times[offset+i]); err != nil {
			return err
		}
		if err := a.checkAndSealShared(); err != nil {
			return err
		}
	}
	return nil
}

// checkAndSealShared seals the current page on every sub-writer if any one
// of them (time or any value column) reports its open page over
// threshold. The Time writer's remaining-points figure is derived from its
// open page's point count, so it reflects the seal without a separate
// refresh.
func (a *AlignedChunkWriter) checkAndSealShared() error {
	over := a.time.checkIsUnsealedPageOverThreshold(a.time.page.UncompressedBytes()) || a.time.page.PointCount() >= int(a.cfg.MaxPointsPerPage)
	if !over {
		for _, vw := range a.values {
			if vw.checkIsUnsealedPageOverThreshold(vw.page.UncompressedBytes()) {
				over = true
				break
			}
		}
	}
	if !over {
		return nil
	}
	if err := a.time.sealCurrentPage(); err != nil {
		return err
	}
	for _, vw := range a.values {
		if err := vw.sealCurrentPage(); err != nil {
			return err
		}
	}
	return nil
}

// ClearPageWriter discards every sub-writer's open page in lockstep,
// keeping the group's shared page boundaries coherent. Sealed pages are
// untouched.
func (a *AlignedChunkWriter) ClearPageWriter() {
	a.time.clearPageWriter()
	for _, vw := range a.values {
		vw.clearPageWriter()
	}
}

// IsEmpty reports whether the Time chunk (and therefore every column, per
// the lockstep invariant) holds no data.
func (a *AlignedChunkWriter) IsEmpty() bool {
	return a.time.IsEmpty()
}

// EstimateMaxSeriesMemSize sums the memory estimate of the Time writer and
// every value writer.
func (a *AlignedChunkWriter) EstimateMaxSeriesMemSize() int64 {
	total := a.time.estimateMaxSeriesMemSize()
	for _, vw := range a.values {
		total += vw.estimateMaxSeriesMemSize()
	}
	return total
}

// WriteToFileWriter flushes the Time chunk first, then every Value chunk
// in declared order, matching the on-disk ordering rule for aligned
// groups.
func (a *AlignedChunkWriter) WriteToFileWriter(fw FileWriter) (int, error) {
	total := 0
	n, err := a.time.writeToFileWriter(fw, markerForTime)
	if err != nil {
		return total, err
	}
	total += n
	for _, vw := range a.values {
		n, err := vw.writeToFileWriter(fw, markerForValue)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
