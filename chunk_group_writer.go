package tsfile

import (
	"fmt"
	"log/slog"
)

// ChunkGroupWriter owns every series writer for one device, routes
// row-oriented or column-oriented ingress to the right writer(s), and
// flushes the whole group to a FileWriter exactly once. Each series writer
// is installed on demand and exclusively owns its own page buffer, chunk
// buffer, encoder, compressor, and statistics; no mutable state is shared
// across series.
type ChunkGroupWriter struct {
	deviceID string
	cfg      Config
	log      *slog.Logger

	order   []string // installation order of non-aligned measurement IDs
	singles map[string]*ChunkWriter

	aligned        *AlignedChunkWriter
	alignedSchemas []MeasurementSchema
	alignedIndex   map[string]int

	maxGroupMemSize int64
	flushed         bool
}

// NewChunkGroupWriter creates an empty writer for one device. Series
// writers are installed with TryToAddSeriesWriter or
// TryToAddAlignedSeriesWriters before any write.
func NewChunkGroupWriter(deviceID string, cfg Config, log *slog.Logger) *ChunkGroupWriter {
	return &ChunkGroupWriter{
		deviceID: deviceID,
		cfg:      cfg,
		log:      orDiscard(log),
		singles:  make(map[string]*ChunkWriter),
	}
}

// TryToAddSeriesWriter installs a non-aligned series writer for schema.
// Idempotent: a second call with an identical schema is a no-op. A call
// naming an already-installed measurement with a conflicting schema
// returns a *SchemaConflictError.
func (g *ChunkGroupWriter) TryToAddSeriesWriter(schema MeasurementSchema) error {
	if err := schema.validate(); err != nil {
		return err
	}
	if existing, ok := g.singles[schema.MeasurementID]; ok {
		if existing.schema.Equal(schema) {
			return nil
		}
		g.log.Warn("schema conflict", "device", g.deviceID, "measurement", schema.MeasurementID)
		return &SchemaConflictError{MeasurementID: schema.MeasurementID, Existing: existing.schema, Requested: schema}
	}
	w, err := NewChunkWriter(schema, g.cfg, g.log)
	if err != nil {
		return err
	}
	g.singles[schema.MeasurementID] = w
	g.order = append(g.order, schema.MeasurementID)
	return nil
}

// TryToAddAlignedSeriesWriters installs one aligned group spanning all of
// schemas, sharing a single time axis. Idempotent under an identical
// schema list; a conflicting re-declaration returns a *SchemaConflictError
// naming the first mismatched measurement.
func (g *ChunkGroupWriter) TryToAddAlignedSeriesWriters(schemas []MeasurementSchema) error {
	if len(schemas) == 0 {
		return fmt.Errorf("%w: aligned group requires at least one schema", ErrIoFailure)
	}
	for _, s := range schemas {
		if err := s.validate(); err != nil {
			return err
		}
	}
	if g.aligned != nil {
		if len(schemas) != len(g.alignedSchemas) {
			g.log.Warn("schema conflict", "device", g.deviceID, "measurement", schemas[0].MeasurementID)
			return &SchemaConflictError{MeasurementID: schemas[0].MeasurementID, Existing: g.alignedSchemas[0], Requested: schemas[0]}
		}
		for i, s := range schemas {
			if !g.alignedSchemas[i].Equal(s) {
				g.log.Warn("schema conflict", "device", g.deviceID, "measurement", s.MeasurementID)
				return &SchemaConflictError{MeasurementID: s.MeasurementID, Existing: g.alignedSchemas[i], Requested: s}
			}
		}
		return nil
	}
	aw, err := NewAlignedChunkWriter(schemas, g.cfg, g.log)
	if err != nil {
		return err
	}
	g.aligned = aw
	g.alignedSchemas = append([]MeasurementSchema(nil), schemas...)
	g.alignedIndex = make(map[string]int, len(schemas))
	for i, s := range schemas {
		g.alignedIndex[s.MeasurementID] = i
	}
	return nil
}

// Write routes each data point to the writer installed under its
// measurement ID. Aligned-group points found in dataPoints are collected
// and committed as one row, sharing time; any aligned column absent from
// dataPoints is written as null for this row so every aligned sub-writer
// advances in lockstep.
func (g *ChunkGroupWriter) Write(time int64, dataPoints []DataPoint) error {
	if g.flushed {
		return fmt.Errorf("%w: chunk group already flushed", ErrIoFailure)
	}
	alignedRow := make([]Value, len(g.alignedSchemas))
	alignedTouched := false
	for i, s := range g.alignedSchemas {
		alignedRow[i] = NullValue(s.Type)
	}
	for _, dp := range dataPoints {
		if idx, ok := g.alignedIndex[dp.MeasurementID]; ok {
			alignedRow[idx] = dp.Value
			alignedTouched = true
			continue
		}
		w, ok := g.singles[dp.MeasurementID]
		if !ok {
			return &UnknownSeriesError{MeasurementID: dp.MeasurementID}
		}
		if err := w.Write(time, dp.Value); err != nil {
			return err
		}
	}
	if alignedTouched {
		if err := g.aligned.WriteRow(time, alignedRow); err != nil {
			return err
		}
	}
	return nil
}

// WriteTablet writes every row and column of tablet.
func (g *ChunkGroupWriter) WriteTablet(tablet Tablet) error {
	return g.WriteTabletRows(tablet, 0, tablet.RowCount)
}

// WriteTabletRows writes rows [startRow, endRow) of every column in
// tablet.
func (g *ChunkGroupWriter) WriteTabletRows(tablet Tablet, startRow, endRow int) error {
	return g.WriteTabletSlice(tablet, startRow, endRow, 0, len(tablet.Schemas))
}

// WriteTabletSlice writes rows [startRow, endRow) restricted to columns
// [startCol, endCol) of tablet, routing each column to the writer matching
// its schema's measurement ID. Columns outside [startCol, endCol) are left
// untouched. A column belonging to an installed aligned group may only be
// written if every column of that group falls inside the slice, since a
// partial write would desynchronize the group's shared page boundaries;
// such a slice returns an error.
func (g *ChunkGroupWriter) WriteTabletSlice(tablet Tablet, startRow, endRow, startCol, endCol int) error {
	if g.flushed {
		return fmt.Errorf("%w: chunk group already flushed", ErrIoFailure)
	}
	times := tablet.Timestamps[startRow:endRow]
	alignedCols := make(map[int][]Value)
	for ci := startCol; ci < endCol; ci++ {
		schema := tablet.Schemas[ci]
		values := tablet.Columns[ci][startRow:endRow]
		if idx, ok := g.alignedIndex[schema.MeasurementID]; ok {
			alignedCols[idx] = values
			continue
		}
		w, ok := g.singles[schema.MeasurementID]
		if !ok {
			return &UnknownSeriesError{MeasurementID: schema.MeasurementID}
		}
		for i, v := range values {
			if err := w.Write(times[i], v); err != nil {
				return err
			}
		}
	}
	if len(alignedCols) == 0 {
		return nil
	}
	if len(alignedCols) != len(g.alignedSchemas) {
		return fmt.Errorf("%w: slice covers %d of %d aligned columns, would desynchronize the group", ErrIoFailure, len(alignedCols), len(g.alignedSchemas))
	}
	columns := make([][]Value, len(g.alignedSchemas))
	for idx, values := range alignedCols {
		columns[idx] = values
	}
	return g.aligned.WriteColumnBatch(times, columns, len(times))
}

// GetCurrentChunkGroupSize returns the serialized size of every
// already-sealed page across every installed writer: each page header
// (sized with statistics, plus the CRC when enabled) and its compressed
// payload. Each writer's currently open (unsealed) page is excluded, and
// chunk headers and the chunk-group header are not counted.
func (g *ChunkGroupWriter) GetCurrentChunkGroupSize() int64 {
	var total int64
	for _, id := range g.order {
		w := g.singles[id]
		for _, p := range w.value.chunk.pages {
			total += int64(pageHeaderLen(p, true, g.cfg.WritePageCRC) + p.compressedSize)
		}
	}
	if g.aligned != nil {
		for _, p := range g.aligned.time.chunk.pages {
			total += int64(pageHeaderLen(p, true, g.cfg.WritePageCRC) + p.compressedSize)
		}
		for _, vw := range g.aligned.values {
			for _, p := range vw.chunk.pages {
				total += int64(pageHeaderLen(p, true, g.cfg.WritePageCRC) + p.compressedSize)
			}
		}
	}
	return total
}

// UpdateMaxGroupMemSize recomputes and returns the observed high-water
// mark of estimated bytes held across every installed writer in this
// group.
func (g *ChunkGroupWriter) UpdateMaxGroupMemSize() int64 {
	var current int64
	for _, id := range g.order {
		current += g.singles[id].EstimateMaxSeriesMemSize()
	}
	if g.aligned != nil {
		current += g.aligned.EstimateMaxSeriesMemSize()
	}
	if current > g.maxGroupMemSize {
		g.maxGroupMemSize = current
	}
	return g.maxGroupMemSize
}

// FlushToFileWriter starts the chunk group on fw, writes every series in
// installation order (the aligned group, if any, always precedes the
// non-aligned writers since its Time chunk anchors the group), writes the
// chunk-group footer, and returns the total number of bytes emitted. The
// writer must not be used for further writes afterward.
func (g *ChunkGroupWriter) FlushToFileWriter(fw FileWriter) (int, error) {
	if g.flushed {
		return 0, fmt.Errorf("%w: chunk group already flushed", ErrIoFailure)
	}
	start, err := fw.GetPos()
	if err != nil {
		return 0, err
	}
	if err := fw.StartChunkGroup(g.deviceID); err != nil {
		return 0, err
	}
	total := 0
	if g.aligned != nil && !g.aligned.IsEmpty() {
		n, err := g.aligned.WriteToFileWriter(fw)
		if err != nil {
			return total, err
		}
		total += n
	}
	for _, id := range g.order {
		w := g.singles[id]
		if w.IsEmpty() {
			continue
		}
		n, err := w.WriteToFileWriter(fw)
		if err != nil {
			return total, err
		}
		total += n
	}
	if err := fw.EndChunkGroup(); err != nil {
		return total, err
	}
	end, err := fw.GetPos()
	if err != nil {
		return total, err
	}
	total = int(end - start)
	g.flushed = true
	g.log.Debug("flushed chunk group", "device", g.deviceID, "bytes", total)
	return total, nil
}
