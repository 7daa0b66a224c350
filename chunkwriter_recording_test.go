package tsfile

// recordingFileWriter is a FileWriter test double that captures each
// chunk's framing call arguments directly, so tests can assert on marker
// bytes, statistics, and page counts without re-parsing the wire format.
type recordingFileWriter struct {
	pos          int64
	groups       []string
	chunks       []recordedChunk
	currentChunk *recordedChunk
	groupOpen    bool
}

type recordedChunk struct {
	measurementID string
	compression   CompressionKind
	dataType      DataType
	encoding      EncodingKind
	statistics    *Statistics
	dataSize      int
	numPages      int
	marker        byte
	payload       [][]byte
}

func newRecordingFileWriter() *recordingFileWriter {
	return &recordingFileWriter{}
}

func (f *recordingFileWriter) StartChunkGroup(deviceID string) error {
	f.groups = append(f.groups, deviceID)
	f.groupOpen = true
	return nil
}

func (f *recordingFileWriter) StartFlushChunk(measurementID string, compression CompressionKind, dataType DataType, encoding EncodingKind, statistics *Statistics, dataSize int, numPages int, marker byte) error {
	f.chunks = append(f.chunks, recordedChunk{
		measurementID: measurementID,
		compression:   compression,
		dataType:      dataType,
		encoding:      encoding,
		statistics:    statistics,
		dataSize:      dataSize,
		numPages:      numPages,
		marker:        marker,
	})
	f.currentChunk = &f.chunks[len(f.chunks)-1]
	return nil
}

func (f *recordingFileWriter) WriteBytesToStream(b []byte) (int, error) {
	f.pos += int64(len(b))
	if f.currentChunk != nil {
		f.currentChunk.payload = append(f.currentChunk.payload, append([]byte(nil), b...))
	}
	return len(b), nil
}

func (f *recordingFileWriter) EndCurrentChunk() error {
	f.currentChunk = nil
	return nil
}

func (f *recordingFileWriter) EndChunkGroup() error {
	f.groupOpen = false
	return nil
}

func (f *recordingFileWriter) GetPos() (int64, error) {
	return f.pos, nil
}
