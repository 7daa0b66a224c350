package tsfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatisticsUpdateInt(t *testing.T) {
	s := NewStatistics(INT64)
	s.Update(Int64Value(10))
	s.Update(Int64Value(20))
	assert.Equal(t, int64(2), s.Count)
	assert.Equal(t, int64(10), s.MinInt64)
	assert.Equal(t, int64(20), s.MaxInt64)
	assert.Equal(t, int64(10), s.FirstInt64)
	assert.Equal(t, int64(20), s.LastInt64)
	assert.Equal(t, int64(30), s.SumInt64)
}

func TestStatisticsUpdateFloat(t *testing.T) {
	s := NewStatistics(DOUBLE)
	s.Update(DoubleValue(1.5))
	s.Update(DoubleValue(-2.5))
	s.Update(DoubleValue(4.0))
	assert.Equal(t, int64(3), s.Count)
	assert.Equal(t, -2.5, s.MinFloat64)
	assert.Equal(t, 4.0, s.MaxFloat64)
	assert.Equal(t, 1.5, s.FirstFloat64)
	assert.Equal(t, 4.0, s.LastFloat64)
	assert.Equal(t, 3.0, s.SumFloat64)
}

func TestStatisticsMerge(t *testing.T) {
	a := NewStatistics(INT32)
	a.Update(Int32Value(5))
	a.Update(Int32Value(9))

	b := NewStatistics(INT32)
	b.Update(Int32Value(1))
	b.Update(Int32Value(100))

	a.Merge(b)
	assert.Equal(t, int64(4), a.Count)
	assert.Equal(t, int64(1), a.MinInt64)
	assert.Equal(t, int64(100), a.MaxInt64)
	assert.Equal(t, int64(5), a.FirstInt64)
	assert.Equal(t, int64(100), a.LastInt64)
	assert.Equal(t, int64(115), a.SumInt64)
}

func TestStatisticsMergeEmptyOther(t *testing.T) {
	a := NewStatistics(INT32)
	a.Update(Int32Value(1))
	empty := NewStatistics(INT32)
	a.Merge(empty)
	assert.Equal(t, int64(1), a.Count)
}

func TestStatisticsMergeIntoEmpty(t *testing.T) {
	a := NewStatistics(TEXT)
	b := NewStatistics(TEXT)
	b.Update(BytesValue(TEXT, []byte("hello")))
	a.Merge(b)
	assert.Equal(t, int64(1), a.Count)
	assert.Equal(t, "hello", string(a.FirstBytes))
	assert.Equal(t, "hello", string(a.LastBytes))
}
