package deltabp

import (
	"math"
	"testing"

	"github.com/hexbee-net/parquet4go/bitio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, blockSize, miniblocks int, values []int64) []int64 {
	t.Helper()

	e := NewEncoder(blockSize, miniblocks)
	e.PutBatch(values)
	buf := e.Close()

	d, err := NewDecoder(buf)
	require.NoError(t, err)

	out := make([]int64, len(values))
	n, err := d.ReadBatch(out)
	require.NoError(t, err)
	require.Equal(t, len(values), n)

	_, ok, err := d.Next()
	require.NoError(t, err)
	assert.False(t, ok)

	return out
}

func TestRoundTripSingleMiniblock(t *testing.T) {
	values := []int64{100, 101, 99, 99, 200, -50, -50, 0}
	out := roundTrip(t, 8, 1, values)
	assert.Equal(t, values, out)
}

func TestRoundTripMultipleMiniblocksMultipleBlocks(t *testing.T) {
	var values []int64
	for i := int64(0); i < 40; i++ {
		values = append(values, i*i-3*i)
	}
	out := roundTrip(t, 32, 4, values)
	assert.Equal(t, values, out)
}

func TestRoundTripEmptySequence(t *testing.T) {
	out := roundTrip(t, 8, 1, nil)
	assert.Empty(t, out)
}

func TestRoundTripSingleValue(t *testing.T) {
	out := roundTrip(t, 8, 1, []int64{42})
	assert.Equal(t, []int64{42}, out)
}

func TestRoundTripInt64MinMax(t *testing.T) {
	values := []int64{math.MinInt64, math.MaxInt64, 0, math.MinInt64, math.MaxInt64}
	out := roundTrip(t, 8, 1, values)
	assert.Equal(t, values, out)
}

func TestNewDecoderRejectsZeroMiniblocks(t *testing.T) {
	w := bitio.NewWriter(32)
	w.PutVlq(8)
	w.PutVlq(0)
	w.PutVlq(1)
	w.PutZigZag(0)

	_, err := NewDecoder(w.Bytes())
	assert.Error(t, err)
}

func TestNewDecoderRejectsBlockSizeNotMultipleOfMiniblocks(t *testing.T) {
	w := bitio.NewWriter(32)
	w.PutVlq(10)
	w.PutVlq(3)
	w.PutVlq(1)
	w.PutZigZag(0)

	_, err := NewDecoder(w.Bytes())
	assert.Error(t, err)
}

func TestNewDecoderRejectsMiniblockSizeNotMultipleOf8(t *testing.T) {
	w := bitio.NewWriter(32)
	w.PutVlq(12)
	w.PutVlq(2)
	w.PutVlq(1)
	w.PutZigZag(0)

	_, err := NewDecoder(w.Bytes())
	assert.Error(t, err)
}

func TestNewDecoderRejectsTruncatedHeader(t *testing.T) {
	_, err := NewDecoder(nil)
	assert.Error(t, err)

	w := bitio.NewWriter(8)
	w.PutVlq(8)
	_, err = NewDecoder(w.Bytes())
	assert.Error(t, err)
}

func TestBytesConsumedMatchesInputLength(t *testing.T) {
	values := []int64{5, 5, 5, 5, 5, 5, 5, 5}
	e := NewEncoder(8, 1)
	e.PutBatch(values)
	buf := e.Close()

	d, err := NewDecoder(buf)
	require.NoError(t, err)
	out := make([]int64, len(values))
	n, err := d.ReadBatch(out)
	require.NoError(t, err)
	require.Equal(t, len(values), n)

	assert.Equal(t, len(buf), d.BytesConsumed())
}
