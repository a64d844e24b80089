package bitio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBitsPutValueRoundTrip(t *testing.T) {
	for nBits := 0; nBits <= 32; nBits++ {
		nBits := nBits
		t.Run("", func(t *testing.T) {
			t.Parallel()

			var values []uint64
			var mask uint64
			if nBits == 32 {
				mask = 0xFFFFFFFF
			} else {
				mask = (uint64(1) << uint(nBits)) - 1
			}
			for _, v := range []uint64{0, 1, mask, mask / 2, mask / 3} {
				values = append(values, v&mask)
			}

			w := NewWriter(16)
			for _, v := range values {
				w.PutValue(v, nBits)
			}
			w.Flush(true)

			r := NewReader(w.Bytes())
			for _, want := range values {
				got, ok := r.GetBits(nBits)
				require.True(t, ok)
				assert.Equal(t, want, uint64(got))
			}
		})
	}
}

func TestGetBits64PutValue64RoundTrip(t *testing.T) {
	widths := []int{0, 1, 7, 8, 33, 63, 64}
	for _, nBits := range widths {
		nBits := nBits
		t.Run("", func(t *testing.T) {
			t.Parallel()

			var mask uint64 = ^uint64(0)
			if nBits < 64 {
				mask = (uint64(1) << uint(nBits)) - 1
			}
			values := []uint64{0, 1 & mask, mask, mask ^ (mask >> 1)}

			w := NewWriter(64)
			for _, v := range values {
				w.PutValue64(v, nBits)
			}
			w.Flush(true)

			r := NewReader(w.Bytes())
			for _, want := range values {
				got, ok := r.GetBits64(nBits)
				require.True(t, ok)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestGetBitsShortRead(t *testing.T) {
	w := NewWriter(4)
	w.PutValue(0x5, 4)
	w.Flush(true)

	r := NewReader(w.Bytes())
	_, ok := r.GetBits(4)
	require.True(t, ok)

	// Flush padded the byte, so 4 bits remain; a 5-bit read runs past EOF.
	_, ok = r.GetBits(5)
	assert.False(t, ok)
}

func TestGetBitsZeroWidthAlwaysSucceeds(t *testing.T) {
	r := NewReader(nil)
	v, ok := r.GetBits(0)
	assert.True(t, ok)
	assert.Zero(t, v)

	v64, ok := r.GetBits64(0)
	assert.True(t, ok)
	assert.Zero(t, v64)
}

func TestGetBatchAndGetBatch64ZeroWidth(t *testing.T) {
	r := NewReader(nil)
	out := make([]int32, 5)
	n := r.GetBatch(0, out)
	assert.Equal(t, 5, n)
	for _, v := range out {
		assert.Zero(t, v)
	}

	out64 := make([]int64, 5)
	n = r.GetBatch64(0, out64)
	assert.Equal(t, 5, n)
	for _, v := range out64 {
		assert.Zero(t, v)
	}
}

func TestGetBatchStopsAtEOF(t *testing.T) {
	w := NewWriter(4)
	w.PutValue(3, 3)
	w.PutValue(3, 3)
	w.Flush(true)

	r := NewReader(w.Bytes())
	out := make([]int32, 5)
	n := r.GetBatch(3, out)
	assert.Equal(t, 2, n)
}

func TestGetAlignedPutAlignedRoundTrip(t *testing.T) {
	w := NewWriter(16)
	w.PutValue(0x1, 1)
	w.PutAligned(0x1122334455667788, 8)
	w.PutAligned(0xAABB, 2)

	r := NewReader(w.Bytes())
	_, ok := r.GetBits(1)
	require.True(t, ok)

	v, ok := r.GetAligned(8)
	require.True(t, ok)
	assert.Equal(t, uint64(0x1122334455667788), v)

	v, ok = r.GetAligned(2)
	require.True(t, ok)
	assert.Equal(t, uint64(0xAABB), v)
}

func TestGetVlqPutVlqRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 20, ^uint64(0)}

	w := NewWriter(64)
	for _, v := range values {
		w.PutVlq(v)
	}

	r := NewReader(w.Bytes())
	for _, want := range values {
		got, ok := r.GetVlq()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestGetVlqTooLongPanics(t *testing.T) {
	buf := make([]byte, 11)
	for i := range buf {
		buf[i] = 0x80
	}
	r := NewReader(buf)
	assert.Panics(t, func() { r.GetVlq() })
}

func TestGetZigZagPutZigZagRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 42, -42, 1<<62 - 1, -(1 << 62)}

	w := NewWriter(64)
	for _, v := range values {
		w.PutZigZag(v)
	}

	r := NewReader(w.Bytes())
	for _, want := range values {
		got, ok := r.GetZigZag()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestBitWidth(t *testing.T) {
	cases := []struct {
		maxLevel int
		want     int
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{7, 3},
		{8, 4},
		{255, 8},
		{256, 9},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, BitWidth(c.maxLevel), "maxLevel=%d", c.maxLevel)
	}
}

func TestGetNextBytePtrIsWritable(t *testing.T) {
	w := NewWriter(8)
	ptr := w.GetNextBytePtr(4)
	require.Len(t, ptr, 4)
	copy(ptr, []byte{0xDE, 0xAD, 0xBE, 0xEF})

	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, w.Bytes())
}

func TestResetClearsWriter(t *testing.T) {
	w := NewWriter(4)
	w.PutValue(1, 4)
	w.Reset()
	assert.Zero(t, w.BytesWritten())
	assert.Empty(t, w.Bytes())
}
