package rle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecodeHybridWorkedExample reproduces the RLE+bit-packed hybrid worked
// example: bit_width=3 over the byte stream produced by one bit-packed run
// header (0x03 = one group-of-8, bit-packed) followed by 8 packed 3-bit
// values (0x88 0xC6 0xFA), then one RLE run header (0x08 = a run of 4)
// followed by the one-byte repeated value 0x05.
func TestDecodeHybridWorkedExample(t *testing.T) {
	buf := []byte{0x03, 0x88, 0xC6, 0xFA, 0x08, 0x05}
	want := []int32{0, 1, 2, 3, 4, 5, 6, 7, 5, 5, 5, 5}

	d, err := NewDecoder(buf, 3)
	require.NoError(t, err)

	out := make([]int32, len(want))
	n := d.ReadBatch(out)
	require.Equal(t, len(want), n)
	assert.Equal(t, want, out)

	_, ok := d.Next()
	assert.False(t, ok)
}

func TestEncodeDecodeRoundTripMultipleOf8(t *testing.T) {
	for _, bitWidth := range []int{0, 1, 3, 7, 8, 16, 32} {
		bitWidth := bitWidth
		t.Run("", func(t *testing.T) {
			t.Parallel()

			var mask int64
			if bitWidth == 32 {
				mask = 0xFFFFFFFF
			} else {
				mask = (int64(1) << uint(bitWidth)) - 1
			}
			var values []int32
			for i := 0; i < 16; i++ {
				values = append(values, int32(int64(i)&mask))
			}

			e, err := NewEncoder(bitWidth)
			require.NoError(t, err)
			e.PutBatch(values)
			buf := e.Close()

			d, err := NewDecoder(buf, bitWidth)
			require.NoError(t, err)
			out := make([]int32, len(values))
			n := d.ReadBatch(out)
			require.Equal(t, len(values), n)
			assert.Equal(t, values, out)
		})
	}
}

func TestEncodeDecodeRoundTripWithPadding(t *testing.T) {
	values := []int32{1, 2, 3, 4, 5}

	e, err := NewEncoder(3)
	require.NoError(t, err)
	e.PutBatch(values)
	buf := e.Close()

	d, err := NewDecoder(buf, 3)
	require.NoError(t, err)

	out := make([]int32, 8)
	n := d.ReadBatch(out)
	require.Equal(t, 8, n)
	assert.Equal(t, values, out[:5])
	assert.Equal(t, []int32{0, 0, 0}, out[5:])
}

func TestNewDecoderRejectsBadBitWidth(t *testing.T) {
	_, err := NewDecoder(nil, -1)
	assert.Error(t, err)

	_, err = NewDecoder(nil, 33)
	assert.Error(t, err)
}

func TestNewEncoderRejectsBadBitWidth(t *testing.T) {
	_, err := NewEncoder(-1)
	assert.Error(t, err)

	_, err = NewEncoder(33)
	assert.Error(t, err)
}

func TestZeroBitWidthProducesZeros(t *testing.T) {
	e, err := NewEncoder(0)
	require.NoError(t, err)
	e.Put(0)
	e.Put(0)
	buf := e.Close()
	assert.Empty(t, buf)

	d, err := NewDecoder(buf, 0)
	require.NoError(t, err)
	v, ok := d.Next()
	assert.True(t, ok)
	assert.Zero(t, v)
}

func TestDecoderEmptyStreamAtEOF(t *testing.T) {
	d, err := NewDecoder(nil, 3)
	require.NoError(t, err)
	_, ok := d.Next()
	assert.False(t, ok)
}
