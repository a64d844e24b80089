package compress

import (
	"testing"

	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCodecs = []format.CompressionCodec{
	format.CompressionCodec_UNCOMPRESSED,
	format.CompressionCodec_SNAPPY,
	format.CompressionCodec_GZIP,
	format.CompressionCodec_BROTLI,
	format.CompressionCodec_LZ4,
	format.CompressionCodec_ZSTD,
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog, repeated for good measure, repeated for good measure")

	for _, codec := range allCodecs {
		codec := codec
		t.Run(codec.String(), func(t *testing.T) {
			t.Parallel()

			c, err := Get(codec)
			require.NoError(t, err)
			assert.Equal(t, codec, c.Codec())

			compressed, err := c.Compress(payload)
			require.NoError(t, err)

			out, err := c.Decompress(compressed, len(payload))
			require.NoError(t, err)
			assert.Equal(t, payload, out)
		})
	}
}

// TestDecompressOverflowIsCorrupted reproduces the compression-overflow
// scenario: decompressing 42 zero bytes into a 41-byte declared capacity
// must fail as CorruptedFile, never silently truncate, for every codec
// that can represent the input losslessly at this size.
func TestDecompressOverflowIsCorrupted(t *testing.T) {
	payload := make([]byte, 42)

	for _, codec := range []format.CompressionCodec{
		format.CompressionCodec_UNCOMPRESSED,
		format.CompressionCodec_GZIP,
		format.CompressionCodec_SNAPPY,
	} {
		codec := codec
		t.Run(codec.String(), func(t *testing.T) {
			t.Parallel()

			c, err := Get(codec)
			require.NoError(t, err)

			compressed, err := c.Compress(payload)
			require.NoError(t, err)

			_, err = c.Decompress(compressed, 41)
			require.Error(t, err)
			assert.True(t, errs.IsCorrupted(err))
		})
	}
}

func TestGetUnknownCodecIsUnsupported(t *testing.T) {
	_, err := Get(format.CompressionCodec(99))
	require.Error(t, err)
	assert.True(t, errs.IsUnsupported(err))
}
