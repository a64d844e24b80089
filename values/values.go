// Package values implements the per-physical-type value codecs: PLAIN,
// RLE_DICTIONARY, RLE (BOOLEAN only), DELTA_BINARY_PACKED,
// DELTA_LENGTH_BYTE_ARRAY and DELTA_BYTE_ARRAY (read path). It replaces the
// retrieval pack's io.Reader/io.Writer-based, interface{}-boxed value codec
// with generic decoders/encoders operating directly over page byte slices,
// grounded on the pack's per-physical-type PLAIN codecs and its hybrid RLE
// encoder for the RLE_DICTIONARY index stream.
package values

import (
	"encoding/binary"
	"math"

	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
	"github.com/hexbee-net/parquet4go/rle"
)

// Decoder reads a stream of values of Go type T from an encoded page body.
type Decoder[T any] interface {
	// ResetDict installs the shared dictionary a subsequent RLE_DICTIONARY
	// page decodes against. No-op for encodings that don't use one.
	ResetDict(dict []T)
	// Reset primes the decoder to read encoding-encoded values from buf.
	Reset(buf []byte, encoding format.Encoding) error
	// ReadBatch fills out with up to len(out) values, returning the count
	// actually produced (less than len(out) only at end of stream).
	ReadBatch(out []T) (int, error)
}

// Encoder writes a stream of values of Go type T, choosing PLAIN or
// RLE_DICTIONARY (falling back to PLAIN past the dictionary size threshold).
type Encoder[T any] interface {
	PutBatch(in []T)
	// MaxEncodedSize returns a conservative upper bound on Flush's output.
	MaxEncodedSize() int
	// Flush returns the encoded bytes committed so far and the encoding
	// used to produce them.
	Flush() ([]byte, format.Encoding)
	// ViewDict returns the dictionary values accumulated so far, or nil if
	// the encoder has fallen back to PLAIN.
	ViewDict() []T
	// Cardinality returns the number of distinct dictionary entries.
	Cardinality() int
}

// DictionaryPageSizeThreshold is the point (in encoded PLAIN bytes) past
// which an RLE_DICTIONARY encoder abandons its dictionary and falls back to
// PLAIN for the remainder of the chunk.
const DictionaryPageSizeThreshold = 16 * 1024

func bitWidthForIndex(cardinality int) int {
	if cardinality <= 1 {
		return 0
	}
	n := 0
	for m := cardinality - 1; m > 0; m >>= 1 {
		n++
	}
	return n
}

// decodeRLEIndices reads a RLE_DICTIONARY index stream: one leading
// bit-width byte, then an RLE-hybrid stream of dictionary indices.
func decodeRLEIndices(buf []byte, dictLen int, out []int32) (int, error) {
	if len(buf) < 1 {
		return 0, errs.Corrupted("values: truncated RLE_DICTIONARY bit-width byte")
	}
	bitWidth := int(buf[0])
	if bitWidth < 0 || bitWidth > 32 {
		return 0, errs.Corrupted("values: RLE_DICTIONARY bit_width %d out of range", bitWidth)
	}
	dec, err := rle.NewDecoder(buf[1:], bitWidth)
	if err != nil {
		return 0, err
	}
	n := dec.ReadBatch(out)
	for i := 0; i < n; i++ {
		if int(out[i]) < 0 || int(out[i]) >= dictLen {
			return 0, errs.Corrupted("values: dictionary index %d out of range [0,%d)", out[i], dictLen)
		}
	}
	return n, nil
}

func encodeRLEIndices(indices []int32, cardinality int) []byte {
	bitWidth := bitWidthForIndex(cardinality)
	enc, err := rle.NewEncoder(bitWidth)
	if err != nil {
		panic(err) // bitWidthForIndex never returns >32
	}
	enc.PutBatch(indices)
	out := make([]byte, 0, 1+len(indices))
	out = append(out, byte(bitWidth))
	out = append(out, enc.Close()...)
	return out
}

func putU32LE(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func float32bits(f float32) uint32 { return math.Float32bits(f) }
func float64bits(f float64) uint64 { return math.Float64bits(f) }

// Int96 holds a 12-byte INT96 physical value verbatim; this module never
// interprets it (INT96 has no logical-type mapping and cannot be written,
// per the physical-type table).
type Int96 [12]byte
