package values

import (
	"encoding/binary"
	"math"

	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
)

// FixedWidthDecoder decodes PLAIN and RLE_DICTIONARY streams of a
// constant-size numeric physical type (INT32, INT64, INT96, FLOAT, DOUBLE).
type FixedWidthDecoder[T any] struct {
	size int
	read func([]byte) T

	dict []T
	buf  []byte
	pos  int

	indices    []int32
	indicesPos int
	dictMode   bool
}

// NewFixedWidthDecoder returns a decoder for a size-byte physical
// representation, using read to decode one element from a size-byte slice.
func NewFixedWidthDecoder[T any](size int, read func([]byte) T) *FixedWidthDecoder[T] {
	return &FixedWidthDecoder[T]{size: size, read: read}
}

func (d *FixedWidthDecoder[T]) ResetDict(dict []T) { d.dict = dict }

func (d *FixedWidthDecoder[T]) Reset(buf []byte, encoding format.Encoding) error {
	switch encoding {
	case format.Encoding_PLAIN:
		if len(buf)%d.size != 0 {
			return errs.Corrupted("values: PLAIN buffer length %d not a multiple of %d", len(buf), d.size)
		}
		d.dictMode = false
		d.buf = buf
		d.pos = 0
		return nil
	case format.Encoding_RLE_DICTIONARY, format.Encoding_PLAIN_DICTIONARY:
		if d.dict == nil {
			return errs.Corrupted("values: RLE_DICTIONARY page with no dictionary installed")
		}
		indices := make([]int32, len(buf)*8/max1(bitWidthForIndex(len(d.dict))))
		n, err := decodeRLEIndices(buf, len(d.dict), indices)
		if err != nil {
			return err
		}
		d.indices = indices[:n]
		d.indicesPos = 0
		d.dictMode = true
		return nil
	default:
		return errs.Unsupported("values: unsupported encoding %s for fixed-width physical type", encoding)
	}
}

func max1(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

func (d *FixedWidthDecoder[T]) ReadBatch(out []T) (int, error) {
	if d.dictMode {
		n := len(out)
		if remaining := len(d.indices) - d.indicesPos; n > remaining {
			n = remaining
		}
		for i := 0; i < n; i++ {
			out[i] = d.dict[d.indices[d.indicesPos]]
			d.indicesPos++
		}
		return n, nil
	}

	n := len(out)
	if remaining := (len(d.buf) - d.pos) / d.size; n > remaining {
		n = remaining
	}
	for i := 0; i < n; i++ {
		out[i] = d.read(d.buf[d.pos : d.pos+d.size])
		d.pos += d.size
	}
	return n, nil
}

// FixedWidthEncoder encodes PLAIN, falling back from RLE_DICTIONARY to
// PLAIN once the accumulated dictionary page exceeds
// DictionaryPageSizeThreshold bytes.
type FixedWidthEncoder[T comparable] struct {
	size  int
	write func(T) []byte

	useDict   bool
	dict      []T
	dictIndex map[T]int32
	indices   []int32

	plain []byte
}

// NewFixedWidthEncoder returns an encoder for a size-byte physical
// representation, using write to encode one element. When dict is true it
// prefers RLE_DICTIONARY, falling back to PLAIN past
// DictionaryPageSizeThreshold; when false it always emits PLAIN, matching a
// writer configured with dictionary encoding disabled.
func NewFixedWidthEncoder[T comparable](size int, write func(T) []byte, dict bool) *FixedWidthEncoder[T] {
	e := &FixedWidthEncoder[T]{size: size, write: write, useDict: dict}
	if dict {
		e.dictIndex = map[T]int32{}
	}
	return e
}

func (e *FixedWidthEncoder[T]) PutBatch(in []T) {
	for _, v := range in {
		e.plain = append(e.plain, e.write(v)...)
		if !e.useDict {
			continue
		}
		idx, ok := e.dictIndex[v]
		if !ok {
			idx = int32(len(e.dict))
			e.dict = append(e.dict, v)
			e.dictIndex[v] = idx
			if len(e.dict)*e.size >= DictionaryPageSizeThreshold {
				e.useDict = false
			}
		}
		e.indices = append(e.indices, idx)
	}
}

func (e *FixedWidthEncoder[T]) MaxEncodedSize() int {
	if e.useDict {
		return 1 + len(e.indices)*4 + 8
	}
	return len(e.plain)
}

// Flush returns the encoded bytes for the values put since the last Flush
// (page-scoped) and resets that per-page buffer; the dictionary table
// itself (chunk-scoped) is left untouched so later pages keep sharing it.
func (e *FixedWidthEncoder[T]) Flush() ([]byte, format.Encoding) {
	defer func() { e.indices = e.indices[:0]; e.plain = nil }()
	if e.useDict {
		return encodeRLEIndices(e.indices, len(e.dict)), format.Encoding_RLE_DICTIONARY
	}
	return e.plain, format.Encoding_PLAIN
}

func (e *FixedWidthEncoder[T]) ViewDict() []T {
	if !e.useDict {
		return nil
	}
	return e.dict
}

func (e *FixedWidthEncoder[T]) Cardinality() int { return len(e.dict) }

// Physical-type constructors ------------------------------------------------

func NewInt32PlainDecoder() Decoder[int32] {
	return NewFixedWidthDecoder(4, func(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) })
}
// NewInt32Encoder returns an INT32 encoder; dict selects RLE_DICTIONARY
// (with PLAIN fallback past the size threshold) vs always-PLAIN.
func NewInt32Encoder(dict bool) Encoder[int32] {
	return NewFixedWidthEncoder(4, func(v int32) []byte { return putU32LE(uint32(v)) }, dict)
}

func NewInt64PlainDecoder() Decoder[int64] {
	return NewFixedWidthDecoder(8, func(b []byte) int64 { return int64(binary.LittleEndian.Uint64(b)) })
}

// NewInt64Encoder returns an INT64 encoder; dict selects RLE_DICTIONARY
// (with PLAIN fallback past the size threshold) vs always-PLAIN.
func NewInt64Encoder(dict bool) Encoder[int64] {
	return NewFixedWidthEncoder(8, func(v int64) []byte {
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(v))
		return b
	}, dict)
}

func NewFloatPlainDecoder() Decoder[float32] {
	return NewFixedWidthDecoder(4, func(b []byte) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	})
}

// NewFloatEncoder returns a FLOAT encoder; dict selects RLE_DICTIONARY
// (with PLAIN fallback past the size threshold) vs always-PLAIN.
func NewFloatEncoder(dict bool) Encoder[float32] {
	return NewFixedWidthEncoder(4, func(v float32) []byte { return putU32LE(float32bits(v)) }, dict)
}

func NewDoublePlainDecoder() Decoder[float64] {
	return NewFixedWidthDecoder(8, func(b []byte) float64 {
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	})
}

// NewDoubleEncoder returns a DOUBLE encoder; dict selects RLE_DICTIONARY
// (with PLAIN fallback past the size threshold) vs always-PLAIN.
func NewDoubleEncoder(dict bool) Encoder[float64] {
	return NewFixedWidthEncoder(8, func(v float64) []byte {
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, float64bits(v))
		return b
	}, dict)
}

func NewInt96PlainDecoder() Decoder[Int96] {
	return NewFixedWidthDecoder(12, func(b []byte) Int96 {
		var v Int96
		copy(v[:], b)
		return v
	})
}
