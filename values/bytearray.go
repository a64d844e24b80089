package values

import (
	"encoding/binary"

	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
)

// ByteArrayDecoder decodes PLAIN and RLE_DICTIONARY streams of BYTE_ARRAY or
// FIXED_LEN_BYTE_ARRAY values. Decoded slices alias the input buffer rather
// than copying, matching the page reader's convention of handing decoders a
// view into an owned, page-lifetime buffer.
type ByteArrayDecoder struct {
	fixedLen int // 0 for BYTE_ARRAY, >0 for FIXED_LEN_BYTE_ARRAY

	dict [][]byte
	buf  []byte
	pos  int

	indices    []int32
	indicesPos int
	dictMode   bool
}

// NewByteArrayDecoder returns a decoder for BYTE_ARRAY (fixedLen==0) or
// FIXED_LEN_BYTE_ARRAY (fixedLen == type_length).
func NewByteArrayDecoder(fixedLen int) *ByteArrayDecoder {
	return &ByteArrayDecoder{fixedLen: fixedLen}
}

func (d *ByteArrayDecoder) ResetDict(dict [][]byte) { d.dict = dict }

func (d *ByteArrayDecoder) Reset(buf []byte, encoding format.Encoding) error {
	switch encoding {
	case format.Encoding_PLAIN:
		d.dictMode = false
		d.buf = buf
		d.pos = 0
		return nil
	case format.Encoding_RLE_DICTIONARY, format.Encoding_PLAIN_DICTIONARY:
		if d.dict == nil {
			return errs.Corrupted("values: RLE_DICTIONARY page with no dictionary installed")
		}
		indices := make([]int32, len(buf)*8)
		n, err := decodeRLEIndices(buf, len(d.dict), indices)
		if err != nil {
			return err
		}
		d.indices = indices[:n]
		d.indicesPos = 0
		d.dictMode = true
		return nil
	default:
		return errs.Unsupported("values: unsupported encoding %s for byte-array physical type", encoding)
	}
}

func (d *ByteArrayDecoder) ReadBatch(out [][]byte) (int, error) {
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

	for i := range out {
		if d.fixedLen > 0 {
			if d.pos+d.fixedLen > len(d.buf) {
				return i, nil
			}
			out[i] = d.buf[d.pos : d.pos+d.fixedLen]
			d.pos += d.fixedLen
			continue
		}
		if d.pos+4 > len(d.buf) {
			return i, nil
		}
		n := int(binary.LittleEndian.Uint32(d.buf[d.pos:]))
		d.pos += 4
		if n < 0 || d.pos+n > len(d.buf) {
			return i, errs.Corrupted("values: BYTE_ARRAY length %d exceeds remaining buffer", n)
		}
		out[i] = d.buf[d.pos : d.pos+n]
		d.pos += n
	}
	return len(out), nil
}

// ByteArrayEncoder encodes PLAIN, falling back from RLE_DICTIONARY to PLAIN
// once the dictionary page exceeds DictionaryPageSizeThreshold bytes.
type ByteArrayEncoder struct {
	fixedLen int

	useDict   bool
	dict      [][]byte
	dictIndex map[string]int32
	indices   []int32
	dictBytes int

	plain []byte
}

// NewByteArrayEncoder returns an encoder for BYTE_ARRAY (fixedLen==0) or
// FIXED_LEN_BYTE_ARRAY (fixedLen == type_length). dict selects
// RLE_DICTIONARY (with PLAIN fallback past the size threshold) vs
// always-PLAIN.
func NewByteArrayEncoder(fixedLen int, dict bool) *ByteArrayEncoder {
	e := &ByteArrayEncoder{fixedLen: fixedLen, useDict: dict}
	if dict {
		e.dictIndex = map[string]int32{}
	}
	return e
}

func (e *ByteArrayEncoder) PutBatch(in [][]byte) {
	for _, v := range in {
		if e.fixedLen == 0 {
			e.plain = append(e.plain, putU32LE(uint32(len(v)))...)
		}
		e.plain = append(e.plain, v...)

		if !e.useDict {
			continue
		}
		key := string(v)
		idx, ok := e.dictIndex[key]
		if !ok {
			idx = int32(len(e.dict))
			cp := make([]byte, len(v))
			copy(cp, v)
			e.dict = append(e.dict, cp)
			e.dictIndex[key] = idx
			e.dictBytes += len(cp)
			if e.fixedLen == 0 {
				e.dictBytes += 4 // PLAIN length prefix
			}
			if e.dictBytes >= DictionaryPageSizeThreshold {
				e.useDict = false
			}
		}
		e.indices = append(e.indices, idx)
	}
}

func (e *ByteArrayEncoder) MaxEncodedSize() int {
	if e.useDict {
		return 1 + len(e.indices)*4 + 8
	}
	return len(e.plain)
}

// Flush returns the encoded bytes for the values put since the last Flush
// (page-scoped) and resets that per-page buffer; the dictionary table
// itself (chunk-scoped) is left untouched so later pages keep sharing it.
func (e *ByteArrayEncoder) Flush() ([]byte, format.Encoding) {
	defer func() { e.indices = e.indices[:0]; e.plain = nil }()
	if e.useDict {
		return encodeRLEIndices(e.indices, len(e.dict)), format.Encoding_RLE_DICTIONARY
	}
	return e.plain, format.Encoding_PLAIN
}

func (e *ByteArrayEncoder) ViewDict() [][]byte {
	if !e.useDict {
		return nil
	}
	return e.dict
}

func (e *ByteArrayEncoder) Cardinality() int { return len(e.dict) }
