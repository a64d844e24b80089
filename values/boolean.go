package values

import (
	"github.com/hexbee-net/parquet4go/bitio"
	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
	"github.com/hexbee-net/parquet4go/rle"
)

// BooleanDecoder decodes PLAIN (raw bit-packed, LSB-first) and RLE
// (hybrid stream, bit_width=1) boolean streams. BOOLEAN never uses
// RLE_DICTIONARY.
type BooleanDecoder struct {
	plain *bitio.Reader
	hyb   *rle.Decoder
}

func NewBooleanDecoder() *BooleanDecoder { return &BooleanDecoder{} }

func (d *BooleanDecoder) ResetDict([]bool) {}

func (d *BooleanDecoder) Reset(buf []byte, encoding format.Encoding) error {
	d.plain, d.hyb = nil, nil
	switch encoding {
	case format.Encoding_PLAIN:
		d.plain = bitio.NewReader(buf)
		return nil
	case format.Encoding_RLE:
		dec, err := rle.NewDecoder(buf, 1)
		if err != nil {
			return err
		}
		d.hyb = dec
		return nil
	default:
		return errs.Unsupported("values: unsupported encoding %s for BOOLEAN", encoding)
	}
}

// ReadBatch fills out with up to len(out) booleans.
func (d *BooleanDecoder) ReadBatch(out []bool) (int, error) {
	if d.hyb != nil {
		buf := make([]int32, len(out))
		n := d.hyb.ReadBatch(buf)
		for i := 0; i < n; i++ {
			out[i] = buf[i] != 0
		}
		return n, nil
	}
	buf := make([]int32, len(out))
	n := d.plain.GetBatch(1, buf)
	for i := 0; i < n; i++ {
		out[i] = buf[i] != 0
	}
	return n, nil
}

// BooleanEncoder emits PLAIN bit-packed booleans. BOOLEAN has no dictionary
// path (cardinality is at most 2, never worth the indirection).
type BooleanEncoder struct {
	w     *bitio.Writer
	count int
}

func NewBooleanEncoder() *BooleanEncoder { return &BooleanEncoder{w: bitio.NewWriter(64)} }

func (e *BooleanEncoder) PutBatch(in []bool) {
	for _, v := range in {
		e.count++
		var b uint64
		if v {
			b = 1
		}
		e.w.PutValue(b, 1)
	}
}

func (e *BooleanEncoder) MaxEncodedSize() int { return (e.count+7)/8 + 1 }

func (e *BooleanEncoder) Flush() ([]byte, format.Encoding) {
	e.w.Flush(true)
	return e.w.Bytes(), format.Encoding_PLAIN
}

func (e *BooleanEncoder) ViewDict() []bool { return nil }
func (e *BooleanEncoder) Cardinality() int { return 0 }
