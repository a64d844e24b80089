package values

import (
	"github.com/hexbee-net/parquet4go/deltabp"
	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
)

// DefaultDeltaBlockSize and DefaultDeltaMiniblocks match the block layout
// most Parquet writers use for DELTA_BINARY_PACKED: 128 values per block in
// 4 miniblocks of 32.
const (
	DefaultDeltaBlockSize  = 128
	DefaultDeltaMiniblocks = 4
)

// Int32DeltaDecoder decodes DELTA_BINARY_PACKED into int32, narrowing the
// underlying int64 decoder's output. INT32 is the only physical type this
// narrowing runs against; a value outside the int32 range indicates a
// corrupt stream (the block layout invariants of deltabp reject anything
// wider than the declared bit width, but the value itself is unchecked
// until the narrowing here).
type Int32DeltaDecoder struct{ dec *deltabp.Decoder }

func NewInt32DeltaDecoder() *Int32DeltaDecoder { return &Int32DeltaDecoder{} }

func (d *Int32DeltaDecoder) ResetDict([]int32) {}

func (d *Int32DeltaDecoder) Reset(buf []byte, encoding format.Encoding) error {
	if encoding != format.Encoding_DELTA_BINARY_PACKED {
		return errs.Corrupted("values: DELTA_BINARY_PACKED decoder given encoding %s", encoding)
	}
	dec, err := deltabp.NewDecoder(buf)
	if err != nil {
		return err
	}
	d.dec = dec
	return nil
}

func (d *Int32DeltaDecoder) ReadBatch(out []int32) (int, error) {
	tmp := make([]int64, len(out))
	n, err := d.dec.ReadBatch(tmp)
	if err != nil {
		return n, err
	}
	for i := 0; i < n; i++ {
		if tmp[i] < -(1<<31) || tmp[i] > (1<<31)-1 {
			return i, errs.Corrupted("values: DELTA_BINARY_PACKED value %d overflows int32", tmp[i])
		}
		out[i] = int32(tmp[i])
	}
	return n, nil
}

// Int64DeltaDecoder decodes DELTA_BINARY_PACKED into int64 directly.
type Int64DeltaDecoder struct{ dec *deltabp.Decoder }

func NewInt64DeltaDecoder() *Int64DeltaDecoder { return &Int64DeltaDecoder{} }

func (d *Int64DeltaDecoder) ResetDict([]int64) {}

func (d *Int64DeltaDecoder) Reset(buf []byte, encoding format.Encoding) error {
	if encoding != format.Encoding_DELTA_BINARY_PACKED {
		return errs.Corrupted("values: DELTA_BINARY_PACKED decoder given encoding %s", encoding)
	}
	dec, err := deltabp.NewDecoder(buf)
	if err != nil {
		return err
	}
	d.dec = dec
	return nil
}

func (d *Int64DeltaDecoder) ReadBatch(out []int64) (int, error) { return d.dec.ReadBatch(out) }

// Int32DeltaEncoder and Int64DeltaEncoder wrap deltabp.Encoder; both are
// eagerly buffering (the block header carries a total value count that is
// only known at Close/Flush).
type Int32DeltaEncoder struct{ enc *deltabp.Encoder }

func NewInt32DeltaEncoder() *Int32DeltaEncoder {
	return &Int32DeltaEncoder{enc: deltabp.NewEncoder(DefaultDeltaBlockSize, DefaultDeltaMiniblocks)}
}
func (e *Int32DeltaEncoder) PutBatch(in []int32) {
	vals := make([]int64, len(in))
	for i, v := range in {
		vals[i] = int64(v)
	}
	e.enc.PutBatch(vals)
}
func (e *Int32DeltaEncoder) MaxEncodedSize() int      { return 32 + e.enc.MaxSizeHint() }
func (e *Int32DeltaEncoder) ViewDict() []int32        { return nil }
func (e *Int32DeltaEncoder) Cardinality() int         { return 0 }
func (e *Int32DeltaEncoder) Flush() ([]byte, format.Encoding) {
	return e.enc.Close(), format.Encoding_DELTA_BINARY_PACKED
}

type Int64DeltaEncoder struct{ enc *deltabp.Encoder }

func NewInt64DeltaEncoder() *Int64DeltaEncoder {
	return &Int64DeltaEncoder{enc: deltabp.NewEncoder(DefaultDeltaBlockSize, DefaultDeltaMiniblocks)}
}
func (e *Int64DeltaEncoder) PutBatch(in []int64)      { e.enc.PutBatch(in) }
func (e *Int64DeltaEncoder) MaxEncodedSize() int      { return 32 + e.enc.MaxSizeHint() }
func (e *Int64DeltaEncoder) ViewDict() []int64        { return nil }
func (e *Int64DeltaEncoder) Cardinality() int         { return 0 }
func (e *Int64DeltaEncoder) Flush() ([]byte, format.Encoding) {
	return e.enc.Close(), format.Encoding_DELTA_BINARY_PACKED
}

// DeltaLengthByteArrayDecoder decodes DELTA_LENGTH_BYTE_ARRAY: a
// DELTA_BINARY_PACKED INT32 stream of lengths followed by the concatenated
// value bytes. The length sum must exactly consume the remaining buffer.
type DeltaLengthByteArrayDecoder struct {
	buf     []byte
	pos     int
	lengths []int64
	idx     int
}

func NewDeltaLengthByteArrayDecoder() *DeltaLengthByteArrayDecoder {
	return &DeltaLengthByteArrayDecoder{}
}

func (d *DeltaLengthByteArrayDecoder) ResetDict([][]byte) {}

func (d *DeltaLengthByteArrayDecoder) Reset(buf []byte, encoding format.Encoding) error {
	if encoding != format.Encoding_DELTA_LENGTH_BYTE_ARRAY {
		return errs.Corrupted("values: DELTA_LENGTH_BYTE_ARRAY decoder given encoding %s", encoding)
	}
	dec, err := deltabp.NewDecoder(buf)
	if err != nil {
		return err
	}
	lengths := make([]int64, 0, 64)
	for {
		v, ok, err := dec.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if v < 0 {
			return errs.Corrupted("values: DELTA_LENGTH_BYTE_ARRAY negative length %d", v)
		}
		lengths = append(lengths, v)
	}

	consumed := dec.BytesConsumed()
	if consumed > len(buf) {
		return errs.Corrupted("values: DELTA_LENGTH_BYTE_ARRAY length stream overruns buffer")
	}

	var total int64
	for _, l := range lengths {
		total += l
	}
	if consumed+int(total) != len(buf) {
		return errs.Corrupted(
			"values: DELTA_LENGTH_BYTE_ARRAY length sum %d does not match remaining %d bytes", total, len(buf)-consumed)
	}

	d.lengths = lengths
	d.buf = buf[consumed:]
	d.pos = 0
	d.idx = 0
	return nil
}

func (d *DeltaLengthByteArrayDecoder) ReadBatch(out [][]byte) (int, error) {
	n := 0
	for n < len(out) && d.idx < len(d.lengths) {
		l := int(d.lengths[d.idx])
		if d.pos+l > len(d.buf) {
			return n, errs.Corrupted("values: DELTA_LENGTH_BYTE_ARRAY value overruns buffer")
		}
		out[n] = d.buf[d.pos : d.pos+l]
		d.pos += l
		d.idx++
		n++
	}
	return n, nil
}

// DeltaLengthByteArrayEncoder encodes DELTA_LENGTH_BYTE_ARRAY: lengths as
// DELTA_BINARY_PACKED INT32, followed by the concatenated value bytes.
type DeltaLengthByteArrayEncoder struct {
	lengths *deltabp.Encoder
	values  []byte
}

func NewDeltaLengthByteArrayEncoder() *DeltaLengthByteArrayEncoder {
	return &DeltaLengthByteArrayEncoder{lengths: deltabp.NewEncoder(DefaultDeltaBlockSize, DefaultDeltaMiniblocks)}
}

func (e *DeltaLengthByteArrayEncoder) PutBatch(in [][]byte) {
	for _, v := range in {
		e.lengths.Put(int64(len(v)))
		e.values = append(e.values, v...)
	}
}

func (e *DeltaLengthByteArrayEncoder) MaxEncodedSize() int {
	return e.lengths.MaxSizeHint() + len(e.values)
}

func (e *DeltaLengthByteArrayEncoder) ViewDict() [][]byte { return nil }
func (e *DeltaLengthByteArrayEncoder) Cardinality() int   { return 0 }

func (e *DeltaLengthByteArrayEncoder) Flush() ([]byte, format.Encoding) {
	out := append(e.lengths.Close(), e.values...)
	return out, format.Encoding_DELTA_LENGTH_BYTE_ARRAY
}

// DeltaByteArrayDecoder decodes DELTA_BYTE_ARRAY (read path only): a
// DELTA_BINARY_PACKED INT32 prefix-length stream, a DELTA_BINARY_PACKED
// INT32 suffix-length stream, then the concatenated suffix bytes.
// value[i] = value[i-1][0:prefix[i]] ++ suffix[i], with value[-1] = "".
type DeltaByteArrayDecoder struct {
	prefixes []int64
	suffixes [][]byte
	idx      int
	prev     []byte
}

func NewDeltaByteArrayDecoder() *DeltaByteArrayDecoder { return &DeltaByteArrayDecoder{} }

func (d *DeltaByteArrayDecoder) ResetDict([][]byte) {}

func (d *DeltaByteArrayDecoder) Reset(buf []byte, encoding format.Encoding) error {
	if encoding != format.Encoding_DELTA_BYTE_ARRAY {
		return errs.Corrupted("values: DELTA_BYTE_ARRAY decoder given encoding %s", encoding)
	}

	prefixDec, err := deltabp.NewDecoder(buf)
	if err != nil {
		return err
	}
	var prefixes []int64
	for {
		v, ok, err := prefixDec.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		prefixes = append(prefixes, v)
	}
	off := prefixDec.BytesConsumed()
	if off > len(buf) {
		return errs.Corrupted("values: DELTA_BYTE_ARRAY prefix stream overruns buffer")
	}

	rest := buf[off:]
	// The suffix-length sub-stream is itself DELTA_BINARY_PACKED, but its
	// payload (the suffix bytes) is a second concatenated blob rather than
	// a bounded one, so parse it directly instead of going through
	// DeltaLengthByteArrayDecoder.Reset's sum-matches-buffer check.
	lenDec, err := deltabp.NewDecoder(rest)
	if err != nil {
		return err
	}
	var lengths []int64
	for {
		v, ok, err := lenDec.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if v < 0 {
			return errs.Corrupted("values: DELTA_BYTE_ARRAY negative suffix length %d", v)
		}
		lengths = append(lengths, v)
	}
	suffOff := lenDec.BytesConsumed()
	if suffOff > len(rest) {
		return errs.Corrupted("values: DELTA_BYTE_ARRAY suffix-length stream overruns buffer")
	}

	if len(prefixes) != len(lengths) {
		return errs.Corrupted("values: DELTA_BYTE_ARRAY prefix/suffix-length count mismatch (%d vs %d)",
			len(prefixes), len(lengths))
	}

	body := rest[suffOff:]
	suffixes := make([][]byte, len(lengths))
	pos := 0
	for i := range lengths {
		l := int(lengths[i])
		if pos+l > len(body) {
			return errs.Corrupted("values: DELTA_BYTE_ARRAY suffix overruns buffer")
		}
		suffixes[i] = body[pos : pos+l]
		pos += l
	}

	d.prefixes = prefixes
	d.suffixes = suffixes
	d.idx = 0
	d.prev = nil
	return nil
}

func (d *DeltaByteArrayDecoder) ReadBatch(out [][]byte) (int, error) {
	n := 0
	for n < len(out) && d.idx < len(d.prefixes) {
		p := int(d.prefixes[d.idx])
		if p < 0 || p > len(d.prev) {
			return n, errs.Corrupted("values: DELTA_BYTE_ARRAY prefix length %d exceeds previous value", p)
		}
		v := make([]byte, 0, p+len(d.suffixes[d.idx]))
		v = append(v, d.prev[:p]...)
		v = append(v, d.suffixes[d.idx]...)
		out[n] = v
		d.prev = v
		d.idx++
		n++
	}
	return n, nil
}
