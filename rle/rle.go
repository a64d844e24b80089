// Package rle implements Parquet's RLE+bit-packed hybrid encoding: a
// concatenation of runs, each introduced by a ULEB128 header whose low bit
// selects a bit-packed run (odd) or a run-length-encoded run (even). It is
// adapted from the retrieval pack's hybrid encoder/decoder, rebuilt over
// bitio.Reader/Writer instead of io.Reader/io.Writer so a decoder can be
// handed a byte slice view straight out of a decompressed page.
package rle

import (
	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/parquet4go/bitio"
)

const (
	errBadBitWidth = errors.Error("rle: bit width out of range")
)

// Decoder reads a stream of bitWidth-bit unsigned values from concatenated
// RLE and bit-packed runs.
type Decoder struct {
	r        *bitio.Reader
	bitWidth int

	rleValue     int32
	rleRemaining int

	bpTotalRemaining int
	bpBuf            [8]int32
	bpBufLen         int
	bpPos            int
}

// NewDecoder wraps buf for reading bitWidth-bit values (0..32).
func NewDecoder(buf []byte, bitWidth int) (*Decoder, error) {
	if bitWidth < 0 || bitWidth > 32 {
		return nil, errBadBitWidth
	}
	return &Decoder{r: bitio.NewReader(buf), bitWidth: bitWidth}, nil
}

// Next decodes a single value. ok is false at end of stream.
func (d *Decoder) Next() (int32, bool) {
	if d.bitWidth == 0 {
		return 0, true
	}
	for d.rleRemaining == 0 && d.bpTotalRemaining == 0 {
		if !d.readRunHeader() {
			return 0, false
		}
	}
	if d.rleRemaining > 0 {
		d.rleRemaining--
		return d.rleValue, true
	}
	if d.bpPos == d.bpBufLen {
		n := 8
		if d.bpTotalRemaining < n {
			n = d.bpTotalRemaining
		}
		if got := d.r.GetBatch(d.bitWidth, d.bpBuf[:n]); got < n {
			d.bpTotalRemaining = 0
			return 0, false
		}
		d.bpBufLen = n
		d.bpPos = 0
	}
	v := d.bpBuf[d.bpPos]
	d.bpPos++
	d.bpTotalRemaining--
	return v, true
}

// ReadBatch fills out with up to len(out) values, returning the count
// actually produced (less than len(out) only at end of stream).
func (d *Decoder) ReadBatch(out []int32) int {
	for i := range out {
		v, ok := d.Next()
		if !ok {
			return i
		}
		out[i] = v
	}
	return len(out)
}

func (d *Decoder) readRunHeader() bool {
	header, ok := d.r.GetVlq()
	if !ok {
		return false
	}
	if header&1 == 1 {
		groupsOf8 := int(header >> 1)
		if groupsOf8 == 0 {
			return false
		}
		d.bpTotalRemaining = groupsOf8 * 8
		d.bpBufLen = 0
		d.bpPos = 0
		return true
	}
	repeatCount := int(header >> 1)
	if repeatCount == 0 {
		return false
	}
	nBytes := (d.bitWidth + 7) / 8
	v, ok := d.r.GetAligned(nBytes)
	if !ok {
		return false
	}
	d.rleValue = int32(v)
	d.rleRemaining = repeatCount
	return true
}

// Encoder appends bitWidth-bit values, always committing them as bit-packed
// runs of eight. This trades the run-length optimization for a value
// stream that is trivial to reason about and to decode; the decoder above
// still supports both run kinds so it can read files produced elsewhere.
type Encoder struct {
	w        *bitio.Writer
	bitWidth int
	pending  []int32
}

// NewEncoder returns an encoder for bitWidth-bit values (0..32).
func NewEncoder(bitWidth int) (*Encoder, error) {
	if bitWidth < 0 || bitWidth > 32 {
		return nil, errBadBitWidth
	}
	return &Encoder{w: bitio.NewWriter(64), bitWidth: bitWidth}, nil
}

// Put appends a single value.
func (e *Encoder) Put(v int32) {
	if e.bitWidth == 0 {
		return
	}
	e.pending = append(e.pending, v)
	if len(e.pending) == 8 {
		e.flushGroup()
	}
}

// PutBatch appends a slice of values.
func (e *Encoder) PutBatch(values []int32) {
	for _, v := range values {
		e.Put(v)
	}
}

func (e *Encoder) flushGroup() {
	e.w.PutVlq(uint64((1 << 1) | 1)) // header for one group-of-8, bit-packed
	for _, v := range e.pending {
		e.w.PutValue(uint64(v), e.bitWidth)
	}
	e.pending = e.pending[:0]
}

// Close flushes any partial trailing group, padded with zeros, and returns
// the encoded bytes.
func (e *Encoder) Close() []byte {
	if e.bitWidth != 0 && len(e.pending) > 0 {
		for len(e.pending) < 8 {
			e.pending = append(e.pending, 0)
		}
		e.flushGroup()
	}
	e.w.Flush(true)
	return e.w.Bytes()
}
