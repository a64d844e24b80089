// Package level codes definition and repetition levels: small non-negative
// integers bounded by a leaf column's def_level/rep_level, always carried as
// RLE-hybrid runs (BIT_PACKED is recognized on read for legacy v1 pages).
// It is grounded on the retrieval pack's level plumbing, layered directly
// over rle.Decoder/Encoder rather than the pack's value-store abstraction.
package level

import (
	"encoding/binary"

	"github.com/hexbee-net/parquet4go/bitio"
	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
	"github.com/hexbee-net/parquet4go/rle"
)

// Decoder reads a fixed count of levels from a v1 or v2 page body.
type Decoder struct {
	maxLevel   int
	bitWidth   int
	numValues  int
	valuesRead int

	rle *rle.Decoder
}

// NewDecoder returns a decoder for levels bounded by maxLevel.
func NewDecoder(maxLevel int) *Decoder {
	return &Decoder{maxLevel: maxLevel, bitWidth: bitio.BitWidth(maxLevel)}
}

// ResetV1 primes the decoder from a v1 page's level section. For RLE it
// consumes a leading 4-byte little-endian length prefix followed by that
// many bytes; for BIT_PACKED it consumes ceil(numValues*bitWidth/8) bytes.
// It returns the number of bytes of buf consumed from the front.
func (d *Decoder) ResetV1(buf []byte, encoding format.Encoding, numValues int) (int, error) {
	d.numValues = numValues
	d.valuesRead = 0

	if d.bitWidth == 0 {
		d.rle = nil
		return 0, nil
	}

	switch encoding {
	case format.Encoding_RLE:
		if len(buf) < 4 {
			return 0, errs.Corrupted("level: truncated RLE length prefix")
		}
		n := int(binary.LittleEndian.Uint32(buf))
		if len(buf) < 4+n {
			return 0, errs.Corrupted("level: truncated RLE level section")
		}
		dec, err := rle.NewDecoder(buf[4:4+n], d.bitWidth)
		if err != nil {
			return 0, err
		}
		d.rle = dec
		return 4 + n, nil

	case format.Encoding_BIT_PACKED:
		n := (numValues*d.bitWidth + 7) / 8
		if len(buf) < n {
			return 0, errs.Corrupted("level: truncated BIT_PACKED level section")
		}
		// A bare bit-packed run has no run header of its own; synthesize one
		// so rle.Decoder can be reused verbatim for the legacy encoding.
		groups := (numValues + 7) / 8
		header := bitio.NewWriter(1)
		header.PutVlq(uint64(groups<<1) | 1)
		synth := append(header.Bytes(), buf[:n]...)
		dec, err := rle.NewDecoder(synth, d.bitWidth)
		if err != nil {
			return 0, err
		}
		d.rle = dec
		return n, nil

	default:
		return 0, errs.Unsupported("level: unsupported v1 level encoding %s", encoding)
	}
}

// ResetV2 primes the decoder from a v2 page's fixed-length RLE level slice
// (no length prefix -- the page header already carries the byte length).
func (d *Decoder) ResetV2(buf []byte, numValues int) error {
	d.numValues = numValues
	d.valuesRead = 0
	if d.bitWidth == 0 {
		d.rle = nil
		return nil
	}
	dec, err := rle.NewDecoder(buf, d.bitWidth)
	if err != nil {
		return err
	}
	d.rle = dec
	return nil
}

// ReadBatch fills out with up to len(out) levels, returning k <=
// min(len(out), numValues-valuesRead).
func (d *Decoder) ReadBatch(out []int32) int {
	remaining := d.numValues - d.valuesRead
	n := len(out)
	if n > remaining {
		n = remaining
	}
	if n <= 0 {
		return 0
	}
	if d.bitWidth == 0 {
		for i := 0; i < n; i++ {
			out[i] = 0
		}
		d.valuesRead += n
		return n
	}
	got := d.rle.ReadBatch(out[:n])
	d.valuesRead += got
	return got
}

// Remaining returns how many levels are left to read from the current page
// (numValues passed to the last ResetV1/ResetV2 minus valuesRead).
func (d *Decoder) Remaining() int { return d.numValues - d.valuesRead }

// Builder accumulates levels for the write path over a growable RLE stream.
type Builder struct {
	maxLevel int
	bitWidth int
	enc      *rle.Encoder
	count    int
}

// NewBuilder returns a builder for levels bounded by maxLevel.
func NewBuilder(maxLevel int) (*Builder, error) {
	bitWidth := bitio.BitWidth(maxLevel)
	if bitWidth == 0 {
		return &Builder{maxLevel: maxLevel, bitWidth: 0}, nil
	}
	enc, err := rle.NewEncoder(bitWidth)
	if err != nil {
		return nil, err
	}
	return &Builder{maxLevel: maxLevel, bitWidth: bitWidth, enc: enc}, nil
}

// Put appends a single level.
func (b *Builder) Put(v int32) {
	b.count++
	if b.bitWidth == 0 {
		return
	}
	b.enc.Put(v)
}

// PutBatch appends a slice of levels.
func (b *Builder) PutBatch(values []int32) {
	for _, v := range values {
		b.Put(v)
	}
}

// MaxEncodedSize returns a conservative upper bound on the committed byte
// size, used to size page buffers before a real flush.
func (b *Builder) MaxEncodedSize() int {
	if b.bitWidth == 0 {
		return 0
	}
	// Worst case: every value its own bit-packed group of 8, one header
	// byte per group, plus padding to a byte boundary.
	groups := (b.count + 7) / 8
	return groups*(1+b.bitWidth) + 8
}

// View returns the RLE-encoded bytes committed so far without a v1 length
// prefix. Callers writing v1 pages must prepend a 4-byte little-endian
// length themselves; v2 pages use the bytes directly.
func (b *Builder) View() []byte {
	if b.bitWidth == 0 {
		return nil
	}
	return b.enc.Close()
}

// Clear resets the builder for the next page, preserving maxLevel/bitWidth.
func (b *Builder) Clear() {
	b.count = 0
	if b.bitWidth != 0 {
		enc, _ := rle.NewEncoder(b.bitWidth)
		b.enc = enc
	}
}

// Count returns the number of levels appended since the last Clear.
func (b *Builder) Count() int { return b.count }

// BitWidth returns the level's bit width, i.e. bitio.BitWidth(maxLevel).
func (b *Builder) BitWidth() int { return b.bitWidth }
