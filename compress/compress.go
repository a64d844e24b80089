// Package compress wraps every codec library the retrieval pack pulls in
// (gzip, Snappy, Brotli, LZ4, Zstandard) behind one Compressor interface,
// selected per column chunk by CompressionCodec. It is adapted from the
// pack's per-codec wrapper types, tightened to the module's known-size
// decompression contract: a decompressed payload that would overflow the
// caller-declared capacity is a CorruptedFile, never a silent truncation.
package compress

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"io/ioutil"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"

	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
)

// Compressor is a uniform wrapper around a page compression codec.
type Compressor interface {
	// Compress returns the compressed form of in.
	Compress(in []byte) ([]byte, error)
	// Decompress decompresses in, failing with CorruptedFile if the
	// decompressed payload is larger than uncompressedSize -- the caller
	// is expected to already know the exact uncompressed size from the
	// page header, and a mismatch means the file is corrupt.
	Decompress(in []byte, uncompressedSize int) ([]byte, error)
	// Codec returns the enum tag this compressor implements.
	Codec() format.CompressionCodec
}

// Get returns the Compressor for codec, or an Unsupported error for any
// codec this build does not implement.
func Get(codec format.CompressionCodec) (Compressor, error) {
	switch codec {
	case format.CompressionCodec_UNCOMPRESSED:
		return uncompressed{}, nil
	case format.CompressionCodec_SNAPPY:
		return snappyCodec{}, nil
	case format.CompressionCodec_GZIP:
		return gzipCodec{}, nil
	case format.CompressionCodec_BROTLI:
		return brotliCodec{}, nil
	case format.CompressionCodec_LZ4:
		return lz4Codec{}, nil
	case format.CompressionCodec_ZSTD:
		return zstdCodec{}, nil
	default:
		return nil, errs.Unsupported("unsupported compression codec: %s", codec)
	}
}

func boundedResult(decompressed []byte, uncompressedSize int) ([]byte, error) {
	if len(decompressed) > uncompressedSize {
		return nil, errs.Corrupted(
			"decompressed size %dB exceeds declared uncompressed size %dB", len(decompressed), uncompressedSize)
	}
	return decompressed, nil
}

type uncompressed struct{}

func (uncompressed) Codec() format.CompressionCodec { return format.CompressionCodec_UNCOMPRESSED }
func (uncompressed) Compress(in []byte) ([]byte, error) {
	out := make([]byte, len(in))
	copy(out, in)
	return out, nil
}
func (uncompressed) Decompress(in []byte, uncompressedSize int) ([]byte, error) {
	return boundedResult(in, uncompressedSize)
}

type snappyCodec struct{}

func (snappyCodec) Codec() format.CompressionCodec { return format.CompressionCodec_SNAPPY }
func (snappyCodec) Compress(in []byte) ([]byte, error) {
	return snappy.Encode(nil, in), nil
}
func (snappyCodec) Decompress(in []byte, uncompressedSize int) ([]byte, error) {
	out, err := snappy.Decode(nil, in)
	if err != nil {
		return nil, errs.CorruptedWrap(err, "snappy decompression failed")
	}
	return boundedResult(out, uncompressedSize)
}

// gzipCodec always writes the standard gzip container. On read it accepts
// either that container or a raw deflate stream, told apart by the gzip
// magic bytes (0x1f 0x8b) at the start of the input.
type gzipCodec struct{}

func (gzipCodec) Codec() format.CompressionCodec { return format.CompressionCodec_GZIP }
func (gzipCodec) Compress(in []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := gzip.NewWriter(buf)
	if _, err := w.Write(in); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
func (gzipCodec) Decompress(in []byte, uncompressedSize int) ([]byte, error) {
	if len(in) < 2 || in[0] != 0x1f || in[1] != 0x8b {
		out, err := ioutil.ReadAll(flate.NewReader(bytes.NewReader(in)))
		if err != nil {
			return nil, errs.CorruptedWrap(err, "deflate decompression failed")
		}
		return boundedResult(out, uncompressedSize)
	}
	r, err := gzip.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, errs.CorruptedWrap(err, "gzip decompression failed")
	}
	out, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errs.CorruptedWrap(err, "gzip decompression failed")
	}
	if err := r.Close(); err != nil {
		return nil, err
	}
	return boundedResult(out, uncompressedSize)
}

type brotliCodec struct{}

func (brotliCodec) Codec() format.CompressionCodec { return format.CompressionCodec_BROTLI }
func (brotliCodec) Compress(in []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := brotli.NewWriter(buf)
	if _, err := w.Write(in); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
func (brotliCodec) Decompress(in []byte, uncompressedSize int) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(in))
	out, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errs.CorruptedWrap(err, "brotli decompression failed")
	}
	return boundedResult(out, uncompressedSize)
}

type lz4Codec struct{}

func (lz4Codec) Codec() format.CompressionCodec { return format.CompressionCodec_LZ4 }
func (lz4Codec) Compress(in []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := lz4.NewWriter(buf)
	if _, err := w.Write(in); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
func (lz4Codec) Decompress(in []byte, uncompressedSize int) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(in))
	out, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errs.CorruptedWrap(err, "lz4 decompression failed")
	}
	return boundedResult(out, uncompressedSize)
}

type zstdCodec struct{}

func (zstdCodec) Codec() format.CompressionCodec { return format.CompressionCodec_ZSTD }
func (zstdCodec) Compress(in []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	w, err := zstd.NewWriter(buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(in); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
func (zstdCodec) Decompress(in []byte, uncompressedSize int) ([]byte, error) {
	r, err := zstd.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, errs.CorruptedWrap(err, "zstd decompression failed")
	}
	defer r.Close()
	out, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errs.CorruptedWrap(err, "zstd decompression failed")
	}
	return boundedResult(out, uncompressedSize)
}
