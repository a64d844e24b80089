// Package pqfile implements the whole-file layer (§4.K/§4.L): FileReader
// parses the footer and lazily computes the schema trees; FileWriter
// assembles column chunks into row groups and a final footer. Both are
// grounded on original_source's file_reader.hh/.cc and file_writer.hh,
// adapted from seastar futures to plain synchronous os.File I/O.
package pqfile

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/hexbee-net/parquet4go/chunk"
	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
	"github.com/hexbee-net/parquet4go/page"
	"github.com/hexbee-net/parquet4go/schema"
	"github.com/hexbee-net/parquet4go/values"
)

const (
	magic      = "PAR1"
	magicEnc   = "PARE"
	footerTail = 8 // 4-byte length + 4-byte magic
)

// FileReader holds an open parquet file's metadata; the schema trees are
// computed on first use so that low-level metadata inspection still works
// on files whose schema this reader cannot validate.
type FileReader struct {
	path     string
	file     *os.File
	metadata *format.FileMetaData

	rawSchema *schema.RawSchema
	logSchema *schema.Schema

	siblingFiles []*os.File // opened for column chunks with a file_path override
}

// Open reads and validates path's footer and decodes its FileMetaData.
func Open(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.CorruptedWrap(err, "pqfile: could not open %q for reading", path)
	}

	metadata, err := readFileMetadata(f)
	if err != nil {
		f.Close()
		return nil, errs.WrapPreservingKind(err, "pqfile: could not open parquet file %q for reading", path)
	}

	return &FileReader{path: path, file: f, metadata: metadata}, nil
}

func readFileMetadata(f *os.File) (*format.FileMetaData, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if size < footerTail {
		return nil, errs.Corrupted("File too small (%dB) to be a parquet file", size)
	}

	footer := make([]byte, footerTail)
	if _, err := f.ReadAt(footer, size-footerTail); err != nil {
		return nil, err
	}

	switch string(footer[4:8]) {
	case magicEnc:
		return nil, errs.Unsupported("Parquet encryption is currently unsupported")
	case magic:
		// ok
	default:
		return nil, errs.Corrupted("Magic bytes not found in footer")
	}

	metadataLen := int64(binary.LittleEndian.Uint32(footer[0:4]))
	if metadataLen+footerTail > size {
		return nil, errs.Corrupted(
			"Metadata size reported by footer (%dB) greater than file size (%dB)", metadataLen+footerTail, size)
	}

	buf := make([]byte, metadataLen)
	if _, err := f.ReadAt(buf, size-footerTail-metadataLen); err != nil {
		return nil, err
	}

	metadata := &format.FileMetaData{}
	if err := format.ReadStruct(metadata, bytes.NewReader(buf)); err != nil {
		return nil, errs.CorruptedWrap(err, "could not deserialize FileMetaData")
	}
	return metadata, nil
}

// Close releases the underlying file handle and any sibling files opened
// for column chunks with a file_path override.
func (fr *FileReader) Close() error {
	err := fr.file.Close()
	for _, f := range fr.siblingFiles {
		if e := f.Close(); err == nil {
			err = e
		}
	}
	return err
}

// Path returns the path Open was called with.
func (fr *FileReader) Path() string { return fr.path }

// Metadata returns the decoded FileMetaData.
func (fr *FileReader) Metadata() *format.FileMetaData { return fr.metadata }

// RawSchema returns the raw schema tree, computing it on first call.
func (fr *FileReader) RawSchema() (*schema.RawSchema, error) {
	if fr.rawSchema == nil {
		elements := make([]*format.SchemaElement, len(fr.metadata.Schema))
		for i := range fr.metadata.Schema {
			elements[i] = &fr.metadata.Schema[i]
		}
		raw, err := schema.FlatToRaw(elements)
		if err != nil {
			return nil, err
		}
		fr.rawSchema = raw
	}
	return fr.rawSchema, nil
}

// Schema returns the logical schema tree, computing it (and the raw schema
// it is derived from) on first call.
func (fr *FileReader) Schema() (*schema.Schema, error) {
	if fr.logSchema == nil {
		raw, err := fr.RawSchema()
		if err != nil {
			return nil, err
		}
		s, err := schema.RawToLogical(raw)
		if err != nil {
			return nil, err
		}
		fr.logSchema = s
	}
	return fr.logSchema, nil
}

// resolvedChunk carries everything needed to open a page reader for one
// column chunk: which file it lives in, where its page stream starts, how
// long it runs, and the metadata governing its decode.
type resolvedChunk struct {
	file     *os.File
	metadata *format.ColumnMetaData
	leaf     *schema.RawNode
}

// resolveColumnChunk implements the shared lookup steps of
// open_column_chunk_reader: locating the sibling file (if any), and
// trusting the embedded ColumnMetaData without re-reading the copy placed
// after the chunk bytes.
func (fr *FileReader) resolveColumnChunk(rowGroup, column uint32) (*resolvedChunk, error) {
	raw, err := fr.RawSchema()
	if err != nil {
		return nil, err
	}
	if int(column) >= len(raw.Leaves) {
		return nil, errs.Corrupted("pqfile: column %d out of range (schema has %d leaves)", column, len(raw.Leaves))
	}
	if int(rowGroup) >= len(fr.metadata.RowGroups) {
		return nil, errs.Corrupted("pqfile: row group %d out of range (file has %d)", rowGroup, len(fr.metadata.RowGroups))
	}
	rg := fr.metadata.RowGroups[rowGroup]
	if int(column) >= len(rg.Columns) {
		return nil, errs.Corrupted("pqfile: selected column metadata is missing from row group %d", rowGroup)
	}
	cc := rg.Columns[column]

	f := fr.file
	if cc.IsSetPath {
		sibling, err := os.Open(fr.path + cc.FilePath)
		if err != nil {
			return nil, err
		}
		fr.siblingFiles = append(fr.siblingFiles, sibling)
		f = sibling
	}

	if cc.MetaData == nil {
		return nil, errs.Corrupted("pqfile: column chunk %d in row group %d has no embedded metadata", column, rowGroup)
	}

	return &resolvedChunk{file: f, metadata: cc.MetaData, leaf: raw.Leaves[column]}, nil
}

func startOffset(md *format.ColumnMetaData) int64 {
	if md.IsSetDictionaryOffset {
		return md.DictionaryPageOffset
	}
	return md.DataPageOffset
}

// newChunkSection returns an io.Reader bounded to exactly
// total_compressed_size bytes starting at the chunk's dictionary/data page
// offset, positioned via a dedicated read at that offset so concurrent
// reads of sibling chunks on the same file don't race on a shared cursor.
func newChunkSection(rc *resolvedChunk) (io.Reader, error) {
	return io.NewSectionReader(rc.file, startOffset(rc.metadata), rc.metadata.TotalCompressedSize), nil
}

func openTypedColumnChunkReader[T any](
	fr *FileReader, rowGroup, column uint32,
	newValueDecoder func(format.Encoding) (values.Decoder[T], error),
) (*chunk.Reader[T], error) {
	rc, err := fr.resolveColumnChunk(rowGroup, column)
	if err != nil {
		return nil, errs.CorruptedWrap(err, "pqfile: could not open column chunk %d in row group %d", column, rowGroup)
	}
	section, err := newChunkSection(rc)
	if err != nil {
		return nil, err
	}

	r := chunk.NewReader[T](page.NewReader(section), rc.leaf.DefLevel, rc.leaf.RepLevel, newValueDecoder)
	r.SetCodec(rc.metadata.Codec)
	return r, nil
}

// OpenBooleanColumnChunkReader opens a BOOLEAN column chunk reader.
func OpenBooleanColumnChunkReader(fr *FileReader, rowGroup, column uint32) (*chunk.Reader[bool], error) {
	return openTypedColumnChunkReader[bool](fr, rowGroup, column, booleanValueDecoder)
}

// OpenInt32ColumnChunkReader opens an INT32 column chunk reader.
func OpenInt32ColumnChunkReader(fr *FileReader, rowGroup, column uint32) (*chunk.Reader[int32], error) {
	return openTypedColumnChunkReader[int32](fr, rowGroup, column, int32ValueDecoder)
}

// OpenInt64ColumnChunkReader opens an INT64 column chunk reader.
func OpenInt64ColumnChunkReader(fr *FileReader, rowGroup, column uint32) (*chunk.Reader[int64], error) {
	return openTypedColumnChunkReader[int64](fr, rowGroup, column, int64ValueDecoder)
}

// OpenInt96ColumnChunkReader opens a (deprecated) INT96 column chunk reader.
func OpenInt96ColumnChunkReader(fr *FileReader, rowGroup, column uint32) (*chunk.Reader[values.Int96], error) {
	return openTypedColumnChunkReader[values.Int96](fr, rowGroup, column, int96ValueDecoder)
}

// OpenFloatColumnChunkReader opens a FLOAT column chunk reader.
func OpenFloatColumnChunkReader(fr *FileReader, rowGroup, column uint32) (*chunk.Reader[float32], error) {
	return openTypedColumnChunkReader[float32](fr, rowGroup, column, floatValueDecoder)
}

// OpenDoubleColumnChunkReader opens a DOUBLE column chunk reader.
func OpenDoubleColumnChunkReader(fr *FileReader, rowGroup, column uint32) (*chunk.Reader[float64], error) {
	return openTypedColumnChunkReader[float64](fr, rowGroup, column, doubleValueDecoder)
}

// OpenByteArrayColumnChunkReader opens a BYTE_ARRAY column chunk reader.
func OpenByteArrayColumnChunkReader(fr *FileReader, rowGroup, column uint32) (*chunk.Reader[[]byte], error) {
	return openTypedColumnChunkReader[[]byte](fr, rowGroup, column, byteArrayValueDecoder(0))
}

// OpenFixedLenByteArrayColumnChunkReader opens a FIXED_LEN_BYTE_ARRAY
// column chunk reader; typeLength must match the schema leaf's type_length.
func OpenFixedLenByteArrayColumnChunkReader(fr *FileReader, rowGroup, column uint32, typeLength int) (*chunk.Reader[[]byte], error) {
	return openTypedColumnChunkReader[[]byte](fr, rowGroup, column, byteArrayValueDecoder(typeLength))
}

func booleanValueDecoder(enc format.Encoding) (values.Decoder[bool], error) {
	if enc != format.Encoding_PLAIN && enc != format.Encoding_RLE {
		return nil, errs.Unsupported("pqfile: unsupported encoding %s for BOOLEAN", enc)
	}
	return values.NewBooleanDecoder(), nil
}

func int32ValueDecoder(enc format.Encoding) (values.Decoder[int32], error) {
	switch enc {
	case format.Encoding_PLAIN, format.Encoding_RLE_DICTIONARY, format.Encoding_PLAIN_DICTIONARY:
		return values.NewInt32PlainDecoder(), nil
	case format.Encoding_DELTA_BINARY_PACKED:
		return values.NewInt32DeltaDecoder(), nil
	default:
		return nil, errs.Unsupported("pqfile: unsupported encoding %s for INT32", enc)
	}
}

func int64ValueDecoder(enc format.Encoding) (values.Decoder[int64], error) {
	switch enc {
	case format.Encoding_PLAIN, format.Encoding_RLE_DICTIONARY, format.Encoding_PLAIN_DICTIONARY:
		return values.NewInt64PlainDecoder(), nil
	case format.Encoding_DELTA_BINARY_PACKED:
		return values.NewInt64DeltaDecoder(), nil
	default:
		return nil, errs.Unsupported("pqfile: unsupported encoding %s for INT64", enc)
	}
}

func int96ValueDecoder(enc format.Encoding) (values.Decoder[values.Int96], error) {
	if enc != format.Encoding_PLAIN && enc != format.Encoding_RLE_DICTIONARY && enc != format.Encoding_PLAIN_DICTIONARY {
		return nil, errs.Unsupported("pqfile: unsupported encoding %s for INT96", enc)
	}
	return values.NewInt96PlainDecoder(), nil
}

func floatValueDecoder(enc format.Encoding) (values.Decoder[float32], error) {
	if enc != format.Encoding_PLAIN && enc != format.Encoding_RLE_DICTIONARY && enc != format.Encoding_PLAIN_DICTIONARY {
		return nil, errs.Unsupported("pqfile: unsupported encoding %s for FLOAT", enc)
	}
	return values.NewFloatPlainDecoder(), nil
}

func doubleValueDecoder(enc format.Encoding) (values.Decoder[float64], error) {
	if enc != format.Encoding_PLAIN && enc != format.Encoding_RLE_DICTIONARY && enc != format.Encoding_PLAIN_DICTIONARY {
		return nil, errs.Unsupported("pqfile: unsupported encoding %s for DOUBLE", enc)
	}
	return values.NewDoublePlainDecoder(), nil
}

func byteArrayValueDecoder(fixedLen int) func(format.Encoding) (values.Decoder[[]byte], error) {
	return func(enc format.Encoding) (values.Decoder[[]byte], error) {
		switch enc {
		case format.Encoding_PLAIN, format.Encoding_RLE_DICTIONARY, format.Encoding_PLAIN_DICTIONARY:
			return values.NewByteArrayDecoder(fixedLen), nil
		case format.Encoding_DELTA_LENGTH_BYTE_ARRAY:
			return values.NewDeltaLengthByteArrayDecoder(), nil
		case format.Encoding_DELTA_BYTE_ARRAY:
			return values.NewDeltaByteArrayDecoder(), nil
		default:
			return nil, errs.Unsupported("pqfile: unsupported encoding %s for byte-array physical type", enc)
		}
	}
}
