package pqfile

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/hexbee-net/parquet4go/chunk"
	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
	"github.com/hexbee-net/parquet4go/logicaltype"
	"github.com/hexbee-net/parquet4go/schema"
	"github.com/hexbee-net/parquet4go/values"
)

// columnWriter is the subset of chunk.Writer[T]'s API that doesn't depend on
// T, letting FileWriter drive every leaf's page/chunk lifecycle uniformly
// regardless of its physical type.
type columnWriter interface {
	RowsWritten() int64
	CurrentPageMaxSize() int
	FlushPage() error
	FlushChunk(sink io.Writer, pathInSchema []string) (*format.ColumnMetaData, error)
}

// ColumnWriter is a typed handle to one leaf's writer: exactly one of the
// pointers below is non-nil, matching Type. Record assembly puts values
// through the typed pointer directly; FileWriter drives the rest through
// the untyped columnWriter view.
type ColumnWriter struct {
	Type format.Type

	Boolean   *chunk.Writer[bool]
	Int32     *chunk.Writer[int32]
	Int64     *chunk.Writer[int64]
	Float     *chunk.Writer[float32]
	Double    *chunk.Writer[float64]
	ByteArray *chunk.Writer[[]byte]
}

func (c *ColumnWriter) column() columnWriter {
	switch c.Type {
	case format.Type_BOOLEAN:
		return c.Boolean
	case format.Type_INT32:
		return c.Int32
	case format.Type_INT64:
		return c.Int64
	case format.Type_FLOAT:
		return c.Float
	case format.Type_DOUBLE:
		return c.Double
	default: // BYTE_ARRAY, FIXED_LEN_BYTE_ARRAY
		return c.ByteArray
	}
}

// FileWriter assembles column chunks into row groups and a final footer.
// Columns are addressed by their position in the flattened writer schema
// (leaf order), matching Columns()'s order.
type FileWriter struct {
	file       *os.File
	fileOffset int64

	columns   []*ColumnWriter
	leafPaths [][]string

	metadata format.FileMetaData
}

// OpenWriter creates path (truncating any existing file), flattens root into
// the file's on-disk schema, and instantiates one column chunk writer per
// primitive leaf.
func OpenWriter(path string, root *schema.WriterSchema) (*FileWriter, error) {
	flat, err := schema.WriteSchema(root)
	if err != nil {
		return nil, errs.CorruptedWrap(err, "pqfile: could not flatten writer schema")
	}

	leaves, err := flattenLeaves(root)
	if err != nil {
		return nil, err
	}
	if len(leaves) != len(flat.LeafPaths) {
		return nil, errs.Corrupted("pqfile: leaf count mismatch between schema flattening and level computation (%d vs %d)",
			len(flat.LeafPaths), len(leaves))
	}

	columns := make([]*ColumnWriter, len(leaves))
	for i, l := range leaves {
		cw, err := newColumnWriter(l)
		if err != nil {
			return nil, errs.CorruptedWrap(err, "pqfile: could not open column writer for %v", flat.LeafPaths[i])
		}
		columns[i] = cw
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, errs.CorruptedWrap(err, "pqfile: could not create %q for writing", path)
	}
	if _, err := f.Write([]byte(magic)); err != nil {
		f.Close()
		return nil, err
	}

	return &FileWriter{
		file:       f,
		fileOffset: int64(len(magic)),
		columns:    columns,
		leafPaths:  flat.LeafPaths,
		metadata:   format.FileMetaData{Schema: toValueSlice(flat.Elements)},
	}, nil
}

// serializeStruct compact-Thrift-encodes v into a standalone byte slice,
// used both for the trailing footer and for each column chunk's embedded
// metadata copy, whose lengths must be known before they are written.
func serializeStruct(v format.Writable) ([]byte, error) {
	var buf bytes.Buffer
	if err := format.WriteStruct(v, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toValueSlice(elements []*format.SchemaElement) []format.SchemaElement {
	out := make([]format.SchemaElement, len(elements))
	for i, e := range elements {
		out[i] = *e
	}
	return out
}

// leafSpec is one primitive leaf of a flattened writer schema, carrying the
// definition/repetition level its ancestors accumulate.
type leafSpec struct {
	node     *schema.WriterNode
	defLevel int
	repLevel int
}

// flattenLeaves walks root exactly the way WriteSchema does (same field
// order, same list/map/struct recursion), computing per-leaf def/rep levels
// instead of SchemaElements: list_node raises both by one (plus one more
// def if optional) around its element; map_node does the same around both
// key and value; struct_node raises def by one per optional field, leaving
// rep untouched; a primitive leaf keeps whatever its ancestors accumulated,
// plus one more def level of its own if it is itself optional.
func flattenLeaves(root *schema.WriterSchema) ([]leafSpec, error) {
	var leaves []leafSpec
	var convert func(n *schema.WriterNode, def, rep int) error
	convert = func(n *schema.WriterNode, def, rep int) error {
		optInc := 0
		if n.Optional {
			optInc = 1
		}
		switch n.Kind {
		case schema.WriterList:
			return convert(n.Element, def+1+optInc, rep+1)
		case schema.WriterMap:
			if err := convert(n.Key, def+1+optInc, rep+1); err != nil {
				return err
			}
			return convert(n.Value, def+1+optInc, rep+1)
		case schema.WriterStruct:
			for _, field := range n.Fields {
				if err := convert(field, def+optInc, rep); err != nil {
					return err
				}
			}
			return nil
		default: // WriterPrimitive
			if n.LogicalType.Kind == logicaltype.Int96 {
				return errs.Unsupported("pqfile: INT96 is deprecated; writing INT96 is unsupported")
			}
			leaves = append(leaves, leafSpec{node: n, defLevel: def + optInc, repLevel: rep})
			return nil
		}
	}
	for _, field := range root.Fields {
		if err := convert(field, 0, 0); err != nil {
			return nil, err
		}
	}
	return leaves, nil
}

func newColumnWriter(l leafSpec) (*ColumnWriter, error) {
	n := l.node
	physType := schema.PhysicalType(n.LogicalType)
	fixedLen := int(n.TypeLength)

	switch physType {
	case format.Type_BOOLEAN:
		w, err := chunk.NewWriter[bool](l.defLevel, l.repLevel, physType, n.Compression,
			func() values.Encoder[bool] { return values.NewBooleanEncoder() }, false, nil)
		if err != nil {
			return nil, err
		}
		return &ColumnWriter{Type: physType, Boolean: w}, nil

	case format.Type_INT32:
		useDict := n.Encoding != format.Encoding_DELTA_BINARY_PACKED
		newEnc, persist := int32EncoderFactory(n.Encoding, useDict)
		w, err := chunk.NewWriter[int32](l.defLevel, l.repLevel, physType, n.Compression,
			newEnc, persist, func() values.Encoder[int32] { return values.NewInt32Encoder(false) })
		if err != nil {
			return nil, err
		}
		return &ColumnWriter{Type: physType, Int32: w}, nil

	case format.Type_INT64:
		useDict := n.Encoding != format.Encoding_DELTA_BINARY_PACKED
		newEnc, persist := int64EncoderFactory(n.Encoding, useDict)
		w, err := chunk.NewWriter[int64](l.defLevel, l.repLevel, physType, n.Compression,
			newEnc, persist, func() values.Encoder[int64] { return values.NewInt64Encoder(false) })
		if err != nil {
			return nil, err
		}
		return &ColumnWriter{Type: physType, Int64: w}, nil

	case format.Type_FLOAT:
		w, err := chunk.NewWriter[float32](l.defLevel, l.repLevel, physType, n.Compression,
			func() values.Encoder[float32] { return values.NewFloatEncoder(true) }, true,
			func() values.Encoder[float32] { return values.NewFloatEncoder(false) })
		if err != nil {
			return nil, err
		}
		return &ColumnWriter{Type: physType, Float: w}, nil

	case format.Type_DOUBLE:
		w, err := chunk.NewWriter[float64](l.defLevel, l.repLevel, physType, n.Compression,
			func() values.Encoder[float64] { return values.NewDoubleEncoder(true) }, true,
			func() values.Encoder[float64] { return values.NewDoubleEncoder(false) })
		if err != nil {
			return nil, err
		}
		return &ColumnWriter{Type: physType, Double: w}, nil

	case format.Type_BYTE_ARRAY, format.Type_FIXED_LEN_BYTE_ARRAY:
		newEnc, persist, err := byteArrayEncoderFactory(n.Encoding, fixedLen)
		if err != nil {
			return nil, err
		}
		w, err := chunk.NewWriter[[]byte](l.defLevel, l.repLevel, physType, n.Compression,
			newEnc, persist, func() values.Encoder[[]byte] { return values.NewByteArrayEncoder(fixedLen, false) })
		if err != nil {
			return nil, err
		}
		return &ColumnWriter{Type: physType, ByteArray: w}, nil

	default:
		return nil, errs.Unsupported("pqfile: unsupported physical type %s for writing", physType)
	}
}

func int32EncoderFactory(enc format.Encoding, useDict bool) (func() values.Encoder[int32], bool) {
	if enc == format.Encoding_DELTA_BINARY_PACKED {
		return func() values.Encoder[int32] { return values.NewInt32DeltaEncoder() }, false
	}
	return func() values.Encoder[int32] { return values.NewInt32Encoder(useDict) }, true
}

func int64EncoderFactory(enc format.Encoding, useDict bool) (func() values.Encoder[int64], bool) {
	if enc == format.Encoding_DELTA_BINARY_PACKED {
		return func() values.Encoder[int64] { return values.NewInt64DeltaEncoder() }, false
	}
	return func() values.Encoder[int64] { return values.NewInt64Encoder(useDict) }, true
}

func byteArrayEncoderFactory(enc format.Encoding, fixedLen int) (func() values.Encoder[[]byte], bool, error) {
	switch enc {
	case format.Encoding_DELTA_LENGTH_BYTE_ARRAY:
		return func() values.Encoder[[]byte] { return values.NewDeltaLengthByteArrayEncoder() }, false, nil
	case format.Encoding_DELTA_BYTE_ARRAY:
		return nil, false, errs.Unsupported("pqfile: DELTA_BYTE_ARRAY has no writer-side encoder; use PLAIN, RLE_DICTIONARY, or DELTA_LENGTH_BYTE_ARRAY")
	default:
		return func() values.Encoder[[]byte] { return values.NewByteArrayEncoder(fixedLen, true) }, true, nil
	}
}

// Columns returns the leaf column writers in schema order; record assembly
// puts values through the typed pointer matching each leaf's physical type.
func (fw *FileWriter) Columns() []*ColumnWriter { return fw.columns }

// EstimatedRowGroupSize sums every column's CurrentPageMaxSize, i.e. an
// upper bound on the size of the pages not yet cut, for callers deciding
// when to cut a row group. Pages already cut with FlushPage and dictionary
// pages are not counted.
func (fw *FileWriter) EstimatedRowGroupSize() int {
	size := 0
	for _, c := range fw.columns {
		size += c.column().CurrentPageMaxSize()
	}
	return size
}

// FlushRowGroup flushes every column's buffered pages as one row group,
// appending it to the file's metadata. All columns must have put the same
// number of complete records since the last flush.
func (fw *FileWriter) FlushRowGroup() error {
	var rowsWritten int64
	if len(fw.columns) > 0 {
		rowsWritten = fw.columns[0].column().RowsWritten()
	}
	rg := format.RowGroup{NumRows: rowsWritten}

	var totalByteSize int64
	for i, c := range fw.columns {
		cmd, err := c.column().FlushChunk(fw.file, fw.leafPaths[i])
		if err != nil {
			return errs.CorruptedWrap(err, "pqfile: could not flush column %v", fw.leafPaths[i])
		}
		if cmd.IsSetDictionaryOffset {
			cmd.DictionaryPageOffset += fw.fileOffset
		}
		cmd.DataPageOffset += fw.fileOffset

		footer, err := serializeStruct(cmd)
		if err != nil {
			return errs.CorruptedWrap(err, "pqfile: could not serialize column metadata for %v", fw.leafPaths[i])
		}

		fw.fileOffset += cmd.TotalCompressedSize
		cc := format.ColumnChunk{FileOffset: fw.fileOffset, MetaData: cmd}
		rg.Columns = append(rg.Columns, cc)
		totalByteSize += cmd.TotalCompressedSize + int64(len(footer))

		if _, err := fw.file.Write(footer); err != nil {
			return err
		}
		fw.fileOffset += int64(len(footer))
	}
	rg.TotalByteSize = totalByteSize

	fw.metadata.RowGroups = append(fw.metadata.RowGroups, rg)
	return nil
}

// Close flushes any buffered row group data, writes the footer, its 4-byte
// LE length, and the trailing magic, then closes the underlying file.
func (fw *FileWriter) Close() error {
	if err := fw.FlushRowGroup(); err != nil {
		fw.file.Close()
		return err
	}

	for _, rg := range fw.metadata.RowGroups {
		fw.metadata.NumRows += rg.NumRows
	}
	fw.metadata.Version = 1

	footer, err := serializeStruct(&fw.metadata)
	if err != nil {
		fw.file.Close()
		return errs.CorruptedWrap(err, "pqfile: could not serialize file metadata")
	}
	if _, err := fw.file.Write(footer); err != nil {
		fw.file.Close()
		return err
	}

	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(footer)))
	if _, err := fw.file.Write(lenBuf); err != nil {
		fw.file.Close()
		return err
	}
	if _, err := fw.file.Write([]byte(magic)); err != nil {
		fw.file.Close()
		return err
	}

	return fw.file.Close()
}
