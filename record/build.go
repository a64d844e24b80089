package record

import (
	"github.com/hexbee-net/parquet4go/chunk"
	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
	"github.com/hexbee-net/parquet4go/logicaltype"
	"github.com/hexbee-net/parquet4go/pqfile"
	"github.com/hexbee-net/parquet4go/schema"
)

// primitiveBatchSize is how many (def, rep, value) triplets a typed
// primitive reader pulls from its column chunk reader at a time.
const primitiveBatchSize = 1024

// typedPrimitiveReader buffers batches of triplets from one column chunk
// reader and hands them out one at a time; only the values whose def level
// equals this leaf's own (i.e. the value is actually present, not a null
// produced by some ancestor) advance through valBuf.
type typedPrimitiveReader[T any] struct {
	name        string
	defLevel    int
	logicalType logicaltype.LogicalType
	src         *chunk.Reader[T]

	defBuf, repBuf []int32
	valBuf         []T
	nLevels        int
	levelPos       int
	valuePos       int
}

func newTypedPrimitiveReader[T any](n *schema.Node, src *chunk.Reader[T]) *typedPrimitiveReader[T] {
	return &typedPrimitiveReader[T]{
		name:        n.Name,
		defLevel:    n.DefLevel,
		logicalType: n.LogicalType,
		src:         src,
		defBuf:      make([]int32, primitiveBatchSize),
		repBuf:      make([]int32, primitiveBatchSize),
		valBuf:      make([]T, primitiveBatchSize),
	}
}

func (r *typedPrimitiveReader[T]) Name() string { return r.name }

func (r *typedPrimitiveReader[T]) refill() error {
	if r.levelPos < r.nLevels {
		return nil
	}
	n, _, err := r.src.ReadBatch(primitiveBatchSize, r.defBuf, r.repBuf, r.valBuf)
	if err != nil {
		return err
	}
	r.nLevels, r.levelPos, r.valuePos = n, 0, 0
	return nil
}

// next consumes exactly one triplet, returning its value only if this leaf
// was actually present (def == leaf.defLevel, or unconditionally when
// defLevel is 0 since a required leaf's values are never null).
func (r *typedPrimitiveReader[T]) next() (def, rep int, val T, hasVal bool, err error) {
	if err = r.refill(); err != nil {
		return
	}
	if r.nLevels == 0 {
		def, rep = -1, -1
		return
	}
	def = int(r.defBuf[r.levelPos])
	rep = int(r.repBuf[r.levelPos])
	r.levelPos++
	if r.defLevel == 0 || def == r.defLevel {
		val = r.valBuf[r.valuePos]
		r.valuePos++
		hasVal = true
	}
	return
}

func (r *typedPrimitiveReader[T]) ReadField(c Consumer) error {
	_, _, val, hasVal, err := r.next()
	if err != nil {
		return err
	}
	if hasVal {
		c.AppendValue(r.logicalType, val)
	}
	return nil
}

func (r *typedPrimitiveReader[T]) SkipField() error {
	_, _, _, _, err := r.next()
	return err
}

func (r *typedPrimitiveReader[T]) CurrentLevels() (int, int, error) {
	if err := r.refill(); err != nil {
		return 0, 0, err
	}
	if r.nLevels == 0 {
		return -1, -1, nil
	}
	return int(r.defBuf[r.levelPos]), int(r.repBuf[r.levelPos]), nil
}

// NewRecordReader builds a reader stack over every top-level field of fr's
// logical schema, opening one column chunk reader per primitive leaf
// against row group rowGroup.
func NewRecordReader(fr *pqfile.FileReader, rowGroup uint32) (*RecordReader, error) {
	s, err := fr.Schema()
	if err != nil {
		return nil, err
	}
	fields := make([]fieldReader, len(s.Fields))
	for i, f := range s.Fields {
		child, err := newFieldReader(fr, f, rowGroup)
		if err != nil {
			return nil, err
		}
		fields[i] = child
	}
	return &RecordReader{fields: fields}, nil
}

func newFieldReader(fr *pqfile.FileReader, n *schema.Node, rowGroup uint32) (fieldReader, error) {
	switch n.Kind {
	case schema.KindPrimitive:
		return newPrimitiveReader(fr, n, rowGroup)

	case schema.KindOptional:
		child, err := newFieldReader(fr, n.Child, rowGroup)
		if err != nil {
			return nil, err
		}
		return &optionalReader{name: n.Name, defLevel: n.DefLevel, child: child}, nil

	case schema.KindList:
		elem, err := newFieldReader(fr, n.Child, rowGroup)
		if err != nil {
			return nil, err
		}
		return &listReader{name: n.Name, defLevel: n.DefLevel, repLevel: n.RepLevel, elem: elem}, nil

	case schema.KindMap:
		key, err := newFieldReader(fr, n.Key, rowGroup)
		if err != nil {
			return nil, err
		}
		value, err := newFieldReader(fr, n.Value, rowGroup)
		if err != nil {
			return nil, err
		}
		return &mapReader{name: n.Name, defLevel: n.DefLevel, repLevel: n.RepLevel, key: key, value: value}, nil

	default: // KindStruct
		fields := make([]fieldReader, len(n.Fields))
		for i, f := range n.Fields {
			child, err := newFieldReader(fr, f, rowGroup)
			if err != nil {
				return nil, err
			}
			fields[i] = child
		}
		return &structReader{name: n.Name, fields: fields}, nil
	}
}

func newPrimitiveReader(fr *pqfile.FileReader, n *schema.Node, rowGroup uint32) (fieldReader, error) {
	col := uint32(n.ColumnIndex)

	switch schema.PhysicalType(n.LogicalType) {
	case format.Type_BOOLEAN:
		src, err := pqfile.OpenBooleanColumnChunkReader(fr, rowGroup, col)
		if err != nil {
			return nil, err
		}
		return newTypedPrimitiveReader(n, src), nil

	case format.Type_INT32:
		src, err := pqfile.OpenInt32ColumnChunkReader(fr, rowGroup, col)
		if err != nil {
			return nil, err
		}
		return newTypedPrimitiveReader(n, src), nil

	case format.Type_INT64:
		src, err := pqfile.OpenInt64ColumnChunkReader(fr, rowGroup, col)
		if err != nil {
			return nil, err
		}
		return newTypedPrimitiveReader(n, src), nil

	case format.Type_INT96:
		src, err := pqfile.OpenInt96ColumnChunkReader(fr, rowGroup, col)
		if err != nil {
			return nil, err
		}
		return newTypedPrimitiveReader(n, src), nil

	case format.Type_FLOAT:
		src, err := pqfile.OpenFloatColumnChunkReader(fr, rowGroup, col)
		if err != nil {
			return nil, err
		}
		return newTypedPrimitiveReader(n, src), nil

	case format.Type_DOUBLE:
		src, err := pqfile.OpenDoubleColumnChunkReader(fr, rowGroup, col)
		if err != nil {
			return nil, err
		}
		return newTypedPrimitiveReader(n, src), nil

	case format.Type_FIXED_LEN_BYTE_ARRAY:
		src, err := pqfile.OpenFixedLenByteArrayColumnChunkReader(fr, rowGroup, col, int(n.TypeLength))
		if err != nil {
			return nil, err
		}
		return newTypedPrimitiveReader(n, src), nil

	case format.Type_BYTE_ARRAY:
		src, err := pqfile.OpenByteArrayColumnChunkReader(fr, rowGroup, col)
		if err != nil {
			return nil, err
		}
		return newTypedPrimitiveReader(n, src), nil

	default:
		return nil, errs.Unsupported("record: unsupported physical type for column %q", n.Name)
	}
}
