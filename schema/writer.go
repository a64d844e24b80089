package schema

import (
	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
	"github.com/hexbee-net/parquet4go/logicaltype"
)

var errMapKeyOptional = errs.Corrupted("schema: map key must not be optional")

// WriterKind discriminates the shape of a user-authored writer schema node.
// Unlike Node (the reader-side logical tree), a writer node carries its own
// Optional flag directly rather than through a wrapping node: the caller
// declares the shape they want up front, and def/rep levels are computed
// only once the tree is flattened.
type WriterKind int

const (
	WriterPrimitive WriterKind = iota
	WriterList
	WriterMap
	WriterStruct
)

// WriterNode is one member of a schema tree supplied to the file writer.
type WriterNode struct {
	Kind     WriterKind
	Name     string
	Optional bool

	// WriterPrimitive
	LogicalType logicaltype.LogicalType
	TypeLength  int32 // only meaningful for FIXED_LEN_BYTE_ARRAY
	Encoding    format.Encoding
	Compression format.CompressionCodec

	// WriterList
	Element *WriterNode

	// WriterMap
	Key, Value *WriterNode

	// WriterStruct
	Fields []*WriterNode
}

// WriterSchema is the top-level message a caller hands to the file writer.
type WriterSchema struct {
	Fields []*WriterNode
}

// FlatSchema is the result of flattening a WriterSchema: the SchemaElement
// list ready to serialize into FileMetaData, plus the path (in flat-schema
// name terms) of each primitive leaf in the same order values are supplied
// to the column chunk writers.
type FlatSchema struct {
	Elements  []*format.SchemaElement
	LeafPaths [][]string
}

// WriteSchema flattens a writer schema into the SchemaElement list a file's
// FileMetaData carries, expanding list/map nodes into their 3-level and
// key_value group shapes.
func WriteSchema(root *WriterSchema) (*FlatSchema, error) {
	flat := &FlatSchema{}

	rootElement := &format.SchemaElement{
		Name:            "schema",
		NumChildren:     int32(len(root.Fields)),
		IsSetNumChildren: true,
	}
	flat.Elements = append(flat.Elements, rootElement)

	var path []string
	var convert func(n *WriterNode) error
	convert = func(n *WriterNode) error {
		rep := format.FieldRepetitionType_REQUIRED
		if n.Optional {
			rep = format.FieldRepetitionType_OPTIONAL
		}

		switch n.Kind {
		case WriterList:
			group := &format.SchemaElement{
				Name:            path[len(path)-1],
				NumChildren:     1,
				IsSetNumChildren: true,
				RepetitionType:  rep,
				IsSetRepetition: true,
				ConvertedType:   format.ConvertedType_LIST,
				IsSetConverted:  true,
				LogicalType:     &format.LogicalType{LIST: &format.ListType{}},
			}
			flat.Elements = append(flat.Elements, group)

			path = append(path, "list")
			repeatedElement := &format.SchemaElement{
				Name:            path[len(path)-1],
				NumChildren:     1,
				IsSetNumChildren: true,
				RepetitionType:  format.FieldRepetitionType_REPEATED,
				IsSetRepetition: true,
			}
			flat.Elements = append(flat.Elements, repeatedElement)

			path = append(path, "element")
			if err := convert(n.Element); err != nil {
				return err
			}
			path = path[:len(path)-1]
			path = path[:len(path)-1]
			return nil

		case WriterMap:
			group := &format.SchemaElement{
				Name:            path[len(path)-1],
				NumChildren:     1,
				IsSetNumChildren: true,
				RepetitionType:  rep,
				IsSetRepetition: true,
				ConvertedType:   format.ConvertedType_MAP,
				IsSetConverted:  true,
				LogicalType:     &format.LogicalType{MAP: &format.MapType{}},
			}
			flat.Elements = append(flat.Elements, group)

			path = append(path, "key_value")
			kv := &format.SchemaElement{
				Name:            path[len(path)-1],
				NumChildren:     2,
				IsSetNumChildren: true,
				RepetitionType:  format.FieldRepetitionType_REPEATED,
				IsSetRepetition: true,
			}
			flat.Elements = append(flat.Elements, kv)

			if n.Key.Optional {
				return errMapKeyOptional
			}
			path = append(path, "key")
			if err := convert(n.Key); err != nil {
				return err
			}
			path = path[:len(path)-1]

			path = append(path, "value")
			if err := convert(n.Value); err != nil {
				return err
			}
			path = path[:len(path)-1]

			path = path[:len(path)-1]
			return nil

		case WriterStruct:
			group := &format.SchemaElement{
				Name:            path[len(path)-1],
				NumChildren:     int32(len(n.Fields)),
				IsSetNumChildren: true,
				RepetitionType:  rep,
				IsSetRepetition: true,
			}
			flat.Elements = append(flat.Elements, group)

			for _, field := range n.Fields {
				path = append(path, field.Name)
				if err := convert(field); err != nil {
					return err
				}
				path = path[:len(path)-1]
			}
			return nil

		default: // WriterPrimitive
			leaf := &format.SchemaElement{
				Name:            path[len(path)-1],
				Type:            PhysicalType(n.LogicalType),
				IsSetType:       true,
				RepetitionType:  rep,
				IsSetRepetition: true,
			}
			if leaf.Type == format.Type_FIXED_LEN_BYTE_ARRAY {
				typeLength := n.TypeLength
				switch n.LogicalType.Kind {
				case logicaltype.UUID:
					typeLength = 16
				case logicaltype.Interval:
					typeLength = 12
				}
				leaf.TypeLength = typeLength
				leaf.IsSetTypeLength = true
			}
			logicaltype.Write(n.LogicalType, leaf)
			flat.Elements = append(flat.Elements, leaf)

			leafPath := make([]string, len(path))
			copy(leafPath, path)
			flat.LeafPaths = append(flat.LeafPaths, leafPath)
			return nil
		}
	}

	for _, field := range root.Fields {
		path = append(path, field.Name)
		if err := convert(field); err != nil {
			return nil, err
		}
		path = path[:len(path)-1]
	}

	return flat, nil
}

// PhysicalType maps a logical type to the physical Parquet type it is
// stored as, used both when flattening a writer schema and when
// constructing a column chunk writer for a given leaf.
func PhysicalType(lt logicaltype.LogicalType) format.Type {
	switch lt.Kind {
	case logicaltype.Boolean:
		return format.Type_BOOLEAN
	case logicaltype.Int32, logicaltype.Int8, logicaltype.Int16, logicaltype.UInt8, logicaltype.UInt16, logicaltype.UInt32,
		logicaltype.DecimalInt32, logicaltype.Date, logicaltype.TimeMillis:
		return format.Type_INT32
	case logicaltype.Int64, logicaltype.UInt64, logicaltype.DecimalInt64,
		logicaltype.TimeMicros, logicaltype.TimeNanos,
		logicaltype.TimestampMillis, logicaltype.TimestampMicros, logicaltype.TimestampNanos:
		return format.Type_INT64
	case logicaltype.Int96:
		return format.Type_INT96
	case logicaltype.Float:
		return format.Type_FLOAT
	case logicaltype.Double:
		return format.Type_DOUBLE
	case logicaltype.ByteArray, logicaltype.String, logicaltype.Enum, logicaltype.JSON, logicaltype.BSON,
		logicaltype.DecimalByteArray:
		return format.Type_BYTE_ARRAY
	case logicaltype.FixedLenByteArray, logicaltype.UUID, logicaltype.Interval, logicaltype.DecimalFixedLenByteArray:
		return format.Type_FIXED_LEN_BYTE_ARRAY
	default:
		return format.Type_BYTE_ARRAY
	}
}
