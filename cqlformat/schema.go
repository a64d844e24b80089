// Package cqlformat renders a parquet file's schema and rows as CQL DDL/DML
// text: CREATE TYPE for every nested struct, CREATE TABLE for the top-level
// columns, and one INSERT INTO per assembled record. It is grounded on
// original_source's src/cql_reader.cc, the only consumer implementation the
// reference codebase ships alongside record_reader.hh/.cc.
package cqlformat

import (
	"strconv"
	"strings"

	"github.com/hexbee-net/parquet4go/logicaltype"
	"github.com/hexbee-net/parquet4go/schema"
)

// udtNode is one column (or nested field) of a schema being translated to
// CQL, carrying the CQL type text and identifier already computed for it
// plus its converted children.
type udtNode struct {
	kind       schema.Kind
	cqlType    string
	identifier string
	children   []udtNode
	isUDT      bool
}

// TableSchema is a parquet schema already translated into CQL types, ready
// to render CREATE TYPE/CREATE TABLE statements or a column list for
// INSERT INTO.
type TableSchema struct {
	columns []udtNode
}

// BuildTableSchema converts s into CQL types, assigning every struct node
// (including one nested inside an optional wrapper) an anonymous UDT name
// of the form "<table>_udt_<n>" in post-order encounter order, matching
// the reference implementation's naming scheme exactly.
func BuildTableSchema(s *schema.Schema, table string) *TableSchema {
	udtIndex := 0
	columns := make([]udtNode, len(s.Fields))
	for i, f := range s.Fields {
		columns[i] = convertNode(f, table, &udtIndex)
	}
	return &TableSchema{columns: columns}
}

func convertNode(n *schema.Node, table string, udtIndex *int) udtNode {
	switch n.Kind {
	case schema.KindPrimitive:
		return udtNode{kind: n.Kind, cqlType: primitiveCQLType(n.LogicalType), identifier: quoteIdentifier(n.Name)}

	case schema.KindList:
		elem := convertNode(n.Child, table, udtIndex)
		return udtNode{
			kind:       n.Kind,
			cqlType:    "frozen<list<" + elem.cqlType + ">>",
			identifier: quoteIdentifier(n.Name),
			children:   []udtNode{elem},
		}

	case schema.KindMap:
		key := convertNode(n.Key, table, udtIndex)
		value := convertNode(n.Value, table, udtIndex)
		return udtNode{
			kind:       n.Kind,
			cqlType:    "frozen<map<" + key.cqlType + ", " + value.cqlType + ">>",
			identifier: quoteIdentifier(n.Name),
			children:   []udtNode{key, value},
		}

	case schema.KindOptional:
		child := convertNode(n.Child, table, udtIndex)
		return udtNode{
			kind:       n.Kind,
			cqlType:    child.cqlType,
			identifier: quoteIdentifier(n.Name),
			children:   []udtNode{child},
			isUDT:      child.isUDT,
		}

	default: // KindStruct
		children := make([]udtNode, len(n.Fields))
		for i, f := range n.Fields {
			children[i] = convertNode(f, table, udtIndex)
		}
		name := quoteIdentifier(table + "_udt_" + strconv.Itoa(*udtIndex))
		*udtIndex++
		return udtNode{kind: n.Kind, cqlType: name, identifier: quoteIdentifier(n.Name), children: children, isUDT: true}
	}
}

// primitiveCQLType maps a logical type to the CQL column type used for it,
// matching cql_reader.cc's primitive_cql_type table.
func primitiveCQLType(lt logicaltype.LogicalType) string {
	switch lt.Kind {
	case logicaltype.String, logicaltype.Enum, logicaltype.JSON:
		return "text"
	case logicaltype.UUID:
		return "uuid"
	case logicaltype.Int8:
		return "tinyint"
	case logicaltype.Int16:
		return "smallint"
	case logicaltype.Int32:
		return "int"
	case logicaltype.Int64:
		return "bigint"
	case logicaltype.UInt8:
		return "smallint"
	case logicaltype.UInt16:
		return "int"
	case logicaltype.UInt32:
		return "bigint"
	case logicaltype.UInt64:
		return "varint"
	case logicaltype.DecimalInt32, logicaltype.DecimalInt64, logicaltype.DecimalByteArray, logicaltype.DecimalFixedLenByteArray:
		return "decimal"
	case logicaltype.Date:
		return "date"
	case logicaltype.TimeMillis, logicaltype.TimeMicros, logicaltype.TimeNanos:
		return "time"
	case logicaltype.TimestampMillis:
		return "timestamp"
	case logicaltype.TimestampMicros, logicaltype.TimestampNanos:
		return "bigint"
	case logicaltype.Interval:
		return "duration"
	case logicaltype.BSON:
		return "blob"
	case logicaltype.Float:
		return "float"
	case logicaltype.Double:
		return "double"
	case logicaltype.ByteArray, logicaltype.FixedLenByteArray:
		return "blob"
	case logicaltype.Int96:
		return "varint"
	case logicaltype.Boolean:
		return "boolean"
	default: // Unknown
		return "int"
	}
}

// printUDTCreateStatements emits one CREATE TYPE per struct node reachable
// from columns, children before parents, so a UDT never references a type
// not yet declared.
func printUDTCreateStatements(columns []udtNode, out *strings.Builder) {
	var print func(x udtNode)
	print = func(x udtNode) {
		for _, child := range x.children {
			print(child)
		}
		if x.kind != schema.KindStruct {
			return
		}
		out.WriteString("CREATE TYPE ")
		out.WriteString(x.cqlType)
		out.WriteString(" (")
		sep := ""
		for _, child := range x.children {
			out.WriteString(sep)
			sep = ", "
			out.WriteString(child.identifier)
			out.WriteString(" ")
			if child.isUDT {
				out.WriteString("frozen<")
				out.WriteString(child.cqlType)
				out.WriteString(">")
			} else {
				out.WriteString(child.cqlType)
			}
		}
		out.WriteString(");\n")
	}
	for _, c := range columns {
		print(c)
	}
}

// CreateStatements renders the CREATE TYPE statements for every nested
// struct plus the CREATE TABLE statement for the top-level columns, table
// and primaryKey already quoted as CQL identifiers.
func (t *TableSchema) CreateStatements(table, primaryKey string) string {
	var out strings.Builder
	printUDTCreateStatements(t.columns, &out)

	out.WriteString("CREATE TABLE ")
	out.WriteString(table)
	out.WriteString("(")
	out.WriteString(primaryKey)
	out.WriteString(" bigint PRIMARY KEY")
	for _, c := range t.columns {
		out.WriteString(", ")
		out.WriteString(c.identifier)
		out.WriteString(" ")
		if c.isUDT {
			out.WriteString("frozen<" + c.cqlType + ">")
		} else {
			out.WriteString(c.cqlType)
		}
	}
	out.WriteString(");\n")
	return out.String()
}

// ColumnList renders the "table(pk, col1, col2, ...)" clause an INSERT INTO
// statement's target list uses.
func (t *TableSchema) ColumnList(table, primaryKey string) string {
	var out strings.Builder
	out.WriteString(table)
	out.WriteString("(")
	out.WriteString(primaryKey)
	for _, c := range t.columns {
		out.WriteString(", ")
		out.WriteString(c.identifier)
	}
	out.WriteString(")")
	return out.String()
}

// quoteIdentifier double-quotes s as a CQL identifier, doubling any
// embedded double quote.
func quoteIdentifier(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' {
			b.WriteByte(c)
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}
