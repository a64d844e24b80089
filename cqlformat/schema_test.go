package cqlformat

import (
	"testing"

	"github.com/hexbee-net/parquet4go/logicaltype"
	"github.com/hexbee-net/parquet4go/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"col"`, quoteIdentifier("col"))
	assert.Equal(t, `"a""b"`, quoteIdentifier(`a"b`))
}

func TestPrimitiveCQLType(t *testing.T) {
	cases := []struct {
		kind logicaltype.Kind
		want string
	}{
		{logicaltype.String, "text"},
		{logicaltype.UUID, "uuid"},
		{logicaltype.Int32, "int"},
		{logicaltype.Int64, "bigint"},
		{logicaltype.Boolean, "boolean"},
		{logicaltype.Float, "float"},
		{logicaltype.Double, "double"},
		{logicaltype.ByteArray, "blob"},
		{logicaltype.Int96, "varint"},
		{logicaltype.Unknown, "int"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, primitiveCQLType(logicaltype.LogicalType{Kind: c.kind}))
	}
}

func primitiveNode(name string, col int, kind logicaltype.Kind) *schema.Node {
	return &schema.Node{
		Kind:        schema.KindPrimitive,
		Name:        name,
		LogicalType: logicaltype.LogicalType{Kind: kind},
		ColumnIndex: col,
	}
}

func TestBuildTableSchema_FlatColumns(t *testing.T) {
	s := &schema.Schema{Fields: []*schema.Node{
		primitiveNode("id", 0, logicaltype.Int64),
		primitiveNode("name", 1, logicaltype.String),
	}}
	ts := BuildTableSchema(s, "mytable")
	require.Len(t, ts.columns, 2)
	assert.Equal(t, `"id"`, ts.columns[0].identifier)
	assert.Equal(t, "bigint", ts.columns[0].cqlType)
	assert.Equal(t, `"name"`, ts.columns[1].identifier)
	assert.Equal(t, "text", ts.columns[1].cqlType)
}

func TestBuildTableSchema_NestedStructGetsAnonymousUDTName(t *testing.T) {
	inner := &schema.Node{
		Kind: schema.KindStruct,
		Name: "addr",
		Fields: []*schema.Node{
			primitiveNode("city", 0, logicaltype.String),
		},
	}
	s := &schema.Schema{Fields: []*schema.Node{inner}}
	ts := BuildTableSchema(s, "person")
	require.Len(t, ts.columns, 1)
	assert.Equal(t, `"person_udt_0"`, ts.columns[0].cqlType)
	assert.True(t, ts.columns[0].isUDT)
}

func TestBuildTableSchema_PostOrderUDTNumbering(t *testing.T) {
	// Two sibling structs at the top level, plus a nested struct inside the
	// second one, must be numbered depth-first, left to right, children
	// before parents.
	leaf := func(n string) *schema.Node { return primitiveNode(n, 0, logicaltype.Int32) }
	first := &schema.Node{Kind: schema.KindStruct, Name: "a", Fields: []*schema.Node{leaf("x")}}
	nested := &schema.Node{Kind: schema.KindStruct, Name: "inner", Fields: []*schema.Node{leaf("y")}}
	second := &schema.Node{Kind: schema.KindStruct, Name: "b", Fields: []*schema.Node{nested}}

	s := &schema.Schema{Fields: []*schema.Node{first, second}}
	ts := BuildTableSchema(s, "t")

	assert.Equal(t, `"t_udt_0"`, ts.columns[0].cqlType)
	assert.Equal(t, `"t_udt_1"`, ts.columns[1].children[0].cqlType, "nested struct numbered before its enclosing struct")
	assert.Equal(t, `"t_udt_2"`, ts.columns[1].cqlType)
}

func TestBuildTableSchema_ListAndMap(t *testing.T) {
	list := &schema.Node{Kind: schema.KindList, Name: "tags", Child: primitiveNode("elem", 0, logicaltype.String)}
	m := &schema.Node{
		Kind:  schema.KindMap,
		Name:  "attrs",
		Key:   primitiveNode("key", 1, logicaltype.String),
		Value: primitiveNode("value", 2, logicaltype.Int32),
	}
	s := &schema.Schema{Fields: []*schema.Node{list, m}}
	ts := BuildTableSchema(s, "t")

	assert.Equal(t, "frozen<list<text>>", ts.columns[0].cqlType)
	assert.Equal(t, "frozen<map<text, int>>", ts.columns[1].cqlType)
}

func TestBuildTableSchema_OptionalPassesThroughUDTFlag(t *testing.T) {
	inner := &schema.Node{
		Kind: schema.KindStruct, Name: "addr",
		Fields: []*schema.Node{primitiveNode("city", 0, logicaltype.String)},
	}
	opt := &schema.Node{Kind: schema.KindOptional, Name: "addr", Child: inner}
	s := &schema.Schema{Fields: []*schema.Node{opt}}
	ts := BuildTableSchema(s, "t")

	assert.True(t, ts.columns[0].isUDT)
	assert.Equal(t, `"t_udt_0"`, ts.columns[0].cqlType)
}

func TestCreateStatements_EmitsUDTsBeforeTable(t *testing.T) {
	inner := &schema.Node{
		Kind: schema.KindStruct, Name: "addr",
		Fields: []*schema.Node{primitiveNode("city", 0, logicaltype.String)},
	}
	s := &schema.Schema{Fields: []*schema.Node{inner}}
	ts := BuildTableSchema(s, "person")

	out := ts.CreateStatements(`"person"`, `"pk"`)
	assert.Contains(t, out, `CREATE TYPE "person_udt_0" ("city" text);`)
	assert.Contains(t, out, `CREATE TABLE "person"("pk" bigint PRIMARY KEY, "addr" frozen<"person_udt_0">);`)

	udtIdx := indexOf(out, "CREATE TYPE")
	tableIdx := indexOf(out, "CREATE TABLE")
	assert.Less(t, udtIdx, tableIdx, "UDTs must be declared before the table that references them")
}

func TestColumnList(t *testing.T) {
	s := &schema.Schema{Fields: []*schema.Node{
		primitiveNode("a", 0, logicaltype.Int32),
		primitiveNode("b", 1, logicaltype.Int32),
	}}
	ts := BuildTableSchema(s, "t")
	assert.Equal(t, `"t"("pk", "a", "b")`, ts.ColumnList(`"t"`, `"pk"`))
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
