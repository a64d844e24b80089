package cqlformat

import (
	"bytes"
	"testing"

	"github.com/hexbee-net/parquet4go/logicaltype"
	"github.com/hexbee-net/parquet4go/values"
	"github.com/stretchr/testify/assert"
)

func TestConsumer_StartEndRecord(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsumer(&buf, `"t"("pk", "a")`)
	c.StartRecord()
	c.StartColumn("a")
	c.AppendValue(logicaltype.LogicalType{Kind: logicaltype.Int32}, int32(7))
	c.EndRecord()

	assert.Equal(t, `INSERT INTO "t"("pk", "a") VALUES(0, 7);`+"\n", buf.String())
}

func TestConsumer_RowNumberIncrementsAcrossRecords(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsumer(&buf, `"t"("pk")`)
	c.StartRecord()
	c.EndRecord()
	c.StartRecord()
	c.EndRecord()

	assert.Equal(t, "INSERT INTO \"t\"(\"pk\") VALUES(0);\nINSERT INTO \"t\"(\"pk\") VALUES(1);\n", buf.String())
}

func TestConsumer_AppendValue_String(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsumer(&buf, "")
	c.AppendValue(logicaltype.LogicalType{Kind: logicaltype.String}, []byte("it's"))
	assert.Equal(t, `'it''s'`, buf.String())
}

func TestConsumer_AppendValue_Boolean(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsumer(&buf, "")
	c.AppendValue(logicaltype.LogicalType{Kind: logicaltype.Boolean}, true)
	assert.Equal(t, "true", buf.String())
}

func TestConsumer_AppendValue_Null(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsumer(&buf, "")
	c.AppendNull()
	assert.Equal(t, "null", buf.String())
}

func TestConsumer_AppendValue_ByteArrayIsHexBlob(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsumer(&buf, "")
	c.AppendValue(logicaltype.LogicalType{Kind: logicaltype.ByteArray}, []byte{0xDE, 0xAD})
	assert.Equal(t, "0xDEAD", buf.String())
}

func TestConsumer_AppendValue_UUID(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsumer(&buf, "")
	v := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10}
	c.AppendValue(logicaltype.LogicalType{Kind: logicaltype.UUID}, v)
	assert.Equal(t, "01020304-0506-0708-090a-0b0c0d0e0f10", buf.String())
}

func TestConsumer_AppendValue_DecimalByteArray(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsumer(&buf, "")
	// -1 in two's complement, single byte, scale 2.
	c.AppendValue(logicaltype.LogicalType{Kind: logicaltype.DecimalByteArray, Scale: 2}, []byte{0xFF})
	assert.Equal(t, "-1e-2", buf.String())
}

func TestConsumer_AppendValue_DecimalByteArray_Positive(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsumer(&buf, "")
	c.AppendValue(logicaltype.LogicalType{Kind: logicaltype.DecimalByteArray, Scale: 3}, []byte{0x01, 0x2C})
	assert.Equal(t, "300e-3", buf.String())
}

func TestConsumer_AppendValue_Int96(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsumer(&buf, "")
	var v values.Int96
	// little-endian words (0,0,1) -> packed big integer 1.
	v[8] = 1
	c.AppendValue(logicaltype.LogicalType{Kind: logicaltype.Int96}, v)
	assert.Equal(t, "1", buf.String())
}

func TestConsumer_AppendValue_TimeMillis(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsumer(&buf, "")
	// 1h 1m 1.001s past midnight.
	millis := int32(((1*3600 + 1*60 + 1) * 1000) + 1)
	c.AppendValue(logicaltype.LogicalType{Kind: logicaltype.TimeMillis}, millis)
	assert.Equal(t, "'01:01:01.001'", buf.String())
}

func TestConsumer_StructRendering(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsumer(&buf, "")
	c.StartStruct()
	c.StartField("city")
	c.AppendValue(logicaltype.LogicalType{Kind: logicaltype.String}, []byte("nyc"))
	c.EndStruct()
	assert.Equal(t, `{"city": 'nyc'}`, buf.String())
}

func TestConsumer_ListRendering(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsumer(&buf, "")
	c.StartList()
	c.AppendValue(logicaltype.LogicalType{Kind: logicaltype.Int32}, int32(1))
	c.SeparateListValues()
	c.AppendValue(logicaltype.LogicalType{Kind: logicaltype.Int32}, int32(2))
	c.EndList()
	assert.Equal(t, "[1, 2]", buf.String())
}

func TestConsumer_MapRendering(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsumer(&buf, "")
	c.StartMap()
	c.AppendValue(logicaltype.LogicalType{Kind: logicaltype.String}, []byte("k"))
	c.SeparateKeyValue()
	c.AppendValue(logicaltype.LogicalType{Kind: logicaltype.Int32}, int32(9))
	c.EndMap()
	assert.Equal(t, "{'k': 9}", buf.String())
}
