package cqlformat

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/google/uuid"

	"github.com/hexbee-net/parquet4go/logicaltype"
	"github.com/hexbee-net/parquet4go/values"
)

const hexDigits = "0123456789ABCDEF"

// Consumer implements record.Consumer, rendering each assembled record as
// one "INSERT INTO ... VALUES(...);" statement written to w. Row numbers
// (used as the synthetic primary key cql_reader.cc assigns every row)
// increment across every call to ReadAll made against the same Consumer,
// matching the reference implementation's single long-lived consumer.
type Consumer struct {
	w              io.Writer
	columnSelector string
	rowNumber      int
	firstField     bool
}

// NewConsumer returns a Consumer writing to w; columnSelector is the
// "table(pk, col1, col2, ...)" clause produced by TableSchema.ColumnList.
func NewConsumer(w io.Writer, columnSelector string) *Consumer {
	return &Consumer{w: w, columnSelector: columnSelector}
}

func (c *Consumer) StartRecord() {
	fmt.Fprintf(c.w, "INSERT INTO %s VALUES(%d", c.columnSelector, c.rowNumber)
}

func (c *Consumer) EndRecord() {
	c.rowNumber++
	io.WriteString(c.w, ");\n")
}

func (c *Consumer) StartColumn(name string) { io.WriteString(c.w, ", ") }

func (c *Consumer) StartStruct() {
	io.WriteString(c.w, "{")
	c.firstField = true
}

func (c *Consumer) EndStruct() {
	io.WriteString(c.w, "}")
	c.firstField = false
}

func (c *Consumer) StartField(name string) {
	if c.firstField {
		c.firstField = false
	} else {
		io.WriteString(c.w, ", ")
	}
	writeQuotedIdentifier(c.w, name)
	io.WriteString(c.w, ": ")
}

func (c *Consumer) StartList() { io.WriteString(c.w, "[") }
func (c *Consumer) EndList()   { io.WriteString(c.w, "]") }

func (c *Consumer) StartMap() { io.WriteString(c.w, "{") }
func (c *Consumer) EndMap()   { io.WriteString(c.w, "}") }

func (c *Consumer) SeparateKeyValue()   { io.WriteString(c.w, ": ") }
func (c *Consumer) SeparateListValues() { io.WriteString(c.w, ", ") }
func (c *Consumer) SeparateMapValues()  { io.WriteString(c.w, ", ") }

func (c *Consumer) AppendNull() { io.WriteString(c.w, "null") }

// AppendValue renders v according to lt, matching cql_reader.cc's
// per-logical-type append_value overload set.
func (c *Consumer) AppendValue(lt logicaltype.LogicalType, v interface{}) {
	switch lt.Kind {
	case logicaltype.String, logicaltype.Enum, logicaltype.JSON:
		writeQuotedString(c.w, v.([]byte))
	case logicaltype.UUID:
		writeUUID(c.w, v.([]byte))
	case logicaltype.Int8:
		fmt.Fprint(c.w, int16(int8(v.(int32))))
	case logicaltype.Int16:
		fmt.Fprint(c.w, int16(v.(int32)))
	case logicaltype.Int32:
		fmt.Fprint(c.w, v.(int32))
	case logicaltype.Int64:
		fmt.Fprint(c.w, v.(int64))
	case logicaltype.UInt8:
		fmt.Fprint(c.w, uint16(uint8(v.(int32))))
	case logicaltype.UInt16:
		fmt.Fprint(c.w, uint16(v.(int32)))
	case logicaltype.UInt32:
		fmt.Fprint(c.w, uint32(v.(int32)))
	case logicaltype.UInt64:
		fmt.Fprint(c.w, uint64(v.(int64)))
	case logicaltype.DecimalInt32:
		fmt.Fprintf(c.w, "%de-%d", v.(int32), lt.Scale)
	case logicaltype.DecimalInt64:
		fmt.Fprintf(c.w, "%de-%d", v.(int64), lt.Scale)
	case logicaltype.DecimalByteArray, logicaltype.DecimalFixedLenByteArray:
		writeDecimalBytes(c.w, v.([]byte), lt.Scale)
	case logicaltype.Date:
		fmt.Fprint(c.w, uint32(v.(int32))+(1<<31))
	case logicaltype.TimeMillis:
		writeTime(c.w, uint64(uint32(v.(int32))), 1000, 3)
	case logicaltype.TimeMicros:
		writeTime(c.w, uint64(v.(int64)), 1_000_000, 6)
	case logicaltype.TimeNanos:
		writeTime(c.w, uint64(v.(int64)), 1_000_000_000, 9)
	case logicaltype.TimestampMillis, logicaltype.TimestampMicros, logicaltype.TimestampNanos:
		fmt.Fprint(c.w, v.(int64))
	case logicaltype.Interval:
		writeInterval(c.w, v.([]byte))
	case logicaltype.BSON:
		writeBlob(c.w, v.([]byte))
	case logicaltype.Int96:
		writeInt96(c.w, v.(values.Int96))
	case logicaltype.Float:
		fmt.Fprintf(c.w, "%e", v.(float32))
	case logicaltype.Double:
		fmt.Fprintf(c.w, "%e", v.(float64))
	case logicaltype.Boolean:
		if v.(bool) {
			io.WriteString(c.w, "true")
		} else {
			io.WriteString(c.w, "false")
		}
	case logicaltype.ByteArray, logicaltype.FixedLenByteArray:
		writeBlob(c.w, v.([]byte))
	default: // Unknown
		c.AppendNull()
	}
}

func writeHexByte(w io.Writer, b byte) {
	io.WriteString(w, string([]byte{hexDigits[b>>4], hexDigits[b&0x0F]}))
}

func writeBlob(w io.Writer, v []byte) {
	io.WriteString(w, "0x")
	for _, b := range v {
		writeHexByte(w, b)
	}
}

// writeUUID renders the 16-byte fixed-length UUID value as a CQL uuid
// literal, using google/uuid for the canonical dashed textual form rather
// than hand-rolling the byte grouping.
func writeUUID(w io.Writer, v []byte) {
	id, err := uuid.FromBytes(v)
	if err != nil {
		io.WriteString(w, "null")
		return
	}
	io.WriteString(w, id.String())
}

func writeQuotedString(w io.Writer, v []byte) {
	io.WriteString(w, "'")
	for _, b := range v {
		if b == '\'' {
			w.Write([]byte{b, b})
		} else {
			w.Write([]byte{b})
		}
	}
	io.WriteString(w, "'")
}

func writeQuotedIdentifier(w io.Writer, s string) {
	io.WriteString(w, `"`)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' {
			w.Write([]byte{c, c})
		} else {
			w.Write([]byte{c})
		}
	}
	io.WriteString(w, `"`)
}

// writeTime renders v (a count of units-since-midnight) as CQL's
// 'HH:MM:SS.fff...' literal, matching cql_reader.cc's print_time.
func writeTime(w io.Writer, v uint64, unitsInSecond uint64, fractionalDigits int) {
	fractional := v % unitsInSecond
	v /= unitsInSecond
	seconds := v % 60
	v /= 60
	minutes := v % 60
	v /= 60
	hours := v
	fmt.Fprintf(w, "'%02d:%02d:%02d.%0*d'", hours, minutes, seconds, fractionalDigits, fractional)
}

// writeInterval renders a 12-byte INTERVAL value (three little-endian
// uint32 words: months, days, milliseconds).
func writeInterval(w io.Writer, v []byte) {
	if len(v) != 12 {
		fmt.Fprint(w, "null")
		return
	}
	months := binary.LittleEndian.Uint32(v[0:4])
	days := binary.LittleEndian.Uint32(v[4:8])
	millis := binary.LittleEndian.Uint32(v[8:12])
	fmt.Fprintf(w, "%dmo%dd%dms", months, days, millis)
}

// writeDecimalBytes interprets v as a two's-complement big-endian integer
// and renders it with an "e-<scale>" suffix, matching
// DECIMAL_BYTE_ARRAY/DECIMAL_FIXED_LEN_BYTE_ARRAY's append_value.
func writeDecimalBytes(w io.Writer, v []byte, scale int32) {
	x := new(big.Int).SetBytes(v)
	if len(v) > 0 && v[0]&0x80 != 0 {
		full := new(big.Int).Lsh(big.NewInt(1), uint(8*len(v)))
		x.Sub(x, full)
	}
	fmt.Fprintf(w, "%se-%d", x.String(), scale)
}

// writeInt96 reproduces the reference implementation's (arguably
// non-obvious) big-integer packing of the three INT96 words, most
// significant word first, verbatim.
func writeInt96(w io.Writer, v values.Int96) {
	w0 := int32(binary.LittleEndian.Uint32(v[0:4]))
	w1 := int32(binary.LittleEndian.Uint32(v[4:8]))
	w2 := int32(binary.LittleEndian.Uint32(v[8:12]))

	x := big.NewInt(int64(w0))
	x.Lsh(x, 32)
	x.Add(x, big.NewInt(int64(uint32(w1))))
	x.Lsh(x, 32)
	x.Add(x, big.NewInt(int64(uint32(w2))))
	io.WriteString(w, x.String())
}
