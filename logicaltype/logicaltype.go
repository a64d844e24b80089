// Package logicaltype maps between a SchemaElement's raw type/converted_type
// /logicalType fields and a closed set of logical types, in both
// directions. It is grounded on original_source's logical_type.hh/.cc,
// since neither the teacher nor any other pack repo implements the
// LogicalTypes.md annotation rules this module needs.
package logicaltype

import (
	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
)

// Kind discriminates the logical type union. The physical-type-only kinds
// (Boolean..FixedLenByteArray) stand for "no annotation, use the physical
// type as-is".
type Kind int

const (
	Unknown Kind = iota
	Boolean
	Int32
	Int64
	Int96
	Float
	Double
	ByteArray
	FixedLenByteArray
	String
	Enum
	UUID
	Int8
	Int16
	UInt8
	UInt16
	UInt32
	UInt64
	DecimalInt32
	DecimalInt64
	DecimalByteArray
	DecimalFixedLenByteArray
	Date
	TimeMillis
	TimeMicros
	TimeNanos
	TimestampMillis
	TimestampMicros
	TimestampNanos
	Interval
	JSON
	BSON
)

// LogicalType is the resolved, validated annotation for one SchemaElement.
// Precision/Scale are meaningful only for the Decimal* kinds; IsAdjustedToUTC
// only for Time*/Timestamp* kinds.
type LogicalType struct {
	Kind            Kind
	Precision       int32
	Scale           int32
	IsAdjustedToUTC bool
}

// Read resolves a SchemaElement's logical type: it prefers the newer
// logicalType field, falls back to converted_type, and defaults to the bare
// physical type when neither is set. Violations of the annotation's
// physical-type/length/precision constraints fail with CorruptedFile.
func Read(x *format.SchemaElement) (LogicalType, error) {
	if !x.IsSetType {
		return LogicalType{Kind: Unknown}, nil
	}

	if x.LogicalType != nil {
		lt := x.LogicalType
		switch {
		case lt.TIME != nil:
			return readTime(x, lt.TIME)
		case lt.TIMESTAMP != nil:
			return readTimestamp(x, lt.TIMESTAMP)
		case lt.UUID != nil:
			if x.Type != format.Type_FIXED_LEN_BYTE_ARRAY || x.TypeLength != 16 {
				return LogicalType{}, errs.Corrupted("logicaltype: UUID must annotate the 16-byte fixed-length binary type")
			}
			return LogicalType{Kind: UUID}, nil
		case lt.STRING != nil:
			if err := requireBinary(x, "STRING"); err != nil {
				return LogicalType{}, err
			}
			return LogicalType{Kind: String}, nil
		case lt.ENUM != nil:
			if err := requireBinary(x, "ENUM"); err != nil {
				return LogicalType{}, err
			}
			return LogicalType{Kind: Enum}, nil
		case lt.DECIMAL != nil:
			return readDecimal(x, lt.DECIMAL.Precision, lt.DECIMAL.Scale)
		case lt.JSON != nil:
			if err := requireBinary(x, "JSON"); err != nil {
				return LogicalType{}, err
			}
			return LogicalType{Kind: JSON}, nil
		case lt.BSON != nil:
			if err := requireBinary(x, "BSON"); err != nil {
				return LogicalType{}, err
			}
			return LogicalType{Kind: BSON}, nil
		case lt.DATE != nil:
			if x.Type != format.Type_INT32 {
				return LogicalType{}, errs.Corrupted("logicaltype: DATE must annotate the INT32 physical type")
			}
			return LogicalType{Kind: Date}, nil
		case lt.INTEGER != nil:
			return readInteger(x, lt.INTEGER.BitWidth, lt.INTEGER.IsSigned)
		case lt.UNKNOWN != nil:
			return LogicalType{Kind: Unknown}, nil
		}
	}

	if x.IsSetConverted {
		return readConverted(x)
	}

	return LogicalType{Kind: physicalOnlyKind(x.Type)}, nil
}

func readTime(x *format.SchemaElement, t *format.TimeType) (LogicalType, error) {
	unit := t.Unit
	switch {
	case unit.Millis != nil:
		if x.Type != format.Type_INT32 {
			return LogicalType{}, errs.Corrupted("logicaltype: TIME MILLIS must annotate the INT32 physical type")
		}
		return LogicalType{Kind: TimeMillis, IsAdjustedToUTC: t.IsAdjustedToUTC}, nil
	case unit.Micros != nil:
		if x.Type != format.Type_INT64 {
			return LogicalType{}, errs.Corrupted("logicaltype: TIME MICROS must annotate the INT64 physical type")
		}
		return LogicalType{Kind: TimeMicros, IsAdjustedToUTC: t.IsAdjustedToUTC}, nil
	case unit.Nanos != nil:
		if x.Type != format.Type_INT64 {
			return LogicalType{}, errs.Corrupted("logicaltype: TIME NANOS must annotate the INT64 physical type")
		}
		return LogicalType{Kind: TimeNanos, IsAdjustedToUTC: t.IsAdjustedToUTC}, nil
	}
	return LogicalType{}, errs.Corrupted("logicaltype: TIME logical type with no unit set")
}

func readTimestamp(x *format.SchemaElement, t *format.TimestampType) (LogicalType, error) {
	if x.Type != format.Type_INT64 {
		return LogicalType{}, errs.Corrupted("logicaltype: TIMESTAMP must annotate the INT64 physical type")
	}
	unit := t.Unit
	switch {
	case unit.Millis != nil:
		return LogicalType{Kind: TimestampMillis, IsAdjustedToUTC: t.IsAdjustedToUTC}, nil
	case unit.Micros != nil:
		return LogicalType{Kind: TimestampMicros, IsAdjustedToUTC: t.IsAdjustedToUTC}, nil
	case unit.Nanos != nil:
		return LogicalType{Kind: TimestampNanos, IsAdjustedToUTC: t.IsAdjustedToUTC}, nil
	}
	return LogicalType{}, errs.Corrupted("logicaltype: TIMESTAMP logical type with no unit set")
}

func readInteger(x *format.SchemaElement, bitWidth int8, signed bool) (LogicalType, error) {
	want32 := bitWidth == 8 || bitWidth == 16 || bitWidth == 32
	if want32 {
		if x.Type != format.Type_INT32 {
			return LogicalType{}, errs.Corrupted("logicaltype: %d-bit INTEGER must annotate the INT32 physical type", bitWidth)
		}
	} else {
		if x.Type != format.Type_INT64 {
			return LogicalType{}, errs.Corrupted("logicaltype: %d-bit INTEGER must annotate the INT64 physical type", bitWidth)
		}
	}
	switch {
	case bitWidth == 8 && signed:
		return LogicalType{Kind: Int8}, nil
	case bitWidth == 16 && signed:
		return LogicalType{Kind: Int16}, nil
	case bitWidth == 32 && signed:
		return LogicalType{Kind: Int32}, nil
	case bitWidth == 64 && signed:
		return LogicalType{Kind: Int64}, nil
	case bitWidth == 8:
		return LogicalType{Kind: UInt8}, nil
	case bitWidth == 16:
		return LogicalType{Kind: UInt16}, nil
	case bitWidth == 32:
		return LogicalType{Kind: UInt32}, nil
	case bitWidth == 64:
		return LogicalType{Kind: UInt64}, nil
	}
	return LogicalType{}, errs.Corrupted("logicaltype: unsupported INTEGER bit width %d", bitWidth)
}

func readDecimal(x *format.SchemaElement, precision, scale int32) (LogicalType, error) {
	switch x.Type {
	case format.Type_INT32:
		if precision < 1 || precision > 9 {
			return LogicalType{}, errs.Corrupted("logicaltype: precision %d out of bounds for INT32 decimal", precision)
		}
		return LogicalType{Kind: DecimalInt32, Precision: precision, Scale: scale}, nil
	case format.Type_INT64:
		if precision < 1 || precision > 18 {
			return LogicalType{}, errs.Corrupted("logicaltype: precision %d out of bounds for INT64 decimal", precision)
		}
		return LogicalType{Kind: DecimalInt64, Precision: precision, Scale: scale}, nil
	case format.Type_BYTE_ARRAY:
		return LogicalType{Kind: DecimalByteArray, Precision: precision, Scale: scale}, nil
	case format.Type_FIXED_LEN_BYTE_ARRAY:
		if precision <= 0 {
			return LogicalType{}, errs.Corrupted("logicaltype: precision %d out of bounds for FIXED_LEN_BYTE_ARRAY decimal", precision)
		}
		return LogicalType{Kind: DecimalFixedLenByteArray, Precision: precision, Scale: scale}, nil
	}
	return LogicalType{}, errs.Corrupted("logicaltype: DECIMAL must annotate INT32, INT64, BYTE_ARRAY or FIXED_LEN_BYTE_ARRAY")
}

func readConverted(x *format.SchemaElement) (LogicalType, error) {
	switch x.ConvertedType {
	case format.ConvertedType_UTF8:
		if err := requireBinary(x, "UTF8"); err != nil {
			return LogicalType{}, err
		}
		return LogicalType{Kind: String}, nil
	case format.ConvertedType_ENUM:
		if err := requireBinary(x, "ENUM"); err != nil {
			return LogicalType{}, err
		}
		return LogicalType{Kind: Enum}, nil
	case format.ConvertedType_INT_8:
		return readInteger(x, 8, true)
	case format.ConvertedType_INT_16:
		return readInteger(x, 16, true)
	case format.ConvertedType_INT_32:
		return readInteger(x, 32, true)
	case format.ConvertedType_INT_64:
		return readInteger(x, 64, true)
	case format.ConvertedType_UINT_8:
		return readInteger(x, 8, false)
	case format.ConvertedType_UINT_16:
		return readInteger(x, 16, false)
	case format.ConvertedType_UINT_32:
		return readInteger(x, 32, false)
	case format.ConvertedType_UINT_64:
		return readInteger(x, 64, false)
	case format.ConvertedType_DECIMAL:
		if !x.IsSetPrecision || !x.IsSetScale {
			return LogicalType{}, errs.Corrupted("logicaltype: precision and scale must be set for DECIMAL")
		}
		return readDecimal(x, x.Precision, x.Scale)
	case format.ConvertedType_DATE:
		if x.Type != format.Type_INT32 {
			return LogicalType{}, errs.Corrupted("logicaltype: DATE must annotate the INT32 physical type")
		}
		return LogicalType{Kind: Date}, nil
	case format.ConvertedType_TIME_MILLIS:
		if x.Type != format.Type_INT32 {
			return LogicalType{}, errs.Corrupted("logicaltype: TIME_MILLIS must annotate the INT32 physical type")
		}
		return LogicalType{Kind: TimeMillis, IsAdjustedToUTC: true}, nil
	case format.ConvertedType_TIME_MICROS:
		if x.Type != format.Type_INT64 {
			return LogicalType{}, errs.Corrupted("logicaltype: TIME_MICROS must annotate the INT64 physical type")
		}
		return LogicalType{Kind: TimeMicros, IsAdjustedToUTC: true}, nil
	case format.ConvertedType_TIMESTAMP_MILLIS:
		if x.Type != format.Type_INT64 {
			return LogicalType{}, errs.Corrupted("logicaltype: TIMESTAMP_MILLIS must annotate the INT64 physical type")
		}
		return LogicalType{Kind: TimestampMillis, IsAdjustedToUTC: true}, nil
	case format.ConvertedType_TIMESTAMP_MICROS:
		if x.Type != format.Type_INT64 {
			return LogicalType{}, errs.Corrupted("logicaltype: TIMESTAMP_MICROS must annotate the INT64 physical type")
		}
		return LogicalType{Kind: TimestampMicros, IsAdjustedToUTC: true}, nil
	case format.ConvertedType_INTERVAL:
		if x.Type != format.Type_FIXED_LEN_BYTE_ARRAY || x.TypeLength != 12 {
			return LogicalType{}, errs.Corrupted("logicaltype: INTERVAL must annotate FIXED_LEN_BYTE_ARRAY(12)")
		}
		return LogicalType{Kind: Interval}, nil
	case format.ConvertedType_JSON:
		if err := requireBinary(x, "JSON"); err != nil {
			return LogicalType{}, err
		}
		return LogicalType{Kind: JSON}, nil
	case format.ConvertedType_BSON:
		if err := requireBinary(x, "BSON"); err != nil {
			return LogicalType{}, err
		}
		return LogicalType{Kind: BSON}, nil
	case format.ConvertedType_MAP, format.ConvertedType_MAP_KEY_VALUE, format.ConvertedType_LIST:
		// Group-node annotations; leaves fall through to the physical type.
		return LogicalType{Kind: physicalOnlyKind(x.Type)}, nil
	}
	return LogicalType{Kind: physicalOnlyKind(x.Type)}, nil
}

func requireBinary(x *format.SchemaElement, name string) error {
	if x.Type != format.Type_BYTE_ARRAY && x.Type != format.Type_FIXED_LEN_BYTE_ARRAY {
		return errs.Corrupted("logicaltype: %s must annotate the binary physical type", name)
	}
	return nil
}

func physicalOnlyKind(t format.Type) Kind {
	switch t {
	case format.Type_BOOLEAN:
		return Boolean
	case format.Type_INT32:
		return Int32
	case format.Type_INT64:
		return Int64
	case format.Type_INT96:
		return Int96
	case format.Type_FLOAT:
		return Float
	case format.Type_DOUBLE:
		return Double
	case format.Type_BYTE_ARRAY:
		return ByteArray
	case format.Type_FIXED_LEN_BYTE_ARRAY:
		return FixedLenByteArray
	}
	return Unknown
}

// Write annotates leaf (a group-less primitive SchemaElement) with both
// converted_type (when a legacy mapping exists) and logicalType, so old and
// new readers agree. Int32 and Int64 are written as signed 32/64-bit
// INTEGER (INT_32/INT_64); the other physical-type-only kinds set neither
// field.
func Write(lt LogicalType, leaf *format.SchemaElement) {
	switch lt.Kind {
	case String:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_UTF8, true
		leaf.LogicalType = &format.LogicalType{STRING: &format.StringType{}}
	case Enum:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_ENUM, true
		leaf.LogicalType = &format.LogicalType{ENUM: &format.EnumType{}}
	case UUID:
		leaf.LogicalType = &format.LogicalType{UUID: &format.UUIDType{}}
	case Int8:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_INT_8, true
		leaf.LogicalType = intLogicalType(8, true)
	case Int16:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_INT_16, true
		leaf.LogicalType = intLogicalType(16, true)
	case Int32:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_INT_32, true
		leaf.LogicalType = intLogicalType(32, true)
	case Int64:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_INT_64, true
		leaf.LogicalType = intLogicalType(64, true)
	case UInt8:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_UINT_8, true
		leaf.LogicalType = intLogicalType(8, false)
	case UInt16:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_UINT_16, true
		leaf.LogicalType = intLogicalType(16, false)
	case UInt32:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_UINT_32, true
		leaf.LogicalType = intLogicalType(32, false)
	case UInt64:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_UINT_64, true
		leaf.LogicalType = intLogicalType(64, false)
	case DecimalInt32, DecimalInt64, DecimalByteArray, DecimalFixedLenByteArray:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_DECIMAL, true
		leaf.Precision, leaf.IsSetPrecision = lt.Precision, true
		leaf.Scale, leaf.IsSetScale = lt.Scale, true
		leaf.LogicalType = &format.LogicalType{DECIMAL: &format.DecimalType{Precision: lt.Precision, Scale: lt.Scale}}
	case Date:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_DATE, true
		leaf.LogicalType = &format.LogicalType{DATE: &format.DateType{}}
	case TimeMillis:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_TIME_MILLIS, true
		leaf.LogicalType = &format.LogicalType{TIME: &format.TimeType{IsAdjustedToUTC: lt.IsAdjustedToUTC, Unit: format.TimeUnitMillis()}}
	case TimeMicros:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_TIME_MICROS, true
		leaf.LogicalType = &format.LogicalType{TIME: &format.TimeType{IsAdjustedToUTC: lt.IsAdjustedToUTC, Unit: format.TimeUnitMicros()}}
	case TimeNanos:
		leaf.LogicalType = &format.LogicalType{TIME: &format.TimeType{IsAdjustedToUTC: lt.IsAdjustedToUTC, Unit: format.TimeUnitNanos()}}
	case TimestampMillis:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_TIMESTAMP_MILLIS, true
		leaf.LogicalType = &format.LogicalType{TIMESTAMP: &format.TimestampType{IsAdjustedToUTC: lt.IsAdjustedToUTC, Unit: format.TimeUnitMillis()}}
	case TimestampMicros:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_TIMESTAMP_MICROS, true
		leaf.LogicalType = &format.LogicalType{TIMESTAMP: &format.TimestampType{IsAdjustedToUTC: lt.IsAdjustedToUTC, Unit: format.TimeUnitMicros()}}
	case TimestampNanos:
		leaf.LogicalType = &format.LogicalType{TIMESTAMP: &format.TimestampType{IsAdjustedToUTC: lt.IsAdjustedToUTC, Unit: format.TimeUnitNanos()}}
	case Interval:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_INTERVAL, true
	case JSON:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_JSON, true
		leaf.LogicalType = &format.LogicalType{JSON: &format.JsonType{}}
	case BSON:
		leaf.ConvertedType, leaf.IsSetConverted = format.ConvertedType_BSON, true
		leaf.LogicalType = &format.LogicalType{BSON: &format.BsonType{}}
	case Unknown:
		leaf.LogicalType = &format.LogicalType{UNKNOWN: &format.NullType{}}
	default:
		// Physical-type-only kinds (Boolean, Int96, Float, Double,
		// ByteArray, FixedLenByteArray): no annotation.
	}
}

func intLogicalType(bitWidth int8, signed bool) *format.LogicalType {
	return &format.LogicalType{INTEGER: &format.IntType{BitWidth: bitWidth, IsSigned: signed}}
}
