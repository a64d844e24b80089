package format

import (
	"github.com/apache/thrift/lib/go/thrift"
)

// StringType annotates BYTE_ARRAY as UTF-8 text.
type StringType struct{}

func (p *StringType) Read(iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return err
	}
	for {
		_, fieldTypeID, _, err := iprot.ReadFieldBegin()
		if err != nil {
			return err
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		if err := skip(iprot, fieldTypeID); err != nil {
			return err
		}
		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd()
}

func (p *StringType) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("StringType"); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}
	return oprot.WriteStructEnd()
}

// emptyStruct is shared by every zero-field marker type in the logical
// type union (UUID, list, map, enum, date, json, bson, unknown, time units).
type emptyStruct struct{ name string }

func (p emptyStruct) Read(iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return err
	}
	for {
		_, fieldTypeID, _, err := iprot.ReadFieldBegin()
		if err != nil {
			return err
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		if err := skip(iprot, fieldTypeID); err != nil {
			return err
		}
		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd()
}

func (p emptyStruct) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(p.name); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}
	return oprot.WriteStructEnd()
}

type UUIDType struct{ emptyStruct }
type MapType struct{ emptyStruct }
type ListType struct{ emptyStruct }
type EnumType struct{ emptyStruct }
type DateType struct{ emptyStruct }
type NullType struct{ emptyStruct }
type JsonType struct{ emptyStruct }
type BsonType struct{ emptyStruct }
type MilliSeconds struct{ emptyStruct }
type MicroSeconds struct{ emptyStruct }
type NanoSeconds struct{ emptyStruct }

func NewUUIDType() *UUIDType   { return &UUIDType{emptyStruct{"UUIDType"}} }
func NewMapType() *MapType     { return &MapType{emptyStruct{"MapType"}} }
func NewListType() *ListType   { return &ListType{emptyStruct{"ListType"}} }
func NewEnumType() *EnumType   { return &EnumType{emptyStruct{"EnumType"}} }
func NewDateType() *DateType   { return &DateType{emptyStruct{"DateType"}} }
func NewNullType() *NullType   { return &NullType{emptyStruct{"NullType"}} }
func NewJsonType() *JsonType   { return &JsonType{emptyStruct{"JsonType"}} }
func NewBsonType() *BsonType   { return &BsonType{emptyStruct{"BsonType"}} }
func newMilli() *MilliSeconds  { return &MilliSeconds{emptyStruct{"MilliSeconds"}} }
func newMicro() *MicroSeconds  { return &MicroSeconds{emptyStruct{"MicroSeconds"}} }
func newNano() *NanoSeconds    { return &NanoSeconds{emptyStruct{"NanoSeconds"}} }

// DecimalType carries the scale and precision of a DECIMAL annotation.
type DecimalType struct {
	Scale     int32
	Precision int32
}

func (p *DecimalType) Read(iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return err
	}
	var sawScale, sawPrecision bool
	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin()
		if err != nil {
			return err
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		switch fieldID {
		case 1:
			v, err := iprot.ReadI32()
			if err != nil {
				return fieldError("DecimalType", "scale", err)
			}
			p.Scale, sawScale = v, true
		case 2:
			v, err := iprot.ReadI32()
			if err != nil {
				return fieldError("DecimalType", "precision", err)
			}
			p.Precision, sawPrecision = v, true
		default:
			if err := skip(iprot, fieldTypeID); err != nil {
				return err
			}
		}
		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}
	_ = sawScale
	_ = sawPrecision
	return iprot.ReadStructEnd()
}

func (p *DecimalType) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("DecimalType"); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin("scale", thrift.I32, 1); err != nil {
		return err
	}
	if err := oprot.WriteI32(p.Scale); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin("precision", thrift.I32, 2); err != nil {
		return err
	}
	if err := oprot.WriteI32(p.Precision); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}
	return oprot.WriteStructEnd()
}

// TimeUnit is a union over the three timestamp/time granularities.
type TimeUnit struct {
	Millis *MilliSeconds
	Micros *MicroSeconds
	Nanos  *NanoSeconds
}

func TimeUnitMillis() *TimeUnit { return &TimeUnit{Millis: newMilli()} }
func TimeUnitMicros() *TimeUnit { return &TimeUnit{Micros: newMicro()} }
func TimeUnitNanos() *TimeUnit  { return &TimeUnit{Nanos: newNano()} }

func (p *TimeUnit) Read(iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return err
	}
	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin()
		if err != nil {
			return err
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		switch fieldID {
		case 1:
			p.Millis = newMilli()
			if err := p.Millis.Read(iprot); err != nil {
				return err
			}
		case 2:
			p.Micros = newMicro()
			if err := p.Micros.Read(iprot); err != nil {
				return err
			}
		case 3:
			p.Nanos = newNano()
			if err := p.Nanos.Read(iprot); err != nil {
				return err
			}
		default:
			if err := skip(iprot, fieldTypeID); err != nil {
				return err
			}
		}
		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd()
}

func (p *TimeUnit) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("TimeUnit"); err != nil {
		return err
	}
	switch {
	case p.Millis != nil:
		if err := oprot.WriteFieldBegin("MILLIS", thrift.STRUCT, 1); err != nil {
			return err
		}
		if err := p.Millis.Write(oprot); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(); err != nil {
			return err
		}
	case p.Micros != nil:
		if err := oprot.WriteFieldBegin("MICROS", thrift.STRUCT, 2); err != nil {
			return err
		}
		if err := p.Micros.Write(oprot); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(); err != nil {
			return err
		}
	case p.Nanos != nil:
		if err := oprot.WriteFieldBegin("NANOS", thrift.STRUCT, 3); err != nil {
			return err
		}
		if err := p.Nanos.Write(oprot); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(); err != nil {
			return err
		}
	}
	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}
	return oprot.WriteStructEnd()
}

// TimestampType and TimeType share the same shape: an isAdjustedToUTC flag
// plus a unit. They are kept as distinct Go types because the union field
// IDs that reference them differ.
type TimestampType struct {
	IsAdjustedToUTC bool
	Unit            *TimeUnit
}

func (p *TimestampType) Read(iprot thrift.TProtocol) error { return readUTCUnit(iprot, "TimestampType", &p.IsAdjustedToUTC, &p.Unit) }
func (p *TimestampType) Write(oprot thrift.TProtocol) error {
	return writeUTCUnit(oprot, "TimestampType", p.IsAdjustedToUTC, p.Unit)
}

type TimeType struct {
	IsAdjustedToUTC bool
	Unit            *TimeUnit
}

func (p *TimeType) Read(iprot thrift.TProtocol) error { return readUTCUnit(iprot, "TimeType", &p.IsAdjustedToUTC, &p.Unit) }
func (p *TimeType) Write(oprot thrift.TProtocol) error {
	return writeUTCUnit(oprot, "TimeType", p.IsAdjustedToUTC, p.Unit)
}

func readUTCUnit(iprot thrift.TProtocol, name string, utc *bool, unit **TimeUnit) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return err
	}
	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin()
		if err != nil {
			return err
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		switch fieldID {
		case 1:
			v, err := iprot.ReadBool()
			if err != nil {
				return fieldError(name, "isAdjustedToUTC", err)
			}
			*utc = v
		case 2:
			u := &TimeUnit{}
			if err := u.Read(iprot); err != nil {
				return err
			}
			*unit = u
		default:
			if err := skip(iprot, fieldTypeID); err != nil {
				return err
			}
		}
		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd()
}

func writeUTCUnit(oprot thrift.TProtocol, name string, utc bool, unit *TimeUnit) error {
	if err := oprot.WriteStructBegin(name); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin("isAdjustedToUTC", thrift.BOOL, 1); err != nil {
		return err
	}
	if err := oprot.WriteBool(utc); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(); err != nil {
		return err
	}
	if unit != nil {
		if err := oprot.WriteFieldBegin("unit", thrift.STRUCT, 2); err != nil {
			return err
		}
		if err := unit.Write(oprot); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(); err != nil {
			return err
		}
	}
	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}
	return oprot.WriteStructEnd()
}

// IntType carries the bit width and signedness of an INT{8,16,32,64}/UINT{...} annotation.
type IntType struct {
	BitWidth int8
	IsSigned bool
}

func (p *IntType) Read(iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return err
	}
	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin()
		if err != nil {
			return err
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		switch fieldID {
		case 1:
			v, err := iprot.ReadByte()
			if err != nil {
				return fieldError("IntType", "bitWidth", err)
			}
			p.BitWidth = v
		case 2:
			v, err := iprot.ReadBool()
			if err != nil {
				return fieldError("IntType", "isSigned", err)
			}
			p.IsSigned = v
		default:
			if err := skip(iprot, fieldTypeID); err != nil {
				return err
			}
		}
		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd()
}

func (p *IntType) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("IntType"); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin("bitWidth", thrift.BYTE, 1); err != nil {
		return err
	}
	if err := oprot.WriteByte(p.BitWidth); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin("isSigned", thrift.BOOL, 2); err != nil {
		return err
	}
	if err := oprot.WriteBool(p.IsSigned); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}
	return oprot.WriteStructEnd()
}

// LogicalType is the union of every logical type annotation a SchemaElement
// may carry. Exactly one field is set.
type LogicalType struct {
	STRING    *StringType
	MAP       *MapType
	LIST      *ListType
	ENUM      *EnumType
	DECIMAL   *DecimalType
	DATE      *DateType
	TIME      *TimeType
	TIMESTAMP *TimestampType
	INTEGER   *IntType
	UNKNOWN   *NullType
	JSON      *JsonType
	BSON      *BsonType
	UUID      *UUIDType
}

func (p *LogicalType) Read(iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return err
	}
	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin()
		if err != nil {
			return err
		}
		if fieldTypeID == thrift.STOP {
			break
		}
		var err2 error
		switch fieldID {
		case 1:
			p.STRING = &StringType{}
			err2 = p.STRING.Read(iprot)
		case 2:
			p.MAP = NewMapType()
			err2 = p.MAP.Read(iprot)
		case 3:
			p.LIST = NewListType()
			err2 = p.LIST.Read(iprot)
		case 4:
			p.ENUM = NewEnumType()
			err2 = p.ENUM.Read(iprot)
		case 5:
			p.DECIMAL = &DecimalType{}
			err2 = p.DECIMAL.Read(iprot)
		case 6:
			p.DATE = NewDateType()
			err2 = p.DATE.Read(iprot)
		case 7:
			p.TIME = &TimeType{}
			err2 = p.TIME.Read(iprot)
		case 8:
			p.TIMESTAMP = &TimestampType{}
			err2 = p.TIMESTAMP.Read(iprot)
		case 10:
			p.INTEGER = &IntType{}
			err2 = p.INTEGER.Read(iprot)
		case 11:
			p.UNKNOWN = NewNullType()
			err2 = p.UNKNOWN.Read(iprot)
		case 12:
			p.JSON = NewJsonType()
			err2 = p.JSON.Read(iprot)
		case 13:
			p.BSON = NewBsonType()
			err2 = p.BSON.Read(iprot)
		case 14:
			p.UUID = NewUUIDType()
			err2 = p.UUID.Read(iprot)
		default:
			err2 = skip(iprot, fieldTypeID)
		}
		if err2 != nil {
			return err2
		}
		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd()
}

func (p *LogicalType) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("LogicalType"); err != nil {
		return err
	}
	write := func(name string, id int16, w Writable) error {
		if err := oprot.WriteFieldBegin(name, thrift.STRUCT, id); err != nil {
			return err
		}
		if err := w.Write(oprot); err != nil {
			return err
		}
		return oprot.WriteFieldEnd()
	}
	var err error
	switch {
	case p.STRING != nil:
		err = write("STRING", 1, p.STRING)
	case p.MAP != nil:
		err = write("MAP", 2, p.MAP)
	case p.LIST != nil:
		err = write("LIST", 3, p.LIST)
	case p.ENUM != nil:
		err = write("ENUM", 4, p.ENUM)
	case p.DECIMAL != nil:
		err = write("DECIMAL", 5, p.DECIMAL)
	case p.DATE != nil:
		err = write("DATE", 6, p.DATE)
	case p.TIME != nil:
		err = write("TIME", 7, p.TIME)
	case p.TIMESTAMP != nil:
		err = write("TIMESTAMP", 8, p.TIMESTAMP)
	case p.INTEGER != nil:
		err = write("INTEGER", 10, p.INTEGER)
	case p.UNKNOWN != nil:
		err = write("UNKNOWN", 11, p.UNKNOWN)
	case p.JSON != nil:
		err = write("JSON", 12, p.JSON)
	case p.BSON != nil:
		err = write("BSON", 13, p.BSON)
	case p.UUID != nil:
		err = write("UUID", 14, p.UUID)
	}
	if err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}
	return oprot.WriteStructEnd()
}
