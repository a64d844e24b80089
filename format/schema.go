package format

import "github.com/apache/thrift/lib/go/thrift"

// SchemaElement is one node of the flat, preorder schema list stored in
// FileMetaData.Schema. Group nodes set NumChildren; primitive (leaf) nodes
// leave it unset and set Type instead.
type SchemaElement struct {
	Type             Type
	IsSetType        bool
	TypeLength       int32
	IsSetTypeLength  bool
	RepetitionType   FieldRepetitionType
	IsSetRepetition  bool
	Name             string
	NumChildren      int32
	IsSetNumChildren bool
	ConvertedType    ConvertedType
	IsSetConverted   bool
	Scale            int32
	IsSetScale       bool
	Precision        int32
	IsSetPrecision   bool
	FieldID          int32
	IsSetFieldID     bool
	LogicalType      *LogicalType
}

func (p *SchemaElement) Read(iprot thrift.TProtocol) error {
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
			v, e := iprot.ReadI32()
			p.Type, p.IsSetType, err2 = Type(v), true, e
		case 2:
			v, e := iprot.ReadI32()
			p.TypeLength, p.IsSetTypeLength, err2 = v, true, e
		case 3:
			v, e := iprot.ReadI32()
			p.RepetitionType, p.IsSetRepetition, err2 = FieldRepetitionType(v), true, e
		case 4:
			p.Name, err2 = iprot.ReadString()
		case 5:
			v, e := iprot.ReadI32()
			p.NumChildren, p.IsSetNumChildren, err2 = v, true, e
		case 6:
			v, e := iprot.ReadI32()
			p.ConvertedType, p.IsSetConverted, err2 = ConvertedType(v), true, e
		case 7:
			v, e := iprot.ReadI32()
			p.Scale, p.IsSetScale, err2 = v, true, e
		case 8:
			v, e := iprot.ReadI32()
			p.Precision, p.IsSetPrecision, err2 = v, true, e
		case 9:
			v, e := iprot.ReadI32()
			p.FieldID, p.IsSetFieldID, err2 = v, true, e
		case 10:
			p.LogicalType = &LogicalType{}
			err2 = p.LogicalType.Read(iprot)
		default:
			err2 = skip(iprot, fieldTypeID)
		}
		if err2 != nil {
			return fieldError("SchemaElement", "?", err2)
		}
		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd()
}

func (p *SchemaElement) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("SchemaElement"); err != nil {
		return err
	}
	if p.IsSetType {
		if err := writeI32Field(oprot, "type", 1, int32(p.Type)); err != nil {
			return err
		}
	}
	if p.IsSetTypeLength {
		if err := writeI32Field(oprot, "type_length", 2, p.TypeLength); err != nil {
			return err
		}
	}
	if p.IsSetRepetition {
		if err := writeI32Field(oprot, "repetition_type", 3, int32(p.RepetitionType)); err != nil {
			return err
		}
	}
	if err := oprot.WriteFieldBegin("name", thrift.STRING, 4); err != nil {
		return err
	}
	if err := oprot.WriteString(p.Name); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(); err != nil {
		return err
	}
	if p.IsSetNumChildren {
		if err := writeI32Field(oprot, "num_children", 5, p.NumChildren); err != nil {
			return err
		}
	}
	if p.IsSetConverted {
		if err := writeI32Field(oprot, "converted_type", 6, int32(p.ConvertedType)); err != nil {
			return err
		}
	}
	if p.IsSetScale {
		if err := writeI32Field(oprot, "scale", 7, p.Scale); err != nil {
			return err
		}
	}
	if p.IsSetPrecision {
		if err := writeI32Field(oprot, "precision", 8, p.Precision); err != nil {
			return err
		}
	}
	if p.IsSetFieldID {
		if err := writeI32Field(oprot, "field_id", 9, p.FieldID); err != nil {
			return err
		}
	}
	if p.LogicalType != nil {
		if err := oprot.WriteFieldBegin("logicalType", thrift.STRUCT, 10); err != nil {
			return err
		}
		if err := p.LogicalType.Write(oprot); err != nil {
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

func writeI32Field(oprot thrift.TProtocol, name string, id int16, v int32) error {
	if err := oprot.WriteFieldBegin(name, thrift.I32, id); err != nil {
		return err
	}
	if err := oprot.WriteI32(v); err != nil {
		return err
	}
	return oprot.WriteFieldEnd()
}

func writeI64Field(oprot thrift.TProtocol, name string, id int16, v int64) error {
	if err := oprot.WriteFieldBegin(name, thrift.I64, id); err != nil {
		return err
	}
	if err := oprot.WriteI64(v); err != nil {
		return err
	}
	return oprot.WriteFieldEnd()
}
