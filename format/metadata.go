package format

import "github.com/apache/thrift/lib/go/thrift"

// KeyValue is a single entry of arbitrary application metadata.
type KeyValue struct {
	Key      string
	Value    string
	IsSetVal bool
}

func (p *KeyValue) Read(iprot thrift.TProtocol) error {
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
			p.Key, err2 = iprot.ReadString()
		case 2:
			v, e := iprot.ReadString()
			p.Value, p.IsSetVal, err2 = v, true, e
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

func (p *KeyValue) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("KeyValue"); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin("key", thrift.STRING, 1); err != nil {
		return err
	}
	if err := oprot.WriteString(p.Key); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(); err != nil {
		return err
	}
	if p.IsSetVal {
		if err := oprot.WriteFieldBegin("value", thrift.STRING, 2); err != nil {
			return err
		}
		if err := oprot.WriteString(p.Value); err != nil {
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

// ColumnMetaData describes one column chunk: its physical type, the
// encodings used across its pages, its compression codec and the byte
// offsets/sizes needed to locate and size its page stream.
type ColumnMetaData struct {
	Type                   Type
	Encodings              []Encoding
	PathInSchema           []string
	Codec                  CompressionCodec
	NumValues              int64
	TotalUncompressedSize  int64
	TotalCompressedSize    int64
	KeyValueMetadata       []KeyValue
	DataPageOffset         int64
	DictionaryPageOffset   int64
	IsSetDictionaryOffset  bool
}

func (p *ColumnMetaData) Read(iprot thrift.TProtocol) error {
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
			p.Type, err2 = Type(v), e
		case 2:
			err2 = readEncodingList(iprot, &p.Encodings)
		case 3:
			err2 = readStringList(iprot, &p.PathInSchema)
		case 4:
			v, e := iprot.ReadI32()
			p.Codec, err2 = CompressionCodec(v), e
		case 5:
			p.NumValues, err2 = iprot.ReadI64()
		case 6:
			p.TotalUncompressedSize, err2 = iprot.ReadI64()
		case 7:
			p.TotalCompressedSize, err2 = iprot.ReadI64()
		case 8:
			err2 = readKeyValueList(iprot, &p.KeyValueMetadata)
		case 9:
			p.DataPageOffset, err2 = iprot.ReadI64()
		case 10:
			_, err2 = iprot.ReadI64() // index_page_offset, unused
		case 11:
			v, e := iprot.ReadI64()
			p.DictionaryPageOffset, p.IsSetDictionaryOffset, err2 = v, true, e
		default:
			err2 = skip(iprot, fieldTypeID)
		}
		if err2 != nil {
			return fieldError("ColumnMetaData", "?", err2)
		}
		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd()
}

func (p *ColumnMetaData) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("ColumnMetaData"); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "type", 1, int32(p.Type)); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin("encodings", thrift.LIST, 2); err != nil {
		return err
	}
	if err := oprot.WriteListBegin(thrift.I32, len(p.Encodings)); err != nil {
		return err
	}
	for _, e := range p.Encodings {
		if err := oprot.WriteI32(int32(e)); err != nil {
			return err
		}
	}
	if err := oprot.WriteListEnd(); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin("path_in_schema", thrift.LIST, 3); err != nil {
		return err
	}
	if err := oprot.WriteListBegin(thrift.STRING, len(p.PathInSchema)); err != nil {
		return err
	}
	for _, s := range p.PathInSchema {
		if err := oprot.WriteString(s); err != nil {
			return err
		}
	}
	if err := oprot.WriteListEnd(); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "codec", 4, int32(p.Codec)); err != nil {
		return err
	}
	if err := writeI64Field(oprot, "num_values", 5, p.NumValues); err != nil {
		return err
	}
	if err := writeI64Field(oprot, "total_uncompressed_size", 6, p.TotalUncompressedSize); err != nil {
		return err
	}
	if err := writeI64Field(oprot, "total_compressed_size", 7, p.TotalCompressedSize); err != nil {
		return err
	}
	if err := writeI64Field(oprot, "data_page_offset", 9, p.DataPageOffset); err != nil {
		return err
	}
	if p.IsSetDictionaryOffset {
		if err := writeI64Field(oprot, "dictionary_page_offset", 11, p.DictionaryPageOffset); err != nil {
			return err
		}
	}
	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}
	return oprot.WriteStructEnd()
}

// ColumnChunk points at a column's data, either inline in the same file at
// FileOffset or, when FilePath is set, in a sibling file.
type ColumnChunk struct {
	FilePath    string
	IsSetPath   bool
	FileOffset  int64
	MetaData    *ColumnMetaData
}

func (p *ColumnChunk) Read(iprot thrift.TProtocol) error {
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
			v, e := iprot.ReadString()
			p.FilePath, p.IsSetPath, err2 = v, true, e
		case 2:
			p.FileOffset, err2 = iprot.ReadI64()
		case 3:
			p.MetaData = &ColumnMetaData{}
			err2 = p.MetaData.Read(iprot)
		default:
			err2 = skip(iprot, fieldTypeID)
		}
		if err2 != nil {
			return fieldError("ColumnChunk", "?", err2)
		}
		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd()
}

func (p *ColumnChunk) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("ColumnChunk"); err != nil {
		return err
	}
	if p.IsSetPath {
		if err := oprot.WriteFieldBegin("file_path", thrift.STRING, 1); err != nil {
			return err
		}
		if err := oprot.WriteString(p.FilePath); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(); err != nil {
			return err
		}
	}
	if err := writeI64Field(oprot, "file_offset", 2, p.FileOffset); err != nil {
		return err
	}
	if p.MetaData != nil {
		if err := oprot.WriteFieldBegin("meta_data", thrift.STRUCT, 3); err != nil {
			return err
		}
		if err := p.MetaData.Write(oprot); err != nil {
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

// RowGroup is a horizontal partition of the table: one ColumnChunk per leaf,
// in leaf order.
type RowGroup struct {
	Columns       []ColumnChunk
	TotalByteSize int64
	NumRows       int64
}

func (p *RowGroup) Read(iprot thrift.TProtocol) error {
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
			err2 = readColumnChunkList(iprot, &p.Columns)
		case 2:
			p.TotalByteSize, err2 = iprot.ReadI64()
		case 3:
			p.NumRows, err2 = iprot.ReadI64()
		default:
			err2 = skip(iprot, fieldTypeID)
		}
		if err2 != nil {
			return fieldError("RowGroup", "?", err2)
		}
		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd()
}

func (p *RowGroup) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("RowGroup"); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin("columns", thrift.LIST, 1); err != nil {
		return err
	}
	if err := oprot.WriteListBegin(thrift.STRUCT, len(p.Columns)); err != nil {
		return err
	}
	for i := range p.Columns {
		if err := p.Columns[i].Write(oprot); err != nil {
			return err
		}
	}
	if err := oprot.WriteListEnd(); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(); err != nil {
		return err
	}
	if err := writeI64Field(oprot, "total_byte_size", 2, p.TotalByteSize); err != nil {
		return err
	}
	if err := writeI64Field(oprot, "num_rows", 3, p.NumRows); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}
	return oprot.WriteStructEnd()
}

// FileMetaData is the file footer: version, flat schema, row count and the
// list of row groups.
type FileMetaData struct {
	Version   int32
	Schema    []SchemaElement
	NumRows   int64
	RowGroups []RowGroup
	CreatedBy string
	IsSetCreatedBy bool
}

func (p *FileMetaData) Read(iprot thrift.TProtocol) error {
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
			p.Version, err2 = iprot.ReadI32()
		case 2:
			err2 = readSchemaElementList(iprot, &p.Schema)
		case 3:
			p.NumRows, err2 = iprot.ReadI64()
		case 4:
			err2 = readRowGroupList(iprot, &p.RowGroups)
		case 6:
			v, e := iprot.ReadString()
			p.CreatedBy, p.IsSetCreatedBy, err2 = v, true, e
		default:
			err2 = skip(iprot, fieldTypeID)
		}
		if err2 != nil {
			return fieldError("FileMetaData", "?", err2)
		}
		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd()
}

func (p *FileMetaData) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("FileMetaData"); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "version", 1, p.Version); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin("schema", thrift.LIST, 2); err != nil {
		return err
	}
	if err := oprot.WriteListBegin(thrift.STRUCT, len(p.Schema)); err != nil {
		return err
	}
	for i := range p.Schema {
		if err := p.Schema[i].Write(oprot); err != nil {
			return err
		}
	}
	if err := oprot.WriteListEnd(); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(); err != nil {
		return err
	}
	if err := writeI64Field(oprot, "num_rows", 3, p.NumRows); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin("row_groups", thrift.LIST, 4); err != nil {
		return err
	}
	if err := oprot.WriteListBegin(thrift.STRUCT, len(p.RowGroups)); err != nil {
		return err
	}
	for i := range p.RowGroups {
		if err := p.RowGroups[i].Write(oprot); err != nil {
			return err
		}
	}
	if err := oprot.WriteListEnd(); err != nil {
		return err
	}
	if err := oprot.WriteFieldEnd(); err != nil {
		return err
	}
	if p.IsSetCreatedBy {
		if err := oprot.WriteFieldBegin("created_by", thrift.STRING, 6); err != nil {
			return err
		}
		if err := oprot.WriteString(p.CreatedBy); err != nil {
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

func readEncodingList(iprot thrift.TProtocol, out *[]Encoding) error {
	elemType, size, err := iprot.ReadListBegin()
	if err != nil {
		return err
	}
	_ = elemType
	list := make([]Encoding, 0, size)
	for i := 0; i < size; i++ {
		v, err := iprot.ReadI32()
		if err != nil {
			return err
		}
		list = append(list, Encoding(v))
	}
	*out = list
	return iprot.ReadListEnd()
}

func readStringList(iprot thrift.TProtocol, out *[]string) error {
	_, size, err := iprot.ReadListBegin()
	if err != nil {
		return err
	}
	list := make([]string, 0, size)
	for i := 0; i < size; i++ {
		v, err := iprot.ReadString()
		if err != nil {
			return err
		}
		list = append(list, v)
	}
	*out = list
	return iprot.ReadListEnd()
}

func readKeyValueList(iprot thrift.TProtocol, out *[]KeyValue) error {
	_, size, err := iprot.ReadListBegin()
	if err != nil {
		return err
	}
	list := make([]KeyValue, size)
	for i := 0; i < size; i++ {
		if err := list[i].Read(iprot); err != nil {
			return err
		}
	}
	*out = list
	return iprot.ReadListEnd()
}

func readColumnChunkList(iprot thrift.TProtocol, out *[]ColumnChunk) error {
	_, size, err := iprot.ReadListBegin()
	if err != nil {
		return err
	}
	list := make([]ColumnChunk, size)
	for i := 0; i < size; i++ {
		if err := list[i].Read(iprot); err != nil {
			return err
		}
	}
	*out = list
	return iprot.ReadListEnd()
}

func readRowGroupList(iprot thrift.TProtocol, out *[]RowGroup) error {
	_, size, err := iprot.ReadListBegin()
	if err != nil {
		return err
	}
	list := make([]RowGroup, size)
	for i := 0; i < size; i++ {
		if err := list[i].Read(iprot); err != nil {
			return err
		}
	}
	*out = list
	return iprot.ReadListEnd()
}

func readSchemaElementList(iprot thrift.TProtocol, out *[]SchemaElement) error {
	_, size, err := iprot.ReadListBegin()
	if err != nil {
		return err
	}
	list := make([]SchemaElement, size)
	for i := 0; i < size; i++ {
		if err := list[i].Read(iprot); err != nil {
			return err
		}
	}
	*out = list
	return iprot.ReadListEnd()
}
