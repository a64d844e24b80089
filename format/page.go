package format

import "github.com/apache/thrift/lib/go/thrift"

// DataPageHeader describes a version-1 data page: the level sections are
// framed inline in the page body ahead of the values.
type DataPageHeader struct {
	NumValues                int32
	Encoding                 Encoding
	DefinitionLevelEncoding  Encoding
	RepetitionLevelEncoding  Encoding
}

func (p *DataPageHeader) Read(iprot thrift.TProtocol) error {
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
			p.NumValues, err2 = iprot.ReadI32()
		case 2:
			v, e := iprot.ReadI32()
			p.Encoding, err2 = Encoding(v), e
		case 3:
			v, e := iprot.ReadI32()
			p.DefinitionLevelEncoding, err2 = Encoding(v), e
		case 4:
			v, e := iprot.ReadI32()
			p.RepetitionLevelEncoding, err2 = Encoding(v), e
		default:
			err2 = skip(iprot, fieldTypeID)
		}
		if err2 != nil {
			return fieldError("DataPageHeader", "?", err2)
		}
		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd()
}

func (p *DataPageHeader) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("DataPageHeader"); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "num_values", 1, p.NumValues); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "encoding", 2, int32(p.Encoding)); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "definition_level_encoding", 3, int32(p.DefinitionLevelEncoding)); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "repetition_level_encoding", 4, int32(p.RepetitionLevelEncoding)); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}
	return oprot.WriteStructEnd()
}

// DictionaryPageHeader describes a PLAIN-encoded page of unique values.
type DictionaryPageHeader struct {
	NumValues   int32
	Encoding    Encoding
	IsSorted    bool
	IsSetSorted bool
}

func (p *DictionaryPageHeader) Read(iprot thrift.TProtocol) error {
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
			p.NumValues, err2 = iprot.ReadI32()
		case 2:
			v, e := iprot.ReadI32()
			p.Encoding, err2 = Encoding(v), e
		case 3:
			v, e := iprot.ReadBool()
			p.IsSorted, p.IsSetSorted, err2 = v, true, e
		default:
			err2 = skip(iprot, fieldTypeID)
		}
		if err2 != nil {
			return fieldError("DictionaryPageHeader", "?", err2)
		}
		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd()
}

func (p *DictionaryPageHeader) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("DictionaryPageHeader"); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "num_values", 1, p.NumValues); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "encoding", 2, int32(p.Encoding)); err != nil {
		return err
	}
	if p.IsSetSorted {
		if err := oprot.WriteFieldBegin("is_sorted", thrift.BOOL, 3); err != nil {
			return err
		}
		if err := oprot.WriteBool(p.IsSorted); err != nil {
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

// DataPageHeaderV2 describes a version-2 data page: levels are unencoded
// (RLE only) and their lengths are carried in the header rather than
// prefixed in the body, and only the values section may be compressed.
type DataPageHeaderV2 struct {
	NumValues                    int32
	NumNulls                     int32
	NumRows                      int32
	Encoding                     Encoding
	DefinitionLevelsByteLength   int32
	RepetitionLevelsByteLength   int32
	IsCompressed                 bool
	IsSetIsCompressed            bool
}

func (p *DataPageHeaderV2) Read(iprot thrift.TProtocol) error {
	p.IsCompressed = true // thrift default
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
			p.NumValues, err2 = iprot.ReadI32()
		case 2:
			p.NumNulls, err2 = iprot.ReadI32()
		case 3:
			p.NumRows, err2 = iprot.ReadI32()
		case 4:
			v, e := iprot.ReadI32()
			p.Encoding, err2 = Encoding(v), e
		case 5:
			p.DefinitionLevelsByteLength, err2 = iprot.ReadI32()
		case 6:
			p.RepetitionLevelsByteLength, err2 = iprot.ReadI32()
		case 7:
			v, e := iprot.ReadBool()
			p.IsCompressed, p.IsSetIsCompressed, err2 = v, true, e
		default:
			err2 = skip(iprot, fieldTypeID)
		}
		if err2 != nil {
			return fieldError("DataPageHeaderV2", "?", err2)
		}
		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd()
}

func (p *DataPageHeaderV2) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("DataPageHeaderV2"); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "num_values", 1, p.NumValues); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "num_nulls", 2, p.NumNulls); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "num_rows", 3, p.NumRows); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "encoding", 4, int32(p.Encoding)); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "definition_levels_byte_length", 5, p.DefinitionLevelsByteLength); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "repetition_levels_byte_length", 6, p.RepetitionLevelsByteLength); err != nil {
		return err
	}
	if err := oprot.WriteFieldBegin("is_compressed", thrift.BOOL, 7); err != nil {
		return err
	}
	if err := oprot.WriteBool(p.IsCompressed); err != nil {
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

// PageHeader precedes every page (dictionary or data) in a column chunk.
type PageHeader struct {
	Type                  PageType
	UncompressedPageSize  int32
	CompressedPageSize    int32
	DataPageHeader        *DataPageHeader
	DictionaryPageHeader  *DictionaryPageHeader
	DataPageHeaderV2      *DataPageHeaderV2
}

func (p *PageHeader) Read(iprot thrift.TProtocol) error {
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
			p.Type, err2 = PageType(v), e
		case 2:
			p.UncompressedPageSize, err2 = iprot.ReadI32()
		case 3:
			p.CompressedPageSize, err2 = iprot.ReadI32()
		case 4:
			_, err2 = iprot.ReadI32() // crc, unused
		case 5:
			p.DataPageHeader = &DataPageHeader{}
			err2 = p.DataPageHeader.Read(iprot)
		case 6:
			err2 = skip(iprot, fieldTypeID) // index_page_header, unused
		case 7:
			p.DictionaryPageHeader = &DictionaryPageHeader{}
			err2 = p.DictionaryPageHeader.Read(iprot)
		case 8:
			p.DataPageHeaderV2 = &DataPageHeaderV2{}
			err2 = p.DataPageHeaderV2.Read(iprot)
		default:
			err2 = skip(iprot, fieldTypeID)
		}
		if err2 != nil {
			return fieldError("PageHeader", "?", err2)
		}
		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd()
}

func (p *PageHeader) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("PageHeader"); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "type", 1, int32(p.Type)); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "uncompressed_page_size", 2, p.UncompressedPageSize); err != nil {
		return err
	}
	if err := writeI32Field(oprot, "compressed_page_size", 3, p.CompressedPageSize); err != nil {
		return err
	}
	if p.DataPageHeader != nil {
		if err := oprot.WriteFieldBegin("data_page_header", thrift.STRUCT, 5); err != nil {
			return err
		}
		if err := p.DataPageHeader.Write(oprot); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(); err != nil {
			return err
		}
	}
	if p.DictionaryPageHeader != nil {
		if err := oprot.WriteFieldBegin("dictionary_page_header", thrift.STRUCT, 7); err != nil {
			return err
		}
		if err := p.DictionaryPageHeader.Write(oprot); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(); err != nil {
			return err
		}
	}
	if p.DataPageHeaderV2 != nil {
		if err := oprot.WriteFieldBegin("data_page_header_v2", thrift.STRUCT, 8); err != nil {
			return err
		}
		if err := p.DataPageHeaderV2.Write(oprot); err != nil {
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
