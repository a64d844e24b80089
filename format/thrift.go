// Package format holds the compact-Thrift wire structures of the Parquet
// file format: schema elements, page headers, chunk and row group metadata,
// and the logical type union. The layout mirrors the public parquet.thrift
// IDL; the (de)serialization code below is written by hand in the shape
// the Apache Thrift Go generator produces, since no generated package for
// this IDL ships with the module.
package format

import (
	"io"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/hexbee-net/errors"
)

// Readable is implemented by every generated struct; it reads itself from a
// compact-protocol stream previously positioned at its first field.
type Readable interface {
	Read(thrift.TProtocol) error
}

// Writable is implemented by every generated struct.
type Writable interface {
	Write(thrift.TProtocol) error
}

// ReadStruct decodes a single Thrift structure from r using the compact
// protocol. r must not be a buffered reader: the protocol is only allowed
// to consume exactly the bytes belonging to the structure, since callers
// (the page reader in particular) need to know precisely how many bytes
// were used.
func ReadStruct(v Readable, r io.Reader) error {
	transport := &thrift.StreamTransport{Reader: r}
	proto := thrift.NewTCompactProtocol(transport)

	return v.Read(proto)
}

// WriteStruct encodes v to w using the compact protocol.
func WriteStruct(v Writable, w io.Writer) error {
	transport := &thrift.StreamTransport{Writer: w}
	proto := thrift.NewTCompactProtocol(transport)

	return v.Write(proto)
}

func skip(p thrift.TProtocol, typeID thrift.TType) error {
	return p.Skip(typeID)
}

func fieldError(structName, fieldName string, err error) error {
	return errors.WithFields(
		errors.WithStack(err),
		errors.Fields{
			"struct": structName,
			"field":  fieldName,
		})
}
