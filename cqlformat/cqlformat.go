package cqlformat

import (
	"io"

	"github.com/hexbee-net/parquet4go/pqfile"
	"github.com/hexbee-net/parquet4go/record"
)

// WriteTable renders fr's schema as CREATE TYPE/CREATE TABLE statements
// followed by one INSERT INTO per row across every row group, matching
// cql_reader.cc's parquet_to_cql: primaryKey is a synthetic bigint column
// this function assigns row numbers into, since Parquet rows carry no
// natural key of their own.
func WriteTable(w io.Writer, fr *pqfile.FileReader, table, primaryKey string) error {
	s, err := fr.Schema()
	if err != nil {
		return err
	}

	quotedTable := quoteIdentifier(table)
	quotedPK := quoteIdentifier(primaryKey)

	ts := BuildTableSchema(s, table)
	if _, err := io.WriteString(w, ts.CreateStatements(quotedTable, quotedPK)); err != nil {
		return err
	}

	consumer := NewConsumer(w, ts.ColumnList(quotedTable, quotedPK))
	for rg := range fr.Metadata().RowGroups {
		rr, err := record.NewRecordReader(fr, uint32(rg))
		if err != nil {
			return err
		}
		if err := rr.ReadAll(consumer); err != nil {
			return err
		}
	}
	return nil
}
