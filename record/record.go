// Package record reconstructs nested records from the (definition,
// repetition, value) triplet streams a column chunk reader produces. It is
// a stack of field readers mirroring a file's logical schema tree, grounded
// on original_source's record_reader.hh/.cc: a primitive_node column chunk
// wraps a typed_primitive_reader, and optional/list/map/struct nodes wrap
// their children the same way the schema itself nests them.
package record

import (
	"github.com/hexbee-net/parquet4go/logicaltype"
)

// Consumer receives the callbacks a RecordReader invokes, in assembly
// order, as it walks one record's fields. Implementations render the
// assembled shape however they need to (build a Go value, print CQL, feed a
// query engine); RecordReader itself holds no notion of an output value.
type Consumer interface {
	StartRecord()
	EndRecord()

	StartColumn(name string)

	StartStruct()
	EndStruct()
	StartField(name string)

	StartList()
	EndList()
	SeparateListValues()

	StartMap()
	EndMap()
	SeparateMapValues()
	SeparateKeyValue()

	AppendNull()
	AppendValue(lt logicaltype.LogicalType, v interface{})
}

// fieldReader is the common shape every node in the reader stack
// implements: read (or skip) one field's worth of triplets, and report the
// (def, rep) pair the next unread triplet under this subtree carries,
// without consuming it.
type fieldReader interface {
	Name() string
	ReadField(c Consumer) error
	SkipField() error
	CurrentLevels() (def, rep int, err error)
}

// optionalReader wraps a child that may be absent. Presence is decided by
// peeking the child's current levels: if its def exceeds the level this
// OPTIONAL wrapper itself sits at, a value follows; otherwise the whole
// subtree is null and every column beneath it holds exactly one triplet to
// discard.
type optionalReader struct {
	name     string
	defLevel int
	child    fieldReader
}

func (r *optionalReader) Name() string { return r.name }

func (r *optionalReader) ReadField(c Consumer) error {
	def, _, err := r.child.CurrentLevels()
	if err != nil {
		return err
	}
	if def > r.defLevel {
		return r.child.ReadField(c)
	}
	c.AppendNull()
	return r.child.SkipField()
}

func (r *optionalReader) SkipField() error { return r.child.SkipField() }

func (r *optionalReader) CurrentLevels() (int, int, error) { return r.child.CurrentLevels() }

// structReader reads every field of a group node in schema order.
type structReader struct {
	name   string
	fields []fieldReader
}

func (r *structReader) Name() string { return r.name }

func (r *structReader) ReadField(c Consumer) error {
	c.StartStruct()
	for _, f := range r.fields {
		c.StartField(f.Name())
		if err := f.ReadField(c); err != nil {
			return err
		}
	}
	c.EndStruct()
	return nil
}

func (r *structReader) SkipField() error {
	for _, f := range r.fields {
		if err := f.SkipField(); err != nil {
			return err
		}
	}
	return nil
}

func (r *structReader) CurrentLevels() (int, int, error) {
	if len(r.fields) == 0 {
		return -1, -1, nil
	}
	return r.fields[0].CurrentLevels()
}

// listReader reads a repeated element as long as successive triplets keep
// reporting a repetition level above the list's own: that condition is what
// "still the same list" means in the Dremel encoding.
type listReader struct {
	name     string
	defLevel int
	repLevel int
	elem     fieldReader
}

func (r *listReader) Name() string { return r.name }

func (r *listReader) ReadField(c Consumer) error {
	c.StartList()
	def, _, err := r.elem.CurrentLevels()
	if err != nil {
		return err
	}
	if def > r.defLevel {
		if err := r.elem.ReadField(c); err != nil {
			return err
		}
		for {
			_, rep, err := r.elem.CurrentLevels()
			if err != nil {
				return err
			}
			if rep <= r.repLevel {
				break
			}
			c.SeparateListValues()
			if err := r.elem.ReadField(c); err != nil {
				return err
			}
		}
	} else {
		if err := r.elem.SkipField(); err != nil {
			return err
		}
	}
	c.EndList()
	return nil
}

func (r *listReader) SkipField() error { return r.elem.SkipField() }

func (r *listReader) CurrentLevels() (int, int, error) { return r.elem.CurrentLevels() }

// mapReader is a listReader over alternating key/value pairs, with a
// SeparateKeyValue callback between the two halves of each pair.
type mapReader struct {
	name     string
	defLevel int
	repLevel int
	key      fieldReader
	value    fieldReader
}

func (r *mapReader) Name() string { return r.name }

func (r *mapReader) readPair(c Consumer) error {
	if err := r.key.ReadField(c); err != nil {
		return err
	}
	c.SeparateKeyValue()
	return r.value.ReadField(c)
}

func (r *mapReader) ReadField(c Consumer) error {
	c.StartMap()
	def, _, err := r.key.CurrentLevels()
	if err != nil {
		return err
	}
	if def > r.defLevel {
		if err := r.readPair(c); err != nil {
			return err
		}
		for {
			_, rep, err := r.key.CurrentLevels()
			if err != nil {
				return err
			}
			if rep <= r.repLevel {
				break
			}
			c.SeparateMapValues()
			if err := r.readPair(c); err != nil {
				return err
			}
		}
	} else {
		if err := r.key.SkipField(); err != nil {
			return err
		}
		if err := r.value.SkipField(); err != nil {
			return err
		}
	}
	c.EndMap()
	return nil
}

func (r *mapReader) SkipField() error {
	if err := r.key.SkipField(); err != nil {
		return err
	}
	return r.value.SkipField()
}

func (r *mapReader) CurrentLevels() (int, int, error) { return r.key.CurrentLevels() }

// RecordReader assembles whole records out of a file's top-level fields,
// each already wired to its own column chunk reader (or subtree of them).
type RecordReader struct {
	fields []fieldReader
}

// ReadOne assembles exactly one record into c. A top-level field that is
// itself optional decides presence the same way optionalReader.ReadField
// does, since delegating to it is behaviorally identical to special-casing
// the check here.
func (rr *RecordReader) ReadOne(c Consumer) error {
	c.StartRecord()
	for _, f := range rr.fields {
		c.StartColumn(f.Name())
		if err := f.ReadField(c); err != nil {
			return err
		}
	}
	c.EndRecord()
	return nil
}

// ReadAll calls ReadOne until the underlying column chunk readers are
// exhausted, signaled by CurrentLevels returning a negative definition
// level once every triplet has been consumed.
func (rr *RecordReader) ReadAll(c Consumer) error {
	for {
		def, _, err := rr.CurrentLevels()
		if err != nil {
			return err
		}
		if def < 0 {
			return nil
		}
		if err := rr.ReadOne(c); err != nil {
			return err
		}
	}
}

// CurrentLevels peeks the next unread triplet's levels via the first
// top-level field, matching struct_reader's convention for an empty schema.
func (rr *RecordReader) CurrentLevels() (int, int, error) {
	if len(rr.fields) == 0 {
		return -1, -1, nil
	}
	return rr.fields[0].CurrentLevels()
}
