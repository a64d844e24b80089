package record

import (
	"testing"

	"github.com/hexbee-net/parquet4go/internal/errs"
	"github.com/hexbee-net/parquet4go/logicaltype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTriplet is one scripted (def, rep, value) entry a fakeFieldReader
// hands out, letting the wrapper readers (optional/list/map/struct) be
// exercised without a real column chunk reader behind them.
type fakeTriplet struct {
	def, rep int
	val      interface{}
	hasVal   bool
}

type fakeFieldReader struct {
	name     string
	triplets []fakeTriplet
	pos      int
}

func (f *fakeFieldReader) Name() string { return f.name }

func (f *fakeFieldReader) CurrentLevels() (int, int, error) {
	if f.pos >= len(f.triplets) {
		return -1, -1, nil
	}
	t := f.triplets[f.pos]
	return t.def, t.rep, nil
}

func (f *fakeFieldReader) ReadField(c Consumer) error {
	if f.pos >= len(f.triplets) {
		return errs.Corrupted("fakeFieldReader: exhausted")
	}
	t := f.triplets[f.pos]
	f.pos++
	if t.hasVal {
		c.AppendValue(logicaltype.LogicalType{Kind: logicaltype.Int32}, t.val)
	}
	return nil
}

func (f *fakeFieldReader) SkipField() error {
	if f.pos >= len(f.triplets) {
		return errs.Corrupted("fakeFieldReader: exhausted")
	}
	f.pos++
	return nil
}

// recordingConsumer records every callback invocation in order, so tests
// can assert on the exact assembly sequence a reader produces.
type recordingConsumer struct {
	events []string
	values []interface{}
}

func (c *recordingConsumer) StartRecord()         { c.events = append(c.events, "start_record") }
func (c *recordingConsumer) EndRecord()           { c.events = append(c.events, "end_record") }
func (c *recordingConsumer) StartColumn(_ string) { c.events = append(c.events, "start_column") }
func (c *recordingConsumer) StartStruct()         { c.events = append(c.events, "start_struct") }
func (c *recordingConsumer) EndStruct()           { c.events = append(c.events, "end_struct") }
func (c *recordingConsumer) StartField(_ string)  { c.events = append(c.events, "start_field") }
func (c *recordingConsumer) StartList()           { c.events = append(c.events, "start_list") }
func (c *recordingConsumer) EndList()             { c.events = append(c.events, "end_list") }
func (c *recordingConsumer) SeparateListValues()  { c.events = append(c.events, "separate_list") }
func (c *recordingConsumer) StartMap()            { c.events = append(c.events, "start_map") }
func (c *recordingConsumer) EndMap()              { c.events = append(c.events, "end_map") }
func (c *recordingConsumer) SeparateMapValues()   { c.events = append(c.events, "separate_map") }
func (c *recordingConsumer) SeparateKeyValue()    { c.events = append(c.events, "separate_kv") }
func (c *recordingConsumer) AppendNull()          { c.events = append(c.events, "null") }

func (c *recordingConsumer) AppendValue(_ logicaltype.LogicalType, v interface{}) {
	c.events = append(c.events, "value")
	c.values = append(c.values, v)
}

func TestOptionalReader_Present(t *testing.T) {
	r := &optionalReader{
		name:     "f",
		defLevel: 0,
		child:    &fakeFieldReader{triplets: []fakeTriplet{{def: 1, rep: 0, val: 5, hasVal: true}}},
	}
	c := &recordingConsumer{}
	require.NoError(t, r.ReadField(c))
	assert.Equal(t, []string{"value"}, c.events)
	assert.Equal(t, []interface{}{5}, c.values)
}

func TestOptionalReader_Absent(t *testing.T) {
	r := &optionalReader{
		name:     "f",
		defLevel: 0,
		child:    &fakeFieldReader{triplets: []fakeTriplet{{def: 0, rep: 0, hasVal: false}}},
	}
	c := &recordingConsumer{}
	require.NoError(t, r.ReadField(c))
	assert.Equal(t, []string{"null"}, c.events)
}

func TestListReader_MultipleElements(t *testing.T) {
	elem := &fakeFieldReader{triplets: []fakeTriplet{
		{def: 1, rep: 0, val: 10, hasVal: true},
		{def: 1, rep: 1, val: 20, hasVal: true},
		{def: 1, rep: 1, val: 30, hasVal: true},
	}}
	r := &listReader{name: "l", defLevel: 0, repLevel: 0, elem: elem}
	c := &recordingConsumer{}
	require.NoError(t, r.ReadField(c))

	assert.Equal(t, []string{
		"start_list", "value", "separate_list", "value", "separate_list", "value", "end_list",
	}, c.events)
	assert.Equal(t, []interface{}{10, 20, 30}, c.values)
}

func TestListReader_Empty(t *testing.T) {
	elem := &fakeFieldReader{triplets: []fakeTriplet{{def: 0, rep: 0, hasVal: false}}}
	r := &listReader{name: "l", defLevel: 0, repLevel: 0, elem: elem}
	c := &recordingConsumer{}
	require.NoError(t, r.ReadField(c))

	assert.Equal(t, []string{"start_list", "end_list"}, c.events)
	assert.Equal(t, 1, elem.pos, "the absent element's triplet must still be consumed")
}

func TestStructReader_ReadsEveryFieldInOrder(t *testing.T) {
	r := &structReader{
		name: "s",
		fields: []fieldReader{
			&fakeFieldReader{name: "a", triplets: []fakeTriplet{{def: 0, rep: 0, val: 1, hasVal: true}}},
			&fakeFieldReader{name: "b", triplets: []fakeTriplet{{def: 0, rep: 0, val: 2, hasVal: true}}},
		},
	}
	c := &recordingConsumer{}
	require.NoError(t, r.ReadField(c))

	assert.Equal(t, []string{
		"start_struct", "start_field", "value", "start_field", "value", "end_struct",
	}, c.events)
	assert.Equal(t, []interface{}{1, 2}, c.values)
}

func TestMapReader_MultiplePairs(t *testing.T) {
	key := &fakeFieldReader{triplets: []fakeTriplet{
		{def: 1, rep: 0, val: "k1", hasVal: true},
		{def: 1, rep: 1, val: "k2", hasVal: true},
	}}
	value := &fakeFieldReader{triplets: []fakeTriplet{
		{def: 1, rep: 0, val: "v1", hasVal: true},
		{def: 1, rep: 1, val: "v2", hasVal: true},
	}}
	r := &mapReader{name: "m", defLevel: 0, repLevel: 0, key: key, value: value}
	c := &recordingConsumer{}
	require.NoError(t, r.ReadField(c))

	assert.Equal(t, []string{
		"start_map", "value", "separate_kv", "value", "separate_map", "value", "separate_kv", "value", "end_map",
	}, c.events)
	assert.Equal(t, []interface{}{"k1", "v1", "k2", "v2"}, c.values)
}

func TestMapReader_Absent(t *testing.T) {
	key := &fakeFieldReader{triplets: []fakeTriplet{{def: 0, rep: 0, hasVal: false}}}
	value := &fakeFieldReader{triplets: []fakeTriplet{{def: 0, rep: 0, hasVal: false}}}
	r := &mapReader{name: "m", defLevel: 0, repLevel: 0, key: key, value: value}
	c := &recordingConsumer{}
	require.NoError(t, r.ReadField(c))

	assert.Equal(t, []string{"start_map", "end_map"}, c.events)
	assert.Equal(t, 1, key.pos)
	assert.Equal(t, 1, value.pos)
}

func TestRecordReader_ReadAll(t *testing.T) {
	f := &fakeFieldReader{name: "col", triplets: []fakeTriplet{
		{def: 0, rep: 0, val: 1, hasVal: true},
		{def: 0, rep: 0, val: 2, hasVal: true},
	}}
	rr := &RecordReader{fields: []fieldReader{f}}
	c := &recordingConsumer{}
	require.NoError(t, rr.ReadAll(c))

	assert.Equal(t, []string{
		"start_record", "start_column", "value", "end_record",
		"start_record", "start_column", "value", "end_record",
	}, c.events)
	assert.Equal(t, []interface{}{1, 2}, c.values)
}

func TestRecordReader_CurrentLevels_EmptySchema(t *testing.T) {
	rr := &RecordReader{}
	def, rep, err := rr.CurrentLevels()
	require.NoError(t, err)
	assert.Equal(t, -1, def)
	assert.Equal(t, -1, rep)
}
