// Package chunk implements the column chunk state machines: Reader walks a
// page stream, decompressing and decoding definition/repetition levels and
// values into triplet batches; Writer accumulates put/put_batch calls into
// buffered pages and, at flush_chunk, serializes them alongside an optional
// dictionary page. It is grounded on original_source's column_chunk_reader
// / column_chunk_writer state machines (record_reader.hh, file_writer.hh),
// since the teacher's flat, map-based value store has no equivalent
// triplet-oriented chunk abstraction to adapt.
package chunk

import (
	"encoding/binary"
	"io"

	"github.com/hexbee-net/parquet4go/compress"
	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
	"github.com/hexbee-net/parquet4go/level"
	"github.com/hexbee-net/parquet4go/page"
	"github.com/hexbee-net/parquet4go/values"
)

func wrapPageErr(err error, ordinal int) error {
	if err == nil {
		return nil
	}
	if errs.IsUnsupported(err) {
		return errs.Unsupported("Error while reading page number %d: %s", ordinal, err)
	}
	return errs.CorruptedWrap(err, "Error while reading page number %d", ordinal)
}

// Reader drives one column chunk's page stream into triplet batches.
type Reader[T any] struct {
	pr *page.Reader

	newValueDecoder func(encoding format.Encoding) (values.Decoder[T], error)

	defLevel int
	repLevel int

	defDec *level.Decoder
	repDec *level.Decoder
	valDec values.Decoder[T]
	dict   []T
	codec  format.CompressionCodec

	ordinal int
	started bool
	eof     bool
}

// NewReader returns a chunk reader for a leaf with the given def/rep
// levels. newValueDecoder must produce a fresh Decoder[T] configured for
// the given encoding (PLAIN for the dictionary page and any of the value
// encodings named in §4.E for data pages).
func NewReader[T any](
	pr *page.Reader, defLevel, repLevel int,
	newValueDecoder func(format.Encoding) (values.Decoder[T], error),
) *Reader[T] {
	return &Reader[T]{
		pr:              pr,
		newValueDecoder: newValueDecoder,
		defLevel:        defLevel,
		repLevel:        repLevel,
		defDec:          level.NewDecoder(defLevel),
		repDec:          level.NewDecoder(repLevel),
	}
}

// ReadBatch reads up to n (def, rep) level pairs into def/rep, and the
// values present among them (where def == defLevel, or unconditionally if
// defLevel == 0) into val. It returns the level count and the value count
// actually produced; level count is short only at end of chunk.
func (r *Reader[T]) ReadBatch(n int, def, rep []int32, val []T) (int, int, error) {
	produced, valuesProduced := 0, 0

	for produced < n {
		if r.eof {
			break
		}
		if !r.started || r.defDec.Remaining() == 0 {
			ok, err := r.loadNextPage()
			if err != nil {
				return produced, valuesProduced, err
			}
			if !ok {
				r.eof = true
				break
			}
			continue
		}

		take := n - produced
		if rem := r.defDec.Remaining(); take > rem {
			take = rem
		}
		defBuf := def[produced : produced+take]
		repBuf := rep[produced : produced+take]

		gotDef := r.defDec.ReadBatch(defBuf)
		gotRep := r.repDec.ReadBatch(repBuf)
		if gotDef != gotRep {
			return produced, valuesProduced, wrapPageErr(
				errs.Corrupted("chunk: def/rep level counts diverge (%d vs %d)", gotDef, gotRep), r.ordinal)
		}

		valuesToRead := 0
		for i := 0; i < gotDef; i++ {
			if r.defLevel == 0 || int(defBuf[i]) == r.defLevel {
				valuesToRead++
			}
		}

		if valuesProduced+valuesToRead > len(val) {
			return produced, valuesProduced, wrapPageErr(
				errs.Corrupted("chunk: caller-supplied value buffer too small"), r.ordinal)
		}
		got, err := r.valDec.ReadBatch(val[valuesProduced : valuesProduced+valuesToRead])
		if err != nil {
			return produced, valuesProduced, wrapPageErr(err, r.ordinal)
		}
		if got < valuesToRead {
			return produced, valuesProduced, wrapPageErr(
				errs.Corrupted("chunk: page ended before %d values were read (got %d)", valuesToRead, got), r.ordinal)
		}

		produced += gotDef
		valuesProduced += got
	}

	return produced, valuesProduced, nil
}

func (r *Reader[T]) loadNextPage() (bool, error) {
	for {
		pg, err := r.pr.NextPage()
		if err != nil {
			return false, wrapPageErr(err, r.ordinal+1)
		}
		if pg == nil {
			return false, nil
		}
		r.ordinal++
		r.started = true

		switch pg.Header.Type {
		case format.PageType_DICTIONARY_PAGE:
			if err := r.loadDictionaryPage(pg); err != nil {
				return false, wrapPageErr(err, r.ordinal)
			}
			continue

		case format.PageType_DATA_PAGE:
			if err := r.loadDataPageV1(pg); err != nil {
				return false, wrapPageErr(err, r.ordinal)
			}
			return true, nil

		case format.PageType_DATA_PAGE_V2:
			if err := r.loadDataPageV2(pg); err != nil {
				return false, wrapPageErr(err, r.ordinal)
			}
			return true, nil

		default:
			continue // UnknownPageType: skipped
		}
	}
}

func (r *Reader[T]) loadDictionaryPage(pg *page.Page) error {
	h := pg.Header.DictionaryPageHeader
	if h == nil {
		return errs.Corrupted("chunk: DICTIONARY_PAGE with no dictionary_page_header")
	}
	comp, err := compress.Get(r.codec)
	if err != nil {
		return err
	}
	body, err := comp.Decompress(pg.Body, int(pg.Header.UncompressedPageSize))
	if err != nil {
		return err
	}
	dec, err := r.newValueDecoder(format.Encoding_PLAIN)
	if err != nil {
		return err
	}
	if err := dec.Reset(body, format.Encoding_PLAIN); err != nil {
		return err
	}
	dict := make([]T, h.NumValues)
	n, err := dec.ReadBatch(dict)
	if err != nil {
		return err
	}
	if n < int(h.NumValues) {
		return errs.Corrupted("chunk: dictionary page declared %d values, decoded %d", h.NumValues, n)
	}
	r.dict = dict
	return nil
}

// SetCodec fixes the compression codec every page in this chunk was
// written with (constant per ColumnMetaData.codec). Must be called before
// the first ReadBatch.
func (r *Reader[T]) SetCodec(codec format.CompressionCodec) { r.codec = codec }

func (r *Reader[T]) loadDataPageV1(pg *page.Page) error {
	h := pg.Header.DataPageHeader
	if h == nil {
		return errs.Corrupted("chunk: DATA_PAGE with no data_page_header")
	}
	comp, err := compress.Get(r.codec)
	if err != nil {
		return err
	}
	body, err := comp.Decompress(pg.Body, int(pg.Header.UncompressedPageSize))
	if err != nil {
		return err
	}

	numValues := int(h.NumValues)
	k1, err := r.repDec.ResetV1(body, h.RepetitionLevelEncoding, numValues)
	if err != nil {
		return err
	}
	body = body[k1:]
	k2, err := r.defDec.ResetV1(body, h.DefinitionLevelEncoding, numValues)
	if err != nil {
		return err
	}
	body = body[k2:]

	dec, err := r.newValueDecoder(h.Encoding)
	if err != nil {
		return err
	}
	if h.Encoding == format.Encoding_RLE_DICTIONARY || h.Encoding == format.Encoding_PLAIN_DICTIONARY {
		if r.dict == nil {
			return errs.Corrupted("chunk: dictionary-encoded page with no dictionary page seen")
		}
		dec.ResetDict(r.dict)
	}
	if err := dec.Reset(body, h.Encoding); err != nil {
		return err
	}
	r.valDec = dec
	return nil
}

func (r *Reader[T]) loadDataPageV2(pg *page.Page) error {
	h := pg.Header.DataPageHeaderV2
	if h == nil {
		return errs.Corrupted("chunk: DATA_PAGE_V2 with no data_page_header_v2")
	}
	numValues := int(h.NumValues)
	body := pg.Body

	repLen := int(h.RepetitionLevelsByteLength)
	defLen := int(h.DefinitionLevelsByteLength)
	if repLen+defLen > len(body) {
		return errs.Corrupted("chunk: DATA_PAGE_V2 level lengths exceed page body")
	}
	if err := r.repDec.ResetV2(body[:repLen], numValues); err != nil {
		return err
	}
	if err := r.defDec.ResetV2(body[repLen:repLen+defLen], numValues); err != nil {
		return err
	}
	rest := body[repLen+defLen:]

	if h.IsCompressed {
		comp, err := compress.Get(r.codec)
		if err != nil {
			return err
		}
		uncompressedRest := int(pg.Header.UncompressedPageSize) - repLen - defLen
		rest, err = comp.Decompress(rest, uncompressedRest)
		if err != nil {
			return err
		}
	}

	dec, err := r.newValueDecoder(h.Encoding)
	if err != nil {
		return err
	}
	if h.Encoding == format.Encoding_RLE_DICTIONARY || h.Encoding == format.Encoding_PLAIN_DICTIONARY {
		if r.dict == nil {
			return errs.Corrupted("chunk: dictionary-encoded page with no dictionary page seen")
		}
		dec.ResetDict(r.dict)
	}
	if err := dec.Reset(rest, h.Encoding); err != nil {
		return err
	}
	r.valDec = dec
	return nil
}

// bufferedPage is one already-encoded, already-compressed page awaiting
// flush_chunk.
type bufferedPage struct {
	header *format.PageHeader
	body   []byte
}

// Writer accumulates put/put_batch calls for one leaf column into buffered
// pages, until flush_chunk serializes them (plus an optional dictionary
// page) to a sink and returns the column's metadata.
type Writer[T any] struct {
	defLevel int
	repLevel int
	physType format.Type

	defBuilder *level.Builder
	repBuilder *level.Builder

	newEncoder      func() values.Encoder[T]
	newPlainEncoder func() values.Encoder[T]
	persistEncoder  bool
	enc             values.Encoder[T]

	compressor compress.Compressor

	pages         []bufferedPage
	encodingsUsed map[format.Encoding]bool

	rowsWritten         int64
	levelsInCurrentPage int
}

// NewWriter returns a chunk writer for a leaf column. newEncoder must
// return a value encoder configured for the writer's chosen physical
// encoding; persistEncoder selects whether that same instance is reused
// across pages (dictionary-capable physical types, whose Flush resets only
// page-scoped state) or a fresh instance is built per page via newEncoder
// (DELTA_BINARY_PACKED and RLE-for-BOOLEAN, whose encoders are single-shot).
// newPlainEncoder must return an always-PLAIN encoder for the same
// physical type, used solely to serialize the dictionary page's values
// (which are always PLAIN regardless of the main encoder's mode); pass nil
// when newEncoder's physical type has no dictionary (BOOLEAN, deltas).
func NewWriter[T any](
	defLevel, repLevel int, physType format.Type, codec format.CompressionCodec,
	newEncoder func() values.Encoder[T], persistEncoder bool,
	newPlainEncoder func() values.Encoder[T],
) (*Writer[T], error) {
	defBuilder, err := level.NewBuilder(defLevel)
	if err != nil {
		return nil, err
	}
	repBuilder, err := level.NewBuilder(repLevel)
	if err != nil {
		return nil, err
	}
	comp, err := compress.Get(codec)
	if err != nil {
		return nil, err
	}
	return &Writer[T]{
		defLevel:        defLevel,
		repLevel:        repLevel,
		physType:        physType,
		defBuilder:      defBuilder,
		repBuilder:      repBuilder,
		newEncoder:      newEncoder,
		newPlainEncoder: newPlainEncoder,
		persistEncoder:  persistEncoder,
		enc:             newEncoder(),
		compressor:      comp,
		encodingsUsed:   map[format.Encoding]bool{format.Encoding_RLE: true},
	}, nil
}

// Put appends one (def, rep, val) triplet. val is ignored when def_level >
// 0 and def != def_level (a null or an absent-optional ancestor).
func (w *Writer[T]) Put(def, rep int32, val T) {
	w.defBuilder.Put(def)
	w.repBuilder.Put(rep)
	if w.defLevel == 0 || def == int32(w.defLevel) {
		w.enc.PutBatch([]T{val})
	}
	if w.repLevel == 0 || rep == 0 {
		w.rowsWritten++
	}
	w.levelsInCurrentPage++
}

// PutBatch appends n (def, rep, val) triplets batch-wise. val must hold
// exactly count(def == def_level) entries (or count(def == 0) when
// def_level == 0), matching Put's per-triplet semantics uniformly rather
// than assuming every batch is all-present values.
func (w *Writer[T]) PutBatch(def, rep []int32, val []T) error {
	if len(def) != len(rep) {
		return errs.Corrupted("chunk: def/rep batch length mismatch (%d vs %d)", len(def), len(rep))
	}
	needed := 0
	for _, d := range def {
		if w.defLevel == 0 || d == int32(w.defLevel) {
			needed++
		}
	}
	if needed != len(val) {
		return errs.Corrupted("chunk: put_batch expected %d values for %d levels, got %d", needed, len(def), len(val))
	}

	w.defBuilder.PutBatch(def)
	w.repBuilder.PutBatch(rep)
	w.enc.PutBatch(val)

	for _, r := range rep {
		if w.repLevel == 0 || r == 0 {
			w.rowsWritten++
		}
	}
	w.levelsInCurrentPage += len(def)
	return nil
}

// RowsWritten returns the number of complete records started so far (rep ==
// 0 triplets put), used by the file writer to size a row group.
func (w *Writer[T]) RowsWritten() int64 { return w.rowsWritten }

// CurrentPageMaxSize returns an upper bound on the byte size flush_page
// would currently produce, for callers deciding when to cut a page.
func (w *Writer[T]) CurrentPageMaxSize() int {
	return w.defBuilder.MaxEncodedSize() + w.repBuilder.MaxEncodedSize() + w.enc.MaxEncodedSize()
}

// FlushPage builds a v1 data page from everything put since the last
// FlushPage, compresses it, and buffers it for FlushChunk. It is a no-op
// when nothing has been put.
func (w *Writer[T]) FlushPage() error {
	if w.levelsInCurrentPage == 0 {
		return nil
	}

	var uncompressed []byte
	if w.repLevel > 0 {
		repBytes := w.repBuilder.View()
		uncompressed = append(uncompressed, putU32LE(uint32(len(repBytes)))...)
		uncompressed = append(uncompressed, repBytes...)
	}
	if w.defLevel > 0 {
		defBytes := w.defBuilder.View()
		uncompressed = append(uncompressed, putU32LE(uint32(len(defBytes)))...)
		uncompressed = append(uncompressed, defBytes...)
	}
	valBytes, encoding := w.enc.Flush()
	uncompressed = append(uncompressed, valBytes...)
	w.encodingsUsed[encoding] = true

	compressed, err := w.compressor.Compress(uncompressed)
	if err != nil {
		return err
	}

	header := &format.PageHeader{
		Type:                 format.PageType_DATA_PAGE,
		UncompressedPageSize: int32(len(uncompressed)),
		CompressedPageSize:   int32(len(compressed)),
		DataPageHeader: &format.DataPageHeader{
			NumValues:               int32(w.levelsInCurrentPage),
			Encoding:                encoding,
			DefinitionLevelEncoding: format.Encoding_RLE,
			RepetitionLevelEncoding: format.Encoding_RLE,
		},
	}
	w.pages = append(w.pages, bufferedPage{header: header, body: compressed})

	w.defBuilder.Clear()
	w.repBuilder.Clear()
	w.levelsInCurrentPage = 0
	if !w.persistEncoder {
		w.enc = w.newEncoder()
	}
	return nil
}

// FlushChunk writes the dictionary page (if any values were dictionary
// encoded) followed by every buffered data page to sink, and returns this
// chunk's metadata. Offsets in the returned metadata are relative to the
// first byte this call writes (0); a caller assembling a file shifts them
// by the chunk's actual starting file_offset once known.
func (w *Writer[T]) FlushChunk(sink io.Writer, pathInSchema []string) (*format.ColumnMetaData, error) {
	if err := w.FlushPage(); err != nil {
		return nil, err
	}

	pw := page.NewWriter(sink)
	var totalCompressed, totalUncompressed int64
	var dictionaryPageOffset int64
	haveDict := false

	if dict := w.enc.ViewDict(); dict != nil && w.enc.Cardinality() > 0 {
		haveDict = true
		plain, err := w.plainDict(dict)
		if err != nil {
			return nil, err
		}
		compressed, err := w.compressor.Compress(plain)
		if err != nil {
			return nil, err
		}
		header := &format.PageHeader{
			Type:                 format.PageType_DICTIONARY_PAGE,
			UncompressedPageSize: int32(len(plain)),
			CompressedPageSize:   int32(len(compressed)),
			DictionaryPageHeader: &format.DictionaryPageHeader{
				NumValues:   int32(w.enc.Cardinality()),
				Encoding:    format.Encoding_PLAIN,
				IsSorted:    false,
				IsSetSorted: true,
			},
		}
		n, err := pw.WritePage(header, compressed)
		if err != nil {
			return nil, err
		}
		totalCompressed += int64(n)
		totalUncompressed += int64(n - len(compressed) + len(plain))
		w.encodingsUsed[format.Encoding_PLAIN] = true
	}

	dataPageOffset := totalCompressed
	var numValues int64
	for _, p := range w.pages {
		n, err := pw.WritePage(p.header, p.body)
		if err != nil {
			return nil, err
		}
		numValues += int64(p.header.DataPageHeader.NumValues)
		totalCompressed += int64(n)
		totalUncompressed += int64(n - len(p.body) + int(p.header.UncompressedPageSize))
	}
	w.pages = nil

	encodings := make([]format.Encoding, 0, len(w.encodingsUsed))
	for e := range w.encodingsUsed {
		encodings = append(encodings, e)
	}

	md := &format.ColumnMetaData{
		Type:                  w.physType,
		Encodings:             encodings,
		PathInSchema:          pathInSchema,
		Codec:                 w.compressor.Codec(),
		NumValues:             numValues,
		TotalUncompressedSize: totalUncompressed,
		TotalCompressedSize:   totalCompressed,
		DataPageOffset:        dataPageOffset,
	}
	if haveDict {
		md.DictionaryPageOffset = dictionaryPageOffset
		md.IsSetDictionaryOffset = true
	}
	return md, nil
}

// plainDict encodes a dictionary's values as a PLAIN page body via the
// writer's dedicated always-PLAIN encoder factory.
func (w *Writer[T]) plainDict(dict []T) ([]byte, error) {
	scratch := w.newPlainEncoder()
	scratch.PutBatch(dict)
	body, _ := scratch.Flush()
	return body, nil
}

func putU32LE(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

