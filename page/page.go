// Package page implements the page framing layer: a peekable read buffer
// over a byte stream that decodes Thrift-compact PageHeaders with
// exponential retry sizing, and a writer that serializes header bytes
// followed by a compressed page body. It is grounded on the shape of the
// retrieval pack's page/dictionary-page readers (rem_page.go,
// rem_page-dict.go) and on original_source's page_reader/page_writer for
// the peek/advance buffering policy the pack's version does not implement.
package page

import (
	"bytes"
	"io"

	"github.com/hexbee-net/parquet4go/format"
	"github.com/hexbee-net/parquet4go/internal/errs"
)

const (
	initialHeaderGuess = 1024
	maxHeaderGuess     = 16 * 1024 * 1024
)

// Reader is a peekable buffer over an io.Reader, used to decode
// self-delimiting Thrift structures without knowing their length up front.
type Reader struct {
	src    io.Reader
	buf    []byte
	start  int // consumed prefix
	filled int // valid bytes in buf, from index 0
	eof    bool
}

// NewReader wraps src for page-at-a-time reading.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

// peek ensures at least n bytes (or fewer, at EOF) are buffered starting at
// the current read position, and returns a view over them. A byte is
// compacted out of the consumed prefix at most once: peek compacts when the
// consumed prefix exceeds half the buffer, else grows geometrically.
func (r *Reader) peek(n int) ([]byte, error) {
	for r.filled-r.start < n && !r.eof {
		avail := r.filled - r.start
		need := n - avail

		if r.start > len(r.buf)/2 {
			copy(r.buf, r.buf[r.start:r.filled])
			r.filled -= r.start
			r.start = 0
		}
		if cap(r.buf)-r.filled < need {
			newCap := nextPow2(r.filled + need)
			nb := make([]byte, newCap)
			copy(nb, r.buf[:r.filled])
			r.buf = nb
		} else if len(r.buf) < r.filled+need {
			r.buf = r.buf[:cap(r.buf)]
		}

		got, err := r.src.Read(r.buf[r.filled:cap(r.buf)])
		r.filled += got
		if err == io.EOF {
			r.eof = true
		} else if err != nil {
			return nil, err
		}
		if got == 0 && err == nil {
			// Reader contract: no progress and no error is a stall; treat
			// as EOF rather than spin.
			r.eof = true
		}
	}
	end := r.start + n
	if end > r.filled {
		end = r.filled
	}
	return r.buf[r.start:end], nil
}

func (r *Reader) advance(n int) { r.start += n }

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// countingReader tracks how many bytes the Thrift compact-protocol reader
// consumed, since format.ReadStruct itself only reports success or failure.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

// Page is a decoded page header paired with a view over its (still
// compressed) body.
type Page struct {
	Header *format.PageHeader
	Body   []byte
}

// NextPage decodes the next PageHeader and its body, or returns (nil, nil)
// at clean EOF of the underlying stream.
func (r *Reader) NextPage() (*Page, error) {
	guess := initialHeaderGuess
	var header *format.PageHeader
	var headerLen int

	for {
		view, err := r.peek(guess)
		if err != nil {
			return nil, err
		}
		if len(view) == 0 {
			return nil, nil // clean EOF, nothing buffered
		}

		h := &format.PageHeader{}
		cr := &countingReader{r: bytes.NewReader(view)}
		rerr := format.ReadStruct(h, cr)
		if rerr == nil {
			header, headerLen = h, cr.n
			break
		}
		if guess >= maxHeaderGuess || guess >= len(view) && r.eof {
			return nil, errs.CorruptedWrap(rerr, "page: could not decode page header")
		}
		guess *= 2
		if guess > maxHeaderGuess {
			guess = maxHeaderGuess
		}
	}

	if header.CompressedPageSize < 0 || header.UncompressedPageSize < 0 {
		return nil, errs.Corrupted("page: negative page size in header")
	}

	r.advance(headerLen)
	body, err := r.peek(int(header.CompressedPageSize))
	if err != nil {
		return nil, err
	}
	if len(body) < int(header.CompressedPageSize) {
		return nil, errs.Corrupted("page: truncated page body (want %dB, got %dB)",
			header.CompressedPageSize, len(body))
	}
	// Body must outlive subsequent peeks (which may reallocate/compact the
	// buffer), so copy it out.
	owned := make([]byte, len(body))
	copy(owned, body)
	r.advance(len(body))

	return &Page{Header: header, Body: owned}, nil
}

// Writer serializes page headers (Thrift-compact) followed by compressed
// bodies directly to a sink.
type Writer struct {
	sink io.Writer
}

// NewWriter wraps sink for page emission.
func NewWriter(sink io.Writer) *Writer { return &Writer{sink: sink} }

// WritePage writes header then body, returning the total bytes written
// (serialized header size + len(body)).
func (w *Writer) WritePage(header *format.PageHeader, body []byte) (int, error) {
	buf := &bytes.Buffer{}
	if err := format.WriteStruct(header, buf); err != nil {
		return 0, err
	}
	headerLen := buf.Len()
	if _, err := w.sink.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	if _, err := w.sink.Write(body); err != nil {
		return 0, err
	}
	return headerLen + len(body), nil
}
