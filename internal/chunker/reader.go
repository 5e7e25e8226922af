package chunker

import (
	"errors"
	"io"
)

// Chunk is a contiguous piece of a stream.
type Chunk struct {
	Offset int64  // absolute offset in the stream
	Data   []byte // valid until the next call to Next
}

// Reader cuts a stream into chunks. It reads ahead at most MaxSize bytes
// beyond the current chunk. A Reader is not safe for concurrent use and
// cannot be rewound; open the source again to chunk it a second time.
type Reader struct {
	c      *Chunker
	r      io.Reader
	buf    []byte
	start  int
	end    int
	offset int64
	eof    bool
}

// NewReader returns a Reader that chunks r.
func (c *Chunker) NewReader(r io.Reader) *Reader {
	return &Reader{
		c:   c,
		r:   r,
		buf: make([]byte, 2*c.maxSize),
	}
}

// fill makes sure at least MaxSize bytes are buffered, or everything that
// is left of the stream.
func (r *Reader) fill() error {
	if r.eof || r.end-r.start >= r.c.maxSize {
		return nil
	}

	n := copy(r.buf, r.buf[r.start:r.end])
	r.start, r.end = 0, n

	m, err := io.ReadFull(r.r, r.buf[n:])
	r.end += m
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		r.eof = true
		return nil
	}
	return err
}

// Next returns the next chunk. It returns io.EOF once the stream is
// exhausted.
func (r *Reader) Next() (Chunk, error) {
	if err := r.fill(); err != nil {
		return Chunk{}, err
	}
	if r.start == r.end {
		return Chunk{}, io.EOF
	}

	window := r.buf[r.start:r.end]
	n := r.c.Boundary(window)
	chunk := Chunk{
		Offset: r.offset,
		Data:   window[:n],
	}
	r.start += n
	r.offset += int64(n)
	return chunk, nil
}

// Offset returns the number of bytes handed out so far.
func (r *Reader) Offset() int64 {
	return r.offset
}
