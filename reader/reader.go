/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package reader

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/lxman/jbig2/internal/common"
)

// Reader is a bit-addressable reader over an in-memory byte slice.
// Implements io.Reader, io.ByteReader, io.Seeker and StreamReader.
type Reader struct {
	bitCache

	in           []byte
	r            int64 // read position into in
	lastByte     int
	lastRuneSize int

	mark     int64
	markBits byte
}

var (
	_ io.Reader     = &Reader{}
	_ io.ByteReader = &Reader{}
	_ io.Seeker     = &Reader{}
	_ StreamReader  = &Reader{}
)

// New creates a Reader over data.
func New(data []byte) *Reader {
	return &Reader{in: data}
}

// Align implements StreamReader.
func (r *Reader) Align() byte {
	return r.bitCache.align()
}

// ConsumeRemainingBits discards any bits left in the cache.
func (r *Reader) ConsumeRemainingBits() {
	if r.bits != 0 {
		if _, err := r.ReadBits(r.bits); err != nil {
			common.Log.Debug("ConsumeRemainigBits failed: %v", err)
		}
	}
}

// BitPosition implements StreamReader.
func (r *Reader) BitPosition() int {
	return int(r.bits)
}

// Length implements StreamReader.
func (r *Reader) Length() uint64 {
	return uint64(len(r.in))
}

// Mark implements StreamReader.
func (r *Reader) Mark() {
	r.mark = r.r
	r.markBits = r.bits
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (n int, err error) {
	if r.bits == 0 {
		return r.read(p)
	}
	for ; n < len(p); n++ {
		if p[n], err = r.bitCache.readUnalignedByte(r.readBufferByte); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// ReadBit implements StreamReader.
func (r *Reader) ReadBit() (int, error) {
	b, err := r.bitCache.readBool(r.readBufferByte)
	if err != nil {
		return 0, err
	}
	if b {
		return 1, nil
	}
	return 0, nil
}

// ReadBits implements StreamReader.
func (r *Reader) ReadBits(n byte) (uint64, error) {
	return r.bitCache.readBits(n, r.readBufferByte)
}

// ReadBool implements StreamReader.
func (r *Reader) ReadBool() (bool, error) {
	return r.bitCache.readBool(r.readBufferByte)
}

// ReadByte implements io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	if r.bits == 0 {
		return r.readBufferByte()
	}
	return r.bitCache.readUnalignedByte(r.readBufferByte)
}

// ReadUint32 implements StreamReader.
func (r *Reader) ReadUint32() (uint32, error) {
	ub := make([]byte, 4)
	if _, err := r.Read(ub); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(ub), nil
}

// Reset implements StreamReader.
func (r *Reader) Reset() {
	r.r = r.mark
	r.bits = r.markBits
}

// Seek implements io.Seeker.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	r.lastRuneSize = -1
	var abs int64

	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = r.r + offset
	case io.SeekEnd:
		abs = int64(len(r.in)) + offset
	default:
		return 0, errors.New("reader.Reader.Seek: invalid whence")
	}

	if abs < 0 {
		return 0, errors.New("reader.Reader.Seek: negative position")
	}
	r.r = abs
	r.bits = 0
	return abs, nil
}

// StreamPosition implements StreamReader.
func (r *Reader) StreamPosition() int64 {
	return r.r
}

func (r *Reader) read(p []byte) (int, error) {
	if r.r >= int64(len(r.in)) {
		return 0, io.EOF
	}
	r.lastRuneSize = -1
	n := copy(p, r.in[r.r:])
	r.r += int64(n)
	return n, nil
}

func (r *Reader) readBufferByte() (byte, error) {
	if r.r >= int64(len(r.in)) {
		return 0, io.EOF
	}
	r.lastRuneSize = -1
	c := r.in[r.r]
	r.r++
	r.lastByte = int(c)
	return c, nil
}
