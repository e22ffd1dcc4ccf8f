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

// SubstreamReader is a bit-addressable window onto a region of a wrapped
// StreamReader - used to hand a segment's data field to its decoder without
// giving it access to the rest of the stream.
type SubstreamReader struct {
	bitCache

	wrapped   StreamReader
	streamPos uint64 // position within the window
	offset    uint64 // absolute position of the window's start in wrapped
	length    uint64 // window length

	buffer     []byte
	bufferBase uint64 // position of buffer[0] within the window
	bufferTop  uint64 // position just past the last buffered byte

	mark     uint64
	markBits byte
}

var _ StreamReader = &SubstreamReader{}

// NewSubstreamReader creates a SubstreamReader over length bytes of r starting at offset.
func NewSubstreamReader(r StreamReader, offset, length uint64) (*SubstreamReader, error) {
	if r == nil {
		return nil, errors.New("root reader is nil")
	}
	common.Log.Trace("New substream at offset: %d with length: %d", offset, length)
	return &SubstreamReader{
		wrapped: r,
		offset:  offset,
		length:  length,
		buffer:  make([]byte, length),
	}, nil
}

// Align implements StreamReader.
func (s *SubstreamReader) Align() byte {
	return s.bitCache.align()
}

// BitPosition implements StreamReader.
func (s *SubstreamReader) BitPosition() int {
	return int(s.bits)
}

// Length implements StreamReader.
func (s *SubstreamReader) Length() uint64 {
	return s.length
}

// Mark implements StreamReader.
func (s *SubstreamReader) Mark() {
	s.mark = s.streamPos
	s.markBits = s.bits
}

// Offset returns the window's absolute start offset in the wrapped reader.
func (s *SubstreamReader) Offset() uint64 {
	return s.offset
}

// Read implements io.Reader.
func (s *SubstreamReader) Read(b []byte) (n int, err error) {
	if s.streamPos >= s.length {
		common.Log.Trace("StreamPos: '%d' >= length: '%d'", s.streamPos, s.length)
		return 0, io.EOF
	}
	for ; n < len(b); n++ {
		if b[n], err = s.bitCache.readUnalignedByte(s.readBufferByte); err != nil {
			if err == io.EOF {
				return n, nil
			}
			return 0, err
		}
	}
	return n, nil
}

// ReadBit implements StreamReader.
func (s *SubstreamReader) ReadBit() (int, error) {
	b, err := s.bitCache.readBool(s.readBufferByte)
	if err != nil {
		return 0, err
	}
	if b {
		return 1, nil
	}
	return 0, nil
}

// ReadBits implements StreamReader.
func (s *SubstreamReader) ReadBits(n byte) (uint64, error) {
	return s.bitCache.readBits(n, s.readBufferByte)
}

// ReadBool implements StreamReader.
func (s *SubstreamReader) ReadBool() (bool, error) {
	return s.bitCache.readBool(s.readBufferByte)
}

// ReadByte implements io.ByteReader.
func (s *SubstreamReader) ReadByte() (byte, error) {
	if s.bits == 0 {
		return s.readBufferByte()
	}
	return s.bitCache.readUnalignedByte(s.readBufferByte)
}

// ReadUint32 implements StreamReader.
func (s *SubstreamReader) ReadUint32() (uint32, error) {
	ub := make([]byte, 4)
	if _, err := s.Read(ub); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(ub), nil
}

// Reset implements StreamReader.
func (s *SubstreamReader) Reset() {
	s.streamPos = s.mark
	s.bits = s.markBits
}

// Seek implements io.Seeker.
func (s *SubstreamReader) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		s.streamPos = uint64(offset)
	case io.SeekCurrent:
		s.streamPos += uint64(offset)
	case io.SeekEnd:
		s.streamPos = s.length + uint64(offset)
	default:
		return 0, errors.New("reader.SubstreamReader.Seek invalid whence")
	}
	s.bits = 0
	return int64(s.streamPos), nil
}

// StreamPosition implements StreamReader.
func (s *SubstreamReader) StreamPosition() int64 {
	return int64(s.streamPos)
}

func (s *SubstreamReader) fillBuffer() error {
	if uint64(s.wrapped.StreamPosition()) != s.streamPos+s.offset {
		if _, err := s.wrapped.Seek(int64(s.streamPos+s.offset), io.SeekStart); err != nil {
			return err
		}
	}

	s.bufferBase = s.streamPos
	toRead := min(uint64(len(s.buffer)), s.length-s.streamPos)
	chunk := make([]byte, toRead)

	read, err := s.wrapped.Read(chunk)
	if err != nil {
		return err
	}
	copy(s.buffer[:toRead], chunk)
	s.bufferTop = s.bufferBase + uint64(read)
	return nil
}

func (s *SubstreamReader) readBufferByte() (byte, error) {
	if s.streamPos >= s.length {
		return 0, io.EOF
	}
	if s.streamPos >= s.bufferTop || s.streamPos < s.bufferBase {
		if err := s.fillBuffer(); err != nil {
			return 0, err
		}
	}
	b := s.buffer[s.streamPos-s.bufferBase]
	s.streamPos++
	return b, nil
}

func min(f, s uint64) uint64 {
	if f < s {
		return f
	}
	return s
}
