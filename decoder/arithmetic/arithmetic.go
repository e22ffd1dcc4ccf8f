/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package arithmetic implements the MQ adaptive binary arithmetic coder of
// ITU-T T.88 Annex E (the same entropy coder JPEG2000 uses). A Decoder owns
// the three working registers from Annex E.2 - interval A, code C and bit
// counter CT - plus the byte-stuffing state BYTEIN needs to recognise a
// marker. Callers supply the probability state (DecoderStats) separately so
// that one Decoder can service many independent context arrays.
package arithmetic

import (
	"io"
	"math"

	"github.com/lxman/jbig2/internal/common"

	"github.com/lxman/jbig2/errors"
	"github.com/lxman/jbig2/limits"
	"github.com/lxman/jbig2/reader"
)

// qeEntry is one row of the T.88 Annex E.1 Qe probability-estimation table:
// the interval increment for the current state, the next state to move to
// on an MPS or LPS exchange, and whether an LPS exchange also flips the
// context's "more probable symbol" sense.
type qeEntry struct {
	qe     uint32
	nmps   uint32
	nlps   uint32
	toggle uint32
}

// qeTable holds the 47 states of Annex E.1 Table E.1, indexed by context
// state 0..46.
var qeTable = [47]qeEntry{
	{0x5601, 1, 1, 1}, {0x3401, 2, 6, 0},
	{0x1801, 3, 9, 0}, {0x0AC1, 4, 12, 0}, {0x0521, 5, 29, 0}, {0x0221, 38, 33, 0},
	{0x5601, 7, 6, 1}, {0x5401, 8, 14, 0}, {0x4801, 9, 14, 0}, {0x3801, 10, 14, 0},
	{0x3001, 11, 17, 0}, {0x2401, 12, 18, 0}, {0x1C01, 13, 20, 0},
	{0x1601, 29, 21, 0}, {0x5601, 15, 14, 1}, {0x5401, 16, 14, 0},
	{0x5101, 17, 15, 0}, {0x4801, 18, 16, 0}, {0x3801, 19, 17, 0},
	{0x3401, 20, 18, 0}, {0x3001, 21, 19, 0}, {0x2801, 22, 19, 0},
	{0x2401, 23, 20, 0}, {0x2201, 24, 21, 0}, {0x1C01, 25, 22, 0},
	{0x1801, 26, 23, 0}, {0x1601, 27, 24, 0}, {0x1401, 28, 25, 0},
	{0x1201, 29, 26, 0}, {0x1101, 30, 27, 0}, {0x0AC1, 31, 28, 0},
	{0x09C1, 32, 29, 0}, {0x08A1, 33, 30, 0}, {0x0521, 34, 31, 0},
	{0x0441, 35, 32, 0}, {0x02A1, 36, 33, 0}, {0x0221, 37, 34, 0},
	{0x0141, 38, 35, 0}, {0x0111, 39, 36, 0}, {0x0085, 40, 37, 0},
	{0x0049, 41, 38, 0}, {0x0025, 42, 39, 0}, {0x0015, 43, 40, 0},
	{0x0009, 44, 41, 0}, {0x0005, 45, 42, 0}, {0x0001, 45, 43, 0},
	{0x5601, 46, 46, 0},
}

// intValueClass is one row of the T.88 A.2 value-class table consulted by
// DecodeInt: PREV walks a chain of these, one decision bit choosing whether
// to stop (and read 'bits' more bits, adding 'offset') or continue to the
// next, wider class.
type intValueClass struct {
	bits   int
	offset int32
}

// intValueClasses are in narrowest-to-widest order; the last entry is
// reached once every preceding decision bit has come back 1 and needs no
// further decision bit of its own.
var intValueClasses = [6]intValueClass{
	{2, 0}, {4, 4}, {6, 20}, {8, 84}, {12, 340}, {32, 4436},
}

// Decoder is the MQ arithmetic Decoder used to decode jbig2 segments.
type Decoder struct {
	// ContextSize holds the generic-region template context widths (T.88
	// Figures 3-6), indexed by template number 0..3.
	ContextSize []uint32
	// ReferedToContextSize holds the refinement-region template context
	// widths (T.88 Figures 7-8), indexed by template number 0..1.
	ReferedToContextSize []uint32

	r reader.StreamReader

	// b is the most recently consumed codestream byte.
	b byte
	// c is the 32-bit (kept in a 64-bit word for headroom during shifts)
	// code register C.
	c uint64
	// a is the 16-bit interval register A.
	a uint32
	// ct is the bit counter CT; reaching zero triggers BYTEIN.
	ct int32

	// prev is the PREV bit window threaded through DecodeInt/DecodeIAID -
	// T.88 A.2/A.3 call this variable PREV.
	prev int64

	// decodeCount counts every DecodeBit call this Decoder has serviced,
	// plus one for the INITDEC run in New.
	decodeCount int32
	// ops is the document-wide decode-operation budget; nil means unbounded.
	ops *limits.OperationCounter
	// initPosition is the stream offset INITDEC read its first byte from,
	// used by byteIn to tell whether it must rewind before re-reading.
	initPosition int64
}

// New creates a new arithmetic Decoder positioned at r's current offset and
// runs INITDEC (T.88 E.3.5) against it.
func New(r reader.StreamReader) (*Decoder, error) {
	d := &Decoder{
		r:                    r,
		ContextSize:          []uint32{16, 13, 10, 10},
		ReferedToContextSize: []uint32{13, 10},
	}

	if err := d.initDec(); err != nil {
		return nil, err
	}

	return d, nil
}

// BindOperationCounter attaches the document-wide decode-operation budget
// to this Decoder. Every DecodeBit consumes one operation from it.
func (d *Decoder) BindOperationCounter(c *limits.OperationCounter) {
	d.ops = c
}

// DecodeBit decodes a single bit (T.88 Annex E.3.2, DECODE) against ctx's
// current context.
func (d *Decoder) DecodeBit(ctx *DecoderStats) (int, error) {
	if !d.ops.Consume(1) {
		return 0, errors.ResourceExceeded("DecodeBit", "MaxDecodeOperations limit of %d exceeded", d.ops.Max())
	}
	state := ctx.cx()
	entry := qeTable[state]

	defer func() { d.decodeCount++ }()

	d.a -= entry.qe

	var (
		bit int
		err error
	)
	if (d.c >> 16) < uint64(entry.qe) {
		// C_high < Qe: the LPS path is taken (possibly swapped back to MPS
		// by conditional exchange when A itself was already below Qe).
		bit = d.exchangeLPS(ctx, state, entry.qe)
		err = d.renormD()
	} else {
		d.c -= uint64(entry.qe) << 16
		if d.a&0x8000 == 0 {
			bit = d.exchangeMPS(ctx, state)
			err = d.renormD()
		} else {
			bit = int(ctx.getMps())
		}
	}
	if err != nil {
		return 0, err
	}
	return bit, nil
}

// DecodeInt decodes a signed integer using the T.88 A.2 procedure: a sign
// bit, then a chain of decision bits selecting how many magnitude bits
// follow. Returns math.MaxInt32 as the OOB (out-of-band) sentinel.
func (d *Decoder) DecodeInt(ctx *DecoderStats) (int32, error) {
	if ctx == nil {
		ctx = NewStats(512, 1)
	}
	d.prev = 1

	sign, err := d.readIntBit(ctx)
	if err != nil {
		return 0, err
	}

	class := 0
	for class < len(intValueClasses)-1 {
		bit, err := d.readIntBit(ctx)
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			break
		}
		class++
	}

	var value int32
	for i := 0; i < intValueClasses[class].bits; i++ {
		bit, err := d.readIntBit(ctx)
		if err != nil {
			return 0, err
		}
		value = (value << 1) | int32(bit)
	}
	value += intValueClasses[class].offset

	switch {
	case sign == 0:
		return value, nil
	case value > 0:
		return -value, nil
	default:
		// T.88 A.2: a negative zero magnitude is the OOB sentinel.
		return math.MaxInt32, nil
	}
}

// DecodeIAID decodes a symbol-identifier value of codeLen bits (T.88 A.3).
func (d *Decoder) DecodeIAID(codeLen uint64, ctx *DecoderStats) (int64, error) {
	d.prev = 1

	for i := uint64(0); i < codeLen; i++ {
		ctx.SetIndex(int32(d.prev))
		bit, err := d.DecodeBit(ctx)
		if err != nil {
			return 0, err
		}
		d.prev = (d.prev << 1) | int64(bit)
	}

	return d.prev - (1 << codeLen), nil
}

// initDec runs T.88 E.3.5 INITDEC: prime C from the first byte, run one
// BYTEIN, then set A to the initial working range.
func (d *Decoder) initDec() error {
	d.initPosition = d.r.StreamPosition()

	b, err := d.r.ReadByte()
	if err != nil {
		common.Log.Debug("arithmetic INITDEC: initial ReadByte failed: %v", err)
		return err
	}
	d.b = b
	d.c = uint64(b) << 16

	if err = d.byteIn(); err != nil {
		return err
	}

	d.c <<= 7
	d.ct -= 7
	d.a = 0x8000
	d.decodeCount++
	return nil
}

// byteIn implements T.88 E.3.4 BYTEIN: it feeds one more byte into C,
// recognising the 0xFF stuffing rule that hides a marker from the data
// stream (a 0xFF followed by a byte > 0x8F is a marker; the marker byte is
// pushed back so the segment framer can see it).
func (d *Decoder) byteIn() error {
	if d.r.StreamPosition() > d.initPosition {
		if _, err := d.r.Seek(-1, io.SeekCurrent); err != nil {
			return err
		}
	}

	b, err := d.r.ReadByte()
	if err != nil {
		return err
	}
	d.b = b

	if d.b == 0xFF {
		next, err := d.r.ReadByte()
		if err != nil {
			return err
		}

		if next > 0x8F {
			// Marker found: stop consuming, pretend a 1-bit stuffed byte
			// was seen, and leave the marker in the stream for the caller.
			d.c += 0xFF00
			d.ct = 8
			if _, err := d.r.Seek(-2, io.SeekCurrent); err != nil {
				return err
			}
		} else {
			d.c += uint64(next) << 9
			d.ct = 7
		}
	} else {
		b, err = d.r.ReadByte()
		if err != nil {
			return err
		}
		d.b = b
		d.c += uint64(d.b) << 8
		d.ct = 8
	}
	d.c &= 0xFFFFFFFFFF
	return nil
}

// renormD implements T.88 E.3.3 RENORMD: double A and C until A regains its
// top bit, pulling in a fresh byte via byteIn whenever CT is exhausted.
func (d *Decoder) renormD() error {
	for {
		if d.ct == 0 {
			if err := d.byteIn(); err != nil {
				return err
			}
		}
		d.a <<= 1
		d.c <<= 1
		d.ct--

		if d.a&0x8000 != 0 {
			break
		}
	}
	d.c &= 0xFFFFFFFF
	return nil
}

// readIntBit decodes one bit of DecodeInt's chain and folds it
// into the 9-bit PREV window per T.88 A.2: once PREV reaches the "value
// phase" (bit 8 set), that top bit is held fixed rather than shifted out.
func (d *Decoder) readIntBit(ctx *DecoderStats) (int, error) {
	ctx.SetIndex(int32(d.prev))
	bit, err := d.DecodeBit(ctx)
	if err != nil {
		common.Log.Debug("arithmetic DecodeInt: readIntBit failed: %v", err)
		return bit, err
	}

	if d.prev < 256 {
		d.prev = ((d.prev << 1) | int64(bit)) & 0x1FF
	} else {
		d.prev = (((d.prev<<1 | int64(bit)) & 511) | 256) & 0x1FF
	}
	return bit, nil
}

// exchangeMPS runs the MPS-exchange procedure (T.88 Figure E.17): A already
// dropped below 0x8000 here, so a conditional exchange may still swap the
// returned bit to the LPS sense if A also dropped below Qe.
func (d *Decoder) exchangeMPS(ctx *DecoderStats, state byte) int {
	entry := qeTable[state]
	mps := ctx.getMps()

	if d.a < entry.qe {
		if entry.toggle == 1 {
			ctx.toggleMps()
		}
		ctx.setEntry(int(entry.nlps))
		return int(1 - mps)
	}
	ctx.setEntry(int(entry.nmps))
	return int(mps)
}

// exchangeLPS runs the LPS-exchange procedure (T.88 Figure E.18): the
// conditional exchange mirrors exchangeMPS's, comparing A against Qe before
// A is overwritten with it.
func (d *Decoder) exchangeLPS(ctx *DecoderStats, state byte, qe uint32) int {
	entry := qeTable[state]
	mps := ctx.getMps()

	if d.a < qe {
		ctx.setEntry(int(entry.nmps))
		d.a = qe
		return int(mps)
	}

	if entry.toggle == 1 {
		ctx.toggleMps()
	}
	ctx.setEntry(int(entry.nlps))
	d.a = qe
	return int(1 - mps)
}
