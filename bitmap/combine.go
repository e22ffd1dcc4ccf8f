/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package bitmap

import (
	"image"

	"github.com/lxman/jbig2/internal/common"
)

// byteCombiners maps each CombinationOperator to its byte-wise merge,
// mirroring the function-valued operator tables in raster.go. Operators
// missing from the table (CmbOpReplace and any out of range value) take
// the new byte outright.
var byteCombiners = map[CombinationOperator]func(oldByte, newByte byte) byte{
	CmbOpOr:   func(o, n byte) byte { return o | n },
	CmbOpAnd:  func(o, n byte) byte { return o & n },
	CmbOpXor:  func(o, n byte) byte { return o ^ n },
	CmbOpXNor: func(o, n byte) byte { return ^(o ^ n) },
	CmbOpNot:  func(o, n byte) byte { return ^n },
}

// CombineBytes merges two bytes of packed pixels under op.
func CombineBytes(oldByte, newByte byte, op CombinationOperator) byte {
	return combineBytes(oldByte, newByte, op)
}

func combineBytes(oldByte, newByte byte, op CombinationOperator) byte {
	if combine, ok := byteCombiners[op]; ok {
		return combine(oldByte, newByte)
	}
	return newByte
}

// Extract returns a new bitmap holding the pixels of src within roi.
func Extract(roi image.Rectangle, src *Bitmap) (*Bitmap, error) {
	e := &extractor{
		src:      src,
		dst:      New(roi.Dx(), roi.Dy()),
		upShift:  roi.Min.X & 0x07,
		srcStart: src.GetByteIndex(roi.Min.X, roi.Min.Y),
		srcEnd:   src.GetByteIndex(roi.Max.X-1, roi.Min.Y),
	}
	e.downShift = 8 - e.upShift
	e.padding = uint(8 - e.dst.Width&0x07)
	e.tightRow = e.dst.RowStride == e.srcEnd+1-e.srcStart

	for y := roi.Min.Y; y < roi.Max.Y; y++ {
		var err error
		switch {
		case e.srcStart == e.srcEnd:
			err = e.singleByteRow()
		case e.upShift == 0:
			err = e.alignedRow()
		default:
			err = e.shiftedRow()
		}
		if err != nil {
			return nil, err
		}

		e.srcStart += src.RowStride
		e.srcEnd += src.RowStride
		e.dstStart += e.dst.RowStride
	}
	return e.dst, nil
}

// extractor walks src row by row, repacking the roi's bits left-aligned
// into dst. srcStart/srcEnd bracket the current row's source bytes,
// dstStart is the current destination row base.
type extractor struct {
	src, dst *Bitmap

	upShift, downShift int
	padding            uint
	// tightRow is set when a destination row spans exactly as many bytes
	// as its source window, so the final source byte still owes dst a
	// shifted tail byte of its own.
	tightRow bool

	srcStart, srcEnd, dstStart int
}

// singleByteRow extracts a row whose pixels all live in one source byte.
func (e *extractor) singleByteRow() error {
	pixels, err := e.src.GetByte(e.srcStart)
	if err != nil {
		return err
	}
	return e.dst.SetByte(e.dstStart, unpad(e.padding, pixels<<uint(e.upShift)))
}

// alignedRow extracts a row starting on a byte boundary: bytes copy over
// directly, with only the final byte needing its padding cleared.
func (e *extractor) alignedRow() error {
	dstIdx := e.dstStart
	for srcIdx := e.srcStart; srcIdx <= e.srcEnd; srcIdx++ {
		value, err := e.src.GetByte(srcIdx)
		if err != nil {
			return err
		}

		if srcIdx == e.srcEnd && e.tightRow {
			value = unpad(e.padding, value)
		}

		if err = e.dst.SetByte(dstIdx, value); err != nil {
			return err
		}
		dstIdx++
	}
	return nil
}

// shiftedRow extracts a row starting mid-byte: every destination byte is
// stitched from the high bits of one source byte and the low bits of the
// next.
func (e *extractor) shiftedRow() error {
	srcIdx, dstIdx := e.srcStart, e.dstStart

	for x := e.srcStart; x < e.srcEnd; x++ {
		if srcIdx+1 >= len(e.src.Data) {
			// the roi runs past the last source byte; emit what's left
			value, err := e.src.GetByte(srcIdx)
			if err != nil {
				common.Log.Debug("Getting the value at: %d failed: %s", srcIdx, err)
				return err
			}
			srcIdx++
			if err = e.dst.SetByte(dstIdx, value<<uint(e.upShift)); err != nil {
				return err
			}
			dstIdx++
			continue
		}

		isLastByte := x+1 == e.srcEnd

		high, err := e.src.GetByte(srcIdx)
		if err != nil {
			return err
		}
		srcIdx++

		low, err := e.src.GetByte(srcIdx)
		if err != nil {
			return err
		}

		value := high<<uint(e.upShift) | low>>uint(e.downShift)
		if isLastByte && !e.tightRow {
			value = unpad(e.padding, value)
		}

		if err = e.dst.SetByte(dstIdx, value); err != nil {
			return err
		}
		dstIdx++

		if isLastByte && e.tightRow {
			tail, err := e.src.GetByte(srcIdx)
			if err != nil {
				return err
			}
			if err = e.dst.SetByte(dstIdx, unpad(e.padding, tail<<uint(e.upShift))); err != nil {
				return err
			}
		}
	}
	return nil
}
