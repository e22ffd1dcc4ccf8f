/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package bitmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lxman/jbig2/internal/common"

	"github.com/lxman/jbig2/writer"
)

// onesCount maps every byte value to the number of '1' bits it carries.
var onesCount [256]uint8

func init() {
	for i := 1; i < 256; i++ {
		onesCount[i] = onesCount[i>>1] + uint8(i&1)
	}
}

// ErrIndexOutOfRange is returned by the byte accessors when the requested
// byte index lies outside the bitmap data.
var ErrIndexOutOfRange = errors.New("bitmap byte index out of range")

// Bitmap is a 1 bit per pixel image. Rows are packed MSB-first into
// RowStride bytes each; the trailing bits of the last byte in a row are
// padding when Width is not a multiple of eight.
type Bitmap struct {
	// Width and Height are the bitmap dimensions in pixels.
	Width, Height int
	// RowStride is the number of bytes per row: ceil(Width/8).
	RowStride int
	// Data holds Height*RowStride bytes of packed rows.
	Data []byte
	// Color is the bitmap's foreground interpretation.
	Color Color
}

// New creates a zero-filled bitmap of the given dimensions.
func New(width, height int) *Bitmap {
	bm := newBitmap(width, height)
	bm.Data = make([]byte, height*bm.RowStride)
	return bm
}

func newBitmap(width, height int) *Bitmap {
	return &Bitmap{
		Width:     width,
		Height:    height,
		RowStride: (width + 7) >> 3,
	}
}

// NewWithData creates a bitmap over the provided packed rows. The data is
// used directly, not copied.
func NewWithData(width, height int, data []byte) (*Bitmap, error) {
	bm := newBitmap(width, height)
	bm.Data = data
	if len(data) < height*bm.RowStride {
		return nil, fmt.Errorf("invalid data length: %d - should be: %d", len(data), height*bm.RowStride)
	}
	return bm, nil
}

// Copy returns a deep copy of the bitmap.
func (b *Bitmap) Copy() *Bitmap {
	data := make([]byte, len(b.Data))
	copy(data, b.Data)
	return &Bitmap{
		Width:     b.Width,
		Height:    b.Height,
		RowStride: b.RowStride,
		Data:      data,
		Color:     b.Color,
	}
}

// GetByteIndex returns the index into Data of the byte holding pixel (x, y).
func (b *Bitmap) GetByteIndex(x, y int) int {
	return y*b.RowStride + (x >> 3)
}

// GetBitOffset returns the bit position of pixel column x within its byte.
func (b *Bitmap) GetBitOffset(x int) int {
	return x & 0x07
}

// GetByte returns the byte at the given index.
func (b *Bitmap) GetByte(index int) (byte, error) {
	if index < 0 || index >= len(b.Data) {
		return 0, ErrIndexOutOfRange
	}
	return b.Data[index], nil
}

// SetByte overwrites the byte at the given index.
func (b *Bitmap) SetByte(index int, v byte) error {
	if index < 0 || index >= len(b.Data) {
		return ErrIndexOutOfRange
	}
	b.Data[index] = v
	return nil
}

// GetPixel returns the value of pixel (x, y). Out of range coordinates read
// as false - template contexts and MMR reference rows depend on that.
func (b *Bitmap) GetPixel(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	i := b.GetByteIndex(x, y)
	if i >= len(b.Data) {
		common.Log.Debug("Trying to get pixel out of the data range. x: '%d', y:'%d', bm: '%s'", x, y, b)
		return false
	}
	return b.Data[i]&(0x80>>uint(b.GetBitOffset(x))) != 0
}

// SetPixel ors the low bit of 'pixel' into pixel (x, y).
func (b *Bitmap) SetPixel(x, y int, pixel byte) error {
	i := b.GetByteIndex(x, y)
	if i >= len(b.Data) {
		return ErrIndexOutOfRange
	}
	b.Data[i] |= (pixel & 0x01) << uint(7-b.GetBitOffset(x))
	return nil
}

// SetDefaultPixel sets every pixel, padding included, to '1'.
func (b *Bitmap) SetDefaultPixel() {
	for i := range b.Data {
		b.Data[i] = 0xff
	}
}

// SizesEqual reports whether both bitmaps have the same dimensions.
func (b *Bitmap) SizesEqual(s *Bitmap) bool {
	return b == s || (b.Width == s.Width && b.Height == s.Height)
}

// Equals reports whether both bitmaps carry the same pixels. Row padding
// bits are ignored.
func (b *Bitmap) Equals(s *Bitmap) bool {
	if len(b.Data) != len(s.Data) || !b.SizesEqual(s) {
		return false
	}

	fullBytes, padMask := b.rowSplit()
	for y := 0; y < b.Height; y++ {
		row := y * b.RowStride
		for i := 0; i < fullBytes; i++ {
			if b.Data[row+i] != s.Data[row+i] {
				return false
			}
		}
		if padMask != 0 && (b.Data[row+fullBytes]^s.Data[row+fullBytes])&padMask != 0 {
			return false
		}
	}
	return true
}

// CountPixels returns the number of '1' pixels, row padding excluded.
func (b *Bitmap) CountPixels() int {
	var sum int
	fullBytes, padMask := b.rowSplit()
	for y := 0; y < b.Height; y++ {
		row := y * b.RowStride
		for i := 0; i < fullBytes; i++ {
			sum += int(onesCount[b.Data[row+i]])
		}
		if padMask != 0 {
			sum += int(onesCount[b.Data[row+fullBytes]&padMask])
		}
	}
	return sum
}

// rowSplit returns the number of fully used bytes per row and the mask of
// valid bits within the trailing partial byte (zero when rows end on a
// byte boundary).
func (b *Bitmap) rowSplit() (fullBytes int, padMask byte) {
	fullBytes = b.RowStride
	if partial := b.Width & 0x07; partial != 0 {
		fullBytes--
		padMask = 0xff << uint(8-partial)
	}
	return fullBytes, padMask
}

// GetUnpaddedData returns the pixels packed without per-row padding: the
// result holds Width*Height bits, padded only at its very end.
func (b *Bitmap) GetUnpaddedData() ([]byte, error) {
	partialBits := uint(b.Width & 0x07)
	if partialBits == 0 {
		return b.Data, nil
	}

	size := (b.Width*b.Height + 7) >> 3
	w := writer.NewMSB(make([]byte, size))

	fullBytes, _ := b.rowSplit()
	for y := 0; y < b.Height; y++ {
		row := y * b.RowStride
		for i := 0; i < fullBytes; i++ {
			if err := w.WriteByte(b.Data[row+i]); err != nil {
				return nil, err
			}
		}

		last := b.Data[row+fullBytes]
		for i := uint(0); i < partialBits; i++ {
			if err := w.WriteBit(int(last >> (7 - i) & 0x01)); err != nil {
				return nil, err
			}
		}
	}
	return w.Data(), nil
}

// InverseData flips every pixel and the bitmap's Color interpretation.
func (b *Bitmap) InverseData() {
	b.RasterOperation(0, 0, b.Width, b.Height, PixNotDst, nil, 0, 0)
	if b.Color == Chocolate {
		b.Color = Vanilla
	} else {
		b.Color = Chocolate
	}
}

// AddBorder returns a new bitmap with a uniform border of the given size
// and pixel value around b.
func (b *Bitmap) AddBorder(borderSize, val int) (*Bitmap, error) {
	if borderSize == 0 {
		return b.Copy(), nil
	}
	return b.withBorder(borderSize, borderSize, borderSize, borderSize, val)
}

// AddBorderGeneral returns a new bitmap with per-side borders of the given
// pixel value around b.
func (b *Bitmap) AddBorderGeneral(left, right, top, bot int, val int) (*Bitmap, error) {
	return b.withBorder(left, right, top, bot, val)
}

func (b *Bitmap) withBorder(left, right, top, bot int, val int) (*Bitmap, error) {
	if left < 0 || right < 0 || top < 0 || bot < 0 {
		return nil, errors.New("negative border added")
	}

	wd := b.Width + left + right
	hd := b.Height + top + bot

	bd := New(wd, hd)
	bd.Color = b.Color

	op := PixClr
	if val > 0 {
		op = PixSet
	}

	edges := []struct{ x, y, w, h int }{
		{0, 0, left, hd},
		{wd - right, 0, right, hd},
		{0, 0, wd, top},
		{0, hd - bot, wd, bot},
	}
	for _, e := range edges {
		if err := bd.RasterOperation(e.x, e.y, e.w, e.h, op, nil, 0, 0); err != nil {
			return nil, err
		}
	}

	// copy the pixels into the interior
	if err := bd.RasterOperation(left, top, b.Width, b.Height, PixSrc, b, 0, 0); err != nil {
		return nil, err
	}
	return bd, nil
}

// RemoveBorder returns a new bitmap with a uniform border of the given
// size stripped from b.
func (b *Bitmap) RemoveBorder(borderSize int) (*Bitmap, error) {
	if borderSize == 0 {
		return b.Copy(), nil
	}
	return b.withoutBorder(borderSize, borderSize, borderSize, borderSize)
}

// RemoveBorderGeneral returns a new bitmap with per-side borders stripped
// from b.
func (b *Bitmap) RemoveBorderGeneral(left, right, top, bot int) (*Bitmap, error) {
	return b.withoutBorder(left, right, top, bot)
}

func (b *Bitmap) withoutBorder(left, right, top, bot int) (*Bitmap, error) {
	if left < 0 || right < 0 || top < 0 || bot < 0 {
		return nil, errors.New("negative border removed")
	}

	wd := b.Width - left - right
	hd := b.Height - top - bot
	if wd <= 0 || hd <= 0 {
		return nil, fmt.Errorf("border exceeds the bitmap: %dx%d", wd, hd)
	}

	bm := New(wd, hd)
	bm.Color = b.Color

	if err := bm.RasterOperation(0, 0, wd, hd, PixSrc, b, left, top); err != nil {
		return nil, err
	}
	return bm, nil
}

// String renders the pixels as rows of '0'/'1' characters.
func (b *Bitmap) String() string {
	sb := strings.Builder{}
	sb.WriteRune('\n')
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.GetPixel(x, y) {
				sb.WriteRune('1')
			} else {
				sb.WriteRune('0')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

// ToImage renders the bitmap as a grayscale image, '1' pixels white.
func (b *Bitmap) ToImage() image.Image {
	img := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			var g color.Gray
			if b.GetPixel(x, y) {
				g.Y = 0xff
			}
			img.SetGray(x, y, g)
		}
	}
	return img
}
