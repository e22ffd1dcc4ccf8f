/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package segments

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/lxman/jbig2/internal/common"

	"github.com/lxman/jbig2/bitmap"
	"github.com/lxman/jbig2/errors"
	"github.com/lxman/jbig2/limits"
	"github.com/lxman/jbig2/reader"
	"github.com/lxman/jbig2/writer"
)

// RegionSegment is the model representing base jbig2 segment region - see 7.4.1.
type RegionSegment struct {
	r reader.StreamReader
	// lim bounds the parsed dimensions. The zero value skips validation -
	// used by region segments constructed internally with dimensions that
	// were already validated by their parent decoder.
	lim limits.Limits
	// Region segment bitmap width, 7.4.1.1
	BitmapWidth uint32
	// Region segment bitmap height, 7.4.1.2
	BitmapHeight uint32
	// Region segment bitmap X location, 7.4.1.3
	XLocation uint32
	// Region segment bitmap Y location, 7.4.1.4
	YLocation uint32
	// Region segment flags, 7.4.1.5
	CombinaionOperator bitmap.CombinationOperator
}

// NewRegionSegment creates new Region segment model.
func NewRegionSegment(r reader.StreamReader) *RegionSegment {
	return &RegionSegment{r: r}
}

// compile time check for the SegmentEncoder interface.
var _ SegmentEncoder = &RegionSegment{}

// Encode implements the SegmentEncoder interface. It writes, in order:
// bitmap width, height, x location, y location (big endian uint32 each),
// then one flags byte of 5 zero bits plus the 3-bit combination operator.
func (r *RegionSegment) Encode(w writer.BinaryWriter) (n int, err error) {
	const processName = "RegionSegment.Encode"

	fields := []struct {
		name  string
		value uint32
	}{
		{"Width", r.BitmapWidth},
		{"Height", r.BitmapHeight},
		{"XLocation", r.XLocation},
		{"YLocation", r.YLocation},
	}

	temp := make([]byte, 4)
	for _, f := range fields {
		binary.BigEndian.PutUint32(temp, f.value)
		written, werr := w.Write(temp)
		if werr != nil {
			return 0, errors.Wrap(werr, processName, f.name)
		}
		n += written
	}

	if err = w.WriteByte(byte(r.CombinaionOperator) & 0x07); err != nil {
		return 0, errors.Wrap(err, processName, "combination operator")
	}
	n++
	return n, nil
}

// Size returns the bytewise size of the region segment.
func (r *RegionSegment) Size() int {
	// width + height + xlocation + ylocation + flags = 17
	// 4 + 4 + 4 + 4 + 1 = 17
	return 17
}

// String implements the Stringer interface.
func (r *RegionSegment) String() string {
	sb := &strings.Builder{}

	sb.WriteString("\t[REGION SEGMENT]\n")
	sb.WriteString(fmt.Sprintf("\t\t- Bitmap (width, height) [%dx%d]\n", r.BitmapWidth, r.BitmapHeight))
	sb.WriteString(fmt.Sprintf("\t\t- Location (x,y): [%d,%d]\n", r.XLocation, r.YLocation))
	sb.WriteString(fmt.Sprintf("\t\t- CombinationOperator: %s", r.CombinaionOperator))
	return sb.String()
}

// parseHeader parses the RegionSegment header.
func (r *RegionSegment) parseHeader() error {
	const processName = "parseHeader"
	common.Log.Trace("[REGION][PARSE-HEADER] Begin")
	defer func() {
		common.Log.Trace("[REGION][PARSE-HEADER] Finished")
	}()

	fields := []struct {
		name string
		dest *uint32
	}{
		{"width", &r.BitmapWidth},
		{"height", &r.BitmapHeight},
		{"x location", &r.XLocation},
		{"y location", &r.YLocation},
	}
	for _, f := range fields {
		temp, err := r.r.ReadBits(32)
		if err != nil {
			return errors.Wrap(err, processName, f.name)
		}
		*f.dest = uint32(temp & math.MaxUint32)
	}

	if !r.lim.IsZero() {
		w, h := int64(r.BitmapWidth), int64(r.BitmapHeight)
		if w > int64(r.lim.MaxWidth) {
			return errors.ResourceExceeded(processName, "region width %d exceeds MaxWidth limit of %d", w, r.lim.MaxWidth)
		}
		if h > int64(r.lim.MaxHeight) {
			return errors.ResourceExceeded(processName, "region height %d exceeds MaxHeight limit of %d", h, r.lim.MaxHeight)
		}
		if w*h > r.lim.MaxPixels {
			return errors.ResourceExceeded(processName, "region size %dx%d exceeds MaxPixels limit of %d", w, h, r.lim.MaxPixels)
		}
	}

	// Bit 3-7
	if _, err := r.r.ReadBits(5); err != nil {
		return errors.Wrap(err, processName, "diry read")
	}

	// Bit 0-2
	if err := r.readCombinationOperator(); err != nil {
		return errors.Wrap(err, processName, "combination operator")
	}
	return nil
}

func (r *RegionSegment) readCombinationOperator() error {
	temp, err := r.r.ReadBits(3)
	if err != nil {
		return err
	}

	r.CombinaionOperator = bitmap.CombinationOperator(temp & 0xF)
	return nil
}
