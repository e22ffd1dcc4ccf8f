/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package mmr

import (
	"github.com/lxman/jbig2/bitmap"
	"github.com/lxman/jbig2/errors"
	"github.com/lxman/jbig2/internal/common"
	"github.com/lxman/jbig2/limits"
	"github.com/lxman/jbig2/reader"
)

// Decoder reconstructs a bitmap from a T.6 two-dimensional (MMR) coded
// stream - the generic region's MMR arithmetic alternative named in
// specification part 4.5.
type Decoder struct {
	width, height int
	data          *runData

	whiteTable []*runLengthCode
	blackTable []*runLengthCode
	modeTable  []*runLengthCode

	// ops is the document-wide decode-operation budget; nil means unbounded.
	ops *limits.OperationCounter
	// maxLoop caps one row's code-consumption loop; zero means unbounded.
	maxLoop int
}

// New creates an MMR Decoder reading dataLength bytes of r starting at dataOffset.
func New(r reader.StreamReader, width, height int, dataOffset, dataLength int64) (*Decoder, error) {
	m := &Decoder{
		width:  width,
		height: height,
	}

	s, err := reader.NewSubstreamReader(r, uint64(dataOffset), uint64(dataLength))
	if err != nil {
		return nil, err
	}

	rd, err := newRunData(s)
	if err != nil {
		return nil, err
	}
	m.data = rd

	if err := m.initTables(); err != nil {
		return nil, err
	}
	return m, nil
}

// Data returns the decoder's underlying bit cursor.
func (m *Decoder) Data() *runData {
	return m.data
}

// BindLimits attaches the document-wide decode-operation budget and the
// per-row iteration ceiling to this Decoder.
func (m *Decoder) BindLimits(ops *limits.OperationCounter, maxLoop int) {
	m.ops = ops
	m.maxLoop = maxLoop
}

// consumeCode accounts one code consumption against the operation budget
// and the per-row iteration ceiling.
func (m *Decoder) consumeCode(rowIterations *int) error {
	const processName = "mmr.Decoder"
	if !m.ops.Consume(1) {
		return errors.ResourceExceeded(processName, "MaxDecodeOperations limit of %d exceeded", m.ops.Max())
	}
	*rowIterations++
	if m.maxLoop > 0 && *rowIterations > m.maxLoop {
		return errors.ResourceExceeded(processName, "row decode exceeds MaxLoopIterations limit of %d", m.maxLoop)
	}
	return nil
}

func (m *Decoder) initTables() (err error) {
	if m.whiteTable != nil {
		return nil
	}
	if m.whiteTable, err = m.createLittleEndianTable(WhiteCodes); err != nil {
		return err
	}
	if m.blackTable, err = m.createLittleEndianTable(BlackCodes); err != nil {
		return err
	}
	m.modeTable, err = m.createLittleEndianTable(ModeCodes)
	return err
}

// Uncompress2d decodes one T.6 two-dimensional coded row, using the previous
// row's transition offsets (referenceOffsets) to resolve the V/H/P mode
// codes, and writes the new row's transitions into runOffsets. It returns
// the number of transitions written, or the eol/eof sentinels.
func (m *Decoder) Uncompress2d(
	rd *runData,
	referenceOffsets []int,
	refRunLength int,
	runOffsets []int,
	width int,
) (int, error) {
	var (
		referenceBuffOffset    int
		currentBuffOffset      int
		currentLineBitPosition int

		whiteRun = true
		err      error

		c             *runLengthCode
		rowIterations int
	)

	referenceOffsets[refRunLength] = width
	referenceOffsets[refRunLength+1] = width
	referenceOffsets[refRunLength+2] = width + 1
	referenceOffsets[refRunLength+3] = width + 1

decodeLoop:
	for currentLineBitPosition < width {
		if err = m.consumeCode(&rowIterations); err != nil {
			return 0, err
		}
		c, err = rd.uncompressGetCode(m.modeTable)
		if err != nil {
			return eol, nil
		}
		if c == nil {
			rd.offset++
			break decodeLoop
		}
		rd.offset += c.bits

		switch mmrCode(c.run) {
		case codeV0:
			currentLineBitPosition = referenceOffsets[referenceBuffOffset]
		case codeVR1:
			currentLineBitPosition = referenceOffsets[referenceBuffOffset] + 1
		case codeVL1:
			currentLineBitPosition = referenceOffsets[referenceBuffOffset] - 1
		case codeH:
			for {
				if err = m.consumeCode(&rowIterations); err != nil {
					return 0, err
				}
				table := m.blackTable
				if whiteRun {
					table = m.whiteTable
				}

				c, err = rd.uncompressGetCode(table)
				if err != nil {
					return 0, err
				}
				if c == nil {
					break decodeLoop
				}
				rd.offset += c.bits

				if c.run < 64 {
					if c.run < 0 {
						runOffsets[currentBuffOffset] = currentLineBitPosition
						currentBuffOffset++
						c = nil
						break decodeLoop
					}
					currentLineBitPosition += c.run
					runOffsets[currentBuffOffset] = currentLineBitPosition
					currentBuffOffset++
					break
				}
				currentLineBitPosition += c.run
			}

			firstHalfBitPos := currentLineBitPosition

		secondRunLoop:
			for {
				if err = m.consumeCode(&rowIterations); err != nil {
					return 0, err
				}
				table := m.blackTable
				if !whiteRun {
					table = m.whiteTable
				}

				c, err = rd.uncompressGetCode(table)
				if err != nil {
					return 0, err
				}
				if c == nil {
					break decodeLoop
				}
				rd.offset += c.bits

				if c.run < 64 {
					if c.run < 0 {
						runOffsets[currentBuffOffset] = currentLineBitPosition
						currentBuffOffset++
						break decodeLoop
					}

					currentLineBitPosition += c.run
					// don't generate a 0-length run at EOL when the row ends in an H-run
					if currentLineBitPosition < width || currentLineBitPosition != firstHalfBitPos {
						runOffsets[currentBuffOffset] = currentLineBitPosition
						currentBuffOffset++
					}
					break secondRunLoop
				}
				currentLineBitPosition += c.run
			}

			for currentLineBitPosition < width &&
				referenceOffsets[referenceBuffOffset] <= currentLineBitPosition {
				referenceBuffOffset += 2
			}
			continue decodeLoop

		case codeP:
			referenceBuffOffset++
			currentLineBitPosition = referenceOffsets[referenceBuffOffset]
			referenceBuffOffset++
			continue decodeLoop
		case codeVR2:
			currentLineBitPosition = referenceOffsets[referenceBuffOffset] + 2
		case codeVL2:
			currentLineBitPosition = referenceOffsets[referenceBuffOffset] - 2
		case codeVR3:
			currentLineBitPosition = referenceOffsets[referenceBuffOffset] + 3
		case codeVL3:
			currentLineBitPosition = referenceOffsets[referenceBuffOffset] - 3
		default:
			// possibly a bare T.4 1-D fallback row framed by EOFB markers
			if rd.offset == 12 && c.run == eol {
				rd.offset = 0
				if _, err := m.Uncompress1d(rd, referenceOffsets, width); err != nil {
					return eof, err
				}
				rd.offset++
				if _, err := m.Uncompress1d(rd, runOffsets, width); err != nil {
					return eof, err
				}
				retCode, err := m.Uncompress1d(rd, referenceOffsets, width)
				if err != nil {
					return eof, err
				}
				rd.offset++
				return retCode, nil
			}
			currentLineBitPosition = width
			continue decodeLoop
		}

		if currentLineBitPosition <= width {
			whiteRun = !whiteRun

			runOffsets[currentBuffOffset] = currentLineBitPosition
			currentBuffOffset++

			if referenceBuffOffset > 0 {
				referenceBuffOffset--
			} else {
				referenceBuffOffset++
			}

			for currentLineBitPosition < width &&
				referenceOffsets[referenceBuffOffset] <= currentLineBitPosition {
				referenceBuffOffset += 2
			}
		}
	}

	if runOffsets[currentBuffOffset] != width {
		runOffsets[currentBuffOffset] = width
	}

	if c == nil {
		return eol, nil
	}
	return currentBuffOffset, nil
}

// Uncompress1d decodes one T.4 one-dimensional (modified Huffman) coded row.
func (m *Decoder) Uncompress1d(data *runData, runOffsets []int, width int) (int, error) {
	var (
		whiteRun      = true
		iBitPos       int
		cd            *runLengthCode
		refOffset     int
		rowIterations int
		err           error
	)

outer:
	for iBitPos < width {
		for {
			if err = m.consumeCode(&rowIterations); err != nil {
				return 0, err
			}
			table := m.blackTable
			if whiteRun {
				table = m.whiteTable
			}
			cd, err = data.uncompressGetCode(table)
			if err != nil {
				return 0, err
			}
			data.offset += cd.bits

			if cd.run < 0 {
				break outer
			}
			iBitPos += cd.run

			if cd.run < 64 {
				whiteRun = !whiteRun
				runOffsets[refOffset] = iBitPos
				refOffset++
				break
			}
		}
	}

	if runOffsets[refOffset] != width {
		runOffsets[refOffset] = width
	}
	if cd != nil && cd.run != eol {
		return refOffset, nil
	}
	return eol, nil
}

// createLittleEndianTable builds a two-level lookup table (see tables.go)
// from a flat list of (bits, word, run) entries.
func (m *Decoder) createLittleEndianTable(codes [][3]int) ([]*runLengthCode, error) {
	firstLevelTable := make([]*runLengthCode, firstLevelTablemask+1)

	for _, entry := range codes {
		cd := newRunLengthCode(entry)

		if cd.bits <= firstLevelTableSize {
			variantLength := firstLevelTableSize - cd.bits
			baseWord := cd.word << uint(variantLength)
			for variant := (1 << uint(variantLength)) - 1; variant >= 0; variant-- {
				firstLevelTable[baseWord|variant] = cd
			}
			continue
		}

		firstLevelIndex := cd.word >> uint(cd.bits-firstLevelTableSize)
		if firstLevelTable[firstLevelIndex] == nil {
			parent := newRunLengthCode([3]int{})
			parent.children = make([]*runLengthCode, secondLevelTableMask+1)
			firstLevelTable[firstLevelIndex] = parent
		}

		if cd.bits > firstLevelTableSize+secondLevelTableSize {
			return nil, errors.Data("createLittleEndianTable", "code table overflow")
		}

		variantLength := firstLevelTableSize + secondLevelTableSize - cd.bits
		baseWord := (cd.word << uint(variantLength)) & secondLevelTableMask
		firstLevelTable[firstLevelIndex].hasChildren = true
		for variant := (1 << uint(variantLength)) - 1; variant >= 0; variant-- {
			firstLevelTable[firstLevelIndex].children[baseWord|variant] = cd
		}
	}
	return firstLevelTable, nil
}

// DetectAndSkipEOL advances past any run of T.4 end-of-line codewords.
func (m *Decoder) DetectAndSkipEOL() error {
	for {
		cd, err := m.data.uncompressGetCode(m.modeTable)
		if err != nil {
			return err
		}
		if cd == nil || cd.run != eol {
			return nil
		}
		m.data.offset += cd.bits
	}
}

// UncompressMMR decodes the full MMR-coded region into a bitmap of the
// Decoder's configured width and height.
func (m *Decoder) UncompressMMR() (b *bitmap.Bitmap, err error) {
	b = bitmap.New(m.width, m.height)

	currentOffsets := make([]int, b.Width+5)
	referenceOffsets := make([]int, b.Width+5)
	referenceOffsets[0] = b.Width
	refRunLength := 1

	count := 0
	for line := 0; line < b.Height; line++ {
		common.Log.Debug("Line: %d", line)
		count, err = m.Uncompress2d(m.data, referenceOffsets, refRunLength, currentOffsets, b.Width)
		if err != nil {
			return
		}
		if count == EOF {
			break
		}
		if count > 0 {
			if err = m.FillBitmap(b, line, currentOffsets, count); err != nil {
				return
			}
		}
		referenceOffsets, currentOffsets = currentOffsets, referenceOffsets
		refRunLength = count
	}
	if err = m.DetectAndSkipEOL(); err != nil {
		return
	}

	m.Data().align()
	return
}

// FillBitmap paints one decoded row's alternating white/black runs
// (currentOffsets holds the count transition positions) into b at line.
func (m *Decoder) FillBitmap(b *bitmap.Bitmap, line int, currentOffsets []int, count int) error {
	x := 0
	targetByte := b.GetByteIndex(0, line)
	var targetByteValue byte

	for index := 0; index < count; index++ {
		offset := currentOffsets[index]

		var value byte
		if (index & 1) != 0 {
			value = 1
		}

		for x < offset {
			targetByteValue = (targetByteValue << 1) | value
			x++

			if (x & 7) == 0 {
				if err := b.SetByte(targetByte, targetByteValue); err != nil {
					return err
				}
				targetByte++
				targetByteValue = 0
			}
		}
	}

	if (x & 7) != 0 {
		targetByteValue <<= uint(8 - (x & 7))
		if err := b.SetByte(targetByte, targetByteValue); err != nil {
			return err
		}
	}
	return nil
}
