/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package huffman

import (
	"fmt"
	"sync"
)

// line is a shorthand constructor for a standard-table Code: rangeLow,
// prefixLength, rangeLength (ITU-T T.88 Annex B.5 lines).
func line(rangeLow, prefixLength, rangeLength int32) *Code {
	return NewCode(prefixLength, rangeLength, rangeLow, false)
}

// lowLine is the "lower range" line terminating a table (B.3 sixth line):
// value = rangeLow - readBits(32).
func lowLine(prefixLength, rangeLow int32) *Code {
	return NewCode(prefixLength, 32, rangeLow, true)
}

// oobLine marks the out-of-band line of a table.
func oobLine(prefixLength int32) *Code {
	return NewCode(prefixLength, -1, 0, false)
}

// standardTableLines holds the B.1-B.15 table definitions of ITU-T T.88
// Annex B.5, in the form consumed by preprocessCodes/InternalNode.append.
var standardTableLines = [][]*Code{
	// B.1
	{
		line(0, 1, 4),
		line(16, 2, 8),
		line(272, 3, 16),
		line(65808, 3, 32),
	},
	// B.2
	{
		line(0, 1, 0),
		line(1, 2, 0),
		line(2, 3, 0),
		line(3, 4, 3),
		line(11, 5, 6),
		line(75, 6, 32),
		oobLine(6),
	},
	// B.3
	{
		line(0, 1, 0),
		line(1, 2, 0),
		line(2, 3, 0),
		line(3, 4, 3),
		line(11, 5, 6),
		oobLine(6),
		line(75, 7, 32),
		line(-256, 8, 8),
		lowLine(8, -257),
	},
	// B.4
	{
		line(1, 1, 0),
		line(2, 2, 0),
		line(3, 3, 0),
		line(4, 4, 3),
		line(12, 5, 6),
		line(76, 5, 32),
	},
	// B.5
	{
		line(1, 1, 0),
		line(2, 2, 0),
		line(3, 3, 0),
		line(4, 4, 3),
		line(12, 5, 6),
		line(76, 6, 32),
		line(-255, 7, 8),
		lowLine(7, -256),
	},
	// B.6
	{
		line(0, 2, 7),
		line(128, 3, 7),
		line(256, 3, 8),
		line(-1024, 4, 9),
		line(-512, 4, 8),
		line(-256, 4, 7),
		line(-32, 4, 5),
		line(512, 4, 9),
		line(1024, 4, 10),
		line(-2048, 5, 10),
		line(-128, 5, 6),
		line(-64, 5, 5),
		lowLine(6, -2049),
		line(2048, 6, 32),
	},
	// B.7
	{
		line(-512, 3, 8),
		line(256, 3, 8),
		line(512, 3, 9),
		line(1024, 3, 10),
		line(-1024, 4, 9),
		line(-256, 4, 7),
		line(-32, 4, 5),
		line(0, 4, 5),
		line(128, 4, 7),
		line(-128, 5, 6),
		line(-64, 5, 5),
		line(32, 5, 5),
		line(64, 5, 6),
		lowLine(5, -1025),
		line(2048, 5, 32),
	},
	// B.8
	{
		line(0, 2, 1),
		oobLine(2),
		line(4, 3, 4),
		line(-1, 4, 0),
		line(22, 4, 4),
		line(38, 4, 5),
		line(2, 5, 0),
		line(70, 5, 6),
		line(134, 5, 7),
		line(3, 6, 0),
		line(20, 6, 1),
		line(262, 6, 7),
		line(646, 6, 10),
		line(-2, 7, 0),
		line(390, 7, 8),
		line(-15, 8, 3),
		line(-5, 8, 1),
		line(-7, 9, 1),
		line(-3, 9, 0),
		lowLine(9, -16),
		line(1670, 9, 32),
	},
	// B.9
	{
		oobLine(2),
		line(-1, 3, 1),
		line(1, 3, 1),
		line(7, 3, 5),
		line(-3, 4, 1),
		line(43, 4, 5),
		line(75, 4, 6),
		line(3, 5, 1),
		line(139, 5, 7),
		line(267, 5, 8),
		line(5, 6, 1),
		line(39, 6, 2),
		line(523, 6, 8),
		line(1291, 6, 11),
		line(-5, 7, 1),
		line(779, 7, 9),
		line(-31, 8, 4),
		line(-11, 8, 2),
		line(-15, 9, 2),
		line(-7, 9, 1),
		lowLine(9, -32),
		line(3339, 9, 32),
	},
	// B.10
	{
		line(-2, 2, 2),
		line(6, 2, 6),
		oobLine(2),
		line(-3, 5, 0),
		line(2, 5, 0),
		line(70, 5, 5),
		line(3, 6, 0),
		line(102, 6, 5),
		line(134, 6, 6),
		line(198, 6, 7),
		line(326, 6, 8),
		line(582, 6, 9),
		line(1094, 6, 10),
		line(-21, 7, 4),
		line(-4, 7, 0),
		line(4, 7, 0),
		line(2118, 7, 11),
		line(-5, 8, 0),
		line(5, 8, 0),
		lowLine(8, -22),
		line(4166, 8, 32),
	},
	// B.11
	{
		line(1, 1, 0),
		line(2, 2, 1),
		line(4, 4, 0),
		line(5, 4, 1),
		line(7, 5, 1),
		line(9, 5, 2),
		line(13, 6, 2),
		line(17, 7, 2),
		line(21, 7, 3),
		line(29, 7, 4),
		line(45, 7, 5),
		line(77, 7, 6),
		line(141, 7, 32),
	},
	// B.12
	{
		line(1, 1, 0),
		line(2, 2, 0),
		line(3, 3, 1),
		line(5, 5, 0),
		line(6, 5, 1),
		line(8, 6, 1),
		line(10, 7, 0),
		line(11, 7, 1),
		line(13, 7, 2),
		line(17, 7, 3),
		line(25, 7, 4),
		line(41, 8, 5),
		line(73, 8, 32),
	},
	// B.13
	{
		line(1, 1, 0),
		line(2, 3, 0),
		line(7, 3, 3),
		line(3, 4, 0),
		line(5, 4, 1),
		line(4, 5, 0),
		line(15, 6, 1),
		line(17, 6, 2),
		line(21, 6, 3),
		line(29, 6, 4),
		line(45, 6, 5),
		line(77, 7, 6),
		line(141, 7, 32),
	},
	// B.14
	{
		line(0, 1, 0),
		line(-2, 3, 0),
		line(-1, 3, 0),
		line(1, 3, 0),
		line(2, 3, 0),
	},
	// B.15
	{
		line(0, 1, 0),
		line(-1, 3, 0),
		line(1, 3, 0),
		line(-2, 4, 0),
		line(2, 4, 0),
		line(-4, 5, 1),
		line(3, 5, 1),
		line(-8, 6, 2),
		line(5, 6, 2),
		line(-24, 7, 4),
		line(9, 7, 4),
		lowLine(7, -25),
		line(25, 7, 32),
	},
}

// tables caches the compiled FixedSizeTable for every standard table,
// built lazily on first request since most decodes only touch a handful
// of the fifteen tables.
var (
	tables     = make([]Tabler, len(standardTableLines))
	tablesLock sync.Mutex
)

// GetStandardTable returns the standard Huffman table numbered 'number'
// (1-15, matching ITU-T T.88 Annex B.5 tables B.1-B.15). The returned
// table is shared and read-only once built; callers must not mutate it.
func GetStandardTable(number int) (Tabler, error) {
	if number < 1 || number > len(tables) {
		return nil, fmt.Errorf("invalid standard huffman table number: %d", number)
	}

	idx := number - 1

	tablesLock.Lock()
	defer tablesLock.Unlock()

	if tables[idx] != nil {
		return tables[idx], nil
	}

	codeTable := make([]*Code, len(standardTableLines[idx]))
	copy(codeTable, standardTableLines[idx])

	t, err := NewFixedSizeTable(codeTable)
	if err != nil {
		return nil, err
	}
	tables[idx] = t
	return t, nil
}
