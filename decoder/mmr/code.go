/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package mmr

import (
	"fmt"
)

// runLengthCode is one entry of a T.6 two-dimensional run-length code table
// (Tables 2-4 of the Recommendation): a variable-length bit pattern (bits,
// word) mapping to either a run length or a mode code. Entries whose code
// exceeds the first-level lookup width (see tables.go) grow a children
// table instead of carrying a run value directly.
type runLengthCode struct {
	bits        int
	word        int
	run         int
	children    []*runLengthCode
	hasChildren bool
}

func newRunLengthCode(entry [3]int) *runLengthCode {
	return &runLengthCode{
		bits: entry[0],
		word: entry[1],
		run:  entry[2],
	}
}

// String implements Stringer interface.
func (c *runLengthCode) String() string {
	return fmt.Sprintf("%d/%d/%d", c.bits, c.word, c.run)
}
