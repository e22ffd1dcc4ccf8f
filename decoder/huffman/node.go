/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package huffman

import (
	"fmt"
	"math"
	"strings"

	"github.com/lxman/jbig2/errors"
	"github.com/lxman/jbig2/reader"
)

// Node is a single node of a Huffman assignment tree (specification part
// 4.4, built per Annex B.3): walking from the root one bit at a time
// reaches either an InternalNode (keep walking) or a leaf that decodes a
// value outright.
type Node interface {
	Decode(r reader.StreamReader) (int64, error)
	String() string
}

// OutOfBandNode is the leaf reached by the Annex B "out-of-band" prefix
// code some Huffman tables reserve for a sentinel value (e.g. the symbol
// dictionary's "no more symbols" marker) instead of an integer range.
type OutOfBandNode struct{}

// Compile time check the OutOfBandNode.
var _ Node = &OutOfBandNode{}

// oobSentinel is the value Decode reports for an out-of-band leaf; callers
// compare against math.MaxInt64 to recognize it.
const oobSentinel = int64(math.MaxInt64)

// Decode implements Node interface.
func (o *OutOfBandNode) Decode(r reader.StreamReader) (int64, error) {
	return oobSentinel, nil
}

// String implements the Stringer interface returns the max int binary value.
func (o *OutOfBandNode) String() string {
	return fmt.Sprintf("%064b", oobSentinel)
}

func newOufOfBandNode(*Code) *OutOfBandNode {
	return &OutOfBandNode{}
}

// ValueNode represents a value node in a huffman tree. It is a leaf of a tree.
type ValueNode struct {
	rangeLen     int32
	rangeLow     int32
	isLowerRange bool
}

// Compile time check the ValueNode.
var _ Node = &ValueNode{}

// Decode implements Node interface.
func (v *ValueNode) Decode(r reader.StreamReader) (int64, error) {
	bits, err := r.ReadBits(byte(v.rangeLen))
	if err != nil {
		return 0, err
	}

	if v.isLowerRange {
		// B.4 4)
		bits = -bits
	}
	return int64(v.rangeLow) + int64(bits), nil
}

// String implements Stringer interface.
func (v *ValueNode) String() string {
	return fmt.Sprintf("%d/%d", v.rangeLen, v.rangeLow)
}

func newValueNode(c *Code) *ValueNode {
	return &ValueNode{
		rangeLen:     c.rangeLength,
		rangeLow:     c.rangeLow,
		isLowerRange: c.isLowerRange,
	}
}

// InternalNode represents an internal node of a huffman tree.
// It is defined as a pair of  two child nodes 'zero' and 'one' and a 'depth' level.
// Implements Node interface.
type InternalNode struct {
	depth int32
	zero  Node
	one   Node
}

// Compile time check for the InternalNode.
var _ Node = &InternalNode{}

// Decode implements Node interface.
func (i *InternalNode) Decode(r reader.StreamReader) (int64, error) {
	b, err := r.ReadBit()
	if err != nil {
		return 0, err
	}

	child := i.zero
	if b == 1 {
		child = i.one
	}
	if child == nil {
		return 0, errors.Data("InternalNode.Decode", "prefix code at depth %d has no assigned entry", i.depth)
	}
	return child.Decode(r)
}

// String implements the Stringer interface.
func (i *InternalNode) String() string {
	b := &strings.Builder{}

	b.WriteString("\n")
	i.pad(b)
	b.WriteString("0: ")
	b.WriteString(i.zero.String() + "\n")
	i.pad(b)
	b.WriteString("1: ")
	b.WriteString(i.one.String() + "\n")
	return b.String()
}

// append inserts c's leaf into the tree rooted at i, walking c.code one bit
// at a time (most significant of the remaining prefix first) and growing
// InternalNode children as needed until the full c.prefixLength bits have
// been consumed.
func (i *InternalNode) append(c *Code) error {
	// a zero-length prefix marks an unused code (Annex B.3 step 4)
	if c.prefixLength == 0 {
		return nil
	}
	remaining := c.prefixLength - 1 - i.depth
	if remaining < 0 {
		return errors.Data("InternalNode.append", "code %s is shorter than its tree depth", c)
	}
	bit := (c.code >> uint(remaining)) & 0x1

	if remaining > 0 {
		child := &i.zero
		if bit == 1 {
			child = &i.one
		}
		if *child == nil {
			*child = newInternalNode(i.depth + 1)
		}
		inner, ok := (*child).(*InternalNode)
		if !ok {
			return errors.Data("InternalNode.append", "code %s conflicts with a shorter assigned prefix", c)
		}
		return inner.append(c)
	}

	leaf, kind := Node(newValueNode(c)), "Value Node"
	if c.rangeLength == -1 {
		leaf, kind = newOufOfBandNode(c), "OOB"
	}

	child := &i.zero
	if bit == 1 {
		child = &i.one
	}
	if *child != nil {
		return errors.Data("InternalNode.append", "%s already set for code %s", kind, c)
	}
	*child = leaf
	return nil
}

func (i *InternalNode) pad(sb *strings.Builder) {
	for j := int32(0); j < i.depth; j++ {
		sb.WriteString("   ")
	}
}

// newInternalNode creates new internal node.
func newInternalNode(depth int32) *InternalNode {
	return &InternalNode{depth: depth}
}
