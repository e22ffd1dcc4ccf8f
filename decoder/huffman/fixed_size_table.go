/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package huffman

import (
	"github.com/lxman/jbig2/reader"
)

// FixedSizeTable is a Tabler whose code assignment tree is built once from a
// caller-supplied list of ranges and never grows further - the standard
// tables of Annex B.5, as opposed to a table streamed from a table segment
// (see TableSegment and EncodedTable).
type FixedSizeTable struct {
	rootNode *InternalNode
}

// NewFixedSizeTable builds the assignment tree for codeTable and returns the
// ready-to-use table.
func NewFixedSizeTable(codeTable []*Code) (*FixedSizeTable, error) {
	f := &FixedSizeTable{rootNode: &InternalNode{}}
	if err := f.InitTree(codeTable); err != nil {
		return nil, err
	}
	return f, nil
}

// Decode implements Tabler.
func (f *FixedSizeTable) Decode(r reader.StreamReader) (int64, error) {
	return f.rootNode.Decode(r)
}

// InitTree assigns prefix lengths to codeTable (Annex B.3) and inserts each
// resulting code into the tree.
func (f *FixedSizeTable) InitTree(codeTable []*Code) error {
	preprocessCodes(codeTable)
	for _, c := range codeTable {
		if err := f.rootNode.append(c); err != nil {
			return err
		}
	}
	return nil
}

// String implements fmt.Stringer.
func (f *FixedSizeTable) String() string {
	return f.rootNode.String() + "\n"
}

// RootNode implements Tabler.
func (f *FixedSizeTable) RootNode() *InternalNode {
	return f.rootNode
}
