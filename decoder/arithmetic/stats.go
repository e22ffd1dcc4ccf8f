/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package arithmetic

import (
	"fmt"
	"strings"
)

// mpsBit is the bit of a context entry holding the more-probable-symbol
// sense; the low seven bits hold the T.88 E.2 probability state (0..46).
const mpsBit = 0x80

// DecoderStats is one adaptive context array of the MQ coder: each entry
// packs a probability state together with its current MPS sense in a
// single byte, so state and sense can never fall out of step the way two
// parallel slices could. Callers address an entry through SetIndex before
// each decode call.
type DecoderStats struct {
	index   int32
	entries []byte
}

// NewStats creates a context array of contextSize entries, all initialized
// to state 0 with MPS sense 0, addressed starting at 'index'.
func NewStats(contextSize, index int32) *DecoderStats {
	return &DecoderStats{
		index:   index,
		entries: make([]byte, contextSize),
	}
}

// SetIndex selects the entry subsequent decode calls operate on.
func (d *DecoderStats) SetIndex(index int32) {
	d.index = index
}

// Reset returns every entry to its initial state. Resetting a context
// array shared between sub-decoders discards the adaptive state they
// depend on - see specification part 5 - so the region decoders never call
// this mid-decode.
func (d *DecoderStats) Reset() {
	for i := range d.entries {
		d.entries[i] = 0
	}
}

// String implements fmt.Stringer, listing the non-initial entries.
func (d *DecoderStats) String() string {
	b := &strings.Builder{}
	b.WriteString(fmt.Sprintf("Stats:  %d\n", len(d.entries)))
	for i, v := range d.entries {
		if v != 0 {
			b.WriteString(fmt.Sprintf("Not zero at: %d - %d\n", i, v))
		}
	}
	return b.String()
}

// cx returns the current entry's probability state.
func (d *DecoderStats) cx() byte {
	return d.entries[d.index] &^ mpsBit
}

// getMps returns the current entry's more probable symbol.
func (d *DecoderStats) getMps() byte {
	return d.entries[d.index] >> 7
}

// setEntry moves the current entry to a new probability state, keeping
// its MPS sense.
func (d *DecoderStats) setEntry(value int) {
	d.entries[d.index] = d.entries[d.index]&mpsBit | byte(value)&^mpsBit
}

// toggleMps flips the current entry's more probable symbol.
func (d *DecoderStats) toggleMps() {
	d.entries[d.index] ^= mpsBit
}
