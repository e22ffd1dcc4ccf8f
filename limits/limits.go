/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package limits defines the resource ceilings a jbig2 decode is bound to
// - see specification part 4.12. Every dimensioned allocation and every
// structural count the decoder performs is validated against a Limits
// value before it proceeds, so that a malformed or adversarial codestream
// cannot exhaust memory or CPU on the host.
package limits

// Limits bounds the resources a single decode operation may consume.
// The zero value is not valid on its own - use Default or Strict, or
// Resolve the zero value to Default. Resolve returns a partially filled
// value unchanged, so its zero fields stay zero.
type Limits struct {
	// MaxWidth is the largest permitted bitmap width, in pixels.
	MaxWidth int
	// MaxHeight is the largest permitted bitmap height, in pixels.
	MaxHeight int
	// MaxPixels is the largest permitted width*height product.
	MaxPixels int64

	// MaxSegments caps the number of segments a single stream may carry.
	MaxSegments int
	// MaxPages caps the number of pages a single document may declare.
	MaxPages int

	// MaxSegmentDataLength caps a single segment's declared data length.
	MaxSegmentDataLength uint64
	// MaxReferredSegments caps a single segment header's referred-to count.
	MaxReferredSegments int

	// MaxDecodeOperations caps the aggregate number of MQ bit-decodes and
	// MMR code consumptions across one decode. Huffman-coded reads are not
	// counted against it.
	MaxDecodeOperations int64

	// MaxHuffmanTableLines caps the number of lines in a custom Huffman table.
	MaxHuffmanTableLines int
	// MaxSymbols caps the number of symbols a symbol dictionary may hold
	// (input symbols plus new symbols).
	MaxSymbols int

	// MaxLoopIterations caps the iteration count of any single inner
	// decode loop (height-class symbol loops, text-region strip loops,
	// MMR per-line loops, and so on).
	MaxLoopIterations int
}

// Default returns a generous preset, suitable for trusted input where the
// decoder is only guarding against programming errors, not adversaries.
func Default() Limits {
	return Limits{
		MaxWidth:             1 << 20,
		MaxHeight:            1 << 20,
		MaxPixels:            1 << 30,
		MaxSegments:          1 << 20,
		MaxPages:             1 << 16,
		MaxSegmentDataLength: 1 << 32,
		MaxReferredSegments:  1 << 16,
		MaxDecodeOperations:  1 << 34,
		MaxHuffmanTableLines: 1 << 20,
		MaxSymbols:           1 << 22,
		MaxLoopIterations:    1 << 26,
	}
}

// Strict returns a tight preset, suitable for untrusted input such as
// attacker-controlled PDF attachments.
func Strict() Limits {
	return Limits{
		MaxWidth:             1 << 16,
		MaxHeight:            1 << 16,
		MaxPixels:            1 << 26,
		MaxSegments:          1 << 14,
		MaxPages:             1 << 10,
		MaxSegmentDataLength: 1 << 26,
		MaxReferredSegments:  1 << 10,
		MaxDecodeOperations:  1 << 28,
		MaxHuffmanTableLines: 1 << 12,
		MaxSymbols:           1 << 16,
		MaxLoopIterations:    1 << 20,
	}
}

// IsZero reports whether l is the Limits zero value.
func (l Limits) IsZero() bool {
	return l == Limits{}
}

// Resolve returns l unchanged when it carries any non-zero field, or
// Default() when l is the zero value - letting callers leave Parameters'
// Limits field unset and get sane behaviour.
func (l Limits) Resolve() Limits {
	if l.IsZero() {
		return Default()
	}
	return l
}
