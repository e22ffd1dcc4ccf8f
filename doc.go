/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package jbig2 implements a decoder for the JBIG2 bi-level image
// compression standard (ITU-T T.88 / ISO/IEC 14492).
//
// JBIG2 streams are organized as a sequence of segments - generic,
// refinement, symbol dictionary, text, pattern dictionary, halftone and
// page information segments among them - that a Document assembles into
// one or more page Bitmaps. Embedded formats such as PDF commonly split
// a stream into a shared "globals" segment sequence (symbol and pattern
// dictionaries reused by every page) and a per-page segment sequence;
// DecodeGlobals and DecodeBytes mirror that split.
//
// This package only decodes. Encoding JBIG2 streams is out of scope.
package jbig2
