/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package reader provides the stream readers used by the jbig2
// segments decoder. It defines the StreamReader interface that
// allows to read bit, bits, byte, bytes, integers change and get the stream
// position, align the bits.
package reader
