/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package jbig2

import (
	"github.com/lxman/jbig2/decoder"
	"github.com/lxman/jbig2/document"
	"github.com/lxman/jbig2/errors"
	"github.com/lxman/jbig2/limits"
	"github.com/lxman/jbig2/reader"
)

// Globals is the decoded form of a "globals" segment stream - the symbol
// and pattern dictionaries an embedding format (e.g. PDF) stores once and
// shares across every page of a document.
type Globals = document.Globals

// Parameters configures how a decoded page bitmap is returned.
type Parameters = decoder.Parameters

// DecodeBytes decodes a single jbig2 encoded page from 'encoded', using the
// optional 'globals' segments decoded previously with DecodeGlobals.
// The returned slice holds the page bitmap packed 1 bit per pixel,
// MSB-first, row stride padded to a whole byte - or unpadded when
// parameters.UnpaddedData is set.
func DecodeBytes(encoded []byte, parameters Parameters, globals ...Globals) ([]byte, error) {
	const processName = "DecodeBytes"

	dec, err := decoder.Decode(encoded, parameters, globals...)
	if err != nil {
		return nil, errors.Wrap(err, processName, "")
	}
	return dec.DecodeNextPage()
}

// DecodePage decodes the jbig2 page numbered 'pageNumber' (1-indexed) out
// of a multi-page 'encoded' stream.
func DecodePage(pageNumber int, encoded []byte, parameters Parameters, globals ...Globals) ([]byte, error) {
	const processName = "DecodePage"

	dec, err := decoder.Decode(encoded, parameters, globals...)
	if err != nil {
		return nil, errors.Wrap(err, processName, "")
	}
	return dec.DecodePage(pageNumber)
}

// DecodeGlobals decodes a standalone jbig2 "globals" segment stream - one
// carrying no page association - and returns it ready to pass into
// DecodeBytes/DecodePage for every page that references it. Equivalent to
// DecodeGlobalsWithLimits(encoded, limits.Default()).
func DecodeGlobals(encoded []byte) (Globals, error) {
	return DecodeGlobalsWithLimits(encoded, limits.Default())
}

// DecodeGlobalsWithLimits is DecodeGlobals with an explicit resource ceiling,
// for callers decoding globals segments from untrusted input.
func DecodeGlobalsWithLimits(encoded []byte, lim limits.Limits) (Globals, error) {
	const processName = "DecodeGlobalsWithLimits"

	doc, err := document.DecodeDocumentWithLimits(reader.New(encoded), lim)
	if err != nil {
		return nil, errors.Wrap(err, processName, "")
	}

	if len(doc.GlobalSegments) == 0 {
		return nil, errors.Error(processName, "no global segments found")
	}
	return doc.GlobalSegments, nil
}
