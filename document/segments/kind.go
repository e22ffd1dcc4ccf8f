/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package segments

// Type defines the jbig2 segment type - see 7.3.
type Type int

// Enumerate segment type definitions.
const (
	TSymbolDictionary                         Type = 0
	TIntermediateTextRegion                   Type = 4
	TImmediateTextRegion                      Type = 6
	TImmediateLosslessTextRegion              Type = 7
	TPatternDictionary                        Type = 16
	TIntermediateHalftoneRegion               Type = 20
	TImmediateHalftoneRegion                  Type = 22
	TImmediateLosslessHalftoneRegion          Type = 23
	TIntermediateGenericRegion                Type = 36
	TImmediateGenericRegion                   Type = 38
	TImmediateLosslessGenericRegion           Type = 39
	TIntermediateGenericRefinementRegion      Type = 40
	TImmediateGenericRefinementRegion         Type = 42
	TImmediateLosslessGenericRefinementRegion Type = 43
	TPageInformation                          Type = 48
	TEndOfPage                                Type = 49
	TEndOfStrip                               Type = 50
	TEndOfFile                                Type = 51
	TProfiles                                 Type = 52
	TTables                                   Type = 53
	TExtension                                Type = 62
	TBitmap                                   Type = 70
)

// typeNames holds the human-readable name for every defined segment Type.
var typeNames = map[Type]string{
	TSymbolDictionary:                         "Symbol Dictionary",
	TIntermediateTextRegion:                   "Intermediate Text Region",
	TImmediateTextRegion:                      "Immediate Text Region",
	TImmediateLosslessTextRegion:              "Immediate Lossless Text Region",
	TPatternDictionary:                        "Pattern Dictionary",
	TIntermediateHalftoneRegion:               "Intermediate Halftone Region",
	TImmediateHalftoneRegion:                  "Immediate Halftone Region",
	TImmediateLosslessHalftoneRegion:          "Immediate Lossless Halftone Region",
	TIntermediateGenericRegion:                "Intermediate Generic Region",
	TImmediateGenericRegion:                   "Immediate Generic Region",
	TImmediateLosslessGenericRegion:           "Immediate Lossless Generic Region",
	TIntermediateGenericRefinementRegion:      "Intermediate Generic Refinement Region",
	TImmediateGenericRefinementRegion:         "Immediate Generic Refinement Region",
	TImmediateLosslessGenericRefinementRegion: "Immediate Lossless Generic Refinement Region",
	TPageInformation:                          "Page Information",
	TEndOfPage:                                "End Of Page",
	TEndOfStrip:                               "End Of Strip",
	TEndOfFile:                                "End Of File",
	TProfiles:                                 "Profiles",
	TTables:                                   "Tables",
	TExtension:                                "Extension",
	TBitmap:                                   "Bitmap",
}

// String implements Stringer interface.
func (k Type) String() string {
	if name, ok := typeNames[k]; ok {
		return name
	}
	return "Invalid Segment Kind"
}

// emptySegment is returned for segment kinds this package doesn't model with
// a dedicated Segmenter (page-sequence bookkeeping types carrying no
// decodable payload of their own).
var emptySegment Segmenter

// kindMap maps a segment Type (7.3) to a constructor for the Segmenter that
// decodes it.
var kindMap = map[Type]func() Segmenter{
	TSymbolDictionary:                         func() Segmenter { return &SymbolDictionary{} },
	TIntermediateTextRegion:                   func() Segmenter { return &TextRegion{} },
	TImmediateTextRegion:                      func() Segmenter { return &TextRegion{} },
	TImmediateLosslessTextRegion:              func() Segmenter { return &TextRegion{} },
	TPatternDictionary:                        func() Segmenter { return &PatternDictionary{} },
	TIntermediateHalftoneRegion:               func() Segmenter { return &HalftoneRegion{} },
	TImmediateHalftoneRegion:                  func() Segmenter { return &HalftoneRegion{} },
	TImmediateLosslessHalftoneRegion:          func() Segmenter { return &HalftoneRegion{} },
	TIntermediateGenericRegion:                func() Segmenter { return &GenericRegion{} },
	TImmediateGenericRegion:                   func() Segmenter { return &GenericRegion{} },
	TImmediateLosslessGenericRegion:           func() Segmenter { return &GenericRegion{} },
	TIntermediateGenericRefinementRegion:      func() Segmenter { return &GenericRefinementRegion{} },
	TImmediateGenericRefinementRegion:         func() Segmenter { return &GenericRefinementRegion{} },
	TImmediateLosslessGenericRefinementRegion: func() Segmenter { return &GenericRefinementRegion{} },
	TPageInformation:                          func() Segmenter { return &PageInformationSegment{} },
	TEndOfPage:                                func() Segmenter { return emptySegment },
	TEndOfStrip:                               func() Segmenter { return &EndOfStripe{} },
	TEndOfFile:                                func() Segmenter { return emptySegment },
	TProfiles:                                 func() Segmenter { return emptySegment },
	TTables:                                   func() Segmenter { return &TableSegment{} },
	TExtension:                                func() Segmenter { return emptySegment },
	TBitmap:                                   func() Segmenter { return emptySegment },
}
