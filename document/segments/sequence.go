/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package segments

// OrganizationType tells the decoder whether segment headers and data are
// interleaved (sequential) or grouped into two separate passes (random),
// per Annex D.4.2 - file header bit 0 carries this flag for embedded streams.
type OrganizationType uint8

const (
	ORandom OrganizationType = iota
	OSequential
)
