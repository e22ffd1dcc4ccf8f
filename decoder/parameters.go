/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package decoder

import (
	"github.com/lxman/jbig2/bitmap"
	"github.com/lxman/jbig2/limits"
)

// Parameters are the paramters used by the jbig2 decoder.
type Parameters struct {
	UnpaddedData bool
	Color        bitmap.Color
	// Limits bounds the resources the decode may consume. The zero value
	// resolves to limits.Default().
	Limits limits.Limits
}
