/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package bitmap contains the bitmap data container for the
// binary images used when decoding the jbig2 encoded images.
// This package contains also binary image operational functions that do
// raster operations, add and remove borders, extract sub-regions and
// combine multiple instances into single image.
package bitmap
