/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package bitmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBlit tests the Blit function for the multiple CombinationOperators.
func TestBlit(t *testing.T) {
	t.Run("Unshifted", func(t *testing.T) {
		t.Run("SourceEqualSize", func(t *testing.T) {
			// Test Blit when the bytes are at their 0th position.
			t.Run("OR", func(t *testing.T) {
				dst := New(25, 25)
				src := New(25, 25)

				require.NoError(t, src.SetPixel(2, 2, 1))
				require.NoError(t, dst.SetPixel(3, 3, 1))
				op := CmbOpOr

				require.NoError(t, Blit(src, dst, 0, 0, op))

				// both value should be true at (2,2) and (3,3)
				assert.True(t, dst.GetPixel(2, 2))
				assert.True(t, dst.GetPixel(3, 3))
			})

			t.Run("AND", func(t *testing.T) {
				dst := New(25, 25)
				src := New(25, 25)

				require.NoError(t, src.SetPixel(3, 3, 1))
				require.NoError(t, src.SetPixel(2, 2, 1))
				require.NoError(t, dst.SetPixel(3, 3, 1))
				require.NoError(t, dst.SetPixel(4, 4, 1))
				op := CmbOpAnd

				require.NoError(t, Blit(src, dst, 0, 0, op))

				// only (3,3) is set in both bitmaps
				assert.True(t, dst.GetPixel(3, 3))
				assert.False(t, dst.GetPixel(2, 2))
				assert.False(t, dst.GetPixel(4, 4))
			})

			t.Run("XOR", func(t *testing.T) {
				dst := New(25, 25)
				src := New(25, 25)

				require.NoError(t, src.SetPixel(3, 3, 1))
				require.NoError(t, src.SetPixel(2, 2, 1))
				require.NoError(t, dst.SetPixel(3, 3, 1))
				require.NoError(t, dst.SetPixel(4, 4, 1))
				op := CmbOpXor

				require.NoError(t, Blit(src, dst, 0, 0, op))

				// (3,3) is set in both and cancels; (2,2) and (4,4) are set in one
				assert.False(t, dst.GetPixel(3, 3))
				assert.True(t, dst.GetPixel(2, 2))
				assert.True(t, dst.GetPixel(4, 4))
			})

			t.Run("XNOR", func(t *testing.T) {
				dst := New(25, 25)
				src := New(25, 25)

				require.NoError(t, src.SetPixel(3, 3, 1))
				require.NoError(t, src.SetPixel(2, 2, 1))
				require.NoError(t, dst.SetPixel(3, 3, 1))
				require.NoError(t, dst.SetPixel(4, 4, 1))
				op := CmbOpXNor

				require.NoError(t, Blit(src, dst, 0, 0, op))

				// pixels equal in both bitmaps ((3,3) and (5,5)) become 1
				assert.True(t, dst.GetPixel(3, 3))
				assert.False(t, dst.GetPixel(2, 2))
				assert.False(t, dst.GetPixel(4, 4))
				assert.True(t, dst.GetPixel(5, 5))
			})

			t.Run("Replace", func(t *testing.T) {
				dst := New(25, 25)
				src := New(25, 25)

				require.NoError(t, src.SetPixel(3, 3, 1))
				require.NoError(t, src.SetPixel(2, 2, 1))
				require.NoError(t, dst.SetPixel(3, 3, 1))
				require.NoError(t, dst.SetPixel(4, 4, 1))
				op := CmbOpReplace

				require.NoError(t, Blit(src, dst, 0, 0, op))

				// dst takes the source pixels: (2,2) and (3,3) set, (4,4) cleared
				assert.True(t, dst.GetPixel(3, 3))
				assert.True(t, dst.GetPixel(2, 2))
				assert.False(t, dst.GetPixel(4, 4))
				assert.False(t, dst.GetPixel(5, 5))
			})

			t.Run("NOT", func(t *testing.T) {
				dst := New(25, 25)
				src := New(25, 25)

				require.NoError(t, src.SetPixel(3, 3, 1))
				require.NoError(t, src.SetPixel(2, 2, 1))
				require.NoError(t, dst.SetPixel(3, 3, 1))
				require.NoError(t, dst.SetPixel(4, 4, 1))
				op := CmbOpNot

				require.NoError(t, Blit(src, dst, 0, 0, op))

				// dst takes the complement of the source pixels
				assert.False(t, dst.GetPixel(3, 3))
				assert.False(t, dst.GetPixel(2, 2))
				assert.True(t, dst.GetPixel(4, 4))
				assert.True(t, dst.GetPixel(5, 5))
			})
		})

		t.Run("SourceSmallerSize", func(t *testing.T) {
			// Test Blit when the bytes are at their 0th position.
			dst := New(25, 25)
			src := New(5, 5)

			require.NoError(t, src.SetPixel(2, 2, 1))
			require.NoError(t, dst.SetPixel(3, 3, 1))
			op := CmbOpOr

			require.NoError(t, Blit(src, dst, 0, 0, op))

			// both value should be true at (2,2) and (3,3).
			assert.True(t, dst.GetPixel(2, 2))
			assert.True(t, dst.GetPixel(3, 3))
		})
	})

	t.Run("Shifted", func(t *testing.T) {
		t.Run("SourceEqualSize", func(t *testing.T) {
			// Test Blit when the source is shifted by (1,1).
			dst := New(25, 25)
			src := New(25, 25)

			require.NoError(t, src.SetPixel(2, 2, 1))
			require.NoError(t, dst.SetPixel(5, 5, 1))
			op := CmbOpOr

			require.NoError(t, Blit(src, dst, 1, 1, op))

			// the source (2,2) lands at (3,3); (5,5) stays set
			assert.True(t, dst.GetPixel(3, 3))
			assert.True(t, dst.GetPixel(5, 5), dst.String())
		})
	})

	t.Run("SpecialShifted", func(t *testing.T) {
		// Test Blit of a smaller source shifted by (1,1).
		dst := New(25, 25)
		src := New(5, 5)

		require.NoError(t, src.SetPixel(2, 2, 1))
		require.NoError(t, dst.SetPixel(5, 5, 1))
		op := CmbOpOr

		require.NoError(t, Blit(src, dst, 1, 1, op))

		// the source (2,2) lands at (3,3); (5,5) stays set
		assert.True(t, dst.GetPixel(3, 3))
		assert.True(t, dst.GetPixel(5, 5), dst.String())
	})
}

// TestBlitAlgebra verifies the combination operator identities region
// compositing relies on.
func TestBlitAlgebra(t *testing.T) {
	newPair := func(t *testing.T) (src, dst *Bitmap) {
		t.Helper()
		src = New(13, 7)
		dst = New(13, 7)
		for _, p := range [][2]int{{0, 0}, {5, 3}, {12, 6}, {8, 1}} {
			require.NoError(t, src.SetPixel(p[0], p[1], 1))
		}
		require.NoError(t, dst.SetPixel(5, 3, 1))
		require.NoError(t, dst.SetPixel(2, 2, 1))
		return src, dst
	}

	t.Run("XorTwiceRestores", func(t *testing.T) {
		src, dst := newPair(t)
		original := dst.Copy()

		require.NoError(t, Blit(src, dst, 0, 0, CmbOpXor))
		require.NoError(t, Blit(src, dst, 0, 0, CmbOpXor))

		assert.True(t, original.Equals(dst))
	})

	t.Run("OrOntoZeroEqualsReplace", func(t *testing.T) {
		src, _ := newPair(t)
		orDst := New(13, 7)
		replaceDst := New(13, 7)

		require.NoError(t, Blit(src, orDst, 0, 0, CmbOpOr))
		require.NoError(t, Blit(src, replaceDst, 0, 0, CmbOpReplace))

		assert.True(t, orDst.Equals(replaceDst))
	})

	t.Run("ReplaceIdempotent", func(t *testing.T) {
		src, dst := newPair(t)

		require.NoError(t, Blit(src, dst, 0, 0, CmbOpReplace))
		once := dst.Copy()
		require.NoError(t, Blit(src, dst, 0, 0, CmbOpReplace))

		assert.True(t, once.Equals(dst))
	})
}
