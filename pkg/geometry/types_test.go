package geometry

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionCoversLength(t *testing.T) {
	for length := 0; length <= 97; length++ {
		for _, n := range []int{1, 2, 3, 7, 8, 10} {
			bands := Partition(length, n)
			require.Len(t, bands, n)

			q := length / n
			next := 0
			for i, b := range bands {
				require.Equal(t, next, b.Start, "band %d of %d/%d not contiguous", i, length, n)
				assert.Contains(t, []int{q, q + 1}, b.Len(), "band %d of %d/%d", i, length, n)
				if i > 0 {
					assert.LessOrEqual(t, b.Len(), bands[i-1].Len(), "larger bands must come first")
				}
				next = b.End
			}
			assert.Equal(t, length, next)
		}
	}
}

func TestPartitionKnownSplits(t *testing.T) {
	cases := []struct {
		length, n int
		want      []Band
	}{
		{10, 3, []Band{{0, 4}, {4, 7}, {7, 10}}},
		{159, 8, []Band{{0, 20}, {20, 40}, {40, 60}, {60, 80}, {80, 100}, {100, 120}, {120, 140}, {140, 159}}},
		{4, 4, []Band{{0, 1}, {1, 2}, {2, 3}, {3, 4}}},
		{2, 4, []Band{{0, 1}, {1, 2}, {2, 2}, {2, 2}}},
	}
	for _, c := range cases {
		if diff := cmp.Diff(c.want, Partition(c.length, c.n)); diff != "" {
			t.Errorf("Partition(%d, %d) mismatch (-want +got):\n%s", c.length, c.n, diff)
		}
	}
}

func TestPartitionRejectsBadInput(t *testing.T) {
	assert.Nil(t, Partition(10, 0))
	assert.Nil(t, Partition(-1, 3))
}

func TestBoundingBox(t *testing.T) {
	b := NewBoundingBox(2, 3, 12, 8)
	assert.Equal(t, 10, b.Dx())
	assert.Equal(t, 5, b.Dy())
	assert.False(t, b.Empty())
	assert.False(t, b.Inverted())
	assert.True(t, b.Within(12, 8))
	assert.False(t, b.Within(11, 8))
	assert.Equal(t, image.Rect(2, 3, 12, 8), b.Rect())
	assert.Equal(t, "(2,3)-(12,8)", b.String())

	inv := NewBoundingBox(5, 0, 4, 10)
	assert.True(t, inv.Inverted())
	assert.True(t, inv.Empty())

	assert.Equal(t, BoundingBox{0, 0, 200, 160}, FullBox(200, 160))
}
