package columns

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCompare(t *testing.T) {
	t.Run("should compare numbers numerically", func(t *testing.T) {
		assert.Equal(t, -1, DefaultCompare(9, 10))
		assert.Equal(t, -1, DefaultCompare("9", "10"))
		assert.Equal(t, 1, DefaultCompare(2.5, "1e0"))
		assert.Equal(t, 0, DefaultCompare(int64(3), float32(3)))
	})

	t.Run("should compare text lexicographically", func(t *testing.T) {
		assert.Equal(t, -1, DefaultCompare("BRAF", "KRAS"))
		assert.Equal(t, 1, DefaultCompare("V600E", "G12D"))
		assert.Equal(t, 0, DefaultCompare("TP53", "TP53"))
		assert.Equal(t, -1, DefaultCompare(nil, "a"))
	})

	t.Run("should put numbers before text", func(t *testing.T) {
		assert.Equal(t, -1, DefaultCompare("10", "1a"))
		assert.Equal(t, 1, DefaultCompare("NaN", 3))
	})

	t.Run("should treat only plain decimals as numbers", func(t *testing.T) {
		for _, text := range []string{"inf", "-Inf", "Infinity", "0x1p-2", "1_000", "1e999"} {
			assert.Equal(t, 1, DefaultCompare(text, 1e300), text)
			assert.Equal(t, -1, DefaultCompare(-5, text), text)
		}
		assert.Equal(t, -1, DefaultCompare("Infinity", "inf"))

		for _, text := range []string{" 42 ", "+3", "-.5", "7.", "1E3"} {
			_, ok := asNumber(text)
			assert.True(t, ok, text)
		}
	})

	t.Run("should be a total order on mixed values", func(t *testing.T) {
		values := []interface{}{"1a", "10", "9", "b", 3, "", nil, 2.5, "NaN"}
		sort.SliceStable(values, func(i, j int) bool {
			return DefaultCompare(values[i], values[j]) < 0
		})

		for i := 0; i < len(values); i++ {
			for j := i + 1; j < len(values); j++ {
				assert.LessOrEqual(t, DefaultCompare(values[i], values[j]), 0, "%v vs %v", values[i], values[j])
			}
		}
		assert.Equal(t, 2.5, values[0])
	})
}

func TestText(t *testing.T) {
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "42", Text(42))
	assert.Equal(t, "V600E", Text("V600E"))
}
