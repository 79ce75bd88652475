package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareVersions(t *testing.T) {
	t.Run("should treat a leading v as insignificant", func(t *testing.T) {
		assert.Equal(t, 0, CompareVersions("v1.2.0", "1.2.0"))
	})

	t.Run("should compare segments numerically, not lexically", func(t *testing.T) {
		assert.Equal(t, -1, CompareVersions("1.9.0", "1.10.0"))
		assert.Equal(t, 1, CompareVersions("1.10.0", "1.9.0"))
	})

	t.Run("should treat missing segments as zero", func(t *testing.T) {
		assert.Equal(t, 0, CompareVersions("1.2", "1.2.0"))
		assert.Equal(t, -1, CompareVersions("1.2", "1.2.1"))
	})

	t.Run("should treat non-numeric segments as zero", func(t *testing.T) {
		assert.Equal(t, 0, CompareVersions("1.2.3-rc1", "1.2.3"))
		assert.Equal(t, 0, CompareVersions("abc", "0"))
	})

	t.Run("should strip a leading equals sign", func(t *testing.T) {
		assert.Equal(t, 0, CompareVersions("=1.0.0", "1.0.0"))
	})

	t.Run("should order plain upgrades", func(t *testing.T) {
		assert.Equal(t, 1, CompareVersions("2.0.0", "1.9.9"))
		assert.Equal(t, -1, CompareVersions("0.1.0", "0.2.0"))
	})
}
