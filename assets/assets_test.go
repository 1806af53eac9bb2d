package assets

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShadersEmbedded(t *testing.T) {
	for _, name := range []string{"init.kage", "advect.kage", "plane.kage"} {
		b, err := fs.ReadFile(Shaders(), name)
		require.NoError(t, err, name)
		assert.Contains(t, string(b), "func Fragment(", name)
		assert.Contains(t, string(b), "//kage:unit pixels", name)
	}
}
