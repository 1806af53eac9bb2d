package config

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) *Config {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c := Bind(fs)
	require.NoError(t, fs.Parse(args))
	return c
}

func TestDefaultsAreValid(t *testing.T) {
	c := parse(t)
	assert.NoError(t, c.Validate())
	assert.Equal(t, 256, c.Size)
	assert.Equal(t, BackendGPU, c.Backend)
	assert.Equal(t, 0, c.Retries)
	assert.Empty(t, c.Shaders)
}

func TestFlagsOverride(t *testing.T) {
	c := parse(t, "-size", "128", "-backend", "cpu", "-shaders", "http://localhost/assets/shaders/", "-retries", "2", "-debug")
	require.NoError(t, c.Validate())
	assert.Equal(t, 128, c.Size)
	assert.Equal(t, BackendCPU, c.Backend)
	assert.Equal(t, "http://localhost/assets/shaders/", c.Shaders)
	assert.Equal(t, 2, c.Retries)
	assert.True(t, c.Debug)
}

func TestValidateCollectsErrors(t *testing.T) {
	c := parse(t, "-size", "0", "-backend", "vulkan", "-decay", "1.5", "-log-level", "loud")
	err := c.Validate()
	require.Error(t, err)
	for _, want := range []string{"size 0", `backend "vulkan"`, "decay 1.5", `log level "loud"`} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestSegmentsMatchingBufferSize(t *testing.T) {
	c := parse(t, "-segments", "256")
	require.NoError(t, c.Validate())
	assert.Equal(t, c.Size, c.Segments)
	assert.Equal(t, 64, Default().Segments)
}
