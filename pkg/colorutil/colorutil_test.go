package colorutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLuminance(t *testing.T) {
	assert.Equal(t, uint8(0), Luminance(0, 0, 0))
	assert.Equal(t, uint8(255), Luminance(255, 255, 255))
	assert.Equal(t, uint8(100), Luminance(100, 100, 100))
	assert.Equal(t, uint8(76), Luminance(255, 0, 0))
	assert.Equal(t, uint8(150), Luminance(0, 255, 0))
	assert.Equal(t, uint8(29), Luminance(0, 0, 255))
}

func TestPaletteRoles(t *testing.T) {
	assert.Equal(t, Magenta, Detection)
	assert.Equal(t, Green, Success)
	assert.Equal(t, uint8(128), NeutralTissue.R)
	assert.Equal(t, NeutralTissue.R, NeutralTissue.B)
}
