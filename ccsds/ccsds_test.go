package ccsds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimaryHeaderSize(t *testing.T) {
	assert.Equal(t, 6, PrimaryHeaderSize())
}

func TestHasSecondaryHeader(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		// version=000, type=0, sec hdr flag=1, apid=0
		buf := []byte{0x08, 0x00, 0, 0, 0, 0}
		assert.True(t, HasSecondaryHeader(buf))
	})
	t.Run("clear", func(t *testing.T) {
		buf := []byte{0x00, 0x00, 0, 0, 0, 0}
		assert.False(t, HasSecondaryHeader(buf))
	})
	t.Run("too short", func(t *testing.T) {
		assert.False(t, HasSecondaryHeader([]byte{0x08}))
	})
}

func TestMessageID(t *testing.T) {
	// stream id 0x0881 laid out big-endian across the first two bytes
	buf := []byte{0x08, 0x81, 0, 0, 0, 0}
	id, err := MessageID(buf)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0881), id)
}

func TestMessageIDTooShort(t *testing.T) {
	_, err := MessageID([]byte{0x08})
	require.Error(t, err)
}
