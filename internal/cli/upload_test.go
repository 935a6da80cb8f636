package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffContentType(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00}
	assert.Equal(t, "image/png", sniffContentType(png))

	assert.Equal(t, "application/octet-stream", sniffContentType([]byte("plain text")))
	assert.Equal(t, "application/octet-stream", sniffContentType(nil))
}
