package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PNG 文件头
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func TestValidateMimeTypeImage(t *testing.T) {
	mimeType, err := ValidateMimeType(bytes.NewReader(pngHeader), []string{MimeImage})
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
}

func TestValidateMimeTypeRejected(t *testing.T) {
	payload := []byte("#!/bin/sh\necho hello")
	_, err := ValidateMimeType(bytes.NewReader(payload), []string{MimeImage})
	assert.Error(t, err)
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("image/png"))
	assert.True(t, IsImage("image/jpeg"))
	assert.False(t, IsImage("application/pdf"))
	assert.False(t, IsImage("text/plain"))
}
