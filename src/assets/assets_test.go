package assets

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal valid file headers, enough for content sniffing.
var (
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	pngHeader  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	gifHeader  = []byte("GIF89a")
	webpHeader = append([]byte("RIFF\x00\x00\x00\x00WEBPVP8 "), 0)
)

func TestValidateImage(t *testing.T) {
	t.Run("accepts the allowed formats", func(t *testing.T) {
		for _, tc := range []struct {
			content     []byte
			contentType string
			ext         string
		}{
			{jpegHeader, "image/jpeg", "jpg"},
			{pngHeader, "image/png", "png"},
			{gifHeader, "image/gif", "gif"},
			{webpHeader, "image/webp", "webp"},
		} {
			contentType, ext, err := ValidateImage(tc.content)
			require.NoError(t, err)
			assert.Equal(t, tc.contentType, contentType)
			assert.Equal(t, tc.ext, ext)
		}
	})

	t.Run("rejects empty content", func(t *testing.T) {
		_, _, err := ValidateImage(nil)
		assert.Error(t, err)
	})

	t.Run("rejects oversized content", func(t *testing.T) {
		big := make([]byte, MaxImageSize+1)
		copy(big, pngHeader)
		_, _, err := ValidateImage(big)
		assert.Error(t, err)
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		_, _, err := ValidateImage([]byte("#!/bin/sh\nrm -rf /\n"))
		assert.Error(t, err)
	})

	t.Run("sniffs content regardless of extension", func(t *testing.T) {
		// An SVG is still not allowed no matter what it is named.
		_, _, err := ValidateImage([]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
		assert.Error(t, err)
	})

	t.Run("size limit is exactly 5MB", func(t *testing.T) {
		exact := bytes.NewBuffer(nil)
		exact.Write(pngHeader)
		exact.Write(make([]byte, MaxImageSize-len(pngHeader)))
		_, _, err := ValidateImage(exact.Bytes())
		assert.NoError(t, err)
	})
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "my_cool_screenshot", sanitizeName("my cool/screenshot"))
	assert.Equal(t, "unnamed", sanitizeName(""))
}
