package gcs

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURL(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))

	upload, err := ParseDataURL("data:image/png;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, "image.png", upload.Filename)
	assert.Equal(t, "image/png", upload.ContentType)
	assert.Equal(t, []byte("fake-png-bytes"), upload.Data)
}

func TestParseDataURLRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"not a data url":   "https://example.com/a.png",
		"missing comma":    "data:image/png;base64",
		"not base64 coded": "data:image/png,plainbytes",
		"unsupported type": "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("x")),
		"invalid base64":   "data:image/png;base64,!!!",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDataURL(input)
			require.Error(t, err)
		})
	}
}

func TestParseDataURLRejectsOversizedPayloadBeforeDecoding(t *testing.T) {
	// One base64 quantum past the cap. The string is never valid base64, so a
	// decode error instead of the size error would mean we decoded first.
	encoded := strings.Repeat("!", base64.StdEncoding.EncodedLen(maxUploadBytes)+4)

	_, err := ParseDataURL("data:image/png;base64," + encoded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestParseDataURLAcceptsPayloadAtCap(t *testing.T) {
	payload := make([]byte, maxUploadBytes)
	encoded := base64.StdEncoding.EncodeToString(payload)

	upload, err := ParseDataURL("data:image/jpeg;base64," + encoded)
	require.NoError(t, err)
	assert.Len(t, upload.Data, maxUploadBytes)
}
