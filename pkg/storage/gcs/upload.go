package gcs

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// maxUploadBytes caps decoded image uploads at 2 MiB.
const maxUploadBytes = 2 << 20

var extByContentType = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

// Upload carries a decoded image ready for the asset store.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ParseDataURL decodes a base64 data URL ("data:image/png;base64,...") into
// an upload. Only image content types are accepted.
func ParseDataURL(raw string) (*Upload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("image payload is empty")
	}

	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return nil, fmt.Errorf("image must be a data URL")
	}
	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("image data URL is malformed")
	}

	contentType, _, _ := strings.Cut(meta, ";")
	if !strings.Contains(meta, ";base64") {
		return nil, fmt.Errorf("image data URL must be base64 encoded")
	}
	ext, supported := extByContentType[contentType]
	if !supported {
		return nil, fmt.Errorf("unsupported image content type %q", contentType)
	}

	// Reject from the encoded length so oversized payloads never allocate.
	if len(encoded) > base64.StdEncoding.EncodedLen(maxUploadBytes) {
		return nil, fmt.Errorf("image exceeds %d bytes", maxUploadBytes)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image payload is empty")
	}
	if len(data) > maxUploadBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxUploadBytes)
	}

	return &Upload{
		Filename:    "image." + ext,
		ContentType: contentType,
		Data:        data,
	}, nil
}
