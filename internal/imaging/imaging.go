// Package imaging validates uploaded image bytes and converts them to the
// data-URL form the agent runner expects.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"path/filepath"

	"github.com/skysense-ai/sara-agent/internal/domain"
)

// Validate decodes the bytes as an image and returns the detected format
// ("png", "jpeg", "gif"). Anything that does not decode is rejected.
func Validate(data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.NewValidationError("image file is required")
	}
	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", domain.NewValidationError("invalid image")
	}
	return format, nil
}

// SniffMIME picks a MIME type for the upload: the declared content type when
// present, otherwise the decoded format, otherwise the filename extension.
func SniffMIME(declared, format, filename string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if format != "" {
		return "image/" + format
	}
	if ext := filepath.Ext(filename); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	return "application/octet-stream"
}

// ToDataURL encodes binary data as a base64 data URL.
func ToDataURL(data []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// FromDataURL splits a data URL back into MIME type and raw bytes.
func FromDataURL(url string) (string, []byte, error) {
	const prefix = "data:"
	if len(url) < len(prefix) || url[:len(prefix)] != prefix {
		return "", nil, fmt.Errorf("not a data URL")
	}
	rest := url[len(prefix):]
	sep := bytes.IndexByte([]byte(rest), ',')
	if sep < 0 {
		return "", nil, fmt.Errorf("malformed data URL")
	}
	meta, payload := rest[:sep], rest[sep+1:]
	mimeType := meta
	if i := bytes.IndexByte([]byte(meta), ';'); i >= 0 {
		mimeType = meta[:i]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decoding data URL payload: %w", err)
	}
	return mimeType, raw, nil
}
