package imaging

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysense-ai/sara-agent/internal/domain"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestValidate(t *testing.T) {
	format, err := Validate(pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	_, err = Validate([]byte("definitely not an image"))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "invalid image")

	_, err = Validate(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image file is required")
}

func TestSniffMIME(t *testing.T) {
	assert.Equal(t, "image/png", SniffMIME("image/png", "jpeg", "x.jpg"))
	assert.Equal(t, "image/jpeg", SniffMIME("", "jpeg", "x.jpg"))
	assert.Equal(t, "image/jpeg", SniffMIME("application/octet-stream", "jpeg", ""))
	assert.Equal(t, "image/png", SniffMIME("", "", "shot.png"))
	assert.Equal(t, "application/octet-stream", SniffMIME("", "", "noext"))
}

func TestDataURLRoundTrip(t *testing.T) {
	raw := pngBytes(t)
	url := ToDataURL(raw, "image/png")
	assert.True(t, bytes.HasPrefix([]byte(url), []byte("data:image/png;base64,")))

	mimeType, decoded, err := FromDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, raw, decoded)
}

func TestFromDataURLRejectsMalformedInput(t *testing.T) {
	_, _, err := FromDataURL("http://example.com/x.png")
	require.Error(t, err)

	_, _, err = FromDataURL("data:image/png;base64")
	require.Error(t, err)

	_, _, err = FromDataURL("data:image/png;base64,@@@")
	require.Error(t, err)
}
