package media

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/featured"
)

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestProcessBase64Image(t *testing.T) {
	dir := t.TempDir()
	p := NewImageProcessor(dir, "/media/", 150, 0)

	stored, err := p.ProcessBase64Image(pngDataURL(t, 320, 200), "Sunset Beach.png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored.Filename, "sunset-beach-"))
	assert.True(t, strings.HasPrefix(stored.URL, "/media/images/"))
	assert.True(t, strings.HasPrefix(stored.ThumbURL, "/media/thumbs/"))
	assert.FileExists(t, stored.Path)

	thumbPath := filepath.Join(dir, "thumbs", filepath.Base(stored.ThumbURL))
	assert.FileExists(t, thumbPath)

	require.NoError(t, p.Delete(stored.URL, stored.ThumbURL))
	_, err = os.Stat(stored.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestProcessBase64ImageRejects(t *testing.T) {
	p := NewImageProcessor(t.TempDir(), "/media", 150, 16)

	_, err := p.ProcessBase64Image("not a data url", "x")
	assert.ErrorIs(t, err, featured.ErrUnsupportedImage)

	_, err = p.ProcessBase64Image("data:image/svg+xml;base64,PHN2Zy8+", "x")
	assert.ErrorIs(t, err, featured.ErrUnsupportedImage)

	_, err = p.ProcessBase64Image(pngDataURL(t, 10, 10), "x")
	assert.ErrorIs(t, err, featured.ErrUnsupportedImage)
}
