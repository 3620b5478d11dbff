// Package assets loads the server icon once at startup and caches its
// base64 data-URL representation for the status phase to reuse.
package assets

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

// iconSize is the convention Minecraft clients expect for a server-list
// favicon: a 64x64 PNG.
const iconSize = 64

// Icon caches the loaded favicon as a ready-to-send data URL. The zero
// value has no favicon loaded.
type Icon struct {
	dataURL string
}

// Load reads path once. If the file is absent or unreadable, the Icon is
// left empty; a read failure other than a missing file is logged. Load
// never returns an error
// because IconLoadFailed is coerced to "no favicon" per spec §7.
func Load(path string) *Icon {
	if path == "" {
		return &Icon{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			zap.L().Warn("assets: failed to read server icon", zap.String("path", path), zap.Error(err))
		}
		return &Icon{}
	}

	normalized, err := normalizeSize(data)
	if err != nil {
		zap.L().Warn("assets: failed to decode server icon, using raw bytes",
			zap.String("path", path), zap.Error(err))
		normalized = data
	}

	return &Icon{dataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(normalized)}
}

// normalizeSize decodes data as a PNG and, if it isn't already 64x64,
// resizes it to the Minecraft favicon convention before re-encoding.
func normalizeSize(data []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("assets: decoding icon png: %w", err)
	}

	b := img.Bounds()
	if b.Dx() == iconSize && b.Dy() == iconSize {
		return data, nil
	}

	resized := resize.Resize(iconSize, iconSize, img, resize.Lanczos3)
	return encodePNG(resized)
}

func encodePNG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURL returns the cached "data:image/png;base64,..." string, or "" if
// no icon loaded. The Status phase omits the favicon field when this is
// empty.
func (i *Icon) DataURL() string {
	if i == nil {
		return ""
	}
	return i.dataURL
}
