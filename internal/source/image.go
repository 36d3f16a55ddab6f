package source

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"
)

// ImageSize returns the pixel size of an image asset without decoding its
// pixels. src is either a data URI or a path relative to dir.
func ImageSize(dir, src string) (width, height int, err error) {
	r, closer, err := openImage(dir, src)
	if err != nil {
		return 0, 0, err
	}
	if closer != nil {
		defer closer.Close()
	}

	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", shorten(src), err)
	}
	return cfg.Width, cfg.Height, nil
}

func openImage(dir, src string) (io.Reader, io.Closer, error) {
	if strings.HasPrefix(src, "data:") {
		comma := strings.IndexByte(src, ',')
		if comma < 0 || !strings.Contains(src[:comma], ";base64") {
			return nil, nil, fmt.Errorf("unsupported data URI %s", shorten(src))
		}
		data, err := base64.StdEncoding.DecodeString(src[comma+1:])
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", shorten(src), err)
		}
		return bytes.NewReader(data), nil, nil
	}

	path := src
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func shorten(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
