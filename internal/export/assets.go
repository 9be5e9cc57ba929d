package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // decoders for DecodeConfig
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxAssetBytes bounds font and image downloads.
const maxAssetBytes = 8 << 20

// imageTypes maps image.DecodeConfig format names to fpdf image types.
var imageTypes = map[string]string{
	"jpeg": "JPG",
	"png":  "PNG",
	"gif":  "GIF",
}

func (e *Exporter) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	if len(data) > maxAssetBytes {
		return nil, fmt.Errorf("fetch %s: asset larger than %d bytes", rawURL, maxAssetBytes)
	}
	return data, nil
}

// siteImage holds a decoded-and-checked image ready for fpdf.
type siteImage struct {
	data      []byte
	imageType string
}

// loadImage fetches the site image and checks that it decodes. Relative paths
// resolve against the configured image base URL.
func (e *Exporter) loadImage(ctx context.Context, path string) (*siteImage, error) {
	if path == "" {
		return nil, errors.New("site has no image")
	}
	src, err := e.resolveImageURL(path)
	if err != nil {
		return nil, err
	}
	data, err := e.fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	typ, ok := imageTypes[format]
	if !ok {
		return nil, fmt.Errorf("decode %s: unsupported format %q", src, format)
	}
	return &siteImage{data: data, imageType: typ}, nil
}

func (e *Exporter) resolveImageURL(path string) (string, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}
	if e.imageBaseURL == "" {
		return "", fmt.Errorf("relative image %q and no IMAGE_BASE_URL", path)
	}
	base, err := url.Parse(e.imageBaseURL)
	if err != nil {
		return "", fmt.Errorf("parse IMAGE_BASE_URL: %w", err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse image path %q: %w", path, err)
	}
	return base.ResolveReference(ref).String(), nil
}
