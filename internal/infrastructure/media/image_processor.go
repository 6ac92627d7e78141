// Package media stores uploaded images and their picker thumbnails
package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/featured"
)

var dataURLPattern = regexp.MustCompile(`^data:image/([a-zA-Z0-9.+-]+);base64,`)

var extensions = map[string]string{
	"png":  "png",
	"jpeg": "jpg",
	"jpg":  "jpg",
	"gif":  "gif",
	"webp": "webp",
}

// StoredImage describes an original and its thumbnail after upload
type StoredImage struct {
	Filename string
	Path     string
	URL      string
	ThumbURL string
}

// ImageProcessor writes uploads under basePath and serves them from urlPrefix
type ImageProcessor struct {
	basePath  string
	urlPrefix string
	thumbSize int
	maxBytes  int
}

func NewImageProcessor(basePath, urlPrefix string, thumbSize, maxBytes int) *ImageProcessor {
	return &ImageProcessor{
		basePath:  basePath,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		thumbSize: thumbSize,
		maxBytes:  maxBytes,
	}
}

// ProcessBase64Image saves a data URL upload and a square WebP thumbnail
func (p *ImageProcessor) ProcessBase64Image(data, baseName string) (*StoredImage, error) {
	match := dataURLPattern.FindStringSubmatch(data)
	if match == nil {
		return nil, fmt.Errorf("%w: expected a base64 image data URL", featured.ErrUnsupportedImage)
	}
	ext, ok := extensions[strings.ToLower(match[1])]
	if !ok {
		return nil, fmt.Errorf("%w: %s", featured.ErrUnsupportedImage, match[1])
	}

	decoded, err := base64.StdEncoding.DecodeString(data[len(match[0]):])
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	if p.maxBytes > 0 && len(decoded) > p.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", featured.ErrUnsupportedImage, len(decoded), p.maxBytes)
	}

	img, err := imaging.Decode(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", featured.ErrUnsupportedImage, err)
	}

	imagesDir := filepath.Join(p.basePath, "images")
	thumbsDir := filepath.Join(p.basePath, "thumbs")
	for _, dir := range []string{imagesDir, thumbsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	stem := fmt.Sprintf("%s-%d", slugify(baseName), time.Now().UnixMilli())
	filename := stem + "." + ext
	originalPath := filepath.Join(imagesDir, filename)
	if err := os.WriteFile(originalPath, decoded, 0644); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}

	thumbName := fmt.Sprintf("%s_%dpx.webp", stem, p.thumbSize)
	thumb := imaging.Fill(img, p.thumbSize, p.thumbSize, imaging.Center, imaging.Lanczos)
	if err := webp.Save(filepath.Join(thumbsDir, thumbName), thumb, &webp.Options{Quality: 85}); err != nil {
		os.Remove(originalPath)
		return nil, fmt.Errorf("failed to save WebP thumbnail: %w", err)
	}

	return &StoredImage{
		Filename: filename,
		Path:     originalPath,
		URL:      path.Join(p.urlPrefix, "images", filename),
		ThumbURL: path.Join(p.urlPrefix, "thumbs", thumbName),
	}, nil
}

// Delete removes the files behind a stored image's URLs. Missing files are ignored.
func (p *ImageProcessor) Delete(urls ...string) error {
	for _, u := range urls {
		if u == "" || !strings.HasPrefix(u, p.urlPrefix+"/") {
			continue
		}
		rel := filepath.FromSlash(strings.TrimPrefix(u, p.urlPrefix+"/"))
		if err := os.Remove(filepath.Join(p.basePath, rel)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", u, err)
		}
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		return "image"
	}
	return slug
}
