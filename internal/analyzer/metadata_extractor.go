package analyzer

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	apperrors "github.com/anime-shed/card-inspector-go/internal/errors"
	"github.com/anime-shed/card-inspector-go/pkg/models"
)

type metadataExtractor struct{}

// NewMetadataExtractor creates an extractor that reads only the image header
func NewMetadataExtractor() MetadataExtractor {
	return &metadataExtractor{}
}

// Extract returns resolution and file facts. Any failure to open the container
// is an input_unreadable error.
func (me *metadataExtractor) Extract(data []byte, sizeBytes int64) (ContainerInfo, error) {
	if len(data) == 0 {
		return ContainerInfo{}, apperrors.NewInputUnreadableError("image is empty", nil)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ContainerInfo{}, apperrors.NewInputUnreadableError("cannot open image container", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return ContainerInfo{}, apperrors.NewInputUnreadableError("image has no pixels", nil)
	}
	resolution, err := models.NewResolution(uint(cfg.Width), uint(cfg.Height))
	if err != nil {
		return ContainerInfo{}, apperrors.NewInputUnreadableError("invalid dimensions", err)
	}
	if sizeBytes <= 0 {
		sizeBytes = int64(len(data))
	}

	return ContainerInfo{
		Resolution: resolution,
		FileInfo:   models.NewFileInfo(uint(sizeBytes), format, readDensity(format, data)),
	}, nil
}
