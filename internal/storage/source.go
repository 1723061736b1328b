package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/anime-shed/card-inspector-go/internal/errors"
)

// ImageData is a fully read image container plus the text label used for
// keyword matching.
type ImageData struct {
	Bytes     []byte
	Label     string
	SizeBytes int64
}

// ImageSource yields the raw bytes of one submitted image
type ImageSource interface {
	Load(ctx context.Context) (*ImageData, error)
	// Label is available even when Load fails, so a Fallback card can still be named
	Label() string
}

type fileSource struct {
	path string
}

// NewFileSource reads an image from the local filesystem
func NewFileSource(path string) ImageSource {
	return &fileSource{path: path}
}

func (s *fileSource) Label() string {
	return filepath.Base(s.path)
}

func (s *fileSource) Load(ctx context.Context) (*ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewInputUnreadableError("load cancelled", err)
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, apperrors.NewInputUnreadableError("cannot stat image", err)
	}
	if info.IsDir() {
		return nil, apperrors.NewInputUnreadableError("image path is a directory", nil).WithDetails(s.path)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, apperrors.NewInputUnreadableError("cannot read image", err)
	}
	return &ImageData{Bytes: data, Label: s.Label(), SizeBytes: info.Size()}, nil
}

type bytesSource struct {
	data  []byte
	label string
}

// NewBytesSource wraps an in-memory upload. label is usually the submitted filename.
func NewBytesSource(data []byte, label string) ImageSource {
	return &bytesSource{data: data, label: label}
}

func (s *bytesSource) Label() string {
	return s.label
}

func (s *bytesSource) Load(ctx context.Context) (*ImageData, error) {
	if len(s.data) == 0 {
		return nil, apperrors.NewInputUnreadableError("image payload is empty", nil)
	}
	return &ImageData{Bytes: s.data, Label: s.label, SizeBytes: int64(len(s.data))}, nil
}

// unreadable wraps a failure that happened after the source was built
func unreadable(op string, err error) error {
	return apperrors.NewInputUnreadableError(fmt.Sprintf("%s failed", op), err)
}
