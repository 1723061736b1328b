package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/anime-shed/card-inspector-go/internal/errors"
)

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Naruto_Uzumaki.png")
	if err := os.WriteFile(path, pngData, 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	src := NewFileSource(path)
	data, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Expected load to succeed: %v", err)
	}
	if data.Label != "Naruto_Uzumaki.png" {
		t.Errorf("Expected base name label, got %q", data.Label)
	}
	if data.SizeBytes != int64(len(pngData)) || len(data.Bytes) != len(pngData) {
		t.Errorf("Expected %d bytes, got size=%d len=%d", len(pngData), data.SizeBytes, len(data.Bytes))
	}
}

func TestFileSource_Unreadable(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "missing.jpg")},
		{"directory", dir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileSource(tt.path).Load(context.Background())
			if !apperrors.IsType(err, apperrors.ErrorTypeInputUnreadable) {
				t.Errorf("Expected input_unreadable error, got %v", err)
			}
		})
	}
}

func TestBytesSource(t *testing.T) {
	data, err := NewBytesSource(pngData, "upload.png").Load(context.Background())
	if err != nil {
		t.Fatalf("Expected load to succeed: %v", err)
	}
	if data.SizeBytes != int64(len(pngData)) {
		t.Errorf("Expected size %d, got %d", len(pngData), data.SizeBytes)
	}

	_, err = NewBytesSource(nil, "empty.png").Load(context.Background())
	if !apperrors.IsType(err, apperrors.ErrorTypeInputUnreadable) {
		t.Errorf("Expected input_unreadable for empty payload, got %v", err)
	}
}
