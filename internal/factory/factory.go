package factory

import (
	"fmt"
	"strings"

	"github.com/anime-shed/card-inspector-go/internal/analyzer"
	apperrors "github.com/anime-shed/card-inspector-go/internal/errors"
	"github.com/anime-shed/card-inspector-go/internal/storage"
	"github.com/anime-shed/card-inspector-go/pkg/validation"
)

// AnalyzerType represents different types of quality analyzers
type AnalyzerType string

const (
	// StandardAnalyzer runs the full pixel pipeline
	StandardAnalyzer AnalyzerType = "standard"
	// HeaderOnlyAnalyzer never decodes pixels; every result is partial with neutral defaults
	HeaderOnlyAnalyzer AnalyzerType = "header-only"
)

// StorageType represents where an image reference points
type StorageType string

const (
	// HTTPStorage for http and https URLs
	HTTPStorage StorageType = "http"
	// AzureStorage for azure://container/blob references
	AzureStorage StorageType = "azure"
	// LocalStorage for local file system paths
	LocalStorage StorageType = "local"
)

const azureScheme = "azure://"

// AnalyzerFactory creates quality analyzers
type AnalyzerFactory interface {
	CreateAnalyzer(analyzerType AnalyzerType, opts ...analyzer.Option) (analyzer.QualityAnalyzer, error)
}

// SourceFactory turns image references into sources
type SourceFactory interface {
	CreateSource(ref string) (storage.ImageSource, error)
}

// analyzerFactory implements AnalyzerFactory
type analyzerFactory struct{}

// NewAnalyzerFactory creates a new analyzer factory
func NewAnalyzerFactory() AnalyzerFactory {
	return &analyzerFactory{}
}

// CreateAnalyzer creates an analyzer based on the specified type
func (f *analyzerFactory) CreateAnalyzer(analyzerType AnalyzerType, opts ...analyzer.Option) (analyzer.QualityAnalyzer, error) {
	switch analyzerType {
	case StandardAnalyzer, "":
		return analyzer.NewQualityAnalyzer(opts...), nil
	case HeaderOnlyAnalyzer:
		return analyzer.NewQualityAnalyzerWith(analyzer.NewMetadataExtractor(), headerOnlyCalculator{}, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported analyzer type: %s", analyzerType)
	}
}

// sourceFactory implements SourceFactory
type sourceFactory struct {
	fetcher   *storage.HTTPImageFetcher
	blobs     storage.BlobStorage
	validator *validation.URLValidator
}

// NewSourceFactory creates a source factory. fetcher and blobs may be nil, in
// which case references of that kind are rejected.
func NewSourceFactory(fetcher *storage.HTTPImageFetcher, blobs storage.BlobStorage, validator *validation.URLValidator) SourceFactory {
	if validator == nil {
		validator = validation.NewURLValidator()
	}
	return &sourceFactory{fetcher: fetcher, blobs: blobs, validator: validator}
}

// ResolveType classifies an image reference
func ResolveType(ref string) StorageType {
	lower := strings.ToLower(strings.TrimSpace(ref))
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return HTTPStorage
	case strings.HasPrefix(lower, azureScheme):
		return AzureStorage
	default:
		return LocalStorage
	}
}

// CreateSource creates a source for ref based on its storage type
func (f *sourceFactory) CreateSource(ref string) (storage.ImageSource, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, apperrors.NewValidationError("image reference cannot be empty", nil)
	}

	switch ResolveType(ref) {
	case HTTPStorage:
		if f.fetcher == nil {
			return nil, apperrors.NewValidationError("remote images are not enabled", nil)
		}
		if err := f.validator.ValidateImageURL(ref); err != nil {
			return nil, err
		}
		return f.fetcher.Source(ref), nil
	case AzureStorage:
		if f.blobs == nil {
			return nil, apperrors.NewValidationError("azure storage is not configured", nil)
		}
		container, blob, ok := strings.Cut(ref[len(azureScheme):], "/")
		if !ok || container == "" || blob == "" {
			return nil, apperrors.NewValidationError("azure reference must be azure://container/blob", nil).WithDetails(ref)
		}
		return storage.NewBlobSource(f.blobs, container, blob), nil
	default:
		return storage.NewFileSource(ref), nil
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	AnalyzerFactory AnalyzerFactory
	SourceFactory   SourceFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(sources SourceFactory) *ComponentFactory {
	return &ComponentFactory{
		AnalyzerFactory: NewAnalyzerFactory(),
		SourceFactory:   sources,
	}
}
