package factory

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anime-shed/card-inspector-go/internal/analyzer"
	apperrors "github.com/anime-shed/card-inspector-go/internal/errors"
	"github.com/anime-shed/card-inspector-go/internal/storage"
)

type fakeBlobs struct{}

func (fakeBlobs) Download(ctx context.Context, container, blob string) ([]byte, error) {
	return nil, errors.New("offline")
}

func (f fakeBlobs) Source(container, blob string) storage.ImageSource {
	return storage.NewBlobSource(f, container, blob)
}

func TestResolveType(t *testing.T) {
	assert.Equal(t, HTTPStorage, ResolveType("https://example.com/a.png"))
	assert.Equal(t, HTTPStorage, ResolveType("HTTP://example.com/a.png"))
	assert.Equal(t, AzureStorage, ResolveType("azure://cards/2024/goku.png"))
	assert.Equal(t, LocalStorage, ResolveType("./cards/goku.png"))
	assert.Equal(t, LocalStorage, ResolveType("/abs/path.jpg"))
}

func TestCreateAnalyzer(t *testing.T) {
	f := NewAnalyzerFactory()
	for _, typ := range []AnalyzerType{StandardAnalyzer, HeaderOnlyAnalyzer, ""} {
		a, err := f.CreateAnalyzer(typ)
		require.NoError(t, err)
		assert.NotNil(t, a)
	}
	_, err := f.CreateAnalyzer("ocr")
	assert.Error(t, err)
}

func TestHeaderOnlyAnalyzerIsPartial(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 5), uint8(y * 5), 90, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	data := buf.Bytes()

	qa, err := NewAnalyzerFactory().CreateAnalyzer(HeaderOnlyAnalyzer)
	require.NoError(t, err)

	// A truncated body still works: the header-only analyzer never decodes pixels
	for _, payload := range [][]byte{data, data[:len(data)/2]} {
		report, err := qa.Analyze(payload, 0)
		require.NoError(t, err)
		assert.True(t, report.Partial())
		require.Len(t, report.Degraded, 2)
		for _, d := range report.Degraded {
			assert.True(t, apperrors.IsType(d, apperrors.ErrorTypeMetricDegraded), "got %v", d)
		}
		assert.Equal(t, analyzer.DefaultMetricScore, report.Metrics.Quality.SharpnessScore)
		assert.Equal(t, uint(50), report.Metrics.Resolution.Width)
	}
}

func TestCreateAnalyzerPassesOptions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 20, 20))))

	qa, err := NewAnalyzerFactory().CreateAnalyzer(StandardAnalyzer, analyzer.WithMaxPixels(100))
	require.NoError(t, err)
	report, err := qa.Analyze(buf.Bytes(), 0)
	require.NoError(t, err)
	assert.Len(t, report.Degraded, 2)
}

func TestCreateSource(t *testing.T) {
	fetcher := storage.NewHTTPImageFetcher(time.Second, 1<<20)
	f := NewSourceFactory(fetcher, fakeBlobs{}, nil)

	src, err := f.CreateSource("https://example.com/cards/ferrari.jpg")
	require.NoError(t, err)
	assert.Equal(t, "ferrari.jpg", src.Label())

	src, err = f.CreateSource("azure://cards/sets/2024/pikachu.png")
	require.NoError(t, err)
	assert.Equal(t, "pikachu.png", src.Label())

	src, err = f.CreateSource("/tmp/cards/naruto.png")
	require.NoError(t, err)
	assert.Equal(t, "naruto.png", src.Label())
}

func TestCreateSourceRejections(t *testing.T) {
	bare := NewSourceFactory(nil, nil, nil)
	withAll := NewSourceFactory(storage.NewHTTPImageFetcher(time.Second, 1<<20), fakeBlobs{}, nil)

	cases := []struct {
		name string
		f    SourceFactory
		ref  string
	}{
		{"empty", withAll, "  "},
		{"http disabled", bare, "https://example.com/a.png"},
		{"azure disabled", bare, "azure://c/b.png"},
		{"azure without blob", withAll, "azure://cards"},
		{"azure empty container", withAll, "azure:///b.png"},
		{"bad url host", withAll, "http:///nohost.png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.f.CreateSource(tc.ref)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), "got %v", err)
		})
	}
}

func TestNewComponentFactory(t *testing.T) {
	sources := NewSourceFactory(nil, nil, nil)
	cf := NewComponentFactory(sources)
	assert.NotNil(t, cf.AnalyzerFactory)
	assert.Equal(t, sources, cf.SourceFactory)
}
