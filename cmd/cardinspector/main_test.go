package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anime-shed/card-inspector-go/internal/config"
	"github.com/anime-shed/card-inspector-go/internal/repository"
	"github.com/anime-shed/card-inspector-go/pkg/models"
)

type cliTestEnv struct {
	baseDir string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Chdir(base)
	t.Setenv(config.ConfigPathEnv, "")
	t.Setenv("DATABASE_PATH", filepath.Join(base, "cards.db"))
	t.Setenv("DEFAULT_CATEGORY", "")
	t.Setenv("ANALYZER", "")
	t.Setenv("RANDOM_SEED", "")

	return &cliTestEnv{baseDir: base}
}

func (e *cliTestEnv) writeImage(t *testing.T, name string, width, height int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 37)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(e.baseDir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeAnalyses(t *testing.T, out string) []analysisOutput {
	t.Helper()
	var analyses []analysisOutput
	require.NoError(t, json.Unmarshal([]byte(out), &analyses), out)
	return analyses
}

func TestAnalyzeSaveListShow(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeImage(t, "ferrari_f40.png", 70, 100)

	out, err := runCLI(t, "analyze", path, "--category", "car-collection", "--seed", "3", "--save")
	require.NoError(t, err)
	analyses := decodeAnalyses(t, out)
	require.Len(t, analyses, 1)

	a := analyses[0]
	assert.Equal(t, models.StateFull, a.State)
	assert.Equal(t, models.CategoryCars, a.Category)
	assert.Equal(t, "Ferrari Collection", a.Result.CardInfo.Series)
	require.NotEmpty(t, a.ID)

	out, err = runCLI(t, "list")
	require.NoError(t, err)
	var cards []repository.StoredCard
	require.NoError(t, json.Unmarshal([]byte(out), &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, a.ID, cards[0].ID)

	out, err = runCLI(t, "show", a.ID)
	require.NoError(t, err)
	var card repository.StoredCard
	require.NoError(t, json.Unmarshal([]byte(out), &card))
	assert.Equal(t, a.Result.CardInfo, card.Result.CardInfo)
	assert.Equal(t, a.Result.Story, card.Result.Story)
}

func TestAnalyzeSeedIsRepeatable(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeImage(t, "card.png", 48, 48)

	first, err := runCLI(t, "analyze", path, "--seed", "21")
	require.NoError(t, err)
	second, err := runCLI(t, "analyze", path, "--seed", "21")
	require.NoError(t, err)
	assert.JSONEq(t, first, second)
}

func TestAnalyzeMissingFileFallsBack(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, "analyze", filepath.Join(env.baseDir, "naruto.png"))
	require.NoError(t, err)
	analyses := decodeAnalyses(t, out)
	require.Len(t, analyses, 1)
	assert.Equal(t, models.StateFallback, analyses[0].State)
	assert.Equal(t, "Naruto", analyses[0].Result.CardInfo.Series)
	assert.Nil(t, analyses[0].Result.ImageQuality)
}

func TestAnalyzeRejectsInvalidReference(t *testing.T) {
	setupCLITestEnv(t)

	_, err := runCLI(t, "analyze", "http://")
	assert.Error(t, err)

	_, err = runCLI(t, "analyze")
	assert.Error(t, err)
}

func TestBatch(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeImage(t, "cards/b_goku.png", 20, 30)
	env.writeImage(t, "cards/a_luffy.png", 30, 20)
	env.writeImage(t, "cards/nested/c_naruto.png", 25, 25)
	require.NoError(t, os.WriteFile(filepath.Join(env.baseDir, "cards", "notes.txt"), []byte("skip"), 0o644))

	out, err := runCLI(t, "batch", filepath.Join(env.baseDir, "cards"), "--workers", "2", "--seed", "1")
	require.NoError(t, err)
	analyses := decodeAnalyses(t, out)
	require.Len(t, analyses, 3)
	assert.Equal(t, "a_luffy.png", analyses[0].Label)
	assert.Equal(t, "b_goku.png", analyses[1].Label)
	assert.Equal(t, "c_naruto.png", analyses[2].Label)
	for _, a := range analyses {
		assert.Equal(t, models.StateFull, a.State)
	}
}

func TestBatchEmptyDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Join(env.baseDir, "empty"), 0o755))

	_, err := runCLI(t, "batch", filepath.Join(env.baseDir, "empty"))
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	setupCLITestEnv(t)

	out, err := runCLI(t, "categories")
	require.NoError(t, err)
	var categories []categoryOutput
	require.NoError(t, json.Unmarshal([]byte(out), &categories))
	require.Len(t, categories, len(models.AllCategories()))
	assert.Equal(t, models.DefaultCategory, categories[0].Name)
	assert.True(t, categories[0].Default)
	for _, c := range categories[1:] {
		assert.False(t, c.Default)
	}
}

func TestListLimitValidation(t *testing.T) {
	setupCLITestEnv(t)

	_, err := runCLI(t, "list", "--limit", "0")
	assert.Error(t, err)

	out, err := runCLI(t, "list", "--limit", "5")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestShowUnknownCard(t *testing.T) {
	setupCLITestEnv(t)

	_, err := runCLI(t, "show", "missing-id")
	assert.Error(t, err)
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Label", "Quality"}, [][]string{{"goku.png", "88"}, {"short"}}, []columnAlignment{alignLeft, alignRight})
	assert.Contains(t, out, "Label")
	assert.Contains(t, out, "goku.png")
	assert.Contains(t, out, "88")
	assert.Empty(t, renderTable(nil, nil, nil))
}

func TestBatchSummary(t *testing.T) {
	assert.Contains(t, batchSummary(nil, 0), "Analysed 0 images")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch(t *testing.T) {
	env := setupCLITestEnv(t)
	inbox := filepath.Join(env.baseDir, "inbox")
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	source := env.writeImage(t, "goku.png", 24, 24)
	data, err := os.ReadFile(source)
	require.NoError(t, err)

	cmd := newRootCommand()
	out := &syncBuffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"watch", inbox, "--settle", "50ms", "--seed", "4"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- cmd.ExecuteContext(ctx)
	}()

	// The watcher may not be registered yet, so keep touching the file until it is seen
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "goku.png") {
		if time.Now().After(deadline) {
			t.Fatal("watched image was not analysed")
		}
		require.NoError(t, os.WriteFile(filepath.Join(inbox, "goku.png"), data, 0o644))
		time.Sleep(200 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	first := strings.SplitN(strings.TrimSpace(out.String()), "\n", 2)[0]
	var a analysisOutput
	require.NoError(t, json.Unmarshal([]byte(first), &a))
	assert.Equal(t, "goku.png", a.Label)
	assert.Equal(t, models.StateFull, a.State)
	assert.Equal(t, "Dragon Ball", a.Result.CardInfo.Series)
}

func TestParseSettle(t *testing.T) {
	d, err := parseSettle("250ms")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	for _, raw := range []string{"", "soon", "0s", "-1s"} {
		_, err := parseSettle(raw)
		assert.Error(t, err, raw)
	}
}
