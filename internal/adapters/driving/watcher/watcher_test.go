package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/core/ports/driving"
)

// fakeIngester records ingested files.
type fakeIngester struct {
	mu        sync.Mutex
	ingested  []driven.RawFile
	ingestErr error
}

func (f *fakeIngester) Ingest(
	_ context.Context, file driven.RawFile, _ driving.ProgressFunc,
) (*domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ingestErr != nil {
		return nil, f.ingestErr
	}
	f.ingested = append(f.ingested, file)
	return &domain.Document{ID: "doc-" + file.Name, Name: file.Name}, nil
}

func (f *fakeIngester) IngestAll(
	ctx context.Context, files []driven.RawFile, onProgress driving.ProgressFunc,
) []driving.BatchItem {
	items := make([]driving.BatchItem, 0, len(files))
	for _, file := range files {
		doc, err := f.Ingest(ctx, file, onProgress)
		items = append(items, driving.BatchItem{FileName: file.Name, Document: doc, Err: err})
	}
	return items
}

func (f *fakeIngester) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.ingested))
	for _, file := range f.ingested {
		names = append(names, file.Name)
	}
	return names
}

func TestNew_RejectsMissingDirectory(t *testing.T) {
	_, err := New(&fakeIngester{}, "/nonexistent/path", []string{"txt"})

	assert.Error(t, err)
}

func TestNew_RejectsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))

	_, err := New(&fakeIngester{}, path, []string{"txt"})

	assert.ErrorContains(t, err, "not a directory")
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"notes.txt", false},
		{"/home/user/docs/report.pdf", false},
		{".hidden.txt", true},
		{"/home/user/.config/file.txt", true},
		{".config/.cache/data", true},
		{"./relative/file.txt", false},
		{"../parent/file.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}

func TestShouldIngest(t *testing.T) {
	dir := t.TempDir()

	txtPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("content"), 0600))
	exePath := filepath.Join(dir, "tool.exe")
	require.NoError(t, os.WriteFile(exePath, []byte{0x4d, 0x5a}, 0600))
	hiddenPath := filepath.Join(dir, ".draft.txt")
	require.NoError(t, os.WriteFile(hiddenPath, []byte("wip"), 0600))
	subdir := filepath.Join(dir, "nested.txt")
	require.NoError(t, os.Mkdir(subdir, 0700))

	w, err := New(&fakeIngester{}, dir, []string{"txt", "pdf"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"create supported file", fsnotify.Event{Name: txtPath, Op: fsnotify.Create}, true},
		{"write supported file", fsnotify.Event{Name: txtPath, Op: fsnotify.Write}, true},
		{"combined write and chmod", fsnotify.Event{Name: txtPath, Op: fsnotify.Write | fsnotify.Chmod}, true},
		{"chmod only", fsnotify.Event{Name: txtPath, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: txtPath, Op: fsnotify.Remove}, false},
		{"rename", fsnotify.Event{Name: txtPath, Op: fsnotify.Rename}, false},
		{"unsupported extension", fsnotify.Event{Name: exePath, Op: fsnotify.Create}, false},
		{"hidden file", fsnotify.Event{Name: hiddenPath, Op: fsnotify.Create}, false},
		{"directory with matching name", fsnotify.Event{Name: subdir, Op: fsnotify.Create}, false},
		{"vanished file", fsnotify.Event{Name: filepath.Join(dir, "gone.txt"), Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.shouldIngest(tt.event))
		})
	}
}

func TestIngestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0600))

	ingester := &fakeIngester{}
	var gotDoc *domain.Document
	var gotErr error
	w, err := New(ingester, dir, []string{"txt"}, WithResultFunc(
		func(_ string, doc *domain.Document, err error) {
			gotDoc = doc
			gotErr = err
		}))
	require.NoError(t, err)

	w.ingestFile(context.Background(), path)

	require.NoError(t, gotErr)
	require.NotNil(t, gotDoc)
	assert.Equal(t, "doc.txt", gotDoc.Name)
	assert.Equal(t, []string{"doc.txt"}, ingester.names())
}

func TestIngestFile_IngestError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0600))

	wantErr := errors.New("embedding unavailable")
	ingester := &fakeIngester{ingestErr: wantErr}
	var gotErr error
	w, err := New(ingester, dir, []string{"txt"}, WithResultFunc(
		func(_ string, _ *domain.Document, err error) {
			gotErr = err
		}))
	require.NoError(t, err)

	w.ingestFile(context.Background(), path)

	assert.ErrorIs(t, gotErr, wantErr)
}

func TestIngestFile_UnreadablePath(t *testing.T) {
	dir := t.TempDir()

	var gotErr error
	w, err := New(&fakeIngester{}, dir, []string{"txt"}, WithResultFunc(
		func(_ string, _ *domain.Document, err error) {
			gotErr = err
		}))
	require.NoError(t, err)

	w.ingestFile(context.Background(), filepath.Join(dir, "missing.txt"))

	assert.Error(t, gotErr)
}

func TestRun_IngestsNewFile(t *testing.T) {
	dir := t.TempDir()
	ingester := &fakeIngester{}

	results := make(chan string, 1)
	w, err := New(ingester, dir, []string{"txt"},
		WithDebounce(100*time.Millisecond),
		WithResultFunc(func(path string, _ *domain.Document, err error) {
			if err == nil {
				results <- path
			}
		}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	// Give the watcher time to register before writing
	time.Sleep(200 * time.Millisecond)

	path := filepath.Join(dir, "incoming.txt")
	require.NoError(t, os.WriteFile(path, []byte("fresh content"), 0600))

	select {
	case got := <-results:
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for auto-ingestion")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRun_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	w, err := New(&fakeIngester{}, dir, []string{"txt"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, w.Run(ctx), context.Canceled)
}
