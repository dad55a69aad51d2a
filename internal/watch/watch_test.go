package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/folio/internal/layout"
)

const (
	oneSection = `{"sections": [{"type": "text", "content": "v1", "position": {"x": 50, "y": 50}}]}`
	twoSection = `{"sections": [{"type": "text", "content": "v2", "position": {"x": 50, "y": 50}},
		{"type": "line", "position": {"x": 50, "y": 60}, "end_position": {"x": 545, "y": 60}}]}`
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func startWatcher(t *testing.T, path string) (*Watcher, <-chan *layout.Document, <-chan error) {
	t.Helper()

	docs := make(chan *layout.Document, 10)
	errs := make(chan error, 10)

	w, err := New(path, func(doc *layout.Document) { docs <- doc }, Options{Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	w.OnError(func(err error) { errs <- err })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
	return w, docs, errs
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	writeFile(t, path, oneSection)

	w, docs, _ := startWatcher(t, path)
	writeFile(t, path, twoSection)

	select {
	case doc := <-docs:
		if doc.Len() != 2 {
			t.Errorf("expected 2 sections, got %d", doc.Len())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	if w.Reloads() < 1 {
		t.Errorf("expected at least 1 reload, got %d", w.Reloads())
	}
}

func TestWatcherReportsDecodeFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	writeFile(t, path, oneSection)

	_, docs, errs := startWatcher(t, path)
	writeFile(t, path, `{"page": {}}`)

	select {
	case err := <-errs:
		if !errors.Is(err, layout.ErrMissingSections) {
			t.Errorf("expected ErrMissingSections, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}

	select {
	case <-docs:
		t.Error("rejected layout should not be delivered")
	default:
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.json")
	writeFile(t, path, oneSection)

	_, docs, _ := startWatcher(t, path)
	writeFile(t, filepath.Join(dir, "other.json"), twoSection)

	select {
	case <-docs:
		t.Error("changes to other files should be ignored")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherReloadNow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	writeFile(t, path, twoSection)

	var got *layout.Document
	w, err := New(path, func(doc *layout.Document) { got = doc }, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if err := w.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if got == nil || got.Len() != 2 {
		t.Errorf("expected handler to receive 2 sections, got %v", got)
	}
}

func TestWatcherMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	w, err := New(path, nil, Options{})
	if err != nil {
		t.Fatalf("New should accept a file that does not exist yet: %v", err)
	}
	defer w.Close()

	if err := w.Reload(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "layout.json"), nil, Options{})
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWatcherCloseEndsRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	w, err := New(path, nil, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	select {
	case err := <-done:
		if !errors.Is(err, ErrWatcherClosed) {
			t.Errorf("expected ErrWatcherClosed, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}
