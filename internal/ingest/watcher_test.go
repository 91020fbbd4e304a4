package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStartWatcherNoRoots(t *testing.T) {
	if _, _, err := StartWatcher(context.Background(), WatchConfig{}); err == nil {
		t.Error("no roots must error")
	}
}

func TestStartWatcherInitialScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "existing.pdf", "doc")
	writeFile(t, dir, "skip.txt", "not a doc")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}, InitialScan: true})
	if err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-evCh:
		if filepath.Base(path) != "existing.pdf" {
			t.Errorf("emitted %s, want existing.pdf", path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("initial scan emitted nothing")
	}
}

func TestStartWatcherEmitsNewFiles(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}, Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}

	// give the watcher a moment to register the root
	time.Sleep(100 * time.Millisecond)
	path := filepath.Join(dir, "incoming.pdf")
	if err := os.WriteFile(path, []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-evCh:
		if got != path {
			t.Errorf("emitted %s, want %s", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not emit the new file")
	}
}

func TestStartWatcherInitialScanDeliversAllUnderLoad(t *testing.T) {
	// more documents than the event channel buffers; every one must still
	// arrive, with the producer blocking until the consumer catches up
	dir := t.TempDir()
	const n = 300
	for i := 0; i < n; i++ {
		writeFile(t, dir, fmt.Sprintf("doc-%03d.pdf", i), "doc")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}, InitialScan: true})
	if err != nil {
		t.Fatal(err)
	}

	got := make(map[string]struct{}, n)
	deadline := time.After(30 * time.Second)
	for len(got) < n {
		select {
		case path := <-evCh:
			got[path] = struct{}{}
		case <-deadline:
			t.Fatalf("received %d of %d documents before timeout", len(got), n)
		}
	}
}

func TestStartWatcherIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}})
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-evCh:
		t.Errorf("unexpected event for %s", got)
	case <-time.After(500 * time.Millisecond):
	}
}
