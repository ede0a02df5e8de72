package formula

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func startWatcher(t *testing.T) (string, *Catalog, *atomic.Int32) {
	t.Helper()
	dir, store := tempStore(t)
	c, err := NewCatalog(Builtins()...)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var reloads atomic.Int32
	go Watch(ctx, c, store, dir, 20*time.Millisecond, quietLogger(), func(int) {
		reloads.Add(1)
	})
	time.Sleep(100 * time.Millisecond)
	return dir, c, &reloads
}

func TestWatcher_NewFileLoaded(t *testing.T) {
	dir, c, reloads := startWatcher(t)

	_ = os.WriteFile(filepath.Join(dir, "power.yaml"), []byte(powerYAML), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, ok := c.Get("power")
		return ok
	}, "power formula was not loaded")
	if reloads.Load() == 0 {
		t.Error("callback not invoked")
	}
}

func TestWatcher_DeletedFileDropped(t *testing.T) {
	dir, c, _ := startWatcher(t)
	path := filepath.Join(dir, "power.yaml")

	_ = os.WriteFile(path, []byte(powerYAML), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, ok := c.Get("power")
		return ok
	}, "power formula was not loaded")

	_ = os.Remove(path)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, ok := c.Get("power")
		return !ok
	}, "power formula was not dropped")
}

func TestWatcher_NewSubdirWatched(t *testing.T) {
	dir, c, _ := startWatcher(t)

	sub := filepath.Join(dir, "jazz")
	_ = os.MkdirAll(sub, 0o755)
	time.Sleep(100 * time.Millisecond)
	_ = os.WriteFile(filepath.Join(sub, "power.yaml"), []byte(powerYAML), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, ok := c.Get("power")
		return ok
	}, "formula in new subdirectory was not loaded")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir, _, reloads := startWatcher(t)

	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644)
	time.Sleep(300 * time.Millisecond)
	if n := reloads.Load(); n != 0 {
		t.Errorf("reloads = %d, want 0", n)
	}
}
