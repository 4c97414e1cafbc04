package codexlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// seedLogFiles creates n log files with ascending embedded timestamps and
// returns their names, oldest first.
func seedLogFiles(t *testing.T, dir string, n int) []string {
	t.Helper()
	names := make([]string, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("codex-session-seed%d-20240101-%06d.jsonl", i, i+1)
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}\n"), 0644); err != nil {
			t.Fatalf("seeding log file: %v", err)
		}
		names[i] = name
	}
	return names
}

func TestPruneLogFiles(t *testing.T) {
	t.Run("keeps the newest files", func(t *testing.T) {
		dir := t.TempDir()
		names := seedLogFiles(t, dir, 7)

		pruneLogFiles(dir, 3)

		files := listLogFiles(dir)
		if len(files) != 3 {
			t.Fatalf("expected 3 survivors, got %d", len(files))
		}
		// Survivors are exactly the 3 most recently created.
		for i, want := range []string{names[6], names[5], names[4]} {
			if filepath.Base(files[i].path) != want {
				t.Errorf("survivor %d = %q, want %q", i, filepath.Base(files[i].path), want)
			}
		}
	})

	t.Run("no-op at or under the limit", func(t *testing.T) {
		dir := t.TempDir()
		seedLogFiles(t, dir, 3)

		pruneLogFiles(dir, 3)
		if got := len(listLogFiles(dir)); got != 3 {
			t.Errorf("expected 3 files, got %d", got)
		}
	})

	t.Run("keep zero deletes everything", func(t *testing.T) {
		dir := t.TempDir()
		seedLogFiles(t, dir, 4)

		pruneLogFiles(dir, 0)
		if got := len(listLogFiles(dir)); got != 0 {
			t.Errorf("expected empty directory, got %d files", got)
		}
	})

	t.Run("unparsable timestamp is pruned first", func(t *testing.T) {
		dir := t.TempDir()
		seedLogFiles(t, dir, 2)
		mangled := "codex-session-broken.jsonl"
		if err := os.WriteFile(filepath.Join(dir, mangled), []byte("{}\n"), 0644); err != nil {
			t.Fatalf("seeding mangled file: %v", err)
		}

		pruneLogFiles(dir, 2)

		for _, f := range listLogFiles(dir) {
			if filepath.Base(f.path) == mangled {
				t.Errorf("file without a parsable timestamp survived pruning")
			}
		}
	})
}

func TestStartSessionPrunes(t *testing.T) {
	dir := t.TempDir()
	seedLogFiles(t, dir, 5)

	w := NewWriter(func() string { return dir }, 3, LevelStandard)
	path := w.StartSession("fresh", "wss://host", "/tmp")
	if path == "" {
		t.Fatal("StartSession failed")
	}

	// The new session file counts toward the limit of 3, so only the two
	// newest seeds survive alongside it.
	files := listLogFiles(dir)
	if len(files) != 3 {
		t.Fatalf("expected 3 files after rotation, got %d", len(files))
	}

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f.path))
	}
	joined := strings.Join(names, " ")
	for _, gone := range []string{"seed0", "seed1", "seed2"} {
		if strings.Contains(joined, gone) {
			t.Errorf("%s survived pruning: %v", gone, names)
		}
	}
	if !strings.Contains(joined, "fresh") {
		t.Errorf("new session file missing: %v", names)
	}
}

func TestRetentionDisabled(t *testing.T) {
	dir := t.TempDir()
	seedLogFiles(t, dir, 8)

	for _, limit := range []int{0, -1} {
		w := NewWriter(func() string { return dir }, limit, LevelStandard)
		if path := w.StartSession(fmt.Sprintf("limit%d", limit), "wss://host", "/tmp"); path == "" {
			t.Fatal("StartSession failed")
		}
		w.EndSession()
	}

	// 8 seeds plus one file per rotation, nothing ever pruned.
	if got := len(listLogFiles(dir)); got != 10 {
		t.Errorf("expected 10 files with pruning disabled, got %d", got)
	}
}

func TestRepeatedRotationsBounded(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(func() string { return dir }, 2, LevelStandard)

	for i := 0; i < 6; i++ {
		if path := w.StartSession(fmt.Sprintf("s%d", i), "wss://host", "/tmp"); path == "" {
			t.Fatalf("rotation %d failed", i)
		}
		if got := len(listLogFiles(dir)); got > 2 {
			t.Fatalf("after rotation %d: %d files exceed the limit", i, got)
		}
	}
	w.EndSession()

	// Survivors are the files of the two most recent sessions.
	files := listLogFiles(dir)
	if len(files) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(files))
	}
	for i, want := range []string{"s5", "s4"} {
		if !strings.Contains(filepath.Base(files[i].path), want) {
			t.Errorf("survivor %d = %q, want session %s", i, filepath.Base(files[i].path), want)
		}
	}
}
