package mockd

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const seedYAML = `
templates:
  - id: tpl-skirt
    name: A-line skirt
    category: skirts
  - id: tpl-bodice
    name: Bodice block
    category: blocks
    description: Basic fitted bodice
`

func TestLoadSeeds(t *testing.T) {
	store, err := OpenStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "templates.yaml"), []byte(seedYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	// Non-seed files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := store.LoadSeeds(dir); err != nil {
		t.Fatal(err)
	}

	list, err := store.Templates()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d templates, want 2", len(list))
	}
}

func TestLoadSeedsSkipsMalformed(t *testing.T) {
	store, err := OpenStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("{not yaml"), 0o644)
	os.WriteFile(filepath.Join(dir, "good.yaml"), []byte(seedYAML), 0o644)

	if err := store.LoadSeeds(dir); err != nil {
		t.Fatal(err)
	}
	list, err := store.Templates()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d templates, want 2", len(list))
	}
}

func TestWatchSeedsReloadsOnWrite(t *testing.T) {
	store, err := OpenStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	dir := t.TempDir()
	sw, err := WatchSeeds(store, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer sw.Close()

	if err := os.WriteFile(filepath.Join(dir, "templates.yaml"), []byte(seedYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for {
		list, err := store.Templates()
		if err != nil {
			t.Fatal(err)
		}
		if len(list) == 2 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("watcher never loaded seeds, have %d templates", len(list))
		case <-time.After(10 * time.Millisecond):
		}
	}
}
