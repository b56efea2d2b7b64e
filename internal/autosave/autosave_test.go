package autosave

import (
	"path/filepath"
	"testing"
	"time"

	"lanfinitas-studio/internal/annotation"
	"lanfinitas-studio/pkg/geometry"
	"lanfinitas-studio/ui/prefs"
)

func testPrefs(t *testing.T) *prefs.Prefs {
	t.Helper()
	return prefs.LoadPath(filepath.Join(t.TempDir(), "preferences.json"))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	p := testPrefs(t)
	shape := annotation.New(annotation.KindKeypoint, []geometry.Point2D{{X: 3, Y: 4}}, "#e63946")

	s := NewSaver(p, time.Minute, func() Record {
		return Record{
			Annotations: []annotation.Shape{shape},
			ImageURL:    "file:///tmp/bodice.png",
			ImageName:   "bodice.png",
			ImageSize:   geometry.NewSize(800, 600),
		}
	})
	if err := s.SaveNow(); err != nil {
		t.Fatal(err)
	}

	rec, ok := Load(p)
	if !ok {
		t.Fatal("expected a recovery record")
	}
	if len(rec.Annotations) != 1 || rec.Annotations[0].ID != shape.ID {
		t.Fatalf("unexpected annotations: %+v", rec.Annotations)
	}
	if rec.ImageName != "bodice.png" || rec.ImageSize.Width != 800 {
		t.Fatalf("unexpected metadata: %+v", rec)
	}
	if rec.SavedAt.IsZero() {
		t.Fatal("SavedAt not stamped")
	}
}

func TestLoadMissingRecord(t *testing.T) {
	if _, ok := Load(testPrefs(t)); ok {
		t.Fatal("missing record must report absent")
	}
}

func TestLoadMalformedRecordFallsBackToEmpty(t *testing.T) {
	p := testPrefs(t)
	p.SetString(Key, "{not json")

	if _, ok := Load(p); ok {
		t.Fatal("malformed record must be ignored, not surfaced")
	}
}

func TestClear(t *testing.T) {
	p := testPrefs(t)
	p.SetString(Key, `{"imageName":"x"}`)

	Clear(p)
	if _, ok := Load(p); ok {
		t.Fatal("record should be gone after Clear")
	}
}

// The saver goroutine snapshots the store while the UI path keeps editing;
// the store's lock must keep the two from tripping over each other. Run
// with -race to verify.
func TestSaverSnapshotsWhileEditing(t *testing.T) {
	p := testPrefs(t)
	store := annotation.NewStore()

	s := NewSaver(p, time.Millisecond, func() Record {
		return Record{Annotations: store.Shapes()}
	})
	s.Start()

	deadline := time.Now().Add(50 * time.Millisecond)
	for time.Now().Before(deadline) {
		shape := store.Add(annotation.New(annotation.KindKeypoint,
			[]geometry.Point2D{{X: 1, Y: 2}}, "#e63946"))
		store.Update(shape.ID, shape)
		store.Undo()
		store.Redo()
		store.Remove(shape.ID)
	}
	s.Stop()

	if _, ok := Load(p); !ok {
		t.Fatal("saver never wrote a snapshot")
	}
}

func TestPeriodicTickWrites(t *testing.T) {
	p := testPrefs(t)
	s := NewSaver(p, 10*time.Millisecond, func() Record {
		return Record{ImageName: "tick.png"}
	})
	s.Start()
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for {
		if rec, ok := Load(p); ok && rec.ImageName == "tick.png" {
			return
		}
		select {
		case <-deadline:
			t.Fatal("saver never wrote a snapshot")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
