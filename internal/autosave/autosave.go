// Package autosave periodically snapshots the annotation session to the
// preferences store so a crashed session can be recovered. The snapshot is
// separate from undo/redo history: it is one JSON record under one fixed
// key, overwritten on every tick.
package autosave

import (
	"encoding/json"
	"log"
	"time"

	"lanfinitas-studio/internal/annotation"
	"lanfinitas-studio/pkg/geometry"
	"lanfinitas-studio/ui/prefs"
)

// Key is the single preferences key holding the recovery record.
const Key = "annotator.autosave"

// DefaultInterval is the fixed period between snapshot writes.
const DefaultInterval = 30 * time.Second

// Record is the session-recovery payload.
type Record struct {
	Annotations []annotation.Shape `json:"annotations"`
	ImageURL    string             `json:"imageUrl"`
	ImageName   string             `json:"imageName"`
	ImageSize   geometry.Size      `json:"imageSize"`
	SavedAt     time.Time          `json:"savedAt"`
}

// Saver runs a fixed-interval timer that reads the current in-memory state
// at fire time and writes it to the preferences store. It is not coordinated
// with in-flight edits; a tick mid-gesture captures whatever is committed.
type Saver struct {
	prefs    *prefs.Prefs
	interval time.Duration
	snapshot func() Record
	stopCh   chan struct{}
}

// NewSaver creates a saver. snapshot is called on every tick to read the
// current session state.
func NewSaver(p *prefs.Prefs, interval time.Duration, snapshot func() Record) *Saver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Saver{
		prefs:    p,
		interval: interval,
		snapshot: snapshot,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the snapshot loop in a background goroutine.
func (s *Saver) Start() {
	s.stopCh = make(chan struct{})
	go s.loop()
}

// Stop stops the snapshot loop.
func (s *Saver) Stop() {
	close(s.stopCh)
}

func (s *Saver) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if err := s.SaveNow(); err != nil {
				log.Printf("autosave: %v", err)
			}
		}
	}
}

// SaveNow writes one snapshot immediately.
func (s *Saver) SaveNow() error {
	rec := s.snapshot()
	rec.SavedAt = time.Now().UTC()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	s.prefs.SetString(Key, string(data))
	return s.prefs.Save()
}

// Load reads the recovery record from the preferences store. Malformed or
// missing data is ignored and reported as absent; the caller falls back to
// an empty session.
func Load(p *prefs.Prefs) (Record, bool) {
	raw := p.String(Key)
	if raw == "" {
		return Record{}, false
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Record{}, false
	}
	return rec, true
}

// Clear removes the recovery record.
func Clear(p *prefs.Prefs) {
	p.Delete(Key)
}
