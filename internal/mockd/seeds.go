package mockd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"lanfinitas-studio/internal/apitypes"
)

// seedFile is one YAML file of template definitions.
type seedFile struct {
	Templates []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Category    string `yaml:"category"`
		Description string `yaml:"description"`
		PreviewURL  string `yaml:"preview_url"`
	} `yaml:"templates"`
}

// LoadSeeds reads every YAML file in dir and upserts its templates. Files
// that fail to parse are logged and skipped.
func (s *Store) LoadSeeds(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("mockd: read seed dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isSeedFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("mockd: seed %s: %v", path, err)
			continue
		}

		var sf seedFile
		if err := yaml.Unmarshal(data, &sf); err != nil {
			log.Printf("mockd: seed %s: %v", path, err)
			continue
		}

		for _, t := range sf.Templates {
			err := s.UpsertTemplate(apitypes.Template{
				ID:          t.ID,
				Name:        t.Name,
				Category:    t.Category,
				Description: t.Description,
				PreviewURL:  t.PreviewURL,
			})
			if err != nil {
				log.Printf("mockd: seed %s: %v", path, err)
			}
		}
	}
	return nil
}

func isSeedFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// SeedWatcher reloads template seeds when files in the seed directory
// change. Rapid successive events on the same file are debounced.
type SeedWatcher struct {
	store   *Store
	dir     string
	watcher *fsnotify.Watcher
	closeCh chan struct{}
	once    sync.Once
}

// WatchSeeds loads the directory once, then watches it for changes.
func WatchSeeds(store *Store, dir string) (*SeedWatcher, error) {
	if err := store.LoadSeeds(dir); err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("mockd: watch seeds: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("mockd: watch seeds: %w", err)
	}

	sw := &SeedWatcher{
		store:   store,
		dir:     dir,
		watcher: w,
		closeCh: make(chan struct{}),
	}
	go sw.run()
	return sw, nil
}

// Close stops the watcher.
func (sw *SeedWatcher) Close() error {
	var err error
	sw.once.Do(func() {
		close(sw.closeCh)
		err = sw.watcher.Close()
	})
	return err
}

func (sw *SeedWatcher) run() {
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isSeedFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < 100*time.Millisecond {
				continue
			}
			last[event.Name] = now

			if err := sw.store.LoadSeeds(sw.dir); err != nil {
				log.Printf("mockd: seed reload: %v", err)
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("mockd: seed watcher: %v", err)
		case <-sw.closeCh:
			return
		}
	}
}
