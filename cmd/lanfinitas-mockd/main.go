// lanfinitas-mockd is the demo backend: a local HTTP server answering the
// /v1 API with placeholder data so the studio client can run without any
// real inference infrastructure.
package main

import (
	"flag"
	"log"

	"lanfinitas-studio/internal/mockd"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", "", "path to YAML config (optional)")
	seedEmail := flag.String("seed-email", "demo@lanfinitas.dev", "demo account email")
	seedPassword := flag.String("seed-password", "demo", "demo account password")
	flag.Parse()

	cfg := mockd.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = mockd.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	store, err := mockd.OpenStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer store.Close()

	if _, err := store.Authenticate(*seedEmail, *seedPassword); err != nil {
		if _, err := store.CreateIdentity(*seedEmail, *seedPassword, "Demo Designer", "designer"); err != nil {
			log.Printf("seed identity: %v", err)
		} else {
			log.Printf("seeded demo account %s", *seedEmail)
		}
	}

	if cfg.SeedDir != "" {
		watcher, err := mockd.WatchSeeds(store, cfg.SeedDir)
		if err != nil {
			log.Printf("seed watcher: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	srv := mockd.NewServer(cfg, store)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
