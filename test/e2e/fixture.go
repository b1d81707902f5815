package e2e

import (
	"context"
	"os"
	"path/filepath"

	"github.com/abelbrown/tourfeed/internal/config"
	"github.com/abelbrown/tourfeed/internal/feed"
	"github.com/abelbrown/tourfeed/internal/seed"
	"github.com/abelbrown/tourfeed/internal/store"
	"github.com/abelbrown/tourfeed/internal/tour"
	"github.com/abelbrown/tourfeed/internal/trait"
)

// seedFixtureDB writes the built-in fixtures to a fresh cache under
// homeDir and returns its path.
func seedFixtureDB(homeDir string) (string, error) {
	dataDir := filepath.Join(homeDir, ".tourfeed")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	dbPath := filepath.Join(dataDir, "tourfeed.db")
	st, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	_, err = seed.Run(context.Background(), st, seed.Sources{
		Posts:    feed.DefaultFixture(),
		Profiles: trait.DefaultProfiles(),
		Tours:    tour.DefaultFixture(),
	}, config.CacheKey)
	if err != nil {
		return "", err
	}
	return dbPath, nil
}

// writeStoreConfig writes a config that reads every section from dbPath.
func writeStoreConfig(homeDir, dbPath string) (string, error) {
	cfg := config.DefaultConfig()
	cfg.Posts.Source = config.SourceStore
	cfg.Profiles.Source = config.SourceStore
	cfg.Tour.Source = config.SourceStore
	cfg.Store.Path = dbPath

	path := filepath.Join(homeDir, ".tourfeed", "config.yaml")
	if err := cfg.Save(path); err != nil {
		return "", err
	}
	return path, nil
}
