package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/abelbrown/tourfeed/internal/config"
	"github.com/abelbrown/tourfeed/internal/logging"
	"github.com/abelbrown/tourfeed/internal/seed"
)

type seedCommand struct{}

// Execute copies every non-store source into the cache.
func (c *seedCommand) Execute(args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := resolve(logging.Options{Writer: os.Stderr})
	if err != nil {
		return err
	}
	defer logging.Close()

	st, err := openStore(cfg, true)
	if err != nil {
		return err
	}
	defer st.Close()

	var src seed.Sources
	if cfg.Posts.Source != config.SourceStore {
		if src.Posts, err = cfg.PostSource(st); err != nil {
			return err
		}
	}
	if cfg.Profiles.Source != config.SourceStore {
		if src.Profiles, err = cfg.ProfileSource(st); err != nil {
			return err
		}
	}
	if cfg.Tour.Source != config.SourceStore {
		if src.Tours, err = cfg.TourSource(st); err != nil {
			return err
		}
		src.TourIDs = []int64{cfg.Tour.ID}
	}
	if src.Posts == nil && src.Profiles == nil && src.Tours == nil {
		return errors.New("every source reads from the store; nothing to seed")
	}

	res, err := seed.Run(ctx, st, src, config.CacheKey)
	if err != nil {
		return err
	}
	fmt.Printf("Seeded %s: %d posts, %d profiles, %d tours\n", cfg.Store.Path, res.Posts, res.Profiles, res.Tours)
	return nil
}
