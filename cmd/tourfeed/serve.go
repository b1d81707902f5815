package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abelbrown/tourfeed/internal/api"
	"github.com/abelbrown/tourfeed/internal/logging"
)

type serveCommand struct {
	Addr   string `long:"addr" env:"TOURFEED_ADDR" default:":8080" description:"Listen address"`
	APIKey string `long:"api-key" env:"TOURFEED_API_KEY" description:"Require this key on /api routes (X-API-Key or Bearer)"`
}

// Execute serves the API until SIGINT or SIGTERM.
func (c *serveCommand) Execute(args []string) error {
	cfg, err := resolve(logging.Options{Writer: os.Stderr})
	if err != nil {
		return err
	}
	defer logging.Close()

	st, err := openStore(cfg, cfg.UsesStore())
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	posts, err := cfg.PostSource(st)
	if err != nil {
		return err
	}
	profiles, err := cfg.ProfileSource(st)
	if err != nil {
		return err
	}
	tours, err := cfg.TourSource(st)
	if err != nil {
		return err
	}
	questions, err := cfg.QuestionSource(profiles)
	if err != nil {
		return err
	}

	handler := api.NewHandler(posts, profiles, tours, cfg.PagerSettings(), cfg.Remote.Timeout).
		WithQuestions(questions, cfg.Question.Language)
	srvCfg := api.DefaultServerConfig()
	srvCfg.Addr = c.Addr
	srvCfg.APIKey = c.APIKey
	httpServer := api.NewHTTPServer(srvCfg, api.NewServer(handler, srvCfg.APIKey))

	serverErr := make(chan error, 1)
	go func() {
		logging.Info("Starting HTTP server", "addr", srvCfg.Addr, "auth", srvCfg.APIKey != "")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("http server: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logging.Info("Received signal", "signal", sig)
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logging.Info("Server stopped")
	return nil
}
