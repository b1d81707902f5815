package config

import (
	"cmp"
	"errors"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

// Options are the global command-line flags shared by every command.
type Options struct {
	Config string `long:"config" env:"TOURFEED_CONFIG" description:"Path to the YAML config file (default ~/.tourfeed/config.yaml)"`
	DB     string `long:"db" env:"TOURFEED_DB" description:"SQLite cache path, overrides store.path"`
	Token  string `long:"token" env:"TOURFEED_TOKEN" description:"Bearer token for remote backends"`
	Debug  bool   `long:"debug" env:"TOURFEED_DEBUG" description:"Enable debug logging"`
}

// Resolve loads the config file and applies flag overrides.
func (o *Options) Resolve() (*Config, error) {
	cfg, err := Load(o.Config)
	if err != nil {
		return nil, err
	}
	if o.DB != "" {
		cfg.Store.Path = o.DB
	}
	if o.Token != "" {
		cfg.Remote.Token = o.Token
	}
	return cfg, nil
}

// IsHelp reports whether err is go-flags' help request, which callers
// treat as a clean exit.
func IsHelp(err error) bool {
	var flagsErr *flags.Error
	return errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp
}
