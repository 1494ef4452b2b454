package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"par/internal/artistcache"
	"par/internal/config"
	"par/internal/logging"
	"par/internal/navigator"
	"par/internal/remote"
	"par/internal/services"
	"par/internal/settings"
	"par/internal/store"
)

type commandContext struct {
	configFlag *string
	verbose    *bool
	quiet      *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verbose, quiet *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
		quiet:      quiet,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// app is everything one command needs, opened under the data directory lock.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	provider remote.Provider
	cache    *artistcache.Cache
	session  *navigator.Session
	lock     *flock.Flock
}

func (c *commandContext) newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewFromConfig(cfg, uuid.NewString())
	if err != nil {
		return nil, err
	}
	if c.verbose != nil && *c.verbose {
		logger = logging.TeeLogger(logger, logging.NewConsoleHandler(cmd.ErrOrStderr(), slog.LevelDebug))
	}
	if c.quiet != nil && *c.quiet {
		logger = logging.WithMinLevel(logger, slog.LevelWarn)
	}
	return logger, nil
}

// openApp locks the data directory and wires the store, provider, cache,
// settings, and session. The session is not initialized.
func (c *commandContext) openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", cfg.LockPath(), err)
	}
	if !locked {
		return nil, fmt.Errorf("another par process is using %s", cfg.Paths.DataDir)
	}

	a := &app{cfg: cfg, lock: lock}
	if err := a.wire(commandCtx(cmd), c, cmd); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context, c *commandContext, cmd *cobra.Command) error {
	logger, err := c.newLogger(cmd, a.cfg)
	if err != nil {
		return err
	}
	a.logger = logger

	st, err := store.Open(a.cfg)
	if err != nil {
		return err
	}
	a.store = st

	provider, err := remote.New(a.cfg, logger)
	if err != nil {
		return err
	}
	a.provider = provider

	reconciler, err := settings.Load(ctx, st, provider, logger)
	if err != nil {
		return err
	}
	a.cache = artistcache.New(st, provider, a.cfg.ImageDir(), logger)
	a.session = navigator.New(st, provider, reconciler, a.cache, logger)
	return nil
}

// Close releases the store and the directory lock.
func (a *app) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.lock != nil {
		_ = a.lock.Unlock()
	}
}

// withApp opens the app, runs fn, and closes it.
func (c *commandContext) withApp(cmd *cobra.Command, fn func(context.Context, *app) error) error {
	a, err := c.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(commandCtx(cmd), a)
}

// withSession is withApp with the session initialized first.
func (c *commandContext) withSession(cmd *cobra.Command, fn func(context.Context, *app) error) error {
	return c.withApp(cmd, func(ctx context.Context, a *app) error {
		if err := a.session.Initialize(ctx); err != nil {
			return explain(err)
		}
		if a.session.View().InitializationRequired {
			return errCredentialRequired
		}
		return fn(ctx, a)
	})
}

var errCredentialRequired = errors.New("no valid refresh token; set one with `par settings set --token <token>`")

// explain adds a next step to errors the user can act on.
func explain(err error) error {
	switch {
	case errors.Is(err, services.ErrStoreCorrupt):
		return fmt.Errorf("%w (run `par reset` to rebuild the queue)", err)
	case errors.Is(err, services.ErrFetchFailed):
		return fmt.Errorf("%w (check the provider with `par doctor`)", err)
	default:
		return err
	}
}

func commandCtx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
