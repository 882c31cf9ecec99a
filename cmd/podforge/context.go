package main

import (
	"errors"
	"strings"
	"sync"

	"podforge/internal/api"
	"podforge/internal/blob"
	"podforge/internal/config"
	"podforge/internal/logging"
	"podforge/internal/retry"
	"podforge/internal/store"
)

type commandContext struct {
	configFlag *string
	userFlag   *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, userFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		userFlag:   userFlag,
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

func (c *commandContext) userID() (string, error) {
	if c.userFlag == nil || strings.TrimSpace(*c.userFlag) == "" {
		return "", errors.New("--user is required")
	}
	return strings.TrimSpace(*c.userFlag), nil
}

// withStore opens the daemon database for the duration of one command. The
// store uses WAL so the CLI can share it with a running daemon.
func (c *commandContext) withStore(fn func(*store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func (c *commandContext) withService(fn func(*api.Service) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	return c.withStore(func(st *store.Store) error {
		var deleter blob.Deleter = blob.NopDeleter{}
		if strings.TrimSpace(cfg.Blob.AuthToken) != "" {
			deleter = blob.NewHTTPDeleter(blob.Config{
				AuthToken:      cfg.Blob.AuthToken,
				TimeoutSeconds: cfg.Blob.TimeoutSeconds,
			}, nil)
		}
		return fn(api.NewService(st, deleter, logging.NewNop()))
	})
}

func (c *commandContext) withCoordinator(fn func(*retry.Coordinator) error) error {
	return c.withStore(func(st *store.Store) error {
		return fn(retry.NewCoordinator(st, logging.NewNop()))
	})
}
