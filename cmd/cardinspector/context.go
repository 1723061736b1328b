package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/anime-shed/card-inspector-go/internal/config"
	"github.com/anime-shed/card-inspector-go/internal/container"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	container *container.Container
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

// ensureContainer builds the dependency graph on first use. Commands that
// tweak the config must do so before calling it.
func (c *commandContext) ensureContainer() (*container.Container, error) {
	if c.container != nil {
		return c.container, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	ctr, err := container.NewContainer(cfg)
	if err != nil {
		return nil, err
	}
	c.container = ctr
	return ctr, nil
}

func (c *commandContext) close() error {
	if c.container == nil {
		return nil
	}
	err := c.container.Close()
	c.container = nil
	return err
}

func (c *commandContext) forceJSON() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
