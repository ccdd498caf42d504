package main

import (
	"os"

	"github.com/flux-framework/pmi-go/pkg/pmiconfig"
	"github.com/flux-framework/pmi-go/pkg/pmilog"
)

func loadConfig() (*pmiconfig.Config, error) {
	cfg, err := pmiconfig.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *pmiconfig.Config) *pmilog.Logger {
	level := pmilog.Level(cfg.Framework.LogLevel)
	if verbose {
		level = pmilog.LevelDebug
	}
	return pmilog.New(pmilog.Config{
		Level:  level,
		Format: pmilog.Format(cfg.Framework.LogFormat),
		Output: os.Stdout,
	})
}
