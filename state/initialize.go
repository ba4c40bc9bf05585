package state

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"ucc/config"
	"ucc/engine"
	"ucc/preset"
	"ucc/tables"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		Log:   zap.NewNop(),
	}
}

// LoadTables assembles engine tables from configuration: built-in tables
// when requested, then table documents in order, then prefix characters and
// safelist from the engine section. Table documents are read on every call
// so watch mode picks up their changes.
func (e *LocalEnv) LoadTables() (*tables.Tables, error) {
	if e.Cfg == nil {
		return nil, fmt.Errorf("configuration is not loaded")
	}
	ec := &e.Cfg.Engine

	t := tables.New()
	if ec.UsePreset {
		p, err := preset.Load(e.Log)
		if err != nil {
			return nil, fmt.Errorf("unable to load built-in tables: %w", err)
		}
		t.Merge(p)
	}

	loader := preset.NewLoader(e.Log)
	for _, path := range ec.Tables {
		loaded, err := loader.LoadFile(path)
		if err != nil {
			return nil, err
		}
		t.Merge(loaded)
		if err := e.Rpt.StoreCopy(filepath.Join("tables", config.CleanFileName(filepath.Base(path))), path); err != nil {
			e.Log.Debug("Unable to store table document in report", zap.String("file", path), zap.Error(err))
		}
	}

	t.Merge(&tables.Tables{
		PrefixChars: []rune(ec.PrefixChars),
		Safelist:    ec.Safelist,
	})
	return t, nil
}

// CompileEngine builds an engine from configured tables.
func (e *LocalEnv) CompileEngine() (*engine.Engine, error) {
	t, err := e.LoadTables()
	if err != nil {
		return nil, err
	}
	cfg := t.Config()
	cfg.Strict = e.Cfg.Engine.Strict

	eng, err := engine.Compile(cfg, e.Log)
	if err != nil {
		return nil, fmt.Errorf("unable to compile engine: %w", err)
	}
	e.Log.Debug("Engine compiled",
		zap.Int("utilities", len(cfg.Utilities)),
		zap.Int("variants", len(cfg.Variants)),
		zap.Bool("strict", cfg.Strict))
	return eng, nil
}
