package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/specialistvlad/recipegrid/internal/analyzer"
	"github.com/specialistvlad/recipegrid/internal/catalog"
	"github.com/specialistvlad/recipegrid/internal/ctxlog"
	"github.com/specialistvlad/recipegrid/internal/engine"
	"github.com/specialistvlad/recipegrid/internal/recipe"
	"github.com/specialistvlad/recipegrid/internal/recipefile"
)

// App bundles the loaded catalog with an engine and a recipe codec.
type App struct {
	logger  *slog.Logger
	catalog *catalog.Loaded
	engine  *engine.Engine
	codec   *recipefile.Codec
}

// New loads the catalog named by cfg and builds an engine over it. Log
// records go to logW.
func New(ctx context.Context, cfg *Config, logW io.Writer) (*App, error) {
	logger := NewLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	engineCfg := analyzer.DefaultConfig()
	loaded, err := catalog.Load(ctx, cfg.CatalogPath, engineCfg.ActionColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	eng, err := engine.New(loaded.Actions, loaded.Properties,
		engine.WithConfig(engineCfg),
		engine.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &App{
		logger:  logger,
		catalog: loaded,
		engine:  eng,
		codec:   recipefile.New(loaded.Actions, engineCfg.ActionColumn),
	}, nil
}

// Catalog returns the loaded catalog.
func (a *App) Catalog() *catalog.Loaded { return a.catalog }

// Engine returns the engine.
func (a *App) Engine() *engine.Engine { return a.engine }

// Codec returns the recipe file codec.
func (a *App) Codec() *recipefile.Codec { return a.codec }

// OpenRecipe reads the recipe at path and loads it into the engine.
func (a *App) OpenRecipe(path string) (*analyzer.Snapshot, error) {
	a.logger.Debug("Opening recipe.", "path", path)
	r, err := a.codec.ReadFile(path)
	if err != nil {
		return nil, err
	}
	snap, err := a.engine.LoadRecipe(r)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Recipe analyzed.",
		"path", path,
		"steps", snap.StepCount(),
		"valid", snap.IsValid(),
		"total_duration", snap.TotalDuration(),
	)
	return snap, nil
}

// ActionName resolves the catalog name of the action selected by step. It
// falls back to the raw id, or "?" when the step carries no action.
func (a *App) ActionName(step recipe.Step) string {
	id, err := step.ActionID(a.engine.Config().ActionColumn)
	if err != nil {
		return "?"
	}
	def, err := a.catalog.Actions.ByID(id)
	if err != nil {
		return strconv.Itoa(int(id))
	}
	return def.Name
}

// Comment returns the step's comment column, or "" when it has none.
func (a *App) Comment(step recipe.Step) string {
	p, ok := step.Property(a.engine.Config().CommentColumn)
	if !ok {
		return ""
	}
	return p.Value().String()
}
