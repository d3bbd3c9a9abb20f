package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campus-ops/nudge-cli/internal/model"
	"github.com/campus-ops/nudge-cli/internal/nudge"
)

// initRegistry builds the field registry, applying the alias override file
// when one is configured. Ambiguous aliases fail here, before any roster
// data is read.
func initRegistry() (*model.FieldRegistry, error) {
	if cfg.Roster.AliasFile != "" {
		registry, err := model.LoadRegistryFile(cfg.Roster.AliasFile)
		if err != nil {
			return nil, eris.Wrapf(err, "load alias file %s", cfg.Roster.AliasFile)
		}
		zap.L().Info("registry loaded from alias file",
			zap.String("file", cfg.Roster.AliasFile),
			zap.Int("mandatory", len(registry.Mandatory())),
		)
		return registry, nil
	}
	return model.DefaultRegistry(), nil
}

// initNudgeStore opens the configured history backend and runs migrations.
func initNudgeStore(ctx context.Context) (nudge.Store, error) {
	var (
		st  nudge.Store
		err error
	)
	switch cfg.Store.Driver {
	case "postgres":
		st, err = nudge.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		st, err = nudge.NewSQLite(cfg.Store.Path)
	}
	if err != nil {
		return nil, eris.Wrap(err, "open nudge store")
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate nudge store")
	}
	return st, nil
}
