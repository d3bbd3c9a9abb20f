package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campus-ops/nudge-cli/internal/compose"
	"github.com/campus-ops/nudge-cli/internal/model"
	"github.com/campus-ops/nudge-cli/internal/nudge"
	"github.com/campus-ops/nudge-cli/internal/pipeline"
	"github.com/campus-ops/nudge-cli/internal/resilience"
	"github.com/campus-ops/nudge-cli/internal/roster"
	"github.com/campus-ops/nudge-cli/internal/strategy"
	anthropicpkg "github.com/campus-ops/nudge-cli/pkg/anthropic"
)

var (
	runFile    string
	runOut     string
	runOffline bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a roster file and generate outreach emails",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		registry, err := initRegistry()
		if err != nil {
			return err
		}

		st, err := initNudgeStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		loader := roster.NewLoader(registry, cfg.Roster.SheetIndex, cfg.Roster.SheetName)
		engine, composer := buildEngines(runOffline)

		// Progress goes to stderr as JSON lines so stdout stays parseable.
		progressEnc := json.NewEncoder(os.Stderr)
		progress := model.ProgressFunc(func(ev model.ProgressEvent) {
			_ = progressEnc.Encode(ev)
		})

		p := pipeline.New(registry, loader, engine, composer, pipeline.Options{
			Concurrency: cfg.Pipeline.RecordConcurrency,
			Progress:    progress,
			Nudges:      st,
			Policy:      nudge.NewPolicy(cfg.Nudge.MaxLevel, cfg.Nudge.CooldownDays),
		})

		report, err := p.Run(ctx, runFile)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		if runOut != "" {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return eris.Wrap(err, "marshal report")
			}
			if err := os.WriteFile(runOut, data, 0o644); err != nil {
				return eris.Wrapf(err, "write report %s", runOut)
			}
			zap.L().Info("report written", zap.String("file", runOut))
			fmt.Print(pipeline.FormatReport(report))
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

// buildEngines wires the strategy engine and composer. Without an API key
// (or with --offline) both run on their deterministic paths.
func buildEngines(offline bool) (strategy.Engine, compose.Composer) {
	bands := strategy.Bands{
		UrgentBelow: cfg.Scoring.UrgentBelow,
		FriendlyAt:  cfg.Scoring.FriendlyAt,
	}
	tmpl := compose.NewTemplate(cfg.Outreach.FromName, cfg.Outreach.FormURL)

	if offline || cfg.Anthropic.Key == "" {
		zap.L().Info("running in offline mode, using deterministic strategy and template emails")
		return strategy.NewFallback(bands), tmpl
	}

	retry := resilience.DefaultRetryConfig()
	if cfg.Anthropic.MaxRetries > 0 {
		retry.MaxAttempts = cfg.Anthropic.MaxRetries + 1
	}
	timeout := time.Duration(cfg.Anthropic.TimeoutSecs) * time.Second

	client := anthropicpkg.NewClient(cfg.Anthropic.Key)
	engine := strategy.NewAIEngine(client, strategy.AIOptions{
		Model:   cfg.Anthropic.Model,
		Timeout: timeout,
		Retry:   retry,
		Bands:   bands,
	})
	composer := compose.NewAIComposer(client, tmpl, compose.AIOptions{
		Model:   cfg.Anthropic.Model,
		Timeout: timeout,
		Retry:   retry,
	})
	return engine, composer
}

func init() {
	runCmd.Flags().StringVar(&runFile, "file", "", "roster spreadsheet, .xlsx or .csv (required)")
	runCmd.Flags().StringVar(&runOut, "out", "", "write the JSON run report to this file")
	runCmd.Flags().BoolVar(&runOffline, "offline", false, "skip the decision/content services, use deterministic paths")
	_ = runCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(runCmd)
}
