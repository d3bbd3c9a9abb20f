package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campus-ops/nudge-cli/internal/dispatch"
	"github.com/campus-ops/nudge-cli/internal/model"
	"github.com/campus-ops/nudge-cli/pkg/sendgrid"
)

var (
	sendReport string
	sendDryRun bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Dispatch the emails from a run report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(sendReport)
		if err != nil {
			return eris.Wrapf(err, "read report %s", sendReport)
		}
		var report model.RunReport
		if err := json.Unmarshal(data, &report); err != nil {
			return eris.Wrap(err, "parse report")
		}
		if len(report.Emails) == 0 {
			zap.L().Info("no emails to dispatch", zap.String("run_id", report.RunID))
			return nil
		}

		st, err := initNudgeStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		transport := buildTransport(sendDryRun)
		coordinator := dispatch.NewCoordinator(transport, dispatch.CoordinatorOptions{
			FromName:    cfg.Outreach.FromName,
			FromAddress: cfg.Outreach.FromEmail,
			Nudges:      st,
			Concurrency: cfg.Dispatch.Concurrency,
			RatePerSec:  cfg.Dispatch.RatePerSec,
		})

		result := coordinator.Send(ctx, report.Emails)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// buildTransport picks the delivery path: dry-run, SendGrid when a key is
// configured, SMTP otherwise.
func buildTransport(dryRun bool) dispatch.Transport {
	if dryRun {
		return dispatch.DryRunTransport{}
	}
	if cfg.Sendgrid.Key != "" {
		opts := []sendgrid.Option{}
		if cfg.Sendgrid.BaseURL != "" {
			opts = append(opts, sendgrid.WithBaseURL(cfg.Sendgrid.BaseURL))
		}
		return dispatch.NewSendGrid(sendgrid.NewClient(cfg.Sendgrid.Key, opts...))
	}
	zap.L().Info("no sendgrid key configured, falling back to smtp",
		zap.String("host", cfg.SMTP.Host),
		zap.Int("port", cfg.SMTP.Port),
	)
	return dispatch.NewSMTP(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
}

func init() {
	sendCmd.Flags().StringVar(&sendReport, "report", "", "JSON run report produced by the run command (required)")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "log instead of sending, count every message as sent")
	_ = sendCmd.MarkFlagRequired("report")
	rootCmd.AddCommand(sendCmd)
}
