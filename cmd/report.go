package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/anastasiapeachy/pagewatch/internal/clock"
	"github.com/anastasiapeachy/pagewatch/internal/crawler"
	"github.com/anastasiapeachy/pagewatch/internal/notifier"
	"github.com/anastasiapeachy/pagewatch/internal/notion"
	"github.com/anastasiapeachy/pagewatch/internal/report"
)

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Write a CSV of pages not edited within the stale threshold.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Notion.Token == "" {
				return fmt.Errorf("notion.token is required (PAGEWATCH_NOTION_TOKEN)")
			}
			if cfg.Notion.RootPageID == "" {
				return fmt.Errorf("notion.root_page_id is required (PAGEWATCH_NOTION_ROOT_PAGE_ID)")
			}

			store, err := notion.NewStore(cfg.Notion.Token)
			if err != nil {
				return fmt.Errorf("build notion client: %w", err)
			}

			// The channel summary is optional for reports; without a
			// webhook the CSV is still written.
			var poster report.TextPoster
			if cfg.Slack.WebhookURL != "" {
				hook, err := notifier.NewSlackWebhook(cfg.Slack.WebhookURL)
				if err != nil {
					return fmt.Errorf("build slack webhook: %w", err)
				}
				poster = hook
			}

			walker := crawler.New(store, crawler.Config{
				PageSize: cfg.Notion.PageSize,
				MaxDepth: cfg.Crawler.MaxDepth,
			}, logger)

			rep := report.New(walker, poster, clock.New(), report.Config{
				RootID:     cfg.Notion.RootPageID,
				Threshold:  cfg.ReportThreshold(),
				OutputPath: cfg.Report.Output,
			}, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			stale, err := rep.Run(ctx)
			if err != nil {
				return err
			}
			logger.Info("report complete",
				zap.Int("stale_pages", len(stale)),
				zap.String("output", cfg.Report.Output))
			return nil
		},
	}
}
