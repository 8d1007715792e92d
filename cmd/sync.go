package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/anastasiapeachy/pagewatch/internal/cache"
	"github.com/anastasiapeachy/pagewatch/internal/clock"
	"github.com/anastasiapeachy/pagewatch/internal/crawler"
	"github.com/anastasiapeachy/pagewatch/internal/notifier"
	"github.com/anastasiapeachy/pagewatch/internal/notion"
	"github.com/anastasiapeachy/pagewatch/internal/runner"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Crawl the page tree and notify about newly-eligible pages.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Notion.Token == "" {
				return fmt.Errorf("notion.token is required (PAGEWATCH_NOTION_TOKEN)")
			}
			if cfg.Notion.RootPageID == "" {
				return fmt.Errorf("notion.root_page_id is required (PAGEWATCH_NOTION_ROOT_PAGE_ID)")
			}
			if cfg.Slack.WebhookURL == "" {
				return fmt.Errorf("slack.webhook_url is required (PAGEWATCH_SLACK_WEBHOOK_URL)")
			}

			store, err := notion.NewStore(cfg.Notion.Token)
			if err != nil {
				return fmt.Errorf("build notion client: %w", err)
			}
			hook, err := notifier.NewSlackWebhook(cfg.Slack.WebhookURL)
			if err != nil {
				return fmt.Errorf("build slack webhook: %w", err)
			}

			walker := crawler.New(store, crawler.Config{
				PageSize: cfg.Notion.PageSize,
				MaxDepth: cfg.Crawler.MaxDepth,
			}, logger)
			sender := notifier.New(hook, cfg.Notifier.DelaySeconds, logger)
			cacheStore := cache.NewFileStore(cfg.Cache.Path, logger)

			run := runner.New(walker, sender, cacheStore, clock.New(), runner.Config{
				RootID:          cfg.Notion.RootPageID,
				MinAge:          cfg.MinAge(),
				PersistEachSend: cfg.Cache.PersistEachSend,
			}, logger)

			// SIGINT/SIGTERM stops delivery between sends; already-sent
			// state is persisted before exit.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			summary, err := run.Run(ctx)
			if err != nil {
				return err
			}
			if summary.Failed > 0 {
				logger.Warn("sync finished with delivery failures",
					zap.Int("failed", summary.Failed),
					zap.Int("sent", summary.Sent))
			}
			return nil
		},
	}
}
