package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zhuwx/dailybrief/internal/ai"
	"github.com/zhuwx/dailybrief/internal/config"
	"github.com/zhuwx/dailybrief/internal/feed"
	"github.com/zhuwx/dailybrief/internal/market"
	"github.com/zhuwx/dailybrief/internal/notify"
	"github.com/zhuwx/dailybrief/internal/report"
	"github.com/zhuwx/dailybrief/internal/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "dailybrief",
	Short: "Generate and deliver the daily financial briefing",
	Long: `dailybrief runs one briefing cycle: it fetches quotes and news from the
configured sources, builds the digest, generates the report with Gemini,
persists it and emails it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (optional)")
	rootCmd.SilenceUsage = true
}

func run(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogging(cfg.Logging)

	loc, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Report.Timezone, err)
	}

	client := &http.Client{Timeout: 30 * time.Second}

	sources, err := market.DefaultSources(client, loc)
	if err != nil {
		return fmt.Errorf("build quote sources: %w", err)
	}
	quotes := market.NewFetcher(sources...)
	news := feed.NewAggregator(client, feed.DefaultSources(), 15*time.Second)

	generator, err := ai.NewGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return fmt.Errorf("build generator: %w", err)
	}

	reportStore, err := store.NewStore(cfg.Report.Dir)
	if err != nil {
		return fmt.Errorf("build report store: %w", err)
	}

	sender := notify.NewEmailSender(notify.EmailConfig{
		SMTPServer: cfg.SMTP.Server,
		SMTPPort:   cfg.SMTP.Port,
		SMTPUser:   cfg.SMTP.User,
		SMTPPass:   cfg.SMTP.Pass,
		FromEmail:  cfg.SMTP.From,
		ToEmail:    cfg.SMTP.To,
		Enabled:    cfg.SMTP.Enabled(),
	})

	pipeline := report.NewPipeline(
		quotes,
		news,
		generator,
		reportStore,
		notify.NewHTMLEmailRenderer(),
		sender,
		cfg.Report.KnowledgeDir,
		loc,
	)

	log.Info("Starting daily briefing cycle")
	result, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}
	log.Infof("Briefing cycle complete (report: %s, delivered: %t)", result.ReportPath, result.Delivered)
	return nil
}

func setupLogging(cfg config.LoggingConfig) {
	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05"})
	}
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("Briefing failed: %v", err)
		os.Exit(1)
	}
}
