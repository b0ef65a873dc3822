package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/zulandar/quotewire/internal/channel"
	"github.com/zulandar/quotewire/internal/config"
	"github.com/zulandar/quotewire/internal/conversation"
	"github.com/zulandar/quotewire/internal/db"
	"github.com/zulandar/quotewire/internal/extract"
	"github.com/zulandar/quotewire/internal/fallback"
	"github.com/zulandar/quotewire/internal/models"
	"github.com/zulandar/quotewire/internal/notify"
	"github.com/zulandar/quotewire/internal/quote"
	"github.com/zulandar/quotewire/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		exportDir  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server and background janitor",
		Long: `Starts the HTTP server that receives voice and chat webhooks, plus the
scheduled janitor that abandons stale sessions, archives old ones, and
writes a daily quotation export.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, exportDir)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Quotewire config file")
	cmd.Flags().StringVar(&exportDir, "export-dir", "exports", "directory for daily quotation exports")
	return cmd
}

func runServe(cmd *cobra.Command, configPath, exportDir string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.Database.Database, err)
	}

	engine, coordinator, notifier, err := buildEngine(cfg, gormDB)
	if err != nil {
		return err
	}

	var chat channel.ChatTransport
	if cfg.Transport.AccountSID != "" {
		tw, err := channel.NewTwilio(channel.TwilioOpts{Config: cfg.Transport})
		if err != nil {
			return err
		}
		chat = tw
	} else {
		fmt.Fprintln(out, "No transport credentials configured; chat fallback dispatch disabled")
	}

	srv, err := server.New(server.Opts{
		DB:          gormDB,
		Engine:      engine,
		Coordinator: coordinator,
		Chat:        chat,
		Notifier:    notifier,
		Port:        cfg.Server.Port,
		Out:         out,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	janitor := startJanitor(gormDB, exportDir)
	defer janitor.Stop()

	return srv.Run(ctx)
}

// buildEngine assembles the extraction, conversation, and notification
// stack from config. Missing AI credentials degrade to the heuristic
// extractor and canned responses rather than failing startup.
func buildEngine(cfg *config.Config, gormDB *gorm.DB) (*conversation.Engine, *fallback.Coordinator, notify.Notifier, error) {
	heuristic := extract.NewHeuristic(cfg.Extract)

	var client extract.Client
	if cfg.Extract.APIKey != "" {
		g, err := extract.NewGemini(extract.GeminiOpts{
			APIKey: cfg.Extract.APIKey,
			Model:  cfg.Extract.Model,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		client = g
	} else {
		log.Printf("qw: no extraction api key configured, running on fallback extraction only")
	}

	adapter, err := extract.NewAdapter(extract.AdapterOpts{
		Client:     client,
		Heuristic:  heuristic,
		MaxRetries: cfg.Extract.MaxRetries,
		RetryDelay: time.Duration(cfg.Extract.RetryDelaySec) * time.Second,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	var generator conversation.Generator
	if client != nil {
		generator = conversation.NewAIGenerator(client)
	} else {
		generator = conversation.NewTemplateGenerator()
	}

	notifier, err := buildNotifier(cfg.Notify)
	if err != nil {
		return nil, nil, nil, err
	}

	var engineNotifier conversation.Notifier
	if notifier != nil {
		engineNotifier = notifier
	}
	engine, err := conversation.NewEngine(conversation.EngineOpts{
		Store:     conversation.NewStore(),
		Adapter:   adapter,
		Generator: generator,
		DB:        gormDB,
		Notifier:  engineNotifier,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	coordinator, err := fallback.NewCoordinator(gormDB, generator)
	if err != nil {
		return nil, nil, nil, err
	}
	return engine, coordinator, notifier, nil
}

// buildNotifier wires the configured ops channels. Returns nil when none
// are configured.
func buildNotifier(cfg config.NotifyConfig) (notify.Notifier, error) {
	var targets notify.Multi
	if cfg.SlackToken != "" && cfg.SlackChannel != "" {
		s, err := notify.NewSlack(notify.SlackOpts{BotToken: cfg.SlackToken, ChannelID: cfg.SlackChannel})
		if err != nil {
			return nil, err
		}
		targets = append(targets, s)
	}
	if cfg.DiscordToken != "" && cfg.DiscordChannel != "" {
		d, err := notify.NewDiscord(notify.DiscordOpts{BotToken: cfg.DiscordToken, ChannelID: cfg.DiscordChannel})
		if err != nil {
			return nil, err
		}
		targets = append(targets, d)
	}
	if len(targets) == 0 {
		return nil, nil
	}
	return targets, nil
}

const (
	sessionStaleAfter   = 2 * time.Hour
	sessionArchiveAfter = 7 * 24 * time.Hour
)

// startJanitor schedules the recurring maintenance jobs.
func startJanitor(gormDB *gorm.DB, exportDir string) *cron.Cron {
	c := cron.New()

	c.AddFunc("@every 30m", func() {
		if n, err := db.AbandonStaleSessions(gormDB, sessionStaleAfter); err != nil {
			log.Printf("qw: janitor: %v", err)
		} else if n > 0 {
			log.Printf("qw: janitor: abandoned %d stale sessions", n)
		}
		if n, err := db.ArchiveCompletedSessions(gormDB, sessionArchiveAfter); err != nil {
			log.Printf("qw: janitor: %v", err)
		} else if n > 0 {
			log.Printf("qw: janitor: archived %d sessions", n)
		}
	})

	c.AddFunc("@daily", func() {
		if err := writeDailyExport(gormDB, exportDir); err != nil {
			log.Printf("qw: janitor: %v", err)
		}
	})

	c.Start()
	return c
}

// writeDailyExport dumps all quotation records to a dated CSV file.
func writeDailyExport(gormDB *gorm.DB, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	var records []models.Quotation
	if err := gormDB.Preload("Items").Order("created_at ASC").Find(&records).Error; err != nil {
		return fmt.Errorf("load quotations: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("quotations-%s.csv", time.Now().Format("2006-01-02")))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := quote.ExportCSV(f, records); err != nil {
		return err
	}
	log.Printf("qw: janitor: wrote %d quotations to %s", len(records), path)
	return nil
}
