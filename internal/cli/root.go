// Package cli provides the command-line interface for the journal bot.
package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Arabx-yung/trade-bot/internal/bot"
	"github.com/Arabx-yung/trade-bot/internal/calendar"
	"github.com/Arabx-yung/trade-bot/internal/config"
	errs "github.com/Arabx-yung/trade-bot/internal/errors"
	"github.com/Arabx-yung/trade-bot/internal/logging"
	"github.com/Arabx-yung/trade-bot/internal/store"
	"github.com/Arabx-yung/trade-bot/internal/telegram"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-01-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command for the CLI. Configuration is
// loaded in the persistent pre-run so the --config flag is honored for
// every subcommand.
func NewRootCmd() *cobra.Command {
	app := &App{}

	rootCmd := &cobra.Command{
		Use:   "tradebot",
		Short: "Telegram trade journal bot",
		Long: `Tradebot is a Telegram bot that walks a trader through a weighted
pre-trade checklist, tracks pending positions in SQLite, and posts
closed trades to a journal channel.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}
			app.Config = cfg
			app.Logger = logging.NewLogger(cfg.Log)

			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradebot)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newRunCmd(app))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))

	return rootCmd
}

func newRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the bot and poll for updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if cfg.Telegram.BotToken == "" {
				return fmt.Errorf("telegram.bot_token is not set (or BOT_TOKEN env)")
			}
			if cfg.Journal.ChatID == 0 {
				return fmt.Errorf("journal.chat_id is not set (or JOURNAL_CHAT_ID env)")
			}

			st, err := store.NewSQLiteStore(cfg.Storage.DBPath)
			if err != nil {
				return errs.Wrap(err, "opening store")
			}
			defer st.Close()
			app.Logger.Info().Str("db", cfg.Storage.DBPath).Msg("store opened")

			client := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.PollTimeout)
			cal := calendar.NewClient(cfg.Calendar.APIKey, cfg.Calendar.BaseURL)

			b := bot.New(client, st, cal, cfg.Journal.ChatID, cfg.Location(), app.Logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = b.Run(ctx, client, cfg.Telegram.PollTimeout)
			if err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Tradebot v%s\n", Version)
			fmt.Printf("Build date: %s\n", BuildDate)
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := app.Config
			fmt.Println("Telegram")
			fmt.Printf("  Poll timeout: %ds\n", cfg.Telegram.PollTimeout)
			fmt.Printf("  Token set:    %t\n", cfg.Telegram.BotToken != "")
			fmt.Println("Journal")
			fmt.Printf("  Chat ID:  %d\n", cfg.Journal.ChatID)
			fmt.Printf("  Timezone: %s\n", cfg.Journal.Timezone)
			fmt.Println("Storage")
			fmt.Printf("  DB path: %s\n", cfg.Storage.DBPath)
			fmt.Println("Calendar")
			fmt.Printf("  Feed enabled: %t\n", cfg.Calendar.APIKey != "")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.DefaultConfigDir())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Config.Validate(); err != nil {
				return err
			}
			fmt.Println("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}
