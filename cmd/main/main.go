package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ecomm/datagen/internal/config"
	"ecomm/datagen/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("Application exited with error: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath  string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:           "ecomm-datagen",
		Short:         "Generate a synthetic e-commerce dataset with a language model",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				if err := promptSettings(cmd.Flags()); err != nil {
					return err
				}
			}
			return run(cmd.Context(), configPath, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "Path to a YAML config file (default ./config.yaml)")
	f.String("theme", "", "Marketplace theme")
	f.Int("categories", 0, "Number of top-level categories")
	f.Int("products", 0, "Number of products")
	f.Int("users", 0, "Number of user profiles")
	f.String("provider", "", "LLM provider: openai, anthropic, ollama or openrouter")
	f.String("model", "", "Model name")
	f.String("base-url", "", "Provider API base URL")
	f.Int("timeout", 0, "Per-call timeout in seconds")
	f.StringP("output", "o", "", "Output file (default stdout)")
	f.String("format", "", "Output format: json or yaml")
	f.String("log-level", "", "Log level")
	f.BoolVarP(&interactive, "interactive", "i", false, "Fill theme and counts in an interactive form")

	return cmd
}

func run(ctx context.Context, configPath string, cmd *cobra.Command) error {
	log.Info("Starting eComm data generator...")

	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := setupLogging(cfg.Log); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log.Info("Configuration loaded successfully")

	app, err := container.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		return err
	}

	log.Info("Application finished successfully")
	return nil
}

func setupLogging(cfg config.LogConfig) error {
	if cfg.Level != "" {
		level, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		log.SetLevel(level)
	}

	switch cfg.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
