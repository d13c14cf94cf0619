package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"notice-guard/api/internal/config"
	"notice-guard/api/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	provider   string
	logLevel   string
}

// Populated by PersistentPreRunE for every subcommand.
var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "noticeguard",
	Short: "Public-opinion risk check for campus notices",
	Long: `noticeguard scores the public-opinion risk of a campus notice, simulates
how student groups would react and proposes three rewrites.

Configuration is read from defaults, then the YAML file named by --config
(or $NOTICE_GUARD_CONFIG), then environment variables.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", os.Getenv("NOTICE_GUARD_CONFIG"), "Path to YAML config file")
	pf.StringVar(&rootFlags.provider, "provider", "", "Generator: deepseek | openai | gemini | none (default from config)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(botCmd)
	rootCmd.Version = version
}

func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(rootFlags.configPath)
	if err != nil {
		return err
	}
	if p := strings.ToLower(strings.TrimSpace(rootFlags.provider)); p != "" {
		c.Provider = p
	}
	if rootFlags.logLevel != "" {
		c.LogLevel = rootFlags.logLevel
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	l, err := logging.New(c.LogLevel, c.LogFormat)
	if err != nil {
		return err
	}
	cfg, logger = c, l
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
