// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/statement-csv/internal/config"
	"fjacquet/statement-csv/internal/container"
	"fjacquet/statement-csv/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

var (
	// Log is the shared logger instance for commands. It is replaced by the
	// configured logger once the container is built.
	Log = logging.Default()

	// AppConfig is the configuration loaded before any subcommand runs.
	AppConfig *config.Config

	// AppContainer holds the wired pipeline for subcommands.
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "statement-csv",
		Short: "A CLI tool to normalize multi-section bank statement CSV files.",
		Long: `statement-csv converts bank and credit-card statement exports into one
standard eight-column CSV (or XLSX). It follows Domestic/International
banners, cardholder rows and repeated column headers inside a single file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to statement-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: initialize,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				if err := AppContainer.Close(); err != nil {
					Log.WithError(err).Warn("Failed to close container")
				}
			}
		},
	}

	// SharedFlags holds the values of the persistent flags.
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input statement (.csv)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default is $HOME/.statement-csv/config.yaml)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text, json)")
}

// initialize loads configuration and builds the container once per run.
func initialize(cmd *cobra.Command, args []string) error {
	cfg, err := config.InitializeConfigFrom(SharedFlags.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.LogFormat != "" {
		cfg.Log.Format = SharedFlags.LogFormat
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	Log = c.GetLogger()
	Log.Debug("Configuration loaded",
		logging.F("log_level", cfg.Log.Level),
		logging.F("cardholders", cfg.Identity.Cardholders),
		logging.F("reference_file", cfg.Reference.File))
	return nil
}

// GetContainer returns the container built by the pre-run hook, building
// one from defaults when a command runs outside Execute (e.g. in tests).
func GetContainer() (*container.Container, error) {
	if AppContainer != nil {
		return AppContainer, nil
	}
	cfg := AppConfig
	if cfg == nil {
		cfg = config.Default()
	}
	c, err := container.NewContainer(cfg)
	if err != nil {
		return nil, err
	}
	AppConfig = cfg
	AppContainer = c
	return c, nil
}
