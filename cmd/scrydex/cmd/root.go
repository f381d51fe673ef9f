package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/manabase/scrydex"
	"github.com/manabase/scrydex/pkg/logging"
)

var (
	configFile   string
	outputFormat string
	verbose      bool
	quiet        bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "scrydex",
	Short: "Offline card catalog and lookup",
	Long: `Scrydex keeps a local snapshot of the full card database and answers
name, printing, and fuzzy lookups against it offline.

Run "scrydex refresh" once to download the catalog; until then, lookups
fall back to the card data API per query.`,
	SilenceUsage: true,
}

// Execute runs the root command with signal-aware context.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.scrydex.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "warnings and errors only")

	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the catalog snapshot")
	rootCmd.PersistentFlags().Bool("no-fallback", false, "disable network fallback for lookups")

	cobra.CheckErr(viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir")))
	cobra.CheckErr(viper.BindPFlag("no_fallback", rootCmd.PersistentFlags().Lookup("no-fallback")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".scrydex")
	}

	// .env before viper env binding so both see the same environment
	_ = godotenv.Load(".env")

	viper.SetEnvPrefix("SCRYDEX")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err == nil && verbose {
		rootCmd.PrintErrln("Using config file:", viper.ConfigFileUsed())
	}

	configureLogging()
}

// configureLogging sets up the logging system based on flags and environment.
func configureLogging() {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if quiet {
		level = zerolog.WarnLevel
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}

	logging.Configure(&logging.Config{
		Level:     level.String(),
		Format:    os.Getenv("LOG_FORMAT"),
		AddCaller: level <= zerolog.DebugLevel,
	})
}

// newScrydex builds a library instance from the resolved configuration.
func newScrydex() (scrydex.Scrydex, error) {
	var opts []scrydex.Option

	if dir := viper.GetString("data_dir"); dir != "" {
		opts = append(opts, scrydex.WithDataDir(dir))
	}
	if viper.GetBool("no_fallback") {
		opts = append(opts, scrydex.WithRemoteFallback(false))
	}
	if url := viper.GetString("api_url"); url != "" {
		opts = append(opts, scrydex.WithBaseURL(url))
	}

	return scrydex.New(opts...)
}
