package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/osg/internal/output"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui *output.UI

	verbose bool
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "osg",
	Short: "Open Source Ghana - browse and add projects to the showcase",
	Long: `osg is the front end of the Open Source Ghana project showcase.
It lists the projects stored by the showcase backend, previews GitHub
repositories, and submits new ones. Run 'osg serve' for the web page,
'osg tui' for the terminal browser, or 'osg mcp' for agent tooling.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		// Flag errors fail before initDeps runs.
		if ui == nil {
			ui = output.New()
		}
		ui.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	// Bare `osg` shows the showcase.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return listRun(cmd)
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/osg/config.yaml)")
	rootCmd.PersistentFlags().String("site", "", "Page URL the backend is resolved for (overrides site.url)")
	_ = viper.BindPFlag("site.url", rootCmd.PersistentFlags().Lookup("site"))
}

func initConfig() {
	// A local .env is optional.
	_ = godotenv.Load()

	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := configDirFunc()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("OSG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("github.token", "OSG_GITHUB_TOKEN", "GITHUB_TOKEN")

	setDefaults()

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

// setDefaults registers every config key's default with viper.
func setDefaults() {
	viper.SetDefault("backend.local_url", "http://localhost:8080")
	viper.SetDefault("backend.production_url", "")
	viper.SetDefault("backend.force_production", false)
	viper.SetDefault("backend.fallback", true)
	viper.SetDefault("github.api_url", "https://api.github.com/")
	viper.SetDefault("github.token", "")
	viper.SetDefault("site.url", "http://localhost:3000")
	viper.SetDefault("port", 3000)
	viper.SetDefault("http.timeout", "0s")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun

	configureLogging(os.Stderr)
}

// configDirFunc returns the config directory path, replaceable in tests.
var configDirFunc = defaultConfigDir

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "osg"), nil
}
