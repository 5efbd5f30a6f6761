package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or manage configuration",
	Long: `Show or manage osg configuration.

Running bare 'osg config' is the same as 'osg config show'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config file with commented defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitRun()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration with sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configEditRun()
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

// configTemplate is the template for generating config.yaml with comments.
const configTemplate = `# osg configuration
# See: osg config show (for effective values and sources)

# Showcase backend
backend:
  # Used when the page is served from localhost or 127.0.0.1
  local_url: "{{ .LocalURL }}"

  # Used everywhere else; empty means the page's own origin
  production_url: "{{ .ProductionURL }}"

  # Always use production_url, even on localhost (default: false)
  force_production: {{ .ForceProduction }}

  # Retry alternate origins after a connection failure (default: true)
  fallback: {{ .Fallback }}

# GitHub
github:
  # REST API root (default: https://api.github.com/)
  api_url: "{{ .GitHubAPIURL }}"

  # Optional token for a higher rate limit (GITHUB_TOKEN also works)
  # token: ""

# Page URL that list, add, tui and mcp resolve the backend for
site:
  url: "{{ .SiteURL }}"

# Web server port for 'osg serve' (default: 3000)
port: {{ .Port }}

http:
  # Request timeout, e.g. "15s"; "0s" means none
  timeout: "{{ .HTTPTimeout }}"

log:
  # debug, info, warn, error
  level: "{{ .LogLevel }}"
  # text or json
  format: "{{ .LogFormat }}"
`

type configTemplateData struct {
	LocalURL        string
	ProductionURL   string
	ForceProduction bool
	Fallback        bool
	GitHubAPIURL    string
	SiteURL         string
	Port            int
	HTTPTimeout     string
	LogLevel        string
	LogFormat       string
}

func configFilePath() (string, error) {
	dir, err := configDirFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func configInitRun() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	// Check if file already exists
	if _, err := os.Stat(cfgPath); err == nil {
		if !configForce {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", cfgPath)
		}
		ui.Warning("Overwriting existing config file")
	}

	// Build template data from current viper values
	data := configTemplateData{
		LocalURL:        viper.GetString("backend.local_url"),
		ProductionURL:   viper.GetString("backend.production_url"),
		ForceProduction: viper.GetBool("backend.force_production"),
		Fallback:        viper.GetBool("backend.fallback"),
		GitHubAPIURL:    viper.GetString("github.api_url"),
		SiteURL:         viper.GetString("site.url"),
		Port:            viper.GetInt("port"),
		HTTPTimeout:     viper.GetDuration("http.timeout").String(),
		LogLevel:        viper.GetString("log.level"),
		LogFormat:       viper.GetString("log.format"),
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("template execute error: %w", err)
	}

	if dryRun {
		ui.DryRunMsg("Would create config file: %s", cfgPath)
		fmt.Fprintln(ui.Out)
		fmt.Fprint(ui.Out, buf.String())
		return nil
	}

	// Create config directory
	dir := filepath.Dir(cfgPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(cfgPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	ui.Success("Config file created: %s", cfgPath)
	fmt.Fprintln(ui.Out)
	fmt.Fprint(ui.Out, buf.String())
	return nil
}

// configKeyInfo describes a config key for display purposes.
type configKeyInfo struct {
	Key    string
	EnvVar string
	Secret bool
}

var configKeys = []configKeyInfo{
	{Key: "backend.local_url", EnvVar: "OSG_BACKEND_LOCAL_URL"},
	{Key: "backend.production_url", EnvVar: "OSG_BACKEND_PRODUCTION_URL"},
	{Key: "backend.force_production", EnvVar: "OSG_BACKEND_FORCE_PRODUCTION"},
	{Key: "backend.fallback", EnvVar: "OSG_BACKEND_FALLBACK"},
	{Key: "github.api_url", EnvVar: "OSG_GITHUB_API_URL"},
	{Key: "github.token", EnvVar: "OSG_GITHUB_TOKEN", Secret: true},
	{Key: "site.url", EnvVar: "OSG_SITE_URL"},
	{Key: "port", EnvVar: "OSG_PORT"},
	{Key: "http.timeout", EnvVar: "OSG_HTTP_TIMEOUT"},
	{Key: "log.level", EnvVar: "OSG_LOG_LEVEL"},
	{Key: "log.format", EnvVar: "OSG_LOG_FORMAT"},
}

func configShowRun() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	// Check if config file exists
	if _, err := os.Stat(cfgPath); err == nil {
		ui.Info("Config file: %s", cfgPath)
	} else {
		ui.Info("Config file: (none)")
	}
	fmt.Fprintln(ui.Out)

	// Read config file values to determine file source
	fileValues := readConfigFileValues(cfgPath)

	for _, k := range configKeys {
		val := viper.Get(k.Key)
		if k.Secret && viper.GetString(k.Key) != "" {
			val = "********"
		}
		source := detectSource(k.Key, k.EnvVar, fileValues)
		fmt.Fprintf(ui.Out, "  %-24s %v  %s\n", k.Key, val, source)
	}

	return nil
}

// readConfigFileValues reads the raw YAML file and returns a flat map of keys present in it.
func readConfigFileValues(path string) map[string]bool {
	result := make(map[string]bool)

	data, err := os.ReadFile(path)
	if err != nil {
		return result
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return result
	}

	// Flatten nested keys with dot notation
	flattenKeys("", parsed, result)
	return result
}

// flattenKeys recursively flattens a nested map to dot-notation keys.
func flattenKeys(prefix string, m map[string]any, result map[string]bool) {
	for key, val := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flattenKeys(fullKey, nested, result)
		} else {
			result[fullKey] = true
		}
	}
}

// detectSource determines where a config value is coming from.
func detectSource(key, envVar string, fileValues map[string]bool) string {
	if _, ok := os.LookupEnv(envVar); ok {
		return fmt.Sprintf("(env: %s)", envVar)
	}
	if fileValues[key] {
		return "(file)"
	}
	return "(default)"
}

func configEditRun() error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		return fmt.Errorf("$EDITOR is not set; set it to your preferred editor (e.g. export EDITOR=vim)")
	}

	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s (run 'osg config init' first)", cfgPath)
	}

	if dryRun {
		ui.DryRunMsg("Would open %s in %s", cfgPath, editor)
		return nil
	}

	editCmd := exec.Command(editor, cfgPath)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	return editCmd.Run()
}
