package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/agentstation/readmegen/internal/cmd/output"
	"github.com/agentstation/readmegen/pkg/constants"
	"github.com/agentstation/readmegen/pkg/errors"
	"github.com/agentstation/readmegen/pkg/readme"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Generation
	Path         string
	Command      []string
	Workdir      string
	Timeout      time.Duration
	PreambleFile string
	Footer       string

	// Preamble template
	LeadingBlank  bool
	Title         string
	BadgeAlt      string
	BadgeURL      string
	Description   []string
	UsageHeading  string
	Usage         string
	OutputHeading string

	// Watch mode
	WatchPaths    []string
	WatchDebounce time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// sources records where each setting came from (default, file, env, flag).
	sources map[string]string
}

// Config keys, shared by the config file, READMEGEN_* environment variables
// and the `config` command.
const (
	keyPath          = "path"
	keyCommand       = "command"
	keyWorkdir       = "workdir"
	keyTimeout       = "timeout"
	keyPreambleFile  = "preamble_file"
	keyFooter        = "footer"
	keyLeadingBlank  = "leading_blank"
	keyTitle         = "title"
	keyBadgeAlt      = "badge_alt"
	keyBadgeURL      = "badge_url"
	keyDescription   = "description"
	keyUsageHeading  = "usage_heading"
	keyUsage         = "usage"
	keyOutputHeading = "output_heading"
	keyWatchPaths    = "watch_paths"
	keyWatchDebounce = "watch_debounce"
)

// settingKeys is the display order of the `config` command.
var settingKeys = []string{
	keyPath, keyCommand, keyWorkdir, keyTimeout, keyPreambleFile, keyFooter,
	keyLeadingBlank, keyTitle, keyBadgeAlt, keyBadgeURL, keyDescription, keyUsageHeading, keyUsage,
	keyOutputHeading, keyWatchPaths, keyWatchDebounce,
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. READMEGEN_* environment variables
//  3. .env files
//  4. Config file (./.readmegen.yaml, ~/.readmegen.yaml, or configFile)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(constants.ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.WrapConfig("config file", err)
		}
	}

	timeout, err := durationSetting(v, keyTimeout)
	if err != nil {
		return nil, err
	}
	debounce, err := durationSetting(v, keyWatchDebounce)
	if err != nil {
		return nil, err
	}

	config := &Config{
		ConfigFile: v.ConfigFileUsed(),

		Path:         v.GetString(keyPath),
		Command:      v.GetStringSlice(keyCommand),
		Workdir:      v.GetString(keyWorkdir),
		Timeout:      timeout,
		PreambleFile: v.GetString(keyPreambleFile),
		Footer:       v.GetString(keyFooter),

		LeadingBlank:  v.GetBool(keyLeadingBlank),
		Title:         v.GetString(keyTitle),
		BadgeAlt:      v.GetString(keyBadgeAlt),
		BadgeURL:      v.GetString(keyBadgeURL),
		Description:   paragraphs(v.Get(keyDescription)),
		UsageHeading:  v.GetString(keyUsageHeading),
		Usage:         v.GetString(keyUsage),
		OutputHeading: v.GetString(keyOutputHeading),

		WatchPaths:    v.GetStringSlice(keyWatchPaths),
		WatchDebounce: debounce,

		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),

		sources: make(map[string]string, len(settingKeys)),
	}

	for _, key := range settingKeys {
		config.sources[key] = sourceOf(v, key)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// setDefaults registers the Advent of Code 2023 README settings.
func setDefaults(v *viper.Viper) {
	tmpl := readme.DefaultTemplate()

	v.SetDefault(keyPath, constants.DefaultReadmePath)
	v.SetDefault(keyCommand, strings.Fields(constants.DefaultCommand))
	v.SetDefault(keyWorkdir, "")
	v.SetDefault(keyTimeout, time.Duration(0))
	v.SetDefault(keyPreambleFile, "")
	v.SetDefault(keyFooter, constants.DefaultFooter)
	v.SetDefault(keyLeadingBlank, tmpl.LeadingBlank)
	v.SetDefault(keyTitle, tmpl.Title)
	v.SetDefault(keyBadgeAlt, tmpl.Badge.Alt)
	v.SetDefault(keyBadgeURL, tmpl.Badge.URL)
	v.SetDefault(keyDescription, tmpl.Description)
	v.SetDefault(keyUsageHeading, tmpl.Sections[0].Heading)
	v.SetDefault(keyUsage, tmpl.Sections[0].Body)
	v.SetDefault(keyOutputHeading, tmpl.OutputHeading)
	v.SetDefault(keyWatchPaths, constants.DefaultWatchPaths)
	v.SetDefault(keyWatchDebounce, constants.DefaultWatchDebounce)
}

// sourceOf reports which layer supplied key. Empty environment variables
// are ignored by viper, so they do not count.
func sourceOf(v *viper.Viper, key string) string {
	if os.Getenv(constants.EnvPrefix+"_"+strings.ToUpper(key)) != "" {
		return "env"
	}
	if v.InConfig(key) {
		return "file"
	}
	return "default"
}

// durationSetting reads key as a duration. Unlike viper's GetDuration it
// rejects values such as "2 minutes" instead of reading them as zero.
func durationSetting(v *viper.Viper, key string) (time.Duration, error) {
	d, err := cast.ToDurationE(v.Get(key))
	if err != nil {
		return 0, errors.WrapValidation(key, err)
	}
	return d, nil
}

// paragraphs reads the description setting. A YAML list gives one paragraph
// per item; a single string is split on blank lines.
func paragraphs(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		return splitParagraphs(v)
	default:
		return []string{fmt.Sprint(v)}
	}
}

func splitParagraphs(s string) []string {
	var out, lines []string
	flush := func() {
		if len(lines) > 0 {
			out = append(out, strings.Join(lines, "\n"))
			lines = nil
		}
	}
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		lines = append(lines, line)
	}
	flush()
	return out
}

// Validate checks values that would only fail later, after a long build.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return errors.NewValidationError(keyPath, c.Path, "cannot be empty")
	}
	if len(c.Command) == 0 || strings.TrimSpace(c.Command[0]) == "" {
		return errors.NewValidationError(keyCommand, c.Command, "cannot be empty")
	}
	if c.Timeout < 0 {
		return errors.NewValidationError(keyTimeout, c.Timeout, "cannot be negative")
	}
	if c.WatchDebounce < 0 {
		return errors.NewValidationError(keyWatchDebounce, c.WatchDebounce, "cannot be negative")
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// Template builds the preamble template from the configured fields.
func (c *Config) Template() readme.Template {
	t := readme.Template{
		LeadingBlank:  c.LeadingBlank,
		Title:         c.Title,
		Description:   c.Description,
		OutputHeading: c.OutputHeading,
	}
	if c.BadgeURL != "" {
		t.Badge = &readme.Badge{Alt: c.BadgeAlt, URL: c.BadgeURL}
	}
	if c.UsageHeading != "" || c.Usage != "" {
		t.Sections = []readme.Section{{Heading: c.UsageHeading, Body: c.Usage}}
	}
	return t
}

// Settings lists every setting with its value and source.
func (c *Config) Settings() []output.Setting {
	raw := map[string]any{
		keyPath:          c.Path,
		keyCommand:       c.Command,
		keyWorkdir:       c.Workdir,
		keyTimeout:       c.Timeout.String(),
		keyPreambleFile:  c.PreambleFile,
		keyFooter:        c.Footer,
		keyLeadingBlank:  c.LeadingBlank,
		keyTitle:         c.Title,
		keyBadgeAlt:      c.BadgeAlt,
		keyBadgeURL:      c.BadgeURL,
		keyDescription:   c.Description,
		keyUsageHeading:  c.UsageHeading,
		keyUsage:         c.Usage,
		keyOutputHeading: c.OutputHeading,
		keyWatchPaths:    c.WatchPaths,
		keyWatchDebounce: c.WatchDebounce.String(),
	}

	settings := make([]output.Setting, 0, len(settingKeys))
	for _, key := range settingKeys {
		source := c.sources[key]
		if source == "" {
			source = "default"
		}
		settings = append(settings, output.Setting{
			Key:    key,
			Value:  displayValue(key, raw[key]),
			Source: source,
			Raw:    raw[key],
		})
	}
	return settings
}

// displayValue renders a raw setting on one line.
func displayValue(key string, v any) string {
	switch v := v.(type) {
	case []string:
		if key == keyWatchPaths {
			return strings.Join(v, ", ")
		}
		return strings.Join(v, " ")
	case string:
		if key == keyFooter {
			return fmt.Sprintf("%q", v)
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}

// SetSource marks key as supplied by src (used for flag overrides).
func (c *Config) SetSource(key, src string) {
	if c.sources == nil {
		c.sources = make(map[string]string)
	}
	c.sources[key] = src
}

// loadEnvFiles loads environment variables from .env files.
// Variables already present in the environment are not overridden.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
