/*
Package config loads the application configuration once at process start. It
supports a YAML config file with environment variable overrides; there is no
package-level mutable state.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete application configuration, constructed once and
// passed by reference into the pipeline and its collaborators.
type Config struct {
	Gemini  GeminiConfig  `mapstructure:"gemini"`
	SMTP    SMTPConfig    `mapstructure:"smtp"`
	Report  ReportConfig  `mapstructure:"report"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GeminiConfig holds the generative backend settings.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// SMTPConfig holds delivery settings. Delivery is optional: with no user
// configured the sender is disabled and the cycle still produces the report.
type SMTPConfig struct {
	Server string `mapstructure:"server"`
	Port   int    `mapstructure:"port"`
	User   string `mapstructure:"user"`
	Pass   string `mapstructure:"pass"`
	To     string `mapstructure:"to"`
	From   string `mapstructure:"from"`
}

// Enabled reports whether delivery is configured.
func (s SMTPConfig) Enabled() bool {
	return s.Server != "" && s.User != "" && s.Pass != "" && s.To != ""
}

// ReportConfig holds persistence and cycle settings.
type ReportConfig struct {
	Dir          string `mapstructure:"dir"`
	KnowledgeDir string `mapstructure:"knowledge_dir"`
	Timezone     string `mapstructure:"timezone"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the config file at path (optional) and applies env overrides. The
// env names mirror the job's historical deployment variables, e.g.
// GEMINI_API_KEY, EMAIL_USER, EMAIL_PASS, EMAIL_TO, SMTP_SERVER, SMTP_PORT,
// REPORT_DIR, KNOWLEDGE_DIR.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("gemini.model", "gemini-2.5-pro")
	v.SetDefault("smtp.server", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("report.dir", "./AI_Reports")
	v.SetDefault("report.knowledge_dir", "")
	v.SetDefault("report.timezone", "Asia/Shanghai")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindings := map[string]string{
		"gemini.api_key":       "GEMINI_API_KEY",
		"gemini.model":         "GEMINI_MODEL",
		"smtp.server":          "SMTP_SERVER",
		"smtp.port":            "SMTP_PORT",
		"smtp.user":            "EMAIL_USER",
		"smtp.pass":            "EMAIL_PASS",
		"smtp.to":              "EMAIL_TO",
		"smtp.from":            "EMAIL_FROM",
		"report.dir":           "REPORT_DIR",
		"report.knowledge_dir": "KNOWLEDGE_DIR",
		"report.timezone":      "REPORT_TIMEZONE",
		"logging.level":        "LOG_LEVEL",
		"logging.format":       "LOG_FORMAT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}
	return &cfg, nil
}
