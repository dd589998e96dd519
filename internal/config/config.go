// Query daemon and CLI configuration
package config

import (
	"encoding/json"
	"fmt"
	"msgidscope/internal/global"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // producers' zones must resolve on minimal hosts

	"gopkg.in/yaml.v3"
)

// Runtime configuration derived from the file layout in global.JSONConfig
type Config struct {
	ListenAddr     string
	ListenPort     int
	ReusePort      bool
	StreamOrigins  []string
	Location       *time.Location // legacy month start reconstruction
	MetricsEnabled bool
	MetricsPath    string
	OutputFormat   string // empty lets the CLI pick by terminal
	LogLevel       int
}

// Loads config from file, YAML when the extension says so and JSON otherwise
func LoadConfig(path string) (cfg global.JSONConfig, err error) {
	configFile, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed to read config file: %v", err)
		return
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(configFile, &cfg)
	default:
		err = json.Unmarshal(configFile, &cfg)
	}
	if err != nil {
		err = fmt.Errorf("invalid config syntax in '%s': %v", path, err)
		return
	}
	return
}

// Converts file config into runtime config, filling defaults
func NewServeConf(cfg global.JSONConfig) (config Config, err error) {
	// Network settings
	config.ListenAddr = cfg.Server.Address
	config.ListenPort = cfg.Server.Port
	config.ReusePort = cfg.Server.ReusePort
	config.StreamOrigins = cfg.Server.StreamOrigins

	if config.ListenPort < 0 || config.ListenPort > 65535 {
		err = fmt.Errorf("invalid server port %d", config.ListenPort)
		return
	}

	// Legacy decoding
	if cfg.Legacy.TimeZone != "" {
		config.Location, err = time.LoadLocation(cfg.Legacy.TimeZone)
		if err != nil {
			err = fmt.Errorf("failed to load legacy time zone '%s': %v", cfg.Legacy.TimeZone, err)
			return
		}
	}

	// Metric settings
	config.MetricsEnabled = cfg.Metrics.Enabled
	config.MetricsPath = cfg.Metrics.Path
	if config.MetricsPath != "" && !strings.HasPrefix(config.MetricsPath, "/") {
		err = fmt.Errorf("metrics path '%s' must start with '/'", config.MetricsPath)
		return
	}

	// Output settings
	config.OutputFormat = strings.ToLower(cfg.Output.Format)
	if config.OutputFormat != "" {
		err = ValidateFormat(config.OutputFormat)
		if err != nil {
			return
		}
	}

	config.LogLevel = cfg.Logging.Level
	if config.LogLevel < global.VerbosityNone || config.LogLevel > global.VerbosityDebug {
		err = fmt.Errorf("log level %d out of range %d-%d", config.LogLevel, global.VerbosityNone, global.VerbosityDebug)
		return
	}

	config.SetDefaults()
	return
}

// Rejects unknown output formats
func ValidateFormat(format string) (err error) {
	switch format {
	case global.FormatText, global.FormatJSON, global.FormatMsgpack:
	default:
		err = fmt.Errorf("unknown output format '%s' (expected %s, %s or %s)",
			format, global.FormatText, global.FormatJSON, global.FormatMsgpack)
	}
	return
}

// Sets defaults for any missing values
func (cfg *Config) SetDefaults() {
	// Network
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = global.DefaultServerAddr
	}
	if cfg.ListenPort == 0 {
		cfg.ListenPort = global.DefaultServerPort
	}

	// Legacy
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	// Metrics
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = global.DefaultMetricsPath
	}
}

// Default runtime config when no file is present
func Default() (config Config) {
	config.SetDefaults()
	return
}
