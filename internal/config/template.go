package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"msgidscope/internal/global"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Replaced in tests
var (
	isTerminal           = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	promptIn   io.Reader = os.Stdin
	promptOut  io.Writer = os.Stdout
)

// Template config with every option populated
func Template() (newCfg global.JSONConfig) {
	newCfg.Server.Address = global.DefaultServerAddr
	newCfg.Server.Port = global.DefaultServerPort
	newCfg.Server.ReusePort = false
	newCfg.Legacy.TimeZone = "Asia/Shanghai"
	newCfg.Metrics.Enabled = true
	newCfg.Metrics.Path = global.DefaultMetricsPath
	newCfg.Output.Format = global.FormatJSON
	newCfg.Logging.Level = global.VerbosityStandard
	return
}

// Writes the template config, asking before overwriting an existing file.
// Without a terminal an existing file is never overwritten.
// Returns written=false when the user (or lack of terminal) declined.
func CreateTemplateConfig(path string) (written bool, err error) {
	if path == "" {
		err = fmt.Errorf("specify template file path via the --config/-c arguments")
		return
	}

	_, err = os.Stat(path)
	if err == nil {
		if !isTerminal() {
			fmt.Fprintf(promptOut, "Existing configuration file present, not overwriting\n")
			return
		}

		fmt.Fprintf(promptOut, "Configuration file already exists at '%s'. Are you SURE you want to overwrite it? (yes/no): ", path)
		reader := bufio.NewReader(promptIn)
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		if strings.ToLower(input) != "yes" {
			fmt.Fprintf(promptOut, "Not overwriting configuration file\n")
			return
		}
	} else if !os.IsNotExist(err) {
		err = fmt.Errorf("failed checking config file existence: %v", err)
		return
	}
	err = nil

	var confBytes []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		confBytes, err = yaml.Marshal(Template())
	default:
		confBytes, err = json.MarshalIndent(Template(), "", "  ")
		confBytes = append(confBytes, '\n')
	}
	if err != nil {
		err = fmt.Errorf("error marshaling new config: %v", err)
		return
	}

	err = os.WriteFile(path, confBytes, 0644)
	if err != nil {
		err = fmt.Errorf("failed to write config to file: %v", err)
		return
	}

	written = true
	return
}
