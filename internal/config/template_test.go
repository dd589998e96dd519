package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func withPrompt(t *testing.T, terminal bool, answer string) (output *bytes.Buffer) {
	t.Helper()
	origTerminal, origIn, origOut := isTerminal, promptIn, promptOut

	output = &bytes.Buffer{}
	isTerminal = func() bool { return terminal }
	promptIn = strings.NewReader(answer)
	promptOut = output

	t.Cleanup(func() {
		isTerminal, promptIn, promptOut = origTerminal, origIn, origOut
	})
	return
}

func TestCreateTemplateConfigRoundTrip(t *testing.T) {
	for _, name := range []string{"msgidscope.json", "msgidscope.yml"} {
		t.Run(name, func(t *testing.T) {
			withPrompt(t, false, "")
			path := filepath.Join(t.TempDir(), name)

			written, err := CreateTemplateConfig(path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !written {
				t.Fatalf("expected new file to be written")
			}

			cfg, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("template does not load back: %v", err)
			}
			if !reflect.DeepEqual(cfg, Template()) {
				t.Errorf("loaded %+v, want %+v", cfg, Template())
			}

			_, err = NewServeConf(cfg)
			if err != nil {
				t.Errorf("template does not validate: %v", err)
			}
		})
	}
}

func TestCreateTemplateConfigExisting(t *testing.T) {
	tests := []struct {
		name          string
		terminal      bool
		answer        string
		expectWritten bool
		expectPrompt  string
	}{
		{"No terminal never overwrites", false, "yes\n", false, "not overwriting"},
		{"User declines", true, "no\n", false, "Not overwriting"},
		{"User confirms", true, "YES\n", true, "Are you SURE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := withPrompt(t, tt.terminal, tt.answer)
			path := filepath.Join(t.TempDir(), "msgidscope.json")
			err := os.WriteFile(path, []byte("keep me"), 0644)
			if err != nil {
				t.Fatalf("setup failed: %v", err)
			}

			written, err := CreateTemplateConfig(path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if written != tt.expectWritten {
				t.Errorf("written = %v, want %v", written, tt.expectWritten)
			}
			if !strings.Contains(output.String(), tt.expectPrompt) {
				t.Errorf("output %q missing %q", output.String(), tt.expectPrompt)
			}

			content, _ := os.ReadFile(path)
			if tt.expectWritten == (string(content) == "keep me") {
				t.Errorf("file content after run: %q", content)
			}
		})
	}
}

func TestCreateTemplateConfigNoPath(t *testing.T) {
	_, err := CreateTemplateConfig("")
	if err == nil {
		t.Fatalf("expected error for empty path")
	}
}
