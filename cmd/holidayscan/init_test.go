package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/holidayscan/internal/config"
)

func TestInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates config file", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), ".holidayscan")

		cmd := NewInitCmd()
		cmd.SetArgs([]string{"-o", outputPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("config file not created: %v", err)
		}
		if !strings.Contains(string(content), "sources:") {
			t.Errorf("template missing sources section:\n%s", content)
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), ".holidayscan")
		if err := os.WriteFile(outputPath, []byte("existing"), 0600); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		cmd := NewInitCmd()
		cmd.SetArgs([]string{"-o", outputPath})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for existing file")
		}
	})

	t.Run("force overwrites existing file", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), ".holidayscan")
		if err := os.WriteFile(outputPath, []byte("existing"), 0600); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		cmd := NewInitCmd()
		cmd.SetArgs([]string{"-o", outputPath, "-f"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read config file: %v", err)
		}
		if string(content) == "existing" {
			t.Error("file should have been overwritten")
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

		cmd := NewInitCmd()
		cmd.SetArgs([]string{"-o", outputPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(outputPath); err != nil {
			t.Errorf("config file not created in nested directory: %v", err)
		}
	})

	t.Run("template is valid for the loader", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), ".holidayscan")

		cmd := NewInitCmd()
		cmd.SetArgs([]string{"-o", outputPath})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// The generated template must parse with the config loader.
		if _, err := config.LoadConfigFile(outputPath); err != nil {
			t.Errorf("generated template does not parse: %v", err)
		}
	})
}
