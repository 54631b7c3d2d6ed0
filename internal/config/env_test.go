package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("ADDR_TEST_STR", "value")
	t.Setenv("ADDR_TEST_INT", "42")
	t.Setenv("ADDR_TEST_BAD_INT", "forty")
	t.Setenv("ADDR_TEST_FLOAT", "0.75")
	t.Setenv("ADDR_TEST_BOOL", "yes")
	t.Setenv("ADDR_TEST_BAD_BOOL", "maybe")

	if got := GetEnv("ADDR_TEST_STR", "x"); got != "value" {
		t.Errorf("GetEnv() = %v, want %v", got, "value")
	}
	if got := GetEnv("ADDR_TEST_UNSET", "x"); got != "x" {
		t.Errorf("GetEnv() = %v, want %v", got, "x")
	}
	if got := GetEnvInt("ADDR_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt() = %v, want %v", got, 42)
	}
	if got := GetEnvInt("ADDR_TEST_BAD_INT", 1); got != 1 {
		t.Errorf("GetEnvInt() = %v, want %v", got, 1)
	}
	if got := GetEnvFloat("ADDR_TEST_FLOAT", 0); got != 0.75 {
		t.Errorf("GetEnvFloat() = %v, want %v", got, 0.75)
	}
	if got := GetEnvBool("ADDR_TEST_BOOL", false); !got {
		t.Errorf("GetEnvBool() = %v, want %v", got, true)
	}
	if got := GetEnvBool("ADDR_TEST_BAD_BOOL", true); !got {
		t.Errorf("GetEnvBool() = %v, want default %v", got, true)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "# comment\nADDR_TEST_FROM_FILE=loaded\nADDR_TEST_PRESET=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ADDR_TEST_PRESET", "from-env")
	t.Setenv("ADDR_TEST_FROM_FILE", "")
	os.Unsetenv("ADDR_TEST_FROM_FILE")

	if err := LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if got := os.Getenv("ADDR_TEST_FROM_FILE"); got != "loaded" {
		t.Errorf("ADDR_TEST_FROM_FILE = %q, want %q", got, "loaded")
	}
	if got := os.Getenv("ADDR_TEST_PRESET"); got != "from-env" {
		t.Errorf("existing variable overwritten: %q", got)
	}

	if err := LoadConfig(filepath.Join(dir, "absent.env")); err == nil {
		t.Error("LoadConfig() expected error for explicit missing file")
	}
}

func TestLexiconPathDefault(t *testing.T) {
	t.Setenv("LEXICON_PATH", "")
	if got := LexiconPath(); got != "data/parsing_lists.json" {
		t.Errorf("LexiconPath() = %q", got)
	}
}
