package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInit_WritesToFile(t *testing.T) {
	dir := t.TempDir()
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer devNull.Close()

	previous := log.Logger
	defer func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}()

	path, err := Init(Options{Verbose: true, Dir: dir, Console: devNull})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if path != filepath.Join(dir, FileName) {
		t.Errorf("log file = %s", path)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("verbose should enable debug, got %s", zerolog.GlobalLevel())
	}

	log.Debug().Str("workspace", "acme").Msg("probe message")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"message":"probe message"`) || !strings.Contains(string(data), `"workspace":"acme"`) {
		t.Errorf("log file does not contain the structured entry:\n%s", data)
	}
}

func TestInit_UnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Init(Options{Dir: filepath.Join(file, "logs")}); err == nil {
		t.Error("expected an error when the log dir cannot be created")
	}
}
