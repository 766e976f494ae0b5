// Package main provides tests for the defineview CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SDen99/DatasetViewer-sub000/internal/cli"
	"github.com/SDen99/DatasetViewer-sub000/internal/cli/config"
)

func testdataDefine(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	return filepath.Join(wd, "..", "..", "testdata", "define.xml")
}

// run executes the root command from an empty directory so no project
// config is picked up.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, err := run(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "defineview") {
		t.Errorf("version output should contain 'defineview', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, err := run(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"summary", "datasets", "vlm", "cell", "check", "export", "serve"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestSummaryCommand(t *testing.T) {
	define := testdataDefine(t)

	output, err := run(t, "summary", define, "--output", "markdown")
	if err != nil {
		t.Fatalf("summary command error = %v", err)
	}
	if !strings.Contains(output, "TEST-001") {
		t.Errorf("summary output should contain the study name, got: %s", output)
	}
}

func TestDatasetsCommand(t *testing.T) {
	define := testdataDefine(t)

	output, err := run(t, "datasets", define, "--output", "markdown")
	if err != nil {
		t.Fatalf("datasets command error = %v", err)
	}
	for _, name := range []string{"ADSL", "ADVS"} {
		if !strings.Contains(output, name) {
			t.Errorf("datasets output should contain '%s', got: %s", name, output)
		}
	}
}

func TestVLMCommandJSON(t *testing.T) {
	define := testdataDefine(t)

	output, err := run(t, "vlm", define, "ADVS", "--output", "json")
	if err != nil {
		t.Fatalf("vlm command error = %v", err)
	}

	var result struct {
		Dataset string            `json:"dataset"`
		Rows    []json.RawMessage `json:"rows"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("vlm output is not JSON: %v\n%s", err, output)
	}
	if len(result.Rows) != 4 {
		t.Errorf("expected 4 rows, got %d", len(result.Rows))
	}
}

func TestVLMCommandUnknownDataset(t *testing.T) {
	define := testdataDefine(t)

	if _, err := run(t, "vlm", define, "ADXX"); err == nil {
		t.Error("unknown dataset should return an error")
	}
}

func TestCheckCommand(t *testing.T) {
	define := testdataDefine(t)

	output, err := run(t, "check", define, "--output", "markdown")
	if err != nil {
		t.Errorf("check command error = %v", err)
	}
	if !strings.Contains(output, "Health Score") {
		t.Errorf("check output should contain a health score, got: %s", output)
	}
}

func TestExportCommand(t *testing.T) {
	define := testdataDefine(t)
	dbPath := filepath.Join(t.TempDir(), "export.db")

	if _, err := run(t, "export", define, "--database", dbPath); err != nil {
		t.Fatalf("export command error = %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("export database was not created: %v", err)
	}

	output, err := run(t, "exports", "--database", dbPath, "--output", "markdown")
	if err != nil {
		t.Fatalf("exports command error = %v", err)
	}
	if !strings.Contains(output, "TEST-001") {
		t.Errorf("exports output should list the export, got: %s", output)
	}
}

func TestCompletionCommand(t *testing.T) {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			if _, err := run(t, "completion", shell); err != nil {
				t.Errorf("completion %s command error = %v", shell, err)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := run(t, "unknown-command"); err == nil {
		t.Error("unknown command should return an error")
	}
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
