package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(context.Background(), append([]string{"tonic"}, args...))
	return out.String(), err
}

// emptyConfig writes a config that keeps the defaults but moves the formula
// dir into a temp dir.
func emptyConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TONIC_FORMULAS_DIR", filepath.Join(dir, "formulas"))
	path := filepath.Join(dir, "config.yaml")
	content := "formulas:\n  dir: ${TONIC_FORMULAS_DIR}\n  watch: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClassifyCommand(t *testing.T) {
	out, err := runApp(t, "classify", "0", "6", "12")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{
		"0\tP1\tPerfect Unison",
		"6\td5\tDiminished Fifth\tTritone",
		"12\tP8\tPerfect Octave",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines: %q", len(lines), out)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestClassifyCommand_Errors(t *testing.T) {
	if _, err := runApp(t, "classify"); err == nil {
		t.Error("expected error with no arguments")
	}
	if _, err := runApp(t, "classify", "4", "x"); err == nil {
		t.Error("expected error for non-integer argument")
	}
	if _, err := runApp(t, "classify", "4", "13"); err == nil {
		t.Error("expected error for out of range argument")
	}
}

func TestChainCommand(t *testing.T) {
	out, err := runApp(t, "chain", "--root", "C4", "4", "3")
	if err != nil {
		t.Fatalf("chain: %v", err)
	}
	if strings.TrimSpace(out) != "C4 E4 G4" {
		t.Errorf("chain output = %q", out)
	}
}

func TestChordCommand(t *testing.T) {
	cfg := emptyConfig(t)

	out, err := runApp(t, "--config", cfg, "chord", "--root", "C4", "--formula", "maj")
	if err != nil {
		t.Fatalf("chord: %v", err)
	}
	if !strings.Contains(out, "C4 major: C4 E4 G4") {
		t.Errorf("chord output = %q", out)
	}
}

func TestChordCommandUnknownFormula(t *testing.T) {
	cfg := emptyConfig(t)
	if _, err := runApp(t, "--config", cfg, "chord", "--formula", "nope"); err == nil {
		t.Error("expected error for unknown formula")
	}
}

func TestFormulasCommandReadsDirectory(t *testing.T) {
	cfg := emptyConfig(t)
	dir := os.Getenv("TONIC_FORMULAS_DIR")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	doc := "formulas:\n  - name: power\n    kind: chord\n    steps: [7, 5]\n"
	if err := os.WriteFile(filepath.Join(dir, "power.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runApp(t, "--config", cfg, "formulas", "--kind", "chord")
	if err != nil {
		t.Fatalf("formulas: %v", err)
	}
	if !strings.Contains(out, "power") {
		t.Errorf("user formula missing from %q", out)
	}
	if strings.Contains(out, "dorian") {
		t.Errorf("scale listed under chord filter: %q", out)
	}
}
